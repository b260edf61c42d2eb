// Package audio plays the looping background music.
//
// Playback is best effort: if the output device or the music file cannot be
// opened, Music stays silent and every call is a no-op.
package audio

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/fruitcatcher/internal/config"
)

const sampleRate = beep.SampleRate(44100)

// Config controls background music.
type Config struct {
	Enabled bool
	File    string  // MP3 to loop; a synthesized pad is used when missing
	Volume  float64 // Linear gain, 1 = unchanged
}

// ConfigFromEnv reads FRUIT_AUDIO, FRUIT_MUSIC_FILE and FRUIT_MUSIC_VOLUME.
func ConfigFromEnv() Config {
	vol, err := parseVolume(config.GetEnv("FRUIT_MUSIC_VOLUME", "0.5"))
	if err != nil {
		log.Warn("Ignoring invalid FRUIT_MUSIC_VOLUME", "err", err)
		vol = 0.5
	}
	return Config{
		Enabled: config.GetEnvBool("FRUIT_AUDIO", true),
		File:    config.GetEnv("FRUIT_MUSIC_FILE", "background.mp3"),
		Volume:  vol,
	}
}

func parseVolume(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse volume %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("volume must be >= 0, got %v", v)
	}
	return v, nil
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker opens the output device once per process.
func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	return speakerErr
}

// Music is a pausable background loop. The zero value is silent.
type Music struct {
	mu      sync.Mutex
	ctrl    *beep.Ctrl
	closer  io.Closer
	started bool
}

// New prepares background music. Failures are logged and yield silent music.
func New(cfg Config) *Music {
	m := &Music{}
	if !cfg.Enabled {
		return m
	}

	if err := initSpeaker(); err != nil {
		log.Warn("Audio device unavailable, music disabled", "err", err)
		return m
	}

	streamer, closer := loadStreamer(cfg)
	m.ctrl = &beep.Ctrl{Streamer: newVolume(streamer, cfg.Volume), Paused: true}
	m.closer = closer
	return m
}

// loadStreamer returns a looping stream of cfg.File, or the synthesized pad
// when the file cannot be used.
func loadStreamer(cfg Config) (beep.Streamer, io.Closer) {
	if cfg.File == "" {
		return newPad(), nil
	}

	f, err := os.Open(cfg.File)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Failed to open music file, using synthesized loop", "file", cfg.File, "err", err)
		}
		return newPad(), nil
	}

	decoded, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		log.Warn("Failed to decode music file, using synthesized loop", "file", cfg.File, "err", err)
		return newPad(), nil
	}

	var s beep.Streamer = beep.Loop(-1, decoded)
	if format.SampleRate != sampleRate {
		s = beep.Resample(4, format.SampleRate, sampleRate, s)
	}
	return s, decoded
}

// newPad builds a soft two-tone drone (A3 + E4).
func newPad() beep.Streamer {
	root, err := generators.SineTone(sampleRate, 220)
	if err != nil {
		return beep.Silence(-1)
	}
	fifth, err := generators.SineTone(sampleRate, 330)
	if err != nil {
		return beep.Silence(-1)
	}
	return beep.Mix(newVolume(root, 0.12), newVolume(fifth, 0.06))
}

// newVolume wraps s with a linear gain; 0 is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Active reports whether music will actually be heard.
func (m *Music) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctrl != nil
}

// Play starts or restarts the loop.
func (m *Music) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil {
		return
	}
	if !m.started {
		speaker.Play(m.ctrl)
		m.started = true
	}
	m.setPaused(false)
}

// Pause silences the loop, keeping its position.
func (m *Music) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil {
		return
	}
	m.setPaused(true)
}

// Resume continues a paused loop.
func (m *Music) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil || !m.started {
		return
	}
	m.setPaused(false)
}

func (m *Music) setPaused(paused bool) {
	speaker.Lock()
	m.ctrl.Paused = paused
	speaker.Unlock()
}

// Close stops playback and releases the music file.
func (m *Music) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil {
		return nil
	}
	m.setPaused(true)
	m.ctrl = nil
	if m.closer != nil {
		return m.closer.Close()
	}
	return nil
}
