// Package leaderboard keeps the top scores and the all-time high score.
//
// Scores are stored as a YAML document in a gdata object property so they
// survive restarts. Every failure to read or write is soft: the game keeps
// running with whatever is in memory.
package leaderboard

import (
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// MaxRecords is how many entries the leaderboard keeps.
const MaxRecords = 3

// Storage location inside the gdata app directory.
const (
	scoresObject   = "leaderboard"
	scoresProperty = "scores"
)

// Record is one leaderboard entry.
type Record struct {
	Name  string `yaml:"name" json:"name"`
	Score int    `yaml:"score" json:"score"`
}

// Snapshot is the persisted leaderboard document.
type Snapshot struct {
	Scores    []Record `yaml:"scores" json:"scores"`
	HighScore int      `yaml:"high_score" json:"high_score"`
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{Scores: slices.Clone(s.Scores), HighScore: s.HighScore}
}

// Insert adds rec to records and returns the best MaxRecords entries in
// descending score order. Existing entries win ties. The input is not modified.
func Insert(records []Record, rec Record) []Record {
	out := make([]Record, 0, len(records)+1)
	out = append(out, records...)
	out = append(out, rec)
	slices.SortStableFunc(out, func(a, b Record) int {
		return b.Score - a.Score
	})
	if len(out) > MaxRecords {
		out = out[:MaxRecords]
	}
	return out
}

// Backend is the persistence surface the store needs. *gdata.Manager
// satisfies it.
type Backend interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

var _ Backend = (*gdata.Manager)(nil)

// Store is a leaderboard shared by every game in the process.
// It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	backend Backend // nil means memory only
	current Snapshot
}

// NewStore creates a store over backend. A nil backend keeps scores in
// memory only.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Open creates a store persisted in the per-user data directory of appName.
// If the directory cannot be used the store falls back to memory.
func Open(appName string) *Store {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Warn("Leaderboard storage unavailable, scores will not persist", "app", appName, "err", err)
		return NewStore(nil)
	}
	return NewStore(manager)
}

// Load returns the current leaderboard. Missing or malformed data yields an
// empty leaderboard with high score 0.
func (s *Store) Load() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(); err != nil {
		log.Warn("Failed to load leaderboard, using empty one", "err", err)
	}
	return s.current.clone()
}

// Submit records a finished game and persists the result. The returned
// snapshot reflects the new entry even if saving failed.
func (s *Store) Submit(rec Record) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(); err != nil {
		log.Warn("Failed to load leaderboard before submit", "err", err)
	}

	s.current.Scores = Insert(s.current.Scores, rec)
	s.current.HighScore = max(s.current.HighScore, rec.Score)

	err := s.save()
	return s.current.clone(), err
}

// reload refreshes the in-memory snapshot from the backend. On error the
// snapshot is reset to empty.
func (s *Store) reload() error {
	if s.backend == nil {
		return nil
	}
	if !s.backend.ObjectPropExists(scoresObject, scoresProperty) {
		s.current = Snapshot{}
		return nil
	}

	data, err := s.backend.LoadObjectProp(scoresObject, scoresProperty)
	if err != nil {
		s.current = Snapshot{}
		return fmt.Errorf("failed to read leaderboard: %w", err)
	}

	var loaded Snapshot
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		s.current = Snapshot{}
		return fmt.Errorf("failed to unmarshal leaderboard: %w", err)
	}

	s.current = normalize(loaded)
	return nil
}

func (s *Store) save() error {
	if s.backend == nil {
		return nil
	}

	data, err := yaml.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}
	if err := s.backend.SaveObjectProp(scoresObject, scoresProperty, data); err != nil {
		return fmt.Errorf("failed to save leaderboard: %w", err)
	}
	return nil
}

// normalize repairs hand-edited documents: entries are re-sorted and
// truncated, and the high score is at least the best entry.
func normalize(s Snapshot) Snapshot {
	var scores []Record
	for _, r := range s.Scores {
		if r.Score < 0 {
			continue
		}
		scores = Insert(scores, r)
	}
	high := max(s.HighScore, 0)
	if len(scores) > 0 {
		high = max(high, scores[0].Score)
	}
	return Snapshot{Scores: scores, HighScore: high}
}
