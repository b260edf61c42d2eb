package config

import "time"

// Game configuration constants.
// All tunable game parameters are centralized here for easy adjustment.

// Play field, in logical units. Rendering scales to fit the terminal.
const (
	FieldWidth  = 400
	FieldHeight = 600
)

// Fruit
const (
	FruitSize   = 30
	SpawnMargin = 20 // Minimum distance between a new fruit and the side walls
)

// Basket
const (
	BasketWidth    = 80
	BasketHeight   = 20
	BasketFloorGap = 10 // Gap between the basket bottom and the field floor
	BasketStep     = 30 // Horizontal shift per key press
	ExpandFactor   = 1.5
)

// Player
const (
	InitialLives  = 5
	MaxLives      = 5
	DefaultName   = "Guest"
	MaxNameLength = 16 // Maximum runes accepted by the name prompt
)

// Timing
const (
	TickInterval      = 30 * time.Millisecond // Fall loop
	ClockInterval     = time.Second           // Elapsed time counter
	PowerUpDuration   = 5 * time.Second
	FadeSteps         = 10
	FadeStepInterval  = 40 * time.Millisecond
	LevelNoticeLength = 2 * time.Second
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 100
	MaxTermHeight         = 50
	MaxFrameDelta         = 250 * time.Millisecond // Longer stalls are not replayed
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)
