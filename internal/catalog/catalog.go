// Package catalog holds the static game tables: fruit kinds, the level
// table with its backgrounds, and the difficulty multipliers.
// Tables are immutable once loaded and are passed by pointer into sessions.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Power is the optional effect attached to a fruit kind.
type Power string

const (
	PowerNone         Power = ""
	PowerExpand       Power = "expand"
	PowerExtraLife    Power = "extra_life"
	PowerDoublePoints Power = "double_points"
)

// FruitSpec is one entry of the fruit catalog.
type FruitSpec struct {
	Name   string `yaml:"name"`
	Color  string `yaml:"color"` // Hex, e.g. "#ff0000"
	Points int    `yaml:"points"`
	Power  Power  `yaml:"power,omitempty"`
}

// RGB returns the fruit colour. Catalogs are validated on load, so the
// fallback to black only applies to hand-built specs.
func (f FruitSpec) RGB() colorful.Color {
	return parseColor(f.Color)
}

// Level is one row of the level table. A session sits at the first row whose
// NextScore exceeds its score.
type Level struct {
	Level      int     `yaml:"level"`
	Speed      float64 `yaml:"speed"` // Fall distance per tick before the difficulty factor
	NextScore  int     `yaml:"nextScore"`
	Background string  `yaml:"background"`
}

// Difficulty maps a selectable name to a speed multiplier.
type Difficulty struct {
	Name   string  `yaml:"name"`
	Factor float64 `yaml:"factor"`
}

// Catalog bundles every static table the game consults.
type Catalog struct {
	Fruits             []FruitSpec  `yaml:"fruits"`
	Levels             []Level      `yaml:"levels"`
	Difficulties       []Difficulty `yaml:"difficulties"`
	DefaultDifficulty  string       `yaml:"defaultDifficulty"`
	FallbackBackground string       `yaml:"fallbackBackground"`
	BasketColor        string       `yaml:"basketColor"`
}

// Default returns the built-in tables.
func Default() *Catalog {
	return &Catalog{
		Fruits: []FruitSpec{
			{Name: "red", Color: "#ff0000", Points: 1},
			{Name: "yellow", Color: "#ffff00", Points: 2},
			{Name: "green", Color: "#00ff00", Points: 3},
			{Name: "blue", Color: "#0000ff", Points: 0, Power: PowerExpand},
			{Name: "purple", Color: "#a020f0", Points: 5, Power: PowerExtraLife},
			{Name: "gold", Color: "#ffd700", Points: 10, Power: PowerDoublePoints},
		},
		Levels: []Level{
			{Level: 1, Speed: 5, NextScore: 10, Background: "#87ceeb"},   // skyblue
			{Level: 2, Speed: 7, NextScore: 20, Background: "#90ee90"},   // lightgreen
			{Level: 3, Speed: 9, NextScore: 35, Background: "#f0e68c"},   // khaki
			{Level: 4, Speed: 11, NextScore: 55, Background: "#e0ffff"},  // lightcyan
			{Level: 5, Speed: 13, NextScore: 80, Background: "#dda0dd"},  // plum
			{Level: 6, Speed: 15, NextScore: 110, Background: "#191970"}, // midnightblue
			{Level: 7, Speed: 18, NextScore: 150, Background: "#000000"}, // black
		},
		Difficulties: []Difficulty{
			{Name: "Easy", Factor: 1},
			{Name: "Medium", Factor: 1.5},
			{Name: "Hard", Factor: 2},
		},
		DefaultDifficulty:  "Medium",
		FallbackBackground: "#ffc0cb", // pink
		BasketColor:        "#a52a2a", // brown
	}
}

// Load reads a catalog from a YAML file and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog. Sections missing from the
// document keep their built-in values.
func Parse(data []byte) (*Catalog, error) {
	c := Default()
	override := Catalog{}
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	if override.Fruits != nil {
		c.Fruits = override.Fruits
	}
	if override.Levels != nil {
		c.Levels = override.Levels
	}
	if override.Difficulties != nil {
		c.Difficulties = override.Difficulties
	}
	if override.DefaultDifficulty != "" {
		c.DefaultDifficulty = override.DefaultDifficulty
	}
	if override.FallbackBackground != "" {
		c.FallbackBackground = override.FallbackBackground
	}
	if override.BasketColor != "" {
		c.BasketColor = override.BasketColor
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// Validate checks the tables for values the game cannot run with.
func (c *Catalog) Validate() error {
	if len(c.Fruits) == 0 {
		return fmt.Errorf("fruits cannot be empty")
	}
	for _, f := range c.Fruits {
		if f.Points < 0 {
			return fmt.Errorf("fruit %q has negative points %d", f.Name, f.Points)
		}
		if _, err := colorful.Hex(f.Color); err != nil {
			return fmt.Errorf("fruit %q has invalid color %q: %w", f.Name, f.Color, err)
		}
		switch f.Power {
		case PowerNone, PowerExpand, PowerExtraLife, PowerDoublePoints:
		default:
			return fmt.Errorf("fruit %q has unknown power %q", f.Name, f.Power)
		}
	}

	if len(c.Levels) == 0 {
		return fmt.Errorf("levels cannot be empty")
	}
	for i, l := range c.Levels {
		if l.Speed <= 0 {
			return fmt.Errorf("level %d must have a positive speed, got %v", l.Level, l.Speed)
		}
		if _, err := colorful.Hex(l.Background); err != nil {
			return fmt.Errorf("level %d has invalid background %q: %w", l.Level, l.Background, err)
		}
		if i == 0 {
			if l.Level != 1 {
				return fmt.Errorf("level table must start at level 1, got %d", l.Level)
			}
			continue
		}
		prev := c.Levels[i-1]
		if l.Level <= prev.Level || l.NextScore <= prev.NextScore {
			return fmt.Errorf("level table must be ascending at level %d", l.Level)
		}
	}

	if len(c.Difficulties) == 0 {
		return fmt.Errorf("difficulties cannot be empty")
	}
	found := false
	for _, d := range c.Difficulties {
		if d.Factor < 1 {
			return fmt.Errorf("difficulty %q must have a factor >= 1, got %v", d.Name, d.Factor)
		}
		if strings.EqualFold(d.Name, c.DefaultDifficulty) {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("default difficulty %q is not listed", c.DefaultDifficulty)
	}

	if _, err := colorful.Hex(c.FallbackBackground); err != nil {
		return fmt.Errorf("invalid fallback background %q: %w", c.FallbackBackground, err)
	}
	if _, err := colorful.Hex(c.BasketColor); err != nil {
		return fmt.Errorf("invalid basket color %q: %w", c.BasketColor, err)
	}
	return nil
}

// LevelFor returns the level row a score belongs to: the first row whose
// NextScore exceeds the score. Scores past the last threshold stay on the
// last row.
func (c *Catalog) LevelFor(score int) Level {
	for _, l := range c.Levels {
		if score < l.NextScore {
			return l
		}
	}
	return c.Levels[len(c.Levels)-1]
}

// Background returns the themed background for a level number.
func (c *Catalog) Background(level int) colorful.Color {
	for _, l := range c.Levels {
		if l.Level == level {
			return parseColor(l.Background)
		}
	}
	return parseColor(c.FallbackBackground)
}

// Basket returns the basket colour.
func (c *Catalog) Basket() colorful.Color {
	return parseColor(c.BasketColor)
}

// ParseDifficulty resolves a player's difficulty choice. Matching ignores case
// and surrounding spaces; anything unrecognised resolves to the default.
func (c *Catalog) ParseDifficulty(choice string) Difficulty {
	choice = strings.TrimSpace(choice)
	var fallback Difficulty
	for _, d := range c.Difficulties {
		if strings.EqualFold(d.Name, choice) {
			return d
		}
		if strings.EqualFold(d.Name, c.DefaultDifficulty) {
			fallback = d
		}
	}
	return fallback
}

// DifficultyNames lists the selectable difficulties in table order.
func (c *Catalog) DifficultyNames() []string {
	names := make([]string, len(c.Difficulties))
	for i, d := range c.Difficulties {
		names[i] = d.Name
	}
	return names
}

func parseColor(hex string) colorful.Color {
	col, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return col
}

// PlayerName normalises a typed player name; blank input becomes the default.
func PlayerName(name, def string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return def
	}
	return name
}
