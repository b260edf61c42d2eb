package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect in field coordinates.
type Particle struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity in field units per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
	Gravity     float64 // Downward acceleration in field units per second²
	Color       colorful.Color
	Fade        colorful.Color // Colour the particle blends towards as it dies
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64, col colorful.Color) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.95
	p.Gravity = 0
	p.Color = col
	p.Fade = col
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnCatchBurst sprays particles upward from a catch point in the fruit's
// colour. They fade towards the background and fall back under gravity.
func SpawnCatchBurst(x, y float64, count int, speed, lifetime float64, col, bg colorful.Color, spawner Spawner) {
	if spawner == nil {
		return
	}

	for i := 0; i < count; i++ {
		// Upper half-circle
		angle := math.Pi + rand.Float64()*math.Pi
		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + rand.Float64())
		// Random lifetime variation (50% to 100%)
		life := lifetime * (0.5 + rand.Float64()*0.5)

		p := NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life, col)
		p.Gravity = speed * 2
		p.Fade = bg
		spawner.Spawn(p)
	}
}

// SpawnMissSplash creates a flat splash along the floor where a fruit landed.
func SpawnMissSplash(x, y float64, count int, col, bg colorful.Color, spawner Spawner) {
	if spawner == nil {
		return
	}

	for i := 0; i < count; i++ {
		dir := 1.0
		if i%2 == 0 {
			dir = -1
		}
		speed := 60 + rand.Float64()*60
		lifetime := 0.2 + rand.Float64()*0.2

		p := NewParticle(x, y, dir*speed, -rand.Float64()*20, lifetime, col)
		p.Drag = 0.85
		p.Fade = bg
		spawner.Spawn(p)
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true, nil
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor
	p.VY += p.Gravity * dt

	p.X += p.VX * dt
	p.Y += p.VY * dt

	return false, nil
}

// Draw renders the particle as a pixel on the canvas, blended towards its
// fade colour by the fraction of lifetime used.
func (p *Particle) Draw(ctx DrawContext) error {
	col := p.Color
	if p.MaxLifetime > 0 {
		used := 1 - p.Lifetime/p.MaxLifetime
		col = p.Color.BlendRgb(p.Fade, used)
	}
	ctx.Canvas.SetFloat(p.X, p.Y, col)
	return nil
}
