package object

import (
	"io"
	"time"

	"github.com/tomz197/fruitcatcher/internal/draw"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration
	Spawner Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // Field canvas in logical field coordinates
	Writer io.Writer    // Direct terminal output (for text overlays)
}

// Drawable is anything that can render itself onto the field.
type Drawable interface {
	Draw(ctx DrawContext) error
}

// Object is a drawable and updatable effect living on the front end only.
// Game state entities (fruit, basket) are Drawable but are advanced by the
// session, not by Update.
type Object interface {
	Drawable

	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink returns true if an object with remaining effect time
// should be rendered this frame. Always true once remainingTime <= 0.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}
