package object

import (
	"math/rand"

	"github.com/tomz197/fruitcatcher/internal/catalog"
)

// FruitSpawner creates fruit with a random kind, shape and column.
type FruitSpawner struct {
	fruits []catalog.FruitSpec
	rng    *rand.Rand

	fieldWidth float64
	size       float64
	margin     float64
}

// NewFruitSpawner creates a spawner drawing from the given fruit kinds.
// Fruit start at an integral x in [margin, fieldWidth-size-margin].
func NewFruitSpawner(fruits []catalog.FruitSpec, rng *rand.Rand, fieldWidth, size, margin float64) *FruitSpawner {
	return &FruitSpawner{
		fruits:     fruits,
		rng:        rng,
		fieldWidth: fieldWidth,
		size:       size,
		margin:     margin,
	}
}

// Spawn returns a new fruit at the top of the field. Kind and shape are
// uniform over their sets.
func (s *FruitSpawner) Spawn() *Fruit {
	kind := s.fruits[s.rng.Intn(len(s.fruits))]
	shape := Shapes[s.rng.Intn(len(Shapes))]

	lo := int(s.margin)
	hi := int(s.fieldWidth - s.size - s.margin)
	x := lo
	if hi > lo {
		x = lo + s.rng.Intn(hi-lo+1)
	}

	return NewFruit(kind, shape, float64(x), s.size)
}
