package draw

import (
	crand "crypto/rand"
	"fmt"
	"math/big"

	"colorrush/internal/domain"
)

// Drawer selects round outcomes by weighted random draw. The weight
// table is fixed at construction; the rng is injectable for testing.
type Drawer struct {
	weights map[domain.Color]float64
	rng     func() float64
}

// New creates a Drawer over the given weight table. A nil weights map
// falls back to domain.DefaultWeights; a nil rng falls back to a
// crypto-seeded source.
func New(weights map[domain.Color]float64, rng func() float64) *Drawer {
	if weights == nil {
		weights = domain.DefaultWeights
	}
	if rng == nil {
		rng = secureRandomFloat
	}
	return &Drawer{weights: weights, rng: rng}
}

// Draw picks a color by walking the cumulative weight distribution in
// canonical color order. Unweighted colors are skipped; the final color
// with nonzero weight absorbs any floating-point shortfall.
func (d *Drawer) Draw() domain.Color {
	total := 0.0
	for _, c := range domain.Colors {
		total += d.weights[c]
	}

	roll := d.rng() * total

	cumulative := 0.0
	last := domain.Colors[0]
	for _, c := range domain.Colors {
		w := d.weights[c]
		if w <= 0 {
			continue
		}
		cumulative += w
		last = c
		if roll < cumulative {
			return c
		}
	}
	return last
}

// secureRandomFloat returns a uniform value in [0, 1) from crypto/rand.
func secureRandomFloat() float64 {
	const precision = 1 << 53
	n, err := crand.Int(crand.Reader, big.NewInt(precision))
	if err != nil {
		panic(fmt.Sprintf("draw: rng failure: %v", err))
	}
	return float64(n.Int64()) / precision
}
