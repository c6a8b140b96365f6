package life

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// Radius is the visual radius of a particle in world units.
	Radius = 5.0
	// Diameter is also the repel distance of a kind against itself.
	Diameter = 2 * Radius
)

// SymmetricProperties hold the per-pair thresholds shared by both directions
// of a kind pair.
type SymmetricProperties struct {
	// RepelDistance is the distance below which particles begin to
	// unconditionally repel each other.
	RepelDistance float64
	// InfluenceRadius is the distance above which particles have no
	// influence on each other.
	InfluenceRadius float64
	// InfluenceRadiusSq caches InfluenceRadius² for the pair rejection test.
	InfluenceRadiusSq float64
}

// Kinds is the generated parameter table for one seeding: a color per kind,
// the full asymmetric attraction matrix and the triangular table of
// symmetric pair properties.
type Kinds struct {
	Colors      []colorful.Color
	Attractions []float64             // row-major, len Count()²
	Symmetric   []SymmetricProperties // triangular, len Count()·(Count()+1)/2
}

// NewKinds samples a parameter table from the settings' distributions.
// The same settings and rng stream reproduce the same table exactly.
func NewKinds(s Settings, rng *rand.Rand) (*Kinds, error) {
	if s.Kinds < 1 {
		return nil, ErrNoKinds
	}

	num := s.Kinds
	k := &Kinds{
		Colors:      make([]colorful.Color, 0, num),
		Attractions: make([]float64, 0, num*num),
		Symmetric:   make([]SymmetricProperties, 0, num*(num+1)/2),
	}

	for i := 0; i < num; i++ {
		k.Colors = append(k.Colors, kindColor(i, num))

		for j := 0; j < num; j++ {
			attraction := s.Attraction.Sample(rng)
			if i == j {
				// A kind always repels itself.
				attraction = -math.Abs(attraction)
			}
			k.Attractions = append(k.Attractions, attraction)

			if j <= i {
				repel := Diameter
				if i != j {
					repel = math.Max(s.RepelDistance.Sample(rng), Diameter)
				}
				influence := s.InfluenceRadius.Sample(rng)
				if influence < repel {
					influence = repel
				}
				k.Symmetric = append(k.Symmetric, SymmetricProperties{
					RepelDistance:     repel,
					InfluenceRadius:   influence,
					InfluenceRadiusSq: influence * influence,
				})
			}
		}
	}

	return k, nil
}

func (k *Kinds) Count() int { return len(k.Colors) }

// Attraction is the signed force kind i exerts towards kind j. It is not
// required to equal Attraction(j, i).
func (k *Kinds) Attraction(i, j int) float64 {
	return k.Attractions[i*len(k.Colors)+j]
}

// Pair returns the symmetric properties of an unordered kind pair.
func (k *Kinds) Pair(i, j int) SymmetricProperties {
	if j > i {
		i, j = j, i
	}
	return k.Symmetric[i*(i+1)/2+j]
}

// Palette computes the colors assigned to n kinds without sampling anything:
// hues evenly spaced around the color wheel, alternating between half and
// full brightness so that neighbors stay distinguishable.
func Palette(n int) []colorful.Color {
	colors := make([]colorful.Color, 0, n)
	for i := 0; i < n; i++ {
		colors = append(colors, kindColor(i, n))
	}
	return colors
}

func kindColor(i, n int) colorful.Color {
	value := 0.5
	if i%2 == 1 {
		value = 1.0
	}
	return colorful.Hsv(360.0/float64(n)*float64(i), 1.0, value)
}
