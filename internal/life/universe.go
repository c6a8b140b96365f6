package life

import (
	"math"
	"math/rand"
)

// rSmooth shapes the close-range repulsion so it stays finite as the
// distance approaches zero.
const rSmooth = 2.0

// minDistSq rejects near-coincident pairs before normalizing the delta.
const minDistSq = 0.01

// Universe holds the live particle population and the parameter table it was
// seeded with, and advances them one tick at a time. It is not safe for
// concurrent use; the producer goroutine owns it exclusively.
type Universe struct {
	Width  float64
	Height float64
	Wrap   bool

	flatForce bool
	friction  float64

	rng *rand.Rand

	kinds     *Kinds
	particles []Particle
}

// NewUniverse creates an empty universe. Seed must be called before Step
// does anything useful.
func NewUniverse(width, height float64, rng *rand.Rand) *Universe {
	return &Universe{
		Width:  width,
		Height: height,
		rng:    rng,
	}
}

// Seed regenerates the parameter table and the whole population from the
// given settings. On error the previous state is left untouched.
func (u *Universe) Seed(s Settings) error {
	kinds, err := NewKinds(s, u.rng)
	if err != nil {
		return err
	}

	u.kinds = kinds
	u.friction = s.Friction
	u.flatForce = s.FlatForce

	u.particles = make([]Particle, s.Particles)
	for i := range u.particles {
		u.particles[i] = u.generateParticle()
	}
	return nil
}

// RandomizeParticles redraws every particle's kind, position and velocity
// while keeping the current parameter table and population size.
func (u *Universe) RandomizeParticles() {
	for i := range u.particles {
		u.particles[i] = u.generateParticle()
	}
}

func (u *Universe) generateParticle() Particle {
	var x, y float64
	if u.Wrap {
		x = u.rng.Float64() * u.Width
		y = u.rng.Float64() * u.Height
	} else {
		// Without wrapping, start in the middle half so the initial burst
		// does not immediately pile up against the walls.
		x = u.Width * (0.25 + 0.5*u.rng.Float64())
		y = u.Height * (0.25 + 0.5*u.rng.Float64())
	}
	return Particle{
		Kind: u.rng.Intn(u.kinds.Count()),
		X:    x,
		Y:    y,
		VX:   0.2 * u.rng.NormFloat64(),
		VY:   0.2 * u.rng.NormFloat64(),
	}
}

func (u *Universe) Resize(width, height float64) {
	u.Width = width
	u.Height = height
}

func (u *Universe) ToggleWrap() { u.Wrap = !u.Wrap }

func (u *Universe) Kinds() *Kinds { return u.kinds }

// Particles exposes the live slice; callers must not hold it across Step.
func (u *Universe) Particles() []Particle { return u.particles }

// Snapshot copies the population for hand-off across the channel boundary.
func (u *Universe) Snapshot() []Particle {
	out := make([]Particle, len(u.particles))
	copy(out, u.particles)
	return out
}

// Step advances the simulation one tick: accumulate pairwise forces into the
// velocities, then integrate positions and resolve boundaries.
func (u *Universe) Step() {
	ps := u.particles
	halfW, halfH := 0.5*u.Width, 0.5*u.Height

	for i := range ps {
		// Distance is symmetric, so each unordered pair is visited once and
		// both velocities are updated from the same delta.
		for j := i + 1; j < len(ps); j++ {
			p, q := &ps[i], &ps[j]

			dx := q.X - p.X
			dy := q.Y - p.Y
			if u.Wrap {
				// Minimal-image correction: interact across the nearer edge.
				if dx > halfW {
					dx -= u.Width
				} else if dx < -halfW {
					dx += u.Width
				}
				if dy > halfH {
					dy -= u.Height
				} else if dy < -halfH {
					dy += u.Height
				}
			}

			dist2 := dx*dx + dy*dy
			props := u.kinds.Pair(p.Kind, q.Kind)

			// Reject far pairs, and near-coincident ones before dividing by
			// the distance below.
			if dist2 < minDistSq || dist2 > props.InfluenceRadiusSq {
				continue
			}

			dist := math.Sqrt(dist2)
			dx /= dist
			dy /= dist

			var f1, f2 float64
			if dist > props.RepelDistance {
				f1 = u.kinds.Attraction(p.Kind, q.Kind)
				f2 = u.kinds.Attraction(q.Kind, p.Kind)

				if !u.flatForce {
					peak := 0.5 * (props.RepelDistance + props.InfluenceRadius)
					halfBase := 0.5 * (props.InfluenceRadius - props.RepelDistance)
					coefficient := 1.0 - math.Abs(dist-peak)/halfBase
					f1 *= coefficient
					f2 *= coefficient
				}
			} else {
				f := rSmooth * props.RepelDistance *
					(1.0/(props.RepelDistance+rSmooth) - 1.0/(dist+rSmooth))
				f1, f2 = f, f
			}

			p.VX += f1 * dx
			p.VY += f1 * dy
			q.VX -= f2 * dx
			q.VY -= f2 * dy
		}
	}

	for i := range ps {
		p := &ps[i]

		p.X += p.VX
		p.Y += p.VY
		p.VX *= 1.0 - u.friction
		p.VY *= 1.0 - u.friction

		if u.Wrap {
			if p.X < 0 {
				p.X += u.Width
			} else if p.X >= u.Width {
				p.X -= u.Width
			}
			if p.Y < 0 {
				p.Y += u.Height
			} else if p.Y >= u.Height {
				p.Y -= u.Height
			}
		} else {
			if p.X < Radius {
				p.X = Radius
				p.VX = -p.VX
			} else if p.X > u.Width-Radius {
				p.X = u.Width - Radius
				p.VX = -p.VX
			}
			if p.Y < Radius {
				p.Y = Radius
				p.VY = -p.VY
			} else if p.Y > u.Height-Radius {
				p.Y = u.Height - Radius
				p.VY = -p.VY
			}
		}
	}
}
