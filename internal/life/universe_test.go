package life

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

// pairSettings produces two kinds with fixed pair thresholds, no friction
// and no randomness in the thresholds, so force tests see exact values.
func pairSettings(repel, influence float64, flat bool) Settings {
	return Settings{
		Kinds:           2,
		Particles:       2,
		Attraction:      Normal{Mean: -0.02, Std: 0.06},
		RepelDistance:   Uniform{Lower: repel, Upper: repel},
		InfluenceRadius: Uniform{Lower: influence, Upper: influence},
		Friction:        0,
		FlatForce:       flat,
	}
}

func seededUniverse(t *testing.T, cfg Settings, wrap bool, w, h float64) *Universe {
	t.Helper()
	u := NewUniverse(w, h, rand.New(rand.NewSource(11)))
	u.Wrap = wrap
	if err := u.Seed(cfg); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return u
}

func TestStepEmptyUniverse(t *testing.T) {
	cfg := pairSettings(20, 40, false)
	cfg.Particles = 0
	u := seededUniverse(t, cfg, false, 400, 400)
	u.Step()
	if len(u.Particles()) != 0 {
		t.Fatal("expected no particles")
	}
}

func TestRepulsionIsSymmetric(t *testing.T) {
	u := seededUniverse(t, pairSettings(20, 40, false), false, 400, 400)
	ps := u.Particles()
	ps[0] = Particle{Kind: 0, X: 100, Y: 100}
	ps[1] = Particle{Kind: 1, X: 110, Y: 100}

	u.Step()

	if ps[0].VX >= 0 {
		t.Errorf("left particle should be pushed left, VX=%f", ps[0].VX)
	}
	if ps[0].VX != -ps[1].VX {
		t.Errorf("repulsion magnitudes differ: %f vs %f", ps[0].VX, ps[1].VX)
	}
	if ps[0].VY != 0 || ps[1].VY != 0 {
		t.Errorf("repulsion along x should leave VY zero, got %f and %f", ps[0].VY, ps[1].VY)
	}
}

func TestAttractionIsAsymmetric(t *testing.T) {
	u := seededUniverse(t, pairSettings(10, 40, true), false, 400, 400)
	ps := u.Particles()
	ps[0] = Particle{Kind: 0, X: 100, Y: 100}
	ps[1] = Particle{Kind: 1, X: 120, Y: 100}

	a01 := u.Kinds().Attraction(0, 1)
	a10 := u.Kinds().Attraction(1, 0)

	u.Step()

	// Flat force and a 20-unit separation put the pair in the attraction
	// regime with no taper: each side receives exactly its own entry.
	if ps[0].VX != a01 {
		t.Errorf("particle 0: VX=%f, want attraction(0,1)=%f", ps[0].VX, a01)
	}
	if ps[1].VX != -a10 {
		t.Errorf("particle 1: VX=%f, want -attraction(1,0)=%f", ps[1].VX, -a10)
	}
}

func TestTaperScalesBothDirectionsEqually(t *testing.T) {
	u := seededUniverse(t, pairSettings(10, 50, false), false, 400, 400)
	ps := u.Particles()
	// Peak of the taper is at (10+50)/2 = 30, so the coefficient is 1 here
	// and the velocities must match the raw matrix entries.
	ps[0] = Particle{Kind: 0, X: 100, Y: 100}
	ps[1] = Particle{Kind: 1, X: 130, Y: 100}

	a01 := u.Kinds().Attraction(0, 1)
	a10 := u.Kinds().Attraction(1, 0)

	u.Step()

	if ps[0].VX != a01 {
		t.Errorf("at taper peak, particle 0: VX=%f, want %f", ps[0].VX, a01)
	}
	if ps[1].VX != -a10 {
		t.Errorf("at taper peak, particle 1: VX=%f, want %f", ps[1].VX, -a10)
	}
}

func TestTaperFadesLinearlyOffPeak(t *testing.T) {
	u := seededUniverse(t, pairSettings(10, 50, false), false, 400, 400)
	ps := u.Particles()
	// Peak 30, half-base 20: at separation 40 the triangular taper scales
	// both attraction entries by exactly 1 - |40-30|/20 = 0.5.
	ps[0] = Particle{Kind: 0, X: 100, Y: 100}
	ps[1] = Particle{Kind: 1, X: 140, Y: 100}

	a01 := u.Kinds().Attraction(0, 1)
	a10 := u.Kinds().Attraction(1, 0)

	u.Step()

	if ps[0].VX != 0.5*a01 {
		t.Errorf("particle 0: VX=%f, want half of attraction(0,1)=%f", ps[0].VX, 0.5*a01)
	}
	if ps[1].VX != -0.5*a10 {
		t.Errorf("particle 1: VX=%f, want half of -attraction(1,0)=%f", ps[1].VX, -0.5*a10)
	}
}

func TestOutOfRangePairIgnored(t *testing.T) {
	u := seededUniverse(t, pairSettings(20, 40, false), false, 400, 400)
	ps := u.Particles()
	ps[0] = Particle{Kind: 0, X: 100, Y: 100}
	ps[1] = Particle{Kind: 1, X: 150, Y: 100} // beyond influence radius 40

	u.Step()

	if ps[0].VX != 0 || ps[1].VX != 0 {
		t.Errorf("particles beyond influence radius interacted: %f, %f", ps[0].VX, ps[1].VX)
	}
}

func TestWrapMinimalImage(t *testing.T) {
	u := seededUniverse(t, pairSettings(20, 40, false), true, 400, 400)
	ps := u.Particles()
	// Nearly touching across the seam: direct delta is 398 but the minimal
	// image is -2, well inside the repel zone.
	ps[0] = Particle{Kind: 0, X: 1, Y: 100}
	ps[1] = Particle{Kind: 1, X: 399, Y: 100}

	u.Step()

	if ps[0].VX <= 0 {
		t.Errorf("particle near left seam should be pushed right, VX=%f", ps[0].VX)
	}
	if ps[1].VX >= 0 {
		t.Errorf("particle near right seam should be pushed left, VX=%f", ps[1].VX)
	}
}

func TestWrapKeepsVelocity(t *testing.T) {
	cfg := pairSettings(20, 40, false)
	cfg.Particles = 1
	u := seededUniverse(t, cfg, true, 400, 400)
	ps := u.Particles()
	ps[0] = Particle{Kind: 0, X: 399.5, Y: 100, VX: 1.0}

	u.Step()

	if ps[0].X != 0.5 {
		t.Errorf("expected wrap to x=0.5, got %f", ps[0].X)
	}
	if ps[0].VX != 1.0 {
		t.Errorf("wrap must not invert velocity, VX=%f", ps[0].VX)
	}
}

func TestReflectionFlipsVelocityOnce(t *testing.T) {
	cfg := pairSettings(20, 40, false)
	cfg.Particles = 1
	u := seededUniverse(t, cfg, false, 400, 400)
	ps := u.Particles()
	ps[0] = Particle{Kind: 0, X: 400 - Radius - 0.5, Y: 100, VX: 2.0}

	u.Step()

	if ps[0].X != 400-Radius {
		t.Errorf("expected clamp to wall at %f, got %f", 400-Radius, ps[0].X)
	}
	if ps[0].VX != -2.0 {
		t.Errorf("expected exactly one sign flip, VX=%f", ps[0].VX)
	}
}

func TestStepDeterminism(t *testing.T) {
	run := func() []Particle {
		u := NewUniverse(1600, 900, rand.New(rand.NewSource(99)))
		if err := u.Seed(Presets["balanced"]); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		for i := 0; i < 100; i++ {
			u.Step()
		}
		return u.Snapshot()
	}

	if !reflect.DeepEqual(run(), run()) {
		t.Error("identical seed and settings diverged over 100 ticks")
	}
}

func TestSeedFailureKeepsState(t *testing.T) {
	u := seededUniverse(t, pairSettings(20, 40, false), false, 400, 400)
	before := u.Snapshot()

	bad := DefaultSettings()
	bad.Kinds = 0
	if err := u.Seed(bad); !errors.Is(err, ErrNoKinds) {
		t.Fatalf("expected ErrNoKinds, got %v", err)
	}

	if !reflect.DeepEqual(before, u.Snapshot()) {
		t.Error("failed seed modified the population")
	}
}

func TestRandomizeKeepsCount(t *testing.T) {
	u := seededUniverse(t, Presets["balanced"], false, 1600, 900)
	before := u.Snapshot()

	u.RandomizeParticles()

	after := u.Snapshot()
	if len(after) != len(before) {
		t.Fatalf("population size changed: %d -> %d", len(before), len(after))
	}
	if reflect.DeepEqual(before, after) {
		t.Error("randomize left every particle unchanged")
	}
}
