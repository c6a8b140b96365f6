package step

import "github.com/nkoval/plife/internal/life"

// Op names a command variant. String values keep the command readable after
// a JSON round trip in pull deployments.
type Op string

const (
	OpResize     Op = "resize"
	OpSeed       Op = "seed"
	OpToggleWrap Op = "toggle_wrap"
	OpRandomize  Op = "randomize"
	// OpRun asks the producer for more ticks. Only meaningful on pull
	// channels, where the consumer paces production explicitly.
	OpRun Op = "run"
)

// Extent is a world size in pixels.
type Extent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Command is the tagged union sent from consumer to producer. Only the
// fields relevant to the Op are populated.
type Command struct {
	Op       Op             `json:"op"`
	Extent   *Extent        `json:"extent,omitempty"`
	Settings *life.Settings `json:"settings,omitempty"`
	Ticks    int            `json:"ticks,omitempty"`
}

func Resize(width, height float64) Command {
	return Command{Op: OpResize, Extent: &Extent{Width: width, Height: height}}
}

func Seed(s life.Settings) Command {
	return Command{Op: OpSeed, Settings: &s}
}

func ToggleWrap() Command {
	return Command{Op: OpToggleWrap}
}

func RandomizeParticles() Command {
	return Command{Op: OpRandomize}
}

func Run(ticks int) Command {
	return Command{Op: OpRun, Ticks: ticks}
}

// BumpsRound reports whether the command invalidates previously computed
// particle state. Resize deliberately does not: positions survive a resize
// (they are clamped into the new extent on the next tick), so in-flight
// frames remain valid and trails survive a window resize.
func (c Command) BumpsRound() bool {
	return c.Op == OpSeed || c.Op == OpRandomize
}

// Frame is one tagged snapshot of the population. It is a value: the
// particle slice is never shared with the producer's live state.
type Frame struct {
	Round     uint32          `json:"round"`
	Particles []life.Particle `json:"particles"`
}
