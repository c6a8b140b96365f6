package step

import "github.com/nkoval/plife/internal/life"

// applyCommand mutates the universe according to cmd and returns the updated
// round counter. Seed and RandomizeParticles invalidate every frame computed
// so far, so they advance the round; Resize and ToggleWrap leave existing
// state meaningful and do not.
func applyCommand(u *life.Universe, cmd Command, round uint32) uint32 {
	switch cmd.Op {
	case OpResize:
		if cmd.Extent != nil {
			u.Resize(cmd.Extent.Width, cmd.Extent.Height)
		}
	case OpSeed:
		if cmd.Settings != nil {
			// Settings are validated before they reach this point (Send on
			// the consumer side, ServeWorker for raw transports), so Seed
			// cannot fail here. The round bump is unconditional regardless:
			// the consumer already bumped its counter when it sent the
			// command, and the two must stay in lockstep.
			_ = u.Seed(*cmd.Settings)
		}
		round++
	case OpToggleWrap:
		u.ToggleWrap()
	case OpRandomize:
		u.RandomizeParticles()
		round++
	}
	return round
}
