package life

import "errors"

// Domain errors for table generation and settings validation.
var (
	// ErrNoKinds indicates a settings value with zero particle kinds.
	ErrNoKinds = errors.New("life: settings must define at least one kind")

	// ErrUnknownPreset indicates a preset name with no registered settings.
	ErrUnknownPreset = errors.New("life: unknown preset")

	// ErrBadDistribution indicates a sampling distribution with invalid bounds.
	ErrBadDistribution = errors.New("life: distribution bounds out of order")

	// ErrBadFriction indicates a friction coefficient outside [0, 1].
	ErrBadFriction = errors.New("life: friction must be within [0, 1]")
)
