package life

// Particle is one member of the population. Position and velocity share the
// same world-pixel coordinate space.
type Particle struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
	Kind int     `json:"kind"`
}
