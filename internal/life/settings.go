package life

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Normal is a gaussian sampling distribution.
type Normal struct {
	Mean float64 `yaml:"mean" json:"mean"`
	Std  float64 `yaml:"std" json:"std"`
}

func (n Normal) Sample(rng *rand.Rand) float64 {
	return n.Mean + n.Std*rng.NormFloat64()
}

// Uniform samples evenly from [Lower, Upper].
type Uniform struct {
	Lower float64 `yaml:"lower" json:"lower"`
	Upper float64 `yaml:"upper" json:"upper"`
}

func (u Uniform) Sample(rng *rand.Rand) float64 {
	return u.Lower + (u.Upper-u.Lower)*rng.Float64()
}

// Settings describes one seeding of the universe: how many kinds and
// particles exist and which distributions the pairwise parameters are drawn
// from. The zero value is not usable; start from DefaultSettings or a preset.
type Settings struct {
	Kinds     int `yaml:"kinds" json:"kinds"`
	Particles int `yaml:"particles" json:"particles"`

	Attraction      Normal  `yaml:"attraction" json:"attraction"`
	RepelDistance   Uniform `yaml:"repel_distance" json:"repel_distance"`
	InfluenceRadius Uniform `yaml:"influence_radius" json:"influence_radius"`

	Friction  float64 `yaml:"friction" json:"friction"`
	FlatForce bool    `yaml:"flat_force" json:"flat_force"`
}

func DefaultSettings() Settings {
	return Presets["balanced"]
}

func (s Settings) Validate() error {
	if s.Kinds < 1 {
		return ErrNoKinds
	}
	if s.Particles < 0 {
		return fmt.Errorf("life: particle count must be non-negative, got %d", s.Particles)
	}
	if s.Attraction.Std < 0 {
		return fmt.Errorf("%w: attraction std %f", ErrBadDistribution, s.Attraction.Std)
	}
	if s.RepelDistance.Upper < s.RepelDistance.Lower {
		return fmt.Errorf("%w: repel_distance [%f, %f]", ErrBadDistribution, s.RepelDistance.Lower, s.RepelDistance.Upper)
	}
	if s.InfluenceRadius.Upper < s.InfluenceRadius.Lower {
		return fmt.Errorf("%w: influence_radius [%f, %f]", ErrBadDistribution, s.InfluenceRadius.Lower, s.InfluenceRadius.Upper)
	}
	if s.Friction < 0 || s.Friction > 1 {
		return fmt.Errorf("%w: got %f", ErrBadFriction, s.Friction)
	}
	return nil
}

func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	cfg := DefaultSettings()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Settings{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func Save(path string, cfg Settings) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
