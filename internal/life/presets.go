package life

import "sort"

// Presets are the named settings the live view binds to hotkeys. The values
// match the reference parameterization of each behavior.
var Presets = map[string]Settings{
	"balanced": {
		Kinds: 9, Particles: 400,
		Attraction:      Normal{Mean: -0.02, Std: 0.06},
		RepelDistance:   Uniform{Lower: 0.0, Upper: 20.0},
		InfluenceRadius: Uniform{Lower: 20.0, Upper: 70.0},
		Friction:        0.05,
	},
	"chaos": {
		Kinds: 6, Particles: 400,
		Attraction:      Normal{Mean: 0.02, Std: 0.04},
		RepelDistance:   Uniform{Lower: 0.0, Upper: 30.0},
		InfluenceRadius: Uniform{Lower: 30.0, Upper: 100.0},
		Friction:        0.01,
	},
	"diversity": {
		Kinds: 12, Particles: 400,
		Attraction:      Normal{Mean: -0.01, Std: 0.04},
		RepelDistance:   Uniform{Lower: 0.0, Upper: 20.0},
		InfluenceRadius: Uniform{Lower: 10.0, Upper: 60.0},
		Friction:        0.05,
		FlatForce:       true,
	},
	"frictionless": {
		Kinds: 6, Particles: 300,
		Attraction:      Normal{Mean: 0.01, Std: 0.005},
		RepelDistance:   Uniform{Lower: 10.0, Upper: 10.0},
		InfluenceRadius: Uniform{Lower: 10.0, Upper: 60.0},
		Friction:        0.0,
		FlatForce:       true,
	},
	"gliders": {
		Kinds: 6, Particles: 400,
		Attraction:      Normal{Mean: 0.0, Std: 0.06},
		RepelDistance:   Uniform{Lower: 0.0, Upper: 20.0},
		InfluenceRadius: Uniform{Lower: 10.0, Upper: 50.0},
		Friction:        0.01,
		FlatForce:       true,
	},
	"homogeneity": {
		Kinds: 4, Particles: 400,
		Attraction:      Normal{Mean: 0.0, Std: 0.04},
		RepelDistance:   Uniform{Lower: 10.0, Upper: 10.0},
		InfluenceRadius: Uniform{Lower: 10.0, Upper: 80.0},
		Friction:        0.05,
		FlatForce:       true,
	},
	"large_clusters": {
		Kinds: 6, Particles: 400,
		Attraction:      Normal{Mean: 0.025, Std: 0.02},
		RepelDistance:   Uniform{Lower: 0.0, Upper: 30.0},
		InfluenceRadius: Uniform{Lower: 30.0, Upper: 100.0},
		Friction:        0.2,
	},
	"medium_clusters": {
		Kinds: 6, Particles: 400,
		Attraction:      Normal{Mean: 0.02, Std: 0.05},
		RepelDistance:   Uniform{Lower: 0.0, Upper: 20.0},
		InfluenceRadius: Uniform{Lower: 20.0, Upper: 50.0},
		Friction:        0.05,
	},
	"quiescence": {
		Kinds: 6, Particles: 300,
		Attraction:      Normal{Mean: -0.02, Std: 0.1},
		RepelDistance:   Uniform{Lower: 10.0, Upper: 20.0},
		InfluenceRadius: Uniform{Lower: 20.0, Upper: 60.0},
		Friction:        0.2,
	},
	"small_clusters": {
		Kinds: 6, Particles: 600,
		Attraction:      Normal{Mean: -0.005, Std: 0.01},
		RepelDistance:   Uniform{Lower: 10.0, Upper: 10.0},
		InfluenceRadius: Uniform{Lower: 20.0, Upper: 50.0},
		Friction:        0.01,
	},
}

func GetPreset(name string) (Settings, error) {
	cfg, ok := Presets[name]
	if !ok {
		return Settings{}, ErrUnknownPreset
	}
	return cfg, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
