package life

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr error
	}{
		{"default is valid", func(s *Settings) {}, nil},
		{"zero kinds", func(s *Settings) { s.Kinds = 0 }, ErrNoKinds},
		{"negative std", func(s *Settings) { s.Attraction.Std = -1 }, ErrBadDistribution},
		{"inverted repel bounds", func(s *Settings) { s.RepelDistance = Uniform{Lower: 20, Upper: 0} }, ErrBadDistribution},
		{"inverted influence bounds", func(s *Settings) { s.InfluenceRadius = Uniform{Lower: 70, Upper: 20} }, ErrBadDistribution},
		{"negative friction", func(s *Settings) { s.Friction = -0.1 }, ErrBadFriction},
		{"friction above one", func(s *Settings) { s.Friction = 1.5 }, ErrBadFriction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSettings()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNegativeParticles(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Particles = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for negative particle count")
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for name, cfg := range Presets {
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s does not validate: %v", name, err)
		}
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	want := Presets["gliders"]
	if err := Save(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed settings:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	bad := DefaultSettings()
	bad.Kinds = 0
	if err := Save(path, bad); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNoKinds) {
		t.Fatalf("expected ErrNoKinds, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg, err := GetPreset("balanced")
	if err != nil {
		t.Fatalf("known preset failed: %v", err)
	}
	if cfg.Kinds == 0 {
		t.Error("preset came back empty")
	}

	if _, err := GetPreset("no-such-preset"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPresetNamesSorted(t *testing.T) {
	names := PresetNames()
	if len(names) != len(Presets) {
		t.Fatalf("got %d names, want %d", len(names), len(Presets))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}
}
