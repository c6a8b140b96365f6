package storage

import (
	"reflect"
	"testing"
	"time"

	"github.com/nkoval/plife/internal/life"
)

func testMeta() RunMetadata {
	return RunMetadata{
		Preset:    "balanced",
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Seed:      42,
		Ticks:     500,
		Width:     1600,
		Height:    900,
		Wrap:      true,
		Settings:  life.DefaultSettings(),
		Duration:  1.25,
	}
}

func testParticles() []life.Particle {
	return []life.Particle{
		{Kind: 0, X: 12.5, Y: 800.25, VX: -0.125, VY: 0.5},
		{Kind: 3, X: 0, Y: 0, VX: 0, VY: 0},
		{Kind: 8, X: 1599.999999, Y: 1, VX: 2, VY: -2},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save(testMeta(), testParticles())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("metadata ID %q, want %q", meta.ID, runID)
	}
	if meta.Preset != "balanced" || meta.Seed != 42 || meta.Ticks != 500 {
		t.Errorf("metadata changed on disk: %+v", meta)
	}
	if !reflect.DeepEqual(meta.Settings, life.DefaultSettings()) {
		t.Error("settings did not survive the round trip")
	}
}

func TestLoadParticles(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	want := testParticles()
	runID, err := store.Save(testMeta(), want)
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadParticles(runID)
	if err != nil {
		t.Fatalf("load particles failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d particles, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Kind != want[i].Kind {
			t.Errorf("particle %d: kind %d, want %d", i, got[i].Kind, want[i].Kind)
		}
		// Positions are stored at six decimals.
		if diff := got[i].X - want[i].X; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("particle %d: x %f, want %f", i, got[i].X, want[i].X)
		}
	}
}

func TestListEmpty(t *testing.T) {
	store := New(t.TempDir())
	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}

func TestListFindsSavedRuns(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := store.Save(testMeta(), nil)
	if err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Fatalf("list does not contain the saved run: %+v", runs)
	}
}
