package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/platformcore/actor"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if cfg.Mask.CloudHeight != 24 {
		t.Errorf("cloud_height = %d, want 24", cfg.Mask.CloudHeight)
	}
	if cfg.Mask.MaxDimension != 4096 {
		t.Errorf("max_dimension = %d, want 4096", cfg.Mask.MaxDimension)
	}
	if cfg.Physics.TopSpeed != 360 {
		t.Errorf("top_speed = %.1f, want 360", cfg.Physics.TopSpeed)
	}
	if cfg.Sensors.NormalWidth%2 == 0 || cfg.Sensors.NormalHeight%2 == 0 {
		t.Error("hitbox dimensions must be odd")
	}
	if cfg.Derived.HardCapSpeed != actor.HardCapSpeed {
		t.Errorf("derived hard cap = %.1f, want %.1f", cfg.Derived.HardCapSpeed, actor.HardCapSpeed)
	}
}

func TestDefaultsMatchStockTunables(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	got := cfg.Tunables("default")
	want := actor.DefaultTunables()

	if got.Acc != want.Acc {
		t.Errorf("acc = %v, want %v", got.Acc, want.Acc)
	}
	if got.Jmp != want.Jmp {
		t.Errorf("jmp = %v, want %v", got.Jmp, want.Jmp)
	}
	if got.MoveThreshold != want.MoveThreshold {
		t.Errorf("move_threshold = %v, want %v", got.MoveThreshold, want.MoveThreshold)
	}
	if got.Chrg != want.Chrg {
		t.Errorf("chrg = %v, want %v", got.Chrg, want.Chrg)
	}
}

func TestCharacterMultipliers(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	stock := cfg.Tunables("default")
	speedy := cfg.Tunables("speedy")

	if speedy.TopSpeed <= stock.TopSpeed {
		t.Error("speedy's top speed multiplier should raise its top speed")
	}
	if speedy.Grv != stock.Grv {
		t.Error("speedy's gravity should be unchanged")
	}
}

func TestUnknownCharacterIsIdentity(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	got := cfg.Tunables("no-such-character")
	want := cfg.Tunables("default")
	if got != want {
		t.Error("an unknown character must resolve to the stock tunables")
	}
}

func TestUserOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  top_speed: 999\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}
	if cfg.Physics.TopSpeed != 999 {
		t.Errorf("overlay top_speed = %.1f, want 999", cfg.Physics.TopSpeed)
	}
	// untouched fields keep their embedded defaults
	if cfg.Physics.Acc != 168.75 {
		t.Errorf("acc should keep its default, got %.2f", cfg.Physics.Acc)
	}
}
