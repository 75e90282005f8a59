package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithEmptyPathUsesEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.World.Width <= 0 || cfg.World.Height <= 0 {
		t.Fatalf("embedded defaults should set a positive world size, got %dx%d", cfg.World.Width, cfg.World.Height)
	}
}

func TestLoadComputesDerivedChunkDimensions(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wantX := (cfg.World.Width + 31) / 32
	wantY := (cfg.World.Height + 31) / 32
	if cfg.Derived.ChunksX != wantX || cfg.Derived.ChunksY != wantY {
		t.Fatalf("Derived = (%d,%d), want (%d,%d)", cfg.Derived.ChunksX, cfg.Derived.ChunksY, wantX, wantY)
	}
}

func TestLoadMergesUserFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	content := []byte("world:\n  width: 128\n  height: 96\nphysics:\n  g: 25\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing override file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if cfg.World.Width != 128 || cfg.World.Height != 96 {
		t.Fatalf("World = %dx%d, want 128x96 (from override file)", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Physics.G != 25 {
		t.Fatalf("Physics.G = %v, want 25", cfg.Physics.G)
	}
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/does-not-exist.yaml"); err == nil {
		t.Fatal("Load should error when the override path does not exist")
	}
}

func TestWriteYAMLRoundTripsThroughLoad(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Physics.G = 42
	cfg.World.Seed = 7

	dir := t.TempDir()
	path := filepath.Join(dir, "written.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if reloaded.Physics.G != 42 || reloaded.World.Seed != 7 {
		t.Fatalf("reloaded config = %+v, want G=42 Seed=7", reloaded)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	global = nil
	defer func() {
		if recover() == nil {
			t.Fatal("Cfg() should panic when called before Init")
		}
	}()
	Cfg()
}

func TestMustInitInstallsSingleton(t *testing.T) {
	global = nil
	MustInit("")
	if Cfg() == nil {
		t.Fatal("Cfg() should return the installed config after MustInit")
	}
	global = nil
}

