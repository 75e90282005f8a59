package sim

import (
	"testing"

	"github.com/pthm/sandpit/config"
	"github.com/pthm/sandpit/content"
)

func testConfig(t *testing.T, w, h int) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.World.Width, cfg.World.Height = w, h
	cfg.World.Seed = 1
	return cfg
}

func newTestWorld(t *testing.T, w, h int) *World {
	t.Helper()
	world, err := New(testConfig(t, w, h))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return world
}

func TestNewWorldStartsEmptyAtFrameZero(t *testing.T) {
	w := newTestWorld(t, 64, 64)
	if w.Frame() != 0 {
		t.Fatalf("Frame() = %d, want 0", w.Frame())
	}
	if w.ParticleCount() != 0 {
		t.Fatalf("ParticleCount() = %d, want 0", w.ParticleCount())
	}
	if w.Width() != 64 || w.Height() != 64 {
		t.Fatalf("dimensions = %dx%d, want 64x64", w.Width(), w.Height())
	}
}

func TestAddParticlePlacesKnownElement(t *testing.T) {
	w := newTestWorld(t, 32, 32)
	if !w.AddParticle(5, 5, content.IDSand) {
		t.Fatal("AddParticle should succeed for a known id within bounds")
	}
	if w.ParticleCount() != 1 {
		t.Fatalf("ParticleCount() = %d, want 1", w.ParticleCount())
	}
}

func TestAddParticleRejectsOutOfBoundsAndUnknownID(t *testing.T) {
	w := newTestWorld(t, 32, 32)
	if w.AddParticle(-1, 0, content.IDSand) {
		t.Fatal("AddParticle should reject an out-of-bounds coordinate")
	}
	if w.AddParticle(5, 5, 250) {
		t.Fatal("AddParticle should reject an unknown element id")
	}
	if w.ParticleCount() != 0 {
		t.Fatalf("ParticleCount() = %d, want 0 after rejected placements", w.ParticleCount())
	}
}

func TestRemoveParticleClearsOccupiedCellOnly(t *testing.T) {
	w := newTestWorld(t, 32, 32)
	if w.RemoveParticle(1, 1) {
		t.Fatal("RemoveParticle on an empty cell should return false")
	}
	w.AddParticle(1, 1, content.IDStone)
	if !w.RemoveParticle(1, 1) {
		t.Fatal("RemoveParticle should succeed on an occupied cell")
	}
	if w.ParticleCount() != 0 {
		t.Fatalf("ParticleCount() = %d, want 0 after removal", w.ParticleCount())
	}
}

func TestAddParticlesInRadiusRespectsFillProbabilityBounds(t *testing.T) {
	w := newTestWorld(t, 64, 64)
	placed := w.AddParticlesInRadius(32, 32, 5, content.IDSand, 1.0)
	if placed == 0 {
		t.Fatal("full fill probability should place at least one particle")
	}
	if w.ParticleCount() != placed {
		t.Fatalf("ParticleCount() = %d, want %d", w.ParticleCount(), placed)
	}
}

func TestClearResetsGridAndChunkState(t *testing.T) {
	w := newTestWorld(t, 32, 32)
	w.AddParticle(1, 1, content.IDSand)
	w.AddParticle(2, 2, content.IDWater)

	w.Clear()

	if w.ParticleCount() != 0 {
		t.Fatalf("ParticleCount() after Clear = %d, want 0", w.ParticleCount())
	}
	if w.ActiveChunks() == 0 {
		t.Fatal("a freshly cleared grid should start every chunk active/dirty")
	}
}

func TestSpawnAndRemoveRigidBody(t *testing.T) {
	w := newTestWorld(t, 64, 64)
	id := w.SpawnRigidBody(10, 10, 6, 6, content.IDMetal)
	if w.RigidBodyCount() != 1 {
		t.Fatalf("RigidBodyCount() = %d, want 1", w.RigidBodyCount())
	}
	if !w.RemoveRigidBody(id) {
		t.Fatal("RemoveRigidBody should succeed for a live id")
	}
	if w.RigidBodyCount() != 0 {
		t.Fatalf("RigidBodyCount() after remove = %d, want 0", w.RigidBodyCount())
	}
}

func TestRemoveRigidBodyUnknownIDIsNoop(t *testing.T) {
	w := newTestWorld(t, 32, 32)
	if w.RemoveRigidBody(9999) {
		t.Fatal("RemoveRigidBody should return false for an unknown id")
	}
}

func TestStepAdvancesFrameCounter(t *testing.T) {
	w := newTestWorld(t, 32, 32)
	w.Step()
	w.Step()
	if w.Frame() != 2 {
		t.Fatalf("Frame() = %d, want 2", w.Frame())
	}
}

func TestStepSettlesASandColumnOntoTheFloor(t *testing.T) {
	w := newTestWorld(t, 16, 16)
	w.AddParticle(8, 0, content.IDSand)

	for i := 0; i < 500; i++ {
		w.Step()
	}

	if w.ParticleCount() != 1 {
		t.Fatalf("ParticleCount() = %d, want 1 (sand conserved)", w.ParticleCount())
	}
	found := false
	for y := 0; y < 16; y++ {
		if w.Types()[w.Width()*y+8] == content.IDSand {
			found = true
			if y != 15 {
				t.Fatalf("sand settled at row %d, want the floor row 15", y)
			}
		}
	}
	if !found {
		t.Fatal("sand particle should still exist somewhere in the grid")
	}
}

func TestLoadContentBundleJSONLeavesRegistryUntouchedOnFailure(t *testing.T) {
	w := newTestWorld(t, 16, 16)
	before, err := w.ContentManifestJSON()
	if err != nil {
		t.Fatalf("ContentManifestJSON: %v", err)
	}

	if err := w.LoadContentBundleJSON([]byte("not valid json")); err == nil {
		t.Fatal("LoadContentBundleJSON should fail on malformed JSON")
	}

	after, err := w.ContentManifestJSON()
	if err != nil {
		t.Fatalf("ContentManifestJSON: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("a failed bundle load must leave the existing registry untouched")
	}
}

func TestLoadContentBundleJSONSwapsInValidBundle(t *testing.T) {
	w := newTestWorld(t, 16, 16)
	data, err := content.Default().ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if err := w.LoadContentBundleJSON(data); err != nil {
		t.Fatalf("LoadContentBundleJSON: %v", err)
	}
}

func TestCollectDirtyChunksClearsVisualDirtyState(t *testing.T) {
	w := newTestWorld(t, 64, 64)
	w.AddParticle(5, 5, content.IDSand)

	rects := w.CollectDirtyChunks()
	if len(rects) == 0 {
		t.Fatal("expected at least one dirty rect after placing a particle")
	}

	rects = w.CollectDirtyChunks()
	if len(rects) != 0 {
		t.Fatalf("a second consecutive collect with no new changes returned %d rects, want 0", len(rects))
	}
}

func TestEnablePerfMetricsPopulatesStatsAfterStep(t *testing.T) {
	w := newTestWorld(t, 32, 32)
	w.EnablePerfMetrics(true)
	w.Step()

	stats := w.PerfStats()
	if stats.TicksPerSecond < 0 {
		t.Fatalf("TicksPerSecond = %v, want >= 0", stats.TicksPerSecond)
	}
	if _, ok := stats.PhaseAvg[PhasePhysics]; !ok {
		t.Fatalf("PhaseAvg has no %q entry after a step with metrics enabled", PhasePhysics)
	}
}

func TestSetGravityChangesSweepDirection(t *testing.T) {
	w := newTestWorld(t, 16, 16)
	w.SetGravity(0, -1) // upward
	w.AddParticle(8, 15, content.IDSand)

	for i := 0; i < 500; i++ {
		w.Step()
	}

	if w.Types()[w.Width()*0+8] != content.IDSand {
		t.Fatal("with inverted gravity, sand should rise to the top row")
	}
}
