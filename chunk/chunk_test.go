package chunk

import "testing"

func TestNewGridStartsActiveAndDirty(t *testing.T) {
	g := New(64, 64, 20)
	if g.ChunksX != 2 || g.ChunksY != 2 {
		t.Fatalf("ChunksX/Y = %d/%d, want 2/2", g.ChunksX, g.ChunksY)
	}
	if !g.IsDirty(0, 0) || !g.IsVisualDirty(0, 0) {
		t.Fatal("every chunk should start dirty and visual-dirty")
	}
}

func TestNewGridRoundsUpPartialChunks(t *testing.T) {
	g := New(40, 10, 20)
	if g.ChunksX != 2 {
		t.Fatalf("ChunksX = %d, want 2 (40 cells needs a second partial 32-wide chunk)", g.ChunksX)
	}
	if g.ChunksY != 1 {
		t.Fatalf("ChunksY = %d, want 1", g.ChunksY)
	}
}

func TestChunkOfMapsCellToItsChunk(t *testing.T) {
	cx, cy := (&Grid{}).ChunkOf(33, 65)
	if cx != 1 || cy != 2 {
		t.Fatalf("ChunkOf(33,65) = (%d,%d), want (1,2)", cx, cy)
	}
}

func TestShouldProcessTrueWhenDirtyOrOccupied(t *testing.T) {
	g := New(64, 64, 20)
	g.EndChunkUpdate(0, 0, false) // clears dirty bit
	if g.ShouldProcess(0, 0) {
		t.Fatal("a clean, empty chunk should not need processing")
	}
	g.AddParticle(1, 1)
	if !g.ShouldProcess(0, 0) {
		t.Fatal("a chunk holding a particle should need processing")
	}
}

func TestMarkDirtyWakesASleepingChunk(t *testing.T) {
	g := New(64, 64, 20)
	g.EndChunkUpdate(0, 0, false)
	for i := 0; i < SleepThreshold; i++ {
		g.BeginFrame()
	}
	if !g.IsSleeping(0, 0) {
		t.Fatal("chunk should be asleep after SleepThreshold idle frames")
	}

	g.MarkDirty(1, 1)

	if g.IsSleeping(0, 0) {
		t.Fatal("MarkDirty should wake a sleeping chunk")
	}
	if !g.JustWokeUp(0, 0) {
		t.Fatal("a freshly woken chunk should report JustWokeUp")
	}
}

func TestBeginFrameSleepsAfterThresholdIdleFrames(t *testing.T) {
	g := New(64, 64, 20)
	g.EndChunkUpdate(0, 0, false)

	for i := 0; i < SleepThreshold-1; i++ {
		g.BeginFrame()
		if g.IsSleeping(0, 0) {
			t.Fatalf("chunk slept after only %d idle frames, want %d", i+1, SleepThreshold)
		}
	}
	g.BeginFrame()
	if !g.IsSleeping(0, 0) {
		t.Fatalf("chunk should be asleep after %d idle frames", SleepThreshold)
	}
}

func TestAddAndRemoveParticleTracksCount(t *testing.T) {
	g := New(64, 64, 20)
	g.AddParticle(5, 5)
	g.AddParticle(6, 6)
	if got := g.ParticleCount(0, 0); got != 2 {
		t.Fatalf("ParticleCount = %d, want 2", got)
	}
	g.RemoveParticle(5, 5)
	if got := g.ParticleCount(0, 0); got != 1 {
		t.Fatalf("ParticleCount after remove = %d, want 1", got)
	}
}

func TestRemoveParticleNeverGoesNegative(t *testing.T) {
	g := New(64, 64, 20)
	g.RemoveParticle(0, 0)
	if got := g.ParticleCount(0, 0); got != 0 {
		t.Fatalf("ParticleCount = %d, want 0 (must not underflow)", got)
	}
}

func TestMoveParticleIsNoopWithinSameChunk(t *testing.T) {
	g := New(64, 64, 20)
	g.AddParticle(1, 1)
	before := g.ParticleCount(0, 0)

	g.MoveParticle(1, 1, 2, 2)

	if got := g.ParticleCount(0, 0); got != before {
		t.Fatalf("ParticleCount changed for a same-chunk move: got %d, want %d", got, before)
	}
}

func TestMoveParticleAcrossChunksUpdatesBothCounts(t *testing.T) {
	g := New(64, 64, 20)
	g.AddParticle(1, 1) // chunk (0,0)

	g.MoveParticle(1, 1, 40, 1) // chunk (1,0)

	if got := g.ParticleCount(0, 0); got != 0 {
		t.Fatalf("source chunk count = %d, want 0", got)
	}
	if got := g.ParticleCount(1, 0); got != 1 {
		t.Fatalf("destination chunk count = %d, want 1", got)
	}
}

func TestWakeNeighborsOnlyWakesNearEdge(t *testing.T) {
	g := New(96, 96, 20)
	for cy := 0; cy < g.ChunksY; cy++ {
		for cx := 0; cx < g.ChunksX; cx++ {
			g.EndChunkUpdate(cx, cy, false)
		}
	}

	g.WakeNeighbors(16, 16) // dead centre of chunk (0,0): not near any edge
	if g.IsDirty(1, 0) || g.IsDirty(0, 1) {
		t.Fatal("a cell far from any chunk edge should not wake neighbours")
	}

	g.WakeNeighbors(31, 16) // near the right edge of chunk (0,0)
	if !g.IsDirty(1, 0) {
		t.Fatal("a cell near the right edge should wake the chunk to its right")
	}
}

func TestEndChunkUpdatePropagatesDirtyBelowOnMove(t *testing.T) {
	g := New(64, 96, 20)
	g.AddParticle(5, 33) // chunk (0,1) occupied
	for cy := 0; cy < g.ChunksY; cy++ {
		g.EndChunkUpdate(0, cy, false)
	}

	g.EndChunkUpdate(0, 0, true)

	if !g.IsDirty(0, 1) {
		t.Fatal("a moved particle in chunk (0,0) should mark the occupied chunk below dirty")
	}
	if g.IsDirty(0, 0) {
		t.Fatal("EndChunkUpdate must always clear the chunk's own dirty bit")
	}
}

func TestRebuildParticleCountsMatchesTypesArray(t *testing.T) {
	g := New(64, 64, 20)
	types := make([]uint8, 64*64)
	types[1] = 7        // cell (1,0), chunk (0,0)
	types[1*64+33] = 9  // cell (33,1), chunk (1,0)

	g.RebuildParticleCounts(types)

	if got := g.ParticleCount(0, 0); got != 1 {
		t.Fatalf("chunk (0,0) count = %d, want 1", got)
	}
	if got := g.ParticleCount(1, 0); got != 1 {
		t.Fatalf("chunk (1,0) count = %d, want 1", got)
	}
}
