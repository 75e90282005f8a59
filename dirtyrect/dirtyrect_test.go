package dirtyrect

import (
	"testing"

	"github.com/pthm/sandpit/chunk"
	"github.com/pthm/sandpit/grid"
)

func clearAllVisualDirty(c *chunk.Grid) {
	for cy := 0; cy < c.ChunksY; cy++ {
		for cx := 0; cx < c.ChunksX; cx++ {
			c.ClearVisualDirty(cx, cy)
		}
	}
}

func TestCollectMergedRectsMergesAdjacentRowRuns(t *testing.T) {
	c := chunk.New(chunk.Size*3, chunk.Size, 20)
	clearAllVisualDirty(c)
	c.MarkDirtyChunk(0, 0)
	c.MarkDirtyChunk(1, 0)
	c.MarkDirtyChunk(2, 0)

	rects := CollectMergedRects(c)

	if len(rects) != 1 {
		t.Fatalf("len(rects) = %d, want 1 merged run", len(rects))
	}
	if rects[0].CX != 0 || rects[0].CY != 0 || rects[0].CW != 3 || rects[0].CH != 1 {
		t.Fatalf("rect = %+v, want {0,0,3,1}", rects[0])
	}
}

func TestCollectMergedRectsMergesVerticallyOnMatchingSpan(t *testing.T) {
	c := chunk.New(chunk.Size*2, chunk.Size*2, 20)
	clearAllVisualDirty(c)
	c.MarkDirtyChunk(0, 0)
	c.MarkDirtyChunk(1, 0)
	c.MarkDirtyChunk(0, 1)
	c.MarkDirtyChunk(1, 1)

	rects := CollectMergedRects(c)

	if len(rects) != 1 {
		t.Fatalf("len(rects) = %d, want 1 merged block", len(rects))
	}
	if rects[0].CW != 2 || rects[0].CH != 2 {
		t.Fatalf("rect = %+v, want a 2x2 block", rects[0])
	}
}

func TestCollectMergedRectsDoesNotMergeMismatchedSpans(t *testing.T) {
	c := chunk.New(chunk.Size*3, chunk.Size*2, 20)
	clearAllVisualDirty(c)
	c.MarkDirtyChunk(0, 0)
	c.MarkDirtyChunk(1, 0)
	c.MarkDirtyChunk(0, 1) // row below has a narrower dirty span

	rects := CollectMergedRects(c)

	if len(rects) != 2 {
		t.Fatalf("len(rects) = %d, want 2 (spans differ, cannot merge vertically)", len(rects))
	}
}

func TestCollectMergedRectsClearsVisualDirtyBits(t *testing.T) {
	c := chunk.New(chunk.Size*2, chunk.Size, 20)
	clearAllVisualDirty(c)
	c.MarkDirtyChunk(0, 0)

	CollectMergedRects(c)

	if c.IsVisualDirty(0, 0) {
		t.Fatal("CollectMergedRects should clear every visual-dirty bit it collects")
	}
}

func TestCollectMergedRectsEmptyWhenNothingDirty(t *testing.T) {
	c := chunk.New(chunk.Size*2, chunk.Size*2, 20)
	clearAllVisualDirty(c)

	rects := CollectMergedRects(c)

	if len(rects) != 0 {
		t.Fatalf("len(rects) = %d, want 0", len(rects))
	}
}

func TestPixelBoundsClipsToGridDimensions(t *testing.T) {
	g := grid.New(chunk.Size+10, chunk.Size+10, 20)
	r := Rect{CX: 0, CY: 0, CW: 2, CH: 2} // spans 64x64 cells but grid is only 42x42

	x, y, w, h := r.PixelBounds(g)

	if x != 0 || y != 0 {
		t.Fatalf("PixelBounds origin = (%d,%d), want (0,0)", x, y)
	}
	if w != g.W || h != g.H {
		t.Fatalf("PixelBounds size = (%d,%d), want clipped to grid size (%d,%d)", w, h, g.W, g.H)
	}
}

func TestExtractRectPixelsCopiesRowMajorColours(t *testing.T) {
	g := grid.New(chunk.Size*2, chunk.Size*2, 20)
	c := chunk.New(chunk.Size*2, chunk.Size*2, 20)

	// Paint a distinguishing colour at a known cell within the rect.
	g.Colours[g.Index(5, 3)] = 0xFF112233

	rect := Rect{CX: 0, CY: 0, CW: 1, CH: 1}
	out := ExtractRectPixels(g, c, rect, nil)

	_, _, w, _ := rect.PixelBounds(g)
	got := out[3*w+5]
	if got != 0xFF112233 {
		t.Fatalf("extracted pixel at (5,3) = %#x, want 0xFF112233", got)
	}
}

func TestExtractRectPixelsReusesCapacityWhenLargeEnough(t *testing.T) {
	g := grid.New(chunk.Size, chunk.Size, 20)
	c := chunk.New(chunk.Size, chunk.Size, 20)
	rect := Rect{CX: 0, CY: 0, CW: 1, CH: 1}

	dst := make([]uint32, 0, chunk.Size*chunk.Size)
	out := ExtractRectPixels(g, c, rect, dst)

	if len(out) != chunk.Size*chunk.Size {
		t.Fatalf("len(out) = %d, want %d", len(out), chunk.Size*chunk.Size)
	}
	// Same backing array should have been reused, not reallocated.
	if cap(out) != cap(dst) {
		t.Fatal("ExtractRectPixels should reuse dst's existing capacity rather than reallocate")
	}
}

func TestExtractRectPixelsZeroSizeRectReturnsEmpty(t *testing.T) {
	g := grid.New(chunk.Size, chunk.Size, 20)
	c := chunk.New(chunk.Size, chunk.Size, 20)
	rect := Rect{CX: 5, CY: 5, CW: 0, CH: 0} // entirely out of bounds, clips to zero

	out := ExtractRectPixels(g, c, rect, nil)

	if len(out) != 0 {
		t.Fatalf("len(out) = %d, want 0", len(out))
	}
}
