// Package dirtyrect implements the merged dirty-rectangle extraction
// that drives the external renderer (spec.md §4.10).
package dirtyrect

import (
	"github.com/pthm/sandpit/chunk"
	"github.com/pthm/sandpit/grid"
)

// Rect is a merged dirty rectangle expressed in chunk units.
type Rect struct {
	CX, CY, CW, CH int
}

// PixelBounds converts a chunk-unit rectangle to pixel bounds (x,y,w,h),
// clipped to the grid's dimensions.
func (r Rect) PixelBounds(g *grid.Grid) (x, y, w, h int) {
	x = r.CX * chunk.Size
	y = r.CY * chunk.Size
	w = r.CW * chunk.Size
	h = r.CH * chunk.Size
	if x+w > g.W {
		w = g.W - x
	}
	if y+h > g.H {
		h = g.H - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return
}

// CollectMergedRects enumerates chunks whose visual-dirty bit is set,
// greedily merges them first along X (same row, adjacent columns) and
// then along Y (identical x-span in adjacent rows), clears every
// visual-dirty bit, and returns the resulting rectangle list.
func CollectMergedRects(c *chunk.Grid) []Rect {
	type span struct{ x0, x1 int } // half-open, chunk units
	rows := make([][]span, c.ChunksY)

	for cy := 0; cy < c.ChunksY; cy++ {
		var cur *span
		for cx := 0; cx < c.ChunksX; cx++ {
			if c.IsVisualDirty(cx, cy) {
				if cur == nil {
					cur = &span{x0: cx, x1: cx + 1}
				} else {
					cur.x1 = cx + 1
				}
			} else if cur != nil {
				rows[cy] = append(rows[cy], *cur)
				cur = nil
			}
		}
		if cur != nil {
			rows[cy] = append(rows[cy], *cur)
		}
	}

	var rects []Rect
	consumed := make([][]bool, c.ChunksY)
	for cy := range rows {
		consumed[cy] = make([]bool, len(rows[cy]))
	}

	for cy := 0; cy < c.ChunksY; cy++ {
		for si, s := range rows[cy] {
			if consumed[cy][si] {
				continue
			}
			consumed[cy][si] = true
			h := 1
			for ny := cy + 1; ny < c.ChunksY; ny++ {
				found := -1
				for nsi, ns := range rows[ny] {
					if !consumed[ny][nsi] && ns == s {
						found = nsi
						break
					}
				}
				if found == -1 {
					break
				}
				consumed[ny][found] = true
				h++
			}
			rects = append(rects, Rect{CX: s.x0, CY: cy, CW: s.x1 - s.x0, CH: h})
		}
	}

	for cy := 0; cy < c.ChunksY; cy++ {
		for cx := 0; cx < c.ChunksX; cx++ {
			if c.IsVisualDirty(cx, cy) {
				c.ClearVisualDirty(cx, cy)
			}
		}
	}

	return rects
}

// ExtractRectPixels copies rect's colour values into a row-major linear
// buffer sized w*h, growing dst if needed, and returns the (possibly
// reallocated) slice actually used.
func ExtractRectPixels(g *grid.Grid, c *chunk.Grid, rect Rect, dst []uint32) []uint32 {
	x0, y0, w, h := rect.PixelBounds(g)
	need := w * h
	if cap(dst) < need {
		dst = make([]uint32, need)
	} else {
		dst = dst[:need]
	}
	if w == 0 || h == 0 {
		return dst
	}
	for row := 0; row < h; row++ {
		srcBase := (y0 + row) * g.W
		dstBase := row * w
		copy(dst[dstBase:dstBase+w], g.Colours[srcBase+x0:srcBase+x0+w])
	}
	return dst
}
