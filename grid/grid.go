// Package grid implements the structure-of-arrays cell grid: fixed W×H
// parallel arrays of per-cell state, the unit every other pass operates
// on. Grounded on systems/resource_field.go's flat float32-slice layout,
// generalised to the cell grid's several parallel fields.
package grid

import "github.com/pthm/sandpit/content"

// Grid is a fixed W×H structure-of-arrays cell grid. It never resizes
// after New.
type Grid struct {
	W, H int

	Types       []uint8
	Colours     []uint32
	Life        []uint32
	Updated     []bool
	Temperature []float32
	VX, VY      []float32

	// rowCount[y] is the number of non-empty cells in row y, used to
	// short-circuit empty-row scans.
	rowCount []int32

	ambient float32
}

// New allocates a grid of the given size. ambient is the initial
// temperature for every cell.
func New(w, h int, ambient float32) *Grid {
	n := w * h
	g := &Grid{
		W: w, H: h,
		Types:       make([]uint8, n),
		Colours:     make([]uint32, n),
		Life:        make([]uint32, n),
		Updated:     make([]bool, n),
		Temperature: make([]float32, n),
		VX:          make([]float32, n),
		VY:          make([]float32, n),
		rowCount:    make([]int32, h),
		ambient:     ambient,
	}
	for i := range g.Temperature {
		g.Temperature[i] = ambient
		g.Colours[i] = content.BackgroundColour
	}
	return g
}

// InBounds reports whether (x,y) names a real cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// Index converts (x,y) to a linear SoA index. Caller must ensure bounds.
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// Coords converts a linear index back to (x,y).
func (g *Grid) Coords(idx int) (int, int) { return idx % g.W, idx / g.W }

// GetType returns the element id at (x,y), or content.IDEmpty if out of
// bounds (spec.md §4.2: out-of-bounds reads as empty).
func (g *Grid) GetType(x, y int) uint8 {
	if !g.InBounds(x, y) {
		return content.EmptyID
	}
	return g.Types[g.Index(x, y)]
}

// IsEmpty reports whether (x,y) holds no particle. Out-of-bounds is
// treated as empty.
func (g *Grid) IsEmpty(x, y int) bool { return g.GetType(x, y) == content.EmptyID }

// GetTemp returns the temperature at (x,y), or the ambient temperature
// if out of bounds.
func (g *Grid) GetTemp(x, y int) float32 {
	if !g.InBounds(x, y) {
		return g.ambient
	}
	return g.Temperature[g.Index(x, y)]
}

// SetTemp sets the temperature at an in-bounds cell.
func (g *Grid) SetTemp(x, y int, t float32) {
	g.Temperature[g.Index(x, y)] = t
}

// SetParticle places a new particle at (x,y), per the contract in
// spec.md §4.2: all fields reflect the new particle, the updated bit is
// cleared so the particle may still move this frame, velocity is
// zeroed.
func (g *Grid) SetParticle(x, y int, id uint8, colour uint32, life uint32, temp float32) {
	idx := g.Index(x, y)
	wasEmpty := g.Types[idx] == content.EmptyID
	g.Types[idx] = id
	g.Colours[idx] = colour
	g.Life[idx] = life
	g.Updated[idx] = false
	g.Temperature[idx] = temp
	g.VX[idx] = 0
	g.VY[idx] = 0
	if wasEmpty && id != content.EmptyID {
		g.rowCount[y]++
	}
}

// ClearCell resets (x,y) to its neutral empty state.
func (g *Grid) ClearCell(x, y int) {
	idx := g.Index(x, y)
	wasEmpty := g.Types[idx] == content.EmptyID
	g.Types[idx] = content.EmptyID
	g.Colours[idx] = content.BackgroundColour
	g.Life[idx] = 0
	g.VX[idx] = 0
	g.VY[idx] = 0
	if !wasEmpty {
		g.rowCount[y]--
	}
}

// Swap exchanges every SoA field between two linear indices.
func (g *Grid) Swap(i1, i2 int) {
	if i1 == i2 {
		return
	}
	g.Types[i1], g.Types[i2] = g.Types[i2], g.Types[i1]
	g.Colours[i1], g.Colours[i2] = g.Colours[i2], g.Colours[i1]
	g.Life[i1], g.Life[i2] = g.Life[i2], g.Life[i1]
	g.Updated[i1], g.Updated[i2] = g.Updated[i2], g.Updated[i1]
	g.Temperature[i1], g.Temperature[i2] = g.Temperature[i2], g.Temperature[i1]
	g.VX[i1], g.VX[i2] = g.VX[i2], g.VX[i1]
	g.VY[i1], g.VY[i2] = g.VY[i2], g.VY[i1]
}

// SwapXY swaps the cells at (x1,y1) and (x2,y2), maintaining rowCount.
func (g *Grid) SwapXY(x1, y1, x2, y2 int) {
	i1, i2 := g.Index(x1, y1), g.Index(x2, y2)
	e1, e2 := g.Types[i1] == content.EmptyID, g.Types[i2] == content.EmptyID
	g.Swap(i1, i2)
	if e1 != e2 {
		if e1 && !e2 {
			// empty gained a particle at (x1,y1); lost one at (x2,y2)
			g.rowCount[y1]++
			g.rowCount[y2]--
		} else {
			g.rowCount[y1]--
			g.rowCount[y2]++
		}
	}
}

// RowOccupied reports whether row y has any non-empty cell.
func (g *Grid) RowOccupied(y int) bool { return g.rowCount[y] > 0 }

// RebuildRowCounts recomputes rowCount from scratch. Used after bulk
// mutation paths that bypass SetParticle/ClearCell bookkeeping.
func (g *Grid) RebuildRowCounts() {
	for y := 0; y < g.H; y++ {
		c := int32(0)
		base := y * g.W
		for x := 0; x < g.W; x++ {
			if g.Types[base+x] != content.EmptyID {
				c++
			}
		}
		g.rowCount[y] = c
	}
}

// HydrateChunk sets the temperature of every empty cell within the
// rectangle [x0,x0+size) x [y0,y0+size) to t. Non-empty cells are
// untouched. Used when a sleeping chunk wakes (spec.md §4.8).
func (g *Grid) HydrateChunk(x0, y0, size int, t float32) {
	x1, y1 := x0+size, y0+size
	if x1 > g.W {
		x1 = g.W
	}
	if y1 > g.H {
		y1 = g.H
	}
	for y := y0; y < y1; y++ {
		base := y * g.W
		for x := x0; x < x1; x++ {
			idx := base + x
			if g.Types[idx] == content.EmptyID {
				g.Temperature[idx] = t
			}
		}
	}
}

// AverageAirTemp returns the arithmetic mean temperature over empty
// cells in the given rectangle, or 20 if the rectangle holds no air.
func (g *Grid) AverageAirTemp(x0, y0, size int) float32 {
	x1, y1 := x0+size, y0+size
	if x1 > g.W {
		x1 = g.W
	}
	if y1 > g.H {
		y1 = g.H
	}
	var sum float32
	var n int
	for y := y0; y < y1; y++ {
		base := y * g.W
		for x := x0; x < x1; x++ {
			idx := base + x
			if g.Types[idx] == content.EmptyID {
				sum += g.Temperature[idx]
				n++
			}
		}
	}
	if n == 0 {
		return 20
	}
	return sum / float32(n)
}

// BatchLerpAirTemps lerps every empty cell's temperature toward target
// at rate alpha, returning the number of cells processed.
func (g *Grid) BatchLerpAirTemps(x0, y0, size int, target, alpha float32) int {
	x1, y1 := x0+size, y0+size
	if x1 > g.W {
		x1 = g.W
	}
	if y1 > g.H {
		y1 = g.H
	}
	count := 0
	for y := y0; y < y1; y++ {
		base := y * g.W
		for x := x0; x < x1; x++ {
			idx := base + x
			if g.Types[idx] == content.EmptyID {
				g.Temperature[idx] = g.Temperature[idx]*(1-alpha) + target*alpha
				count++
			}
		}
	}
	return count
}

// ResetUpdated clears the per-cell updated guard for every cell. Called
// at the start of the physics pass and again before the behaviour pass
// (spec.md §4.9 steps 2 and 5).
func (g *Grid) ResetUpdated() {
	for i := range g.Updated {
		g.Updated[i] = false
	}
}

// ParticleCount returns the total number of non-empty cells.
func (g *Grid) ParticleCount() int {
	total := 0
	for _, c := range g.rowCount {
		total += int(c)
	}
	return total
}
