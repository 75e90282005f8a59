// Package chunk implements the chunk grid: the 32x32-tile dirty/sleep
// bookkeeping layered over the cell grid. Grounded on
// original_source/.../chunks.rs's flat-Vec-per-field ChunkGrid.
package chunk

// Size is the chunk edge length in cells.
const Size = 32

// SleepThreshold is the number of consecutive idle frames before an
// empty, non-dirty chunk transitions to Sleeping.
const SleepThreshold = 30

type state uint8

const (
	stateActive state = iota
	stateSleeping
)

// Grid is the chunk-level bookkeeping layer: one entry per 32x32 tile
// of the cell grid.
type Grid struct {
	ChunksX, ChunksY int
	GridW, GridH     int

	state         []state
	dirty         []bool
	visualDirty   []bool
	idleFrames    []int32
	particleCount []int32
	justWokeUp    []bool
	virtualTemp   []float32
}

// New builds a chunk grid sized to cover a gridW x gridH cell grid. All
// chunks start Active and dirty, matching chunks.rs::new.
func New(gridW, gridH int, ambient float32) *Grid {
	cx := (gridW + Size - 1) / Size
	cy := (gridH + Size - 1) / Size
	n := cx * cy
	g := &Grid{
		ChunksX: cx, ChunksY: cy, GridW: gridW, GridH: gridH,
		state:         make([]state, n),
		dirty:         make([]bool, n),
		visualDirty:   make([]bool, n),
		idleFrames:    make([]int32, n),
		particleCount: make([]int32, n),
		justWokeUp:    make([]bool, n),
		virtualTemp:   make([]float32, n),
	}
	for i := range g.dirty {
		g.dirty[i] = true
		g.visualDirty[i] = true
		g.virtualTemp[i] = ambient
	}
	return g
}

// Index converts chunk coordinates to a linear chunk index.
func (g *Grid) Index(cx, cy int) int { return cy*g.ChunksX + cx }

// Coords converts a linear chunk index back to chunk coordinates.
func (g *Grid) Coords(idx int) (int, int) { return idx % g.ChunksX, idx / g.ChunksX }

// ChunkOf returns the chunk coordinates containing cell (x,y).
func (g *Grid) ChunkOf(x, y int) (int, int) { return x / Size, y / Size }

// InBounds reports whether (cx,cy) names a real chunk.
func (g *Grid) InBounds(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < g.ChunksX && cy < g.ChunksY
}

// Origin returns the top-left cell coordinates of chunk (cx,cy).
func (g *Grid) Origin(cx, cy int) (int, int) { return cx * Size, cy * Size }

// IsDirty reports the physics-dirty bit of chunk (cx,cy).
func (g *Grid) IsDirty(cx, cy int) bool { return g.dirty[g.Index(cx, cy)] }

// IsSleeping reports whether chunk (cx,cy) is Sleeping.
func (g *Grid) IsSleeping(cx, cy int) bool { return g.state[g.Index(cx, cy)] == stateSleeping }

// IsVisualDirty reports whether chunk (cx,cy)'s pixels changed since the
// last renderer fetch.
func (g *Grid) IsVisualDirty(cx, cy int) bool { return g.visualDirty[g.Index(cx, cy)] }

// ParticleCount returns the tracked non-empty cell count for chunk
// (cx,cy).
func (g *Grid) ParticleCount(cx, cy int) int32 { return g.particleCount[g.Index(cx, cy)] }

// ShouldProcess reports whether a chunk needs a pass this frame: it is
// dirty or holds particles (spec.md §4.4).
func (g *Grid) ShouldProcess(cx, cy int) bool {
	i := g.Index(cx, cy)
	return g.dirty[i] || g.particleCount[i] > 0
}

// JustWokeUp reports and does not clear the just-woke-up flag for
// (cx,cy); callers that consume it (the temperature pass, to trigger
// hydration) should clear it via ClearJustWokeUp.
func (g *Grid) JustWokeUp(cx, cy int) bool { return g.justWokeUp[g.Index(cx, cy)] }

// ClearJustWokeUp resets the just-woke-up flag after it has been
// consumed.
func (g *Grid) ClearJustWokeUp(cx, cy int) { g.justWokeUp[g.Index(cx, cy)] = false }

// VirtualTemp returns the ambient temperature carried by a sleeping (or
// recently sleeping) chunk.
func (g *Grid) VirtualTemp(cx, cy int) float32 { return g.virtualTemp[g.Index(cx, cy)] }

// SetVirtualTemp overwrites the chunk's virtual temperature, used to
// resync with the actual air average every fourth frame.
func (g *Grid) SetVirtualTemp(cx, cy int, t float32) { g.virtualTemp[g.Index(cx, cy)] = t }

// UpdateVirtualTemp lerps the chunk's virtual temperature toward ambient
// at the given rate. Used for sleeping chunks, which skip per-cell work.
func (g *Grid) UpdateVirtualTemp(cx, cy int, ambient, rate float32) {
	i := g.Index(cx, cy)
	g.virtualTemp[i] += (ambient - g.virtualTemp[i]) * rate
}

// wakeOffsets maps a 4-bit (near-left,near-right,near-top,near-bottom)
// edge signature to the set of neighbour offsets that must be woken,
// matching chunks.rs's 16-entry near-edge lookup.
var wakeOffsets = [16][][2]int{}

func init() {
	for sig := 0; sig < 16; sig++ {
		nearLeft := sig&1 != 0
		nearRight := sig&2 != 0
		nearTop := sig&4 != 0
		nearBottom := sig&8 != 0

		var offs [][2]int
		if nearLeft {
			offs = append(offs, [2]int{-1, 0})
		}
		if nearRight {
			offs = append(offs, [2]int{1, 0})
		}
		if nearTop {
			offs = append(offs, [2]int{0, -1})
		}
		if nearBottom {
			offs = append(offs, [2]int{0, 1})
		}
		if nearLeft && nearTop {
			offs = append(offs, [2]int{-1, -1})
		}
		if nearRight && nearTop {
			offs = append(offs, [2]int{1, -1})
		}
		if nearLeft && nearBottom {
			offs = append(offs, [2]int{-1, 1})
		}
		if nearRight && nearBottom {
			offs = append(offs, [2]int{1, 1})
		}
		wakeOffsets[sig] = offs
	}
}

// MarkDirty sets the dirty and visual-dirty bits of the chunk containing
// cell (x,y). If the chunk was Sleeping, it transitions to Active, sets
// just_woke_up, and resets the idle counter.
func (g *Grid) MarkDirty(x, y int) {
	cx, cy := g.ChunkOf(x, y)
	g.MarkDirtyChunk(cx, cy)
}

// MarkDirtyChunk is MarkDirty addressed by chunk coordinates directly.
func (g *Grid) MarkDirtyChunk(cx, cy int) {
	i := g.Index(cx, cy)
	g.dirty[i] = true
	g.visualDirty[i] = true
	if g.state[i] == stateSleeping {
		g.state[i] = stateActive
		g.justWokeUp[i] = true
		g.idleFrames[i] = 0
	}
}

// WakeNeighbors marks up to 8 neighbouring chunks dirty when cell (x,y)
// sits near a chunk edge, using the near-edge signature lookup.
func (g *Grid) WakeNeighbors(x, y int) {
	cx, cy := g.ChunkOf(x, y)
	lx, ly := x-cx*Size, y-cy*Size

	nearLeft := lx < 2
	nearRight := lx >= Size-2
	nearTop := ly < 2
	nearBottom := ly >= Size-2

	sig := 0
	if nearLeft {
		sig |= 1
	}
	if nearRight {
		sig |= 2
	}
	if nearTop {
		sig |= 4
	}
	if nearBottom {
		sig |= 8
	}
	if sig == 0 {
		return
	}
	for _, off := range wakeOffsets[sig] {
		ncx, ncy := cx+off[0], cy+off[1]
		if g.InBounds(ncx, ncy) {
			g.MarkDirtyChunk(ncx, ncy)
		}
	}
}

// AddParticle increments the chunk's particle count and marks it dirty.
func (g *Grid) AddParticle(x, y int) {
	cx, cy := g.ChunkOf(x, y)
	i := g.Index(cx, cy)
	g.particleCount[i]++
	g.MarkDirtyChunk(cx, cy)
}

// RemoveParticle decrements the chunk's particle count.
func (g *Grid) RemoveParticle(x, y int) {
	cx, cy := g.ChunkOf(x, y)
	i := g.Index(cx, cy)
	if g.particleCount[i] > 0 {
		g.particleCount[i]--
	}
}

// MoveParticle updates bookkeeping for a particle moving from (fx,fy) to
// (tx,ty). Same-chunk moves are no-ops (spec.md §4.4).
func (g *Grid) MoveParticle(fx, fy, tx, ty int) {
	scx, scy := g.ChunkOf(fx, fy)
	dcx, dcy := g.ChunkOf(tx, ty)
	if scx == dcx && scy == dcy {
		return
	}
	si := g.Index(scx, scy)
	if g.particleCount[si] > 0 {
		g.particleCount[si]--
	}
	di := g.Index(dcx, dcy)
	g.particleCount[di]++
	g.MarkDirtyChunk(dcx, dcy)
	g.WakeNeighbors(tx, ty)
}

// BeginFrame updates sleep/idle state for every chunk (spec.md §4.4).
func (g *Grid) BeginFrame() {
	for i := range g.state {
		g.justWokeUp[i] = false
		if g.particleCount[i] > 0 {
			g.state[i] = stateActive
			g.idleFrames[i] = 0
			continue
		}
		if g.dirty[i] {
			g.state[i] = stateActive
			continue
		}
		g.idleFrames[i]++
		if g.idleFrames[i] >= SleepThreshold {
			g.state[i] = stateSleeping
		}
	}
}

// EndChunkUpdate finalises chunk (cx,cy) bookkeeping after a pass: if
// moved, marks visual-dirty and (conditionally) the chunk below dirty to
// let a falling column keep propagating without cascading into fully
// empty, settled chunks. The physics-dirty bit is always cleared.
func (g *Grid) EndChunkUpdate(cx, cy int, moved bool) {
	i := g.Index(cx, cy)
	if moved {
		g.visualDirty[i] = true
		belowY := cy + 1
		if belowY < g.ChunksY {
			bi := g.Index(cx, belowY)
			if g.particleCount[bi] > 0 || g.state[bi] == stateSleeping {
				g.dirty[bi] = true
			}
		}
	}
	g.dirty[i] = false
}

// ClearVisualDirty clears the visual-dirty bit, called by the external
// renderer fetch path once it has consumed the chunk's pixels.
func (g *Grid) ClearVisualDirty(cx, cy int) { g.visualDirty[g.Index(cx, cy)] = false }

// NumChunks returns the total chunk count.
func (g *Grid) NumChunks() int { return g.ChunksX * g.ChunksY }

// ActiveChunks returns the count of chunks currently Active.
func (g *Grid) ActiveChunks() int {
	n := 0
	for _, s := range g.state {
		if s == stateActive {
			n++
		}
	}
	return n
}

// RebuildParticleCounts recomputes every chunk's particle_count from the
// cell grid's type array, the O(W*H) emergency recovery path used after
// a move-buffer overflow (spec.md §4.4, §7).
func (g *Grid) RebuildParticleCounts(types []uint8) {
	for i := range g.particleCount {
		g.particleCount[i] = 0
	}
	for idx, t := range types {
		if t == 0 {
			continue
		}
		x, y := idx%g.GridW, idx/g.GridW
		cx, cy := g.ChunkOf(x, y)
		g.particleCount[g.Index(cx, cy)]++
	}
}
