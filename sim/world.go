// Package sim wires the grid, chunk, physics, behaviour, reaction,
// temperature, rigid-body and dirty-rect packages into the single
// frame pipeline and host surface described by spec.md §4.9/§6.
package sim

import (
	"encoding/json"
	"math/rand"

	"github.com/pthm/sandpit/behavior"
	"github.com/pthm/sandpit/chunk"
	"github.com/pthm/sandpit/config"
	"github.com/pthm/sandpit/content"
	"github.com/pthm/sandpit/dirtyrect"
	"github.com/pthm/sandpit/grid"
	"github.com/pthm/sandpit/physics"
	"github.com/pthm/sandpit/reaction"
	"github.com/pthm/sandpit/rigid"
	"github.com/pthm/sandpit/temperature"
)

// World is the simulation host: the single entry point embedding
// applications (a viewer, a headless runner, a tuning tool) use to step
// the engine and read back its state.
type World struct {
	cfg *config.Config

	registry *content.Registry
	grid     *grid.Grid
	chunks   *chunk.Grid
	moves    *chunk.MoveBuffer
	rigid    *rigid.World
	rng      *rand.Rand

	ambient float32
	gravX   float32
	gravY   float32

	frame uint64

	perfEnabled bool
	perf        *PerfCollector

	rectBuf []dirtyrect.Rect
	pixBuf  []uint32
}

// New builds a world from cfg, loading the default content bundle.
func New(cfg *config.Config) (*World, error) {
	reg, err := content.Load(content.Default())
	if err != nil {
		return nil, err
	}
	return newWorld(cfg, reg), nil
}

// NewWithBundle builds a world from cfg using an externally supplied,
// already-validated registry (see LoadContentBundleJSON for the
// JSON-in path of spec.md §6).
func NewWithBundle(cfg *config.Config, reg *content.Registry) *World {
	return newWorld(cfg, reg)
}

func newWorld(cfg *config.Config, reg *content.Registry) *World {
	ambient := float32(cfg.Thermal.AmbientTemp)
	w := &World{
		cfg:      cfg,
		registry: reg,
		grid:     grid.New(cfg.World.Width, cfg.World.Height, ambient),
		chunks:   chunk.New(cfg.World.Width, cfg.World.Height, ambient),
		moves:    chunk.NewMoveBuffer(cfg.Chunk.MoveBufferCap),
		rigid:    rigid.NewWorld(),
		rng:      rand.New(rand.NewSource(cfg.World.Seed)),
		ambient:  ambient,
		gravX:    float32(cfg.Physics.GravityX),
		gravY:    float32(cfg.Physics.GravityY),
		perf:     NewPerfCollector(cfg.Telemetry.WindowSize),
	}
	return w
}

// Width and Height report the fixed grid dimensions.
func (w *World) Width() int  { return w.grid.W }
func (w *World) Height() int { return w.grid.H }

// Frame returns the number of completed Step calls.
func (w *World) Frame() uint64 { return w.frame }

// ParticleCount returns the total number of non-empty cells.
func (w *World) ParticleCount() int { return w.grid.ParticleCount() }

// SetGravity changes the gravity direction used by subsequent steps.
// Components need not be normalised; physics.Params scales by G.
func (w *World) SetGravity(x, y float32) {
	w.gravX, w.gravY = x, y
}

// AmbientTemperature returns the current ambient/background temperature.
func (w *World) AmbientTemperature() float32 { return w.ambient }

// SetAmbientTemperature changes the ambient temperature future diffusion
// and sleeping-chunk decay target toward.
func (w *World) SetAmbientTemperature(t float32) { w.ambient = t }

// AddParticle places a single particle at (x,y) using id's default
// properties (color, lifetime, temperature), per spec.md §6. No-op if
// out of bounds or id is unknown.
func (w *World) AddParticle(x, y int, id uint8) bool {
	if !w.grid.InBounds(x, y) {
		return false
	}
	el, ok := w.registry.Props(id)
	if !ok {
		return false
	}
	wasEmpty := w.grid.IsEmpty(x, y)
	seed := uint8((uint32(x)*7 + uint32(y)*13) & 31)
	colour := content.ColourWithVariation(el.Color, seed)
	w.grid.SetParticle(x, y, id, colour, el.Lifetime, el.DefaultTemp)
	if wasEmpty {
		w.chunks.AddParticle(x, y)
	} else {
		w.chunks.MarkDirty(x, y)
	}
	return true
}

// AddParticlesInRadius scatters id into every cell within radius r of
// (cx,cy), at the given fill probability in [0,1], per spec.md §6.
func (w *World) AddParticlesInRadius(cx, cy, r int, id uint8, fillProbability float64) int {
	placed := 0
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			if !w.grid.InBounds(x, y) || !w.grid.IsEmpty(x, y) {
				continue
			}
			if fillProbability < 1 && w.rng.Float64() >= fillProbability {
				continue
			}
			if w.AddParticle(x, y, id) {
				placed++
			}
		}
	}
	return placed
}

// RemoveParticle clears the cell at (x,y), if occupied.
func (w *World) RemoveParticle(x, y int) bool {
	if !w.grid.InBounds(x, y) || w.grid.IsEmpty(x, y) {
		return false
	}
	w.grid.ClearCell(x, y)
	w.chunks.RemoveParticle(x, y)
	w.chunks.MarkDirty(x, y)
	return true
}

// Clear resets every cell to empty and rebuilds chunk bookkeeping from
// scratch.
func (w *World) Clear() {
	ambient := w.ambient
	w.grid = grid.New(w.grid.W, w.grid.H, ambient)
	w.chunks = chunk.New(w.grid.W, w.grid.H, ambient)
	w.moves.Clear()
}

// SpawnRigidBody inserts a rectangular rigid body (spec.md §4.10).
func (w *World) SpawnRigidBody(x, y, width, height int, elementID uint8) uint32 {
	return w.rigid.SpawnBody(x, y, width, height, elementID)
}

// SpawnRigidCircle inserts a circular rigid body.
func (w *World) SpawnRigidCircle(x, y, radius int, elementID uint8) uint32 {
	return w.rigid.SpawnCircle(x, y, radius, elementID)
}

// RemoveRigidBody de-rasterises and deletes a rigid body.
func (w *World) RemoveRigidBody(id uint32) bool {
	return w.rigid.Remove(w.grid, id)
}

// RigidBodyCount returns the number of live rigid bodies.
func (w *World) RigidBodyCount() int { return w.rigid.Count() }

// ActiveChunks returns the number of chunks currently Active.
func (w *World) ActiveChunks() int { return w.chunks.ActiveChunks() }

// TotalChunks returns the total chunk count.
func (w *World) TotalChunks() int { return w.chunks.NumChunks() }

// ChunksX and ChunksY report the chunk-grid dimensions.
func (w *World) ChunksX() int { return w.chunks.ChunksX }
func (w *World) ChunksY() int { return w.chunks.ChunksY }

// Colours, Types, and Temperatures expose the raw SoA backing arrays for
// zero-copy reads by an embedding renderer (spec.md §6). Callers must
// not retain these beyond the current frame: Step may not reallocate
// them, but nothing else guarantees it won't in a future revision.
func (w *World) Colours() []uint32        { return w.grid.Colours }
func (w *World) Types() []uint8           { return w.grid.Types }
func (w *World) Temperatures() []float32  { return w.grid.Temperature }

// CollectDirtyChunks returns the merged dirty-rectangle list for this
// frame and clears every chunk's visual-dirty bit.
func (w *World) CollectDirtyChunks() []dirtyrect.Rect {
	w.rectBuf = dirtyrect.CollectMergedRects(w.chunks)
	return w.rectBuf
}

// ExtractChunkPixels copies the colour values of a single chunk, row by
// row, into a buffer of up to Size*Size pixels (fewer where the chunk is
// clipped at the grid edge), growing dst as needed.
func (w *World) ExtractChunkPixels(cx, cy int, dst []uint32) []uint32 {
	rect := dirtyrect.Rect{CX: cx, CY: cy, CW: 1, CH: 1}
	return dirtyrect.ExtractRectPixels(w.grid, w.chunks, rect, dst)
}

// ExtractRectPixels copies a merged rectangle's colour values into dst,
// growing it as needed, and returns the slice actually used.
func (w *World) ExtractRectPixels(rect dirtyrect.Rect, dst []uint32) []uint32 {
	return dirtyrect.ExtractRectPixels(w.grid, w.chunks, rect, dst)
}

// RectBufferSize returns the pixel count a rect requires.
func (w *World) RectBufferSize(rect dirtyrect.Rect) int {
	_, _, rw, rh := rect.PixelBounds(w.grid)
	return rw * rh
}

// RectPixelBounds converts a merged rect to pixel-space (x,y,w,h),
// for a caller that needs to address a texture region directly.
func (w *World) RectPixelBounds(rect dirtyrect.Rect) (x, y, w, h int) {
	return rect.PixelBounds(w.grid)
}

// EnablePerfMetrics toggles perf collection. Collection has a small but
// nonzero cost (time.Now() per phase), so it defaults to off.
func (w *World) EnablePerfMetrics(on bool) { w.perfEnabled = on }

// PerfStats returns the current rolling-window perf snapshot. Until a
// frame has completed with metrics enabled, every duration and rate is
// zero and the phase maps are empty; disabling metrics later keeps the
// last window.
func (w *World) PerfStats() PerfStats { return w.perf.Stats() }

// LoadContentBundleJSON parses and validates a replacement content
// bundle and, on success, swaps it in. On failure the world's existing
// registry is left untouched (spec.md §7).
func (w *World) LoadContentBundleJSON(data []byte) error {
	b, err := content.ParseBundle(data)
	if err != nil {
		return err
	}
	reg, err := content.Load(b)
	if err != nil {
		return err
	}
	w.registry = reg
	return nil
}

// ContentManifestJSON serialises the currently loaded element/reaction
// manifest back to JSON, for introspection by an embedding tool.
func (w *World) ContentManifestJSON() ([]byte, error) {
	return json.Marshal(w.registry.Manifest())
}

// Step advances the simulation by one frame, running the full pipeline
// of spec.md §4.9: rigid-body rasterisation, physics, behaviour and
// reaction (alternating sweep direction), move-buffer replay, and
// temperature.
func (w *World) Step() {
	if w.perfEnabled {
		w.perf.StartTick()
	}

	w.moves.Clear()
	if w.cfg.Parallel.Enabled {
		w.grid.ResetUpdatedParallel(w.cfg.Parallel.Workers)
	} else {
		w.grid.ResetUpdated()
	}
	w.chunks.BeginFrame()

	if w.perfEnabled {
		w.perf.StartPhase(PhaseRigidRasterise)
	}
	w.rigid.Rasterise(w.grid)

	if w.perfEnabled {
		w.perf.StartPhase(PhasePhysics)
	}
	w.stepPhysics()

	if w.perfEnabled {
		w.perf.StartPhase(PhaseBehaviour)
	}
	if w.cfg.Parallel.Enabled {
		w.grid.ResetUpdatedParallel(w.cfg.Parallel.Workers)
	} else {
		w.grid.ResetUpdated()
	}
	w.stepBehaviourAndReactions()

	if w.perfEnabled {
		w.perf.StartPhase(PhaseMoveReplay)
	}
	w.replayMoves()

	if w.perfEnabled {
		w.perf.StartPhase(PhaseTemperature)
	}
	temperature.Step(temperature.Params{
		Grid: w.grid, Chunks: w.chunks, Registry: w.registry,
		Rng: w.rng, Ambient: w.ambient, Frame: w.frame,
	})

	w.frame++

	if w.perfEnabled {
		w.perf.EndTick()
	}
}

func (w *World) physicsParams() physics.Params {
	return physics.Params{
		GravityX: w.gravX, GravityY: w.gravY,
		G:               float32(w.cfg.Physics.G),
		AirFriction:     float32(w.cfg.Physics.AirFriction),
		MaxVelocity:     float32(w.cfg.Physics.MaxVelocity),
		MaxRaycastSteps: w.cfg.Physics.MaxRaycastSteps,
	}
}

// gravitySign discretises gravity into a {-1,0,1}^2 direction, used by
// the physics pass to pick its row sweep order and by the behaviour
// pass as the discrete gravity direction.
func gravitySign(v float32) int {
	switch {
	case v > 0.01:
		return 1
	case v < -0.01:
		return -1
	default:
		return 0
	}
}

// stepPhysics runs the DDA raycast integration pass over every
// non-sleeping chunk's particles, in the gravity-ordered row sweep of
// spec.md §4.5 step 6 (downward gravity sweeps bottom-to-top so a
// falling column doesn't re-visit cells it just vacated into).
func (w *World) stepPhysics() {
	params := w.physicsParams()
	gy := gravitySign(w.gravY)

	yStart, yEnd, yStep := 0, w.grid.H, 1
	if gy > 0 {
		yStart, yEnd, yStep = w.grid.H-1, -1, -1
	}

	for y := yStart; y != yEnd; y += yStep {
		if !w.grid.RowOccupied(y) {
			continue
		}
		for x := 0; x < w.grid.W; x++ {
			id := w.grid.GetType(x, y)
			if id == content.EmptyID {
				continue
			}
			if w.grid.Updated[w.grid.Index(x, y)] {
				continue
			}
			el, ok := w.registry.Props(id)
			if !ok {
				w.grid.ClearCell(x, y)
				continue
			}
			if physics.SkipsPhysics(el) {
				continue
			}
			res := physics.Step(w.grid, x, y, el, params)
			if !res.Moved {
				continue
			}
			w.grid.SwapXY(x, y, res.NewX, res.NewY)
			w.grid.Updated[w.grid.Index(res.NewX, res.NewY)] = true

			scx, scy := w.chunks.ChunkOf(x, y)
			dcx, dcy := w.chunks.ChunkOf(res.NewX, res.NewY)
			if scx != dcx || scy != dcy {
				w.moves.Push(chunk.Move{FromX: x, FromY: y, ToX: res.NewX, ToY: res.NewY})
			}
			w.chunks.MarkDirty(x, y)
			w.chunks.MarkDirty(res.NewX, res.NewY)
		}
	}
}

// stepBehaviourAndReactions runs the category-behaviour and reaction
// passes together, sweeping left-to-right on even frames and
// right-to-left on odd frames to avoid directional bias (spec.md §4.9
// step 5).
func (w *World) stepBehaviourAndReactions() {
	leftToRight := w.frame%2 == 0

	for cy := 0; cy < w.chunks.ChunksY; cy++ {
		for cx := 0; cx < w.chunks.ChunksX; cx++ {
			if !w.chunks.ShouldProcess(cx, cy) {
				continue
			}
			moved := w.stepChunkBehaviour(cx, cy, leftToRight)
			w.chunks.EndChunkUpdate(cx, cy, moved)
		}
	}
}

func (w *World) stepChunkBehaviour(cx, cy int, leftToRight bool) bool {
	x0, y0 := w.chunks.Origin(cx, cy)
	x1, y1 := x0+chunk.Size, y0+chunk.Size
	if x1 > w.grid.W {
		x1 = w.grid.W
	}
	if y1 > w.grid.H {
		y1 = w.grid.H
	}

	gx, gy := gravitySign(w.gravX), gravitySign(w.gravY)
	moved := false

	for y := y0; y < y1; y++ {
		if !w.grid.RowOccupied(y) {
			continue
		}
		if leftToRight {
			for x := x0; x < x1; x++ {
				if w.stepCellBehaviour(x, y, gx, gy) {
					moved = true
				}
			}
		} else {
			for x := x1 - 1; x >= x0; x-- {
				if w.stepCellBehaviour(x, y, gx, gy) {
					moved = true
				}
			}
		}
	}
	return moved
}

func (w *World) stepCellBehaviour(x, y, gx, gy int) bool {
	if w.grid.IsEmpty(x, y) {
		return false
	}
	if w.grid.Updated[w.grid.Index(x, y)] {
		return false
	}

	ctx := &behavior.Context{
		Grid: w.grid, Chunks: w.chunks, Moves: w.moves, Registry: w.registry,
		Rng: w.rng, X: x, Y: y, Frame: w.frame, GX: gx, GY: gy, Ambient: w.ambient,
	}
	behavior.Dispatch(ctx)
	moved := ctx.X != x || ctx.Y != y

	if w.grid.InBounds(ctx.X, ctx.Y) && !w.grid.IsEmpty(ctx.X, ctx.Y) {
		reaction.Apply(reaction.Params{
			Grid: w.grid, Chunks: w.chunks, Registry: w.registry, Rng: w.rng,
		}, ctx.X, ctx.Y)
	}

	return moved
}

// replayMoves walks the frame's recorded cross-chunk moves and applies
// their chunk-bookkeeping side effects, recovering via a full rebuild if
// the buffer overflowed (spec.md §4.3, §7).
func (w *World) replayMoves() {
	if w.moves.Overflowed() {
		w.chunks.RebuildParticleCounts(w.grid.Types)
		return
	}
	for _, m := range w.moves.Moves() {
		w.chunks.MoveParticle(m.FromX, m.FromY, m.ToX, m.ToY)
	}
}
