// Package behavior implements the category-indexed movement rules that
// run after the physics pass (spec.md §4.6). Dispatch is a switch on the
// element's category rather than a registry of behaviour objects.
package behavior

import (
	"math/rand"

	"github.com/pthm/sandpit/chunk"
	"github.com/pthm/sandpit/content"
	"github.com/pthm/sandpit/grid"
)

// Context is the per-cell update context handed to each behaviour arm:
// a mutable grid reference plus everything a rule needs to decide and
// perform a move (spec.md §9).
type Context struct {
	Grid     *grid.Grid
	Chunks   *chunk.Grid
	Moves    *chunk.MoveBuffer
	Registry *content.Registry
	Rng      *rand.Rand

	X, Y    int
	Frame   uint64
	GX, GY  int // discretised gravity direction, each in {-1,0,1}
	Ambient float32
}

// Dispatch runs the behaviour rule for the particle at (ctx.X, ctx.Y),
// chosen by its category (and, within energy/utility/bio, its
// behaviour kind).
func Dispatch(ctx *Context) {
	id := ctx.Grid.GetType(ctx.X, ctx.Y)
	if id == content.EmptyID {
		return
	}
	el, ok := ctx.Registry.Props(id)
	if !ok {
		// Out-of-range element id at step time: defensive recovery
		// (spec.md §7) — clear the cell and move on.
		ctx.Grid.ClearCell(ctx.X, ctx.Y)
		return
	}

	switch el.Category {
	case content.CategoryPowder:
		updatePowder(ctx, el)
	case content.CategoryLiquid:
		updateLiquid(ctx, el)
	case content.CategoryGas:
		updateGas(ctx, el)
	case content.CategoryEnergy:
		updateEnergy(ctx, el)
	case content.CategoryUtility:
		updateUtility(ctx, el)
	case content.CategoryBio:
		updateBio(ctx, el)
	case content.CategorySolid:
		// Solids have no movement rule of their own.
	}

	decayLifetime(ctx, id)
}

// decayLifetime runs the generic per-frame life countdown shared by
// every category; life==0 means "no decay".
func decayLifetime(ctx *Context, id uint8) {
	idx := ctx.Grid.Index(ctx.X, ctx.Y)
	if ctx.Grid.Types[idx] != id {
		return // cell already transformed this frame by its own rule
	}
	if ctx.Grid.Life[idx] == 0 {
		return
	}
	ctx.Grid.Life[idx]--
	if ctx.Grid.Life[idx] == 0 {
		ctx.Grid.ClearCell(ctx.X, ctx.Y)
		ctx.Chunks.RemoveParticle(ctx.X, ctx.Y)
		ctx.Chunks.MarkDirty(ctx.X, ctx.Y)
	}
}

// canDisplace reports whether a liquid with the given density may swap
// into a cell occupied by target. Empty targets are always
// displaceable. Otherwise only liquid/gas targets of strictly lower
// density may be displaced (spec.md §4.6 per-category density rules).
func canDisplace(myDensity float32, targetID uint8, reg *content.Registry) bool {
	if targetID == content.EmptyID {
		return true
	}
	target, ok := reg.Props(targetID)
	if !ok {
		return false
	}
	if target.Category != content.CategoryLiquid && target.Category != content.CategoryGas {
		return false
	}
	return myDensity > target.Density
}

// canDisplacePowder reports whether a powder with the given density may
// swap into a cell occupied by target. Unlike liquids, powder can
// displace liquids of strictly lower density only — it never displaces
// gas (spec.md §4.6 Powder).
func canDisplacePowder(myDensity float32, targetID uint8, reg *content.Registry) bool {
	if targetID == content.EmptyID {
		return true
	}
	target, ok := reg.Props(targetID)
	if !ok {
		return false
	}
	if target.Category != content.CategoryLiquid {
		return false
	}
	return myDensity > target.Density
}

// trySwap moves the particle at (ctx.X,ctx.Y) to (tx,ty), recording a
// move-buffer entry if it crosses a chunk boundary and marking the source
// and destination chunks dirty. Returns true if the swap happened.
func trySwap(ctx *Context, tx, ty int) bool {
	if !ctx.Grid.InBounds(tx, ty) {
		return false
	}
	ctx.Grid.SwapXY(ctx.X, ctx.Y, tx, ty)
	idx := ctx.Grid.Index(tx, ty)
	ctx.Grid.Updated[idx] = true

	scx, scy := ctx.Chunks.ChunkOf(ctx.X, ctx.Y)
	dcx, dcy := ctx.Chunks.ChunkOf(tx, ty)
	if scx != dcx || scy != dcy {
		ctx.Moves.Push(chunk.Move{FromX: ctx.X, FromY: ctx.Y, ToX: tx, ToY: ty})
	}
	ctx.Chunks.MarkDirty(ctx.X, ctx.Y)
	ctx.Chunks.MarkDirty(tx, ty)

	ctx.X, ctx.Y = tx, ty
	return true
}

// cornerCutBlocked implements the corner-cut guard shared by powder and
// seed: a diagonal move is rejected if both orthogonal side cells (the
// two cells adjacent to the diagonal target, forming the "corner") are
// solid.
func cornerCutBlocked(ctx *Context, dx, dy int) bool {
	sideA := ctx.Grid.GetType(ctx.X+dx, ctx.Y)
	sideB := ctx.Grid.GetType(ctx.X, ctx.Y+dy)
	isSolid := func(id uint8) bool {
		el, ok := ctx.Registry.Props(id)
		return ok && el.Category == content.CategorySolid && id != content.EmptyID
	}
	return isSolid(sideA) && isSolid(sideB)
}
