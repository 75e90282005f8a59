// Package reaction implements the O(1) bilateral reaction lookup and
// application (spec.md §4.7).
package reaction

import (
	"math/rand"

	"github.com/pthm/sandpit/chunk"
	"github.com/pthm/sandpit/content"
	"github.com/pthm/sandpit/grid"
)

// cardinalDirs mirrors behavior.cardinalDirs; duplicated here (rather
// than imported) to keep reaction free of a dependency on behavior.
var cardinalDirs = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Params bundles what Apply needs to transform a cell and its neighbour.
type Params struct {
	Grid     *grid.Grid
	Chunks   *chunk.Grid
	Registry *content.Registry
	Rng      *rand.Rand
}

// Apply picks one of (x,y)'s four cardinal neighbours at random, looks
// up a reaction keyed on (aggressor id, neighbour id), and — with
// probability chance/255 — applies it: the victim transforms (or is
// destroyed), the aggressor optionally transforms, and an optional
// byproduct is placed into an empty cell above the event.
func Apply(p Params, x, y int) {
	aggressorID := p.Grid.GetType(x, y)
	if aggressorID == content.EmptyID {
		return
	}

	d := cardinalDirs[p.Rng.Intn(4)]
	vx, vy := x+d[0], y+d[1]
	if !p.Grid.InBounds(vx, vy) {
		return
	}
	victimID := p.Grid.GetType(vx, vy)
	if victimID == content.EmptyID {
		return
	}

	rxn := p.Registry.Reaction(aggressorID, victimID)
	if rxn == nil {
		return
	}

	roll := uint8(p.Rng.Intn(256))
	if roll >= rxn.ProbabilityByte() {
		return
	}

	transform(p, vx, vy, rxn.ResultVictimID)

	if rxn.ResultAggressorID != nil && *rxn.ResultAggressorID != content.NoChange {
		transform(p, x, y, *rxn.ResultAggressorID)
	}

	if rxn.SpawnID != nil && *rxn.SpawnID != content.EmptyID {
		if !spawnAbove(p, x, y, *rxn.SpawnID) {
			spawnAbove(p, vx, vy, *rxn.SpawnID)
		}
	}
}

// transform replaces the particle at (x,y) with newID, or clears the
// cell if newID is empty, preserving temperature and marking the chunk
// dirty so the renderer observes the change.
func transform(p Params, x, y int, newID uint8) {
	idx := p.Grid.Index(x, y)
	temp := p.Grid.Temperature[idx]

	if newID == content.EmptyID {
		p.Grid.ClearCell(x, y)
		p.Chunks.RemoveParticle(x, y)
		p.Chunks.MarkDirty(x, y)
		return
	}

	el, ok := p.Registry.Props(newID)
	if !ok {
		p.Grid.ClearCell(x, y)
		p.Chunks.RemoveParticle(x, y)
		p.Chunks.MarkDirty(x, y)
		return
	}

	wasEmpty := p.Grid.Types[idx] == content.EmptyID
	seed := uint8((uint32(x)*7 + uint32(y)*13) & 31)
	colour := content.ColourWithVariation(el.Color, seed)
	p.Grid.SetParticle(x, y, newID, colour, el.Lifetime, temp)
	p.Grid.Updated[idx] = true // stop this frame's behaviour sweep from re-dispatching it
	if wasEmpty {
		p.Chunks.AddParticle(x, y)
	} else {
		p.Chunks.MarkDirty(x, y)
	}
}

// spawnAbove places byproduct into the cell directly above (x,y) if it
// is empty, returning true on success. It never replaces an existing
// particle.
func spawnAbove(p Params, x, y int, byproduct uint8) bool {
	ax, ay := x, y-1
	if !p.Grid.InBounds(ax, ay) || !p.Grid.IsEmpty(ax, ay) {
		return false
	}
	el, ok := p.Registry.Props(byproduct)
	if !ok {
		return false
	}
	p.Grid.SetParticle(ax, ay, byproduct, el.Color, el.Lifetime, el.DefaultTemp)
	p.Chunks.AddParticle(ax, ay)
	return true
}
