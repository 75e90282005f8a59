// Package temperature implements the per-frame diffusion and phase
// change pass (spec.md §4.8), grounded line-for-line on
// original_source/.../systems/temperature/chunked.rs.
package temperature

import (
	"math/rand"

	"github.com/pthm/sandpit/chunk"
	"github.com/pthm/sandpit/content"
	"github.com/pthm/sandpit/grid"
)

// AirLerpRate is the rate empty cells and sleeping chunks' virtual
// temperature tend toward ambient.
const AirLerpRate = 0.02

// AirConductivity is the implicit conductivity attributed to empty
// cells ("air") for diffusion purposes.
const AirConductivity = 5

// Params are the tunables the temperature pass needs.
type Params struct {
	Grid     *grid.Grid
	Chunks   *chunk.Grid
	Registry *content.Registry
	Rng      *rand.Rand
	Ambient  float32
	Frame    uint64
}

var cardinalDirs = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Step runs the temperature pass over every chunk, in chunk order.
func Step(p Params) {
	for cy := 0; cy < p.Chunks.ChunksY; cy++ {
		for cx := 0; cx < p.Chunks.ChunksX; cx++ {
			if p.Chunks.IsSleeping(cx, cy) {
				p.Chunks.UpdateVirtualTemp(cx, cy, p.Ambient, AirLerpRate)
				continue
			}

			if p.Chunks.JustWokeUp(cx, cy) {
				x0, y0 := p.Chunks.Origin(cx, cy)
				p.Grid.HydrateChunk(x0, y0, chunk.Size, p.Chunks.VirtualTemp(cx, cy))
				p.Chunks.ClearJustWokeUp(cx, cy)
			}

			stepActiveChunk(p, cx, cy)

			if p.Frame&3 == 0 {
				x0, y0 := p.Chunks.Origin(cx, cy)
				avg := p.Grid.AverageAirTemp(x0, y0, chunk.Size)
				p.Chunks.SetVirtualTemp(cx, cy, avg)
			}
		}
	}
}

func stepActiveChunk(p Params, cx, cy int) {
	x0, y0 := p.Chunks.Origin(cx, cy)
	x1, y1 := x0+chunk.Size, y0+chunk.Size
	if x1 > p.Grid.W {
		x1 = p.Grid.W
	}
	if y1 > p.Grid.H {
		y1 = p.Grid.H
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if p.Grid.GetType(x, y) == content.EmptyID {
				updateAirCell(p, x, y)
			} else {
				updateParticleCell(p, x, y)
			}
		}
	}
}

func updateAirCell(p Params, x, y int) {
	idx := p.Grid.Index(x, y)
	t := p.Grid.Temperature[idx]
	t += (p.Ambient - t) * AirLerpRate
	p.Grid.Temperature[idx] = t

	d := cardinalDirs[p.Rng.Intn(4)]
	nx, ny := x+d[0], y+d[1]
	if !p.Grid.InBounds(nx, ny) {
		return
	}
	nIdx := p.Grid.Index(nx, ny)
	diff := p.Grid.Temperature[nIdx] - p.Grid.Temperature[idx]
	if diff < 0 {
		diff = -diff
	}
	if diff < 0.5 {
		return
	}
	rate := float32(AirConductivity) / 100.0 * 0.5
	d2 := p.Grid.Temperature[nIdx] - p.Grid.Temperature[idx]
	p.Grid.Temperature[idx] += d2 * rate
	p.Grid.Temperature[nIdx] -= d2 * rate
}

func updateParticleCell(p Params, x, y int) {
	idx := p.Grid.Index(x, y)
	id := p.Grid.Types[idx]
	el, ok := p.Registry.Props(id)
	if !ok {
		return
	}
	if el.HeatConductivity == 0 {
		return // insulator
	}

	myTemp := p.Grid.Temperature[idx]

	// Check phase change FIRST at the current temperature: a cell
	// already below its freezing point must transform even if it is in
	// thermal equilibrium with its neighbours (see SUPPLEMENTED
	// FEATURES in SPEC_FULL.md).
	if newID, ok := p.Registry.PhaseChange(id, myTemp); ok {
		transformPhase(p, x, y, newID, myTemp)
		return
	}

	d := cardinalDirs[p.Rng.Intn(4)]
	nx, ny := x+d[0], y+d[1]
	if !p.Grid.InBounds(nx, ny) {
		diff := p.Ambient - myTemp
		p.Grid.Temperature[idx] = myTemp + diff*AirLerpRate
		return
	}

	nIdx := p.Grid.Index(nx, ny)
	neighbourTemp := p.Grid.Temperature[nIdx]
	diff := neighbourTemp - myTemp
	if diff < 0 {
		diff = -diff
	}
	if diff < 0.5 {
		return
	}

	rate := float32(el.HeatConductivity) / 100.0 * 0.5
	d2 := neighbourTemp - myTemp
	newTemp := myTemp + d2*rate
	p.Grid.Temperature[idx] = newTemp
	p.Grid.Temperature[nIdx] = neighbourTemp - d2*rate

	if newID, ok := p.Registry.PhaseChange(id, newTemp); ok {
		transformPhase(p, x, y, newID, newTemp)
	}
}

// transformPhase swaps a particle for its phase-changed successor,
// preserving its temperature and marking the chunk dirty.
func transformPhase(p Params, x, y int, newID uint8, temp float32) {
	if newID == content.EmptyID {
		p.Grid.ClearCell(x, y)
		p.Chunks.RemoveParticle(x, y)
		p.Chunks.MarkDirty(x, y)
		return
	}
	el, ok := p.Registry.Props(newID)
	if !ok {
		return
	}
	seed := uint8((uint32(x)*7 + uint32(y)*13) & 31)
	colour := content.ColourWithVariation(el.Color, seed)
	p.Grid.SetParticle(x, y, newID, colour, el.Lifetime, temp)
	p.Chunks.MarkDirty(x, y)
}
