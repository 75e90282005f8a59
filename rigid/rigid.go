// Package rigid models the rigid-body subsystem as an external
// collaborator (spec.md §3, §4.10): a small ECS of axis-aligned boxes
// and circles that rasterise into the cell grid as solid cells each
// frame and de-rasterise (clear back to empty) when removed. The
// simulation core treats rasterised pixels as ordinary solid cells; it
// has no notion of "rigid body" itself.
package rigid

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm/sandpit/content"
	"github.com/pthm/sandpit/grid"
)

// Shape distinguishes a rasterised box from a circle.
type Shape uint8

const (
	ShapeBox Shape = iota
	ShapeCircle
)

// Body is the single component every rigid-body entity carries: its
// rasterisation footprint and the element id it paints.
type Body struct {
	Shape     Shape
	X, Y      int // box: top-left; circle: centre
	W, H      int // box: width/height; circle: W holds the radius
	ElementID uint8

	// painted records the cells this body currently occupies, so a
	// later de-rasterisation clears exactly what was drawn even if the
	// body never moves.
	painted []int
}

// World is the rigid-body ECS: a thin wrapper around an ark world
// scoped to just the Body component.
type World struct {
	world      *ecs.World
	bodies     *ecs.Map1[Body]
	filter     *ecs.Filter1[Body]
	nextID     uint32
	idToEntity map[uint32]ecs.Entity
}

// NewWorld creates an empty rigid-body world.
func NewWorld() *World {
	w := ecs.NewWorld()
	return &World{
		world:      w,
		bodies:     ecs.NewMap1[Body](w),
		filter:     ecs.NewFilter1[Body](w),
		idToEntity: make(map[uint32]ecs.Entity),
	}
}

// SpawnBody inserts a rectangular rigid body whose centre is extended by
// one cell in each direction when rasterised (spec.md §8 scenario 6: a
// 10x10 body rasterises to 11x11 solid cells).
func (w *World) SpawnBody(x, y, width, height int, elementID uint8) uint32 {
	b := Body{Shape: ShapeBox, X: x, Y: y, W: width, H: height, ElementID: elementID}
	e := w.bodies.NewEntity(&b)
	w.nextID++
	id := w.nextID
	w.idToEntity[id] = e
	return id
}

// SpawnCircle inserts a circular rigid body of the given radius. Like a
// box, it is rasterised one cell larger: out to radius+1.
func (w *World) SpawnCircle(x, y, radius int, elementID uint8) uint32 {
	b := Body{Shape: ShapeCircle, X: x, Y: y, W: radius, ElementID: elementID}
	e := w.bodies.NewEntity(&b)
	w.nextID++
	id := w.nextID
	w.idToEntity[id] = e
	return id
}

// Remove de-rasterises and deletes the body with the given id.
func (w *World) Remove(g *grid.Grid, id uint32) bool {
	e, ok := w.idToEntity[id]
	if !ok {
		return false
	}
	if w.bodies.Has(e) {
		deRasterise(g, *w.bodies.Get(e))
	}
	w.bodies.Remove(e)
	delete(w.idToEntity, id)
	return true
}

// Count returns the number of live rigid bodies.
func (w *World) Count() int { return len(w.idToEntity) }

// Rasterise (re)paints every rigid body's footprint into the grid as
// solid cells of its element, clearing any previously painted cells
// that are no longer covered. Called once per frame before the physics
// pass (spec.md §4.9 step 3).
func (w *World) Rasterise(g *grid.Grid) {
	query := w.filter.Query()
	for query.Next() {
		body := query.Get()
		deRasterise(g, *body)
		body.painted = rasteriseOne(g, body)
	}
}

func rasteriseOne(g *grid.Grid, b *Body) []int {
	var painted []int

	switch b.Shape {
	case ShapeBox:
		// Centre-extension rule: rasterise a (2*(W/2)+1)x(2*(H/2)+1)
		// footprint centred on the body's nominal centre, so a 10x10 body
		// paints an 11x11 block of cells (an odd size paints W cells).
		cx := b.X + b.W/2
		cy := b.Y + b.H/2
		halfW := b.W / 2
		halfH := b.H / 2
		x0, y0 := cx-halfW, cy-halfH
		x1, y1 := cx+halfW, cy+halfH
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if !g.InBounds(x, y) {
					continue
				}
				paintCell(g, x, y, b.ElementID)
				painted = append(painted, g.Index(x, y))
			}
		}
	case ShapeCircle:
		r := b.W + 1
		for y := b.Y - r; y <= b.Y+r; y++ {
			for x := b.X - r; x <= b.X+r; x++ {
				if !g.InBounds(x, y) {
					continue
				}
				dx, dy := x-b.X, y-b.Y
				if dx*dx+dy*dy > r*r {
					continue
				}
				paintCell(g, x, y, b.ElementID)
				painted = append(painted, g.Index(x, y))
			}
		}
	}
	return painted
}

func paintCell(g *grid.Grid, x, y int, elementID uint8) {
	idx := g.Index(x, y)
	if g.Types[idx] == elementID {
		return
	}
	g.SetParticle(x, y, elementID, content.BackgroundColour, 0, g.Temperature[idx])
}

func deRasterise(g *grid.Grid, b Body) {
	for _, idx := range b.painted {
		x, y := g.Coords(idx)
		if g.Types[idx] != content.EmptyID {
			g.ClearCell(x, y)
		}
	}
}
