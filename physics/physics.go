// Package physics implements the gravity/friction integration and DDA
// raycast pass (spec.md §4.5), grounded line-for-line on
// original_source/.../systems/physics.rs.
package physics

import (
	"math"

	"github.com/pthm/sandpit/content"
	"github.com/pthm/sandpit/grid"
)

// Params are the tunables the physics pass needs from the engine
// configuration.
type Params struct {
	GravityX, GravityY float32 // unit-ish gravity direction, scaled by G
	G                  float32
	AirFriction        float32
	MaxVelocity        float32
	MaxRaycastSteps    int
}

// SkipsPhysics reports whether an element's category or flags mean the
// physics pass leaves it alone (spec.md §4.5 step 1): solid, energy,
// bio, gas categories, or the ignores_gravity flag.
func SkipsPhysics(el content.Element) bool {
	if el.Flags.IgnoresGravity {
		return true
	}
	switch el.Category {
	case content.CategorySolid, content.CategoryEnergy, content.CategoryBio, content.CategoryGas:
		return true
	default:
		return false
	}
}

func sanitize(v float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Integrate applies gravity and friction to the cell's velocity in
// place, per spec.md §4.5 step 2.
func Integrate(g *grid.Grid, x, y int, el content.Element, p Params) {
	idx := g.Index(x, y)
	vx := sanitize(g.VX[idx])
	vy := sanitize(g.VY[idx])

	vx += p.GravityX * p.G
	vy += p.GravityY * p.G
	vx = clamp(vx, -p.MaxVelocity, p.MaxVelocity)
	vy = clamp(vy, -p.MaxVelocity, p.MaxVelocity)

	friction := clamp(el.Friction, 0, 1)
	vx *= friction * p.AirFriction
	vy *= friction * p.AirFriction

	if math.Abs(float64(vx)) < 0.01 || math.IsNaN(float64(vx)) {
		vx = 0
	}
	if math.Abs(float64(vy)) < 0.01 || math.IsNaN(float64(vy)) {
		vy = 0
	}

	g.VX[idx] = vx
	g.VY[idx] = vy
}

// Result is the outcome of a single cell's physics step.
type Result struct {
	NewX, NewY int
	Moved      bool
}

// Step runs the full per-cell physics update: integrate, raycast, and
// collision response, returning where (if anywhere) the particle ended
// up. It does not itself perform the grid swap — the caller does that
// and updates chunk bookkeeping.
func Step(g *grid.Grid, x, y int, el content.Element, p Params) Result {
	Integrate(g, x, y, el, p)

	idx := g.Index(x, y)
	vx, vy := g.VX[idx], g.VY[idx]

	if math.Abs(float64(vx)) < 0.1 && math.Abs(float64(vy)) < 0.1 {
		return Result{NewX: x, NewY: y, Moved: false}
	}

	rc := Raycast(g, x, y, vx, vy, p.MaxRaycastSteps)
	HandleCollision(g, x, y, rc, el.Bounce)

	if rc.NewX == x && rc.NewY == y {
		return Result{NewX: x, NewY: y, Moved: false}
	}
	return Result{NewX: rc.NewX, NewY: rc.NewY, Moved: true}
}
