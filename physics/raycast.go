package physics

import (
	"math"

	"github.com/pthm/sandpit/grid"
)

// RaycastResult is the outcome of a DDA raycast: the last empty cell
// visited, whether a collision occurred, and the surface normal at the
// collision (zero if none).
type RaycastResult struct {
	NewX, NewY         int
	Collided           bool
	NormalX, NormalY   int
}

func sign(v float32) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Raycast steps from (x,y)'s cell centre along (vx,vy) one grid boundary
// at a time, stopping at the first non-empty cell or the world
// boundary, and records the surface normal of whatever it hit. It never
// mutates the grid. Grounded on raycast_move in
// original_source/.../systems/physics.rs.
func Raycast(g *grid.Grid, x, y int, vx, vy float32, maxRaycastSteps int) RaycastResult {
	stepX, stepY := sign(vx), sign(vy)

	var tMaxX, tDeltaX float64
	switch {
	case vx > 0:
		tDeltaX = 1 / float64(vx)
		tMaxX = tDeltaX * 0.5 // boundary is half a cell ahead from the centre
	case vx < 0:
		tDeltaX = -1 / float64(vx)
		tMaxX = tDeltaX * 0.5
	default:
		tMaxX, tDeltaX = math.Inf(1), math.Inf(1)
	}

	var tMaxY, tDeltaY float64
	switch {
	case vy > 0:
		tDeltaY = 1 / float64(vy)
		tMaxY = tDeltaY * 0.5
	case vy < 0:
		tDeltaY = -1 / float64(vy)
		tMaxY = tDeltaY * 0.5
	default:
		tMaxY, tDeltaY = math.Inf(1), math.Inf(1)
	}

	steps := int(math.Ceil(math.Abs(float64(vx)) + math.Abs(float64(vy))))
	if steps < 1 {
		steps = 1
	}
	if steps > maxRaycastSteps {
		steps = maxRaycastSteps
	}

	curX, curY := x, y
	lastX, lastY := x, y

	for i := 0; i < steps; i++ {
		var normalX, normalY int
		if tMaxX < tMaxY {
			curX += stepX
			tMaxX += tDeltaX
			normalX, normalY = -stepX, 0
		} else {
			curY += stepY
			tMaxY += tDeltaY
			normalX, normalY = 0, -stepY
		}

		if !g.InBounds(curX, curY) {
			return RaycastResult{NewX: lastX, NewY: lastY, Collided: true, NormalX: normalX, NormalY: normalY}
		}
		if !g.IsEmpty(curX, curY) {
			return RaycastResult{NewX: lastX, NewY: lastY, Collided: true, NormalX: normalX, NormalY: normalY}
		}

		lastX, lastY = curX, curY

		if math.Min(tMaxX, tMaxY) > 1.0 {
			break
		}
	}

	return RaycastResult{NewX: lastX, NewY: lastY, Collided: false}
}

// HandleCollision applies bounce response to the cell's velocity after a
// Raycast, per spec.md §4.5 step 5.
func HandleCollision(g *grid.Grid, x, y int, rc RaycastResult, bounce float32) {
	idx := g.Index(x, y)
	vx, vy := g.VX[idx], g.VY[idx]

	if !rc.Collided {
		return
	}

	if rc.NormalY != 0 && math.Abs(float64(vy)) > 0.1 {
		preBounceVY := vy
		vy = -vy * bounce
		vx += float32(sign(vx)) * float32(math.Abs(float64(preBounceVY))) * 0.1
	}
	if rc.NormalX != 0 && math.Abs(float64(vx)) > 0.1 {
		vx = -vx * bounce
	}
	if bounce < 0.1 {
		if math.Abs(float64(vx)) < 1.0 {
			vx = 0
		}
		if math.Abs(float64(vy)) < 1.0 {
			vy = 0
		}
	}

	g.VX[idx] = vx
	g.VY[idx] = vy
}
