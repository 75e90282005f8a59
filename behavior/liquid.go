package behavior

import (
	"math"

	"github.com/pthm/sandpit/content"
)

type liquidScan struct {
	reach   int // furthest index (1-based) this side can move to, 0 if none
	cliff   int // index of first cliff found, 0 if none
	hasAny  bool
}

// scanSide walks up to `dispersion` cells along (px,py) from (x,y),
// stopping at a wall or a same/heavier fluid, recording the furthest
// reachable cell and the first "cliff" (a cell whose gravity-direction
// neighbour is empty).
func scanSide(ctx *Context, el content.Element, px, py, gx, gy, dispersion int) liquidScan {
	var s liquidScan
	for i := 1; i <= dispersion; i++ {
		tx, ty := ctx.X+px*i, ctx.Y+py*i
		if !ctx.Grid.InBounds(tx, ty) {
			break
		}
		target := ctx.Grid.GetType(tx, ty)
		if target == content.EmptyID {
			s.reach = i
			s.hasAny = true
		} else if canDisplace(el.Density, target, ctx.Registry) {
			s.reach = i
			s.hasAny = true
		} else {
			break // wall, or same/heavier fluid: scanning stops here
		}

		dxg, dyg := tx+gx, ty+gy
		if ctx.Grid.InBounds(dxg, dyg) && ctx.Grid.IsEmpty(dxg, dyg) {
			if s.cliff == 0 {
				s.cliff = i
			}
			break
		}
	}
	return s
}

func updateLiquid(ctx *Context, el content.Element) {
	gx, gy := ctx.GX, ctx.GY
	if gx == 0 && gy == 0 {
		gy = 1
	}

	idx := ctx.Grid.Index(ctx.X, ctx.Y)
	vProj := float64(ctx.Grid.VX[idx])*float64(gx) + float64(ctx.Grid.VY[idx])*float64(gy)
	if math.Abs(vProj) > 0.3 {
		return // significant velocity along gravity; physics handles it
	}

	downX, downY := ctx.X+gx, ctx.Y+gy
	if ctx.Grid.InBounds(downX, downY) && ctx.Grid.IsEmpty(downX, downY) {
		return // not blocked downstream; physics handles the fall
	}

	p1x, p1y, p2x, p2y := perpendicular(gx, gy)
	dispersion := el.EffectiveDispersion()

	left := scanSide(ctx, el, p1x, p1y, gx, gy, dispersion)
	right := scanSide(ctx, el, p2x, p2y, gx, gy, dispersion)

	if !left.hasAny && !right.hasAny {
		return
	}

	useLeft := left.hasAny
	switch {
	case left.hasAny && right.hasAny:
		switch {
		case left.cliff != 0 && right.cliff == 0:
			useLeft = true
		case right.cliff != 0 && left.cliff == 0:
			useLeft = false
		default:
			useLeft = ctx.Rng.Intn(2) == 0
		}
	case left.hasAny:
		useLeft = true
	case right.hasAny:
		useLeft = false
	}

	var px, py, reach, cliff int
	if useLeft {
		px, py, reach, cliff = p1x, p1y, left.reach, left.cliff
	} else {
		px, py, reach, cliff = p2x, p2y, right.reach, right.cliff
	}

	target := reach
	if cliff != 0 {
		target = cliff
	}
	tx, ty := ctx.X+px*target, ctx.Y+py*target
	if !ctx.Grid.InBounds(tx, ty) {
		return
	}
	if !canDisplace(el.Density, ctx.Grid.GetType(tx, ty), ctx.Registry) {
		return
	}
	trySwap(ctx, tx, ty)
}
