package behavior

import "github.com/pthm/sandpit/content"

// perpendicular returns the two unit vectors rotated 90 degrees from
// (gx,gy), used to build "gravity + lateral" diagonal candidates for
// powder, gas and seed dispersal.
func perpendicular(gx, gy int) (int, int, int, int) {
	return -gy, gx, gy, -gx
}

func updatePowder(ctx *Context, el content.Element) {
	gx, gy := ctx.GX, ctx.GY
	if gx == 0 && gy == 0 {
		gy = 1
	}

	downX, downY := ctx.X+gx, ctx.Y+gy
	if !ctx.Grid.InBounds(downX, downY) || ctx.Grid.IsEmpty(downX, downY) {
		// Physics will handle the straight-down fall next frame.
		return
	}

	p1x, p1y, p2x, p2y := perpendicular(gx, gy)
	diag1X, diag1Y := ctx.X+gx+p1x, ctx.Y+gy+p1y
	diag2X, diag2Y := ctx.X+gx+p2x, ctx.Y+gy+p2y

	tryDiag := func(tx, ty int) bool {
		if !ctx.Grid.InBounds(tx, ty) {
			return false
		}
		if cornerCutBlocked(ctx, tx-ctx.X, ty-ctx.Y) {
			return false
		}
		target := ctx.Grid.GetType(tx, ty)
		if !canDisplacePowder(el.Density, target, ctx.Registry) {
			return false
		}
		return trySwap(ctx, tx, ty)
	}

	first, second := diag1X, diag1Y
	third, fourth := diag2X, diag2Y
	if ctx.Rng.Intn(2) == 0 {
		first, second, third, fourth = diag2X, diag2Y, diag1X, diag1Y
	}

	if tryDiag(first, second) {
		return
	}
	tryDiag(third, fourth)
}
