package behavior

import "github.com/pthm/sandpit/content"

// fireFan enumerates the small fan of candidate cells fire tries in the
// rise direction (opposite gravity): straight up, and the two adjacent
// diagonals.
func fireFan(x, y, riseX, riseY int) [3][2]int {
	p1x, p1y, p2x, p2y := perpendicular(riseX, riseY)
	return [3][2]int{
		{x + riseX, y + riseY},
		{x + riseX + p1x, y + riseY + p1y},
		{x + riseX + p2x, y + riseY + p2y},
	}
}

func updateEnergy(ctx *Context, el content.Element) {
	switch el.BehaviorKind {
	case content.BehaviorFire:
		updateFire(ctx)
	case content.BehaviorSpark, content.BehaviorElectricity:
		// No movement; lifetime decay (handled generically) destroys
		// these cells.
	}
}

func updateFire(ctx *Context) {
	gx, gy := ctx.GX, ctx.GY
	if gx == 0 && gy == 0 {
		gy = 1
	}
	riseX, riseY := -gx, -gy

	candidates := fireFan(ctx.X, ctx.Y, riseX, riseY)
	order := ctx.Rng.Perm(3)
	for _, i := range order {
		tx, ty := candidates[i][0], candidates[i][1]
		if !ctx.Grid.InBounds(tx, ty) || !ctx.Grid.IsEmpty(tx, ty) {
			continue
		}
		trySwap(ctx, tx, ty)
		return
	}
}
