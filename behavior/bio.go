package behavior

import "github.com/pthm/sandpit/content"

func updateBio(ctx *Context, el content.Element) {
	switch el.BehaviorKind {
	case content.BehaviorSeed:
		updateSeed(ctx, el)
	case content.BehaviorPlant:
		updatePlant(ctx, el)
	}
}

// updateSeed falls like a powder (reusing its gravity/corner-cut/density
// rule) and germinates into a plant when it lands on dirt or sand next
// to water.
func updateSeed(ctx *Context, el content.Element) {
	startX, startY := ctx.X, ctx.Y
	updatePowder(ctx, el)

	if ctx.X != startX || ctx.Y != startY {
		return // moved this frame; germination check happens once settled
	}
	tryGerminate(ctx, el)
}

func tryGerminate(ctx *Context, el content.Element) {
	gx, gy := ctx.GX, ctx.GY
	if gx == 0 && gy == 0 {
		gy = 1
	}
	underX, underY := ctx.X+gx, ctx.Y+gy
	under := ctx.Grid.GetType(underX, underY)
	if under != content.IDDirt && under != content.IDSand {
		return
	}

	nearWater := false
	for dy := -1; dy <= 1 && !nearWater; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if ctx.Grid.GetType(ctx.X+dx, ctx.Y+dy) == content.IDWater {
				nearWater = true
				break
			}
		}
	}
	if !nearWater {
		return
	}

	plant, ok := ctx.Registry.Props(content.IDPlant)
	if !ok {
		return
	}
	ctx.Grid.SetParticle(ctx.X, ctx.Y, content.IDPlant, plant.Color, plant.Lifetime, plant.DefaultTemp)
}

func updatePlant(ctx *Context, el content.Element) {
	idx := ctx.Grid.Index(ctx.X, ctx.Y)
	temp := ctx.Grid.Temperature[idx]
	if temp > 150 {
		ctx.Grid.ClearCell(ctx.X, ctx.Y)
		ctx.Chunks.RemoveParticle(ctx.X, ctx.Y)
		ctx.Chunks.MarkDirty(ctx.X, ctx.Y)
		return
	}
	if temp < 0 {
		return
	}
	if ctx.Rng.Float32() >= 0.05 {
		return
	}

	wx, wy, found := findWaterWithinRadius(ctx, 3)
	if !found {
		return
	}

	gx, gy := ctx.GX, ctx.GY
	if gx == 0 && gy == 0 {
		gy = 1
	}
	riseX, riseY := -gx, -gy
	p1x, p1y, p2x, p2y := perpendicular(riseX, riseY)

	upX, upY := ctx.X+riseX, ctx.Y+riseY
	diag1X, diag1Y := ctx.X+riseX+p1x, ctx.Y+riseY+p1y
	diag2X, diag2Y := ctx.X+riseX+p2x, ctx.Y+riseY+p2y

	roll := ctx.Rng.Float32()
	var tx, ty int
	switch {
	case roll < 0.6:
		tx, ty = upX, upY
	case roll < 0.8:
		tx, ty = diag1X, diag1Y
	default:
		tx, ty = diag2X, diag2Y
	}

	if !ctx.Grid.InBounds(tx, ty) || !ctx.Grid.IsEmpty(tx, ty) {
		if tx == upX && ty == upY {
			if ctx.Rng.Float32() >= 0.2 {
				return
			}
			if ctx.Rng.Intn(2) == 0 {
				tx, ty = diag1X, diag1Y
			} else {
				tx, ty = diag2X, diag2Y
			}
		}
		if !ctx.Grid.InBounds(tx, ty) || !ctx.Grid.IsEmpty(tx, ty) {
			return
		}
	}

	ctx.Grid.ClearCell(wx, wy)
	ctx.Chunks.RemoveParticle(wx, wy)
	ctx.Chunks.MarkDirty(wx, wy)

	ctx.Grid.SetParticle(tx, ty, content.IDPlant, el.Color, el.Lifetime, el.DefaultTemp)
	ctx.Chunks.AddParticle(tx, ty)
}

func findWaterWithinRadius(ctx *Context, radius int) (int, int, bool) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := ctx.X+dx, ctx.Y+dy
			if ctx.Grid.GetType(x, y) == content.IDWater {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}
