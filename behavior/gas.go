package behavior

import "github.com/pthm/sandpit/content"

// canBubbleThrough reports whether a gas of density myDensity may rise
// through targetID: empty always; otherwise only non-solid cells of
// strictly higher density (spec.md §4.6 Gas).
func canBubbleThrough(myDensity float32, targetID uint8, reg *content.Registry) bool {
	if targetID == content.EmptyID {
		return true
	}
	target, ok := reg.Props(targetID)
	if !ok || target.Category == content.CategorySolid {
		return false
	}
	return target.Density > myDensity
}

func updateGas(ctx *Context, el content.Element) {
	gx, gy := ctx.GX, ctx.GY
	if gx == 0 && gy == 0 {
		gy = 1
	}
	riseX, riseY := -gx, -gy

	tryRise := func(tx, ty int) bool {
		if !ctx.Grid.InBounds(tx, ty) {
			return false
		}
		if !canBubbleThrough(el.Density, ctx.Grid.GetType(tx, ty), ctx.Registry) {
			return false
		}
		return trySwap(ctx, tx, ty)
	}

	if tryRise(ctx.X+riseX, ctx.Y+riseY) {
		return
	}

	p1x, p1y, p2x, p2y := perpendicular(riseX, riseY)
	diag1X, diag1Y := ctx.X+riseX+p1x, ctx.Y+riseY+p1y
	diag2X, diag2Y := ctx.X+riseX+p2x, ctx.Y+riseY+p2y

	first, second := diag1X, diag1Y
	third, fourth := diag2X, diag2Y
	if ctx.Rng.Intn(2) == 0 {
		first, second, third, fourth = diag2X, diag2Y, diag1X, diag1Y
	}
	if tryRise(first, second) {
		return
	}
	if tryRise(third, fourth) {
		return
	}

	// Blocked: scan perpendicular to gravity for a chimney, biasing
	// toward whichever side has one.
	dispersion := el.EffectiveDispersion()
	leftChimney := findChimney(ctx, el, p1x, p1y, riseX, riseY, dispersion)
	rightChimney := findChimney(ctx, el, p2x, p2y, riseX, riseY, dispersion)

	switch {
	case leftChimney > 0 && rightChimney == 0:
		tryRise(ctx.X+p1x*leftChimney, ctx.Y+p1y*leftChimney)
	case rightChimney > 0 && leftChimney == 0:
		tryRise(ctx.X+p2x*rightChimney, ctx.Y+p2y*rightChimney)
	case leftChimney > 0 && rightChimney > 0:
		if ctx.Rng.Intn(2) == 0 {
			tryRise(ctx.X+p1x*leftChimney, ctx.Y+p1y*leftChimney)
		} else {
			tryRise(ctx.X+p2x*rightChimney, ctx.Y+p2y*rightChimney)
		}
	}
}

// findChimney scans up to dispersion cells along (px,py), returning the
// index of the first empty-or-displaceable cell whose rise-direction
// neighbour is also empty or heavier (a "chimney"), or 0 if none.
func findChimney(ctx *Context, el content.Element, px, py, riseX, riseY, dispersion int) int {
	for i := 1; i <= dispersion; i++ {
		tx, ty := ctx.X+px*i, ctx.Y+py*i
		if !ctx.Grid.InBounds(tx, ty) {
			return 0
		}
		target := ctx.Grid.GetType(tx, ty)
		if target != content.EmptyID && !canBubbleThrough(el.Density, target, ctx.Registry) {
			return 0
		}
		upX, upY := tx+riseX, ty+riseY
		if ctx.Grid.InBounds(upX, upY) && canBubbleThrough(el.Density, ctx.Grid.GetType(upX, upY), ctx.Registry) {
			return i
		}
	}
	return 0
}
