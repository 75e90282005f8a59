package behavior

import "github.com/pthm/sandpit/content"

// cardinalDirs is the four-neighbour order used by void and clone,
// grounded on original_source/.../systems/behaviors/utility.rs's
// DIRECTIONS (Up, Down, Left, Right).
var cardinalDirs = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

func updateUtility(ctx *Context, el content.Element) {
	switch el.BehaviorKind {
	case content.BehaviorVoid:
		processVoid(ctx)
	case content.BehaviorClone:
		processClone(ctx)
	}
}

// processVoid destroys every adjacent particle that is not empty and
// not itself a utility element.
func processVoid(ctx *Context) {
	for _, d := range cardinalDirs {
		nx, ny := ctx.X+d[0], ctx.Y+d[1]
		if !ctx.Grid.InBounds(nx, ny) {
			continue
		}
		nid := ctx.Grid.GetType(nx, ny)
		if nid == content.EmptyID {
			continue
		}
		nel, ok := ctx.Registry.Props(nid)
		if ok && nel.Category == content.CategoryUtility {
			continue
		}
		ctx.Grid.ClearCell(nx, ny)
		ctx.Chunks.RemoveParticle(nx, ny)
		ctx.Chunks.MarkDirty(nx, ny)
	}
}

// processClone finds a donor in the four cardinal neighbours (the first
// non-empty, non-utility one) and spawns one copy of it into the first
// empty neighbour found walking the four directions starting at
// frame mod 4.
func processClone(ctx *Context) {
	var donor uint8 = content.EmptyID
	for _, d := range cardinalDirs {
		nx, ny := ctx.X+d[0], ctx.Y+d[1]
		if !ctx.Grid.InBounds(nx, ny) {
			continue
		}
		nid := ctx.Grid.GetType(nx, ny)
		if nid == content.EmptyID {
			continue
		}
		nel, ok := ctx.Registry.Props(nid)
		if !ok || nel.Category == content.CategoryUtility {
			continue
		}
		donor = nid
		break
	}
	if donor == content.EmptyID {
		return
	}

	donorProps, ok := ctx.Registry.Props(donor)
	if !ok {
		return
	}

	start := int(ctx.Frame % 4)
	for i := 0; i < 4; i++ {
		d := cardinalDirs[(start+i)%4]
		nx, ny := ctx.X+d[0], ctx.Y+d[1]
		if !ctx.Grid.InBounds(nx, ny) || !ctx.Grid.IsEmpty(nx, ny) {
			continue
		}
		seed := uint8((uint32(nx)*7 + uint32(ny)*13 + uint32(ctx.Frame)) & 31)
		colour := content.ColourWithVariation(donorProps.Color, seed)
		ctx.Grid.SetParticle(nx, ny, donor, colour, donorProps.Lifetime, donorProps.DefaultTemp)
		ctx.Chunks.AddParticle(nx, ny)
		return
	}
}
