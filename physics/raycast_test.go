package physics

import (
	"testing"

	"github.com/pthm/sandpit/content"
	"github.com/pthm/sandpit/grid"
)

func TestRaycastStopsAtWorldBoundary(t *testing.T) {
	g := grid.New(4, 4, 20)
	rc := Raycast(g, 1, 0, 0, -10, 8)

	if !rc.Collided {
		t.Fatal("raycast off the top edge should collide with the boundary")
	}
	if rc.NewY != 0 {
		t.Fatalf("NewY = %d, want 0 (can't move past the last empty cell)", rc.NewY)
	}
}

func TestRaycastStopsBeforeOccupiedCell(t *testing.T) {
	g := grid.New(4, 8, 20)
	g.SetParticle(1, 4, content.IDStone, 0, 0, 20)

	rc := Raycast(g, 1, 1, 0, 10, 8)

	if !rc.Collided {
		t.Fatal("raycast into an occupied cell should collide")
	}
	if rc.NewY != 3 {
		t.Fatalf("NewY = %d, want 3 (last empty cell before the obstacle at row 4)", rc.NewY)
	}
	if rc.NormalY != -1 {
		t.Fatalf("NormalY = %d, want -1 (normal pointing back up)", rc.NormalY)
	}
}

func TestRaycastTravelsThroughOpenSpace(t *testing.T) {
	g := grid.New(4, 16, 20)
	rc := Raycast(g, 1, 0, 0, 5, 20)

	if rc.Collided {
		t.Fatal("raycast through open space should not collide")
	}
	if rc.NewY <= 0 {
		t.Fatalf("NewY = %d, want > 0 after moving downward", rc.NewY)
	}
}

func TestHandleCollisionBouncesOffVerticalSurface(t *testing.T) {
	g := grid.New(4, 4, 20)
	idx := g.Index(1, 1)
	g.VY[idx] = 10

	rc := RaycastResult{NewX: 1, NewY: 1, Collided: true, NormalX: 0, NormalY: -1}
	HandleCollision(g, 1, 1, rc, 0.5)

	if g.VY[idx] >= 0 {
		t.Fatalf("VY after bounce = %v, want negative (reversed)", g.VY[idx])
	}
}

func TestHandleCollisionZeroesSmallVelocityWhenBounceIsLow(t *testing.T) {
	g := grid.New(4, 4, 20)
	idx := g.Index(1, 1)
	g.VX[idx] = 0.5
	g.VY[idx] = 0.5

	rc := RaycastResult{NewX: 1, NewY: 1, Collided: true, NormalX: -1, NormalY: -1}
	HandleCollision(g, 1, 1, rc, 0.0)

	if g.VX[idx] != 0 || g.VY[idx] != 0 {
		t.Fatalf("velocity after low-bounce collision = (%v,%v), want (0,0)", g.VX[idx], g.VY[idx])
	}
}

func TestHandleCollisionNoopWhenNotCollided(t *testing.T) {
	g := grid.New(4, 4, 20)
	idx := g.Index(1, 1)
	g.VX[idx], g.VY[idx] = 3, 4

	HandleCollision(g, 1, 1, RaycastResult{Collided: false}, 0.5)

	if g.VX[idx] != 3 || g.VY[idx] != 4 {
		t.Fatal("HandleCollision must leave velocity untouched when there was no collision")
	}
}
