package level

import (
	"testing"

	"github.com/pthm-cable/platformcore/collision"
	"github.com/pthm-cable/platformcore/mask"
)

func TestWorldCollectFrame(t *testing.T) {
	w := NewWorld()
	ground := mask.NewBox(64, 16)

	w.AddBrick(0, 100, Brick{Mask: ground, Layer: collision.LayerDefault})
	w.AddBrick(200, 100, Brick{Mask: ground, Layer: collision.LayerDefault, Flags: collision.FlagCloud})

	om := w.CollectFrame()
	if om.Len() != 2 {
		t.Fatalf("expected 2 obstacles collected, got %d", om.Len())
	}
	if !om.SolidExistsAt(10, 105) {
		t.Fatalf("expected solid obstacle at (10,105)")
	}
	if om.SolidExistsAt(210, 105) {
		t.Fatalf("cloud obstacle must not count as solid")
	}
	if !om.ObstacleExistsAt(210, 105) {
		t.Fatalf("cloud obstacle should still be a (non-solid) obstacle")
	}
}

func TestWorldRemoveBrick(t *testing.T) {
	w := NewWorld()
	ground := mask.NewBox(32, 32)

	e := w.AddBrick(0, 0, Brick{Mask: ground})
	if w.Len() != 1 {
		t.Fatalf("expected 1 brick after add, got %d", w.Len())
	}

	w.RemoveBrick(e)
	if w.Len() != 0 {
		t.Fatalf("expected 0 bricks after remove, got %d", w.Len())
	}
}

func TestWorldMoveBrick(t *testing.T) {
	w := NewWorld()
	platform := mask.NewBox(32, 8)
	e := w.AddBrick(0, 0, Brick{Mask: platform, Flags: collision.FlagNonStatic})

	w.MoveBrick(e, 50, 50)
	om := w.CollectFrame()
	if !om.SolidExistsAt(60, 52) {
		t.Fatalf("expected moved brick to collide at its new position")
	}
	if om.SolidExistsAt(10, 2) {
		t.Fatalf("brick should no longer collide at its old position")
	}
}
