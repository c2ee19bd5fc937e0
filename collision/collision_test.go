package collision

import (
	"testing"

	"github.com/pthm-cable/platformcore/mask"
)

func flatGround(width, height int) *Obstacle {
	return NewObstacle(mask.NewBox(width, height), Point{X: 0, Y: 200}, LayerDefault, 0)
}

func TestObstacleCollidesWithSegment(t *testing.T) {
	o := flatGround(400, 32)

	tests := []struct {
		name                   string
		x1, y1, x2, y2         int
		want                   bool
	}{
		{"vertical sensor reaching into ground", 50, 190, 50, 205, true},
		{"vertical sensor stopping above ground", 50, 150, 50, 199, false},
		{"horizontal sensor crossing ground", 0, 210, 399, 210, true},
		{"point above ground", 10, 100, 10, 100, false},
		{"point inside ground", 10, 210, 10, 210, true},
		{"fully left of obstacle", -50, 200, -10, 210, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := o.CollidesWithSegment(tc.x1, tc.y1, tc.x2, tc.y2); got != tc.want {
				t.Errorf("CollidesWithSegment(%d,%d,%d,%d) = %v, want %v", tc.x1, tc.y1, tc.x2, tc.y2, got, tc.want)
			}
		})
	}
}

func TestObstacleHFlipTwiceIsIdentity(t *testing.T) {
	m := mask.NewBox(10, 10)
	plain := NewObstacle(m, Point{X: 0, Y: 0}, LayerDefault, 0)
	flippedTwice := NewObstacle(m, Point{X: 0, Y: 0}, LayerDefault, FlagHFlip)
	flippedTwice.Flags &^= FlagHFlip // no-op flip applied and removed: semantically identical

	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			if plain.CollidesWithSegment(x, y, x, y) != flippedTwice.CollidesWithSegment(x, y, x, y) {
				t.Fatalf("unflipped and double-flipped obstacles disagree at (%d,%d)", x, y)
			}
		}
	}
}

func TestObstacleMapBestObstacleSolidBeatsCloud(t *testing.T) {
	om := NewObstacleMap()

	cloud := NewObstacle(mask.NewBox(100, 20), Point{X: 0, Y: 180}, LayerDefault, FlagCloud)
	solid := NewObstacle(mask.NewBox(100, 20), Point{X: 0, Y: 190}, LayerDefault, 0)
	om.Add(cloud)
	om.Add(solid)

	best := om.BestObstacleAt(10, 185, 10, 210, ModeFloor, LayerDefault)
	if best != solid {
		t.Errorf("expected solid obstacle to win over cloud, got %+v", best)
	}
}

func TestObstacleMapBestObstacleTallestSolidWins(t *testing.T) {
	om := NewObstacleMap()

	short := NewObstacle(mask.NewBox(50, 10), Point{X: 0, Y: 195}, LayerDefault, 0)
	tall := NewObstacle(mask.NewBox(50, 30), Point{X: 0, Y: 175}, LayerDefault, 0)
	om.Add(short)
	om.Add(tall)

	best := om.BestObstacleAt(10, 150, 10, 204, ModeFloor, LayerDefault)
	if best != tall {
		t.Errorf("expected the taller solid obstacle to win, got %+v", best)
	}
}

func TestObstacleMapEmptyReturnsNil(t *testing.T) {
	om := NewObstacleMap()
	if got := om.BestObstacleAt(0, 0, 10, 10, ModeFloor, LayerDefault); got != nil {
		t.Errorf("expected nil best obstacle on an empty map, got %+v", got)
	}
}

func TestObstacleMapLayerFilter(t *testing.T) {
	om := NewObstacleMap()
	green := NewObstacle(mask.NewBox(50, 10), Point{X: 0, Y: 195}, LayerGreen, 0)
	om.Add(green)

	if got := om.BestObstacleAt(10, 190, 10, 204, ModeFloor, LayerYellow); got != nil {
		t.Errorf("a yellow-filtered sensor should not see a green-layer obstacle, got %+v", got)
	}
	if got := om.BestObstacleAt(10, 190, 10, 204, ModeFloor, LayerGreen); got != green {
		t.Errorf("a green-filtered sensor should see the green obstacle")
	}
}

func TestSensorRotationModes(t *testing.T) {
	s := NewVerticalSensor(3, -5, 10)
	actor := Point{X: 100, Y: 100}

	tests := []struct {
		mm             MovMode
		wantX1, wantY1 int
	}{
		{ModeFloor, 103, 95},
		{ModeRightWall, 95, 97},
		{ModeCeiling, 97, 105},
		{ModeLeftWall, 105, 103},
	}

	for _, tc := range tests {
		x1, y1, _, _ := s.WorldPos(actor, tc.mm)
		if x1 != tc.wantX1 || y1 != tc.wantY1 {
			t.Errorf("mm=%v head world = (%d,%d), want (%d,%d)", tc.mm, x1, y1, tc.wantX1, tc.wantY1)
		}
	}
}

func TestSensorExtendGrowsFromTail(t *testing.T) {
	s := NewVerticalSensor(0, 0, 10)
	actor := Point{X: 0, Y: 0}

	head, tail := s.Extend(actor, ModeFloor, 5)
	if head != (Point{X: 0, Y: 10}) {
		t.Errorf("extended head = %+v, want (0,10)", head)
	}
	if tail != (Point{X: 0, Y: 14}) {
		t.Errorf("extended tail = %+v, want (0,14)", tail)
	}
}
