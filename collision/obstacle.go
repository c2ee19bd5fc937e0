// Package collision implements the obstacle model that sits between a
// collision mask and the physics actor: positioned obstacles, the
// per-frame obstacle map, and the oriented sensor segments the actor
// probes the map with.
package collision

import "github.com/pthm-cable/platformcore/mask"

// Layer partitions obstacles so a sensor can selectively ignore some of
// them (e.g. a character standing on a green-only platform).
type Layer int

const (
	LayerDefault Layer = iota
	LayerGreen
	LayerYellow
)

// Flags are the per-obstacle behavior bits.
type Flags uint8

const (
	FlagCloud Flags = 1 << iota // one-way platform: collides only from above
	FlagHFlip
	FlagVFlip
	FlagNonStatic // movable platform
)

// GroundDirection is the direction argument to Obstacle.GroundPosition
// and Mask.LocateGround.
type GroundDirection = mask.Direction

const (
	GroundDown  = mask.Down
	GroundLeft  = mask.Left
	GroundUp    = mask.Up
	GroundRight = mask.Right
)

// Point is an integer world-space coordinate.
type Point struct {
	X, Y int
}

// Obstacle is a CollisionMask placed at a world position. It owns no
// mask memory: Mask is a shared, immutable reference that may outlive
// many obstacles (conceptually shared ownership, lifetime = longest
// holder); the obstacle itself is owned by whoever spawned it.
type Obstacle struct {
	Mask     *mask.Mask
	Position Point
	Layer    Layer
	Flags    Flags
}

// NewObstacle builds an obstacle at the given world position referencing
// the given mask, with the supplied layer and flags.
func NewObstacle(m *mask.Mask, position Point, layer Layer, flags Flags) *Obstacle {
	return &Obstacle{Mask: m, Position: position, Layer: layer, Flags: flags}
}

// Width returns the obstacle's mask width.
func (o *Obstacle) Width() int { return o.Mask.Width() }

// Height returns the obstacle's mask height.
func (o *Obstacle) Height() int { return o.Mask.Height() }

// IsSolid reports whether the obstacle is solid (as opposed to a
// one-way cloud).
func (o *Obstacle) IsSolid() bool { return o.Flags&FlagCloud == 0 }

// IsStatic reports whether the obstacle does not move between frames.
func (o *Obstacle) IsStatic() bool { return o.Flags&FlagNonStatic == 0 }

// Left, Right, Top and Bottom return the obstacle's world-space edges.
func (o *Obstacle) Left() int   { return o.Position.X }
func (o *Obstacle) Right() int  { return o.Position.X + o.Width() - 1 }
func (o *Obstacle) Top() int    { return o.Position.Y }
func (o *Obstacle) Bottom() int { return o.Position.Y + o.Height() - 1 }

// toMaskSpace translates a world coordinate into mask-local pixel space,
// applying the HFLIP/VFLIP mirror around (width-1)/(height-1).
func (o *Obstacle) toMaskSpace(x, y int) (int, int) {
	px := x - o.Position.X
	py := y - o.Position.Y

	if o.Flags&FlagHFlip != 0 {
		px = o.Width() - 1 - px
	}
	if o.Flags&FlagVFlip != 0 {
		py = o.Height() - 1 - py
	}
	return px, py
}

// flippedGroundDir mirrors a ground direction the same way the
// coordinates were mirrored: HFLIP swaps left<->right, VFLIP swaps
// up<->down.
func (o *Obstacle) flippedGroundDir(dir GroundDirection) GroundDirection {
	if o.Flags&FlagHFlip != 0 {
		switch dir {
		case GroundLeft:
			dir = GroundRight
		case GroundRight:
			dir = GroundLeft
		}
	}
	if o.Flags&FlagVFlip != 0 {
		switch dir {
		case GroundUp:
			dir = GroundDown
		case GroundDown:
			dir = GroundUp
		}
	}
	return dir
}

// GroundPosition translates (x,y) into mask space (flipping coordinates
// and direction as needed), queries LocateGround, and translates the
// result back to world space.
func (o *Obstacle) GroundPosition(x, y int, direction GroundDirection) int {
	px, py := o.toMaskSpace(x, y)
	dir := o.flippedGroundDir(direction)

	g := o.Mask.LocateGround(px, py, dir)

	switch direction {
	case GroundDown, GroundUp:
		// g is a y-coordinate in mask space; flip back if VFLIP
		if o.Flags&FlagVFlip != 0 {
			g = o.Height() - 1 - g
		}
		return g + o.Position.Y
	default: // GroundLeft, GroundRight
		// g is an x-coordinate in mask space; flip back if HFLIP
		if o.Flags&FlagHFlip != 0 {
			g = o.Width() - 1 - g
		}
		return g + o.Position.X
	}
}

// CollidesWithSegment reports whether the axis-aligned (or degenerate
// point) segment [x1,y1]-[x2,y2] touches a solid pixel of this obstacle.
// x1==x2 (vertical), y1==y2 (horizontal), or both (point) are the only
// supported shapes; anything else is a caller precondition violation.
// An obstacle without a mask never collides.
func (o *Obstacle) CollidesWithSegment(x1, y1, x2, y2 int) bool {
	return o.gotCollision(x1, y1, x2, y2)
}

// gotCollision implements obstacle_got_collision: bbox rejection, then
// dispatch to a vertical-sensor, horizontal-sensor, or point test.
func (o *Obstacle) gotCollision(x1, y1, x2, y2 int) bool {
	if o.Mask == nil {
		return false
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}

	// bounding-box rejection against the obstacle's world rectangle
	if x2 < o.Position.X || x1 >= o.Position.X+o.Width() {
		return false
	}
	if y2 < o.Position.Y || y1 >= o.Position.Y+o.Height() {
		return false
	}

	if x1 == x2 && y1 == y2 {
		return o.pointCollision(x1, y1)
	}

	px1, py1 := o.toMaskSpace(x1, y1)
	px2, py2 := o.toMaskSpace(x2, y2)
	if px1 > px2 {
		px1, px2 = px2, px1
	}
	if py1 > py2 {
		py1, py2 = py2, py1
	}
	return o.Mask.AreaTest(px1, py1, px2, py2)
}

func (o *Obstacle) pointCollision(x, y int) bool {
	px, py := o.toMaskSpace(x, y)
	return o.Mask.PixelTest(px, py)
}
