package collision

// MovMode identifies which of the four movement modes the actor is
// currently oriented against; it disambiguates "tallest"/"nearest" when
// more than one obstacle collides with a sensor.
type MovMode int

const (
	ModeFloor MovMode = iota
	ModeRightWall
	ModeCeiling
	ModeLeftWall
)

// ObstacleMap is an append-only, per-frame collection of obstacle
// references. The level clears and repopulates it every frame; the map
// never owns or copies the obstacles it holds.
type ObstacleMap struct {
	obstacles []*Obstacle
}

// NewObstacleMap returns an empty map with room for a typical frame's
// worth of obstacles.
func NewObstacleMap() *ObstacleMap {
	return &ObstacleMap{obstacles: make([]*Obstacle, 0, 32)}
}

// Add appends an obstacle reference. No copy, no dedup check.
func (om *ObstacleMap) Add(o *Obstacle) {
	om.obstacles = append(om.obstacles, o)
}

// Clear empties the map for reuse on the next frame, keeping the
// underlying slice's capacity.
func (om *ObstacleMap) Clear() {
	om.obstacles = om.obstacles[:0]
}

// Len returns the number of obstacles currently in the map.
func (om *ObstacleMap) Len() int { return len(om.obstacles) }

// Obstacles returns the map's current backing slice. Callers must treat
// it as read-only and valid only for the current frame.
func (om *ObstacleMap) Obstacles() []*Obstacle { return om.obstacles }

func layerMatches(layerFilter, obstacleLayer Layer) bool {
	return obstacleLayer == LayerDefault || layerFilter == LayerDefault || layerFilter == obstacleLayer
}

// BestObstacleAt returns the "best" obstacle colliding with the
// rectangle [x1,y1]-[x2,y2] (x1<=x2, y1<=y2), disambiguating overlaps by
// movement mode per pickBest, or nil if none collide.
func (om *ObstacleMap) BestObstacleAt(x1, y1, x2, y2 int, mm MovMode, layerFilter Layer) *Obstacle {
	var best *Obstacle
	for _, o := range om.obstacles {
		if !layerMatches(layerFilter, o.Layer) {
			continue
		}
		if o.CollidesWithSegment(x1, y1, x2, y2) {
			best = pickBest(o, best, x1, y1, x2, y2, mm)
		}
	}
	return best
}

// ObstacleExistsAt is a point-collision helper: does any obstacle
// (solid or cloud) cover the given point?
func (om *ObstacleMap) ObstacleExistsAt(x, y int) bool {
	for _, o := range om.obstacles {
		if o.CollidesWithSegment(x, y, x, y) {
			return true
		}
	}
	return false
}

// SolidExistsAt is like ObstacleExistsAt but only considers solid
// obstacles.
func (om *ObstacleMap) SolidExistsAt(x, y int) bool {
	for _, o := range om.obstacles {
		if o.CollidesWithSegment(x, y, x, y) && o.IsSolid() {
			return true
		}
	}
	return false
}

// FindGround performs an extended-sensor sweep along [x1,y1]-[x2,y2]:
// it returns the obstacle (solid or cloud, matching layerFilter) whose
// ground position is nearest within that window, along with the
// absolute ground coordinate, or ok=false if nothing is found.
func (om *ObstacleMap) FindGround(x1, y1, x2, y2 int, layerFilter Layer, direction GroundDirection) (obstacle *Obstacle, coordinate int, ok bool) {
	mm := modeForDirection(direction)
	best := om.BestObstacleAt(x1, y1, x2, y2, mm, layerFilter)
	if best == nil {
		return nil, 0, false
	}

	var gx, gy int
	switch direction {
	case GroundDown:
		gx, gy = x2, y2
	case GroundUp:
		gx, gy = x2, y1
	case GroundRight:
		gx, gy = x2, y2
	default: // GroundLeft
		gx, gy = x1, y2
	}

	g := best.GroundPosition(gx, gy, direction)
	return best, g, true
}

func modeForDirection(dir GroundDirection) MovMode {
	switch dir {
	case GroundDown:
		return ModeFloor
	case GroundRight:
		return ModeRightWall
	case GroundUp:
		return ModeCeiling
	case GroundLeft:
		return ModeLeftWall
	}
	return ModeFloor
}

// pickBest implements the obstacle-map disambiguation priority:
// a solid beats a cloud; between two clouds the shortest wins; between
// two solids the tallest wins; a nil best is replaced unconditionally.
// x1<=x2 and y1<=y2 are assumed, already rotated according to mm.
func pickBest(a, b *Obstacle, x1, y1, x2, y2 int, mm MovMode) *Obstacle {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	if !a.IsSolid() && b.IsSolid() {
		return b
	}
	if !b.IsSolid() && a.IsSolid() {
		return a
	}

	if !a.IsSolid() && !b.IsSolid() {
		switch mm {
		case ModeFloor:
			ha := a.GroundPosition(x2, y2, GroundDown)
			hb := b.GroundPosition(x2, y2, GroundDown)
			if ha >= hb {
				return a
			}
			return b
		case ModeRightWall:
			ha := a.GroundPosition(x2, y2, GroundRight)
			hb := b.GroundPosition(x2, y2, GroundRight)
			if ha >= hb {
				return a
			}
			return b
		case ModeCeiling:
			ha := a.GroundPosition(x2, y1, GroundUp)
			hb := b.GroundPosition(x2, y1, GroundUp)
			if ha < hb {
				return a
			}
			return b
		case ModeLeftWall:
			ha := a.GroundPosition(x1, y2, GroundLeft)
			hb := b.GroundPosition(x1, y2, GroundLeft)
			if ha < hb {
				return a
			}
			return b
		}
	}

	// both solid: the tallest one wins
	switch mm {
	case ModeFloor:
		ha := a.GroundPosition(x2, y2, GroundDown)
		hb := b.GroundPosition(x2, y2, GroundDown)
		if ha < hb {
			return a
		}
		return b
	case ModeLeftWall:
		ha := a.GroundPosition(x1, y2, GroundLeft)
		hb := b.GroundPosition(x1, y2, GroundLeft)
		if ha >= hb {
			return a
		}
		return b
	case ModeCeiling:
		ha := a.GroundPosition(x2, y1, GroundUp)
		hb := b.GroundPosition(x2, y1, GroundUp)
		if ha >= hb {
			return a
		}
		return b
	case ModeRightWall:
		ha := a.GroundPosition(x2, y2, GroundRight)
		hb := b.GroundPosition(x2, y2, GroundRight)
		if ha < hb {
			return a
		}
		return b
	}

	return a
}
