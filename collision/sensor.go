package collision

// Sensor is an oriented segment in actor-local coordinates: head and
// tail share either the same local x (vertical sensor) or the same
// local y (horizontal sensor). head is the reference end; tail is the
// probing end. A Sensor is dispatched through one of four rotation
// tables according to the actor's current movement mode.
type Sensor struct {
	LocalHead, LocalTail Point
	Enabled              bool
}

// NewHorizontalSensor builds a sensor whose head and tail share y.
func NewHorizontalSensor(y, headX, tailX int) *Sensor {
	return &Sensor{
		LocalHead: Point{X: headX, Y: y},
		LocalTail: Point{X: tailX, Y: y},
		Enabled:   true,
	}
}

// NewVerticalSensor builds a sensor whose head and tail share x.
func NewVerticalSensor(x, headY, tailY int) *Sensor {
	return &Sensor{
		LocalHead: Point{X: x, Y: headY},
		LocalTail: Point{X: x, Y: tailY},
		Enabled:   true,
	}
}

// rotate applies the clockwise rotation for the given movement mode to a
// local (x,y) pair, about the origin: FLOOR is identity, RIGHTWALL is
// (x,y)->(y,-x), CEILING is (x,y)->(-x,-y), LEFTWALL is (x,y)->(-y,x).
func rotate(x, y int, mm MovMode) (int, int) {
	switch mm {
	case ModeFloor:
		return x, y
	case ModeRightWall:
		return y, -x
	case ModeCeiling:
		return -x, -y
	case ModeLeftWall:
		return -y, x
	}
	return x, y
}

// WorldPos returns the sensor's head and tail in world space, after
// rotating by movmode and translating by the actor's position. The
// output is NOT guaranteed to have x1<=x2 and y1<=y2.
func (s *Sensor) WorldPos(actorPosition Point, mm MovMode) (x1, y1, x2, y2 int) {
	hx, hy := rotate(s.LocalHead.X, s.LocalHead.Y, mm)
	tx, ty := rotate(s.LocalTail.X, s.LocalTail.Y, mm)
	return hx + actorPosition.X, hy + actorPosition.Y, tx + actorPosition.X, ty + actorPosition.Y
}

// Head returns the sensor's head in world space.
func (s *Sensor) Head(actorPosition Point, mm MovMode) Point {
	x1, y1, _, _ := s.WorldPos(actorPosition, mm)
	return Point{X: x1, Y: y1}
}

// Tail returns the sensor's tail in world space.
func (s *Sensor) Tail(actorPosition Point, mm MovMode) Point {
	_, _, x2, y2 := s.WorldPos(actorPosition, mm)
	return Point{X: x2, Y: y2}
}

// Check builds the sensor's world segment and asks the obstacle map for
// the best colliding obstacle, or nil if the sensor is disabled or
// nothing collides.
func (s *Sensor) Check(actorPosition Point, mm MovMode, layerFilter Layer, obstacleMap *ObstacleMap) *Obstacle {
	if !s.Enabled {
		return nil
	}
	x1, y1, x2, y2 := s.WorldPos(actorPosition, mm)
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return obstacleMap.BestObstacleAt(x1, y1, x2, y2, mm, layerFilter)
}

// OverlapsObstacle reports whether the sensor's world segment overlaps
// the given obstacle, honoring the layer filter rule.
func (s *Sensor) OverlapsObstacle(actorPosition Point, mm MovMode, layerFilter Layer, o *Obstacle) bool {
	x1, y1, x2, y2 := s.WorldPos(actorPosition, mm)
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	if !layerMatches(layerFilter, o.Layer) {
		return false
	}
	return o.CollidesWithSegment(x1, y1, x2, y2)
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

// Extend returns a segment analogous to WorldPos, except that it starts
// at the sensor's tail and grows outward along the sensor's orientation
// by extendedLength-1 pixels (or backward, toward the head, if
// extendedLength is negative).
func (s *Sensor) Extend(actorPosition Point, mm MovMode, extendedLength int) (head, tail Point) {
	hx, hy, tx, ty := s.WorldPos(actorPosition, mm)

	dirX := sign(tx - hx)
	dirY := sign(ty - hy)

	var lambda int
	switch {
	case extendedLength > 0:
		lambda = extendedLength - 1
	case extendedLength < 0:
		lambda = extendedLength + 1
	default:
		lambda = 0
	}

	head = Point{X: tx, Y: ty}
	tail = Point{X: head.X + dirX*lambda, Y: head.Y + dirY*lambda}
	return head, tail
}
