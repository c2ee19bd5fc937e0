package actor

import (
	"math"

	"github.com/pthm-cable/platformcore/collision"
)

func groundDirFromMode(mm MovMode) collision.GroundDirection {
	switch mm {
	case ModeFloor:
		return collision.GroundDown
	case ModeRightWall:
		return collision.GroundRight
	case ModeCeiling:
		return collision.GroundUp
	case ModeLeftWall:
		return collision.GroundLeft
	}
	return collision.GroundDown
}

// forceAngle overrides the angle, then refreshes the movement mode and
// the sensors, which both depend on it.
func (a *PhysicsActor) forceAngle(om *collision.ObstacleMap, angle uint8) {
	a.angle = angle
	a.prevAngle = angle
	a.updateMovMode()
	a.updateSensors(om)
}

/*
 * Wall collisions
 */

// handleWalls resolves the middle sensors, testing the wall the actor
// is moving toward first. was_midair (set in the previous frame, after
// repositioning) works better than midair here: the latter can be
// momentarily false while a ground sensor touches a wall rather than
// the ground, and skipping the preferable wall check for that frame can
// let the actor warp around the wall.
func (a *PhysicsActor) handleWalls(om *collision.ObstacleMap) {
	movingRight := (a.wasMidair && (a.xsp > 0 || (a.xsp == 0 && a.dx >= 0))) ||
		(!a.wasMidair && (a.gsp > 0 || (a.gsp == 0 && a.facingRight)))

	if movingRight {
		a.handleRightWall(om)
		a.handleLeftWall(om)
	} else {
		a.handleLeftWall(om)
		a.handleRightWall(om)
	}
}

func (a *PhysicsActor) handleRightWall(om *collision.ObstacleMap) {
	wall := a.at.N
	if wall == nil {
		return
	}

	s := a.activeSensor(sensorN)
	pos := a.intPos()
	tail := s.Tail(pos, a.movmode)
	localTail := collision.Point{X: tail.X - pos.X, Y: tail.Y - pos.Y}
	resetAngle := false

	if a.gsp > 0 {
		a.gsp = 0
	}

	switch a.movmode {
	case ModeFloor:
		w := wall.GroundPosition(tail.X, tail.Y, collision.GroundRight)
		a.xpos = float64(w - localTail.X - 1)
		a.xsp = minf(a.xsp, 0)

	case ModeCeiling:
		w := wall.GroundPosition(tail.X, tail.Y, collision.GroundLeft)
		a.xpos = float64(w - localTail.X + 1)
		a.xsp = maxf(a.xsp, 0)
		resetAngle = true

	case ModeRightWall:
		w := wall.GroundPosition(tail.X, tail.Y, collision.GroundUp)
		a.ypos = float64(w - localTail.Y - 1)
		a.ysp = maxf(a.ysp, 0)
		resetAngle = true

	case ModeLeftWall:
		w := wall.GroundPosition(tail.X, tail.Y, collision.GroundDown)
		a.ypos = float64(w - localTail.Y + 1)
		a.ysp = minf(a.ysp, 0)
		resetAngle = true
	}

	if !resetAngle {
		a.updateSensors(om)
	} else {
		a.forceAngle(om, 0)
	}

	if !a.midair && a.movmode == ModeFloor && a.state != Rolling && a.state != Charging && a.state != GettingHit {
		if a.input.Right {
			a.state = Pushing
			a.facingRight = true
		}
	}
}

func (a *PhysicsActor) handleLeftWall(om *collision.ObstacleMap) {
	wall := a.at.M
	if wall == nil {
		return
	}

	s := a.activeSensor(sensorM)
	pos := a.intPos()
	tail := s.Tail(pos, a.movmode)
	localTail := collision.Point{X: tail.X - pos.X, Y: tail.Y - pos.Y}
	resetAngle := false

	if a.gsp < 0 {
		a.gsp = 0
	}

	switch a.movmode {
	case ModeFloor:
		w := wall.GroundPosition(tail.X, tail.Y, collision.GroundLeft)
		a.xpos = float64(w - localTail.X + 1)
		a.xsp = maxf(a.xsp, 0)

	case ModeCeiling:
		w := wall.GroundPosition(tail.X, tail.Y, collision.GroundRight)
		a.xpos = float64(w - localTail.X - 1)
		a.xsp = minf(a.xsp, 0)
		resetAngle = true

	case ModeRightWall:
		w := wall.GroundPosition(tail.X, tail.Y, collision.GroundDown)
		a.ypos = float64(w - localTail.Y - 1)
		a.ysp = minf(a.ysp, 0)
		resetAngle = true

	case ModeLeftWall:
		w := wall.GroundPosition(tail.X, tail.Y, collision.GroundUp)
		a.ypos = float64(w - localTail.Y + 1)
		a.ysp = maxf(a.ysp, 0)
		resetAngle = true
	}

	if !resetAngle {
		a.updateSensors(om)
	} else {
		a.forceAngle(om, 0)
	}

	if !a.midair && a.movmode == ModeFloor && a.state != Rolling && a.state != Charging && a.state != GettingHit {
		if a.input.Left {
			a.state = Pushing
			a.facingRight = false
		}
	}
}

/*
 * Ground & ceiling collisions
 */

func (a *PhysicsActor) handleGroundAndCeiling(om *collision.ObstacleMap, dt float64) {
	if a.midair && a.ysp < 0 {
		a.handleCeiling(om, dt)
		a.handleReacquisitionOfTheGround()
		a.handleGround(om, dt)
	} else {
		a.handleGround(om, dt)
		a.handleReacquisitionOfTheGround()
		a.handleCeiling(om, dt)
	}
}

func (a *PhysicsActor) handleCeiling(om *collision.ObstacleMap, dt float64) {
	if !(a.midair && a.touchingCeiling) {
		return
	}

	mustReattach := false

	c := a.activeSensor(sensorC)
	d := a.activeSensor(sensorD)
	ceiling, cOrD := a.pickBestCeiling(a.at.C, a.at.D, c, d)
	if ceiling == nil {
		return
	}

	// are we touching the ceiling for the first time? Not testing
	// was_midair leads to spurious bounces when entering some tubes
	// (gsp := -gsp due to the movement-mode update, because the angle
	// momentarily becomes 0x80 and then goes back to 0).
	if a.ysp < 0 && a.wasMidair {
		// compute the ceiling angle
		a.forceAngle(om, 0x80)
		a.midair = false // enable the ground sensors
		a.updateAngle(om, dt)

		// reattach to the ceiling if steep angle and moving upwards
		if (a.angle >= 0xA0 && a.angle <= 0xBF) || (a.angle >= 0x40 && a.angle <= 0x5F) {
			if -a.ysp >= absf(a.xsp) {
				mustReattach = !a.midair
			}
		}

		// restore the midair flag and the angle
		if !mustReattach {
			a.midair = true // enable the ceiling sensors
			a.forceAngle(om, 0)
		}
	}

	if mustReattach {
		// adopt the ceiling as the new ground
		a.gsp = a.ysp * -signf(sinAngle(a.angle))
		a.xsp, a.ysp = 0, 0

		if a.state != Rolling {
			a.setWalkOrRun()
		}

		// make sure we stick to the ground
		a.detachFromGround = false
	} else {
		// bump the head
		a.ysp = maxf(a.ysp, 0)

		pos := a.intPos()
		tail := cOrD.Tail(pos, a.movmode)
		localTail := collision.Point{X: tail.X - pos.X, Y: tail.Y - pos.Y}

		ceilingPos := ceiling.GroundPosition(tail.X, tail.Y, collision.GroundUp)
		a.ypos = float64(ceilingPos - localTail.Y + 1)

		a.midair = true // enable the ceiling sensors
		a.updateSensors(om)
	}
}

func (a *PhysicsActor) handleGround(om *collision.ObstacleMap, dt float64) {
	// skip this section if we intend to leave the ground
	if !a.detachFromGround {
		a.handleStickyGround(om, dt)
	}
	a.detachFromGround = false

	if a.unstableAngleCounter > 0 {
		a.unstableAngleCounter--
	}

	// reset the angle if midair. When balancing on a short ledge we may
	// be getting a spurious angle, and hence a spurious movement mode;
	// midair may be true even though we're on a ledge, due to the wall
	// modes.
	if a.midair {
		a.forceAngle(om, 0)
	}
}

// handleStickyGround keeps the actor attached to curving terrain: if
// the actor is on the ground or has just left it, snap the nearest foot
// sensor onto the nearest ground within an adaptive extension window,
// then re-estimate the angle. The pass repeats once when the movement
// mode changes, unless the angle readings have become unstable at low
// speed (0x5e, 0x62, 0x5e... flapping between wall and ceiling modes).
func (a *PhysicsActor) handleStickyGround(om *collision.ObstacleMap, dt float64) {
	prevMovmode := a.movmode

	for {
		if !a.midair || !a.wasMidair || a.unstableAngleCounter > 0 {
			pos := a.intPos()
			sa := a.activeSensor(sensorA)
			sb := a.activeSensor(sensorB)

			gndA, gndB := a.at.A, a.at.B
			gndPos := 0
			aOrB := sa

			if gndA != nil || gndB != nil {
				// a ground sensor already collides: use the best floor
				gnd, s := a.pickBestFloor(gndA, gndB, sa, sb)
				aOrB = s

				tail := s.Tail(pos, a.movmode)
				gndPos = gnd.GroundPosition(tail.X, tail.Y, groundDirFromMode(a.movmode))
			} else {
				// compute an extended length measured from the tail of
				// the sensors
				maxAbsSpeed := maxf(absf(a.xsp), absf(a.ysp))
				maxAbsDs := int(math.Ceil(maxAbsSpeed * dt))
				const minLength, maxLength = 14, 32
				const tailDepth = abSensorOffset + 1 // the extension starts at the tail, and the tail touches the ground
				extendedLength := clip(maxAbsDs+4, minLength, maxLength) + (tailDepth - 1)

				var gndPosA, gndPosB int
				gndA, gndPosA = a.findGroundWithExtendedSensor(om, sa, extendedLength)
				gndB, gndPosB = a.findGroundWithExtendedSensor(om, sb, extendedLength)

				switch {
				case gndA != nil && gndB != nil:
					switch a.movmode {
					case ModeFloor, ModeRightWall:
						gndPos = minInt(gndPosA, gndPosB)
					default:
						gndPos = maxInt(gndPosA, gndPosB)
					}
					if gndPos == gndPosA {
						aOrB = sa
					} else {
						aOrB = sb
					}
				case gndA != nil:
					gndPos = gndPosA
					aOrB = sa
				case gndB != nil:
					gndPos = gndPosB
					aOrB = sb
				}
			}

			// reposition the actor: put the tail of the sensor on the
			// ground
			if gndA != nil || gndB != nil {
				tail := aOrB.Tail(pos, a.movmode)
				const offset = abSensorOffset

				switch a.movmode {
				case ModeFloor:
					a.ypos = float64(pos.Y + (gndPos - tail.Y) + offset)
				case ModeCeiling:
					a.ypos = float64(pos.Y + (gndPos - tail.Y) - offset)
				case ModeRightWall:
					a.xpos = float64(pos.X + (gndPos - tail.X) + offset)
				case ModeLeftWall:
					a.xpos = float64(pos.X + (gndPos - tail.X) - offset)
				}

				a.midair = false // get the correct sensors on this read
				a.updateSensors(om)
			}
		}

		// if the actor is still on the ground, update the angle
		if !a.midair {
			a.updateAngle(om, dt)
		}

		// repeat once if the movement mode changed
		if a.movmode != prevMovmode && a.unstableAngleCounter == 0 {
			const speedThreshold = 300.0
			if absf(a.gsp) < speedThreshold {
				// moving slowly; we may be getting unstable angles
				a.unstableAngleCounter = 2
			} else {
				// enough speed; run this sticky routine again next frame
				a.unstableAngleCounter = 1
			}
			continue
		}
		break
	}
}

// handleReacquisitionOfTheGround converts the airborne velocity back to
// ground speed on the step the actor lands, picking the projection by
// the landing angle band.
func (a *PhysicsActor) handleReacquisitionOfTheGround() {
	if !(!a.midair && a.wasMidair) {
		return
	}

	switch {
	case absf(a.xsp) > a.ysp:
		// moving mostly horizontally
		a.gsp = a.xsp
	case a.angle >= 0xF0 || a.angle <= 0x0F:
		// flat ground
		a.gsp = a.xsp
	case (a.angle >= 0xE0 && a.angle <= 0xEF) || (a.angle >= 0x10 && a.angle <= 0x1F):
		// slope
		a.gsp = a.ysp * 0.5 * -signf(sinAngle(a.angle))
	case (a.angle >= 0xC0 && a.angle <= 0xDF) || (a.angle >= 0x20 && a.angle <= 0x3F):
		// steep slope
		a.gsp = a.ysp * -signf(sinAngle(a.angle))
	}

	a.xsp, a.ysp = 0, 0
}

// findGroundWithExtendedSensor extends a foot sensor outward from its
// tail and sweeps the obstacle map for the nearest ground, returning
// nil if nothing lies within the window.
func (a *PhysicsActor) findGroundWithExtendedSensor(om *collision.ObstacleMap, s *collision.Sensor, extendedLength int) (*collision.Obstacle, int) {
	pos := a.intPos()
	head, tail := s.Extend(pos, a.movmode, extendedLength)

	x1 := minInt(head.X, tail.X)
	y1 := minInt(head.Y, tail.Y)
	x2 := maxInt(head.X, tail.X)
	y2 := maxInt(head.Y, tail.Y)

	o, g, ok := om.FindGround(x1, y1, x2, y2, a.layer, groundDirFromMode(a.movmode))
	if !ok {
		return nil, 0
	}
	return o, g
}

// pickBestFloor decides which foot sensor is linked to the best floor:
// the one whose ground protrudes furthest toward the actor.
func (a *PhysicsActor) pickBestFloor(oa, ob *collision.Obstacle, sa, sb *collision.Sensor) (*collision.Obstacle, *collision.Sensor) {
	if oa == nil {
		return ob, sb
	}
	if ob == nil {
		return oa, sa
	}

	pos := a.intPos()
	ha := sa.Head(pos, a.movmode)
	hb := sb.Head(pos, a.movmode)

	switch a.movmode {
	case ModeFloor:
		ga := oa.GroundPosition(ha.X, ha.Y, collision.GroundDown)
		gb := ob.GroundPosition(hb.X, hb.Y, collision.GroundDown)
		if ga <= gb {
			return oa, sa
		}
		return ob, sb
	case ModeLeftWall:
		ga := oa.GroundPosition(ha.X, ha.Y, collision.GroundLeft)
		gb := ob.GroundPosition(hb.X, hb.Y, collision.GroundLeft)
		if ga >= gb {
			return oa, sa
		}
		return ob, sb
	case ModeCeiling:
		ga := oa.GroundPosition(ha.X, ha.Y, collision.GroundUp)
		gb := ob.GroundPosition(hb.X, hb.Y, collision.GroundUp)
		if ga >= gb {
			return oa, sa
		}
		return ob, sb
	default: // ModeRightWall
		ga := oa.GroundPosition(ha.X, ha.Y, collision.GroundRight)
		gb := ob.GroundPosition(hb.X, hb.Y, collision.GroundRight)
		if ga <= gb {
			return oa, sa
		}
		return ob, sb
	}
}

// pickBestCeiling decides which head sensor is linked to the tightest
// ceiling: the one reaching lowest into the room.
func (a *PhysicsActor) pickBestCeiling(oc, od *collision.Obstacle, sc, sd *collision.Sensor) (*collision.Obstacle, *collision.Sensor) {
	if oc == nil {
		return od, sd
	}
	if od == nil {
		return oc, sc
	}

	pos := a.intPos()
	tc := sc.Tail(pos, a.movmode)
	td := sd.Tail(pos, a.movmode)

	switch a.movmode {
	case ModeFloor:
		gc := oc.GroundPosition(tc.X, tc.Y, collision.GroundUp)
		gd := od.GroundPosition(td.X, td.Y, collision.GroundUp)
		if gc >= gd {
			return oc, sc
		}
		return od, sd
	case ModeLeftWall:
		gc := oc.GroundPosition(tc.X, tc.Y, collision.GroundRight)
		gd := od.GroundPosition(td.X, td.Y, collision.GroundRight)
		if gc <= gd {
			return oc, sc
		}
		return od, sd
	case ModeCeiling:
		gc := oc.GroundPosition(tc.X, tc.Y, collision.GroundDown)
		gd := od.GroundPosition(td.X, td.Y, collision.GroundDown)
		if gc <= gd {
			return oc, sc
		}
		return od, sd
	default: // ModeRightWall
		gc := oc.GroundPosition(tc.X, tc.Y, collision.GroundLeft)
		gd := od.GroundPosition(td.X, td.Y, collision.GroundLeft)
		if gc >= gd {
			return oc, sc
		}
		return od, sd
	}
}

/*
 * Angle estimation
 */

// distanceBetweenAngleSensors narrows the probe spacing at very high
// speeds for a finer angle estimate.
func (a *PhysicsActor) distanceBetweenAngleSensors() int {
	const defaultCapSpeed = 16.0 * 60
	if absf(a.gsp) <= defaultCapSpeed {
		return 13
	}
	return 11
}

// updateAngle estimates the ground angle from two probe points offset
// symmetrically from the actor, retrying with smaller offsets when the
// estimate deviates too much from the previous angle. The probe origin
// is offset linearly toward where the actor is heading to reduce lag on
// fast slopes.
func (a *PhysicsActor) updateAngle(om *collision.ObstacleMap, dt float64) {
	s := a.activeSensor(sensorA)
	sensorHeight := s.LocalTail.Y - s.LocalHead.Y
	searchBase := s.LocalTail.Y - 1
	maxIterations := sensorHeight * 3

	halfDist := a.distanceBetweenAngleSensors() / 2
	hoff := halfDist + (1 - halfDist%2) // odd number
	minHoff := 1
	if a.wasMidair {
		// need a proper angle when reattaching to the ground or to the
		// ceiling
		minHoff = 5
	}
	maxDelta := minInt(hoff*2, slopeLimit)
	const angularTolerance = 0x14
	currentAngle := a.angle

	absGsp := absf(a.gsp)
	withinDefaultCapspeed := absGsp <= 16.0*60
	withinIncreasedCapspeed := absGsp <= 20.0*60

	// linear prediction: probe where the actor is heading
	var predictionFactor float64
	switch {
	case a.wasMidair:
		predictionFactor = 0 // undesirable when just landed
	case withinDefaultCapspeed:
		predictionFactor = 0.4
	case withinIncreasedCapspeed:
		predictionFactor = 0.5
	default:
		predictionFactor = 0.67
	}
	predictedX := a.xpos + a.xsp*dt*predictionFactor
	predictedY := a.ypos + a.ysp*dt*predictionFactor
	predictedAngle := currentAngle

	var dx, dy int
	for {
		a.angle = predictedAngle // assume continuity
		dx, dy = a.updateAngleStep(om, hoff, searchBase, predictedAngle, predictedX, predictedY, maxIterations)
		hoff -= 2 // increase precision

		retry := hoff >= minHoff && a.at.M == nil && a.at.N == nil &&
			(dx < -maxDelta || dx > maxDelta || dy < -maxDelta || dy > maxDelta ||
				deltaAngle(a.angle, currentAngle) > angularTolerance)
		if !retry {
			break
		}
	}

	// update the sensors after changing the angle
	a.updateMovMode()
	a.updateSensors(om)
}

// updateAngleStep runs one estimation pass: march two probe points down
// the local floor normal until both find ground, then derive the angle
// from the slope between the two ground positions.
func (a *PhysicsActor) updateAngleStep(om *collision.ObstacleMap, hoff, searchBase int, guessAngle uint8, curX, curY float64, maxIterations int) (outDx, outDy int) {
	foundA, foundB := false, false
	var xa, ya, xb, yb int

	sin, cos := sinAngle(guessAngle), cosAngle(guessAngle)

	for i := 0; i < maxIterations && !(foundA && foundB); i++ {
		h := float64(searchBase + i)
		x := floorf(curX) + h*sin + 0.5
		y := floorf(curY) + h*cos + 0.5

		if !foundA {
			xa = int(x - float64(hoff)*cos)
			ya = int(y + float64(hoff)*sin)
			gnd := om.BestObstacleAt(xa, ya, xa, ya, a.movmode, a.layer)
			foundA = gnd != nil && (gnd.IsSolid() || a.nearCloudSurface(gnd, xa, ya))
		}

		if !foundB {
			xb = int(x + float64(hoff)*cos)
			yb = int(y - float64(hoff)*sin)
			gnd := om.BestObstacleAt(xb, yb, xb, yb, a.movmode, a.layer)
			foundB = gnd != nil && (gnd.IsSolid() || a.nearCloudSurface(gnd, xb, yb))
		}
	}

	a.angleSensorLeft = collision.Point{X: int(curX), Y: int(curY)}
	a.angleSensorRight = a.angleSensorLeft
	if !(foundA && foundB) {
		return 0, 0
	}

	ga := om.BestObstacleAt(xa, ya, xa, ya, a.movmode, a.layer)
	gb := om.BestObstacleAt(xb, yb, xb, yb, a.movmode, a.layer)
	if ga == nil || gb == nil {
		return 0, 0
	}

	switch a.movmode {
	case ModeFloor:
		ya = ga.GroundPosition(xa, ya, collision.GroundDown)
		yb = gb.GroundPosition(xb, yb, collision.GroundDown)
	case ModeLeftWall:
		xa = ga.GroundPosition(xa, ya, collision.GroundLeft)
		xb = gb.GroundPosition(xb, yb, collision.GroundLeft)
	case ModeCeiling:
		ya = ga.GroundPosition(xa, ya, collision.GroundUp)
		yb = gb.GroundPosition(xb, yb, collision.GroundUp)
	case ModeRightWall:
		xa = ga.GroundPosition(xa, ya, collision.GroundRight)
		xb = gb.GroundPosition(xb, yb, collision.GroundRight)
	}

	x := xb - xa
	y := yb - ya
	if x == 0 && y == 0 {
		return 0, 0
	}

	ang := slopeAngle(y, x)
	if (ga == gb && absInt(y) < 16) || deltaAngle(ang, guessAngle) <= 0x25 {
		a.angle = ang
		a.angleSensorLeft = collision.Point{X: xa, Y: ya}
		a.angleSensorRight = collision.Point{X: xb, Y: yb}
		return x, y
	}
	return 0, 0
}

// nearCloudSurface reports whether a probe point sits close enough to a
// cloud's surface (from the current movement mode's "above") to count
// as ground.
func (a *PhysicsActor) nearCloudSurface(o *collision.Obstacle, x, y int) bool {
	switch a.movmode {
	case ModeFloor:
		return y < o.GroundPosition(x, y, collision.GroundDown)+cloudTolerance
	case ModeCeiling:
		return y > o.GroundPosition(x, y, collision.GroundUp)-cloudTolerance
	case ModeLeftWall:
		return x > o.GroundPosition(x, y, collision.GroundLeft)-cloudTolerance
	case ModeRightWall:
		return x < o.GroundPosition(x, y, collision.GroundRight)+cloudTolerance
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
