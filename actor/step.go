package actor

import "github.com/pthm-cable/platformcore/collision"

// sensorReadings holds the obstacle (or nil) found by each logical
// sensor at the current position, after cloud filtering.
type sensorReadings struct {
	A, B, C, D, M, N *collision.Obstacle
}

// Update is the public per-render-frame entry point. It maintains the
// reference_time/fixed_time accumulators and runs at most one fixed
// 1/60s step per call.
func (a *PhysicsActor) Update(dtRender float64, om *collision.ObstacleMap) {
	a.referenceTime += dtRender

	if a.fixedTime > a.referenceTime {
		// The engine is running faster than the simulation requires.
		// Don't skip a frame: frame skipping generates jittering when a
		// camera follows the actor, because the actor does not move this
		// frame but moves in the adjacent ones. Accepting one extra step
		// of the simulation is visually smooth and the difference in
		// distances is negligible.
		a.referenceTime = a.fixedTime + FixedDT/2
		return
	}

	for counter := 0; a.fixedTime <= a.referenceTime; a.fixedTime += FixedDT {
		if counter == 0 {
			// run at most once per framestep to avoid jittering when the
			// engine framerate drops below 60; the simulation will merely
			// seem slower in that case
			a.fixedUpdate(om, FixedDT)
		}
		counter++
	}
}

// fixedUpdate runs exactly one 1/60s simulation step. The order of the
// sections below is contractual: reordering changes behavior in
// observable ways (slope handling, landing fixups, wall-vs-ground
// resolution priority).
func (a *PhysicsActor) fixedUpdate(om *collision.ObstacleMap, dt float64) {
	t := &a.tunables

	/* save previous state */
	a.updateSensors(om)
	prevX, prevY := a.xpos, a.ypos
	a.prevAngle = a.angle
	a.wasMidair = a.midair // set after updateSensors

	/* disable simultaneous left + right input */
	if a.input.Left && a.input.Right {
		a.input.Left, a.input.Right = false, false
	}

	/* horizontal control lock */
	if a.hlockTimer > 0 {
		a.hlockTimer -= dt
		if a.hlockTimer < 0 {
			a.hlockTimer = 0
		}

		if !a.midair {
			a.input.Left, a.input.Right = false, false
		}

		if !a.midair && !nearlyZero(a.gsp) {
			a.facingRight = a.gsp > 0
		} else if a.midair && !nearlyZero(a.xsp) {
			a.facingRight = a.xsp > 0
		}
	}

	/* death */
	if a.state == Dead || a.state == Drowned {
		a.ysp = minf(a.ysp+t.Grv*dt, t.TopYSpeed)
		a.ypos += a.ysp * dt
		a.facingRight = true
		return
	}

	/* getting hit */
	if a.state == GettingHit {
		a.input.Reset()

		// make sure we don't get locked in this state
		if !a.midair && !a.wasMidair && a.ysp >= 0 {
			a.state = Stopped
		}
	}

	/* winning: brake on level clear */
	if a.winningPoseEnabled {
		const threshold = 60.0
		a.input.Reset()

		a.gsp = clipf(a.gsp, -0.625*t.CapSpeed, 0.625*t.CapSpeed)
		if a.state == Rolling {
			a.emit(EventBrake, nil)
			a.state = Braking
		}

		if a.gsp > threshold {
			a.input.Left = true
		} else if a.gsp < -threshold {
			a.input.Right = true
		}
	}

	/* facing left or right */
	if a.state != Rolling && a.state != Charging && (!nearlyZero(a.gsp) || !nearlyZero(a.xsp)) {
		if (a.gsp > 0 || a.midair) && a.input.Right {
			a.facingRight = true
		} else if (a.gsp < 0 || a.midair) && a.input.Left {
			a.facingRight = false
		}
	}

	/* charge and release */
	if a.state == Charging {
		if absf(a.chargeIntensity) >= t.ChrgThreshold {
			a.chargeIntensity *= 0.999506551 - 1.84539309*dt
		}

		if a.input.Fire1Pressed {
			a.chargeIntensity = minf(1, a.chargeIntensity+0.25)
			a.emit(EventRecharge, nil)
		}

		a.gsp = 0
		if !a.input.Down {
			direction := 1.0
			if !a.facingRight {
				direction = -1.0
			}
			a.gsp = direction * (t.Chrg / 3) * (2 + a.chargeIntensity)
			a.chargeIntensity = 0
			a.jumpLockTimer = 2.0 / 60
			a.state = Rolling
			a.emit(EventRelease, nil)
		}
	}

	/* begin to charge */
	if a.state == Ducking {
		if a.input.Down && a.input.Fire1Pressed && !nearlyZero(t.Chrg) {
			a.state = Charging
			a.chargeIntensity = 0
			a.emit(EventCharge, nil)
		}
	}

	/* slope factors */
	if !a.midair && a.movmode != ModeCeiling {
		if a.state == Rolling {
			if a.gsp*sinAngle(a.angle) >= 0 {
				a.gsp += t.RollUphillSlp * -sinAngle(a.angle) * dt
			} else if absf(a.gsp) < t.CapSpeed {
				a.gsp += t.RollDownhillSlp * -sinAngle(a.angle) * dt
				if absf(a.gsp) > t.CapSpeed {
					a.gsp = t.CapSpeed * signf(a.gsp)
				}
			}
		} else if a.state != Charging && a.state != GettingHit {
			// apply if moving or if on a steep slope
			if absf(a.gsp) >= t.MoveThreshold || absf(sinAngle(a.angle)) >= 0.707 {
				if absf(a.gsp) < t.CapSpeed {
					a.gsp += t.Slp * -sinAngle(a.angle) * dt
					if absf(a.gsp) > t.CapSpeed {
						a.gsp = t.CapSpeed * signf(a.gsp)
					}
				}
			}
		}
	}

	/* walking & running */
	if !a.midair && a.state != Rolling && a.state != Charging && a.state != GettingHit {
		// acceleration
		if a.input.Right && a.gsp >= 0 {
			if a.gsp < t.TopSpeed {
				a.gsp += t.Acc * dt
				if a.gsp >= t.TopSpeed {
					a.gsp = t.TopSpeed
					a.state = Running
				} else if !(a.state == Pushing && a.facingRight) {
					a.state = Walking
				}
			}
		} else if a.input.Left && a.gsp <= 0 {
			if a.gsp > -t.TopSpeed {
				a.gsp -= t.Acc * dt
				if a.gsp <= -t.TopSpeed {
					a.gsp = -t.TopSpeed
					a.state = Running
				} else if !(a.state == Pushing && !a.facingRight) {
					a.state = Walking
				}
			}
		}

		// deceleration
		if a.input.Right && a.gsp < 0 {
			a.gsp += t.Dec * dt
			if a.gsp >= 0 {
				a.gsp = 0
				a.state = Stopped
			} else if absf(a.gsp) >= t.BrakingThreshold && a.movmode == ModeFloor && a.state != Braking {
				a.state = Braking
				a.emit(EventBrake, nil)
			}
		} else if a.input.Left && a.gsp > 0 {
			a.gsp -= t.Dec * dt
			if a.gsp <= 0 {
				a.gsp = 0
				a.state = Stopped
			} else if absf(a.gsp) >= t.BrakingThreshold && a.movmode == ModeFloor && a.state != Braking {
				a.state = Braking
				a.emit(EventBrake, nil)
			}
		}

		// braking & friction
		if a.state == Braking {
			brk := t.Frc * (1.5 + 3*absf(sinAngle(a.angle)))
			if absf(a.gsp) <= brk*dt {
				a.gsp = 0
				a.state = Stopped
			} else {
				a.gsp -= brk * signf(a.gsp) * dt
			}
		} else if !a.input.Left && !a.input.Right {
			if absf(a.gsp) <= t.Frc*dt {
				a.gsp = 0
				a.state = Stopped
			} else {
				a.gsp -= t.Frc * signf(a.gsp) * dt
			}
		}
	}

	/* looking up & crouching down */
	if !a.midair && a.state != Pushing && a.state != Rolling && a.state != Charging {
		if nearlyZero(a.gsp) {
			if a.input.Down {
				a.state = Ducking
			} else if a.input.Up {
				a.state = LookingUp
			}
		}
	}

	/* springing */
	if a.state == Springing {
		if a.midair && a.ysp > 0 {
			a.state = Walking
		}
	}

	/* breathing */
	if a.breatheTimer > 0 {
		a.breatheTimer -= dt
		a.state = Breathing
	} else if a.state == Breathing && a.midair {
		a.breatheTimer = 0
		a.state = Walking
	}

	/* balancing on ledges */
	if !a.midair && a.movmode == ModeFloor &&
		a.state != Ledge && a.state != Pushing &&
		(a.at.A == nil) != (a.at.B == nil) &&
		nearlyZero(a.gsp) {

		grounded := sensorA
		if a.at.A == nil {
			grounded = sensorB
		}
		s := a.activeSensor(grounded)
		pos := a.intPos()
		tail := s.Tail(pos, a.movmode)

		delta := pos.X - tail.X
		midpoint := pos.X + delta/2

		if om.BestObstacleAt(midpoint, tail.Y+8, midpoint, tail.Y+8, a.movmode, a.layer) == nil {
			a.state = Ledge
		}
	}

	/* start rolling */
	if !a.midair && (a.state == Walking || a.state == Running) {
		if absf(a.gsp) >= t.RollThreshold && a.input.Down {
			a.state = Rolling
			a.emit(EventRoll, nil)
		}
	}

	/* roll */
	if !a.midair && a.state == Rolling {
		// deceleration
		if a.input.Right && a.gsp < 0 {
			a.gsp = minf(0, a.gsp+t.RollDec*dt)
		} else if a.input.Left && a.gsp > 0 {
			a.gsp = maxf(0, a.gsp-t.RollDec*dt)
		}

		// friction
		if absf(a.gsp) > t.RollFrc*dt {
			a.gsp -= t.RollFrc * signf(a.gsp) * dt
		} else {
			a.gsp = 0
		}

		// unroll
		if absf(a.gsp) < t.UnrollThreshold {
			a.state = Stopped
		}

		if !nearlyZero(a.gsp) {
			a.facingRight = a.gsp > 0
		}
	}

	/* speed cap & conversions */
	if !a.midair {
		a.gsp = clipf(a.gsp, -HardCapSpeed, HardCapSpeed)

		// convert gsp to xsp and ysp, unless xsp/ysp have been changed
		// externally and the actor intends to leave the ground
		if !a.detachFromGround {
			a.xsp = a.gsp * cosAngle(a.angle)
			a.ysp = a.gsp * -sinAngle(a.angle)
		}
	} else {
		a.xsp = clipf(a.xsp, -HardCapSpeed, HardCapSpeed)
		a.ysp = clipf(a.ysp, -HardCapSpeed, HardCapSpeed)
	}

	/* falling */
	if a.midair {
		// air acceleration
		if a.input.Right {
			if a.xsp < t.TopSpeed {
				a.xsp += t.Air * dt
				if a.xsp > t.TopSpeed {
					a.xsp = t.TopSpeed
				}
			}
		} else if a.input.Left {
			if a.xsp > -t.TopSpeed {
				a.xsp -= t.Air * dt
				if a.xsp < -t.TopSpeed {
					a.xsp = -t.TopSpeed
				}
			}
		}

		// air drag
		if a.ysp < 0 && a.ysp > t.AirDragThreshold && a.state != GettingHit {
			if absf(a.xsp) >= t.AirDragXThreshold {
				a.xsp *= a.airdragCoefficient[0]*dt + a.airdragCoefficient[1]
			}
		}

		// gravity
		if a.ysp < t.TopYSpeed {
			grv := t.Grv
			if a.state == GettingHit {
				grv = (t.Grv / 7) * 6
			}
			a.ysp += grv * dt
			if a.ysp > t.TopYSpeed {
				a.ysp = t.TopYSpeed
			}
		}
	}

	/* jumping */
	if !a.midair {
		a.jumpLockTimer -= dt
		if a.jumpLockTimer <= 0 {
			a.jumpLockTimer = 0

			if a.input.Fire1Pressed &&
				((!a.input.Up && !a.input.Down) || a.state == Rolling) &&
				!a.touchingCeiling { // don't bother jumping if near a ceiling
				a.xsp = t.Jmp*sinAngle(a.angle) + a.gsp*cosAngle(a.angle)
				a.ysp = t.Jmp*cosAngle(a.angle) - a.gsp*sinAngle(a.angle)
				a.state = Jumping
				a.detachFromGround = true
				a.forceAngle(om, 0)

				a.emit(EventJump, nil)
			}
		}
	} else {
		// jump sensitivity
		if a.state == Jumping {
			if !a.input.Fire1 && a.ysp < t.JmpRel {
				a.ysp = t.JmpRel
			}
		}
	}

	/* moving the actor */
	a.xpos += a.xsp * dt
	a.ypos += a.ysp * dt
	a.updateSensors(om)

	/* getting smashed */
	if a.isSmashed(om) {
		a.emit(EventSmash, nil)
		a.Kill()
		return
	}

	/* collisions: walls are generally tested first, except during fast,
	   nearly-vertical midair motion, where the actor may be spuriously
	   repositioned by a wall sensor when it is about to hit the ground
	   or the ceiling */
	delayWallCollisions := (a.midair || a.wasMidair) &&
		absf(a.ysp) >= 900 &&
		absf(a.xsp) <= 30

	if !delayWallCollisions {
		a.handleWalls(om)
		a.handleGroundAndCeiling(om, dt)
	} else {
		a.handleGroundAndCeiling(om, dt)
		a.handleWalls(om)
	}

	/* falling off walls and ceilings */
	if !a.midair && a.hlockTimer == 0 {
		if a.movmode != ModeFloor {
			if absf(a.gsp) < t.FalloffThreshold {
				a.hlockTimer = 0.5
				if a.angle >= 0x40 && a.angle <= 0xC0 {
					a.gsp = 0
					a.forceAngle(om, 0)
				}
			}
		}
	}

	/* waiting */
	if a.state == Stopped {
		a.waitTimer += dt
		if a.waitTimer >= t.WaitTime {
			a.state = Waiting
		}
	} else {
		a.waitTimer = 0
	}

	/* corrections when landing on the ground */
	if !a.midair && a.wasMidair {
		switch a.state {
		case GettingHit:
			// stop when landing after getting hit
			a.gsp, a.xsp = 0, 0
			a.state = Stopped
			a.emit(EventBlink, nil)
		case Rolling:
			// unroll when landing, unless the player wants to (and can)
			// keep rolling
			if a.midairTimer >= 0.2 {
				wannaRoll := a.input.Down
				canRoll := absf(a.gsp) >= t.RollThreshold
				if !(wannaRoll && canRoll) {
					a.setWalkOrRun()
					if !nearlyZero(a.gsp) {
						a.facingRight = a.gsp > 0
					}
				}
			}
		default:
			a.setWalkOrRun()
		}
	}

	/* animation corrections while on the ground */
	if !a.midair && a.state != Rolling && a.state != Charging && a.state != GettingHit && a.state != Winning {
		if absf(a.gsp) < t.MoveThreshold {
			switch {
			case a.state == Pushing && !a.input.Left && !a.input.Right:
				a.state = Stopped
			case a.state == Pushing || a.state == LookingUp || a.state == Ducking || a.state == Ledge:
				// keep the current pose
			case a.input.Left || a.input.Right:
				a.state = Walking
			case a.state != Waiting:
				a.state = Stopped
			case !nearlyZero(a.gsp):
				a.state = Walking
			}
		} else {
			switch a.state {
			case Stopped, Waiting, Ledge, Walking, Running, Ducking, LookingUp:
				a.setWalkOrRun()
			case Pushing:
				if absf(a.gsp) >= 30 {
					a.state = Walking
				}
			}
		}
	}

	/* fix invalid states */
	if a.midair {
		switch a.state {
		case Pushing, Ledge, Stopped, Waiting, Braking, Ducking, LookingUp:
			a.setWalkOrRun()
		}
	} else {
		if a.state == Walking && nearlyZero(a.gsp) {
			a.state = Stopped
		}
	}

	/* remain on the winning state */
	if a.winningPoseEnabled && !a.midair {
		if absf(a.gsp) < t.MoveThreshold {
			a.state = Winning
		}
	}

	/* save the delta position */
	a.dx = a.xpos - prevX
	a.dy = a.ypos - prevY

	/* update the midair timer */
	if a.midair {
		a.midairTimer += dt
	} else {
		a.midairTimer = 0
	}
}

func (a *PhysicsActor) setWalkOrRun() {
	if absf(a.gsp) >= a.tunables.TopSpeed {
		a.state = Running
	} else {
		a.state = Walking
	}
}

func (a *PhysicsActor) intPos() collision.Point {
	return collision.Point{X: int(floorf(a.xpos)), Y: int(floorf(a.ypos))}
}

// updateSensors re-reads all six sensors at the current position and
// refreshes the midair/touching-ceiling flags. Call it whenever the
// position or the angle changes. The applicable sensor variant depends
// on midair, so the read repeats once when the floor-mode midair flag
// flips (repeating when rolling inside a tube leads to instability).
func (a *PhysicsActor) updateSensors(om *collision.ObstacleMap) {
	prevMidair := a.midair

	for repetitions := 0; ; repetitions++ {
		pos := a.intPos()

		sa := a.activeSensor(sensorA)
		sb := a.activeSensor(sensorB)
		sc := a.activeSensor(sensorC)
		sd := a.activeSensor(sensorD)
		sm := a.activeSensor(sensorM)
		sn := a.activeSensor(sensorN)

		// skip sensors that cannot matter this step
		enC, enD, enM, enN := true, true, true, true
		if !a.midair {
			wannaJump := a.input.Fire1Pressed && a.state != Charging
			wannaMiddle := a.angle <= 0x40 || a.angle >= 0xC0 || a.angle == 0x80
			onMovingPlatform := wannaMiddle && a.isOnMovingPlatform(om, sa, sb)

			enC, enD = wannaJump, wannaJump
			enM = wannaMiddle && (a.gsp <= a.tunables.MoveThreshold || (a.angle == 0 && a.dx < 0) || onMovingPlatform)
			enN = wannaMiddle && (a.gsp >= -a.tunables.MoveThreshold || (a.angle == 0 && a.dx > 0) || onMovingPlatform)
		}

		check := func(s *collision.Sensor, enabled bool) *collision.Obstacle {
			if !enabled {
				return nil
			}
			return s.Check(pos, a.movmode, a.layer, om)
		}

		atA := check(sa, true)
		atB := check(sb, true)
		atC := check(sc, enC)
		atD := check(sd, enD)
		atM := check(sm, enM)
		atN := check(sn, enN)

		// C, D, M, N: ignore clouds
		atC = solidOrNil(atC)
		atD = solidOrNil(atD)
		atM = solidOrNil(atM)
		atN = solidOrNil(atN)

		// A, B: ignore clouds when moving upwards
		if a.ysp < 0 {
			if (a.midair && a.ysp < -absf(a.xsp)) || (a.wasMidair && a.state != Jumping) {
				atA = solidOrNil(atA)
				atB = solidOrNil(atB)
			}
		}

		// A, B: a cloud only counts if the tail of the sensor is at a
		// non-transparent pixel, otherwise the actor may hang in the air
		// because the ground map answers h-1 at a fully transparent
		// bottom
		if atA != nil && !atA.IsSolid() {
			tail := sa.Tail(pos, a.movmode)
			if !atA.CollidesWithSegment(tail.X, tail.Y, tail.X, tail.Y) {
				atA = nil
			}
		}
		if atB != nil && !atB.IsSolid() {
			tail := sb.Tail(pos, a.movmode)
			if !atB.CollidesWithSegment(tail.X, tail.Y, tail.X, tail.Y) {
				atB = nil
			}
		}

		// A, B: ignore a cloud whose surface is too far above the sensor
		// tail. Needed even with cloudified masks, because brick-like
		// objects may not be cloudified. A cloud may also be a ramp:
		// when the two readings disagree a lot, keep both, or the actor
		// may get into the ramp.
		if a.movmode == collision.ModeFloor {
			ygndA, ygndB, clouds := 0, 0, 0
			ignoreA, ignoreB := false, false

			if atA != nil && !atA.IsSolid() {
				tail := sa.Tail(pos, a.movmode)
				ygndA = atA.GroundPosition(tail.X, tail.Y, collision.GroundDown)
				ignoreA = tail.Y >= ygndA+cloudTolerance
				clouds++
			}
			if atB != nil && !atB.IsSolid() {
				tail := sb.Tail(pos, a.movmode)
				ygndB = atB.GroundPosition(tail.X, tail.Y, collision.GroundDown)
				ignoreB = tail.Y >= ygndB+cloudTolerance
				clouds++
			}

			if clouds == 1 || (clouds == 2 && absInt(ygndA-ygndB) < 16) {
				if ignoreA {
					atA = nil
				}
				if ignoreB {
					atB = nil
				}
			}
		}

		a.at = sensorReadings{A: atA, B: atB, C: atC, D: atD, M: atM, N: atN}
		a.midair = atA == nil && atB == nil
		a.touchingCeiling = atC != nil || atD != nil

		if !(a.movmode == collision.ModeFloor && prevMidair != a.midair && repetitions == 0) {
			break
		}
	}
}

// cloudTolerance is how far a sensor tail may sit below a cloud's
// surface and still count as standing on it.
const cloudTolerance = 24

func solidOrNil(o *collision.Obstacle) *collision.Obstacle {
	if o != nil && o.IsSolid() {
		return o
	}
	return nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// isOnMovingPlatform reports whether a ground sensor is touching a
// non-static obstacle.
func (a *PhysicsActor) isOnMovingPlatform(om *collision.ObstacleMap, sa, sb *collision.Sensor) bool {
	pos := a.intPos()
	if o := sa.Check(pos, a.movmode, a.layer, om); o != nil && !o.IsStatic() {
		return true
	}
	if o := sb.Check(pos, a.movmode, a.layer, om); o != nil && !o.IsStatic() {
		return true
	}
	return false
}
