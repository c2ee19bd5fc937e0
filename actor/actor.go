package actor

import (
	"math"

	"github.com/pthm-cable/platformcore/collision"
)

// PhysicsActor is the fixed-step state machine at the heart of the
// engine: position, speeds, angle, movement mode, an 18-state FSM,
// input processing, collision resolution with sticky-ground
// reacquisition, angle estimation, and synchronous observer
// notification.
type PhysicsActor struct {
	// kinematic
	xpos, ypos float64
	gsp        float64 // ground-frame speed, meaningful only when !midair
	xsp, ysp   float64 // Cartesian speed, governs when midair
	dx, dy     float64 // last-step delta, for external readback

	// orientation
	angle, prevAngle uint8
	movmode          MovMode
	facingRight      bool

	// flags
	midair, wasMidair, touchingCeiling bool
	detachFromGround                   bool
	winningPoseEnabled                 bool

	// timers, in seconds
	hlockTimer    float64
	jumpLockTimer float64
	waitTimer     float64
	midairTimer   float64
	breatheTimer  float64

	state State
	layer collision.Layer

	chargeIntensity      float64
	unstableAngleCounter int

	// fixed-step bookkeeping
	referenceTime, fixedTime float64

	input InputSnapshot

	tunables           Tunables
	airdragCoefficient [2]float64
	sensors            *sensorSet
	at                 sensorReadings

	observers []Observer

	// world points of the two angle sensors, kept for debug rendering
	angleSensorLeft, angleSensorRight collision.Point
}

// New constructs a PhysicsActor with the given tunables, positioned at
// the origin, midair, in the STOPPED state, facing right, on the
// default layer.
func New(t Tunables) *PhysicsActor {
	a := &PhysicsActor{
		tunables:    t,
		sensors:     newSensorSet(t),
		facingRight: true,
		midair:      true,
		wasMidair:   true,
		state:       Stopped,
		layer:       collision.LayerDefault,
	}
	a.recomputeAirdragCoefficients()
	return a
}

// recomputeAirdragCoefficients derives the per-step air drag
// coefficients from the per-second drag factor, so that
// xsp *= c0*dt + c1 approximates xsp *= airdrag^(60*dt).
func (a *PhysicsActor) recomputeAirdragCoefficients() {
	drag := clipf(a.tunables.AirDrag, 0, 1)
	switch {
	case drag > 0 && drag < 1:
		a.airdragCoefficient[0] = 60.0 * drag * math.Log(drag)
		a.airdragCoefficient[1] = drag * (1.0 - math.Log(drag))
	case drag > 0:
		a.airdragCoefficient[0] = 0
		a.airdragCoefficient[1] = 1
	default:
		a.airdragCoefficient[0] = 0
		a.airdragCoefficient[1] = 0
	}
}

// --- queries (pure) ---

// Position returns the actor's current world position.
func (a *PhysicsActor) Position() (x, y float64) { return a.xpos, a.ypos }

// SetPosition teleports the actor; it does not reset speeds or state.
func (a *PhysicsActor) SetPosition(x, y float64) { a.xpos, a.ypos = x, y }

// Angle returns the actor's orientation in degrees, counterclockwise,
// in [0,360), derived from the internal clockwise 0..255 angle.
func (a *PhysicsActor) Angle() float64 { return degrees(a.angle) }

// State returns the current FSM state.
func (a *PhysicsActor) State() State { return a.state }

// FacingRight reports the actor's horizontal facing.
func (a *PhysicsActor) FacingRight() bool { return a.facingRight }

// IsMidair reports whether neither ground sensor A nor B found an
// obstacle at the post-resolution position this step.
func (a *PhysicsActor) IsMidair() bool { return a.midair }

// IsTouchingCeiling reports whether a head sensor collided this step.
func (a *PhysicsActor) IsTouchingCeiling() bool { return a.touchingCeiling }

// Layer returns the actor's current obstacle layer filter.
func (a *PhysicsActor) Layer() collision.Layer { return a.layer }

// SetLayer changes the actor's obstacle layer filter.
func (a *PhysicsActor) SetLayer(l collision.Layer) { a.layer = l }

// MovMode returns the actor's current movement mode.
func (a *PhysicsActor) MovMode() MovMode { return a.movmode }

// RollDelta returns the difference in height between the standing and
// the rolling ground sensors, used by callers to keep the sprite's feet
// anchored while rolling.
func (a *PhysicsActor) RollDelta() int {
	return a.sensors.get(sensorA, variantNormal).LocalTail.Y -
		a.sensors.get(sensorA, variantJumpRoll).LocalTail.Y
}

// ChargeIntensity returns the current spin-charge intensity in [0,1].
func (a *PhysicsActor) ChargeIntensity() float64 { return a.chargeIntensity }

// GroundSpeed returns gsp.
func (a *PhysicsActor) GroundSpeed() float64 { return a.gsp }

// SetGroundSpeed sets gsp.
func (a *PhysicsActor) SetGroundSpeed(v float64) { a.gsp = v }

// Speed returns the Cartesian speed (xsp, ysp).
func (a *PhysicsActor) Speed() (xsp, ysp float64) { return a.xsp, a.ysp }

// SetSpeed sets the Cartesian speed (xsp, ysp).
func (a *PhysicsActor) SetSpeed(xsp, ysp float64) { a.xsp, a.ysp = xsp, ysp }

// Delta returns the position delta of the last fixed step.
func (a *PhysicsActor) Delta() (dx, dy float64) { return a.dx, a.dy }

// HLockTimer returns the remaining horizontal control lock, in seconds.
func (a *PhysicsActor) HLockTimer() float64 { return a.hlockTimer }

// BoundingBox returns the actor's hitbox (width, height, center),
// derived from the active A/D sensors with the movement-mode rotation
// applied.
func (a *PhysicsActor) BoundingBox() (width, height int, centerX, centerY float64) {
	sa := a.activeSensor(sensorA)
	sd := a.activeSensor(sensorD)

	// find size
	at := sa.LocalTail
	dt := sd.LocalTail
	w := dt.X - at.X + 1
	h := at.Y - dt.Y + 1

	// adjust size: subtract two sensor offsets (one from A, another
	// from D) and trim to the visible body
	h -= 2 * abSensorOffset
	h -= 6
	w -= 2

	// find center
	x := floorf(a.xpos)
	y := floorf(a.ypos)

	// rotate and apply the sensor origin offset
	offset := sd.LocalHead
	rw, rh := w, h
	switch a.movmode {
	case ModeFloor:
		y += float64(offset.Y)
	case ModeCeiling:
		y -= float64(offset.Y)
	case ModeRightWall:
		rw, rh = h, w
		x += float64(offset.Y)
	case ModeLeftWall:
		rw, rh = h, w
		x -= float64(offset.Y)
	}

	return maxInt(rw, 1), maxInt(rh, 1), x, y
}

// StandingOnPlatform reports whether a ground sensor touches the given
// obstacle, e.g. to decide if the actor rides a moving platform.
func (a *PhysicsActor) StandingOnPlatform(o *collision.Obstacle) bool {
	pos := a.intPos()
	for _, ls := range [2]logicalSensor{sensorA, sensorB} {
		x1, y1, x2, y2 := a.activeSensor(ls).WorldPos(pos, a.movmode)
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		if o.CollidesWithSegment(x1, y1, x2, y2) {
			return true
		}
	}
	return false
}

// DebugSnapshot is a read-only readback of the attributes the engine
// exposes purely for on-screen debug rendering: the two angle-sensor
// world points and the active sensor segments.
type DebugSnapshot struct {
	AngleSensorLeft, AngleSensorRight collision.Point
	ActiveSensors                     map[string][4]int // logical sensor name -> x1,y1,x2,y2
}

// DebugSnapshot captures the current debug-readback attributes. It
// never mutates the actor and is not part of the simulation proper.
func (a *PhysicsActor) DebugSnapshot() DebugSnapshot {
	pos := a.intPos()

	names := map[logicalSensor]string{
		sensorA: "A", sensorB: "B", sensorC: "C", sensorD: "D", sensorM: "M", sensorN: "N",
	}
	active := make(map[string][4]int, numLogicalSensors)
	for ls, name := range names {
		x1, y1, x2, y2 := a.activeSensor(ls).WorldPos(pos, a.movmode)
		active[name] = [4]int{x1, y1, x2, y2}
	}

	return DebugSnapshot{
		AngleSensorLeft:  a.angleSensorLeft,
		AngleSensorRight: a.angleSensorRight,
		ActiveSensors:    active,
	}
}

func floorf(v float64) float64 { return math.Floor(v) }

// --- commands ---

// SetInput replaces the actor's input snapshot for the next fixed step.
func (a *PhysicsActor) SetInput(in InputSnapshot) { a.input = in }

// LockHorizontalFor locks left/right input for the given duration.
// Locks are cumulative: the timer keeps the maximum of its current
// value and the requested one, never shortening an existing lock.
func (a *PhysicsActor) LockHorizontalFor(seconds float64) {
	seconds = maxf(seconds, 0)
	if seconds > a.hlockTimer {
		a.hlockTimer = seconds
	}
}

// DetachFromGround requests that the actor leave the ground on its next
// step even if a ground sensor would otherwise reattach it.
func (a *PhysicsActor) DetachFromGround() { a.detachFromGround = true }

// EnableWinningPose toggles the end-of-level winning pose, which forces
// the actor to brake to a stop regardless of input.
func (a *PhysicsActor) EnableWinningPose(enabled bool) { a.winningPoseEnabled = enabled }

// Kill transitions the actor to DEAD, applying the death jump impulse
// and emitting KILL. It is a no-op when already dead or drowned.
func (a *PhysicsActor) Kill() {
	if a.state == Dead || a.state == Drowned {
		return
	}

	a.xsp = 0
	a.ysp = a.tunables.DieJmp

	a.angle = 0
	a.movmode = ModeFloor
	a.facingRight = true

	a.state = Dead
	a.emit(EventKill, nil)
}

// Hit throws the actor in the given horizontal direction (>0 right,
// <0 left, 0 = opposite its current facing), applies the hit impulse and
// transitions to GETTINGHIT.
func (a *PhysicsActor) Hit(direction float64) {
	if a.state == Dead || a.state == Drowned || a.state == GettingHit {
		return
	}

	dir := signf(direction)
	if dir == 0 {
		if a.facingRight {
			dir = -1
		} else {
			dir = 1
		}
	}
	a.xsp = a.tunables.HitJmp * 0.5 * -dir
	a.ysp = a.tunables.HitJmp

	a.DetachFromGround()
	a.state = GettingHit
	a.emit(EventHit, nil)
}

// Bounce deflects a midair actor off something it landed on, e.g. a
// breakable box. direction is a hint: <0 means upward. Reports whether
// the bounce was applied.
func (a *PhysicsActor) Bounce(direction float64) bool {
	if a.state == Dead || a.state == Drowned || !a.midair {
		return false
	}

	if direction < 0 && a.ysp > 0 {
		a.ysp = -a.ysp
	} else {
		a.ysp -= 60 * signf(a.ysp)
	}

	a.state = Jumping
	return true
}

// Springify puts the actor in the SPRINGING state, detaching it from
// the ground when the external impulse points away from it.
func (a *PhysicsActor) Springify() {
	if a.state == Dead || a.state == Drowned {
		return
	}

	if a.state != Springing {
		a.detachFromGround = a.detachFromGround ||
			(a.movmode == ModeFloor && a.ysp < 0) ||
			(a.movmode == ModeRightWall && a.xsp < 0) ||
			(a.movmode == ModeCeiling && a.ysp > 0) ||
			(a.movmode == ModeLeftWall && a.xsp > 0)
	}

	a.state = Springing
}

// Roll forces the actor into the ROLLING state.
func (a *PhysicsActor) Roll() {
	if a.state == Dead || a.state == Drowned {
		return
	}
	a.state = Rolling
}

// Drown transitions to DROWNED and emits DROWN. From then on the actor
// only sinks under gravity until resurrected.
func (a *PhysicsActor) Drown() {
	if a.state == Drowned || a.state == Dead {
		return
	}

	a.xsp, a.ysp = 0, 0
	a.angle = 0
	a.movmode = ModeFloor
	a.facingRight = true

	a.state = Drowned
	a.emit(EventDrown, nil)
}

// Breathe makes the actor gasp for air, briefly suspending it.
func (a *PhysicsActor) Breathe() {
	if a.state == Dead || a.state == Drowned || a.state == Breathing {
		return
	}

	a.xsp, a.ysp = 0, 0
	a.breatheTimer = 0.5
	a.state = Breathing
	a.emit(EventBreathe, nil)
}

// Resurrect brings a dead or drowned actor back to a standing STOPPED
// state and emits RESURRECT. Reports whether the actor was resurrected.
func (a *PhysicsActor) Resurrect() bool {
	if a.state != Dead && a.state != Drowned {
		return false
	}

	a.gsp, a.xsp, a.ysp = 0, 0, 0
	a.angle = 0
	a.movmode = ModeFloor
	a.facingRight = true

	a.state = Stopped
	a.emit(EventResurrect, nil)
	return true
}

// --- tunables & observers ---

// Tunables returns a copy of the actor's current tunable set.
func (a *PhysicsActor) Tunables() Tunables { return a.tunables }

// SetTunables replaces the actor's tunable set, rebuilding the sensor
// set (the hitbox dimensions may have changed) and the derived air drag
// coefficients.
func (a *PhysicsActor) SetTunables(t Tunables) {
	a.tunables = t
	a.sensors = newSensorSet(t)
	a.recomputeAirdragCoefficients()
}

// Subscribe registers an observer, appended to the end of the
// notification list. Observers are notified synchronously, in
// subscription order; they must not mutate the actor's position or
// speeds from within the callback.
func (a *PhysicsActor) Subscribe(obs Observer) {
	a.observers = append(a.observers, obs)
}

func (a *PhysicsActor) emit(event Event, context any) {
	for _, obs := range a.observers {
		obs(a, event, context)
	}
}
