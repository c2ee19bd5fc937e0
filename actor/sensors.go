package actor

import "github.com/pthm-cable/platformcore/collision"

// The actor probes the obstacle map with six logical sensors, specified
// relative to the actor's position (the dot below):
//
//	  ---
//	C | | D
//	M -.- N
//	A | | B
//	^^^^^^^
//	 ground
//
// A/B are the feet (ground), C/D are the head (ceiling), M/N are the
// left and right middle sensors (walls).
type logicalSensor int

const (
	sensorA logicalSensor = iota // left foot
	sensorB                      // right foot
	sensorC                      // left head
	sensorD                      // right head
	sensorM                      // left wall
	sensorN                      // right wall
	numLogicalSensors
)

// sensorVariant is one of the four concrete hitbox tunings each logical
// sensor is built in. Instead of mutating sensor coordinates as the
// actor changes state, the set holds immutable copies and the variant
// selection picks the applicable one.
type sensorVariant int

const (
	variantNormal sensorVariant = iota
	variantJumpRoll
	variantFlatGround
	variantRollFlatGround
	numSensorVariants
)

// rollYOffset shifts the jumproll box downward from the sensor origin.
const rollYOffset = 5

// flatGroundOffset shifts the flat-ground A/B heads and M/N row down so
// the middle sensors don't spuriously re-collide on perfectly flat
// ground.
const flatGroundOffset = 8

// sensorSet owns the concrete sensors, 6 logical x 4 variants, built at
// construction time from the actor's hitbox dimensions. The flat-ground
// variants of C/D alias the normal/jumproll head sensors: only the feet
// and middle sensors move on flat ground.
type sensorSet struct {
	sensors [numLogicalSensors][numSensorVariants]*collision.Sensor
}

func newSensorSet(t Tunables) *sensorSet {
	// half box sizes relative to the vertical, symmetric A..D sensors:
	// W = 2*w + 1 so w = (W-1)/2, and h = (H-1)/2, grown by the sensor
	// offset so the tail touches the ground plane.
	w := (t.NormalWidth - 1) / 2
	h := (t.NormalHeight-1)/2 + abSensorOffset
	rw := (t.JumpRollWidth - 1) / 2
	rh := (t.JumpRollHeight-1)/2 + abSensorOffset
	ry := rollYOffset
	fy := flatGroundOffset // max(ry, 8)

	s := &sensorSet{}

	s.sensors[sensorA][variantNormal] = collision.NewVerticalSensor(-w, 0, h)
	s.sensors[sensorB][variantNormal] = collision.NewVerticalSensor(w, 0, h)
	s.sensors[sensorC][variantNormal] = collision.NewVerticalSensor(-w, 0, -h)
	s.sensors[sensorD][variantNormal] = collision.NewVerticalSensor(w, 0, -h)
	s.sensors[sensorM][variantNormal] = collision.NewHorizontalSensor(0, 0, -(w + 1))
	s.sensors[sensorN][variantNormal] = collision.NewHorizontalSensor(0, 0, w+1)

	// the jumproll box is smaller (~75%) and offset downward; the middle
	// sensors keep the standing width
	s.sensors[sensorA][variantJumpRoll] = collision.NewVerticalSensor(-rw, ry, ry+rh)
	s.sensors[sensorB][variantJumpRoll] = collision.NewVerticalSensor(rw, ry, ry+rh)
	s.sensors[sensorC][variantJumpRoll] = collision.NewVerticalSensor(-rw, ry, ry-rh)
	s.sensors[sensorD][variantJumpRoll] = collision.NewVerticalSensor(rw, ry, ry-rh)
	s.sensors[sensorM][variantJumpRoll] = collision.NewHorizontalSensor(ry, 0, -(w + 1))
	s.sensors[sensorN][variantJumpRoll] = collision.NewHorizontalSensor(ry, 0, w+1)

	// flat ground: shift the heads of A/B and the M/N row downward to
	// avoid spurious repositioning; A/B may collide with moving walls
	// because of the changed M/N
	s.sensors[sensorA][variantFlatGround] = collision.NewVerticalSensor(-w, fy, h)
	s.sensors[sensorB][variantFlatGround] = collision.NewVerticalSensor(w, fy, h)
	s.sensors[sensorC][variantFlatGround] = s.sensors[sensorC][variantNormal]
	s.sensors[sensorD][variantFlatGround] = s.sensors[sensorD][variantNormal]
	s.sensors[sensorM][variantFlatGround] = collision.NewHorizontalSensor(fy, 0, -(w + 1))
	s.sensors[sensorN][variantFlatGround] = collision.NewHorizontalSensor(fy, 0, w+1)

	s.sensors[sensorA][variantRollFlatGround] = collision.NewVerticalSensor(-w, fy, h)
	s.sensors[sensorB][variantRollFlatGround] = collision.NewVerticalSensor(w, fy, h)
	s.sensors[sensorC][variantRollFlatGround] = s.sensors[sensorC][variantJumpRoll]
	s.sensors[sensorD][variantRollFlatGround] = s.sensors[sensorD][variantJumpRoll]
	s.sensors[sensorM][variantRollFlatGround] = collision.NewHorizontalSensor(fy, ry, -(w + 1))
	s.sensors[sensorN][variantRollFlatGround] = collision.NewHorizontalSensor(fy, ry, w+1)

	return s
}

// selectVariant is a pure function of state, midair/was_midair, and
// whether the actor's angle lands exactly on a multiple of 0x40 (i.e.
// perfectly flat relative to the current movement mode). was_midair
// helps to avoid subtle M/N repositioning bugs when falling and
// rolling.
func selectVariant(state State, midair, wasMidair bool, angle uint8) sensorVariant {
	flat := !midair && !wasMidair && angle%0x40 == 0

	switch {
	case state == Rolling || state == Charging:
		if flat {
			return variantRollFlatGround
		}
		return variantJumpRoll
	case state == Jumping:
		return variantJumpRoll
	case midair || state == Springing:
		return variantNormal
	case flat:
		return variantFlatGround
	default:
		return variantNormal
	}
}

func (s *sensorSet) get(ls logicalSensor, v sensorVariant) *collision.Sensor {
	return s.sensors[ls][v]
}

// active returns the sensor currently applicable for the given logical
// role.
func (a *PhysicsActor) activeSensor(ls logicalSensor) *collision.Sensor {
	return a.sensors.get(ls, selectVariant(a.state, a.midair, a.wasMidair, a.angle))
}
