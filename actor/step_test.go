package actor

import (
	"testing"

	"github.com/pthm-cable/platformcore/collision"
	"github.com/pthm-cable/platformcore/mask"
)

// groundTop is the y of the test floor's surface; restY is where the
// actor's position settles when standing on it: the foot sensor tail
// (position + (H-1)/2 + 1) sits one pixel inside the surface.
const (
	groundTop = 200
	restY     = groundTop - 20 + 1
)

func flatGroundMap() *collision.ObstacleMap {
	om := collision.NewObstacleMap()
	ground := mask.NewBox(2000, 64)
	om.Add(collision.NewObstacle(ground, collision.Point{X: -1000, Y: groundTop}, collision.LayerDefault, 0))
	return om
}

func settle(a *PhysicsActor, om *collision.ObstacleMap, steps int) {
	var in InputSnapshot
	for i := 0; i < steps; i++ {
		a.SetInput(in)
		a.Update(FixedDT, om)
	}
}

func TestActorFallsAndLandsOnGround(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(0, 0)
	om := flatGroundMap()

	for i := 0; i < 600; i++ {
		a.Update(FixedDT, om)
		if !a.IsMidair() {
			break
		}
	}

	if a.IsMidair() {
		t.Fatal("actor never landed after 10s of free fall onto flat ground")
	}
	_, y := a.Position()
	if y != restY {
		t.Errorf("expected actor to settle at y=%d, got y=%.2f", restY, y)
	}
	if _, ysp := a.Speed(); ysp != 0 {
		t.Errorf("expected ysp=0 once grounded, got %.2f", ysp)
	}
	if a.MovMode() != ModeFloor {
		t.Errorf("expected floor mode on flat ground, got %v", a.MovMode())
	}
}

func TestActorJumpLeavesGround(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(0, restY)
	om := flatGroundMap()

	settle(a, om, 5)
	if a.IsMidair() {
		t.Fatal("actor should start grounded")
	}

	var in InputSnapshot
	in.SimulatePress()
	a.SetInput(in)
	a.Update(FixedDT, om)

	if !a.IsMidair() {
		t.Error("actor should be airborne the step after pressing jump")
	}
	if a.State() != Jumping {
		t.Errorf("expected JUMPING after pressing jump, got %v", a.State())
	}
	if _, ysp := a.Speed(); ysp >= 0 {
		t.Errorf("expected negative (upward) ysp after a jump, got %.2f", ysp)
	}
}

func TestJumpLockBlocksImmediateJump(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(0, restY)
	om := flatGroundMap()
	settle(a, om, 5)

	a.jumpLockTimer = 0.5

	var in InputSnapshot
	in.SimulatePress()
	a.SetInput(in)
	a.Update(FixedDT, om)

	if a.State() == Jumping {
		t.Error("jump lock must suppress the jump")
	}
}

func TestActorCrushedBetweenCloseObstacles(t *testing.T) {
	a := New(DefaultTunables())
	om := collision.NewObstacleMap()

	floor := mask.NewBox(200, 32)
	om.Add(collision.NewObstacle(floor, collision.Point{X: -100, Y: groundTop}, collision.LayerDefault, 0))

	a.SetPosition(0, restY)
	settle(a, om, 3)

	ceiling := mask.NewBox(200, 32)
	om.Add(collision.NewObstacle(ceiling, collision.Point{X: -100, Y: restY - 11}, collision.LayerDefault, 0))

	if !a.isSmashed(om) {
		t.Fatal("expected a grounded actor sandwiched between a close floor and ceiling to be detected as crushed")
	}
}

func TestActorNotCrushedWhenClearOverhead(t *testing.T) {
	a := New(DefaultTunables())
	om := flatGroundMap()

	a.SetPosition(0, restY)
	settle(a, om, 3)

	if a.isSmashed(om) {
		t.Error("a grounded actor with open headroom must not be reported as crushed")
	}
}

func TestHorizontalLockDecays(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(0, restY)
	om := flatGroundMap()
	settle(a, om, 3)

	a.LockHorizontalFor(0.1)
	a.LockHorizontalFor(0.05) // cumulative: keeps the max
	if a.HLockTimer() != 0.1 {
		t.Fatalf("lock must keep the maximum, got %.3f", a.HLockTimer())
	}

	in := InputSnapshot{Right: true}
	for i := 0; i < 3; i++ {
		a.SetInput(in)
		a.Update(FixedDT, om)
	}
	if a.GroundSpeed() != 0 {
		t.Error("locked horizontal control must ignore left/right input")
	}

	for i := 0; i < 10; i++ {
		a.SetInput(in)
		a.Update(FixedDT, om)
	}
	if a.GroundSpeed() <= 0 {
		t.Error("expected the actor to accelerate once the lock expired")
	}
}

func TestMovModeBands(t *testing.T) {
	tests := []struct {
		angle uint8
		want  MovMode
	}{
		{0x00, ModeFloor},
		{0x20, ModeFloor},
		{0xE0, ModeFloor},
		{0x21, ModeLeftWall},
		{0x5F, ModeLeftWall},
		{0x60, ModeCeiling},
		{0xA0, ModeCeiling},
		{0xA1, ModeRightWall},
		{0xDF, ModeRightWall},
	}
	for _, tc := range tests {
		if got := modeForAngle(tc.angle); got != tc.want {
			t.Errorf("modeForAngle(%#02x) = %v, want %v", tc.angle, got, tc.want)
		}
	}
}

func TestCeilingToFloorTransitionNegatesGsp(t *testing.T) {
	a := New(DefaultTunables())
	a.movmode = ModeCeiling
	a.angle = 0
	a.gsp = 100

	a.updateMovMode()
	if a.movmode != ModeFloor {
		t.Fatalf("expected floor mode, got %v", a.movmode)
	}
	if a.gsp != -100 {
		t.Errorf("expected gsp negated on ceiling->floor transition, got %.1f", a.gsp)
	}
}

func TestAngleDegreesConversion(t *testing.T) {
	a := New(DefaultTunables())
	if got := a.Angle(); got != 0 {
		t.Errorf("angle 0 should map to 0 degrees, got %.2f", got)
	}
	a.angle = 0x40 // quarter turn clockwise
	if got := a.Angle(); got != 270 {
		t.Errorf("angle 0x40 should map to 270 degrees counterclockwise, got %.2f", got)
	}
}

func TestKillAppliesDeathJumpAndGravityOnly(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(0, restY)
	om := flatGroundMap()
	settle(a, om, 3)

	var events []Event
	a.Subscribe(func(_ *PhysicsActor, e Event, _ any) {
		events = append(events, e)
	})

	a.Kill()
	if a.State() != Dead {
		t.Fatalf("expected DEAD after Kill, got %v", a.State())
	}
	if len(events) != 1 || events[0] != EventKill {
		t.Fatalf("expected a single KILL event, got %v", events)
	}

	_, y0 := a.Position()
	in := InputSnapshot{Right: true}
	a.SetInput(in)
	a.Update(FixedDT, om)
	_, y1 := a.Position()

	if x, _ := a.Position(); x != 0 {
		t.Error("a dead actor must not move horizontally")
	}
	if y1 >= y0 {
		t.Error("a dead actor should first fly up with the death impulse")
	}
}

func TestResurrect(t *testing.T) {
	a := New(DefaultTunables())
	a.Kill()

	if !a.Resurrect() {
		t.Fatal("expected Resurrect to succeed on a dead actor")
	}
	if a.State() != Stopped {
		t.Errorf("expected STOPPED after resurrecting, got %v", a.State())
	}
	if a.Resurrect() {
		t.Error("Resurrect must be a no-op on a living actor")
	}
}

func TestSlopeTableFlatAndDiagonal(t *testing.T) {
	if got := slopeAngle(0, 5); got != 0 {
		t.Errorf("flat rightward slope should be angle 0, got %#02x", got)
	}
	if got := slopeAngle(0, -5); got != 0x80 {
		t.Errorf("flat leftward slope should be angle 0x80, got %#02x", got)
	}
	if got := slopeAngle(-11, 11); got != 0xE0 {
		t.Errorf("45-degree ascending slope should be 0xE0, got %#02x", got)
	}
	if got := slopeAngle(11, 11); got != 0x20 {
		t.Errorf("45-degree descending slope should be 0x20, got %#02x", got)
	}
}

func TestTrigConvention(t *testing.T) {
	// the engine's SIN is the quarter-turn-shifted cosine: SIN(a) =
	// COS(a + 0x40), which negates the mathematical sine
	if sinAngle(0) != 1*cosAngle(0x40) {
		t.Error("SIN(0) must equal COS(0x40)")
	}
	if cosAngle(0) != 1 {
		t.Error("COS(0) must be 1")
	}
	if sinAngle(0xE0) <= 0 {
		t.Error("SIN of an ascending-right slope angle must be positive in the engine convention")
	}
}
