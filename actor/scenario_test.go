package actor

import (
	"testing"

	"github.com/pthm-cable/platformcore/collision"
	"github.com/pthm-cable/platformcore/mask"
)

// These tests exercise whole flows of the fixed-step simulation against
// real masks and obstacle maps, the way a level would drive the actor.

func TestScenarioFreeFallNeutralInput(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(100, 0)
	om := collision.NewObstacleMap()
	ground := mask.NewBox(400, 64)
	om.Add(collision.NewObstacle(ground, collision.Point{X: 0, Y: groundTop}, collision.LayerDefault, 0))

	for i := 0; i < 120; i++ { // 2 s
		a.SetInput(InputSnapshot{})
		a.Update(FixedDT, om)
	}

	if a.IsMidair() {
		t.Fatal("actor should be grounded after falling onto the platform")
	}
	_, y := a.Position()
	if y != restY {
		t.Errorf("expected rest position y=%d, got %.2f", restY, y)
	}
	if _, ysp := a.Speed(); ysp != 0 {
		t.Errorf("ysp should be 0 at rest, got %.2f", ysp)
	}
	if a.Angle() != 0 {
		t.Errorf("angle should be 0 on flat ground, got %.2f", a.Angle())
	}
	if a.MovMode() != ModeFloor {
		t.Errorf("movmode should be FLOOR, got %v", a.MovMode())
	}
	if a.State() != Stopped && a.State() != Waiting {
		t.Errorf("expected STOPPED or WAITING at rest, got %v", a.State())
	}
}

func TestScenarioJumpRisesAndLands(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(100, restY)
	om := flatGroundMap()
	settle(a, om, 5)

	var events []Event
	a.Subscribe(func(_ *PhysicsActor, e Event, _ any) { events = append(events, e) })

	var in InputSnapshot
	in.SimulatePress()
	a.SetInput(in)
	a.Update(FixedDT, om)

	if a.State() != Jumping {
		t.Fatalf("expected JUMPING, got %v", a.State())
	}
	if _, ysp := a.Speed(); absf(ysp-a.tunables.Jmp) > 0.5+a.tunables.Grv*FixedDT {
		t.Errorf("jump ysp should be about jmp=%.0f, got %.2f", a.tunables.Jmp, ysp)
	}
	if len(events) != 1 || events[0] != EventJump {
		t.Fatalf("expected a single JUMP event, got %v", events)
	}

	in.SimulateRelease()

	// after ~0.4 s the actor is past the apex
	for i := 0; i < 24; i++ {
		a.SetInput(in)
		a.Update(FixedDT, om)
	}
	if _, ysp := a.Speed(); ysp <= 0 {
		t.Errorf("expected downward motion past the apex, got ysp=%.2f", ysp)
	}

	// and eventually lands with zeroed speeds
	for i := 0; i < 300 && a.IsMidair(); i++ {
		a.SetInput(in)
		a.Update(FixedDT, om)
	}
	if a.IsMidair() {
		t.Fatal("actor never landed after the jump")
	}
	if _, ysp := a.Speed(); ysp != 0 {
		t.Errorf("ysp should be zeroed on landing, got %.2f", ysp)
	}
	switch a.State() {
	case Stopped, Walking, Running, Waiting:
	default:
		t.Errorf("unexpected post-landing state %v", a.State())
	}
}

func TestScenarioJumpReleaseClampsYsp(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(100, restY)
	om := flatGroundMap()
	settle(a, om, 5)

	var in InputSnapshot
	in.SimulatePress()
	a.SetInput(in)
	a.Update(FixedDT, om)

	// release immediately: ysp is clamped to jmprel
	in.SimulateRelease()
	a.SetInput(in)
	a.Update(FixedDT, om)

	if _, ysp := a.Speed(); ysp < a.tunables.JmpRel {
		t.Errorf("expected ysp clamped to jmprel=%.0f after early release, got %.2f", a.tunables.JmpRel, ysp)
	}
}

// rampMap builds flat ground with a 45-degree ramp ascending to the
// right, carved from a pixel mask.
func rampMap(t *testing.T) *collision.ObstacleMap {
	t.Helper()
	const w, h = 256, 256
	raw := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y >= h-x { // ascending-right triangle
				raw[y*w+x] = 1
			}
		}
	}
	ramp := mask.New(w, h, raw)

	om := collision.NewObstacleMap()
	ground := mask.NewBox(2000, 64)
	om.Add(collision.NewObstacle(ground, collision.Point{X: -1000, Y: groundTop}, collision.LayerDefault, 0))
	// ramp foot meets the ground surface at x=400
	om.Add(collision.NewObstacle(ramp, collision.Point{X: 400, Y: groundTop - 256}, collision.LayerDefault, 0))
	return om
}

func TestScenarioRunningOntoSlope(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(200, restY)
	om := rampMap(t)
	settle(a, om, 5)
	a.SetGroundSpeed(6 * 60)

	in := InputSnapshot{Right: true}
	sawSlope := false
	for i := 0; i < 60; i++ { // 1 s
		a.SetInput(in)
		a.Update(FixedDT, om)

		if a.IsMidair() {
			t.Fatalf("actor must stay grounded while climbing the ramp (step %d)", i)
		}
		if a.MovMode() != ModeFloor {
			t.Fatalf("movmode must remain FLOOR on a 45-degree ramp, got %v (step %d)", a.MovMode(), i)
		}
		if x, _ := a.Position(); x > 420 {
			if deg := a.Angle(); deg >= 20 && deg <= 70 {
				sawSlope = true
			}
		}
	}

	if !sawSlope {
		t.Error("expected the angle to enter the ascending band while on the ramp")
	}
	if a.GroundSpeed() >= 6*60 {
		t.Error("expected the slope factor to bleed off ground speed while climbing")
	}
}

func TestScenarioCeilingBumpNoReattach(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(100, restY)

	om := flatGroundMap()
	ceiling := mask.NewBox(400, 32)
	ceilingBottom := restY - 52 // low, flat ceiling above the actor
	om.Add(collision.NewObstacle(ceiling, collision.Point{X: -100, Y: ceilingBottom - 31}, collision.LayerDefault, 0))

	settle(a, om, 5)

	killed := false
	a.Subscribe(func(_ *PhysicsActor, e Event, _ any) {
		if e == EventKill {
			killed = true
		}
	})

	var in InputSnapshot
	in.SimulatePress()
	a.SetInput(in)
	a.Update(FixedDT, om)
	// keep the button held, but only pressed on the first step, so the
	// actor does not jump again when it lands
	in.Fire1Pressed = false

	// without the ceiling the jump apex would be ~96 px above the rest
	// position; the bump must stop the rise well short of that, clamp
	// ysp to >= 0 at the moment of impact, and never flip into ceiling
	// mode
	minY := float64(restY)
	for i := 0; i < 60; i++ {
		a.SetInput(in)
		a.Update(FixedDT, om)
		if _, y := a.Position(); y < minY {
			minY = y
		}
		if a.MovMode() == ModeCeiling {
			t.Fatal("a flat ceiling must not reattach the actor")
		}
	}

	if minY <= float64(restY)-60 {
		t.Errorf("the bump should have stopped the rise near the ceiling, apex %.1f", minY)
	}
	if minY >= float64(restY)-30 {
		t.Errorf("the actor never got near the ceiling, apex %.1f", minY)
	}
	if killed {
		t.Error("a plain ceiling bump must not kill the actor")
	}
	if a.IsMidair() {
		t.Error("the actor should have fallen back onto the ground")
	}
}

func TestScenarioCrushEmitsSmashThenKill(t *testing.T) {
	a := New(DefaultTunables())
	om := collision.NewObstacleMap()

	floor := mask.NewBox(400, 32)
	om.Add(collision.NewObstacle(floor, collision.Point{X: -200, Y: groundTop}, collision.LayerDefault, 0))

	a.SetPosition(0, restY)
	settle(a, om, 3)

	var events []Event
	a.Subscribe(func(_ *PhysicsActor, e Event, _ any) { events = append(events, e) })

	// a solid is placed over the actor so that every sensor overlaps it
	crusher := mask.NewBox(400, 64)
	om.Add(collision.NewObstacle(crusher, collision.Point{X: -200, Y: restY - 43}, collision.LayerDefault, collision.FlagNonStatic))

	a.SetInput(InputSnapshot{})
	a.Update(FixedDT, om)

	if len(events) < 2 || events[0] != EventSmash || events[1] != EventKill {
		t.Fatalf("expected SMASH then KILL, got %v", events)
	}
	if a.State() != Dead {
		t.Fatalf("expected DEAD after the crush, got %v", a.State())
	}

	// subsequent steps only apply gravity
	x0, _ := a.Position()
	in := InputSnapshot{Left: true}
	for i := 0; i < 10; i++ {
		a.SetInput(in)
		a.Update(FixedDT, om)
	}
	if x1, _ := a.Position(); x1 != x0 {
		t.Error("a dead actor must ignore input and keep its x position")
	}
}

func TestScenarioWaitTimer(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(100, restY)
	om := flatGroundMap()

	for i := 0; i < 4*60; i++ {
		a.SetInput(InputSnapshot{})
		a.Update(FixedDT, om)
	}
	if a.State() != Waiting {
		t.Errorf("expected WAITING after standing idle past the wait time, got %v", a.State())
	}
}

func TestScenarioDuckAndLookUp(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(100, restY)
	om := flatGroundMap()
	settle(a, om, 5)

	a.SetInput(InputSnapshot{Down: true})
	a.Update(FixedDT, om)
	if a.State() != Ducking {
		t.Errorf("expected DUCKING with down held at rest, got %v", a.State())
	}

	a.SetInput(InputSnapshot{Up: true})
	a.Update(FixedDT, om)
	if a.State() != LookingUp {
		t.Errorf("expected LOOKINGUP with up held at rest, got %v", a.State())
	}

	// releasing up ends the pose; a movement input then accelerates
	a.SetInput(InputSnapshot{})
	a.Update(FixedDT, om)
	if a.State() != Stopped {
		t.Errorf("expected releasing up to end the pose, got %v", a.State())
	}

	for i := 0; i < 10; i++ {
		a.SetInput(InputSnapshot{Right: true})
		a.Update(FixedDT, om)
	}
	if a.GroundSpeed() <= 0 {
		t.Error("expected walking input to break out of the pose and accelerate")
	}
}

func TestScenarioChargeAndRelease(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(100, restY)
	om := flatGroundMap()
	settle(a, om, 5)

	var events []Event
	a.Subscribe(func(_ *PhysicsActor, e Event, _ any) { events = append(events, e) })

	// duck first
	a.SetInput(InputSnapshot{Down: true})
	a.Update(FixedDT, om)
	if a.State() != Ducking {
		t.Fatalf("expected DUCKING, got %v", a.State())
	}

	// begin charging: down held + jump pressed
	in := InputSnapshot{Down: true, Fire1: true, Fire1Pressed: true}
	a.SetInput(in)
	a.Update(FixedDT, om)
	if a.State() != Charging {
		t.Fatalf("expected CHARGING, got %v", a.State())
	}

	// rev it up
	a.SetInput(in)
	a.Update(FixedDT, om)
	if a.ChargeIntensity() <= 0 {
		t.Error("expected charge intensity to build on repeated presses")
	}

	// release by letting go of down
	a.SetInput(InputSnapshot{})
	a.Update(FixedDT, om)
	if a.State() != Rolling {
		t.Fatalf("expected ROLLING after the release, got %v", a.State())
	}
	if a.GroundSpeed() <= 0 {
		t.Error("expected a forward launch after releasing the charge")
	}

	got := map[Event]bool{}
	for _, e := range events {
		got[e] = true
	}
	for _, e := range []Event{EventCharge, EventRecharge, EventRelease} {
		if !got[e] {
			t.Errorf("missing %v in observed events %v", e, events)
		}
	}
}

func TestScenarioRollFromRun(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(-500, restY)
	om := flatGroundMap()
	settle(a, om, 5)

	// run right until past the roll threshold
	in := InputSnapshot{Right: true}
	for i := 0; i < 120 && absf(a.GroundSpeed()) < a.tunables.RollThreshold+10; i++ {
		a.SetInput(in)
		a.Update(FixedDT, om)
	}

	rolled := false
	a.Subscribe(func(_ *PhysicsActor, e Event, _ any) {
		if e == EventRoll {
			rolled = true
		}
	})

	a.SetInput(InputSnapshot{Right: true, Down: true})
	a.Update(FixedDT, om)

	if a.State() != Rolling {
		t.Fatalf("expected ROLLING after pressing down at speed, got %v", a.State())
	}
	if !rolled {
		t.Error("expected a ROLL event")
	}
}

func TestScenarioSpeedStaysWithinHardCap(t *testing.T) {
	a := New(DefaultTunables())
	a.SetPosition(-900, restY)
	om := flatGroundMap()
	settle(a, om, 5)
	a.SetGroundSpeed(HardCapSpeed * 2)

	a.SetInput(InputSnapshot{Right: true})
	a.Update(FixedDT, om)

	if absf(a.GroundSpeed()) > HardCapSpeed {
		t.Errorf("gsp must be hard-capped at %.0f, got %.0f", HardCapSpeed, a.GroundSpeed())
	}
}

func TestScenarioCloudPlatformFromBelow(t *testing.T) {
	a := New(DefaultTunables())
	om := collision.NewObstacleMap()

	ground := mask.NewBox(2000, 64)
	om.Add(collision.NewObstacle(ground, collision.Point{X: -1000, Y: groundTop}, collision.LayerDefault, 0))

	// one-way platform 70 px above the ground surface
	cloud := mask.NewBox(200, 16)
	cloudTop := groundTop - 70
	om.Add(collision.NewObstacle(cloud, collision.Point{X: -100, Y: cloudTop}, collision.LayerDefault, collision.FlagCloud))

	a.SetPosition(0, restY)
	settle(a, om, 5)

	// jumping up through the cloud, with jump held, must not bump the head
	var in InputSnapshot
	in.SimulatePress()
	a.SetInput(in)
	a.Update(FixedDT, om)
	in.Fire1Pressed = false

	minY := restY + 0.0
	for i := 0; i < 300; i++ {
		a.SetInput(in)
		a.Update(FixedDT, om)
		if _, y := a.Position(); y < minY {
			minY = y
		}
		if !a.IsMidair() && i > 5 {
			break
		}
	}

	if a.IsMidair() {
		t.Fatal("actor never landed")
	}
	if minY >= float64(restY)-40 {
		t.Errorf("actor should have risen through the cloud, apex %.1f", minY)
	}
	if _, y := a.Position(); y > float64(restY)-40 {
		t.Errorf("actor should have landed on top of the cloud, got y=%.1f", y)
	}
}
