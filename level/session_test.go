package level

import (
	"testing"

	"github.com/pthm-cable/platformcore/actor"
	"github.com/pthm-cable/platformcore/collision"
	"github.com/pthm-cable/platformcore/mask"
)

func testSession() *Session {
	w := NewWorld()
	ground := mask.NewBox(2000, 64)
	w.AddBrick(-1000, 200, Brick{Mask: ground, Layer: collision.LayerDefault})

	a := actor.New(actor.DefaultTunables())
	return NewSession(w, a, 0, 180)
}

func TestSessionStepGroundsActor(t *testing.T) {
	s := testSession()

	for i := 0; i < 30; i++ {
		s.Step(actor.FixedDT, actor.InputSnapshot{})
	}

	if s.Actor.IsMidair() {
		t.Fatal("actor should be standing on the session's ground brick")
	}
}

func TestSessionRespawnsAfterKill(t *testing.T) {
	s := testSession()
	for i := 0; i < 30; i++ {
		s.Step(actor.FixedDT, actor.InputSnapshot{})
	}

	s.Actor.Kill()
	if s.Actor.State() != actor.Dead {
		t.Fatalf("expected DEAD, got %v", s.Actor.State())
	}

	// death animation plays out, then the actor returns to the spawn
	// point alive
	for i := 0; i < 4*60; i++ {
		s.Step(actor.FixedDT, actor.InputSnapshot{})
	}

	if s.Actor.State() == actor.Dead {
		t.Fatal("actor should have respawned after the death delay")
	}
	x, _ := s.Actor.Position()
	sx, _ := s.SpawnPoint()
	if x != sx {
		t.Errorf("actor should respawn at the spawn point, got x=%.1f want %.1f", x, sx)
	}
}

func TestSessionPitKillsActor(t *testing.T) {
	w := NewWorld() // no ground at all
	a := actor.New(actor.DefaultTunables())
	s := NewSession(w, a, 0, 0)
	s.Height = 500

	killed := false
	a.Subscribe(func(_ *actor.PhysicsActor, e actor.Event, _ any) {
		if e == actor.EventKill {
			killed = true
		}
	})

	for i := 0; i < 5*60 && !killed; i++ {
		s.Step(actor.FixedDT, actor.InputSnapshot{})
	}

	if !killed {
		t.Fatal("falling past the level bounds should kill the actor")
	}
}

func TestSessionCheckpointMovesSpawn(t *testing.T) {
	s := testSession()
	s.SetSpawnPoint(500, 180)

	s.Actor.Kill()
	for i := 0; i < 4*60; i++ {
		s.Step(actor.FixedDT, actor.InputSnapshot{})
	}

	x, _ := s.Actor.Position()
	if x != 500 {
		t.Errorf("actor should respawn at the checkpoint, got x=%.1f", x)
	}
}
