package level

import (
	"github.com/pthm-cable/platformcore/actor"
	"github.com/pthm-cable/platformcore/collision"
)

// Session ties one actor to a brick world and runs the per-frame
// dataflow the physics core expects from its level collaborator:
// collect obstacles, feed the actor, and react to the fatal events
// (SMASH/KILL/DROWN) with a respawn flow. It also owns the level-wide
// environment values (water level, bounds) that are not part of the
// physics core itself; gravity is not among them, it comes from the
// actor's tunables.
type Session struct {
	World *World
	Actor *actor.PhysicsActor

	// environment
	WaterLevel int // y below which the actor is underwater; 0 disables
	Width      int // level bounds; the pit check reads Height only
	Height     int // 0 disables the pit check

	spawnX, spawnY float64
	respawnTimer   float64
	pendingRespawn bool

	underwaterTime float64
}

// respawnDelay is how long the death animation plays before the actor
// is returned to its spawn point.
const respawnDelay = 2.5

// breathHoldTime is how long the actor can stay underwater before it
// drowns.
const breathHoldTime = 30.0

// NewSession wires an actor into a world and subscribes the respawn
// flow to the actor's fatal events.
func NewSession(w *World, a *actor.PhysicsActor, spawnX, spawnY float64) *Session {
	s := &Session{
		World:  w,
		Actor:  a,
		spawnX: spawnX,
		spawnY: spawnY,
	}
	a.SetPosition(spawnX, spawnY)

	a.Subscribe(func(_ *actor.PhysicsActor, event actor.Event, _ any) {
		switch event {
		case actor.EventKill, actor.EventDrown:
			s.pendingRespawn = true
			s.respawnTimer = respawnDelay
		}
	})

	return s
}

// SpawnPoint returns the session's current spawn point.
func (s *Session) SpawnPoint() (x, y float64) { return s.spawnX, s.spawnY }

// SetSpawnPoint moves the respawn location, e.g. after a checkpoint.
func (s *Session) SetSpawnPoint(x, y float64) { s.spawnX, s.spawnY = x, y }

// Step runs one render frame: collects the obstacle map from the brick
// world, applies the input, updates the actor, and advances the
// water/respawn flows.
func (s *Session) Step(dt float64, in actor.InputSnapshot) *collision.ObstacleMap {
	om := s.World.CollectFrame()

	s.Actor.SetInput(in)
	s.Actor.Update(dt, om)

	s.updatePit()
	s.updateWater(dt)
	s.updateRespawn(dt)

	return om
}

// updatePit kills an actor that fell below the level bounds.
func (s *Session) updatePit() {
	if s.Height == 0 {
		return
	}

	const margin = 128
	if _, y := s.Actor.Position(); y > float64(s.Height+margin) {
		if st := s.Actor.State(); st != actor.Dead && st != actor.Drowned {
			s.Actor.Kill()
		}
	}
}

func (s *Session) updateWater(dt float64) {
	if s.WaterLevel == 0 {
		return
	}

	_, y := s.Actor.Position()
	underwater := y > float64(s.WaterLevel)

	if !underwater {
		s.underwaterTime = 0
		return
	}

	s.underwaterTime += dt
	if s.underwaterTime >= breathHoldTime && s.Actor.State() != actor.Drowned && s.Actor.State() != actor.Dead {
		s.Actor.Drown()
	}
}

func (s *Session) updateRespawn(dt float64) {
	if !s.pendingRespawn {
		return
	}

	s.respawnTimer -= dt
	if s.respawnTimer > 0 {
		return
	}

	s.pendingRespawn = false
	s.underwaterTime = 0
	s.Actor.SetPosition(s.spawnX, s.spawnY)
	s.Actor.Resurrect()
}
