package main

import (
	"github.com/pthm-cable/platformcore/actor"
	"github.com/pthm-cable/platformcore/collision"
	"github.com/pthm-cable/platformcore/mask"
)

// Targets are the designer-specified values a candidate tunable set is
// scored against.
type Targets struct {
	JumpApexHeight   float64 // pixels risen above the takeoff point
	TimeToTopSpeed   float64 // seconds, flat ground, full right-hold
	SpeedAfterOneSec float64 // ground speed after 1s flat-ground acceleration
}

// DefaultTargets mirrors a "default" character's behavior under the
// stock tunables, giving the optimizer something sane to converge back
// toward when multipliers are near 1.0.
func DefaultTargets() Targets {
	t := actor.DefaultTunables()
	speedAfterOneSec := t.Acc * 1.0 // one second of constant acceleration
	if speedAfterOneSec > t.TopSpeed {
		speedAfterOneSec = t.TopSpeed
	}
	return Targets{
		JumpApexHeight:   (t.Jmp * t.Jmp) / (2 * t.Grv),
		TimeToTopSpeed:   t.TopSpeed / t.Acc,
		SpeedAfterOneSec: speedAfterOneSec,
	}
}

// FitnessEvaluator scores a multiplier vector by headless-replaying the
// scenario suite and summing squared relative error against Targets.
type FitnessEvaluator struct {
	base    actor.Tunables
	targets Targets
}

// NewFitnessEvaluator builds an evaluator seeded from the stock
// tunables and the given targets.
func NewFitnessEvaluator(targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{base: actor.DefaultTunables(), targets: targets}
}

// Evaluate runs both scenarios under the given multipliers and returns a
// non-negative fitness (lower is better, as gonum/optimize minimizes).
func (f *FitnessEvaluator) Evaluate(accMul, topSpeedMul, jmpMul, grvMul float64) float64 {
	t := f.base
	t.Acc *= accMul
	t.TopSpeed *= topSpeedMul
	t.Jmp *= jmpMul
	t.Grv *= grvMul

	apex := simulateJumpApex(t)
	speed1s, timeToTop := simulateFlatGroundRun(t)

	errApex := relErr(apex, f.targets.JumpApexHeight)
	errTime := relErr(timeToTop, f.targets.TimeToTopSpeed)
	errSpeed := relErr(speed1s, f.targets.SpeedAfterOneSec)

	return errApex*errApex + errTime*errTime + errSpeed*errSpeed
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return got
	}
	return (got - want) / want
}

// flatGround builds a single wide, tall solid box the actor can stand
// and run on, far from its edges so neither boundary affects a 2s run.
func flatGround() *collision.ObstacleMap {
	om := collision.NewObstacleMap()
	ground := mask.NewBox(4000, 64)
	om.Add(collision.NewObstacle(ground, collision.Point{X: -2000, Y: 200}, collision.LayerDefault, 0))
	return om
}

// settle drops the actor onto the ground and lets it come to rest so a
// scenario starts from a grounded, zero-speed state.
func settle(a *actor.PhysicsActor, om *collision.ObstacleMap) {
	for i := 0; i < 30; i++ {
		a.SetInput(actor.InputSnapshot{})
		a.Update(actor.FixedDT, om)
	}
}

// simulateJumpApex starts the actor standing still, presses jump for
// one step, releases it, and tracks the highest point reached before it
// starts falling again (ysp crosses from negative to non-negative).
func simulateJumpApex(t actor.Tunables) float64 {
	a := actor.New(t)
	om := flatGround()
	a.SetPosition(0, 180)
	settle(a, om)

	startY, _ := a.Position()
	apex := startY

	in := actor.InputSnapshot{}
	in.SimulatePress()
	a.SetInput(in)
	a.Update(actor.FixedDT, om)

	in.SimulateRelease()
	_, prevYsp := a.Speed()

	for i := 0; i < 300; i++ {
		a.SetInput(in)
		a.Update(actor.FixedDT, om)
		_, y := a.Position()
		if y < apex {
			apex = y
		}
		_, ysp := a.Speed()
		if prevYsp < 0 && ysp >= 0 {
			break
		}
		prevYsp = ysp
	}

	return startY - apex
}

// simulateFlatGroundRun holds right for up to 2s on flat ground and
// returns (speed after 1s, time to reach top speed).
func simulateFlatGroundRun(t actor.Tunables) (speedAfter1s, timeToTop float64) {
	a := actor.New(t)
	om := flatGround()
	a.SetPosition(0, 180)
	settle(a, om)

	in := actor.InputSnapshot{Right: true}
	reachedTop := false
	timeToTop = 2.0

	const steps = 120
	for i := 0; i < steps; i++ {
		a.SetInput(in)
		a.Update(actor.FixedDT, om)

		elapsed := float64(i+1) * actor.FixedDT
		if i == 59 { // 1 second in
			speedAfter1s = a.GroundSpeed()
		}
		if !reachedTop && a.GroundSpeed() >= t.TopSpeed-1 {
			reachedTop = true
			timeToTop = elapsed
		}
	}

	return speedAfter1s, timeToTop
}
