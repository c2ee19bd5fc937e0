package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/platformcore/actor"
)

// MomentKind identifies the kind of notable physics milestone detected.
type MomentKind string

const (
	MomentSpeedRecord     MomentKind = "speed_record"
	MomentLoopCompleted   MomentKind = "loop_completed"
	MomentLongAirtime     MomentKind = "long_airtime"
	MomentCrush           MomentKind = "crush"
)

// Moment is one automatically-detected milestone: a typed, timestamped,
// human-readable record meant for a highlight reel rather than
// per-frame analysis.
type Moment struct {
	Kind        MomentKind
	Frame       int64
	Description string
}

// Log writes the moment via slog, mirroring Bookmark.LogBookmark.
func (m Moment) Log() {
	slog.Info("moment",
		"kind", string(m.Kind),
		"frame", m.Frame,
		"description", m.Description,
	)
}

// MomentDetector watches a stream of per-frame actor samples and reports
// notable milestones: new top-speed records, completed movement-mode
// loops (FLOOR->RIGHTWALL->CEILING->LEFTWALL->FLOOR), airtimes past a
// threshold, and crush (SMASH) events. Small rolling state, cheap
// enough to run every frame.
type MomentDetector struct {
	bestGSpeed float64

	loopStage int // 0=not tracking, 1..3 intermediate stages
	inLoop    bool

	airFrames        int64
	longAirThreshold int64
}

// NewMomentDetector returns a detector with the given long-airtime
// threshold in frames (e.g. 120 for two seconds at 60Hz).
func NewMomentDetector(longAirThresholdFrames int64) *MomentDetector {
	if longAirThresholdFrames <= 0 {
		longAirThresholdFrames = 120
	}
	return &MomentDetector{longAirThreshold: longAirThresholdFrames}
}

// Check inspects the actor's state after one fixed step and returns any
// moments triggered this frame.
func (d *MomentDetector) Check(frame int64, a *actor.PhysicsActor) []Moment {
	var out []Moment

	if m, ok := d.checkSpeedRecord(frame, a); ok {
		out = append(out, m)
	}
	if m, ok := d.checkLoop(frame, a); ok {
		out = append(out, m)
	}
	if m, ok := d.checkAirtime(frame, a); ok {
		out = append(out, m)
	}

	return out
}

// NoteEvent lets a caller feed observer events (e.g. EventSmash) into the
// detector directly, since a crush is reported as a one-shot event
// rather than a derivable per-frame condition.
func (d *MomentDetector) NoteEvent(frame int64, event actor.Event) []Moment {
	if event != actor.EventSmash {
		return nil
	}
	return []Moment{{Kind: MomentCrush, Frame: frame, Description: "actor crushed between obstacles"}}
}

func (d *MomentDetector) checkSpeedRecord(frame int64, a *actor.PhysicsActor) (Moment, bool) {
	speed := a.GroundSpeed()
	if speed < 0 {
		speed = -speed
	}
	if speed <= d.bestGSpeed {
		return Moment{}, false
	}
	d.bestGSpeed = speed
	return Moment{
		Kind:        MomentSpeedRecord,
		Frame:       frame,
		Description: "new ground-speed record",
	}, true
}

// checkLoop tracks movement-mode progress around a full loop: entering
// RIGHTWALL (from any mode) starts tracking, and cycling through CEILING
// and LEFTWALL back to FLOOR completes it. Tracking is not reset when the
// actor leaves the loop partway.
func (d *MomentDetector) checkLoop(frame int64, a *actor.PhysicsActor) (Moment, bool) {
	mm := a.MovMode()

	if !d.inLoop {
		if mm == actor.ModeRightWall {
			d.inLoop = true
			d.loopStage = 1
		}
		return Moment{}, false
	}

	switch d.loopStage {
	case 1:
		if mm == actor.ModeCeiling {
			d.loopStage = 2
		}
	case 2:
		if mm == actor.ModeLeftWall {
			d.loopStage = 3
		}
	case 3:
		if mm == actor.ModeFloor {
			d.inLoop = false
			d.loopStage = 0
			return Moment{
				Kind:        MomentLoopCompleted,
				Frame:       frame,
				Description: "completed a full loop",
			}, true
		}
	}
	return Moment{}, false
}

func (d *MomentDetector) checkAirtime(frame int64, a *actor.PhysicsActor) (Moment, bool) {
	if a.IsMidair() {
		d.airFrames++
		if d.airFrames == d.longAirThreshold {
			return Moment{
				Kind:        MomentLongAirtime,
				Frame:       frame,
				Description: "extended airtime",
			}, true
		}
		return Moment{}, false
	}
	d.airFrames = 0
	return Moment{}, false
}
