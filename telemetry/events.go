// Package telemetry records physics-actor observer events and derived
// notable-moment "bookmarks". Observer events go to one CSV file,
// events.csv, with the header written once and later rows appended
// without headers; moments are reported through slog (see moments.go).
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/platformcore/actor"
)

// EventRecord is one row of events.csv: a single observer notification
// plus the kinematic snapshot at the moment it fired.
type EventRecord struct {
	Frame   int64   `csv:"frame"`
	Event   string  `csv:"event"`
	X       float64 `csv:"x"`
	Y       float64 `csv:"y"`
	Angle   float64 `csv:"angle_deg"`
	GSpeed  float64 `csv:"gsp"`
	State   string  `csv:"state"`
	Midair  bool    `csv:"midair"`
}

// EventLog appends one EventRecord per observed actor event to a CSV
// file, writing the header exactly once. A nil *EventLog is a valid
// no-op sink, so callers can disable logging without guarding every
// call site.
type EventLog struct {
	path          string
	file          *os.File
	headerWritten bool
	frame         int64
}

// NewEventLog creates (or truncates) dir/events.csv. Passing an empty
// dir disables logging: NewEventLog returns (nil, nil).
func NewEventLog(dir string) (*EventLog, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	path := filepath.Join(dir, "events.csv")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating events.csv: %w", err)
	}
	return &EventLog{path: path, file: f}, nil
}

// Observer returns an actor.Observer bound to this log, ready to pass to
// PhysicsActor.Subscribe. The frame counter is whatever the caller last
// set with Tick; it is not derived from the actor (the core has no
// notion of a render-frame counter of its own).
func (l *EventLog) Observer() actor.Observer {
	return func(a *actor.PhysicsActor, event actor.Event, _ any) {
		if l == nil {
			return
		}
		x, y := a.Position()
		// best-effort: a write failure degrades to a dropped row, not a
		// crashed simulation
		_ = l.write(EventRecord{
			Frame:  l.frame,
			Event:  event.String(),
			X:      x,
			Y:      y,
			Angle:  a.Angle(),
			GSpeed: a.GroundSpeed(),
			State:  a.State().String(),
			Midair: a.IsMidair(),
		})
	}
}

// Tick records the current frame number for subsequent Observer calls.
func (l *EventLog) Tick(frame int64) {
	if l == nil {
		return
	}
	l.frame = frame
}

func (l *EventLog) write(rec EventRecord) error {
	records := []EventRecord{rec}
	if !l.headerWritten {
		l.headerWritten = true
		return gocsv.Marshal(records, l.file)
	}
	return gocsv.MarshalWithoutHeaders(records, l.file)
}

// Close flushes and closes the underlying file.
func (l *EventLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
