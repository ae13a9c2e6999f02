// Package errs collects the error kinds the render core surfaces to its
// callers.
package errs

import "fmt"

// EventInPast is returned by control.Object.AddEvent when the event's
// target_sample is strictly before the object's current sample counter.
type EventInPast struct {
	TargetSample, CurrentSample uint64
}

func (e *EventInPast) Error() string {
	return fmt.Sprintf("event target_sample %d is before current sample %d", e.TargetSample, e.CurrentSample)
}

// CyclicGraph is returned when connecting two audio nodes would create a
// cycle in the DAG.
type CyclicGraph struct {
	From, To string
}

func (e *CyclicGraph) Error() string {
	return fmt.Sprintf("connecting %q to %q would create a cycle", e.From, e.To)
}

// UnsupportedFormat is returned when a requested channel count / bit
// depth / sample rate combination cannot be encoded.
type UnsupportedFormat struct {
	Reason string
}

func (e *UnsupportedFormat) Error() string {
	return "unsupported format: " + e.Reason
}

// QueueOverflow is returned when a fixed-capacity ring buffer (sample
// metadata, anti-alias, or event queue) is pushed to while full.
type QueueOverflow struct {
	Queue string
}

func (e *QueueOverflow) Error() string {
	return "queue overflow: " + e.Queue
}
