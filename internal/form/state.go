package form

import (
	"encoding/json"

	"github.com/alexanderramin/dishform/internal/dish"
)

// Status is the lifecycle of the outbound request.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one submission as recorded by the network side.
type Outcome struct {
	Status Status
	// Errors are the error-message groups shown under the failure banner.
	// Each group is an ordered list of tokens. Empty for status failures.
	Errors   [][]string
	Response json.RawMessage
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Record     dish.Record
	Validation dish.Validation
	Valid      bool

	// Submitting is true from Submit until the delayed reset fires.
	Submitting bool
	Status     Status
	Errors     [][]string
	Response   json.RawMessage

	// Generation increments every time the record is reset.
	Generation int
}

// HasErrors reports whether there are error groups to list.
func (s Snapshot) HasErrors() bool {
	return len(s.Errors) > 0
}

// Failed reports whether the failure banner should be shown.
func (s Snapshot) Failed() bool {
	return s.Status == StatusFailed
}

// Observer is notified after every state change.
type Observer interface {
	OnChange(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnChange(s Snapshot) { f(s) }

// NoopObserver discards all changes.
type NoopObserver struct{}

func (NoopObserver) OnChange(Snapshot) {}

func copyErrors(errs [][]string) [][]string {
	if errs == nil {
		return nil
	}
	out := make([][]string, len(errs))
	for i, group := range errs {
		out[i] = append([]string(nil), group...)
	}
	return out
}
