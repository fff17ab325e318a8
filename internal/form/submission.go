package form

import (
	"context"
	"sync"

	"github.com/alexanderramin/dishform/internal/dish"
)

// Submission is the handle of one submit. Payload is what was sent;
// Outcome becomes available once Done is closed.
type Submission struct {
	Payload dish.Payload

	once    sync.Once
	done    chan struct{}
	outcome Outcome
}

func newSubmission(p dish.Payload) *Submission {
	return &Submission{Payload: p, done: make(chan struct{})}
}

func (s *Submission) finish(o Outcome) {
	s.once.Do(func() {
		s.outcome = o
		close(s.done)
	})
}

// Done is closed when the network outcome is known.
func (s *Submission) Done() <-chan struct{} { return s.done }

// Outcome returns the recorded result. Before Done is closed it is the
// zero Outcome.
func (s *Submission) Outcome() Outcome {
	select {
	case <-s.done:
		return s.outcome
	default:
		return Outcome{}
	}
}

// Wait blocks until the outcome is known or ctx ends.
func (s *Submission) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-s.done:
		return s.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
