// Package form owns the dish form state: the record being edited, its
// derived validity, and the submission workflow with its delayed reset.
package form

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/dishform/internal/dish"
	"github.com/alexanderramin/dishform/internal/storage"
)

// DefaultResetDelay is how long after a submit the form is cleared.
const DefaultResetDelay = time.Second

var (
	// ErrFormInvalid is returned by Submit when a field fails validation.
	ErrFormInvalid = errors.New("form is not valid")

	// ErrSubmitting is returned by Submit while a previous submission is
	// still waiting for its reset.
	ErrSubmitting = errors.New("submission already in progress")

	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("form controller closed")
)

// Config holds the controller collaborators. Zero values fall back to
// the stock defaults table, a one second reset, the runtime scheduler, no
// observer and the default logger.
type Config struct {
	Defaults   *dish.Defaults
	ResetDelay time.Duration
	Scheduler  Scheduler
	Observer   Observer
	Logger     *slog.Logger
}

// Controller is the dish form. All methods are safe for concurrent use;
// every mutation is applied atomically and followed by a validity
// recomputation before the lock is released.
type Controller struct {
	client     storage.Client
	defaults   dish.Defaults
	resetDelay time.Duration
	scheduler  Scheduler
	observer   Observer
	logger     *slog.Logger

	mu         sync.Mutex
	record     dish.Record
	validation dish.Validation
	submitting bool
	status     Status
	errors     [][]string
	response   []byte
	generation int
	current    *Submission
	resetTimer Timer
	cancel     context.CancelFunc
	closed     bool
}

// New creates a controller with a default record that submits through client.
func New(client storage.Client, cfg Config) *Controller {
	c := &Controller{
		client:     client,
		defaults:   dish.DefaultTable(),
		resetDelay: cfg.ResetDelay,
		scheduler:  cfg.Scheduler,
		observer:   cfg.Observer,
		logger:     cfg.Logger,
	}
	if cfg.Defaults != nil {
		c.defaults = *cfg.Defaults
	}
	if c.resetDelay <= 0 {
		c.resetDelay = DefaultResetDelay
	}
	if c.scheduler == nil {
		c.scheduler = RealScheduler{}
	}
	if c.observer == nil {
		c.observer = NoopObserver{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.record = dish.DefaultRecord()
	c.record.Attributes = c.defaults.For(dish.TypeNone)
	c.validation = dish.Validate(c.record)
	return c
}

// SetField writes a top-level field (name, preparation_time or type).
// Writes are never rejected for their content. A type change resets the
// attributes to that type's defaults before validity is recomputed.
func (c *Controller) SetField(name, raw string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	switch name {
	case dish.FieldName:
		c.record.Name = raw
	case dish.FieldPreparationTime:
		c.record.PreparationTime = raw
	case dish.FieldType:
		if raw != c.record.Type {
			c.record.Type = raw
			c.record.Attributes = c.defaults.For(c.record.DishType())
		}
	default:
		c.mu.Unlock()
		return &dish.ErrUnknownField{Field: name}
	}

	c.validation = dish.Validate(c.record)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.observer.OnChange(snap)
	return nil
}

// SetTypeAttribute writes one key of the current type's attributes.
// diameter is parsed as a decimal, every other key as an integer; input
// that does not parse is stored as NaN and shows up as invalid.
func (c *Controller) SetTypeAttribute(name, raw string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	attrs, err := c.record.Attributes.With(name, dish.ParseAttribute(name, raw))
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.record.Attributes = attrs
	c.validation = dish.Validate(c.record)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.observer.OnChange(snap)
	return nil
}

// RecomputeValidity derives the validation state from the current record,
// stores it and returns a copy.
func (c *Controller) RecomputeValidity() dish.Validation {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validation = dish.Validate(c.record)
	return append(dish.Validation(nil), c.validation...)
}

// IsFormValid reports whether every field is valid.
func (c *Controller) IsFormValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validation.AllValid()
}

// Reset restores the default record. The submission status and errors
// are left untouched.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.resetLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.observer.OnChange(snap)
}

func (c *Controller) resetLocked() {
	c.record = dish.DefaultRecord()
	c.record.Attributes = c.defaults.For(c.record.DishType())
	c.validation = dish.Validate(c.record)
	c.generation++
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Record:     c.record,
		Validation: append(dish.Validation(nil), c.validation...),
		Valid:      c.validation.AllValid(),
		Submitting: c.submitting,
		Status:     c.status,
		Errors:     copyErrors(c.errors),
		Response:   append([]byte(nil), c.response...),
		Generation: c.generation,
	}
}

// Submit starts a submission of the current record. The request runs in
// the background; the record is reset ResetDelay later whether or not the
// request has finished by then.
func (c *Controller) Submit(ctx context.Context) (*Submission, error) {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return nil, ErrClosed
	case !c.validation.AllValid():
		c.mu.Unlock()
		return nil, ErrFormInvalid
	case c.submitting:
		c.mu.Unlock()
		return nil, ErrSubmitting
	}

	c.submitting = true
	c.status = StatusSubmitting
	c.errors = nil
	c.response = nil

	sub := newSubmission(dish.NewPayload(c.record))
	c.current = sub

	resetCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.resetTimer = c.scheduler.AfterFunc(c.resetDelay, func() { c.fireReset(resetCtx) })

	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("submitting dish", slog.String("name", snap.Record.Name), slog.String("type", snap.Record.Type))
	c.observer.OnChange(snap)

	go c.send(ctx, sub)
	return sub, nil
}

// fireReset is the delayed reset. It is a no-op once token is cancelled.
func (c *Controller) fireReset(token context.Context) {
	c.mu.Lock()
	if token.Err() != nil || c.closed {
		c.mu.Unlock()
		return
	}

	c.submitting = false
	if c.status == StatusSubmitting {
		c.status = StatusIdle
	}
	c.resetTimer = nil
	c.cancel = nil
	c.resetLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("form reset after submit", slog.String("status", snap.Status.String()))
	c.observer.OnChange(snap)
}

func (c *Controller) send(ctx context.Context, sub *Submission) {
	resp, err := c.client.Submit(ctx, sub.Payload)
	outcome := outcomeFor(resp, err)
	defer sub.finish(outcome)

	c.mu.Lock()
	if c.closed || c.current != sub {
		c.mu.Unlock()
		return
	}
	c.status = outcome.Status
	c.errors = copyErrors(outcome.Errors)
	c.response = append([]byte(nil), outcome.Response...)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("dish submission failed", slog.Any("err", err))
	}
	c.observer.OnChange(snap)
}

// outcomeFor converts the network result into local state. A non-success
// status carries no detail; anything else that failed is shown as one
// error group.
func outcomeFor(resp *storage.Response, err error) Outcome {
	switch {
	case err == nil:
		out := Outcome{Status: StatusSucceeded}
		if resp != nil {
			out.Response = resp.Body
		}
		return out
	case errors.Is(err, storage.ErrUnexpectedStatus):
		return Outcome{Status: StatusFailed, Errors: [][]string{}}
	default:
		return Outcome{Status: StatusFailed, Errors: [][]string{strings.Fields(err.Error())}}
	}
}

// Close tears the controller down: the pending reset is cancelled and
// results that arrive afterwards are dropped. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}
