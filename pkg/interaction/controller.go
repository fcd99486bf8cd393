package interaction

import (
	"context"
	"errors"
	"fmt"

	"marketing-insights-be/internal/pkg/logger"
)

const logModule = "Interaction"

type Outcome string

const (
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
	OutcomeStored  Outcome = "stored"
)

// Result is what one Submit pass produced. It is returned, never raised.
type Result struct {
	Action  string   `json:"action"`
	Outcome Outcome  `json:"outcome"`
	Notice  *Notice  `json:"notice,omitempty"`
	Written []string `json:"written,omitempty"`
	Err     error    `json:"-"`
}

func (r Result) Stored() bool {
	return r.Outcome == OutcomeStored
}

// Action describes one form of a page.
//
// Validate returns a notice when the input cannot be submitted. Call is the single
// external collaborator call. Store stages the Result Record into the batch; it may
// be nil when the action writes nothing into the session.
type Action[I, R any] struct {
	Name          string
	Validate      func(in I) *Notice
	Call          func(ctx context.Context, in I) (R, error)
	Store         func(b *Batch, in I, out R) error
	FailureNotice string
	SuccessNotice func(in I, out R) *Notice
}

type Controller struct {
	logger logger.ILogger
}

func NewController(log logger.ILogger) *Controller {
	return &Controller{logger: log}
}

var errNoCall = errors.New("action has no collaborator call")

// Submit runs one validated call and commits its writes into sess atomically.
// On failure sess is left exactly as it was.
func Submit[I, R any](ctx context.Context, c *Controller, sess Store, a Action[I, R], in I) Result {
	res := Result{Action: a.Name}

	if a.Validate != nil {
		if notice := a.Validate(in); notice != nil {
			c.logger.Info(logModule, "Submit rejected by validation", map[string]interface{}{
				"action": a.Name,
				"reason": notice.Message,
			})
			res.Outcome = OutcomeInvalid
			res.Notice = notice
			return res
		}
	}

	c.logger.Debug(logModule, "Submit pending", map[string]interface{}{"action": a.Name})

	out, err := call(ctx, a, in)
	if err == nil && a.Store != nil {
		batch := NewBatch()
		if storeErr := a.Store(batch, in, out); storeErr != nil {
			err = fmt.Errorf("stage result: %w", storeErr)
		} else {
			transitions := make(map[string]interface{}, batch.Len())
			for _, k := range batch.Keys() {
				prior := StateAbsent
				if _, ok := sess.Raw(k); ok {
					prior = StatePresent
				}
				transitions[k] = prior.String() + "->" + StatePresent.String()
			}
			batch.commit(sess)
			res.Written = batch.Keys()
			c.logger.Debug(logModule, "Submit stored", map[string]interface{}{
				"action":      a.Name,
				"transitions": transitions,
			})
		}
	}

	if err != nil {
		c.logger.Warn(logModule, "Submit failed, keeping previous state", map[string]interface{}{
			"action": a.Name,
			"error":  err.Error(),
		})
		res.Outcome = OutcomeFailed
		res.Err = err
		res.Notice = Info(a.FailureNotice)
		return res
	}

	res.Outcome = OutcomeStored
	if a.SuccessNotice != nil {
		res.Notice = a.SuccessNotice(in, out)
	}
	return res
}

func call[I, R any](ctx context.Context, a Action[I, R], in I) (out R, err error) {
	if a.Call == nil {
		return out, errNoCall
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return a.Call(ctx, in)
}
