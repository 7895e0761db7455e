package store

import (
	"context"

	"github.com/2beens/blogfront/internal/telemetry/tracing"
	log "github.com/sirupsen/logrus"
)

const (
	OutcomeFulfilled = "fulfilled"
	OutcomeRejected  = "rejected"
)

// Kind selects which flags of the slice an action drives.
type Kind int

const (
	// KindFetch drives loading/error
	KindFetch Kind = iota
	// KindAdd drives adding/addError
	KindAdd
)

type Action struct {
	// Type is the action name, e.g. blogs/authorGetAllBlogs
	Type string
	Kind Kind
	// Fallback is shown when the failure carries no message.
	Fallback string
}

type ActionRecorder interface {
	RecordAction(action, outcome string)
}

type Dispatcher struct {
	recorder ActionRecorder
}

func NewDispatcher(recorder ActionRecorder) *Dispatcher {
	return &Dispatcher{recorder: recorder}
}

func (d *Dispatcher) record(action, outcome string) {
	if d == nil || d.recorder == nil {
		return
	}
	d.recorder.RecordAction(action, outcome)
}

// Dispatch runs request through the pending -> fulfilled | rejected lifecycle of slice.
// The lock is not held while request runs; reduce only ever sees fulfilled payloads.
func Dispatch[T, P any](
	ctx context.Context,
	d *Dispatcher,
	slice *Slice[T],
	action Action,
	request func(ctx context.Context) (P, error),
	reduce func(st *State[T], payload P),
) (P, error) {
	slice.Update(func(st *State[T]) {
		if action.Kind == KindAdd {
			st.Adding = true
			st.AddError = ""
		} else {
			st.Loading = true
			st.Error = ""
		}
	})

	log.Tracef("[%s] pending", action.Type)
	ctx, span := tracing.StartAction(ctx, action.Type)
	payload, err := request(ctx)
	tracing.EndSpan(span, err)
	if err != nil {
		message := Message(err, action)
		slice.Update(func(st *State[T]) {
			if action.Kind == KindAdd {
				st.Adding = false
				st.AddError = message
			} else {
				st.Loading = false
				st.Error = message
			}
		})
		log.Warnf("[%s] rejected: %s", action.Type, message)
		d.record(action.Type, OutcomeRejected)
		return payload, err
	}

	slice.Update(func(st *State[T]) {
		if action.Kind == KindAdd {
			st.Adding = false
		} else {
			st.Loading = false
		}
		if reduce != nil {
			reduce(st, payload)
		}
	})
	log.Tracef("[%s] fulfilled", action.Type)
	d.record(action.Type, OutcomeFulfilled)

	return payload, nil
}

// Message returns the user facing message of a rejected action.
func Message(err error, action Action) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return action.Fallback
}
