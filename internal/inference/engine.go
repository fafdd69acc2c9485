package inference

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/telephonyinc/incident-forecaster/internal/model"
	"github.com/telephonyinc/incident-forecaster/internal/schema"
)

// Context bundles the three artifacts frozen at training time. It is
// immutable after construction and shared read-only by every request, so
// concurrent predictions need no locking.
type Context struct {
	Schema *schema.Schema
	Scaler *model.MinMaxScaler
	Model  *model.LinearModel
}

// NewContext validates that the three artifacts agree on feature count
// before they can serve a single prediction. A schema paired with a scaler
// or model of a different width would silently corrupt every output.
func NewContext(s *schema.Schema, scaler *model.MinMaxScaler, m *model.LinearModel) (*Context, error) {
	if s == nil || scaler == nil || m == nil {
		return nil, fmt.Errorf("inference context requires schema, scaler and model")
	}
	if len(scaler.Min) != s.Len() {
		return nil, fmt.Errorf("scaler fitted on %d features, schema has %d columns", len(scaler.Min), s.Len())
	}
	if m.Features() != s.Len() {
		return nil, fmt.Errorf("model trained on %d features, schema has %d columns", m.Features(), s.Len())
	}
	if m.Outputs() != len(schema.Priorities) {
		return nil, fmt.Errorf("model emits %d outputs, want %d", m.Outputs(), len(schema.Priorities))
	}
	return &Context{Schema: s, Scaler: scaler, Model: m}, nil
}

// PredictorError wraps a failure inside the predict call itself, after input
// validation passed. It surfaces as a server error, never a client one.
type PredictorError struct {
	Err error
}

func (e *PredictorError) Error() string {
	return fmt.Sprintf("predictor failed: %v", e.Err)
}

func (e *PredictorError) Unwrap() error {
	return e.Err
}

// Engine serves predictions against the current inference context. The
// context sits behind an atomic pointer so a reload swaps schema, scaler and
// model as one unit; readers never observe a half-updated pair.
type Engine struct {
	ctx atomic.Pointer[Context]
}

// NewEngine creates an engine serving the given context.
func NewEngine(ctx *Context) *Engine {
	e := &Engine{}
	e.ctx.Store(ctx)
	return e
}

// Current returns the context the engine is serving right now.
func (e *Engine) Current() *Context {
	return e.ctx.Load()
}

// Swap atomically replaces the serving context. In-flight predictions finish
// against the context they started with.
func (e *Engine) Swap(ctx *Context) {
	e.ctx.Store(ctx)
}

// Predict runs the full pipeline for one request: align the date and
// assignment group against the frozen schema, apply the frozen scaling,
// invoke the model, and normalize the raw output into a distribution.
//
// Alignment failures (unknown assignment group) pass through unwrapped so
// the boundary can surface them as client errors; anything that fails after
// validation is a PredictorError.
func (e *Engine) Predict(date time.Time, group string) (Distribution, error) {
	ctx := e.ctx.Load()

	vec, err := ctx.Schema.Align(date, group)
	if err != nil {
		return nil, err
	}

	scaled, err := ctx.Scaler.Transform(vec)
	if err != nil {
		return nil, &PredictorError{Err: err}
	}

	raw, err := ctx.Model.Predict(scaled)
	if err != nil {
		return nil, &PredictorError{Err: err}
	}

	return Normalize(raw), nil
}
