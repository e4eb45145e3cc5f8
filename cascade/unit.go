package cascade

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/cascade/errors"
	"github.com/kbukum/cascade/logger"
	"github.com/kbukum/cascade/observability"
	"github.com/kbukum/cascade/util"
)

// unitKind tags a unit of work.
type unitKind int

const (
	unitLocal unitKind = iota
	unitRemote
	unitWarning
)

func (k unitKind) String() string {
	switch k {
	case unitLocal:
		return "local"
	case unitRemote:
		return "remote"
	case unitWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// unit is one piece of work in a run.
type unit struct {
	kind unitKind
	key  string
	// host is the configured peer address for remote units.
	host string
}

// outcome is what a unit reports back to the run.
type outcome struct {
	index    int
	key      string
	result   Result
	code     errors.ErrorCode
	duration time.Duration
	// late marks a unit that finished after the run deadline.
	late bool
}

// label is the metrics and log value for the outcome.
func (o outcome) label() string {
	switch {
	case o.code != "":
		return string(o.code)
	case o.result.Success:
		return "ok"
	default:
		return "unsuccessful"
	}
}

// execute runs u and never panics: anything escaping the unit is reported
// under KeyUnexpectedError.
func (r *run[T]) execute(ctx context.Context, index int, u unit) (out outcome) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanCascadeUnit)
	span.SetAttributes(
		attribute.String(observability.AttrRunID, r.id),
		attribute.String(observability.AttrKind, u.kind.String()),
		attribute.String(observability.AttrKey, u.key),
	)
	if r.engine.metrics != nil {
		r.engine.metrics.UnitStarted(ctx, u.kind.String())
	}

	defer func() {
		if v := recover(); v != nil {
			err := errors.UnexpectedTask(panicError{value: v})
			out = outcome{
				key:    KeyUnexpectedError,
				result: Result{ErrorMessage: describeError(panicError{value: v})},
				code:   err.Code,
			}
			r.log.Error("cascade unit panicked", logger.Fields(
				logger.FieldKey, u.key,
				logger.FieldError, err.Cause.Error(),
			))
		}
		out.index = index
		out.duration = time.Since(start)

		span.SetAttributes(attribute.String(observability.AttrOutcome, out.label()))
		if out.code != "" && out.code != errors.ErrCodeCascadeDisabled {
			observability.SetSpanError(ctx, fmt.Errorf("%s", out.result.ErrorMessage))
		}
		span.End()
		if r.engine.metrics != nil {
			r.engine.metrics.UnitFinished(ctx, u.kind.String(), out.label(), out.duration)
		}
	}()

	switch u.kind {
	case unitLocal:
		out = r.local(ctx, u)
	case unitRemote:
		out = r.remote(ctx, u)
	case unitWarning:
		out = r.warning(u)
	default:
		panic(fmt.Sprintf("unknown unit kind %d", u.kind))
	}
	return out
}

func (r *run[T]) local(ctx context.Context, u unit) outcome {
	cfg := &r.engine.cfg
	start := time.Now()
	err := r.invokeLocal(ctx)
	elapsed := util.Ptr(util.SecondsSince(start))

	if err != nil {
		appErr := errors.LocalActionFailed(cfg.ActionDescription, err)
		detail := describeError(err)
		r.log.Warn("local action failed", logger.Fields(
			logger.FieldKey, u.key,
			logger.FieldOutcome, string(appErr.Code),
			logger.FieldError, detail,
		))
		return outcome{
			key: u.key,
			result: Result{
				Message:        appErr.Message + " - due to " + detail,
				RuntimeSeconds: elapsed,
				ErrorMessage:   detail,
			},
			code: appErr.Code,
		}
	}

	return outcome{
		key: u.key,
		result: Result{
			Message:        fmt.Sprintf("Action success: %s: %s", cfg.ActionDescription, renderPayload(r.payload)),
			Success:        true,
			RuntimeSeconds: elapsed,
		},
	}
}

// invokeLocal calls the local action, turning a panic into an error.
func (r *run[T]) invokeLocal(ctx context.Context) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = panicError{value: v}
		}
	}()
	return r.engine.cfg.LocalAction(ctx, r.payload)
}

func (r *run[T]) remote(ctx context.Context, u unit) outcome {
	cfg := &r.engine.cfg
	if !cfg.Cascading() {
		return outcome{key: u.key, result: Result{Message: MsgCascadeDisabled}, code: errors.ErrCodeCascadeDisabled}
	}

	fail := func(err error) outcome {
		appErr := errors.RemoteTransportFailed(u.host, err)
		r.log.Warn("cascade to peer failed", logger.Fields(
			logger.FieldHost, u.host,
			logger.FieldKey, u.key,
			logger.FieldOutcome, string(appErr.Code),
			logger.FieldError, err.Error(),
		))
		return outcome{key: u.key, result: Result{ErrorMessage: describeError(err)}, code: appErr.Code}
	}

	if r.openErr != nil {
		return fail(r.openErr)
	}

	start := time.Now()
	res, err := r.session.Call(ctx, targetURL(u.host, cfg.Path, cfg.CascadeFalseParam), cfg.Method, r.payload)
	if err != nil {
		return fail(err)
	}
	if res == nil || res.IsZero() {
		r.log.Warn("peer returned no cascade result", logger.Fields(logger.FieldHost, u.host))
		return outcome{key: u.key, result: Result{Message: MsgInvalidResponse}}
	}

	peer := *res
	if peer.RuntimeSeconds == nil {
		peer.RuntimeSeconds = util.Ptr(util.SecondsSince(start))
	}
	return outcome{key: u.key, result: peer}
}

func (r *run[T]) warning(u unit) outcome {
	appErr := errors.SelfIdentificationFailed(r.engine.cfg.ActionDescription)
	return outcome{key: u.key, result: Result{Message: appErr.Message}, code: appErr.Code}
}

// renderPayload formats the payload for the success message.
func renderPayload(payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}
