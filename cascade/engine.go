package cascade

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/cascade/httpclient"
	"github.com/kbukum/cascade/identity"
	"github.com/kbukum/cascade/logger"
	"github.com/kbukum/cascade/observability"
	"github.com/kbukum/cascade/util"
	"github.com/kbukum/cascade/version"
)

// Engine runs a configured action locally and on peers. It is safe for
// concurrent use; each Run is independent.
type Engine[T any] struct {
	cfg       Config[T]
	marker    url.Values
	log       *logger.Logger
	identity  identity.Resolver
	transport Transport
	metrics   *observability.CascadeMetrics
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	log       *logger.Logger
	identity  identity.Resolver
	transport Transport
	metrics   *observability.CascadeMetrics
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithIdentity sets how the engine resolves the local node identifier.
// Defaults to the process-wide hostname resolver.
func WithIdentity(r identity.Resolver) Option {
	return func(o *options) { o.identity = r }
}

// WithTransport replaces the HTTP transport used to reach peers.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithMetrics records run and unit metrics.
func WithMetrics(m *observability.CascadeMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// New validates cfg and creates an engine.
func New[T any](cfg Config[T], opts ...Option) (*Engine[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	marker, err := parseMarker(cfg.CascadeFalseParam)
	if err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}
	if o.identity == nil {
		o.identity = identity.Default()
	}
	if o.transport == nil {
		o.transport = NewHTTPTransport(httpclient.Config{
			Timeout: cfg.Timeout,
			Headers: map[string]string{"User-Agent": version.UserAgent()},
		})
	}

	return &Engine[T]{
		cfg:       cfg,
		marker:    marker,
		log:       o.log.WithComponent("cascade"),
		identity:  o.identity,
		transport: o.transport,
		metrics:   o.metrics,
	}, nil
}

// Config returns the engine's effective configuration.
func (e *Engine[T]) Config() Config[T] {
	return e.cfg
}

// run is the state of one Run call.
type run[T any] struct {
	engine  *Engine[T]
	id      string
	payload T
	log     *logger.Logger
	session Session
	openErr error
}

// Run performs the action locally and, when doCascade is set, on every peer
// that is not this node. It always returns a report and never panics.
func (e *Engine[T]) Run(ctx context.Context, payload T, doCascade bool) *Results {
	start := time.Now()
	r := &run[T]{engine: e, id: uuid.NewString(), payload: payload}
	r.log = e.log.WithFields(logger.Fields(
		logger.FieldRunID, r.id,
		logger.FieldAction, e.cfg.ActionDescription,
	))

	ctx, span := observability.StartSpan(ctx, observability.SpanCascadeRun)
	defer span.End()
	span.SetAttributes(
		attribute.String(observability.AttrRunID, r.id),
		attribute.String(observability.AttrAction, e.cfg.ActionDescription),
		attribute.Bool(observability.AttrCascaded, doCascade),
	)

	localID, identified := e.identity.LocalIdentifier()
	units := e.plan(localID, identified, doCascade)
	r.log.Info("cascade run started", logger.Fields(
		logger.FieldNode, localID,
		"cascade", doCascade,
		"units", len(units),
	))

	if e.needsSession(units) {
		r.session, r.openErr = e.transport.Open(ctx)
		if r.openErr == nil {
			defer func() {
				if err := r.session.Close(); err != nil {
					r.log.Warn("closing cascade session", logger.Fields(logger.FieldError, err.Error()))
				}
			}()
		}
	}

	outcomes := r.schedule(ctx, units)
	if missed := len(units) - len(outcomes); missed > 0 {
		r.log.Warn("cascade deadline reached", logger.Fields(
			"timeout", e.cfg.Timeout.String(),
			"missing", missed,
			"policy", string(e.cfg.TimeoutPolicy),
		))
		if e.metrics != nil {
			e.metrics.RecordDeadlineMissed(ctx, e.cfg.ActionDescription, missed)
		}
	}

	results := &Results{Results: make(map[string]Result, len(outcomes))}
	for _, o := range outcomes {
		if _, taken := results.Results[o.key]; taken {
			r.log.Debug("duplicate result key dropped", logger.Fields(logger.FieldKey, o.key))
			continue
		}
		results.Results[o.key] = o.result
	}
	if identified {
		results.CoordinatingNode = localID
	}
	elapsed := time.Since(start)
	results.TotalRuntimeSeconds = util.Seconds(elapsed)

	if e.metrics != nil {
		e.metrics.RecordRun(ctx, e.cfg.ActionDescription, doCascade, elapsed)
	}
	r.log.Info("cascade run finished", logger.MergeWithDuration(logger.Fields(
		"results", len(results.Results),
		"failed", len(results.Failed()),
	), elapsed))
	return results
}

// RunLocal performs the action on this node only.
func (e *Engine[T]) RunLocal(ctx context.Context, payload T) *Results {
	return e.Run(ctx, payload, false)
}

// plan builds the units of a run in construction order: the local unit
// first, then either the warning unit or one unit per peer.
func (e *Engine[T]) plan(localID string, identified, doCascade bool) []unit {
	localKey := KeyLocalFallback
	if identified {
		localKey = localID
	}
	units := []unit{{kind: unitLocal, key: localKey}}
	if !doCascade {
		return units
	}
	if !identified {
		return append(units, unit{kind: unitWarning, key: KeyWarning})
	}
	for _, host := range e.cfg.Hosts {
		if isSelf(host, localID) {
			continue
		}
		units = append(units, unit{kind: unitRemote, key: NormalizeHost(host), host: host})
	}
	return units
}

// needsSession reports whether any unit will call a peer.
func (e *Engine[T]) needsSession(units []unit) bool {
	if !e.cfg.Cascading() {
		return false
	}
	for _, u := range units {
		if u.kind == unitRemote {
			return true
		}
	}
	return false
}
