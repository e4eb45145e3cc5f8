// Package observability provides OpenTelemetry tracing and metrics for
// cascade nodes.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("cascade-node"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanCascadeRun)
//	defer span.End()
//
// Trace context crosses to peers through InjectHeaders and ExtractHeaders.
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("cascade-node"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewCascadeMetrics(observability.Meter("cascade"))
//	metrics.UnitFinished(ctx, "remote", "ok", duration)
package observability
