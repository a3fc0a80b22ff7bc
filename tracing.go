package graphcore

import "go.opentelemetry.io/otel"

// graphTracer is the package-wide OTel tracer used to wrap the
// search/insert drivers. With no TracerProvider configured (the default
// in any program that doesn't call otel.SetTracerProvider), otel falls
// back to its embedded no-op implementation, so every Start/End call
// costs a couple of interface dispatches and never allocates a real
// span. Tracing, like event emission, is a side channel: it must never
// gate correctness, which is why this is an always-present but
// normally-inert decorator rather than an opt-in package with its own
// Init call.
var graphTracer = otel.Tracer("github.com/patterngraph/graphcore")
