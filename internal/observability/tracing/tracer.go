package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the process-wide tracer all pipeline spans hang off. It picks
// up whatever provider the process installs; with none it is a no-op.
var tracer = otel.Tracer("drug-pipeline")

// GetTracer returns the shared tracer for starting spans:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.silver")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
