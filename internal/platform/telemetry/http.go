package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// HeaderTraceID carries the trace id back to the caller.
const HeaderTraceID = "X-Trace-ID"

// Tracing starts a server span per request from tp and echoes its trace id
// in the X-Trace-ID response header.
func Tracing(service string, tp trace.TracerProvider) gin.HandlersChain {
	return gin.HandlersChain{
		otelgin.Middleware(service, otelgin.WithTracerProvider(tp)),
		func(c *gin.Context) {
			if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
				c.Header(HeaderTraceID, sc.TraceID().String())
			}
			c.Next()
		},
	}
}

type serverInstruments struct {
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func newServerInstruments(mp metric.MeterProvider) (*serverInstruments, error) {
	meter := mp.Meter(scope)

	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of HTTP server requests."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of HTTP server requests in flight."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &serverInstruments{duration: duration, inFlight: inFlight}, nil
}

// RequestMetrics records request duration and in-flight requests on mp,
// labelled by method, route template and status. If the instruments
// cannot be created the error goes to the otel error handler and requests
// pass through unmeasured.
func RequestMetrics(mp metric.MeterProvider) gin.HandlerFunc {
	inst, err := newServerInstruments(mp)
	if err != nil {
		otel.Handle(err)
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		base := []attribute.KeyValue{
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route),
		}

		inst.inFlight.Add(ctx, 1, metric.WithAttributes(base...))
		defer inst.inFlight.Add(ctx, -1, metric.WithAttributes(base...))

		c.Next()

		inst.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			append(base, attribute.Int("http.response.status_code", c.Writer.Status()))...,
		))
	}
}
