package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitTracerOff(t *testing.T) {
	for name, cfg := range map[string]TracerConfig{
		"disabled":    {ServiceName: "onradio", OTLPEndpoint: "collector:4317"},
		"no endpoint": {ServiceName: "onradio", Enabled: true, SampleRate: 1},
	} {
		t.Run(name, func(t *testing.T) {
			tp, err := InitTracer(context.Background(), cfg, zerolog.Nop())
			if err != nil {
				t.Fatalf("InitTracer: %v", err)
			}
			ctx, span := StartSpan(context.Background(), "station", "station.Get")
			SetTenant(span, "radiouno")
			RecordError(span, errors.New("boom"))
			RecordError(span, nil)
			span.End()
			if span.SpanContext().IsValid() {
				t.Fatal("span recorded while tracing is off")
			}
			if err := tp.Shutdown(ctx); err != nil {
				t.Fatalf("Shutdown: %v", err)
			}
		})
	}
}
