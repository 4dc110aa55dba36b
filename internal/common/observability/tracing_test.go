package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestJobSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	obs := NewWithReader("test", metric.NewManualReader(), sdktrace.WithSpanProcessor(recorder))
	defer obs.Shutdown()

	ctx, span := obs.StartJobSpan(context.Background(), "calculate-interpretation-price", 42)
	assert.NotEmpty(t, TraceID(ctx))
	EndSpan(span, nil)

	_, span = obs.StartJobSpan(context.Background(), "match-linguists", 43)
	EndSpan(span, errors.New("LINGUIST_QUERY_FAILED"))

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "calculate-interpretation-price", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.Int64("job.key", 42))

	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Len(t, ended[1].Events(), 1)
}

func TestJobSpans_NilSafe(t *testing.T) {
	var obs *Observability
	ctx, span := obs.StartJobSpan(context.Background(), "match-linguists", 1)
	EndSpan(span, nil)
	assert.Empty(t, TraceID(ctx))
}
