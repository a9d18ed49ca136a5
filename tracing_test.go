package movielens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ds := newTestDataset(t, toyStory(), WithTracerProvider(tp))

	_, err := collect(context.Background(), ds.Train(WithTestRatio(0)))
	require.NoError(t, err)
	_, err = collect(context.Background(), ds.Train(WithTestRatio(2)))
	require.ErrorIs(t, err, ErrInvalidTestRatio)

	spans := rec.Ended()
	require.Len(t, spans, 3)

	assert.Equal(t, "movielens.BuildMetadata", spans[0].Name())
	assert.Equal(t, "movielens.Split", spans[1].Name())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
	assert.Equal(t, "movielens.Split", spans[2].Name())
	assert.Equal(t, codes.Error, spans[2].Status().Code)

	// The build runs inside the first split.
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}
