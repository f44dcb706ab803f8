//go:build unit

package observability_test

import (
	"context"
	"errors"
	"testing"

	"order-service/internal/infra/observability"
	"order-service/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpanObserver(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	obs := observability.NewSpanObserver(tp)

	t.Run("records span with attributes and events", func(t *testing.T) {
		err := obs.Observe(context.Background(), "inventory-service-lookup",
			[]commands.Attr{{Key: "call", Value: "inventory-service-from-order-service"}},
			func(ctx context.Context) error {
				obs.Event(ctx, "Retrieved inventory")
				return nil
			})
		require.NoError(t, err)

		spans := recorder.Ended()
		require.NotEmpty(t, spans)
		span := spans[len(spans)-1]
		assert.Equal(t, "inventory-service-lookup", span.Name())
		assert.Contains(t, span.Attributes(), attribute.String("call", "inventory-service-from-order-service"))
		require.Len(t, span.Events(), 1)
		assert.Equal(t, "Retrieved inventory", span.Events()[0].Name)
		assert.Equal(t, codes.Unset, span.Status().Code)
	})

	t.Run("marks span as failed", func(t *testing.T) {
		boom := errors.New("boom")
		err := obs.Observe(context.Background(), "inventory-service-decrement", nil, func(ctx context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)

		spans := recorder.Ended()
		span := spans[len(spans)-1]
		assert.Equal(t, codes.Error, span.Status().Code)
		assert.Equal(t, "boom", span.Status().Description)
	})
}
