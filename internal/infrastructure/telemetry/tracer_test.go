package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varejo/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProviderDisabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     1.0,
		ServiceName:       "varejo-test",
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())

	// Tracer still works against the global no-op provider
	tracer := tp.Tracer("test")
	_, span := tracer.Start(ctx, "noop-span")
	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProviderSamplingRatios(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	// Keep Enabled false so no collector connection is attempted;
	// the sampler branch is still exercised on the config path.
	for _, ratio := range []float64{0.0, 0.5, 1.0} {
		cfg := telemetry.Config{
			Enabled:           false,
			CollectorEndpoint: "localhost:4317",
			SamplingRatio:     ratio,
			ServiceName:       "varejo-test",
		}

		tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
		require.NoError(t, err)
		assert.False(t, tp.IsEnabled())
		assert.NoError(t, tp.Shutdown(ctx))
	}
}
