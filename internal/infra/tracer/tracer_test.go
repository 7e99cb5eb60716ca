package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagepilot/internal/infra/config"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracerConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	// Span helpers must be safe with the noop provider installed.
	ctx, span := StartSpan(context.Background(), "test.op")
	assert.NotNil(t, ctx)
	RecordError(span, errors.New("boom"))
	SetOK(span)
	span.End()
}

func TestSetupUnknownExporter(t *testing.T) {
	_, err := Setup(context.Background(), config.TracerConfig{Enabled: true, Exporter: "jaeger"})
	assert.Error(t, err)
}

func TestAttrHelpers(t *testing.T) {
	assert.Equal(t, "tool", string(StringAttr("tool", "navigate_to").Key))
	assert.Equal(t, int64(3), IntAttr("count", 3).Value.AsInt64())
}
