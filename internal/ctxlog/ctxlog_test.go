package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("Hello.")

	require.Same(t, logger, FromContext(ctx))
	assert.Contains(t, buf.String(), "Hello.")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	scoped, logger := With(ctx, "batch", "b-1")
	FromContext(scoped).Info("Inner.")
	FromContext(ctx).Info("Outer.")

	assert.Same(t, logger, FromContext(scoped))
	assert.Contains(t, buf.String(), `msg=Inner. batch=b-1`)
	assert.NotContains(t, buf.String(), `msg=Outer. batch=b-1`)
}
