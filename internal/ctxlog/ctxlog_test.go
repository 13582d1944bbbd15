package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
	//nolint:staticcheck // a nil context must not panic
	assert.Same(t, slog.Default(), FromContext(nil))
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := With(WithLogger(context.Background(), logger), "api", "cache")

	FromContext(ctx).Info("resolved")
	assert.Contains(t, buf.String(), "api=cache")
	assert.Contains(t, buf.String(), "msg=resolved")
}
