// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package catalog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/verapi/internal/ctxlog"
	"github.com/vk/verapi/internal/loader"
	"github.com/vk/verapi/internal/version"
	"github.com/zclconf/go-cty/cty"
)

type fakeModule struct{}

func (fakeModule) Register(c *Catalog) {
	c.ProvideAt("fake", "1.2", map[string]any{"ok": true})
}

func TestCatalog_ProvideAndLoad(t *testing.T) {
	c := New(context.Background(), "edge")
	c.Install(fakeModule{})
	c.ProvideAt("log", "", func(...any) (any, error) { return nil, nil })

	v, err := c.Load(context.Background(), "edge.01.02.fake")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, v)

	_, err = c.Load(context.Background(), "edge.log")
	require.NoError(t, err)

	_, err = c.Load(context.Background(), "edge.01.fake")
	assert.ErrorIs(t, err, loader.ErrModuleNotFound)

	assert.Equal(t, []string{"edge.01.02.fake", "edge.log"}, c.Paths())
}

func TestCatalog_DuplicatePathPanics(t *testing.T) {
	c := New(context.Background(), "edge")
	c.Provide("edge.cache", map[string]any{})
	assert.Panics(t, func() { c.Provide("edge.cache", map[string]any{}) })
	assert.Panics(t, func() { c.ProvideError("edge.cache", errors.New("x")) })
}

func TestCatalog_ProvideAtRejectsBadVersion(t *testing.T) {
	c := New(context.Background(), "edge")
	assert.Panics(t, func() { c.ProvideAt("cache", "one", map[string]any{}) })
	assert.Panics(t, func() { c.ProvideAt("cache", "1.100", map[string]any{}) })
}

func TestCatalog_PathFor(t *testing.T) {
	c := New(context.Background(), "edge")
	testCases := []struct {
		at       string
		expected string
	}{
		{at: "", expected: "edge.cache"},
		{at: "2", expected: "edge.02.cache"},
		{at: "2.1", expected: "edge.02.01.cache"},
		{at: "2.1.3", expected: "edge.02.01.03.cache"},
	}
	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			got, err := c.PathFor("cache", tc.at)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, err := c.PathFor("cache", "1.2.3.4")
	assert.ErrorIs(t, err, version.ErrInvalidVersion)
}

func TestCatalog_ProvideStatic(t *testing.T) {
	c := New(context.Background(), "edge")
	obj := cty.ObjectVal(map[string]cty.Value{"beta": cty.True})
	require.NoError(t, c.ProvideStatic("features", "1", obj))
	require.Error(t, c.ProvideStatic("features", "1", obj))
	require.Error(t, c.ProvideStatic("features", "x", obj))

	v, err := c.Load(context.Background(), "edge.01.features")
	require.NoError(t, err)
	assert.True(t, obj.RawEquals(v.(cty.Value)))
}

func TestCatalog_ProvideError(t *testing.T) {
	boom := errors.New("boom")
	c := New(context.Background(), "edge")
	c.ProvideError("edge.01.cache", boom)

	_, err := c.Load(context.Background(), "edge.01.cache")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, loader.ErrModuleNotFound)
}

func TestCatalog_LogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := New(ctxlog.WithLogger(context.Background(), logger), "edge")
	c.Install(fakeModule{})

	assert.Contains(t, buf.String(), "Providing module.")
	assert.Contains(t, buf.String(), "path=edge.01.02.fake")
	assert.Contains(t, buf.String(), "namespace=edge")
}
