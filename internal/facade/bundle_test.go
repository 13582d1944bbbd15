// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package facade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/verapi/internal/version"
)

// mapResolver serves bundles keyed by the joined query components.
type mapResolver struct {
	bundles map[string]*Bundle
	latest  *Bundle
}

func (r *mapResolver) V(parts ...int) (*Bundle, error) {
	if len(parts) == 0 {
		return r.latest, nil
	}
	key := version.JoinParts(parts...)
	if b, ok := r.bundles[key]; ok {
		return b, nil
	}
	return nil, &UnknownVersionError{Product: "edge", Version: key}
}

func newTestBundle(t *testing.T, r Resolver, triple version.Triple, apis map[string]any, names ...string) *Bundle {
	t.Helper()
	proxies := make(map[string]*Proxy)
	for name, value := range apis {
		p, err := Build(triple, name, value, r)
		require.NoError(t, err)
		proxies[name] = p
	}
	return NewBundle(BundleSpec{
		Product:    "edge",
		SDKVersion: "0.4.0",
		Triple:     triple,
		Names:      names,
		APIs:       proxies,
	}, r)
}

func TestBundle_Metadata(t *testing.T) {
	b := newTestBundle(t, nil, version.New(2, 1, 0), map[string]any{"cache": map[string]any{}}, "cache", "foo")

	assert.Equal(t, "edge", b.Product())
	assert.Equal(t, "2.1.0", b.Version())
	assert.Equal(t, 20100, b.VersionNum())
	assert.Equal(t, "0.4.0", b.SDKVersion())
	assert.Equal(t, []string{"cache", "foo"}, b.Names())
	assert.True(t, b.Has("cache"))
	assert.False(t, b.Has("foo"))
}

func TestBundle_GetMissingName(t *testing.T) {
	b := newTestBundle(t, nil, version.New(1, 0, 0), map[string]any{"cache": map[string]any{}}, "cache", "foo")

	_, err := b.Get("foo")
	var notFound *NameNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "foo", notFound.Name)
	assert.Equal(t, "1.0.0", notFound.Version)
	assert.EqualError(t, err, `edge "foo" (1.0.0) was not found`)
}

func TestBundle_NilEntryIsNotFound(t *testing.T) {
	b := NewBundle(BundleSpec{
		Product: "edge",
		Triple:  version.New(1, 0, 0),
		Names:   []string{"foo"},
		APIs:    map[string]*Proxy{"foo": nil},
	}, nil)

	_, err := b.Get("foo")
	var notFound *NameNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestBundle_IsACopy(t *testing.T) {
	names := []string{"cache"}
	apis := map[string]*Proxy{}
	b := NewBundle(BundleSpec{Product: "edge", Names: names, APIs: apis}, nil)

	names[0] = "mutated"
	apis["late"] = &Proxy{}
	assert.Equal(t, []string{"cache"}, b.Names())
	assert.False(t, b.Has("late"))
}

func TestProxy_V(t *testing.T) {
	r := &mapResolver{bundles: map[string]*Bundle{}}
	v1 := newTestBundle(t, r, version.New(1, 0, 0), map[string]any{"cache": map[string]any{"gen": 1}}, "cache")
	v2 := newTestBundle(t, r, version.New(2, 0, 0), map[string]any{"cache": map[string]any{"gen": 2}, "log": func(...any) (any, error) { return nil, nil }}, "cache", "log")
	r.bundles["1"] = v1
	r.bundles["2"] = v2
	r.latest = v2

	cache1, err := v1.Get("cache")
	require.NoError(t, err)

	cache2, err := cache1.V(2)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", cache2.Version())
	gen, err := cache2.Field("gen")
	require.NoError(t, err)
	assert.Equal(t, 2, gen)

	latest, err := cache1.V()
	require.NoError(t, err)
	assert.Same(t, cache2, latest)

	back, err := cache2.V(1)
	require.NoError(t, err)
	assert.Same(t, cache1, back)

	_, err = cache1.V(9, 9, 9)
	var unknown *UnknownVersionError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, err.Error(), "9.9.9")
	assert.EqualError(t, err, `invalid edge version "9.9.9"`)

	log2, err := v2.Get("log")
	require.NoError(t, err)
	_, err = log2.V(1)
	var notFound *NameNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "log", notFound.Name)
	assert.Equal(t, "1.0.0", notFound.Version)
}

func TestBundle_V(t *testing.T) {
	r := &mapResolver{bundles: map[string]*Bundle{}}
	v1 := newTestBundle(t, r, version.New(1, 0, 0), nil)
	r.bundles["1"] = v1
	r.latest = v1

	got, err := v1.V(1)
	require.NoError(t, err)
	assert.Same(t, v1, got)
}

func TestNoResolver(t *testing.T) {
	b := newTestBundle(t, nil, version.New(1, 0, 0), map[string]any{"cache": map[string]any{}}, "cache")
	_, err := b.V()
	assert.ErrorIs(t, err, ErrNoResolver)

	p, err := b.Get("cache")
	require.NoError(t, err)
	_, err = p.V()
	assert.ErrorIs(t, err, ErrNoResolver)
}
