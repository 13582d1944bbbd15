// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package registry

import (
	"slices"
	"strconv"
	"strings"

	"github.com/vk/verapi/internal/facade"
	"github.com/vk/verapi/internal/loader"
	"github.com/vk/verapi/internal/version"
)

// latestLabel is reported when V() is asked for the latest bundle of an empty registry.
const latestLabel = "latest"

// Registry holds every registered bundle under each of its version keys.
type Registry struct {
	product string
	byKey   map[version.Key]*facade.Bundle
	latest  *facade.Bundle
	bundles []*facade.Bundle
	// traces records how each name was resolved for each bundle.
	traces map[*facade.Bundle][]loader.Resolution
}

func newRegistry(product string) *Registry {
	return &Registry{
		product: product,
		byKey:   make(map[version.Key]*facade.Bundle),
		traces:  make(map[*facade.Bundle][]loader.Resolution),
	}
}

// register installs b under all of its keys and makes it the latest bundle.
func (r *Registry) register(b *facade.Bundle, trace []loader.Resolution) {
	for _, k := range b.Triple().Keys() {
		r.byKey[k] = b
	}
	r.latest = b
	r.bundles = append(r.bundles, b)
	r.traces[b] = trace
}

// Product returns the product identity used in error messages.
func (r *Registry) Product() string { return r.product }

// Lookup returns the bundle installed under key.
func (r *Registry) Lookup(key version.Key) (*facade.Bundle, bool) {
	b, ok := r.byKey[key]
	return b, ok
}

// LookupCode returns the bundle registered under a numeric version code.
func (r *Registry) LookupCode(code int) (*facade.Bundle, bool) {
	return r.Lookup(version.CodeKey(code))
}

// Latest returns the most recently registered bundle.
func (r *Registry) Latest() (*facade.Bundle, bool) {
	return r.latest, r.latest != nil
}

// V answers a top-level version query. No arguments selects the latest
// bundle; one, two or three select the major line, the major.minor line or
// the exact version.
func (r *Registry) V(parts ...int) (*facade.Bundle, error) {
	if len(parts) == 0 {
		if r.latest == nil {
			return nil, r.unknown(latestLabel)
		}
		return r.latest, nil
	}

	p, err := version.FromParts(parts...)
	if err != nil {
		return nil, r.unknown(version.JoinParts(parts...))
	}
	b, ok := r.Lookup(p.Key())
	if !ok {
		return nil, r.unknown(version.JoinParts(parts...))
	}
	return b, nil
}

// Resolve answers a query written as text: "", "2", "2.1", "2.1.0", or a
// numeric code prefixed with '#', such as "#20100".
func (r *Registry) Resolve(text string) (*facade.Bundle, error) {
	if text == "" || text == latestLabel {
		return r.V()
	}
	if code, ok := strings.CutPrefix(text, "#"); ok {
		n, err := strconv.Atoi(code)
		if err != nil {
			return nil, r.unknown(text)
		}
		if b, ok := r.LookupCode(n); ok {
			return b, nil
		}
		return nil, r.unknown(text)
	}

	p, err := version.Parse(text)
	if err != nil {
		return nil, r.unknown(text)
	}
	if b, ok := r.Lookup(p.Key()); ok {
		return b, nil
	}
	return nil, r.unknown(text)
}

// Keys returns every installed key, sorted.
func (r *Registry) Keys() []version.Key {
	keys := make([]version.Key, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Bundles returns the bundles in registration order.
func (r *Registry) Bundles() []*facade.Bundle {
	return slices.Clone(r.bundles)
}

// Trace returns how each declared name was resolved for b.
func (r *Registry) Trace(b *facade.Bundle) []loader.Resolution {
	return slices.Clone(r.traces[b])
}

func (r *Registry) unknown(v string) error {
	return &facade.UnknownVersionError{Product: r.product, Version: v}
}

var _ facade.Resolver = (*Registry)(nil)
