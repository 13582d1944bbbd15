// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package facade

import (
	"maps"
	"slices"

	"github.com/vk/verapi/internal/version"
)

// BundleSpec carries everything needed to create a Bundle.
type BundleSpec struct {
	Product    string
	SDKVersion string
	Triple     version.Triple
	// Names lists the declared API names in declaration order, including
	// names that did not resolve.
	Names []string
	// APIs maps names to proxies; a nil or missing entry means the name did
	// not resolve at this version.
	APIs map[string]*Proxy
}

// Bundle is the immutable set of proxies produced for one declared version.
type Bundle struct {
	product    string
	sdkVersion string
	triple     version.Triple
	names      []string
	apis       map[string]*Proxy
	resolver   Resolver
}

// NewBundle copies spec into a new Bundle.
func NewBundle(spec BundleSpec, r Resolver) *Bundle {
	apis := make(map[string]*Proxy, len(spec.APIs))
	maps.Copy(apis, spec.APIs)
	return &Bundle{
		product:    spec.Product,
		sdkVersion: spec.SDKVersion,
		triple:     spec.Triple,
		names:      slices.Clone(spec.Names),
		apis:       apis,
		resolver:   r,
	}
}

// Product returns the product identity string.
func (b *Bundle) Product() string { return b.product }

// Version returns the canonical "major.minor.patch" string.
func (b *Bundle) Version() string { return b.triple.String() }

// VersionNum returns the numeric MMmmpp code.
func (b *Bundle) VersionNum() int { return b.triple.Code() }

// SDKVersion returns the SDK version the bundle was resolved with.
func (b *Bundle) SDKVersion() string { return b.sdkVersion }

// Triple returns the bundle version.
func (b *Bundle) Triple() version.Triple { return b.triple }

// Names returns the declared API names in declaration order.
func (b *Bundle) Names() []string { return slices.Clone(b.names) }

// Has reports whether name resolved at this version.
func (b *Bundle) Has(name string) bool { return b.apis[name] != nil }

// Get returns the proxy for name, or a *NameNotFoundError.
func (b *Bundle) Get(name string) (*Proxy, error) {
	p := b.apis[name]
	if p == nil {
		return nil, &NameNotFoundError{Product: b.product, Name: name, Version: b.Version()}
	}
	return p, nil
}

// V answers a top-level version query from this bundle.
func (b *Bundle) V(parts ...int) (*Bundle, error) {
	if b.resolver == nil {
		return nil, ErrNoResolver
	}
	return b.resolver.V(parts...)
}
