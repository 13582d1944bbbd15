// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package facade

import (
	"fmt"

	"github.com/vk/verapi/internal/version"
)

// Resolver answers top-level version queries. The registry implements it;
// proxies and bundles use it to move between versions.
type Resolver interface {
	V(parts ...int) (*Bundle, error)
}

// Proxy forwards to one API value for one name at one version.
type Proxy struct {
	name     string
	triple   version.Triple
	kind     Kind
	value    any
	fields   fieldsFunc
	invoke   invokeFunc
	resolver Resolver
}

// Build wraps value as the API name at version t. The resolver backs V and may
// be nil for proxies that never leave their version.
func Build(t version.Triple, name string, value any, r Resolver) (*Proxy, error) {
	fields := fieldsOf(value)
	invoke := invokerOf(value)

	var kind Kind
	switch {
	case fields != nil && invoke != nil:
		kind = KindBoth
	case fields != nil:
		kind = KindStructured
	case invoke != nil:
		kind = KindCallable
	default:
		return nil, fmt.Errorf("%w: %s (%T)", ErrNotWrappable, name, value)
	}

	return &Proxy{
		name:     name,
		triple:   t,
		kind:     kind,
		value:    value,
		fields:   fields,
		invoke:   invoke,
		resolver: r,
	}, nil
}

// Name returns the API name the proxy was built for.
func (p *Proxy) Name() string { return p.name }

// Version returns the canonical "major.minor.patch" string.
func (p *Proxy) Version() string { return p.triple.String() }

// VersionNum returns the numeric MMmmpp code.
func (p *Proxy) VersionNum() int { return p.triple.Code() }

// Triple returns the resolved version.
func (p *Proxy) Triple() version.Triple { return p.triple }

// Kind reports which capabilities are forwarded.
func (p *Proxy) Kind() Kind { return p.kind }

// Unwrap returns the underlying API value.
func (p *Proxy) Unwrap() any { return p.value }

// String returns "name@version".
func (p *Proxy) String() string {
	return fmt.Sprintf("%s@%s", p.name, p.triple)
}

// Field reads a field from the underlying value. Reads are never cached.
func (p *Proxy) Field(name string) (any, error) {
	if p.fields == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotStructured, p)
	}
	v, ok := p.fields(name)
	if !ok {
		return nil, &FieldNotFoundError{API: p.name, Field: name}
	}
	return v, nil
}

// Call invokes the underlying value with args and returns its result.
func (p *Proxy) Call(args ...any) (any, error) {
	if p.invoke == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotCallable, p)
	}
	return p.invoke(args...)
}

// V returns the proxy for the same API name at another version. With no
// arguments it returns the latest registered version.
func (p *Proxy) V(parts ...int) (*Proxy, error) {
	if p.resolver == nil {
		return nil, ErrNoResolver
	}
	b, err := p.resolver.V(parts...)
	if err != nil {
		return nil, err
	}
	return b.Get(p.name)
}
