// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/verapi/internal/ctxlog"
	"github.com/vk/verapi/internal/facade"
	"github.com/vk/verapi/internal/version"
)

// ErrModuleNotFound is returned by a Source when nothing lives at a path.
var ErrModuleNotFound = errors.New("module not found")

// Source fetches a module value by its dotted path.
type Source interface {
	Load(ctx context.Context, path string) (any, error)
}

// Outcome classifies a single probe.
type Outcome int

const (
	ProbeFound Outcome = iota
	ProbeAbsent
	ProbeError
)

func (o Outcome) String() string {
	switch o {
	case ProbeFound:
		return "found"
	case ProbeAbsent:
		return "absent"
	case ProbeError:
		return "error"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Probe is the result of loading one candidate path.
type Probe struct {
	Path    string
	Outcome Outcome
	Value   any
	Err     error
}

// Resolution is the result of walking the ladder for one name.
type Resolution struct {
	Name string
	// Proxy is nil when no rung resolved.
	Proxy *facade.Proxy
	// Probes lists every path that was tried, in order.
	Probes []Probe
	// FromLatest is set when the proxy was taken from the latest bundle.
	FromLatest bool
}

// Loader walks the fallback ladder against a Source.
type Loader struct {
	source    Source
	namespace string
	resolver  facade.Resolver
}

// New creates a Loader. Proxies it builds use r to answer V queries.
func New(source Source, namespace string, r facade.Resolver) *Loader {
	return &Loader{source: source, namespace: namespace, resolver: r}
}

// ModulePath builds "<namespace>.<c1>.<c2>...<name>" with two-digit components.
func ModulePath(namespace, name string, components ...int) string {
	parts := make([]string, 0, len(components)+2)
	if namespace != "" {
		parts = append(parts, namespace)
	}
	for _, c := range components {
		parts = append(parts, version.Pad2(c))
	}
	parts = append(parts, name)
	return strings.Join(parts, ".")
}

// Path is ModulePath in the loader's namespace.
func (l *Loader) Path(name string, components ...int) string {
	return ModulePath(l.namespace, name, components...)
}

// Probe loads a single path and classifies the outcome.
func (l *Loader) Probe(ctx context.Context, path string) Probe {
	value, err := l.source.Load(ctx, path)
	switch {
	case errors.Is(err, ErrModuleNotFound):
		return Probe{Path: path, Outcome: ProbeAbsent, Err: err}
	case err != nil:
		return Probe{Path: path, Outcome: ProbeError, Err: err}
	default:
		return Probe{Path: path, Outcome: ProbeFound, Value: value}
	}
}

type rung struct {
	path   string
	triple version.Triple
}

// Resolve walks the ladder for name at want. latest is the most recently
// registered bundle, or nil during the first registration.
func (l *Loader) Resolve(ctx context.Context, name string, want version.Partial, latest *facade.Bundle) Resolution {
	logger := ctxlog.FromContext(ctx).With("api", name, "want", want.String())
	res := Resolution{Name: name}

	var versioned []rung
	if want.HasMinor() && want.HasPatch() {
		versioned = append(versioned, rung{
			path:   l.Path(name, want.Major, *want.Minor, *want.Patch),
			triple: version.New(want.Major, *want.Minor, *want.Patch),
		})
	}
	if want.HasMinor() {
		versioned = append(versioned, rung{
			path:   l.Path(name, want.Major, *want.Minor),
			triple: version.New(want.Major, *want.Minor, 0),
		})
	}
	versioned = append(versioned, rung{
		path:   l.Path(name, want.Major),
		triple: version.New(want.Major, 0, 0),
	})

	for _, r := range versioned {
		if p := l.try(ctx, &res, r); p != nil {
			res.Proxy = p
			return res
		}
	}

	if latest != nil {
		res.FromLatest = true
		prev, err := latest.Get(name)
		if err != nil {
			logger.Debug("Latest bundle has no proxy for api.", "latest", latest.Version())
			return res
		}
		// Each bundle owns its proxies, so the latest one is re-wrapped
		// with its original version metadata.
		p, err := facade.Build(prev.Triple(), name, prev.Unwrap(), l.resolver)
		if err != nil {
			logger.Warn("Failed to re-wrap proxy from latest bundle.", "error", err)
			return res
		}
		logger.Debug("Resolved api from latest bundle.", "latest", latest.Version(), "resolved", p.Version())
		res.Proxy = p
		return res
	}

	if p := l.try(ctx, &res, rung{path: l.Path(name), triple: want.Default()}); p != nil {
		res.Proxy = p
		return res
	}

	logger.Debug("Api did not resolve on any rung.", "probes", len(res.Probes))
	return res
}

func (l *Loader) try(ctx context.Context, res *Resolution, r rung) *facade.Proxy {
	logger := ctxlog.FromContext(ctx)

	probe := l.Probe(ctx, r.path)
	res.Probes = append(res.Probes, probe)

	switch probe.Outcome {
	case ProbeAbsent:
		logger.Debug("Module not present.", "path", r.path)
		return nil
	case ProbeError:
		logger.Warn("Module failed to load, trying next path.", "path", r.path, "error", probe.Err)
		return nil
	}

	p, err := facade.Build(r.triple, res.Name, probe.Value, l.resolver)
	if err != nil {
		logger.Warn("Module cannot be wrapped as an api, trying next path.", "path", r.path, "error", err)
		return nil
	}
	logger.Debug("Module resolved.", "path", r.path, "version", p.Version(), "kind", p.Kind().String())
	return p
}
