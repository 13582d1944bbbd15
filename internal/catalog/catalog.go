// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package catalog is the in-process module source the loader probes. Compiled-in
// API modules register their values under dotted module paths, and static
// modules declared in configuration are added the same way.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vk/verapi/internal/ctxlog"
	"github.com/vk/verapi/internal/loader"
	"github.com/vk/verapi/internal/version"
	"github.com/zclconf/go-cty/cty"
)

// Module is implemented by every compiled-in API module.
type Module interface {
	Register(c *Catalog)
}

type entry struct {
	value any
	err   error
}

// Catalog maps dotted module paths to API values. It is populated during
// startup and only read afterwards.
type Catalog struct {
	namespace string
	entries   map[string]entry
	logger    *slog.Logger
}

// New creates an empty catalog for a namespace. Registrations are logged
// through the logger carried by ctx.
func New(ctx context.Context, namespace string) *Catalog {
	return &Catalog{
		namespace: namespace,
		logger:    ctxlog.FromContext(ctx).With("namespace", namespace),
		entries:   make(map[string]entry),
	}
}

// Namespace returns the path prefix shared by every module in the catalog.
func (c *Catalog) Namespace() string { return c.namespace }

// Install registers every module with the catalog.
func (c *Catalog) Install(modules ...Module) {
	for _, m := range modules {
		m.Register(c)
	}
}

// Provide stores value under an absolute path.
func (c *Catalog) Provide(path string, value any) {
	if _, exists := c.entries[path]; exists {
		panic(fmt.Sprintf("module with path '%s' already provided", path))
	}
	c.logger.Debug("Providing module.", "path", path)
	c.entries[path] = entry{value: value}
}

// ProvideAt stores value for name at a version written as "", "1", "1.2" or
// "1.2.3". The empty string means the unversioned path.
func (c *Catalog) ProvideAt(name, at string, value any) {
	path, err := c.PathFor(name, at)
	if err != nil {
		panic(err)
	}
	c.Provide(path, value)
}

// ProvideStatic stores a configuration-declared cty value for name.
func (c *Catalog) ProvideStatic(name, at string, value cty.Value) error {
	path, err := c.PathFor(name, at)
	if err != nil {
		return err
	}
	if _, exists := c.entries[path]; exists {
		return fmt.Errorf("module with path '%s' already provided", path)
	}
	c.entries[path] = entry{value: value}
	return nil
}

// ProvideError makes every load of path fail with err. It lets a host mark a
// module as broken without removing it from the ladder.
func (c *Catalog) ProvideError(path string, err error) {
	if _, exists := c.entries[path]; exists {
		panic(fmt.Sprintf("module with path '%s' already provided", path))
	}
	c.entries[path] = entry{err: err}
}

// PathFor returns the module path of name at the given version string.
func (c *Catalog) PathFor(name, at string) (string, error) {
	if at == "" {
		return loader.ModulePath(c.namespace, name), nil
	}
	p, err := version.Parse(at)
	if err != nil {
		return "", fmt.Errorf("module %q: %w", name, err)
	}
	components := []int{p.Major}
	if p.HasMinor() {
		components = append(components, *p.Minor)
	}
	if p.HasPatch() {
		components = append(components, *p.Patch)
	}
	for _, n := range components {
		if n > version.MaxComponent {
			return "", fmt.Errorf("module %q: %w: %s", name, version.ErrComponentOverflow, at)
		}
	}
	return loader.ModulePath(c.namespace, name, components...), nil
}

// Load implements loader.Source.
func (c *Catalog) Load(_ context.Context, path string) (any, error) {
	e, ok := c.entries[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", loader.ErrModuleNotFound, path)
	}
	if e.err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, e.err)
	}
	return e.value, nil
}

// Paths returns every provided path, sorted.
func (c *Catalog) Paths() []string {
	paths := make([]string, 0, len(c.entries))
	for p := range c.entries {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

var _ loader.Source = (*Catalog)(nil)
