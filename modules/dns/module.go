// Package dns provides the `dns` API at version 1, a callable that resolves a
// host name to its addresses.
package dns

import (
	"context"
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/vk/verapi/internal/catalog"
)

// LookupFunc resolves a host to its addresses.
type LookupFunc func(ctx context.Context, host string) ([]string, error)

// Module implements the catalog.Module interface for this package.
type Module struct {
	// Lookup overrides the resolver. Nil means net.DefaultResolver.
	Lookup LookupFunc
	// Timeout bounds each lookup. Zero means 5s.
	Timeout time.Duration
}

// Register provides the resolver at version 1.
func (m *Module) Register(c *catalog.Catalog) {
	c.ProvideAt("dns", "1", m.Resolve)
}

// Resolve returns the sorted addresses of host.
func (m *Module) Resolve(host string) ([]string, error) {
	if host == "" {
		return nil, fmt.Errorf("dns: empty host")
	}
	lookup := m.Lookup
	if lookup == nil {
		lookup = net.DefaultResolver.LookupHost
	}
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	addrs, err := lookup(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("dns: resolving %q: %w", host, err)
	}
	addrs = slices.Clone(addrs)
	slices.Sort(addrs)
	return addrs, nil
}
