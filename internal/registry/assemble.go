// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package registry

import (
	"context"
	"fmt"

	"github.com/vk/verapi/internal/ctxlog"
	"github.com/vk/verapi/internal/facade"
	"github.com/vk/verapi/internal/loader"
	"github.com/vk/verapi/internal/version"
)

// Declaration is the static startup configuration of the resolver.
type Declaration struct {
	Product    string
	SDKVersion string
	Namespace  string
	// Versions are registered in this order; the last one becomes latest.
	Versions []string
	// Names are resolved at every version, in this order.
	Names []string
}

// Initialize builds the registry: for every declared version it resolves
// every declared name through the loader ladder, assembles a bundle and
// registers it. Names that do not resolve are kept as absent entries.
//
// Only a malformed declared version is an error.
func Initialize(ctx context.Context, decl Declaration, src loader.Source) (*Registry, error) {
	logger := ctxlog.FromContext(ctx).With("product", decl.Product)
	logger.Debug("Initializing registry.", "versions", decl.Versions, "apis", decl.Names)

	reg := newRegistry(decl.Product)
	ld := loader.New(src, decl.Namespace, reg)

	for _, raw := range decl.Versions {
		want, err := version.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("declared version %q: %w", raw, err)
		}
		triple := want.Default()
		if err := triple.Validate(); err != nil {
			return nil, fmt.Errorf("declared version %q: %w", raw, err)
		}

		vctx := ctxlog.With(ctx, "version", triple.String())
		apis := make(map[string]*facade.Proxy, len(decl.Names))
		trace := make([]loader.Resolution, 0, len(decl.Names))
		var missing []string

		latest, _ := reg.Latest()
		for _, name := range decl.Names {
			res := ld.Resolve(vctx, name, want, latest)
			trace = append(trace, res)
			apis[name] = res.Proxy
			if res.Proxy == nil {
				missing = append(missing, name)
			}
		}

		b := facade.NewBundle(facade.BundleSpec{
			Product:    decl.Product,
			SDKVersion: decl.SDKVersion,
			Triple:     triple,
			Names:      decl.Names,
			APIs:       apis,
		}, reg)
		reg.register(b, trace)

		if len(missing) > 0 {
			logger.Info("Registered version with unresolved apis.", "version", b.Version(), "missing", missing)
		} else {
			logger.Debug("Registered version.", "version", b.Version(), "apis", len(decl.Names))
		}
	}

	logger.Info("Registry initialized.", "bundles", len(reg.bundles), "keys", len(reg.byKey))
	return reg, nil
}
