package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/verapi/internal/config"
	"github.com/vk/verapi/internal/ctxlog"
	"github.com/vk/verapi/internal/version"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// moduleBlock is the raw HCL shape of a `module "name" { ... }` block.
type moduleBlock struct {
	Name       string         `hcl:"name,label"`
	Version    *string        `hcl:"version,optional"`
	Type       hcl.Expression `hcl:"type,optional"`
	Attributes cty.Value      `hcl:"attributes"`
}

// translateModule converts a decoded module block into a config.StaticModule,
// applying the optional type constraint to its attributes.
func translateModule(ctx context.Context, file string, b *moduleBlock) (*config.StaticModule, error) {
	logger := ctxlog.FromContext(ctx).With("module", b.Name, "file", file)

	mod := &config.StaticModule{
		Name:       b.Name,
		Attributes: b.Attributes,
		File:       file,
	}
	if b.Version != nil {
		if _, err := version.Parse(*b.Version); err != nil {
			return nil, fmt.Errorf("%s: module %q: %w", file, b.Name, err)
		}
		mod.Version = *b.Version
	}

	if isAbsent(b.Type) {
		return mod, nil
	}

	ty, err := typeExprToCtyType(b.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: module %q: %w", b.Type.Range(), b.Name, err)
	}
	if ty != cty.DynamicPseudoType && !ty.IsMapType() {
		return nil, fmt.Errorf("%s: module %q: type must be a map, got %s", b.Type.Range(), b.Name, ty.FriendlyName())
	}
	converted, err := convert.Convert(b.Attributes, ty)
	if err != nil {
		return nil, fmt.Errorf("%s: module %q: attributes do not match type %s: %w", file, b.Name, ty.FriendlyName(), err)
	}
	logger.Debug("Applied module type constraint.", "type", ty.FriendlyName())
	mod.Attributes = converted
	return mod, nil
}
