package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of the resolver
// configuration.
type Model struct {
	Product    string
	SDKVersion string
	Namespace  string
	// Versions are registered in declaration order.
	Versions []string
	// APIs are resolved at every version, in declaration order.
	APIs    []string
	Modules []*StaticModule
	// Files lists the configuration files the model was read from.
	Files []string
}

// StaticModule is an API value declared directly in configuration.
type StaticModule struct {
	Name string
	// Version is "", "1", "1.2" or "1.2.3"; empty means the unversioned path.
	Version string
	// Attributes is an object or map value served as a structured API.
	Attributes cty.Value
	// File is the configuration file that declared the module.
	File string
}

// Validate checks the model for missing or conflicting declarations.
func (m *Model) Validate() error {
	var errs []string

	if m.Product == "" {
		errs = append(errs, "product is required")
	}
	if m.Namespace == "" {
		errs = append(errs, "namespace is required")
	}
	if len(m.Versions) == 0 {
		errs = append(errs, "at least one version must be declared")
	}
	if len(m.APIs) == 0 {
		errs = append(errs, "at least one api must be declared")
	}

	seenAPI := make(map[string]struct{}, len(m.APIs))
	for _, name := range m.APIs {
		if name == "" || strings.Contains(name, ".") {
			errs = append(errs, fmt.Sprintf("api name %q must be non-empty and contain no dots", name))
		}
		if _, dup := seenAPI[name]; dup {
			errs = append(errs, fmt.Sprintf("api %q is declared more than once", name))
		}
		seenAPI[name] = struct{}{}
	}

	seenModule := make(map[string]string)
	for _, mod := range m.Modules {
		key := mod.Name + "@" + mod.Version
		if prev, dup := seenModule[key]; dup {
			errs = append(errs, fmt.Sprintf("module %q (version %q) is declared in both %s and %s", mod.Name, mod.Version, prev, mod.File))
		}
		seenModule[key] = mod.File

		ty := mod.Attributes.Type()
		if mod.Attributes.IsNull() || !(ty.IsObjectType() || ty.IsMapType()) {
			errs = append(errs, fmt.Sprintf("module %q: attributes must be an object", mod.Name))
		} else if !mod.Attributes.IsWhollyKnown() {
			errs = append(errs, fmt.Sprintf("module %q: attributes must be known at load time", mod.Name))
		}
	}

	if len(errs) > 0 {
		return errors.New("invalid configuration:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
