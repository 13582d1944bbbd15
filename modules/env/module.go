// Package env provides the `env` API at version 1: a cty object exposing the
// process environment.
package env

import (
	"fmt"
	"os"
	"strings"

	"github.com/vk/verapi/internal/catalog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Module implements the catalog.Module interface for this package.
type Module struct {
	// Prefix, when set, keeps only variables starting with it. The prefix is
	// stripped from the exposed names.
	Prefix string
	// Environ returns KEY=VALUE pairs. Nil means os.Environ.
	Environ func() []string
}

// Output is the Go shape of the exposed object.
type Output struct {
	All   map[string]string `cty:"all"`
	Count int               `cty:"count"`
}

var outputType = cty.Object(map[string]cty.Type{
	"all":   cty.Map(cty.String),
	"count": cty.Number,
})

// Register provides the environment snapshot at version 1.
func (m *Module) Register(c *catalog.Catalog) {
	v, err := m.Snapshot()
	if err != nil {
		panic(err)
	}
	c.ProvideAt("env", "1", v)
}

// Snapshot reads the environment into a cty object with `all` and `count`.
func (m *Module) Snapshot() (cty.Value, error) {
	environ := m.Environ
	if environ == nil {
		environ = os.Environ
	}

	vars := make(map[string]string)
	for _, e := range environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], m.Prefix) {
			continue
		}
		name := strings.TrimPrefix(pair[0], m.Prefix)
		if name == "" {
			continue
		}
		vars[name] = pair[1]
	}

	v, err := gocty.ToCtyValue(Output{All: vars, Count: len(vars)}, outputType)
	if err != nil {
		return cty.NilVal, fmt.Errorf("converting environment: %w", err)
	}
	return v, nil
}
