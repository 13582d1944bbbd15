package testutil

import (
	"strings"

	"github.com/vk/verapi/internal/catalog"
)

// MapModule provides each value at its module path within the catalog
// namespace. Keys are "name" or "name@version", e.g. "cache@1.2".
type MapModule map[string]any

// Register implements the catalog.Module interface.
func (m MapModule) Register(c *catalog.Catalog) {
	for key, value := range m {
		name, at, _ := strings.Cut(key, "@")
		c.ProvideAt(name, at, value)
	}
}

// FailingModule makes every load of Name at Version fail with Err.
type FailingModule struct {
	Name    string
	Version string
	Err     error
}

// Register implements the catalog.Module interface.
func (m *FailingModule) Register(c *catalog.Catalog) {
	path, err := c.PathFor(m.Name, m.Version)
	if err != nil {
		panic(err)
	}
	c.ProvideError(path, m.Err)
}
