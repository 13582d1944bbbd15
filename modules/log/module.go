// Package log provides the unversioned `log` API, a callable that writes its
// arguments to the structured logger and returns the rendered message.
package log

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vk/verapi/internal/catalog"
)

// Module implements the catalog.Module interface for this package.
type Module struct {
	// Logger receives the messages. Nil means slog.Default() at call time.
	Logger *slog.Logger
}

// Register provides the logger at the unversioned path.
func (m *Module) Register(c *catalog.Catalog) {
	c.ProvideAt("log", "", m.Print)
}

// Print logs its arguments at Info and returns the message. Map arguments
// are rendered with sorted keys.
func (m *Module) Print(args ...any) (any, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, render(a))
	}
	msg := strings.Join(parts, " ")

	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("API log.", "message", msg)
	return msg, nil
}

func render(v any) string {
	switch m := v.(type) {
	case nil:
		return "(null)"
	case map[string]string:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%q", k, m[k])
		}
		return "{" + strings.Join(pairs, " ") + "}"
	case fmt.Stringer:
		return m.String()
	default:
		return fmt.Sprint(v)
	}
}
