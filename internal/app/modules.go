package app

import (
	"log/slog"

	"github.com/vk/verapi/internal/catalog"
	"github.com/vk/verapi/modules/cache"
	"github.com/vk/verapi/modules/dns"
	"github.com/vk/verapi/modules/env"
	"github.com/vk/verapi/modules/log"
	"github.com/vk/verapi/modules/request"
	"github.com/vk/verapi/modules/timers"
)

// coreModules is the definitive list of all API modules compiled into the
// verapi binary.
func coreModules(logger *slog.Logger) []catalog.Module {
	return []catalog.Module{
		&cache.Module{},
		&log.Module{Logger: logger},
		&env.Module{Prefix: "VERAPI_"},
		&request.Module{},
		&dns.Module{},
		&timers.Module{},
	}
}
