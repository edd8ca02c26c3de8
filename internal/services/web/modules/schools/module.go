// Package schools serves the school search page and its form submissions.
package schools

import (
	"github.com/go-chi/chi/v5"
	module "github.com/louisbranch/schoolfinder/internal/services/web/module"
	"github.com/louisbranch/schoolfinder/internal/services/web/lookup"
	"github.com/louisbranch/schoolfinder/internal/services/web/platform/httpx"
	"github.com/louisbranch/schoolfinder/internal/services/web/routepath"
)

const (
	defaultNumSchools = 3
	defaultMaxSchools = 50
)

// Config carries the module dependencies.
type Config struct {
	Finder lookup.Finder
	// DefaultNumSchools pre-fills the number of schools field.
	DefaultNumSchools int
	// MaxNumSchools is offered to the browser as the count input maximum.
	MaxNumSchools int
	// HTMXScriptURL overrides the htmx script source.
	HTMXScriptURL string
}

// Module provides the search page and the search endpoint.
type Module struct {
	config Config
}

// New returns a schools module.
func New(config Config) Module {
	if config.MaxNumSchools <= 0 {
		config.MaxNumSchools = defaultMaxSchools
	}
	if config.DefaultNumSchools <= 0 {
		config.DefaultNumSchools = defaultNumSchools
	}
	if config.DefaultNumSchools > config.MaxNumSchools {
		config.DefaultNumSchools = config.MaxNumSchools
	}
	return Module{config: config}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (m Module) ID() string {
	return "schools"
}

// Mount wires the search page at the root and the search endpoint.
func (m Module) Mount() (module.Mount, error) {
	if m.config.Finder == nil {
		return module.Mount{}, errLookupUnavailable
	}
	svc := newService(m.config.Finder)
	h := newHandlers(svc, m.config)

	r := chi.NewRouter()
	r.Get(routepath.Root, h.handleIndex)
	r.Head(routepath.Root, h.handleIndex)
	r.With(httpx.NoStore()).Post(routepath.SchoolsSearch, h.handleSearch)
	return module.Mount{Prefix: routepath.Root, Handler: r}, nil
}
