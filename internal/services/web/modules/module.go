// Package modules defines web module registry helpers.
package modules

import (
	module "github.com/louisbranch/schoolfinder/internal/services/web/module"
	"github.com/louisbranch/schoolfinder/internal/services/web/lookup"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the lookup gateway and shared config required to
// compose the web module registry.
type Dependencies struct {
	Finder            lookup.Finder
	DefaultNumSchools int
	MaxNumSchools     int
	HTMXScriptURL     string
}
