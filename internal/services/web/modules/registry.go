package modules

import "github.com/louisbranch/schoolfinder/internal/services/web/modules/schools"

// DefaultModules returns the stable web modules in mount order.
func DefaultModules(deps Dependencies) []Module {
	return []Module{
		schools.New(schools.Config{
			Finder:            deps.Finder,
			DefaultNumSchools: deps.DefaultNumSchools,
			MaxNumSchools:     deps.MaxNumSchools,
			HTMXScriptURL:     deps.HTMXScriptURL,
		}),
	}
}
