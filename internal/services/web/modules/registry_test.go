package modules

import (
	"context"
	"testing"

	"github.com/louisbranch/schoolfinder/internal/services/web/lookup"
)

type nopFinder struct{}

func (nopFinder) FindSchools(context.Context, lookup.Request) (lookup.Response, error) {
	return lookup.Response{}, nil
}

func TestDefaultModulesIncludeSchools(t *testing.T) {
	t.Parallel()

	mods := DefaultModules(Dependencies{Finder: nopFinder{}})
	if len(mods) != 1 {
		t.Fatalf("module count = %d, want %d", len(mods), 1)
	}
	if got := mods[0].ID(); got != "schools" {
		t.Fatalf("module[0] id = %q, want %q", got, "schools")
	}
	mount, err := mods[0].Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Handler == nil {
		t.Fatal("expected mount handler")
	}
}

func TestDefaultModulesWithoutFinderFailToMount(t *testing.T) {
	t.Parallel()

	for _, m := range DefaultModules(Dependencies{}) {
		if _, err := m.Mount(); err == nil {
			t.Fatalf("module %q mounted without finder", m.ID())
		}
	}
}
