package templates

import (
	"github.com/louisbranch/schoolfinder/internal/services/shared/i18nhttp"
	"golang.org/x/text/message"
)

// Localizer resolves message keys for the request language.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

var defaultLocalizer = i18nhttp.Printer(i18nhttp.Default())

// T translates key with loc, falling back to the default language when loc
// is nil.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc == nil {
		loc = defaultLocalizer
	}
	return loc.Sprintf(key, args...)
}
