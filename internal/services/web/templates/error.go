package templates

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	webi18n "github.com/louisbranch/schoolfinder/internal/services/web/i18n"
	"github.com/louisbranch/schoolfinder/internal/services/web/routepath"
)

func normalizeErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound || statusCode == http.StatusMethodNotAllowed {
		return statusCode
	}
	return http.StatusInternalServerError
}

func errorHeadingKey(statusCode int) string {
	switch statusCode {
	case http.StatusNotFound:
		return webi18n.KeyErrorNotFound
	case http.StatusMethodNotAllowed:
		return webi18n.KeyErrorNotAllowed
	default:
		return webi18n.KeyErrorInternal
	}
}

// ErrorPage renders a minimal error document inside the standard layout.
func ErrorPage(page PageContext, statusCode int) templ.Component {
	statusCode = normalizeErrorStatus(statusCode)
	title := T(page.Loc, errorHeadingKey(statusCode))
	return layout(page, title, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<h1 class="error-heading">`)
		h.text(title)
		h.raw(`</h1><p><a`)
		h.attr("href", routepath.Root)
		h.raw(`>`)
		h.text(T(page.Loc, webi18n.KeyErrorBackHome))
		h.raw(`</a></p>`)
		return h.err
	}))
}
