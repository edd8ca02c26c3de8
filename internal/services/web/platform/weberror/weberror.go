// Package weberror renders shared error responses for web modules.
package weberror

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	webi18n "github.com/louisbranch/schoolfinder/internal/services/web/i18n"
	apperrors "github.com/louisbranch/schoolfinder/internal/services/web/platform/errors"
	webtemplates "github.com/louisbranch/schoolfinder/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound ||
		statusCode == http.StatusMethodNotAllowed ||
		statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message. Errors without
// a localization key get the generic failure message.
func PublicMessage(loc webtemplates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	key := apperrors.LocalizationKey(err)
	if key == "" {
		key = webi18n.KeyErrorGeneric
	}
	if localized := strings.TrimSpace(webtemplates.T(loc, key)); localized != "" {
		return localized
	}
	return webtemplates.T(loc, webi18n.KeyErrorGeneric)
}

// WriteAppError writes the localized error page.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, page webtemplates.PageContext) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	templ.Handler(webtemplates.ErrorPage(page, statusCode), templ.WithStatus(statusCode)).ServeHTTP(w, r)
}

// WriteError writes the error page for page-level failures and a plain
// localized message otherwise.
func WriteError(w http.ResponseWriter, r *http.Request, err error, page webtemplates.PageContext) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, page)
		return
	}
	http.Error(w, PublicMessage(page.Loc, err), statusCode)
}
