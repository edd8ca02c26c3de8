package schools

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/schoolfinder/internal/services/shared/htmx"
	"github.com/louisbranch/schoolfinder/internal/services/shared/i18nhttp"
	webi18n "github.com/louisbranch/schoolfinder/internal/services/web/i18n"
	apperrors "github.com/louisbranch/schoolfinder/internal/services/web/platform/errors"
	"github.com/louisbranch/schoolfinder/internal/services/web/platform/httpx"
	"github.com/louisbranch/schoolfinder/internal/services/web/platform/weberror"
	"github.com/louisbranch/schoolfinder/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/schoolfinder/internal/services/web/templates"
)

// InvalidEvent is the HX-Trigger event raised when a submission is rejected.
const InvalidEvent = "schoolfinder:invalid"

// legacyNumSchoolsField is the snake_case name older clients submit.
const legacyNumSchoolsField = "num_schools"

const maxFormBytes = 64 << 10

type handlers struct {
	service service
	config  Config
}

func newHandlers(s service, config Config) handlers {
	return handlers{service: s, config: config}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := h.pageContext(w, r)
	form := webtemplates.SearchForm{
		NumSchools:    strconv.Itoa(h.config.DefaultNumSchools),
		MaxNumSchools: h.config.MaxNumSchools,
	}
	templ.Handler(webtemplates.Page(page, form, webtemplates.ResultState{})).ServeHTTP(w, r)
}

func (h handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	page := h.pageContext(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		weberror.WriteError(w, r, apperrors.Wrap(apperrors.KindInvalidInput, "", err), page)
		return
	}
	in := searchInput{
		Postcode:   r.PostFormValue(webtemplates.FieldPostcode),
		NumSchools: numSchoolsValue(r),
	}
	seq := strings.TrimSpace(r.PostFormValue(webtemplates.FieldSeq))
	form := webtemplates.SearchForm{
		Postcode:      in.Postcode,
		NumSchools:    in.NumSchools,
		MaxNumSchools: h.config.MaxNumSchools,
	}

	req, err := h.service.validate(in)
	if err != nil {
		h.writeInvalid(w, r, page, form, err)
		return
	}

	state, err := h.service.search(httpx.RequestContext(r), req)
	state.Seq = seq
	status := http.StatusOK
	if err != nil {
		log.Printf("lookup failed request_id=%s num_schools=%s err=%v", httpx.RequestIDFrom(r), req.NumSchools, err)
		state.Message = weberror.PublicMessage(page.Loc, err)
		if !htmx.IsHTMXRequest(r) {
			status = apperrors.HTTPStatus(err)
		}
	}
	htmx.Render(w, r, status,
		webtemplates.ResultContainer(page.Loc, state),
		webtemplates.Page(page, form, state),
	)
}

// writeInvalid prompts for the rejected field. htmx requests keep the result
// container untouched and raise InvalidEvent; plain posts get the page back.
func (h handlers) writeInvalid(w http.ResponseWriter, r *http.Request, page webtemplates.PageContext, form webtemplates.SearchForm, err error) {
	field := apperrors.FieldOf(err)
	prompt := h.promptMessage(page.Loc, err)
	if htmx.IsHTMXRequest(r) {
		htmx.Retarget(w, "#"+webtemplates.PromptID, "innerHTML")
		if triggerErr := htmx.Trigger(w, InvalidEvent, map[string]string{"field": field, "message": prompt}); triggerErr != nil {
			log.Printf("invalid trigger failed request_id=%s err=%v", httpx.RequestIDFrom(r), triggerErr)
		}
		templ.Handler(webtemplates.Prompt(prompt)).ServeHTTP(w, r)
		return
	}
	form.InvalidField = field
	form.Prompt = prompt
	templ.Handler(webtemplates.Page(page, form, webtemplates.ResultState{}), templ.WithStatus(apperrors.HTTPStatus(err))).ServeHTTP(w, r)
}

func (h handlers) promptMessage(loc webtemplates.Localizer, err error) string {
	key := apperrors.LocalizationKey(err)
	if key == "" {
		key = webi18n.KeyPromptRequired
	}
	return webtemplates.T(loc, key)
}

func (h handlers) pageContext(w http.ResponseWriter, r *http.Request) webtemplates.PageContext {
	return PageContext(w, r, h.config.HTMXScriptURL)
}

// PageContext resolves the request language and builds the shared layout
// context. Language links always point at the search page.
func PageContext(w http.ResponseWriter, r *http.Request, htmxScriptURL string) webtemplates.PageContext {
	printer, tag := i18nhttp.Resolve(w, r)
	return webtemplates.PageContext{
		Lang:          tag.String(),
		Loc:           printer,
		CurrentPath:   r.URL.Path,
		Languages:     i18nhttp.BuildLanguageOptions(routepath.Root, tag),
		HTMXScriptURL: htmxScriptURL,
	}
}

func numSchoolsValue(r *http.Request) string {
	if values, ok := r.PostForm[webtemplates.FieldNumSchools]; ok && len(values) > 0 {
		return values[0]
	}
	return r.PostFormValue(legacyNumSchoolsField)
}
