package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	webi18n "github.com/louisbranch/schoolfinder/internal/services/web/i18n"
	"github.com/louisbranch/schoolfinder/internal/services/web/lookup"
)

// ResultsID is the DOM id of the result container swapped by htmx.
const ResultsID = "results"

// ResultKind selects what the result container shows.
type ResultKind int

const (
	// ResultNone leaves the container hidden.
	ResultNone ResultKind = iota
	// ResultSchools lists the schools returned by the lookup.
	ResultSchools
	// ResultLookupError shows the message the lookup endpoint answered with.
	ResultLookupError
	// ResultFailure shows the generic failure message.
	ResultFailure
)

// ResultState is the content of the result container for one submission.
type ResultState struct {
	Kind    ResultKind
	Schools []lookup.School
	Message string
	// Seq echoes the submission sequence so the browser can drop stale swaps.
	Seq string
}

// ResultContainer renders the whole result section. The same markup is used
// for full pages and as the htmx outerHTML swap.
func ResultContainer(loc Localizer, state ResultState) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<section`)
		h.attr("id", ResultsID)
		h.attr("class", "result-container")
		h.attr("aria-live", "polite")
		if seq := strings.TrimSpace(state.Seq); seq != "" {
			h.attr("data-seq", seq)
		}
		h.flag("hidden", state.Kind == ResultNone)
		h.raw(`>`)
		writeResultBody(h, loc, state)
		h.raw(`</section>`)
		return h.err
	})
}

func writeResultBody(h *htmlWriter, loc Localizer, state ResultState) {
	switch state.Kind {
	case ResultSchools:
		h.raw(`<h2>`)
		h.text(T(loc, webi18n.KeyResultsHeading))
		h.raw(`</h2>`)
		if len(state.Schools) == 0 {
			h.raw(`<p class="results-empty">`)
			h.text(T(loc, webi18n.KeyResultsEmpty))
			h.raw(`</p>`)
			return
		}
		for _, school := range state.Schools {
			writeSchool(h, loc, school)
		}
	case ResultLookupError:
		writeErrorMessage(h, state.Message)
	case ResultFailure:
		message := strings.TrimSpace(state.Message)
		if message == "" {
			message = T(loc, webi18n.KeyErrorGeneric)
		}
		writeErrorMessage(h, message)
	}
}

func writeErrorMessage(h *htmlWriter, message string) {
	h.raw(`<p class="result-error" role="alert">`)
	h.text(message)
	h.raw(`</p>`)
}

func writeSchool(h *htmlWriter, loc Localizer, school lookup.School) {
	h.raw(`<div class="school-item"><h3>`)
	h.text(school.EstablishmentName)
	h.raw(`</h3>`)
	writeField(h, T(loc, webi18n.KeySchoolAddress), school.Address)
	writeField(h, T(loc, webi18n.KeySchoolPostcode), school.Postcode)
	writeField(h, T(loc, webi18n.KeySchoolDistance), FormatDistance(school.DistanceKM))
	if phone := strings.TrimSpace(school.TelephoneNum); phone != "" {
		h.raw(`<p><strong>`)
		h.text(T(loc, webi18n.KeySchoolTelephone))
		h.raw(`</strong> <a`)
		h.attr("href", telURL(phone))
		h.raw(`>`)
		h.text(phone)
		h.raw(`</a></p>`)
	}
	if school.HasCoordinates() {
		h.raw(`<p><a class="school-map"`)
		h.attr("href", MapURL(school.Latitude, school.Longitude))
		h.attr("target", "_blank")
		h.attr("rel", "noopener noreferrer")
		h.raw(`>`)
		h.text(T(loc, webi18n.KeySchoolMap))
		h.raw(`</a></p>`)
	}
	h.raw(`</div>`)
}

func writeField(h *htmlWriter, label string, value string) {
	h.raw(`<p><strong>`)
	h.text(label)
	h.raw(`</strong> `)
	h.text(value)
	h.raw(`</p>`)
}

// FormatDistance renders a distance the way the lookup reported it, e.g. "0.5 km".
func FormatDistance(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64) + " km"
}

// MapURL links to OpenStreetMap centred on the given coordinates.
func MapURL(lat float64, lon float64) string {
	latText := strconv.FormatFloat(lat, 'f', -1, 64)
	lonText := strconv.FormatFloat(lon, 'f', -1, 64)
	query := url.Values{}
	query.Set("mlat", latText)
	query.Set("mlon", lonText)
	return fmt.Sprintf("https://www.openstreetmap.org/?%s#map=16/%s/%s", query.Encode(), latText, lonText)
}

func telURL(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || (r == '+' && digits.Len() == 0) {
			digits.WriteRune(r)
		}
	}
	return "tel:" + digits.String()
}

// Prompt renders the validation prompt shown next to the form.
func Prompt(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		if strings.TrimSpace(message) == "" {
			return nil
		}
		h.raw(`<p class="form-prompt-message">`)
		h.text(message)
		h.raw(`</p>`)
		return h.err
	})
}
