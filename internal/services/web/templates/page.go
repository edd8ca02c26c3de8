package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/schoolfinder/internal/services/shared/i18nhttp"
	webi18n "github.com/louisbranch/schoolfinder/internal/services/web/i18n"
	"github.com/louisbranch/schoolfinder/internal/services/web/routepath"
)

// DefaultHTMXScriptURL is the htmx build loaded when no override is configured.
const DefaultHTMXScriptURL = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// Form field names and DOM ids shared with the browser script.
const (
	FormID          = "school-search"
	FieldPostcode   = "postcode"
	FieldNumSchools = "numSchools"
	FieldSeq        = "seq"
	PromptID        = "form-prompt"
	LoadingID       = "loading"
)

// PageContext provides shared layout context for pages.
type PageContext struct {
	Lang          string
	Loc           Localizer
	CurrentPath   string
	Languages     []i18nhttp.LanguageOption
	HTMXScriptURL string
}

// SearchForm is the state of the search form when a page is rendered.
type SearchForm struct {
	Postcode      string
	NumSchools    string
	MaxNumSchools int
	// InvalidField names the field to mark invalid and focus.
	InvalidField string
	Prompt       string
}

// Page renders the complete school finder document.
func Page(page PageContext, form SearchForm, result ResultState) templ.Component {
	return layout(page, T(page.Loc, webi18n.KeyPageTitle), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<h1>`)
		h.text(T(page.Loc, webi18n.KeyPageTitle))
		h.raw(`</h1><p class="intro">`)
		h.text(T(page.Loc, webi18n.KeyPageIntro))
		h.raw(`</p>`)
		if h.err != nil {
			return h.err
		}
		if err := searchForm(page.Loc, form).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`<p`)
		h.attr("id", LoadingID)
		h.attr("class", "htmx-indicator")
		h.attr("role", "status")
		h.raw(`>`)
		h.text(T(page.Loc, webi18n.KeyLoading))
		h.raw(`</p>`)
		if h.err != nil {
			return h.err
		}
		return ResultContainer(page.Loc, result).Render(ctx, w)
	}))
}

func searchForm(loc Localizer, form SearchForm) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<form`)
		h.attr("id", FormID)
		h.attr("action", routepath.SchoolsSearch)
		h.attr("method", "post")
		h.attr("hx-post", routepath.SchoolsSearch)
		h.attr("hx-target", "#"+ResultsID)
		h.attr("hx-swap", "outerHTML show:top")
		h.attr("hx-sync", "this:replace")
		h.attr("hx-indicator", "#"+LoadingID)
		h.flag("novalidate", true)
		h.raw(`>`)

		h.raw(`<input type="hidden"`)
		h.attr("name", FieldSeq)
		h.attr("id", FieldSeq)
		h.attr("value", "0")
		h.raw(`>`)

		invalid := strings.TrimSpace(form.InvalidField)
		focusPostcode := invalid == "" || invalid == FieldPostcode

		h.raw(`<label`)
		h.attr("for", FieldPostcode)
		h.raw(`>`)
		h.text(T(loc, webi18n.KeyFormPostcode))
		h.raw(`</label><input type="text"`)
		h.attr("id", FieldPostcode)
		h.attr("name", FieldPostcode)
		h.attr("autocomplete", "postal-code")
		h.attr("value", form.Postcode)
		h.flag("required", true)
		h.flag("autofocus", focusPostcode)
		if invalid == FieldPostcode {
			h.attr("aria-invalid", "true")
		}
		h.raw(`>`)

		h.raw(`<label`)
		h.attr("for", FieldNumSchools)
		h.raw(`>`)
		h.text(T(loc, webi18n.KeyFormNumSchools))
		h.raw(`</label><input type="number"`)
		h.attr("id", FieldNumSchools)
		h.attr("name", FieldNumSchools)
		h.attr("min", "1")
		if form.MaxNumSchools > 0 {
			h.attr("max", strconv.Itoa(form.MaxNumSchools))
		}
		h.attr("value", form.NumSchools)
		h.flag("required", true)
		h.flag("autofocus", invalid == FieldNumSchools)
		if invalid == FieldNumSchools {
			h.attr("aria-invalid", "true")
		}
		h.raw(`>`)

		h.raw(`<div`)
		h.attr("id", PromptID)
		h.attr("role", "alert")
		h.raw(`>`)
		if h.err != nil {
			return h.err
		}
		if err := Prompt(form.Prompt).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</div><button type="submit">`)
		h.text(T(loc, webi18n.KeyFormSubmit))
		h.raw(`</button></form>`)
		return h.err
	})
}

func layout(page PageContext, title string, main templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := strings.TrimSpace(page.Lang)
		if lang == "" {
			lang = i18nhttp.Default().String()
		}
		htmxSrc := strings.TrimSpace(page.HTMXScriptURL)
		if htmxSrc == "" {
			htmxSrc = DefaultHTMXScriptURL
		}

		h := newHTMLWriter(w)
		h.raw(`<!DOCTYPE html><html`)
		h.attr("lang", lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(title + " | " + T(page.Loc, webi18n.KeyAppName))
		h.raw(`</title><link rel="stylesheet" href="/static/app.css"><script defer`)
		h.attr("src", htmxSrc)
		h.raw(`></script><script defer src="/static/app.js"></script></head><body`)
		h.attr("data-generic-error", T(page.Loc, webi18n.KeyErrorGeneric))
		h.attr("data-prompt-required", T(page.Loc, webi18n.KeyPromptRequired))
		h.raw(`><header><span class="brand">`)
		h.text(T(page.Loc, webi18n.KeyAppName))
		h.raw(`</span>`)
		writeLanguageNav(h, page)
		h.raw(`</header><main>`)
		if h.err != nil {
			return h.err
		}
		if main != nil {
			if err := main.Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}

func writeLanguageNav(h *htmlWriter, page PageContext) {
	if len(page.Languages) < 2 {
		return
	}
	h.raw(`<nav class="languages"`)
	h.attr("aria-label", T(page.Loc, webi18n.KeyLanguage))
	h.raw(`>`)
	for _, option := range page.Languages {
		h.raw(`<a`)
		h.attr("href", option.URL)
		h.attr("hreflang", option.Tag)
		if option.Active {
			h.attr("aria-current", "true")
		}
		h.raw(`>`)
		h.text(option.Label)
		h.raw(`</a>`)
	}
	h.raw(`</nav>`)
}
