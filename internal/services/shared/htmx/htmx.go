// Package htmx renders templ components for full-page and htmx-driven
// requests and writes the htmx response headers the web service relies on.
package htmx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// ResponseHeaderKey is the HTMX request header used to detect partial updates.
const ResponseHeaderKey = "HX-Request"

// Response headers understood by htmx.
const (
	RetargetHeader = "HX-Retarget"
	ReswapHeader   = "HX-Reswap"
	TriggerHeader  = "HX-Trigger"
)

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(ResponseHeaderKey), "true")
}

// Retarget redirects the swap of an htmx response to selector using swap
// (for example "innerHTML"). Empty values leave the request defaults alone.
func Retarget(w http.ResponseWriter, selector string, swap string) {
	if w == nil {
		return
	}
	if selector = strings.TrimSpace(selector); selector != "" {
		w.Header().Set(RetargetHeader, selector)
	}
	if swap = strings.TrimSpace(swap); swap != "" {
		w.Header().Set(ReswapHeader, swap)
	}
}

// Trigger asks htmx to dispatch event on the requesting element once the
// response arrives. detail becomes the event's detail object.
func Trigger(w http.ResponseWriter, event string, detail any) error {
	if w == nil {
		return fmt.Errorf("response writer is required")
	}
	event = strings.TrimSpace(event)
	if event == "" {
		return fmt.Errorf("event name is required")
	}
	if detail == nil {
		w.Header().Set(TriggerHeader, event)
		return nil
	}
	payload, err := json.Marshal(map[string]any{event: detail})
	if err != nil {
		return fmt.Errorf("encode %s trigger: %w", event, err)
	}
	w.Header().Set(TriggerHeader, string(payload))
	return nil
}

// Render writes fragment for htmx requests and full otherwise, both with
// statusCode. When one of the components is nil the other is used for both
// paths.
func Render(w http.ResponseWriter, r *http.Request, statusCode int, fragment templ.Component, full templ.Component) {
	if w == nil {
		return
	}
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	target := full
	if IsHTMXRequest(r) {
		target = fragment
	}
	if target == nil {
		target = fragment
	}
	if target == nil {
		target = full
	}
	if target == nil {
		w.WriteHeader(statusCode)
		return
	}
	templ.Handler(target, templ.WithStatus(statusCode)).ServeHTTP(w, r)
}
