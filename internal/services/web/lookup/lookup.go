// Package lookup is the client for the external school lookup endpoint
// (POST /find-schools).
//
// The endpoint answers either {"error": "..."} or {"schools": [...]}. An
// error answer is a normal Response the page renders verbatim; only transport
// failures, non-OK statuses without an error body and undecodable payloads
// surface as *RequestError.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Request is the JSON body sent to the lookup endpoint.
type Request struct {
	Postcode   string `json:"postcode"`
	NumSchools string `json:"num_schools"`
}

// School is one entry of a successful lookup.
type School struct {
	EstablishmentName string  `json:"EstablishmentName"`
	Address           string  `json:"Address"`
	Postcode          string  `json:"Postcode"`
	DistanceKM        float64 `json:"distance_km"`
	TelephoneNum      string  `json:"TelephoneNum,omitempty"`
	Latitude          float64 `json:"Latitude,omitempty"`
	Longitude         float64 `json:"Longitude,omitempty"`
}

// HasCoordinates reports whether the school carries a usable location.
func (s School) HasCoordinates() bool {
	return s.Latitude != 0 && s.Longitude != 0
}

// Response is a decoded lookup answer. Error takes precedence over Schools.
type Response struct {
	Error   string   `json:"error,omitempty"`
	Schools []School `json:"schools,omitempty"`
}

// Failed reports whether the endpoint answered with an error message.
func (r Response) Failed() bool {
	return strings.TrimSpace(r.Error) != ""
}

// Finder looks up nearby schools.
type Finder interface {
	FindSchools(ctx context.Context, req Request) (Response, error)
}

// Operations recorded on RequestError.
const (
	OpBuild   = "build"
	OpSend    = "send"
	OpRead    = "read"
	OpStatus  = "status"
	OpDecode  = "decode"
	OpBreaker = "breaker"
)

// RequestError reports a lookup that produced no usable answer: a network
// failure, a non-OK status without an error body, a malformed payload, or a
// call rejected by the open circuit breaker.
type RequestError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	b.WriteString("lookup schools: ")
	b.WriteString(e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRequestError reports whether err is or wraps a *RequestError.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

var errMissingSchools = errors.New("response has neither error nor schools")
