package lookup

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg.URL = srv.URL + "/find-schools"
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client, &hits
}

func TestFindSchoolsSendsExactJSONBody(t *testing.T) {
	t.Parallel()

	var gotBody, gotContentType, gotMethod, gotPath string
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotContentType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{"schools":[]}`)
	}, Config{})

	if _, err := client.FindSchools(context.Background(), Request{Postcode: "SW1A 1AA", NumSchools: "3"}); err != nil {
		t.Fatalf("FindSchools() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("requests = %d, want 1", hits.Load())
	}
	if want := `{"postcode":"SW1A 1AA","num_schools":"3"}`; gotBody != want {
		t.Fatalf("body = %s, want %s", gotBody, want)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content-type = %q, want application/json", gotContentType)
	}
	if gotMethod != http.MethodPost || gotPath != "/find-schools" {
		t.Fatalf("request = %s %s, want POST /find-schools", gotMethod, gotPath)
	}
}

func TestFindSchoolsDecodesSchools(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"schools":[{"EstablishmentName":"Test School","Address":"1 Road","Postcode":"SW1A 1AA","distance_km":0.5,"TelephoneNum":"02070000000","Latitude":51.5,"Longitude":-0.14}]}`)
	}, Config{})

	resp, err := client.FindSchools(context.Background(), Request{Postcode: "SW1A 1AA", NumSchools: "3"})
	if err != nil {
		t.Fatalf("FindSchools() error = %v", err)
	}
	if resp.Failed() {
		t.Fatalf("unexpected error answer %q", resp.Error)
	}
	if len(resp.Schools) != 1 {
		t.Fatalf("schools = %d, want 1", len(resp.Schools))
	}
	got := resp.Schools[0]
	want := School{
		EstablishmentName: "Test School",
		Address:           "1 Road",
		Postcode:          "SW1A 1AA",
		DistanceKM:        0.5,
		TelephoneNum:      "02070000000",
		Latitude:          51.5,
		Longitude:         -0.14,
	}
	if got != want {
		t.Fatalf("school = %+v, want %+v", got, want)
	}
	if !got.HasCoordinates() {
		t.Fatal("expected coordinates")
	}
}

func TestFindSchoolsReturnsErrorAnswerRegardlessOfStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "ok status", status: http.StatusOK, body: `{"error":"Invalid postcode"}`},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"Invalid postcode"}`},
		{name: "error wins over schools", status: http.StatusOK, body: `{"error":"Invalid postcode","schools":[{"EstablishmentName":"x"}]}`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, Config{})

			resp, err := client.FindSchools(context.Background(), Request{Postcode: "XX1", NumSchools: "3"})
			if err != nil {
				t.Fatalf("FindSchools() error = %v", err)
			}
			if resp.Error != "Invalid postcode" {
				t.Fatalf("Error = %q, want %q", resp.Error, "Invalid postcode")
			}
			if len(resp.Schools) != 0 {
				t.Fatalf("schools = %d, want none", len(resp.Schools))
			}
		})
	}
}

func TestFindSchoolsClassifiesRequestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantOp     string
		wantStatus int
	}{
		{name: "server error without body", status: http.StatusInternalServerError, body: "boom", wantOp: OpStatus, wantStatus: 500},
		{name: "server error with json but no message", status: http.StatusBadGateway, body: `{"error":""}`, wantOp: OpStatus, wantStatus: 502},
		{name: "malformed json", status: http.StatusOK, body: `{"schools":[`, wantOp: OpDecode, wantStatus: 200},
		{name: "neither key", status: http.StatusOK, body: `{}`, wantOp: OpDecode, wantStatus: 200},
		{name: "null schools", status: http.StatusOK, body: `{"schools":null}`, wantOp: OpDecode, wantStatus: 200},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, Config{})

			_, err := client.FindSchools(context.Background(), Request{Postcode: "SW1A 1AA", NumSchools: "3"})
			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("error = %v, want *RequestError", err)
			}
			if reqErr.Op != tc.wantOp {
				t.Fatalf("Op = %q, want %q", reqErr.Op, tc.wantOp)
			}
			if reqErr.StatusCode != tc.wantStatus {
				t.Fatalf("StatusCode = %d, want %d", reqErr.StatusCode, tc.wantStatus)
			}
		})
	}
}

func TestFindSchoolsNetworkFailureIsRequestError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/find-schools"
	srv.Close()

	client, err := New(Config{URL: endpoint, Timeout: time.Second})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = client.FindSchools(context.Background(), Request{Postcode: "SW1A 1AA", NumSchools: "3"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Op != OpSend {
		t.Fatalf("error = %v, want send RequestError", err)
	}
	if !IsRequestError(err) {
		t.Fatal("IsRequestError() = false, want true")
	}
	if !strings.HasPrefix(err.Error(), "lookup schools: send") {
		t.Fatalf("Error() = %q, want lookup schools prefix", err.Error())
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, Config{BreakerFailures: 2, BreakerCooldown: time.Hour})

	for i := 0; i < 2; i++ {
		_, err := client.FindSchools(context.Background(), Request{Postcode: "SW1A 1AA", NumSchools: "3"})
		var reqErr *RequestError
		if !errors.As(err, &reqErr) || reqErr.Op != OpStatus {
			t.Fatalf("call %d error = %v, want status RequestError", i, err)
		}
	}

	_, err := client.FindSchools(context.Background(), Request{Postcode: "SW1A 1AA", NumSchools: "3"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Op != OpBreaker {
		t.Fatalf("error = %v, want breaker RequestError", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("upstream hits = %d, want 2", hits.Load())
	}
}

func TestBreakerIgnoresErrorAnswers(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Invalid postcode"}`)
	}, Config{BreakerFailures: 1, BreakerCooldown: time.Hour})

	for i := 0; i < 3; i++ {
		resp, err := client.FindSchools(context.Background(), Request{Postcode: "nope", NumSchools: "3"})
		if err != nil {
			t.Fatalf("call %d error = %v", i, err)
		}
		if !resp.Failed() {
			t.Fatalf("call %d expected error answer", i)
		}
	}
	if hits.Load() != 3 {
		t.Fatalf("upstream hits = %d, want 3", hits.Load())
	}
}

func TestFindSchoolsRecordsClientSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"schools":[{"EstablishmentName":"A"},{"EstablishmentName":"B"}]}`)
	}, Config{TracerProvider: provider})

	if _, err := client.FindSchools(context.Background(), Request{Postcode: "SW1A 1AA", NumSchools: "2"}); err != nil {
		t.Fatalf("FindSchools() error = %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "lookup.FindSchools" {
		t.Fatalf("span name = %q", span.Name())
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if got := attrs["schoolfinder.schools_returned"].AsInt64(); got != 2 {
		t.Fatalf("schools_returned = %d, want 2", got)
	}
	if got := attrs["http.response.status_code"].AsInt64(); got != http.StatusOK {
		t.Fatalf("status attribute = %d, want 200", got)
	}
	for key := range attrs {
		if strings.Contains(string(key), "postcode") {
			t.Fatalf("span must not record the postcode, found %q", key)
		}
	}
}

func TestFindSchoolsPropagatesTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	var traceparent string
	provider := sdktrace.NewTracerProvider()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		_, _ = io.WriteString(w, `{"schools":[]}`)
	}, Config{TracerProvider: provider})

	if _, err := client.FindSchools(context.Background(), Request{Postcode: "SW1A 1AA", NumSchools: "3"}); err != nil {
		t.Fatalf("FindSchools() error = %v", err)
	}
	if traceparent == "" {
		t.Fatal("expected traceparent header on upstream request")
	}
}

func TestNewValidatesURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "  ", "ftp://example.com/find-schools", "/find-schools", "http://"} {
		if _, err := New(Config{URL: raw}); err == nil {
			t.Fatalf("New(%q) expected error", raw)
		}
	}
	if _, err := New(Config{URL: "https://schools.example.com/find-schools"}); err != nil {
		t.Fatalf("New(valid) error = %v", err)
	}
}
