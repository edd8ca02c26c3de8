package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/schoolfinder/internal/platform/timeouts"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName      = "github.com/louisbranch/schoolfinder/internal/services/web/lookup"
	maxResponseSize = 1 << 20
)

// Config configures a Client.
type Config struct {
	// URL is the absolute lookup endpoint, e.g. http://host:5000/find-schools.
	URL string
	// Timeout caps one call. Zero uses timeouts.Lookup.
	Timeout time.Duration
	// BreakerFailures is the number of consecutive failed calls that opens
	// the circuit breaker. Zero disables the breaker.
	BreakerFailures uint32
	// BreakerCooldown is how long the open breaker rejects calls.
	// Zero uses timeouts.BreakerCooldown.
	BreakerCooldown time.Duration
	// HTTPClient overrides the transport; its Timeout is left untouched.
	HTTPClient *http.Client
	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider
}

// Client calls the lookup endpoint over HTTP.
type Client struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	tracer  trace.Tracer
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, errors.New("lookup url is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse lookup url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("lookup url %q must be http or https", endpoint)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("lookup url %q has no host", endpoint)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = timeouts.Lookup
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	provider := cfg.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	c := &Client{
		url:    parsed.String(),
		client: httpClient,
		tracer: provider.Tracer(tracerName),
	}
	if cfg.BreakerFailures > 0 {
		c.breaker = newBreaker(cfg.BreakerFailures, cfg.BreakerCooldown)
	}
	return c, nil
}

func newBreaker(failures uint32, cooldown time.Duration) *gobreaker.CircuitBreaker {
	if cooldown <= 0 {
		cooldown = timeouts.BreakerCooldown
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "school-lookup",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A caller abandoning its request says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})
}

// FindSchools posts req to the lookup endpoint and decodes its answer.
func (c *Client) FindSchools(ctx context.Context, req Request) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := c.tracer.Start(ctx, "lookup.FindSchools",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodPost),
			attribute.String("schoolfinder.num_schools", req.NumSchools),
		),
	)
	defer span.End()

	resp, err := c.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return Response{}, err
	}
	if resp.Failed() {
		span.SetAttributes(attribute.Bool("schoolfinder.lookup_error", true))
	} else {
		span.SetAttributes(attribute.Int("schoolfinder.schools_returned", len(resp.Schools)))
	}
	return resp, nil
}

func (c *Client) execute(ctx context.Context, req Request) (Response, error) {
	if c.breaker == nil {
		return c.do(ctx, req)
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Response{}, &RequestError{Op: OpBreaker, Err: err}
		}
		return Response{}, err
	}
	resp, _ := out.(Response)
	return resp, nil
}

// wireResponse keeps field presence so a body with neither key is rejected.
type wireResponse struct {
	Error   *string   `json:"error"`
	Schools *[]School `json:"schools"`
}

func (c *Client) do(ctx context.Context, req Request) (Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, &RequestError{Op: OpBuild, Err: err}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Response{}, &RequestError{Op: OpBuild, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return Response{}, &RequestError{Op: OpSend, Err: err}
	}
	defer httpResp.Body.Close()
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return Response{}, &RequestError{Op: OpRead, StatusCode: httpResp.StatusCode, Err: err}
	}
	ok := httpResp.StatusCode >= 200 && httpResp.StatusCode < 300

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		if !ok {
			return Response{}, &RequestError{Op: OpStatus, StatusCode: httpResp.StatusCode, Err: fmt.Errorf("unexpected status %s", httpResp.Status)}
		}
		return Response{}, &RequestError{Op: OpDecode, StatusCode: httpResp.StatusCode, Err: err}
	}

	// The upstream reports its own validation failures with a 4xx status and
	// an error body; that message is meant for the user.
	if wire.Error != nil && strings.TrimSpace(*wire.Error) != "" {
		return Response{Error: strings.TrimSpace(*wire.Error)}, nil
	}
	if !ok {
		return Response{}, &RequestError{Op: OpStatus, StatusCode: httpResp.StatusCode, Err: fmt.Errorf("unexpected status %s", httpResp.Status)}
	}
	if wire.Schools == nil {
		return Response{}, &RequestError{Op: OpDecode, StatusCode: httpResp.StatusCode, Err: errMissingSchools}
	}
	schools := *wire.Schools
	if schools == nil {
		schools = []School{}
	}
	return Response{Schools: schools}, nil
}
