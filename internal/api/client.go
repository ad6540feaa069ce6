// Package api is the HTTP client for the seller backend.
//
// Every call goes through Client.do, which attaches credentials, traces the
// request and normalizes the three outcomes the backend produces: a JSON body,
// an empty body, or a non-OK status.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const DefaultBaseURL = "http://localhost:8080/api/v1"

// maxBody caps how much of a response body is read.
const maxBody = 8 << 20

// Credentials supplies the bearer token and raw cookie string for each request.
// *session.Session satisfies it.
type Credentials interface {
	Token() string
	Cookies() string
}

type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials Credentials
	Logger      zerolog.Logger
	Tracer      trace.Tracer
	Meter       metric.Meter
}

type Client struct {
	baseURL  string
	http     *http.Client
	creds    Credentials
	log      zerolog.Logger
	tracer   trace.Tracer
	requests metric.Int64Counter
}

// New builds a client. A cookie jar is attached when the HTTP client has none,
// so cookies the server sets are sent back on later calls.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, err
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		cp := *hc
		cp.Jar = jar
		hc = &cp
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("seller-cli")
	}
	meter := opts.Meter
	if meter == nil {
		meter = otel.Meter("seller-cli")
	}
	requests, err := meter.Int64Counter("seller.api.requests",
		metric.WithDescription("API requests by operation and status"))
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:  base,
		http:     hc,
		creds:    opts.Credentials,
		log:      opts.Logger,
		tracer:   tracer,
		requests: requests,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// Result describes an OK response.
//
// Empty is set for 204 and blank bodies. Body holds a valid JSON body. Raw holds
// the text of an OK body that was not usable JSON; such results are still
// successes for mutations.
type Result struct {
	Status int             `json:"status"`
	Empty  bool            `json:"empty,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
	Raw    string          `json:"raw,omitempty"`

	Header http.Header `json:"-"`
}

// Degraded reports an OK response whose body could not be decoded.
func (r Result) Degraded() bool { return r.Raw != "" }

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	// out, when non-nil, receives the decoded JSON body.
	out any
}

func (c *Client) do(ctx context.Context, rq request) (Result, error) {
	ctx, span := c.tracer.Start(ctx, "api."+rq.op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", rq.method),
		attribute.String("api.path", rq.path),
	)

	res, err := c.roundTrip(ctx, rq)

	status := res.Status
	if status == 0 {
		status = StatusOf(err)
	}
	span.SetAttributes(attribute.Int("http.status_code", status))
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", rq.op),
		attribute.Int("status", status),
	))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Warn().Str("op", rq.op).Int("status", status).Err(err).Msg("api.request")
		return res, err
	}
	if res.Degraded() {
		c.log.Warn().Str("op", rq.op).Int("status", status).Str("raw", truncate(res.Raw, 200)).Msg("api.degraded_body")
	} else {
		c.log.Debug().Str("op", rq.op).Int("status", status).Bool("empty", res.Empty).Msg("api.request")
	}
	return res, nil
}

func (c *Client) roundTrip(ctx context.Context, rq request) (Result, error) {
	u := c.baseURL + rq.path
	if len(rq.query) > 0 {
		u += "?" + rq.query.Encode()
	}

	var body io.Reader
	if rq.body != nil {
		b, err := json.Marshal(rq.body)
		if err != nil {
			return Result{}, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, rq.method, u, body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.creds != nil {
		if tok := c.creds.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		if ck := c.creds.Cookies(); ck != "" {
			req.Header.Set("Cookie", ck)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, transportErr(rq.op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Result{Status: resp.StatusCode}, transportErr(rq.op, err)
	}
	text := strings.TrimSpace(string(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{Status: resp.StatusCode, Header: resp.Header},
			&HTTPError{Op: rq.op, Status: resp.StatusCode, Body: text}
	}

	res := Result{Status: resp.StatusCode, Header: resp.Header}
	if resp.StatusCode == http.StatusNoContent || text == "" {
		res.Empty = true
		return res, nil
	}
	if !json.Valid([]byte(text)) {
		res.Raw = text
		return res, nil
	}
	res.Body = json.RawMessage(text)
	if rq.out != nil {
		if err := json.Unmarshal(res.Body, rq.out); err != nil {
			res.Body = nil
			res.Raw = text
		}
	}
	return res, nil
}

func pageQuery(offset, limit int) url.Values {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
