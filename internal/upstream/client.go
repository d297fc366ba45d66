// Package upstream implements the HTTP client for the remote Filmcounts platform
// API. All entity data lives on the platform; the gateway only proxies and
// caches. The platform exposes its surface under fixed namespaces that are
// preserved here verbatim:
//
//	/um/...             user management and authentication
//	/org/...            organizations
//	/content/...        companies, suppliers, departments
//	/project/budget/... projects, budgets, requisitions, reconciliations
//	/at/search          audit trail
//	/configs/...        application configuration
//
// The platform answers with one of two success envelopes depending on the
// endpoint: a plain {success, data} body where the HTTP status carries the
// verdict, or a {responseCode, data, message} body where responseCode "00"
// means success regardless of HTTP status. Each call site declares which
// convention applies via the Request.Convention tag, so the two parsing rules
// live in exactly one place. Whether the split reflects two backend versions
// or an in-progress migration is unknown; neither convention is treated as
// authoritative.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/telemetry"
)

// Convention identifies how a response envelope encodes success.
type Convention string

const (
	// ConventionHTTPStatus: success iff the HTTP status is 2xx and the body's
	// optional "success" flag is not false. Body shape: {success, data, message}.
	ConventionHTTPStatus Convention = "http_status"
	// ConventionResponseCode: success iff the body's responseCode equals "00",
	// independent of HTTP status. Body shape: {responseCode, data, message}.
	ConventionResponseCode Convention = "response_code"
)

// successResponseCode is the platform's "ok" business code.
const successResponseCode = "00"

// Client talks to the Filmcounts platform API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a platform client from configuration.
func NewClient(cfg *config.UpstreamConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP wraps an explicit http.Client; used by tests with httptest servers.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// Request describes one call to the platform.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE)
	Method string
	// Path is the endpoint path including its namespace, e.g. "/project/budget/list"
	Path string
	// Domain is the short namespace label used for metrics: um, org, content, budget, at, configs
	Domain string
	// Convention selects the success-envelope parsing rule
	Convention Convention
	// Token is the bearer access token; empty only for unauthenticated auth endpoints
	Token string
	// Query holds optional URL query parameters
	Query url.Values
	// Body is JSON-marshaled into the request body when non-nil
	Body any
}

// Result is the uniform outcome of a platform call. Success carries Data;
// failure carries Message (business rejection) or Error (transport/parse
// problem). Result never panics its way out of a store method.
type Result struct {
	Success    bool
	StatusCode int
	Data       json.RawMessage
	Message    string
	Error      string
}

// envelope is the superset of both platform response shapes.
type envelope struct {
	Success      *bool           `json:"success"`
	ResponseCode string          `json:"responseCode"`
	Data         json.RawMessage `json:"data"`
	Message      string          `json:"message"`
	Error        string          `json:"error"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

// Call performs one platform request and interprets the response envelope
// according to req.Convention. Transport and parse failures are reported as
// Result.Error; they never panic and never leave a partial Result.
func (c *Client) Call(ctx context.Context, req Request) Result {
	start := time.Now()
	res := c.call(ctx, req)
	telemetry.UpstreamRequestDuration.WithLabelValues(req.Domain).Observe(time.Since(start).Seconds())

	outcome := "success"
	if !res.Success {
		outcome = "failure"
		if res.Error != "" {
			outcome = "error"
		}
	}
	telemetry.UpstreamRequestsTotal.WithLabelValues(req.Domain, string(req.Convention), outcome).Inc()
	return res
}

func (c *Client) call(ctx context.Context, req Request) Result {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return Result{Error: fmt.Sprintf("failed to encode request body: %v", err)}
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, bodyReader)
	if err != nil {
		return Result{Error: fmt.Sprintf("failed to build request: %v", err)}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{Error: fmt.Sprintf("request to platform failed: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return Result{StatusCode: resp.StatusCode, Error: fmt.Sprintf("failed to read platform response: %v", err)}
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return Result{StatusCode: resp.StatusCode, Error: "platform returned a malformed response"}
		}
	}

	switch req.Convention {
	case ConventionResponseCode:
		return parseResponseCode(resp.StatusCode, env, raw)
	default:
		return parseHTTPStatus(resp.StatusCode, env, raw)
	}
}

// parseResponseCode applies the {responseCode, data, message} rule: the HTTP
// status is ignored and responseCode "00" alone decides success. Auth
// endpoints of this convention sometimes put token fields beside responseCode
// instead of inside data, so the raw body stands in for an absent data
// wrapper just as it does for the other convention.
func parseResponseCode(status int, env envelope, raw []byte) Result {
	if env.ResponseCode == successResponseCode {
		data := env.Data
		if data == nil && len(raw) > 0 {
			data = raw
		}
		return Result{Success: true, StatusCode: status, Data: data, Message: env.Message}
	}
	msg := env.Message
	if msg == "" {
		msg = fmt.Sprintf("platform rejected the request (responseCode %q)", env.ResponseCode)
	}
	return Result{StatusCode: status, Message: msg}
}

// parseHTTPStatus applies the {success, data} rule: 2xx means success unless
// the body explicitly says success=false. Endpoints of this convention
// occasionally omit the data wrapper entirely, so the raw body is kept as
// Data when the wrapper is absent.
func parseHTTPStatus(status int, env envelope, raw []byte) Result {
	ok := status >= 200 && status < 300
	if ok && env.Success != nil {
		ok = *env.Success
	}
	if !ok {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("platform returned status %d", status)
		}
		return Result{StatusCode: status, Message: msg}
	}

	data := env.Data
	if data == nil && len(raw) > 0 {
		data = raw
	}
	return Result{Success: true, StatusCode: status, Data: data, Message: env.Message}
}

// Tokens extracts access_token/refresh_token pairs from an auth response.
// The platform puts them either at the top level or inside data.
func Tokens(data json.RawMessage) (accessToken, refreshToken string) {
	if len(data) == 0 {
		return "", ""
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", ""
	}
	if env.AccessToken != "" || env.RefreshToken != "" {
		return env.AccessToken, env.RefreshToken
	}
	if len(env.Data) > 0 {
		return Tokens(env.Data)
	}
	return "", ""
}
