// Package transport is the HTTP binding of GMP as served by gsad.
//
// Every command is a GET (reading) or a form POST (changing) request to the
// gsad endpoint carrying a cmd parameter, the session token and the session
// cookie. Responses are XML envelopes wrapping the gvmd reply.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"gsa/internal/gmp/parser"
)

const (
	// DefaultTimeout is used when no timeout is configured.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps XML responses (100MB).
	MaxResponseSize = 100 * 1024 * 1024

	// SessionCookie is the name of the gsad session cookie.
	SessionCookie = "GSAD_SID"

	userAgent = "gsa-gateway/1.0"
)

// Credentials authenticate a request against gsad.
type Credentials struct {
	Token     string
	SessionID string
}

type credentialsKey struct{}

// WithCredentials returns a context carrying creds for all commands sent with it.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFrom returns the credentials stored by WithCredentials.
func CredentialsFrom(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	return creds, ok
}

// Client sends GMP commands to gsad.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *Metrics
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, e.g. in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics records command metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger for command logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for the gsad endpoint at baseURL, e.g.
// http://localhost:9392/gmp. Requests are traced with otelhttp.
func NewClient(baseURL string, timeout time.Duration, insecureTLS bool, opts ...Option) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS {
		base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // self-signed gsad certificates
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(base),
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the gsad endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// Get runs a reading command with the credentials of ctx.
func (c *Client) Get(ctx context.Context, p Params) (*Response, error) {
	return c.do(ctx, http.MethodGet, p)
}

// Post runs a changing command with the credentials of ctx.
func (c *Client) Post(ctx context.Context, p Params) (*Response, error) {
	return c.do(ctx, http.MethodPost, p)
}

func (c *Client) do(ctx context.Context, method string, p Params) (resp *Response, err error) {
	cmd := p.Command()
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		c.metrics.observe(cmd, err, elapsed)
		c.logger.DebugContext(ctx, "gmp command",
			"cmd", cmd,
			"method", method,
			"duration_ms", elapsed.Milliseconds(),
			"error", errString(err),
		)
	}()

	httpResp, err := c.send(ctx, method, p)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, requestRejection(cmd, fmt.Errorf("read response body: %w", err))
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, &Rejection{Reason: ReasonError, Command: cmd, StatusCode: httpResp.StatusCode,
			Message: fmt.Sprintf("response exceeds %d bytes", MaxResponseSize)}
	}

	return decodeResponse(cmd, httpResp, body)
}

func (c *Client) send(ctx context.Context, method string, p Params) (*http.Response, error) {
	cmd := p.Command()
	values := p.Values()
	creds, _ := CredentialsFrom(ctx)
	if creds.Token != "" {
		values.Set("token", creds.Token)
	}

	var (
		req *http.Request
		err error
	)
	if method == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+"?"+values.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL, strings.NewReader(values.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, &Rejection{Reason: ReasonError, Command: cmd, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", userAgent)
	if creds.SessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: creds.SessionID})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, requestRejection(cmd, err)
	}
	return resp, nil
}

func decodeResponse(cmd string, httpResp *http.Response, body []byte) (*Response, error) {
	var resp *Response
	if root, err := parser.DecodeString(string(body)); err == nil {
		resp = NewResponse(root)
	}

	if httpResp.StatusCode == http.StatusUnauthorized {
		rej := &Rejection{Reason: ReasonUnauthorized, Command: cmd, StatusCode: httpResp.StatusCode}
		if resp != nil {
			rej.Message = resp.message()
		}
		return nil, rej
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		rej := &Rejection{Reason: ReasonError, Command: cmd, StatusCode: httpResp.StatusCode}
		if resp != nil {
			rej.Status = resp.status()
			rej.Message = resp.message()
		}
		if rej.Message == "" {
			rej.Message = httpResp.Status
		}
		return nil, rej
	}

	if resp == nil {
		if len(strings.TrimSpace(string(body))) > 0 {
			return nil, &Rejection{Reason: ReasonError, Command: cmd, StatusCode: httpResp.StatusCode,
				Message: "invalid response"}
		}
		// logout and similar commands answer with an empty body
		resp = &Response{}
	}

	if status := resp.status(); status >= http.StatusBadRequest {
		return nil, &Rejection{Reason: ReasonError, Command: cmd, StatusCode: httpResp.StatusCode,
			Status: status, Message: resp.message()}
	}

	resp.SessionID = sessionCookie(httpResp)
	return resp, nil
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			return c.Value
		}
	}
	return ""
}

// Download is a raw command result such as a report in a non XML format.
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	Filename      string
}

// Download runs a command and streams the body without decoding it, e.g. a
// report in PDF format (GET) or a bulk export (POST). The caller closes Body.
func (c *Client) Download(ctx context.Context, method string, p Params) (d *Download, err error) {
	cmd := p.Command()
	start := time.Now()
	defer func() {
		c.metrics.observe(cmd, err, time.Since(start))
	}()

	httpResp, err := c.send(ctx, method, p)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode >= http.StatusBadRequest {
		defer func() {
			_ = httpResp.Body.Close()
		}()
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, MaxResponseSize))
		_, err = decodeResponse(cmd, httpResp, body)
		return nil, err
	}

	d = &Download{
		Body:          httpResp.Body,
		ContentType:   httpResp.Header.Get("Content-Type"),
		ContentLength: httpResp.ContentLength,
	}
	if _, params, perr := mime.ParseMediaType(httpResp.Header.Get("Content-Disposition")); perr == nil {
		d.Filename = params["filename"]
	}
	return d, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
