// Package bookit is a thin client for the BookIt REST API.
// It never interprets application-level failures: every answered request
// yields a Response, only transport failures yield an error.
package bookit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bookit/bookit-web/pkg/circuitbreaker"
	apperrors "github.com/bookit/bookit-web/pkg/errors"
	"github.com/bookit/bookit-web/pkg/httpclient"
	"github.com/bookit/bookit-web/pkg/logger"
	"github.com/bookit/bookit-web/pkg/metrics"
	"github.com/bookit/bookit-web/pkg/tracing"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const (
	serviceName = "bookit"

	// School records with many lists can be large; anything past this is cut
	maxBodyBytes = 8 << 20

	PathLogin         = "/usuario/login"
	PathRecover       = "/usuario/recuperar"
	PathVerify        = "/usuario/verificar"
	PathSchoolInfo    = "/escuela/consulta/"
	PathLinkedSchools = "/escuela/vinculados/"
	PathLinkSchool    = "/escuela/vincular"
)

// Response is an answered BookIt API request
type Response struct {
	StatusCode int
	Body       []byte
	Payload    Payload
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the raw body into v
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Client calls the BookIt API with the shared bearer credential
type Client struct {
	baseURL        string
	authorization  string
	httpClient     httpclient.Client
	circuitBreaker *gobreaker.CircuitBreaker
}

// NewClient creates a BookIt API client. cb may be nil to disable circuit breaking.
func NewClient(baseURL, authorization string, httpClient httpclient.Client, cb *gobreaker.CircuitBreaker) *Client {
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		authorization:  authorization,
		httpClient:     httpClient,
		circuitBreaker: cb,
	}
}

// BreakerState returns the upstream circuit breaker state for health checks
func (c *Client) BreakerState() string {
	return circuitbreaker.GetState(c.circuitBreaker)
}

// BreakerOpen reports whether calls to the BookIt API are currently short-circuited
func (c *Client) BreakerOpen() bool {
	return circuitbreaker.IsCircuitOpen(c.circuitBreaker)
}

// Login posts credentials to /usuario/login
func (c *Client) Login(ctx context.Context, correo, contrasena string) (*Response, error) {
	form := url.Values{}
	form.Set("correo", correo)
	form.Set("contrasena", contrasena)
	return c.PostForm(ctx, "login", PathLogin, form)
}

// Register posts a registration form to one of the candidate account-creation paths
func (c *Client) Register(ctx context.Context, path string, form url.Values) (*Response, error) {
	return c.PostForm(ctx, "register", path, form)
}

// RecoverPassword asks the API to email a password reset link
func (c *Client) RecoverPassword(ctx context.Context, correo string) (*Response, error) {
	form := url.Values{}
	form.Set("correo", correo)
	return c.PostForm(ctx, "recover_password", PathRecover, form)
}

// VerifyAccount submits a one-time verification code for a user
func (c *Client) VerifyAccount(ctx context.Context, userID, code string) (*Response, error) {
	form := url.Values{}
	form.Set("id", userID)
	form.Set("codigo", code)
	return c.PostForm(ctx, "verify_account", PathVerify, form)
}

// SchoolInfo fetches one school by its web code
func (c *Client) SchoolInfo(ctx context.Context, code string) (*Response, error) {
	return c.Get(ctx, "school_info", PathSchoolInfo+url.PathEscape(code))
}

// LinkedSchools fetches the school codes linked to a user
func (c *Client) LinkedSchools(ctx context.Context, userID string) (*Response, error) {
	return c.Get(ctx, "linked_schools", PathLinkedSchools+url.PathEscape(userID))
}

// LinkSchool links a school code to a user
func (c *Client) LinkSchool(ctx context.Context, userID, code string) (*Response, error) {
	form := url.Values{}
	form.Set("id", userID)
	form.Set("codigoweb", code)
	return c.PostForm(ctx, "link_school", PathLinkSchool, form)
}

// PostForm sends a form-encoded POST to path
func (c *Client) PostForm(ctx context.Context, operation, path string, form url.Values) (*Response, error) {
	return c.do(ctx, operation, http.MethodPost, path, form)
}

// Get sends a GET to path
func (c *Client) Get(ctx context.Context, operation, path string) (*Response, error) {
	return c.do(ctx, operation, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, operation, method, path string, form url.Values) (*Response, error) {
	start := time.Now()
	endpoint := c.baseURL + path

	ctx, span := tracing.StartClientSpan(ctx, operation, method, endpoint)

	// Only transport failures count against the breaker; HTTP statuses are answers
	resp, err := circuitbreaker.Execute(c.circuitBreaker, func() (*Response, error) {
		return c.send(ctx, method, endpoint, form)
	})

	duration := metrics.MeasureDuration(start)
	statusCode := 0
	statusLabel := "error"
	logStatus := "error"
	if err == nil {
		statusCode = resp.StatusCode
		statusLabel = strconv.Itoa(resp.StatusCode)
		logStatus = "success"
		if !resp.OK() {
			logStatus = "rejected"
		}
	}

	tracing.EndClientSpan(span, statusCode, err)
	metrics.UpstreamRequestDuration.WithLabelValues(operation, statusLabel).Observe(duration)
	metrics.UpstreamRequestTotal.WithLabelValues(operation, statusLabel).Inc()
	logger.LogAPICall(serviceName, operation, logStatus, duration,
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", statusCode),
		zap.Error(err))

	if err != nil {
		return nil, apperrors.UpstreamError(operation, err)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, form url.Values) (*Response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", c.authorization)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: res.StatusCode,
		Body:       raw,
		Payload:    DecodePayload(raw),
	}, nil
}
