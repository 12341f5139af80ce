// Package authapi is the HTTP client for the remote staff authentication
// service.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/louagetn/station-client/internal/api/metrics"
	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	headerRequest  = "X-Request-ID"
)

// Client implements ports.AuthClient over HTTP+JSON.
//
// Errors mean no usable answer: transport failures, timeouts, 408, 429, 5xx
// and bodies that are undecodable or lack the success field. A 401 or 403, or
// a body with an explicit {"success":false}, is an answer and comes back as a
// response.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

var _ ports.AuthClient = (*Client)(nil)

// Config holds the client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "auth_client").Logger(),
	}
}

// envelope is a classified answer of an auth endpoint.
type envelope struct {
	Success bool
	Token   string
	Staff   *domain.Identity
	Message string
}

// wireBody is the JSON body as sent. A missing success field is not a denial.
type wireBody struct {
	Success *bool            `json:"success"`
	Token   string           `json:"token"`
	Staff   *domain.Identity `json:"staff"`
	Message string           `json:"message"`
}

func (b wireBody) envelope(success bool) *envelope {
	return &envelope{Success: success, Token: b.Token, Staff: b.Staff, Message: b.Message}
}

type loginRequest struct {
	CIN      string `json:"cin"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, cin, password string) (*ports.LoginResponse, error) {
	body, err := json.Marshal(loginRequest{CIN: cin, Password: password})
	if err != nil {
		return nil, err
	}
	env, err := c.call(ctx, "login", http.MethodPost, "/auth/login", "", body)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResponse{Success: env.Success, Token: env.Token, Staff: env.Staff, Message: env.Message}, nil
}

// Logout is best effort; any non-success answer is reported as an error.
func (c *Client) Logout(ctx context.Context, token string) error {
	env, err := c.call(ctx, "logout", http.MethodPost, "/auth/logout", token, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("logout refused: %s", env.Message)
	}
	return nil
}

func (c *Client) VerifyToken(ctx context.Context, token string) (*ports.VerifyResponse, error) {
	env, err := c.call(ctx, "verify", http.MethodGet, "/auth/verify", token, nil)
	if err != nil {
		return nil, err
	}
	return &ports.VerifyResponse{Success: env.Success, Staff: env.Staff, Message: env.Message}, nil
}

func (c *Client) call(ctx context.Context, op, method, path, token string, body []byte) (*envelope, error) {
	start := time.Now()
	defer func() {
		metrics.RemoteAuthDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(headerRequest, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.With().Str("op", op).Str("request_id", reqID).Logger()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("auth service unreachable")
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTransientNetwork, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %v", domain.ErrTransientNetwork, op, err)
	}
	log.Debug().Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("auth service answered")

	return classify(op, resp.StatusCode, raw)
}

// classify turns a status and body into an envelope or an error. Only 401,
// 403 or a body that carries an explicit success field count as an answer;
// 408, 429 and 5xx are retryable and anything else is malformed.
func classify(op string, status int, raw []byte) (*envelope, error) {
	switch {
	case status >= http.StatusInternalServerError,
		status == http.StatusRequestTimeout,
		status == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s: server status %d", domain.ErrTransientNetwork, op, status)
	}

	var body wireBody
	decodeErr := json.Unmarshal(raw, &body)

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		env := body.envelope(false)
		if decodeErr != nil || env.Message == "" {
			env.Message = http.StatusText(status)
		}
		return env, nil
	}

	switch {
	case decodeErr != nil:
		return nil, errors.Join(fmt.Errorf("%w: %s: status %d", domain.ErrMalformedResponse, op, status), decodeErr)
	case body.Success == nil:
		return nil, fmt.Errorf("%w: %s: status %d without success field", domain.ErrMalformedResponse, op, status)
	case status >= 300 && *body.Success:
		return nil, fmt.Errorf("%w: %s: success body with status %d", domain.ErrMalformedResponse, op, status)
	}
	return body.envelope(*body.Success), nil
}
