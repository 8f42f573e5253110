// Package client is a thin HTTP client for the PMO API, shaped around
// the response envelope every endpoint returns.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pmo/tools/loadgen/internal/config"
)

// Envelope mirrors the backend's response wrapper. Data stays raw so
// each caller decodes only the payload it cares about.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

// Result is the outcome of one request.
type Result struct {
	Status  int
	Body    Envelope
	Latency time.Duration
}

// Session is an authenticated identity the generator can issue
// requests as.
type Session struct {
	Token    string
	UserID   string
	Email    string
	Password string
}

// Client issues JSON requests against one backend instance. It is safe
// for concurrent use by many workers.
type Client struct {
	http       *http.Client
	baseURL    string
	apiVersion string
	headers    map[string]string
}

// New builds a client from a profile's target section.
func New(target config.Target) *Client {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "pmo-loadgen/1.0",
	}
	for k, v := range target.Headers {
		headers[k] = v
	}

	return &Client{
		http: &http.Client{
			Timeout: target.Timeout.Std(),
			Transport: &http.Transport{
				MaxIdleConns:        200,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:    strings.TrimRight(target.BaseURL, "/"),
		apiVersion: target.APIVersion,
		headers:    headers,
	}
}

// Do sends one request. path is relative to the versioned API root
// ("/projects", "/tasks/..."). A non-2xx status is not an error; the
// caller inspects Result.Status. Transport failures return err with a
// zero Status so they can be counted separately.
func (c *Client) Do(ctx context.Context, method, path, token string, body any) (Result, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Result{}, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	url := c.baseURL + "/api/" + c.apiVersion + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Result{Latency: latency}, err
	}
	defer resp.Body.Close()

	res := Result{Status: resp.StatusCode, Latency: latency}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return res, fmt.Errorf("read response body: %w", err)
	}
	if len(raw) > 0 {
		// Non-JSON bodies (downloads, plain text) are not a failure,
		// the envelope just stays empty.
		_ = json.Unmarshal(raw, &res.Body)
	}
	return res, nil
}

type authPayload struct {
	Token string `json:"token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

// Register creates an account and returns a live session for it.
func (c *Client) Register(ctx context.Context, email, password, name string) (Session, error) {
	res, err := c.Do(ctx, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	if err != nil {
		return Session{}, err
	}
	return sessionFrom(res, email, password)
}

// Login authenticates existing credentials.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	res, err := c.Do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Session{}, err
	}
	return sessionFrom(res, email, password)
}

func sessionFrom(res Result, email, password string) (Session, error) {
	if res.Status != http.StatusOK {
		return Session{}, fmt.Errorf("auth failed: status %d, code %s: %s", res.Status, res.Body.Code, res.Body.Message)
	}
	var payload authPayload
	if err := json.Unmarshal(res.Body.Data, &payload); err != nil {
		return Session{}, fmt.Errorf("decode auth payload: %w", err)
	}
	if payload.Token == "" {
		return Session{}, fmt.Errorf("auth response carried no token")
	}
	return Session{
		Token:    payload.Token,
		UserID:   payload.User.ID,
		Email:    email,
		Password: password,
	}, nil
}

// ID extracts the "id" field of an envelope's data payload, which is
// how every create endpoint reports the new entity.
func ID(e Envelope) string {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(e.Data, &payload); err != nil {
		return ""
	}
	return payload.ID
}
