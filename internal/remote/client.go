package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/arjunks/storefront/internal/models"
	"github.com/arjunks/storefront/internal/util"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	refreshPath = "/auth/refresh"
	loginPath   = "/auth/login"
)

// Request describes one remote API call. Body, when non-nil, is encoded
// as JSON.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Client issues calls against the remote data API. It attaches the bearer
// access token it is given, decodes the fixed response envelope and
// classifies failures; it performs no retries of its own.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(cfg *util.RemoteConfig) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}
}

// Do issues the request and returns the envelope on success. Every failure
// comes back as one of the package sentinels or a *CallError; the envelope
// is returned non-nil only when its data may be trusted.
func (c *Client) Do(ctx context.Context, accessToken string, r Request) (*Envelope, error) {
	var body io.Reader
	if r.Body != nil {
		encoded, err := jsonCodec.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	u := c.baseURL + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := jsonCodec.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: status %d", ErrServerError, resp.StatusCode)
		}
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	if err := classify(resp.StatusCode, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// classify maps the transport status and envelope to the failure taxonomy.
// Both levels are checked: the distinguished codes are honored wherever
// they appear, and data is trusted only when both say OK.
func classify(status int, env *Envelope) error {
	switch {
	case status == CodeSessionExpired || env.StatusCode == CodeSessionExpired:
		return ErrSessionExpired
	case status == CodeUnauthenticated || env.StatusCode == CodeUnauthenticated,
		status == http.StatusForbidden || env.StatusCode == http.StatusForbidden:
		return ErrUnauthenticated
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d: %s", ErrServerError, status, env.Message)
	case status != codeOK || !env.Success || env.StatusCode != codeOK:
		return &CallError{StatusCode: env.StatusCode, Message: env.Message}
	}
	return nil
}

// Login exchanges credentials for a fresh token pair.
func (c *Client) Login(ctx context.Context, creds models.LoginRequest) (models.TokenPair, error) {
	env, err := c.Do(ctx, "", Request{Method: http.MethodPost, Path: loginPath, Body: creds})
	if err != nil {
		return models.TokenPair{}, err
	}
	var pair models.TokenPair
	if err := env.Decode(&pair); err != nil {
		return models.TokenPair{}, err
	}
	return pair, nil
}

// Refresh exchanges the refresh token for a new pair. The caller decides
// what a failure means for the session; this method only classifies it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	body := map[string]string{"refresh_token": refreshToken}
	env, err := c.Do(ctx, "", Request{Method: http.MethodPost, Path: refreshPath, Body: body})
	if err != nil {
		return models.TokenPair{}, err
	}
	var pair models.TokenPair
	if err := env.Decode(&pair); err != nil {
		return models.TokenPair{}, err
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return models.TokenPair{}, fmt.Errorf("refresh returned incomplete pair")
	}
	return pair, nil
}
