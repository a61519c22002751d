package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/phenrril/medwear/internal/domain"
)

const (
	refreshPath  = "/auth/token/refresh/"
	maxBodyBytes = 10 << 20
)

// Client is the HTTP transport to the storefront API. It injects the bearer
// token, refreshes an expired one before sending, and on a 401 refreshes
// once and retries the request once.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     domain.TokenStore
}

func New(baseURL string, timeout time.Duration, tokens domain.TokenStore) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) (*domain.APIResponse, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*domain.APIResponse, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*domain.APIResponse, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*domain.APIResponse, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) (*domain.APIResponse, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s %s", method, path)
		}
		payload = b
	}

	tok := c.currentToken(ctx)
	resp, err := c.send(ctx, method, path, params, payload, tok)
	if err == nil || !errors.Is(err, domain.ErrUnauthorized) {
		return resp, err
	}

	if tok == nil || tok.RefreshToken == "" {
		c.clearTokens()
		return nil, err
	}
	fresh, rerr := c.refresh(ctx, tok.RefreshToken)
	if rerr != nil {
		log.Warn().Err(rerr).Str("path", path).Msg("token refresh failed")
		c.clearTokens()
		return nil, err
	}
	return c.send(ctx, method, path, params, payload, fresh)
}

// currentToken returns the stored token, refreshed first when it has
// expired. Refresh failures here are left for the 401 path to handle.
func (c *Client) currentToken(ctx context.Context) *oauth2.Token {
	if c.tokens == nil {
		return nil
	}
	tok, err := c.tokens.Load()
	if err != nil {
		return nil
	}
	if tok.Valid() || tok.RefreshToken == "" {
		return tok
	}
	fresh, err := c.refresh(ctx, tok.RefreshToken)
	if err != nil {
		log.Debug().Err(err).Msg("proactive refresh failed")
		return tok
	}
	return fresh
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	fresh, err := c.refreshSource(ctx, refreshToken).Token()
	if err != nil {
		return nil, err
	}
	c.saveToken(fresh)
	return fresh, nil
}

func (c *Client) saveToken(tok *oauth2.Token) {
	if err := c.tokens.Save(tok); err != nil {
		log.Warn().Err(err).Msg("save refreshed token")
	}
}

func (c *Client) clearTokens() {
	if c.tokens == nil {
		return
	}
	if err := c.tokens.Clear(); err != nil {
		log.Warn().Err(err).Msg("clear tokens")
	}
}

func (c *Client) send(ctx context.Context, method, path string, params url.Values, payload []byte, tok *oauth2.Token) (*domain.APIResponse, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if tok != nil && tok.AccessToken != "" {
		tok.SetAuthHeader(req)
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s %s", method, path)
	}
	log.Debug().Str("method", method).Str("path", path).Int("status", res.StatusCode).Dur("took", time.Since(start)).Msg("api call")

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(res.StatusCode, data)
	}
	return &domain.APIResponse{Status: res.StatusCode, Data: data}, nil
}

// decodeError keeps the JSON error body as the payload; anything else
// becomes the detail text.
func decodeError(status int, data []byte) error {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil || payload == nil {
		payload = map[string]any{}
		if text := strings.TrimSpace(string(data)); text != "" {
			payload["detail"] = text
		}
	}
	return domain.NewAPIError(status, payload)
}
