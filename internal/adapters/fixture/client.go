package fixture

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/phenrril/medwear/internal/domain"
)

// Client talks to a Backend in process. Bodies go through JSON both ways so
// callers see exactly what the HTTP transport would give them.
type Client struct {
	backend *Backend
	tokens  domain.TokenStore
}

func NewClient(b *Backend, tokens domain.TokenStore) *Client {
	return &Client{backend: b, tokens: tokens}
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
	req := Request{Method: method, Path: path, Query: params}
	if req.Query == nil {
		req.Query = url.Values{}
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s %s", method, path)
		}
		req.Body = b
	}
	if c.tokens != nil {
		if tok, err := c.tokens.Load(); err == nil {
			req.Token = tok.AccessToken
		}
	}

	status, payload := c.backend.Handle(ctx, req)
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encode response %s %s", method, path)
	}
	if status >= http.StatusBadRequest {
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			// not an object: keep the raw body as the detail
			m = map[string]any{"detail": string(data)}
		}
		return nil, domain.NewAPIError(status, m)
	}
	return &domain.APIResponse{Status: status, Data: data}, nil
}
