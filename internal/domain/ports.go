package domain

import (
	"context"
	"encoding/json"
	"net/url"

	"golang.org/x/oauth2"
)

// APIResponse is a successful remote response; Data is the raw JSON payload.
type APIResponse struct {
	Status int
	Data   json.RawMessage
}

func (r *APIResponse) Decode(v any) error {
	if r == nil || len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// APIClient is the boundary to the remote product/order/user service.
// Failures are returned as *APIError whenever the remote answered.
type APIClient interface {
	Get(ctx context.Context, path string, params url.Values) (*APIResponse, error)
	Post(ctx context.Context, path string, body any) (*APIResponse, error)
	Patch(ctx context.Context, path string, body any) (*APIResponse, error)
	Delete(ctx context.Context, path string) (*APIResponse, error)
}

// TokenStore is the durable client storage of the access/refresh pair.
// Load returns ErrNotFound when nothing is stored.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(tok *oauth2.Token) error
	Clear() error
}
