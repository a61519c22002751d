package httpapi

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/phenrril/medwear/internal/domain"
)

// refreshSource exchanges a refresh token for a new access token. The
// refresh call itself carries no bearer header and is never retried.
type refreshSource struct {
	ctx     context.Context
	c       *Client
	refresh string
}

func (c *Client) refreshSource(ctx context.Context, refreshToken string) oauth2.TokenSource {
	return &refreshSource{ctx: ctx, c: c, refresh: refreshToken}
}

func (s *refreshSource) Token() (*oauth2.Token, error) {
	body, err := json.Marshal(map[string]string{"refresh": s.refresh})
	if err != nil {
		return nil, errors.Wrap(err, "encode refresh request")
	}
	resp, err := s.c.send(s.ctx, "POST", refreshPath, nil, body, nil)
	if err != nil {
		return nil, errors.Wrap(err, "refresh token")
	}
	var out struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decode refresh response")
	}
	if out.Access == "" {
		return nil, errors.New("refresh response without access token")
	}
	refresh := out.Refresh
	if refresh == "" {
		refresh = s.refresh
	}
	return domain.NewToken(out.Access, refresh), nil
}
