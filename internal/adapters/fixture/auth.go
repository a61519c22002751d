package fixture

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/phenrril/medwear/internal/domain"
)

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"

	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

func (b *Backend) issue(audience string, ttl time.Duration) (string, error) {
	now := b.opts.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(b.user.ID, 10),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.opts.Secret)
}

func (b *Backend) verify(raw, audience string) (*jwt.RegisteredClaims, error) {
	if raw == "" {
		return nil, errors.New("missing token")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return b.opts.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(b.opts.Now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "verify token")
	}
	return claims, nil
}

func (b *Backend) routeAuth(req Request, rest []string) (int, any) {
	if req.Method != http.MethodPost || len(rest) == 0 {
		return methodNotAllowed()
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch rest[0] {
	case "login":
		var c domain.Credentials
		if err := json.Unmarshal(req.Body, &c); err != nil || c.Email == "" || c.Password == "" {
			return badRequest("Invalid credentials")
		}
		access, err := b.issue(audienceAccess, accessTTL)
		if err != nil {
			return http.StatusInternalServerError, detail("Could not issue token")
		}
		refresh, err := b.issue(audienceRefresh, refreshTTL)
		if err != nil {
			return http.StatusInternalServerError, detail("Could not issue token")
		}
		u := b.user
		return http.StatusOK, domain.AuthResult{Access: access, Refresh: refresh, User: &u}

	case "register":
		var r domain.Registration
		if err := json.Unmarshal(req.Body, &r); err != nil || r.Email == "" || r.Password == "" {
			return badRequest("Email and password are required")
		}
		u := domain.User{
			ID:         b.opts.Now().UnixMilli(),
			Email:      r.Email,
			FirstName:  r.FirstName,
			LastName:   r.LastName,
			Profession: r.Profession,
			Workplace:  r.Workplace,
			DateJoined: b.opts.Now().UTC(),
			Addresses:  []domain.Address{},
		}
		return http.StatusCreated, map[string]any{"message": "Registration successful", "user": u}

	case "logout":
		return http.StatusOK, map[string]string{"message": "Logged out"}

	case "token":
		if len(rest) < 2 || rest[1] != "refresh" {
			return http.StatusNotFound, detail("Not found.")
		}
		var body struct {
			Refresh string `json:"refresh"`
		}
		if err := json.Unmarshal(req.Body, &body); err != nil || body.Refresh == "" {
			return badRequest("Refresh token is required")
		}
		if _, err := b.verify(body.Refresh, audienceRefresh); err != nil {
			return http.StatusUnauthorized, detail("Token is invalid or expired")
		}
		access, err := b.issue(audienceAccess, accessTTL)
		if err != nil {
			return http.StatusInternalServerError, detail("Could not issue token")
		}
		return http.StatusOK, map[string]string{"access": access}
	}
	return http.StatusNotFound, detail("Not found.")
}
