package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/medwear/internal/domain"
)

const SliceUser = "user"

type UserRequests struct {
	Login    domain.Request
	Register domain.Request
	Profile  domain.Request
	Update   domain.Request
	Password domain.Request
	Wishlist domain.Request
}

type UserState struct {
	CurrentUser     *domain.User
	IsAuthenticated bool
	Token           string
	Wishlist        []domain.WishlistItem
	Loading         bool
	Error           string
	LoginError      string
	RegisterError   string
	Requests        UserRequests
}

// UserUC is the session: authentication, profile and wishlist.
type UserUC struct {
	api    domain.APIClient
	tokens domain.TokenStore
	s      store[UserState]
}

// NewUserUC picks up a previously stored access token but does not mark the
// session authenticated; RestoreSession does that.
func NewUserUC(api domain.APIClient, tokens domain.TokenStore, notify Notifier) *UserUC {
	st := UserState{Wishlist: []domain.WishlistItem{}}
	if tok, err := tokens.Load(); err == nil && tok.AccessToken != "" {
		st.Token = tok.AccessToken
	}
	return &UserUC{
		api:    api,
		tokens: tokens,
		s:      store[UserState]{name: SliceUser, notify: notify, state: st},
	}
}

func (uc *UserUC) Snapshot() UserState {
	var out UserState
	uc.s.read(func(st *UserState) {
		out = *st
		out.Wishlist = domain.CloneAll(st.Wishlist)
		out.CurrentUser = domain.ClonePtr(st.CurrentUser)
	})
	return out
}

func (uc *UserUC) IsAuthenticated() bool {
	var ok bool
	uc.s.read(func(st *UserState) { ok = st.IsAuthenticated })
	return ok
}

func (uc *UserUC) clearTokens() {
	if err := uc.tokens.Clear(); err != nil {
		log.Warn().Err(err).Msg("clear tokens")
	}
}

func (uc *UserUC) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return dispatch(&uc.s, lifecycle[UserState, *domain.AuthResult]{
		op:       "loginUser",
		fallback: "Login failed",
		pending: func(st *UserState) {
			st.Loading, st.LoginError = true, ""
			st.Requests.Login = domain.Pending()
		},
		fulfilled: func(st *UserState, res *domain.AuthResult) {
			st.Loading = false
			st.IsAuthenticated = true
			st.Token = res.Access
			st.CurrentUser = domain.ClonePtr(res.User)
			st.LoginError = ""
			st.Requests.Login = domain.Fulfilled()
		},
		rejected: func(st *UserState, msg string) {
			st.Loading, st.LoginError = false, msg
			st.IsAuthenticated = false
			st.Token = ""
			st.Requests.Login = domain.Rejected(msg)
		},
	}, func() (*domain.AuthResult, error) {
		res, err := decodeOne[domain.AuthResult](uc.api.Post(ctx, "/auth/login/", domain.Credentials{Email: email, Password: password}))
		if err != nil {
			return nil, err
		}
		if err := uc.tokens.Save(domain.NewToken(res.Access, res.Refresh)); err != nil {
			return nil, fmt.Errorf("save tokens: %w", err)
		}
		return res, nil
	})
}

// Register creates an account. It does not log the user in.
func (uc *UserUC) Register(ctx context.Context, reg domain.Registration) error {
	_, err := dispatch(&uc.s, lifecycle[UserState, struct{}]{
		op:       "registerUser",
		fallback: "Registration failed",
		pending: func(st *UserState) {
			st.Loading, st.RegisterError = true, ""
			st.Requests.Register = domain.Pending()
		},
		fulfilled: func(st *UserState, _ struct{}) {
			st.Loading, st.RegisterError = false, ""
			st.Requests.Register = domain.Fulfilled()
		},
		rejected: func(st *UserState, msg string) {
			st.Loading, st.RegisterError = false, msg
			st.Requests.Register = domain.Rejected(msg)
		},
	}, func() (struct{}, error) {
		_, err := uc.api.Post(ctx, "/auth/register/", reg)
		return struct{}{}, err
	})
	return err
}

// Logout always ends the local session; a failing remote logout is only
// logged.
func (uc *UserUC) Logout(ctx context.Context) {
	if _, err := uc.api.Post(ctx, "/auth/logout/", nil); err != nil {
		log.Warn().Err(err).Msg("remote logout failed")
	}
	uc.clearTokens()
	uc.s.update(func(st *UserState) {
		st.CurrentUser = nil
		st.IsAuthenticated = false
		st.Token = ""
		st.Wishlist = []domain.WishlistItem{}
	})
}

// ClearAuth drops the local session without talking to the server.
func (uc *UserUC) ClearAuth() {
	uc.clearTokens()
	uc.s.update(func(st *UserState) {
		st.CurrentUser = nil
		st.IsAuthenticated = false
		st.Token = ""
		st.Wishlist = []domain.WishlistItem{}
	})
}

// RestoreSession marks the session authenticated when the token store holds
// an access token.
func (uc *UserUC) RestoreSession() bool {
	tok, err := uc.tokens.Load()
	if err != nil || tok.AccessToken == "" {
		return false
	}
	uc.s.update(func(st *UserState) {
		st.Token = tok.AccessToken
		st.IsAuthenticated = true
	})
	return true
}

func (uc *UserUC) ClearErrors() {
	uc.s.update(func(st *UserState) {
		st.Error, st.LoginError, st.RegisterError = "", "", ""
	})
}

// FetchProfile loads the profile. An unauthorized answer ends the session.
func (uc *UserUC) FetchProfile(ctx context.Context) (*domain.User, error) {
	u, err := dispatch(&uc.s, lifecycle[UserState, *domain.User]{
		op:       "fetchUserProfile",
		fallback: "Failed to fetch profile",
		pending: func(st *UserState) {
			st.Loading = true
			st.Requests.Profile = domain.Pending()
		},
		fulfilled: func(st *UserState, u *domain.User) {
			st.Loading = false
			st.CurrentUser = domain.ClonePtr(u)
			st.IsAuthenticated = true
			st.Requests.Profile = domain.Fulfilled()
		},
		rejected: func(st *UserState, msg string) {
			st.Loading, st.Error = false, msg
			st.Requests.Profile = domain.Rejected(msg)
		},
	}, func() (*domain.User, error) {
		return decodeOne[domain.User](uc.api.Get(ctx, "/users/profile/", nil))
	})
	if errors.Is(err, domain.ErrUnauthorized) {
		uc.ClearAuth()
	}
	return u, err
}

// UpdateProfile sends a partial profile and merges the server's answer over
// the current user field by field.
func (uc *UserUC) UpdateProfile(ctx context.Context, patch map[string]any) (*domain.User, error) {
	_, err := dispatch(&uc.s, lifecycle[UserState, json.RawMessage]{
		op:       "updateUserProfile",
		fallback: "Failed to update profile",
		pending: func(st *UserState) {
			st.Loading = true
			st.Requests.Update = domain.Pending()
		},
		fulfilled: func(st *UserState, raw json.RawMessage) {
			st.Loading = false
			var cur domain.User
			if st.CurrentUser != nil {
				cur = st.CurrentUser.Clone()
			}
			merged, err := domain.MergeJSON(cur, raw)
			if err != nil {
				log.Warn().Err(err).Msg("merge profile")
			}
			st.CurrentUser = &merged
			st.Requests.Update = domain.Fulfilled()
		},
		rejected: func(st *UserState, msg string) {
			st.Loading, st.Error = false, msg
			st.Requests.Update = domain.Rejected(msg)
		},
	}, func() (json.RawMessage, error) {
		resp, err := uc.api.Patch(ctx, "/users/profile/", patch)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
	if err != nil {
		return nil, err
	}
	return uc.Snapshot().CurrentUser, nil
}

func (uc *UserUC) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	_, err := dispatch(&uc.s, lifecycle[UserState, struct{}]{
		op:       "changePassword",
		fallback: "Failed to change password",
		pending: func(st *UserState) {
			st.Loading = true
			st.Requests.Password = domain.Pending()
		},
		fulfilled: func(st *UserState, _ struct{}) {
			st.Loading, st.Error = false, ""
			st.Requests.Password = domain.Fulfilled()
		},
		rejected: func(st *UserState, msg string) {
			st.Loading, st.Error = false, msg
			st.Requests.Password = domain.Rejected(msg)
		},
	}, func() (struct{}, error) {
		_, err := uc.api.Post(ctx, "/users/password/change/", domain.PasswordChange{OldPassword: oldPassword, NewPassword: newPassword})
		return struct{}{}, err
	})
	return err
}

func wishlistRejected(st *UserState, msg string) {
	st.Error = msg
	st.Requests.Wishlist = domain.Rejected(msg)
}

func (uc *UserUC) FetchWishlist(ctx context.Context) ([]domain.WishlistItem, error) {
	return dispatch(&uc.s, lifecycle[UserState, []domain.WishlistItem]{
		op:       "fetchWishlist",
		fallback: "Failed to fetch wishlist",
		pending:  func(st *UserState) { st.Requests.Wishlist = domain.Pending() },
		fulfilled: func(st *UserState, items []domain.WishlistItem) {
			st.Wishlist = domain.CloneAll(items)
			st.Requests.Wishlist = domain.Fulfilled()
		},
		rejected: wishlistRejected,
	}, func() ([]domain.WishlistItem, error) {
		resp, err := uc.api.Get(ctx, "/wishlist/", nil)
		if err != nil {
			return nil, err
		}
		items, _, err := domain.DecodeList[domain.WishlistItem](resp.Data)
		return items, err
	})
}

// AddToWishlist appends the entry the server created.
func (uc *UserUC) AddToWishlist(ctx context.Context, productID int64) (*domain.WishlistItem, error) {
	return dispatch(&uc.s, lifecycle[UserState, *domain.WishlistItem]{
		op:       "addToWishlist",
		fallback: "Failed to add to wishlist",
		pending:  func(st *UserState) { st.Requests.Wishlist = domain.Pending() },
		fulfilled: func(st *UserState, item *domain.WishlistItem) {
			st.Wishlist = append(st.Wishlist, item.Clone())
			st.Requests.Wishlist = domain.Fulfilled()
		},
		rejected: wishlistRejected,
	}, func() (*domain.WishlistItem, error) {
		return decodeOne[domain.WishlistItem](uc.api.Post(ctx, "/wishlist/", map[string]int64{"product_id": productID}))
	})
}

// RemoveFromWishlist deletes a wishlist entry by its own id, not the
// product's.
func (uc *UserUC) RemoveFromWishlist(ctx context.Context, itemID int64) error {
	_, err := dispatch(&uc.s, lifecycle[UserState, int64]{
		op:       "removeFromWishlist",
		fallback: "Failed to remove from wishlist",
		pending:  func(st *UserState) { st.Requests.Wishlist = domain.Pending() },
		fulfilled: func(st *UserState, id int64) {
			st.Wishlist = slices.DeleteFunc(st.Wishlist, func(w domain.WishlistItem) bool { return w.ID == id })
			st.Requests.Wishlist = domain.Fulfilled()
		},
		rejected: wishlistRejected,
	}, func() (int64, error) {
		_, err := uc.api.Delete(ctx, fmt.Sprintf("/wishlist/%d/", itemID))
		return itemID, err
	})
	return err
}
