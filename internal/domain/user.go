package domain

import (
	"time"
)

type Preferences struct {
	Newsletter       bool `json:"newsletter"`
	SMSNotifications bool `json:"smsNotifications"`
	OrderUpdates     bool `json:"orderUpdates"`
}

type User struct {
	ID          int64       `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Profession  string      `json:"profession"`
	Workplace   string      `json:"workplace"`
	Phone       string      `json:"phone"`
	DateJoined  time.Time   `json:"dateJoined"`
	IsVerified  bool        `json:"isVerified"`
	Preferences Preferences `json:"preferences"`
	Addresses   []Address   `json:"addresses"`
}

// DefaultAddress returns the address of the given type marked as default.
func (u User) DefaultAddress(kind string) (Address, bool) {
	for _, a := range u.Addresses {
		if a.Type == kind && a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Profession string `json:"profession,omitempty"`
	Workplace  string `json:"workplace,omitempty"`
}

type PasswordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AuthResult is the payload of POST /auth/login/.
type AuthResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user"`
}

type WishlistItem struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Product   *Product `json:"product,omitempty"`
}
