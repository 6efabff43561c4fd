package entity

import (
	"time"
)

// UserAccount is the aggregate root for the account directory.
// Username is the natural key and is immutable after creation; password
// material is hashed and salted before it ever reaches this package.
//
// JSON tags exist because accounts are cached as JSON blobs.
type UserAccount struct {
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	DisplayName           string    `json:"display_name"`
	PasswordHash          string    `json:"password_hash"`
	PasswordSalt          string    `json:"password_salt"`
	Role                  string    `json:"role"`
	Enabled               bool      `json:"enabled"`
	AccountNonExpired     bool      `json:"account_non_expired"`
	CredentialsNonExpired bool      `json:"credentials_non_expired"`
	AccountNonLocked      bool      `json:"account_non_locked"`
	ActivationKey         string    `json:"activation_key"`
	ActivationEmailSent   bool      `json:"activation_email_sent"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewUserAccount returns a disabled account with sane defaults for the
// standard flags. The caller supplies a fresh activation key.
func NewUserAccount(username, email, displayName, passwordHash, passwordSalt, role, activationKey string) *UserAccount {
	return &UserAccount{
		Username:              username,
		Email:                 email,
		DisplayName:           displayName,
		PasswordHash:          passwordHash,
		PasswordSalt:          passwordSalt,
		Role:                  role,
		Enabled:               false,
		AccountNonExpired:     true,
		CredentialsNonExpired: true,
		AccountNonLocked:      true,
		ActivationKey:         activationKey,
	}
}
