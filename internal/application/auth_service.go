package application

import (
	"context"
	"errors"
)

// AuthorizationView is the projection of an account handed to the external
// authentication layer. Built at lookup time, never stored.
type AuthorizationView struct {
	Username              string
	Email                 string
	DisplayName           string
	PasswordHash          string
	PasswordSalt          string
	Enabled               bool
	AccountNonExpired     bool
	CredentialsNonExpired bool
	AccountNonLocked      bool
	Authorities           []string
}

// Authenticator is a thin facade over the directory: it owns no state and
// only reshapes accounts for the authentication layer.
type Authenticator struct {
	Directory *Directory
}

func NewAuthenticator(dir *Directory) *Authenticator {
	return &Authenticator{Directory: dir}
}

// LoadUserByUsername resolves the authorization view for a username. An
// unknown username is reported as ErrSubjectNotFound so the caller can
// surface it as an authentication failure rather than a system error.
func (a *Authenticator) LoadUserByUsername(ctx context.Context, username string) (*AuthorizationView, error) {
	u, err := a.Directory.LookupByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return &AuthorizationView{
		Username:              u.Username,
		Email:                 u.Email,
		DisplayName:           u.DisplayName,
		PasswordHash:          u.PasswordHash,
		PasswordSalt:          u.PasswordSalt,
		Enabled:               u.Enabled,
		AccountNonExpired:     u.AccountNonExpired,
		CredentialsNonExpired: u.CredentialsNonExpired,
		AccountNonLocked:      u.AccountNonLocked,
		Authorities:           []string{u.Role},
	}, nil
}
