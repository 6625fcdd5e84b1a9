package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"parksystem-backend/internal/model"
	"parksystem-backend/internal/store"
)

// Service implements registration, sign-in and token refresh on top of the store.
type Service struct {
	store      store.Store
	issuer     *Issuer
	revoker    Revoker
	google     GoogleVerifier
	bcryptCost int
}

// NewService creates the auth service. google may be nil to disable Google sign-in.
func NewService(s store.Store, issuer *Issuer, revoker Revoker, google GoogleVerifier, bcryptCost int) *Service {
	return &Service{store: s, issuer: issuer, revoker: revoker, google: google, bcryptCost: bcryptCost}
}

// Issuer returns the token issuer used by the service.
func (s *Service) Issuer() *Issuer {
	return s.issuer
}

// Register creates a password account.
func (s *Service) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{Username: username, Email: strings.TrimSpace(email), PasswordHash: hash}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks a username and password and returns a token pair.
func (s *Service) Login(ctx context.Context, username, password string) (Pair, *model.User, error) {
	u, err := s.store.UserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return Pair{}, nil, ErrInvalidCredentials
	}
	if err != nil {
		return Pair{}, nil, err
	}
	if err := CheckPassword(u.PasswordHash, password); err != nil {
		return Pair{}, nil, err
	}
	pair, err := s.issuer.Issue(u.ID, u.Username)
	return pair, u, err
}

// GoogleLogin verifies a Google ID token, creating an account for unknown emails.
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (Pair, *model.User, error) {
	if s.google == nil {
		return Pair{}, nil, ErrGoogleDisabled
	}
	id, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return Pair{}, nil, err
	}

	u, err := s.store.UserByEmail(ctx, id.Email)
	if errors.Is(err, store.ErrNotFound) {
		u = &model.User{Username: id.Email, Email: id.Email, FirstName: id.GivenName, LastName: id.FamilyName}
		err = s.store.CreateUser(ctx, u)
		if errors.Is(err, store.ErrUserExists) {
			u.ID = 0
			u.Username = id.Email + "-" + uuid.NewString()[:8]
			err = s.store.CreateUser(ctx, u)
		}
	}
	if err != nil {
		return Pair{}, nil, fmt.Errorf("google sign-in: %w", err)
	}

	pair, err := s.issuer.Issue(u.ID, u.Username)
	return pair, u, err
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.Parse(refreshToken, KindRefresh)
	if err != nil {
		return "", err
	}
	revoked, err := s.revoker.Revoked(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrTokenRevoked
	}
	return s.issuer.Access(claims.UserID, claims.Username)
}

// Logout revokes a refresh token until it expires.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.issuer.Parse(refreshToken, KindRefresh)
	if err != nil {
		return err
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
