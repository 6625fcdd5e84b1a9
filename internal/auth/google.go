package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// ErrGoogleDisabled is returned when Google sign-in is not configured.
var ErrGoogleDisabled = errors.New("google sign-in is not configured")

// GoogleIdentity is the verified identity from a Google ID token.
type GoogleIdentity struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
}

// GoogleVerifier checks Google ID tokens.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// IDTokenVerifier validates tokens against Google's public keys for one OAuth client.
type IDTokenVerifier struct {
	clientID string
}

func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{clientID: clientID}
}

func (v *IDTokenVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identityFromClaims(payload.Subject, payload.Claims)
}

func identityFromClaims(subject string, claims map[string]any) (*GoogleIdentity, error) {
	str := func(key string) string {
		s, _ := claims[key].(string)
		return s
	}
	id := &GoogleIdentity{
		Subject:    subject,
		Email:      str("email"),
		GivenName:  str("given_name"),
		FamilyName: str("family_name"),
	}
	if id.Email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrInvalidToken)
	}
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidToken)
	}
	return id, nil
}
