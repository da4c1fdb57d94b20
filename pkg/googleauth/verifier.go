package googleauth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

// ErrVerification covers every credential failure: bad signature, wrong
// audience or issuer, expired token, missing claims. Callers treat all of
// them uniformly as "unauthenticated".
var ErrVerification = errors.New("google credential verification failed")

// Identity is the verified identity tuple extracted from a Google ID token.
type Identity struct {
	GoogleID string
	Email    string
	Name     string
}

// Verifier validates an opaque OAuth credential and returns the verified
// identity. Implemented against Google's tokeninfo keys in production and
// faked in tests.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// IDTokenVerifier validates Google ID tokens against the configured OAuth
// client id.
type IDTokenVerifier struct {
	clientID string
}

func NewVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{clientID: clientID}
}

func (v *IDTokenVerifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, ErrVerification
	}
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return nil, ErrVerification
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if payload.Subject == "" || email == "" {
		return nil, ErrVerification
	}
	return &Identity{GoogleID: payload.Subject, Email: email, Name: name}, nil
}

var _ Verifier = (*IDTokenVerifier)(nil)
