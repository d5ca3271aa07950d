package oauth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Identity is the subset of ID token claims the account layer cares about.
type Identity struct {
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	EmailVerified bool   `json:"email_verified"`
}

// Verifier validates a federated ID token and extracts the holder's identity.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

func (g *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, rawToken, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate Google ID token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("Google ID token is missing an email claim")
	}

	identity := &Identity{
		Email: email,
	}
	identity.FirstName, _ = payload.Claims["given_name"].(string)
	identity.LastName, _ = payload.Claims["family_name"].(string)
	identity.EmailVerified, _ = payload.Claims["email_verified"].(bool)

	return identity, nil
}
