package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Identity is a resolved user: a stable id and a display name
type Identity struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// Provider resolves sign-in requests to identities. The real provider
// flow is external; the engine only consumes its result.
type Provider interface {
	Resolve(ctx context.Context, userID, displayName string) (Identity, error)
}

// DevProvider accepts any credentials, minting an id when none is
// given. It stands in for a real identity provider in development and
// local-only mode.
type DevProvider struct{}

// NewDevProvider creates a DevProvider
func NewDevProvider() *DevProvider {
	return &DevProvider{}
}

// Resolve returns the given identity, filling in missing fields
func (p *DevProvider) Resolve(ctx context.Context, userID, displayName string) (Identity, error) {
	if userID == "" {
		userID = uuid.NewString()
	}
	if displayName == "" {
		displayName = fmt.Sprintf("Player-%.8s", userID)
	}
	return Identity{UserID: userID, DisplayName: displayName}, nil
}
