// Package identity verifies bearer ID tokens and resolves them to an
// identity-provider subject.
package identity

import "context"

// Identity is the verified subject of a bearer token.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// Verifier validates an ID token issued by the identity provider.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}
