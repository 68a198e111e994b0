package identity

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseVerifier validates ID tokens through the Firebase Admin SDK.
type FirebaseVerifier struct {
	authClient *auth.Client
}

// NewFirebaseVerifier initializes a Firebase app from the given
// service-account file and returns a token verifier backed by it.
func NewFirebaseVerifier(credentialsFile string) (*FirebaseVerifier, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	log.Println("[Identity] Firebase verifier initialized successfully")
	return &FirebaseVerifier{authClient: authClient}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("invalid id token: %w", err)
	}

	ident := &Identity{Subject: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		ident.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		ident.Name = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		ident.Picture = picture
	}

	return ident, nil
}
