// Package googleauth holds the OAuth2 plumbing shared by the Gmail and
// Sheets services.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// SpreadsheetScopes are requested when a user links their Google account.
var SpreadsheetScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive.file",
	"https://www.googleapis.com/auth/gmail.readonly",
}

// TokenUpdateFunc is called when the underlying token source rotates the
// access token, so the refreshed credentials can be persisted.
type TokenUpdateFunc func(token *oauth2.Token) error

// StatePayload is round-tripped through the OAuth redirect.
type StatePayload struct {
	UserID string `json:"userId"`
}

type Service struct {
	clientID     string
	clientSecret string
	redirectURI  string
}

func NewService(clientID, clientSecret, redirectURI string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
	}
}

func (s *Service) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		RedirectURL:  s.redirectURI,
		Scopes:       SpreadsheetScopes,
		Endpoint:     google.Endpoint,
	}
}

// AuthorizationURL builds the consent URL for a user. The user id travels in
// the state parameter and comes back on the redirect.
func (s *Service) AuthorizationURL(userID string) (string, error) {
	state, err := json.Marshal(StatePayload{UserID: userID})
	if err != nil {
		return "", err
	}

	return s.oauthConfig().AuthCodeURL(
		string(state),
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// ParseState decodes the state payload returned by the redirect.
func ParseState(state string) (*StatePayload, error) {
	var payload StatePayload
	if err := json.Unmarshal([]byte(state), &payload); err != nil {
		return nil, fmt.Errorf("invalid oauth state: %w", err)
	}
	return &payload, nil
}

// Exchange trades an authorization code for tokens.
func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange authorization code: %w", err)
	}
	return token, nil
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("[WARN] Failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

// Client returns an HTTP client authenticated with the stored token. A
// refresh token forces an immediate refresh check so stale access tokens are
// rotated before the first API call.
func (s *Service) Client(ctx context.Context, token *oauth2.Token, onTokenRefresh TokenUpdateFunc) *http.Client {
	if token.RefreshToken != "" {
		token.Expiry = time.Now()
	}

	cfg := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	wrapped := &notifyTokenSource{
		src:      cfg.TokenSource(ctx, token),
		current:  token,
		callback: onTokenRefresh,
	}

	return oauth2.NewClient(ctx, wrapped)
}
