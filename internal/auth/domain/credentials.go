package domain

import (
	"encoding/json"
	"errors"

	"jobtrack-backend/pkg/imap"

	"golang.org/x/oauth2"
)

// CredentialMode selects how a user's Google credentials are looked up. The
// unversioned routes predate the integration list and read a blob stored
// directly on the user record; the v1 routes scan the integration list.
type CredentialMode int

const (
	CredentialModeLegacy CredentialMode = iota
	CredentialModeIntegrations
)

var ErrNoGoogleCredentials = errors.New("no google credentials linked for user")

// GoogleToken returns the user's stored OAuth token under the given lookup
// strategy.
func (u *User) GoogleToken(mode CredentialMode) (*oauth2.Token, error) {
	var blob json.RawMessage

	switch mode {
	case CredentialModeLegacy:
		blob = u.GoogleTokens
	default:
		if integration := u.IntegrationFor("google"); integration != nil {
			blob = integration.Tokens
		}
	}

	if len(blob) == 0 {
		return nil, ErrNoGoogleCredentials
	}

	var token oauth2.Token
	if err := json.Unmarshal(blob, &token); err != nil {
		return nil, errors.New("stored google credentials are malformed")
	}

	return &token, nil
}

// SetGoogleToken writes a rotated OAuth token back to wherever the current
// lookup strategy found it.
func (u *User) SetGoogleToken(mode CredentialMode, token *oauth2.Token) error {
	blob, err := json.Marshal(token)
	if err != nil {
		return err
	}

	if mode == CredentialModeLegacy {
		u.GoogleTokens = blob
		return nil
	}

	if integration := u.IntegrationFor("google"); integration != nil {
		integration.Tokens = blob
		return nil
	}

	return ErrNoGoogleCredentials
}

// IMAPLogin returns the credentials of an "imap" integration, when linked.
func (u *User) IMAPLogin() (*imap.Login, bool) {
	integration := u.IntegrationFor("imap")
	if integration == nil || len(integration.Tokens) == 0 {
		return nil, false
	}

	var login imap.Login
	if err := json.Unmarshal(integration.Tokens, &login); err != nil {
		return nil, false
	}

	return &login, true
}
