package domain

import (
	"encoding/json"
	"time"
)

// Integration is one linked external account. Tokens is an opaque credential
// blob: an OAuth token for "google", a host/username/password login for
// "imap". Uniqueness by provider is not enforced; relinking appends another
// entry and lookups take the first match.
type Integration struct {
	Provider      string          `json:"provider"`
	Tokens        json.RawMessage `json:"tokens"`
	DateInstalled time.Time       `json:"dateInstalled"`
}

type User struct {
	ID        string `json:"id" gorm:"primaryKey"`
	SubjectID string `json:"userId" gorm:"uniqueIndex;not null"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"-"` // Never return password in JSON
	Provider  string `json:"provider"` // "email" or "google"

	// GoogleTokens is the legacy credential blob written by the unversioned
	// auth-redirect route. New links land in Integrations instead.
	GoogleTokens json.RawMessage `json:"googleTokens,omitempty" gorm:"serializer:json"`
	Integrations []Integration   `json:"integrations" gorm:"serializer:json"`

	CreatedAt time.Time `json:"dateCreated"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IntegrationFor returns the first integration for the given provider.
func (u *User) IntegrationFor(provider string) *Integration {
	for i := range u.Integrations {
		if u.Integrations[i].Provider == provider {
			return &u.Integrations[i]
		}
	}
	return nil
}
