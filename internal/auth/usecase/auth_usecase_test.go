package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	authdomain "jobtrack-backend/internal/auth/domain"
	authdto "jobtrack-backend/internal/auth/dto"
	"jobtrack-backend/pkg/config"
	"jobtrack-backend/pkg/googleauth"
	"jobtrack-backend/pkg/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUserRepo struct {
	users map[string]*authdomain.User
	seq   int
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*authdomain.User)}
}

func (r *memoryUserRepo) Create(user *authdomain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) FindByID(id string) (*authdomain.User, error) {
	return r.users[id], nil
}

func (r *memoryUserRepo) FindBySubject(subjectID string) (*authdomain.User, error) {
	for _, user := range r.users {
		if user.SubjectID == subjectID {
			return user, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) Update(user *authdomain.User) error {
	r.users[user.ID] = user
	return nil
}

type stubVerifier struct {
	identity *identity.Identity
	err      error
}

func (v *stubVerifier) Verify(context.Context, string) (*identity.Identity, error) {
	return v.identity, v.err
}

func newTestUsecase(repo *memoryUserRepo, verifier identity.Verifier) AuthUsecase {
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTAccessExpiry: time.Hour,
	}
	oauth := googleauth.NewService("client-id", "client-secret", "http://localhost/redirect")
	return NewAuthUsecase(repo, verifier, oauth, cfg)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := newMemoryUserRepo()
	u := newTestUsecase(repo, &stubVerifier{err: errors.New("not an id token")})

	registered, err := u.Register(&authdto.RegisterRequest{
		Email:    "dev@example.com",
		Password: "hunter22",
		Name:     "Dev",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "Bearer", registered.TokenType)

	stored, err := repo.FindByEmail("dev@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "email", stored.Provider)
	assert.Equal(t, "local:dev@example.com", stored.SubjectID)
	assert.NotEqual(t, "hunter22", stored.Password)

	authenticated, err := u.Authenticate(&authdto.AuthenticateRequest{
		Email:    "dev@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, authenticated.AccessToken)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newMemoryUserRepo()
	u := newTestUsecase(repo, &stubVerifier{})

	_, err := u.Register(&authdto.RegisterRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = u.Register(&authdto.RegisterRequest{Email: "dev@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	repo := newMemoryUserRepo()
	u := newTestUsecase(repo, &stubVerifier{})

	_, err := u.Register(&authdto.RegisterRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = u.Authenticate(&authdto.AuthenticateRequest{Email: "dev@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = u.Authenticate(&authdto.AuthenticateRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRejectsProviderAccounts(t *testing.T) {
	repo := newMemoryUserRepo()
	require.NoError(t, repo.Create(&authdomain.User{
		Email:     "dev@example.com",
		Provider:  "google",
		SubjectID: "google-sub",
	}))
	u := newTestUsecase(repo, &stubVerifier{})

	_, err := u.Authenticate(&authdto.AuthenticateRequest{Email: "dev@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveBearerAcceptsSessionToken(t *testing.T) {
	repo := newMemoryUserRepo()
	u := newTestUsecase(repo, &stubVerifier{err: errors.New("not an id token")})

	registered, err := u.Register(&authdto.RegisterRequest{
		Email:    "dev@example.com",
		Password: "hunter22",
		Name:     "Dev",
	})
	require.NoError(t, err)

	ident, user, err := u.ResolveBearer(context.Background(), registered.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "local:dev@example.com", ident.Subject)
	assert.Equal(t, "dev@example.com", ident.Email)
	assert.Equal(t, user.SubjectID, ident.Subject)
}

func TestResolveBearerFallsBackToProviderToken(t *testing.T) {
	repo := newMemoryUserRepo()
	require.NoError(t, repo.Create(&authdomain.User{
		Email:     "dev@example.com",
		Provider:  "google",
		SubjectID: "google-sub",
	}))
	u := newTestUsecase(repo, &stubVerifier{
		identity: &identity.Identity{Subject: "google-sub", Email: "dev@example.com"},
	})

	ident, user, err := u.ResolveBearer(context.Background(), "opaque-provider-token")
	require.NoError(t, err)
	assert.Equal(t, "google-sub", ident.Subject)
	require.NotNil(t, user)
	assert.Equal(t, "dev@example.com", user.Email)
}

func TestResolveBearerProviderTokenWithoutUser(t *testing.T) {
	repo := newMemoryUserRepo()
	u := newTestUsecase(repo, &stubVerifier{
		identity: &identity.Identity{Subject: "fresh-sub", Email: "new@example.com"},
	})

	// A verified identity with no stored user is not an error: the caller
	// decides whether the route needs a full account.
	ident, user, err := u.ResolveBearer(context.Background(), "opaque-provider-token")
	require.NoError(t, err)
	assert.Equal(t, "fresh-sub", ident.Subject)
	assert.Nil(t, user)
}

func TestResolveBearerRejectsGarbage(t *testing.T) {
	repo := newMemoryUserRepo()
	u := newTestUsecase(repo, &stubVerifier{err: errors.New("invalid token")})

	_, _, err := u.ResolveBearer(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
