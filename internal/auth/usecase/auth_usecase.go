package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	authdomain "jobtrack-backend/internal/auth/domain"
	authdto "jobtrack-backend/internal/auth/dto"
	"jobtrack-backend/internal/auth/repository"
	"jobtrack-backend/pkg/config"
	"jobtrack-backend/pkg/googleauth"
	"jobtrack-backend/pkg/identity"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthUsecase resolves bearer identities and manages account linking.
type AuthUsecase interface {
	// Authenticate issues a local session token for a password account.
	Authenticate(req *authdto.AuthenticateRequest) (*authdto.TokenResponse, error)
	// Register creates a local password account.
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	// ResolveBearer maps a bearer token to an identity and, when one
	// exists, the matching user record. Local session tokens are tried
	// first, then provider ID tokens.
	ResolveBearer(ctx context.Context, token string) (*identity.Identity, *authdomain.User, error)
	// InstallationURL builds the OAuth consent URL for a subject.
	InstallationURL(subjectID string) (string, error)
	// LinkLegacy handles the unversioned redirect: the exchanged tokens
	// land in the user's legacy credential blob.
	LinkLegacy(ctx context.Context, code, state string) error
	// LinkIntegration handles the v1 redirect: the exchanged tokens are
	// appended to the user's integration list.
	LinkIntegration(ctx context.Context, code, state string) error
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	verifier identity.Verifier
	oauth    *googleauth.Service
	config   *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, verifier identity.Verifier, oauth *googleauth.Service, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		verifier: verifier,
		oauth:    oauth,
		config:   cfg,
	}
}

func (u *authUsecase) Authenticate(req *authdto.AuthenticateRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if user == nil || user.Provider != "email" {
		return nil, ErrInvalidCredentials
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return u.generateToken(user)
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Provider: "email",
	}
	// Local accounts are their own identity provider; the record id doubles
	// as the subject.
	user.SubjectID = "local:" + req.Email

	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}

	return u.generateToken(user)
}

func (u *authUsecase) generateToken(user *authdomain.User) (*authdto.TokenResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(u.config.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(u.config.JWTAccessExpiry.Seconds()),
	}, nil
}

func (u *authUsecase) ResolveBearer(ctx context.Context, rawToken string) (*identity.Identity, *authdomain.User, error) {
	// Local session token first.
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(u.config.JWTSecret), nil
	})
	if err == nil && token.Valid {
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, nil, ErrInvalidToken
		}
		sub, _ := claims["sub"].(string)

		user, err := u.userRepo.FindByID(sub)
		if err != nil {
			return nil, nil, err
		}
		if user == nil {
			return nil, nil, ErrInvalidToken
		}

		return &identity.Identity{Subject: user.SubjectID, Email: user.Email, Name: user.Name}, user, nil
	}

	// Otherwise treat it as a provider ID token.
	ident, err := u.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	user, err := u.userRepo.FindBySubject(ident.Subject)
	if err != nil {
		return nil, nil, err
	}

	return ident, user, nil
}

func (u *authUsecase) InstallationURL(subjectID string) (string, error) {
	return u.oauth.AuthorizationURL(subjectID)
}

func (u *authUsecase) LinkLegacy(ctx context.Context, code, state string) error {
	payload, err := googleauth.ParseState(state)
	if err != nil {
		return err
	}

	token, err := u.oauth.Exchange(ctx, code)
	if err != nil {
		return err
	}

	blob, err := json.Marshal(token)
	if err != nil {
		return err
	}

	user, err := u.userRepo.FindBySubject(payload.UserID)
	if err != nil {
		return err
	}

	if user == nil {
		return u.userRepo.Create(&authdomain.User{
			SubjectID:    payload.UserID,
			Provider:     "google",
			GoogleTokens: blob,
		})
	}

	user.GoogleTokens = blob
	return u.userRepo.Update(user)
}

func (u *authUsecase) LinkIntegration(ctx context.Context, code, state string) error {
	payload, err := googleauth.ParseState(state)
	if err != nil {
		return err
	}

	token, err := u.oauth.Exchange(ctx, code)
	if err != nil {
		return err
	}

	blob, err := json.Marshal(token)
	if err != nil {
		return err
	}

	entry := authdomain.Integration{
		Provider:      "google",
		Tokens:        blob,
		DateInstalled: time.Now(),
	}

	user, err := u.userRepo.FindBySubject(payload.UserID)
	if err != nil {
		return err
	}

	if user == nil {
		return u.userRepo.Create(&authdomain.User{
			SubjectID:    payload.UserID,
			Provider:     "google",
			Integrations: []authdomain.Integration{entry},
		})
	}

	// No per-provider dedup: relinking appends another entry.
	user.Integrations = append(user.Integrations, entry)
	return u.userRepo.Update(user)
}
