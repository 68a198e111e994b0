package delivery

import (
	"errors"
	"log"
	"net/http"

	authdto "jobtrack-backend/internal/auth/dto"
	"jobtrack-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req authdto.AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	tokens, err := h.authUsecase.Authenticate(&req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}
		log.Printf("[ERROR] Authenticating => %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error authenticating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Authentication successful", "data": tokens})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email, password and name are required"})
		return
	}

	tokens, err := h.authUsecase.Register(&req)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		log.Printf("[ERROR] Registering => %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tokens})
}

// Installation returns the OAuth consent URL for the caller.
func (h *AuthHandler) Installation(c *gin.Context) {
	ident := IdentityFrom(c)
	if ident == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User not found."})
		return
	}

	authURL, err := h.authUsecase.InstallationURL(ident.Subject)
	if err != nil {
		log.Printf("[ERROR] Installing => %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error building authorization URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": authURL})
}

// AuthRedirect handles the legacy OAuth redirect: credentials are stored on
// the user record's legacy token blob.
func (h *AuthHandler) AuthRedirect(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" && state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Request missing auth code and state"})
		return
	}

	if err := h.authUsecase.LinkLegacy(c.Request.Context(), code, state); err != nil {
		log.Printf("[ERROR] Getting redirect => %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error connecting accounts. Please try again later."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Accounts have been successfully connected!"})
}

// AuthRedirectV1 handles the versioned OAuth redirect: credentials are
// appended to the user's integration list.
func (h *AuthHandler) AuthRedirectV1(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" && state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Request missing auth code and state"})
		return
	}

	if err := h.authUsecase.LinkIntegration(c.Request.Context(), code, state); err != nil {
		log.Printf("[ERROR] Getting redirect => %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error connecting accounts. Please try again later."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Accounts have been successfully connected!"})
}

// Me returns the caller's user record.
func (h *AuthHandler) Me(c *gin.Context) {
	user := UserFrom(c)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
