package delivery

import (
	"errors"
	"log"
	"net/http"

	authdelivery "jobtrack-backend/internal/auth/delivery"
	authdomain "jobtrack-backend/internal/auth/domain"
	docdto "jobtrack-backend/internal/document/dto"
	"jobtrack-backend/internal/document/usecase"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	docUsecase usecase.DocumentUsecase
}

func NewDocumentHandler(docUsecase usecase.DocumentUsecase) *DocumentHandler {
	return &DocumentHandler{docUsecase: docUsecase}
}

// GetDocument returns all rows of the tracking document matching the slug
// query parameter.
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "slug missing from query parameters"})
		return
	}

	user := authdelivery.UserFrom(c)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		return
	}

	headers, rows, err := h.docUsecase.ReadBySlug(c.Request.Context(), user, slug)
	if err != nil {
		if errors.Is(err, usecase.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Document not found for " + slug})
			return
		}
		log.Printf("[ERROR] Fetching document => %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows, "tracking": headers})
}

// CreateDocument creates a spreadsheet with the requested header columns and
// records it as a tracking document. Mode selects the credential lookup used
// by the legacy and v1 route sets.
func (h *DocumentHandler) CreateDocument(mode authdomain.CredentialMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := authdelivery.UserFrom(c)
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}

		var req docdto.CreateDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if req.Name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Document name is required"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": "Columns are required to create a new sheet"})
			return
		}

		if _, err := h.docUsecase.Create(c.Request.Context(), user, mode, &req); err != nil {
			if errors.Is(err, authdomain.ErrNoGoogleCredentials) {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Error authenticating with Google OAuth client"})
				return
			}
			log.Printf("[ERROR] Creating sheet => %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating sheet documents"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Integration created successfully"})
	}
}

// ListIntegrations returns the caller's tracking documents.
func (h *DocumentHandler) ListIntegrations(c *gin.Context) {
	user := authdelivery.UserFrom(c)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		return
	}

	docs, err := h.docUsecase.ListForUser(user)
	if err != nil {
		log.Printf("[ERROR] Getting sheets => %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error getting user sheets data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"integrations": docs})
}
