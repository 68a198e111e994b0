package delivery

import (
	"errors"
	"log"
	"net/http"

	authdelivery "jobtrack-backend/internal/auth/delivery"
	authdomain "jobtrack-backend/internal/auth/domain"
	"jobtrack-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
}

func NewSyncHandler(syncUsecase usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{syncUsecase: syncUsecase}
}

type syncRequest struct {
	DocumentID string `json:"documentId"`
}

// Sync runs one inbox-classification pass for the caller. Mode distinguishes
// the legacy and v1 route generations.
func (h *SyncHandler) Sync(mode usecase.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := authdelivery.UserFrom(c)
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}

		// The document id is taken as-is; passes against an unknown or
		// missing document fail downstream at the append step.
		var req syncRequest
		_ = c.ShouldBindJSON(&req)

		result, err := h.syncUsecase.Run(c.Request.Context(), user, req.DocumentID, mode)
		if err != nil {
			switch {
			case errors.Is(err, authdomain.ErrNoGoogleCredentials):
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Error authenticating with Google OAuth client"})
			case errors.Is(err, usecase.ErrClassification):
				log.Printf("[ERROR] Classify text => %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": usecase.ErrClassification.Error()})
			case errors.Is(err, usecase.ErrExtraction):
				c.JSON(http.StatusInternalServerError, gin.H{"message": usecase.ErrExtraction.Error()})
			default:
				log.Printf("[ERROR] Syncing data => %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Error syncing data"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": result.Message, "status": result.Status})
	}
}
