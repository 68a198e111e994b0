package api

import (
	"net/http"

	"jobtrack-backend/internal/auth/delivery"
	authdomain "jobtrack-backend/internal/auth/domain"
	authUsecase "jobtrack-backend/internal/auth/usecase"
	docDelivery "jobtrack-backend/internal/document/delivery"
	docUsecasePkg "jobtrack-backend/internal/document/usecase"
	syncDelivery "jobtrack-backend/internal/sync/delivery"
	syncUsecasePkg "jobtrack-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, docUc docUsecasePkg.DocumentUsecase, syncUc syncUsecasePkg.SyncUsecase) {
	authHandler := delivery.NewAuthHandler(authUc)
	docHandler := docDelivery.NewDocumentHandler(docUc)
	syncHandler := syncDelivery.NewSyncHandler(syncUc)

	authRequired := delivery.AuthMiddleware(authUc)

	// Index and liveness (no auth required)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Job application tracker API"})
	})
	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Local password sessions
	r.POST("/authenticate", authHandler.Authenticate)
	r.POST("/register", authHandler.Register)

	// Legacy routes: credentials live on the user record's token blob.
	r.GET("/auth-redirect", authHandler.AuthRedirect)
	r.POST("/installation", authRequired, authHandler.Installation)
	r.GET("/user", authRequired, authHandler.Me)
	r.GET("/integrate", authRequired, docHandler.ListIntegrations)
	r.POST("/integrate", authRequired, docHandler.CreateDocument(authdomain.CredentialModeLegacy))
	r.POST("/sync", authRequired, syncHandler.Sync(syncUsecasePkg.ModeLegacy))

	// v1 routes: credentials live in the integration list.
	v1 := r.Group("/v1")
	{
		user := v1.Group("/user")
		{
			user.GET("/auth-redirect", authHandler.AuthRedirectV1)
			user.POST("/installation", authRequired, authHandler.Installation)
			user.GET("", authRequired, authHandler.Me)
			user.GET("/integrate", authRequired, docHandler.ListIntegrations)
			user.POST("/integrate", authRequired, docHandler.CreateDocument(authdomain.CredentialModeIntegrations))
		}

		document := v1.Group("/document")
		document.Use(authRequired)
		{
			document.GET("", docHandler.GetDocument)
			document.POST("", docHandler.CreateDocument(authdomain.CredentialModeIntegrations))
			document.POST("/sync", syncHandler.Sync(syncUsecasePkg.ModeV1))
		}
	}
}
