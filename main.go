package main

import (
	"log"

	api "jobtrack-backend/cmd/api"
	authdomain "jobtrack-backend/internal/auth/domain"
	authRepo "jobtrack-backend/internal/auth/repository"
	authUsecase "jobtrack-backend/internal/auth/usecase"
	docdomain "jobtrack-backend/internal/document/domain"
	docRepo "jobtrack-backend/internal/document/repository"
	docUsecase "jobtrack-backend/internal/document/usecase"
	syncdomain "jobtrack-backend/internal/sync/domain"
	syncRepo "jobtrack-backend/internal/sync/repository"
	syncUsecase "jobtrack-backend/internal/sync/usecase"
	"jobtrack-backend/pkg/classifier"
	"jobtrack-backend/pkg/config"
	"jobtrack-backend/pkg/database"
	"jobtrack-backend/pkg/gmail"
	"jobtrack-backend/pkg/googleauth"
	"jobtrack-backend/pkg/identity"
	"jobtrack-backend/pkg/imap"
	"jobtrack-backend/pkg/sheets"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &docdomain.TrackingDocument{}, &syncdomain.ProcessedText{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	documentRepository := docRepo.NewDocumentRepository(db)
	ledgerRepository := syncRepo.NewLedgerRepository(db)

	// ID-token verifier: Firebase Admin when service-account credentials are
	// configured, the tokeninfo endpoint otherwise.
	var verifier identity.Verifier
	if cfg.FirebaseCredentials != "" {
		verifier, err = identity.NewFirebaseVerifier(cfg.FirebaseCredentials)
		if err != nil {
			log.Fatal("Failed to initialize Firebase verifier:", err)
		}
		log.Println("Using Firebase ID-token verification")
	} else {
		verifier = identity.NewGoogleVerifier()
		log.Println("[WARN] FIREBASE_CREDENTIALS not set, falling back to tokeninfo verification")
	}

	// Initialize Google services
	oauthService := googleauth.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	gmailService := gmail.NewService(oauthService)
	imapService := imap.NewService()
	sheetsService := sheets.NewService(oauthService)

	// Classification endpoints
	classifierClient := classifier.NewClient(cfg.ClassifierEndpoint, cfg.ExtractorEndpoint)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, verifier, oauthService, cfg)
	docUsecaseInstance := docUsecase.NewDocumentUsecase(documentRepository, userRepository, sheetsService)
	syncUsecaseInstance := syncUsecase.NewSyncUsecase(
		api.NewMailFetcher(gmailService, imapService),
		classifierClient,
		classifierClient,
		sheetsService,
		ledgerRepository,
		documentRepository,
		userRepository,
		cfg,
	)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, docUsecaseInstance, syncUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
