package api

import (
	"context"

	authdomain "jobtrack-backend/internal/auth/domain"
	authUsecase "jobtrack-backend/internal/auth/usecase"
	docUsecasePkg "jobtrack-backend/internal/document/usecase"
	syncUsecasePkg "jobtrack-backend/internal/sync/usecase"
	"jobtrack-backend/pkg/config"
	"jobtrack-backend/pkg/gmail"
	"jobtrack-backend/pkg/googleauth"
	"jobtrack-backend/pkg/imap"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	docUsecase  docUsecasePkg.DocumentUsecase
	syncUsecase syncUsecasePkg.SyncUsecase
	config      *config.Config
}

// mailFetcherAdapter adapts the Gmail and IMAP services to the sync
// usecase's MailFetcher interface. Users with an "imap" integration are
// served over IMAP; everyone else goes through the Gmail API.
type mailFetcherAdapter struct {
	gmail *gmail.Service
	imap  *imap.Service
}

func (a *mailFetcherAdapter) ListRecent(ctx context.Context, user *authdomain.User, token *oauth2.Token, maxResults int, onTokenRefresh googleauth.TokenUpdateFunc) ([]syncUsecasePkg.InboxMessage, error) {
	if login, ok := user.IMAPLogin(); ok {
		messages, err := a.imap.ListRecentMessages(*login, uint32(maxResults))
		if err != nil {
			return nil, err
		}
		out := make([]syncUsecasePkg.InboxMessage, 0, len(messages))
		for _, m := range messages {
			out = append(out, syncUsecasePkg.InboxMessage{ID: m.ID, ThreadID: m.ThreadID, Body: m.Body})
		}
		return out, nil
	}

	messages, err := a.gmail.ListRecentMessages(ctx, token, int64(maxResults), onTokenRefresh)
	if err != nil {
		return nil, err
	}
	out := make([]syncUsecasePkg.InboxMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, syncUsecasePkg.InboxMessage{ID: m.ID, ThreadID: m.ThreadID, Body: m.Body})
	}
	return out, nil
}

// NewMailFetcher builds the combined Gmail/IMAP source for the sync usecase.
func NewMailFetcher(gmailSvc *gmail.Service, imapSvc *imap.Service) syncUsecasePkg.MailFetcher {
	return &mailFetcherAdapter{gmail: gmailSvc, imap: imapSvc}
}

func NewHandler(authUc authUsecase.AuthUsecase, docUc docUsecasePkg.DocumentUsecase, syncUc syncUsecasePkg.SyncUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase: authUc,
		docUsecase:  docUc,
		syncUsecase: syncUc,
		config:      cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.authUsecase, h.docUsecase, h.syncUsecase)

	return r.Run(addr)
}
