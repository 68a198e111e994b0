package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdomain "jobtrack-backend/internal/auth/domain"
	authrepo "jobtrack-backend/internal/auth/repository"
	docrepo "jobtrack-backend/internal/document/repository"
	syncdomain "jobtrack-backend/internal/sync/domain"
	"jobtrack-backend/internal/sync/repository"
	"jobtrack-backend/pkg/classifier"
	"jobtrack-backend/pkg/config"
	"jobtrack-backend/pkg/googleauth"
	"jobtrack-backend/pkg/textclean"

	"golang.org/x/oauth2"
)

// StatusSyncSuccessful is reported on every non-exceptional completion,
// including passes that added no new rows.
const StatusSyncSuccessful = "SYNC_SUCCESSFUL"

var (
	ErrClassification = errors.New("unable to process text from email")
	ErrExtraction     = errors.New("unable to extract entities from email")
)

// Mode selects the route generation a sync pass runs under. The two
// generations differ in where they look up the user's Google credentials
// and in the label spelling their classifier deployment emits.
type Mode int

const (
	// ModeLegacy: credentials from the user record's legacy token blob;
	// terminal labels ACCEPTED / REJECTED.
	ModeLegacy Mode = iota
	// ModeV1: credentials from the integration list; terminal labels
	// Accepted / Rejected.
	ModeV1
)

func (m Mode) credentialMode() authdomain.CredentialMode {
	if m == ModeLegacy {
		return authdomain.CredentialModeLegacy
	}
	return authdomain.CredentialModeIntegrations
}

// isTerminal reports whether a category triggers entity extraction and a
// row write. Intermediate states (e.g. Pending) only close the dedup gate.
func (m Mode) isTerminal(category string) bool {
	if m == ModeLegacy {
		return category == "ACCEPTED" || category == "REJECTED"
	}
	return category == "Accepted" || category == "Rejected"
}

// InboxMessage is one fetched message with its plain-text body decoded.
type InboxMessage struct {
	ID       string
	ThreadID string
	Body     string
}

// MailFetcher lists a bounded batch of recent inbox messages, newest first.
type MailFetcher interface {
	ListRecent(ctx context.Context, user *authdomain.User, token *oauth2.Token, maxResults int, onTokenRefresh googleauth.TokenUpdateFunc) ([]InboxMessage, error)
}

// TextClassifier labels normalized email text.
type TextClassifier interface {
	Classify(ctx context.Context, text string) (*classifier.Result, error)
}

// EntityExtractor pulls structured spans out of normalized email text.
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, text string) ([]classifier.Entity, error)
}

// SheetWriter appends one row to a tracking spreadsheet.
type SheetWriter interface {
	AppendRow(ctx context.Context, token *oauth2.Token, spreadsheetID string, fields map[string]string, onTokenRefresh googleauth.TokenUpdateFunc) error
}

// Result summarizes one sync pass.
type Result struct {
	Processed int    `json:"processed"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// SyncUsecase runs one inbox-classification pass for a user.
type SyncUsecase interface {
	Run(ctx context.Context, user *authdomain.User, documentID string, mode Mode) (*Result, error)
}

// syncUsecase implements SyncUsecase interface
type syncUsecase struct {
	mail       MailFetcher
	classifier TextClassifier
	extractor  EntityExtractor
	sheets     SheetWriter
	ledger     repository.LedgerRepository
	docRepo    docrepo.DocumentRepository
	userRepo   authrepo.UserRepository
	cfg        *config.Config
	now        func() time.Time
}

// NewSyncUsecase creates a new instance of syncUsecase
func NewSyncUsecase(mail MailFetcher, textClassifier TextClassifier, extractor EntityExtractor, sheets SheetWriter, ledger repository.LedgerRepository, documentRepo docrepo.DocumentRepository, userRepo authrepo.UserRepository, cfg *config.Config) SyncUsecase {
	return &syncUsecase{
		mail:       mail,
		classifier: textClassifier,
		extractor:  extractor,
		sheets:     sheets,
		ledger:     ledger,
		docRepo:    documentRepo,
		userRepo:   userRepo,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (u *syncUsecase) persistRefreshedToken(user *authdomain.User, mode authdomain.CredentialMode) googleauth.TokenUpdateFunc {
	return func(token *oauth2.Token) error {
		if err := user.SetGoogleToken(mode, token); err != nil {
			return err
		}
		return u.userRepo.Update(user)
	}
}

// Run executes one synchronous pass over the user's recent inbox. Messages
// are handled strictly in listing order; the first upstream failure aborts
// the pass, leaving earlier ledger writes in place and later messages
// untouched until the next invocation.
func (u *syncUsecase) Run(ctx context.Context, user *authdomain.User, documentID string, mode Mode) (*Result, error) {
	token, err := user.GoogleToken(mode.credentialMode())
	if err != nil {
		return nil, err
	}
	onRefresh := u.persistRefreshedToken(user, mode.credentialMode())

	messages, err := u.mail.ListRecent(ctx, user, token, u.cfg.SyncBatchSize, onRefresh)
	if err != nil {
		return nil, fmt.Errorf("listing recent messages: %w", err)
	}

	processed := 0
	for _, msg := range messages {
		seen, err := u.ledger.IsProcessed(msg.ThreadID)
		if err != nil {
			return nil, err
		}
		if seen {
			continue
		}

		// Too short to classify. No ledger write either, so short
		// messages are re-examined on every pass.
		if len(msg.Body) < u.cfg.ShortBodyMin {
			continue
		}

		text := textclean.Truncate(textclean.Normalize(msg.Body), u.cfg.MaxSummaryWords)

		result, err := u.classifier.Classify(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrClassification, err)
		}

		if mode.isTerminal(result.Category) {
			entities, err := u.extractor.ExtractEntities(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
			}

			if len(entities) > 0 {
				row := map[string]string{
					"Status":       result.Category,
					"Date Applied": u.now().Format("1/2/2006"),
				}
				// Compiled fields overlay the defaults, so an
				// extracted Status span replaces the category.
				for field, value := range CompileEntities(entities) {
					row[field] = value
				}

				if err := u.sheets.AppendRow(ctx, token, documentID, row, onRefresh); err != nil {
					return nil, fmt.Errorf("appending tracking row: %w", err)
				}
				processed++
			}
		}

		// Close the dedup gate for this thread whether or not a row was
		// written: non-terminal categories are final too.
		record := &syncdomain.ProcessedText{
			ThreadID:         msg.ThreadID,
			ProcessingResult: result.Raw,
			UserID:           user.ID,
			DocumentID:       documentID,
		}
		if err := u.ledger.MarkProcessed(record); err != nil {
			return nil, err
		}
	}

	if err := u.docRepo.TouchLastSync(documentID, u.now()); err != nil {
		return nil, err
	}

	message := "Sync process completed. You dont have new emails to process."
	if processed >= 1 {
		message = fmt.Sprintf("Sync process completed. %d emails were processed.", processed)
	}

	return &Result{
		Processed: processed,
		Status:    StatusSyncSuccessful,
		Message:   message,
	}, nil
}
