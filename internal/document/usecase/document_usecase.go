package usecase

import (
	"context"
	"errors"

	authdomain "jobtrack-backend/internal/auth/domain"
	authrepo "jobtrack-backend/internal/auth/repository"
	docdomain "jobtrack-backend/internal/document/domain"
	docdto "jobtrack-backend/internal/document/dto"
	"jobtrack-backend/internal/document/repository"
	"jobtrack-backend/pkg/googleauth"

	"golang.org/x/oauth2"
)

var ErrDocumentNotFound = errors.New("document not found")

// TabularStore is the spreadsheet backend used for tracking documents.
type TabularStore interface {
	CreateSpreadsheet(ctx context.Context, token *oauth2.Token, title string, onTokenRefresh googleauth.TokenUpdateFunc) (string, int64, error)
	SetHeaderRow(ctx context.Context, token *oauth2.Token, spreadsheetID string, headers []string, onTokenRefresh googleauth.TokenUpdateFunc) error
	ReadRows(ctx context.Context, token *oauth2.Token, spreadsheetID string, onTokenRefresh googleauth.TokenUpdateFunc) ([]string, []map[string]string, error)
}

// DocumentUsecase manages tracking documents and their spreadsheet backing.
type DocumentUsecase interface {
	Create(ctx context.Context, user *authdomain.User, mode authdomain.CredentialMode, req *docdto.CreateDocumentRequest) (*docdomain.TrackingDocument, error)
	ReadBySlug(ctx context.Context, user *authdomain.User, slug string) ([]string, []docdto.SheetRow, error)
	ListForUser(user *authdomain.User) ([]docdomain.TrackingDocument, error)
}

// documentUsecase implements DocumentUsecase interface
type documentUsecase struct {
	docRepo  repository.DocumentRepository
	userRepo authrepo.UserRepository
	sheets   TabularStore
}

// NewDocumentUsecase creates a new instance of documentUsecase
func NewDocumentUsecase(docRepo repository.DocumentRepository, userRepo authrepo.UserRepository, sheets TabularStore) DocumentUsecase {
	return &documentUsecase{
		docRepo:  docRepo,
		userRepo: userRepo,
		sheets:   sheets,
	}
}

// persistRefreshedToken writes rotated credentials back to the user record
// so the next request does not repeat the refresh round trip.
func (u *documentUsecase) persistRefreshedToken(user *authdomain.User, mode authdomain.CredentialMode) googleauth.TokenUpdateFunc {
	return func(token *oauth2.Token) error {
		if err := user.SetGoogleToken(mode, token); err != nil {
			return err
		}
		return u.userRepo.Update(user)
	}
}

func (u *documentUsecase) Create(ctx context.Context, user *authdomain.User, mode authdomain.CredentialMode, req *docdto.CreateDocumentRequest) (*docdomain.TrackingDocument, error) {
	token, err := user.GoogleToken(mode)
	if err != nil {
		return nil, err
	}
	onRefresh := u.persistRefreshedToken(user, mode)

	documentID, sheetID, err := u.sheets.CreateSpreadsheet(ctx, token, req.Name, onRefresh)
	if err != nil {
		return nil, err
	}

	if err := u.sheets.SetHeaderRow(ctx, token, documentID, req.Columns, onRefresh); err != nil {
		return nil, err
	}

	doc := &docdomain.TrackingDocument{
		DocumentID:    documentID,
		ActiveSheetID: sheetID,
		UserID:        user.ID,
		DocumentName:  req.Name,
		DocumentLink:  "https://docs.google.com/spreadsheets/d/" + documentID,
		Slug:          docdomain.Slugify(req.Name),
		Tracking:      req.Columns,
		LastSync:      nil,
	}

	if err := u.docRepo.Create(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func (u *documentUsecase) ReadBySlug(ctx context.Context, user *authdomain.User, slug string) ([]string, []docdto.SheetRow, error) {
	doc, err := u.docRepo.FindBySlug(slug)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, ErrDocumentNotFound
	}

	token, err := user.GoogleToken(authdomain.CredentialModeIntegrations)
	if err != nil {
		return nil, nil, err
	}

	headers, rows, err := u.sheets.ReadRows(ctx, token, doc.DocumentID, u.persistRefreshedToken(user, authdomain.CredentialModeIntegrations))
	if err != nil {
		return nil, nil, err
	}

	projected := make([]docdto.SheetRow, 0, len(rows))
	for _, row := range rows {
		projected = append(projected, docdto.SheetRow{
			CompanyName: row["Company Name"],
			JobLink:     row["Job Link"],
			DateApplied: row["Date Applied"],
			Status:      row["Status"],
			Description: row["Description"],
		})
	}

	return headers, projected, nil
}

func (u *documentUsecase) ListForUser(user *authdomain.User) ([]docdomain.TrackingDocument, error) {
	return u.docRepo.FindByUser(user.ID)
}
