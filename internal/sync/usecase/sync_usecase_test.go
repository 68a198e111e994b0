package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	authdomain "jobtrack-backend/internal/auth/domain"
	docdomain "jobtrack-backend/internal/document/domain"
	syncdomain "jobtrack-backend/internal/sync/domain"
	"jobtrack-backend/pkg/classifier"
	"jobtrack-backend/pkg/config"
	"jobtrack-backend/pkg/googleauth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// --- fakes ---

type fakeMail struct {
	messages []InboxMessage
	err      error
}

func (f *fakeMail) ListRecent(_ context.Context, _ *authdomain.User, _ *oauth2.Token, maxResults int, _ googleauth.TokenUpdateFunc) ([]InboxMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.messages) > maxResults {
		return f.messages[:maxResults], nil
	}
	return f.messages, nil
}

type fakeClassifier struct {
	// results maps normalized text to an outcome; anything else comes back
	// as Pending. failOn simulates a non-200 upstream response.
	results map[string]*classifier.Result
	failOn  string
	calls   []string
}

func (f *fakeClassifier) Classify(_ context.Context, text string) (*classifier.Result, error) {
	f.calls = append(f.calls, text)
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("upstream error (500): boom")
	}
	for key, result := range f.results {
		if strings.Contains(text, key) {
			return result, nil
		}
	}
	return &classifier.Result{Category: "Pending", Raw: json.RawMessage(`{"category":"Pending"}`)}, nil
}

type fakeExtractor struct {
	entities []classifier.Entity
	err      error
	calls    int
}

func (f *fakeExtractor) ExtractEntities(_ context.Context, _ string) ([]classifier.Entity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entities, nil
}

type fakeSheets struct {
	rows []map[string]string
	err  error
}

func (f *fakeSheets) AppendRow(_ context.Context, _ *oauth2.Token, _ string, fields map[string]string, _ googleauth.TokenUpdateFunc) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, fields)
	return nil
}

type fakeLedger struct {
	records map[string]*syncdomain.ProcessedText
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: make(map[string]*syncdomain.ProcessedText)}
}

func (f *fakeLedger) IsProcessed(threadID string) (bool, error) {
	_, ok := f.records[threadID]
	return ok, nil
}

func (f *fakeLedger) MarkProcessed(record *syncdomain.ProcessedText) error {
	f.records[record.ThreadID] = record
	return nil
}

type fakeDocRepo struct {
	touched []string
}

func (f *fakeDocRepo) Create(*docdomain.TrackingDocument) error { return nil }

func (f *fakeDocRepo) FindBySlug(string) (*docdomain.TrackingDocument, error) { return nil, nil }

func (f *fakeDocRepo) FindByUser(string) ([]docdomain.TrackingDocument, error) { return nil, nil }

func (f *fakeDocRepo) TouchLastSync(documentID string, _ time.Time) error {
	f.touched = append(f.touched, documentID)
	return nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) Create(*authdomain.User) error                  { return nil }
func (fakeUserRepo) FindByID(string) (*authdomain.User, error)      { return nil, nil }
func (fakeUserRepo) FindBySubject(string) (*authdomain.User, error) { return nil, nil }
func (fakeUserRepo) FindByEmail(string) (*authdomain.User, error)   { return nil, nil }
func (fakeUserRepo) Update(*authdomain.User) error                  { return nil }

// --- helpers ---

type fixture struct {
	mail       *fakeMail
	classifier *fakeClassifier
	extractor  *fakeExtractor
	sheets     *fakeSheets
	ledger     *fakeLedger
	docs       *fakeDocRepo
	usecase    SyncUsecase
}

func newFixture(messages []InboxMessage) *fixture {
	f := &fixture{
		mail:       &fakeMail{messages: messages},
		classifier: &fakeClassifier{results: map[string]*classifier.Result{}},
		extractor:  &fakeExtractor{},
		sheets:     &fakeSheets{},
		ledger:     newFakeLedger(),
		docs:       &fakeDocRepo{},
	}
	cfg := &config.Config{SyncBatchSize: 35, ShortBodyMin: 10, MaxSummaryWords: 50}
	f.usecase = NewSyncUsecase(f.mail, f.classifier, f.extractor, f.sheets, f.ledger, f.docs, fakeUserRepo{}, cfg)
	return f
}

func testUser(t *testing.T) *authdomain.User {
	t.Helper()
	blob, err := json.Marshal(&oauth2.Token{AccessToken: "at", RefreshToken: "rt"})
	require.NoError(t, err)
	return &authdomain.User{
		ID:           "user-1",
		SubjectID:    "subject-1",
		GoogleTokens: blob,
		Integrations: []authdomain.Integration{{Provider: "google", Tokens: blob}},
	}
}

func acceptedResult() *classifier.Result {
	return &classifier.Result{Category: "Accepted", Raw: json.RawMessage(`{"category":"Accepted"}`)}
}

// --- tests ---

func TestRunAppendsRowForTerminalCategory(t *testing.T) {
	f := newFixture([]InboxMessage{
		{ID: "m1", ThreadID: "t1", Body: "We are pleased to offer you the position at Acme"},
	})
	f.classifier.results["pleased"] = acceptedResult()
	f.extractor.entities = []classifier.Entity{{Kind: classifier.KindCompanyName, Text: "Acme"}}

	result, err := f.usecase.Run(context.Background(), testUser(t), "doc-1", ModeV1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, StatusSyncSuccessful, result.Status)
	assert.Contains(t, result.Message, "1 emails were processed")

	require.Len(t, f.sheets.rows, 1)
	row := f.sheets.rows[0]
	assert.Equal(t, "Acme", row["Company Name"])
	assert.Equal(t, "Accepted", row["Status"])
	assert.NotEmpty(t, row["Date Applied"])

	require.Contains(t, f.ledger.records, "t1")
	assert.Equal(t, "user-1", f.ledger.records["t1"].UserID)
	assert.Equal(t, "doc-1", f.ledger.records["t1"].DocumentID)
	assert.Equal(t, []string{"doc-1"}, f.docs.touched)
}

func TestRunIsIdempotentAcrossPasses(t *testing.T) {
	f := newFixture([]InboxMessage{
		{ID: "m1", ThreadID: "t1", Body: "We are pleased to offer you the position"},
	})
	f.classifier.results["pleased"] = acceptedResult()
	f.extractor.entities = []classifier.Entity{{Kind: classifier.KindCompanyName, Text: "Acme"}}

	user := testUser(t)

	first, err := f.usecase.Run(context.Background(), user, "doc-1", ModeV1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	classifierCalls := len(f.classifier.calls)
	ledgerBefore := len(f.ledger.records)

	second, err := f.usecase.Run(context.Background(), user, "doc-1", ModeV1)
	require.NoError(t, err)

	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, StatusSyncSuccessful, second.Status)
	assert.Contains(t, second.Message, "You dont have new emails to process")
	// The ledger gates the classifier: no new calls, no new records.
	assert.Equal(t, classifierCalls, len(f.classifier.calls))
	assert.Equal(t, ledgerBefore, len(f.ledger.records))
}

func TestRunSkipsLedgeredThreadsEntirely(t *testing.T) {
	f := newFixture([]InboxMessage{
		{ID: "m1", ThreadID: "t1", Body: "Already handled message body here"},
	})
	require.NoError(t, f.ledger.MarkProcessed(&syncdomain.ProcessedText{ThreadID: "t1"}))

	result, err := f.usecase.Run(context.Background(), testUser(t), "doc-1", ModeV1)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	assert.Empty(t, f.classifier.calls)
	assert.Zero(t, f.extractor.calls)
}

func TestRunSkipsShortBodiesWithoutLedgerWrite(t *testing.T) {
	f := newFixture([]InboxMessage{
		{ID: "m1", ThreadID: "t1", Body: "too short"}, // 9 chars
	})

	result, err := f.usecase.Run(context.Background(), testUser(t), "doc-1", ModeV1)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	assert.Empty(t, f.classifier.calls)
	assert.NotContains(t, f.ledger.records, "t1")
}

func TestRunLedgersNonTerminalCategoryWithoutRow(t *testing.T) {
	f := newFixture([]InboxMessage{
		{ID: "m1", ThreadID: "t1", Body: "Thank you for applying, we will be in touch"},
	})
	// Default classification is Pending: no extraction, no row, but the
	// dedup gate still closes.
	result, err := f.usecase.Run(context.Background(), testUser(t), "doc-1", ModeV1)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	assert.Zero(t, f.extractor.calls)
	assert.Empty(t, f.sheets.rows)
	assert.Contains(t, f.ledger.records, "t1")
}

func TestRunTerminalLabelsDependOnMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		category string
		wantRow  bool
	}{
		{name: "v1 accepts Accepted", mode: ModeV1, category: "Accepted", wantRow: true},
		{name: "v1 ignores ACCEPTED", mode: ModeV1, category: "ACCEPTED", wantRow: false},
		{name: "legacy accepts REJECTED", mode: ModeLegacy, category: "REJECTED", wantRow: true},
		{name: "legacy ignores Rejected", mode: ModeLegacy, category: "Rejected", wantRow: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture([]InboxMessage{
				{ID: "m1", ThreadID: "t1", Body: "A sufficiently long application update body"},
			})
			f.classifier.results["application"] = &classifier.Result{
				Category: tt.category,
				Raw:      json.RawMessage(`{}`),
			}
			f.extractor.entities = []classifier.Entity{{Kind: classifier.KindStatus, Text: "Offer"}}

			result, err := f.usecase.Run(context.Background(), testUser(t), "doc-1", tt.mode)
			require.NoError(t, err)

			if tt.wantRow {
				assert.Equal(t, 1, result.Processed)
				assert.Len(t, f.sheets.rows, 1)
			} else {
				assert.Equal(t, 0, result.Processed)
				assert.Empty(t, f.sheets.rows)
			}
			assert.Contains(t, f.ledger.records, "t1")
		})
	}
}

func TestRunFailsFastOnClassifierError(t *testing.T) {
	f := newFixture([]InboxMessage{
		{ID: "m1", ThreadID: "t1", Body: "first message long enough to classify"},
		{ID: "m2", ThreadID: "t2", Body: "second message explodes when classified"},
		{ID: "m3", ThreadID: "t3", Body: "third message never gets looked at"},
	})
	f.classifier.failOn = "explodes"

	_, err := f.usecase.Run(context.Background(), testUser(t), "doc-1", ModeV1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClassification)

	// The message before the failure stays ledgered; the failing one and
	// everything after it remain untouched.
	assert.Contains(t, f.ledger.records, "t1")
	assert.NotContains(t, f.ledger.records, "t2")
	assert.NotContains(t, f.ledger.records, "t3")
	assert.Empty(t, f.docs.touched)
}

func TestRunFailsFastOnExtractorError(t *testing.T) {
	f := newFixture([]InboxMessage{
		{ID: "m1", ThreadID: "t1", Body: "We are pleased to offer you the position"},
	})
	f.classifier.results["pleased"] = acceptedResult()
	f.extractor.err = errors.New("upstream error (502): bad")

	_, err := f.usecase.Run(context.Background(), testUser(t), "doc-1", ModeV1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
	assert.NotContains(t, f.ledger.records, "t1")
}

func TestRunSkipsRowWhenNoEntitiesExtracted(t *testing.T) {
	f := newFixture([]InboxMessage{
		{ID: "m1", ThreadID: "t1", Body: "We are pleased to offer you the position"},
	})
	f.classifier.results["pleased"] = acceptedResult()
	f.extractor.entities = nil

	result, err := f.usecase.Run(context.Background(), testUser(t), "doc-1", ModeV1)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	assert.Empty(t, f.sheets.rows)
	assert.Contains(t, f.ledger.records, "t1")
}

func TestRunFailsWithoutGoogleCredentials(t *testing.T) {
	f := newFixture(nil)
	user := &authdomain.User{ID: "user-1", SubjectID: "subject-1"}

	_, err := f.usecase.Run(context.Background(), user, "doc-1", ModeV1)
	assert.ErrorIs(t, err, authdomain.ErrNoGoogleCredentials)
}

func TestRunNormalizesTextBeforeClassification(t *testing.T) {
	f := newFixture([]InboxMessage{
		{ID: "m1", ThreadID: "t1", Body: "Check http://x.com NOW offer details 123!!"},
	})

	_, err := f.usecase.Run(context.Background(), testUser(t), "doc-1", ModeV1)
	require.NoError(t, err)

	require.Len(t, f.classifier.calls, 1)
	assert.Equal(t, "Check NOW offer details", f.classifier.calls[0])
}

func TestCompileEntitiesFirstMatchWins(t *testing.T) {
	tests := []struct {
		name     string
		entities []classifier.Entity
		want     map[string]string
	}{
		{
			name: "role before company",
			entities: []classifier.Entity{
				{Kind: classifier.KindJobRole, Text: "Engineer"},
				{Kind: classifier.KindCompanyName, Text: "Acme"},
			},
			want: map[string]string{"Job Role": "Engineer"},
		},
		{
			name: "company before status",
			entities: []classifier.Entity{
				{Kind: classifier.KindCompanyName, Text: "Acme"},
				{Kind: classifier.KindStatus, Text: "Offer"},
			},
			want: map[string]string{"Company Name": "Acme"},
		},
		{
			name:     "no entities",
			entities: nil,
			want:     map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompileEntities(tt.entities))
		})
	}
}
