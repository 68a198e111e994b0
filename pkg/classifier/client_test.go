package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req textRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Text)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestClassifyObjectShape(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"category":"Accepted","confidence":0.92}`)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	result, err := c.Classify(context.Background(), "some email text")
	require.NoError(t, err)

	assert.Equal(t, "Accepted", result.Category)
	assert.InDelta(t, 0.92, result.Score, 1e-9)
	assert.JSONEq(t, `{"category":"Accepted","confidence":0.92}`, string(result.Raw))
}

func TestClassifyScoredLabelShape(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[{"Name":"PENDING","Score":0.2},{"Name":"REJECTED","Score":0.7},{"Name":"ACCEPTED","Score":0.1}]`)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	result, err := c.Classify(context.Background(), "some email text")
	require.NoError(t, err)

	assert.Equal(t, "REJECTED", result.Category)
	assert.InDelta(t, 0.7, result.Score, 1e-9)
}

func TestClassifyNon200IsHardFailure(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, `boom`)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Classify(context.Background(), "some email text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream error (500)")
}

func TestExtractEntities(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[{"type":"Company_Name","text":"Acme"},{"type":"Job_Role","text":"Engineer"},{"type":"Salary","text":"100k"}]`)
	defer srv.Close()

	c := NewClient("", srv.URL)
	entities, err := c.ExtractEntities(context.Background(), "some email text")
	require.NoError(t, err)

	// The unknown Salary entity is dropped.
	require.Len(t, entities, 2)
	assert.Equal(t, Entity{Kind: KindCompanyName, Text: "Acme"}, entities[0])
	assert.Equal(t, Entity{Kind: KindJobRole, Text: "Engineer"}, entities[1])
}

func TestExtractEntitiesNon200IsHardFailure(t *testing.T) {
	srv := newTestServer(t, http.StatusBadGateway, `bad`)
	defer srv.Close()

	c := NewClient("", srv.URL)
	_, err := c.ExtractEntities(context.Background(), "some email text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream error (502)")
}
