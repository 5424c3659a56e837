package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewMeilisearch(srv.URL, "masterKey")
}

func TestSearchReturnsRawBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexes/products/search", r.URL.Path)
		assert.Equal(t, "Bearer masterKey", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits":[{"id":1}],"estimatedTotalHits":9,"offset":5,"limit":5}`))
	})

	raw, err := c.Search(context.Background(), "products", "lamp", &SearchParams{Offset: 5, Limit: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hits":[{"id":1}],"estimatedTotalHits":9,"offset":5,"limit":5}`, string(*raw))
	assert.Equal(t, "lamp", got["q"])
	assert.EqualValues(t, 5, got["offset"])
}

func TestGetDocument(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/indexes/products/documents/7" {
			_, _ = w.Write([]byte(`{"id":7,"name":"lamp"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Document not found.","code":"document_not_found","type":"invalid_request","link":""}`))
	})

	var doc struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, c.GetDocument(context.Background(), "products", "7", &doc))
	assert.Equal(t, "lamp", doc.Name)

	err := c.GetDocument(context.Background(), "products", "8", &doc)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestUpdateDocuments(t *testing.T) {
	var body []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/indexes/products/documents", r.URL.Path)
		assert.Equal(t, "id", r.URL.Query().Get("primaryKey"))
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"taskUid":42,"indexUid":"products","status":"enqueued","type":"documentAdditionOrUpdate","enqueuedAt":"2024-01-01T00:00:00Z"}`))
	})

	uid, err := c.UpdateDocuments(context.Background(), "products", []map[string]any{{"id": 1}}, "id")
	require.NoError(t, err)
	assert.EqualValues(t, 42, uid)
	assert.JSONEq(t, `[{"id":1}]`, string(body))
}

func TestUpdateFilterableAttributes(t *testing.T) {
	var body []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/indexes/products/settings/filterable-attributes", r.URL.Path)
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"taskUid":7,"indexUid":"products","status":"enqueued","type":"settingsUpdate","enqueuedAt":"2024-01-01T00:00:00Z"}`))
	})

	uid, err := c.UpdateFilterableAttributes(context.Background(), "products", []string{"id", "category"})
	require.NoError(t, err)
	assert.EqualValues(t, 7, uid)
	assert.JSONEq(t, `["id","category"]`, string(body))
}

func TestNilClient(t *testing.T) {
	c := NewMeilisearch("", "")
	_, err := c.Search(context.Background(), "products", "", nil)
	assert.True(t, errors.Is(err, ErrNilClient))
	assert.ErrorIs(t, c.GetDocument(context.Background(), "products", "1", nil), ErrNilClient)
	assert.False(t, c.IsHealthy())
}
