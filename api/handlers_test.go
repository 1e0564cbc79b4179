package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securedesk/policysearch/config"
	"github.com/securedesk/policysearch/internal/chat"
	"github.com/securedesk/policysearch/internal/engine"
	"github.com/securedesk/policysearch/internal/search"
	"github.com/securedesk/policysearch/model"
	"github.com/securedesk/policysearch/store"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docStore := store.NewMemoryStore()
	err := docStore.Seed(context.Background(), store.SeedDocuments())
	require.NoError(t, err, "seeding test store")

	eng := engine.New(nil)
	docs, err := docStore.ActiveDocuments(context.Background())
	require.NoError(t, err, "loading seeded documents")
	eng.BuildIndex(docs)

	apiHandler := NewAPI(eng, docStore, nil, chat.NewService(eng, nil), nil, config.SearchConfig{})
	router := gin.New()
	apiHandler.SetupRoutes(router)
	return router, docStore
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheckHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/documents/search?q=password", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.Hits, "expected hits for 'password'")
	assert.Equal(t, "Password Policy", result.Hits[0].Document.Name)
	assert.NotEmpty(t, result.QueryID)
}

func TestSearchHandlerFuzzyQuery(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/documents/search?q=passwrd", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.Hits, "expected fuzzy hits for 'passwrd'")
	assert.Equal(t, "Password Policy", result.Hits[0].Document.Name)
}

func TestSearchHandlerEmptyQuery(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/documents/search?q=", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Empty(t, result.Hits)
	assert.Zero(t, result.Total)
}

func TestSearchHandlerInvalidLimit(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/documents/search?q=password&limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandlerLimitClamped(t *testing.T) {
	router, _ := setupTestRouter(t)

	// A huge limit must not error; it is capped server-side.
	w := doRequest(router, http.MethodGet, "/api/documents/search?q=policy&limit=99999", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClampLimitHonorsPipelineCeiling(t *testing.T) {
	api := &API{searchCfg: config.SearchConfig{DefaultLimit: 5, MaxLimit: 500}}

	assert.Equal(t, 5, api.clampLimit(0))
	assert.Equal(t, 42, api.clampLimit(42))
	// A configured cap above the scoring pipeline's ceiling is ineffective
	// there, so the handler must not hand out limits beyond it.
	assert.Equal(t, search.MaxLimit, api.clampLimit(450))
	assert.Equal(t, search.MaxLimit, api.clampLimit(search.MaxLimit+1))
}

func TestListDocumentsHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Documents []model.Document `json:"documents"`
		Total     int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, len(store.SeedDocuments()), resp.Total)
}

func TestListDocumentsHandlerTypeFilter(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/documents?type=onboarding", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Documents []model.Document `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Documents)
	for _, doc := range resp.Documents {
		assert.Equal(t, model.TypeOnboarding, doc.Type)
	}
}

func TestGetDocumentHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/documents/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc model.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, uint(1), doc.ID)

	w = doRequest(router, http.MethodGet, "/api/documents/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/documents/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDocumentHandlerIndexesDocument(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := DocumentRequest{
		Name:        "Acceptable Use Policy",
		Description: "Rules for using company equipment",
		Category:    "Security",
		Tags:        []string{"equipment", "usage"},
		Content:     "Company laptops are for business use.",
		Type:        model.TypePolicy,
		CreatedBy:   "admin",
	}
	w := doRequest(router, http.MethodPost, "/api/documents", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.True(t, created.Active)

	// The new document is searchable immediately.
	w = doRequest(router, http.MethodGet, "/api/documents/search?q=acceptable", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, created.ID, result.Hits[0].Document.ID)
}

func TestCreateDocumentHandlerValidation(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name    string
		payload DocumentRequest
	}{
		{"missing name", DocumentRequest{Type: model.TypePolicy}},
		{"missing type", DocumentRequest{Name: "Untyped"}},
		{"bad type", DocumentRequest{Name: "Bad Type", Type: "memo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/documents", tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateDocumentHandlerReindexes(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := DocumentRequest{
		Name:    "Workstation Hardening Policy",
		Type:    model.TypePolicy,
		Content: "Disable unused services.",
	}
	w := doRequest(router, http.MethodPut, "/api/documents/1", payload)
	require.Equal(t, http.StatusOK, w.Code)

	// The old name no longer matches; the new one does.
	w = doRequest(router, http.MethodGet, "/api/documents/search?q=hardening", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, uint(1), result.Hits[0].Document.ID)

	w = doRequest(router, http.MethodPut, "/api/documents/999", payload)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateDocumentHandlerKeepsInactiveState(t *testing.T) {
	router, docStore := setupTestRouter(t)

	w := doRequest(router, http.MethodDelete, "/api/documents/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// An update that does not mention is_active must not reactivate the
	// soft-deleted document.
	payload := DocumentRequest{
		Name:    "Password Policy",
		Type:    model.TypePolicy,
		Content: "Rotate your password every quarter.",
	}
	w = doRequest(router, http.MethodPut, "/api/documents/1", payload)
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := docStore.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, doc.Active)

	// And it stays out of the index.
	w = doRequest(router, http.MethodGet, "/api/documents/search?q=password", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	for _, hit := range result.Hits {
		assert.NotEqual(t, uint(1), hit.Document.ID)
	}
}

func TestUpdateDocumentHandlerExplicitActivation(t *testing.T) {
	router, docStore := setupTestRouter(t)

	w := doRequest(router, http.MethodDelete, "/api/documents/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	active := true
	payload := DocumentRequest{
		Name:     "Password Policy",
		Type:     model.TypePolicy,
		Content:  "Rotate your password every quarter.",
		IsActive: &active,
	}
	w = doRequest(router, http.MethodPut, "/api/documents/1", payload)
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := docStore.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, doc.Active)

	// Reactivation puts the document back in the index.
	w = doRequest(router, http.MethodGet, "/api/documents/search?q=password", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	found := false
	for _, hit := range result.Hits {
		if hit.Document.ID == 1 {
			found = true
		}
	}
	assert.True(t, found, "reactivated document missing from search results")
}

func TestUpdateDocumentHandlerDeactivates(t *testing.T) {
	router, docStore := setupTestRouter(t)

	inactive := false
	payload := DocumentRequest{
		Name:     "Password Policy",
		Type:     model.TypePolicy,
		Content:  "Rotate your password every quarter.",
		IsActive: &inactive,
	}
	w := doRequest(router, http.MethodPut, "/api/documents/1", payload)
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := docStore.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, doc.Active)

	w = doRequest(router, http.MethodGet, "/api/documents/search?q=password", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	for _, hit := range result.Hits {
		assert.NotEqual(t, uint(1), hit.Document.ID)
	}
}

func TestDeleteDocumentHandlerRemovesFromIndex(t *testing.T) {
	router, docStore := setupTestRouter(t)

	w := doRequest(router, http.MethodDelete, "/api/documents/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Soft delete: stored but inactive.
	doc, err := docStore.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, doc.Active)

	// And no longer searchable by its name.
	w = doRequest(router, http.MethodGet, "/api/documents/search?q=password", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	for _, hit := range result.Hits {
		assert.NotEqual(t, uint(1), hit.Document.ID)
	}

	w = doRequest(router, http.MethodDelete, "/api/documents/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatHandlerPolicySearch(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/chat", ChatRequest{
		Message: "password rules",
		Type:    chat.TypePolicySearch,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reply chat.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, chat.TypePolicySearch, reply.Type)
	assert.NotEmpty(t, reply.Documents)
	assert.Contains(t, reply.Response, "document(s)")
}

func TestChatHandlerOnboarding(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/chat", ChatRequest{
		Message: "how do I set up the vpn",
		Type:    chat.TypeOnboarding,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reply chat.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, chat.TypeOnboarding, reply.Type)
	assert.Contains(t, reply.Response, "VPN")
}

func TestChatHandlerEmptyMessage(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/chat", ChatRequest{Message: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Documents      int `json:"documents"`
		VocabularySize int `json:"vocabulary_size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, len(store.SeedDocuments()), stats.Documents)
	assert.Positive(t, stats.VocabularySize)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/documents", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
