package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/securedesk/policysearch/internal/errors"
	"github.com/securedesk/policysearch/model"
	"github.com/securedesk/policysearch/store"
)

// DocumentRequest is the JSON payload for creating or updating a document.
// IsActive is optional: on update, omitting it keeps the stored activation
// state instead of reactivating a soft-deleted document.
type DocumentRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Content     string   `json:"content"`
	Type        string   `json:"document_type"`
	CreatedBy   string   `json:"created_by"`
	IsActive    *bool    `json:"is_active"`
}

func (r DocumentRequest) toDocument() model.Document {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.Document{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Tags:        r.Tags,
		Content:     r.Content,
		Type:        r.Type,
		CreatedBy:   r.CreatedBy,
		Active:      active,
	}
}

// ListDocumentsHandler handles GET /api/documents with optional type and
// category filters.
func (api *API) ListDocumentsHandler(c *gin.Context) {
	filter := store.ListFilter{
		Type:       c.Query("type"),
		Category:   c.Query("category"),
		ActiveOnly: c.Query("include_inactive") != "true",
	}

	docs, err := api.store.List(c.Request.Context(), filter)
	if err != nil {
		SendStoreError(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "total": len(docs)})
}

// GetDocumentHandler handles GET /api/documents/:id.
func (api *API) GetDocumentHandler(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, err := api.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, c.Param("id"))
			return
		}
		SendStoreError(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// CreateDocumentHandler handles POST /api/documents. The new document is
// stored, indexed, and any cached search results are invalidated.
func (api *API) CreateDocumentHandler(c *gin.Context) {
	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	doc := req.toDocument()
	if result := ValidateDocument(doc); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	created, err := api.store.Create(c.Request.Context(), doc)
	if err != nil {
		SendStoreError(c, "create", err)
		return
	}

	api.engine.Upsert(created)
	api.invalidateCache(c)
	c.JSON(http.StatusCreated, created)
}

// UpdateDocumentHandler handles PUT /api/documents/:id.
func (api *API) UpdateDocumentHandler(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	doc := req.toDocument()
	doc.ID = id
	if result := ValidateDocument(doc); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	// Carry the stored activation state when the payload does not set it.
	if req.IsActive == nil {
		existing, err := api.store.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, internalErrors.ErrDocumentNotFound) {
				SendDocumentNotFoundError(c, c.Param("id"))
				return
			}
			SendStoreError(c, "get", err)
			return
		}
		doc.Active = existing.Active
	}

	updated, err := api.store.Update(c.Request.Context(), doc)
	if err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, c.Param("id"))
			return
		}
		SendStoreError(c, "update", err)
		return
	}

	api.engine.Upsert(updated)
	api.invalidateCache(c)
	c.JSON(http.StatusOK, updated)
}

// DeleteDocumentHandler handles DELETE /api/documents/:id. Deletion is soft:
// the document stays in the store but leaves the index.
func (api *API) DeleteDocumentHandler(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	if err := api.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, c.Param("id"))
			return
		}
		SendStoreError(c, "delete", err)
		return
	}

	api.engine.Remove(id)
	api.invalidateCache(c)
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

func (api *API) invalidateCache(c *gin.Context) {
	if err := api.cache.Invalidate(c.Request.Context()); err != nil {
		log.Printf("cache invalidation failed: %v", err)
	}
}

func parseDocumentID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
			"Invalid document ID: "+raw)
		return 0, false
	}
	return uint(id), true
}
