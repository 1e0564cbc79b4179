package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/securedesk/policysearch/internal/search"
)

// SearchHandler handles GET /api/documents/search?q=<query>&limit=<n>.
//
// An empty or stopword-only query returns an empty result set with 200, not
// an error. A missing or non-positive limit falls back to the default, and
// oversized limits are capped.
func (api *API) SearchHandler(c *gin.Context) {
	query := c.Query("q")
	if result := ValidateSearchQuery(query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery,
				"Invalid limit parameter: "+raw)
			return
		}
		limit = parsed
	}
	limit = api.clampLimit(limit)

	ctx := c.Request.Context()
	if api.searchCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, api.searchCfg.Timeout)
		defer cancel()
	}

	result, cached, err := api.cache.GetOrCompute(ctx, query, limit, func() (search.Result, error) {
		return api.engine.Search(ctx, query, limit)
	})
	if err != nil {
		SendSearchError(c, err)
		return
	}

	if cached {
		c.Header("X-Cache", "HIT")
	}
	c.JSON(http.StatusOK, result)
}

// clampLimit applies the configured default and cap, falling back to the
// package defaults when the config is zero. The configured cap cannot exceed
// search.MaxLimit, which the scoring pipeline enforces as a hard ceiling.
func (api *API) clampLimit(limit int) int {
	def := api.searchCfg.DefaultLimit
	if def <= 0 {
		def = search.DefaultLimit
	}
	max := api.searchCfg.MaxLimit
	if max <= 0 || max > search.MaxLimit {
		max = search.MaxLimit
	}
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
