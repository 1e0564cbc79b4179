package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ChatRequest is the JSON payload for chat messages.
type ChatRequest struct {
	Message string `json:"message"`
	Type    string `json:"type"` // "onboarding" or "policy_search"
}

// ChatHandler handles POST /api/chat by delegating to the chat service.
func (api *API) ChatHandler(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
			"Chat message must not be empty")
		return
	}

	reply, err := api.chat.Handle(c.Request.Context(), req.Message, req.Type)
	if err != nil {
		SendChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
