package handler

import (
	"github.com/gin-gonic/gin"

	"ai-code-reviewer/internal/apperr"
	"ai-code-reviewer/internal/app"
	"ai-code-reviewer/internal/transport/http/response"
)

type ChatHandler struct {
	reviewService *app.ReviewService
	maxCodeLength int
}

type ReviewRequest struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
	Language  string `json:"language"`
	Context   string `json:"context"`
}

func NewChatHandler(reviewService *app.ReviewService, maxCodeLength int) *ChatHandler {
	return &ChatHandler{reviewService: reviewService, maxCodeLength: maxCodeLength}
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	sess, err := h.reviewService.CreateSession(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, gin.H{
		"session_id": sess.ID,
		"expires_at": sess.ExpiresAt,
	})
}

func (h *ChatHandler) Review(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Also covers a non-string "code" field.
		response.Fail(c, apperr.Validation("invalid request payload", nil))
		return
	}
	if req.Code == "" {
		response.Fail(c, apperr.Validation("code must be a non-empty string", nil))
		return
	}
	if h.maxCodeLength > 0 && len(req.Code) > h.maxCodeLength {
		response.Fail(c, apperr.Validation("code exceeds maximum length", gin.H{
			"max_length": h.maxCodeLength,
		}))
		return
	}

	result, err := h.reviewService.ProcessTurn(c.Request.Context(), app.ProcessTurnInput{
		SessionID: req.SessionID,
		Content:   req.Code,
		Language:  req.Language,
		Context:   req.Context,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	data := gin.H{
		"session_id": result.SessionID,
		"review":     result.Review,
		"severity":   result.Severity,
		"timestamp":  result.Timestamp,
	}
	if len(result.Suggestions) > 0 {
		data["suggestions"] = result.Suggestions
	}
	response.OK(c, data)
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, apperr.Validation("session id is required", nil))
		return
	}

	sess, err := h.reviewService.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, gin.H{
		"session_id":    sess.ID,
		"message_count": len(sess.Messages),
		"created_at":    sess.CreatedAt,
		"updated_at":    sess.UpdatedAt,
		"expires_at":    sess.ExpiresAt,
	})
}

func (h *ChatHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, apperr.Validation("session id is required", nil))
		return
	}

	if err := h.reviewService.DeleteSession(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, gin.H{"message": "session deleted", "session_id": id})
}
