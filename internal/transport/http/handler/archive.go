package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"ai-code-reviewer/internal/repository"
	"ai-code-reviewer/internal/transport/http/response"
)

// ArchiveHandler serves archived review turns. Only mounted when the
// archive pipeline (MySQL + broker) is configured.
type ArchiveHandler struct {
	records *repository.ReviewRecordRepository
}

func NewArchiveHandler(records *repository.ReviewRecordRepository) *ArchiveHandler {
	return &ArchiveHandler{records: records}
}

// History returns the archived turns for one session, oldest first.
// Records are written asynchronously, so a just-finished turn may not
// appear immediately.
func (h *ArchiveHandler) History(c *gin.Context) {
	sessionID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	records, err := h.records.ListBySessionID(sessionID, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, gin.H{
		"session_id": sessionID,
		"records":    records,
		"count":      len(records),
	})
}
