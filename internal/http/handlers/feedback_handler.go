// Feedback HTTP handlers.
//
// This file exposes REST endpoints for standalone feedback rows:
//   - POST   /feedback       (submit a rating referencing a conversation)
//   - GET    /feedback       (list, filtered + paginated, ETag support)
//   - GET    /feedback/{id}  (fetch one)
//   - PUT    /feedback/{id}  (change the label)
//   - DELETE /feedback/{id}  (remove)
//
// Handlers in this file are transport-thin: they validate input shape,
// delegate to application services, and translate domain/service errors into
// HTTP results. A feedback row is independent of the denormalized label on
// its conversation; submitting one never touches the conversation row.
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusai/go-tutor-backend/internal/domain"
	"github.com/campusai/go-tutor-backend/internal/repo"
	"github.com/campusai/go-tutor-backend/internal/services"
)

//
// DTOs
//

// RecordFeedbackRequest is the JSON payload for submitting feedback.
//
// MessageIndex is required (pointer so 0 survives binding); the label
// vocabulary and the conversation reference are validated by the service.
type RecordFeedbackRequest struct {
	// SessionID is the session the rating was submitted from.
	SessionID string `json:"session_id" example:"sess-8f14e45f"`
	// ConversationID references the rated conversation.
	ConversationID string `json:"conversation_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// MessageIndex is the position of the rated message in the transcript.
	MessageIndex *int `json:"message_index" binding:"required" example:"0"`
	// UserQuestion is the snapshot of the rated question.
	UserQuestion string `json:"user_question" example:"Why does filtration drop when the efferent arteriole dilates?"`
	// AIResponse is the snapshot of the rated answer.
	AIResponse string `json:"ai_response" example:"Dilating the efferent arteriole lowers glomerular capillary pressure."`
	// FeedbackType is one of: helpful, not_helpful, partially_helpful.
	FeedbackType string `json:"feedback_type" binding:"required" example:"not_helpful"`
	// ConceptsCovered lists concept tags attached to the rating.
	ConceptsCovered []string `json:"concepts_covered" example:"glomerular filtration"`
	// ResponseTime is seconds the rated answer took.
	ResponseTime *float64 `json:"response_time" example:"1.42"`
}

// UpdateFeedbackRequest is the JSON payload for changing a feedback label.
type UpdateFeedbackRequest struct {
	// FeedbackType is the replacement label.
	FeedbackType string `json:"feedback_type" binding:"required" example:"partially_helpful"`
}

// FeedbackResponse is the JSON envelope for a single feedback row.
type FeedbackResponse struct {
	Feedback *domain.Feedback `json:"feedback"`
}

// ListFeedbackResponse wraps a page of feedback rows and pagination metadata.
type ListFeedbackResponse struct {
	Feedback   []domain.Feedback `json:"feedback"`
	Pagination Pagination        `json:"pagination"`
}

//
// Handlers
//

// RecordFeedback godoc
// @ID          recordFeedback
// @Summary     Submit feedback
// @Description Records a rating for one message of a conversation. The referenced conversation must exist; the rating does not modify it.
// @Tags        Feedback
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RecordFeedbackRequest  true  "Feedback payload"
//
// @Success     201  {object} handlers.FeedbackResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     409  {object} handlers.ErrorResponse "Duplicate feedback id"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /feedback [post]
func (h *Handlers) RecordFeedback(c *gin.Context) {
	var req RecordFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed,
			"conversation_id, message_index and feedback_type are required")
		return
	}

	fb, err := h.fbSvc.Record(c.Request.Context(), role(c), services.RecordFeedbackInput{
		SessionID:       req.SessionID,
		ConversationID:  req.ConversationID,
		MessageIndex:    *req.MessageIndex,
		Question:        req.UserQuestion,
		Response:        req.AIResponse,
		Label:           normalizeLabel(req.FeedbackType),
		ConceptsCovered: req.ConceptsCovered,
		ResponseTime:    req.ResponseTime,
	})
	if err != nil {
		failService(c, err)
		return
	}

	ok(c, http.StatusCreated, FeedbackResponse{Feedback: fb})
}

// ListFeedback godoc
// @ID          listFeedback
// @Summary     List feedback (filtered, paginated)
// @Description Returns a page of feedback rows, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Feedback
// @Produce     json
//
// @Param       session_id       query   string  false "Filter by session"
// @Param       conversation_id  query   string  false "Filter by conversation"  format(uuid)
// @Param       feedback_type    query   string  false "Filter by label" Enums(helpful, not_helpful, partially_helpful)
// @Param       concept          query   string  false "Filter by concept tag"
// @Param       If-None-Match    header  string  false "Return 304 if ETag matches"
// @Param       page             query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size        query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListFeedbackResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /feedback [get]
func (h *Handlers) ListFeedback(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	filter := repo.FeedbackFilter{
		SessionID:      strings.TrimSpace(c.Query("session_id")),
		ConversationID: strings.TrimSpace(c.Query("conversation_id")),
		Concept:        strings.TrimSpace(c.Query("concept")),
	}
	if raw := c.Query("feedback_type"); raw != "" {
		label := normalizeLabel(raw)
		if !label.Valid() {
			failService(c, services.ErrInvalidLabel)
			return
		}
		filter.Label = &label
	}

	// ETag pre-check (best effort), scoped to the conversation filter.
	var db *gorm.DB
	if svc, okSvc := h.fbSvc.(*services.FeedbackService); okSvc {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.FeedbackStats(ctx, db, filter.ConversationID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"feedback:%s:%d:%d"`, filter.ConversationID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.fbSvc.ListPage(ctx, role(c), filter, page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListFeedbackResponse{
		Feedback: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetFeedback godoc
// @ID          getFeedback
// @Summary     Fetch a feedback row
// @Description Returns a single feedback row by id.
// @Tags        Feedback
// @Produce     json
//
// @Param       id  path  string  true  "Feedback ID (UUID)"  format(uuid) example(fa4dfbe0-c3bf-47bd-b32f-d7de221cf43b)
//
// @Success     200  {object} handlers.FeedbackResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Feedback not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /feedback/{id} [get]
func (h *Handlers) GetFeedback(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "feedback id must be a UUID")
		return
	}

	fb, err := h.fbSvc.Get(c.Request.Context(), role(c), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, FeedbackResponse{Feedback: fb})
}

// UpdateFeedback godoc
// @ID          updateFeedback
// @Summary     Change a feedback label
// @Description Rewrites the label of an existing feedback row.
// @Tags        Feedback
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Feedback ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateFeedbackRequest  true  "Replacement label"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     404  {object} handlers.ErrorResponse "Feedback not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /feedback/{id} [put]
func (h *Handlers) UpdateFeedback(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "feedback id must be a UUID")
		return
	}

	var req UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "feedback_type required")
		return
	}

	if err := h.fbSvc.UpdateLabel(c.Request.Context(), role(c), id, normalizeLabel(req.FeedbackType)); err != nil {
		failService(c, err)
		return
	}

	noContent(c)
}

// DeleteFeedback godoc
// @ID          deleteFeedback
// @Summary     Delete a feedback row
// @Description Removes a feedback row. Requires an authenticated bearer token.
// @Tags        Feedback
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    string  true  "Feedback ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Permission denied"
// @Failure     404  {object} handlers.ErrorResponse "Feedback not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /feedback/{id} [delete]
func (h *Handlers) DeleteFeedback(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "feedback id must be a UUID")
		return
	}

	if err := h.fbSvc.Delete(c.Request.Context(), role(c), id); err != nil {
		failService(c, err)
		return
	}

	noContent(c)
}
