// Conversation HTTP handlers.
//
// This file exposes REST endpoints for conversation resources:
//   - POST   /conversations               (record an exchange, idempotency support)
//   - GET    /conversations               (list, filtered + paginated, ETag support)
//   - GET    /conversations/{id}          (fetch one, with derived source titles)
//   - DELETE /conversations/{id}          (remove, cascades to feedback)
//   - PUT    /conversations/{id}/feedback (set the denormalized label)
//   - DELETE /conversations/{id}/feedback (clear the denormalized label)
//
// Handlers are transport-thin: they validate input shape, call application
// services, and translate results into HTTP responses (including conditional
// responses). Content rules (blank texts, label vocabulary, negative values)
// live in the services layer and surface here as validation_failed.
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// record exists for (session, key), the handler returns the stored
// conversation with status 200 and sets `Idempotency-Replayed: true`; a fresh
// record returns 201.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusai/go-tutor-backend/internal/auth"
	"github.com/campusai/go-tutor-backend/internal/domain"
	"github.com/campusai/go-tutor-backend/internal/http/middleware"
	"github.com/campusai/go-tutor-backend/internal/repo"
	"github.com/campusai/go-tutor-backend/internal/services"
	"github.com/campusai/go-tutor-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ConversationService defines conversation lifecycle operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ConversationService interface {
	// Record persists one question/answer exchange.
	Record(ctx context.Context, role auth.Role, in services.RecordConversationInput) (*domain.Conversation, error)
	// Get returns a single conversation by id.
	Get(ctx context.Context, role auth.Role, id string) (*domain.Conversation, error)
	// ListPage returns a filtered page of conversations and the total count.
	ListPage(ctx context.Context, role auth.Role, f repo.ConversationFilter, page, pageSize int) ([]domain.Conversation, int64, error)
	// SetLabel writes the denormalized feedback label on a conversation.
	SetLabel(ctx context.Context, role auth.Role, id string, label domain.FeedbackLabel) error
	// ClearLabel removes the denormalized feedback label.
	ClearLabel(ctx context.Context, role auth.Role, id string) error
	// Delete removes a conversation and its dependent feedback rows.
	Delete(ctx context.Context, role auth.Role, id string) error
	// SourceTitles derives display titles from context source paths.
	SourceTitles(sources []string) []string
}

// FeedbackService defines operations on standalone feedback rows.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type FeedbackService interface {
	// Record inserts a feedback row referencing an existing conversation.
	Record(ctx context.Context, role auth.Role, in services.RecordFeedbackInput) (*domain.Feedback, error)
	// Get returns a single feedback row by id.
	Get(ctx context.Context, role auth.Role, id string) (*domain.Feedback, error)
	// ListPage returns a filtered page of feedback rows and the total count.
	ListPage(ctx context.Context, role auth.Role, f repo.FeedbackFilter, page, pageSize int) ([]domain.Feedback, int64, error)
	// UpdateLabel rewrites the label of an existing feedback row.
	UpdateLabel(ctx context.Context, role auth.Role, id string, label domain.FeedbackLabel) error
	// Delete removes a feedback row.
	Delete(ctx context.Context, role auth.Role, id string) error
}

// AnalyticsService defines the read-only aggregation operations.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AnalyticsService interface {
	// ConversationDaily returns per-day conversation aggregates, newest first.
	ConversationDaily(ctx context.Context, role auth.Role, since string) ([]repo.ConversationDailyRow, error)
	// ConversationFeedback returns the label distribution over conversations.
	ConversationFeedback(ctx context.Context, role auth.Role) ([]repo.ConversationFeedbackSummaryRow, error)
	// FeedbackDaily returns per-day, per-label feedback aggregates.
	FeedbackDaily(ctx context.Context, role auth.Role, since string) ([]repo.FeedbackDailyRow, error)
	// FeedbackSummary returns the label distribution over feedback rows.
	FeedbackSummary(ctx context.Context, role auth.Role) ([]repo.FeedbackSummaryRow, error)
	// Overview returns headline statistics over a recent sample.
	Overview(ctx context.Context, role auth.Role, sample int) (*repo.OverviewStats, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for conversations, feedback, and analytics.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	convSvc ConversationService
	fbSvc   FeedbackService
	anSvc   AnalyticsService
	idemTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
// idemTTL bounds how long a stored conversation can be replayed via
// Idempotency-Key; values <= 0 default to 24h.
func New(convSvc ConversationService, fbSvc FeedbackService, anSvc AnalyticsService, idemTTL time.Duration) *Handlers {
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &Handlers{convSvc: convSvc, fbSvc: fbSvc, anSvc: anSvc, idemTTL: idemTTL}
}

// role resolves the caller role stashed by the identity middleware. Handlers
// mounted without it (tests do this) count as anonymous.
func role(c *gin.Context) auth.Role {
	return middleware.RoleFrom(c)
}

// idempotencyKey returns the validated key stashed by the idempotency
// middleware, falling back to the raw header when handlers are mounted
// without it.
func idempotencyKey(c *gin.Context) (string, bool) {
	if k, ok := middleware.GetIdempotencyKey(c); ok {
		return k, true
	}
	if v := strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey)); v != "" {
		return v, true
	}
	return "", false
}

//
// DTOs
//

// RecordConversationRequest is the JSON payload for recording an exchange.
//
// The service layer rejects blank session/question/response values and
// negative response times; lengths omitted here are computed server-side.
type RecordConversationRequest struct {
	// SessionID groups exchanges belonging to one sitting.
	SessionID string `json:"session_id" example:"sess-8f14e45f"`
	// UserQuestion is the student's question text.
	UserQuestion string `json:"user_question" example:"Why does filtration drop when the efferent arteriole dilates?"`
	// TAResponse is the tutoring assistant's answer text.
	TAResponse string `json:"ta_response" example:"Dilating the efferent arteriole lowers glomerular capillary pressure, so net filtration falls."`
	// ContextSources lists the documents the answer drew on.
	ContextSources []string `json:"context_sources" example:"renal_physiology.pdf,acid-base_balance.md"`
	// ConceptsUsed lists concept tags attached by the answering pipeline.
	ConceptsUsed []string `json:"concepts_used" example:"glomerular filtration,renal hemodynamics"`
	// ResponseTime is seconds spent producing the answer.
	ResponseTime *float64 `json:"response_time" example:"1.42"`
	// QuestionLength overrides the computed question character count.
	QuestionLength *int `json:"question_length" example:"55"`
	// ResponseLength overrides the computed response character count.
	ResponseLength *int `json:"response_length" example:"96"`
}

// SetConversationFeedbackRequest is the JSON payload for labeling a
// conversation.
type SetConversationFeedbackRequest struct {
	// Feedback is one of: helpful, not_helpful, partially_helpful.
	Feedback string `json:"feedback" binding:"required" example:"helpful"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListConversationsResponse wraps a page of conversations and pagination
// information.
type ListConversationsResponse struct {
	Conversations []domain.Conversation `json:"conversations"`
	Pagination    Pagination            `json:"pagination"`
}

// ConversationResponse wraps a single conversation together with display
// titles derived from its context sources.
type ConversationResponse struct {
	Conversation *domain.Conversation `json:"conversation"`
	SourceTitles []string             `json:"source_titles"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// normalizeLabel lowercases and trims a client-supplied feedback label. The
// vocabulary check itself stays in the services layer.
func normalizeLabel(raw string) domain.FeedbackLabel {
	return domain.FeedbackLabel(strings.ToLower(strings.TrimSpace(raw)))
}

//
// Handlers
//

// RecordConversation godoc
// @ID          recordConversation
// @Summary     Record a conversation
// @Description Persists one question/answer exchange for a tutoring session.
// @Description Supports idempotency via the Idempotency-Key header: a replayed
// @Description key returns the previously stored conversation with status 200
// @Description and `Idempotency-Replayed: true`.
// @Tags        Conversations
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.RecordConversationRequest  true  "Conversation payload"
//
// @Success     201  {object}  domain.Conversation
// @Success     200  {object}  domain.Conversation  "Idempotent replay"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations [post]
func (h *Handlers) RecordConversation(c *gin.Context) {
	ctx := c.Request.Context()

	var req RecordConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "invalid JSON body")
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := idempotencyKey(c)
	if idemKey != "" && sessionID != "" {
		if svc, okSvc := h.convSvc.(*services.ConversationService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, sessionID, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := h.convSvc.Get(ctx, role(c), rec.ConversationID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, prev)
					return
				}
			}
		}
	}

	conv, err := h.convSvc.Record(ctx, role(c), services.RecordConversationInput{
		SessionID:      req.SessionID,
		Question:       req.UserQuestion,
		Response:       req.TAResponse,
		ContextSources: req.ContextSources,
		ConceptsUsed:   req.ConceptsUsed,
		ResponseTime:   req.ResponseTime,
		QuestionLength: req.QuestionLength,
		ResponseLength: req.ResponseLength,
	})
	if err != nil {
		failService(c, err)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.convSvc.(*services.ConversationService); okSvc && svc.DB != nil {
			_, _ = repo.CreateIdempotency(ctx, svc.DB, conv.SessionID, idemKey, conv.ID, http.StatusCreated, h.idemTTL)
		}
	}

	ok(c, http.StatusCreated, conv)
}

// ListConversations godoc
// @ID          listConversations
// @Summary     List conversations (filtered, paginated)
// @Description Returns a page of conversations, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Conversations
// @Produce     json
//
// @Param       session_id     query   string  false "Filter by session"
// @Param       feedback       query   string  false "Filter by label" Enums(helpful, not_helpful, partially_helpful)
// @Param       concept        query   string  false "Filter by concept tag"  example(glomerular filtration)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListConversationsResponse
// @Header      200  {string} ETag           "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations [get]
func (h *Handlers) ListConversations(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	filter := repo.ConversationFilter{
		SessionID: strings.TrimSpace(c.Query("session_id")),
		Concept:   strings.TrimSpace(c.Query("concept")),
	}
	if raw := c.Query("feedback"); raw != "" {
		label := normalizeLabel(raw)
		if !label.Valid() {
			failService(c, services.ErrInvalidLabel)
			return
		}
		filter.Label = &label
	}

	// ETag pre-check (best effort). The tag covers the session scope; any
	// write in scope moves count or max(updated_at) and invalidates it.
	var db *gorm.DB
	if svc, ok := h.convSvc.(*services.ConversationService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ConversationsStats(ctx, db, filter.SessionID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"conversations:%s:%d:%d"`, filter.SessionID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.convSvc.ListPage(ctx, role(c), filter, page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListConversationsResponse{
		Conversations: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// GetConversation godoc
// @ID          getConversation
// @Summary     Fetch a conversation
// @Description Returns a single conversation together with display titles derived from its context sources.
// @Tags        Conversations
// @Produce     json
//
// @Param       id  path  string  true  "Conversation ID (UUID)"  format(uuid) example(141add05-4415-4938-b5a1-17e0d3171aff)
//
// @Success     200  {object} handlers.ConversationResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations/{id} [get]
func (h *Handlers) GetConversation(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation id must be a UUID")
		return
	}

	conv, err := h.convSvc.Get(c.Request.Context(), role(c), id)
	if err != nil {
		failService(c, err)
		return
	}

	ok(c, http.StatusOK, ConversationResponse{
		Conversation: conv,
		SourceTitles: h.convSvc.SourceTitles(conv.ContextSources),
	})
}

// SetConversationFeedback godoc
// @ID          setConversationFeedback
// @Summary     Label a conversation
// @Description Sets the denormalized feedback label on a conversation. Repeating the same label still advances updated_at.
// @Tags        Conversations
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Conversation ID (UUID)"  format(uuid)
// @Param       body  body  handlers.SetConversationFeedbackRequest  true  "Feedback label"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations/{id}/feedback [put]
func (h *Handlers) SetConversationFeedback(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation id must be a UUID")
		return
	}

	var req SetConversationFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "feedback label required")
		return
	}

	if err := h.convSvc.SetLabel(c.Request.Context(), role(c), id, normalizeLabel(req.Feedback)); err != nil {
		failService(c, err)
		return
	}

	noContent(c)
}

// ClearConversationFeedback godoc
// @ID          clearConversationFeedback
// @Summary     Clear a conversation label
// @Description Removes the denormalized feedback label from a conversation.
// @Tags        Conversations
// @Produce     json
//
// @Param       id  path  string  true  "Conversation ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations/{id}/feedback [delete]
func (h *Handlers) ClearConversationFeedback(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation id must be a UUID")
		return
	}

	if err := h.convSvc.ClearLabel(c.Request.Context(), role(c), id); err != nil {
		failService(c, err)
		return
	}

	noContent(c)
}

// DeleteConversation godoc
// @ID          deleteConversation
// @Summary     Delete a conversation
// @Description Removes a conversation; dependent feedback rows are cascade-deleted. Requires an authenticated bearer token.
// @Tags        Conversations
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    string  true  "Conversation ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Permission denied"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations/{id} [delete]
func (h *Handlers) DeleteConversation(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation id must be a UUID")
		return
	}

	if err := h.convSvc.Delete(c.Request.Context(), role(c), id); err != nil {
		failService(c, err)
		return
	}

	noContent(c)
}
