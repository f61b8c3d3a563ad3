// Analytics HTTP handlers.
//
// This file exposes the read-only aggregation endpoints instructors use to
// monitor tutoring quality:
//   - GET /analytics/conversations/daily     (per-day conversation aggregates)
//   - GET /analytics/conversations/feedback  (label distribution on conversations)
//   - GET /analytics/feedback/daily          (per-day, per-label feedback aggregates)
//   - GET /analytics/feedback/summary        (label distribution on feedback rows)
//   - GET /analytics/overview                (headline stats over a recent sample)
//
// All aggregation happens inside the database; handlers only parse the query
// parameters and shape the JSON envelope.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusai/go-tutor-backend/internal/repo"
	"github.com/campusai/go-tutor-backend/internal/utils"
)

//
// DTOs
//

// ConversationDailyResponse wraps per-day conversation aggregates, newest
// day first.
type ConversationDailyResponse struct {
	Days []repo.ConversationDailyRow `json:"days"`
}

// ConversationFeedbackResponse wraps the label distribution over labeled
// conversations.
type ConversationFeedbackResponse struct {
	Summary []repo.ConversationFeedbackSummaryRow `json:"summary"`
}

// FeedbackDailyResponse wraps per-day, per-label feedback aggregates.
type FeedbackDailyResponse struct {
	Days []repo.FeedbackDailyRow `json:"days"`
}

// FeedbackSummaryResponse wraps the label distribution over feedback rows.
type FeedbackSummaryResponse struct {
	Summary []repo.FeedbackSummaryRow `json:"summary"`
}

//
// Handlers
//

// ConversationDailyAnalytics godoc
// @ID          conversationDailyAnalytics
// @Summary     Daily conversation analytics
// @Description Returns per-day conversation volume, averages, unique sessions, and label counts, newest day first.
// @Tags        Analytics
// @Produce     json
//
// @Param       since  query  string  false "Only include days on or after this date"  format(date) example(2025-06-01)
//
// @Success     200  {object} handlers.ConversationDailyResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/conversations/daily [get]
func (h *Handlers) ConversationDailyAnalytics(c *gin.Context) {
	days, err := h.anSvc.ConversationDaily(c.Request.Context(), role(c), c.Query("since"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ConversationDailyResponse{Days: days})
}

// ConversationFeedbackAnalytics godoc
// @ID          conversationFeedbackAnalytics
// @Summary     Conversation label distribution
// @Description Returns how labeled conversations split across the feedback labels, with percentages.
// @Tags        Analytics
// @Produce     json
//
// @Success     200  {object} handlers.ConversationFeedbackResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/conversations/feedback [get]
func (h *Handlers) ConversationFeedbackAnalytics(c *gin.Context) {
	summary, err := h.anSvc.ConversationFeedback(c.Request.Context(), role(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ConversationFeedbackResponse{Summary: summary})
}

// FeedbackDailyAnalytics godoc
// @ID          feedbackDailyAnalytics
// @Summary     Daily feedback analytics
// @Description Returns per-day, per-label feedback volume with unique sessions and average response time.
// @Tags        Analytics
// @Produce     json
//
// @Param       since  query  string  false "Only include days on or after this date"  format(date) example(2025-06-01)
//
// @Success     200  {object} handlers.FeedbackDailyResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/feedback/daily [get]
func (h *Handlers) FeedbackDailyAnalytics(c *gin.Context) {
	days, err := h.anSvc.FeedbackDaily(c.Request.Context(), role(c), c.Query("since"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, FeedbackDailyResponse{Days: days})
}

// FeedbackSummaryAnalytics godoc
// @ID          feedbackSummaryAnalytics
// @Summary     Feedback label distribution
// @Description Returns how feedback rows split across the labels, with percentages.
// @Tags        Analytics
// @Produce     json
//
// @Success     200  {object} handlers.FeedbackSummaryResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/feedback/summary [get]
func (h *Handlers) FeedbackSummaryAnalytics(c *gin.Context) {
	summary, err := h.anSvc.FeedbackSummary(c.Request.Context(), role(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, FeedbackSummaryResponse{Summary: summary})
}

// OverviewAnalytics godoc
// @ID          overviewAnalytics
// @Summary     Overview statistics
// @Description Returns total conversation count plus averages computed over the most recent sample of conversations.
// @Tags        Analytics
// @Produce     json
//
// @Param       sample  query  int  false "Number of recent conversations to average over"  minimum(1) example(100)
//
// @Success     200  {object} repo.OverviewStats
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/overview [get]
func (h *Handlers) OverviewAnalytics(c *gin.Context) {
	sample := utils.AtoiDefault(c.Query("sample"), 0) // 0 → service default
	stats, err := h.anSvc.Overview(c.Request.Context(), role(c), sample)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, stats)
}
