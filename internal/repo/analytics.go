// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file owns the derived reporting layer: four SQL views
// recreated at bootstrap and the typed queries that read them. The views are
// not materialized; every read recomputes over the base tables, so reports
// always reflect the latest writes.
//
// Dialect notes: SQLite renders the grouping day with date(created_at) and
// Postgres with to_char, so the day column is plain YYYY-MM-DD text on both.
// Postgres has no ROUND(double precision, int), hence the ::numeric cast.
package repo

import (
	"context"
	"math"

	"gorm.io/gorm"

	"github.com/campusai/go-tutor-backend/internal/domain"
)

// ConversationDailyRow is one calendar day of conversation activity as
// exposed by the conversation_daily_analytics view.
type ConversationDailyRow struct {
	Day                   string   `json:"day"`
	TotalConversations    int64    `json:"total_conversations"`
	AvgResponseTime       *float64 `json:"avg_response_time"`
	AvgQuestionLength     *float64 `json:"avg_question_length"`
	AvgResponseLength     *float64 `json:"avg_response_length"`
	UniqueSessions        int64    `json:"unique_sessions"`
	HelpfulCount          int64    `json:"helpful_count"`
	NotHelpfulCount       int64    `json:"not_helpful_count"`
	PartiallyHelpfulCount int64    `json:"partially_helpful_count"`
	HelpfulPercentage     float64  `json:"helpful_percentage"`
}

// ConversationFeedbackSummaryRow is one label bucket over the denormalized
// conversations.feedback column, as exposed by conversation_feedback_summary.
// Unlabeled conversations are excluded from both counts and percentages.
type ConversationFeedbackSummaryRow struct {
	Feedback      string  `json:"feedback"`
	FeedbackCount int64   `json:"feedback_count"`
	Percentage    float64 `json:"percentage"`
}

// FeedbackDailyRow is one (day, label) bucket over the feedback table, as
// exposed by feedback_daily_analytics.
type FeedbackDailyRow struct {
	Day             string   `json:"day"`
	FeedbackType    string   `json:"feedback_type"`
	FeedbackCount   int64    `json:"feedback_count"`
	UniqueSessions  int64    `json:"unique_sessions"`
	AvgResponseTime *float64 `json:"avg_response_time"`
}

// FeedbackSummaryRow is one label bucket over all feedback rows, as exposed
// by feedback_summary.
type FeedbackSummaryRow struct {
	FeedbackType string  `json:"feedback_type"`
	TotalCount   int64   `json:"total_count"`
	Percentage   float64 `json:"percentage"`
}

// OverviewStats holds corpus-wide totals plus averages computed over the most
// recent sample of conversations. Averages are 0 when the table is empty.
type OverviewStats struct {
	TotalConversations int64   `json:"total_conversations"`
	SampleSize         int64   `json:"sample_size"`
	AvgResponseTime    float64 `json:"avg_response_time"`
	AvgQuestionLength  float64 `json:"avg_question_length"`
	AvgResponseLength  float64 `json:"avg_response_length"`
}

// CreateViews drops and recreates the four reporting views so schema upgrades
// replace stale definitions. Must run after the base tables exist.
func CreateViews(db *gorm.DB) error {
	day := "date(created_at)"
	round := func(expr, places string) string { return "ROUND(" + expr + ", " + places + ")" }
	if db.Dialector.Name() == "postgres" {
		day = "to_char(created_at, 'YYYY-MM-DD')"
		round = func(expr, places string) string { return "ROUND((" + expr + ")::numeric, " + places + ")" }
	}

	views := []struct {
		name  string
		query string
	}{
		{
			name: "conversation_daily_analytics",
			query: `SELECT ` + day + ` AS day,
       COUNT(*) AS total_conversations,
       ` + round("AVG(response_time)", "2") + ` AS avg_response_time,
       ` + round("AVG(question_length)", "1") + ` AS avg_question_length,
       ` + round("AVG(response_length)", "1") + ` AS avg_response_length,
       COUNT(DISTINCT session_id) AS unique_sessions,
       COUNT(CASE WHEN feedback = 'helpful' THEN 1 END) AS helpful_count,
       COUNT(CASE WHEN feedback = 'not_helpful' THEN 1 END) AS not_helpful_count,
       COUNT(CASE WHEN feedback = 'partially_helpful' THEN 1 END) AS partially_helpful_count,
       CASE WHEN COUNT(feedback) = 0 THEN 0
            ELSE ` + round("COUNT(CASE WHEN feedback = 'helpful' THEN 1 END) * 100.0 / COUNT(feedback)", "2") + `
       END AS helpful_percentage
  FROM conversations
 GROUP BY ` + day,
		},
		{
			name: "conversation_feedback_summary",
			query: `SELECT feedback,
       COUNT(*) AS feedback_count,
       ` + round("COUNT(*) * 100.0 / SUM(COUNT(*)) OVER ()", "2") + ` AS percentage
  FROM conversations
 WHERE feedback IS NOT NULL
 GROUP BY feedback`,
		},
		{
			name: "feedback_daily_analytics",
			query: `SELECT ` + day + ` AS day,
       feedback_type,
       COUNT(*) AS feedback_count,
       COUNT(DISTINCT session_id) AS unique_sessions,
       ` + round("AVG(response_time)", "2") + ` AS avg_response_time
  FROM feedback
 GROUP BY ` + day + `, feedback_type`,
		},
		{
			name: "feedback_summary",
			query: `SELECT feedback_type,
       COUNT(*) AS total_count,
       ` + round("COUNT(*) * 100.0 / SUM(COUNT(*)) OVER ()", "2") + ` AS percentage
  FROM feedback
 GROUP BY feedback_type`,
		},
	}

	for _, v := range views {
		if err := db.Exec("DROP VIEW IF EXISTS " + v.name).Error; err != nil {
			return err
		}
		if err := db.Exec("CREATE VIEW " + v.name + " AS " + v.query).Error; err != nil {
			return err
		}
	}
	return nil
}

// ConversationDailyAnalytics reads the per-day conversation view, most recent
// day first. A non-empty since ("YYYY-MM-DD") drops older days.
func ConversationDailyAnalytics(ctx context.Context, db *gorm.DB, since string) ([]ConversationDailyRow, error) {
	var out []ConversationDailyRow
	q := db.WithContext(ctx).Table("conversation_daily_analytics").Order("day DESC")
	if since != "" {
		q = q.Where("day >= ?", since)
	}
	err := q.Find(&out).Error
	return out, err
}

// ConversationFeedbackSummary reads the denormalized label distribution,
// biggest bucket first. The result is empty when no conversation is labeled.
func ConversationFeedbackSummary(ctx context.Context, db *gorm.DB) ([]ConversationFeedbackSummaryRow, error) {
	var out []ConversationFeedbackSummaryRow
	err := db.WithContext(ctx).
		Table("conversation_feedback_summary").
		Order("feedback_count DESC, feedback ASC").
		Find(&out).Error
	return out, err
}

// FeedbackDailyAnalytics reads the per-day, per-label feedback view, most
// recent day first. A non-empty since ("YYYY-MM-DD") drops older days.
func FeedbackDailyAnalytics(ctx context.Context, db *gorm.DB, since string) ([]FeedbackDailyRow, error) {
	var out []FeedbackDailyRow
	q := db.WithContext(ctx).Table("feedback_daily_analytics").Order("day DESC, feedback_type ASC")
	if since != "" {
		q = q.Where("day >= ?", since)
	}
	err := q.Find(&out).Error
	return out, err
}

// FeedbackSummary reads the overall label distribution over feedback rows,
// biggest bucket first. The result is empty when no feedback exists.
func FeedbackSummary(ctx context.Context, db *gorm.DB) ([]FeedbackSummaryRow, error) {
	var out []FeedbackSummaryRow
	err := db.WithContext(ctx).
		Table("feedback_summary").
		Order("total_count DESC, feedback_type ASC").
		Find(&out).Error
	return out, err
}

// Overview returns the total conversation count plus averages over the most
// recent sample rows (response time rounded to 2 decimals, lengths to 1,
// matching the reporting front-end).
func Overview(ctx context.Context, db *gorm.DB, sample int) (*OverviewStats, error) {
	out := &OverviewStats{}
	if err := db.WithContext(ctx).Model(&domain.Conversation{}).Count(&out.TotalConversations).Error; err != nil {
		return nil, err
	}
	if sample < 1 {
		sample = 50
	}

	var row struct {
		N   int64
		Art *float64
		Aql *float64
		Arl *float64
	}
	err := db.WithContext(ctx).Raw(`SELECT COUNT(*) AS n,
       AVG(response_time) AS art,
       AVG(question_length) AS aql,
       AVG(response_length) AS arl
  FROM (SELECT response_time, question_length, response_length
          FROM conversations
         ORDER BY created_at DESC
         LIMIT ?) recent`, sample).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	out.SampleSize = row.N
	if row.Art != nil {
		out.AvgResponseTime = roundTo(*row.Art, 2)
	}
	if row.Aql != nil {
		out.AvgQuestionLength = roundTo(*row.Aql, 1)
	}
	if row.Arl != nil {
		out.AvgResponseLength = roundTo(*row.Arl, 1)
	}
	return out, nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
