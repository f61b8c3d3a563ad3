// Package services – AnalyticsService
//
// This file implements the AnalyticsService, the read-only aggregation layer
// over the analytics views. Every method recomputes its result from the live
// tables at call time; nothing is cached or materialized, so a row inserted
// between two calls is visible in the second.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campusai/go-tutor-backend/internal/auth"
	"github.com/campusai/go-tutor-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// sinceLayout is the calendar-date format accepted by the daily endpoints.
const sinceLayout = "2006-01-02"

// AnalyticsService exposes the aggregate views used by instructors to follow
// tutoring quality over time.
type AnalyticsService struct {
	// DB is the GORM handle used for all reads.
	DB *gorm.DB
	// Policy gates every operation by caller role.
	Policy auth.Policy

	// Sample is the default number of recent conversations the overview
	// averages over when the caller does not choose one.
	Sample int
}

// ConversationDaily returns per-day conversation aggregates, most recent day
// first. A non-empty since restricts the result to days >= since and must be
// a YYYY-MM-DD date.
func (s *AnalyticsService) ConversationDaily(ctx context.Context, role auth.Role, since string) ([]repo.ConversationDailyRow, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "ConversationDaily",
		trace.WithAttributes(attribute.String("since", since)),
	)
	defer span.End()

	if !s.Policy.Allows(role, auth.ActionReadAnalytics) {
		return nil, ErrPermission
	}
	if since != "" {
		if _, err := time.Parse(sinceLayout, since); err != nil {
			return nil, ErrInvalidSince
		}
	}
	return repo.ConversationDailyAnalytics(ctx, s.DB, since)
}

// ConversationFeedback returns the distribution of denormalized conversation
// labels, most frequent first. Unlabeled conversations are not counted.
func (s *AnalyticsService) ConversationFeedback(ctx context.Context, role auth.Role) ([]repo.ConversationFeedbackSummaryRow, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "ConversationFeedback")
	defer span.End()

	if !s.Policy.Allows(role, auth.ActionReadAnalytics) {
		return nil, ErrPermission
	}
	return repo.ConversationFeedbackSummary(ctx, s.DB)
}

// FeedbackDaily returns per-day, per-label aggregates of standalone feedback.
// A non-empty since restricts the result to days >= since and must be a
// YYYY-MM-DD date.
func (s *AnalyticsService) FeedbackDaily(ctx context.Context, role auth.Role, since string) ([]repo.FeedbackDailyRow, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "FeedbackDaily",
		trace.WithAttributes(attribute.String("since", since)),
	)
	defer span.End()

	if !s.Policy.Allows(role, auth.ActionReadAnalytics) {
		return nil, ErrPermission
	}
	if since != "" {
		if _, err := time.Parse(sinceLayout, since); err != nil {
			return nil, ErrInvalidSince
		}
	}
	return repo.FeedbackDailyAnalytics(ctx, s.DB, since)
}

// FeedbackSummary returns the distribution of standalone feedback labels,
// most frequent first.
func (s *AnalyticsService) FeedbackSummary(ctx context.Context, role auth.Role) ([]repo.FeedbackSummaryRow, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "FeedbackSummary")
	defer span.End()

	if !s.Policy.Allows(role, auth.ActionReadAnalytics) {
		return nil, ErrPermission
	}
	return repo.FeedbackSummary(ctx, s.DB)
}

// Overview returns totals plus averages over the sample most recent
// conversations. A sample below 1 falls back to the configured default.
func (s *AnalyticsService) Overview(ctx context.Context, role auth.Role, sample int) (*repo.OverviewStats, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Overview",
		trace.WithAttributes(attribute.Int("sample", sample)),
	)
	defer span.End()

	if !s.Policy.Allows(role, auth.ActionReadAnalytics) {
		return nil, ErrPermission
	}
	if sample < 1 {
		sample = s.Sample
	}
	return repo.Overview(ctx, s.DB, sample)
}
