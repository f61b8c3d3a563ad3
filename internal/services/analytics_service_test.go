package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusai/go-tutor-backend/internal/auth"
	"github.com/campusai/go-tutor-backend/internal/domain"
	"github.com/campusai/go-tutor-backend/internal/repo"
)

// newAnalyticsSvcDB opens an isolated in-memory database with the full
// schema, reporting views included.
func newAnalyticsSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:analyticssvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedAnalyticsConversation(t *testing.T, db *gorm.DB, id, sessionID string, createdAt time.Time, label *domain.FeedbackLabel, responseTime *float64) {
	t.Helper()
	c := &domain.Conversation{
		ID:           id,
		SessionID:    sessionID,
		UserQuestion: "q",
		TAResponse:   "a",
		ResponseTime: responseTime,
		Feedback:     label,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed conversation %s: %v", id, err)
	}
}

func labelPtr(l domain.FeedbackLabel) *domain.FeedbackLabel { return &l }

func TestAnalytics_PermissionDenied(t *testing.T) {
	db := newAnalyticsSvcDB(t)
	svc := &AnalyticsService{DB: db, Policy: auth.NewPolicy(nil), Sample: 50}
	ctx := context.Background()

	if _, err := svc.ConversationDaily(ctx, auth.RoleAnonymous, ""); !errors.Is(err, ErrPermission) {
		t.Fatalf("ConversationDaily: expected ErrPermission, got %v", err)
	}
	if _, err := svc.ConversationFeedback(ctx, auth.RoleAnonymous); !errors.Is(err, ErrPermission) {
		t.Fatalf("ConversationFeedback: expected ErrPermission, got %v", err)
	}
	if _, err := svc.FeedbackDaily(ctx, auth.RoleAnonymous, ""); !errors.Is(err, ErrPermission) {
		t.Fatalf("FeedbackDaily: expected ErrPermission, got %v", err)
	}
	if _, err := svc.FeedbackSummary(ctx, auth.RoleAnonymous); !errors.Is(err, ErrPermission) {
		t.Fatalf("FeedbackSummary: expected ErrPermission, got %v", err)
	}
	if _, err := svc.Overview(ctx, auth.RoleAnonymous, 0); !errors.Is(err, ErrPermission) {
		t.Fatalf("Overview: expected ErrPermission, got %v", err)
	}
}

func TestAnalytics_InvalidSince(t *testing.T) {
	db := newAnalyticsSvcDB(t)
	svc := &AnalyticsService{DB: db, Policy: auth.DefaultPolicy(), Sample: 50}
	ctx := context.Background()

	for _, bad := range []string{"06/01/2025", "2025-13-40", "yesterday"} {
		if _, err := svc.ConversationDaily(ctx, auth.RoleAnonymous, bad); !errors.Is(err, ErrInvalidSince) {
			t.Errorf("ConversationDaily(%q): expected ErrInvalidSince, got %v", bad, err)
		}
		if _, err := svc.FeedbackDaily(ctx, auth.RoleAnonymous, bad); !errors.Is(err, ErrInvalidSince) {
			t.Errorf("FeedbackDaily(%q): expected ErrInvalidSince, got %v", bad, err)
		}
	}
}

func TestAnalytics_ConversationDaily_SinceCutoff(t *testing.T) {
	db := newAnalyticsSvcDB(t)
	svc := &AnalyticsService{DB: db, Policy: auth.DefaultPolicy(), Sample: 50}
	ctx := context.Background()

	d1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	seedAnalyticsConversation(t, db, "ad-1", "s1", d1, labelPtr(domain.FeedbackHelpful), nil)
	seedAnalyticsConversation(t, db, "ad-2", "s2", d2, nil, nil)

	rows, err := svc.ConversationDaily(ctx, auth.RoleAnonymous, "")
	if err != nil {
		t.Fatalf("ConversationDaily error: %v", err)
	}
	if len(rows) != 2 || rows[0].Day != "2025-06-02" {
		t.Fatalf("expected 2 days newest first, got %+v", rows)
	}

	rows, err = svc.ConversationDaily(ctx, auth.RoleAnonymous, "2025-06-02")
	if err != nil {
		t.Fatalf("ConversationDaily since error: %v", err)
	}
	if len(rows) != 1 || rows[0].Day != "2025-06-02" {
		t.Fatalf("expected only the cutoff day, got %+v", rows)
	}
}

func TestAnalytics_Summaries(t *testing.T) {
	db := newAnalyticsSvcDB(t)
	svc := &AnalyticsService{DB: db, Policy: auth.DefaultPolicy(), Sample: 50}
	ctx := context.Background()

	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	seedAnalyticsConversation(t, db, "as-1", "s1", now, labelPtr(domain.FeedbackHelpful), nil)
	seedAnalyticsConversation(t, db, "as-2", "s1", now, labelPtr(domain.FeedbackHelpful), nil)
	seedAnalyticsConversation(t, db, "as-3", "s2", now, labelPtr(domain.FeedbackNotHelpful), nil)
	seedAnalyticsConversation(t, db, "as-4", "s2", now, nil, nil) // unlabeled, not counted

	dist, err := svc.ConversationFeedback(ctx, auth.RoleAnonymous)
	if err != nil {
		t.Fatalf("ConversationFeedback error: %v", err)
	}
	if len(dist) != 2 || dist[0].Feedback != "helpful" || dist[0].FeedbackCount != 2 {
		t.Fatalf("unexpected distribution: %+v", dist)
	}

	// Standalone feedback rows; labels independent of the conversation ones.
	for i, label := range []domain.FeedbackLabel{domain.FeedbackNotHelpful, domain.FeedbackNotHelpful, domain.FeedbackHelpful} {
		fb := &domain.Feedback{
			ID:             fmt.Sprintf("as-fb-%d", i),
			SessionID:      "s1",
			ConversationID: "as-1",
			MessageIndex:   i,
			UserQuestion:   "q",
			AIResponse:     "a",
			FeedbackType:   label,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := db.Create(fb).Error; err != nil {
			t.Fatalf("seed feedback %d: %v", i, err)
		}
	}

	sum, err := svc.FeedbackSummary(ctx, auth.RoleAnonymous)
	if err != nil {
		t.Fatalf("FeedbackSummary error: %v", err)
	}
	if len(sum) != 2 || sum[0].FeedbackType != "not_helpful" || sum[0].TotalCount != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	daily, err := svc.FeedbackDaily(ctx, auth.RoleAnonymous, "2025-06-03")
	if err != nil {
		t.Fatalf("FeedbackDaily error: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("expected 2 label buckets, got %+v", daily)
	}
}

func TestAnalytics_Overview_SampleFallback(t *testing.T) {
	db := newAnalyticsSvcDB(t)
	svc := &AnalyticsService{DB: db, Policy: auth.DefaultPolicy(), Sample: 2}
	ctx := context.Background()

	base := time.Date(2025, 6, 4, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedAnalyticsConversation(t, db, fmt.Sprintf("ov-%d", i), "s1", base.Add(time.Duration(i)*time.Minute), nil, fptr(float64(i+1)))
	}

	// sample=0 falls back to the configured default of 2 -> two newest rows (2s, 3s).
	stats, err := svc.Overview(ctx, auth.RoleAnonymous, 0)
	if err != nil {
		t.Fatalf("Overview error: %v", err)
	}
	if stats.TotalConversations != 3 || stats.SampleSize != 2 {
		t.Fatalf("expected total 3 over sample 2, got %+v", stats)
	}
	if stats.AvgResponseTime != 2.5 {
		t.Fatalf("expected avg 2.5 over newest two, got %v", stats.AvgResponseTime)
	}

	// explicit sample wins
	stats, err = svc.Overview(ctx, auth.RoleAnonymous, 3)
	if err != nil {
		t.Fatalf("Overview error: %v", err)
	}
	if stats.SampleSize != 3 || stats.AvgResponseTime != 2.0 {
		t.Fatalf("expected sample 3 avg 2.0, got %+v", stats)
	}
}

func TestAnalytics_ErrorsPropagate(t *testing.T) {
	// No schema at all: reads must surface the driver error untranslated.
	dsn := fmt.Sprintf("file:analyticssvc_bare_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	svc := &AnalyticsService{DB: db, Policy: auth.DefaultPolicy(), Sample: 50}

	if _, err := svc.ConversationFeedback(context.Background(), auth.RoleAnonymous); err == nil {
		t.Fatalf("expected error without schema")
	} else if errors.Is(err, ErrPermission) || errors.Is(err, ErrValidation) {
		t.Fatalf("unexpected mapping to service sentinel: %v", err)
	}
}
