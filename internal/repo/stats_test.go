package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusai/go-tutor-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestConversationsStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	_, _, err := ConversationsStats(context.Background(), db, "s1")
	if err == nil {
		t.Fatalf("expected error due to missing conversations table")
	}
}

func TestConversationsStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.Conversation{})
	count, maxAt, err := ConversationsStats(context.Background(), db, "s1")
	if err != nil {
		t.Fatalf("ConversationsStats error: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestConversationsStats_Success_FilterAndMax(t *testing.T) {
	db := newTestDB(t, &domain.Conversation{})

	// Seed conversations for two sessions; ensure UpdatedAt is exactly what we set.
	t1 := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC) // max for s1
	t3 := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)   // for other session

	c1 := &domain.Conversation{ID: "c1", SessionID: "s1", UserQuestion: "a", TAResponse: "x", CreatedAt: t1, UpdatedAt: t1}
	c2 := &domain.Conversation{ID: "c2", SessionID: "s1", UserQuestion: "b", TAResponse: "y", CreatedAt: t2, UpdatedAt: t2}
	c3 := &domain.Conversation{ID: "c3", SessionID: "s2", UserQuestion: "c", TAResponse: "z", CreatedAt: t3, UpdatedAt: t3}

	if err := db.Create(c1).Error; err != nil {
		t.Fatalf("seed c1: %v", err)
	}
	if err := db.Create(c2).Error; err != nil {
		t.Fatalf("seed c2: %v", err)
	}
	if err := db.Create(c3).Error; err != nil {
		t.Fatalf("seed c3: %v", err)
	}

	count, maxAt, err := ConversationsStats(context.Background(), db, "s1")
	if err != nil {
		t.Fatalf("ConversationsStats error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("expected maxUpdatedAt %v, got %v", t2, maxAt)
	}

	// Empty session means "all rows".
	count, maxAt, err = ConversationsStats(context.Background(), db, "")
	if err != nil {
		t.Fatalf("ConversationsStats unscoped error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
	if maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("expected unscoped maxUpdatedAt %v, got %v", t2, maxAt)
	}
}

// Force the second query (SELECT updated_at ...) to fail by renaming the column.
func TestConversationsStats_SelectLatest_ErrorPath(t *testing.T) {
	db := newTestDB(t, &domain.Conversation{})

	// Seed at least one row so count > 0
	now := time.Now().UTC()
	if err := db.Create(&domain.Conversation{
		ID:           "cx",
		SessionID:    "serr",
		UserQuestion: "q",
		TAResponse:   "a",
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error; err != nil {
		t.Fatalf("seed conversation: %v", err)
	}

	// Break the follow-up select by removing/renaming updated_at.
	if err := db.Exec(`ALTER TABLE conversations RENAME COLUMN updated_at TO updated_at_old`).Error; err != nil {
		t.Fatalf("rename column: %v", err)
	}

	_, _, err := ConversationsStats(context.Background(), db, "serr")
	if err == nil {
		t.Fatalf("expected error from latest-updated select after column rename")
	}
}

func TestFeedbackStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	_, _, err := FeedbackStats(context.Background(), db, "c1")
	if err == nil {
		t.Fatalf("expected error due to missing feedback table")
	}
}

func TestFeedbackStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.Feedback{})
	count, maxAt, err := FeedbackStats(context.Background(), db, "c1")
	if err != nil {
		t.Fatalf("FeedbackStats error: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestFeedbackStats_Success_FilterAndMax(t *testing.T) {
	db := newTestDB(t, &domain.Feedback{})

	// Seed feedback in two conversations with precise UpdatedAt.
	t1 := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 4, 1, 12, 5, 0, 0, time.UTC) // max for cX
	t3 := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)  // other conversation

	f1 := &domain.Feedback{ID: "f1", SessionID: "s1", ConversationID: "cX", MessageIndex: 0, UserQuestion: "q", AIResponse: "a", FeedbackType: domain.FeedbackHelpful, CreatedAt: t1, UpdatedAt: t1}
	f2 := &domain.Feedback{ID: "f2", SessionID: "s1", ConversationID: "cX", MessageIndex: 1, UserQuestion: "q", AIResponse: "a", FeedbackType: domain.FeedbackNotHelpful, CreatedAt: t2, UpdatedAt: t2}
	f3 := &domain.Feedback{ID: "f3", SessionID: "s2", ConversationID: "cY", MessageIndex: 0, UserQuestion: "q", AIResponse: "a", FeedbackType: domain.FeedbackHelpful, CreatedAt: t3, UpdatedAt: t3}

	if err := db.Create(f1).Error; err != nil {
		t.Fatalf("seed f1: %v", err)
	}
	if err := db.Create(f2).Error; err != nil {
		t.Fatalf("seed f2: %v", err)
	}
	if err := db.Create(f3).Error; err != nil {
		t.Fatalf("seed f3: %v", err)
	}

	count, maxAt, err := FeedbackStats(context.Background(), db, "cX")
	if err != nil {
		t.Fatalf("FeedbackStats error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("expected maxUpdatedAt %v, got %v", t2, maxAt)
	}
}

// Force the second query (SELECT updated_at ...) to fail by renaming the column.
func TestFeedbackStats_SelectLatest_ErrorPath(t *testing.T) {
	db := newTestDB(t, &domain.Feedback{})

	// Seed at least one row so count > 0
	now := time.Now().UTC()
	if err := db.Create(&domain.Feedback{
		ID:             "fx",
		SessionID:      "serr",
		ConversationID: "cerr",
		UserQuestion:   "q",
		AIResponse:     "a",
		FeedbackType:   domain.FeedbackHelpful,
		CreatedAt:      now,
		UpdatedAt:      now,
	}).Error; err != nil {
		t.Fatalf("seed feedback: %v", err)
	}

	// Break the follow-up select by removing/renaming updated_at.
	if err := db.Exec(`ALTER TABLE feedback RENAME COLUMN updated_at TO updated_at_old`).Error; err != nil {
		t.Fatalf("rename column: %v", err)
	}

	_, _, err := FeedbackStats(context.Background(), db, "cerr")
	if err == nil {
		t.Fatalf("expected error from latest-updated select after column rename")
	}
}
