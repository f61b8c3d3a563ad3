package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusai/go-tutor-backend/internal/domain"
)

func newFeedbackDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:feedbackrepo?mode=memory&cache=shared"), &gorm.Config{
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

// The feedbackrepo database is shared across this file's tests, so every test
// works on its own session/conversation IDs and scopes its assertions to them.
func seedFeedback(t *testing.T, db *gorm.DB, fb domain.Feedback) {
	t.Helper()
	if fb.ConceptsCovered == nil {
		fb.ConceptsCovered = datatypes.JSONSlice[string]{}
	}
	if fb.UpdatedAt.IsZero() {
		fb.UpdatedAt = fb.CreatedAt
	}
	if err := db.Create(&fb).Error; err != nil {
		t.Fatalf("seed %s: %v", fb.ID, err)
	}
}

func TestCreateFeedback_Error_NoTable(t *testing.T) {
	db := newFeedbackDB(t /* no migrations */)
	_, err := CreateFeedback(context.Background(), db, &domain.Feedback{
		SessionID: "s-notable", ConversationID: "c-notable", FeedbackType: domain.FeedbackHelpful,
	})
	if err == nil {
		t.Fatalf("expected error when feedback table is missing")
	}
}

func TestCreateFeedback_Success_InsertsRow(t *testing.T) {
	db := newFeedbackDB(t, &domain.Conversation{}, &domain.Feedback{})

	// Seed the referenced conversation in case FK enforcement is on.
	seedConversation(t, db, domain.Conversation{
		ID: "c-create", SessionID: "s-create", UserQuestion: "q", TAResponse: "a",
		CreatedAt: time.Now().UTC(),
	})

	start := time.Now().UTC()
	fb, err := CreateFeedback(context.Background(), db, &domain.Feedback{
		SessionID:      "s-create",
		ConversationID: "c-create",
		MessageIndex:   2,
		UserQuestion:   "What is GFR?",
		AIResponse:     "Glomerular filtration rate.",
		FeedbackType:   domain.FeedbackNotHelpful,
	})
	if err != nil {
		t.Fatalf("CreateFeedback error: %v", err)
	}
	if fb.ID == "" || fb.ConceptsCovered == nil {
		t.Fatalf("unexpected created feedback: %+v", fb)
	}

	var got domain.Feedback
	if err := db.Where("conversation_id = ?", "c-create").First(&got).Error; err != nil {
		t.Fatalf("load feedback: %v", err)
	}
	if got.MessageIndex != 2 || got.FeedbackType != domain.FeedbackNotHelpful {
		t.Fatalf("unexpected feedback row: %+v", got)
	}
	if got.CreatedAt.IsZero() || !got.CreatedAt.After(start.Add(-time.Minute)) {
		t.Fatalf("CreatedAt not set reasonably: %v", got.CreatedAt)
	}
	if !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Fatalf("fresh row should have UpdatedAt == CreatedAt, got %v / %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestGetFeedback_FoundAndNotFound(t *testing.T) {
	db := newFeedbackDB(t, &domain.Conversation{}, &domain.Feedback{})

	if _, err := GetFeedback(context.Background(), db, "missing-feedback"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	seedFeedback(t, db, domain.Feedback{
		ID: "f-get", SessionID: "s-get", ConversationID: "c-get",
		UserQuestion: "q", AIResponse: "a", FeedbackType: domain.FeedbackHelpful,
		CreatedAt: time.Now().UTC(),
	})
	got, err := GetFeedback(context.Background(), db, "f-get")
	if err != nil {
		t.Fatalf("GetFeedback: %v", err)
	}
	if got.ID != "f-get" || got.FeedbackType != domain.FeedbackHelpful {
		t.Fatalf("unexpected feedback: %+v", got)
	}
}

func TestListFeedback_ConversationOrder_AndFilters(t *testing.T) {
	db := newFeedbackDB(t, &domain.Conversation{}, &domain.Feedback{})

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	// One session, two conversations; message indexes deliberately shuffled.
	seedFeedback(t, db, domain.Feedback{ID: "f-list-2", SessionID: "s-list", ConversationID: "c-list-1", MessageIndex: 4, UserQuestion: "q", AIResponse: "a", FeedbackType: domain.FeedbackHelpful, ConceptsCovered: datatypes.JSONSlice[string]{"nephron"}, CreatedAt: base})
	seedFeedback(t, db, domain.Feedback{ID: "f-list-1", SessionID: "s-list", ConversationID: "c-list-1", MessageIndex: 0, UserQuestion: "q", AIResponse: "a", FeedbackType: domain.FeedbackNotHelpful, CreatedAt: base.Add(time.Minute)})
	seedFeedback(t, db, domain.Feedback{ID: "f-list-3", SessionID: "s-list", ConversationID: "c-list-2", MessageIndex: 1, UserQuestion: "q", AIResponse: "a", FeedbackType: domain.FeedbackHelpful, ConceptsCovered: datatypes.JSONSlice[string]{"nephron", "glomerulus"}, CreatedAt: base.Add(2 * time.Minute)})

	// Conversation-scoped reads come back in message order.
	byConv, err := ListFeedback(context.Background(), db, FeedbackFilter{ConversationID: "c-list-1"})
	if err != nil {
		t.Fatalf("ListFeedback(conversation): %v", err)
	}
	if len(byConv) != 2 || byConv[0].ID != "f-list-1" || byConv[1].ID != "f-list-2" {
		t.Fatalf("unexpected conversation order: %#v", byConv)
	}

	// Session-scoped reads are most recent first.
	bySession, err := ListFeedback(context.Background(), db, FeedbackFilter{SessionID: "s-list"})
	if err != nil {
		t.Fatalf("ListFeedback(session): %v", err)
	}
	if len(bySession) != 3 || bySession[0].ID != "f-list-3" || bySession[1].ID != "f-list-1" || bySession[2].ID != "f-list-2" {
		t.Fatalf("unexpected session order: %#v", bySession)
	}

	// Label filter.
	helpful := domain.FeedbackHelpful
	byLabel, err := ListFeedback(context.Background(), db, FeedbackFilter{SessionID: "s-list", Label: &helpful})
	if err != nil {
		t.Fatalf("ListFeedback(label): %v", err)
	}
	if len(byLabel) != 2 {
		t.Fatalf("expected 2 helpful rows, got %d", len(byLabel))
	}

	// Concept membership filter.
	byConcept, err := ListFeedback(context.Background(), db, FeedbackFilter{SessionID: "s-list", Concept: "glomerulus"})
	if err != nil {
		t.Fatalf("ListFeedback(concept): %v", err)
	}
	if len(byConcept) != 1 || byConcept[0].ID != "f-list-3" {
		t.Fatalf("unexpected concept filter result: %#v", byConcept)
	}

	// Count agrees with the list.
	n, err := CountFeedback(context.Background(), db, FeedbackFilter{SessionID: "s-list"})
	if err != nil {
		t.Fatalf("CountFeedback: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows for s-list, got %d", n)
	}

	// Pagination applies after ordering.
	page, err := ListFeedbackPage(context.Background(), db, FeedbackFilter{SessionID: "s-list"}, 1, 1)
	if err != nil {
		t.Fatalf("ListFeedbackPage: %v", err)
	}
	if len(page) != 1 || page[0].ID != "f-list-1" {
		t.Fatalf("unexpected page: %#v", page)
	}
}

func TestUpdateFeedbackType_AlwaysAdvancesUpdatedAt(t *testing.T) {
	db := newFeedbackDB(t, &domain.Conversation{}, &domain.Feedback{})

	past := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seedFeedback(t, db, domain.Feedback{
		ID: "f-upd", SessionID: "s-upd", ConversationID: "c-upd",
		UserQuestion: "q", AIResponse: "a", FeedbackType: domain.FeedbackHelpful,
		CreatedAt: past, UpdatedAt: past,
	})

	// Change the label.
	if err := UpdateFeedbackType(context.Background(), db, "f-upd", domain.FeedbackPartiallyHelpful); err != nil {
		t.Fatalf("UpdateFeedbackType: %v", err)
	}
	var got domain.Feedback
	if err := db.First(&got, "id = ?", "f-upd").Error; err != nil {
		t.Fatalf("load updated: %v", err)
	}
	if got.FeedbackType != domain.FeedbackPartiallyHelpful {
		t.Fatalf("expected partially_helpful, got %q", got.FeedbackType)
	}
	if !got.UpdatedAt.After(past) {
		t.Fatalf("UpdatedAt should advance, got %v", got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(past) {
		t.Fatalf("CreatedAt must never change: %v", got.CreatedAt)
	}

	// Rewind the column, then resubmit the SAME label: it must advance again.
	if err := db.Exec(`UPDATE feedback SET updated_at = ? WHERE id = ?`, past, "f-upd").Error; err != nil {
		t.Fatalf("rewind updated_at: %v", err)
	}
	if err := UpdateFeedbackType(context.Background(), db, "f-upd", domain.FeedbackPartiallyHelpful); err != nil {
		t.Fatalf("repeat UpdateFeedbackType: %v", err)
	}
	if err := db.First(&got, "id = ?", "f-upd").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.UpdatedAt.After(past) {
		t.Fatalf("UpdatedAt should advance on a no-op label write, got %v", got.UpdatedAt)
	}

	// Missing row.
	if err := UpdateFeedbackType(context.Background(), db, "missing-feedback", domain.FeedbackHelpful); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteFeedback(t *testing.T) {
	db := newFeedbackDB(t, &domain.Conversation{}, &domain.Feedback{})

	seedFeedback(t, db, domain.Feedback{
		ID: "f-del", SessionID: "s-del", ConversationID: "c-del",
		UserQuestion: "q", AIResponse: "a", FeedbackType: domain.FeedbackHelpful,
		CreatedAt: time.Now().UTC(),
	})

	if err := DeleteFeedback(context.Background(), db, "f-del"); err != nil {
		t.Fatalf("DeleteFeedback: %v", err)
	}
	if _, err := GetFeedback(context.Background(), db, "f-del"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected row to be gone, got %v", err)
	}
	if err := DeleteFeedback(context.Background(), db, "f-del"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}
