package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:feedbacksvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(&domain.Conversation{}, &domain.Feedback{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedTestConversation(t *testing.T, db *gorm.DB, id, sessionID string) {
	t.Helper()
	c := &domain.Conversation{
		ID:           id,
		SessionID:    sessionID,
		UserQuestion: "what filters blood?",
		TAResponse:   "the glomerulus",
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
}

func validFeedbackInput(conversationID string) RecordFeedbackInput {
	return RecordFeedbackInput{
		SessionID:      "s1",
		ConversationID: conversationID,
		MessageIndex:   0,
		Question:       "what filters blood?",
		Response:       "the glomerulus",
		Label:          domain.FeedbackHelpful,
	}
}

func TestFeedback_Record_PermissionDenied(t *testing.T) {
	db := newTestDB(t)
	svc := &FeedbackService{DB: db, Policy: auth.NewPolicy(nil)}

	_, err := svc.Record(context.Background(), auth.RoleAnonymous, validFeedbackInput("c1"))
	if !errors.Is(err, ErrPermission) {
		t.Fatalf("expected ErrPermission, got %v", err)
	}
}

func TestFeedback_Record_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := &FeedbackService{DB: db, Policy: auth.DefaultPolicy()}

	cases := []struct {
		name string
		mut  func(*RecordFeedbackInput)
		want error
	}{
		{"blank session", func(in *RecordFeedbackInput) { in.SessionID = "  " }, ErrEmptySessionID},
		{"bad label", func(in *RecordFeedbackInput) { in.Label = "thumbs_up" }, ErrInvalidLabel},
		{"negative index", func(in *RecordFeedbackInput) { in.MessageIndex = -1 }, ErrNegativeMessageIndex},
		{"negative response time", func(in *RecordFeedbackInput) { in.ResponseTime = fptr(-0.5) }, ErrNegativeResponseTime},
	}
	for _, tc := range cases {
		in := validFeedbackInput("c1")
		tc.mut(&in)
		_, err := svc.Record(context.Background(), auth.RoleAnonymous, in)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestFeedback_Record_ConversationNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := &FeedbackService{DB: db, Policy: auth.DefaultPolicy()}

	// no conversations seeded -> existence check should fail
	_, err := svc.Record(context.Background(), auth.RoleAnonymous, validFeedbackInput("missing"))
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestFeedback_Record_Success(t *testing.T) {
	db := newTestDB(t)
	seedTestConversation(t, db, "c4", "s1")

	svc := &FeedbackService{DB: db, Policy: auth.DefaultPolicy()}
	in := validFeedbackInput("c4")
	in.SessionID = "  s1  "
	in.Label = domain.FeedbackNotHelpful
	in.ConceptsCovered = []string{"glomerulus", "filtration"}
	in.ResponseTime = fptr(1.5)

	out, err := svc.Record(context.Background(), auth.RoleAnonymous, in)
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if out.ID == "" {
		t.Fatalf("expected generated feedback ID")
	}
	if out.SessionID != "s1" {
		t.Fatalf("expected trimmed session id, got %q", out.SessionID)
	}
	if out.FeedbackType != domain.FeedbackNotHelpful {
		t.Fatalf("expected label to persist, got %q", out.FeedbackType)
	}
	if out.CreatedAt.IsZero() || time.Since(out.CreatedAt) > time.Minute {
		t.Fatalf("unexpected CreatedAt: %v", out.CreatedAt)
	}

	// Verify the row landed referencing the conversation.
	var got domain.Feedback
	if err := db.Where("conversation_id = ? AND session_id = ?", "c4", "s1").First(&got).Error; err != nil {
		t.Fatalf("load feedback: %v", err)
	}
	if len(got.ConceptsCovered) != 2 {
		t.Fatalf("expected concepts to round-trip, got %v", got.ConceptsCovered)
	}
}

// Force a non-not-found error during the existence check via a GORM Query
// callback. This hits the "unexpected DB error" path inside Record right
// after GetConversation.
func TestFeedback_Record_GetConversationUnexpectedDBError(t *testing.T) {
	db := newTestDB(t)

	if err := db.Callback().Query().Before("gorm:query").Register("force_err_on_conversations", func(tx *gorm.DB) {
		if tx.Statement != nil && strings.Contains(tx.Statement.Table, "conversations") {
			tx.AddError(errors.New("forced-getconversation-error"))
		}
	}); err != nil {
		t.Fatalf("register query callback: %v", err)
	}

	svc := &FeedbackService{DB: db, Policy: auth.DefaultPolicy()}
	_, err := svc.Record(context.Background(), auth.RoleAnonymous, validFeedbackInput("c-any"))
	if err == nil {
		t.Fatalf("expected error from forced query callback; got nil")
	}
	// MUST NOT be mapped to ErrConversationNotFound; it should bubble the raw error.
	if errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("unexpected mapping to ErrConversationNotFound: %v", err)
	}
}

// Helper: open an in-memory DB and migrate only selected tables.
// Use this to induce specific unexpected DB errors.
func newTestDBPartial(t *testing.T, migrateConversation, migrateFeedback bool) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:feedbacksvc_partial_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")

	if migrateConversation {
		if err := db.AutoMigrate(&domain.Conversation{}); err != nil {
			t.Fatalf("automigrate conversation: %v", err)
		}
	}
	if migrateFeedback {
		if err := db.AutoMigrate(&domain.Feedback{}); err != nil {
			t.Fatalf("automigrate feedback: %v", err)
		}
	}
	return db
}

// Force unexpected DB error on Create (feedback table missing) –
// should bubble the raw DB error (not conflict/not-found/etc).
func TestFeedback_Record_CreateUnexpectedDBError(t *testing.T) {
	db := newTestDBPartial(t, true /*conversation*/, false /*feedback*/)
	seedTestConversation(t, db, "cX", "sX")

	svc := &FeedbackService{DB: db, Policy: auth.DefaultPolicy()}
	_, err := svc.Record(context.Background(), auth.RoleAnonymous, validFeedbackInput("cX"))
	if err == nil {
		t.Fatalf("expected error when feedback table is missing; got nil")
	}
	// Not a service sentinel; it should be the raw DB error.
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrConversationNotFound) || errors.Is(err, ErrInvalidLabel) {
		t.Fatalf("unexpected mapping to service sentinel error: %v", err)
	}
}

// Explicitly exercise the gorm.ErrDuplicatedKey branch via a GORM callback.
func TestFeedback_Record_Conflict_GormErrDuplicatedKey(t *testing.T) {
	db := newTestDB(t)
	seedTestConversation(t, db, "cY", "sY")

	// Register AFTER seeding so it only affects feedback inserts.
	if err := db.Callback().Create().Before("gorm:create").Register("force_dup_for_feedback", func(tx *gorm.DB) {
		if tx.Statement != nil && strings.Contains(tx.Statement.Table, "feedback") {
			tx.AddError(gorm.ErrDuplicatedKey)
		}
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	svc := &FeedbackService{DB: db, Policy: auth.DefaultPolicy()}
	_, err := svc.Record(context.Background(), auth.RoleAnonymous, validFeedbackInput("cY"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict via gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestFeedback_Get(t *testing.T) {
	db := newTestDB(t)
	seedTestConversation(t, db, "c5", "s5")

	svc := &FeedbackService{DB: db, Policy: auth.DefaultPolicy()}
	created, err := svc.Record(context.Background(), auth.RoleAnonymous, validFeedbackInput("c5"))
	if err != nil {
		t.Fatalf("seed Record: %v", err)
	}

	got, err := svc.Get(context.Background(), auth.RoleAnonymous, created.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != created.ID || got.ConversationID != "c5" {
		t.Fatalf("unexpected row: %+v", got)
	}

	if _, err := svc.Get(context.Background(), auth.RoleAnonymous, "missing"); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("expected ErrFeedbackNotFound, got %v", err)
	}
}

func TestFeedback_ListPage(t *testing.T) {
	db := newTestDB(t)
	seedTestConversation(t, db, "c6", "s6")

	svc := &FeedbackService{DB: db, Policy: auth.DefaultPolicy()}
	for i := 0; i < 3; i++ {
		in := validFeedbackInput("c6")
		in.SessionID = "s6"
		in.MessageIndex = i
		if _, err := svc.Record(context.Background(), auth.RoleAnonymous, in); err != nil {
			t.Fatalf("seed Record %d: %v", i, err)
		}
	}

	items, total, err := svc.ListPage(context.Background(), auth.RoleAnonymous, repo.FeedbackFilter{ConversationID: "c6"}, 0, 0)
	if err != nil {
		t.Fatalf("ListPage error: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("expected 3 rows, got total=%d len=%d", total, len(items))
	}
	// Conversation scope orders by message position.
	if items[0].MessageIndex != 0 || items[2].MessageIndex != 2 {
		t.Fatalf("unexpected order: %d..%d", items[0].MessageIndex, items[2].MessageIndex)
	}

	// Second page of size 2 holds the last row.
	items, total, err = svc.ListPage(context.Background(), auth.RoleAnonymous, repo.FeedbackFilter{ConversationID: "c6"}, 2, 2)
	if err != nil {
		t.Fatalf("ListPage page 2 error: %v", err)
	}
	if total != 3 || len(items) != 1 || items[0].MessageIndex != 2 {
		t.Fatalf("unexpected page 2: total=%d items=%+v", total, items)
	}
}

func TestFeedback_ListPage_TotalZeroAndCountError(t *testing.T) {
	db := newTestDB(t)
	svc := &FeedbackService{DB: db, Policy: auth.DefaultPolicy()}

	items, total, err := svc.ListPage(context.Background(), auth.RoleAnonymous, repo.FeedbackFilter{SessionID: "empty"}, 1, 10)
	if err != nil {
		t.Fatalf("ListPage error: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected empty result, got total=%d len=%d", total, len(items))
	}

	// Missing table -> count error propagates.
	broken := newTestDBPartial(t, true, false)
	svcBroken := &FeedbackService{DB: broken, Policy: auth.DefaultPolicy()}
	if _, _, err := svcBroken.ListPage(context.Background(), auth.RoleAnonymous, repo.FeedbackFilter{}, 1, 10); err == nil {
		t.Fatalf("expected count error when feedback table is missing")
	}
}

func TestFeedback_UpdateLabel(t *testing.T) {
	db := newTestDB(t)
	seedTestConversation(t, db, "c7", "s7")

	svc := &FeedbackService{DB: db, Policy: auth.DefaultPolicy()}
	created, err := svc.Record(context.Background(), auth.RoleAnonymous, validFeedbackInput("c7"))
	if err != nil {
		t.Fatalf("seed Record: %v", err)
	}

	if err := svc.UpdateLabel(context.Background(), auth.RoleAnonymous, created.ID, "great"); !errors.Is(err, ErrInvalidLabel) {
		t.Fatalf("expected ErrInvalidLabel, got %v", err)
	}
	if err := svc.UpdateLabel(context.Background(), auth.RoleAnonymous, "missing", domain.FeedbackHelpful); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("expected ErrFeedbackNotFound, got %v", err)
	}

	if err := svc.UpdateLabel(context.Background(), auth.RoleAnonymous, created.ID, domain.FeedbackPartiallyHelpful); err != nil {
		t.Fatalf("UpdateLabel error: %v", err)
	}
	var got domain.Feedback
	if err := db.First(&got, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("load feedback: %v", err)
	}
	if got.FeedbackType != domain.FeedbackPartiallyHelpful {
		t.Fatalf("expected updated label, got %q", got.FeedbackType)
	}

	// The conversation's denormalized label stays untouched.
	var conv domain.Conversation
	if err := db.First(&conv, "id = ?", "c7").Error; err != nil {
		t.Fatalf("load conversation: %v", err)
	}
	if conv.Feedback != nil {
		t.Fatalf("conversation label should remain NULL, got %v", *conv.Feedback)
	}
}

func TestFeedback_Delete_RequiresAuthenticatedRole(t *testing.T) {
	db := newTestDB(t)
	seedTestConversation(t, db, "c8", "s8")

	svc := &FeedbackService{DB: db, Policy: auth.DefaultPolicy()}
	created, err := svc.Record(context.Background(), auth.RoleAnonymous, validFeedbackInput("c8"))
	if err != nil {
		t.Fatalf("seed Record: %v", err)
	}

	if err := svc.Delete(context.Background(), auth.RoleAnonymous, created.ID); !errors.Is(err, ErrPermission) {
		t.Fatalf("expected ErrPermission for anonymous delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), auth.RoleAuthenticated, created.ID); err != nil {
		t.Fatalf("authenticated delete error: %v", err)
	}
	if err := svc.Delete(context.Background(), auth.RoleAuthenticated, created.ID); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("expected ErrFeedbackNotFound after delete, got %v", err)
	}
}

func Test_isNotFound_and_isDuplicate(t *testing.T) {
	// repo-level sentinel should be detected
	if !isNotFound(repo.ErrNotFound) {
		t.Fatalf("isNotFound(repo.ErrNotFound) = false; want true")
	}
	// unrelated error -> false
	if isNotFound(errors.New("nope")) {
		t.Fatalf("isNotFound(random) = true; want false")
	}

	// string-based duplicate patterns
	if !isDuplicate(errors.New("UNIQUE constraint failed: feedback.id")) {
		t.Fatalf("isDuplicate(sqlite unique) = false; want true")
	}
	if !isDuplicate(errors.New("duplicate key value violates unique constraint \"feedback_pkey\"")) {
		t.Fatalf("isDuplicate(pg duplicate) = false; want true")
	}
	if isDuplicate(errors.New("some other error")) {
		t.Fatalf("isDuplicate(other) = true; want false")
	}
}
