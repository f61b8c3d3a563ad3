// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Feedback
// model.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving business rules to the services package. Notably,
// it does not verify that the referenced conversation exists; the service
// layer checks that inside the same transaction so the FK violation never
// surfaces to callers as a raw DB error.
//
// Error semantics:
//   - When a feedback row is not found, functions return ErrNotFound.
//   - On other DB errors (connectivity, constraints, etc.), the raw gorm
//     error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusai/go-tutor-backend/internal/domain"
)

// FeedbackFilter narrows feedback queries. Zero values mean "no constraint"
// for the respective field.
type FeedbackFilter struct {
	SessionID      string
	ConversationID string
	Label          *domain.FeedbackLabel
	Concept        string // exact element match inside concepts_covered
}

// CreateFeedback inserts a feedback row. The ID is a randomly generated UUID,
// CreatedAt/UpdatedAt are set to UTC now, and a nil concepts column becomes
// an empty JSON array.
//
// On success, it returns the persisted row. On failure, it returns a DB error.
func CreateFeedback(ctx context.Context, db *gorm.DB, fb *domain.Feedback) (*domain.Feedback, error) {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	fb.CreatedAt = now
	fb.UpdatedAt = now
	if fb.ConceptsCovered == nil {
		fb.ConceptsCovered = datatypes.JSONSlice[string]{}
	}
	if err := db.WithContext(ctx).Create(fb).Error; err != nil {
		return nil, err
	}
	return fb, nil
}

// GetFeedback fetches a single feedback row by its ID, or ErrNotFound.
func GetFeedback(ctx context.Context, db *gorm.DB, id string) (*domain.Feedback, error) {
	var fb domain.Feedback
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&fb).Error
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// ListFeedback returns all feedback rows matching f. Conversation-scoped
// reads come back in message order (message_index ASC, then creation time);
// all other reads are most recent first. It returns an empty slice when
// nothing matches.
func ListFeedback(ctx context.Context, db *gorm.DB, f FeedbackFilter) ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := feedbackQuery(ctx, db, f).Find(&out).Error
	return out, err
}

// CountFeedback returns the number of feedback rows matching f.
func CountFeedback(ctx context.Context, db *gorm.DB, f FeedbackFilter) (int64, error) {
	var total int64
	q := applyFeedbackFilter(db.WithContext(ctx).Model(&domain.Feedback{}), f)
	err := q.Count(&total).Error
	return total, err
}

// ListFeedbackPage returns a paginated slice of feedback rows matching f,
// with the same ordering rules as ListFeedback.
func ListFeedbackPage(ctx context.Context, db *gorm.DB, f FeedbackFilter, offset, limit int) ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := feedbackQuery(ctx, db, f).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateFeedbackType changes the label on the feedback row identified by id.
// UpdatedAt is always written, so the column advances even when the label is
// unchanged. Returns ErrNotFound if the row does not exist.
func UpdateFeedbackType(ctx context.Context, db *gorm.DB, id string, label domain.FeedbackLabel) error {
	res := db.WithContext(ctx).
		Model(&domain.Feedback{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"feedback_type": string(label),
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteFeedback physically deletes the feedback row identified by id.
// Returns ErrNotFound if the row does not exist.
func DeleteFeedback(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.Feedback{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// feedbackQuery builds the filtered, ordered base query for list reads.
func feedbackQuery(ctx context.Context, db *gorm.DB, f FeedbackFilter) *gorm.DB {
	q := applyFeedbackFilter(db.WithContext(ctx).Model(&domain.Feedback{}), f)
	if f.ConversationID != "" {
		return q.Order("message_index ASC, created_at ASC, id ASC")
	}
	return q.Order("created_at DESC")
}

// applyFeedbackFilter adds the filter predicates without ordering.
func applyFeedbackFilter(q *gorm.DB, f FeedbackFilter) *gorm.DB {
	if f.SessionID != "" {
		q = q.Where("session_id = ?", f.SessionID)
	}
	if f.ConversationID != "" {
		q = q.Where("conversation_id = ?", f.ConversationID)
	}
	if f.Label != nil {
		q = q.Where("feedback_type = ?", string(*f.Label))
	}
	if f.Concept != "" {
		expr, arg := jsonContains(q, "concepts_covered", f.Concept)
		q = q.Where(expr, arg)
	}
	return q
}
