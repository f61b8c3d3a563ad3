// Package services – FeedbackService
//
// This file implements the FeedbackService, which governs how students leave
// standalone feedback on tutoring messages. It enforces business rules (label
// validity, conversation existence at write time) and persists feedback
// atomically in the database. Service-level errors (e.g. ErrInvalidLabel,
// ErrConversationNotFound, ErrFeedbackNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
//
// Feedback rows are deliberately independent of the denormalized label on the
// conversation row: recording or updating feedback here never touches the
// conversation, and the two values may disagree.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusai/go-tutor-backend/internal/auth"
	"github.com/campusai/go-tutor-backend/internal/domain"
	"github.com/campusai/go-tutor-backend/internal/observability"
	"github.com/campusai/go-tutor-backend/internal/repo"
)

// RecordFeedbackInput carries the client-supplied fields of a feedback row.
// Question and response are snapshots of the rated exchange and may be empty.
type RecordFeedbackInput struct {
	SessionID       string
	ConversationID  string
	MessageIndex    int
	Question        string
	Response        string
	Label           domain.FeedbackLabel
	ConceptsCovered []string
	ResponseTime    *float64
}

// FeedbackService implements the use-cases around standalone feedback.
// It validates the operation (label, referenced conversation) and persists
// the feedback using the provided GORM handle.
type FeedbackService struct {
	// DB is the database handle used for all feedback operations.
	// The handle may be a plain *gorm.DB or a transaction-bound handle.
	DB *gorm.DB
	// Policy gates every operation by caller role.
	Policy auth.Policy
}

// Record inserts a feedback row referencing an existing conversation.
//
// Semantics and validation:
//   - Label must be one of the accepted labels; otherwise ErrInvalidLabel.
//   - SessionID must be non-blank; otherwise ErrEmptySessionID.
//   - MessageIndex must be non-negative; otherwise ErrNegativeMessageIndex.
//   - The referenced conversation must exist at write time; otherwise
//     ErrConversationNotFound. The check and the insert run in one
//     transaction so a concurrent delete cannot leave an orphan.
func (s *FeedbackService) Record(ctx context.Context, role auth.Role, in RecordFeedbackInput) (*domain.Feedback, error) {
	if !s.Policy.Allows(role, auth.ActionRecordFeedback) {
		return nil, ErrPermission
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}
	if !in.Label.Valid() {
		return nil, ErrInvalidLabel
	}
	if in.MessageIndex < 0 {
		return nil, ErrNegativeMessageIndex
	}
	if in.ResponseTime != nil && *in.ResponseTime < 0 {
		return nil, ErrNegativeResponseTime
	}

	var out *domain.Feedback
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Verify the referenced conversation exists.
		if _, err := repo.GetConversation(ctx, tx, in.ConversationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) || isNotFound(err) {
				return ErrConversationNotFound
			}
			return err
		}

		// 2) Insert the feedback row.
		fb := &domain.Feedback{
			SessionID:       sessionID,
			ConversationID:  in.ConversationID,
			MessageIndex:    in.MessageIndex,
			UserQuestion:    strings.TrimSpace(in.Question),
			AIResponse:      strings.TrimSpace(in.Response),
			FeedbackType:    in.Label,
			ConceptsCovered: datatypes.JSONSlice[string](in.ConceptsCovered),
			ResponseTime:    in.ResponseTime,
		}
		created, err := repo.CreateFeedback(ctx, tx, fb)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				return ErrConflict
			}
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.FeedbackRecorded.WithLabelValues(string(out.FeedbackType)).Inc()
	return out, nil
}

// Get returns a single feedback row by ID.
func (s *FeedbackService) Get(ctx context.Context, role auth.Role, id string) (*domain.Feedback, error) {
	if !s.Policy.Allows(role, auth.ActionReadFeedback) {
		return nil, ErrPermission
	}
	fb, err := repo.GetFeedback(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return fb, nil
}

// ListPage returns a page of feedback rows matching the filter along with the
// total count. It applies defaults for invalid page/pageSize.
func (s *FeedbackService) ListPage(ctx context.Context, role auth.Role, f repo.FeedbackFilter, page, pageSize int) ([]domain.Feedback, int64, error) {
	if !s.Policy.Allows(role, auth.ActionReadFeedback) {
		return nil, 0, ErrPermission
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountFeedback(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Feedback{}, 0, nil
	}

	items, err := repo.ListFeedbackPage(ctx, s.DB, f, offset, pageSize)
	return items, total, err
}

// UpdateLabel changes the label of an existing feedback row and advances its
// updated_at, even when the label is unchanged. The conversation's own
// denormalized label is never touched here.
func (s *FeedbackService) UpdateLabel(ctx context.Context, role auth.Role, id string, label domain.FeedbackLabel) error {
	if !s.Policy.Allows(role, auth.ActionUpdateFeedback) {
		return ErrPermission
	}
	if !label.Valid() {
		return ErrInvalidLabel
	}
	if err := repo.UpdateFeedbackType(ctx, s.DB, id, label); err != nil {
		if isNotFound(err) {
			return ErrFeedbackNotFound
		}
		return err
	}
	return nil
}

// Delete removes a feedback row.
func (s *FeedbackService) Delete(ctx context.Context, role auth.Role, id string) error {
	if !s.Policy.Allows(role, auth.ActionDeleteFeedback) {
		return ErrPermission
	}
	if err := repo.DeleteFeedback(ctx, s.DB, id); err != nil {
		if isNotFound(err) {
			return ErrFeedbackNotFound
		}
		return err
	}
	return nil
}

// isNotFound treats repo-level not found sentinels as "not found" in a
// driver-agnostic way. It also checks gorm.ErrRecordNotFound for safety.
func isNotFound(err error) bool {
	if errors.Is(err, repo.ErrNotFound) {
		return true
	}
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
