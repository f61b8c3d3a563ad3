// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Conversation model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a conversation is not found, functions return
//     gorm.ErrRecordNotFound (also exported here as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Functions:
//
//   - CreateConversation(ctx, db, conv) -> *domain.Conversation, error
//     Inserts a new row with UUID primary key and UTC timestamps; nil
//     sequence columns are normalized to empty JSON arrays.
//
//   - ListConversations(ctx, db, f) -> []domain.Conversation, error
//     Returns all conversations matching the filter. Session-scoped reads
//     come back in transcript order (oldest first); unscoped reads come
//     back most recent first.
//
//   - CountConversations(ctx, db, f) -> (int64, error)
//     Returns the number of conversations matching the filter.
//
//   - ListConversationsPage(ctx, db, f, offset, limit) -> []domain.Conversation, error
//     Returns a paginated slice with the same ordering rules as ListConversations.
//
//   - GetConversation(ctx, db, id) -> *domain.Conversation, error
//     Fetches a single conversation by ID, or ErrNotFound if missing.
//
//   - SetConversationFeedback(ctx, db, id, label) -> error
//     Sets the denormalized feedback label. Returns ErrNotFound if the row
//     does not exist.
//
//   - ClearConversationFeedback(ctx, db, id) -> error
//     Resets the denormalized label to NULL.
//
//   - DeleteConversation(ctx, db, id) -> error
//     Physically deletes the row; the FK cascade removes dependent feedback.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.ConversationService) which enforces validation and the
// capability policy.
package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusai/go-tutor-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ConversationFilter narrows conversation queries. Zero values mean "no
// constraint" for the respective field.
type ConversationFilter struct {
	SessionID string
	Label     *domain.FeedbackLabel
	Concept   string // exact element match inside concepts_used
}

// CreateConversation inserts a new Conversation row. The ID is a randomly
// generated UUID unless pre-set by the caller (idempotent replays reuse one),
// CreatedAt/UpdatedAt are set to UTC now, and nil sequence columns become
// empty JSON arrays so the stored value is never NULL.
//
// On success, it returns the persisted row. On failure, it returns a DB error.
func CreateConversation(ctx context.Context, db *gorm.DB, conv *domain.Conversation) (*domain.Conversation, error) {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	if conv.ContextSources == nil {
		conv.ContextSources = datatypes.JSONSlice[string]{}
	}
	if conv.ConceptsUsed == nil {
		conv.ConceptsUsed = datatypes.JSONSlice[string]{}
	}
	if err := db.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, err
	}
	return conv, nil
}

// ListConversations returns all conversations matching f. Session-scoped
// reads are ordered by creation time ascending (the transcript order the
// front-end replays); all other reads are most recent first. It returns an
// empty slice when nothing matches.
func ListConversations(ctx context.Context, db *gorm.DB, f ConversationFilter) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := conversationQuery(ctx, db, f).Find(&out).Error
	return out, err
}

// CountConversations returns the number of conversations matching f.
func CountConversations(ctx context.Context, db *gorm.DB, f ConversationFilter) (int64, error) {
	var total int64
	q := applyConversationFilter(db.WithContext(ctx).Model(&domain.Conversation{}), f)
	err := q.Count(&total).Error
	return total, err
}

// ListConversationsPage returns a paginated slice of conversations matching
// f, with the same ordering rules as ListConversations. Use
// CountConversations to obtain the total for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListConversationsPage(ctx context.Context, db *gorm.DB, f ConversationFilter, offset, limit int) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := conversationQuery(ctx, db, f).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetConversation fetches a single conversation by its ID. If the record
// does not exist, it returns ErrNotFound. On other DB errors, the raw error
// is returned.
func GetConversation(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SetConversationFeedback sets the denormalized feedback label on the
// conversation identified by id. If no rows are affected (row missing), it
// returns ErrNotFound. On DB error, the raw error is returned.
func SetConversationFeedback(ctx context.Context, db *gorm.DB, id string, label domain.FeedbackLabel) error {
	res := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"feedback":   string(label),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearConversationFeedback resets the denormalized label to NULL (unset).
// Returns ErrNotFound if the conversation does not exist.
func ClearConversationFeedback(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"feedback":   nil,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteConversation physically deletes the conversation identified by id.
// Dependent feedback rows are removed by the ON DELETE CASCADE foreign key.
// Returns ErrNotFound if the row does not exist.
func DeleteConversation(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.Conversation{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// conversationQuery builds the filtered, ordered base query for list reads.
func conversationQuery(ctx context.Context, db *gorm.DB, f ConversationFilter) *gorm.DB {
	q := applyConversationFilter(db.WithContext(ctx).Model(&domain.Conversation{}), f)
	if f.SessionID != "" {
		return q.Order("created_at ASC, id ASC")
	}
	return q.Order("created_at DESC")
}

// applyConversationFilter adds the filter predicates without ordering, so the
// same filter drives both list and count queries.
func applyConversationFilter(q *gorm.DB, f ConversationFilter) *gorm.DB {
	if f.SessionID != "" {
		q = q.Where("session_id = ?", f.SessionID)
	}
	if f.Label != nil {
		q = q.Where("feedback = ?", string(*f.Label))
	}
	if f.Concept != "" {
		expr, arg := jsonContains(q, "concepts_used", f.Concept)
		q = q.Where(expr, arg)
	}
	return q
}

// jsonContains returns a dialect-appropriate predicate testing whether the
// JSON array in column contains value as an element. Postgres uses JSONB
// containment (served by the GIN index); SQLite expands the array with
// json_each. The column name is always a compile-time constant here.
func jsonContains(db *gorm.DB, column, value string) (string, any) {
	if db.Dialector.Name() == "postgres" {
		b, _ := json.Marshal([]string{value})
		return column + " @> ?::jsonb", string(b)
	}
	return "EXISTS (SELECT 1 FROM json_each(" + column + ") WHERE json_each.value = ?)", value
}
