// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campusai/go-tutor-backend/internal/domain"
)

// ConversationsStats returns aggregate metadata for conversations, optionally
// scoped to a session: the total number of rows and the maximum UpdatedAt
// timestamp among those rows.
//
// It executes two lightweight queries against the conversations table. When
// nothing matches, the returned count is 0 and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total conversations in scope
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func ConversationsStats(ctx context.Context, db *gorm.DB, sessionID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Conversation{})
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	}

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// FeedbackStats returns aggregate metadata for feedback rows, optionally
// scoped to a conversation: the total number of rows and the maximum
// UpdatedAt timestamp among those rows.
//
// It executes two lightweight queries against the feedback table. When
// nothing matches, the returned count is 0 and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total feedback rows in scope
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func FeedbackStats(ctx context.Context, db *gorm.DB, conversationID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Feedback{})
	if conversationID != "" {
		q = q.Where("conversation_id = ?", conversationID)
	}

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
