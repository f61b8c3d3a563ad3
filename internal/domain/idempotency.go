// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Idempotency represents a recorded result of a previously processed request,
// keyed by (session_id, key). It enables safe retries for conversation
// recording by returning the originally created row without re-executing
// side effects.
type Idempotency struct {
	ID             string    `gorm:"type:char(36);primaryKey"`
	SessionID      string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_session_key,priority:1"`
	Key            string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_session_key,priority:2"`
	ConversationID string    `gorm:"type:char(36);not null"`
	Status         int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	ExpiresAt      time.Time `gorm:"index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
