// Package domain defines the persistence models for tutoring conversations
// and student feedback. These types are mapped with GORM and form the core
// data layer of the application.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Conversation represents one question/answer exchange between a student and
// the tutoring assistant, recorded after the answer was produced. Rows are
// append-mostly: after creation only the denormalized feedback label (and its
// companion updated_at) ever changes.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - SessionID: opaque grouping key for one sitting; indexed, not a foreign key.
//   - UserQuestion / TAResponse: full text of the exchange (never empty).
//   - ContextSources: source documents the answer drew on, insertion-ordered.
//   - ConceptsUsed: concept tags attached by the answering pipeline.
//   - ResponseTime: seconds spent producing the answer (NULL when unmeasured).
//   - QuestionLength / ResponseLength: character counts captured at insert time.
//   - Feedback: optional denormalized label; NULL means no label was given.
//   - CreatedAt: set once at insert; UpdatedAt moves only with the label.
//
// Deletes are physical so the foreign key on feedback rows cascades.
type Conversation struct {
	ID             string                      `json:"id"              gorm:"type:char(36);primaryKey"`
	SessionID      string                      `json:"session_id"      gorm:"type:varchar(64);not null;index:idx_session_conversations,priority:1"`
	UserQuestion   string                      `json:"user_question"   gorm:"type:text;not null"`
	TAResponse     string                      `json:"ta_response"     gorm:"type:text;not null"`
	ContextSources datatypes.JSONSlice[string] `json:"context_sources"`
	ConceptsUsed   datatypes.JSONSlice[string] `json:"concepts_used"`
	ResponseTime   *float64                    `json:"response_time,omitempty"   gorm:"check:response_time >= 0"`
	QuestionLength *int                        `json:"question_length,omitempty"`
	ResponseLength *int                        `json:"response_length,omitempty"`
	Feedback       *FeedbackLabel              `json:"feedback"        gorm:"type:varchar(32);index;check:feedback IN ('helpful','not_helpful','partially_helpful')"`
	CreatedAt      time.Time                   `json:"created_at"      gorm:"index:idx_session_conversations,priority:2;index:idx_conversations_created,sort:desc"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// Feedback represents a standalone rating a student left on one message of a
// session, with a snapshot of the rated exchange. It references a conversation
// row but duplicates the question/answer text so the rating stays readable
// even as the conversation's own fields evolve. The duplicated SessionID is
// taken from the submitting client and is not checked against the
// conversation's session.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - SessionID: session the rating was submitted from; indexed.
//   - ConversationID: foreign key to the rated conversation (cascade delete).
//   - MessageIndex: position of the rated message in the client transcript.
//   - UserQuestion / AIResponse: snapshot text (may be empty).
//   - FeedbackType: the rating label (always one of the accepted labels).
//   - ConceptsCovered: concept tags the client attached to the rating.
//   - ResponseTime: seconds the rated answer took (NULL when unmeasured).
//   - CreatedAt: set once at insert; UpdatedAt advances on every update.
type Feedback struct {
	ID              string                      `json:"id"               gorm:"type:char(36);primaryKey"`
	SessionID       string                      `json:"session_id"       gorm:"type:varchar(64);not null;index"`
	ConversationID  string                      `json:"conversation_id"  gorm:"type:char(36);not null;index:idx_conversation_feedback,priority:1"`
	MessageIndex    int                         `json:"message_index"    gorm:"not null;index:idx_conversation_feedback,priority:2"`
	UserQuestion    string                      `json:"user_question"    gorm:"type:text;not null"`
	AIResponse      string                      `json:"ai_response"      gorm:"type:text;not null"`
	FeedbackType    FeedbackLabel               `json:"feedback_type"    gorm:"type:varchar(32);not null;index;check:feedback_type IN ('helpful','not_helpful','partially_helpful')"`
	ConceptsCovered datatypes.JSONSlice[string] `json:"concepts_covered"`
	ResponseTime    *float64                    `json:"response_time,omitempty" gorm:"check:response_time >= 0"`
	CreatedAt       time.Time                   `json:"created_at"       gorm:"index:idx_feedback_created,sort:desc"`
	UpdatedAt       time.Time                   `json:"updated_at"`

	// Conversation is the rated exchange. Feedback rows are cascade-deleted
	// when their conversation is removed.
	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Feedback.
func (Feedback) TableName() string { return "feedback" }
