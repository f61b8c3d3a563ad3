// Package services – ConversationService
//
// This file implements the ConversationService, which owns the lifecycle of
// recorded tutoring conversations. It validates and normalizes inputs,
// enforces the capability policy, coordinates repository operations for
// recording, reading (with pagination), labeling, and deleting conversations,
// and derives display titles for the source documents an answer drew on.
//
// Service-level errors (e.g., ErrConversationNotFound, ErrInvalidLabel) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include session/conversation identifiers and pagination parameters where
// applicable.
package services

import (
	"context"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusai/go-tutor-backend/internal/auth"
	"github.com/campusai/go-tutor-backend/internal/domain"
	"github.com/campusai/go-tutor-backend/internal/observability"
	"github.com/campusai/go-tutor-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConversationRepo defines the repository contract required by
// ConversationService. Implementations are responsible for persistence of
// conversation rows.
type ConversationRepo interface {
	// CreateConversation inserts a new conversation row.
	CreateConversation(ctx context.Context, db *gorm.DB, c *domain.Conversation) (*domain.Conversation, error)

	// GetConversation fetches a conversation by ID.
	GetConversation(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error)

	// CountConversations returns the number of conversations matching the filter.
	CountConversations(ctx context.Context, db *gorm.DB, f repo.ConversationFilter) (int64, error)

	// ListConversationsPage returns a page of conversations matching the filter.
	ListConversationsPage(ctx context.Context, db *gorm.DB, f repo.ConversationFilter, offset, limit int) ([]domain.Conversation, error)

	// SetConversationFeedback writes the denormalized feedback label.
	SetConversationFeedback(ctx context.Context, db *gorm.DB, id string, label domain.FeedbackLabel) error

	// ClearConversationFeedback resets the denormalized feedback label to NULL.
	ClearConversationFeedback(ctx context.Context, db *gorm.DB, id string) error

	// DeleteConversation removes a conversation row (feedback rows cascade).
	DeleteConversation(ctx context.Context, db *gorm.DB, id string) error
}

// RecordConversationInput carries the client-supplied fields of a
// conversation to be recorded. Optional measurements may be nil; lengths are
// computed from the texts when absent.
type RecordConversationInput struct {
	SessionID      string
	Question       string
	Response       string
	ContextSources []string
	ConceptsUsed   []string
	ResponseTime   *float64
	QuestionLength *int
	ResponseLength *int
}

// ConversationService provides conversation-level operations such as
// recording, listing, labeling, and deleting conversations. It enforces the
// capability policy and input validation rules.
type ConversationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the conversation repository used by this service.
	Repo ConversationRepo
	// Policy gates every operation by caller role.
	Policy auth.Policy

	// TitleLocale controls casing when deriving source titles.
	TitleLocale language.Tag
	// MaxSourceTitles caps how many source titles are derived (0 = all).
	MaxSourceTitles int
}

// NewConversationService constructs a ConversationService with sane defaults
// for source-title derivation.
func NewConversationService(db *gorm.DB, r ConversationRepo, p auth.Policy) *ConversationService {
	return &ConversationService{
		DB:              db,
		Repo:            r,
		Policy:          p,
		TitleLocale:     language.Und,
		MaxSourceTitles: 5,
	}
}

// Record validates and persists one question/answer exchange. Question and
// response lengths are captured from the trimmed texts when the client did
// not supply them.
func (s *ConversationService) Record(ctx context.Context, role auth.Role, in RecordConversationInput) (*domain.Conversation, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "Record",
		trace.WithAttributes(attribute.String("session.id", in.SessionID)),
	)
	defer span.End()

	if !s.Policy.Allows(role, auth.ActionRecordConversation) {
		return nil, ErrPermission
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	response := strings.TrimSpace(in.Response)
	if response == "" {
		return nil, ErrEmptyResponse
	}
	if in.ResponseTime != nil && *in.ResponseTime < 0 {
		return nil, ErrNegativeResponseTime
	}

	conv := &domain.Conversation{
		SessionID:      sessionID,
		UserQuestion:   question,
		TAResponse:     response,
		ContextSources: datatypes.JSONSlice[string](in.ContextSources),
		ConceptsUsed:   datatypes.JSONSlice[string](in.ConceptsUsed),
		ResponseTime:   in.ResponseTime,
		QuestionLength: in.QuestionLength,
		ResponseLength: in.ResponseLength,
	}
	if conv.QuestionLength == nil {
		n := utf8.RuneCountInString(question)
		conv.QuestionLength = &n
	}
	if conv.ResponseLength == nil {
		n := utf8.RuneCountInString(response)
		conv.ResponseLength = &n
	}

	out, err := s.Repo.CreateConversation(ctx, s.DB, conv)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	observability.ConversationsRecorded.Inc()
	return out, nil
}

// Get returns a single conversation by ID.
func (s *ConversationService) Get(ctx context.Context, role auth.Role, id string) (*domain.Conversation, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("conversation.id", id)),
	)
	defer span.End()

	if !s.Policy.Allows(role, auth.ActionReadConversation) {
		return nil, ErrPermission
	}
	conv, err := s.Repo.GetConversation(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return conv, nil
}

// ListPage returns a page of conversations matching the filter along with the
// total count. It applies defaults for invalid page/pageSize.
func (s *ConversationService) ListPage(ctx context.Context, role auth.Role, f repo.ConversationFilter, page, pageSize int) ([]domain.Conversation, int64, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("session.id", f.SessionID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if !s.Policy.Allows(role, auth.ActionReadConversation) {
		return nil, 0, ErrPermission
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountConversations(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Conversation{}, 0, nil
	}

	items, err := s.Repo.ListConversationsPage(ctx, s.DB, f, offset, pageSize)
	return items, total, err
}

// SetLabel overwrites the conversation's denormalized feedback label.
// Repeating the same label is accepted and still advances updated_at.
func (s *ConversationService) SetLabel(ctx context.Context, role auth.Role, id string, label domain.FeedbackLabel) error {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "SetLabel",
		trace.WithAttributes(
			attribute.String("conversation.id", id),
			attribute.String("label", string(label)),
		),
	)
	defer span.End()

	if !s.Policy.Allows(role, auth.ActionSetConversationLabel) {
		return ErrPermission
	}
	if !label.Valid() {
		return ErrInvalidLabel
	}
	if err := s.Repo.SetConversationFeedback(ctx, s.DB, id, label); err != nil {
		if isNotFound(err) {
			return ErrConversationNotFound
		}
		return err
	}
	observability.ConversationLabelsSet.WithLabelValues(string(label)).Inc()
	return nil
}

// ClearLabel resets the conversation's denormalized feedback label to NULL.
func (s *ConversationService) ClearLabel(ctx context.Context, role auth.Role, id string) error {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "ClearLabel",
		trace.WithAttributes(attribute.String("conversation.id", id)),
	)
	defer span.End()

	if !s.Policy.Allows(role, auth.ActionSetConversationLabel) {
		return ErrPermission
	}
	if err := s.Repo.ClearConversationFeedback(ctx, s.DB, id); err != nil {
		if isNotFound(err) {
			return ErrConversationNotFound
		}
		return err
	}
	return nil
}

// Delete removes a conversation. Standalone feedback referencing it is
// cascade-deleted by the database.
func (s *ConversationService) Delete(ctx context.Context, role auth.Role, id string) error {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("conversation.id", id)),
	)
	defer span.End()

	if !s.Policy.Allows(role, auth.ActionDeleteConversation) {
		return ErrPermission
	}
	if err := s.Repo.DeleteConversation(ctx, s.DB, id); err != nil {
		if isNotFound(err) {
			return ErrConversationNotFound
		}
		return err
	}
	return nil
}

// SourceTitles derives human-readable titles from source document paths:
// the file stem with underscores/hyphens as spaces, title-cased. Duplicates
// are dropped while preserving order.
func (s *ConversationService) SourceTitles(sources []string) []string {
	caser := cases.Title(s.TitleLocaleOrDefault())
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	for _, src := range sources {
		base := path.Base(strings.TrimSpace(src))
		if base == "." || base == "/" {
			continue
		}
		base = strings.TrimSuffix(base, path.Ext(base))
		base = sourceSeparatorReplacer.Replace(base)
		base = whitespaceRE.ReplaceAllString(strings.TrimSpace(base), " ")
		if base == "" {
			continue
		}
		title := caser.String(base)
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, title)
		if s.MaxSourceTitles > 0 && len(out) >= s.MaxSourceTitles {
			break
		}
	}
	return out
}

// TitleLocaleOrDefault returns the configured locale for casing or English if unset.
func (s *ConversationService) TitleLocaleOrDefault() language.Tag {
	if s.TitleLocale == language.Und {
		return language.English
	}
	return s.TitleLocale
}

// sourceSeparatorReplacer turns filename word separators into spaces.
var sourceSeparatorReplacer = strings.NewReplacer("_", " ", "-", " ")

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
