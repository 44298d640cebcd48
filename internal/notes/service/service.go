package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"noteboard/internal/audit"
	notemetrics "noteboard/internal/notes/metrics"
	"noteboard/internal/notes/models"
	"noteboard/internal/platform/tracing"
	dErrors "noteboard/pkg/domain-errors"
	"noteboard/pkg/platform/sentinel"
	"noteboard/pkg/requestcontext"
)

// NoteStore is the persistence contract for notes. Implementations report
// missing rows with sentinel.ErrNotFound.
type NoteStore interface {
	Create(ctx context.Context, note *models.Note) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Note, error)
	ListByRecipient(ctx context.Context, recipientHandle string, approved bool) ([]*models.Note, error)
	SetApproved(ctx context.Context, id uuid.UUID) (*models.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListingCache caches public approved listings per recipient. Optional.
type ListingCache interface {
	Get(ctx context.Context, recipientHandle string) ([]*models.Note, bool)
	Set(ctx context.Context, recipientHandle string, notes []*models.Note)
	Invalidate(ctx context.Context, recipientHandle string)
}

// AuditPublisher records moderation actions. Optional and best-effort.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) bool
}

// Service orchestrates the note moderation workflow. It is stateless between
// calls; all state lives in the injected store. The requester handle passed
// to moderation operations must be the middleware-verified identity, never a
// client-supplied field.
type Service struct {
	notes          NoteStore
	cache          ListingCache
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *notemetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithCache(cache ListingCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *notemetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(notes NoteStore, opts ...Option) *Service {
	s := &Service{notes: notes}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit creates a pending note for recipientHandle. An empty authorHandle
// records the anonymous sentinel. The note is invisible to the public listing
// until the recipient approves it.
func (s *Service) Submit(ctx context.Context, body, recipientHandle, authorHandle string) (note *models.Note, err error) {
	ctx, span := tracing.StartSpan(ctx, "notes.Submit")
	defer func() { tracing.EndSpan(span, err) }()

	note, err = models.NewNote(uuid.New(), body, recipientHandle, authorHandle, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err = s.notes.Create(ctx, note); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save note")
	}

	s.logAudit(ctx, audit.Event{
		Action:    audit.ActionNoteSubmitted,
		NoteID:    note.ID,
		Actor:     note.AuthorHandle,
		Recipient: note.RecipientHandle,
	})
	if s.metrics != nil {
		s.metrics.IncrementSubmitted()
	}
	return note, nil
}

// ListApproved returns the publicly visible notes for a recipient: exactly
// those the recipient explicitly approved, in insertion order.
func (s *Service) ListApproved(ctx context.Context, recipientHandle string) (notes []*models.Note, err error) {
	ctx, span := tracing.StartSpan(ctx, "notes.ListApproved")
	defer func() { tracing.EndSpan(span, err) }()

	recipientHandle = strings.TrimSpace(recipientHandle)
	if recipientHandle == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "receiver_id is required")
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, recipientHandle); ok {
			return cached, nil
		}
	}

	notes, err = s.notes.ListByRecipient(ctx, recipientHandle, true)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list approved notes")
	}

	if s.cache != nil {
		s.cache.Set(ctx, recipientHandle, notes)
	}
	return notes, nil
}

// ListPending returns the recipient's unapproved queue. Only the recipient
// may view it; the handler passes the authenticated handle as requester and
// the service still guards the match as defense in depth.
func (s *Service) ListPending(ctx context.Context, requesterHandle, recipientHandle string) (notes []*models.Note, err error) {
	ctx, span := tracing.StartSpan(ctx, "notes.ListPending")
	defer func() { tracing.EndSpan(span, err) }()

	recipientHandle = strings.TrimSpace(recipientHandle)
	if recipientHandle == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "receiver_id is required")
	}
	if requesterHandle == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if requesterHandle != recipientHandle {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the recipient may view their pending notes")
	}

	notes, err = s.notes.ListByRecipient(ctx, recipientHandle, false)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending notes")
	}
	return notes, nil
}

// Approve marks a note publicly visible. Only the recipient may approve;
// approving an already approved note is a no-op success. On a store failure
// the note stays unapproved - no partial state is observable.
func (s *Service) Approve(ctx context.Context, noteID uuid.UUID, requesterHandle string) (note *models.Note, err error) {
	ctx, span := tracing.StartSpan(ctx, "notes.Approve")
	defer func() { tracing.EndSpan(span, err) }()

	note, err = s.loadOwned(ctx, noteID, requesterHandle)
	if err != nil {
		return nil, err
	}
	if note.Approved {
		return note, nil
	}

	note, err = s.notes.SetApproved(ctx, noteID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Deleted between load and update; the row-existence outcome wins.
			return nil, dErrors.New(dErrors.CodeNotFound, "note not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to approve note")
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, note.RecipientHandle)
	}
	s.logAudit(ctx, audit.Event{
		Action:    audit.ActionNoteApproved,
		NoteID:    note.ID,
		Actor:     requesterHandle,
		Recipient: note.RecipientHandle,
	})
	if s.metrics != nil {
		s.metrics.IncrementApproved()
	}
	return note, nil
}

// Delete removes a note in either state. Only the recipient may delete their
// own note; deleting an absent note reports not found rather than silently
// succeeding.
func (s *Service) Delete(ctx context.Context, noteID uuid.UUID, requesterHandle string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "notes.Delete")
	defer func() { tracing.EndSpan(span, err) }()

	note, err := s.loadOwned(ctx, noteID, requesterHandle)
	if err != nil {
		return err
	}

	if err = s.notes.Delete(ctx, noteID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "note not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete note")
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, note.RecipientHandle)
	}
	s.logAudit(ctx, audit.Event{
		Action:    audit.ActionNoteDeleted,
		NoteID:    note.ID,
		Actor:     requesterHandle,
		Recipient: note.RecipientHandle,
	})
	if s.metrics != nil {
		s.metrics.IncrementDeleted()
	}
	return nil
}

// loadOwned fetches a note and verifies the requester is its recipient.
func (s *Service) loadOwned(ctx context.Context, noteID uuid.UUID, requesterHandle string) (*models.Note, error) {
	if noteID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeValidation, "note id is required")
	}
	if requesterHandle == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "note not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load note")
	}
	if !note.IsOwnedBy(requesterHandle) {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the recipient may moderate this note")
	}
	return note, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if s.logger != nil {
		attributes := []any{
			"event", string(event.Action),
			"log_type", "audit",
			"note_id", event.NoteID,
			"actor", event.Actor,
			"receiver_id", event.Recipient,
		}
		if requestID := requestcontext.RequestID(ctx); requestID != "" {
			attributes = append(attributes, "request_id", requestID)
		}
		s.logger.InfoContext(ctx, string(event.Action), attributes...)
	}
	if s.auditPublisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if !s.auditPublisher.Emit(ctx, event) && s.logger != nil {
		s.logger.WarnContext(ctx, "audit inbox full, event dropped",
			"event", string(event.Action),
			"note_id", event.NoteID,
		)
	}
}
