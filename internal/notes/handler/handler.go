package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"noteboard/internal/notes/models"
	dErrors "noteboard/pkg/domain-errors"
	"noteboard/pkg/platform/httputil"
	"noteboard/pkg/requestcontext"
)

// Service defines the interface for moderation workflow operations.
type Service interface {
	Submit(ctx context.Context, body, recipientHandle, authorHandle string) (*models.Note, error)
	ListApproved(ctx context.Context, recipientHandle string) ([]*models.Note, error)
	ListPending(ctx context.Context, requesterHandle, recipientHandle string) ([]*models.Note, error)
	Approve(ctx context.Context, noteID uuid.UUID, requesterHandle string) (*models.Note, error)
	Delete(ctx context.Context, noteID uuid.UUID, requesterHandle string) error
}

// Handler wires note endpoints to the moderation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a notes handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts note endpoints on the router. Submission accepts anonymous
// visitors (optionalAuth); moderation endpoints demand a verified identity
// (requireAuth).
func (h *Handler) Register(r chi.Router, optionalAuth, requireAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Post("/api/notes", h.HandleSubmit)
	})

	r.Get("/api/notes", h.HandleListApproved)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/api/notes/pending", h.HandleListPending)
		r.Post("/api/notes/{id}/approve", h.HandleApprove)
		r.Delete("/api/notes/{id}", h.HandleDelete)
	})
}

// HandleSubmit handles POST /api/notes.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, ok := httputil.Decode[SubmitRequest](w, r)
	if !ok {
		return
	}

	// The verified handle, or "" for anonymous; never the request field.
	authorHandle := requestcontext.UserHandle(ctx)

	note, err := h.service.Submit(ctx, req.Note, req.ReceiverID, authorHandle)
	if err != nil {
		h.logError(ctx, "note submission failed", err, "receiver_id", req.ReceiverID)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "note submitted",
		"request_id", requestcontext.RequestID(ctx),
		"note_id", note.ID,
		"receiver_id", note.RecipientHandle,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, messageResponse{
		Message: "Note submitted successfully and is awaiting approval.",
	})
}

// HandleListApproved handles GET /api/notes?receiver_id=.
func (h *Handler) HandleListApproved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	receiverID := r.URL.Query().Get("receiver_id")

	notes, err := h.service.ListApproved(ctx, receiverID)
	if err != nil {
		h.logError(ctx, "approved listing failed", err, "receiver_id", receiverID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newNotesResponse(notes))
}

// HandleListPending handles GET /api/notes/pending?receiver_id=.
func (h *Handler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	receiverID := r.URL.Query().Get("receiver_id")
	requester := requestcontext.UserHandle(ctx)

	notes, err := h.service.ListPending(ctx, requester, receiverID)
	if err != nil {
		h.logError(ctx, "pending listing failed", err, "receiver_id", receiverID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newNotesResponse(notes))
}

// HandleApprove handles POST /api/notes/{id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	noteID, ok := h.noteIDParam(w, r)
	if !ok {
		return
	}
	requester := requestcontext.UserHandle(ctx)

	note, err := h.service.Approve(ctx, noteID, requester)
	if err != nil {
		h.logError(ctx, "note approval failed", err, "note_id", noteID)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "note approved",
		"request_id", requestcontext.RequestID(ctx),
		"note_id", note.ID,
		"receiver_id", note.RecipientHandle,
	)
	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "Note approved successfully!"})
}

// HandleDelete handles DELETE /api/notes/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	noteID, ok := h.noteIDParam(w, r)
	if !ok {
		return
	}
	requester := requestcontext.UserHandle(ctx)

	if err := h.service.Delete(ctx, noteID, requester); err != nil {
		h.logError(ctx, "note deletion failed", err, "note_id", noteID)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "note deleted",
		"request_id", requestcontext.RequestID(ctx),
		"note_id", noteID,
	)
	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "Note deleted successfully!"})
}

func (h *Handler) noteIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "note id is required"))
		return uuid.Nil, false
	}
	noteID, err := uuid.Parse(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "note id must be a valid UUID"))
		return uuid.Nil, false
	}
	return noteID, true
}

func (h *Handler) logError(ctx context.Context, msg string, err error, attributes ...any) {
	args := append(attributes,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	h.logger.ErrorContext(ctx, msg, args...)
}
