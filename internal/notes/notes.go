package notes

import (
	"log/slog"

	"noteboard/internal/notes/handler"
	"noteboard/internal/notes/service"
)

// Service exposes the note moderation workflow.
type Service = service.Service

// Handler wires HTTP endpoints to the notes service.
type Handler = handler.Handler

// NewService constructs the notes service with required dependencies.
func NewService(notes service.NoteStore, opts ...service.Option) *Service {
	return service.New(notes, opts...)
}

// NewHandler constructs an HTTP handler for note routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
