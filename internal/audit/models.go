package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action identifies the moderation event being recorded.
type Action string

const (
	ActionNoteSubmitted Action = "note.submitted"
	ActionNoteApproved  Action = "note.approved"
	ActionNoteDeleted   Action = "note.deleted"
)

// Event is one append-only audit record for a moderation action.
type Event struct {
	Action    Action
	NoteID    uuid.UUID
	Actor     string
	Recipient string
	RequestID string
	Timestamp time.Time
}

// Store persists audit events. Append-only; there is no update or delete.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRecipient(ctx context.Context, recipient string) ([]Event, error)
}
