package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "noteboard/pkg/domain-errors"
)

// AnonymousHandle is recorded as the author when the submitter is not
// authenticated.
const AnonymousHandle = "anonymous"

// MaxBodyLength bounds the note body; the board is for short messages.
const MaxBodyLength = 2000

// Note is a single moderatable text message directed at a recipient.
//
// Invariants:
//   - Body is non-empty after trimming and at most MaxBodyLength characters
//   - RecipientHandle and AuthorHandle are set at creation and immutable
//   - Approved starts false and transitions false→true exactly once,
//     never true→false; only the recipient may flip it
//   - A note is publicly visible iff Approved is true
//
// Lifecycle: Pending --approve--> Approved; either state --delete--> gone.
// Deletion is a row removal, not a status; there is no soft delete.
type Note struct {
	ID              uuid.UUID `json:"id"`
	Body            string    `json:"note"`
	RecipientHandle string    `json:"receiver_id"`
	AuthorHandle    string    `json:"author_id"`
	Approved        bool      `json:"is_approved"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewNote constructs a pending note. An empty author resolves to the
// anonymous sentinel; validation failures surface as validation errors since
// they come straight from client input.
func NewNote(id uuid.UUID, body, recipientHandle, authorHandle string, now time.Time) (*Note, error) {
	body = strings.TrimSpace(body)
	recipientHandle = strings.TrimSpace(recipientHandle)
	authorHandle = strings.TrimSpace(authorHandle)

	if body == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "note body is required")
	}
	if len(body) > MaxBodyLength {
		return nil, dErrors.Newf(dErrors.CodeValidation, "note body must be %d characters or less", MaxBodyLength)
	}
	if recipientHandle == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "receiver_id is required")
	}
	if authorHandle == "" {
		authorHandle = AnonymousHandle
	}

	return &Note{
		ID:              id,
		Body:            body,
		RecipientHandle: recipientHandle,
		AuthorHandle:    authorHandle,
		Approved:        false,
		CreatedAt:       now,
	}, nil
}

// IsOwnedBy reports whether handle is the note's recipient, the only identity
// allowed to moderate it.
func (n *Note) IsOwnedBy(handle string) bool {
	return handle != "" && n.RecipientHandle == handle
}

// ApplyApproval marks the note publicly visible. Approving an already
// approved note is a no-op; the transition has a single fixed point.
func (n *Note) ApplyApproval() {
	n.Approved = true
}
