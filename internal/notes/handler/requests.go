package handler

// SubmitRequest is the wire shape for submitting a note.
//
// AuthorID is accepted for wire compatibility but never trusted: the recorded
// author is always the middleware-verified handle, or the anonymous sentinel
// when the request carries no credentials. Authorization decisions never read
// client-supplied identity fields.
type SubmitRequest struct {
	Note       string `json:"note"`
	ReceiverID string `json:"receiver_id"`
	AuthorID   string `json:"author_id,omitempty"`
}
