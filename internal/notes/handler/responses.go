package handler

import "noteboard/internal/notes/models"

type messageResponse struct {
	Message string `json:"message"`
}

type notesResponse struct {
	Notes []*models.Note `json:"notes"`
}

func newNotesResponse(notes []*models.Note) notesResponse {
	if notes == nil {
		notes = []*models.Note{}
	}
	return notesResponse{Notes: notes}
}
