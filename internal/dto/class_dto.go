package dto

import "github.com/shipai-tjc/logbook-api/internal/models"

// ClassRequest creates or renames a class. Position orders the cohorts
// youngest first and is immutable after creation.
type ClassRequest struct {
	Name     string `json:"name" validate:"required,max=64"`
	Position int    `json:"position" validate:"omitempty,min=0"`
}

// ClassResponse is the API shape of a class.
type ClassResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// NewClassResponse maps a class model to its API shape.
func NewClassResponse(class models.Class) ClassResponse {
	return ClassResponse{ID: class.ID, Name: class.Name, Position: class.Position}
}
