package dto

import "github.com/shipai-tjc/logbook-api/internal/models"

// TeacherCreateRequest is the payload for adding a teacher.
type TeacherCreateRequest struct {
	FullName    string `json:"full_name" validate:"required,max=255"`
	TeacherType string `json:"teacher_type" validate:"required,oneof=formal trainee"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
	Phone       string `json:"phone" validate:"omitempty,max=64"`
	Email       string `json:"email" validate:"omitempty,email"`
	Notes       string `json:"notes"`
}

// TeacherUpdateRequest carries partial teacher updates.
type TeacherUpdateRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=255"`
	TeacherType *string `json:"teacher_type" validate:"omitempty,oneof=formal trainee"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
	Phone       *string `json:"phone" validate:"omitempty,max=64"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Notes       *string `json:"notes"`
}

// TeacherResponse is the API shape of a teacher.
type TeacherResponse struct {
	ID          uint                 `json:"id"`
	FullName    string               `json:"full_name"`
	TeacherType string               `json:"teacher_type"`
	Status      string               `json:"status"`
	Phone       string               `json:"phone,omitempty"`
	Email       string               `json:"email,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	Assignments []AssignmentResponse `json:"assignments,omitempty"`
}

// NewTeacherResponse maps a teacher model to its API shape.
func NewTeacherResponse(teacher models.Teacher) TeacherResponse {
	response := TeacherResponse{
		ID:          teacher.ID,
		FullName:    teacher.FullName,
		TeacherType: teacher.TeacherType,
		Status:      teacher.Status,
		Phone:       teacher.Phone,
		Email:       teacher.Email,
		Notes:       teacher.Notes,
	}

	for _, assignment := range teacher.Assignments {
		response.Assignments = append(response.Assignments, NewAssignmentResponse(assignment))
	}

	return response
}
