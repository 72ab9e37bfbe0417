package dto

import "github.com/shipai-tjc/logbook-api/internal/models"

// AssignmentReplaceRequest replaces the full teacher assignment set for one
// class and academic year. The academic year travels as the 4-digit start
// year string, matching the stored grouping key.
type AssignmentReplaceRequest struct {
	ClassID       uint   `json:"class_id" validate:"required"`
	AcademicYear  string `json:"academic_year" validate:"required,len=4,numeric"`
	LeadTeacherID uint   `json:"lead_teacher_id"`
	TeacherIDs    []uint `json:"teacher_ids"`
}

// AssignmentListRequest filters assignment listings.
type AssignmentListRequest struct {
	ClassID      uint
	AcademicYear string
}

// AssignmentResponse is the API shape of a teacher class assignment.
type AssignmentResponse struct {
	ID           uint   `json:"id"`
	TeacherID    uint   `json:"teacher_id"`
	TeacherName  string `json:"teacher_name,omitempty"`
	ClassID      uint   `json:"class_id"`
	ClassName    string `json:"class_name,omitempty"`
	AcademicYear string `json:"academic_year"`
	IsLead       bool   `json:"is_lead"`
}

// NewAssignmentResponse maps an assignment model to its API shape.
func NewAssignmentResponse(assignment models.TeacherClassAssignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:           assignment.ID,
		TeacherID:    assignment.TeacherID,
		ClassID:      assignment.ClassID,
		AcademicYear: assignment.AcademicYear,
		IsLead:       assignment.IsLead,
	}
	if assignment.Teacher != nil {
		response.TeacherName = assignment.Teacher.FullName
	}
	if assignment.Class != nil {
		response.ClassName = assignment.Class.Name
	}
	return response
}
