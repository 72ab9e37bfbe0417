package dto

import (
	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/models"
)

// StudentCreateRequest is the payload for registering a student. Dates use
// the canonical YYYY-MM-DD form.
type StudentCreateRequest struct {
	FullName              string  `json:"full_name" validate:"required,max=255"`
	StudentType           string  `json:"student_type" validate:"required,oneof=member seeker"`
	ClassID               uint    `json:"class_id" validate:"required"`
	Status                string  `json:"status" validate:"omitempty,oneof=active inactive"`
	DOB                   string  `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Address               string  `json:"address" validate:"omitempty,max=255"`
	ContactName           string  `json:"contact_name" validate:"omitempty,max=255"`
	ContactPhone          string  `json:"contact_phone" validate:"omitempty,max=64"`
	EmergencyContactName  string  `json:"emergency_contact_name" validate:"omitempty,max=255"`
	EmergencyContactPhone string  `json:"emergency_contact_phone" validate:"omitempty,max=64"`
	IsBaptized            bool    `json:"is_baptized"`
	BaptismDate           string  `json:"baptism_date" validate:"omitempty,datetime=2006-01-02"`
	IsSpiritBaptized      bool    `json:"is_spirit_baptized"`
	SpiritBaptismDate     string  `json:"spirit_baptism_date" validate:"omitempty,datetime=2006-01-02"`
	Notes                 string  `json:"notes"`
}

// StudentUpdateRequest carries partial updates; nil fields are left alone.
type StudentUpdateRequest struct {
	FullName          *string                     `json:"full_name" validate:"omitempty,max=255"`
	StudentType       *string                     `json:"student_type" validate:"omitempty,oneof=member seeker"`
	ClassID           *uint                       `json:"class_id"`
	Status            *string                     `json:"status" validate:"omitempty,oneof=active inactive"`
	DOB               *string                     `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Address           *string                     `json:"address" validate:"omitempty,max=255"`
	ContactName       *string                     `json:"contact_name" validate:"omitempty,max=255"`
	ContactPhone      *string                     `json:"contact_phone" validate:"omitempty,max=64"`
	Notes             *string                     `json:"notes"`
	ManualHistory     []models.ManualHistoryEntry `json:"manual_history"`
	EnrollmentHistory []models.EnrollmentEntry    `json:"enrollment_history"`
}

// StudentListRequest narrows the roster listing.
type StudentListRequest struct {
	ClassID uint
	Status  string
	Search  string
}

// StudentResponse is the API shape of a student.
type StudentResponse struct {
	ID                uint                        `json:"id"`
	FullName          string                      `json:"full_name"`
	StudentType       string                      `json:"student_type"`
	Status            string                      `json:"status"`
	DOB               string                      `json:"dob,omitempty"`
	Address           string                      `json:"address,omitempty"`
	ContactName       string                      `json:"contact_name,omitempty"`
	ContactPhone      string                      `json:"contact_phone,omitempty"`
	IsBaptized        bool                        `json:"is_baptized"`
	BaptismDate       string                      `json:"baptism_date,omitempty"`
	IsSpiritBaptized  bool                        `json:"is_spirit_baptized"`
	SpiritBaptismDate string                      `json:"spirit_baptism_date,omitempty"`
	ClassID           uint                        `json:"class_id"`
	ClassName         string                      `json:"class_name,omitempty"`
	Notes             string                      `json:"notes,omitempty"`
	ManualHistory     []models.ManualHistoryEntry `json:"manual_history"`
	EnrollmentHistory []models.EnrollmentEntry    `json:"enrollment_history"`
}

// NewStudentResponse maps a student model to its API shape.
func NewStudentResponse(student models.Student) StudentResponse {
	response := StudentResponse{
		ID:               student.ID,
		FullName:         student.FullName,
		StudentType:      student.StudentType,
		Status:           student.Status,
		Address:          student.Address,
		ContactName:      student.ContactName,
		ContactPhone:     student.ContactPhone,
		IsBaptized:       student.IsBaptized,
		IsSpiritBaptized: student.IsSpiritBaptized,
		ClassID:          student.ClassID,
		Notes:            student.Notes,
		ManualHistory:    student.ManualHistory,
		EnrollmentHistory: student.EnrollmentHistory,
	}

	if student.DOB != nil {
		response.DOB = academic.FormatDate(*student.DOB)
	}
	if student.BaptismDate != nil {
		response.BaptismDate = academic.FormatDate(*student.BaptismDate)
	}
	if student.SpiritBaptismDate != nil {
		response.SpiritBaptismDate = academic.FormatDate(*student.SpiritBaptismDate)
	}
	if student.Class != nil {
		response.ClassName = student.Class.Name
	}
	if response.ManualHistory == nil {
		response.ManualHistory = []models.ManualHistoryEntry{}
	}
	if response.EnrollmentHistory == nil {
		response.EnrollmentHistory = []models.EnrollmentEntry{}
	}

	return response
}
