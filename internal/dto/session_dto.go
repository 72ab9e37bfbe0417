package dto

import (
	"github.com/shipai-tjc/logbook-api/internal/academic"
	"github.com/shipai-tjc/logbook-api/internal/models"
)

// SessionCreateRequest is the payload for logging a class session.
type SessionCreateRequest struct {
	ClassID             uint    `json:"class_id" validate:"required"`
	Date                string  `json:"date" validate:"required,datetime=2006-01-02"`
	SessionType         string  `json:"session_type" validate:"required,max=64"`
	WorshipTopic        string  `json:"worship_topic" validate:"omitempty,max=255"`
	WorshipTeacherName  string  `json:"worship_teacher_name" validate:"omitempty,max=255"`
	ActivityTopic       string  `json:"activity_topic" validate:"omitempty,max=255"`
	ActivityTeacherName string  `json:"activity_teacher_name" validate:"omitempty,max=255"`
	OfferingAmount      float64 `json:"offering_amount" validate:"omitempty,min=0"`
	AuditorCount        int     `json:"auditor_count" validate:"omitempty,min=0"`
	IsCancelled         bool    `json:"is_cancelled"`
	CancellationReason  string  `json:"cancellation_reason" validate:"omitempty,max=255"`
	Notes               string  `json:"notes"`
}

// SessionUpdateRequest carries partial session updates.
type SessionUpdateRequest struct {
	Date                *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	SessionType         *string  `json:"session_type" validate:"omitempty,max=64"`
	WorshipTopic        *string  `json:"worship_topic" validate:"omitempty,max=255"`
	WorshipTeacherName  *string  `json:"worship_teacher_name" validate:"omitempty,max=255"`
	ActivityTopic       *string  `json:"activity_topic" validate:"omitempty,max=255"`
	ActivityTeacherName *string  `json:"activity_teacher_name" validate:"omitempty,max=255"`
	OfferingAmount      *float64 `json:"offering_amount" validate:"omitempty,min=0"`
	AuditorCount        *int     `json:"auditor_count" validate:"omitempty,min=0"`
	IsCancelled         *bool    `json:"is_cancelled"`
	CancellationReason  *string  `json:"cancellation_reason" validate:"omitempty,max=255"`
	Notes               *string  `json:"notes"`
}

// AttendanceMark is one person's attendance for a session.
type AttendanceMark struct {
	PersonID uint   `json:"person_id" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=present absent late excused"`
	Reason   string `json:"reason" validate:"omitempty,max=255"`
}

// AttendanceUpsertRequest replaces or inserts attendance marks for one
// session. Existing records for the same (session, person) pair are
// overwritten, never duplicated.
type AttendanceUpsertRequest struct {
	Marks []AttendanceMark `json:"marks" validate:"required,dive"`
}

// AttendanceRecordResponse is the API shape of a single attendance record.
type AttendanceRecordResponse struct {
	ID       uint   `json:"id"`
	PersonID uint   `json:"person_id"`
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
}

// SessionResponse is the API shape of a class session.
type SessionResponse struct {
	ID                  uint                       `json:"id"`
	ClassID             uint                       `json:"class_id"`
	ClassName           string                     `json:"class_name,omitempty"`
	Date                string                     `json:"date"`
	SessionType         string                     `json:"session_type"`
	WorshipTopic        string                     `json:"worship_topic,omitempty"`
	WorshipTeacherName  string                     `json:"worship_teacher_name,omitempty"`
	ActivityTopic       string                     `json:"activity_topic,omitempty"`
	ActivityTeacherName string                     `json:"activity_teacher_name,omitempty"`
	OfferingAmount      float64                    `json:"offering_amount"`
	AuditorCount        int                        `json:"auditor_count"`
	IsCancelled         bool                       `json:"is_cancelled"`
	CancellationReason  string                     `json:"cancellation_reason,omitempty"`
	Notes               string                     `json:"notes,omitempty"`
	StudentAttendance   []AttendanceRecordResponse `json:"student_attendance,omitempty"`
	TeacherAttendance   []AttendanceRecordResponse `json:"teacher_attendance,omitempty"`
}

// NewSessionResponse maps a session model to its API shape.
func NewSessionResponse(session models.ClassSession) SessionResponse {
	response := SessionResponse{
		ID:                  session.ID,
		ClassID:             session.ClassID,
		Date:                academic.FormatDate(session.Date),
		SessionType:         session.SessionType,
		WorshipTopic:        session.WorshipTopic,
		WorshipTeacherName:  session.WorshipTeacherName,
		ActivityTopic:       session.ActivityTopic,
		ActivityTeacherName: session.ActivityTeacherName,
		OfferingAmount:      session.OfferingAmount,
		AuditorCount:        session.AuditorCount,
		IsCancelled:         session.IsCancelled,
		CancellationReason:  session.CancellationReason,
		Notes:               session.Notes,
	}

	if session.Class != nil {
		response.ClassName = session.Class.Name
	}
	for _, record := range session.StudentAttendance {
		response.StudentAttendance = append(response.StudentAttendance, AttendanceRecordResponse{
			ID:       record.ID,
			PersonID: record.StudentID,
			Status:   record.Status,
			Reason:   record.Reason,
		})
	}
	for _, record := range session.TeacherAttendance {
		response.TeacherAttendance = append(response.TeacherAttendance, AttendanceRecordResponse{
			ID:       record.ID,
			PersonID: record.TeacherID,
			Status:   record.Status,
			Reason:   record.Reason,
		})
	}

	return response
}
