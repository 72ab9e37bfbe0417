package models

import "time"

// ClassSession is one scheduled meeting of a class on a specific date.
//
// A cancelled session contributes zero to every attendance and offering
// aggregate for its date but still counts as a record: reports must render
// it differently from a week with no session at all.
type ClassSession struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	ClassID             uint                `gorm:"not null;index:idx_session_class_date" json:"class_id"`
	Class               *Class              `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	Date                time.Time           `gorm:"type:date;not null;index:idx_session_class_date" json:"date"`
	SessionType         string              `gorm:"size:64;not null" json:"session_type"`
	WorshipTopic        string              `gorm:"size:255" json:"worship_topic,omitempty"`
	WorshipTeacherName  string              `gorm:"size:255" json:"worship_teacher_name,omitempty"`
	ActivityTopic       string              `gorm:"size:255" json:"activity_topic,omitempty"`
	ActivityTeacherName string              `gorm:"size:255" json:"activity_teacher_name,omitempty"`
	OfferingAmount      float64             `gorm:"not null;default:0" json:"offering_amount"`
	AuditorCount        int                 `gorm:"not null;default:0" json:"auditor_count"`
	IsCancelled         bool                `gorm:"not null;default:false" json:"is_cancelled"`
	CancellationReason  string              `gorm:"size:255" json:"cancellation_reason,omitempty"`
	Notes               string              `gorm:"type:text" json:"notes,omitempty"`
	StudentAttendance   []StudentAttendance `gorm:"foreignKey:SessionID" json:"student_attendance,omitempty"`
	TeacherAttendance   []TeacherAttendance `gorm:"foreignKey:SessionID" json:"teacher_attendance,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}
