package models

import (
	"time"

	"gorm.io/datatypes"
)

// Student type and status values.
const (
	StudentTypeMember = "member"
	StudentTypeSeeker = "seeker"

	StudentStatusActive   = "active"
	StudentStatusInactive = "inactive"
)

// ManualHistoryEntry is a manually entered historical attendance percentage
// keyed by a report row label and a class name. Percentages are stored on the
// 0-100 scale, never as fractional ratios.
type ManualHistoryEntry struct {
	RowLabel   string  `json:"row_label"`
	ClassName  string  `json:"class_name"`
	Percentage float64 `json:"percentage"`
}

// EnrollmentEntry records a past enrollment. The class title is a snapshot,
// not a relation, so the history survives class renames.
type EnrollmentEntry struct {
	EnrollmentDate string `json:"enrollment_date"`
	ClassTitle     string `json:"class_title"`
	SchoolName     string `json:"school_name,omitempty"`
}

// Student represents a learner on the religious-education roster. Students
// are never physically removed; deactivation (including auto-graduation)
// flips Status to inactive.
type Student struct {
	ID                    uint                                    `gorm:"primaryKey" json:"id"`
	FullName              string                                  `gorm:"size:255;not null;index" json:"full_name"`
	StudentType           string                                  `gorm:"size:16;not null;default:member" json:"student_type"`
	Status                string                                  `gorm:"size:16;not null;default:active;index" json:"status"`
	DOB                   *time.Time                              `gorm:"type:date" json:"dob,omitempty"`
	Address               string                                  `gorm:"size:255" json:"address,omitempty"`
	ContactName           string                                  `gorm:"size:255" json:"contact_name,omitempty"`
	ContactPhone          string                                  `gorm:"size:64" json:"contact_phone,omitempty"`
	EmergencyContactName  string                                  `gorm:"size:255" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string                                  `gorm:"size:64" json:"emergency_contact_phone,omitempty"`
	IsBaptized            bool                                    `gorm:"not null;default:false" json:"is_baptized"`
	BaptismDate           *time.Time                              `gorm:"type:date" json:"baptism_date,omitempty"`
	IsSpiritBaptized      bool                                    `gorm:"not null;default:false" json:"is_spirit_baptized"`
	SpiritBaptismDate     *time.Time                              `gorm:"type:date" json:"spirit_baptism_date,omitempty"`
	ClassID               uint                                    `gorm:"not null;index" json:"class_id"`
	Class                 *Class                                  `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	Notes                 string                                  `gorm:"type:text" json:"notes,omitempty"`
	ManualHistory         datatypes.JSONSlice[ManualHistoryEntry] `gorm:"type:json" json:"manual_history"`
	EnrollmentHistory     datatypes.JSONSlice[EnrollmentEntry]    `gorm:"type:json" json:"enrollment_history"`
	CreatedAt             time.Time                               `json:"created_at"`
	UpdatedAt             time.Time                               `json:"updated_at"`
}
