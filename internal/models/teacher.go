package models

import "time"

// Teacher type values.
const (
	TeacherTypeFormal  = "formal"
	TeacherTypeTrainee = "trainee"
)

// Teacher represents a member of the teaching staff.
type Teacher struct {
	ID          uint                     `gorm:"primaryKey" json:"id"`
	FullName    string                   `gorm:"size:255;not null;index" json:"full_name"`
	TeacherType string                   `gorm:"size:16;not null;default:formal" json:"teacher_type"`
	Status      string                   `gorm:"size:16;not null;default:active;index" json:"status"`
	Phone       string                   `gorm:"size:64" json:"phone,omitempty"`
	Email       string                   `gorm:"size:255" json:"email,omitempty"`
	Notes       string                   `gorm:"type:text" json:"notes,omitempty"`
	Assignments []TeacherClassAssignment `gorm:"foreignKey:TeacherID" json:"assignments,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}
