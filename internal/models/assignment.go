package models

import "time"

// TeacherClassAssignment links a teacher to a class for one academic year.
// AcademicYear is stored as the 4-digit Gregorian start year in string form,
// matching the grouping key the assignment table has always used; services
// convert to int at the boundary.
type TeacherClassAssignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TeacherID    uint      `gorm:"not null;uniqueIndex:idx_assignment_key" json:"teacher_id"`
	Teacher      *Teacher  `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	ClassID      uint      `gorm:"not null;uniqueIndex:idx_assignment_key" json:"class_id"`
	Class        *Class    `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	AcademicYear string    `gorm:"size:8;not null;uniqueIndex:idx_assignment_key;index" json:"academic_year"`
	IsLead       bool      `gorm:"not null;default:false" json:"is_lead"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
