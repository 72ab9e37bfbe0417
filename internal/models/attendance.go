package models

import "time"

// Attendance status values. Late counts toward the positive attendance rate
// alongside present.
const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusLate    = "late"
	AttendanceStatusExcused = "excused"
)

// StudentAttendance links a class session to a student. At most one record
// exists per (session, student) pair; writes go through upserts.
type StudentAttendance struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	SessionID uint          `gorm:"not null;uniqueIndex:idx_student_attendance_key" json:"session_id"`
	Session   *ClassSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	StudentID uint          `gorm:"not null;uniqueIndex:idx_student_attendance_key" json:"student_id"`
	Student   *Student      `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Status    string        `gorm:"size:16;not null" json:"status"`
	Reason    string        `gorm:"size:255" json:"reason,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TeacherAttendance links a class session to a teacher, with the same upsert
// discipline as student attendance.
type TeacherAttendance struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	SessionID uint          `gorm:"not null;uniqueIndex:idx_teacher_attendance_key" json:"session_id"`
	Session   *ClassSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	TeacherID uint          `gorm:"not null;uniqueIndex:idx_teacher_attendance_key" json:"teacher_id"`
	Teacher   *Teacher      `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Status    string        `gorm:"size:16;not null" json:"status"`
	Reason    string        `gorm:"size:255" json:"reason,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
