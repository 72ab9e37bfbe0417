package models

import "time"

// Class is one of the small fixed set of age-based cohorts. Position orders
// the cohorts youngest first and doubles as the placement fallback when a
// class is looked up by a name that no longer exists.
type Class struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
