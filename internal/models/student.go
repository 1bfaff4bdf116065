package models

import "time"

// Student statuses
const (
	StudentStatusActive   = "active"
	StudentStatusInactive = "inactive"
)

// Student is a student record. Class is the class name as entered by the school; it is
// matched against fee tables by name, not by id.
type Student struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	SchoolID      string    `json:"school_id" gorm:"type:varchar(64);not null;index"`
	Name          string    `json:"name" gorm:"not null"`
	Class         string    `json:"class" gorm:"index"`
	Roll          string    `json:"roll"`
	GuardianPhone string    `json:"guardian_phone"`
	Status        string    `json:"status" gorm:"default:'active'"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
