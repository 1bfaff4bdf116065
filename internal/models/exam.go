package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// FlexBool decodes both JSON booleans and the strings "true"/"false". Exam documents
// written by older clients store the deleted flag as a string.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		*b = true
	default:
		*b = false
	}
	return nil
}

// Value implements the driver.Valuer interface
func (b FlexBool) Value() (driver.Value, error) {
	return bool(b), nil
}

// Scan implements the sql.Scanner interface
func (b *FlexBool) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*b = false
	case bool:
		*b = FlexBool(v)
	case string:
		*b = FlexBool(strings.EqualFold(v, "true"))
	case []byte:
		*b = FlexBool(strings.EqualFold(string(v), "true"))
	case int64:
		*b = v != 0
	default:
		return fmt.Errorf("cannot scan %T into FlexBool", value)
	}
	return nil
}

// Exam statuses
const (
	ExamStatusScheduled = "scheduled"
	ExamStatusOngoing   = "ongoing"
	ExamStatusCompleted = "completed"
)

// Exam is one exam instance of a school. Fees optionally carries per-class amounts
// stored on the exam document itself.
type Exam struct {
	ID        string            `json:"id" gorm:"primaryKey;type:varchar(64)"`
	SchoolID  string            `json:"school_id" gorm:"type:varchar(64);not null;index"`
	Name      string            `json:"name" gorm:"not null"`
	ExamType  string            `json:"exam_type" gorm:"column:exam_type"`
	Fees      datatypes.JSONMap `json:"fees,omitempty" gorm:"type:jsonb"`
	Status    string            `json:"status" gorm:"default:'scheduled'"`
	ClassName string            `json:"class" gorm:"column:class_name;index"`
	StartDate *time.Time        `json:"start_date,omitempty" gorm:"type:date"`
	EndDate   *time.Time        `json:"end_date,omitempty" gorm:"type:date"`
	Deleted   FlexBool          `json:"deleted" gorm:"default:false;index"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsDeleted reports whether the exam was soft-deleted.
func (e *Exam) IsDeleted() bool {
	return e != nil && bool(e.Deleted)
}
