package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff roles
const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
	RoleTeacher    = "teacher"
)

// AllSchools grants an admin access to every school.
const AllSchools = "*"

// User is a staff account of a school.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Phone        string
	Role         string `gorm:"default:'teacher'"`
	SchoolID     string `gorm:"type:varchar(64);not null;index"`
	Status       string `gorm:"default:'active'"`
	LastLoginAt  *time.Time
	TokenVersion int `gorm:"default:1"`
}
