package models

import (
	"time"

	"gorm.io/datatypes"
)

// Transaction types
const (
	TransactionTypeFeeCollection = "fee_collection"
)

// Transaction statuses
const (
	TransactionStatusCompleted = "completed"
)

// Transaction is a ledger entry. Fee collections write one per voucher.
type Transaction struct {
	ID          uint              `json:"id" gorm:"primarykey"`
	VoucherID   string            `json:"voucher_id" gorm:"type:varchar(40);uniqueIndex;not null"`
	SchoolID    string            `json:"school_id" gorm:"type:varchar(64);not null;index"`
	Type        string            `json:"type" gorm:"not null"`
	Amount      int64             `json:"amount" gorm:"not null"`
	StudentID   string            `json:"student_id" gorm:"type:varchar(64);index"`
	Reference   string            `json:"reference"` // fee / exam id
	Description string            `json:"description"`
	Status      string            `json:"status" gorm:"not null;default:'pending'"`
	CollectedBy string            `json:"collected_by"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
