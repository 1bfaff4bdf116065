package models

import "time"

// Fee collection statuses
const (
	CollectionStatusPaid = "paid"
)

// FeeCollection records that a student paid a fee. VoucherID is shared with the ledger
// Transaction written in the same operation.
type FeeCollection struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	VoucherID      string    `json:"voucher_id" gorm:"type:varchar(40);uniqueIndex;not null"`
	SchoolID       string    `json:"school_id" gorm:"type:varchar(64);not null;index:idx_collection_lookup,priority:1"`
	StudentID      string    `json:"student_id" gorm:"type:varchar(64);not null;index:idx_collection_lookup,priority:2"`
	FeeID          string    `json:"fee_id" gorm:"type:varchar(64);not null;index:idx_collection_lookup,priority:3"`
	StudentClass   string    `json:"student_class"`
	Amount         int64     `json:"amount" gorm:"not null"`
	ResolvedAmount int64     `json:"resolved_amount" gorm:"default:0"`
	Source         string    `json:"source"`
	PaymentDate    time.Time `json:"payment_date" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;default:'paid'"`
	CollectedBy    string    `json:"collected_by" gorm:"not null"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Overridden reports whether the collected amount differs from the resolved proposal.
func (c *FeeCollection) Overridden() bool {
	return c.ResolvedAmount > 0 && c.ResolvedAmount != c.Amount
}
