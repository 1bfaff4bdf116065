package collection

import (
	"time"

	"feedesk/internal/models"
)

// Request describes one payment to record.
type Request struct {
	SchoolID       string     `json:"school_id" validate:"required,max=64"`
	StudentID      string     `json:"student_id" validate:"required,max=64"`
	FeeID          string     `json:"fee_id"`
	Amount         int64      `json:"amount"`
	ResolvedAmount int64      `json:"resolved_amount" validate:"gte=0"`
	Source         string     `json:"source" validate:"max=32"`
	PaymentDate    *time.Time `json:"payment_date"`
	CollectedBy    string     `json:"collected_by" validate:"required,max=255"`
	Note           string     `json:"note" validate:"max=500"`
}

// BatchResult is the outcome of one item of a batch, in request order.
type BatchResult struct {
	Index      int                   `json:"index"`
	StudentID  string                `json:"student_id"`
	Collection *models.FeeCollection `json:"collection,omitempty"`
	Error      string                `json:"error,omitempty"`
	Code       string                `json:"code,omitempty"`
}

// Succeeded reports whether the item was recorded.
func (r BatchResult) Succeeded() bool {
	return r.Collection != nil
}

// Summarize counts recorded and failed items.
func Summarize(results []BatchResult) (recorded, failed int) {
	for _, r := range results {
		if r.Succeeded() {
			recorded++
		} else {
			failed++
		}
	}
	return recorded, failed
}

// Config holds configuration for the recorder
type Config struct {
	AllowDuplicates bool
	BatchWorkers    int
	BatchMaxItems   int
}
