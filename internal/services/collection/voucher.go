package collection

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewVoucherID builds a voucher id from the collection date and a random UUID.
func NewVoucherID(at time.Time, id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return fmt.Sprintf("%s-%s-%s", VoucherPrefix, at.Format("20060102"), strings.ToUpper(hex[:8]))
}

// IsVoucherID reports whether s has the shape produced by NewVoucherID.
func IsVoucherID(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || parts[0] != VoucherPrefix {
		return false
	}
	if _, err := time.Parse("20060102", parts[1]); err != nil {
		return false
	}
	if len(parts[2]) != 8 {
		return false
	}
	for _, r := range parts[2] {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return false
		}
	}
	return true
}
