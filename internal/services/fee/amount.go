package fee

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount coerces a raw amount read from a fee source into whole currency units.
// ok is false when the value is missing, not numeric or not strictly positive.
// Fractional parts are truncated toward zero.
func Amount(raw interface{}) (int64, bool) {
	var d decimal.Decimal

	switch v := raw.(type) {
	case nil:
		return 0, false
	case int:
		d = decimal.NewFromInt(int64(v))
	case int32:
		d = decimal.NewFromInt32(v)
	case int64:
		d = decimal.NewFromInt(v)
	case uint:
		return unsignedAmount(uint64(v))
	case uint32:
		d = decimal.NewFromInt(int64(v))
	case uint64:
		return unsignedAmount(v)
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return 0, false
		}
		d = decimal.NewFromFloat32(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		d = decimal.NewFromFloat(v)
	case json.Number:
		parsed, ok := parseDecimal(v.String())
		if !ok {
			return 0, false
		}
		d = parsed
	case string:
		parsed, ok := parseDecimal(v)
		if !ok {
			return 0, false
		}
		d = parsed
	default:
		return 0, false
	}

	// IntPart wraps silently outside int64, so the range is checked on the integer part
	whole := d.BigInt()
	if !whole.IsInt64() {
		return 0, false
	}
	n := whole.Int64()
	if n <= 0 {
		return 0, false
	}
	return n, true
}

func unsignedAmount(v uint64) (int64, bool) {
	if v == 0 || v > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(bengaliDigits.Replace(s))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
