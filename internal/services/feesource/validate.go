package feesource

import (
	"encoding/json"
	"strings"
)

func validateNested(docs map[string]map[string]interface{}) error {
	for key, table := range docs {
		if strings.TrimSpace(key) == "" {
			return ErrInvalidDocument.WithMessage("empty exam key")
		}
		if err := validateTable(key, table); err != nil {
			return err
		}
	}
	return nil
}

// validateTable accepts numbers and strings as amounts. Strings are kept as written;
// unparseable ones simply never resolve.
func validateTable(name string, table map[string]interface{}) error {
	for class, v := range table {
		if strings.TrimSpace(class) == "" {
			return ErrInvalidDocument.WithMessage("empty class name in %s", name)
		}
		switch v.(type) {
		case nil, string, float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		default:
			return ErrInvalidDocument.WithMessage("amount for class %q in %s must be a number or string", class, name)
		}
	}
	return nil
}
