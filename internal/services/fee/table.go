package fee

import "sort"

// FeeTable is a class-keyed amount table after coercion and normalization. Only strictly
// positive amounts are kept.
type FeeTable struct {
	exact     map[string]int64
	canonical map[ClassKey]int64
}

// NewFeeTable ingests a raw class -> amount map. When several raw keys share a ClassKey
// the key that already is canonical wins, otherwise the lexicographically smallest one.
func NewFeeTable(raw map[string]interface{}) FeeTable {
	t := FeeTable{
		exact:     make(map[string]int64, len(raw)),
		canonical: make(map[ClassKey]int64, len(raw)),
	}

	owners := make(map[ClassKey]string, len(raw))
	for _, name := range sortedKeys(raw) {
		amount, ok := Amount(raw[name])
		if !ok {
			continue
		}
		t.exact[name] = amount

		key := Canonical(name)
		if key == "" {
			continue
		}
		owner, seen := owners[key]
		if !seen || (name == string(key) && owner != string(key)) {
			t.canonical[key] = amount
			owners[key] = name
		}
	}
	return t
}

// Lookup returns the amount for a class name: the literal key first, then the ClassKey.
func (t FeeTable) Lookup(class string) (int64, bool) {
	if amount, ok := t.exact[class]; ok {
		return amount, true
	}
	amount, ok := t.canonical[Canonical(class)]
	return amount, ok
}

// Len is the number of positive entries.
func (t FeeTable) Len() int {
	return len(t.exact)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
