package fee

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ClassKey is the canonical form of a class name. Two class names that denote the same
// class ("প্রথম", "1", " Class 1 ", "১") share one ClassKey.
type ClassKey string

// DefaultClass is used when a student record carries no class.
const DefaultClass = "প্রথম"

var bengaliDigits = strings.NewReplacer(
	"০", "0", "১", "1", "২", "2", "৩", "3", "৪", "4",
	"৫", "5", "৬", "6", "৭", "7", "৮", "8", "৯", "9",
)

var classPrefixes = []string{"class ", "grade ", "শ্রেণি ", "শ্রেণী "}

var classSuffixes = []string{" শ্রেণি", " শ্রেণী", " class"}

// classAliases maps native-language class names to their coded form. Keys are
// normalized in init so that composed and decomposed spellings both match.
var classAliases = map[string]string{
	"প্লে":       "play",
	"প্লে গ্রুপ":  "play",
	"play group": "play",
	"নার্সারি":    "nursery",
	"নার্সারী":    "nursery",
	"কেজি":       "kg",
	"প্রথম":      "1",
	"দ্বিতীয়":     "2",
	"তৃতীয়":      "3",
	"চতুর্থ":      "4",
	"পঞ্চম":      "5",
	"ষষ্ঠ":        "6",
	"সপ্তম":      "7",
	"অষ্টম":      "8",
	"নবম":       "9",
	"দশম":       "10",
	"একাদশ":     "11",
	"দ্বাদশ":      "12",
	"one":        "1",
	"two":        "2",
	"three":      "3",
	"four":       "4",
	"five":       "5",
	"six":        "6",
	"seven":      "7",
	"eight":      "8",
	"nine":       "9",
	"ten":        "10",
}

func init() {
	normalized := make(map[string]string, len(classAliases))
	for name, code := range classAliases {
		normalized[normalizeLabel(name)] = code
	}
	classAliases = normalized
}

// normalizeLabel applies the text-level normalization shared by class names and exam
// type labels: NFC, collapsed whitespace, Bengali digits to ASCII, lower case.
func normalizeLabel(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	s = bengaliDigits.Replace(s)
	return strings.ToLower(s)
}

// Canonical returns the ClassKey of a class name.
func Canonical(name string) ClassKey {
	s := normalizeLabel(name)
	for _, p := range classPrefixes {
		s = strings.TrimPrefix(s, p)
	}
	for _, suf := range classSuffixes {
		s = strings.TrimSuffix(s, suf)
	}
	s = strings.TrimSpace(s)

	if code, ok := classAliases[s]; ok {
		return ClassKey(code)
	}
	return ClassKey(s)
}

// SameClass reports whether two class names denote the same class.
func SameClass(a, b string) bool {
	ka := Canonical(a)
	return ka != "" && ka == Canonical(b)
}
