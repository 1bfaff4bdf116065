package fee

// ExamType is one of the coded exam categories fees are grouped by.
type ExamType string

const (
	Monthly    ExamType = "monthly"
	Quarterly  ExamType = "quarterly"
	HalfYearly ExamType = "halfYearly"
	Annual     ExamType = "annual"
)

// examTypeLabels translates coded and native-language exam type labels. Keys are
// normalized in init.
var examTypeLabels = map[string]ExamType{
	"monthly":         Monthly,
	"month":           Monthly,
	"মাসিক":           Monthly,
	"মাসিক পরীক্ষা":    Monthly,
	"quarterly":       Quarterly,
	"term":            Quarterly,
	"সাময়িক":          Quarterly,
	"প্রথম সাময়িক":     Quarterly,
	"দ্বিতীয় সাময়িক":    Quarterly,
	"তৃতীয় সাময়িক":     Quarterly,
	"ত্রৈমাসিক":         Quarterly,
	"halfyearly":      HalfYearly,
	"half-yearly":     HalfYearly,
	"half_yearly":     HalfYearly,
	"half yearly":     HalfYearly,
	"অর্ধবার্ষিক":       HalfYearly,
	"অর্ধ-বার্ষিক":      HalfYearly,
	"ষাণ্মাসিক":         HalfYearly,
	"annual":          Annual,
	"yearly":          Annual,
	"final":           Annual,
	"বার্ষিক":          Annual,
	"বার্ষিক পরীক্ষা":   Annual,
	"নির্বাচনী":         Annual,
	"টেস্ট":            Annual,
}

func init() {
	normalized := make(map[string]ExamType, len(examTypeLabels))
	for label, t := range examTypeLabels {
		normalized[normalizeLabel(label)] = t
	}
	examTypeLabels = normalized
}

// ParseExamType translates an exam type label into its coded category. Unknown labels
// yield Quarterly and ok == false.
func ParseExamType(label string) (t ExamType, ok bool) {
	t, ok = examTypeLabels[normalizeLabel(label)]
	if !ok {
		return Quarterly, false
	}
	return t, true
}

// TranslateExamType is ParseExamType without the recognition flag.
func TranslateExamType(label string) ExamType {
	t, _ := ParseExamType(label)
	return t
}
