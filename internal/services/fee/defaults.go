package fee

// FallbackAmount is returned when the class is absent from every source and from the
// default table.
const FallbackAmount int64 = 150

// DefaultTables holds the built-in per-class exam fees, one table per coded exam type.
// Monthly exams and unknown types use the Quarterly table.
var DefaultTables = map[ExamType]map[ClassKey]int64{
	Quarterly: {
		"play":    300,
		"nursery": 300,
		"kg":      350,
		"1":       400,
		"2":       400,
		"3":       450,
		"4":       450,
		"5":       500,
		"6":       600,
		"7":       600,
		"8":       700,
		"9":       750,
		"10":      800,
	},
	HalfYearly: {
		"play":    400,
		"nursery": 400,
		"kg":      450,
		"1":       500,
		"2":       500,
		"3":       550,
		"4":       550,
		"5":       600,
		"6":       700,
		"7":       700,
		"8":       800,
		"9":       850,
		"10":      900,
	},
	Annual: {
		"play":    500,
		"nursery": 500,
		"kg":      550,
		"1":       600,
		"2":       600,
		"3":       650,
		"4":       650,
		"5":       700,
		"6":       800,
		"7":       800,
		"8":       900,
		"9":       950,
		"10":      1000,
	},
}

// DefaultAmount looks the class up in the default table of t.
func DefaultAmount(t ExamType, class string) (int64, bool) {
	table, ok := DefaultTables[t]
	if !ok {
		table = DefaultTables[Quarterly]
	}
	amount, ok := table[Canonical(class)]
	if !ok || amount <= 0 {
		return 0, false
	}
	return amount, true
}
