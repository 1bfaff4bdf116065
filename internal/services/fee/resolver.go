package fee

import (
	"log"
	"strings"

	"feedesk/internal/models"
)

// Path names the resolution context a query falls into.
type Path string

const (
	// PathFull is used when an exam is known: every step of the cascade.
	PathFull Path = "full"
	// PathTypeOnly is used with an exam type label but no exam: management, then class_wise.
	PathTypeOnly Path = "type_only"
	// PathClassOnly is used without any exam context: class_wise, then the default tables.
	PathClassOnly Path = "class_only"
	// PathNoStudent resolves to 0 without consulting anything.
	PathNoStudent Path = "no_student"
)

// Options configure a Resolver.
type Options struct {
	// ExhaustiveScan enables the scan over every exam-specific entry before class_wise.
	ExhaustiveScan bool
	// DefaultClass replaces an empty student class.
	DefaultClass string
	// Logger receives exhaustive scan recoveries. Defaults to the standard logger.
	Logger *log.Logger
}

// DefaultOptions returns the options matching the historical behavior.
func DefaultOptions() Options {
	return Options{
		ExhaustiveScan: true,
		DefaultClass:   DefaultClass,
	}
}

// Query is the input of a resolution. Exam and ExamType are both optional; when the exam
// carries a type, it takes precedence over ExamType.
type Query struct {
	Exam     *models.Exam
	ExamType string
	Student  *models.Student
}

// Resolution is the outcome of resolving one query.
type Resolution struct {
	StudentID string   `json:"student_id,omitempty"`
	Amount    int64    `json:"amount"`
	Step      StepName `json:"step"`
	Path      Path     `json:"path"`
	Class     string   `json:"class,omitempty"`
	ExamType  ExamType `json:"exam_type,omitempty"`
	Label     string   `json:"exam_type_label,omitempty"`
}

// Found reports whether a real amount was produced, including defaults.
func (r Resolution) Found() bool {
	return r.Amount > 0
}

// Attempt records one consulted step.
type Attempt struct {
	Step   StepName `json:"step"`
	Found  bool     `json:"found"`
	Amount int64    `json:"amount,omitempty"`
	Key    string   `json:"key,omitempty"`
}

// Explanation is a resolution together with every step consulted to reach it.
type Explanation struct {
	Resolution
	Attempts []Attempt `json:"attempts"`
}

// Resolver walks the fee cascade. It holds no state besides its options and is safe for
// concurrent use.
type Resolver struct {
	opts Options
}

// NewResolver creates a resolver, filling in unset options.
func NewResolver(opts Options) *Resolver {
	if strings.TrimSpace(opts.DefaultClass) == "" {
		opts.DefaultClass = DefaultClass
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Resolver{opts: opts}
}

// Resolve returns the fee for q. It never fails; absence is reported as Step none or
// fallback.
func (r *Resolver) Resolve(sources *Sources, q Query) Resolution {
	return r.walk(sources, q, nil)
}

// Explain resolves q and records every step it consulted.
func (r *Resolver) Explain(sources *Sources, q Query) Explanation {
	var attempts []Attempt
	res := r.walk(sources, q, func(a Attempt) {
		attempts = append(attempts, a)
	})
	if attempts == nil {
		attempts = []Attempt{}
	}
	return Explanation{Resolution: res, Attempts: attempts}
}

// ResolveBatch resolves the same exam for several students, in order.
func (r *Resolver) ResolveBatch(sources *Sources, exam *models.Exam, examType string, students []models.Student) []Resolution {
	out := make([]Resolution, 0, len(students))
	for i := range students {
		out = append(out, r.Resolve(sources, Query{Exam: exam, ExamType: examType, Student: &students[i]}))
	}
	return out
}

// Steps lists the steps consulted on path, in order.
func (r *Resolver) Steps(path Path) []StepName {
	plan := r.plan(path)
	names := make([]StepName, 0, len(plan))
	for _, s := range plan {
		names = append(names, s.name)
	}
	return names
}

func (r *Resolver) plan(path Path) []step {
	var names map[StepName]bool
	switch path {
	case PathFull:
		names = nil
	case PathTypeOnly:
		names = map[StepName]bool{StepManagement: true, StepClassWise: true}
	case PathClassOnly:
		names = map[StepName]bool{StepClassWise: true, StepDefaultTable: true}
	default:
		return nil
	}

	plan := make([]step, 0, len(cascade))
	for _, s := range cascade {
		if names != nil && !names[s.name] {
			continue
		}
		if s.name == StepExhaustiveScan && !r.opts.ExhaustiveScan {
			continue
		}
		plan = append(plan, s)
	}
	return plan
}

func (r *Resolver) walk(sources *Sources, q Query, trace func(Attempt)) Resolution {
	if q.Student == nil {
		return Resolution{Step: StepNone, Path: PathNoStudent}
	}

	class := q.Student.Class
	if strings.TrimSpace(class) == "" {
		class = r.opts.DefaultClass
	}

	label := strings.TrimSpace(q.ExamType)
	if q.Exam != nil && strings.TrimSpace(q.Exam.ExamType) != "" {
		label = strings.TrimSpace(q.Exam.ExamType)
	}

	path := PathClassOnly
	switch {
	case q.Exam != nil:
		path = PathFull
	case label != "":
		path = PathTypeOnly
	}

	l := &lookup{
		sources: sources,
		exam:    q.Exam,
		label:   label,
		coded:   TranslateExamType(label),
		class:   class,
	}
	res := Resolution{
		StudentID: q.Student.ID,
		Step:      StepNone,
		Path:      path,
		Class:     class,
		ExamType:  l.coded,
		Label:     label,
	}

	terminal := false
	for _, s := range r.plan(path) {
		l.matchedKey = ""
		amount, ok := s.find(l)
		if trace != nil {
			trace(Attempt{Step: s.name, Found: ok, Amount: amount, Key: l.matchedKey})
		}
		if s.name == StepDefaultTable {
			terminal = true
		}
		if !ok {
			continue
		}
		if s.name == StepExhaustiveScan {
			examID := ""
			if q.Exam != nil {
				examID = q.Exam.ID
			}
			r.opts.Logger.Printf("⚠️ Fee for class %q (exam %q) recovered by exhaustive scan under key %q",
				class, examID, l.matchedKey)
		}
		res.Amount = amount
		res.Step = s.name
		return res
	}

	if terminal {
		if trace != nil {
			trace(Attempt{Step: StepFallback, Found: true, Amount: FallbackAmount})
		}
		res.Amount = FallbackAmount
		res.Step = StepFallback
	}
	return res
}
