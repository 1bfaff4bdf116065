package fee

import "feedesk/internal/models"

// StepName identifies the cascade step that produced an amount.
type StepName string

const (
	StepExamInstance   StepName = "exam_instance"
	StepExamInline     StepName = "exam_inline"
	StepExamTypeKeyed  StepName = "exam_type_keyed"
	StepManagement     StepName = "management"
	StepExhaustiveScan StepName = "exhaustive_scan"
	StepClassWise      StepName = "class_wise"
	StepDefaultTable   StepName = "default_table"
	StepFallback       StepName = "fallback"
	StepNone           StepName = "none"
)

// lookup is the per-resolution context handed to each step.
type lookup struct {
	sources *Sources
	exam    *models.Exam
	label   string
	coded   ExamType
	class   string

	// key under which the last step found its amount, when it differs from the obvious one
	matchedKey string
}

type step struct {
	name StepName
	find func(l *lookup) (int64, bool)
}

// cascade is the full resolution order. Paths without an exam use a subset of it.
var cascade = []step{
	{StepExamInstance, findExamInstance},
	{StepExamInline, findExamInline},
	{StepExamTypeKeyed, findExamTypeKeyed},
	{StepManagement, findManagement},
	{StepExhaustiveScan, findExhaustiveScan},
	{StepClassWise, findClassWise},
	{StepDefaultTable, findDefaultTable},
}

func findExamInstance(l *lookup) (int64, bool) {
	if l.exam == nil {
		return 0, false
	}
	table, ok := l.sources.examSpecificTable(l.exam.ID)
	if !ok {
		return 0, false
	}
	return table.Lookup(l.class)
}

func findExamInline(l *lookup) (int64, bool) {
	if l.exam == nil || len(l.exam.Fees) == 0 {
		return 0, false
	}
	return NewFeeTable(l.exam.Fees).Lookup(l.class)
}

func findExamTypeKeyed(l *lookup) (int64, bool) {
	table, ok := l.sources.examSpecificTable(l.label)
	if !ok {
		return 0, false
	}
	return table.Lookup(l.class)
}

func findManagement(l *lookup) (int64, bool) {
	if table, ok := l.sources.byCodedTable(l.coded); ok {
		if amount, ok := table.Lookup(l.class); ok {
			l.matchedKey = string(l.coded)
			return amount, true
		}
	}
	if l.label == string(l.coded) {
		return 0, false
	}
	if table, ok := l.sources.byTypeTable(l.label); ok {
		if amount, ok := table.Lookup(l.class); ok {
			l.matchedKey = l.label
			return amount, true
		}
	}
	return 0, false
}

func findExhaustiveScan(l *lookup) (int64, bool) {
	if l.sources == nil {
		return 0, false
	}
	for _, key := range l.sources.examSpecificKeys {
		if amount, ok := l.sources.examSpecific[key].Lookup(l.class); ok {
			l.matchedKey = key
			return amount, true
		}
	}
	return 0, false
}

func findClassWise(l *lookup) (int64, bool) {
	if l.sources == nil {
		return 0, false
	}
	return l.sources.classWise.Lookup(l.class)
}

func findDefaultTable(l *lookup) (int64, bool) {
	return DefaultAmount(l.coded, l.class)
}
