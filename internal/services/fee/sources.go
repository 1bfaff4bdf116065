package fee

import "feedesk/internal/models"

// Sources is an ingested snapshot of the fee sources of one school. It is immutable once
// built and safe for concurrent use by any number of resolutions.
type Sources struct {
	examSpecific     map[string]FeeTable
	examSpecificKeys []string
	byType           map[string]FeeTable
	byCoded          map[ExamType]FeeTable
	classWise        FeeTable
}

// NewSources ingests the raw documents. Any of them may be nil when the source is absent.
func NewSources(examSpecific *models.ExamSpecificFees, byType *models.ExamFeesByType, classWise *models.ClassWiseFees) *Sources {
	s := &Sources{
		examSpecific: map[string]FeeTable{},
		byType:       map[string]FeeTable{},
		byCoded:      map[ExamType]FeeTable{},
	}

	if examSpecific != nil {
		for _, key := range sortedKeys(examSpecific.Fees) {
			table := NewFeeTable(examSpecific.Fees[key])
			if table.Len() == 0 {
				continue
			}
			s.examSpecific[key] = table
			s.examSpecificKeys = append(s.examSpecificKeys, key)
		}
	}

	if byType != nil {
		owners := make(map[ExamType]string)
		for _, label := range sortedKeys(byType.Types) {
			table := NewFeeTable(byType.Types[label])
			if table.Len() == 0 {
				continue
			}
			s.byType[label] = table

			coded, ok := ParseExamType(label)
			if !ok {
				continue
			}
			owner, seen := owners[coded]
			if !seen || (label == string(coded) && owner != string(coded)) {
				s.byCoded[coded] = table
				owners[coded] = label
			}
		}
	}

	if classWise != nil {
		s.classWise = NewFeeTable(classWise.ExamFees)
	}
	return s
}

// Empty reports whether no source holds a single positive amount.
func (s *Sources) Empty() bool {
	return s == nil || (len(s.examSpecific) == 0 && len(s.byType) == 0 && s.classWise.Len() == 0)
}

func (s *Sources) examSpecificTable(key string) (FeeTable, bool) {
	if s == nil || key == "" {
		return FeeTable{}, false
	}
	t, ok := s.examSpecific[key]
	return t, ok
}

func (s *Sources) byTypeTable(label string) (FeeTable, bool) {
	if s == nil || label == "" {
		return FeeTable{}, false
	}
	t, ok := s.byType[label]
	return t, ok
}

func (s *Sources) byCodedTable(t ExamType) (FeeTable, bool) {
	if s == nil {
		return FeeTable{}, false
	}
	table, ok := s.byCoded[t]
	return table, ok
}
