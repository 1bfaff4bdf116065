package feesource

import (
	"time"

	"feedesk/internal/models"
	"feedesk/internal/services/fee"
)

// Snapshot is the set of fee sources of one school at LoadedAt.
type Snapshot struct {
	SchoolID     string                   `json:"school_id"`
	ExamSpecific *models.ExamSpecificFees `json:"exam_specific,omitempty"`
	ByType       *models.ExamFeesByType   `json:"by_type,omitempty"`
	ClassWise    *models.ClassWiseFees    `json:"class_wise,omitempty"`
	Partial      bool                     `json:"partial"`
	Warnings     []string                 `json:"warnings,omitempty"`
	LoadedAt     time.Time                `json:"loaded_at"`

	sources *fee.Sources
}

// Sources returns the ingested form of the snapshot for the resolver.
func (s *Snapshot) Sources() *fee.Sources {
	if s == nil {
		return nil
	}
	if s.sources == nil {
		s.sources = fee.NewSources(s.ExamSpecific, s.ByType, s.ClassWise)
	}
	return s.sources
}

// Config holds configuration for the fee source store
type Config struct {
	CacheTTL    time.Duration
	LoadTimeout time.Duration
}
