package models

import (
	"time"

	"gorm.io/datatypes"
)

// FeeSourceKind identifies one of the persisted fee sources of a school.
type FeeSourceKind string

const (
	FeeSourceExamSpecific FeeSourceKind = "exam_specific"
	FeeSourceByType       FeeSourceKind = "by_type"
	FeeSourceClassWise    FeeSourceKind = "class_wise"
)

// FeeSourceKinds lists every kind in load order.
var FeeSourceKinds = []FeeSourceKind{FeeSourceExamSpecific, FeeSourceByType, FeeSourceClassWise}

// FeeSourceDocument is the relational storage of one fee source document.
type FeeSourceDocument struct {
	ID        uint           `gorm:"primarykey"`
	SchoolID  string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_fee_source_school_kind"`
	Kind      FeeSourceKind  `gorm:"type:varchar(32);not null;uniqueIndex:idx_fee_source_school_kind"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExamSpecificFees holds fee overrides keyed by exam id (and, in older data, by exam
// type label), then by class name. Amounts may be numbers or numeric strings.
type ExamSpecificFees struct {
	Fees map[string]map[string]interface{} `json:"fees" firestore:"fees"`
}

// ExamFeesByType holds the management fees: exam type label -> class name -> amount.
type ExamFeesByType struct {
	Types map[string]map[string]interface{} `json:"types" firestore:"types"`
}

// ClassWiseFees is the legacy single exam fee per class.
type ClassWiseFees struct {
	ExamFees map[string]interface{} `json:"exam_fees" firestore:"examFees"`
}
