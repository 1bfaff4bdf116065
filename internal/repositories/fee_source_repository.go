package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"feedesk/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeeSourceRepository reads and replaces the fee source documents of a school. A source
// that was never written yields ErrFeeSourceNotFound.
type FeeSourceRepository interface {
	GetExamSpecific(ctx context.Context, schoolID string) (*models.ExamSpecificFees, error)
	GetByType(ctx context.Context, schoolID string) (*models.ExamFeesByType, error)
	GetClassWise(ctx context.Context, schoolID string) (*models.ClassWiseFees, error)

	SaveExamSpecific(ctx context.Context, schoolID string, doc *models.ExamSpecificFees, updatedBy string) error
	SaveByType(ctx context.Context, schoolID string, doc *models.ExamFeesByType, updatedBy string) error
	SaveClassWise(ctx context.Context, schoolID string, doc *models.ClassWiseFees, updatedBy string) error
}

type feeSourceRepository struct {
	db *gorm.DB
}

// NewFeeSourceRepository stores fee sources as JSON documents in PostgreSQL.
func NewFeeSourceRepository(db *gorm.DB) FeeSourceRepository {
	return &feeSourceRepository{db: db}
}

func (r *feeSourceRepository) GetExamSpecific(ctx context.Context, schoolID string) (*models.ExamSpecificFees, error) {
	var doc models.ExamSpecificFees
	if err := r.load(ctx, schoolID, models.FeeSourceExamSpecific, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *feeSourceRepository) GetByType(ctx context.Context, schoolID string) (*models.ExamFeesByType, error) {
	var doc models.ExamFeesByType
	if err := r.load(ctx, schoolID, models.FeeSourceByType, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *feeSourceRepository) GetClassWise(ctx context.Context, schoolID string) (*models.ClassWiseFees, error) {
	var doc models.ClassWiseFees
	if err := r.load(ctx, schoolID, models.FeeSourceClassWise, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *feeSourceRepository) SaveExamSpecific(ctx context.Context, schoolID string, doc *models.ExamSpecificFees, updatedBy string) error {
	return r.save(ctx, schoolID, models.FeeSourceExamSpecific, doc, updatedBy)
}

func (r *feeSourceRepository) SaveByType(ctx context.Context, schoolID string, doc *models.ExamFeesByType, updatedBy string) error {
	return r.save(ctx, schoolID, models.FeeSourceByType, doc, updatedBy)
}

func (r *feeSourceRepository) SaveClassWise(ctx context.Context, schoolID string, doc *models.ClassWiseFees, updatedBy string) error {
	return r.save(ctx, schoolID, models.FeeSourceClassWise, doc, updatedBy)
}

func (r *feeSourceRepository) load(ctx context.Context, schoolID string, kind models.FeeSourceKind, dest interface{}) error {
	var row models.FeeSourceDocument
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND kind = ?", schoolID, kind).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeeSourceNotFound
		}
		return fmt.Errorf("failed to load %s fees: %w", kind, err)
	}

	if err := decodePayload(row.Payload, dest); err != nil {
		return fmt.Errorf("failed to decode %s fees: %w", kind, err)
	}
	return nil
}

// decodePayload keeps amounts in their textual form so that large values are not
// rounded through float64.
func decodePayload(payload []byte, dest interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	return dec.Decode(dest)
}

func (r *feeSourceRepository) save(ctx context.Context, schoolID string, kind models.FeeSourceKind, doc interface{}, updatedBy string) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s fees: %w", kind, err)
	}

	row := models.FeeSourceDocument{
		SchoolID:  schoolID,
		Kind:      kind,
		Payload:   datatypes.JSON(payload),
		UpdatedBy: updatedBy,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "school_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_by", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save %s fees: %w", kind, err)
	}
	return nil
}
