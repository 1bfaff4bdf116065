package repositories

import (
	"context"
	"errors"

	"feedesk/internal/models"

	"gorm.io/gorm"
)

// ExamRepository persists exams. Soft-deleted exams stay readable by id but are hidden
// from listings.
type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, schoolID, id string) (*models.Exam, error)
	List(ctx context.Context, schoolID string, offset, limit int) ([]models.Exam, int64, error)
	SoftDelete(ctx context.Context, schoolID, id string) error
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Create(ctx context.Context, exam *models.Exam) error {
	if err := r.db.WithContext(ctx).Create(exam).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *examRepository) GetByID(ctx context.Context, schoolID, id string) (*models.Exam, error) {
	var exam models.Exam
	err := r.db.WithContext(ctx).Where("school_id = ? AND id = ?", schoolID, id).First(&exam).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &exam, nil
}

func (r *examRepository) List(ctx context.Context, schoolID string, offset, limit int) ([]models.Exam, int64, error) {
	var exams []models.Exam
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Exam{}).
		Where("school_id = ? AND deleted = ?", schoolID, false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	if err := query.Order("start_date DESC NULLS LAST, created_at DESC").Offset(offset).Limit(limit).Find(&exams).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return exams, total, nil
}

func (r *examRepository) SoftDelete(ctx context.Context, schoolID, id string) error {
	result := r.db.WithContext(ctx).Model(&models.Exam{}).
		Where("school_id = ? AND id = ?", schoolID, id).
		Update("deleted", true)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrExamNotFound
	}
	return nil
}
