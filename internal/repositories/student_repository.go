package repositories

import (
	"context"
	"errors"

	"feedesk/internal/models"

	"gorm.io/gorm"
)

// StudentRepository persists student records of a school.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, schoolID, id string) (*models.Student, error)
	List(ctx context.Context, schoolID, class string, offset, limit int) ([]models.Student, int64, error)
	ListActive(ctx context.Context, schoolID string) ([]models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, schoolID, id string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("school_id = ? AND id = ?", schoolID, id).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &student, nil
}

// List filters by the literal class name when class is not empty.
func (r *studentRepository) List(ctx context.Context, schoolID, class string, offset, limit int) ([]models.Student, int64, error) {
	var students []models.Student
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Student{}).Where("school_id = ?", schoolID)
	if class != "" {
		query = query.Where("class = ?", class)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	if err := query.Order("class ASC, roll ASC").Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return students, total, nil
}

// ListActive returns every active student of a school. Class matching by alias is left to
// the caller because class names are not normalized in storage.
func (r *studentRepository) ListActive(ctx context.Context, schoolID string) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND status = ?", schoolID, models.StudentStatusActive).
		Order("class ASC, roll ASC").
		Find(&students).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return students, nil
}
