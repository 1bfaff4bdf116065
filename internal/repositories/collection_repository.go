package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feedesk/internal/models"

	"gorm.io/gorm"
)

// CollectionFilter narrows a collection history listing. Empty fields match everything.
type CollectionFilter struct {
	StudentID string
	FeeID     string
	From      *time.Time
	To        *time.Time
}

// CollectionTx is the set of writes a fee collection performs inside one database
// transaction.
type CollectionTx interface {
	// LockCollectionKey serializes concurrent collections for the same student and fee
	// until the transaction ends.
	LockCollectionKey(schoolID, studentID, feeID string) error
	HasPaidCollection(schoolID, studentID, feeID string) (bool, error)
	CreateTransaction(t *models.Transaction) error
	CreateCollection(c *models.FeeCollection) error
}

// CollectionRepository persists fee collections and their ledger transactions.
type CollectionRepository interface {
	// ExecuteInTransaction runs fn in a database transaction; any error rolls back every
	// write made through the CollectionTx.
	ExecuteInTransaction(ctx context.Context, fn func(tx CollectionTx) error) error
	GetByVoucher(ctx context.Context, schoolID, voucherID string) (*models.FeeCollection, error)
	List(ctx context.Context, schoolID string, filter CollectionFilter, offset, limit int) ([]models.FeeCollection, int64, error)
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) ExecuteInTransaction(ctx context.Context, fn func(tx CollectionTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&collectionTx{tx: tx})
	})
}

func (r *collectionRepository) GetByVoucher(ctx context.Context, schoolID, voucherID string) (*models.FeeCollection, error) {
	var c models.FeeCollection
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND voucher_id = ?", schoolID, voucherID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &c, nil
}

func (r *collectionRepository) List(ctx context.Context, schoolID string, filter CollectionFilter, offset, limit int) ([]models.FeeCollection, int64, error) {
	var out []models.FeeCollection
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FeeCollection{}).Where("school_id = ?", schoolID)
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.FeeID != "" {
		query = query.Where("fee_id = ?", filter.FeeID)
	}
	if filter.From != nil {
		query = query.Where("payment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("payment_date < ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	if err := query.Order("payment_date DESC, id DESC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return out, total, nil
}

type collectionTx struct {
	tx *gorm.DB
}

func (t *collectionTx) LockCollectionKey(schoolID, studentID, feeID string) error {
	key := fmt.Sprintf("fee_collection:%s:%s:%s", schoolID, studentID, feeID)
	if err := t.tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
		return fmt.Errorf("failed to lock collection key: %w", err)
	}
	return nil
}

func (t *collectionTx) HasPaidCollection(schoolID, studentID, feeID string) (bool, error) {
	var count int64
	err := t.tx.Model(&models.FeeCollection{}).
		Where("school_id = ? AND student_id = ? AND fee_id = ? AND status = ?",
			schoolID, studentID, feeID, models.CollectionStatusPaid).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing collections: %w", err)
	}
	return count > 0, nil
}

func (t *collectionTx) CreateTransaction(tr *models.Transaction) error {
	if err := t.tx.Create(tr).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (t *collectionTx) CreateCollection(c *models.FeeCollection) error {
	if err := t.tx.Create(c).Error; err != nil {
		return fmt.Errorf("failed to create fee collection: %w", err)
	}
	return nil
}
