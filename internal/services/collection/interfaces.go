package collection

import (
	"context"

	"feedesk/internal/models"
	"feedesk/internal/repositories"
)

// Service defines the fee collection recorder
type Service interface {
	Record(ctx context.Context, req Request) (*models.FeeCollection, error)
	RecordBatch(ctx context.Context, reqs []Request) ([]BatchResult, error)

	List(ctx context.Context, schoolID string, filter repositories.CollectionFilter, offset, limit int) ([]models.FeeCollection, int64, error)
	GetByVoucher(ctx context.Context, schoolID, voucherID string) (*models.FeeCollection, error)
}
