package feesource

import (
	"context"
	"time"

	"feedesk/internal/models"
)

// Service defines the fee source store
type Service interface {
	// Load returns the current fee sources of a school, from cache when possible.
	Load(ctx context.Context, schoolID string) (*Snapshot, error)
	// Invalidate drops the cached snapshot of a school.
	Invalidate(ctx context.Context, schoolID string) error
	// InvalidateAll drops every cached snapshot.
	InvalidateAll(ctx context.Context) error

	SaveExamSpecific(ctx context.Context, schoolID string, doc *models.ExamSpecificFees, updatedBy string) error
	SaveByType(ctx context.Context, schoolID string, doc *models.ExamFeesByType, updatedBy string) error
	SaveClassWise(ctx context.Context, schoolID string, doc *models.ClassWiseFees, updatedBy string) error
}

// Cache is the subset of the cache service used for snapshots.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
}
