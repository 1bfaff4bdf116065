package collection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	apperrors "feedesk/internal/errors"
	"feedesk/internal/models"
	"feedesk/internal/repositories"
	"feedesk/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

type service struct {
	repo     repositories.CollectionRepository
	students repositories.StudentRepository
	exams    repositories.ExamRepository
	config   Config
	metrics  MetricsCollector
	now      func() time.Time
	newID    func() uuid.UUID
}

// NewService creates a new fee collection recorder
func NewService(
	repo repositories.CollectionRepository,
	students repositories.StudentRepository,
	exams repositories.ExamRepository,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if students == nil {
		panic("student repository is required")
	}
	if exams == nil {
		panic("exam repository is required")
	}

	if config.BatchWorkers <= 0 {
		config.BatchWorkers = DefaultBatchWorkers
	}
	if config.BatchMaxItems <= 0 {
		config.BatchMaxItems = DefaultBatchMaxItems
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:     repo,
		students: students,
		exams:    exams,
		config:   config,
		metrics:  metrics,
		now:      time.Now,
		newID:    uuid.New,
	}
}

func (s *service) Record(ctx context.Context, req Request) (*models.FeeCollection, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(opRecord, time.Since(start))
	}()

	if err := validateRequest(&req); err != nil {
		s.metrics.RecordOperationResult(opRecord, "invalid")
		return nil, err
	}

	student, err := s.students.GetByID(ctx, req.SchoolID, req.StudentID)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, ErrStudentNotFound
		}
		s.metrics.RecordError(opRecord, "student_lookup")
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	exam, err := s.exams.GetByID(ctx, req.SchoolID, req.FeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrExamNotFound) {
			return nil, ErrExamNotFound
		}
		s.metrics.RecordError(opRecord, "exam_lookup")
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if exam.IsDeleted() {
		return nil, ErrExamDeleted
	}

	now := s.now()
	paidAt := now
	if req.PaymentDate != nil && !req.PaymentDate.IsZero() {
		paidAt = *req.PaymentDate
	}
	voucher := NewVoucherID(now, s.newID())

	collection := &models.FeeCollection{
		VoucherID:      voucher,
		SchoolID:       req.SchoolID,
		StudentID:      student.ID,
		FeeID:          exam.ID,
		StudentClass:   student.Class,
		Amount:         req.Amount,
		ResolvedAmount: req.ResolvedAmount,
		Source:         req.Source,
		PaymentDate:    paidAt,
		Status:         models.CollectionStatusPaid,
		CollectedBy:    req.CollectedBy,
		Note:           req.Note,
	}
	txn := &models.Transaction{
		VoucherID:   voucher,
		SchoolID:    req.SchoolID,
		Type:        models.TransactionTypeFeeCollection,
		Amount:      req.Amount,
		StudentID:   student.ID,
		Reference:   exam.ID,
		Description: fmt.Sprintf("Exam fee: %s", exam.Name),
		Status:      models.TransactionStatusCompleted,
		CollectedBy: req.CollectedBy,
		Metadata: datatypes.JSONMap{
			"student_name":    student.Name,
			"student_class":   student.Class,
			"exam_name":       exam.Name,
			"exam_type":       exam.ExamType,
			"resolved_amount": req.ResolvedAmount,
			"source":          req.Source,
			"payment_date":    paidAt.Format(time.RFC3339),
		},
	}

	err = s.repo.ExecuteInTransaction(ctx, func(tx repositories.CollectionTx) error {
		if !s.config.AllowDuplicates {
			if err := tx.LockCollectionKey(req.SchoolID, student.ID, exam.ID); err != nil {
				return err
			}
			paid, err := tx.HasPaidCollection(req.SchoolID, student.ID, exam.ID)
			if err != nil {
				return err
			}
			if paid {
				return ErrDuplicateCollection
			}
		}
		if err := tx.CreateTransaction(txn); err != nil {
			return err
		}
		return tx.CreateCollection(collection)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateCollection) {
			s.metrics.RecordOperationResult(opRecord, "duplicate")
			return nil, err
		}
		log.Printf("❌ Failed to record fee collection for student %s, fee %s: %v", student.ID, exam.ID, err)
		s.metrics.RecordError(opRecord, "transaction")
		return nil, fmt.Errorf("failed to record collection: %w", err)
	}

	if collection.Overridden() {
		log.Printf("ℹ️ Voucher %s collected %d instead of resolved %d", voucher, collection.Amount, collection.ResolvedAmount)
	}
	log.Printf("✅ Fee collected: voucher %s, student %s, amount %d", voucher, student.ID, collection.Amount)
	s.metrics.RecordOperationResult(opRecord, "success")
	s.metrics.RecordCollectedAmount(req.SchoolID, collection.Amount)
	return collection, nil
}

// RecordBatch records every item independently. A failing item never affects the others;
// the returned error is only set when the batch itself is rejected.
func (s *service) RecordBatch(ctx context.Context, reqs []Request) ([]BatchResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(opBatch, time.Since(start))
	}()

	if len(reqs) == 0 {
		return nil, ErrInvalidRequest.WithMessage("batch is empty")
	}
	if len(reqs) > s.config.BatchMaxItems {
		return nil, ErrBatchTooLarge.WithMessage("at most %d items per batch", s.config.BatchMaxItems)
	}

	results := make([]BatchResult, len(reqs))
	var g errgroup.Group
	g.SetLimit(s.config.BatchWorkers)
	for i := range reqs {
		i := i
		g.Go(func() error {
			res := BatchResult{Index: i, StudentID: reqs[i].StudentID}
			c, err := s.Record(ctx, reqs[i])
			if err != nil {
				res.Error, res.Code = describe(err)
			} else {
				res.Collection = c
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	recorded, failed := Summarize(results)
	log.Printf("📦 Batch collection: %d recorded, %d failed", recorded, failed)
	s.metrics.RecordOperationResult(opBatch, batchOutcome(recorded, failed))
	return results, nil
}

func (s *service) List(ctx context.Context, schoolID string, filter repositories.CollectionFilter, offset, limit int) ([]models.FeeCollection, int64, error) {
	if strings.TrimSpace(schoolID) == "" {
		return nil, 0, ErrInvalidRequest.WithMessage("school id is required")
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	items, total, err := s.repo.List(ctx, schoolID, filter, offset, limit)
	if err != nil {
		s.metrics.RecordError(opList, "repository")
		return nil, 0, fmt.Errorf("failed to list collections: %w", err)
	}
	return items, total, nil
}

func (s *service) GetByVoucher(ctx context.Context, schoolID, voucherID string) (*models.FeeCollection, error) {
	if !IsVoucherID(voucherID) {
		return nil, ErrCollectionNotFound
	}
	c, err := s.repo.GetByVoucher(ctx, schoolID, voucherID)
	if err != nil {
		if errors.Is(err, repositories.ErrCollectionNotFound) {
			return nil, ErrCollectionNotFound
		}
		s.metrics.RecordError(opGet, "repository")
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return c, nil
}

func validateRequest(req *Request) error {
	req.FeeID = strings.TrimSpace(req.FeeID)
	req.Note = strings.TrimSpace(req.Note)
	if req.Amount <= 0 {
		return ErrAmountRequired
	}
	if req.FeeID == "" {
		return ErrFeeRequired
	}
	return validation.Struct(req)
}

func describe(err error) (message, code string) {
	if de, ok := apperrors.AsDomain(err); ok {
		return de.Message, de.Code
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.Error(), "VALIDATION_FAILED"
	}
	return "failed to record collection", "INTERNAL"
}

func batchOutcome(recorded, failed int) string {
	switch {
	case failed == 0:
		return "success"
	case recorded == 0:
		return "failed"
	default:
		return "partial"
	}
}
