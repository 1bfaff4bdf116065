package collection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"feedesk/internal/models"
	"feedesk/internal/repositories"
	"feedesk/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCollectionRepo struct {
	mock.Mock
	tx *MockTx
}

type MockTx struct {
	mock.Mock
}

type MockStudentRepo struct {
	mock.Mock
}

type MockExamRepo struct {
	mock.Mock
}

func (m *MockCollectionRepo) ExecuteInTransaction(ctx context.Context, fn func(tx repositories.CollectionTx) error) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}
	return fn(m.tx)
}

func (m *MockCollectionRepo) GetByVoucher(ctx context.Context, schoolID, voucherID string) (*models.FeeCollection, error) {
	args := m.Called(ctx, schoolID, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeCollection), args.Error(1)
}

func (m *MockCollectionRepo) List(ctx context.Context, schoolID string, filter repositories.CollectionFilter, offset, limit int) ([]models.FeeCollection, int64, error) {
	args := m.Called(ctx, schoolID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.FeeCollection), args.Get(1).(int64), args.Error(2)
}

func (m *MockTx) LockCollectionKey(schoolID, studentID, feeID string) error {
	return m.Called(schoolID, studentID, feeID).Error(0)
}

func (m *MockTx) HasPaidCollection(schoolID, studentID, feeID string) (bool, error) {
	args := m.Called(schoolID, studentID, feeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTx) CreateTransaction(t *models.Transaction) error {
	return m.Called(t).Error(0)
}

func (m *MockTx) CreateCollection(c *models.FeeCollection) error {
	return m.Called(c).Error(0)
}

func (m *MockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	return m.Called(ctx, student).Error(0)
}

func (m *MockStudentRepo) GetByID(ctx context.Context, schoolID, id string) (*models.Student, error) {
	args := m.Called(ctx, schoolID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepo) List(ctx context.Context, schoolID, class string, offset, limit int) ([]models.Student, int64, error) {
	args := m.Called(ctx, schoolID, class, offset, limit)
	return args.Get(0).([]models.Student), args.Get(1).(int64), args.Error(2)
}

func (m *MockStudentRepo) ListActive(ctx context.Context, schoolID string) ([]models.Student, error) {
	args := m.Called(ctx, schoolID)
	return args.Get(0).([]models.Student), args.Error(1)
}

func (m *MockExamRepo) Create(ctx context.Context, exam *models.Exam) error {
	return m.Called(ctx, exam).Error(0)
}

func (m *MockExamRepo) GetByID(ctx context.Context, schoolID, id string) (*models.Exam, error) {
	args := m.Called(ctx, schoolID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepo) List(ctx context.Context, schoolID string, offset, limit int) ([]models.Exam, int64, error) {
	args := m.Called(ctx, schoolID, offset, limit)
	return args.Get(0).([]models.Exam), args.Get(1).(int64), args.Error(2)
}

func (m *MockExamRepo) SoftDelete(ctx context.Context, schoolID, id string) error {
	return m.Called(ctx, schoolID, id).Error(0)
}

const school = "school-1"

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

type fixture struct {
	repo     *MockCollectionRepo
	tx       *MockTx
	students *MockStudentRepo
	exams    *MockExamRepo
	svc      *service
}

func newFixture(config Config) *fixture {
	tx := new(MockTx)
	f := &fixture{
		repo:     &MockCollectionRepo{tx: tx},
		tx:       tx,
		students: new(MockStudentRepo),
		exams:    new(MockExamRepo),
	}
	f.svc = NewService(f.repo, f.students, f.exams, config, nil).(*service)
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.newID = func() uuid.UUID { return uuid.MustParse("1a2b3c4d-0000-4000-8000-000000000000") }
	return f
}

func (f *fixture) withStudentAndExam(exam *models.Exam) {
	f.students.On("GetByID", mock.Anything, school, "S1").
		Return(&models.Student{ID: "S1", SchoolID: school, Name: "Rahim", Class: "দশম"}, nil)
	f.exams.On("GetByID", mock.Anything, school, exam.ID).Return(exam, nil)
}

func validRequest() Request {
	return Request{
		SchoolID:       school,
		StudentID:      "S1",
		FeeID:          "E1",
		Amount:         800,
		ResolvedAmount: 800,
		Source:         "default_table",
		CollectedBy:    "accountant@school.test",
	}
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("records transaction and collection with one voucher", func(t *testing.T) {
		f := newFixture(Config{})
		f.withStudentAndExam(&models.Exam{ID: "E1", SchoolID: school, Name: "Annual 2026", ExamType: "annual"})
		f.repo.On("ExecuteInTransaction", ctx).Return(nil)
		f.tx.On("LockCollectionKey", school, "S1", "E1").Return(nil)
		f.tx.On("HasPaidCollection", school, "S1", "E1").Return(false, nil)

		var txn *models.Transaction
		f.tx.On("CreateTransaction", mock.AnythingOfType("*models.Transaction")).
			Run(func(args mock.Arguments) { txn = args.Get(0).(*models.Transaction) }).
			Return(nil)
		f.tx.On("CreateCollection", mock.AnythingOfType("*models.FeeCollection")).Return(nil)

		c, err := f.svc.Record(ctx, validRequest())

		require.NoError(t, err)
		assert.Equal(t, "VCH-20260314-1A2B3C4D", c.VoucherID)
		assert.Equal(t, c.VoucherID, txn.VoucherID)
		assert.Equal(t, int64(800), txn.Amount)
		assert.Equal(t, models.TransactionTypeFeeCollection, txn.Type)
		assert.Equal(t, "দশম", c.StudentClass)
		assert.Equal(t, fixedNow, c.PaymentDate)
		assert.Equal(t, models.CollectionStatusPaid, c.Status)
		assert.False(t, c.Overridden())
		f.tx.AssertExpectations(t)
	})

	t.Run("duplicate is rejected by default", func(t *testing.T) {
		f := newFixture(Config{})
		f.withStudentAndExam(&models.Exam{ID: "E1", SchoolID: school})
		f.repo.On("ExecuteInTransaction", ctx).Return(nil)
		f.tx.On("LockCollectionKey", school, "S1", "E1").Return(nil)
		f.tx.On("HasPaidCollection", school, "S1", "E1").Return(true, nil)

		_, err := f.svc.Record(ctx, validRequest())

		assert.ErrorIs(t, err, ErrDuplicateCollection)
		f.tx.AssertNotCalled(t, "CreateTransaction", mock.Anything)
		f.tx.AssertNotCalled(t, "CreateCollection", mock.Anything)
	})

	t.Run("duplicates allowed skip the check", func(t *testing.T) {
		f := newFixture(Config{AllowDuplicates: true})
		f.withStudentAndExam(&models.Exam{ID: "E1", SchoolID: school})
		f.repo.On("ExecuteInTransaction", ctx).Return(nil)
		f.tx.On("CreateTransaction", mock.Anything).Return(nil)
		f.tx.On("CreateCollection", mock.Anything).Return(nil)

		_, err := f.svc.Record(ctx, validRequest())

		require.NoError(t, err)
		f.tx.AssertNotCalled(t, "LockCollectionKey", mock.Anything, mock.Anything, mock.Anything)
		f.tx.AssertNotCalled(t, "HasPaidCollection", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("collection write failure surfaces", func(t *testing.T) {
		f := newFixture(Config{AllowDuplicates: true})
		f.withStudentAndExam(&models.Exam{ID: "E1", SchoolID: school})
		f.repo.On("ExecuteInTransaction", ctx).Return(nil)
		f.tx.On("CreateTransaction", mock.Anything).Return(nil)
		f.tx.On("CreateCollection", mock.Anything).Return(errors.New("unique violation"))

		_, err := f.svc.Record(ctx, validRequest())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to record collection")
	})

	t.Run("override and explicit payment date", func(t *testing.T) {
		f := newFixture(Config{AllowDuplicates: true})
		f.withStudentAndExam(&models.Exam{ID: "E1", SchoolID: school})
		f.repo.On("ExecuteInTransaction", ctx).Return(nil)
		f.tx.On("CreateTransaction", mock.Anything).Return(nil)
		f.tx.On("CreateCollection", mock.Anything).Return(nil)

		paid := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		req := validRequest()
		req.Amount = 500
		req.PaymentDate = &paid

		c, err := f.svc.Record(ctx, req)

		require.NoError(t, err)
		assert.True(t, c.Overridden())
		assert.Equal(t, paid, c.PaymentDate)
		assert.Equal(t, "VCH-20260314-1A2B3C4D", c.VoucherID)
	})

	t.Run("deleted exam", func(t *testing.T) {
		f := newFixture(Config{})
		f.withStudentAndExam(&models.Exam{ID: "E1", SchoolID: school, Deleted: true})

		_, err := f.svc.Record(ctx, validRequest())

		assert.ErrorIs(t, err, ErrExamDeleted)
		f.repo.AssertNotCalled(t, "ExecuteInTransaction", mock.Anything)
	})

	t.Run("unknown student", func(t *testing.T) {
		f := newFixture(Config{})
		f.students.On("GetByID", mock.Anything, school, "S1").Return(nil, repositories.ErrStudentNotFound)

		_, err := f.svc.Record(ctx, validRequest())

		assert.ErrorIs(t, err, ErrStudentNotFound)
	})

	t.Run("unknown exam", func(t *testing.T) {
		f := newFixture(Config{})
		f.students.On("GetByID", mock.Anything, school, "S1").Return(&models.Student{ID: "S1"}, nil)
		f.exams.On("GetByID", mock.Anything, school, "E1").Return(nil, repositories.ErrExamNotFound)

		_, err := f.svc.Record(ctx, validRequest())

		assert.ErrorIs(t, err, ErrExamNotFound)
	})
}

func TestService_Record_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
		field   string
	}{
		{"missing amount", func(r *Request) { r.Amount = 0 }, ErrAmountRequired, ""},
		{"negative amount", func(r *Request) { r.Amount = -5 }, ErrAmountRequired, ""},
		{"missing fee", func(r *Request) { r.FeeID = "  " }, ErrFeeRequired, ""},
		{"missing student", func(r *Request) { r.StudentID = "" }, nil, "student_id"},
		{"missing collector", func(r *Request) { r.CollectedBy = "" }, nil, "collected_by"},
		{"negative resolved amount", func(r *Request) { r.ResolvedAmount = -1 }, nil, "resolved_amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Config{})
			req := validRequest()
			tt.mutate(&req)

			_, err := f.svc.Record(context.Background(), req)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			f.students.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_RecordBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("one failure does not affect the others", func(t *testing.T) {
		f := newFixture(Config{AllowDuplicates: true, BatchWorkers: 2})
		f.withStudentAndExam(&models.Exam{ID: "E1", SchoolID: school})
		f.repo.On("ExecuteInTransaction", ctx).Return(nil)
		f.tx.On("CreateTransaction", mock.Anything).Return(nil)
		f.tx.On("CreateCollection", mock.Anything).Return(nil)

		bad := validRequest()
		bad.Amount = 0
		results, err := f.svc.RecordBatch(ctx, []Request{validRequest(), bad, validRequest()})

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.True(t, results[0].Succeeded())
		assert.False(t, results[1].Succeeded())
		assert.Equal(t, "AMOUNT_REQUIRED", results[1].Code)
		assert.Equal(t, 1, results[1].Index)
		assert.True(t, results[2].Succeeded())

		recorded, failed := Summarize(results)
		assert.Equal(t, 2, recorded)
		assert.Equal(t, 1, failed)
	})

	t.Run("second duplicate in the same batch is refused", func(t *testing.T) {
		f := newFixture(Config{BatchWorkers: 1})
		f.withStudentAndExam(&models.Exam{ID: "E1", SchoolID: school})
		f.repo.On("ExecuteInTransaction", ctx).Return(nil)
		f.tx.On("LockCollectionKey", school, "S1", "E1").Return(nil)

		var mu sync.Mutex
		paid := false
		f.tx.On("HasPaidCollection", school, "S1", "E1").Return(false, nil).Once()
		f.tx.On("HasPaidCollection", school, "S1", "E1").Return(true, nil)
		f.tx.On("CreateTransaction", mock.Anything).Return(nil)
		f.tx.On("CreateCollection", mock.Anything).
			Run(func(mock.Arguments) { mu.Lock(); paid = true; mu.Unlock() }).
			Return(nil)

		results, err := f.svc.RecordBatch(ctx, []Request{validRequest(), validRequest()})

		require.NoError(t, err)
		assert.True(t, paid)
		recorded, failed := Summarize(results)
		assert.Equal(t, 1, recorded)
		assert.Equal(t, 1, failed)
		assert.Equal(t, "DUPLICATE_COLLECTION", results[1].Code)
	})

	t.Run("empty batch", func(t *testing.T) {
		f := newFixture(Config{})
		_, err := f.svc.RecordBatch(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("too many items", func(t *testing.T) {
		f := newFixture(Config{BatchMaxItems: 2})
		_, err := f.svc.RecordBatch(ctx, []Request{validRequest(), validRequest(), validRequest()})
		assert.ErrorIs(t, err, ErrBatchTooLarge)
	})
}

func TestService_GetByVoucher(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := newFixture(Config{})
		want := &models.FeeCollection{VoucherID: "VCH-20260314-1A2B3C4D"}
		f.repo.On("GetByVoucher", ctx, school, want.VoucherID).Return(want, nil)

		got, err := f.svc.GetByVoucher(ctx, school, want.VoucherID)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(Config{})
		f.repo.On("GetByVoucher", ctx, school, "VCH-20260314-FFFFFFFF").Return(nil, repositories.ErrCollectionNotFound)

		_, err := f.svc.GetByVoucher(ctx, school, "VCH-20260314-FFFFFFFF")

		assert.ErrorIs(t, err, ErrCollectionNotFound)
	})

	t.Run("malformed voucher never reaches the repository", func(t *testing.T) {
		f := newFixture(Config{})
		_, err := f.svc.GetByVoucher(ctx, school, "1; DROP TABLE")
		assert.ErrorIs(t, err, ErrCollectionNotFound)
		f.repo.AssertNotCalled(t, "GetByVoucher", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(Config{})
	filter := repositories.CollectionFilter{StudentID: "S1"}
	f.repo.On("List", ctx, school, filter, 0, MaxPageSize).
		Return([]models.FeeCollection{{VoucherID: "VCH-20260314-1A2B3C4D"}}, int64(1), nil)

	items, total, err := f.svc.List(ctx, school, filter, -3, 10000)

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
}

func TestVoucherID(t *testing.T) {
	id := NewVoucherID(fixedNow, uuid.New())
	assert.True(t, IsVoucherID(id))
	assert.Len(t, id, len("VCH-20260314-")+8)

	for _, bad := range []string{"", "VCH-2026-1A2B3C4D", "ABC-20260314-1A2B3C4D", "VCH-20260314-1a2b3c4d", "VCH-20260314-1A2B"} {
		assert.False(t, IsVoucherID(bad), bad)
	}
}
