package feesource

import (
	"context"
	"errors"
	"testing"
	"time"

	"feedesk/internal/models"
	"feedesk/internal/repositories"
	"feedesk/internal/services/fee"
	cachekeys "feedesk/internal/utils/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct {
	mock.Mock
}

type MockCache struct {
	mock.Mock
}

func (m *MockRepo) GetExamSpecific(ctx context.Context, schoolID string) (*models.ExamSpecificFees, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSpecificFees), args.Error(1)
}

func (m *MockRepo) GetByType(ctx context.Context, schoolID string) (*models.ExamFeesByType, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamFeesByType), args.Error(1)
}

func (m *MockRepo) GetClassWise(ctx context.Context, schoolID string) (*models.ClassWiseFees, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClassWiseFees), args.Error(1)
}

func (m *MockRepo) SaveExamSpecific(ctx context.Context, schoolID string, doc *models.ExamSpecificFees, updatedBy string) error {
	return m.Called(ctx, schoolID, doc, updatedBy).Error(0)
}

func (m *MockRepo) SaveByType(ctx context.Context, schoolID string, doc *models.ExamFeesByType, updatedBy string) error {
	return m.Called(ctx, schoolID, doc, updatedBy).Error(0)
}

func (m *MockRepo) SaveClassWise(ctx context.Context, schoolID string, doc *models.ClassWiseFees, updatedBy string) error {
	return m.Called(ctx, schoolID, doc, updatedBy).Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	if fill, ok := args.Get(2).(func(interface{})); ok && fill != nil {
		fill(dest)
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) DeletePattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

const school = "school-1"

var key = cachekeys.FeeSourcesKey(school)

func byTypeDoc() *models.ExamFeesByType {
	return &models.ExamFeesByType{Types: map[string]map[string]interface{}{
		"annual": {"ষষ্ঠ": 2200},
	}}
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss loads and caches complete snapshot", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		cache.On("Get", ctx, key, mock.Anything).Return(false, nil, nil)
		repo.On("GetExamSpecific", mock.Anything, school).Return(nil, repositories.ErrFeeSourceNotFound)
		repo.On("GetByType", mock.Anything, school).Return(byTypeDoc(), nil)
		repo.On("GetClassWise", mock.Anything, school).Return(&models.ClassWiseFees{ExamFees: map[string]interface{}{"1": 150}}, nil)
		cache.On("SetWithTTL", ctx, key, mock.AnythingOfType("*feesource.Snapshot"), DefaultCacheTTL).Return(nil)

		svc := NewService(repo, cache, Config{}, nil)
		snap, err := svc.Load(ctx, school)

		require.NoError(t, err)
		assert.False(t, snap.Partial)
		assert.Empty(t, snap.Warnings)
		assert.Nil(t, snap.ExamSpecific)

		res := fee.NewResolver(fee.DefaultOptions()).Resolve(snap.Sources(), fee.Query{
			Exam:    &models.Exam{ID: "E1", ExamType: "annual"},
			Student: &models.Student{ID: "S1", Class: "ষষ্ঠ"},
		})
		assert.Equal(t, int64(2200), res.Amount)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		fill := func(dest interface{}) {
			snap := dest.(*Snapshot)
			snap.SchoolID = school
			snap.ByType = byTypeDoc()
		}
		cache.On("Get", ctx, key, mock.Anything).Return(true, nil, fill)

		svc := NewService(repo, cache, Config{}, nil)
		snap, err := svc.Load(ctx, school)

		require.NoError(t, err)
		assert.Equal(t, school, snap.SchoolID)
		assert.False(t, snap.Sources().Empty())
		repo.AssertNotCalled(t, "GetByType", mock.Anything, mock.Anything)
		cache.AssertNotCalled(t, "SetWithTTL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed source is reported and snapshot not cached", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		cache.On("Get", ctx, key, mock.Anything).Return(false, nil, nil)
		repo.On("GetExamSpecific", mock.Anything, school).Return(nil, errors.New("connection reset"))
		repo.On("GetByType", mock.Anything, school).Return(byTypeDoc(), nil)
		repo.On("GetClassWise", mock.Anything, school).Return(nil, repositories.ErrFeeSourceNotFound)

		svc := NewService(repo, cache, Config{}, nil)
		snap, err := svc.Load(ctx, school)

		require.NoError(t, err)
		assert.True(t, snap.Partial)
		assert.Equal(t, []string{"exam_specific fees could not be loaded"}, snap.Warnings)
		assert.NotNil(t, snap.ByType)
		cache.AssertNotCalled(t, "SetWithTTL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache read error falls back to repository", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		cache.On("Get", ctx, key, mock.Anything).Return(false, errors.New("redis down"), nil)
		repo.On("GetExamSpecific", mock.Anything, school).Return(nil, repositories.ErrFeeSourceNotFound)
		repo.On("GetByType", mock.Anything, school).Return(nil, repositories.ErrFeeSourceNotFound)
		repo.On("GetClassWise", mock.Anything, school).Return(nil, repositories.ErrFeeSourceNotFound)
		cache.On("SetWithTTL", ctx, key, mock.Anything, DefaultCacheTTL).Return(errors.New("redis down"))

		svc := NewService(repo, cache, Config{}, nil)
		snap, err := svc.Load(ctx, school)

		require.NoError(t, err)
		assert.False(t, snap.Partial)
		assert.True(t, snap.Sources().Empty())
	})

	t.Run("empty school id", func(t *testing.T) {
		svc := NewService(new(MockRepo), new(MockCache), Config{}, nil)
		_, err := svc.Load(ctx, " ")
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("save invalidates cache", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		doc := &models.ClassWiseFees{ExamFees: map[string]interface{}{"1": 150, "2": "175"}}
		repo.On("SaveClassWise", ctx, school, doc, "admin@school.test").Return(nil)
		cache.On("Delete", ctx, []string{key}).Return(nil)

		svc := NewService(repo, cache, Config{}, nil)
		require.NoError(t, svc.SaveClassWise(ctx, school, doc, "admin@school.test"))

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("invalidation failure does not fail the save", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		doc := byTypeDoc()
		repo.On("SaveByType", ctx, school, doc, "u").Return(nil)
		cache.On("Delete", ctx, []string{key}).Return(errors.New("redis down"))

		svc := NewService(repo, cache, Config{}, nil)
		assert.NoError(t, svc.SaveByType(ctx, school, doc, "u"))
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		doc := &models.ExamSpecificFees{Fees: map[string]map[string]interface{}{"E1": {"1": 300}}}
		repo.On("SaveExamSpecific", ctx, school, doc, "u").Return(errors.New("db down"))

		svc := NewService(repo, cache, Config{}, nil)
		err := svc.SaveExamSpecific(ctx, school, doc, "u")
		assert.Error(t, err)
		cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("rejects nested values", func(t *testing.T) {
		svc := NewService(new(MockRepo), new(MockCache), Config{}, nil)
		doc := &models.ClassWiseFees{ExamFees: map[string]interface{}{"1": map[string]interface{}{"x": 1}}}
		assert.ErrorIs(t, svc.SaveClassWise(ctx, school, doc, "u"), ErrInvalidDocument)
	})

	t.Run("rejects empty class", func(t *testing.T) {
		svc := NewService(new(MockRepo), new(MockCache), Config{}, nil)
		doc := &models.ExamSpecificFees{Fees: map[string]map[string]interface{}{"E1": {" ": 300}}}
		assert.ErrorIs(t, svc.SaveExamSpecific(ctx, school, doc, "u"), ErrInvalidDocument)
	})

	t.Run("nil document", func(t *testing.T) {
		svc := NewService(new(MockRepo), new(MockCache), Config{}, nil)
		assert.ErrorIs(t, svc.SaveByType(ctx, school, nil, "u"), ErrInvalidDocument)
	})
}

func TestService_InvalidateAll(t *testing.T) {
	ctx := context.Background()
	cache := new(MockCache)
	cache.On("DeletePattern", ctx, cachekeys.FeeSourcesPattern()).Return(nil)

	svc := NewService(new(MockRepo), cache, Config{}, nil)
	assert.NoError(t, svc.InvalidateAll(ctx))
	cache.AssertExpectations(t)
}
