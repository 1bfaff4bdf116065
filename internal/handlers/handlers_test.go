package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feedesk/internal/models"
	"feedesk/internal/repositories"
	"feedesk/internal/services/collection"
	"feedesk/internal/services/fee"
	"feedesk/internal/services/feesource"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const school = "school-1"

type stubSources struct {
	snap  *feesource.Snapshot
	saved map[models.FeeSourceKind]interface{}
}

func (s *stubSources) Load(context.Context, string) (*feesource.Snapshot, error) {
	return s.snap, nil
}
func (s *stubSources) Invalidate(context.Context, string) error { return nil }
func (s *stubSources) InvalidateAll(context.Context) error      { return nil }
func (s *stubSources) SaveExamSpecific(_ context.Context, _ string, doc *models.ExamSpecificFees, _ string) error {
	s.saved[models.FeeSourceExamSpecific] = doc
	return nil
}
func (s *stubSources) SaveByType(_ context.Context, _ string, doc *models.ExamFeesByType, _ string) error {
	s.saved[models.FeeSourceByType] = doc
	return nil
}
func (s *stubSources) SaveClassWise(_ context.Context, _ string, doc *models.ClassWiseFees, _ string) error {
	s.saved[models.FeeSourceClassWise] = doc
	return nil
}

type memStudents struct {
	students []models.Student
}

func (m *memStudents) Create(_ context.Context, s *models.Student) error {
	m.students = append(m.students, *s)
	return nil
}
func (m *memStudents) GetByID(_ context.Context, schoolID, id string) (*models.Student, error) {
	for i := range m.students {
		if m.students[i].SchoolID == schoolID && m.students[i].ID == id {
			return &m.students[i], nil
		}
	}
	return nil, repositories.ErrStudentNotFound
}
func (m *memStudents) List(_ context.Context, _, _ string, _, _ int) ([]models.Student, int64, error) {
	return m.students, int64(len(m.students)), nil
}
func (m *memStudents) ListActive(_ context.Context, _ string) ([]models.Student, error) {
	return m.students, nil
}

type memExams struct {
	exams map[string]*models.Exam
}

func (m *memExams) Create(_ context.Context, e *models.Exam) error {
	m.exams[e.ID] = e
	return nil
}
func (m *memExams) GetByID(_ context.Context, _, id string) (*models.Exam, error) {
	if e, ok := m.exams[id]; ok {
		return e, nil
	}
	return nil, repositories.ErrExamNotFound
}
func (m *memExams) List(_ context.Context, _ string, _, _ int) ([]models.Exam, int64, error) {
	return nil, 0, nil
}
func (m *memExams) SoftDelete(_ context.Context, _, id string) error {
	e, ok := m.exams[id]
	if !ok {
		return repositories.ErrExamNotFound
	}
	e.Deleted = true
	return nil
}

type MockCollections struct {
	mock.Mock
}

func (m *MockCollections) Record(ctx context.Context, req collection.Request) (*models.FeeCollection, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeCollection), args.Error(1)
}

func (m *MockCollections) RecordBatch(ctx context.Context, reqs []collection.Request) ([]collection.BatchResult, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]collection.BatchResult), args.Error(1)
}

func (m *MockCollections) List(ctx context.Context, schoolID string, filter repositories.CollectionFilter, offset, limit int) ([]models.FeeCollection, int64, error) {
	args := m.Called(ctx, schoolID, filter, offset, limit)
	return args.Get(0).([]models.FeeCollection), args.Get(1).(int64), args.Error(2)
}

func (m *MockCollections) GetByVoucher(ctx context.Context, schoolID, voucherID string) (*models.FeeCollection, error) {
	args := m.Called(ctx, schoolID, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeCollection), args.Error(1)
}

type testEnv struct {
	app         *fiber.App
	sources     *stubSources
	collections *MockCollections
	exams       *memExams
}

func newTestEnv() *testEnv {
	env := &testEnv{
		sources: &stubSources{
			snap: &feesource.Snapshot{
				SchoolID: school,
				ByType: &models.ExamFeesByType{Types: map[string]map[string]interface{}{
					"annual": {"ষষ্ঠ": 2200},
				}},
				ClassWise: &models.ClassWiseFees{ExamFees: map[string]interface{}{"সপ্তম": "1,100"}},
			},
			saved: map[models.FeeSourceKind]interface{}{},
		},
		collections: new(MockCollections),
		exams: &memExams{exams: map[string]*models.Exam{
			"E1":   {ID: "E1", SchoolID: school, Name: "Annual", ExamType: "annual", ClassName: "6"},
			"GONE": {ID: "GONE", SchoolID: school, Name: "Old", Deleted: true},
		}},
	}
	students := &memStudents{students: []models.Student{
		{ID: "S1", SchoolID: school, Name: "Rahim", Class: "ষষ্ঠ"},
		{ID: "S2", SchoolID: school, Name: "Karim", Class: "Class 6"},
		{ID: "S3", SchoolID: school, Name: "Nila", Class: "সপ্তম"},
	}}

	resolver := fee.NewResolver(fee.DefaultOptions())
	feeHandler := NewFeeHandler(env.sources, resolver, students, env.exams, nil)
	sourceHandler := NewFeeSourceHandler(env.sources)
	collectionHandler := NewCollectionHandler(env.collections)

	app := fiber.New()
	api := app.Group("/api/schools/:schoolId", func(c *fiber.Ctx) error {
		c.Locals("claims", &models.UserClaims{UserID: 1, Email: "acc@school.test", SchoolID: school, Role: models.RoleAccountant})
		return c.Next()
	})
	api.Get("/fees/resolve", feeHandler.Resolve)
	api.Get("/fees/explain", feeHandler.Explain)
	api.Get("/exams/:examId/fees", feeHandler.ExamFees)
	api.Get("/fee-sources/:kind", sourceHandler.Get)
	api.Put("/fee-sources/:kind", sourceHandler.Put)
	api.Post("/collections", collectionHandler.Create)
	api.Post("/collections/batch", collectionHandler.Batch)
	api.Get("/collections", collectionHandler.List)
	api.Get("/collections/:voucherId/receipt.png", collectionHandler.Receipt)
	api.Get("/collections/:voucherId", collectionHandler.Get)
	env.app = app
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.app.Test(req)
	require.NoError(t, err)

	out := map[string]interface{}{}
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestFeeHandler_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		status   int
		amount   float64
		step     string
		wantCode string
	}{
		{"annual management fee", "student_id=S1&exam_id=E1", 200, 2200, "management", ""},
		{"alias class", "student_id=S2&exam_id=E1", 200, 2200, "management", ""},
		{"class wise string amount", "student_id=S3", 200, 1100, "class_wise", ""},
		{"type only miss", "student_id=S1&exam_type=monthly", 200, 0, "none", ""},
		{"no student", "exam_id=E1", 200, 0, "none", ""},
		{"unknown student", "student_id=NOPE", 404, 0, "", "STUDENT_NOT_FOUND"},
		{"unknown exam", "student_id=S1&exam_id=NOPE", 404, 0, "", "EXAM_NOT_FOUND"},
		{"deleted exam", "student_id=S1&exam_id=GONE", 409, 0, "", "EXAM_DELETED"},
	}

	env := newTestEnv()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodGet, "/api/schools/"+school+"/fees/resolve?"+tt.query, nil)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
				return
			}
			res := body["resolution"].(map[string]interface{})
			assert.Equal(t, tt.amount, res["amount"])
			assert.Equal(t, tt.step, res["step"])
			assert.Equal(t, false, body["partial"])
		})
	}
}

func TestFeeHandler_Explain(t *testing.T) {
	env := newTestEnv()
	resp, body := env.do(t, http.MethodGet, "/api/schools/"+school+"/fees/explain?student_id=S3&exam_id=E1", nil)

	require.Equal(t, 200, resp.StatusCode)
	exp := body["explanation"].(map[string]interface{})
	assert.Equal(t, float64(1100), exp["amount"])
	attempts := exp["attempts"].([]interface{})
	require.NotEmpty(t, attempts)
	last := attempts[len(attempts)-1].(map[string]interface{})
	assert.Equal(t, "class_wise", last["step"])
	assert.Equal(t, true, last["found"])
}

func TestFeeHandler_ExamFees(t *testing.T) {
	env := newTestEnv()
	resp, body := env.do(t, http.MethodGet, "/api/schools/"+school+"/exams/E1/fees", nil)

	require.Equal(t, 200, resp.StatusCode)
	// S3 is in another class
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(4400), body["total"])
}

func TestFeeSourceHandler(t *testing.T) {
	env := newTestEnv()

	resp, body := env.do(t, http.MethodGet, "/api/schools/"+school+"/fee-sources/exam-specific", nil)
	require.Equal(t, 200, resp.StatusCode)
	doc := body["document"].(map[string]interface{})
	assert.Empty(t, doc["fees"])

	resp, _ = env.do(t, http.MethodPut, "/api/schools/"+school+"/fee-sources/class-wise",
		map[string]interface{}{"exam_fees": map[string]interface{}{"প্রথম": 400}})
	require.Equal(t, 200, resp.StatusCode)
	saved := env.sources.saved[models.FeeSourceClassWise].(*models.ClassWiseFees)
	assert.Equal(t, float64(400), saved.ExamFees["প্রথম"])

	resp, body = env.do(t, http.MethodGet, "/api/schools/"+school+"/fee-sources/monthly", nil)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_FEE_SOURCE", body["code"])
}

func TestCollectionHandler_Create(t *testing.T) {
	env := newTestEnv()
	paid := &models.FeeCollection{VoucherID: "VCH-20260314-1A2B3C4D", SchoolID: school, StudentID: "S1", FeeID: "E1", Amount: 2200}
	env.collections.On("Record", mock.Anything, mock.MatchedBy(func(r collection.Request) bool {
		return r.SchoolID == school && r.CollectedBy == "acc@school.test" && r.Amount == 2200
	})).Return(paid, nil)

	resp, body := env.do(t, http.MethodPost, "/api/schools/"+school+"/collections",
		map[string]interface{}{"student_id": "S1", "fee_id": "E1", "amount": 2200, "school_id": "other"})

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, paid.VoucherID, body["voucher_id"])
	env.collections.AssertExpectations(t)
}

func TestCollectionHandler_Duplicate(t *testing.T) {
	env := newTestEnv()
	env.collections.On("Record", mock.Anything, mock.Anything).Return(nil, collection.ErrDuplicateCollection)

	resp, body := env.do(t, http.MethodPost, "/api/schools/"+school+"/collections",
		map[string]interface{}{"student_id": "S1", "fee_id": "E1", "amount": 2200})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_COLLECTION", body["code"])
}

func TestCollectionHandler_Batch(t *testing.T) {
	env := newTestEnv()
	env.collections.On("RecordBatch", mock.Anything, mock.MatchedBy(func(reqs []collection.Request) bool {
		return len(reqs) == 2 && reqs[0].SchoolID == school && reqs[1].CollectedBy == "acc@school.test"
	})).Return([]collection.BatchResult{
		{Index: 0, StudentID: "S1", Collection: &models.FeeCollection{VoucherID: "VCH-20260314-1A2B3C4D"}},
		{Index: 1, StudentID: "S2", Error: "fee already collected for this student", Code: "DUPLICATE_COLLECTION"},
	}, nil)

	resp, body := env.do(t, http.MethodPost, "/api/schools/"+school+"/collections/batch", map[string]interface{}{
		"items": []map[string]interface{}{
			{"student_id": "S1", "fee_id": "E1", "amount": 2200},
			{"student_id": "S2", "fee_id": "E1", "amount": 2200},
		},
	})

	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(1), body["recorded"])
	assert.Equal(t, float64(1), body["failed"])
}

func TestCollectionHandler_List(t *testing.T) {
	env := newTestEnv()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	env.collections.On("List", mock.Anything, school,
		repositories.CollectionFilter{StudentID: "S1", From: &from, To: &to}, 0, 50).
		Return([]models.FeeCollection{{VoucherID: "VCH-20260314-1A2B3C4D"}}, int64(1), nil)

	resp, body := env.do(t, http.MethodGet, "/api/schools/"+school+"/collections?student_id=S1&from=2026-03-01&to=2026-03-31", nil)

	require.Equal(t, 200, resp.StatusCode)
	assert.Len(t, body["data"], 1)

	resp, _ = env.do(t, http.MethodGet, "/api/schools/"+school+"/collections?from=03/01/2026", nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCollectionHandler_Receipt(t *testing.T) {
	env := newTestEnv()
	rec := &models.FeeCollection{
		VoucherID:   "VCH-20260314-1A2B3C4D",
		SchoolID:    school,
		StudentID:   "S1",
		FeeID:       "E1",
		Amount:      2200,
		PaymentDate: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	env.collections.On("GetByVoucher", mock.Anything, school, rec.VoucherID).Return(rec, nil)
	env.collections.On("GetByVoucher", mock.Anything, school, "VCH-20260314-FFFFFFFF").Return(nil, collection.ErrCollectionNotFound)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/schools/"+school+"/collections/"+rec.VoucherID+"/receipt.png", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	png, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	assert.Equal(t, "VCH-20260314-1A2B3C4D|school-1|S1|E1|2200|2026-03-14", ReceiptPayload(rec))

	resp, body := env.do(t, http.MethodGet, "/api/schools/"+school+"/collections/VCH-20260314-FFFFFFFF", nil)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "COLLECTION_NOT_FOUND", body["code"])
}
