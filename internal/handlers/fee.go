package handlers

import (
	"context"
	"errors"

	apperrors "feedesk/internal/errors"
	"feedesk/internal/models"
	"feedesk/internal/repositories"
	"feedesk/internal/services/fee"
	"feedesk/internal/services/feesource"
	"feedesk/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ResolutionRecorder counts resolutions by the step that produced them.
type ResolutionRecorder interface {
	RecordResolution(step string)
}

type FeeHandler struct {
	sources  feesource.Service
	resolver *fee.Resolver
	students repositories.StudentRepository
	exams    repositories.ExamRepository
	metrics  ResolutionRecorder
}

func NewFeeHandler(
	sources feesource.Service,
	resolver *fee.Resolver,
	students repositories.StudentRepository,
	exams repositories.ExamRepository,
	metrics ResolutionRecorder,
) *FeeHandler {
	return &FeeHandler{
		sources:  sources,
		resolver: resolver,
		students: students,
		exams:    exams,
		metrics:  metrics,
	}
}

// Resolve returns the proposed fee of one student.
//
//	GET /api/schools/:schoolId/fees/resolve?student_id=&exam_id=&exam_type=
func (h *FeeHandler) Resolve(c *fiber.Ctx) error {
	q, snap, err := h.query(c)
	if err != nil {
		return utils.Error(c, err, "Failed to resolve fee")
	}

	res := h.resolver.Resolve(snap.Sources(), q)
	h.record(res)

	return utils.Success(c, fiber.Map{
		"resolution": res,
		"partial":    snap.Partial,
		"warnings":   snap.Warnings,
	})
}

// Explain returns the resolution together with every step consulted.
func (h *FeeHandler) Explain(c *fiber.Ctx) error {
	q, snap, err := h.query(c)
	if err != nil {
		return utils.Error(c, err, "Failed to resolve fee")
	}

	exp := h.resolver.Explain(snap.Sources(), q)

	return utils.Success(c, fiber.Map{
		"explanation": exp,
		"steps":       h.resolver.Steps(exp.Path),
		"partial":     snap.Partial,
		"warnings":    snap.Warnings,
	})
}

// ExamFees resolves the exam for every active student of the exam's class, or of the
// whole school when the exam is not tied to a class.
//
//	GET /api/schools/:schoolId/exams/:examId/fees
func (h *FeeHandler) ExamFees(c *fiber.Ctx) error {
	ctx := c.UserContext()
	schoolID := c.Params("schoolId")

	exam, err := h.exam(ctx, schoolID, c.Params("examId"))
	if err != nil {
		return utils.Error(c, err, "Failed to get exam")
	}

	all, err := h.students.ListActive(ctx, schoolID)
	if err != nil {
		return utils.InternalError(c, "Failed to list students")
	}
	students := all
	if exam.ClassName != "" {
		students = make([]models.Student, 0, len(all))
		for _, s := range all {
			if fee.SameClass(s.Class, exam.ClassName) {
				students = append(students, s)
			}
		}
	}

	snap, err := h.sources.Load(ctx, schoolID)
	if err != nil {
		return utils.Error(c, err, "Failed to load fee sources")
	}

	fees := h.resolver.ResolveBatch(snap.Sources(), exam, c.Query("exam_type"), students)
	var total int64
	for _, res := range fees {
		h.record(res)
		total += res.Amount
	}

	return utils.Success(c, fiber.Map{
		"exam":     exam,
		"fees":     fees,
		"count":    len(fees),
		"total":    total,
		"partial":  snap.Partial,
		"warnings": snap.Warnings,
	})
}

func (h *FeeHandler) query(c *fiber.Ctx) (fee.Query, *feesource.Snapshot, error) {
	ctx := c.UserContext()
	schoolID := c.Params("schoolId")
	q := fee.Query{ExamType: c.Query("exam_type")}

	if id := c.Query("student_id"); id != "" {
		student, err := h.students.GetByID(ctx, schoolID, id)
		if err != nil {
			if errors.Is(err, repositories.ErrStudentNotFound) {
				return q, nil, apperrors.ErrStudentNotFound
			}
			return q, nil, err
		}
		q.Student = student
	}

	if id := c.Query("exam_id"); id != "" {
		exam, err := h.exam(ctx, schoolID, id)
		if err != nil {
			return q, nil, err
		}
		q.Exam = exam
	}

	snap, err := h.sources.Load(ctx, schoolID)
	if err != nil {
		return q, nil, err
	}
	return q, snap, nil
}

func (h *FeeHandler) exam(ctx context.Context, schoolID, id string) (*models.Exam, error) {
	exam, err := h.exams.GetByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrExamNotFound) {
			return nil, apperrors.ErrExamNotFound
		}
		return nil, err
	}
	if exam.IsDeleted() {
		return nil, apperrors.ErrExamDeleted
	}
	return exam, nil
}

func (h *FeeHandler) record(res fee.Resolution) {
	if h.metrics != nil {
		h.metrics.RecordResolution(string(res.Step))
	}
}
