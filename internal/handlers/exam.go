package handlers

import (
	"errors"
	"strings"
	"time"

	apperrors "feedesk/internal/errors"
	"feedesk/internal/models"
	"feedesk/internal/repositories"
	"feedesk/internal/utils"
	"feedesk/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ExamHandler struct {
	exams repositories.ExamRepository
}

func NewExamHandler(exams repositories.ExamRepository) *ExamHandler {
	return &ExamHandler{exams: exams}
}

// List returns the exams of the school; deleted exams are left out.
func (h *ExamHandler) List(c *fiber.Ctx) error {
	page := utils.GetPagination(c, 1, 50)
	exams, total, err := h.exams.List(c.UserContext(), c.Params("schoolId"), page.Offset, page.Limit)
	if err != nil {
		return utils.InternalError(c, "Failed to list exams")
	}
	page.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(exams, page))
}

func (h *ExamHandler) Get(c *fiber.Ctx) error {
	exam, err := h.exams.GetByID(c.UserContext(), c.Params("schoolId"), c.Params("examId"))
	if err != nil {
		if errors.Is(err, repositories.ErrExamNotFound) {
			return utils.Error(c, apperrors.ErrExamNotFound, "")
		}
		return utils.InternalError(c, "Failed to get exam")
	}
	return utils.Success(c, fiber.Map{"exam": exam})
}

func (h *ExamHandler) Create(c *fiber.Ctx) error {
	var input struct {
		ID        string                 `json:"id" validate:"max=64"`
		Name      string                 `json:"name" validate:"required,max=255"`
		ExamType  string                 `json:"exam_type" validate:"max=64"`
		Class     string                 `json:"class" validate:"max=64"`
		Fees      map[string]interface{} `json:"fees"`
		StartDate *time.Time             `json:"start_date"`
		EndDate   *time.Time             `json:"end_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return utils.Error(c, err, "Invalid request body")
	}

	exam := &models.Exam{
		ID:        strings.TrimSpace(input.ID),
		SchoolID:  c.Params("schoolId"),
		Name:      strings.TrimSpace(input.Name),
		ExamType:  strings.TrimSpace(input.ExamType),
		ClassName: strings.TrimSpace(input.Class),
		Status:    models.ExamStatusScheduled,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if len(input.Fees) > 0 {
		exam.Fees = datatypes.JSONMap(input.Fees)
	}
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}

	if err := h.exams.Create(c.UserContext(), exam); err != nil {
		return utils.InternalError(c, "Failed to create exam")
	}
	return utils.Created(c, fiber.Map{"exam": exam})
}

// Delete soft-deletes an exam. Collections already recorded against it are kept.
func (h *ExamHandler) Delete(c *fiber.Ctx) error {
	err := h.exams.SoftDelete(c.UserContext(), c.Params("schoolId"), c.Params("examId"))
	if err != nil {
		if errors.Is(err, repositories.ErrExamNotFound) {
			return utils.Error(c, apperrors.ErrExamNotFound, "")
		}
		return utils.InternalError(c, "Failed to delete exam")
	}
	return utils.Success(c, fiber.Map{"message": "Exam deleted"})
}
