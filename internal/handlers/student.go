package handlers

import (
	"strings"

	"feedesk/internal/models"
	"feedesk/internal/repositories"
	"feedesk/internal/utils"
	"feedesk/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StudentHandler struct {
	students repositories.StudentRepository
}

func NewStudentHandler(students repositories.StudentRepository) *StudentHandler {
	return &StudentHandler{students: students}
}

func (h *StudentHandler) List(c *fiber.Ctx) error {
	page := utils.GetPagination(c, 1, 50)
	students, total, err := h.students.List(c.UserContext(), c.Params("schoolId"), c.Query("class"), page.Offset, page.Limit)
	if err != nil {
		return utils.InternalError(c, "Failed to list students")
	}
	page.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(students, page))
}

func (h *StudentHandler) Create(c *fiber.Ctx) error {
	var input struct {
		ID            string `json:"id" validate:"max=64"`
		Name          string `json:"name" validate:"required,max=255"`
		Class         string `json:"class" validate:"max=64"`
		Roll          string `json:"roll" validate:"max=32"`
		GuardianPhone string `json:"guardian_phone" validate:"max=32"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return utils.Error(c, err, "Invalid request body")
	}

	student := &models.Student{
		ID:            strings.TrimSpace(input.ID),
		SchoolID:      c.Params("schoolId"),
		Name:          strings.TrimSpace(input.Name),
		Class:         strings.TrimSpace(input.Class),
		Roll:          input.Roll,
		GuardianPhone: input.GuardianPhone,
		Status:        models.StudentStatusActive,
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}

	if err := h.students.Create(c.UserContext(), student); err != nil {
		return utils.InternalError(c, "Failed to create student")
	}
	return utils.Created(c, fiber.Map{"student": student})
}
