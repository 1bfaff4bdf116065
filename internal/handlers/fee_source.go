package handlers

import (
	apperrors "feedesk/internal/errors"
	"feedesk/internal/models"
	"feedesk/internal/services/feesource"
	"feedesk/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// feeSourceKinds maps the :kind route segment to the stored source.
var feeSourceKinds = map[string]models.FeeSourceKind{
	"exam-specific": models.FeeSourceExamSpecific,
	"by-type":       models.FeeSourceByType,
	"class-wise":    models.FeeSourceClassWise,
}

type FeeSourceHandler struct {
	sources feesource.Service
}

func NewFeeSourceHandler(sources feesource.Service) *FeeSourceHandler {
	return &FeeSourceHandler{sources: sources}
}

// Get returns one fee source document of the school.
func (h *FeeSourceHandler) Get(c *fiber.Ctx) error {
	kind, ok := feeSourceKinds[c.Params("kind")]
	if !ok {
		return utils.Error(c, apperrors.ErrUnknownFeeSource, "")
	}

	snap, err := h.sources.Load(c.UserContext(), c.Params("schoolId"))
	if err != nil {
		return utils.Error(c, err, "Failed to load fee sources")
	}

	var doc interface{}
	switch kind {
	case models.FeeSourceExamSpecific:
		doc = snap.ExamSpecific
		if snap.ExamSpecific == nil {
			doc = models.ExamSpecificFees{Fees: map[string]map[string]interface{}{}}
		}
	case models.FeeSourceByType:
		doc = snap.ByType
		if snap.ByType == nil {
			doc = models.ExamFeesByType{Types: map[string]map[string]interface{}{}}
		}
	case models.FeeSourceClassWise:
		doc = snap.ClassWise
		if snap.ClassWise == nil {
			doc = models.ClassWiseFees{ExamFees: map[string]interface{}{}}
		}
	}

	return utils.Success(c, fiber.Map{
		"kind":      kind,
		"document":  doc,
		"partial":   snap.Partial,
		"warnings":  snap.Warnings,
		"loaded_at": snap.LoadedAt,
	})
}

// Put replaces one fee source document of the school.
func (h *FeeSourceHandler) Put(c *fiber.Ctx) error {
	kind, ok := feeSourceKinds[c.Params("kind")]
	if !ok {
		return utils.Error(c, apperrors.ErrUnknownFeeSource, "")
	}
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	ctx := c.UserContext()
	schoolID := c.Params("schoolId")

	switch kind {
	case models.FeeSourceExamSpecific:
		var doc models.ExamSpecificFees
		if err := c.BodyParser(&doc); err != nil {
			return utils.BadRequest(c, "Invalid request body")
		}
		err = h.sources.SaveExamSpecific(ctx, schoolID, &doc, claims.Email)
	case models.FeeSourceByType:
		var doc models.ExamFeesByType
		if err := c.BodyParser(&doc); err != nil {
			return utils.BadRequest(c, "Invalid request body")
		}
		err = h.sources.SaveByType(ctx, schoolID, &doc, claims.Email)
	case models.FeeSourceClassWise:
		var doc models.ClassWiseFees
		if err := c.BodyParser(&doc); err != nil {
			return utils.BadRequest(c, "Invalid request body")
		}
		err = h.sources.SaveClassWise(ctx, schoolID, &doc, claims.Email)
	}
	if err != nil {
		return utils.Error(c, err, "Failed to save fee source")
	}

	return utils.Success(c, fiber.Map{
		"message": "Fee source saved",
		"kind":    kind,
	})
}
