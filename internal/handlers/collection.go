package handlers

import (
	"fmt"
	"time"

	"feedesk/internal/models"
	"feedesk/internal/repositories"
	"feedesk/internal/services/collection"
	"feedesk/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/skip2/go-qrcode"
)

const (
	receiptSize    = 256
	maxReceiptSize = 1024
	minReceiptSize = 128
)

type CollectionHandler struct {
	collections collection.Service
}

func NewCollectionHandler(collections collection.Service) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

// Create records one fee payment for the school in the route.
func (h *CollectionHandler) Create(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var req collection.Request
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	scope(&req, c.Params("schoolId"), claims)

	rec, err := h.collections.Record(c.UserContext(), req)
	if err != nil {
		return utils.Error(c, err, "Failed to record collection")
	}

	return utils.Created(c, fiber.Map{
		"collection": rec,
		"voucher_id": rec.VoucherID,
	})
}

// Batch records several payments; every item reports its own outcome.
func (h *CollectionHandler) Batch(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Items []collection.Request `json:"items"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	for i := range input.Items {
		scope(&input.Items[i], c.Params("schoolId"), claims)
	}

	results, err := h.collections.RecordBatch(c.UserContext(), input.Items)
	if err != nil {
		return utils.Error(c, err, "Failed to record collections")
	}

	recorded, failed := collection.Summarize(results)
	return utils.Success(c, fiber.Map{
		"results":  results,
		"recorded": recorded,
		"failed":   failed,
	})
}

// List returns the collection history of the school, newest first.
//
//	GET /api/schools/:schoolId/collections?student_id=&fee_id=&from=2006-01-02&to=2006-01-02
func (h *CollectionHandler) List(c *fiber.Ctx) error {
	filter := repositories.CollectionFilter{
		StudentID: c.Query("student_id"),
		FeeID:     c.Query("fee_id"),
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return utils.BadRequest(c, "from must be YYYY-MM-DD")
		}
		filter.From = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return utils.BadRequest(c, "to must be YYYY-MM-DD")
		}
		// inclusive of the whole day
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}

	page := utils.GetPagination(c, 1, 50)
	items, total, err := h.collections.List(c.UserContext(), c.Params("schoolId"), filter, page.Offset, page.Limit)
	if err != nil {
		return utils.Error(c, err, "Failed to list collections")
	}
	page.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(items, page))
}

func (h *CollectionHandler) Get(c *fiber.Ctx) error {
	rec, err := h.collections.GetByVoucher(c.UserContext(), c.Params("schoolId"), c.Params("voucherId"))
	if err != nil {
		return utils.Error(c, err, "Failed to get collection")
	}
	return utils.Success(c, fiber.Map{"collection": rec})
}

// Receipt renders the voucher as a QR code PNG.
func (h *CollectionHandler) Receipt(c *fiber.Ctx) error {
	rec, err := h.collections.GetByVoucher(c.UserContext(), c.Params("schoolId"), c.Params("voucherId"))
	if err != nil {
		return utils.Error(c, err, "Failed to get collection")
	}

	size := c.QueryInt("size", receiptSize)
	if size < minReceiptSize || size > maxReceiptSize {
		size = receiptSize
	}

	png, err := qrcode.Encode(ReceiptPayload(rec), qrcode.Medium, size)
	if err != nil {
		return utils.InternalError(c, "Failed to render receipt")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "private, max-age=86400")
	return c.Send(png)
}

// ReceiptPayload is the text encoded in a receipt QR code.
func ReceiptPayload(rec *models.FeeCollection) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d|%s",
		rec.VoucherID, rec.SchoolID, rec.StudentID, rec.FeeID, rec.Amount,
		rec.PaymentDate.Format(time.DateOnly))
}

// scope binds a request to the route's school and defaults the collector to the caller.
func scope(req *collection.Request, schoolID string, claims *models.UserClaims) {
	req.SchoolID = schoolID
	if req.CollectedBy == "" {
		req.CollectedBy = claims.Email
	}
}
