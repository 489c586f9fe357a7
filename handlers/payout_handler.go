package handlers

import (
	"errors"
	"math"
	"strconv"

	"github.com/edustack/edu_marketplace/catalog"
	"github.com/edustack/edu_marketplace/database"
	"github.com/edustack/edu_marketplace/models"
	"github.com/edustack/edu_marketplace/payouts"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

// PayoutHandler exposes the revenue-aggregation and disbursement pipeline to
// admins. Its collaborators are injected in main.
type PayoutHandler struct {
	Aggregator *payouts.Aggregator
	Processor  *payouts.Processor
	Resolver   *catalog.Resolver
}

type periodRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=1000,max=9999"`
}

func (h *PayoutHandler) CalculatePayouts(c *fiber.Ctx) error {
	var req periodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.Aggregator.CalculatePayouts(req.Month, req.Year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message":         "Payout aggregation complete",
		"records":         result.Records,
		"skipped_events":  result.SkippedEvents,
		"skipped_records": result.SkippedRecords,
	})
}

func (h *PayoutHandler) ListPayouts(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Payout{}).Preload("Educator")
	countQuery := database.DB.Model(&models.Payout{})

	if month := c.Query("month"); month != "" {
		query = query.Where("month = ?", month)
		countQuery = countQuery.Where("month = ?", month)
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("year = ?", year)
		countQuery = countQuery.Where("year = ?", year)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	countQuery.Count(&total)

	var records []models.Payout
	if err := query.Order("year desc, month desc, created_at desc").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"data": records,
		"meta": fiber.Map{
			"total":        total,
			"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
			"current_page": page,
		},
	})
}

func (h *PayoutHandler) ProcessPayout(c *fiber.Ctx) error {
	payoutID, err := uuid.Parse(c.Params("payoutId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payout ID format"})
	}

	payout, err := h.Processor.ProcessPayout(payoutID)
	if err != nil {
		return payoutErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "Disbursement accepted by the payout rail", "payout": payout})
}

type bulkProcessRequest struct {
	PayoutIDs []string `json:"payout_ids" validate:"omitempty,dive,uuid4"`
	Month     int      `json:"month" validate:"required_without=PayoutIDs,omitempty,min=1,max=12"`
	Year      int      `json:"year" validate:"required_without=PayoutIDs,omitempty,min=1000,max=9999"`
}

func (h *PayoutHandler) ProcessBulkPayouts(c *fiber.Ctx) error {
	var req bulkProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	bulk := payouts.BulkRequest{Month: req.Month, Year: req.Year}
	for _, raw := range req.PayoutIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payout ID in payout_ids: " + raw})
		}
		bulk.PayoutIDs = append(bulk.PayoutIDs, id)
	}

	result, err := h.Processor.ProcessBulk(bulk)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}

// InspectProduct lets an operator look up the owner, price, and active flag
// of a sold product, typically while chasing payments the aggregator skipped.
func (h *PayoutHandler) InspectProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID format"})
	}
	productType := c.Params("productType")

	snapshot, err := h.Resolver.Inspect(productID, productType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(snapshot)
}

func payoutErrorResponse(c *fiber.Ctx, err error) error {
	var stateErr *payouts.StateConflictError
	var validationErr *payouts.ValidationError
	var gatewayErr *payouts.GatewayError

	switch {
	case errors.Is(err, payouts.ErrPayoutNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &stateErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": stateErr.Error()})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Error()})
	case errors.As(err, &gatewayErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": gatewayErr.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
