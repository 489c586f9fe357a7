package handlers

import (
	"log"

	"github.com/edustack/edu_marketplace/database"
	"github.com/edustack/edu_marketplace/models"
	"github.com/edustack/edu_marketplace/payments"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// railRegistrar is the account-onboarding half of the payout rail.
type railRegistrar interface {
	RegisterContact(name, email, referenceID string) (string, error)
	RegisterFundAccount(contactID string, bank payments.BankDetails) (string, error)
}

type EducatorHandler struct {
	Rail railRegistrar
}

type bankDetailsRequest struct {
	AccountHolderName string `json:"account_holder_name" validate:"required,min=2"`
	AccountNumber     string `json:"account_number" validate:"required,min=6,max=34"`
	IFSCCode          string `json:"ifsc_code" validate:"required"`
	BankName          string `json:"bank_name"`
}

// UpdateBankDetails stores an educator's bank account and registers it with
// the payout rail. A contact is registered only once per educator; a changed
// bank account always produces a new fund account that replaces the old
// reference.
func (h *EducatorHandler) UpdateBankDetails(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	educatorID := claims["user_id"].(string)

	var req bankDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !payments.ValidIFSC(req.IFSCCode) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid IFSC code"})
	}

	var educator models.Educator
	if err := database.DB.Preload("User").First(&educator, "user_id = ?", educatorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Educator profile not found"})
	}

	educator.AccountHolderName = &req.AccountHolderName
	educator.AccountNumber = &req.AccountNumber
	educator.IFSCCode = &req.IFSCCode
	educator.BankName = &req.BankName
	if err := database.DB.Save(&educator).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save bank details"})
	}

	if educator.RazorpayContactID == nil || *educator.RazorpayContactID == "" {
		contactID, err := h.Rail.RegisterContact(educator.User.FullName, educator.User.Email, educator.UserID.String())
		if err != nil {
			log.Printf("🔥 Contact registration failed for educator %s: %v", educator.UserID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Bank details saved, but registering with the payout rail failed: " + err.Error()})
		}
		educator.RazorpayContactID = &contactID
		if err := database.DB.Save(&educator).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save rail contact"})
		}
	}

	fundAccountID, err := h.Rail.RegisterFundAccount(*educator.RazorpayContactID, payments.BankDetails{
		AccountHolderName: req.AccountHolderName,
		AccountNumber:     req.AccountNumber,
		IFSCCode:          req.IFSCCode,
		BankName:          req.BankName,
	})
	if err != nil {
		log.Printf("🔥 Fund account registration failed for educator %s: %v", educator.UserID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Bank details saved, but linking the bank account with the payout rail failed: " + err.Error()})
	}

	educator.RazorpayFundAccountID = &fundAccountID
	if err := database.DB.Save(&educator).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save fund account"})
	}

	return c.JSON(fiber.Map{"message": "Bank details registered for payouts"})
}

func (h *EducatorHandler) GetMyPayouts(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	educatorID := claims["user_id"].(string)

	var records []models.Payout
	if err := database.DB.
		Where("educator_id = ?", educatorID).
		Order("year desc, month desc").
		Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(records)
}
