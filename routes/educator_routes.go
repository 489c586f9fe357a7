package routes

import (
	"github.com/edustack/edu_marketplace/handlers"
	"github.com/edustack/edu_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func EducatorRoutes(app *fiber.App, h *handlers.EducatorHandler) {
	api := app.Group("/api/v1")

	educators := api.Group("/educators", middleware.Protected(), middleware.EducatorRequired())

	educators.Put("/bank-details", h.UpdateBankDetails)
	educators.Get("/payouts", h.GetMyPayouts)
}
