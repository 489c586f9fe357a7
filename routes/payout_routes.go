package routes

import (
	"github.com/edustack/edu_marketplace/handlers"
	"github.com/edustack/edu_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func PayoutRoutes(app *fiber.App, h *handlers.PayoutHandler) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Post("/payouts/calculate", h.CalculatePayouts)
	admin.Get("/payouts", h.ListPayouts)
	admin.Post("/payouts/:payoutId/process", h.ProcessPayout)
	admin.Post("/payouts/process-bulk", h.ProcessBulkPayouts)

	admin.Get("/products/:productType/:productId", h.InspectProduct)
}
