package main

import (
	"log"
	"time"

	"github.com/edustack/edu_marketplace/catalog"
	config "github.com/edustack/edu_marketplace/configs"
	"github.com/edustack/edu_marketplace/database"
	"github.com/edustack/edu_marketplace/handlers"
	"github.com/edustack/edu_marketplace/jobs"
	"github.com/edustack/edu_marketplace/payments"
	"github.com/edustack/edu_marketplace/payouts"
	"github.com/edustack/edu_marketplace/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()

	railClient := payments.NewRazorpayXClient()
	resolver := catalog.NewResolver(database.DB)

	store := &payouts.GormStore{DB: database.DB}
	ledger := &payouts.GormLedger{DB: database.DB}
	educators := &payouts.GormEducatorStore{DB: database.DB}

	aggregator := payouts.NewAggregator(ledger, resolver, store,
		config.ConfigFloat("PLATFORM_COMMISSION_RATE", payouts.DefaultCommissionRate))

	pacer := payouts.NewIntervalPacer(config.ConfigMillis("PAYOUT_PACING_MS", 1500*time.Millisecond))
	processor := payouts.NewProcessor(store, educators, railClient, pacer)
	processor.MinAmount = config.ConfigInt64("MIN_PAYOUT_AMOUNT", payments.MinPayoutAmount)
	if prefix := config.Config("PAYOUT_NARRATION_PREFIX"); prefix != "" {
		processor.NarrationPrefix = prefix
	}

	payoutJob := &jobs.MonthlyPayoutJob{Aggregator: aggregator, Processor: processor}
	c := cron.New()
	c.AddFunc("0 2 1 * *", payoutJob.Run)
	go c.Start()
	log.Println("✅ Cron job for monthly payouts scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Edu Marketplace",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Kolkata",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Edu Marketplace API",
		})
	})

	payoutHandler := &handlers.PayoutHandler{
		Aggregator: aggregator,
		Processor:  processor,
		Resolver:   resolver,
	}
	educatorHandler := &handlers.EducatorHandler{Rail: railClient}

	routes.PayoutRoutes(app, payoutHandler)
	routes.EducatorRoutes(app, educatorHandler)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
