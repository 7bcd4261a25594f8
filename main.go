package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"finance-insights-be/chatlog"
	"finance-insights-be/database"
	"finance-insights-be/handlers"
	"finance-insights-be/insights"
	"finance-insights-be/ledger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	setupLogging()

	// Connect to Databases
	financeDB, err := database.ConnectFinance()
	if err != nil {
		log.Fatal().Err(err).Msg("Finance database unavailable")
	}
	insightsDB, err := database.ConnectInsights()
	if err != nil {
		log.Fatal().Err(err).Msg("Insights database unavailable")
	}

	// A missing Gemini credential makes the whole service pointless, so it
	// is fatal at startup rather than degraded per request.
	client, err := insights.NewClient(context.Background(), insights.Config{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("GEMINI_MODEL"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Generation service unavailable")
	}

	reader := ledger.NewReader(financeDB)
	store := chatlog.NewStore(insightsDB)
	pipeline := insights.NewPipeline(reader, store, client)
	insightsHandler := handlers.NewInsightsHandler(pipeline, reader, store)

	// Initialize Fiber app
	app := fiber.New()

	// Middleware
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Gateway enforces origins in front of this service
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health Check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":         "ok",
			"service":        "finance-insights",
			"llm_configured": true,
		})
	})

	api.Post("/insights/chat", insightsHandler.Chat)
	api.Get("/insights/dashboard", insightsHandler.Dashboard)
	api.Get("/insights/history", insightsHandler.History)
	api.Get("/budgets/status", insightsHandler.BudgetStatus)

	// Start Server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Fatal().Err(app.Listen(":" + port)).Msg("Server stopped")
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_FORMAT") == "human" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
