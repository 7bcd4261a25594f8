package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"finance-insights-be/chatlog"
	"finance-insights-be/insights"
	"finance-insights-be/models"
)

// InsightsHandler exposes the chat, dashboard, history and budget-status
// endpoints. Dependencies are injected at startup; handlers keep no state.
type InsightsHandler struct {
	pipeline *insights.Pipeline
	ledger   insights.Ledger
	store    insights.ConversationStore
}

func NewInsightsHandler(pipeline *insights.Pipeline, ledger insights.Ledger, store insights.ConversationStore) *InsightsHandler {
	return &InsightsHandler{pipeline: pipeline, ledger: ledger, store: store}
}

// ChatRequest is the payload for a chat turn.
type ChatRequest struct {
	Message string `json:"message"`
}

// TODO: Auth middleware should populate the user ID instead of trusting
// the X-User-ID header once the gateway forwards verified identities.
func requireUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, err := uuid.Parse(c.Get("X-User-ID"))
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID required in X-User-ID header"})
	}
	return userID, nil
}

// Chat answers one natural-language question about the user's finances.
func (h *InsightsHandler) Chat(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil || userID == uuid.Nil {
		return err
	}

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
	}

	log.Info().Str("user_id", userID.String()).Msg("Processing chat request")
	result := h.pipeline.Chat(c.UserContext(), userID, req.Message)
	return c.JSON(result)
}

// Dashboard returns the generated dashboard payload. When generation
// degrades to nothing the endpoint substitutes a default greeting with
// empty cards rather than failing.
func (h *InsightsHandler) Dashboard(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil || userID == uuid.Nil {
		return err
	}

	insight := h.pipeline.Dashboard(c.UserContext(), userID)
	if insight == nil {
		log.Warn().Str("user_id", userID.String()).Msg("Dashboard generation degraded, serving default")
		return c.JSON(defaultDashboard())
	}
	return c.JSON(insight)
}

// History returns the user's recent conversation turns, oldest first.
func (h *InsightsHandler) History(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil || userID == uuid.Nil {
		return err
	}

	limit := chatlog.MaxHistoryTurns
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	turns := h.store.FetchHistory(c.UserContext(), userID, limit)
	return c.JSON(fiber.Map{
		"count": len(turns),
		"turns": turns,
	})
}

// BudgetStatus returns every active budget projected against its spending.
func (h *InsightsHandler) BudgetStatus(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil || userID == uuid.Nil {
		return err
	}

	statuses := h.ledger.FetchBudgetStatus(c.UserContext(), userID)
	return c.JSON(fiber.Map{
		"count":   len(statuses),
		"budgets": statuses,
	})
}

func defaultDashboard() models.DashboardInsight {
	return models.DashboardInsight{
		Greeting: "Here's your financial overview.",
		Cards:    []models.DashboardCard{},
		Insights: []models.SmartInsight{},
	}
}
