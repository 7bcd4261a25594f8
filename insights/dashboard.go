package insights

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"finance-insights-be/models"
)

const dashboardPromptFmt = `You are a financial dashboard generator.
Based on the financial summary below, return ONLY raw JSON. No explanation. No markdown.

Use exactly this JSON format:

{
  "greeting": "short friendly greeting referencing the user's finances",
  "cards": [
    {"id": "string", "tag": "danger" | "success" | "warning" | "info", "title": "string", "subtitle": "string", "badge": "string"}
  ],
  "insights": [
    {"id": "string", "tag": "danger" | "success" | "warning" | "info", "title": "string", "description": "string"}
  ],
  "prediction": {"amount": number, "confidence": number, "label": "string"}
}

Rules:
- "cards" must contain exactly 4 entries summarizing income, expenses, savings and activity.
- "insights" must contain exactly 3 entries with concrete observations.
- "prediction" is optional; omit it if the data is too thin to predict from.

%s`

// ExtractDashboard builds the digest for the transaction window, asks the
// model for the structured dashboard payload and parses it. Any failure
// along the way (HTTP, transport, bad JSON, contract violation) degrades
// to nil; the dashboard endpoint substitutes its default response.
func ExtractDashboard(ctx context.Context, gen Generator, transactions []models.TransactionRecord) *models.DashboardInsight {
	digest := Summarize(transactions)
	prompt := fmt.Sprintf(dashboardPromptFmt, digest)

	raw, err := gen.GenerateStructured(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("Dashboard generation failed")
		return nil
	}

	cleaned := StripCodeFence(raw)

	var insight models.DashboardInsight
	if err := json.Unmarshal([]byte(cleaned), &insight); err != nil {
		log.Error().Err(err).Int("length", len(cleaned)).Msg("Failed to parse dashboard response")
		return nil
	}
	if err := insight.Validate(); err != nil {
		log.Error().Err(err).Msg("Dashboard response violates contract")
		return nil
	}
	return &insight
}
