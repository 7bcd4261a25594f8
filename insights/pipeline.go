package insights

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"finance-insights-be/models"
)

const (
	// DefaultWindowDays mirrors the ledger's default lookback window.
	DefaultWindowDays = 30
	// chatHistoryTurns is how many prior turns a chat request threads in.
	chatHistoryTurns = 6
	// previewLimit bounds the context preview returned to the caller.
	previewLimit = 200
)

// Ledger is the read-only financial data source the pipeline consumes.
type Ledger interface {
	FetchTransactions(ctx context.Context, userID uuid.UUID, days int) []models.TransactionRecord
	FetchBudgetStatus(ctx context.Context, userID uuid.UUID) []models.BudgetStatus
}

// ConversationStore persists and reconstructs prior chat turns.
type ConversationStore interface {
	FetchHistory(ctx context.Context, userID uuid.UUID, limit int) []models.ConversationTurn
	SaveTurn(ctx context.Context, userID uuid.UUID, query, answer, contextText string) bool
}

// Pipeline orchestrates one chat or dashboard request end to end. It is
// stateless between calls; all dependencies are injected once at startup.
type Pipeline struct {
	ledger Ledger
	store  ConversationStore
	gen    Generator
}

func NewPipeline(ledger Ledger, store ConversationStore, gen Generator) *Pipeline {
	return &Pipeline{ledger: ledger, store: store, gen: gen}
}

// Chat answers one user question against the recent transaction window and
// the stored conversation history. The result is always best-effort: a
// failed generation yields the fallback answer with an empty context, and
// a failed log write is swallowed after logging.
func (p *Pipeline) Chat(ctx context.Context, userID uuid.UUID, query string) models.ChatResult {
	transactions := p.ledger.FetchTransactions(ctx, userID, DefaultWindowDays)
	history := p.store.FetchHistory(ctx, userID, chatHistoryTurns)

	digest := Summarize(transactions)
	contents := AssembleConversation(history, digest, query)

	res := p.gen.Generate(ctx, contents)
	if !res.Succeeded {
		return models.ChatResult{
			Answer:            res.Text,
			TransactionsCount: 0,
			ContextUsed:       false,
			ContextPreview:    "",
		}
	}

	if !p.store.SaveTurn(ctx, userID, query, res.Text, digest) {
		log.Warn().Str("user_id", userID.String()).Msg("Chat log write failed, response unaffected")
	}

	return models.ChatResult{
		Answer:            res.Text,
		TransactionsCount: len(transactions),
		ContextUsed:       true,
		ContextPreview:    previewOf(digest, previewLimit),
	}
}

// Dashboard generates the structured dashboard payload for the user's
// recent transaction window, or nil when generation degrades.
func (p *Pipeline) Dashboard(ctx context.Context, userID uuid.UUID) *models.DashboardInsight {
	transactions := p.ledger.FetchTransactions(ctx, userID, DefaultWindowDays)
	return ExtractDashboard(ctx, p.gen, transactions)
}

func previewOf(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
