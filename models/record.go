package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Defaults substituted when a transaction has no category or merchant.
const (
	DefaultCategoryName = "Uncategorized"
	DefaultMerchantName = "Unknown Merchant"
)

// Conversation roles accepted by the generation provider.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// TransactionRecord is the read-only view of a transaction handed to the
// summarizer: the raw row joined with its category and merchant names.
type TransactionRecord struct {
	OccurredAt   time.Time       `json:"occurred_at"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	Currency     string          `json:"currency"`
	CategoryName string          `json:"category_name"`
	MerchantName string          `json:"merchant_name"`
}

// BudgetStatus is the derived per-budget view: the budget row joined with
// the expenses that fall inside its window.
type BudgetStatus struct {
	CategoryName   string          `json:"category_name"`
	AmountLimit    decimal.Decimal `json:"amount_limit"`
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	Percent        float64         `json:"percent"`
	AlertThreshold float64         `json:"alert_threshold"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	IsOverBudget   bool            `json:"is_over_budget"`
	IsWarning      bool            `json:"is_warning"`
	Status         string          `json:"status"` // safe, warning or danger
}

// ConversationTurn is one utterance in a reconstructed conversation.
type ConversationTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatResult is the response envelope for one chat exchange.
type ChatResult struct {
	Answer            string `json:"answer"`
	TransactionsCount int    `json:"transactions_count"`
	ContextUsed       bool   `json:"context_used"`
	ContextPreview    string `json:"context_preview"`
}

// CoerceAmount converts a raw amount value scanned from the database into
// a decimal. Malformed values degrade to zero instead of failing: one bad
// row must not abort a whole summary.
func CoerceAmount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}
