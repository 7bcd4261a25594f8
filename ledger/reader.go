package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finance-insights-be/models"
)

const (
	// DefaultWindowDays is the lookback window for transaction fetches.
	DefaultWindowDays = 30
	// maxWindowRows caps the fetch to keep prompts inside token limits.
	maxWindowRows = 50
)

// Reader fetches transaction windows and budget projections from the
// finance database. All failures degrade to empty results; a missing
// context never fails a chat or dashboard request.
type Reader struct {
	db *gorm.DB
}

func NewReader(db *gorm.DB) *Reader {
	return &Reader{db: db}
}

type transactionRow struct {
	OccurredAt   time.Time
	Description  string
	Amount       string
	Type         string
	Currency     string
	CategoryName string
	MerchantName string
}

// FetchTransactions returns the user's most recent transactions within the
// given day window, newest first, capped at 50 rows. Category and merchant
// names are joined in with defaults for unlinked rows.
func (r *Reader) FetchTransactions(ctx context.Context, userID uuid.UUID, days int) []models.TransactionRecord {
	if days <= 0 {
		days = DefaultWindowDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	var rows []transactionRow
	err := r.db.WithContext(ctx).
		Table("transactions").
		Select("transactions.occurred_at, transactions.description, transactions.amount, transactions.type, transactions.currency, "+
			"COALESCE(categories.name, ?) AS category_name, COALESCE(merchants.name, ?) AS merchant_name",
			models.DefaultCategoryName, models.DefaultMerchantName).
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Joins("LEFT JOIN merchants ON merchants.id = transactions.merchant_id").
		Where("transactions.user_id = ? AND transactions.occurred_at >= ?", userID, cutoff).
		Order("transactions.occurred_at DESC").
		Limit(maxWindowRows).
		Scan(&rows).Error
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to fetch transactions")
		return []models.TransactionRecord{}
	}

	records := make([]models.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.TransactionRecord{
			OccurredAt:   row.OccurredAt,
			Description:  row.Description,
			Amount:       models.CoerceAmount(row.Amount),
			Type:         row.Type,
			Currency:     row.Currency,
			CategoryName: row.CategoryName,
			MerchantName: row.MerchantName,
		})
	}

	log.Info().Int("count", len(records)).Str("user_id", userID.String()).Msg("Fetched transactions")
	return records
}

type budgetRow struct {
	CategoryName   string
	AmountLimit    string
	AlertThreshold float64
	StartDate      time.Time
	EndDate        time.Time
	Spent          string
}

// FetchBudgetStatus projects every active budget (current date inside its
// window) against the matching expense transactions. Budgets with no
// spending still appear with spent = 0; inactive budgets are excluded
// entirely. Row order follows the group-by and is not significant.
func (r *Reader) FetchBudgetStatus(ctx context.Context, userID uuid.UUID) []models.BudgetStatus {
	now := time.Now()

	var rows []budgetRow
	err := r.db.WithContext(ctx).
		Table("budgets").
		Select("categories.name AS category_name, budgets.amount_limit, budgets.alert_threshold, budgets.start_date, budgets.end_date, "+
			"COALESCE(SUM(transactions.amount), 0) AS spent").
		Joins("JOIN categories ON categories.id = budgets.category_id").
		Joins("LEFT JOIN transactions ON transactions.category_id = budgets.category_id"+
			" AND transactions.user_id = budgets.user_id"+
			" AND transactions.type = ?"+
			" AND transactions.occurred_at BETWEEN budgets.start_date AND budgets.end_date", models.TypeExpense).
		Where("budgets.user_id = ? AND ? BETWEEN budgets.start_date AND budgets.end_date", userID, now).
		Group("budgets.id, categories.name, budgets.amount_limit, budgets.alert_threshold, budgets.start_date, budgets.end_date").
		Scan(&rows).Error
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to fetch budget status")
		return []models.BudgetStatus{}
	}

	statuses := make([]models.BudgetStatus, 0, len(rows))
	for _, row := range rows {
		statuses = append(statuses, projectStatus(row))
	}
	return statuses
}

func projectStatus(row budgetRow) models.BudgetStatus {
	limit := models.CoerceAmount(row.AmountLimit)
	spent := models.CoerceAmount(row.Spent)

	percent := 0.0
	if limit.IsPositive() {
		percent, _ = spent.Div(limit).Mul(decimal.NewFromInt(100)).Float64()
	}

	threshold := row.AlertThreshold
	if threshold <= 0 {
		threshold = 0.80
	}

	overBudget := spent.GreaterThan(limit)
	warning := percent >= threshold*100 && !overBudget

	status := "safe"
	switch {
	case overBudget:
		status = "danger"
	case warning:
		status = "warning"
	}

	return models.BudgetStatus{
		CategoryName:   row.CategoryName,
		AmountLimit:    limit,
		Spent:          spent,
		Remaining:      limit.Sub(spent),
		Percent:        percent,
		AlertThreshold: threshold,
		StartDate:      row.StartDate.Format("2006-01-02"),
		EndDate:        row.EndDate.Format("2006-01-02"),
		IsOverBudget:   overBudget,
		IsWarning:      warning,
		Status:         status,
	}
}
