package insights

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"finance-insights-be/models"
)

// EmptyDigest is returned when the transaction window is empty.
const EmptyDigest = "No transactions found."

var amountPrinter = message.NewPrinter(language.English)

// Summarize reduces a transaction window into the fixed-format digest used
// as model context. Only INCOME and EXPENSE rows contribute to the sums;
// anything else counts toward the transaction count only. The format is
// stable because persisted previews truncate it positionally.
func Summarize(transactions []models.TransactionRecord) string {
	if len(transactions) == 0 {
		return EmptyDigest
	}

	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case models.TypeIncome:
			income = income.Add(t.Amount)
		case models.TypeExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	net := income.Sub(expenses)

	return amountPrinter.Sprintf(
		"FINANCIAL SUMMARY:\nTotal Income: $%.2f\nTotal Expenses: $%.2f\nNet Savings: $%.2f\nTransaction Count: %d",
		income.InexactFloat64(),
		expenses.InexactFloat64(),
		net.InexactFloat64(),
		len(transactions),
	)
}
