package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types as stored in the finance database.
const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// Category represents a user-defined transaction category.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Merchant represents a counterparty on a transaction.
type Merchant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction represents a financial transaction in the finance database.
// This service only ever reads transactions; the upstream transactions
// service owns writes and migrations.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric" json:"amount"`
	Type        string          `gorm:"not null" json:"type"` // INCOME or EXPENSE
	Currency    string          `gorm:"default:USD" json:"currency"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	MerchantID  *uuid.UUID      `gorm:"type:uuid;index" json:"merchant_id"`
	OccurredAt  time.Time       `gorm:"index" json:"occurred_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Budget represents a spending limit for one category over a date window.
type Budget struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID     uuid.UUID       `gorm:"type:uuid;not null" json:"category_id"`
	AmountLimit    decimal.Decimal `gorm:"type:numeric" json:"amount_limit"`
	Period         string          `gorm:"default:MONTHLY" json:"period"`
	StartDate      time.Time       `gorm:"not null" json:"start_date"`
	EndDate        time.Time       `gorm:"not null" json:"end_date"`
	AlertThreshold float64         `gorm:"default:0.8" json:"alert_threshold"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ChatLog represents one persisted question/answer exchange in the
// insights database. ContextSnapshot holds a JSON object with a truncated
// preview of the digest that was sent to the model, for audit.
type ChatLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	UserQuery       string    `gorm:"not null" json:"user_query"`
	AIResponse      string    `json:"ai_response"`
	ContextSnapshot string    `json:"context_snapshot"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns UUIDs in Go so the schema works on both Postgres
// and the in-memory sqlite used in tests.
func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (m *Merchant) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (b *Budget) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
