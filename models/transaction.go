package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies a transaction as money in or money out
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// PaymentMethod represents how a transaction was settled
type PaymentMethod string

const (
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodNetBanking PaymentMethod = "Net Banking"
	PaymentMethodCash       PaymentMethod = "Cash"
	PaymentMethodCheque     PaymentMethod = "Cheque"
)

// Transaction represents a single financial transaction owned by one user.
// UserID is set at creation and never changes afterwards.
type Transaction struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"userId" db:"user_id"`
	Description   string          `json:"description" db:"description"`
	Amount        float64         `json:"amount" db:"amount"`
	Type          TransactionType `json:"type" db:"type"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	Date          time.Time       `json:"date" db:"date"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// OwnedBy returns the id of the owning user
func (t *Transaction) OwnedBy() uuid.UUID {
	return t.UserID
}

// NewTransaction creates a new Transaction owned by the given user
func NewTransaction(userID uuid.UUID, description string, amount float64, txType TransactionType, method PaymentMethod, date time.Time) *Transaction {
	return &Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Description:   description,
		Amount:        amount,
		Type:          txType,
		PaymentMethod: method,
		Date:          date,
		CreatedAt:     time.Now(),
	}
}
