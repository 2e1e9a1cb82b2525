package models

import (
	"time"

	"github.com/google/uuid"
)

// InvestmentType represents the kind of investment instrument
type InvestmentType string

const (
	InvestmentTypeSIP    InvestmentType = "SIP"
	InvestmentTypeStocks InvestmentType = "Stocks"
	InvestmentTypeFD     InvestmentType = "FD"
	InvestmentTypeOther  InvestmentType = "Other"
)

// InvestmentStatus represents the lifecycle state of an investment
type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "Active"
	InvestmentStatusMatured   InvestmentStatus = "Matured"
	InvestmentStatusWithdrawn InvestmentStatus = "Withdrawn"
)

// Investment represents a single investment owned by one user.
// UserID is set at creation and never changes afterwards.
type Investment struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	UserID       uuid.UUID        `json:"userId" db:"user_id"`
	Type         InvestmentType   `json:"type" db:"type"`
	Name         string           `json:"name" db:"name"`
	Amount       float64          `json:"amount" db:"amount"`
	StartDate    time.Time        `json:"startDate" db:"start_date"`
	MaturityDate *time.Time       `json:"maturityDate,omitempty" db:"maturity_date"`
	Status       InvestmentStatus `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
}

// TableName returns the table name for the Investment model
func (Investment) TableName() string {
	return "investments"
}

// OwnedBy returns the id of the owning user
func (i *Investment) OwnedBy() uuid.UUID {
	return i.UserID
}

// NewInvestment creates a new Investment owned by the given user.
// Status defaults to Active when empty.
func NewInvestment(userID uuid.UUID, invType InvestmentType, name string, amount float64, startDate time.Time, maturityDate *time.Time) *Investment {
	return &Investment{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         invType,
		Name:         name,
		Amount:       amount,
		StartDate:    startDate,
		MaturityDate: maturityDate,
		Status:       InvestmentStatusActive,
		CreatedAt:    time.Now(),
	}
}
