package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/finware/finance-manager/models"
)

func TestAuthorize(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	// The policy must behave identically for every owned resource type.
	resources := map[string]Owned{
		"transaction": models.NewTransaction(owner, "rent", 1200, models.TransactionTypeExpense, models.PaymentMethodCash, time.Now()),
		"investment":  models.NewInvestment(owner, models.InvestmentTypeFD, "Fixed Deposit", 10000, time.Now(), nil),
	}

	for name, res := range resources {
		t.Run(name+" owner allowed", func(t *testing.T) {
			assert.NoError(t, Authorize(owner, res))
		})
		t.Run(name+" stranger denied", func(t *testing.T) {
			assert.ErrorIs(t, Authorize(stranger, res), ErrNotOwner)
		})
		t.Run(name+" nil caller denied", func(t *testing.T) {
			assert.ErrorIs(t, Authorize(uuid.Nil, res), ErrNotOwner)
		})
	}
}
