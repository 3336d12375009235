package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

func TestUser_ContactName(t *testing.T) {
	u := model.User{Email: "ana@example.com", FirstName: "Ana"}
	assert.Equal(t, "Ana", u.ContactName())

	u.FirstName = ""
	assert.Equal(t, "ana@example.com", u.ContactName())
}

func TestBudget_SpentPercentage(t *testing.T) {
	pct := 92.5
	b := model.Budget{
		AmountLimit: decimal.NewFromInt(100),
		Spent:       decimal.NewFromInt(50),
		Percentage:  &pct,
	}
	// Server-computed value wins over the local ratio.
	assert.Equal(t, 92.5, b.SpentPercentage())

	b.Percentage = nil
	assert.InDelta(t, 50.0, b.SpentPercentage(), 0.001)
}

func TestBudget_SpentPercentage_ZeroLimit(t *testing.T) {
	b := model.Budget{Spent: decimal.NewFromInt(50)}
	assert.Equal(t, 0.0, b.SpentPercentage())
}

func TestBudget_EffectiveThreshold(t *testing.T) {
	b := model.Budget{}
	assert.Equal(t, 80.0, b.EffectiveThreshold())

	b.AlertThreshold = 90
	assert.Equal(t, 90.0, b.EffectiveThreshold())
}

func TestDebt_DaysUntilDue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	d := model.Debt{DueDate: model.NewDate(2025, 6, 20)}
	days, ok := d.DaysUntilDue(now)
	assert.True(t, ok)
	assert.Equal(t, 5, days)

	d.DueDate = model.NewDate(2025, 6, 10)
	days, ok = d.DaysUntilDue(now)
	assert.True(t, ok)
	assert.Equal(t, -5, days)
}

func TestDebt_DaysUntilDue_NoDueDate(t *testing.T) {
	d := model.Debt{}
	_, ok := d.DaysUntilDue(time.Now())
	assert.False(t, ok)
}
