package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the authenticated profile.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ContactName returns the name used in outbound email, falling back to
// the email address.
func (u User) ContactName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

// Account is a money account (cash, bank, card).
type Account struct {
	ID             int             `json:"id,omitempty"`
	Name           string          `json:"name"`
	AccountType    string          `json:"account_type"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Currency       string          `json:"currency,omitempty"`
	IncludeInTotal bool            `json:"include_in_total"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at,omitempty"`
}

// Transaction types.
const (
	TransactionIncome  = "ingreso"
	TransactionExpense = "gasto"
)

// Transaction is a single income or expense movement.
type Transaction struct {
	ID                int             `json:"id,omitempty"`
	TransactionType   string          `json:"transaction_type"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	Date              Date            `json:"date"`
	Account           int             `json:"account"`
	AccountName       string          `json:"account_name,omitempty"`
	Category          int             `json:"category,omitempty"`
	CategoryName      string          `json:"category_name,omitempty"`
	SecondaryCategory int             `json:"secondary_category,omitempty"`
	IsAntExpense      bool            `json:"is_ant_expense,omitempty"`
	CreatedAt         time.Time       `json:"created_at,omitempty"`
}

// Category classifies transactions. Parent is nil for top-level categories.
type Category struct {
	ID           int    `json:"id,omitempty"`
	Name         string `json:"name"`
	CategoryType string `json:"category_type"`
	Icon         string `json:"icon,omitempty"`
	Color        string `json:"color,omitempty"`
	Parent       *int   `json:"parent,omitempty"`
}

// SecondaryCategory is a sub-classification under a primary category.
type SecondaryCategory struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name"`
	Category int    `json:"category"`
}

// Budget is a per-category spending limit. Spent, Percentage, IsWarning
// and IsExceeded are computed server-side and read as given.
type Budget struct {
	ID             int             `json:"id,omitempty"`
	Category       int             `json:"category"`
	CategoryName   string          `json:"category_name,omitempty"`
	AmountLimit    decimal.Decimal `json:"amount_limit"`
	Period         string          `json:"period"`
	StartDate      Date            `json:"start_date"`
	EndDate        Date            `json:"end_date,omitempty"`
	IsActive       bool            `json:"is_active"`
	AlertThreshold float64         `json:"alert_threshold,omitempty"`
	Spent          decimal.Decimal `json:"spent,omitempty"`
	Percentage     *float64        `json:"percentage,omitempty"`
	IsWarning      bool            `json:"is_warning,omitempty"`
	IsExceeded     bool            `json:"is_exceeded,omitempty"`
}

// DefaultAlertThreshold applies when a budget has no per-budget override.
const DefaultAlertThreshold = 80.0

// SpentPercentage prefers the server-computed percentage and falls back to
// spent/limit. Budgets without a positive limit report 0.
func (b Budget) SpentPercentage() float64 {
	if b.Percentage != nil {
		return *b.Percentage
	}
	if !b.AmountLimit.IsPositive() {
		return 0
	}
	spent, _ := b.Spent.Div(b.AmountLimit).Float64()
	return spent * 100
}

// EffectiveThreshold returns the alert threshold, defaulted to 80.
func (b Budget) EffectiveThreshold() float64 {
	if b.AlertThreshold > 0 {
		return b.AlertThreshold
	}
	return DefaultAlertThreshold
}

// Goal types.
const (
	GoalSavings           = "savings"
	GoalCategoryReduction = "category_reduction"
)

// Goal is a savings or category-reduction target.
type Goal struct {
	ID                  int              `json:"id,omitempty"`
	Name                string           `json:"name"`
	GoalType            string           `json:"goal_type"`
	TargetAmount        decimal.Decimal  `json:"target_amount"`
	TargetDate          Date             `json:"target_date"`
	Category            *int             `json:"category,omitempty"`
	ReductionPercentage *decimal.Decimal `json:"reduction_percentage,omitempty"`
	BaselineAmount      *decimal.Decimal `json:"baseline_amount,omitempty"`
	CurrentAmount       decimal.Decimal  `json:"current_amount,omitempty"`
	IsActive            bool             `json:"is_active"`
	IsCompleted         bool             `json:"is_completed,omitempty"`
	Description         string           `json:"description,omitempty"`
}

// GoalProgress is the server-computed progress report for a goal.
type GoalProgress struct {
	Percentage      float64         `json:"percentage"`
	CurrentAmount   decimal.Decimal `json:"current_amount"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	DaysRemaining   int             `json:"days_remaining"`
}

// Bet results.
const (
	BetWon     = "ganó"
	BetLost    = "perdió"
	BetPending = "pendiente"
)

// Bet is a single wager.
type Bet struct {
	ID           int              `json:"id,omitempty"`
	BetType      string           `json:"bet_type"`
	EventName    string           `json:"event_name"`
	SportType    string           `json:"sport_type,omitempty"`
	BetAmount    decimal.Decimal  `json:"bet_amount"`
	Odds         *decimal.Decimal `json:"odds,omitempty"`
	Result       string           `json:"result"`
	PayoutAmount decimal.Decimal  `json:"payout_amount,omitempty"`
	Account      *int             `json:"account,omitempty"`
	Date         Date             `json:"date"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at,omitempty"`
}

// BetStatistics is the server-computed betting summary.
type BetStatistics struct {
	TotalBet     decimal.Decimal `json:"total_bet"`
	TotalWon     decimal.Decimal `json:"total_won"`
	TotalLost    decimal.Decimal `json:"total_lost"`
	NetResult    decimal.Decimal `json:"net_result"`
	ROI          float64         `json:"roi"`
	TotalBets    int             `json:"total_bets"`
	WonCount     int             `json:"won_count"`
	LostCount    int             `json:"lost_count"`
	PendingCount int             `json:"pending_count"`
	WinRate      float64         `json:"win_rate"`
}

// Debt types.
const (
	DebtOwed = "deuda"    // money the user owes
	DebtLent = "prestamo" // money owed to the user
)

// Debt is money owed by or to the user. RemainingAmount and
// ProgressPercentage are computed server-side.
type Debt struct {
	ID                 int              `json:"id,omitempty"`
	Name               string           `json:"name"`
	DebtType           string           `json:"debt_type"`
	TotalAmount        decimal.Decimal  `json:"total_amount"`
	PaidAmount         decimal.Decimal  `json:"paid_amount,omitempty"`
	InterestRate       *decimal.Decimal `json:"interest_rate,omitempty"`
	StartDate          Date             `json:"start_date"`
	DueDate            Date             `json:"due_date,omitempty"`
	Account            *int             `json:"account,omitempty"`
	CreditorDebtor     string           `json:"creditor_debtor,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	IsPaid             bool             `json:"is_paid"`
	RemainingAmount    decimal.Decimal  `json:"remaining_amount,omitempty"`
	ProgressPercentage float64          `json:"progress_percentage,omitempty"`
}

// DaysUntilDue returns the calendar days until the due date at midnight
// granularity: due today yields 0, overdue yields negatives. The second
// return is false when the debt has no due date.
func (d Debt) DaysUntilDue(now time.Time) (int, bool) {
	if d.DueDate.IsZero() {
		return 0, false
	}
	return d.DueDate.DaysBetween(now), true
}

// DebtPayment is a partial payment against a debt.
type DebtPayment struct {
	ID          int             `json:"id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate Date            `json:"payment_date"`
	Notes       string          `json:"notes,omitempty"`
}

// DebtBucket aggregates one side of the debt summary.
type DebtBucket struct {
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// DebtSummary aggregates unpaid debts, split into money owed and money
// lent.
type DebtSummary struct {
	Debts DebtBucket `json:"debts"`
	Loans DebtBucket `json:"loans"`
}

// TransactionSummary aggregates income and expenses over a date range.
type TransactionSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// CategoryBreakdown is one row of the by-category spending report.
type CategoryBreakdown struct {
	CategoryID   int             `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
	Percentage   float64         `json:"percentage"`
}

// Pagination mirrors the API's paginated envelope metadata.
type Pagination struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Page     int    `json:"page"`
}
