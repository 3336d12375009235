package notify

import (
	"fmt"

	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

// AlertType partitions alerts by their source collection.
type AlertType string

const (
	TypeDebt   AlertType = "debt"
	TypeBudget AlertType = "budget"
)

// Severity indicates how urgent an alert is.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Budget alert variants.
const (
	BudgetExceeded = "exceeded"
	BudgetLow      = "low"
)

// Alert is a derived notification, rebuilt from scratch on every
// evaluation cycle. Its ID is a pure function of the source entity and
// variant, which is what keeps the persisted read/dismiss markers valid
// across cycles.
type Alert struct {
	ID       string
	Type     AlertType
	Severity Severity
	Title    string
	Message  string

	Debt            *model.Debt
	Budget          *model.Budget
	DaysRemaining   int
	BudgetAlertType string

	Dismissed bool
	Read      bool
}

func debtAlertID(debtID int) string         { return fmt.Sprintf("debt_%d", debtID) }
func debtOverdueAlertID(debtID int) string  { return fmt.Sprintf("debt_overdue_%d", debtID) }
func budgetExceededAlertID(id int) string   { return fmt.Sprintf("budget_exceeded_%d", id) }
func budgetLowAlertID(id int) string        { return fmt.Sprintf("budget_low_%d", id) }

func dayWord(n int) string {
	if n == 1 || n == -1 {
		return "día"
	}
	return "días"
}
