package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpmoralesv/finanzas-cli/pkg/mail"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

var debtsCmd = &cobra.Command{
	Use:   "debts",
	Short: "Track debts and loans",
}

var debtsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List debts",
	RunE:  runDebtsList,
}

var debtsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a debt or loan",
	RunE:  runDebtsAdd,
}

var debtsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update debt fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebtsUpdate,
}

var debtsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a debt",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebtsDelete,
}

var debtsPayCmd = &cobra.Command{
	Use:   "pay <id> <amount>",
	Short: "Register a partial payment",
	Args:  cobra.ExactArgs(2),
	RunE:  runDebtsPay,
}

var debtsPaymentsCmd = &cobra.Command{
	Use:   "payments <id>",
	Short: "Show the payment history of a debt",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebtsPayments,
}

var debtsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Owed/lent totals over unpaid debts",
	RunE:  runDebtsSummary,
}

func init() {
	rootCmd.AddCommand(debtsCmd)
	debtsCmd.AddCommand(debtsListCmd)
	debtsCmd.AddCommand(debtsAddCmd)
	debtsCmd.AddCommand(debtsUpdateCmd)
	debtsCmd.AddCommand(debtsDeleteCmd)
	debtsCmd.AddCommand(debtsPayCmd)
	debtsCmd.AddCommand(debtsPaymentsCmd)
	debtsCmd.AddCommand(debtsSummaryCmd)

	debtsListCmd.Flags().Bool("all", false, "Include paid debts")
	debtsListCmd.Flags().Bool("overdue", false, "Only overdue debts")
	debtsListCmd.Flags().Int("upcoming", 0, "Only debts due within N days")

	debtsAddCmd.Flags().StringP("name", "n", "", "Debt name")
	debtsAddCmd.Flags().StringP("type", "t", "deuda", "Debt type (deuda, prestamo)")
	debtsAddCmd.Flags().StringP("amount", "a", "", "Total amount")
	debtsAddCmd.Flags().String("start", "", "Start date (YYYY-MM-DD, default today)")
	debtsAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	debtsAddCmd.Flags().String("interest", "", "Annual interest rate")
	debtsAddCmd.Flags().String("with", "", "Creditor or debtor name")
	debtsAddCmd.Flags().Int("account", 0, "Account id")
	debtsAddCmd.Flags().String("notes", "", "Notes")
	_ = debtsAddCmd.MarkFlagRequired("name")
	_ = debtsAddCmd.MarkFlagRequired("amount")

	debtsUpdateCmd.Flags().StringP("name", "n", "", "Debt name")
	debtsUpdateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	debtsUpdateCmd.Flags().Bool("paid", false, "Mark as fully paid")

	debtsPayCmd.Flags().String("date", "", "Payment date (YYYY-MM-DD, default today)")
	debtsPayCmd.Flags().String("notes", "", "Notes")
}

func runDebtsList(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.debts()
	if err := store.Fetch(cmd.Context()); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	all, _ := cmd.Flags().GetBool("all")
	overdue, _ := cmd.Flags().GetBool("overdue")
	upcoming, _ := cmd.Flags().GetInt("upcoming")

	var debts []model.Debt
	switch {
	case overdue:
		debts = store.Overdue(time.Now())
	case upcoming > 0:
		debts = store.Upcoming(time.Now(), upcoming)
	case all:
		debts = store.All()
	default:
		debts = store.Active()
	}
	if len(debts) == 0 {
		fmt.Println("No hay deudas.")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tTYPE\tTOTAL\tREMAINING\tDUE\tDAYS\tPAID\n")
	for _, d := range debts {
		due := d.DueDate.String()
		daysCol := "-"
		if days, ok := d.DaysUntilDue(now); ok {
			daysCol = strconv.Itoa(days)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Name, d.DebtType,
			mail.FormatCurrency(d.TotalAmount), mail.FormatCurrency(d.RemainingAmount),
			due, daysCol, yesNo(d.IsPaid),
		)
	}
	w.Flush()
	return nil
}

func runDebtsAdd(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name, _ := cmd.Flags().GetString("name")
	debtType, _ := cmd.Flags().GetString("type")
	amountStr, _ := cmd.Flags().GetString("amount")
	startStr, _ := cmd.Flags().GetString("start")
	dueStr, _ := cmd.Flags().GetString("due")
	interestStr, _ := cmd.Flags().GetString("interest")
	counterparty, _ := cmd.Flags().GetString("with")
	account, _ := cmd.Flags().GetInt("account")
	notes, _ := cmd.Flags().GetString("notes")

	amount, err := parseAmount(amountStr)
	if err != nil {
		return err
	}
	start, err := parseDate(startStr)
	if err != nil {
		return err
	}
	if start.IsZero() {
		start = model.DateOf(time.Now())
	}
	due, err := parseDate(dueStr)
	if err != nil {
		return err
	}

	debt := model.Debt{
		Name:           name,
		DebtType:       debtType,
		TotalAmount:    amount,
		StartDate:      start,
		DueDate:        due,
		CreditorDebtor: counterparty,
		Notes:          notes,
	}
	if interestStr != "" {
		interest, err := parseAmount(interestStr)
		if err != nil {
			return err
		}
		debt.InterestRate = &interest
	}
	if account > 0 {
		debt.Account = &account
	}

	store := a.debts()
	created, err := store.Create(cmd.Context(), debt)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Deuda registrada: %s (id %d)\n", created.Name, created.ID)
	return nil
}

func runDebtsUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid debt id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	fields := map[string]any{}
	if cmd.Flags().Changed("name") {
		v, _ := cmd.Flags().GetString("name")
		fields["name"] = v
	}
	if cmd.Flags().Changed("due") {
		v, _ := cmd.Flags().GetString("due")
		due, err := parseDate(v)
		if err != nil {
			return err
		}
		fields["due_date"] = due
	}
	if cmd.Flags().Changed("paid") {
		v, _ := cmd.Flags().GetBool("paid")
		fields["is_paid"] = v
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	store := a.debts()
	updated, err := store.Update(cmd.Context(), id, fields)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Deuda actualizada: %s\n", updated.Name)
	return nil
}

func runDebtsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid debt id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.debts()
	if err := store.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Deuda %d eliminada\n", id)
	return nil
}

func runDebtsPay(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid debt id %q", args[0])
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	dateStr, _ := cmd.Flags().GetString("date")
	notes, _ := cmd.Flags().GetString("notes")

	date, err := parseDate(dateStr)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = model.DateOf(time.Now())
	}

	store := a.debts()
	updated, err := store.AddPayment(cmd.Context(), id, model.DebtPayment{
		Amount:      amount,
		PaymentDate: date,
		Notes:       notes,
	})
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	fmt.Printf("Pago registrado. %s: %s restante (%.1f%%)\n",
		updated.Name, mail.FormatCurrency(updated.RemainingAmount), updated.ProgressPercentage)
	return nil
}

func runDebtsPayments(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid debt id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	payments := a.debts().Payments(cmd.Context(), id)
	if len(payments) == 0 {
		fmt.Println("Sin pagos registrados.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\tAMOUNT\tNOTES\n")
	for _, p := range payments {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.PaymentDate.String(), mail.FormatCurrency(p.Amount), p.Notes)
	}
	w.Flush()
	return nil
}

func runDebtsSummary(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	summary := a.debts().Summary(cmd.Context())

	fmt.Printf("Debes:\n")
	fmt.Printf("  Total:     %s\n", mail.FormatCurrency(summary.Debts.Total))
	fmt.Printf("  Pagado:    %s\n", mail.FormatCurrency(summary.Debts.Paid))
	fmt.Printf("  Restante:  %s\n", mail.FormatCurrency(summary.Debts.Remaining))
	fmt.Printf("Te deben:\n")
	fmt.Printf("  Total:     %s\n", mail.FormatCurrency(summary.Loans.Total))
	fmt.Printf("  Pagado:    %s\n", mail.FormatCurrency(summary.Loans.Paid))
	fmt.Printf("  Restante:  %s\n", mail.FormatCurrency(summary.Loans.Remaining))
	return nil
}
