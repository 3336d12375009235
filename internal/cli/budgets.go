package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpmoralesv/finanzas-cli/pkg/mail"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Manage per-category spending limits",
}

var budgetsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show budget usage",
	RunE:  runBudgetsStatus,
}

var budgetsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a budget",
	RunE:  runBudgetsAdd,
}

var budgetsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update budget fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetsUpdate,
}

var budgetsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetsDelete,
}

func init() {
	rootCmd.AddCommand(budgetsCmd)
	budgetsCmd.AddCommand(budgetsStatusCmd)
	budgetsCmd.AddCommand(budgetsAddCmd)
	budgetsCmd.AddCommand(budgetsUpdateCmd)
	budgetsCmd.AddCommand(budgetsDeleteCmd)

	budgetsStatusCmd.Flags().Bool("all", false, "Include inactive budgets")

	budgetsAddCmd.Flags().Int("category", 0, "Category id")
	budgetsAddCmd.Flags().StringP("limit", "l", "", "Spending limit")
	budgetsAddCmd.Flags().StringP("period", "P", "monthly", "Budget period (weekly, monthly, yearly)")
	budgetsAddCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	budgetsAddCmd.Flags().Float64("alert-at", 80, "Alert threshold percentage")
	_ = budgetsAddCmd.MarkFlagRequired("category")
	_ = budgetsAddCmd.MarkFlagRequired("limit")

	budgetsUpdateCmd.Flags().StringP("limit", "l", "", "Spending limit")
	budgetsUpdateCmd.Flags().Float64("alert-at", 0, "Alert threshold percentage")
	budgetsUpdateCmd.Flags().Bool("active", true, "Active state")
}

func runBudgetsStatus(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.budgets()
	if err := store.Fetch(cmd.Context()); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	all, _ := cmd.Flags().GetBool("all")
	budgets := store.Active()
	if all {
		budgets = store.All()
	}
	if len(budgets) == 0 {
		fmt.Println("No hay presupuestos. Usa 'finanzas budgets add' para crear uno.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tCATEGORY\tPERIOD\tLIMIT\tSPENT\tUSAGE\tALERT AT\n")
	for _, b := range budgets {
		pct := b.SpentPercentage()
		status := ""
		switch {
		case pct >= 100:
			status = " [EXCEEDED]"
		case pct >= b.EffectiveThreshold():
			status = " [WARNING]"
		}

		category := b.CategoryName
		if category == "" {
			category = "General"
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.1f%%%s\t%.0f%%\n",
			b.ID, category, b.Period,
			mail.FormatCurrency(b.AmountLimit), mail.FormatCurrency(b.Spent),
			pct, status, b.EffectiveThreshold(),
		)
	}
	w.Flush()
	return nil
}

func runBudgetsAdd(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	category, _ := cmd.Flags().GetInt("category")
	limitStr, _ := cmd.Flags().GetString("limit")
	period, _ := cmd.Flags().GetString("period")
	startStr, _ := cmd.Flags().GetString("start")
	alertAt, _ := cmd.Flags().GetFloat64("alert-at")

	limit, err := parseAmount(limitStr)
	if err != nil {
		return err
	}
	start, err := parseDate(startStr)
	if err != nil {
		return err
	}

	store := a.budgets()
	created, err := store.Create(cmd.Context(), model.Budget{
		Category:       category,
		AmountLimit:    limit,
		Period:         period,
		StartDate:      start,
		IsActive:       true,
		AlertThreshold: alertAt,
	})
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Presupuesto creado (id %d): %s %s\n",
		created.ID, mail.FormatCurrency(created.AmountLimit), created.Period)
	return nil
}

func runBudgetsUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid budget id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	fields := map[string]any{}
	if cmd.Flags().Changed("limit") {
		v, _ := cmd.Flags().GetString("limit")
		limit, err := parseAmount(v)
		if err != nil {
			return err
		}
		fields["amount_limit"] = limit
	}
	if cmd.Flags().Changed("alert-at") {
		v, _ := cmd.Flags().GetFloat64("alert-at")
		fields["alert_threshold"] = v
	}
	if cmd.Flags().Changed("active") {
		v, _ := cmd.Flags().GetBool("active")
		fields["is_active"] = v
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	store := a.budgets()
	updated, err := store.Update(cmd.Context(), id, fields)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Presupuesto %d actualizado\n", updated.ID)
	return nil
}

func runBudgetsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid budget id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.budgets()
	if err := store.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Presupuesto %d eliminado\n", id)
	return nil
}
