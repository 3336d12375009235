package cli

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpmoralesv/finanzas-cli/pkg/mail"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

var txCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "Manage income and expense movements",
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	RunE:  runTxList,
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a transaction",
	RunE:  runTxAdd,
}

var txUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update transaction fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxUpdate,
}

var txDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxDelete,
}

var txSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Income/expense totals for a date range",
	RunE:  runTxSummary,
}

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txListCmd)
	txCmd.AddCommand(txAddCmd)
	txCmd.AddCommand(txUpdateCmd)
	txCmd.AddCommand(txDeleteCmd)
	txCmd.AddCommand(txSummaryCmd)

	txListCmd.Flags().Int("page", 0, "Page number")
	txListCmd.Flags().StringP("type", "t", "", "Filter by type (ingreso, gasto)")
	txListCmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	txListCmd.Flags().String("to", "", "End date (YYYY-MM-DD)")
	txListCmd.Flags().Int("category", 0, "Filter by category id")
	txListCmd.Flags().Int("account", 0, "Filter by account id")

	txAddCmd.Flags().StringP("type", "t", "gasto", "Transaction type (ingreso, gasto)")
	txAddCmd.Flags().StringP("amount", "a", "", "Amount")
	txAddCmd.Flags().StringP("description", "d", "", "Description")
	txAddCmd.Flags().String("date", "", "Date (YYYY-MM-DD, default today)")
	txAddCmd.Flags().Int("account", 0, "Account id")
	txAddCmd.Flags().Int("category", 0, "Category id")
	txAddCmd.Flags().Int("secondary-category", 0, "Secondary category id")
	txAddCmd.Flags().Bool("ant-expense", false, "Flag as ant expense")
	_ = txAddCmd.MarkFlagRequired("amount")
	_ = txAddCmd.MarkFlagRequired("account")

	txUpdateCmd.Flags().StringP("amount", "a", "", "Amount")
	txUpdateCmd.Flags().StringP("description", "d", "", "Description")
	txUpdateCmd.Flags().String("date", "", "Date (YYYY-MM-DD)")
	txUpdateCmd.Flags().Int("category", 0, "Category id")

	txSummaryCmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	txSummaryCmd.Flags().String("to", "", "End date (YYYY-MM-DD)")
	txSummaryCmd.Flags().Bool("by-category", false, "Include the per-category breakdown")
}

func runTxList(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	params := url.Values{}
	if page, _ := cmd.Flags().GetInt("page"); page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if t, _ := cmd.Flags().GetString("type"); t != "" {
		params.Set("transaction_type", t)
	}
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		params.Set("date_from", from)
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		params.Set("date_to", to)
	}
	if c, _ := cmd.Flags().GetInt("category"); c > 0 {
		params.Set("category", strconv.Itoa(c))
	}
	if acc, _ := cmd.Flags().GetInt("account"); acc > 0 {
		params.Set("account", strconv.Itoa(acc))
	}

	store := a.transactions()
	if err := store.Fetch(cmd.Context(), params); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	txs := store.All()
	if len(txs) == 0 {
		fmt.Println("No hay transacciones.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tDATE\tTYPE\tAMOUNT\tCATEGORY\tACCOUNT\tDESCRIPTION\n")
	for _, tx := range txs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date.String(), tx.TransactionType,
			mail.FormatCurrency(tx.Amount),
			tx.CategoryName, tx.AccountName, tx.Description,
		)
	}
	w.Flush()

	if p := store.Pagination(); p.Count > 0 {
		fmt.Printf("\nPage %d, %d total\n", p.Page, p.Count)
	}
	return nil
}

func runTxAdd(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	txType, _ := cmd.Flags().GetString("type")
	amountStr, _ := cmd.Flags().GetString("amount")
	description, _ := cmd.Flags().GetString("description")
	dateStr, _ := cmd.Flags().GetString("date")
	account, _ := cmd.Flags().GetInt("account")
	category, _ := cmd.Flags().GetInt("category")
	secondary, _ := cmd.Flags().GetInt("secondary-category")
	antExpense, _ := cmd.Flags().GetBool("ant-expense")

	amount, err := parseAmount(amountStr)
	if err != nil {
		return err
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = model.DateOf(time.Now())
	}

	store := a.transactions()
	created, err := store.Create(cmd.Context(), model.Transaction{
		TransactionType:   txType,
		Amount:            amount,
		Description:       description,
		Date:              date,
		Account:           account,
		Category:          category,
		SecondaryCategory: secondary,
		IsAntExpense:      antExpense,
	})
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	fmt.Printf("Transacción registrada: %s %s (id %d)\n",
		created.TransactionType, mail.FormatCurrency(created.Amount), created.ID)
	return nil
}

func runTxUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid transaction id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	fields := map[string]any{}
	if cmd.Flags().Changed("amount") {
		v, _ := cmd.Flags().GetString("amount")
		amount, err := parseAmount(v)
		if err != nil {
			return err
		}
		fields["amount"] = amount
	}
	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		fields["description"] = v
	}
	if cmd.Flags().Changed("date") {
		v, _ := cmd.Flags().GetString("date")
		date, err := parseDate(v)
		if err != nil {
			return err
		}
		fields["date"] = date
	}
	if cmd.Flags().Changed("category") {
		v, _ := cmd.Flags().GetInt("category")
		fields["category"] = v
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	store := a.transactions()
	updated, err := store.Update(cmd.Context(), id, fields)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Transacción %d actualizada\n", updated.ID)
	return nil
}

func runTxDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid transaction id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.transactions()
	if err := store.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Transacción %d eliminada\n", id)
	return nil
}

func runTxSummary(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	byCategory, _ := cmd.Flags().GetBool("by-category")

	store := a.transactions()
	summary := store.Summary(cmd.Context(), from, to)

	fmt.Printf("Ingresos: %s\n", mail.FormatCurrency(summary.Income))
	fmt.Printf("Gastos:   %s\n", mail.FormatCurrency(summary.Expenses))
	fmt.Printf("Balance:  %s\n", mail.FormatCurrency(summary.Balance))

	if byCategory {
		rows := store.ByCategory(cmd.Context(), from, to)
		if len(rows) > 0 {
			fmt.Printf("\nPor categoría:\n")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "  CATEGORY\tTOTAL\tSHARE\n")
			for _, row := range rows {
				fmt.Fprintf(w, "  %s\t%s\t%.1f%%\n",
					row.CategoryName, mail.FormatCurrency(row.Total), row.Percentage)
			}
			w.Flush()
		}
	}
	return nil
}
