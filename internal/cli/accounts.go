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

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage money accounts",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE:  runAccountsList,
}

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account",
	RunE:  runAccountsAdd,
}

var accountsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update account fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountsUpdate,
}

var accountsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountsDelete,
}

var accountsSetBalanceCmd = &cobra.Command{
	Use:   "set-balance <id> <amount>",
	Short: "Rewrite the opening balance of an account",
	Args:  cobra.ExactArgs(2),
	RunE:  runAccountsSetBalance,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsUpdateCmd)
	accountsCmd.AddCommand(accountsDeleteCmd)
	accountsCmd.AddCommand(accountsSetBalanceCmd)

	accountsListCmd.Flags().Bool("all", false, "Include inactive accounts")

	accountsAddCmd.Flags().StringP("name", "n", "", "Account name")
	accountsAddCmd.Flags().StringP("type", "t", "cash", "Account type (cash, bank, card)")
	accountsAddCmd.Flags().StringP("balance", "b", "0", "Initial balance")
	accountsAddCmd.Flags().String("currency", "CLP", "Currency code")
	accountsAddCmd.Flags().Bool("exclude-from-total", false, "Leave out of the total balance")
	_ = accountsAddCmd.MarkFlagRequired("name")

	accountsUpdateCmd.Flags().StringP("name", "n", "", "Account name")
	accountsUpdateCmd.Flags().StringP("type", "t", "", "Account type")
	accountsUpdateCmd.Flags().Bool("active", true, "Active state")
	accountsUpdateCmd.Flags().Bool("include-in-total", true, "Count towards the total balance")
}

func runAccountsList(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.accounts()
	if err := store.Fetch(cmd.Context()); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	all, _ := cmd.Flags().GetBool("all")
	accounts := store.Active()
	if all {
		accounts = store.All()
	}
	if len(accounts) == 0 {
		fmt.Println("No hay cuentas. Usa 'finanzas accounts add' para crear una.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tTYPE\tBALANCE\tIN TOTAL\tACTIVE\n")
	for _, acc := range accounts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			acc.ID, acc.Name, acc.AccountType,
			mail.FormatCurrency(acc.Balance),
			yesNo(acc.IncludeInTotal), yesNo(acc.IsActive),
		)
	}
	w.Flush()

	fmt.Printf("\nTotal: %s\n", mail.FormatCurrency(store.TotalBalance()))
	return nil
}

func runAccountsAdd(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name, _ := cmd.Flags().GetString("name")
	accountType, _ := cmd.Flags().GetString("type")
	balanceStr, _ := cmd.Flags().GetString("balance")
	currency, _ := cmd.Flags().GetString("currency")
	exclude, _ := cmd.Flags().GetBool("exclude-from-total")

	balance, err := parseAmount(balanceStr)
	if err != nil {
		return err
	}

	store := a.accounts()
	created, err := store.Create(cmd.Context(), model.Account{
		Name:           name,
		AccountType:    accountType,
		InitialBalance: balance,
		Currency:       currency,
		IncludeInTotal: !exclude,
		IsActive:       true,
	})
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	fmt.Printf("Cuenta creada: %s (id %d)\n", created.Name, created.ID)
	return nil
}

func runAccountsUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid account id %q", args[0])
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
	if cmd.Flags().Changed("type") {
		v, _ := cmd.Flags().GetString("type")
		fields["account_type"] = v
	}
	if cmd.Flags().Changed("active") {
		v, _ := cmd.Flags().GetBool("active")
		fields["is_active"] = v
	}
	if cmd.Flags().Changed("include-in-total") {
		v, _ := cmd.Flags().GetBool("include-in-total")
		fields["include_in_total"] = v
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	store := a.accounts()
	updated, err := store.Update(cmd.Context(), id, fields)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Cuenta actualizada: %s\n", updated.Name)
	return nil
}

func runAccountsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid account id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.accounts()
	if err := store.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Cuenta %d eliminada\n", id)
	return nil
}

func runAccountsSetBalance(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid account id %q", args[0])
	}
	balance, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.accounts()
	updated, err := store.SetInitialBalance(cmd.Context(), id, balance)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Saldo de %s: %s\n", updated.Name, mail.FormatCurrency(updated.Balance))
	return nil
}
