package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpmoralesv/finanzas-cli/pkg/notify"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Evaluate and manage client-local alerts",
}

var alertsCheckCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"list"},
	Short:   "Evaluate debts and budgets, list pending alerts",
	RunE:    runAlertsCheck,
}

var alertsDismissCmd = &cobra.Command{
	Use:   "dismiss <alert-id>",
	Short: "Suppress an alert for a while",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsDismiss,
}

var alertsDismissAllCmd = &cobra.Command{
	Use:   "dismiss-all",
	Short: "Suppress every pending alert",
	RunE:  runAlertsDismissAll,
}

var alertsReadCmd = &cobra.Command{
	Use:   "read <alert-id>",
	Short: "Mark an alert as read",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsRead,
}

var alertsSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Email every pending alert now",
	RunE:  runAlertsSend,
}

var alertsPrefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show notification preferences",
	RunE:  runAlertsPrefs,
}

var alertsPrefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update notification preferences",
	RunE:  runAlertsPrefsSet,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsCheckCmd)
	alertsCmd.AddCommand(alertsDismissCmd)
	alertsCmd.AddCommand(alertsDismissAllCmd)
	alertsCmd.AddCommand(alertsReadCmd)
	alertsCmd.AddCommand(alertsSendCmd)
	alertsCmd.AddCommand(alertsPrefsCmd)
	alertsPrefsCmd.AddCommand(alertsPrefsSetCmd)

	alertsCheckCmd.Flags().String("filter", "unread", "Pending view (unread, read)")
	alertsCheckCmd.Flags().Bool("no-email", false, "Skip email dispatch")

	alertsDismissCmd.Flags().Int("hours", notify.DefaultDismissHours, "Suppression window in hours")
	alertsDismissAllCmd.Flags().Int("hours", notify.DefaultDismissHours, "Suppression window in hours")

	alertsPrefsSetCmd.Flags().Bool("email", true, "Enable email notifications")
	alertsPrefsSetCmd.Flags().Bool("debt-reminders", true, "Enable debt reminders")
	alertsPrefsSetCmd.Flags().Int("debt-days", 7, "Days before due date to start reminding")
	alertsPrefsSetCmd.Flags().Bool("budget-alerts", true, "Enable budget alerts")
}

// checkedEngine runs one evaluation cycle over the live collections.
// With noEmail the mailer is withheld, so nothing is dispatched.
func checkedEngine(cmd *cobra.Command, a *app, noEmail bool) *notify.Engine {
	mailer := a.mailer()
	if noEmail {
		mailer = nil
	}
	engine := notify.New(cmd.Context(), a.debts(), a.budgets(), mailer, a.store, a.session.Contact, a.logger)
	engine.Evaluate(cmd.Context())
	engine.Wait()
	return engine
}

func printAlerts(alerts []notify.Alert) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSEVERITY\tTITLE\tMESSAGE\n")
	for _, alert := range alerts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", alert.ID, alert.Severity, alert.Title, alert.Message)
	}
	w.Flush()
}

func runAlertsCheck(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	noEmail, _ := cmd.Flags().GetBool("no-email")
	engine := checkedEngine(cmd, a, noEmail)

	if filter, _ := cmd.Flags().GetString("filter"); filter == string(notify.FilterRead) {
		engine.SetFilter(notify.FilterRead)
	}

	pending := engine.Pending()
	if len(pending) == 0 {
		fmt.Println("Sin alertas pendientes.")
		return nil
	}

	printAlerts(pending)
	fmt.Printf("\n%d sin leer\n", engine.Count())
	return nil
}

func runAlertsDismiss(cmd *cobra.Command, args []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	hours, _ := cmd.Flags().GetInt("hours")
	engine := checkedEngine(cmd, a, true)

	if err := engine.Dismiss(cmd.Context(), args[0], hours); err != nil {
		return err
	}
	fmt.Printf("Alerta %s descartada por %d horas\n", args[0], hours)
	return nil
}

func runAlertsDismissAll(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	hours, _ := cmd.Flags().GetInt("hours")
	engine := checkedEngine(cmd, a, true)

	count := len(engine.Pending())
	if err := engine.DismissAll(cmd.Context(), hours); err != nil {
		return err
	}
	fmt.Printf("%d alertas descartadas\n", count)
	return nil
}

func runAlertsRead(cmd *cobra.Command, args []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	engine := checkedEngine(cmd, a, true)
	if err := engine.MarkRead(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Alerta %s marcada como leída\n", args[0])
	return nil
}

func runAlertsSend(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.Email.Enabled {
		return fmt.Errorf("el envío de correos está deshabilitado en la configuración")
	}

	engine := notify.New(cmd.Context(), a.debts(), a.budgets(), a.mailer(), a.store, a.session.Contact, a.logger, notify.WithManualEmail())
	engine.Evaluate(cmd.Context())
	engine.Wait()

	email, name := a.session.Contact()
	if email == "" {
		return fmt.Errorf("no hay destinatario")
	}

	outcomes := engine.SendAllPending(cmd.Context(), email, name)
	if len(outcomes) == 0 {
		fmt.Println("Sin alertas pendientes.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSENT\tREASON\n")
	for _, o := range outcomes {
		reason := o.Result.Reason
		if o.Result.Err != nil {
			reason = o.Result.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", o.Alert.ID, yesNo(o.Result.Success), reason)
	}
	w.Flush()
	return nil
}

func runAlertsPrefs(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	prefs := notify.LoadPreferences(cmd.Context(), a.store, a.logger)
	fmt.Printf("Email:            %s\n", yesNo(prefs.EmailNotifications))
	fmt.Printf("Deudas:           %s\n", yesNo(prefs.DebtReminders))
	fmt.Printf("Días de aviso:    %d\n", prefs.DebtDaysBefore)
	fmt.Printf("Presupuestos:     %s\n", yesNo(prefs.BudgetAlerts))
	return nil
}

func runAlertsPrefsSet(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	prefs := notify.LoadPreferences(cmd.Context(), a.store, a.logger)
	if cmd.Flags().Changed("email") {
		prefs.EmailNotifications, _ = cmd.Flags().GetBool("email")
	}
	if cmd.Flags().Changed("debt-reminders") {
		prefs.DebtReminders, _ = cmd.Flags().GetBool("debt-reminders")
	}
	if cmd.Flags().Changed("debt-days") {
		prefs.DebtDaysBefore, _ = cmd.Flags().GetInt("debt-days")
	}
	if cmd.Flags().Changed("budget-alerts") {
		prefs.BudgetAlerts, _ = cmd.Flags().GetBool("budget-alerts")
	}

	if err := notify.SavePreferences(cmd.Context(), a.store, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	fmt.Println("Preferencias guardadas")
	return nil
}
