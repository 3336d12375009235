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

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage savings and reduction goals",
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE:  runGoalsList,
}

var goalsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a goal",
	RunE:  runGoalsAdd,
}

var goalsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update goal fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsUpdate,
}

var goalsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsDelete,
}

var goalsToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a goal's active state",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsToggle,
}

var goalsProgressCmd = &cobra.Command{
	Use:   "progress <id>",
	Short: "Show goal progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsProgress,
}

func init() {
	rootCmd.AddCommand(goalsCmd)
	goalsCmd.AddCommand(goalsListCmd)
	goalsCmd.AddCommand(goalsAddCmd)
	goalsCmd.AddCommand(goalsUpdateCmd)
	goalsCmd.AddCommand(goalsDeleteCmd)
	goalsCmd.AddCommand(goalsToggleCmd)
	goalsCmd.AddCommand(goalsProgressCmd)

	goalsListCmd.Flags().Bool("all", false, "Include inactive goals")
	goalsListCmd.Flags().StringP("type", "t", "", "Filter by type (savings, category_reduction)")

	goalsAddCmd.Flags().StringP("name", "n", "", "Goal name")
	goalsAddCmd.Flags().StringP("type", "t", "savings", "Goal type (savings, category_reduction)")
	goalsAddCmd.Flags().StringP("target", "T", "", "Target amount")
	goalsAddCmd.Flags().String("date", "", "Target date (YYYY-MM-DD)")
	goalsAddCmd.Flags().Int("category", 0, "Category id (reduction goals)")
	goalsAddCmd.Flags().StringP("description", "d", "", "Description")
	_ = goalsAddCmd.MarkFlagRequired("name")
	_ = goalsAddCmd.MarkFlagRequired("target")

	goalsUpdateCmd.Flags().StringP("name", "n", "", "Goal name")
	goalsUpdateCmd.Flags().StringP("target", "T", "", "Target amount")
	goalsUpdateCmd.Flags().String("date", "", "Target date (YYYY-MM-DD)")
}

func runGoalsList(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.goals()
	if err := store.Fetch(cmd.Context()); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	all, _ := cmd.Flags().GetBool("all")
	goalType, _ := cmd.Flags().GetString("type")

	var goals []model.Goal
	switch {
	case goalType == model.GoalSavings:
		goals = store.Savings()
	case goalType == model.GoalCategoryReduction:
		goals = store.CategoryReduction()
	case all:
		goals = store.All()
	default:
		goals = store.Active()
	}
	if len(goals) == 0 {
		fmt.Println("No hay metas. Usa 'finanzas goals add' para crear una.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tTYPE\tTARGET\tCURRENT\tDATE\tACTIVE\tDONE\n")
	for _, g := range goals {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			g.ID, g.Name, g.GoalType,
			mail.FormatCurrency(g.TargetAmount), mail.FormatCurrency(g.CurrentAmount),
			g.TargetDate.String(), yesNo(g.IsActive), yesNo(g.IsCompleted),
		)
	}
	w.Flush()
	return nil
}

func runGoalsAdd(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name, _ := cmd.Flags().GetString("name")
	goalType, _ := cmd.Flags().GetString("type")
	targetStr, _ := cmd.Flags().GetString("target")
	dateStr, _ := cmd.Flags().GetString("date")
	category, _ := cmd.Flags().GetInt("category")
	description, _ := cmd.Flags().GetString("description")

	target, err := parseAmount(targetStr)
	if err != nil {
		return err
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return err
	}

	goal := model.Goal{
		Name:         name,
		GoalType:     goalType,
		TargetAmount: target,
		TargetDate:   date,
		IsActive:     true,
		Description:  description,
	}
	if category > 0 {
		goal.Category = &category
	}

	store := a.goals()
	created, err := store.Create(cmd.Context(), goal)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Meta creada: %s (id %d)\n", created.Name, created.ID)
	return nil
}

func runGoalsUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid goal id %q", args[0])
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
	if cmd.Flags().Changed("target") {
		v, _ := cmd.Flags().GetString("target")
		target, err := parseAmount(v)
		if err != nil {
			return err
		}
		fields["target_amount"] = target
	}
	if cmd.Flags().Changed("date") {
		v, _ := cmd.Flags().GetString("date")
		date, err := parseDate(v)
		if err != nil {
			return err
		}
		fields["target_date"] = date
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	store := a.goals()
	updated, err := store.Update(cmd.Context(), id, fields)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Meta actualizada: %s\n", updated.Name)
	return nil
}

func runGoalsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid goal id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.goals()
	if err := store.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Meta %d eliminada\n", id)
	return nil
}

func runGoalsToggle(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid goal id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.goals()
	updated, err := store.ToggleActive(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	state := "inactiva"
	if updated.IsActive {
		state = "activa"
	}
	fmt.Printf("Meta %s ahora %s\n", updated.Name, state)
	return nil
}

func runGoalsProgress(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid goal id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	progress := a.goals().Progress(cmd.Context(), id)
	if progress == nil {
		return fmt.Errorf("no se pudo cargar el progreso de la meta %d", id)
	}

	fmt.Printf("Progreso:  %.1f%%\n", progress.Percentage)
	fmt.Printf("Actual:    %s\n", mail.FormatCurrency(progress.CurrentAmount))
	fmt.Printf("Objetivo:  %s\n", mail.FormatCurrency(progress.TargetAmount))
	fmt.Printf("Restante:  %s\n", mail.FormatCurrency(progress.RemainingAmount))
	fmt.Printf("Días:      %d\n", progress.DaysRemaining)
	return nil
}
