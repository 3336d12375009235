package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage transaction categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE:  runCategoriesList,
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a category",
	RunE:  runCategoriesAdd,
}

var categoriesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update category fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesUpdate,
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesDelete,
}

var secondaryCmd = &cobra.Command{
	Use:   "secondary",
	Short: "Manage secondary categories",
}

var secondaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List secondary categories",
	RunE:  runSecondaryList,
}

var secondaryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a secondary category",
	RunE:  runSecondaryAdd,
}

var secondaryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a secondary category",
	Args:  cobra.ExactArgs(1),
	RunE:  runSecondaryDelete,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesUpdateCmd)
	categoriesCmd.AddCommand(categoriesDeleteCmd)
	categoriesCmd.AddCommand(secondaryCmd)
	secondaryCmd.AddCommand(secondaryListCmd)
	secondaryCmd.AddCommand(secondaryAddCmd)
	secondaryCmd.AddCommand(secondaryDeleteCmd)

	categoriesListCmd.Flags().StringP("type", "t", "", "Filter by type (ingreso, gasto)")

	categoriesAddCmd.Flags().StringP("name", "n", "", "Category name")
	categoriesAddCmd.Flags().StringP("type", "t", "", "Category type (ingreso, gasto)")
	categoriesAddCmd.Flags().String("icon", "", "Icon identifier")
	categoriesAddCmd.Flags().String("color", "", "Display color")
	_ = categoriesAddCmd.MarkFlagRequired("name")
	_ = categoriesAddCmd.MarkFlagRequired("type")

	categoriesUpdateCmd.Flags().StringP("name", "n", "", "Category name")
	categoriesUpdateCmd.Flags().String("icon", "", "Icon identifier")
	categoriesUpdateCmd.Flags().String("color", "", "Display color")

	secondaryListCmd.Flags().Int("category", 0, "Filter by parent category id")

	secondaryAddCmd.Flags().StringP("name", "n", "", "Secondary category name")
	secondaryAddCmd.Flags().Int("category", 0, "Parent category id")
	_ = secondaryAddCmd.MarkFlagRequired("name")
	_ = secondaryAddCmd.MarkFlagRequired("category")
}

func runCategoriesList(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.categories()
	if err := store.Fetch(cmd.Context()); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	categoryType, _ := cmd.Flags().GetString("type")
	var categories []model.Category
	switch categoryType {
	case model.TransactionIncome:
		categories = store.Income()
	case model.TransactionExpense:
		categories = store.Expense()
	default:
		categories = store.All()
	}
	if len(categories) == 0 {
		fmt.Println("No hay categorías.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tTYPE\tICON\tCOLOR\n")
	for _, c := range categories {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.CategoryType, c.Icon, c.Color)
	}
	w.Flush()
	return nil
}

func runCategoriesAdd(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name, _ := cmd.Flags().GetString("name")
	categoryType, _ := cmd.Flags().GetString("type")
	icon, _ := cmd.Flags().GetString("icon")
	color, _ := cmd.Flags().GetString("color")

	store := a.categories()
	created, err := store.Create(cmd.Context(), model.Category{
		Name:         name,
		CategoryType: categoryType,
		Icon:         icon,
		Color:        color,
	})
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Categoría creada: %s (id %d)\n", created.Name, created.ID)
	return nil
}

func runCategoriesUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid category id %q", args[0])
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
	if cmd.Flags().Changed("icon") {
		v, _ := cmd.Flags().GetString("icon")
		fields["icon"] = v
	}
	if cmd.Flags().Changed("color") {
		v, _ := cmd.Flags().GetString("color")
		fields["color"] = v
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	store := a.categories()
	updated, err := store.Update(cmd.Context(), id, fields)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Categoría actualizada: %s\n", updated.Name)
	return nil
}

func runCategoriesDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid category id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.categories()
	if err := store.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Categoría %d eliminada\n", id)
	return nil
}

func runSecondaryList(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.secondaryCategories()
	if err := store.Fetch(cmd.Context()); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	categories := store.All()
	if category, _ := cmd.Flags().GetInt("category"); category > 0 {
		categories = store.ByCategory(category)
	}
	if len(categories) == 0 {
		fmt.Println("No hay categorías secundarias.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tPARENT\n")
	for _, c := range categories {
		fmt.Fprintf(w, "%d\t%s\t%d\n", c.ID, c.Name, c.Category)
	}
	w.Flush()
	return nil
}

func runSecondaryAdd(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name, _ := cmd.Flags().GetString("name")
	category, _ := cmd.Flags().GetInt("category")

	store := a.secondaryCategories()
	created, err := store.Create(cmd.Context(), model.SecondaryCategory{
		Name:     name,
		Category: category,
	})
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Categoría secundaria creada: %s (id %d)\n", created.Name, created.ID)
	return nil
}

func runSecondaryDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid secondary category id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.secondaryCategories()
	if err := store.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Categoría secundaria %d eliminada\n", id)
	return nil
}
