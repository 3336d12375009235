package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpmoralesv/finanzas-cli/pkg/storage"
)

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Show or set the UI theme preference",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		raw, ok, err := a.store.Get(cmd.Context(), storage.KeyDarkMode)
		if err != nil {
			return fmt.Errorf("read theme: %w", err)
		}
		if ok && raw == "true" {
			fmt.Println("dark")
		} else {
			fmt.Println("light")
		}
		return nil
	}

	dark := "false"
	if args[0] == "dark" {
		dark = "true"
	}
	if err := a.store.Set(cmd.Context(), storage.KeyDarkMode, dark); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	fmt.Printf("Tema: %s\n", args[0])
	return nil
}
