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

var betsCmd = &cobra.Command{
	Use:   "bets",
	Short: "Track sports bets",
}

var betsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bets",
	RunE:  runBetsList,
}

var betsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a bet",
	RunE:  runBetsAdd,
}

var betsSettleCmd = &cobra.Command{
	Use:   "settle <id>",
	Short: "Record the result of a bet",
	Args:  cobra.ExactArgs(1),
	RunE:  runBetsSettle,
}

var betsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a bet",
	Args:  cobra.ExactArgs(1),
	RunE:  runBetsDelete,
}

var betsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show betting statistics",
	RunE:  runBetsStats,
}

func init() {
	rootCmd.AddCommand(betsCmd)
	betsCmd.AddCommand(betsListCmd)
	betsCmd.AddCommand(betsAddCmd)
	betsCmd.AddCommand(betsSettleCmd)
	betsCmd.AddCommand(betsDeleteCmd)
	betsCmd.AddCommand(betsStatsCmd)

	betsListCmd.Flags().String("result", "", "Filter by result (ganó, perdió, pendiente)")
	betsListCmd.Flags().StringP("type", "t", "", "Filter by bet type")
	betsListCmd.Flags().Bool("pending", false, "Only unsettled bets")

	betsAddCmd.Flags().StringP("event", "e", "", "Event name")
	betsAddCmd.Flags().StringP("type", "t", "", "Bet type")
	betsAddCmd.Flags().String("sport", "", "Sport type")
	betsAddCmd.Flags().StringP("amount", "a", "", "Bet amount")
	betsAddCmd.Flags().String("odds", "", "Odds")
	betsAddCmd.Flags().String("date", "", "Date (YYYY-MM-DD, default today)")
	betsAddCmd.Flags().Int("account", 0, "Account id")
	betsAddCmd.Flags().String("notes", "", "Notes")
	_ = betsAddCmd.MarkFlagRequired("event")
	_ = betsAddCmd.MarkFlagRequired("amount")

	betsSettleCmd.Flags().StringP("result", "r", "", "Result (ganó, perdió)")
	betsSettleCmd.Flags().String("payout", "", "Payout amount")
	_ = betsSettleCmd.MarkFlagRequired("result")
}

func runBetsList(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	params := url.Values{}
	if result, _ := cmd.Flags().GetString("result"); result != "" {
		params.Set("result", result)
	}
	if betType, _ := cmd.Flags().GetString("type"); betType != "" {
		params.Set("bet_type", betType)
	}

	store := a.bets()
	if err := store.Fetch(cmd.Context(), params); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	bets := store.All()
	if pending, _ := cmd.Flags().GetBool("pending"); pending {
		bets = store.Pending()
	}
	if len(bets) == 0 {
		fmt.Println("No hay apuestas.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tDATE\tEVENT\tTYPE\tAMOUNT\tRESULT\tPAYOUT\n")
	for _, b := range bets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Date.String(), b.EventName, b.BetType,
			mail.FormatCurrency(b.BetAmount), b.Result,
			mail.FormatCurrency(b.PayoutAmount),
		)
	}
	w.Flush()
	return nil
}

func runBetsAdd(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	event, _ := cmd.Flags().GetString("event")
	betType, _ := cmd.Flags().GetString("type")
	sport, _ := cmd.Flags().GetString("sport")
	amountStr, _ := cmd.Flags().GetString("amount")
	oddsStr, _ := cmd.Flags().GetString("odds")
	dateStr, _ := cmd.Flags().GetString("date")
	account, _ := cmd.Flags().GetInt("account")
	notes, _ := cmd.Flags().GetString("notes")

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

	bet := model.Bet{
		BetType:   betType,
		EventName: event,
		SportType: sport,
		BetAmount: amount,
		Result:    model.BetPending,
		Date:      date,
		Notes:     notes,
	}
	if oddsStr != "" {
		odds, err := parseAmount(oddsStr)
		if err != nil {
			return err
		}
		bet.Odds = &odds
	}
	if account > 0 {
		bet.Account = &account
	}

	store := a.bets()
	created, err := store.Create(cmd.Context(), bet)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Apuesta registrada: %s (id %d)\n", created.EventName, created.ID)
	return nil
}

func runBetsSettle(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid bet id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	result, _ := cmd.Flags().GetString("result")
	payoutStr, _ := cmd.Flags().GetString("payout")

	fields := map[string]any{"result": result}
	if payoutStr != "" {
		payout, err := parseAmount(payoutStr)
		if err != nil {
			return err
		}
		fields["payout_amount"] = payout
	}

	store := a.bets()
	updated, err := store.Update(cmd.Context(), id, fields)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Apuesta %s: %s\n", updated.EventName, updated.Result)
	return nil
}

func runBetsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid bet id %q", args[0])
	}

	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.bets()
	if err := store.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}
	fmt.Printf("Apuesta %d eliminada\n", id)
	return nil
}

func runBetsStats(cmd *cobra.Command, _ []string) error {
	a, err := authedApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	stats := a.bets().FetchStatistics(cmd.Context())

	fmt.Printf("Apostado:   %s\n", mail.FormatCurrency(stats.TotalBet))
	fmt.Printf("Ganado:     %s\n", mail.FormatCurrency(stats.TotalWon))
	fmt.Printf("Perdido:    %s\n", mail.FormatCurrency(stats.TotalLost))
	fmt.Printf("Neto:       %s\n", mail.FormatCurrency(stats.NetResult))
	fmt.Printf("ROI:        %.1f%%\n", stats.ROI)
	fmt.Printf("Apuestas:   %d (%d ganadas, %d perdidas, %d pendientes)\n",
		stats.TotalBets, stats.WonCount, stats.LostCount, stats.PendingCount)
	fmt.Printf("Efectividad: %.1f%%\n", stats.WinRate)
	return nil
}
