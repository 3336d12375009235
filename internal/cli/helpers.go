package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

// authedApp wires the app and restores the stored session. Commands that
// talk to protected endpoints go through here.
func authedApp(cmd *cobra.Command) (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if err := a.session.CheckAuth(cmd.Context()); err != nil {
		a.Close()
		return nil, err
	}
	if !a.session.IsAuthenticated() {
		a.Close()
		return nil, errors.New("no has iniciado sesión, usa 'finanzas login'")
	}
	return a, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func parseDate(s string) (model.Date, error) {
	if s == "" {
		return model.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return model.DateOf(t), nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
