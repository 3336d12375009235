package mail

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

// FormatCurrency renders an amount rounded to whole pesos with dot
// thousands separators: 1234567.8 -> "$1.234.568".
func FormatCurrency(v decimal.Decimal) string {
	n := v.Round(0).IntPart()
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	return "$" + sign + string(out)
}

// FormatDate renders a date as dd/mm/yyyy, empty for the zero date.
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}
