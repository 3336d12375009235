package mail_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jpmoralesv/finanzas-cli/pkg/mail"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0"},
		{"999", "$999"},
		{"1000", "$1.000"},
		{"1234567.8", "$1.234.568"},
		{"1000000", "$1.000.000"},
		{"-45000", "$-45.000"},
		{"12.4", "$12"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := decimal.NewFromString(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, mail.FormatCurrency(v))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "20/06/2025", mail.FormatDate(model.NewDate(2025, 6, 20)))
	assert.Equal(t, "", mail.FormatDate(model.Date{}))
}
