package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fundsio/funds/internal/money"
)

func TestFits(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "Zero", value: "0", want: true},
		{name: "LargestStorable", value: "999999999999.99", want: true},
		{name: "RoundsUpToLimit", value: "999999999999.995", want: false},
		{name: "AtLimit", value: "1000000000000", want: false},
		{name: "NegativeAtLimit", value: "-1000000000000", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.Fits(decimal.RequireFromString(tt.value)))
		})
	}
}
