package cgd_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/fundsio/funds/internal/importer/cgd"
	"github.com/fundsio/funds/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func assertRow(t *testing.T, got transaction.CreateParams, when time.Time, desc, amount string, kind transaction.Type) {
	t.Helper()

	assert.Equal(t, when, got.Date)
	assert.Equal(t, desc, got.Description)
	assert.Equal(t, amount, got.Amount.StringFixed(2))
	assert.Equal(t, kind, got.Type)
}

func TestParser_Conta(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR
Saldo disponível;1.000,00 EUR

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	txs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assertRow(t, txs[0], date(2026, 1, 30), "INSTITUTO GESTAO FINA", "588.74", transaction.TypeExpense)
	assertRow(t, txs[1], date(2026, 1, 9), "TFI Wise", "8608.52", transaction.TypeIncome)
}

func TestParser_Extrato(t *testing.T) {
	csv := `Consultar extrato - 15-02-2026 : 0829015676030
Conta ;0829015676030 - EUR - Conta Extracto
Saldo contabilístico Inicial ;48.825,46

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

	txs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assertRow(t, txs[0], date(2026, 2, 13), "PAGAMENTO TSU", "608.13", transaction.TypeExpense)
	assertRow(t, txs[1], date(2026, 2, 4), "TFI Wise", "4324.06", transaction.TypeIncome)
}

func TestParser_Cartao(t *testing.T) {
	csv := `Consultar saldos e movimentos de cartões - 15-02-2026
Conta cartão ;4163 **** **** 8016 - EUR - Business Débito

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR ;64,00 ; ;
16-12-2025 ;14-12-2025 ;REFUND AMAZON ;  ;25,00 ;
 ; ; ; ;Página 1/2 ;
`

	txs, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assertRow(t, txs[0], date(2025, 12, 16), "PA GONDOMAR", "64.00", transaction.TypeExpense)
	assertRow(t, txs[1], date(2025, 12, 16), "REFUND AMAZON", "25.00", transaction.TypeIncome)
}

func TestParser_Windows1252(t *testing.T) {
	utf8CSV := "Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	txs, err := cgd.NewParser().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "CAFÉ CENTRAL", txs[0].Description)
}

func TestParser_Rows(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		wantLen    int
		wantAmount string
		wantErr    string
	}{
		{
			name:       "DifferentColumnOrder",
			csv:        "Random;MetaData\nMontante;Descrição;Data mov.;Ignored\n-10,00;TEST_ORDER;30-01-2026;XXX\n",
			wantLen:    1,
			wantAmount: "10.00",
		},
		{
			name:       "LargeAmount",
			csv:        "Data mov.;Descrição;Montante\n30-01-2026;BIG TRANSFER;-1.234.567,89\n",
			wantLen:    1,
			wantAmount: "1234567.89",
		},
		{
			name:       "SkipsFooterAndZeroRows",
			csv:        "Data mov.;Descrição;Montante\n30-01-2026;TEST;-10,00\n31-01-2026;ZERO;0,00\nTotais;;;;\n",
			wantLen:    1,
			wantAmount: "10.00",
		},
		{
			name:    "HeaderOnly",
			csv:     "Data mov.;Data-valor;Descrição;Montante",
			wantLen: 0,
		},
		{
			name:    "MissingDescription",
			csv:     "Data mov.;Descrição;Montante\n30-01-2026;;-10,00\n",
			wantErr: "missing description",
		},
		{
			name:    "UnknownFormat",
			csv:     "",
			wantErr: "no matching CGD format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := cgd.NewParser().Parse(strings.NewReader(tt.csv))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			require.Len(t, txs, tt.wantLen)

			if tt.wantLen > 0 {
				assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(txs[0].Amount))
			}
		})
	}
}
