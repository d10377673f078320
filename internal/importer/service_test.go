package importer_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundsio/funds/internal/importer"
)

func TestService_Import(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name    string
		bank    importer.Bank
		input   string
		wantLen int
		wantErr error
	}{
		{
			name:    "CGD",
			bank:    importer.BankCGD,
			input:   "Data mov.;Descrição;Montante\n30-01-2026;TEST;-10,00\n",
			wantLen: 1,
		},
		{
			name:    "Generic",
			bank:    importer.BankGeneric,
			input:   "date,description,amount\n2025-03-01,Salary,100\n2025-03-02,Coffee,-2.5\n",
			wantLen: 2,
		},
		{
			name:    "UnknownBank",
			bank:    importer.Bank("bpi"),
			wantErr: importer.ErrUnknownBank,
		},
		{
			name:    "Malformed",
			bank:    importer.BankGeneric,
			input:   "foo,bar\n",
			wantErr: importer.ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := importer.NewService()

			rows, err := svc.Import(tt.bank, accountID, strings.NewReader(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, rows, tt.wantLen)

			for _, r := range rows {
				assert.Equal(t, accountID, r.AccountID)
			}
		})
	}
}
