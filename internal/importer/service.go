package importer

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/fundsio/funds/internal/importer/cgd"
	"github.com/fundsio/funds/internal/importer/generic"
	"github.com/fundsio/funds/internal/transaction"
)

type Service struct {
	parsers map[Bank]Parser
}

func NewService() *Service {
	return &Service{
		parsers: map[Bank]Parser{
			BankCGD:     cgd.NewParser(),
			BankGeneric: generic.NewParser(),
		},
	}
}

// Import parses r in the given bank's format and assigns every row to
// accountID.
func (s *Service) Import(bank Bank, accountID uuid.UUID, r io.Reader) ([]transaction.CreateParams, error) {
	parser, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBank, bank)
	}

	rows, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, bank, err)
	}

	for i := range rows {
		rows[i].AccountID = accountID
	}

	return rows, nil
}
