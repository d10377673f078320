// Package cgd parses Caixa Geral de Depósitos CSV exports.
package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/fundsio/funds/internal/encoding"
	"github.com/fundsio/funds/internal/transaction"
)

const dateLayout = "02-01-2006"

var ErrUnknownFormat = errors.New("no matching CGD format: expected conta, extrato or cartão columns")

// Parser auto-detects which CGD export (conta, extrato, cartão) it is given
// by matching the header row against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	profile, cols, header := detectProfile(rows)
	if profile == nil {
		return nil, ErrUnknownFormat
	}

	return parseRows(profile, cols, rows[header+1:], header+1)
}

type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex, len(row))

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].matches(cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// parseRows skips rows without a date or a non-zero amount (footers,
// page markers). offset is the file index of the first data row.
func parseRows(p *Profile, cols colIndex, rows [][]string, offset int) ([]transaction.CreateParams, error) {
	var out []transaction.CreateParams

	for i, row := range rows {
		date, ok := parseDate(cell(row, cols[p.DateCol]))
		if !ok {
			continue
		}

		desc := cell(row, cols[p.DescCol])
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", offset+i+1)
		}

		amount, kind, ok := p.amount(cols, row)
		if !ok {
			continue
		}

		out = append(out, transaction.CreateParams{
			Type:        kind,
			Amount:      amount,
			Description: desc,
			Date:        date,
		})
	}

	return out, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// signed turns a signed amount into a positive amount and its type.
func signed(s string) (decimal.Decimal, transaction.Type, bool) {
	if s == "" {
		return decimal.Zero, "", false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, "", false
	}

	if d.IsNegative() {
		return d.Neg(), transaction.TypeExpense, true
	}

	return d, transaction.TypeIncome, true
}

// unsigned reads a debit or credit column where the sign is implied.
func unsigned(s string, kind transaction.Type) (decimal.Decimal, transaction.Type, bool) {
	d, _, ok := signed(s)
	if !ok {
		return decimal.Zero, "", false
	}

	return d.Abs(), kind, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
