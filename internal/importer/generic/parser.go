// Package generic parses a plain comma separated statement:
//
//	date,description,amount[,type][,category]
//
// Dates are ISO 8601 days. Without a type column the sign of amount decides
// between income and expense.
package generic

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

const (
	colDate        = "date"
	colDescription = "description"
	colAmount      = "amount"
	colType        = "type"
	colCategory    = "category"
)

var ErrMissingColumns = errors.New("header must contain date, description and amount")

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
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingColumns
		}

		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := indexHeader(header)
	for _, required := range []string{colDate, colDescription, colAmount} {
		if _, ok := cols[required]; !ok {
			return nil, ErrMissingColumns
		}
	}

	var out []transaction.CreateParams

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading rows: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if blank(record) {
			continue
		}

		row, err := parseRecord(cols, record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		out = append(out, row)
	}

	return out, nil
}

func parseRecord(cols map[string]int, record []string) (transaction.CreateParams, error) {
	var row transaction.CreateParams

	date, err := time.Parse(time.DateOnly, field(record, cols, colDate))
	if err != nil {
		return row, fmt.Errorf("invalid date: %w", err)
	}

	amount, err := decimal.NewFromString(field(record, cols, colAmount))
	if err != nil {
		return row, fmt.Errorf("invalid amount: %w", err)
	}

	kind := transaction.Type(strings.ToLower(field(record, cols, colType)))

	switch {
	case kind == "" && amount.IsNegative():
		kind = transaction.TypeExpense
	case kind == "":
		kind = transaction.TypeIncome
	case !kind.Valid():
		return row, fmt.Errorf("invalid type %q", kind)
	}

	row.Date = date
	row.Description = field(record, cols, colDescription)
	row.Amount = amount.Abs().Round(2)
	row.Type = kind
	row.Category = field(record, cols, colCategory)

	if row.Amount.IsZero() {
		return row, errors.New("amount must not be zero")
	}

	return row, nil
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	return cols
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}
