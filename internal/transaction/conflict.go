package transaction

import "time"

// Conflict pairs an incoming import row with the stored transaction it
// appears to duplicate.
type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

type dupKey struct {
	Date        string
	Amount      string
	Type        Type
	Description string
}

// keyOf compares days in UTC, the zone import rows are parsed in.
func keyOf(date time.Time, amount string, kind Type, description string) dupKey {
	return dupKey{
		Date:        date.UTC().Format(time.DateOnly),
		Amount:      amount,
		Type:        kind,
		Description: description,
	}
}

func incomingKey(p CreateParams) dupKey {
	return keyOf(p.Date, p.Amount.StringFixed(2), p.Type, p.Description)
}

func existingKey(tx *Transaction) dupKey {
	return keyOf(tx.Date, tx.Amount.StringFixed(2), tx.Type, tx.Description)
}

// IsDuplicate reports whether tx matches any of params on date, amount,
// type and description.
func IsDuplicate(tx *Transaction, params []CreateParams) bool {
	k := existingKey(tx)
	for _, p := range params {
		if incomingKey(p) == k {
			return true
		}
	}

	return false
}

// SplitConflicts separates incoming rows that match an existing transaction
// from the ones that are new.
func SplitConflicts(params []CreateParams, existing []*Transaction) ([]CreateParams, []Conflict) {
	lookup := make(map[dupKey]*Transaction, len(existing))
	for _, tx := range existing {
		lookup[existingKey(tx)] = tx
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		if found, ok := lookup[incomingKey(p)]; ok {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: found})
			continue
		}

		newParams = append(newParams, p)
	}

	return newParams, conflicts
}

// DateRange returns the earliest and latest dates of params, which must not
// be empty.
func DateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}
