package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Period int

const (
	PeriodThisMonth Period = iota
	PeriodLastMonth
	PeriodThisYear
	PeriodAll
	PeriodCustom
)

func (p Period) String() string {
	switch p {
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodThisYear:
		return "This Year"
	case PeriodAll:
		return "All Time"
	case PeriodCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range returns the first and last instant of the period. Both are nil for
// PeriodAll and PeriodCustom.
func (p Period) Range(now time.Time) (*time.Time, *time.Time) {
	var start time.Time

	switch p {
	case PeriodThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodLastMonth:
		start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	case PeriodThisYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)

		return &start, &end
	default:
		return nil, nil
	}

	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	return &start, &end
}

// PeriodSelectedMsg carries the chosen range. Nil bounds are open.
type PeriodSelectedMsg struct {
	Label string
	Start *time.Time
	End   *time.Time
}

// PeriodPicker selects a preset period or a custom date range.
type PeriodPicker struct {
	cursor Period
	custom bool

	start textinput.Model
	end   textinput.Model
	focus int

	err error
}

func NewPeriodPicker() PeriodPicker {
	newInput := func(prompt string) textinput.Model {
		in := textinput.New()
		in.Placeholder = "YYYY-MM-DD"
		in.CharLimit = 10
		in.Width = 12
		in.Prompt = prompt

		return in
	}

	return PeriodPicker{
		start: newInput("From: "),
		end:   newInput("To:   "),
	}
}

// Selecting reports whether the picker is on the preset list, where Esc
// should leave the screen.
func (p PeriodPicker) Selecting() bool {
	return !p.custom
}

func (p PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)

	if p.custom {
		if ok {
			return p.updateCustom(key)
		}

		return p.updateInputs(msg)
	}

	if !ok {
		return p, nil
	}

	switch key.Type {
	case tea.KeyUp:
		if p.cursor > PeriodThisMonth {
			p.cursor--
		}
	case tea.KeyDown:
		if p.cursor < PeriodCustom {
			p.cursor++
		}
	case tea.KeyEnter:
		if p.cursor == PeriodCustom {
			p.custom = true
			p.focus = 0
			p.start.Focus()

			return p, textinput.Blink
		}

		start, end := p.cursor.Range(time.Now())
		sel := PeriodSelectedMsg{Label: p.cursor.String(), Start: start, End: end}

		return p, func() tea.Msg { return sel }
	}

	return p, nil
}

func (p PeriodPicker) updateCustom(key tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch key.String() {
	case "esc":
		p.custom = false
		p.err = nil

		return p, nil
	case "tab", "shift+tab":
		p.focus = 1 - p.focus
		p.start.Blur()
		p.end.Blur()

		if p.focus == 0 {
			p.start.Focus()
		} else {
			p.end.Focus()
		}

		return p, textinput.Blink
	case "enter":
		start, err := time.Parse(time.DateOnly, p.start.Value())
		if err != nil {
			p.err = fmt.Errorf("invalid start date")
			return p, nil
		}

		end, err := time.Parse(time.DateOnly, p.end.Value())
		if err != nil {
			p.err = fmt.Errorf("invalid end date")
			return p, nil
		}

		if end.Before(start) {
			p.err = fmt.Errorf("end date is before start date")
			return p, nil
		}

		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		p.err = nil

		sel := PeriodSelectedMsg{
			Label: fmt.Sprintf("%s to %s", FormatDate(start), FormatDate(end)),
			Start: &start,
			End:   &end,
		}

		return p, func() tea.Msg { return sel }
	}

	return p.updateInputs(key)
}

func (p PeriodPicker) updateInputs(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	var startCmd, endCmd tea.Cmd

	p.start, startCmd = p.start.Update(msg)
	p.end, endCmd = p.end.Update(msg)

	return p, tea.Batch(startCmd, endCmd)
}

func (p PeriodPicker) View() string {
	var s string

	if p.custom {
		s = fmt.Sprintf("Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)",
			p.start.View(), p.end.View())
	} else {
		s = "Select Period:\n\n"
		for i := PeriodThisMonth; i <= PeriodCustom; i++ {
			cursor := " "
			if p.cursor == i {
				cursor = ">"
			}

			s += fmt.Sprintf("%s %s\n", cursor, i)
		}

		s += "\n(Enter to select, Esc to back)"
	}

	if p.err != nil {
		s += "\n\n" + errStyle.Render(fmt.Sprintf("Error: %v", p.err))
	}

	return s
}
