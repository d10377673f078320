package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/goal"
	"github.com/fundsio/funds/internal/ledger"
)

type GoalsModel struct {
	CommonModel
	goalService *goal.Service
	ledger      *ledger.Service

	table table.Model
	goals []*goal.Goal

	loading bool
	status  string
	err     error
}

func NewGoalsModel(common CommonModel, goalSvc *goal.Service, ledgerSvc *ledger.Service) GoalsModel {
	return GoalsModel{
		CommonModel: common,
		goalService: goalSvc,
		ledger:      ledgerSvc,
		loading:     true,
		table: newTable([]table.Column{
			{Title: "Goal", Width: 24},
			{Title: "Progress", Width: 12},
			{Title: "Target", Width: 12},
			{Title: "Done", Width: 6},
			{Title: "Deadline", Width: 12},
		}),
	}
}

func (m GoalsModel) Title() string     { return "Goals" }
func (m GoalsModel) ShortHelp() string { return "Esc: back | p: refresh progress | r: reload" }

func (m GoalsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m GoalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadGoalsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.goals = msg.goals
		m.refreshTable()

		return m, nil

	case goalProgressMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("%s is at %s of %s.", msg.goal.Name, FormatAmount(msg.goal.Progress), FormatAmount(msg.goal.TargetAmount))

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "p":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.goals) {
				return m, m.progressCmd(m.goals[idx])
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m GoalsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading goals...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := framed(m.table.View())
	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *GoalsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.goals))
	for _, g := range m.goals {
		deadline := "-"
		if g.Deadline != nil {
			deadline = FormatDate(*g.Deadline)
		}

		rows = append(rows, table.Row{
			g.Name,
			FormatAmount(g.Progress),
			FormatAmount(g.TargetAmount),
			completion(g.Progress, g.TargetAmount),
			deadline,
		})
	}

	m.table.SetRows(rows)
}

// completion renders progress as a whole percentage of target.
func completion(progress, target decimal.Decimal) string {
	if !target.IsPositive() {
		return "-"
	}

	return progress.Div(target).Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
}

// Messages

type loadGoalsMsg struct {
	goals []*goal.Goal
	err   error
}

type goalProgressMsg struct {
	goal *goal.Goal
	err  error
}

func (m GoalsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		goals, err := m.goalService.List(ctx, m.OwnerID, goal.ListFilter{})

		return loadGoalsMsg{goals: goals, err: err}
	}
}

func (m GoalsModel) progressCmd(g *goal.Goal) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.ledger.GoalProgress(ctx, m.OwnerID, g.ID)

		return goalProgressMsg{goal: updated, err: err}
	}
}
