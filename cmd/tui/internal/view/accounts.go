package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/ledger"
)

type accountsState int

const (
	accountsStateBrowse accountsState = iota
	accountsStateCreate
)

type AccountsModel struct {
	CommonModel
	accountService *account.Service
	ledger         *ledger.Service

	state    accountsState
	table    table.Model
	accounts []*account.Account
	form     *huh.Form

	loading bool
	status  string
	err     error

	formName   string
	formType   account.Type
	formBudget string
}

func NewAccountsModel(common CommonModel, accSvc *account.Service, ledgerSvc *ledger.Service) AccountsModel {
	return AccountsModel{
		CommonModel:    common,
		accountService: accSvc,
		ledger:         ledgerSvc,
		loading:        true,
		table: newTable([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Type", Width: 8},
			{Title: "Balance", Width: 12},
			{Title: "Budget", Width: 12},
		}),
	}
}

func (m AccountsModel) Title() string { return "Accounts" }

func (m AccountsModel) ShortHelp() string {
	if m.state == accountsStateCreate {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | r: recompute | x: delete | R: refresh"
}

func (m AccountsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadAccountsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.accounts = msg.accounts
		m.refreshTable()

		return m, nil

	case accountActionMsg:
		m.state = accountsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == accountsStateCreate {
		return m.updateCreate(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, Back
		case "R":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.startCreate()
		case "r":
			if acc := m.selected(); acc != nil {
				return m, m.recomputeCmd(acc)
			}
		case "x":
			if acc := m.selected(); acc != nil {
				return m, m.deleteCmd(acc)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountsModel) selected() *account.Account {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return nil
	}

	return m.accounts[idx]
}

func (m AccountsModel) startCreate() (tea.Model, tea.Cmd) {
	m.formName = ""
	m.formType = account.TypeDebit
	m.formBudget = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[account.Type]().
				Title("Type").
				Options(
					huh.NewOption("Debit (tracks income)", account.TypeDebit),
					huh.NewOption("Credit (tracks spending)", account.TypeCredit),
				).
				Value(&m.formType),

			huh.NewInput().
				Title("Budget (optional)").
				Placeholder("0.00").
				Value(&m.formBudget).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := ParseAmount(s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = accountsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m AccountsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading accounts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := framed(m.table.View())

	if m.state == accountsStateCreate && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, formPanel("New Account", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *AccountsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.accounts))
	for _, acc := range m.accounts {
		budget := "-"
		if acc.HasBudget() {
			budget = FormatAmount(*acc.Budget)
		}

		rows = append(rows, table.Row{acc.Name, string(acc.Type), FormatAmount(acc.Balance), budget})
	}

	m.table.SetRows(rows)
}

// Messages

type loadAccountsMsg struct {
	accounts []*account.Account
	err      error
}

type accountActionMsg struct {
	status string
	err    error
}

func (m AccountsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.accountService.List(ctx, m.OwnerID)

		return loadAccountsMsg{accounts: accounts, err: err}
	}
}

func (m AccountsModel) createCmd() tea.Cmd {
	params := account.CreateParams{Name: strings.TrimSpace(m.formName), Type: m.formType}

	if strings.TrimSpace(m.formBudget) != "" {
		budget, err := ParseAmount(m.formBudget)
		if err != nil {
			return func() tea.Msg { return accountActionMsg{err: err} }
		}

		params.Budget = &budget
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		acc, err := m.accountService.Create(ctx, m.OwnerID, params)
		if err != nil {
			return accountActionMsg{err: err}
		}

		return accountActionMsg{status: fmt.Sprintf("Created %s.", acc.Name)}
	}
}

func (m AccountsModel) recomputeCmd(acc *account.Account) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.ledger.RecomputeAccount(ctx, m.OwnerID, acc.ID)
		if err != nil {
			return accountActionMsg{err: err}
		}

		return accountActionMsg{status: recomputeStatus(res.Account.Name, res.Account.Balance, len(res.Notifications))}
	}
}

func recomputeStatus(name string, balance decimal.Decimal, notifications int) string {
	s := fmt.Sprintf("%s balance is %s.", name, FormatAmount(balance))
	if notifications > 0 {
		s += fmt.Sprintf(" %d new notification(s).", notifications)
	}

	return s
}

func (m AccountsModel) deleteCmd(acc *account.Account) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.accountService.Delete(ctx, m.OwnerID, acc.ID); err != nil {
			return accountActionMsg{err: err}
		}

		return accountActionMsg{status: fmt.Sprintf("Deleted %s.", acc.Name)}
	}
}
