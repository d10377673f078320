package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/ledger"
	"github.com/fundsio/funds/internal/matching"
	"github.com/fundsio/funds/internal/transaction"
)

type txState int

const (
	txStatePeriod txState = iota
	txStateList
	txStateEditing
	txStateCreating
)

type txItem struct {
	tx *transaction.Transaction
}

func (i txItem) Title() string {
	sign := "+"
	if i.tx.Type == transaction.TypeExpense {
		sign = "-"
	}

	return fmt.Sprintf("%s  %s%s  %s", FormatDate(i.tx.Date), sign, FormatAmount(i.tx.Amount), i.tx.Description)
}

func (i txItem) Description() string {
	category := i.tx.Category
	if category == "" {
		category = "uncategorized"
	}

	return fmt.Sprintf("%s · %s", i.tx.AccountName, category)
}

func (i txItem) FilterValue() string {
	return i.tx.Description + " " + i.tx.Category
}

type TransactionsModel struct {
	CommonModel
	txService       *transaction.Service
	accountService  *account.Service
	matchingService *matching.Service
	ledger          *ledger.Service

	state      txState
	picker     PeriodPicker
	list       list.Model
	form       *huh.Form
	txs        []*transaction.Transaction
	accounts   []*account.Account
	selectedTx *transaction.Transaction

	period  PeriodSelectedMsg
	loading bool
	status  string

	formAccount  uuid.UUID
	formType     transaction.Type
	formAmount   string
	formCategory string
	formDesc     string
	formDate     string
}

func NewTransactionsModel(
	common CommonModel,
	txSvc *transaction.Service,
	accSvc *account.Service,
	matchSvc *matching.Service,
	ledgerSvc *ledger.Service,
) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return TransactionsModel{
		CommonModel:     common,
		txService:       txSvc,
		accountService:  accSvc,
		matchingService: matchSvc,
		ledger:          ledgerSvc,
		picker:          NewPeriodPicker(),
		list:            l,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStatePeriod:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | Enter: edit | n: new | x: delete | /: filter"
	case txStateEditing, txStateCreating:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.period = msg
		m.loading = true
		m.state = txStateList
		m.list.Title = "Transactions · " + msg.Label

		return m, m.loadTxsCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.accounts = msg.accounts
		m.refreshListItems()

		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case saveTxResultMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStatePeriod:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.picker.Selecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	case txStateList:
		return m.updateList(msg)
	case txStateEditing, txStateCreating:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch key.String() {
		case "esc":
			m.state = txStatePeriod
			m.status = ""

			return m, nil
		case "enter":
			return m.startEditing()
		case "n":
			return m.startCreating()
		case "x":
			if selected, ok := m.list.SelectedItem().(txItem); ok {
				return m, m.deleteCmd(selected.tx)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startEditing() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.selectedTx = selected.tx
	m.formDesc = selected.tx.Description
	m.formCategory = selected.tx.Category

	if m.formCategory == "" {
		ctx, cancel := DbCtx()
		defer cancel()

		m.formCategory, _ = m.matchingService.Suggest(ctx, m.OwnerID, selected.tx.Description)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&m.formDesc),

			huh.NewInput().
				Title("Category").
				Placeholder("groceries").
				Value(&m.formCategory),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) startCreating() (tea.Model, tea.Cmd) {
	if len(m.accounts) == 0 {
		m.status = "Create an account first."
		return m, nil
	}

	options := make([]huh.Option[uuid.UUID], 0, len(m.accounts))
	for _, acc := range m.accounts {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", acc.Name, acc.Type), acc.ID))
	}

	m.formAccount = m.accounts[0].ID
	m.formType = transaction.TypeExpense
	m.formAmount = ""
	m.formCategory = ""
	m.formDesc = ""
	m.formDate = FormatDate(time.Now())

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Title("Account").
				Options(options...).
				Value(&m.formAccount),

			huh.NewSelect[transaction.Type]().
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&m.formType),

			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&m.formAmount).
				Validate(func(s string) error {
					_, err := ParseAmount(s)
					return err
				}),

			huh.NewInput().
				Title("Description").
				Value(&m.formDesc),

			huh.NewInput().
				Title("Category (optional)").
				Value(&m.formCategory),

			huh.NewInput().
				Title("Date").
				Value(&m.formDate).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateCreating

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == txStateCreating {
		return m, m.createCmd()
	}

	return m, m.saveTxCmd()
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())

	case txStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())

	case txStateEditing:
		if m.form == nil || m.selectedTx == nil {
			return ""
		}

		info := fmt.Sprintf("%s  |  %s  |  %s  |  %s",
			FormatDate(m.selectedTx.Date),
			m.selectedTx.AccountName,
			m.selectedTx.Type,
			FormatAmount(m.selectedTx.Amount),
		)

		return lipgloss.NewStyle().Padding(1).Render(formPanel(info, m.form.View()))

	case txStateCreating:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(formPanel("New Transaction", m.form.View()))
	}

	return ""
}

func (m *TransactionsModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx}
	}

	m.list.SetItems(items)
}

// Messages

type loadTxsMsg struct {
	txs      []*transaction.Transaction
	accounts []*account.Account
	err      error
}

type saveTxResultMsg struct {
	status string
	err    error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	filter := transaction.ListFilter{StartDate: m.period.Start, EndDate: m.period.End}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, m.OwnerID, filter)
		if err != nil {
			return loadTxsMsg{err: err}
		}

		accounts, err := m.accountService.List(ctx, m.OwnerID)

		return loadTxsMsg{txs: txs, accounts: accounts, err: err}
	}
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	tx := m.selectedTx
	desc := strings.TrimSpace(m.formDesc)
	category := strings.TrimSpace(m.formCategory)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.txService.Update(ctx, m.OwnerID, tx.ID, transaction.UpdateParams{
			Description: &desc,
			Category:    &category,
		}); err != nil {
			return saveTxResultMsg{err: err}
		}

		// Remember the category for future imports of the same description.
		if desc != "" && category != "" && category != tx.Category {
			_ = m.matchingService.Learn(ctx, m.OwnerID, desc, category)
		}

		return saveTxResultMsg{status: "Saved."}
	}
}

func (m TransactionsModel) createCmd() tea.Cmd {
	amount, err := ParseAmount(m.formAmount)
	if err != nil {
		return func() tea.Msg { return saveTxResultMsg{err: err} }
	}

	date, err := time.Parse(time.DateOnly, m.formDate)
	if err != nil {
		return func() tea.Msg { return saveTxResultMsg{err: err} }
	}

	params := transaction.CreateParams{
		AccountID:   m.formAccount,
		Type:        m.formType,
		Amount:      amount,
		Category:    strings.TrimSpace(m.formCategory),
		Description: strings.TrimSpace(m.formDesc),
		Date:        date,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if params.Category == "" {
			params.Category, _ = m.matchingService.Suggest(ctx, m.OwnerID, params.Description)
		}

		res, err := m.ledger.RecordTransaction(ctx, m.OwnerID, params)
		if err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: recomputeStatus(res.Account.Name, res.Account.Balance, len(res.Notifications))}
	}
}

func (m TransactionsModel) deleteCmd(tx *transaction.Transaction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.txService.Delete(ctx, m.OwnerID, tx.ID); err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: "Deleted. Recompute the account to refresh its balance."}
	}
}

type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
