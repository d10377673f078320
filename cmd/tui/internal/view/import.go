package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/importer"
	"github.com/fundsio/funds/internal/ledger"
	"github.com/fundsio/funds/internal/matching"
	"github.com/fundsio/funds/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateAccountSelect importState = iota
	importStateBankSelect
	importStateFilePick
	importStateImporting
	importStateConflicts
	importStateResult
)

type ImportModel struct {
	CommonModel
	accountService  *account.Service
	importService   *importer.Service
	matchingService *matching.Service
	ledger          *ledger.Service

	state         importState
	accounts      []*account.Account
	accountCursor int
	filePicker    filepicker.Model
	selectedBank  importer.Bank
	bankOptions   []importer.Bank
	bankCursor    int

	newParams    []transaction.CreateParams
	conflicts    []transaction.Conflict
	conflictList list.Model
	selected     map[int]bool

	status string
	err    error
}

func NewImportModel(
	common CommonModel,
	accSvc *account.Service,
	impSvc *importer.Service,
	matchSvc *matching.Service,
	ledgerSvc *ledger.Service,
) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		CommonModel:     common,
		accountService:  accSvc,
		importService:   impSvc,
		matchingService: matchSvc,
		ledger:          ledgerSvc,
		filePicker:      fp,
		bankOptions:     []importer.Bank{importer.BankGeneric, importer.BankCGD},
		selected:        make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateConflicts {
		return "Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.loadAccountsCmd()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateAccountSelect:
			return m.updateAccountSelect(msg)
		case importStateBankSelect:
			return m.updateBankSelect(msg)
		case importStateConflicts:
			return m.updateConflicts(msg)
		}

	case importAccountsMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.accounts = msg.accounts

		return m, nil

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = importStatus(msg.result)

			return m, nil
		}

		m.newParams = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.selected = make(map[int]bool)
		m.state = importStateConflicts

		items := make([]list.Item, len(m.conflicts))
		for i, c := range m.conflicts {
			items[i] = conflictItem{conflict: c, index: i}
		}

		delegate := conflictDelegate{selected: &m.selected}
		m.conflictList = list.New(items, delegate, 80, 20)
		m.conflictList.Title = fmt.Sprintf("%d new rows, %d possible duplicates", len(m.newParams), len(m.conflicts))
		m.conflictList.SetShowStatusBar(false)
		m.conflictList.SetFilteringEnabled(false)
		m.conflictList.SetShowHelp(false)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateBankSelect:
		m.state = importStateAccountSelect
		return m, nil
	case importStateFilePick:
		m.state = importStateBankSelect
		return m, nil
	case importStateResult, importStateConflicts:
		m.state = importStateAccountSelect
		m.err = nil
		m.status = ""
		m.conflicts = nil
		m.newParams = nil
		m.selected = make(map[int]bool)

		return m, m.loadAccountsCmd()
	}

	return m, Back
}

func (m ImportModel) updateAccountSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.accountCursor > 0 {
			m.accountCursor--
		}
	case tea.KeyDown:
		if m.accountCursor < len(m.accounts)-1 {
			m.accountCursor++
		}
	case tea.KeyEnter:
		if len(m.accounts) > 0 {
			m.state = importStateBankSelect
		}
	}

	return m, nil
}

func (m ImportModel) updateBankSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.bankCursor > 0 {
			m.bankCursor--
		}
	case tea.KeyDown:
		if m.bankCursor < len(m.bankOptions)-1 {
			m.bankCursor++
		}
	case tea.KeyEnter:
		m.selectedBank = m.bankOptions[m.bankCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.conflicts {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.conflicts {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		m.state = importStateImporting
		m.status = "Saving..."

		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateAccountSelect:
		return m.viewAccountSelect()
	case importStateBankSelect:
		return m.viewBankSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select file to import (%s into %s):\n\n%s", m.selectedBank, m.account().Name, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(m.conflictList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) account() *account.Account {
	if m.accountCursor < len(m.accounts) {
		return m.accounts[m.accountCursor]
	}

	return &account.Account{}
}

func (m ImportModel) viewAccountSelect() string {
	if len(m.accounts) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No accounts yet. Create one first.\n\n(Esc to go back)")
	}

	s := "Import into account:\n\n"

	for i, acc := range m.accounts {
		cursor := " "
		if i == m.accountCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s (%s)\n", cursor, acc.Name, acc.Type)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewBankSelect() string {
	s := "Select statement format:\n\n"

	for i, bank := range m.bankOptions {
		cursor := " "
		if i == m.bankCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, string(bank))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	color := lipgloss.Color("46")
	if m.err != nil {
		color = lipgloss.Color("196")
	}

	return lipgloss.NewStyle().Padding(2).Render(
		lipgloss.NewStyle().Foreground(color).Render(m.status) + "\n\n(Esc to go back)",
	)
}

func importStatus(res *ledger.ImportResult) string {
	s := fmt.Sprintf("Imported %d transactions.", len(res.Imported))
	if res.Account != nil {
		s += fmt.Sprintf(" %s balance is %s.", res.Account.Name, FormatAmount(res.Account.Balance))
	}

	if len(res.Notifications) > 0 {
		s += fmt.Sprintf(" %d new notification(s).", len(res.Notifications))
	}

	return s
}

// Messages

type importAccountsMsg struct {
	accounts []*account.Account
	err      error
}

type importResultMsg struct {
	result *ledger.ImportResult
	err    error
}

func (m ImportModel) loadAccountsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.accountService.List(ctx, m.OwnerID)

		return importAccountsMsg{accounts: accounts, err: err}
	}
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	accountID := m.account().ID
	bank := m.selectedBank

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(bank, accountID, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		// Suggestions are best-effort; rows keep an empty category otherwise.
		_ = m.matchingService.Categorize(ctx, m.OwnerID, params)

		result, err := m.ledger.ImportBatch(ctx, m.OwnerID, accountID, params, false)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}

// confirmCmd inserts the new rows plus the conflicts the user ticked,
// skipping the duplicate check.
func (m ImportModel) confirmCmd() tea.Cmd {
	accountID := m.account().ID
	rows := append([]transaction.CreateParams(nil), m.newParams...)

	for i, c := range m.conflicts {
		if m.selected[i] {
			rows = append(rows, c.Incoming)
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.ledger.ImportBatch(ctx, m.OwnerID, accountID, rows, true)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}

type conflictItem struct {
	conflict transaction.Conflict
	index    int
}

func (i conflictItem) Title() string       { return "" }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return "" }

type conflictDelegate struct {
	selected *map[int]bool
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming
	existing := item.conflict.Existing

	fmt.Fprintf(w, "%s%s %s  %s %s  %s\n      Existing: %s  %s  %s (%s)\n",
		cursor, checkbox,
		FormatDate(incoming.Date), incoming.Type, FormatAmount(incoming.Amount), incoming.Description,
		FormatDate(existing.Date), FormatAmount(existing.Amount), existing.Description, existing.CreatedAt.Format(time.DateTime),
	)
}
