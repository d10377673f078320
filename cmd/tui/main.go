package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/fundsio/funds/cmd/tui/internal/view"
	"github.com/fundsio/funds/internal/account"
	accountStore "github.com/fundsio/funds/internal/account/store"
	"github.com/fundsio/funds/internal/config"
	constraintStore "github.com/fundsio/funds/internal/constraint/store"
	"github.com/fundsio/funds/internal/database"
	"github.com/fundsio/funds/internal/goal"
	goalStore "github.com/fundsio/funds/internal/goal/store"
	"github.com/fundsio/funds/internal/importer"
	"github.com/fundsio/funds/internal/ledger"
	ledgerStore "github.com/fundsio/funds/internal/ledger/store"
	"github.com/fundsio/funds/internal/matching"
	matchingStore "github.com/fundsio/funds/internal/matching/store"
	"github.com/fundsio/funds/internal/notification"
	notificationStore "github.com/fundsio/funds/internal/notification/store"
	"github.com/fundsio/funds/internal/transaction"
	txStore "github.com/fundsio/funds/internal/transaction/store"
	"github.com/fundsio/funds/internal/user"
	userStore "github.com/fundsio/funds/internal/user/store"
)

type services struct {
	accounts      *account.Service
	transactions  *transaction.Service
	goals         *goal.Service
	notifications *notification.Service
	matching      *matching.Service
	importer      *importer.Service
	ledger        *ledger.Service
}

type model struct {
	common view.CommonModel
	svc    services
	email  string

	currentView View

	accountsView      view.AccountsModel
	transactionsView  view.TransactionsModel
	importView        view.ImportModel
	goalsView         view.GoalsModel
	notificationsView view.NotificationsModel
}

type View int

const (
	ViewMenu View = iota
	ViewAccounts
	ViewTransactions
	ViewImport
	ViewGoals
	ViewNotifications
)

func initialModel() (model, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return model{}, fmt.Errorf("loading config: %w", err)
	}

	if cfg.TUI.UserEmail == "" {
		return model{}, errors.New("FUNDS_USER_EMAIL is required")
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return model{}, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return model{}, fmt.Errorf("migrating database: %w", err)
	}

	ctx, cancel := view.DbCtx()
	defer cancel()

	owner, err := user.NewService(userStore.New(db)).GetByEmail(ctx, cfg.TUI.UserEmail)
	if err != nil {
		return model{}, fmt.Errorf("resolving %s: %w", cfg.TUI.UserEmail, err)
	}

	var (
		accounts    = accountStore.New(db)
		constraints = constraintStore.New(db)
		goals       = goalStore.New(db)
	)

	// Nothing subscribes to live pushes here; notifications are read from
	// the database.
	notificationService := notification.NewService(notificationStore.New(db), nil)

	svc := services{
		accounts:      account.NewService(accounts, notificationService),
		transactions:  transaction.NewService(txStore.New(db)),
		goals:         goal.NewService(goals, accounts, constraints, notificationService),
		notifications: notificationService,
		matching:      matching.NewService(matchingStore.New(db)),
		importer:      importer.NewService(),
		ledger:        ledger.NewService(ledgerStore.New(db), goals, notificationService),
	}

	return model{
		common:      view.CommonModel{OwnerID: owner.ID},
		svc:         svc,
		email:       owner.Email,
		currentView: ViewMenu,
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewAccounts
				m.accountsView = view.NewAccountsModel(m.common, m.svc.accounts, m.svc.ledger)

				return m, m.accountsView.Init()
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.common, m.svc.transactions, m.svc.accounts, m.svc.matching, m.svc.ledger)

				return m, m.transactionsView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.common, m.svc.accounts, m.svc.importer, m.svc.matching, m.svc.ledger)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewGoals
				m.goalsView = view.NewGoalsModel(m.common, m.svc.goals, m.svc.ledger)

				return m, m.goalsView.Init()
			case "5":
				m.currentView = ViewNotifications
				m.notificationsView = view.NewNotificationsModel(m.common, m.svc.notifications)

				return m, m.notificationsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewAccounts:
		var newModel tea.Model
		newModel, cmd = m.accountsView.Update(msg)
		m.accountsView = newModel.(view.AccountsModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewGoals:
		var newModel tea.Model
		newModel, cmd = m.goalsView.Update(msg)
		m.goalsView = newModel.(view.GoalsModel)
	case ViewNotifications:
		var newModel tea.Model
		newModel, cmd = m.notificationsView.Update(msg)
		m.notificationsView = newModel.(view.NotificationsModel)
	}

	return m, cmd
}

func (m model) active() view.View {
	switch m.currentView {
	case ViewAccounts:
		return m.accountsView
	case ViewTransactions:
		return m.transactionsView
	case ViewImport:
		return m.importView
	case ViewGoals:
		return m.goalsView
	case ViewNotifications:
		return m.notificationsView
	}

	return nil
}

func (m model) View() string {
	v := m.active()
	if v == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			"funds.io · " + m.email + "\n\n" +
				"1. Accounts\n" +
				"2. Transactions\n" +
				"3. Import Statement\n" +
				"4. Goals\n" +
				"5. Notifications\n\n" +
				"q. Quit",
		)
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.ShortHelp())

	return lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(v.Title()) + "\n" + v.View() + "\n" + help
}

func main() {
	m, err := initialModel()
	if err != nil {
		slog.Error("failed to start TUI", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
