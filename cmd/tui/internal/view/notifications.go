package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fundsio/funds/internal/notification"
)

type NotificationsModel struct {
	CommonModel
	notificationService *notification.Service

	table         table.Model
	notifications []*notification.Notification

	loading bool
	err     error
}

func NewNotificationsModel(common CommonModel, svc *notification.Service) NotificationsModel {
	return NotificationsModel{
		CommonModel:         common,
		notificationService: svc,
		loading:             true,
		table: newTable([]table.Column{
			{Title: "", Width: 2},
			{Title: "When", Width: 17},
			{Title: "Type", Width: 8},
			{Title: "Message", Width: 60},
		}),
	}
}

func (m NotificationsModel) Title() string     { return "Notifications" }
func (m NotificationsModel) ShortHelp() string { return "Esc: back | Enter: mark read | r: reload" }

func (m NotificationsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadNotificationsMsg:
		m.loading = false
		m.err = msg.err
		m.notifications = msg.notifications
		m.refreshTable()

		return m, nil

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
		case "enter":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.notifications) && !m.notifications[idx].Read {
				return m, m.markReadCmd(m.notifications[idx])
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m NotificationsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading notifications...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	return lipgloss.NewStyle().Padding(1).Render(framed(m.table.View()))
}

func (m *NotificationsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.notifications))
	for _, n := range m.notifications {
		unread := "•"
		if n.Read {
			unread = ""
		}

		rows = append(rows, table.Row{unread, n.CreatedAt.Local().Format("2006-01-02 15:04"), string(n.Type), n.Message})
	}

	m.table.SetRows(rows)
}

type loadNotificationsMsg struct {
	notifications []*notification.Notification
	err           error
}

func (m NotificationsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		notifications, err := m.notificationService.List(ctx, m.OwnerID)

		return loadNotificationsMsg{notifications: notifications, err: err}
	}
}

func (m NotificationsModel) markReadCmd(n *notification.Notification) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.notificationService.MarkRead(ctx, m.OwnerID, n.ID); err != nil {
			return loadNotificationsMsg{err: err}
		}

		notifications, err := m.notificationService.List(ctx, m.OwnerID)

		return loadNotificationsMsg{notifications: notifications, err: err}
	}
}
