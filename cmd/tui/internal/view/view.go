package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views. OwnerID scopes every read and write
// to the signed-in user.
type CommonModel struct {
	OwnerID uuid.UUID
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
