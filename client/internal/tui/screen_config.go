package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/colectorpro/client/internal/i18n"
	"github.com/maynagashev/colectorpro/models"
)

// openConfigScreen открывает настройку хранилища с текущими значениями.
func (m *model) openConfigScreen() {
	p := m.garage.Prefs()
	m.configMode = p.StorageMode
	m.configURLInput.SetValue(p.ServerURL)
	m.configFocus = configFieldMode
	m.configURLInput.Blur()
	m.state = configScreen
}

// updateConfigScreen обрабатывает выбор режима хранения и адреса сервера.
// Смена режима применяется по Enter и сразу перезагружает коллекцию.
func (m *model) updateConfigScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyEsc:
		m.configURLInput.Blur()
		m.state = carListScreen
		return m, nil
	case keyTab, keyShiftTab:
		m.configFocus = (m.configFocus + 1) % numConfigFields
		if m.configFocus == configFieldURL {
			m.configURLInput.Focus()
			return m, textinput.Blink
		}
		m.configURLInput.Blur()
		return m, nil
	case keyEnter:
		return m, m.applyConfig()
	}

	if m.configFocus == configFieldMode {
		switch keyMsg.String() {
		case keyLeft, keyRight, " ":
			if m.configMode == models.StorageServer {
				m.configMode = models.StorageLocal
			} else {
				m.configMode = models.StorageServer
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.configURLInput, cmd = m.configURLInput.Update(msg)
	return m, cmd
}

// applyConfig сохраняет режим и адрес и запускает загрузку из нового хранилища.
func (m *model) applyConfig() tea.Cmd {
	url := strings.TrimRight(strings.TrimSpace(m.configURLInput.Value()), "/")
	if err := m.garage.SetStorage(m.configMode, url); err != nil {
		slog.Error("Не удалось сохранить настройки хранилища", "error", err)
	}
	slog.Info("Настройки хранилища обновлены", "mode", m.configMode, "url", m.garage.Prefs().ServerURL)

	m.configURLInput.Blur()
	m.state = carListScreen
	m.refreshList()
	return m.startLoad()
}

func (m *model) viewConfigScreen() string {
	label := lipgloss.NewStyle().Foreground(colorMuted)
	focused := lipgloss.NewStyle().Foreground(colorAccent)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(m.t(i18n.ServerConfigTitle)))
	b.WriteString("\n\n")

	marker := "  "
	if m.configFocus == configFieldMode {
		marker = focused.Render("> ")
	}
	b.WriteString(marker + label.Render(m.t(i18n.StorageMode)) + "\n")
	for _, opt := range []struct {
		mode models.StorageMode
		key  i18n.Key
	}{
		{models.StorageLocal, i18n.ModeLocal},
		{models.StorageServer, i18n.ModeServer},
	} {
		check := "( )"
		if m.configMode == opt.mode {
			check = focused.Render("(•)")
		}
		b.WriteString(fmt.Sprintf("    %s %s\n", check, m.t(opt.key)))
	}
	b.WriteString("\n")

	if m.configMode == models.StorageServer {
		marker = "  "
		if m.configFocus == configFieldURL {
			marker = focused.Render("> ")
		}
		b.WriteString(marker + label.Render(m.t(i18n.ServerURL)) + "\n")
		b.WriteString("    " + m.configURLInput.View() + "\n\n")
	}
	b.WriteString(label.Render("enter: " + m.t(i18n.SaveConfig)))
	return b.String()
}
