// Package tui реализует терминальный интерфейс коллекции на bubbletea.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/colectorpro/client/internal/garage"
	"github.com/maynagashev/colectorpro/client/internal/i18n"
	"github.com/maynagashev/colectorpro/client/internal/imagegen"
)

const (
	statusMessageTimeout     = 2 * time.Second // Время отображения статусных сообщений
	helpStatusHeightOffset   = 4               // Высота заголовка, баннера и строки помощи
	docStyleMarginVertical   = 1
	docStyleMarginHorizontal = 2
)

// Init - команда, выполняемая при запуске приложения.
func (m *model) Init() tea.Cmd {
	return m.startLoad()
}

// startLoad запускает загрузку коллекции из активного хранилища.
func (m *model) startLoad() tea.Cmd {
	return tea.Batch(loadCarsCmd(m.garage.Loader()), m.spinner.Tick)
}

// t возвращает строку интерфейса на текущем языке.
func (m *model) t(key i18n.Key) string {
	return i18n.T(m.garage.Prefs().Language, key)
}

// setStatusMessage устанавливает статусное сообщение и запускает таймер для его очистки.
func (m *model) setStatusMessage(status string) (tea.Model, tea.Cmd) {
	m.savingStatus = status
	return m, clearStatusCmd(statusMessageTimeout)
}

// getMainContentView возвращает основное содержимое для текущего состояния.
func (m *model) getMainContentView() string {
	switch m.state {
	case carListScreen:
		return m.viewCarListScreen()
	case filterScreen:
		return m.viewFilterScreen()
	case carDetailScreen:
		return m.viewCarDetailScreen()
	case carFormScreen:
		return m.viewCarFormScreen()
	case photoPathScreen:
		return m.viewPhotoPathScreen()
	case deleteConfirmScreen:
		return m.viewDeleteConfirmScreen()
	case configScreen:
		return m.viewConfigScreen()
	case alertScreen:
		return m.viewAlertScreen()
	default:
		return "Неизвестное состояние!"
	}
}

// helpText возвращает строку помощи для текущего экрана.
func (m *model) helpText() string {
	switch m.state {
	case carListScreen:
		return m.t(i18n.HelpList)
	case filterScreen:
		return m.t(i18n.HelpFilter)
	case carDetailScreen:
		return m.t(i18n.HelpDetail)
	case carFormScreen:
		return m.t(i18n.HelpForm)
	case photoPathScreen:
		return "enter • esc"
	case deleteConfirmScreen:
		return fmt.Sprintf("y: %s • n: %s", m.t(i18n.Yes), m.t(i18n.No))
	case configScreen:
		return m.t(i18n.HelpConfig)
	case alertScreen:
		return m.t(i18n.PressAnyKey)
	default:
		return ""
	}
}

// getDebugInfoString формирует отладочную информацию.
func (m *model) getDebugInfoString() string {
	p := m.garage.Prefs()
	var debugInfo strings.Builder
	debugInfo.WriteString(fmt.Sprintf(" [State: %s]\n", m.state))
	debugInfo.WriteString(fmt.Sprintf(" [Storage: %s]\n", p.StorageMode))
	debugInfo.WriteString(fmt.Sprintf(" [URL: %s]\n", p.ServerURL))
	debugInfo.WriteString(fmt.Sprintf(" [Cars: %d]\n", len(m.garage.Cars())))
	debugInfo.WriteString(fmt.Sprintf(" [Filter: %+v]\n", m.filter))
	return debugInfo.String()
}

// View отрисовывает пользовательский интерфейс.
func (m *model) View() string {
	mainContent := m.getMainContentView()
	help := lipgloss.NewStyle().Foreground(colorMuted).Render(m.helpText())

	var footer strings.Builder
	if m.savingStatus != "" {
		footer.WriteString("\n")
		footer.WriteString(m.savingStatus)
	}
	if m.debugMode {
		footer.WriteString("\n\n---\nОтладка:\n")
		footer.WriteString(m.getDebugInfoString())
	}

	return fmt.Sprintf("%s\n%s%s", m.docStyle.Render(mainContent), help, footer.String())
}

// Options - зависимости интерфейса.
type Options struct {
	Garage *garage.Garage
	Editor imagegen.Editor
	Debug  bool
}

// Start запускает TUI и блокируется до выхода пользователя.
func Start(opts Options) error {
	m := initModel(opts.Garage, opts.Editor, opts.Debug)
	slog.Info("Запуск TUI",
		"storage", opts.Garage.Prefs().StorageMode,
		"server_url", opts.Garage.Prefs().ServerURL,
	)

	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("Ошибка при запуске TUI", "error", err)
		return fmt.Errorf("ошибка TUI: %w", err)
	}
	return nil
}
