package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/colectorpro/client/internal/i18n"
	"github.com/maynagashev/colectorpro/models"
)

const (
	stripCardWidth = 24 // Ширина карточки в горизонтальной ленте
	stripCardGap   = 2
)

// navKeys - клавиши, которые передаются компоненту списка.
var navKeys = map[string]bool{
	"up": true, "down": true, "k": true, "j": true,
	"pgup": true, "pgdown": true, "home": true, "end": true,
}

// updateCarListScreen обрабатывает сообщения для экрана списка.
func (m *model) updateCarListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.carList, cmd = m.carList.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyQuit:
		return m, tea.Quit
	case keyEnter:
		if car, ok := m.selectedListCar(); ok {
			m.selectedCar = &car
			m.detailImage = 0
			m.state = carDetailScreen
			slog.Info("Переход к деталям модели", "id", car.ID)
		}
		return m, nil
	case keyAdd:
		return m, m.openAddForm()
	case keyEdit:
		if car, ok := m.selectedListCar(); ok {
			return m, m.openEditForm(car)
		}
		return m, nil
	case keyDelete:
		if car, ok := m.selectedListCar(); ok {
			m.openDeleteConfirm(car, carListScreen)
		}
		return m, nil
	case "/":
		m.openFilterScreen()
		return m, nil
	case "v":
		if err := m.garage.ToggleViewMode(); err != nil {
			return m.setStatusMessage(fmt.Sprintf("Ошибка сохранения настроек: %v", err))
		}
		return m, nil
	case "l":
		if err := m.garage.ToggleLanguage(); err != nil {
			return m.setStatusMessage(fmt.Sprintf("Ошибка сохранения настроек: %v", err))
		}
		m.applyLanguage()
		return m, nil
	case "s":
		m.openConfigScreen()
		return m, nil
	case "o":
		// Переход в локальный режим доступен только при ошибке соединения
		if m.garage.ConnErr() == nil {
			return m, nil
		}
		if err := m.garage.SwitchToLocal(); err != nil {
			slog.Error("Не удалось сохранить режим хранения", "error", err)
		}
		m.refreshList()
		return m, m.startLoad()
	case "r":
		return m, m.startLoad()
	case keyLeft:
		m.moveSelection(-1)
		return m, nil
	case keyRight:
		m.moveSelection(1)
		return m, nil
	}

	if navKeys[keyMsg.String()] {
		var cmd tea.Cmd
		m.carList, cmd = m.carList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// selectedListCar возвращает модель под курсором.
func (m *model) selectedListCar() (models.Car, bool) {
	item, ok := m.carList.SelectedItem().(carItem)
	if !ok {
		return models.Car{}, false
	}
	return item.car, true
}

func (m *model) moveSelection(delta int) {
	n := len(m.carList.Items())
	if n == 0 {
		return
	}
	i := m.carList.Index() + delta
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	m.carList.Select(i)
}

// refreshList пересчитывает видимые элементы по текущему фильтру.
func (m *model) refreshList() {
	cars := m.garage.Filtered(m.filter)
	items := make([]list.Item, len(cars))
	for i, car := range cars {
		items[i] = carItem{car: car}
	}

	index := m.carList.Index()
	_ = m.carList.SetItems(items)
	if index >= len(items) {
		index = len(items) - 1
	}
	if index >= 0 {
		m.carList.Select(index)
	}
	m.carList.Title = fmt.Sprintf("%s (%d)", m.t(i18n.AppTitle), len(items))

	if m.selectedCar != nil {
		if car, ok := m.garage.Find(m.selectedCar.ID); ok {
			m.selectedCar = &car
		}
	}
}

// applyLanguage обновляет подсказки полей после смены языка.
func (m *model) applyLanguage() {
	m.filterInputs[filterFieldName].Placeholder = m.t(i18n.SearchPlaceholder)
	m.filterInputs[filterFieldBrand].Placeholder = m.t(i18n.BrandPlaceholder)
	m.filterInputs[filterFieldModel].Placeholder = m.t(i18n.ModelPlaceholder)
	m.photoPathInput.Placeholder = m.t(i18n.PhotoPathPrompt)
	m.configURLInput.Placeholder = m.t(i18n.ServerURLPlaceholder)
	m.carList.Title = fmt.Sprintf("%s (%d)", m.t(i18n.AppTitle), len(m.carList.Items()))
}

// viewCarListScreen отрисовывает список, баннер ошибки соединения и пустые состояния.
func (m *model) viewCarListScreen() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if err := m.garage.ConnErr(); err != nil {
		b.WriteString(m.viewConnBanner())
		b.WriteString("\n")
	}

	switch {
	case m.garage.Loading() && len(m.garage.Cars()) == 0:
		b.WriteString(m.spinner.View())
	case len(m.carList.Items()) == 0:
		b.WriteString(m.viewEmptyState())
	case m.garage.Prefs().ViewMode == models.ViewHorizontalScroll:
		b.WriteString(m.viewStrip())
	default:
		b.WriteString(m.carList.View())
	}
	return b.String()
}

func (m *model) viewHeader() string {
	p := m.garage.Prefs()
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(m.carList.Title)

	mode := m.t(i18n.ModeLocal)
	if p.StorageMode == models.StorageServer {
		mode = fmt.Sprintf("%s: %s", m.t(i18n.ModeServer), p.ServerURL)
	}
	info := lipgloss.NewStyle().Foreground(colorMuted).Render(fmt.Sprintf("[%s] [%s]", mode, p.Language))

	header := title + "  " + info
	if !m.filter.IsEmpty() {
		header += lipgloss.NewStyle().Foreground(colorMuted).Render(" [/]")
	}
	return header
}

func (m *model) viewConnBanner() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(colorBanner).
		Padding(0, 1)
	return style.Render(fmt.Sprintf("%s  o: %s", m.t(i18n.ConnectionError), m.t(i18n.SwitchToLocal)))
}

// viewEmptyState различает пустую коллекцию и пустой результат фильтра.
func (m *model) viewEmptyState() string {
	subtitle := m.t(i18n.NoCarsSubtitle)
	if len(m.garage.Cars()) > 0 {
		subtitle = m.t(i18n.NoCarsFilter)
	}
	title := lipgloss.NewStyle().Bold(true).Render(m.t(i18n.NoCarsTitle))
	return fmt.Sprintf("\n%s\n%s\n\na: %s",
		title, lipgloss.NewStyle().Foreground(colorMuted).Render(subtitle), m.t(i18n.AddCar))
}

// viewStrip отрисовывает горизонтальную ленту карточек вокруг выбранной.
func (m *model) viewStrip() string {
	items := m.carList.Items()
	visible := m.width / (stripCardWidth + stripCardGap)
	if visible < 1 {
		visible = 1
	}
	selected := m.carList.Index()
	start := selected - visible/2
	if start > len(items)-visible {
		start = len(items) - visible
	}
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(items) {
		end = len(items)
	}

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item, _ := items[i].(carItem)
		cards = append(cards, renderCard(item, i == selected))
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	position := lipgloss.NewStyle().Foreground(colorMuted).
		Render(fmt.Sprintf("◀ %d/%d ▶", selected+1, len(items)))
	return strip + "\n" + position
}

func renderCard(item carItem, selected bool) string {
	style := lipgloss.NewStyle().
		Width(stripCardWidth-2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		MarginRight(stripCardGap).
		Padding(0, 1)
	if selected {
		style = style.BorderForeground(colorAccent)
	}
	name := lipgloss.NewStyle().Bold(true).Render(truncate(item.Title(), stripCardWidth-4))
	return style.Render(name + "\n" + truncate(item.Description(), stripCardWidth-4))
}

// truncate обрезает строку до limit символов.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}
