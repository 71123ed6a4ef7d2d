package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/colectorpro/client/internal/i18n"
	"github.com/maynagashev/colectorpro/models"
)

// filterCategories - варианты выбора категории в фильтре, начиная с "все".
func filterCategories() []models.Category {
	return append([]models.Category{models.CategoryAll}, models.Categories()...)
}

// openFilterScreen открывает экран фильтров с фокусом на названии.
func (m *model) openFilterScreen() {
	m.state = filterScreen
	m.setFilterFocus(filterFieldName)
}

func (m *model) setFilterFocus(field int) {
	m.filterFocus = field
	for i := range m.filterInputs {
		if i == field {
			m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
}

// updateFilterScreen обрабатывает ввод фильтров. Список пересчитывается на каждое нажатие.
func (m *model) updateFilterScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyEsc, keyEnter:
		m.setFilterFocus(-1)
		m.state = carListScreen
		return m, nil
	case keyTab:
		m.setFilterFocus((m.filterFocus + 1) % numFilterFields)
		return m, textinput.Blink
	case keyShiftTab:
		m.setFilterFocus((m.filterFocus + numFilterFields - 1) % numFilterFields)
		return m, textinput.Blink
	case "ctrl+r":
		for i := range m.filterInputs {
			m.filterInputs[i].SetValue("")
		}
		m.filter = models.Filter{}
		m.refreshList()
		return m, nil
	}

	if m.filterFocus == filterFieldCategory {
		switch keyMsg.String() {
		case keyLeft:
			m.filter.Category = cycleCategory(filterCategories(), m.filter.Category, -1)
		case keyRight:
			m.filter.Category = cycleCategory(filterCategories(), m.filter.Category, 1)
		default:
			return m, nil
		}
		m.refreshList()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInputs[m.filterFocus], cmd = m.filterInputs[m.filterFocus].Update(msg)
	m.filter.Name = m.filterInputs[filterFieldName].Value()
	m.filter.Brand = m.filterInputs[filterFieldBrand].Value()
	m.filter.Model = m.filterInputs[filterFieldModel].Value()
	m.refreshList()
	return m, cmd
}

// cycleCategory возвращает соседнюю категорию по кругу. Неизвестное значение считается первым.
func cycleCategory(options []models.Category, current models.Category, delta int) models.Category {
	idx := 0
	for i, c := range options {
		if c == current {
			idx = i
			break
		}
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n]
}

// categoryLabel возвращает подпись категории; "все" переводится.
func (m *model) categoryLabel(c models.Category) string {
	if c == "" || c == models.CategoryAll {
		return m.t(i18n.CategoryAll)
	}
	return string(c)
}

func (m *model) viewFilterScreen() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.carList.Title))
	b.WriteString("\n\n")
	for i := range m.filterInputs {
		b.WriteString(m.filterInputs[i].View())
		b.WriteString("\n")
	}

	category := fmt.Sprintf("◀ %s ▶", m.categoryLabel(m.filter.Category))
	if m.filterFocus == filterFieldCategory {
		category = lipgloss.NewStyle().Foreground(colorAccent).Render("> " + category)
	} else {
		category = "  " + category
	}
	b.WriteString(category)
	b.WriteString("\n\n")

	if len(m.carList.Items()) == 0 {
		b.WriteString(m.viewEmptyState())
		return b.String()
	}
	for _, item := range m.carList.Items() {
		car, _ := item.(carItem)
		b.WriteString(fmt.Sprintf("• %s  %s\n", car.Title(),
			lipgloss.NewStyle().Foreground(colorMuted).Render(car.Description())))
	}
	return b.String()
}
