package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/colectorpro/client/internal/i18n"
	"github.com/maynagashev/colectorpro/models"
)

const dateLayout = "02/01/2006"

// updateCarDetailScreen обрабатывает сообщения для экрана деталей.
func (m *model) updateCarDetailScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.selectedCar == nil {
		return m, nil
	}

	switch keyMsg.String() {
	case keyEsc, keyBack, keyQuit:
		m.state = carListScreen
		m.selectedCar = nil
	case keyEdit:
		return m, m.openEditForm(*m.selectedCar)
	case keyDelete:
		m.openDeleteConfirm(*m.selectedCar, carDetailScreen)
	case keyLeft:
		if m.detailImage > 0 {
			m.detailImage--
		}
	case keyRight:
		if m.detailImage < len(m.selectedCar.Images)-1 {
			m.detailImage++
		}
	}
	return m, nil
}

func (m *model) viewCarDetailScreen() string {
	if m.selectedCar == nil {
		return ""
	}
	car := *m.selectedCar
	label := lipgloss.NewStyle().Foreground(colorMuted)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(m.t(i18n.DetailsTitle)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(car.Name))
	b.WriteString("\n")
	fields := []struct {
		key   i18n.Key
		value string
	}{
		{i18n.BrandLabel, car.Brand},
		{i18n.ModelLabel, car.Model},
		{i18n.CategoryLabel, string(car.Category)},
		{i18n.Added, car.AddedAt().Format(dateLayout)},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", label.Render(m.t(f.key)), f.value))
	}

	if len(car.Images) > 0 {
		idx := min(m.detailImage, len(car.Images)-1)
		b.WriteString(fmt.Sprintf("\n%s %d/%d: %s\n",
			label.Render(m.t(i18n.Photos)), idx+1, len(car.Images), describeImage(car.Images[idx])))
	}
	return b.String()
}

// describeImage возвращает короткое описание фото: адрес или тип и размер встроенных данных.
func describeImage(image string) string {
	if meta, data, ok := strings.Cut(image, ","); ok && strings.HasPrefix(meta, "data:") {
		mime := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
		return fmt.Sprintf("%s (%d KB)", mime, len(data)*3/4/1024)
	}
	return truncate(image, defaultListWidth-inputOffset)
}

// openDeleteConfirm открывает подтверждение удаления; после него возврат на from.
func (m *model) openDeleteConfirm(car models.Car, from screenState) {
	m.selectedCar = &car
	m.returnState = from
	m.state = deleteConfirmScreen
}

// updateDeleteConfirmScreen обрабатывает подтверждение удаления.
func (m *model) updateDeleteConfirmScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.selectedCar == nil {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "s", "S", keyEnter:
		commit := m.garage.Delete(m.selectedCar.ID)
		m.selectedCar = nil
		m.state = carListScreen
		m.refreshList()
		return m, commitCmd(commit)
	case "n", "N", keyEsc:
		m.state = m.returnState
		if m.state != carDetailScreen {
			m.selectedCar = nil
		}
	}
	return m, nil
}

func (m *model) viewDeleteConfirmScreen() string {
	if m.selectedCar == nil {
		return ""
	}
	return fmt.Sprintf("%s\n\n%s",
		lipgloss.NewStyle().Bold(true).Render(m.selectedCar.Name),
		m.t(i18n.DeleteConfirm))
}

// showAlert открывает экран ошибки поверх текущего.
func (m *model) showAlert(text string) {
	if m.state != alertScreen {
		m.returnState = m.state
	}
	m.alertText = text
	m.state = alertScreen
}

// updateAlertScreen закрывает ошибку по любой клавише.
func (m *model) updateAlertScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return m, nil
	}
	m.alertText = ""
	m.state = m.returnState
	return m, nil
}

func (m *model) viewAlertScreen() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorError).
		Padding(1, 2)
	return style.Render(m.alertText)
}
