package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/colectorpro/client/internal/garage"
	"github.com/maynagashev/colectorpro/client/internal/i18n"
)

// Update обрабатывает входящие сообщения.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	// == Глобальные сообщения (не зависят от экрана) ==
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := m.docStyle.GetFrameSize()
		m.carList.SetSize(msg.Width-h, msg.Height-v-helpStatusHeightOffset)
		m.photoPathInput.Width = msg.Width - h - inputOffset
		return m, nil

	case spinner.TickMsg:
		if !m.garage.Loading() && !m.form.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case carsLoadedMsg:
		m.garage.ApplyLoad(msg.res)
		m.refreshList()
		return m, nil

	case commitDoneMsg:
		return m.handleCommitDone(msg.res)

	case photoLoadedMsg:
		return m.handlePhotoLoaded(msg)

	case photoErrMsg:
		return m.handlePhotoErr(msg)

	case imageEditedMsg:
		return m.handleImageEdited(msg)

	case clearStatusMsg:
		m.savingStatus = ""
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	// == Обработка в зависимости от экрана ==
	switch m.state {
	case carListScreen:
		return m.updateCarListScreen(msg)
	case filterScreen:
		return m.updateFilterScreen(msg)
	case carDetailScreen:
		return m.updateCarDetailScreen(msg)
	case carFormScreen:
		return m.updateCarFormScreen(msg)
	case photoPathScreen:
		return m.updatePhotoPathScreen(msg)
	case deleteConfirmScreen:
		return m.updateDeleteConfirmScreen(msg)
	case configScreen:
		return m.updateConfigScreen(msg)
	case alertScreen:
		return m.updateAlertScreen(msg)
	default:
		return m, nil
	}
}

// handleCommitDone показывает ошибку записи на сервер. Коллекция в памяти не откатывается.
func (m *model) handleCommitDone(res garage.Result) (tea.Model, tea.Cmd) {
	if res.Err == nil {
		slog.Debug("Изменение записано", "op", res.Op, "id", res.CarID)
		return m, nil
	}
	if !res.ShouldAlert {
		return m, nil
	}

	title := m.t(i18n.SaveFailed)
	if res.Op == garage.OpDelete {
		title = m.t(i18n.DeleteFailed)
	}
	m.showAlert(title + "\n\n" + res.Err.Error())
	return m, nil
}
