package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/colectorpro/client/internal/i18n"
	"github.com/maynagashev/colectorpro/client/internal/imagegen"
	"github.com/maynagashev/colectorpro/models"
)

// now подменяется в тестах.
var now = time.Now

// newCarForm создает пустую форму с категорией по умолчанию.
func (m *model) newCarForm() carForm {
	m.formSeq++
	f := carForm{
		seq:         m.formSeq,
		nameInput:   newInput(m.t(i18n.NameLabel), initNameCharLimit),
		brandInput:  newInput(m.t(i18n.BrandLabel), initNameCharLimit),
		modelInput:  newInput(m.t(i18n.ModelLabel), initNameCharLimit),
		promptInput: newInput(m.t(i18n.AIPlaceholder), initPromptCharLimit),
		category:    models.CategoryMuscle,
	}
	f.nameInput.Focus()
	return f
}

// openAddForm открывает форму добавления.
func (m *model) openAddForm() tea.Cmd {
	m.form = m.newCarForm()
	m.state = carFormScreen
	slog.Info("Переход к добавлению новой модели")
	return textinput.Blink
}

// openEditForm открывает форму редактирования, заполненную данными car.
func (m *model) openEditForm(car models.Car) tea.Cmd {
	f := m.newCarForm()
	f.editing = true
	f.original = car
	f.nameInput.SetValue(car.Name)
	f.brandInput.SetValue(car.Brand)
	f.modelInput.SetValue(car.Model)
	if car.Category != "" {
		f.category = car.Category
	}
	// Старые записи без списка фото показываются с одной обложкой
	f.images = append([]string(nil), car.Images...)
	if len(f.images) == 0 && car.ImageURL != "" {
		f.images = []string{car.ImageURL}
	}
	m.form = f
	m.state = carFormScreen
	slog.Info("Переход к редактированию модели", "id", car.ID)
	return textinput.Blink
}

// closeForm закрывает форму; ответы для нее больше не применяются.
func (m *model) closeForm() {
	m.form = carForm{}
	m.state = carListScreen
}

func (m *model) formInput(field int) *textinput.Model {
	switch field {
	case formFieldName:
		return &m.form.nameInput
	case formFieldBrand:
		return &m.form.brandInput
	case formFieldModel:
		return &m.form.modelInput
	case formFieldPrompt:
		return &m.form.promptInput
	default:
		return nil
	}
}

func (m *model) setFormFocus(field int) {
	m.form.focus = field
	for f := 0; f < numFormFields; f++ {
		if input := m.formInput(f); input != nil {
			if f == field {
				input.Focus()
			} else {
				input.Blur()
			}
		}
	}
}

// updateCarFormScreen обрабатывает сообщения для формы добавления/редактирования.
func (m *model) updateCarFormScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyEsc:
		m.closeForm()
		return m, nil
	case keyTab:
		m.setFormFocus((m.form.focus + 1) % numFormFields)
		return m, textinput.Blink
	case keyShiftTab:
		m.setFormFocus((m.form.focus + numFormFields - 1) % numFormFields)
		return m, textinput.Blink
	case "ctrl+s":
		return m, m.saveForm()
	case "ctrl+p":
		m.photoPathInput.SetValue("")
		m.photoPathInput.Focus()
		m.state = photoPathScreen
		return m, textinput.Blink
	case "ctrl+x":
		m.removeSelectedPhoto()
		return m, nil
	case "ctrl+g":
		return m, m.startImageEdit()
	case keyEnter:
		if m.form.focus == formFieldPrompt {
			return m, m.startImageEdit()
		}
		m.setFormFocus((m.form.focus + 1) % numFormFields)
		return m, textinput.Blink
	}

	switch m.form.focus {
	case formFieldCategory:
		switch keyMsg.String() {
		case keyLeft:
			m.form.category = cycleCategory(models.Categories(), m.form.category, -1)
		case keyRight:
			m.form.category = cycleCategory(models.Categories(), m.form.category, 1)
		}
		return m, nil
	case formFieldGallery:
		switch keyMsg.String() {
		case keyLeft:
			if m.form.selectedImage > 0 {
				m.form.selectedImage--
			}
		case keyRight:
			if m.form.selectedImage < len(m.form.images)-1 {
				m.form.selectedImage++
			}
		}
		return m, nil
	}

	input := m.formInput(m.form.focus)
	if input == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	return m, cmd
}

// removeSelectedPhoto удаляет выбранное фото и сдвигает выбор на последнее, если он вышел за край.
func (m *model) removeSelectedPhoto() {
	idx := m.form.selectedImage
	if idx < 0 || idx >= len(m.form.images) {
		return
	}
	m.form.images = append(m.form.images[:idx:idx], m.form.images[idx+1:]...)
	if m.form.selectedImage >= len(m.form.images) {
		m.form.selectedImage = max(0, len(m.form.images)-1)
	}
}

// startImageEdit отправляет выбранное фото на редактирование.
// Без описания, без фото или во время генерации ничего не делает.
func (m *model) startImageEdit() tea.Cmd {
	instruction := strings.TrimSpace(m.form.promptInput.Value())
	if instruction == "" || m.form.generating || len(m.form.images) == 0 {
		return nil
	}
	m.form.generating = true
	m.form.err = ""
	idx := m.form.selectedImage
	slog.Info("Запуск редактирования фото", "index", idx)
	return tea.Batch(
		editImageCmd(m.editor, m.form.seq, idx, m.form.images[idx], instruction),
		m.spinner.Tick,
	)
}

// handleImageEdited заменяет исходное фото результатом и очищает описание.
func (m *model) handleImageEdited(msg imageEditedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.form.seq {
		return m, nil
	}
	m.form.generating = false
	if msg.err != nil {
		slog.Error("Ошибка редактирования фото", "error", msg.err)
		m.form.err = m.t(i18n.ErrorGen)
		return m, nil
	}
	if msg.index < len(m.form.images) {
		m.form.images[msg.index] = msg.image
	}
	m.form.promptInput.SetValue("")
	return m, nil
}

// saveForm проверяет форму и сохраняет модель.
func (m *model) saveForm() tea.Cmd {
	f := &m.form
	name := strings.TrimSpace(f.nameInput.Value())
	if name == "" || len(f.images) == 0 {
		f.err = m.t(i18n.ErrorReq)
		return nil
	}

	var car models.Car
	if f.editing {
		car = f.original.Clone()
		car.Name = name
		car.Brand = f.brandInput.Value()
		car.Model = f.modelInput.Value()
		car.Category = f.category
		car.Images = append([]string(nil), f.images...)
	} else {
		car = models.NewCar(name, f.brandInput.Value(), f.modelInput.Value(), f.category, f.images, now())
	}

	commit, err := m.garage.Save(car, f.editing)
	if err != nil {
		f.err = m.t(i18n.ErrorReq)
		return nil
	}
	slog.Info("Модель сохранена", "id", car.ID, "update", f.editing)
	m.closeForm()
	m.refreshList()
	return commitCmd(commit)
}

// updatePhotoPathScreen обрабатывает ввод пути к фото.
func (m *model) updatePhotoPathScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.photoPathInput.Blur()
			m.state = carFormScreen
			return m, nil
		case keyEnter:
			path := strings.TrimSpace(m.photoPathInput.Value())
			m.photoPathInput.Blur()
			m.state = carFormScreen
			if path == "" {
				return m, nil
			}
			return m, loadPhotoCmd(m.form.seq, path)
		}
	}
	var cmd tea.Cmd
	m.photoPathInput, cmd = m.photoPathInput.Update(msg)
	return m, cmd
}

func (m *model) handlePhotoLoaded(msg photoLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.form.seq {
		return m, nil
	}
	m.form.images = append(m.form.images, msg.image)
	m.form.err = ""
	return m, nil
}

func (m *model) handlePhotoErr(msg photoErrMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.form.seq {
		return m, nil
	}
	slog.Warn("Фото не загружено", "error", msg.err)
	if errors.Is(msg.err, imagegen.ErrFileTooLarge) {
		m.form.err = m.t(i18n.ErrorFile)
	} else {
		m.form.err = msg.err.Error()
	}
	return m, nil
}

func (m *model) viewPhotoPathScreen() string {
	return fmt.Sprintf("%s\n\n%s",
		lipgloss.NewStyle().Bold(true).Render(m.t(i18n.AddMorePhotos)),
		m.photoPathInput.View())
}

func (m *model) viewCarFormScreen() string {
	f := &m.form
	label := lipgloss.NewStyle().Foreground(colorMuted)
	focused := lipgloss.NewStyle().Foreground(colorAccent)

	title := m.t(i18n.FormTitle)
	submit := m.t(i18n.Save)
	if f.editing {
		title = m.t(i18n.FormTitleEdit)
		submit = m.t(i18n.Update)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(title))
	b.WriteString("\n")
	if f.err != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(colorError).Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	marker := func(field int) string {
		if f.focus == field {
			return focused.Render("> ")
		}
		return "  "
	}

	b.WriteString(fmt.Sprintf("%s%s\n  %s\n", marker(formFieldName), label.Render(m.t(i18n.NameLabel)), f.nameInput.View()))
	b.WriteString(fmt.Sprintf("%s%s\n  %s\n", marker(formFieldBrand), label.Render(m.t(i18n.BrandLabel)), f.brandInput.View()))
	b.WriteString(fmt.Sprintf("%s%s\n  %s\n", marker(formFieldModel), label.Render(m.t(i18n.ModelLabel)), f.modelInput.View()))
	b.WriteString(fmt.Sprintf("%s%s: ◀ %s ▶\n\n", marker(formFieldCategory), label.Render(m.t(i18n.CategoryLabel)), f.category))

	b.WriteString(marker(formFieldGallery))
	b.WriteString(label.Render(fmt.Sprintf("%s (%d)", m.t(i18n.Photos), len(f.images))))
	b.WriteString("\n")
	if len(f.images) == 0 {
		b.WriteString("    " + m.t(i18n.UploadText) + " (ctrl+p)\n")
	} else {
		slots := make([]string, len(f.images))
		for i := range f.images {
			slot := fmt.Sprintf("[%d]", i+1)
			if i == f.selectedImage {
				slot = focused.Render(fmt.Sprintf("[%d*]", i+1))
			}
			slots[i] = slot
		}
		b.WriteString("    " + strings.Join(slots, " ") + "\n")
		selected := describeImage(f.images[f.selectedImage])
		if f.selectedImage == 0 {
			selected = m.t(i18n.MainPhoto) + ": " + selected
		}
		b.WriteString("    " + selected + "\n")
	}
	b.WriteString("\n")

	b.WriteString(marker(formFieldPrompt))
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.t(i18n.AIEditorTitle)))
	b.WriteString(" " + label.Render(m.t(i18n.AIEditorDesc)) + "\n")
	b.WriteString("  " + f.promptInput.View())
	if f.generating {
		b.WriteString(" " + m.spinner.View() + " " + m.t(i18n.Generating))
	} else if strings.TrimSpace(f.promptInput.Value()) != "" && len(f.images) > 0 {
		b.WriteString(" " + label.Render("ctrl+g: "+m.t(i18n.Generate)))
	}
	b.WriteString("\n\n")
	b.WriteString(label.Render(fmt.Sprintf("ctrl+s: %s • esc: %s", submit, m.t(i18n.Cancel))))
	return b.String()
}
