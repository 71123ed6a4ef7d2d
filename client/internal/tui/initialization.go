package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/colectorpro/client/internal/garage"
	"github.com/maynagashev/colectorpro/client/internal/i18n"
	"github.com/maynagashev/colectorpro/client/internal/imagegen"
	"github.com/maynagashev/colectorpro/models"
)

// Константы, используемые при инициализации.
const (
	initNameCharLimit   = 128
	initPromptCharLimit = 512
	initPathCharLimit   = 4096
	initURLCharLimit    = 1024
	initInputWidth      = 40
)

// Цвета интерфейса.
var (
	colorAccent  = lipgloss.Color("212")
	colorMuted   = lipgloss.Color("245")
	colorError   = lipgloss.Color("196")
	colorBanner  = lipgloss.Color("52")
	colorSurface = lipgloss.Color("235")
)

// initCarList инициализирует компонент списка коллекции.
func initCarList() list.Model {
	delegate := list.NewDefaultDelegate()
	// Настраиваем цвета для лучшей видимости
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.
		Foreground(lipgloss.Color("252")).
		Background(colorSurface)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.
		Foreground(colorMuted).
		Background(colorSurface)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(colorAccent).
		Background(lipgloss.Color("237")).
		BorderLeftForeground(colorAccent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("240")).
		Background(lipgloss.Color("237")).
		BorderLeftForeground(colorAccent)

	l := list.New([]list.Item{}, delegate, defaultListWidth, defaultListHeight)
	l.SetShowTitle(false) // Заголовок рисуется вместе с режимом хранения
	l.SetShowHelp(false)  // Справка выводится под списком
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = list.DefaultStyles().Title.Bold(true)
	return l
}

func newInput(placeholder string, charLimit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.Width = initInputWidth
	return ti
}

// initFilterInputs инициализирует поля фильтра по названию, марке и модели.
func initFilterInputs(lang models.Language) []textinput.Model {
	inputs := []textinput.Model{
		newInput(i18n.T(lang, i18n.SearchPlaceholder), initNameCharLimit),
		newInput(i18n.T(lang, i18n.BrandPlaceholder), initNameCharLimit),
		newInput(i18n.T(lang, i18n.ModelPlaceholder), initNameCharLimit),
	}
	inputs[filterFieldName].Focus()
	return inputs
}

// initPhotoPathInput инициализирует поле ввода пути к фото.
func initPhotoPathInput(lang models.Language) textinput.Model {
	ti := newInput(i18n.T(lang, i18n.PhotoPathPrompt), initPathCharLimit)
	ti.Width = defaultListWidth - inputOffset
	return ti
}

// initConfigURLInput инициализирует поле ввода адреса сервера.
func initConfigURLInput(lang models.Language) textinput.Model {
	return newInput(i18n.T(lang, i18n.ServerURLPlaceholder), initURLCharLimit)
}

// initSpinner инициализирует индикатор загрузки и генерации.
func initSpinner() spinner.Model {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)
	return s
}

// initDocStyle инициализирует основной стиль документа.
func initDocStyle() lipgloss.Style {
	return lipgloss.NewStyle().Margin(docStyleMarginVertical, docStyleMarginHorizontal)
}

// initModel создает начальное состояние модели.
func initModel(g *garage.Garage, editor imagegen.Editor, debugMode bool) model {
	lang := g.Prefs().Language
	m := model{
		state:          carListScreen,
		garage:         g,
		editor:         editor,
		debugMode:      debugMode,
		carList:        initCarList(),
		filterInputs:   initFilterInputs(lang),
		photoPathInput: initPhotoPathInput(lang),
		configURLInput: initConfigURLInput(lang),
		spinner:        initSpinner(),
		docStyle:       initDocStyle(),
		width:          defaultListWidth,
		height:         defaultListHeight,
	}
	m.refreshList()
	return m
}
