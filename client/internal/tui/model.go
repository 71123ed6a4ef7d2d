package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/colectorpro/client/internal/garage"
	"github.com/maynagashev/colectorpro/client/internal/imagegen"
	"github.com/maynagashev/colectorpro/models"
)

// Состояния (экраны) приложения.
type screenState int

const (
	carListScreen       screenState = iota // Экран списка коллекции
	filterScreen                           // Экран фильтров
	carDetailScreen                        // Экран деталей модели
	carFormScreen                          // Экран добавления/редактирования
	photoPathScreen                        // Экран ввода пути к фото
	deleteConfirmScreen                    // Экран подтверждения удаления
	configScreen                           // Экран настройки хранилища
	alertScreen                            // Экран ошибки записи на сервер
)

var screenNames = map[screenState]string{
	carListScreen:       "carList",
	filterScreen:        "filter",
	carDetailScreen:     "carDetail",
	carFormScreen:       "carForm",
	photoPathScreen:     "photoPath",
	deleteConfirmScreen: "deleteConfirm",
	configScreen:        "config",
	alertScreen:         "alert",
}

func (s screenState) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// Поля формы в порядке обхода по Tab.
const (
	formFieldName = iota
	formFieldBrand
	formFieldModel
	formFieldCategory
	formFieldGallery
	formFieldPrompt
	numFormFields
)

// Поля фильтра в порядке обхода по Tab.
const (
	filterFieldName = iota
	filterFieldBrand
	filterFieldModel
	filterFieldCategory
	numFilterFields
)

// Поля экрана настроек.
const (
	configFieldMode = iota
	configFieldURL
	numConfigFields
)

// Константы для TUI.
const (
	defaultListWidth  = 80 // Стандартная ширина терминала для списка
	defaultListHeight = 24 // Стандартная высота терминала для списка
	inputOffset       = 4  // Отступ для полей ввода

	keyEnter    = "enter"
	keyQuit     = "q"
	keyBack     = "b"
	keyEsc      = "esc"
	keyEdit     = "e"
	keyAdd      = "a"
	keyDelete   = "d"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyLeft     = "left"
	keyRight    = "right"
)

// carItem представляет модель в списке.
// Реализует интерфейс list.Item.
type carItem struct {
	car models.Car
}

func (i carItem) Title() string { return i.car.Name }

func (i carItem) Description() string {
	parts := make([]string, 0, 3)
	if i.car.Brand != "" {
		parts = append(parts, i.car.Brand)
	}
	if i.car.Model != "" {
		parts = append(parts, i.car.Model)
	}
	if i.car.Category != "" {
		parts = append(parts, string(i.car.Category))
	}
	desc := strings.Join(parts, " • ")

	// Индикатор количества фото
	if len(i.car.Images) > 1 {
		if desc != "" {
			desc += " "
		}
		desc += fmt.Sprintf("[%d]", len(i.car.Images))
	}
	return desc
}

func (i carItem) FilterValue() string { return i.car.Name }

// carForm - состояние формы добавления или редактирования.
type carForm struct {
	editing  bool
	original models.Car // id и время добавления при редактировании
	seq      int        // номер открытия формы, отсекает ответы для закрытой формы

	nameInput   textinput.Model
	brandInput  textinput.Model
	modelInput  textinput.Model
	promptInput textinput.Model
	focus       int

	category      models.Category
	images        []string
	selectedImage int

	generating bool
	err        string
}

// model представляет состояние TUI приложения.
type model struct {
	state     screenState
	garage    *garage.Garage
	editor    imagegen.Editor
	debugMode bool

	carList     list.Model  // Список коллекции
	selectedCar *models.Car // Модель на экране деталей или удаления
	detailImage int         // Индекс фото на экране деталей
	returnState screenState // Экран, на который вернуться после удаления/ошибки

	filter       models.Filter
	filterInputs []textinput.Model // name, brand, model
	filterFocus  int

	form           carForm
	formSeq        int
	photoPathInput textinput.Model

	configMode     models.StorageMode
	configURLInput textinput.Model
	configFocus    int

	alertText    string
	savingStatus string
	spinner      spinner.Model
	width        int
	height       int
	docStyle     lipgloss.Style
}

// --- Сообщения --- //

// carsLoadedMsg - результат загрузки коллекции.
type carsLoadedMsg struct {
	res garage.LoadResult
}

// commitDoneMsg - результат записи изменения в хранилище.
type commitDoneMsg struct {
	res garage.Result
}

// photoLoadedMsg - фото, прочитанное с диска.
type photoLoadedMsg struct {
	seq   int
	image string
}

// photoErrMsg - ошибка чтения фото.
type photoErrMsg struct {
	seq int
	err error
}

// imageEditedMsg - результат редактирования фото.
type imageEditedMsg struct {
	seq   int
	index int
	image string
	err   error
}

// Сообщение для очистки статуса.
type clearStatusMsg struct{}
