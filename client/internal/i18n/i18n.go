// Package i18n содержит строки интерфейса на португальском и английском.
package i18n

import "github.com/maynagashev/colectorpro/models"

// Key - идентификатор строки интерфейса.
type Key string

// Ключи строк интерфейса.
const (
	AppTitle          Key = "appTitle"
	SearchPlaceholder Key = "searchPlaceholder"
	BrandPlaceholder  Key = "brandPlaceholder"
	ModelPlaceholder  Key = "modelPlaceholder"
	CategoryAll       Key = "categoryAll"
	AddCar            Key = "addCar"
	NoCarsTitle       Key = "noCarsTitle"
	NoCarsSubtitle    Key = "noCarsSubtitle"
	NoCarsFilter      Key = "noCarsFilter"
	DeleteConfirm     Key = "deleteConfirm"

	ServerConfigTitle    Key = "serverConfigTitle"
	StorageMode          Key = "storageMode"
	ModeLocal            Key = "modeLocal"
	ModeServer           Key = "modeServer"
	ServerURL            Key = "serverUrl"
	ServerURLPlaceholder Key = "serverUrlPlaceholder"
	SaveConfig           Key = "saveConfig"
	ConnectionError      Key = "connectionError"
	SwitchToLocal        Key = "switchToLocal"

	FormTitle     Key = "formTitle"
	FormTitleEdit Key = "formTitleEdit"
	UploadText    Key = "uploadText"
	AddMorePhotos Key = "addMorePhotos"
	MainPhoto     Key = "mainPhoto"
	ChangeImage   Key = "changeImage"
	AIEditorTitle Key = "aiEditorTitle"
	AIEditorDesc  Key = "aiEditorDesc"
	AIPlaceholder Key = "aiPlaceholder"
	Generate      Key = "generate"
	NameLabel     Key = "nameLabel"
	BrandLabel    Key = "brandLabel"
	ModelLabel    Key = "modelLabel"
	CategoryLabel Key = "categoryLabel"
	Cancel        Key = "cancel"
	Save          Key = "save"
	Update        Key = "update"
	ErrorFile     Key = "errorFile"
	ErrorReq      Key = "errorReq"
	ErrorGen      Key = "errorGen"

	DetailsTitle Key = "detailsTitle"
	Close        Key = "close"
	Added        Key = "added"

	// Строки терминального интерфейса.
	PhotoPathPrompt Key = "photoPathPrompt"
	Photos          Key = "photos"
	Generating      Key = "generating"
	SaveFailed      Key = "saveFailed"
	DeleteFailed    Key = "deleteFailed"
	Yes             Key = "yes"
	No              Key = "no"
	HelpList        Key = "helpList"
	HelpDetail      Key = "helpDetail"
	HelpForm        Key = "helpForm"
	HelpFilter      Key = "helpFilter"
	HelpConfig      Key = "helpConfig"
	PressAnyKey     Key = "pressAnyKey"
)

var translations = map[models.Language]map[Key]string{
	models.LangEN: {
		AppTitle:          "ColectorPro",
		SearchPlaceholder: "Search Name...",
		BrandPlaceholder:  "Filter by Brand...",
		ModelPlaceholder:  "Filter by Model...",
		CategoryAll:       "All Categories",
		AddCar:            "Add Car",
		NoCarsTitle:       "No cars found",
		NoCarsSubtitle:    "Get started by adding a new car to your collection.",
		NoCarsFilter:      "Try adjusting your filters.",
		DeleteConfirm:     "Are you sure you want to delete this car?",

		ServerConfigTitle:    "Server Connection",
		StorageMode:          "Storage Mode",
		ModeLocal:            "Local (Offline / This Device)",
		ModeServer:           "Remote Server (Centralized)",
		ServerURL:            "Server URL",
		ServerURLPlaceholder: "e.g., http://192.168.1.5:3001",
		SaveConfig:           "Save Configuration",
		ConnectionError:      "Could not connect to server.",
		SwitchToLocal:        "Switch to Local Mode",

		FormTitle:     "Add New Car",
		FormTitleEdit: "Edit Car",
		UploadText:    "Click to upload photos",
		AddMorePhotos: "Add Photos",
		MainPhoto:     "Main Cover",
		ChangeImage:   "Change Image",
		AIEditorTitle: "AI Image Editor",
		AIEditorDesc:  "Power-up the selected photo with Gemini!",
		AIPlaceholder: "e.g., Add blue neon lights...",
		Generate:      "Generate",
		NameLabel:     "Name / Nickname",
		BrandLabel:    "Brand",
		ModelLabel:    "Model",
		CategoryLabel: "Category",
		Cancel:        "Cancel",
		Save:          "Save to Garage",
		Update:        "Update Car",
		ErrorFile:     "File size too large (max 5MB)",
		ErrorReq:      "Please provide a name and at least one image.",
		ErrorGen:      "Failed to generate image. Please try again.",

		DetailsTitle: "Car Details",
		Close:        "Close",
		Added:        "Added",

		PhotoPathPrompt: "Photo file path",
		Photos:          "Photos",
		Generating:      "Generating...",
		SaveFailed:      "Could not save to the server.",
		DeleteFailed:    "Could not delete on the server.",
		Yes:             "Yes",
		No:              "No",
		HelpList:        "enter: details • a: add • /: filters • e: edit • d: delete • v: layout • l: language • s: server • q: quit",
		HelpDetail:      "e: edit • d: delete • esc: close",
		HelpForm:        "tab: next field • ←/→: category/photo • ctrl+p: add photo • ctrl+x: remove photo • ctrl+g: generate • ctrl+s: save • esc: cancel",
		HelpFilter:      "tab: next field • ←/→: category • ctrl+r: clear • esc/enter: back",
		HelpConfig:      "tab: next field • ←/→: mode • enter: save • esc: cancel",
		PressAnyKey:     "Press any key to continue",
	},
	models.LangPT: {
		AppTitle:          "ColectorPro",
		SearchPlaceholder: "Buscar Nome...",
		BrandPlaceholder:  "Filtrar por Marca...",
		ModelPlaceholder:  "Filtrar por Modelo...",
		CategoryAll:       "Todas Categorias",
		AddCar:            "Adicionar Carro",
		NoCarsTitle:       "Nenhum carro encontrado",
		NoCarsSubtitle:    "Comece adicionando um novo carro à sua garagem.",
		NoCarsFilter:      "Tente ajustar seus filtros.",
		DeleteConfirm:     "Tem certeza que deseja excluir este carro?",

		ServerConfigTitle:    "Conexão com Servidor",
		StorageMode:          "Modo de Armazenamento",
		ModeLocal:            "Local (Offline / Este Dispositivo)",
		ModeServer:           "Servidor Remoto (Centralizado)",
		ServerURL:            "URL do Servidor",
		ServerURLPlaceholder: "ex: http://192.168.0.15:3001",
		SaveConfig:           "Salvar Configuração",
		ConnectionError:      "Não foi possível conectar ao servidor. Verifique se o servidor está rodando.",
		SwitchToLocal:        "Mudar para Local",

		FormTitle:     "Adicionar Novo Carro",
		FormTitleEdit: "Editar Carro",
		UploadText:    "Clique para enviar fotos",
		AddMorePhotos: "Add Fotos",
		MainPhoto:     "Capa Principal",
		ChangeImage:   "Alterar Imagem",
		AIEditorTitle: "Editor de Imagem IA",
		AIEditorDesc:  "Turbine a foto selecionada com Gemini!",
		AIPlaceholder: "ex: Adicionar luzes neon azuis...",
		Generate:      "Gerar",
		NameLabel:     "Nome / Apelido",
		BrandLabel:    "Marca",
		ModelLabel:    "Modelo",
		CategoryLabel: "Categoria",
		Cancel:        "Cancelar",
		Save:          "Salvar na Garagem",
		Update:        "Atualizar Carro",
		ErrorFile:     "Arquivo muito grande (max 5MB)",
		ErrorReq:      "Por favor forneça nome e pelo menos uma imagem.",
		ErrorGen:      "Falha ao gerar imagem. Tente novamente.",

		DetailsTitle: "Detalhes do Carro",
		Close:        "Fechar",
		Added:        "Add",

		PhotoPathPrompt: "Caminho do arquivo da foto",
		Photos:          "Fotos",
		Generating:      "Gerando...",
		SaveFailed:      "Não foi possível salvar no servidor.",
		DeleteFailed:    "Não foi possível excluir no servidor.",
		Yes:             "Sim",
		No:              "Não",
		HelpList:        "enter: detalhes • a: adicionar • /: filtros • e: editar • d: excluir • v: layout • l: idioma • s: servidor • q: sair",
		HelpDetail:      "e: editar • d: excluir • esc: fechar",
		HelpForm:        "tab: próximo campo • ←/→: categoria/foto • ctrl+p: add foto • ctrl+x: remover foto • ctrl+g: gerar • ctrl+s: salvar • esc: cancelar",
		HelpFilter:      "tab: próximo campo • ←/→: categoria • ctrl+r: limpar • esc/enter: voltar",
		HelpConfig:      "tab: próximo campo • ←/→: modo • enter: salvar • esc: cancelar",
		PressAnyKey:     "Pressione qualquer tecla para continuar",
	},
}

// T возвращает строку key на языке lang. Если перевода нет, используется английский,
// а затем сам ключ.
func T(lang models.Language, key Key) string {
	if s, ok := translations[lang][key]; ok {
		return s
	}
	if s, ok := translations[models.LangEN][key]; ok {
		return s
	}
	return string(key)
}

// Toggle переключает pt и en.
func Toggle(lang models.Language) models.Language {
	if lang == models.LangPT {
		return models.LangEN
	}
	return models.LangPT
}
