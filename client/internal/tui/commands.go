package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/colectorpro/client/internal/garage"
	"github.com/maynagashev/colectorpro/client/internal/imagegen"
)

// loadCarsCmd асинхронно загружает коллекцию из активного хранилища.
func loadCarsCmd(load func(ctx context.Context) garage.LoadResult) tea.Cmd {
	return func() tea.Msg {
		return carsLoadedMsg{res: load(context.Background())}
	}
}

// commitCmd асинхронно записывает изменение в хранилище.
func commitCmd(commit garage.Commit) tea.Cmd {
	return func() tea.Msg {
		return commitDoneMsg{res: commit(context.Background())}
	}
}

// loadPhotoCmd читает фото с диска и кодирует его в data URI.
func loadPhotoCmd(seq int, path string) tea.Cmd {
	return func() tea.Msg {
		image, err := imagegen.LoadImageFile(path)
		if err != nil {
			return photoErrMsg{seq: seq, err: err}
		}
		return photoLoadedMsg{seq: seq, image: image}
	}
}

// editImageCmd отправляет фото index на редактирование.
func editImageCmd(editor imagegen.Editor, seq, index int, image, instruction string) tea.Cmd {
	return func() tea.Msg {
		edited, err := editor.Edit(context.Background(), image, instruction)
		return imageEditedMsg{seq: seq, index: index, image: edited, err: err}
	}
}

// clearStatusCmd возвращает команду, которая отправит clearStatusMsg через delay.
func clearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
