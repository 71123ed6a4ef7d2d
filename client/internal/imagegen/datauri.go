package imagegen

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

// MaxImageFileBytes - максимальный размер фото, загружаемого с диска.
const MaxImageFileBytes = 5 * 1024 * 1024

// Ошибки загрузки фото.
var (
	ErrFileTooLarge = errors.New("файл слишком большой (максимум 5 МБ)")
	ErrNotImage     = errors.New("файл не является изображением")
)

var dataURIPrefix = regexp.MustCompile(`^data:image/(png|jpeg|jpg|webp);base64,`)

// ParseDataURI отделяет base64-данные от префикса data URI и определяет MIME-тип.
// Тип определяется по началу строки: png, webp, иначе jpeg.
func ParseDataURI(image string) (string, string) {
	mimeType := "image/jpeg"
	switch {
	case strings.HasPrefix(image, "data:image/png"):
		mimeType = "image/png"
	case strings.HasPrefix(image, "data:image/webp"):
		mimeType = "image/webp"
	}
	return mimeType, dataURIPrefix.ReplaceAllString(image, "")
}

// LoadImageFile читает фото с диска и возвращает его как data URI.
func LoadImageFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения файла: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s - каталог", ErrNotImage, path)
	}
	if info.Size() > MaxImageFileBytes {
		return "", ErrFileTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения файла: %w", err)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, contentType)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
