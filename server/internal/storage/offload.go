package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidDataURI возвращается для строки, похожей на data URI, но не разбираемой как base64-картинка.
var ErrInvalidDataURI = errors.New("некорректный data URI")

const dataURIPrefix = "data:"

// ImageOffloader выгружает встроенные в запись фото (data URI) в объектное хранилище
// и подменяет их публичными ссылками.
type ImageOffloader struct {
	files     FileStorage
	publicURL string
	keyPrefix string
}

// NewImageOffloader создает выгрузчик. publicURL - адрес, по которому бакет доступен клиентам,
// например http://192.168.0.10:9000/colector-images.
func NewImageOffloader(files FileStorage, publicURL string) *ImageOffloader {
	return &ImageOffloader{
		files:     files,
		publicURL: strings.TrimRight(publicURL, "/"),
		keyPrefix: "cars/",
	}
}

// Offload загружает фото и возвращает его ссылку. Строки, не являющиеся data URI,
// возвращаются без изменений.
func (o *ImageOffloader) Offload(ctx context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, dataURIPrefix) {
		return image, nil
	}

	contentType, payload, err := decodeDataURI(image)
	if err != nil {
		return "", err
	}

	key := o.keyPrefix + uuid.NewString() + extensionFor(contentType)
	if err = o.files.UploadFile(ctx, key, bytes.NewReader(payload), int64(len(payload)), contentType); err != nil {
		return "", fmt.Errorf("ошибка выгрузки фото: %w", err)
	}
	return o.publicURL + "/" + key, nil
}

// decodeDataURI разбирает строку вида data:<mime>;base64,<payload>.
func decodeDataURI(s string) (string, []byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, dataURIPrefix), ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: нет разделителя", ErrInvalidDataURI)
	}
	contentType, ok := strings.CutSuffix(header, ";base64")
	if !ok || !strings.HasPrefix(contentType, "image/") {
		return "", nil, fmt.Errorf("%w: ожидается base64-картинка", ErrInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}
	return contentType, data, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
