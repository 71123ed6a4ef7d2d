// Package imagegen редактирует фото коллекции через Gemini по текстовой инструкции.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL - адрес Generative Language API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// Model - модель редактирования изображений.
	Model = "gemini-2.5-flash-image"

	apiKeyHeader = "x-goog-api-key"
	maxErrorBody = 4096
)

// Ошибки редактирования.
var (
	ErrMissingAPIKey = errors.New("не задан API-ключ Gemini")
	ErrNoImage       = errors.New("Gemini не вернул изображение")
	ErrRequestFailed = errors.New("ошибка запроса к Gemini")
)

// Editor редактирует изображение по инструкции.
type Editor interface {
	// Edit принимает фото (data URI или голый base64) и возвращает новое фото как data URI PNG.
	Edit(ctx context.Context, image, instruction string) (string, error)
}

// GeminiEditor реализует Editor через метод generateContent.
type GeminiEditor struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Editor = (*GeminiEditor)(nil)

// Option настраивает GeminiEditor.
type Option func(*GeminiEditor)

// WithBaseURL задает адрес API (для прокси и тестов).
func WithBaseURL(u string) Option {
	return func(e *GeminiEditor) {
		if u != "" {
			e.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient задает HTTP-клиент.
func WithHTTPClient(c *http.Client) Option {
	return func(e *GeminiEditor) {
		if c != nil {
			e.httpClient = c
		}
	}
}

// NewGeminiEditor создает редактор. Пустой apiKey допустим: ошибка вернется при вызове Edit.
func NewGeminiEditor(apiKey string, opts ...Option) *GeminiEditor {
	e := &GeminiEditor{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{}, // Без таймаута: генерация может идти долго
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	InlineData *inlineData `json:"inlineData,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

// Edit выполняет один запрос generateContent без повторов.
func (e *GeminiEditor) Edit(ctx context.Context, image, instruction string) (string, error) {
	if e.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	mimeType, data := ParseDataURI(image)
	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: mimeType, Data: data}},
				{Text: Prompt(instruction)},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("ошибка кодирования запроса: %w", err)
	}

	endpoint := e.baseURL + "/v1beta/models/" + Model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, e.apiKey)

	slog.Debug("Запрос редактирования изображения", "model", Model, "mime", mimeType, "size", len(data))
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: ошибка чтения ответа: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(respBody, "error.message").String()
		if msg == "" {
			msg = string(respBody[:min(len(respBody), maxErrorBody)])
		}
		slog.Error("Gemini вернул ошибку", "status", resp.StatusCode, "message", msg)
		return "", fmt.Errorf("%w: статус %d: %s", ErrRequestFailed, resp.StatusCode, msg)
	}

	for _, d := range gjson.GetBytes(respBody, "candidates.0.content.parts.#.inlineData.data").Array() {
		if s := d.String(); s != "" {
			return "data:image/png;base64," + s, nil
		}
	}
	return "", ErrNoImage
}

// Prompt формирует текстовую часть запроса.
func Prompt(instruction string) string {
	return "Edit this image: " + instruction + ". Return ONLY the edited image."
}
