package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Путь к локальной базе по умолчанию.
	defaultDBPath = "colector.db"

	// Ключи конфигурации.
	cfgKeyDB            = "db"
	cfgKeyDebug         = "debug"
	cfgKeyGeminiAPIKey  = "gemini_api_key" //nolint:gosec // Имя ключа, а не секрет
	cfgKeyGeminiBaseURL = "gemini_base_url"
	cfgKeyServerURL     = "server_url"

	// Переменные окружения.
	envDBPath        = "COLECTOR_DB_PATH"
	envDebug         = "COLECTOR_DEBUG"
	envGeminiAPIKey  = "GEMINI_API_KEY" //nolint:gosec // Имя переменной окружения
	envAPIKey        = "API_KEY"
	envGeminiBaseURL = "GEMINI_BASE_URL"
	envServerURL     = "COLECTOR_SERVER_URL"
)

// config хранит конфигурацию клиента.
type config struct {
	DBPath        string
	Debug         bool
	GeminiAPIKey  string
	GeminiBaseURL string
	// ServerURL - адрес сервера до первого сохранения настроек; сохраненный адрес важнее.
	ServerURL string
}

// bindFlags объявляет флаги команды.
func bindFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("version", false, "Показать версию и дату сборки")
	f.String("config", "", "Путь к файлу конфигурации (yaml, json, toml)")
	f.String("db", "", fmt.Sprintf("Путь к локальной базе (env: %s, default: %s)", envDBPath, defaultDBPath))
	f.Bool("debug", false, fmt.Sprintf("Подробное логирование и отладочная панель (env: %s)", envDebug))
	f.String("gemini-api-key", "", fmt.Sprintf("Ключ API для редактирования фото (env: %s или %s)", envGeminiAPIKey, envAPIKey))
	f.String("gemini-base-url", "", fmt.Sprintf("Адрес API редактирования фото (env: %s)", envGeminiBaseURL))
	f.String("server-url", "", fmt.Sprintf("Адрес сервера коллекции по умолчанию (env: %s)", envServerURL))
}

// loadConfig собирает конфигурацию с приоритетом: флаг > переменная окружения > файл > значение по умолчанию.
func loadConfig(cmd *cobra.Command) (*config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyDB, defaultDBPath)

	envs := map[string][]string{
		cfgKeyDB:            {envDBPath},
		cfgKeyDebug:         {envDebug},
		cfgKeyGeminiAPIKey:  {envGeminiAPIKey, envAPIKey},
		cfgKeyGeminiBaseURL: {envGeminiBaseURL},
		cfgKeyServerURL:     {envServerURL},
	}
	for key, names := range envs {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("ошибка привязки переменной %v: %w", names, err)
		}
	}

	flags := map[string]string{
		cfgKeyDB:            "db",
		cfgKeyDebug:         "debug",
		cfgKeyGeminiAPIKey:  "gemini-api-key",
		cfgKeyGeminiBaseURL: "gemini-base-url",
		cfgKeyServerURL:     "server-url",
	}
	for key, name := range flags {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("ошибка привязки флага --%s: %w", name, err)
		}
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	cfg := &config{
		DBPath:        v.GetString(cfgKeyDB),
		Debug:         v.GetBool(cfgKeyDebug),
		GeminiAPIKey:  v.GetString(cfgKeyGeminiAPIKey),
		GeminiBaseURL: v.GetString(cfgKeyGeminiBaseURL),
		ServerURL:     v.GetString(cfgKeyServerURL),
	}
	if cfg.DBPath == "" {
		return nil, errors.New("путь к локальной базе не может быть пустым (--db или " + envDBPath + ")")
	}
	return cfg, nil
}
