package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maynagashev/colectorpro/server/internal/middleware"
	"github.com/maynagashev/colectorpro/server/internal/repository"
	"github.com/maynagashev/colectorpro/server/internal/storage"
)

const (
	defaultServerPort  = "3001"
	defaultDBDriver    = repository.DriverSQLite
	defaultDBDSN       = "cars.db"
	defaultMinioBucket = "colector-images"

	// Ключи конфигурации.
	cfgKeyPort           = "port"
	cfgKeyDBDriver       = "database.driver"
	cfgKeyDBDSN          = "database.dsn"
	cfgKeyMaxBodyBytes   = "max_body_bytes"
	cfgKeyDebug          = "debug"
	cfgKeyMinioEndpoint  = "minio.endpoint"
	cfgKeyMinioUser      = "minio.user"
	cfgKeyMinioPassword  = "minio.password" //nolint:gosec // Имя ключа, а не пароль
	cfgKeyMinioBucket    = "minio.bucket"
	cfgKeyMinioUseSSL    = "minio.use_ssl"
	cfgKeyMinioPublicURL = "minio.public_url"

	// Переменные окружения.
	envServerPort     = "SERVER_PORT"
	envDatabaseDriver = "DATABASE_DRIVER"
	envDatabaseDSN    = "DATABASE_DSN"
	envMaxBodyBytes   = "MAX_BODY_BYTES"
	envDebug          = "DEBUG"
	envMinioEndpoint  = "MINIO_ENDPOINT"
	envMinioUser      = "MINIO_USER"
	envMinioPassword  = "MINIO_PASSWORD" //nolint:gosec // Имя переменной окружения
	envMinioBucket    = "MINIO_BUCKET"
	envMinioUseSSL    = "MINIO_USE_SSL"
	envMinioPublicURL = "MINIO_PUBLIC_URL"
)

// config хранит конфигурацию сервера.
type config struct {
	Port           string
	DatabaseDriver string
	DatabaseDSN    string
	MaxBodyBytes   int64
	Debug          bool
	Minio          storage.MinioConfig
	MinioPublicURL string
}

// bindFlags объявляет флаги команды. Имена флагов соответствуют ключам конфигурации.
func bindFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config", "", "Путь к файлу конфигурации (yaml, json, toml)")
	f.String("port", "", fmt.Sprintf("Порт HTTP-сервера (env: %s, default: %s)", envServerPort, defaultServerPort))
	f.String("database-driver", "", fmt.Sprintf("Драйвер БД: sqlite или postgres (env: %s)", envDatabaseDriver))
	f.String("database-dsn", "", fmt.Sprintf("Строка подключения к БД или путь к файлу SQLite (env: %s)", envDatabaseDSN))
	f.Int64("max-body-bytes", 0, fmt.Sprintf("Максимальный размер тела запроса (env: %s)", envMaxBodyBytes))
	f.Bool("debug", false, fmt.Sprintf("Подробное логирование (env: %s)", envDebug))
	f.String("minio-endpoint", "", fmt.Sprintf("Адрес MinIO для выгрузки фото, пусто - выключено (env: %s)", envMinioEndpoint))
	f.String("minio-bucket", "", fmt.Sprintf("Бакет MinIO (env: %s)", envMinioBucket))
	f.String("minio-public-url", "", fmt.Sprintf("Публичный адрес бакета для ссылок на фото (env: %s)", envMinioPublicURL))
}

// loadConfig собирает конфигурацию с приоритетом: флаг > переменная окружения > файл > значение по умолчанию.
func loadConfig(cmd *cobra.Command) (*config, error) {
	v := viper.New()

	v.SetDefault(cfgKeyPort, defaultServerPort)
	v.SetDefault(cfgKeyDBDriver, defaultDBDriver)
	v.SetDefault(cfgKeyDBDSN, defaultDBDSN)
	v.SetDefault(cfgKeyMaxBodyBytes, middleware.DefaultMaxBodyBytes)
	v.SetDefault(cfgKeyMinioBucket, defaultMinioBucket)

	envs := map[string]string{
		cfgKeyPort:           envServerPort,
		cfgKeyDBDriver:       envDatabaseDriver,
		cfgKeyDBDSN:          envDatabaseDSN,
		cfgKeyMaxBodyBytes:   envMaxBodyBytes,
		cfgKeyDebug:          envDebug,
		cfgKeyMinioEndpoint:  envMinioEndpoint,
		cfgKeyMinioUser:      envMinioUser,
		cfgKeyMinioPassword:  envMinioPassword,
		cfgKeyMinioBucket:    envMinioBucket,
		cfgKeyMinioUseSSL:    envMinioUseSSL,
		cfgKeyMinioPublicURL: envMinioPublicURL,
	}
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("ошибка привязки переменной %s: %w", env, err)
		}
	}

	flags := map[string]string{
		cfgKeyPort:           "port",
		cfgKeyDBDriver:       "database-driver",
		cfgKeyDBDSN:          "database-dsn",
		cfgKeyMaxBodyBytes:   "max-body-bytes",
		cfgKeyDebug:          "debug",
		cfgKeyMinioEndpoint:  "minio-endpoint",
		cfgKeyMinioBucket:    "minio-bucket",
		cfgKeyMinioPublicURL: "minio-public-url",
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
		Port:           v.GetString(cfgKeyPort),
		DatabaseDriver: strings.ToLower(v.GetString(cfgKeyDBDriver)),
		DatabaseDSN:    v.GetString(cfgKeyDBDSN),
		MaxBodyBytes:   v.GetInt64(cfgKeyMaxBodyBytes),
		Debug:          v.GetBool(cfgKeyDebug),
		Minio: storage.MinioConfig{
			Endpoint:        v.GetString(cfgKeyMinioEndpoint),
			AccessKeyID:     v.GetString(cfgKeyMinioUser),
			SecretAccessKey: v.GetString(cfgKeyMinioPassword),
			UseSSL:          v.GetBool(cfgKeyMinioUseSSL),
			BucketName:      v.GetString(cfgKeyMinioBucket),
		},
		MinioPublicURL: v.GetString(cfgKeyMinioPublicURL),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	if c.Port == "" {
		return errors.New("не указан порт (--port или " + envServerPort + ")")
	}
	if c.DatabaseDriver != repository.DriverSQLite && c.DatabaseDriver != repository.DriverPostgres {
		return fmt.Errorf("%w: %q", repository.ErrUnsupportedDriver, c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("не указана строка подключения к БД (--database-dsn или " + envDatabaseDSN + ")")
	}
	if c.Minio.Enabled() && c.MinioPublicURL == "" {
		scheme := "http"
		if c.Minio.UseSSL {
			scheme = "https"
		}
		c.MinioPublicURL = fmt.Sprintf("%s://%s/%s", scheme, c.Minio.Endpoint, c.Minio.BucketName)
	}
	return nil
}
