package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// FileStorage определяет интерфейс для взаимодействия с объектным хранилищем.
type FileStorage interface {
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
}

// MinioClient реализует FileStorage для MinIO.
type MinioClient struct {
	client     *minio.Client
	bucketName string
}

// MinioConfig содержит параметры для подключения к MinIO.
type MinioConfig struct {
	Endpoint        string // Адрес MinIO (например, "localhost:9000")
	AccessKeyID     string // Логин
	SecretAccessKey string // Пароль
	UseSSL          bool
	BucketName      string // Имя бакета для фото коллекции
	Region          string
}

// Enabled сообщает, задан ли адрес MinIO. Без него фото хранятся прямо в БД.
func (c MinioConfig) Enabled() bool {
	return c.Endpoint != ""
}

// NewMinioClient создает новый клиент MinIO и при необходимости создает бакет.
func NewMinioClient(ctx context.Context, cfg MinioConfig) (*MinioClient, error) {
	log.Info().Str("endpoint", cfg.Endpoint).Msg("Инициализация клиента MinIO...")

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
	}

	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки существования бакета '%s': %w", cfg.BucketName, err)
	}
	if !exists {
		log.Info().Str("bucket", cfg.BucketName).Msg("Бакет не найден, попытка создания...")
		err = minioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета '%s': %w", cfg.BucketName, err)
		}
	}

	log.Info().Str("bucket", cfg.BucketName).Msg("Клиент MinIO успешно инициализирован.")
	return &MinioClient{
		client:     minioClient,
		bucketName: cfg.BucketName,
	}, nil
}

// UploadFile загружает файл в MinIO.
func (c *MinioClient) UploadFile(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	opts := minio.PutObjectOptions{ContentType: contentType}

	uploadInfo, err := c.client.PutObject(ctx, c.bucketName, objectKey, reader, size, opts)
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("[Minio] Ошибка загрузки файла")
		return fmt.Errorf("ошибка загрузки файла в MinIO: %w", err)
	}

	log.Debug().Str("key", objectKey).Int64("size", uploadInfo.Size).Str("etag", uploadInfo.ETag).
		Msg("[Minio] Файл загружен")
	return nil
}
