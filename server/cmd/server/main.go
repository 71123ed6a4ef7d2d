package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/maynagashev/colectorpro/server/internal/handlers"
	"github.com/maynagashev/colectorpro/server/internal/metrics"
	appmiddleware "github.com/maynagashev/colectorpro/server/internal/middleware"
	"github.com/maynagashev/colectorpro/server/internal/repository"
	"github.com/maynagashev/colectorpro/server/internal/services"
	"github.com/maynagashev/colectorpro/server/internal/storage"
)

const (
	// Фото передаются в base64 внутри JSON, поэтому чтение тела может занять время.
	defaultReadTimeout     = 60 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	corsMaxAge             = 300
)

// Подменяются в тестах.
var (
	newDB          = repository.NewDB
	newMinioClient = func(ctx context.Context, cfg storage.MinioConfig) (storage.FileStorage, error) {
		return storage.NewMinioClient(ctx, cfg)
	}
)

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db         *sqlx.DB
	carHandler *handlers.CarHandler
}

// main - точка входа. Вызывает корневую команду и обрабатывает ошибку.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("Ошибка выполнения сервера")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Сервер коллекции ColectorPro",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg.Debug)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	bindFlags(cmd)
	return cmd
}

// setupLogging настраивает глобальный логгер zerolog.
func setupLogging(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().Timestamp().Logger()
}

// run запускает сервер и блокируется до отмены ctx.
func run(ctx context.Context, cfg *config) error {
	log.Info().Msg("Запуск сервера ColectorPro...")

	deps, err := setupDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	defer func() {
		if closeErr := deps.db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Ошибка закрытия соединения с БД")
		}
	}()

	server := &http.Server{
		Addr:         net.JoinHostPort("0.0.0.0", cfg.Port),
		Handler:      setupRouter(deps.carHandler, cfg.MaxBodyBytes),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("ошибка запуска HTTP-сервера: %w", err)
	}
	fmt.Fprint(os.Stderr, lanBanner(localExternalIP(), cfg.Port))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Остановка сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies(ctx context.Context, cfg *config) (*dependencies, error) {
	db, err := newDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}

	if err = repository.Migrate(ctx, db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("ошибка миграции БД: %w", err)
	}

	var offloader services.ImageOffloader
	if cfg.Minio.Enabled() {
		files, minioErr := newMinioClient(ctx, cfg.Minio)
		if minioErr != nil {
			closeDB(db)
			return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", minioErr)
		}
		offloader = storage.NewImageOffloader(files, cfg.MinioPublicURL)
		log.Info().Str("public_url", cfg.MinioPublicURL).Msg("Фото будут выгружаться в MinIO")
	}

	carRepo := repository.NewCarRepository(db)
	carService := services.NewCarService(carRepo, offloader)

	return &dependencies{
		db:         db,
		carHandler: handlers.NewCarHandler(carService),
	}, nil
}

func closeDB(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Ошибка закрытия соединения с БД")
	}
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(carHandler *handlers.CarHandler, maxBodyBytes int64) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(appmiddleware.RequestLogger(log.Logger))
	r.Use(chimw.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         corsMaxAge,
	}))
	r.Use(appmiddleware.BodyLimit(maxBodyBytes))

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/cars", func(r chi.Router) {
		r.Get("/", carHandler.List)
		r.Post("/", carHandler.Create)
		r.Put("/{id}", carHandler.Update)
		r.Delete("/{id}", carHandler.Delete)
	})
	return r
}

// localExternalIP возвращает первый IPv4-адрес не на loopback-интерфейсе или "localhost".
func localExternalIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "localhost"
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, addrErr := iface.Addrs()
		if addrErr != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipNet.IP.To4(); ip4 != nil && !ip4.IsLoopback() {
				return ip4.String()
			}
		}
	}
	return "localhost"
}

// lanBanner - сообщение при старте с адресом, который нужно указать в клиенте.
func lanBanner(ip, port string) string {
	const line = "=================================================="
	return "\n" + line + "\n" +
		"СЕРВЕР ЗАПУЩЕН - COLECTOR PRO\n" +
		"Порт: " + port + "\n" +
		"--------------------------------------------------\n" +
		"АДРЕС ДЛЯ НАСТРОЙКИ КЛИЕНТА:\n" +
		"http://" + net.JoinHostPort(ip, port) + "\n" +
		line + "\n\n"
}
