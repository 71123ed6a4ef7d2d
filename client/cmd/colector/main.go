package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/maynagashev/colectorpro/client/internal/api"
	"github.com/maynagashev/colectorpro/client/internal/garage"
	"github.com/maynagashev/colectorpro/client/internal/imagegen"
	"github.com/maynagashev/colectorpro/client/internal/local"
	"github.com/maynagashev/colectorpro/client/internal/prefs"
	"github.com/maynagashev/colectorpro/client/internal/storage"
	"github.com/maynagashev/colectorpro/client/internal/tui"
)

const (
	logDir             = "logs"
	logFileName        = "client.log"
	logFilePermissions = 0o666
)

// Переменные для версии и даты сборки, устанавливаются через ldflags.
//
//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
var (
	version    = "dev"
	buildDate  = "unknown"
	commitHash = "N/A"
)

// Подменяются в тестах.
var (
	openLocal = local.Open
	startTUI  = tui.Start
)

// dependencies - собранные зависимости клиента.
type dependencies struct {
	db     *local.DB // nil, если локальная база недоступна
	garage *garage.Garage
	editor imagegen.Editor
}

func (d *dependencies) Close() {
	if d.db == nil {
		return
	}
	if err := d.db.Close(); err != nil {
		slog.Error("Ошибка закрытия локальной базы", "error", err)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "colector",
		Short:         "ColectorPro - менеджер коллекции масштабных моделей",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				printVersion(cmd.OutOrStdout())
				return nil
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logFile, err := setupLogging(logDir, cfg.Debug)
			if err != nil {
				return err
			}
			defer logFile.Close()

			deps := setupDependencies(cfg)
			defer deps.Close()

			return startTUI(tui.Options{Garage: deps.garage, Editor: deps.editor, Debug: cfg.Debug})
		},
	}
	bindFlags(cmd)
	return cmd
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, "ColectorPro Client")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Date: %s\n", buildDate)
	fmt.Fprintf(w, "Commit Hash: %s\n", commitHash)
}

// setupLogging настраивает логирование в файл dir/client.log.
// Терминал занят интерфейсом, поэтому в stdout ничего не пишется.
func setupLogging(dir string, debug bool) (*os.File, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию для логов: %w", err)
	}
	logPath := filepath.Join(dir, logFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть лог-файл: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level})))
	slog.Info("Логгер инициализирован", "path", logPath)
	return logFile, nil
}

// setupDependencies открывает локальную базу, читает настройки и собирает Garage.
// Если локальная база недоступна, клиент работает без нее: локальный режим показывает
// пустую коллекцию, режим сервера работает как обычно.
func setupDependencies(cfg *config) *dependencies {
	base := prefs.Defaults()
	if cfg.ServerURL != "" {
		base.ServerURL = cfg.ServerURL
	}

	deps := &dependencies{}
	var (
		adapter   storage.Adapter
		prefStore prefs.Store
	)
	db, err := openLocal(cfg.DBPath)
	if err != nil {
		slog.Error("Локальная база недоступна", "path", cfg.DBPath, "error", err)
		adapter = storage.Unavailable{Err: err}
	} else {
		deps.db = db
		adapter = db.Cars()
		prefStore = db.Prefs()
	}

	p := base
	if prefStore != nil {
		p = prefs.LoadInto(prefStore, base)
	}
	slog.Info("Запуск ColectorPro",
		"db_path", cfg.DBPath,
		"storage", p.StorageMode,
		"server_url", p.ServerURL,
		"version", version,
	)

	newRemote := func(baseURL string) storage.Adapter {
		slog.Info("API клиент инициализирован", "baseURL", baseURL)
		return api.NewHTTPClient(baseURL)
	}
	deps.garage = garage.New(adapter, newRemote, p, prefStore)

	var opts []imagegen.Option
	if cfg.GeminiBaseURL != "" {
		opts = append(opts, imagegen.WithBaseURL(cfg.GeminiBaseURL))
	}
	deps.editor = imagegen.NewGeminiEditor(cfg.GeminiAPIKey, opts...)
	return deps
}
