package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/obsion/internal/api"
	"github.com/sandeepkv93/obsion/internal/commands"
	"github.com/sandeepkv93/obsion/internal/config"
	"github.com/sandeepkv93/obsion/internal/logging"
	"github.com/sandeepkv93/obsion/internal/scheduler"
	"github.com/sandeepkv93/obsion/internal/storage"
	"github.com/sandeepkv93/obsion/internal/update"
)

const defaultEnvFile = ".env"

// NewRootCommand runs the terminal UI and carries the exec and init
// subcommands.
func NewRootCommand() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "obsion",
		Short:         "Notes, todos and events kept in a local store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", defaultEnvFile, "dotenv file with OBSION_* settings")

	root.AddCommand(newExecCommand(&envFile))
	root.AddCommand(newInitCommand(&envFile))
	return root
}

func newExecCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command...>",
		Short: "Run one palette command without the UI",
		Long:  "Run one palette command, such as `add note Groceries tag:home -- milk`, and print its result.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.Close()

			parsed, err := commands.Parse(commandLine(args, cmd.ArgsLenAtDash()))
			if err != nil {
				return err
			}
			res, err := commands.Execute(parsed, update.NewHandlers(cmd.Context(), a.facade))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

// commandLine rebuilds the palette input from argv. cobra consumes the first
// "--" as its end-of-flags marker, so it is put back at dash to keep the body
// separator of the command grammar.
func commandLine(args []string, dash int) string {
	if dash < 0 || dash > len(args) {
		return strings.Join(args, " ")
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, args[:dash]...)
	parts = append(parts, "--")
	parts = append(parts, args[dash:]...)
	return strings.Join(parts, " ")
}

func newInitCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data file and seed empty collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", a.cfg.DataPath)
			return nil
		},
	}
}

type app struct {
	cfg    config.RuntimeConfig
	logger *zap.Logger
	store  *storage.SQLiteStore
	facade *api.Facade
}

// openApp loads configuration, opens the store and seeds empty collections.
func openApp(ctx context.Context, envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	store, err := storage.OpenSQLite(cfg.DataPath, storage.WithQuota(cfg.QuotaBytes))
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	codec := storage.NewCodec(store, logger)
	if err := codec.Initialize(ctx); err != nil {
		_ = store.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	logger.Info("storage opened", zap.String("path", cfg.DataPath), zap.Int64("quota_bytes", cfg.QuotaBytes))
	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		facade: api.NewLocal(codec, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func runTUI(ctx context.Context, envFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := scheduler.NewEngine(a.cfg.ReminderBuffer)
	engine.Start()
	defer engine.Stop()

	watcher := storage.NewWatcher(a.store, a.cfg.WatchInterval, a.cfg.WatchBuffer, a.logger)
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	model := update.NewModelWithOptions(ctx, a.facade, update.Options{
		Scheduler: engine,
		Changes:   watcher.C(),
		Notifier:  update.ExecDesktopNotifier{},
		Config:    a.cfg,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	a.logger.Info("session ended",
		zap.Uint64("reminders_dropped", engine.Dropped()),
		zap.Uint64("changes_dropped", watcher.Dropped()))
	return nil
}
