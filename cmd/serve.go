package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/uistudio/internal/config"
	"github.com/conneroisu/uistudio/internal/logging"
	"github.com/conneroisu/uistudio/internal/server"
	"github.com/conneroisu/uistudio/internal/studio"
	"github.com/conneroisu/uistudio/internal/validation"
	"github.com/conneroisu/uistudio/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the studio server",
	Long: `Start the HTTP and websocket studio server.

Sessions are opened from the template catalog: the builtin templates plus
any file named by --catalog. With --watch the catalog file is reloaded when
it changes; open sessions keep their content.

Examples:
  uistudio serve                              # Serve on localhost:8080
  uistudio serve -p 3000                      # Serve on another port
  uistudio serve --catalog team.yml --watch   # Reload extra templates on save`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().String("catalog", "", "YAML file with extra templates")
	serveCmd.Flags().Bool("watch", false, "Reload the catalog file when it changes")

	AddFlagValidation(serveCmd.Flags(), "port", ValidatePort)

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("catalog.path", serveCmd.Flags().Lookup("catalog"))
	viper.BindPFlag("catalog.watch", serveCmd.Flags().Lookup("watch"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	logger.Debug(cmd.Context(), "serve flags", "flags", changedFlags(cmd))

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	sessions := studio.NewManager(cat, cfg, logger)
	srv := server.New(cfg, sessions, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Catalog.Watch && cfg.Catalog.Path != "" {
		fw, err := watchCatalog(ctx, cfg, sessions, logger)
		if err != nil {
			return err
		}
		defer fw.Stop()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Starting uistudio at http://%s (%d templates)\n", cfg.Addr(), cat.Len())

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// watchCatalog reloads the catalog file into a fresh catalog on every save.
// A file that fails to load leaves the current catalog in place.
func watchCatalog(ctx context.Context, cfg *config.Config, sessions *studio.Manager, logger logging.Logger) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(300*time.Millisecond, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	fw.AddFilter(watcher.NoEditorTempFilter)
	fw.AddFilter(watcher.ExtensionFilter(validation.CatalogExtensions...))
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		sessions.SetCatalog(cat)
		return nil
	})

	if err := fw.AddFile(cfg.Catalog.Path); err != nil {
		fw.Stop()
		return nil, fmt.Errorf("failed to watch catalog %s: %w", cfg.Catalog.Path, err)
	}
	if err := fw.Start(ctx); err != nil {
		fw.Stop()
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}
	logger.Info(ctx, "watching catalog", "path", cfg.Catalog.Path)
	return fw, nil
}
