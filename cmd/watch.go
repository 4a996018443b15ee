package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/uistudio/internal/config"
	"github.com/conneroisu/uistudio/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch <file>",
	Aliases: []string{"w"},
	Short:   "Re-export an editable-text file on every save",
	Long: `Watch an editable-text file. On every save the file is parsed, its
diagnostics are printed and, when it is valid, the handler export is
rewritten next to it (mcp-ui-handler.<ext> unless --out is given). A save
that does not parse leaves the previous export untouched.

Examples:
  uistudio watch card.ts                   # Writes ./mcp-ui-handler.ts
  uistudio watch card.ts --lang ruby       # Writes ./mcp-ui-handler.rb
  uistudio watch card.ts -o - --minify     # Print each export instead`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var watchFlags *ExportFlags

func init() {
	rootCmd.AddCommand(watchCmd)
	watchFlags = AddExportFlags(watchCmd, "")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	path := args[0]
	out := cmd.OutOrStdout()

	fileWatcher, err := watcher.NewFileWatcher(300*time.Millisecond, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.NoEditorTempFilter)
	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			if event.Type == watcher.EventTypeDeleted {
				fmt.Fprintf(out, "%s: removed, waiting for it to come back\n", path)
				return nil
			}
		}
		return exportFile(out, path, watchFlags, cfg)
	})

	if err := fileWatcher.AddFile(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	if err := exportFile(out, path, watchFlags, cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	fmt.Fprintf(out, "Watching %s for changes... (Press Ctrl+C to stop)\n", path)
	<-ctx.Done()
	fmt.Fprintln(out, "Stopping file watcher...")
	return nil
}

// exportFile checks path, prints its report and, if it parsed, writes the
// export. Files that do not parse are reported and skipped.
func exportFile(out io.Writer, path string, flags *ExportFlags, cfg *config.Config) error {
	report, err := checkFile(path)
	if err != nil {
		return err
	}
	report.writeText(out)
	if !report.Valid {
		return nil
	}

	env := report.envelope
	env.Adapter = cfg.Adapter()
	artifact, err := generate(env, flags, cfg)
	if err != nil {
		return err
	}

	target := *flags
	if target.Out == "" {
		target.Out = filepath.Join(filepath.Dir(path), artifact.Filename)
	}
	return writeArtifact(out, &target, artifact)
}
