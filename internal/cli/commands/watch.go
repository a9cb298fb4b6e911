package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mdrun/internal/engine"
	"github.com/leapstack-labs/mdrun/internal/language"
)

const (
	// watchDebounce coalesces the event bursts editors produce on save.
	watchDebounce = 200 * time.Millisecond
	// selfWriteWindow suppresses the events caused by our own rewrite of
	// the watched file.
	selfWriteWindow = 500 * time.Millisecond
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Parallel bool
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Reprocess a Markdown file whenever it changes",
		Long: `Process a Markdown file, then keep watching it and reprocess on every
save. The tool's own rewrites are ignored. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Parallel, "parallel", "p", false, "Force parallel execution when more than one runnable block is present")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, opts *WatchOptions) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	eng := engine.New(engine.Config{
		Resolver: language.NewResolver(cfg.Languages),
		Logger:   logger,
	})

	var lastWrite time.Time
	process := func() error {
		content, mode, err := readDocument(absPath)
		if err != nil {
			return err
		}
		result, err := eng.Process(ctx, content, opts.Parallel || cfg.Parallel)
		if err != nil {
			return err
		}
		lastWrite = time.Now()
		if err := os.WriteFile(absPath, []byte(result), mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", absPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Processed %s\n", path)
		return nil
	}

	if err := process(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors often save via
	// rename, which drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(absPath) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if time.Since(lastWrite) < selfWriteWindow {
				continue
			}
			pending = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-pending:
			pending = nil
			if err := process(); err != nil {
				// Keep watching through transient failures.
				logger.Error("reprocess failed", "error", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
		}
	}
}
