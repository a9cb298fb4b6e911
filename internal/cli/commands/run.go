package commands

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mdrun/internal/engine"
	"github.com/leapstack-labs/mdrun/internal/language"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Clear    bool
	Parallel bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Execute code blocks in a Markdown file and insert their output",
		Long: `Execute every runnable fenced code block in a Markdown file and rewrite
the file in place with each block's captured output inserted after it.

Previously inserted output sections are stripped before execution, so
repeated runs are stable. Blocks annotated with -nr or --no-run are
reproduced verbatim and never executed. A failing or timed-out snippet
is rendered as [error] text in the document; only infrastructure
failures (unreadable file, bad config) abort the run.`,
		Example: `  # Run all code blocks
  mdrun run README.md

  # Force the parallel strategy
  mdrun run README.md --parallel

  # Strip generated output sections only
  mdrun run README.md --clear`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Parallel, "parallel", "p", false, "Force parallel execution when more than one runnable block is present")
	cmd.Flags().BoolVarP(&opts.Clear, "clear", "c", false, "Clear outputs only, leaving code fences intact")

	return cmd
}

func runRun(cmd *cobra.Command, path string, opts *RunOptions) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)

	content, mode, err := readDocument(path)
	if err != nil {
		return err
	}

	eng := engine.New(engine.Config{
		Resolver: language.NewResolver(cfg.Languages),
		Logger:   logger,
	})

	var result string
	if opts.Clear {
		result = eng.Clear(content)
	} else {
		result, err = eng.Process(ctx, content, opts.Parallel || cfg.Parallel)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, []byte(result), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if opts.Clear {
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared outputs in %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Processed %s\n", path)
	}
	return nil
}

// readDocument reads a document and its file mode, so the rewrite
// preserves permissions.
func readDocument(path string) (string, fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), info.Mode().Perm(), nil
}
