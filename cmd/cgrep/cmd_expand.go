package main

import (
	"context"
	"fmt"
	"io"

	"github.com/c2h5oh/datasize"
	"github.com/skyline93/cgrep/internal/backend"
	"github.com/skyline93/cgrep/internal/backend/local"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/skyline93/cgrep/internal/fs"
	"github.com/skyline93/cgrep/internal/repository"
	"github.com/skyline93/cgrep/internal/restorer"
	"github.com/spf13/cobra"
)

var cmdExpand = &cobra.Command{
	Use:   "expand --container C --output OUT",
	Short: "Restore the original file from a container",
	Long: `
The "expand" command decompresses all chunks of a container in order and
writes the original file.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was a fatal error.
Exit status is 3 if the index is corrupt.
`,
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExpand(cmd.Context(), globalOptions, expandOptions, cmd.OutOrStdout())
	},
}

// ExpandOptions bundles all options for the expand command.
type ExpandOptions struct {
	Container string
	Output    string
}

var expandOptions ExpandOptions

func init() {
	cmdRoot.AddCommand(cmdExpand)

	f := cmdExpand.Flags()
	f.StringVar(&expandOptions.Container, "container", "", "container `file` to read")
	f.StringVarP(&expandOptions.Output, "output", "o", "", "`file` to write the original data to")
}

func runExpand(ctx context.Context, gopts GlobalOptions, opts ExpandOptions, stdout io.Writer) error {
	if opts.Output == "" {
		return errors.Fatal("no output file given, use --output")
	}
	cfg, err := gopts.config(opts.Container)
	if err != nil {
		return err
	}
	local.CheckHints(cfg.Index, gopts.hints())

	idx, err := repository.LoadIndex(cfg.IndexHandle())
	if err != nil {
		return err
	}

	container, err := local.Open(cfg.ContainerHandle())
	if err != nil {
		return err
	}
	defer func() { _ = container.Close() }()
	fs.AdviseSequential(container)

	out, err := local.Create(backend.Handle{Type: backend.SourceFile, Name: opts.Output}, local.ModeFor(cfg.Container))
	if err != nil {
		return err
	}

	n, err := restorer.New(cfg.ContainerHandle(), idx, gopts.codec).Expand(ctx, container, out)
	if err != nil {
		_ = out.Abort()
		return err
	}
	if err := out.Commit(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "expanded %d chunks to %v (%v)\n", idx.Len(), opts.Output, datasize.ByteSize(n).HR())
	return nil
}
