package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/c2h5oh/datasize"
	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/archiver"
	"github.com/skyline93/cgrep/internal/backend"
	"github.com/skyline93/cgrep/internal/backend/local"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/skyline93/cgrep/internal/fs"
	"github.com/skyline93/cgrep/internal/index"
	"github.com/spf13/cobra"
)

var cmdCreate = &cobra.Command{
	Use:   "create --file SRC --container OUT",
	Short: "Create a searchable container from a file",
	Long: `
The "create" command splits a file into chunks, compresses every chunk on its
own and writes the container together with its index.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate(cmd.Context(), globalOptions, createOptions, cmd.OutOrStdout())
	},
}

// CreateOptions bundles all options for the create command.
type CreateOptions struct {
	File      string
	Container string
	Workers   uint
}

var createOptions CreateOptions

func init() {
	cmdRoot.AddCommand(cmdCreate)

	f := cmdCreate.Flags()
	f.StringVar(&createOptions.File, "file", "", "source `file`")
	f.StringVar(&createOptions.Container, "container", "", "container `file` to write")
	f.UintVar(&createOptions.Workers, "workers", 1, "compress `n` chunks concurrently (0 uses all CPUs)")
}

func runCreate(ctx context.Context, gopts GlobalOptions, opts CreateOptions, stdout io.Writer) error {
	if opts.File == "" {
		return errors.Fatal("no source file given, use --file")
	}
	cfg, err := gopts.config(opts.Container)
	if err != nil {
		return err
	}

	workers := opts.Workers
	if workers == 0 {
		workers = uint(runtime.GOMAXPROCS(0))
	}
	arch, err := archiver.New(archiver.Options{
		ChunkSize: gopts.chunkSize,
		Codec:     gopts.codec,
		Workers:   workers,
	})
	if err != nil {
		return err
	}

	src, err := fs.Open(opts.File)
	if err != nil {
		return errors.Wrapf(err, "open %v", backend.Handle{Type: backend.SourceFile, Name: opts.File})
	}
	defer func() { _ = src.Close() }()
	fs.AdviseSequential(src)

	mode := local.ModeFor(opts.File)

	container, err := local.Create(cfg.ContainerHandle(), mode)
	if err != nil {
		return err
	}
	idx, stats, err := arch.Create(ctx, src, container)
	if err != nil {
		_ = container.Abort()
		return err
	}
	if err := container.Commit(); err != nil {
		return err
	}

	if err := saveIndex(cfg, idx, mode); err != nil {
		return err
	}
	if err := local.WriteHints(cfg.Index, gopts.hints()); err != nil {
		log.Warnf("unable to record chunk size and codec: %v", err)
	}

	ratio := 0.0
	if stats.BytesIn > 0 {
		ratio = 100 * float64(stats.BytesOut) / float64(stats.BytesIn)
	}
	fmt.Fprintf(stdout, "created %v: %d chunks, %v -> %v (%.1f%%)\n",
		cfg.Container, stats.Chunks,
		datasize.ByteSize(stats.BytesIn).HR(), datasize.ByteSize(stats.BytesOut).HR(), ratio)
	return nil
}

// saveIndex replaces the index file of cfg with idx.
func saveIndex(cfg local.Config, idx *index.Index, mode os.FileMode) error {
	f, err := local.Create(cfg.IndexHandle(), mode)
	if err != nil {
		return err
	}
	if _, err := idx.WriteTo(f); err != nil {
		_ = f.Abort()
		return errors.WithMessagef(err, "save %v", cfg.IndexHandle())
	}
	return f.Commit()
}
