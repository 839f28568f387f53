package main

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/backend"
	"github.com/skyline93/cgrep/internal/backend/local"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/skyline93/cgrep/internal/fs"
	"github.com/skyline93/cgrep/internal/repository"
	"github.com/skyline93/cgrep/internal/restorer"
	"github.com/spf13/cobra"
)

var cmdVerify = &cobra.Command{
	Use:   "verify --container C --file SRC",
	Short: "Check that a container reproduces its source file",
	Long: `
The "verify" command checks the index, expands the container and compares the
SHA-256 of the result with the SHA-256 of the source file.

EXIT STATUS
===========

Exit status is 0 if the container matches the source.
Exit status is 1 if it does not match or there was a fatal error.
Exit status is 3 if the index is corrupt.
`,
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.Context(), globalOptions, verifyOptions, cmd.OutOrStdout())
	},
}

// VerifyOptions bundles all options for the verify command.
type VerifyOptions struct {
	Container string
	File      string
}

var verifyOptions VerifyOptions

func init() {
	cmdRoot.AddCommand(cmdVerify)

	f := cmdVerify.Flags()
	f.StringVar(&verifyOptions.Container, "container", "", "container `file` to check")
	f.StringVar(&verifyOptions.File, "file", "", "source `file` the container was created from")
}

func runVerify(ctx context.Context, gopts GlobalOptions, opts VerifyOptions, stdout io.Writer) error {
	if opts.File == "" {
		return errors.Fatal("no source file given, use --file")
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

	fi, err := container.Stat()
	if err != nil {
		return errors.Wrapf(err, "stat %v", cfg.ContainerHandle())
	}
	switch size := uint64(fi.Size()); {
	case size < idx.ContainerSize():
		return errors.Errorf("container %v is truncated: %d bytes, index needs %d", cfg.Container, size, idx.ContainerSize())
	case size > idx.ContainerSize():
		log.Warnf("container %v has %d bytes after the last chunk", cfg.Container, size-idx.ContainerSize())
	}
	fs.AdviseSequential(container)

	src, err := fs.Open(opts.File)
	if err != nil {
		return errors.Wrapf(err, "open %v", backend.Handle{Type: backend.SourceFile, Name: opts.File})
	}
	defer func() { _ = src.Close() }()
	fs.AdviseSequential(src)

	res, err := restorer.New(cfg.ContainerHandle(), idx, gopts.codec).Verify(ctx, container, src)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "ok: %d chunks, %d bytes, sha256 %v\n", idx.Len(), res.Size, res.Digest)
	return nil
}
