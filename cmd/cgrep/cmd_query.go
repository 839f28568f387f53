package main

import (
	"bufio"
	"context"
	"io"
	"strconv"

	"github.com/skyline93/cgrep/internal/backend/local"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/skyline93/cgrep/internal/repository"
	"github.com/spf13/cobra"
)

var cmdQuery = &cobra.Command{
	Use:   "query --container C [flags] QUERY",
	Short: "Print the lines of a container matching a query",
	Long: `
The "query" command prints every line of the original file that contains the
query. A "*" in the query matches any run of bytes within a line. Lines that
span two chunks are not found.

EXIT STATUS
===========

Exit status is 0 if at least one line matched.
Exit status is 1 if there was a fatal error.
Exit status is 2 if no line matched.
Exit status is 3 if the index is corrupt.
`,
	DisableAutoGenTag: true,
	Args:              cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.Context(), globalOptions, queryOptions, args[0], cmd.OutOrStdout())
	},
}

// QueryOptions bundles all options for the query command.
type QueryOptions struct {
	Container   string
	ByteOffset  bool
	NoVerify    bool
	Connections uint
}

var queryOptions QueryOptions

func init() {
	cmdRoot.AddCommand(cmdQuery)

	f := cmdQuery.Flags()
	f.StringVar(&queryOptions.Container, "container", "", "container `file` to search")
	f.BoolVarP(&queryOptions.ByteOffset, "byte-offset", "b", false, "print the byte offset of every line in the original file")
	f.BoolVar(&queryOptions.NoVerify, "no-verify", false, "print all candidate chunks without checking for the query")
	f.UintVar(&queryOptions.Connections, "connections", 1, "load `n` chunks concurrently")
}

func openRepository(gopts GlobalOptions, container string, connections uint) (*repository.Repository, error) {
	cfg, err := gopts.config(container)
	if err != nil {
		return nil, err
	}
	local.CheckHints(cfg.Index, gopts.hints())

	return repository.Open(cfg, repository.Options{
		Codec:       gopts.codec,
		Connections: connections,
	})
}

func runQuery(ctx context.Context, gopts GlobalOptions, opts QueryOptions, query string, stdout io.Writer) error {
	repo, err := openRepository(gopts, opts.Container, opts.Connections)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	w := bufio.NewWriter(stdout)
	found := false

	if opts.NoVerify {
		err = repo.SearchRaw(ctx, query, func(_ int, data []byte) error {
			found = true
			_, err := w.Write(data)
			return err
		})
	} else {
		var buf []byte
		err = repo.Search(ctx, query, func(m repository.Match) error {
			found = true
			buf = buf[:0]
			if opts.ByteOffset {
				buf = strconv.AppendUint(buf, m.Offset, 10)
				buf = append(buf, ':')
			}
			buf = append(buf, m.Line...)
			if n := len(m.Line); n == 0 || m.Line[n-1] != '\n' {
				buf = append(buf, '\n')
			}
			_, err := w.Write(buf)
			return err
		})
	}
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "write output")
	}

	if !found {
		return ErrNoMatch
	}
	return nil
}
