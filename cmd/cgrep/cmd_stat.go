package main

import (
	"context"
	"fmt"
	"io"

	"github.com/c2h5oh/datasize"
	"github.com/skyline93/cgrep/internal/bloom"
	"github.com/spf13/cobra"
)

var cmdStat = &cobra.Command{
	Use:   "stat --container C [QUERY]",
	Short: "Show information about a container",
	Long: `
The "stat" command prints the number of chunks, the sizes before and after
compression and how full the chunk filters are. With a QUERY it also prints
how many chunks would have to be decompressed to answer it.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was a fatal error.
Exit status is 3 if the index is corrupt.
`,
	DisableAutoGenTag: true,
	Args:              cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStat(cmd.Context(), globalOptions, statOptions, args, cmd.OutOrStdout())
	},
}

// StatOptions bundles all options for the stat command.
type StatOptions struct {
	Container string
}

var statOptions StatOptions

func init() {
	cmdRoot.AddCommand(cmdStat)

	f := cmdStat.Flags()
	f.StringVar(&statOptions.Container, "container", "", "container `file` to inspect")
}

func runStat(_ context.Context, gopts GlobalOptions, opts StatOptions, args []string, stdout io.Writer) error {
	repo, err := openRepository(gopts, opts.Container, 1)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	idx := repo.Index()
	source, container := idx.SourceSize(), idx.ContainerSize()

	fmt.Fprintf(stdout, "chunks:          %d\n", idx.Len())
	fmt.Fprintf(stdout, "source size:     %v\n", datasize.ByteSize(source).HR())
	fmt.Fprintf(stdout, "container size:  %v\n", datasize.ByteSize(container).HR())
	if source > 0 {
		fmt.Fprintf(stdout, "ratio:           %.1f%%\n", 100*float64(container)/float64(source))
	}

	if idx.Len() > 0 {
		var set int
		for _, e := range idx.Entries {
			set += e.Bitmap.Count()
		}
		fill := 100 * float64(set) / float64(idx.Len()*bloom.Buckets)
		fmt.Fprintf(stdout, "filter fill:     %.1f%%\n", fill)
	}

	if len(args) == 1 {
		_, q := repo.Compile(args[0])
		candidates := repo.Candidates(q)
		fmt.Fprintf(stdout, "candidates:      %d of %d chunks\n", candidates.GetCardinality(), idx.Len())
	}
	return nil
}
