package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/skyline93/cgrep/internal/index"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

// Exit codes.
const (
	exitOK      = 0
	exitFatal   = 1
	exitNoMatch = 2
	exitCorrupt = 3
)

// ErrNoMatch is returned by a query that found nothing.
var ErrNoMatch = errors.New("no match")

// cmdRoot is the base command when no other command has been specified.
var cmdRoot = &cobra.Command{
	Use:   "cgrep",
	Short: "Search compressed files without decompressing them",
	Long: `
cgrep stores a file as a container of independently compressed chunks plus an
index holding a presence filter per chunk. Queries only decompress the chunks
whose filters may contain the searched text.
`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return globalOptions.setup()
	},

	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(exitOK)
	},
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrNoMatch):
		return exitNoMatch
	case errors.Is(err, index.ErrFormat):
		return exitCorrupt
	}
	return exitFatal
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmdRoot.ExecuteContext(ctx)
	cancel()

	switch {
	case err == nil:
	case errors.Is(err, ErrNoMatch):
		log.Debugf("query found no match")
	case errors.IsFatal(err):
		fmt.Fprintln(os.Stderr, err)
	case log.IsLevelEnabled(log.DebugLevel):
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "cgrep: %v\n", err)
	}
	os.Exit(exitCode(err))
}
