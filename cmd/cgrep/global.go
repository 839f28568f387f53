package main

import (
	"os"
	"strings"

	"github.com/c2h5oh/datasize"
	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/archiver"
	"github.com/skyline93/cgrep/internal/backend/local"
	"github.com/skyline93/cgrep/internal/compress"
	"github.com/skyline93/cgrep/internal/errors"
)

// GlobalOptions hold all global options for cgrep.
type GlobalOptions struct {
	LogLevel    string
	Codec       string
	Compression string
	ChunkSize   string
	Index       string

	chunkSize int
	codec     compress.Codec
}

var globalOptions = GlobalOptions{}

func init() {
	logLevel := os.Getenv("CGREP_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "warn"
	}

	f := cmdRoot.PersistentFlags()
	f.StringVar(&globalOptions.LogLevel, "log-level", logLevel, "log `level`: debug, info, warn or error (default: $CGREP_LOG_LEVEL or warn)")
	f.StringVar(&globalOptions.Codec, "codec", "lz4", "compression `codec`: "+strings.Join(compress.Names, " or "))
	f.StringVar(&globalOptions.Compression, "compression", "auto", "compression `mode`: auto or max")
	f.StringVar(&globalOptions.ChunkSize, "chunk-size", "4M", "chunk `size`: 4M, 8M or 16M")
	f.StringVar(&globalOptions.Index, "index", local.DefaultIndex, "index `file` of the container")
}

// setup validates the options and configures logging.
func (opts *GlobalOptions) setup() error {
	level, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		return errors.Fatalf("invalid log level %q", opts.LogLevel)
	}
	log.SetLevel(level)

	size, err := datasize.ParseString(opts.ChunkSize)
	if err != nil {
		return errors.Fatalf("invalid chunk size %q: %v", opts.ChunkSize, err)
	}
	if err := archiver.ValidChunkSize(int(size.Bytes())); err != nil {
		return errors.Fatal(err.Error())
	}
	opts.chunkSize = int(size.Bytes())

	mode, err := compress.ParseMode(opts.Compression)
	if err != nil {
		return errors.Fatal(err.Error())
	}
	opts.codec, err = compress.New(opts.Codec, mode)
	if err != nil {
		return errors.Fatal(err.Error())
	}

	log.Debugf("codec %v, chunk size %v, index %v", opts.Codec, size.HR(), opts.Index)
	return nil
}

// config returns the locations of container and index.
func (opts *GlobalOptions) config(container string) (local.Config, error) {
	if container == "" {
		return local.Config{}, errors.Fatal("no container given, use --container")
	}
	cfg := local.NewConfig(container)
	cfg.Index = opts.Index
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Fatal(err.Error())
	}
	return cfg, nil
}

// hints returns what the index file should record about the container.
func (opts *GlobalOptions) hints() local.Hints {
	return local.Hints{ChunkSize: opts.chunkSize, Codec: opts.Codec}
}
