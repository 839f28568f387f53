package repository

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/bloom"
	"github.com/skyline93/cgrep/internal/glob"
)

// Match is a line containing the query.
type Match struct {
	// Chunk is the chunk the line was found in.
	Chunk int
	// Offset is the position of the line start in the original file.
	Offset uint64
	// Line includes the end-of-line byte, if any. It is only valid during the
	// callback.
	Line []byte
}

// Compile returns the glob pattern for query and its presence filter. The
// filter is built from the shingles of each fragment, so the wildcard never
// contributes to it.
func (r *Repository) Compile(query string) (*glob.Pattern, bloom.Packed) {
	pat := glob.Compile(query, r.opts.EOL)
	return pat, bloom.Query(pat.Fragments()...)
}

// Search calls fn for every line matching query, in file order. Lines that
// cross a chunk boundary are not found. If fn returns an error, the search
// stops and returns it.
func (r *Repository) Search(ctx context.Context, query string, fn func(Match) error) error {
	pat, q := r.Compile(query)
	candidates := r.Candidates(q)
	log.Infof("searching %q in %d of %d chunks", query, candidates.GetCardinality(), r.idx.Len())

	return r.forEachChunk(ctx, candidates, func(id int, data []byte) error {
		var err error
		base := r.SourceOffset(id)
		pat.FindAll(data, func(start, end int) bool {
			err = fn(Match{Chunk: id, Offset: base + uint64(start), Line: data[start:end]})
			return err == nil
		})
		return err
	})
}

// SearchRaw calls fn with the decompressed data of every candidate chunk for
// query, in file order, without checking that the chunk contains a match.
func (r *Repository) SearchRaw(ctx context.Context, query string, fn func(chunk int, data []byte) error) error {
	_, q := r.Compile(query)
	candidates := r.Candidates(q)
	log.Infof("loading %d of %d chunks for %q", candidates.GetCardinality(), r.idx.Len(), query)

	return r.forEachChunk(ctx, candidates, fn)
}
