// Package glob matches line-confined glob patterns in a single pass.
//
// A pattern is an ordered list of literal fragments, written "abc*def" on the
// command line. A line matches when all fragments occur on it, in order and
// without overlapping. Matches never span an end-of-line byte.
package glob

import (
	"bytes"
)

// Wildcard separates the fragments of a query.
const Wildcard = "*"

// DefaultEOL are the end-of-line bytes of plain text.
var DefaultEOL = []byte{'\r', '\n'}

// Pattern is a compiled glob pattern. It is immutable and safe for concurrent
// use.
type Pattern struct {
	fragments [][]byte
	// fail[i][j] is the length of the longest proper border of
	// fragments[i][:j+1], the Knuth-Morris-Pratt failure function.
	fail [][]int
	eol  [256]bool
}

// New compiles the given fragments. Empty fragments are ignored.
func New(fragments [][]byte, eol []byte) *Pattern {
	p := &Pattern{}
	for _, f := range fragments {
		if len(f) == 0 {
			continue
		}
		p.fragments = append(p.fragments, f)
		p.fail = append(p.fail, failure(f))
	}
	for _, b := range eol {
		p.eol[b] = true
	}
	return p
}

// Compile splits query at every Wildcard and compiles the fragments.
func Compile(query string, eol []byte) *Pattern {
	parts := bytes.Split([]byte(query), []byte(Wildcard))
	return New(parts, eol)
}

// Fragments returns the literal fragments of p.
func (p *Pattern) Fragments() [][]byte {
	return p.fragments
}

func failure(f []byte) []int {
	fail := make([]int, len(f))
	k := 0
	for i := 1; i < len(f); i++ {
		for k > 0 && f[i] != f[k] {
			k = fail[k-1]
		}
		if f[i] == f[k] {
			k++
		}
		fail[i] = k
	}
	return fail
}

// Find returns the half-open range [start, end) of the first line of text
// that matches p. The range includes the terminating end-of-line byte, if
// any.
func (p *Pattern) Find(text []byte) (start, end int, ok bool) {
	if len(text) == 0 {
		return 0, 0, false
	}
	if len(p.fragments) == 0 {
		return 0, p.lineEnd(text, 0), true
	}

	var (
		frag      = 0
		off       = 0
		lineStart = 0
		last      = len(p.fragments) - 1
	)

	for i, c := range text {
		if p.eol[c] {
			lineStart = i + 1
			frag, off = 0, 0
			continue
		}

		f := p.fragments[frag]
		for off > 0 && c != f[off] {
			off = p.fail[frag][off-1]
		}
		if c != f[off] {
			continue
		}

		off++
		if off < len(f) {
			continue
		}

		if frag == last {
			return lineStart, p.lineEnd(text, i+1), true
		}
		frag, off = frag+1, 0
	}

	return 0, 0, false
}

// FindAll calls fn with the range of every matching line of text, in order,
// until fn returns false.
func (p *Pattern) FindAll(text []byte, fn func(start, end int) bool) {
	base := 0
	for base < len(text) {
		start, end, ok := p.Find(text[base:])
		if !ok {
			return
		}
		if !fn(base+start, base+end) {
			return
		}
		base += end
	}
}

// lineEnd returns the position after the first end-of-line byte at or after
// from, or len(text).
func (p *Pattern) lineEnd(text []byte, from int) int {
	for j := from; j < len(text); j++ {
		if p.eol[text[j]] {
			return j + 1
		}
	}
	return len(text)
}
