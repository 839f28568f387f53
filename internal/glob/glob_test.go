package glob

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type span struct {
	start, end int
	ok         bool
}

func find(p *Pattern, text []byte) span {
	s, e, ok := p.Find(text)
	return span{s, e, ok}
}

func TestFind(t *testing.T) {
	zero := []byte{0}

	for _, test := range []struct {
		name      string
		fragments [][]byte
		eol       []byte
		text      []byte
		want      span
	}{
		{"whole text", [][]byte{[]byte("abc"), []byte("def")}, DefaultEOL, []byte("abbabababcdef"), span{0, 13, true}},
		{"one line", [][]byte{{1, 2}}, zero, []byte{1, 2, 3}, span{0, 3, true}},
		{"ends at eol", [][]byte{{1, 2}}, zero, []byte{1, 2, 0, 3, 4}, span{0, 3, true}},
		{"extra chars before eol", [][]byte{{1, 2}}, zero, []byte{1, 2, 3, 4, 0, 3}, span{0, 5, true}},
		{"next line", [][]byte{{1, 2}}, zero, []byte{1, 1, 0, 1, 2, 0, 3}, span{3, 6, true}},
		{"two fragments without gap", [][]byte{{1, 1}, {1, 2}}, zero, []byte{1, 1, 0, 1, 1, 1, 2, 0, 3}, span{3, 8, true}},
		{"two fragments with gap", [][]byte{{1, 1}, {1, 2}}, zero, []byte{1, 1, 0, 1, 1, 5, 6, 7, 1, 2, 0, 3}, span{3, 11, true}},
		{"literal absent", [][]byte{[]byte("ab")}, zero, []byte{1, 2, 0, 3, 4}, span{}},
		{"literal absent with tail", [][]byte{[]byte("ab")}, zero, []byte{1, 2, 3, 4, 0, 3}, span{}},
		{"fragment split by eol", [][]byte{{1, 2}}, zero, []byte{1, 0, 2, 3}, span{}},
		{"fragments split by eol", [][]byte{[]byte("foo"), []byte("bar")}, DefaultEOL, []byte("foo\nbar\n"), span{}},
		{"fragments out of order", [][]byte{[]byte("bar"), []byte("foo")}, DefaultEOL, []byte("foo bar\n"), span{}},
		{"empty text", [][]byte{[]byte("a")}, DefaultEOL, nil, span{}},
		{"overlapping prefix", [][]byte{[]byte("ab")}, DefaultEOL, []byte("aab"), span{0, 3, true}},
		{"overlapping border", [][]byte{[]byte("abab")}, DefaultEOL, []byte("xabababx\n"), span{0, 9, true}},
		{"crlf", [][]byte{[]byte("two")}, DefaultEOL, []byte("one\r\ntwo\r\nthree"), span{5, 9, true}},
		{"no fragments", nil, DefaultEOL, []byte("first\nsecond\n"), span{0, 6, true}},
	} {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, find(New(test.fragments, test.eol), test.text))
		})
	}
}

func TestCompile(t *testing.T) {
	p := Compile("abc*def", DefaultEOL)
	assert.Equal(t, [][]byte{[]byte("abc"), []byte("def")}, p.Fragments())

	p = Compile("*abc**def*", DefaultEOL)
	assert.Equal(t, [][]byte{[]byte("abc"), []byte("def")}, p.Fragments())

	p = Compile("plain", DefaultEOL)
	assert.Equal(t, [][]byte{[]byte("plain")}, p.Fragments())

	text := []byte("GET /index.html 200\nPOST /login 403\nGET /about.html 404\n")
	assert.Equal(t, span{36, 56, true}, find(Compile("GET*404", DefaultEOL), text))
	assert.Equal(t, span{}, find(Compile("POST*200", DefaultEOL), text))
}

func TestFindAll(t *testing.T) {
	text := []byte("error one\nok\nerror two\nerror three")
	p := Compile("error", DefaultEOL)

	var got []span
	p.FindAll(text, func(start, end int) bool {
		got = append(got, span{start, end, true})
		return true
	})
	assert.Equal(t, []span{{0, 10, true}, {13, 23, true}, {23, 34, true}}, got)

	n := 0
	p.FindAll(text, func(start, end int) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
}
