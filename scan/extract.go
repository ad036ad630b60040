package scan

import (
	"regexp"
)

// Binding is one assignment found in the input.
type Binding struct {
	Name  string `json:"name"  yaml:"name"`
	Value string `json:"value" yaml:"value"`
	// Line is the 1-based source line for [AnchoredLineMatch] and the 1-based
	// chunk index for [ChunkScanMatch].
	Line int `json:"line"  yaml:"line"`
}

// Extractor recognizes assignment lines of the form
//
//	<identifier> <ws>* = <ws>* <value>
//
// anchored to the whole line. The value is everything after the whitespace
// following '=', untrimmed at the end, and may be empty. A trailing '\r' is
// kept in the value, so "a = \r" yields "\r".
type Extractor struct {
	syntax Syntax
}

// NewExtractor returns an Extractor for the given identifier syntax.
func NewExtractor(syntax Syntax) Extractor {
	return Extractor{syntax: syntax}
}

// Syntax returns the identifier syntax of e.
func (e Extractor) Syntax() Syntax { return e.syntax }

// Extract parses line as an assignment. The returned Binding has Line unset.
func (e Extractor) Extract(line []byte) (Binding, bool) {
	if len(line) == 0 || !isIdentifierStart(line[0]) {
		return Binding{}, false
	}

	i := 1
	for i < len(line) && e.isIdentifierContinue(line[i]) {
		i++
	}

	name := line[:i]

	for i < len(line) && isSpace(line[i]) {
		i++
	}

	if i == len(line) || line[i] != '=' {
		return Binding{}, false
	}

	i++

	// A trailing '\r' belongs to the value even when nothing precedes it.
	end := len(line)
	if end > i && line[end-1] == '\r' {
		end--
	}

	for i < end && isSpace(line[i]) {
		i++
	}

	return Binding{
		Name:  string(name),
		Value: string(line[i:]),
	}, true
}

// ExtractString is [Extractor.Extract] for a string.
func (e Extractor) ExtractString(line string) (Binding, bool) {
	return e.Extract([]byte(line))
}

func (e Extractor) isIdentifierContinue(c byte) bool {
	switch {
	case isIdentifierStart(c), '0' <= c && c <= '9':
		return true
	case c == '(' || c == ')':
		return e.syntax == SyntaxExtended
	default:
		return false
	}
}

func isIdentifierStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// isSpace reports ASCII whitespace other than the line terminator.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// Chunk patterns are unanchored: a match may begin anywhere in a chunk and
// its value runs to the next '\n' or the end of the chunk.
var (
	chunkPlain = regexp.MustCompile(
		`([A-Za-z_][A-Za-z_0-9]*)\s*=[ \t\v\f\r]*([^\n]*)`,
	)
	chunkExtended = regexp.MustCompile(
		`([A-Za-z_][A-Za-z_0-9()]*)\s*=[ \t\v\f\r]*([^\n]*)`,
	)
)

// ChunkMatcher finds every embedded assignment inside one chunk of input.
type ChunkMatcher struct {
	re *regexp.Regexp
}

// NewChunkMatcher returns a ChunkMatcher for the given identifier syntax.
func NewChunkMatcher(syntax Syntax) ChunkMatcher {
	if syntax == SyntaxPlain {
		return ChunkMatcher{re: chunkPlain}
	}

	return ChunkMatcher{re: chunkExtended}
}

// Match calls yield for each assignment in chunk, left to right, resuming
// after the end of each match. It stops early if yield returns false.
func (m ChunkMatcher) Match(chunk []byte, yield func(Binding) bool) {
	for _, loc := range m.re.FindAllSubmatchIndex(chunk, -1) {
		value := chunk[loc[4]:loc[5]]
		if len(value) == 0 && loc[4] > 0 && chunk[loc[4]-1] == '\r' {
			value = chunk[loc[4]-1 : loc[5]]
		}

		ok := yield(Binding{
			Name:  string(chunk[loc[2]:loc[3]]),
			Value: string(value),
		})
		if !ok {
			return
		}
	}
}
