package scan

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/varscan/log"
)

const (
	// DefaultCapacity is the initial size of the line buffer.
	DefaultCapacity = 80
	// DefaultIncrement is the number of bytes added per growth step.
	DefaultIncrement = 40
	// DefaultChunkSize is the read size used by [ChunkScanMatch].
	DefaultChunkSize = 1024
)

// Policy selects how assignments are located in the input.
type Policy int

const (
	// AnchoredLineMatch matches one assignment spanning a whole line.
	AnchoredLineMatch Policy = iota
	// ChunkScanMatch finds every embedded assignment inside fixed-size
	// chunks of input. Matches never span two chunks.
	ChunkScanMatch
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case AnchoredLineMatch:
		return "anchored"
	case ChunkScanMatch:
		return "chunk"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "anchored" or "chunk" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anchored", "line", "":
		return AnchoredLineMatch, nil
	case "chunk":
		return ChunkScanMatch, nil
	default:
		return 0, ErrInvalidOption.With(slog.String("policy", s))
	}
}

// Syntax selects which characters may continue an identifier.
type Syntax int

const (
	// SyntaxExtended accepts letters, digits, '_', '(' and ')' after the
	// first character, so call-like names such as "f(x)" are identifiers.
	SyntaxExtended Syntax = iota
	// SyntaxPlain accepts letters, digits and '_' after the first character.
	SyntaxPlain
)

// String implements fmt.Stringer.
func (s Syntax) String() string {
	switch s {
	case SyntaxExtended:
		return "extended"
	case SyntaxPlain:
		return "plain"
	default:
		return fmt.Sprintf("Syntax(%d)", int(s))
	}
}

// ParseSyntax parses "extended" or "plain" (case-insensitive).
func ParseSyntax(s string) (Syntax, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "extended", "":
		return SyntaxExtended, nil
	case "plain":
		return SyntaxPlain, nil
	default:
		return 0, ErrInvalidOption.With(slog.String("syntax", s))
	}
}

// config holds the tunables shared by every scan driver.
type config struct {
	logger    log.Logger
	capacity  int
	increment int
	chunkSize int
	maxSize   int
	policy    Policy
	syntax    Syntax
	keepCR    bool
}

// Option configures a scan.
type Option func(*config)

func makeConfig(opts ...Option) config {
	c := config{
		capacity:  DefaultCapacity,
		increment: DefaultIncrement,
		chunkSize: DefaultChunkSize,
		maxSize:   MaxBufferSize,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

func (c config) validate() error {
	switch {
	case c.capacity <= 0:
		return ErrInvalidOption.With(slog.Int("capacity", c.capacity))
	case c.increment <= 0:
		return ErrInvalidOption.With(slog.Int("increment", c.increment))
	case c.chunkSize <= 0:
		return ErrInvalidOption.With(slog.Int("chunk_size", c.chunkSize))
	case c.maxSize < c.capacity:
		return ErrInvalidOption.With(
			slog.Int("max_size", c.maxSize),
			slog.Int("capacity", c.capacity),
		)
	}

	return nil
}

// WithCapacity sets the initial line buffer size.
func WithCapacity(n int) Option {
	return func(c *config) { c.capacity = n }
}

// WithIncrement sets the number of bytes added to the line buffer each time a
// line does not fit.
func WithIncrement(n int) Option {
	return func(c *config) { c.increment = n }
}

// WithChunkSize sets the read size used by [ChunkScanMatch].
func WithChunkSize(n int) Option {
	return func(c *config) { c.chunkSize = n }
}

// WithMaxSize bounds the line buffer. The last growth step is shortened to
// reach n exactly. A line that needs more space fails the scan with
// [ErrAllocation].
func WithMaxSize(n int) Option {
	return func(c *config) {
		if n <= 0 || n > MaxBufferSize {
			n = MaxBufferSize
		}

		c.maxSize = n
	}
}

// WithPolicy selects the match policy.
func WithPolicy(p Policy) Option {
	return func(c *config) { c.policy = p }
}

// WithSyntax selects the identifier syntax.
func WithSyntax(s Syntax) Option {
	return func(c *config) { c.syntax = s }
}

// WithKeepCR keeps a trailing '\r' on each line instead of trimming it, so
// CRLF input yields values ending in '\r'. An otherwise empty value is "\r".
func WithKeepCR(keep bool) Option {
	return func(c *config) { c.keepCR = keep }
}

// WithLogger sets the logger used for trace events.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}
