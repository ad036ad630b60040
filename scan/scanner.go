package scan

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"

	"github.com/ardnew/varscan/log"
)

// maxEmptyReads is the number of consecutive (0, nil) reads tolerated before
// a Scanner gives up with io.ErrNoProgress.
const maxEmptyReads = 100

// State is the position of a [Scanner] in its read cycle.
type State int

const (
	StateReading   State = iota // reading
	StateLineReady              // line-ready
	StateExhausted              // exhausted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateReading:
		return "reading"
	case StateLineReady:
		return "line-ready"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Line is one physical line without its terminator.
//
// Bytes aliases the scanner's buffer and is only valid until the next call
// to [Scanner.Next].
type Line struct {
	Bytes  []byte
	Number int
}

// String returns a copy of the line contents.
func (l Line) String() string { return string(l.Bytes) }

// Scanner reads '\n'-terminated lines from a stream into a [Buffer] that grows
// whenever a single line does not fit.
//
// Only unread bytes are ever kept: consumed lines are compacted away before
// the buffer grows, and each read fills only the free tail of the buffer.
type Scanner struct {
	ctx     context.Context
	r       io.Reader
	buf     *Buffer
	err     error
	logger  log.Logger
	start   int // first unread byte
	end     int // one past the last buffered byte
	line    int
	growths int
	inc     int
	state   State
	eof     bool
	keepCR  bool
}

// NewScanner returns a Scanner reading from r.
//
// Only the buffer related options apply: [WithCapacity], [WithIncrement],
// [WithMaxSize], [WithKeepCR] and [WithLogger].
func NewScanner(r io.Reader, opts ...Option) (*Scanner, error) {
	cfg := makeConfig(opts...)

	err := cfg.validate()
	if err != nil {
		return nil, err
	}

	return newScanner(context.Background(), r, cfg)
}

func newScanner(
	ctx context.Context,
	r io.Reader,
	cfg config,
) (*Scanner, error) {
	buf, err := NewBuffer(cfg.capacity, WithLimit(cfg.maxSize))
	if err != nil {
		return nil, err
	}

	return &Scanner{
		ctx:    ctx,
		r:      r,
		buf:    buf,
		logger: cfg.logger,
		inc:    cfg.increment,
		keepCR: cfg.keepCR,
	}, nil
}

// Next returns the next line and true, or false once the stream is exhausted
// or a fatal error occurred. Check [Scanner.Err] after Next returns false.
func (s *Scanner) Next() (Line, bool) {
	if s.state == StateExhausted {
		return Line{}, false
	}

	s.state = StateReading

	empty := 0

	for {
		pending := s.buf.Data()[s.start:s.end]

		if i := bytes.IndexByte(pending, '\n'); i >= 0 {
			s.start += i + 1

			return s.yield(pending[:i]), true
		}

		if s.eof {
			s.start = s.end
			s.state = StateExhausted

			if len(pending) == 0 {
				return Line{}, false
			}

			line := s.yield(pending)
			s.state = StateExhausted

			return line, true
		}

		err := s.makeRoom()
		if err != nil {
			return s.fail(err)
		}

		n, err := s.r.Read(s.buf.Data()[s.end:])
		s.end += n

		switch {
		case errors.Is(err, io.EOF):
			s.eof = true
		case err != nil:
			return s.fail(ErrStreamRead.Wrap(err).With(
				slog.Int("line", s.line+1),
				slog.Int("buffered", s.end-s.start),
			))
		case n == 0:
			if empty++; empty >= maxEmptyReads {
				return s.fail(ErrStreamRead.Wrap(io.ErrNoProgress))
			}
		default:
			empty = 0
		}
	}
}

// Lines returns an iterator over the remaining lines.
// Check [Scanner.Err] after iteration stops.
func (s *Scanner) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for {
			line, ok := s.Next()
			if !ok || !yield(line) {
				return
			}
		}
	}
}

// Err returns the first fatal error encountered, or nil. Reaching the end of
// the stream is not an error.
func (s *Scanner) Err() error { return s.err }

// State returns the current state of the scanner.
func (s *Scanner) State() State { return s.state }

// Growths returns the number of times the line buffer has grown.
func (s *Scanner) Growths() int { return s.growths }

// Size returns the current size of the line buffer.
func (s *Scanner) Size() int { return s.buf.Size() }

// makeRoom ensures the buffer has a free tail to read into. Unread bytes are
// moved to the front first; the buffer grows only when one unread line fills
// all of it.
func (s *Scanner) makeRoom() error {
	size := s.buf.Size()

	if s.end < size {
		return nil
	}

	if s.start > 0 {
		n := copy(s.buf.Data(), s.buf.Data()[s.start:s.end])

		s.trace("scanner compact",
			slog.Int("discarded", s.start),
			slog.Int("kept", n),
		)

		s.start, s.end = 0, n

		return nil
	}

	// The last step below the limit is shortened to land on it exactly.
	step := s.inc
	if room := s.buf.Limit() - size; room > 0 {
		step = min(step, room)
	}

	err := s.buf.GrowBy(step)
	if err != nil {
		return err
	}

	s.growths++

	s.trace("scanner grow",
		slog.Int("from", size),
		slog.Int("to", s.buf.Size()),
		slog.Int("line", s.line+1),
	)

	return nil
}

func (s *Scanner) yield(b []byte) Line {
	if !s.keepCR && len(b) > 0 && b[len(b)-1] == '\r' {
		b = b[:len(b)-1]
	}

	s.state = StateLineReady

	return s.makeLine(b)
}

func (s *Scanner) makeLine(b []byte) Line {
	s.line++

	return Line{Bytes: b, Number: s.line}
}

func (s *Scanner) fail(err error) (Line, bool) {
	s.err = err
	s.state = StateExhausted

	return Line{}, false
}

func (s *Scanner) trace(msg string, attrs ...slog.Attr) {
	s.logger.TraceContext(s.ctx, msg, attrs...)
}
