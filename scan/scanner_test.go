package scan

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func collect(t *testing.T, s *Scanner) []string {
	t.Helper()

	var lines []string
	for line := range s.Lines() {
		lines = append(lines, line.String())
	}

	return lines
}

func TestScanner_Lines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty stream", "", nil},
		{"single newline", "\n", []string{""}},
		{"empty lines", "\n\n\n", []string{"", "", ""}},
		{"terminated", "a\nbb\n", []string{"a", "bb"}},
		{"unterminated final", "a\nlast=9", []string{"a", "last=9"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"lone cr kept inside", "a\rb\n", []string{"a\rb"}},
		{"long line", strings.Repeat("x", 100) + "\nshort\n", []string{strings.Repeat("x", 100), "short"}},
	}

	readers := map[string]func(io.Reader) io.Reader{
		"whole":    func(r io.Reader) io.Reader { return r },
		"one byte": iotest.OneByteReader,
		"half":     iotest.HalfReader,
		"data err": iotest.DataErrReader,
	}

	for _, tt := range tests {
		for rname, wrap := range readers {
			t.Run(tt.name+"/"+rname, func(t *testing.T) {
				s, err := NewScanner(wrap(strings.NewReader(tt.input)),
					WithCapacity(8), WithIncrement(4))
				if err != nil {
					t.Fatal(err)
				}

				got := collect(t, s)
				if err := s.Err(); err != nil {
					t.Fatalf("Err() = %v", err)
				}

				if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
					t.Errorf("lines = %q, want %q", got, tt.want)
				}
				if s.State() != StateExhausted {
					t.Errorf("State() = %v after iteration", s.State())
				}
			})
		}
	}
}

func TestScanner_LineNumbers(t *testing.T) {
	s, err := NewScanner(strings.NewReader("a\n\nb\nc"))
	if err != nil {
		t.Fatal(err)
	}

	want := 1
	for line := range s.Lines() {
		if line.Number != want {
			t.Errorf("line %q numbered %d, want %d", line.Bytes, line.Number, want)
		}

		want++
	}

	if want != 5 {
		t.Errorf("saw %d lines, want 4", want-1)
	}
}

func TestScanner_KeepCR(t *testing.T) {
	s, err := NewScanner(strings.NewReader("a=1\r\nb=2\r"), WithKeepCR(true))
	if err != nil {
		t.Fatal(err)
	}

	got := collect(t, s)
	if len(got) != 2 || got[0] != "a=1\r" || got[1] != "b=2\r" {
		t.Errorf("lines = %q", got)
	}
}

func TestScanner_Growth(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		increment int
		input     string
		growths   int
		size      int
	}{
		// A line of capacity-1 bytes plus its terminator fits exactly.
		{"capacity minus one", 8, 4, "abcdefg\n", 0, 8},
		{"capacity minus one after compaction", 8, 4, "abc\nabcdefg\nxy\n", 0, 8},
		{"exactly capacity", 8, 4, "abcdefgh\n", 1, 12},
		{"needs two steps", 8, 4, "abcdefghijklm\n", 2, 16},
		{"increment one", 4, 1, "abcdefghij\n", 7, 11},
		{"only short lines", 4, 100, "a\nb\nc\nd\ne\nf\n", 0, 4},
		{"second long line reuses space", 8, 4, "abcdefghijk\nabcdefghijk\n", 1, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScanner(
				iotest.OneByteReader(strings.NewReader(tt.input)),
				WithCapacity(tt.capacity),
				WithIncrement(tt.increment),
			)
			if err != nil {
				t.Fatal(err)
			}

			got := collect(t, s)
			if s.Err() != nil {
				t.Fatalf("Err() = %v", s.Err())
			}

			want := strings.Split(strings.TrimSuffix(tt.input, "\n"), "\n")
			if strings.Join(got, "\n") != strings.Join(want, "\n") {
				t.Errorf("lines = %q, want %q", got, want)
			}
			if s.Growths() != tt.growths {
				t.Errorf("Growths() = %d, want %d", s.Growths(), tt.growths)
			}
			if s.Size() != tt.size {
				t.Errorf("Size() = %d, want %d", s.Size(), tt.size)
			}
		})
	}
}

func TestScanner_NoBytesLostAcrossGrowth(t *testing.T) {
	var input bytes.Buffer
	for i := range 200 {
		input.WriteString(strings.Repeat(string(rune('a'+i%26)), i))
		input.WriteByte('\n')
	}

	s, err := NewScanner(iotest.HalfReader(bytes.NewReader(input.Bytes())),
		WithCapacity(3), WithIncrement(5))
	if err != nil {
		t.Fatal(err)
	}

	var output bytes.Buffer
	for line := range s.Lines() {
		output.Write(line.Bytes)
		output.WriteByte('\n')
	}

	if s.Err() != nil {
		t.Fatal(s.Err())
	}
	if !bytes.Equal(output.Bytes(), input.Bytes()) {
		t.Error("reassembled lines differ from input")
	}
}

func TestScanner_ReadError(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("a=1\nb="), iotest.ErrReader(boom))

	s, err := NewScanner(r)
	if err != nil {
		t.Fatal(err)
	}

	got := collect(t, s)

	if len(got) != 1 || got[0] != "a=1" {
		t.Errorf("lines before failure = %q", got)
	}
	if !errors.Is(s.Err(), ErrStreamRead) {
		t.Errorf("Err() = %v, want ErrStreamRead", s.Err())
	}
	if !errors.Is(s.Err(), boom) {
		t.Errorf("Err() does not wrap cause: %v", s.Err())
	}
	if _, ok := s.Next(); ok {
		t.Error("Next() succeeded after failure")
	}
}

type stalledReader struct{}

func (stalledReader) Read([]byte) (int, error) { return 0, nil }

func TestScanner_NoProgress(t *testing.T) {
	s, err := NewScanner(stalledReader{})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Next(); ok {
		t.Fatal("Next() returned a line from a stalled reader")
	}

	if !errors.Is(s.Err(), io.ErrNoProgress) {
		t.Errorf("Err() = %v, want io.ErrNoProgress", s.Err())
	}
}

func TestScanner_MaxSize(t *testing.T) {
	s, err := NewScanner(strings.NewReader("ok\n"+strings.Repeat("x", 30)+"\n"),
		WithCapacity(8), WithIncrement(8), WithMaxSize(16))
	if err != nil {
		t.Fatal(err)
	}

	got := collect(t, s)

	if len(got) != 1 || got[0] != "ok" {
		t.Errorf("lines = %q", got)
	}
	if !errors.Is(s.Err(), ErrAllocation) {
		t.Errorf("Err() = %v, want ErrAllocation", s.Err())
	}
	if s.Size() != 16 {
		t.Errorf("Size() = %d, want 16", s.Size())
	}
}

func TestScanner_MaxSizeClampsLastGrowth(t *testing.T) {
	tests := []struct {
		name    string
		line    int
		wantErr bool
	}{
		{"fits below limit", 95, false},
		{"fills limit", 99, false},
		{"exceeds limit", 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Repeat("v", tt.line) + "\n"

			s, err := NewScanner(strings.NewReader(input),
				WithCapacity(80), WithIncrement(40), WithMaxSize(100))
			if err != nil {
				t.Fatal(err)
			}

			got := collect(t, s)

			if tt.wantErr {
				if !errors.Is(s.Err(), ErrAllocation) {
					t.Errorf("Err() = %v, want ErrAllocation", s.Err())
				}

				return
			}

			if s.Err() != nil {
				t.Fatalf("Err() = %v", s.Err())
			}
			if len(got) != 1 || len(got[0]) != tt.line {
				t.Errorf("lines = %d, want one of length %d", len(got), tt.line)
			}
			if s.Size() != 100 || s.Growths() != 1 {
				t.Errorf("Size() = %d, Growths() = %d, want 100, 1", s.Size(), s.Growths())
			}
		})
	}
}

func TestScanner_States(t *testing.T) {
	s, err := NewScanner(strings.NewReader("a\n"))
	if err != nil {
		t.Fatal(err)
	}

	if s.State() != StateReading {
		t.Errorf("initial State() = %v", s.State())
	}

	if _, ok := s.Next(); !ok || s.State() != StateLineReady {
		t.Errorf("after line: ok=%v State()=%v", ok, s.State())
	}

	if _, ok := s.Next(); ok || s.State() != StateExhausted {
		t.Errorf("after end: ok=%v State()=%v", ok, s.State())
	}

	for _, st := range []State{StateReading, StateLineReady, StateExhausted} {
		if st.String() == "unknown" {
			t.Errorf("state %d has no name", int(st))
		}
	}
}

func TestNewScanner_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero capacity", WithCapacity(0)},
		{"negative increment", WithIncrement(-1)},
		{"max below capacity", WithMaxSize(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScanner(strings.NewReader(""), tt.opt)
			if !errors.Is(err, ErrInvalidOption) {
				t.Errorf("error = %v, want ErrInvalidOption", err)
			}
		})
	}
}
