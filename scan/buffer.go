package scan

import (
	"fmt"
	"log/slog"
	"math"
)

// MaxBufferSize is the largest size any [Buffer] may reach regardless of the
// limit configured with [WithLimit].
const MaxBufferSize = math.MaxInt32

// Buffer is an exclusively owned, contiguous block of bytes whose size is
// changed only by explicit grow and shrink operations.
//
// Size always equals the length of the allocation; there is no spare
// capacity beyond what GrowBy adds. Copying a Buffer value aliases its
// allocation, so use [Buffer.Clone] to duplicate and [Buffer.Take] to move.
type Buffer struct {
	data  []byte
	limit int
}

// BufferOption configures a [Buffer] created by [NewBuffer].
type BufferOption func(*Buffer)

// WithLimit bounds the size a Buffer may grow to.
// Values outside (0, MaxBufferSize] select MaxBufferSize.
func WithLimit(n int) BufferOption {
	return func(b *Buffer) {
		if n <= 0 || n > MaxBufferSize {
			n = MaxBufferSize
		}

		b.limit = n
	}
}

// NewBuffer allocates a Buffer of exactly capacity bytes.
// The contents of a new Buffer are unspecified.
func NewBuffer(capacity int, opts ...BufferOption) (*Buffer, error) {
	b := &Buffer{limit: MaxBufferSize}

	for _, opt := range opts {
		opt(b)
	}

	data, err := b.alloc(capacity)
	if err != nil {
		return nil, err
	}

	b.data = data

	return b, nil
}

// Data returns the whole allocation. Bounds beyond Size are the caller's
// responsibility.
func (b *Buffer) Data() []byte { return b.data }

// Size returns the number of bytes in the allocation.
func (b *Buffer) Size() int { return len(b.data) }

// Empty reports whether the allocation holds no bytes.
func (b *Buffer) Empty() bool { return len(b.data) == 0 }

// Limit returns the largest size the Buffer may grow to.
func (b *Buffer) Limit() int { return b.limit }

// GrowBy reallocates the Buffer to Size()+n bytes. The first Size() bytes are
// copied to the new allocation; the added tail is unspecified.
//
// On failure the Buffer is left exactly as it was.
func (b *Buffer) GrowBy(n int) error {
	if n < 0 {
		return ErrAllocation.
			Wrap(fmt.Errorf("negative growth %d", n)).
			With(slog.Int("size", len(b.data)))
	}

	if n > b.limit-len(b.data) {
		return ErrAllocation.
			Wrap(fmt.Errorf("size %d exceeds limit %d", int64(len(b.data))+int64(n), b.limit)).
			With(slog.Int("size", len(b.data)), slog.Int("grow", n))
	}

	return b.realloc(len(b.data) + n)
}

// ShrinkBy reallocates the Buffer to max(0, Size()-n) bytes, keeping the
// leading bytes and discarding the truncated tail.
func (b *Buffer) ShrinkBy(n int) error {
	if n < 0 {
		return ErrAllocation.
			Wrap(fmt.Errorf("negative shrink %d", n)).
			With(slog.Int("size", len(b.data)))
	}

	return b.realloc(max(0, len(b.data)-n))
}

// Resize grows or shrinks the Buffer to exactly n bytes.
func (b *Buffer) Resize(n int) error {
	switch size := len(b.data); {
	case n < size:
		return b.ShrinkBy(size - n)
	case n > size:
		return b.GrowBy(n - size)
	default:
		return nil
	}
}

// Clone returns a deep copy of b with its own allocation.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		data:  make([]byte, len(b.data)),
		limit: b.limit,
	}

	copy(c.data, b.data)

	return c
}

// Take moves the allocation of b into a new Buffer and leaves b empty.
func (b *Buffer) Take() *Buffer {
	t := &Buffer{data: b.data, limit: b.limit}

	b.data = []byte{}

	return t
}

// Swap exchanges the allocations (and limits) of b and other.
func (b *Buffer) Swap(other *Buffer) {
	b.data, other.data = other.data, b.data
	b.limit, other.limit = other.limit, b.limit
}

// Same reports whether b and other share the same allocation.
func (b *Buffer) Same(other *Buffer) bool {
	if other == nil {
		return false
	}

	if len(b.data) == 0 || len(other.data) == 0 {
		return len(b.data) == 0 && len(other.data) == 0
	}

	return &b.data[0] == &other.data[0] && len(b.data) == len(other.data)
}

// LogValue implements slog.LogValuer.
func (b *Buffer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("size", len(b.data)),
		slog.Int("limit", b.limit),
	)
}

// realloc replaces the allocation with one of exactly size bytes holding the
// first min(size, Size()) bytes of the old one.
func (b *Buffer) realloc(size int) error {
	if size == len(b.data) {
		return nil
	}

	data, err := b.alloc(size)
	if err != nil {
		return err
	}

	copy(data, b.data)
	b.data = data

	return nil
}

// alloc returns a new slice with len == cap == size. A runtime refusal to
// allocate is reported as ErrAllocation.
func (b *Buffer) alloc(size int) (data []byte, err error) {
	if size < 0 || size > b.limit {
		return nil, ErrAllocation.
			Wrap(fmt.Errorf("size %d out of range [0, %d]", size, b.limit))
	}

	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = ErrAllocation.
				Wrap(fmt.Errorf("%v", r)).
				With(slog.Int("size", size))
		}
	}()

	return make([]byte, size, size), nil
}
