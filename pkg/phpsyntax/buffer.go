package phpsyntax

import (
	"errors"
	"fmt"
	"slices"
)

// Buffer errors.
var (
	ErrEditOutOfRange   = errors.New("edit out of range")
	ErrOverlappingEdits = errors.New("overlapping edits")
)

type edit struct {
	start, end int
	text       string
}

// Buffer queues byte-range edits against an immutable source and applies
// them in one pass.
type Buffer struct {
	src   []byte
	edits []edit
}

// NewBuffer returns a Buffer over src. src is not modified.
func NewBuffer(src []byte) *Buffer {
	return &Buffer{src: src}
}

// Len returns the number of queued edits.
func (b *Buffer) Len() int { return len(b.edits) }

// Replace queues replacing src[start:end] with text.
func (b *Buffer) Replace(start, end int, text string) error {
	if start < 0 || end < start || end > len(b.src) {
		return fmt.Errorf("%w: [%d,%d) of %d", ErrEditOutOfRange, start, end, len(b.src))
	}

	b.edits = append(b.edits, edit{start: start, end: end, text: text})

	return nil
}

// Insert queues inserting text at pos.
func (b *Buffer) Insert(pos int, text string) error {
	return b.Replace(pos, pos, text)
}

// Bytes applies the queued edits and returns the new content. Insertions at
// the same offset keep their queue order.
func (b *Buffer) Bytes() ([]byte, error) {
	if len(b.edits) == 0 {
		return slices.Clone(b.src), nil
	}

	edits := slices.Clone(b.edits)
	slices.SortStableFunc(edits, func(x, y edit) int {
		if x.start != y.start {
			return x.start - y.start
		}

		return x.end - y.end
	})

	out := make([]byte, 0, len(b.src)+64)
	pos := 0

	for _, e := range edits {
		if e.start < pos {
			return nil, fmt.Errorf("%w: [%d,%d) overlaps previous edit ending at %d", ErrOverlappingEdits, e.start, e.end, pos)
		}

		out = append(out, b.src[pos:e.start]...)
		out = append(out, e.text...)
		pos = e.end
	}

	out = append(out, b.src[pos:]...)

	return out, nil
}
