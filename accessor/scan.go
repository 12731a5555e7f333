package accessor

import (
	"io"

	"emperror.dev/errors"
)

const (
	MinChunkSize     = 1
	MaxChunkSize     = 1024
	DefaultChunkSize = 16
)

// clampChunkSize falls back to the default for sizes outside
// [MinChunkSize, MaxChunkSize].
func clampChunkSize(n int) int {
	if n < MinChunkSize || n > MaxChunkSize {
		return DefaultChunkSize
	}
	return n
}

// lineBuffer accumulates a line. It grows linearly: after n growths its
// capacity is chunk * (n + 1).
type lineBuffer struct {
	data       []byte
	n          int
	chunk      int
	generation int
}

func newLineBuffer(chunk int) *lineBuffer {
	return &lineBuffer{data: make([]byte, chunk), chunk: chunk, generation: 1}
}

func (b *lineBuffer) append(c byte) {
	if b.n == len(b.data) {
		b.generation++
		grown := make([]byte, b.chunk*b.generation)
		copy(grown, b.data[:b.n])
		b.data = grown
	}
	b.data[b.n] = c
	b.n++
}

func (b *lineBuffer) Bytes() []byte {
	return b.data[:b.n]
}

func (b *lineBuffer) Cap() int {
	return len(b.data)
}

// scanLine reads src one byte at a time, skips skip lines and returns the
// line that follows. Carriage returns are never stored and the newline is not
// part of the line. A NUL byte ends the scan like the end of the stream does.
//
// The line does not exist, and StatusNotFound is returned, when the scan
// stops before the skipped lines are exhausted or before a single byte of the
// target line was consumed. A line cut short by the end of the stream is
// returned with StatusEOF.
func scanLine(src io.ByteReader, skip int, chunk int) (*lineBuffer, Status, error) {
	buf := newLineBuffer(chunk)
	started := false
	for {
		c, err := src.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return buf, StatusFailed, err
			}
			if skip > 0 || !started {
				return buf, StatusNotFound, nil
			}
			return buf, StatusEOF, nil
		}
		if c == 0 {
			if skip > 0 || !started {
				return buf, StatusNotFound, nil
			}
			return buf, StatusOK, nil
		}
		if skip > 0 {
			if c == '\n' {
				skip--
			}
			continue
		}
		started = true
		switch c {
		case '\n':
			return buf, StatusOK, nil
		case '\r':
		default:
			buf.append(c)
		}
	}
}
