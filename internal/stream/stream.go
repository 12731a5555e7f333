// Package stream implements a buffered file stream on top of a billy.File
// with the behaviour of a C stdio stream: a caller supplied buffer, three
// buffering modes, a sticky end-of-stream flag and a single file offset that
// is shared between reads and writes.
package stream

import (
	"bytes"
	"io"
	"os"

	"emperror.dev/errors"
	"github.com/go-git/go-billy/v5"
)

var (
	// ErrClosed is returned by every operation on a stream after Close.
	ErrClosed = errors.Sentinel("stream: file already closed")
	// ErrNoBuffer is returned when a buffered mode is requested without a
	// buffer to back it.
	ErrNoBuffer = errors.Sentinel("stream: buffered mode requires a non-empty buffer")
)

// Buffering selects when pending writes reach the underlying file.
type Buffering int

const (
	// Unbuffered sends every transfer straight to the file.
	Unbuffered Buffering = iota
	// LineBuffered flushes pending writes whenever a newline is written or
	// the buffer fills up.
	LineBuffered
	// FullyBuffered flushes pending writes only when the buffer fills up or
	// the stream is flushed, seeked or closed.
	FullyBuffered
)

// File is the subset of billy.File a stream needs.
type File interface {
	Name() string
	io.Reader
	io.ReaderAt
	io.Writer
	io.Seeker
	io.Closer
}

var _ File = (billy.File)(nil)

// Stream is a buffered view of a single file. A Stream is not safe for
// concurrent use.
type Stream struct {
	f      File
	append bool

	mode Buffering
	buf  []byte

	// buf[r:w] holds bytes read ahead from f that have not been consumed yet.
	r, w int
	// buf[:pending] holds bytes written by the caller that have not reached f.
	// At most one of the read window and the pending region is non-empty.
	pending int

	eof    bool
	closed bool
}

// Open opens name on fsys with the given os.OpenFile flags and returns an
// unbuffered stream around it.
func Open(fsys billy.Filesystem, name string, flag int, perm os.FileMode) (*Stream, error) {
	f, err := fsys.OpenFile(name, flag, perm)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return New(f, flag&os.O_APPEND != 0), nil
}

// New wraps an already opened file. When appendMode is set every physical
// write is preceded by a seek to the end of the file.
func New(f File, appendMode bool) *Stream {
	return &Stream{f: f, append: appendMode, mode: Unbuffered}
}

// Buffering returns the active buffering mode.
func (s *Stream) Buffering() Buffering {
	return s.mode
}

// EOF reports whether a read has hit the end of the file since the last
// successful seek.
func (s *Stream) EOF() bool {
	return s.eof
}

// SetBuffer changes the buffering mode and the buffer backing it. Pending
// writes are flushed through the previous buffer and unread data is given
// back to the file before the switch, so no data is lost. The stream keeps a
// reference to buf until the next SetBuffer or Close.
func (s *Stream) SetBuffer(buf []byte, mode Buffering) error {
	if s.closed {
		return ErrClosed
	}
	if mode != Unbuffered && len(buf) == 0 {
		return ErrNoBuffer
	}
	if err := s.sync(); err != nil {
		return err
	}
	if mode == Unbuffered {
		buf = nil
	}
	s.buf = buf
	s.mode = mode
	return nil
}

// ReadByte reads a single byte. At the end of the file it returns io.EOF and
// sets the end-of-stream flag.
func (s *Stream) ReadByte() (byte, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if err := s.flushPending(); err != nil {
		return 0, err
	}
	if s.mode == Unbuffered {
		var one [1]byte
		if _, err := io.ReadFull(s.f, one[:]); err != nil {
			return 0, s.readError(err)
		}
		return one[0], nil
	}
	if s.r == s.w {
		if err := s.fill(); err != nil {
			return 0, err
		}
	}
	c := s.buf[s.r]
	s.r++
	return c, nil
}

// Read implements io.Reader. It returns io.EOF unwrapped so that the io
// helpers recognise it.
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := s.flushPending(); err != nil {
		return 0, err
	}
	if s.r < s.w {
		n := copy(p, s.buf[s.r:s.w])
		s.r += n
		return n, nil
	}
	// Large reads bypass the buffer entirely.
	if s.mode == Unbuffered || len(p) >= len(s.buf) {
		n, err := s.f.Read(p)
		if err != nil {
			return n, s.readError(err)
		}
		return n, nil
	}
	if err := s.fill(); err != nil {
		return 0, err
	}
	n := copy(p, s.buf[s.r:s.w])
	s.r += n
	return n, nil
}

// ReadAt reads from an absolute offset without moving the stream position.
// Pending writes are flushed first so the file content is current.
func (s *Stream) ReadAt(p []byte, off int64) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if err := s.flushPending(); err != nil {
		return 0, err
	}
	return s.f.ReadAt(p, off)
}

// Write implements io.Writer according to the buffering mode.
func (s *Stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if err := s.dropReadAhead(); err != nil {
		return 0, err
	}
	if s.mode == Unbuffered {
		if err := s.seekAppend(); err != nil {
			return 0, err
		}
		n, err := s.f.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		return n, errors.WithStack(err)
	}

	var written int
	for rest := p; len(rest) > 0; {
		if s.pending == len(s.buf) {
			if err := s.flushPending(); err != nil {
				return written, err
			}
		}
		n := copy(s.buf[s.pending:], rest)
		s.pending += n
		written += n
		rest = rest[n:]
	}
	if s.pending == len(s.buf) || (s.mode == LineBuffered && bytes.IndexByte(p, '\n') >= 0) {
		if err := s.flushPending(); err != nil {
			return written, err
		}
	}
	return written, nil
}

// Flush writes any pending data to the file.
func (s *Stream) Flush() error {
	if s.closed {
		return ErrClosed
	}
	return s.flushPending()
}

// Seek implements io.Seeker. Pending writes are flushed, read-ahead data is
// discarded and the end-of-stream flag is cleared on success.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if err := s.sync(); err != nil {
		return 0, err
	}
	pos, err := s.f.Seek(offset, whence)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	s.eof = false
	return pos, nil
}

// Tell returns the logical position of the stream, which accounts for bytes
// that are buffered but not yet consumed or written.
func (s *Stream) Tell() (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	pos, err := s.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return pos - int64(s.w-s.r) + int64(s.pending), nil
}

// Close flushes pending writes and closes the file. The file is closed even
// when the flush fails; both errors are reported.
func (s *Stream) Close() error {
	if s.closed {
		return ErrClosed
	}
	ferr := s.flushPending()
	cerr := errors.WithStack(s.f.Close())
	s.closed = true
	s.buf = nil
	s.r, s.w, s.pending = 0, 0, 0
	return errors.Combine(ferr, cerr)
}

// fill replaces the read window with the next chunk of the file.
func (s *Stream) fill() error {
	s.r, s.w = 0, 0
	n, err := s.f.Read(s.buf)
	s.w = n
	if n > 0 {
		return nil
	}
	if err == nil {
		err = io.ErrNoProgress
	}
	return s.readError(err)
}

func (s *Stream) readError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		s.eof = true
		return io.EOF
	}
	return errors.WithStack(err)
}

// sync brings the file offset in line with the logical position.
func (s *Stream) sync() error {
	if err := s.flushPending(); err != nil {
		return err
	}
	return s.dropReadAhead()
}

// dropReadAhead gives unread buffered bytes back to the file by moving its
// offset backwards.
func (s *Stream) dropReadAhead() error {
	if unread := s.w - s.r; unread > 0 {
		if _, err := s.f.Seek(-int64(unread), io.SeekCurrent); err != nil {
			return errors.WithStack(err)
		}
	}
	s.r, s.w = 0, 0
	return nil
}

func (s *Stream) flushPending() error {
	if s.pending == 0 {
		return nil
	}
	if err := s.seekAppend(); err != nil {
		return err
	}
	n, err := s.f.Write(s.buf[:s.pending])
	if err == nil && n < s.pending {
		err = io.ErrShortWrite
	}
	// Keep whatever did not make it so a later flush can retry.
	copy(s.buf, s.buf[n:s.pending])
	s.pending -= n
	return errors.WithStack(err)
}

func (s *Stream) seekAppend() error {
	if !s.append {
		return nil
	}
	_, err := s.f.Seek(0, io.SeekEnd)
	return errors.WithStack(err)
}
