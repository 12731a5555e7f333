package accessor

import (
	"bytes"
	"io"

	"emperror.dev/errors"
)

// NoSeek leaves the cursor where it is before a transfer.
const NoSeek int64 = -1

type transfer struct {
	pos    int64
	rewind bool
	flush  bool
	chunk  int
}

// TransferOption adjusts a single read or write.
type TransferOption func(t *transfer)

// At seeks to the absolute offset pos before the transfer. A negative pos
// is the same as NoSeek.
func At(pos int64) TransferOption {
	return func(t *transfer) {
		t.pos = pos
	}
}

// AutoRewind controls whether the cursor returns to where it was before the
// seek requested with At once the transfer is over. Reads rewind by default,
// writes do not.
func AutoRewind(rewind bool) TransferOption {
	return func(t *transfer) {
		t.rewind = rewind
	}
}

// FlushFirst flushes buffered data before the transfer.
func FlushFirst() TransferOption {
	return func(t *transfer) {
		t.flush = true
	}
}

// ChunkSize sets the growth step of the buffer used by GetLine. Values
// outside [MinChunkSize, MaxChunkSize] fall back to DefaultChunkSize.
func ChunkSize(n int) TransferOption {
	return func(t *transfer) {
		t.chunk = n
	}
}

func newTransfer(read bool, opts []TransferOption) *transfer {
	t := &transfer{pos: NoSeek, rewind: read, chunk: DefaultChunkSize}
	for _, opt := range opts {
		opt(t)
	}
	if t.pos < 0 {
		t.pos = NoSeek
	}
	t.chunk = clampChunkSize(t.chunk)
	return t
}

// begin runs the steps every transfer shares up to the point where the cursor
// is in place: the open check, recording the operation and the optional
// flush.
func (a *Accessor) begin(op Operation, t *transfer) error {
	if a.stream == nil {
		return newAccessorError(ErrCodeNotOpen, a.path, nil)
	}
	a.lastOp = op
	if t.flush {
		if err := a.Flush(); err != nil {
			// A flush that is not permitted right now is skipped, a failed one
			// is not.
			if !IsErrorCode(err, ErrCodeAccessDenied) {
				return err
			}
			a.log().WithField("operation", op.String()).Debug("skipping flush before transfer")
		}
	}
	return nil
}

// position seeks to the requested offset, if any.
func (a *Accessor) position(t *transfer) error {
	if t.pos == NoSeek {
		return nil
	}
	return a.Seek(OriginStart, t.pos)
}

// finish rewinds after a positioned transfer when asked to. A rewind failure
// is only reported if the transfer itself succeeded.
func (a *Accessor) finish(t *transfer, err *error) {
	if t.pos == NoSeek || !t.rewind {
		return
	}
	if rerr := a.RewindOneStep(); rerr != nil {
		if *err == nil {
			*err = rerr
		} else {
			a.error(rerr).Warn("failed to rewind after transfer")
		}
	}
}

// WriteToFile writes data through the filter. With At the data is written at
// that offset; add AutoRewind(true) to restore the cursor afterwards.
func (a *Accessor) WriteToFile(data []byte, opts ...TransferOption) (err error) {
	t := newTransfer(false, opts)
	if err := a.begin(OperationWrite, t); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := a.position(t); err != nil {
		return err
	}
	defer a.finish(t, &err)

	if !a.mode.CanWrite() {
		return a.denied("write")
	}
	return a.write(a.table.Apply(data))
}

func (a *Accessor) write(p []byte) error {
	n, err := a.stream.Write(p)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return newAccessorError(ErrCodeTransferFailed, a.path, err)
	}
	return nil
}

// Write implements io.Writer on top of WriteToFile. The returned count is the
// length of p even when the filter dropped some of it.
func (a *Accessor) Write(p []byte) (int, error) {
	if err := a.WriteToFile(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString implements io.StringWriter.
func (a *Accessor) WriteString(s string) (int, error) {
	return a.Write([]byte(s))
}

// ReadFromFile reads up to count bytes and passes them through the filter. A
// read cut short by the end of the file is not an error: the bytes read are
// returned with StatusEOF.
func (a *Accessor) ReadFromFile(count int, opts ...TransferOption) (res *Result, err error) {
	t := newTransfer(true, opts)
	if err := a.begin(OperationRead, t); err != nil {
		return failed(err)
	}
	if count <= 0 {
		return &Result{Status: StatusOK}, nil
	}
	if err := a.position(t); err != nil {
		return failed(err)
	}
	defer a.finish(t, &err)

	if !a.mode.CanRead() {
		return failed(a.denied("read"))
	}
	// The buffer grows with the data actually read, not with count.
	var buf bytes.Buffer
	_, rerr := io.CopyN(&buf, a.stream, int64(count))
	switch {
	case rerr == nil:
		return &Result{Data: a.table.Apply(buf.Bytes()), Status: StatusOK}, nil
	case errors.Is(rerr, io.EOF):
		return &Result{Data: a.table.Apply(buf.Bytes()), Status: StatusEOF}, nil
	}
	return failed(newAccessorError(ErrCodeTransferFailed, a.path, rerr))
}

// GetLine skips line lines and returns the one after them, so GetLine(0)
// reads the line at the cursor. Combined with At the cursor is restored
// afterwards unless AutoRewind(false) is given; without At it is left after
// the line that was read.
func (a *Accessor) GetLine(line int, opts ...TransferOption) (res *Result, err error) {
	t := newTransfer(true, opts)
	if err := a.begin(OperationRead, t); err != nil {
		return failed(err)
	}
	if err := a.position(t); err != nil {
		return failed(err)
	}
	defer a.finish(t, &err)

	if !a.mode.CanRead() {
		return failed(a.denied("read"))
	}
	if line < 0 {
		return &Result{Status: StatusNotFound}, newAccessorError(ErrCodeTargetNotReached, a.path, errors.Errorf("invalid line index %d", line))
	}
	if a.stream.EOF() {
		return &Result{Status: StatusNotFound}, newAccessorError(ErrCodeEndOfStream, a.path, nil)
	}

	buf, status, serr := scanLine(a.stream, line, t.chunk)
	switch status {
	case StatusFailed:
		return failed(newAccessorError(ErrCodeTransferFailed, a.path, serr))
	case StatusNotFound:
		return &Result{Status: StatusNotFound}, newAccessorError(ErrCodeTargetNotReached, a.path, nil)
	}
	return &Result{Data: a.table.Apply(buf.Bytes()), Status: status}, nil
}

// ReadLine reads the line at the cursor and leaves the cursor after it.
func (a *Accessor) ReadLine() (*Result, error) {
	return a.GetLine(0, ChunkSize(DefaultChunkSize))
}
