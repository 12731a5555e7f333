package accessor

import (
	"strings"

	"emperror.dev/errors"
	"github.com/iancoleman/strcase"

	"github.com/pterodactyl/fh/internal/stream"
)

const (
	MinBufferSize     = 128
	MaxBufferSize     = 16384
	DefaultBufferSize = 2048
)

// BufferMode controls when written data reaches the file.
type BufferMode int

const (
	BufferNone BufferMode = iota
	BufferLine
	BufferFull
)

// DefaultBufferMode is used when no mode is configured.
const DefaultBufferMode = BufferFull

// String returns the human readable name of the mode.
func (m BufferMode) String() string {
	switch m {
	case BufferNone:
		return "No Buffering"
	case BufferLine:
		return "Line Buffering"
	case BufferFull:
		return "Full Buffering"
	}
	return "Unknown Buffering"
}

// Code returns the stdio constant for the mode: _IOFBF (0), _IOLBF (1) or
// _IONBF (2).
func (m BufferMode) Code() int {
	switch m {
	case BufferFull:
		return 0
	case BufferLine:
		return 1
	}
	return 2
}

func (m BufferMode) streamMode() stream.Buffering {
	switch m {
	case BufferLine:
		return stream.LineBuffered
	case BufferFull:
		return stream.FullyBuffered
	}
	return stream.Unbuffered
}

// ParseBufferMode accepts "none", "line" or "full" in any case style, with or
// without a "_buffering" suffix ("LineBuffering", "no-buffer").
func ParseBufferMode(s string) (BufferMode, error) {
	name := strcase.ToSnake(strings.TrimSpace(s))
	name = strings.TrimSuffix(strings.TrimSuffix(name, "_buffering"), "_buffer")
	switch name {
	case "none", "no", "unbuffered":
		return BufferNone, nil
	case "line":
		return BufferLine, nil
	case "full":
		return BufferFull, nil
	}
	return 0, errors.Errorf("accessor: unknown buffer mode %q", s)
}

// ClampBufferSize forces size into [MinBufferSize, MaxBufferSize].
func ClampBufferSize(size int) int {
	return min(max(size, MinBufferSize), MaxBufferSize)
}

// allocate returns a buffer of size bytes for mode, or nil when the mode is
// unbuffered.
func (a *Accessor) allocate(mode BufferMode, size int) ([]byte, error) {
	if mode == BufferNone {
		return nil, nil
	}
	buf, err := a.alloc(size)
	if err != nil {
		return nil, newAccessorError(ErrCodeAllocationFailed, a.path, err)
	}
	return buf, nil
}

// applyBuffering allocates the buffer for mode and hands it to the stream. If
// the allocation fails the stream is closed so no handle is leaked.
func (a *Accessor) applyBuffering(mode BufferMode, size int) error {
	buf, err := a.allocate(mode, size)
	if err != nil {
		a.error(err).Warn("closing stream after buffer allocation failure")
		a.buffer = nil
		if cerr := a.closeStream(); cerr != nil {
			return errors.Combine(err, cerr)
		}
		return err
	}
	if err := a.stream.SetBuffer(buf, mode.streamMode()); err != nil {
		return newAccessorError(ErrCodeTransferFailed, a.path, err)
	}
	a.buffer = buf
	a.buffering = mode
	return nil
}

// Flush writes buffered data to the file. It is a no-op when the accessor is
// unbuffered. Otherwise the accessor must be open in a mode that permits
// writing and either opened write-only or have written last. Anything else
// is reported as ErrCodeAccessDenied.
func (a *Accessor) Flush() error {
	if a.buffering == BufferNone {
		return nil
	}
	if a.stream == nil {
		return newAccessorError(ErrCodeNotOpen, a.path, nil)
	}
	// A rejected write still records the operation, so the mode is checked
	// on its own first.
	if !a.mode.CanWrite() || (!a.mode.writeOnly() && a.lastOp != OperationWrite) {
		return a.denied("flush")
	}
	if err := a.stream.Flush(); err != nil {
		return newAccessorError(ErrCodeTransferFailed, a.path, err)
	}
	return nil
}

// ChangeBuffering switches the buffering mode of an open accessor, clamping
// size the same way Open does. The stream stays open on success and is closed
// if the new buffer cannot be allocated.
func (a *Accessor) ChangeBuffering(mode BufferMode, size int) error {
	if a.stream == nil {
		return newAccessorError(ErrCodeNotOpen, a.path, nil)
	}
	return a.applyBuffering(mode, ClampBufferSize(size))
}

// Buffering returns the current buffering mode.
func (a *Accessor) Buffering() BufferMode {
	return a.buffering
}

// BufferSize returns the size of the I/O buffer, or zero when unbuffered.
func (a *Accessor) BufferSize() int {
	return len(a.buffer)
}
