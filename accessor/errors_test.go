package accessor

import (
	"io"
	"testing"

	"emperror.dev/errors"
	. "github.com/franela/goblin"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func TestAccessor_Error(t *testing.T) {
	g := Goblin(t)

	g.Describe("newAccessorError", func() {
		g.It("includes a stack trace for the error", func() {
			err := newAccessorError(ErrCodeTransferFailed, "/tmp/file", nil)

			_, ok := err.(stackTracer)
			g.Assert(ok).IsTrue()
		})

		g.It("properly wraps the underlying error cause", func() {
			underlying := io.ErrShortWrite
			err := newAccessorError(ErrCodeTransferFailed, "/tmp/file", underlying)

			_, ok := err.(*Error)
			g.Assert(ok).IsFalse()

			aerr, ok := errors.Unwrap(err).(*Error)
			g.Assert(ok).IsTrue()
			g.Assert(aerr.Unwrap()).Equal(underlying)
			g.Assert(errors.Is(err, io.ErrShortWrite)).IsTrue()
		})

		g.It("renders a readable message", func() {
			err := newAccessorError(ErrCodeSeekFailed, "", io.EOF)
			g.Assert(err.Error()).Equal("accessor: seek operation failed for [<empty>]: EOF")

			err = newAccessorError(ErrCodeNotOpen, "", nil)
			g.Assert(err.Error()).Equal("accessor: no file is open")
		})
	})

	g.Describe("IsErrorCode", func() {
		g.It("detects the code anywhere in the chain", func() {
			err := errors.WithMessage(newAccessorError(ErrCodeAllocationFailed, "", io.EOF), "opening")
			g.Assert(IsErrorCode(err, ErrCodeAllocationFailed)).IsTrue()
			g.Assert(IsErrorCode(err, ErrCodeNotOpen)).IsFalse()
		})

		g.It("returns false for unrelated errors", func() {
			g.Assert(IsErrorCode(io.EOF, ErrCodeEndOfStream)).IsFalse()
			g.Assert(IsErrorCode(nil, ErrCodeEndOfStream)).IsFalse()
		})
	})

	g.Describe("Access denied", func() {
		g.It("names the operation and the mode", func() {
			a := New()
			a.mode = ModeReadBinary
			a.path = "/srv/data.bin"

			err := a.denied("write")
			g.Assert(IsErrorCode(err, ErrCodeAccessDenied)).IsTrue()
			g.Assert(err.Error()).Equal(`accessor: cannot write a file opened with mode "rb": /srv/data.bin`)
		})
	})
}
