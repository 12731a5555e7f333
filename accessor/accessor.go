// Package accessor provides Accessor, which owns a single open file together
// with its I/O buffer and offers position aware reads and writes that pass
// through an optional byte filter.
//
// An Accessor is not safe for concurrent use.
package accessor

import (
	"os"
	"time"

	"github.com/apex/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"

	"github.com/pterodactyl/fh/filter"
	"github.com/pterodactyl/fh/internal/platform"
	"github.com/pterodactyl/fh/internal/stream"
)

// Operation records whether the accessor last read or wrote.
type Operation uint8

const (
	OperationUnset Operation = iota
	OperationRead
	OperationWrite
)

func (o Operation) String() string {
	switch o {
	case OperationRead:
		return "read"
	case OperationWrite:
		return "write"
	}
	return "unset"
}

// hostFS is the host filesystem. Relative paths resolve against the working
// directory.
var hostFS billy.Filesystem = osfs.New("")

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

type Accessor struct {
	noCopy noCopy

	fs    billy.Filesystem
	times platform.TimeQuerier
	alloc func(size int) ([]byte, error)
	perm  os.FileMode

	id     uuid.UUID
	stream *stream.Stream
	buffer []byte

	buffering BufferMode
	mode      AccessMode
	lastOp    Operation
	lastPos   int64

	path string
	name string
	ext  string

	table filter.Table
}

// Option configures an Accessor created by New or Open.
type Option func(a *Accessor)

// WithFilesystem makes the accessor open files on fsys instead of the host
// filesystem.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(a *Accessor) {
		a.fs = fsys
	}
}

// WithTimeQuerier replaces the platform query used by LastModified.
func WithTimeQuerier(q platform.TimeQuerier) Option {
	return func(a *Accessor) {
		a.times = q
	}
}

// WithAllocator replaces the function used to allocate I/O buffers.
func WithAllocator(fn func(size int) ([]byte, error)) Option {
	return func(a *Accessor) {
		a.alloc = fn
	}
}

// WithPermissions sets the permissions used for files the accessor creates.
func WithPermissions(perm os.FileMode) Option {
	return func(a *Accessor) {
		a.perm = perm
	}
}

func defaultAlloc(size int) ([]byte, error) {
	return make([]byte, size), nil
}

// New returns an accessor with no file open.
func New(opts ...Option) *Accessor {
	a := &Accessor{
		fs:        hostFS,
		alloc:     defaultAlloc,
		perm:      0o644,
		id:        uuid.New(),
		buffering: BufferNone,
		mode:      DefaultAccessMode,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.times == nil {
		if a.fs == hostFS {
			a.times = platform.Native()
		} else {
			a.times = platform.FromFilesystem(a.fs)
		}
	}
	return a
}

// Open returns an accessor with path already open. No accessor is returned
// when the file cannot be opened.
func Open(path string, mode AccessMode, buffering BufferMode, size int, opts ...Option) (*Accessor, error) {
	a := New(opts...)
	if err := a.Open(path, mode, buffering, size); err != nil {
		return nil, err
	}
	return a, nil
}

// Open opens path, closing any file the accessor already holds first. If that
// close fails nothing is opened. size is clamped to [MinBufferSize,
// MaxBufferSize] and ignored when buffering is BufferNone.
func (a *Accessor) Open(path string, mode AccessMode, buffering BufferMode, size int) error {
	path = FixPath(path)
	if a.stream != nil {
		if _, err := a.Close(); err != nil {
			return err
		}
	}
	size = ClampBufferSize(size)

	s, err := stream.Open(a.fs, path, mode.flags(), a.perm)
	if err != nil {
		return newAccessorError(ErrCodeOpenFailed, path, err)
	}
	a.stream = s
	a.path = path
	a.mode = mode
	if err := a.applyBuffering(buffering, size); err != nil {
		if cerr := a.closeStream(); cerr != nil {
			a.error(cerr).Warn("failed to close file after buffering failure")
		}
		a.path = ""
		return err
	}
	a.name = FileName(path)
	a.ext = Extension(path)
	a.lastOp = OperationUnset
	a.lastPos = 0

	a.log().WithField("mode", mode.String()).WithField("buffering", buffering.String()).Debug("opened file")
	return nil
}

// Close releases the buffer and closes the file. It returns false with no
// error when nothing was open, so closing twice is harmless.
func (a *Accessor) Close() (bool, error) {
	a.buffer = nil
	if a.stream == nil {
		return false, nil
	}
	if err := a.closeStream(); err != nil {
		a.error(err).Warn("failed to close file")
		return false, err
	}
	a.log().Debug("closed file")
	a.path, a.name, a.ext = "", "", ""
	return true, nil
}

// closeStream closes the stream and forgets it whether or not the close
// succeeds, since a failed close cannot be retried.
func (a *Accessor) closeStream() error {
	s := a.stream
	a.stream = nil
	if s == nil {
		return nil
	}
	if err := s.Close(); err != nil {
		return newAccessorError(ErrCodeCloseFailed, a.path, err)
	}
	return nil
}

// Remove closes the accessor and deletes its file. It reports whether the
// file was deleted.
func (a *Accessor) Remove() (bool, error) {
	path := a.path
	if path == "" {
		return false, newAccessorError(ErrCodeNotOpen, path, nil)
	}
	if _, err := a.Close(); err != nil {
		// The handle is gone either way, so still try to delete the file.
		a.error(err).Warn("removing file after close failure")
	}
	if err := a.fs.Remove(path); err != nil {
		return false, newAccessorError(ErrCodeRemoveFailed, path, err)
	}
	log.WithField("subsystem", "accessor").WithField("path", path).Debug("removed file")
	return true, nil
}

// Transfer moves the open file, its buffer and all settings into a new
// accessor. The receiver is left closed and empty.
func (a *Accessor) Transfer() *Accessor {
	b := &Accessor{
		fs:        a.fs,
		times:     a.times,
		alloc:     a.alloc,
		perm:      a.perm,
		id:        a.id,
		stream:    a.stream,
		buffer:    a.buffer,
		buffering: a.buffering,
		mode:      a.mode,
		lastOp:    a.lastOp,
		lastPos:   a.lastPos,
		path:      a.path,
		name:      a.name,
		ext:       a.ext,
		table:     a.table,
	}
	a.stream = nil
	a.buffer = nil
	a.buffering = BufferNone
	a.mode = DefaultAccessMode
	a.lastOp = OperationUnset
	a.lastPos = 0
	a.path, a.name, a.ext = "", "", ""
	a.table.Reset()
	a.id = uuid.New()
	return b
}

// IsOpen reports whether the accessor currently holds a file.
func (a *Accessor) IsOpen() bool {
	return a.stream != nil
}

// ID returns the random identifier of this accessor.
func (a *Accessor) ID() uuid.UUID {
	return a.id
}

// Path returns the normalized path of the open file.
func (a *Accessor) Path() string {
	return a.path
}

// Name returns the file name of the open file without its extension.
func (a *Accessor) Name() string {
	return a.name
}

// Extension returns the extension of the open file without the dot.
func (a *Accessor) Extension() string {
	return a.ext
}

// Mode returns the access mode the file was opened with.
func (a *Accessor) Mode() AccessMode {
	return a.mode
}

// LastOperation returns whether the accessor last read or wrote.
func (a *Accessor) LastOperation() Operation {
	return a.lastOp
}

// SetIgnoring revokes the characters and ranges in ig from the filter.
func (a *Accessor) SetIgnoring(ig filter.Ignore) {
	a.table.SetIgnoring(ig)
}

// ClearFiltering allows every byte again.
func (a *Accessor) ClearFiltering() {
	a.table.Reset()
}

// Allowed reports whether b passes the filter.
func (a *Accessor) Allowed(b byte) bool {
	return a.table.Allowed(b)
}

// Filter returns the filter applied to every read and write so individual
// bytes can be granted or revoked.
func (a *Accessor) Filter() *filter.Table {
	return &a.table
}

// LastModified returns the modification time of the open file.
func (a *Accessor) LastModified() (time.Time, bool, error) {
	if a.path == "" {
		return time.Time{}, false, newAccessorError(ErrCodeNotOpen, a.path, nil)
	}
	return a.times.LastModified(a.path)
}

func (a *Accessor) log() *log.Entry {
	return log.WithField("subsystem", "accessor").WithField("id", a.id.String()).WithField("path", a.path)
}
