package accessor

import (
	"os"
	"strings"

	"emperror.dev/errors"
	"github.com/iancoleman/strcase"
)

// AccessMode is one of the twelve ways a file can be opened, named after the
// fopen mode strings they correspond to.
type AccessMode int

const (
	ModeRead AccessMode = iota
	ModeReadBinary
	ModeReadUpdate
	ModeReadBinaryUpdate
	ModeWrite
	ModeWriteBinary
	ModeWriteUpdate
	ModeWriteBinaryUpdate
	ModeAppend
	ModeAppendBinary
	ModeAppendUpdate
	ModeAppendBinaryUpdate
)

// DefaultAccessMode is used when no mode is configured.
const DefaultAccessMode = ModeReadBinary

var accessModes = [...]struct {
	fopen string
	name  string
}{
	ModeRead:               {"r", "read"},
	ModeReadBinary:         {"rb", "read_binary"},
	ModeReadUpdate:         {"r+", "read_update"},
	ModeReadBinaryUpdate:   {"rb+", "read_binary_update"},
	ModeWrite:              {"w", "write"},
	ModeWriteBinary:        {"wb", "write_binary"},
	ModeWriteUpdate:        {"w+", "write_update"},
	ModeWriteBinaryUpdate:  {"wb+", "write_binary_update"},
	ModeAppend:             {"a", "append"},
	ModeAppendBinary:       {"ab", "append_binary"},
	ModeAppendUpdate:       {"a+", "append_update"},
	ModeAppendBinaryUpdate: {"ab+", "append_binary_update"},
}

func (m AccessMode) valid() bool {
	return m >= ModeRead && m <= ModeAppendBinaryUpdate
}

// String returns the fopen mode string, such as "rb+".
func (m AccessMode) String() string {
	if !m.valid() {
		return "?"
	}
	return accessModes[m].fopen
}

// Name returns the snake_case name of the mode, such as "read_binary_update".
func (m AccessMode) Name() string {
	if !m.valid() {
		return "unknown"
	}
	return accessModes[m].name
}

// CanRead reports whether reads are legal in this mode.
func (m AccessMode) CanRead() bool {
	switch m {
	case ModeWrite, ModeWriteBinary, ModeAppend, ModeAppendBinary:
		return false
	}
	return m.valid()
}

// CanWrite reports whether writes are legal in this mode.
func (m AccessMode) CanWrite() bool {
	switch m {
	case ModeRead, ModeReadBinary:
		return false
	}
	return m.valid()
}

// writeOnly reports whether the mode only ever writes, which makes a flush
// legal regardless of the last operation.
func (m AccessMode) writeOnly() bool {
	switch m {
	case ModeWrite, ModeWriteBinary, ModeAppend, ModeAppendBinary:
		return true
	}
	return false
}

// flags returns the os.OpenFile flags equivalent to the fopen mode. The
// binary variants are identical to the text ones since no newline
// translation ever takes place.
func (m AccessMode) flags() int {
	switch m {
	case ModeRead, ModeReadBinary:
		return os.O_RDONLY
	case ModeReadUpdate, ModeReadBinaryUpdate:
		return os.O_RDWR
	case ModeWrite, ModeWriteBinary:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ModeWriteUpdate, ModeWriteBinaryUpdate:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC
	case ModeAppend, ModeAppendBinary:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return os.O_RDWR | os.O_CREATE | os.O_APPEND
	}
}

// ParseAccessMode accepts either an fopen mode string ("rb+" or "r+b") or the
// name of a mode in any case style ("read_binary_update", "ReadBinaryUpdate",
// "read-binary-update").
func ParseAccessMode(s string) (AccessMode, error) {
	v := strings.TrimSpace(s)
	// "r+b" is the other spelling fopen accepts for "rb+".
	if len(v) == 3 && v[1] == '+' && v[2] == 'b' {
		v = v[:1] + "b+"
	}
	name := strcase.ToSnake(v)
	for m, am := range accessModes {
		if v == am.fopen || name == am.name {
			return AccessMode(m), nil
		}
	}
	return 0, errors.Errorf("accessor: unknown access mode %q", s)
}
