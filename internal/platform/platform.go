// Package platform answers questions about files that the portable stream
// layer cannot, such as when a file was last modified. Each supported
// platform contributes its own native implementation selected at build time.
package platform

import (
	"os"
	"time"

	"emperror.dev/errors"
	"github.com/go-git/go-billy/v5"
)

// TimeQuerier reports the last modification time of a file. A missing file
// is not an error: ok is false and err is nil.
type TimeQuerier interface {
	LastModified(path string) (t time.Time, ok bool, err error)
}

// Native returns the TimeQuerier backed by the host operating system.
func Native() TimeQuerier {
	return nativeTimes{}
}

type nativeTimes struct{}

// FromFilesystem returns a TimeQuerier that stats files through fsys. It is
// used with virtual filesystems where no native call can reach the file.
func FromFilesystem(fsys billy.Filesystem) TimeQuerier {
	return billyTimes{fsys: fsys}
}

type billyTimes struct {
	fsys billy.Filesystem
}

func (b billyTimes) LastModified(path string) (time.Time, bool, error) {
	st, err := b.fsys.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, errors.WithStack(err)
	}
	return result(st.ModTime())
}

// result treats the zero time and the epoch as "no answer", since neither is
// a usable modification time.
func result(t time.Time) (time.Time, bool, error) {
	if t.IsZero() || (t.Unix() == 0 && t.Nanosecond() == 0) {
		return time.Time{}, false, nil
	}
	return t, true, nil
}
