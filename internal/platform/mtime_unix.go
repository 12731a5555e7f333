//go:build unix

package platform

import (
	"os"
	"time"

	"emperror.dev/errors"
	"golang.org/x/sys/unix"
)

func (nativeTimes) LastModified(path string) (time.Time, bool, error) {
	var st unix.Stat_t
	err := ignoringEINTR(func() error {
		return unix.Stat(path, &st)
	})
	if err != nil {
		if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENOTDIR) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, errors.WithStack(&os.PathError{Op: "stat", Path: path, Err: err})
	}
	// Do not remove these "redundant" type-casts, they are required for 32-bit builds to work.
	return result(time.Unix(int64(st.Mtim.Sec), int64(st.Mtim.Nsec)))
}

// ignoringEINTR retries fn for as long as it is interrupted by a signal.
func ignoringEINTR(fn func() error) error {
	for {
		err := fn()
		if err != unix.EINTR {
			return err
		}
	}
}
