//go:build !unix && !windows

package platform

import (
	"os"
	"time"

	"emperror.dev/errors"
)

func (nativeTimes) LastModified(path string) (time.Time, bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, errors.WithStack(err)
	}
	return result(st.ModTime())
}
