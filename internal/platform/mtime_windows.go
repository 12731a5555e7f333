//go:build windows

package platform

import (
	"os"
	"time"

	"emperror.dev/errors"
	"golang.org/x/sys/windows"
)

func (nativeTimes) LastModified(path string) (time.Time, bool, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return time.Time{}, false, errors.WithStack(err)
	}
	// FILE_FLAG_BACKUP_SEMANTICS lets directories be opened as well.
	h, err := windows.CreateFile(
		name,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL|windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		if errors.Is(err, windows.ERROR_FILE_NOT_FOUND) || errors.Is(err, windows.ERROR_PATH_NOT_FOUND) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, errors.WithStack(&os.PathError{Op: "CreateFile", Path: path, Err: err})
	}
	defer windows.CloseHandle(h)

	var modified windows.Filetime
	if err := windows.GetFileTime(h, nil, nil, &modified); err != nil {
		return time.Time{}, false, errors.WithStack(&os.PathError{Op: "GetFileTime", Path: path, Err: err})
	}
	if modified.HighDateTime == 0 && modified.LowDateTime == 0 {
		return time.Time{}, false, nil
	}
	return result(time.Unix(0, modified.Nanoseconds()))
}
