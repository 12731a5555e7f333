package accessor

import (
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/pterodactyl/fh/internal/platform"
)

// FixPath normalizes the directory separators in p to forward slashes, which
// every supported platform accepts.
func FixPath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// FileName returns the base name of p without its extension, so
// "logs/server.log" becomes "server".
func FileName(p string) string {
	base := path.Base(FixPath(p))
	if base == "." || base == "/" {
		return ""
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// Extension returns whatever follows the last dot in the base name of p, or an
// empty string if there is no dot.
func Extension(p string) string {
	base := path.Base(FixPath(p))
	if i := strings.LastIndexByte(base, '.'); i >= 0 && base != "." {
		return base[i+1:]
	}
	return ""
}

// Exists reports whether p can be opened for reading on the host filesystem.
func Exists(p string) bool {
	return ExistsIn(hostFS, p)
}

// ExistsIn reports whether p can be opened for reading on fsys.
func ExistsIn(fsys billy.Filesystem, p string) bool {
	f, err := fsys.Open(FixPath(p))
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// LastModified returns the last modification time of p on the host
// filesystem. ok is false when the file does not exist or the platform has
// no usable answer.
func LastModified(p string) (t time.Time, ok bool, err error) {
	return platform.Native().LastModified(FixPath(p))
}
