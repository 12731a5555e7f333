package accessor

import (
	"io"
)

// Origin is the reference point of a seek.
type Origin int

const (
	OriginStart   Origin = io.SeekStart
	OriginCurrent Origin = io.SeekCurrent
	OriginEnd     Origin = io.SeekEnd
)

// Seek moves the cursor by offset relative to origin. The position before the
// move is remembered so RewindOneStep can return to it.
func (a *Accessor) Seek(origin Origin, offset int64) error {
	if a.stream == nil {
		return newAccessorError(ErrCodeNotOpen, a.path, nil)
	}
	pos, err := a.stream.Tell()
	if err != nil {
		return newAccessorError(ErrCodeSeekFailed, a.path, err)
	}
	a.lastPos = pos
	if _, err := a.stream.Seek(offset, int(origin)); err != nil {
		return newAccessorError(ErrCodeSeekFailed, a.path, err)
	}
	return nil
}

// RewindOneStep returns the cursor to where it was before the last Seek. When
// no seek has happened yet the cursor goes to the start of the file.
func (a *Accessor) RewindOneStep() error {
	if a.stream == nil {
		return newAccessorError(ErrCodeNotOpen, a.path, nil)
	}
	if _, err := a.stream.Seek(a.lastPos, io.SeekStart); err != nil {
		return newAccessorError(ErrCodeSeekFailed, a.path, err)
	}
	return nil
}

// Tell returns the current cursor position.
func (a *Accessor) Tell() (int64, error) {
	if a.stream == nil {
		return -1, newAccessorError(ErrCodeNotOpen, a.path, nil)
	}
	pos, err := a.stream.Tell()
	if err != nil {
		return -1, newAccessorError(ErrCodeSeekFailed, a.path, err)
	}
	return pos, nil
}

// IsEOF reports whether the last read ran into the end of the file.
func (a *Accessor) IsEOF() bool {
	return a.stream != nil && a.stream.EOF()
}

// Length returns the size of the open file in bytes by seeking to its end and
// back, which makes it comparatively expensive. Seeking also clears the
// end-of-stream flag.
func (a *Accessor) Length() (int64, error) {
	if a.stream == nil {
		return -1, newAccessorError(ErrCodeNotOpen, a.path, nil)
	}
	cur, err := a.stream.Tell()
	if err != nil {
		return -1, newAccessorError(ErrCodeSeekFailed, a.path, err)
	}
	end, err := a.stream.Seek(0, io.SeekEnd)
	if err != nil {
		return -1, newAccessorError(ErrCodeSeekFailed, a.path, err)
	}
	if _, err := a.stream.Seek(cur, io.SeekStart); err != nil {
		return -1, newAccessorError(ErrCodeSeekFailed, a.path, err)
	}
	return end, nil
}
