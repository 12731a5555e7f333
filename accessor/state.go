package accessor

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
)

// State is a snapshot of an accessor for reporting purposes.
type State struct {
	ID            uuid.UUID
	Path          string
	Name          string
	Extension     string
	Buffering     BufferMode
	BufferSize    int
	Mode          AccessMode
	Length        int64
	LastOperation Operation
	Mimetype      string
}

func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID            string `json:"id"`
		Path          string `json:"path"`
		Name          string `json:"name"`
		Extension     string `json:"extension"`
		Buffering     string `json:"buffering"`
		BufferingCode int    `json:"buffering_code"`
		BufferSize    int    `json:"buffer_size"`
		Mode          string `json:"mode"`
		Length        int64  `json:"length"`
		LastOperation string `json:"last_operation"`
		Mime          string `json:"mime"`
	}{
		ID:            s.ID.String(),
		Path:          s.Path,
		Name:          s.Name,
		Extension:     s.Extension,
		Buffering:     s.Buffering.String(),
		BufferingCode: s.Buffering.Code(),
		BufferSize:    s.BufferSize,
		Mode:          s.Mode.String(),
		Length:        s.Length,
		LastOperation: s.LastOperation.String(),
		Mime:          s.Mimetype,
	})
}

// String renders the state as a short multi-line report.
func (s *State) String() string {
	size := "unknown"
	if s.Length >= 0 {
		size = fmt.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(s.Length)), s.Length)
	}
	path := s.Path
	if path == "" {
		path = "<closed>"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] opened as \"%s\", %s\n", path, s.ID, s.Mode, size)
	fmt.Fprintf(&b, "\tname: %s, extension: %s\n", s.Name, s.Extension)
	fmt.Fprintf(&b, "\tbuffering: %s (%d), %d bytes\n", s.Buffering, s.Buffering.Code(), s.BufferSize)
	if s.Mimetype != "" {
		fmt.Fprintf(&b, "\tmime: %s\n", s.Mimetype)
	}
	fmt.Fprintf(&b, "\tlast operation: %s\n", strcase.ToCamel(s.LastOperation.String()))
	return b.String()
}

// State returns a snapshot of the accessor. For an open file it measures the
// length, which seeks, and sniffs the MIME type from the first bytes of the
// file without moving the cursor. A closed accessor reports a length of -1.
func (a *Accessor) State() (*State, error) {
	st := &State{
		ID:            a.id,
		Path:          a.path,
		Name:          a.name,
		Extension:     a.ext,
		Buffering:     a.buffering,
		BufferSize:    len(a.buffer),
		Mode:          a.mode,
		Length:        -1,
		LastOperation: a.lastOp,
	}
	if a.stream == nil {
		return st, nil
	}

	length, err := a.Length()
	if err != nil {
		return nil, err
	}
	st.Length = length
	if a.mode.CanRead() {
		m, err := mimetype.DetectReader(io.NewSectionReader(a.stream, 0, length))
		if err != nil {
			a.error(err).Debug("could not detect mimetype")
		} else {
			st.Mimetype = m.String()
		}
	}
	return st, nil
}
