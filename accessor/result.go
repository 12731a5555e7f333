package accessor

// Status classifies the outcome of a read.
type Status int

const (
	// StatusOK means the full request was satisfied.
	StatusOK Status = iota
	// StatusEOF means the stream ended during the read. Data holds whatever
	// was read before that, possibly nothing.
	StatusEOF
	// StatusNotFound means the requested line does not exist.
	StatusNotFound
	// StatusFailed means the read could not be performed at all.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEOF:
		return "eof"
	case StatusNotFound:
		return "not_found"
	}
	return "failed"
}

// Result is returned by every read. It is never nil, so callers can inspect
// Status even when an error is returned.
type Result struct {
	Data   []byte
	Status Status
}

// Success reports whether data was delivered, including partial data at the
// end of the stream.
func (r *Result) Success() bool {
	return r.Status == StatusOK || r.Status == StatusEOF
}

func (r *Result) String() string {
	return string(r.Data)
}

func failed(err error) (*Result, error) {
	return &Result{Status: StatusFailed}, err
}
