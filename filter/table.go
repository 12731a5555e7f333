// Package filter implements the byte allow-list that is applied to data
// flowing through an accessor.
package filter

import (
	"strconv"
	"strings"

	"emperror.dev/errors"
)

// Size is the number of distinct byte values covered by a Table.
const Size = 256

// Table is a 256 entry allow-list. The zero value allows every byte and is
// inactive, in which case Apply returns its input untouched.
type Table struct {
	denied [Size]bool
	active bool
}

// Range is an inclusive span of byte values.
type Range struct {
	Lo, Hi byte
}

// Ignore describes a batch of bytes to revoke from a Table.
type Ignore struct {
	Chars  []byte
	Ranges []Range
}

// Allowed reports whether b survives filtering.
func (t *Table) Allowed(b byte) bool {
	return !t.denied[b]
}

// Active reports whether at least one byte has been revoked since the last
// Reset.
func (t *Table) Active() bool {
	return t.active
}

// Revoke disallows every byte given.
func (t *Table) Revoke(b ...byte) {
	for _, c := range b {
		t.denied[c] = true
	}
	if len(b) > 0 {
		t.active = true
	}
}

// RevokeRange disallows every byte in [lo, hi]. A range with lo > hi is
// ignored.
func (t *Table) RevokeRange(lo, hi byte) {
	if lo > hi {
		return
	}
	for c := int(lo); c <= int(hi); c++ {
		t.denied[c] = true
	}
	t.active = true
}

// Grant allows every byte given again.
func (t *Table) Grant(b ...byte) {
	for _, c := range b {
		t.denied[c] = false
	}
	t.settle()
}

// GrantRange allows every byte in [lo, hi] again. A range with lo > hi is
// ignored.
func (t *Table) GrantRange(lo, hi byte) {
	if lo > hi {
		return
	}
	for c := int(lo); c <= int(hi); c++ {
		t.denied[c] = false
	}
	t.settle()
}

// Reset allows every byte and deactivates the table.
func (t *Table) Reset() {
	*t = Table{}
}

// SetIgnoring revokes every character and range described by ig.
func (t *Table) SetIgnoring(ig Ignore) {
	t.Revoke(ig.Chars...)
	for _, r := range ig.Ranges {
		t.RevokeRange(r.Lo, r.Hi)
	}
}

// Apply returns the bytes of p that are allowed, in their original order.
// When the table is inactive p itself is returned.
func (t *Table) Apply(p []byte) []byte {
	if !t.active {
		return p
	}
	out := make([]byte, 0, len(p))
	for _, c := range p {
		if !t.denied[c] {
			out = append(out, c)
		}
	}
	return out
}

// settle deactivates the table once nothing is denied any more.
func (t *Table) settle() {
	for _, d := range t.denied {
		if d {
			return
		}
	}
	t.active = false
}

// ParseIgnore converts textual entries into an Ignore. Each entry is either a
// single character ("x"), a byte written in hex ("0x0d") or an inclusive range
// of either form separated by a dash ("a-z", "0x00-0x1f"). A lone "-" is the
// dash character itself.
func ParseIgnore(entries []string) (Ignore, error) {
	var ig Ignore
	for _, e := range entries {
		if lo, hi, ok := strings.Cut(e, "-"); ok && lo != "" && hi != "" {
			l, err := parseByte(lo)
			if err != nil {
				return Ignore{}, errors.WithMessagef(err, "filter: invalid range %q", e)
			}
			h, err := parseByte(hi)
			if err != nil {
				return Ignore{}, errors.WithMessagef(err, "filter: invalid range %q", e)
			}
			ig.Ranges = append(ig.Ranges, Range{Lo: l, Hi: h})
			continue
		}
		c, err := parseByte(e)
		if err != nil {
			return Ignore{}, errors.WithMessagef(err, "filter: invalid character %q", e)
		}
		ig.Chars = append(ig.Chars, c)
	}
	return ig, nil
}

func parseByte(s string) (byte, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 8)
		if err != nil {
			return 0, errors.WithStack(err)
		}
		return byte(v), nil
	}
	return 0, errors.New("expected a single byte or a 0x prefixed hex value")
}
