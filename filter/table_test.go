package filter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_ZeroValue(t *testing.T) {
	var tbl Table

	assert.False(t, tbl.Active())
	for i := 0; i < Size; i++ {
		assert.True(t, tbl.Allowed(byte(i)))
	}

	in := []byte("untouched")
	out := tbl.Apply(in)
	assert.Equal(t, in, out)
	assert.Same(t, &in[0], &out[0], "inactive table must return its input")
}

func TestTable_Apply(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*Table)
		input  string
		expect string
	}{
		{
			name:   "single revoked character",
			setup:  func(t *Table) { t.Revoke('l') },
			input:  "hello",
			expect: "heo",
		},
		{
			name:   "range of digits",
			setup:  func(t *Table) { t.RevokeRange('0', '9') },
			input:  "a1b22c333",
			expect: "abc",
		},
		{
			name:   "inverted range is ignored",
			setup:  func(t *Table) { t.RevokeRange('z', 'a') },
			input:  "abc",
			expect: "abc",
		},
		{
			name:   "everything revoked",
			setup:  func(t *Table) { t.RevokeRange(0, 255) },
			input:  "abc\x00\xff",
			expect: "",
		},
		{
			name: "granted again after a range revocation",
			setup: func(t *Table) {
				t.RevokeRange('a', 'z')
				t.Grant('e')
			},
			input:  "hello world",
			expect: "e ",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var tbl Table
			tc.setup(&tbl)
			assert.Equal(t, tc.expect, string(tbl.Apply([]byte(tc.input))))
		})
	}
}

// Apply must yield exactly the allowed subsequence for any table and input.
func TestTable_ApplyIsAllowedSubsequence(t *testing.T) {
	var tbl Table
	tbl.Revoke('\r', 0)
	tbl.RevokeRange(0x80, 0xff)

	input := make([]byte, 0, 512)
	for i := 0; i < 512; i++ {
		input = append(input, byte(i*7))
	}

	var expect []byte
	for _, c := range input {
		if tbl.Allowed(c) {
			expect = append(expect, c)
		}
	}
	out := tbl.Apply(input)
	assert.True(t, bytes.Equal(expect, out))
	for _, c := range out {
		assert.True(t, tbl.Allowed(c))
	}
}

func TestTable_Activity(t *testing.T) {
	var tbl Table

	tbl.Revoke('a', 'b')
	assert.True(t, tbl.Active())

	tbl.Grant('a')
	assert.True(t, tbl.Active(), "table with a denied byte stays active")

	tbl.Grant('b')
	assert.False(t, tbl.Active(), "restoring every byte deactivates the table")

	tbl.RevokeRange('0', '9')
	tbl.Reset()
	assert.False(t, tbl.Active())
	assert.True(t, tbl.Allowed('5'))

	tbl.Revoke()
	assert.False(t, tbl.Active(), "revoking nothing does not activate the table")
}

func TestTable_GrantRange(t *testing.T) {
	var tbl Table
	tbl.RevokeRange('a', 'z')

	tbl.GrantRange('a', 'm')
	assert.True(t, tbl.Allowed('a'))
	assert.True(t, tbl.Allowed('m'))
	assert.False(t, tbl.Allowed('n'))
	assert.True(t, tbl.Active())

	tbl.GrantRange('z', 'n')
	assert.False(t, tbl.Allowed('n'), "an inverted range is ignored")

	tbl.GrantRange('n', 'z')
	assert.True(t, tbl.Allowed('z'))
	assert.False(t, tbl.Active(), "granting the rest deactivates the table")
}

func TestTable_SetIgnoring(t *testing.T) {
	var tbl Table
	tbl.SetIgnoring(Ignore{
		Chars:  []byte{'\r'},
		Ranges: []Range{{Lo: 'A', Hi: 'Z'}},
	})

	assert.True(t, tbl.Active())
	assert.Equal(t, "ello\n", string(tbl.Apply([]byte("Hello\r\n"))))
	assert.False(t, tbl.Allowed('Q'))
	assert.True(t, tbl.Allowed('q'))
}

func TestParseIgnore(t *testing.T) {
	ig, err := ParseIgnore([]string{"x", "-", "a-f", "0x00-0x1f", "0x7f"})
	require.NoError(t, err)

	assert.Equal(t, []byte{'x', '-', 0x7f}, ig.Chars)
	assert.Equal(t, []Range{{Lo: 'a', Hi: 'f'}, {Lo: 0x00, Hi: 0x1f}}, ig.Ranges)

	_, err = ParseIgnore([]string{"abc"})
	assert.Error(t, err)

	_, err = ParseIgnore([]string{"0x100"})
	assert.Error(t, err)

	_, err = ParseIgnore([]string{"a-0xzz"})
	assert.Error(t, err)
}
