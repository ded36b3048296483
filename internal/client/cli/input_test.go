package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  Park bench \n"), "Note?", &out)
	require.NoError(t, err)
	assert.Equal(t, "Park bench", got)
	assert.Equal(t, "Note?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.Error(t, err)
}

func TestGetConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{"empty takes default yes", "\n", true, true},
		{"empty takes default no", "\n", false, false},
		{"yes", "y\n", false, true},
		{"YES uppercase", "YES\n", false, true},
		{"no", "n\n", true, false},
		{"anything else is no", "maybe\n", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetConfirm(rdr(tt.input), "Sure?", tt.def, &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		n       int
		want    int
		wantErr bool
	}{
		{name: "first", args: []string{"1"}, n: 3, want: 0},
		{name: "last", args: []string{"3"}, n: 3, want: 2},
		{name: "missing", args: nil, n: 3, wantErr: true},
		{name: "zero", args: []string{"0"}, n: 3, wantErr: true},
		{name: "too big", args: []string{"4"}, n: 3, wantErr: true},
		{name: "not a number", args: []string{"x"}, n: 3, wantErr: true},
		{name: "empty list", args: []string{"1"}, n: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIndex(tt.args, tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBadIndex)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
