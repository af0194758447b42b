package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func stubTerminal(t *testing.T, tty bool, pw func(int) ([]byte, error)) {
	t.Helper()
	oldTTY, oldPW := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = oldTTY, oldPW })
	isTerminal = func(int) bool { return tty }
	if pw != nil {
		readPassword = pw
	}
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name: ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name", &out)
	require.Error(t, err)
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"double enter", "a\nb\n\n\n", "a\nb"},
		{"crlf", "a\r\nb\r\n\r\n", "a\nb"},
		{"immediate blank", "\n", ""},
		{"eof without blank", "a\nb", "a\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tc.input), "Notes", &out)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, func(int) ([]byte, error) { return []byte("secret"), nil })
	var out bytes.Buffer
	got, err := GetPassword(rdr("ignored\n"), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}

func TestGetPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true, func(int) ([]byte, error) { return nil, errors.New("boom") })
	var out bytes.Buffer
	_, err := GetPassword(rdr(""), "Password", &out)
	require.Error(t, err)
}

func TestGetPassword_PipeFallsBackToLine(t *testing.T) {
	stubTerminal(t, false, func(int) ([]byte, error) {
		t.Fatal("readPassword must not be called without a terminal")
		return nil, nil
	})
	var out bytes.Buffer
	got, err := GetPassword(rdr("piped\n"), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, "piped", got)
}

func TestGetConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, GetConfirm(rdr("y\n"), "Sure?", &out))
	assert.True(t, GetConfirm(rdr("SIM\n"), "Sure?", &out))
	assert.False(t, GetConfirm(rdr("\n"), "Sure?", &out))
	assert.False(t, GetConfirm(rdr(""), "Sure?", &out))
}
