package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  admin@colegio.edu  \n"))

	got, err := GetSimpleText(reader, "Enter email", &out)
	require.NoError(t, err)
	assert.Equal(t, "admin@colegio.edu", got)
	assert.Contains(t, out.String(), "Enter email")
}

func TestGetSimpleText_PartialLineBeforeEOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(reader, "Enter email", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestGetPassword_UsesSeam(t *testing.T) {
	orig := readPassword
	defer func() { readPassword = orig }()

	readPassword = func(fd int) ([]byte, error) {
		return []byte("secret1"), nil
	}

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret1"), pw)
	assert.Contains(t, out.String(), "Enter password:")
}
