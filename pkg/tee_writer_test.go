package pkg

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestTeeWriter_Write(t *testing.T) {
	stdout := &strings.Builder{}
	stdout.WriteString("boot\n")
	file := &strings.Builder{}

	tw := NewTeeWriter(stdout, file)

	line1 := "level=info msg=\"set logged\"\n"
	line2 := "level=warn msg=\"logbook unavailable\"\n"
	n, err := tw.Write([]byte(line1))
	require.NoError(t, err)
	assert.Equal(t, len(line1), n)
	n, err = tw.Write([]byte(line2))
	require.NoError(t, err)
	assert.Equal(t, len(line2), n)

	assert.Equal(t, "boot\n"+line1+line2, stdout.String())
	assert.Equal(t, line1+line2, file.String())
}

func TestTeeWriter_Write_Failures(t *testing.T) {
	diskFull := errors.New("disk full")
	file := &strings.Builder{}

	tw := NewTeeWriter(&failingWriter{n: 0, err: diskFull}, file, &failingWriter{n: 3})

	line := "level=info msg=\"rest over\"\n"
	n, err := tw.Write([]byte(line))
	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, 0, n)

	// the healthy writer still got the whole line
	assert.Equal(t, line, file.String())
}

func TestTeeWriter_Write_ShortWrite(t *testing.T) {
	tw := NewTeeWriter(io.Discard, &failingWriter{n: 4})

	n, err := tw.Write([]byte("0123456789"))
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Equal(t, 4, n)
}

type failingWriter struct {
	n   int
	err error
}

func (fw *failingWriter) Write(p []byte) (int, error) {
	return min(fw.n, len(p)), fw.err
}
