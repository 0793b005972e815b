package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// TeeWriter duplicates every write to all of its writers. A failing writer
// does not stop the others; its error is combined into the returned one.
type TeeWriter struct {
	writers []io.Writer
}

func NewTeeWriter(writers ...io.Writer) *TeeWriter {
	return &TeeWriter{writers: writers}
}

// Write reports len(p) when every writer took all of p, otherwise the
// fewest bytes any writer took.
func (tw *TeeWriter) Write(p []byte) (int, error) {
	n := len(p)
	var err error
	for _, w := range tw.writers {
		written, werr := w.Write(p)
		if werr == nil && written < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, werr)
			n = min(n, written)
		}
	}
	return n, err
}
