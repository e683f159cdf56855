package logging

import (
	"io"
	"os"

	"go.uber.org/multierr"
)

// CombinedWriter fans log output out to several writers. A failing writer
// does not keep the others from receiving the entry.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{Writers: writers}
}

// Write reports the bytes accepted by the writers that did not fail.
func (cw *CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr == nil && written < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		n += written
	}
	return n, err
}

// Close closes every writer that is an io.Closer, except stdout and stderr.
func (cw *CombinedWriter) Close() error {
	var err error
	for _, w := range cw.Writers {
		if isStdStream(w) {
			continue
		}
		if c, ok := w.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}

func isStdStream(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (f == os.Stdout || f == os.Stderr)
}
