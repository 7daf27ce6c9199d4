package renderer

import (
	"fmt"
	"io"
	"os"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// WriterLogger implements core.Logger on top of any writer
type WriterLogger struct {
	w io.Writer
}

func (wl *WriterLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(wl.w, format, args...)
}

// NewWriterLogger creates a logger writing to w, or to stdout when w is nil.
// Pass os.Stderr to keep stdout free for image data.
func NewWriterLogger(w io.Writer) core.Logger {
	if w == nil {
		w = os.Stdout
	}
	return &WriterLogger{w: w}
}

// nopLogger discards everything
type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}
