package samtext

import (
	"bufio"
	"io"
)

// Writer writes newline-terminated SAM text lines. Errors are sticky: once
// a write fails, every later call returns the same error.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter constructs a new Writer that buffers lines on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 1<<20)}
}

// Write writes text verbatim followed by a newline.
func (w *Writer) Write(text string) error {
	if w.err != nil {
		return w.err
	}
	if _, w.err = w.w.WriteString(text); w.err == nil {
		w.err = w.w.WriteByte('\n')
	}
	return w.err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}
