package logger

import (
	"errors"
	"io"
	"sync"
)

// lineWriter fans complete log lines out to every sink under one lock,
// so lines from concurrent handlers never interleave.
type lineWriter struct {
	mu      sync.Mutex
	sinks   []io.Writer
	closers []io.Closer
	closed  bool
	err     error
}

func newLineWriter(sinks []io.Writer, closers []io.Closer) *lineWriter {
	return &lineWriter{sinks: sinks, closers: closers}
}

// Write copies p to all sinks. The first sink error is kept and returned on
// every later call.
func (w *lineWriter) Write(p []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("logger: write after close")
	}
	if w.err != nil {
		return w.err
	}
	for _, s := range w.sinks {
		if _, err := s.Write(p); err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

// Close closes file sinks. Stdout is never closed.
func (w *lineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	var errs []error
	for _, c := range w.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
