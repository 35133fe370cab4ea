package capture

import (
	"bufio"
	"io"
	"os"
)

// Sink is the append-only destination statements are recorded to.
type Sink interface {
	io.Writer
	Flush() error
	Close() error
}

// FileSink is a buffered Sink writing to a file.
type FileSink struct {
	f *os.File
	w *bufio.Writer
}

var _ Sink = (*FileSink)(nil)

// OpenFileSink creates (or truncates) the file at path.
func OpenFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f, w: bufio.NewWriter(f)}, nil
}

func (s *FileSink) Name() string {
	return s.f.Name()
}

func (s *FileSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *FileSink) Flush() error {
	return s.w.Flush()
}

// Close flushes buffered output and closes the file.
func (s *FileSink) Close() error {
	err := s.w.Flush()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

type writerSink struct {
	w io.Writer
}

// NewWriterSink wraps w as a Sink. Flush and Close are passed on to w
// when it implements them.
func NewWriterSink(w io.Writer) Sink {
	return writerSink{w: w}
}

func (s writerSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s writerSink) Flush() error {
	if f, ok := s.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (s writerSink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
