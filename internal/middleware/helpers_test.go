package middleware

import (
	"io"
	"log/slog"

	"github.com/aashari/go-worklist-extractor/internal/logger"
)

func slogLogger(w io.Writer) *slog.Logger {
	return slog.New(logger.NewStructuredJSONHandler(w, slog.LevelDebug, "test", "test"))
}

// countingReader serves size bytes of 'A' and records how many were read
type countingReader struct {
	remaining int
	consumed  int
}

func (c *countingReader) Read(p []byte) (int, error) {
	if c.remaining == 0 {
		return 0, io.EOF
	}
	n := len(p)
	if n > c.remaining {
		n = c.remaining
	}
	for i := 0; i < n; i++ {
		p[i] = 'A'
	}
	c.remaining -= n
	c.consumed += n
	return n, nil
}

// erroringReader returns prefix and then err
type erroringReader struct {
	prefix io.Reader
	err    error
}

func (e *erroringReader) Read(p []byte) (int, error) {
	if n, err := e.prefix.Read(p); n > 0 || err != io.EOF {
		return n, err
	}
	return 0, e.err
}
