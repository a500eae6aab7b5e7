package serial

import (
	"bytes"
	"io"
)

// maxLineLength bounds how much LineReader buffers while waiting for a newline.
const maxLineLength = 64 * 1024

// LineReader splits a timed byte stream into lines. Unlike bufio.Reader it
// gives up on a line as soon as the underlying read times out, handing back
// whatever was received so far.
type LineReader struct {
	r       io.Reader
	buf     []byte
	pending []byte
	err     error
}

// NewLineReader wraps r, which should return (0, nil) when a read times out
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		r:   r,
		buf: make([]byte, 4096),
	}
}

// ReadLine returns the next line including its trailing newline. When a read
// times out before a newline arrives the partial line is returned, which is
// empty if nothing arrived. A read error is held until every byte received
// before it has been returned, then reported once.
func (l *LineReader) ReadLine() ([]byte, error) {
	for {
		if line, ok := l.cut(); ok {
			return line, nil
		}
		if l.err != nil {
			if len(l.pending) > 0 {
				return l.flush(), nil
			}
			err := l.err
			l.err = nil
			return nil, err
		}
		if len(l.pending) >= maxLineLength {
			return l.flush(), nil
		}

		n, err := l.r.Read(l.buf)
		if n > 0 {
			l.pending = append(l.pending, l.buf[:n]...)
		}
		if err != nil {
			l.err = err
			continue
		}
		if n == 0 {
			// timeout
			return l.flush(), nil
		}
	}
}

// cut removes the first complete line from the pending buffer
func (l *LineReader) cut() ([]byte, bool) {
	i := bytes.IndexByte(l.pending, '\n')
	if i < 0 {
		return nil, false
	}
	line := make([]byte, i+1)
	copy(line, l.pending[:i+1])
	l.pending = l.pending[i+1:]
	return line, true
}

// flush hands back everything buffered
func (l *LineReader) flush() []byte {
	line := l.pending
	l.pending = nil
	return line
}
