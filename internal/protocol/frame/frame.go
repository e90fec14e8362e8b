package frame

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/owncheck/owncheck/internal/protocol"
)

// MaxLineBytes caps the receive buffer between delimiters.
const MaxLineBytes = 64 * 1024

const readChunkSize = 4096

var ErrLineTooLong = errors.New("frame: line exceeds maximum length")

// Reader extracts newline-delimited lines from a stream connection,
// buffering whatever the transport delivers between delimiters. Lines
// are never split or merged regardless of how reads are chunked.
type Reader struct {
	conn net.Conn
	buf  []byte
}

func NewReader(conn net.Conn) *Reader {
	return &Reader{conn: conn}
}

// ReadLine returns the next line with the trailing newline stripped
// (a trailing carriage return is stripped as well). When the buffer
// holds no complete line, exactly one read bounded by timeout is
// performed before extraction is retried. A closed peer or an expired
// deadline fails with protocol.ErrConnection.
func (r *Reader) ReadLine(timeout time.Duration) ([]byte, error) {
	for {
		if line, ok := r.extract(); ok {
			return line, nil
		}
		if len(r.buf) > MaxLineBytes {
			return nil, ErrLineTooLong
		}
		if err := r.fill(timeout); err != nil {
			return nil, err
		}
	}
}

func (r *Reader) extract() ([]byte, bool) {
	i := bytes.IndexByte(r.buf, '\n')
	if i < 0 {
		return nil, false
	}
	line := bytes.TrimSuffix(r.buf[:i], []byte{'\r'})
	rest := make([]byte, len(r.buf)-i-1)
	copy(rest, r.buf[i+1:])
	r.buf = rest
	return line, true
}

func (r *Reader) fill(timeout time.Duration) error {
	if timeout > 0 {
		if err := r.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return fmt.Errorf("%w: set read deadline: %v", protocol.ErrConnection, err)
		}
	}
	chunk := make([]byte, readChunkSize)
	n, err := r.conn.Read(chunk)
	if n > 0 {
		r.buf = append(r.buf, chunk[:n]...)
		// Delivered bytes may complete a line even when err != nil;
		// a persistent error resurfaces on the next fill.
		return nil
	}
	if err == nil {
		return fmt.Errorf("%w: empty read", protocol.ErrConnection)
	}
	var nerr net.Error
	switch {
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: peer closed connection", protocol.ErrConnection)
	case errors.As(err, &nerr) && nerr.Timeout():
		return fmt.Errorf("%w: read timed out after %s", protocol.ErrConnection, timeout)
	default:
		return fmt.Errorf("%w: %v", protocol.ErrConnection, err)
	}
}
