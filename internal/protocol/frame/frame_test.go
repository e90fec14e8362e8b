package frame

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/owncheck/owncheck/internal/protocol"
)

const testTimeout = 2 * time.Second

func pipeWithPeer(t *testing.T, feed func(peer net.Conn)) *Reader {
	t.Helper()
	local, peer := net.Pipe()
	t.Cleanup(func() {
		_ = local.Close()
		_ = peer.Close()
	})
	go feed(peer)
	return NewReader(local)
}

func TestReadLineSingleWrite(t *testing.T) {
	r := pipeWithPeer(t, func(peer net.Conn) {
		_, _ = peer.Write([]byte("VERSION:2.1:1.0\n"))
	})
	line, err := r.ReadLine(testTimeout)
	if err != nil {
		t.Fatalf("read line: %v", err)
	}
	if string(line) != "VERSION:2.1:1.0" {
		t.Fatalf("unexpected line: %q", string(line))
	}
}

func TestReadLineByteAtATime(t *testing.T) {
	r := pipeWithPeer(t, func(peer net.Conn) {
		for _, b := range []byte("REGISTER_PATH:/home/u\n") {
			_, _ = peer.Write([]byte{b})
		}
	})
	line, err := r.ReadLine(testTimeout)
	if err != nil {
		t.Fatalf("read line: %v", err)
	}
	if string(line) != "REGISTER_PATH:/home/u" {
		t.Fatalf("unexpected line: %q", string(line))
	}
}

func TestReadLineMultipleLinesPerRead(t *testing.T) {
	r := pipeWithPeer(t, func(peer net.Conn) {
		_, _ = peer.Write([]byte("VERSION:2.1:1.0\nREGISTER_PATH:/home/u\nSTATUS:SYNC:/home/u\n"))
	})
	want := []string{"VERSION:2.1:1.0", "REGISTER_PATH:/home/u", "STATUS:SYNC:/home/u"}
	for _, w := range want {
		line, err := r.ReadLine(testTimeout)
		if err != nil {
			t.Fatalf("read line %q: %v", w, err)
		}
		if string(line) != w {
			t.Fatalf("got=%q want=%q", string(line), w)
		}
	}
}

func TestReadLineStripsCarriageReturn(t *testing.T) {
	r := pipeWithPeer(t, func(peer net.Conn) {
		_, _ = peer.Write([]byte("STATUS:SYNC:/home/u\r\n"))
	})
	line, err := r.ReadLine(testTimeout)
	if err != nil {
		t.Fatalf("read line: %v", err)
	}
	if string(line) != "STATUS:SYNC:/home/u" {
		t.Fatalf("unexpected line: %q", string(line))
	}
}

func TestReadLinePeerClosedMidLine(t *testing.T) {
	r := pipeWithPeer(t, func(peer net.Conn) {
		_, _ = peer.Write([]byte("STATUS:SY"))
		_ = peer.Close()
	})
	if _, err := r.ReadLine(testTimeout); !errors.Is(err, protocol.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}

func TestReadLineTimeout(t *testing.T) {
	r := pipeWithPeer(t, func(peer net.Conn) {
		// Peer stays silent.
	})
	start := time.Now()
	_, err := r.ReadLine(50 * time.Millisecond)
	if !errors.Is(err, protocol.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("timeout not bounded per read")
	}
}

func TestReadLineOversized(t *testing.T) {
	r := pipeWithPeer(t, func(peer net.Conn) {
		big := bytes.Repeat([]byte{'x'}, MaxLineBytes+readChunkSize)
		_, _ = peer.Write(big)
	})
	if _, err := r.ReadLine(testTimeout); !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("expected ErrLineTooLong, got %v", err)
	}
}
