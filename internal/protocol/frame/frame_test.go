package frame

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/danmuck/sbdp/internal/protocol"
	"github.com/danmuck/sbdp/internal/testutil/testlog"
)

func TestReadWriteFrameRoundTrip(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	payloads := [][]byte{[]byte("first"), {}, []byte("third")}
	for _, p := range payloads {
		if err := WriteFrame(&buf, p, DefaultLimits()); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}
	for i, want := range payloads {
		got, err := ReadFrame(&buf, DefaultLimits())
		if err != nil {
			t.Fatalf("read frame %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("frame %d mismatch: got=%q want=%q", i, got, want)
		}
	}
	if _, err := ReadFrame(&buf, DefaultLimits()); !errors.Is(err, protocol.ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream after last frame, got %v", err)
	}
}

func TestWriteFramePrefix(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte{0xaa, 0xbb, 0xcc}, DefaultLimits()); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	want := []byte{0, 0, 0, 3, 0xaa, 0xbb, 0xcc}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got=%x want=%x", buf.Bytes(), want)
	}
}

func TestReadFrameShortPrefixIsDeterministic(t *testing.T) {
	testlog.Start(t)
	_, err := ReadFrame(bytes.NewReader([]byte{0, 0}), DefaultLimits())
	if !errors.Is(err, protocol.ErrEndOfStream) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrEndOfStream+ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadFrameShortPayload(t *testing.T) {
	testlog.Start(t)
	_, err := ReadFrame(bytes.NewReader([]byte{0, 0, 0, 5, 1, 2}), DefaultLimits())
	if !errors.Is(err, protocol.ErrEndOfStream) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrEndOfStream+ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadFrameTooLarge(t *testing.T) {
	testlog.Start(t)
	limits := Limits{MaxFrameBytes: 4}
	_, err := ReadFrame(bytes.NewReader([]byte{0, 0, 0, 5, 1, 2, 3, 4, 5}), limits)
	if !errors.Is(err, ErrFrameTooLarge) || !errors.Is(err, protocol.ErrRange) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
	var buf bytes.Buffer
	if err := WriteFrame(&buf, make([]byte, 5), limits); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge on write, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("oversize frame should not be written")
	}
}

func TestReadWriteMessage(t *testing.T) {
	testlog.Start(t)
	msg, _ := protocol.NewMessage(
		protocol.Int64("age", 30),
		protocol.Uint64("uid", 1234567890123456789),
		protocol.Float("price", 9.99),
		protocol.String("name", "Alice"),
	)
	var buf bytes.Buffer
	n, err := WriteMessage(&buf, msg, DefaultLimits())
	if err != nil {
		t.Fatalf("write message: %v", err)
	}
	if n != buf.Len() {
		t.Fatalf("reported size %d, wrote %d", n, buf.Len())
	}
	got, m, err := ReadMessage(&buf, DefaultLimits())
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if m != n {
		t.Fatalf("read size %d, wrote %d", m, n)
	}
	if name, _ := got.String("name"); name != "Alice" {
		t.Fatalf("name mismatch: %q", name)
	}
	if uid, _ := got.Uint64("uid"); uid != 1234567890123456789 {
		t.Fatalf("uid mismatch: %d", uid)
	}
}

func TestReadMessageCorruptBlock(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	block := []byte{0, 0, 0, 1, 'x', 42}
	if err := WriteFrame(&buf, block, DefaultLimits()); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if _, _, err := ReadMessage(&buf, DefaultLimits()); !errors.Is(err, protocol.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}
