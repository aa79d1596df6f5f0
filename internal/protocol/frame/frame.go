// Package frame delimits encoded messages on a byte stream with a 4-byte
// big-endian length prefix.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/danmuck/sbdp/internal/protocol"
)

const PrefixLen = 4

// ErrFrameTooLarge matches protocol.ErrRange.
var ErrFrameTooLarge = fmt.Errorf("frame: payload too large: %w", protocol.ErrRange)

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxFrameBytes uint32
	Codec         protocol.Limits
}

func DefaultLimits() Limits {
	return Limits{
		MaxFrameBytes: 8 * 1024 * 1024,
		Codec:         protocol.DefaultLimits(),
	}
}

// ReadFrame reads one length-prefixed block. A stream that closes cleanly
// before the prefix yields protocol.ErrEndOfStream; one that closes inside a
// frame yields protocol.ErrEndOfStream wrapping io.ErrUnexpectedEOF.
func ReadFrame(r io.Reader, limits Limits) ([]byte, error) {
	var prefix [PrefixLen]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, endOfStream(err)
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if limits.MaxFrameBytes > 0 && n > limits.MaxFrameBytes {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, n, limits.MaxFrameBytes)
	}

	payload := make([]byte, n)
	if n == 0 {
		return payload, nil
	}
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, endOfStream(err)
	}
	return payload, nil
}

// WriteFrame writes the prefix and payload with a single Write call.
func WriteFrame(w io.Writer, payload []byte, limits Limits) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d exceeds 32-bit prefix", ErrFrameTooLarge, len(payload))
	}
	if limits.MaxFrameBytes > 0 && uint64(len(payload)) > uint64(limits.MaxFrameBytes) {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(payload), limits.MaxFrameBytes)
	}
	buf := make([]byte, PrefixLen+len(payload))
	binary.BigEndian.PutUint32(buf[:PrefixLen], uint32(len(payload)))
	copy(buf[PrefixLen:], payload)
	_, err := w.Write(buf)
	return err
}

// WriteMessage encodes msg and writes it as one frame. It returns the frame
// size on the wire.
func WriteMessage(w io.Writer, msg *protocol.Message, limits Limits) (int, error) {
	block, err := protocol.Encode(msg)
	if err != nil {
		return 0, err
	}
	if err := WriteFrame(w, block, limits); err != nil {
		return 0, err
	}
	return PrefixLen + len(block), nil
}

// ReadMessage reads one frame and decodes it. It returns the frame size on
// the wire alongside the message.
func ReadMessage(r io.Reader, limits Limits) (*protocol.Message, int, error) {
	block, err := ReadFrame(r, limits)
	if err != nil {
		return nil, 0, err
	}
	msg, err := protocol.DecodeWithLimits(block, limits.Codec)
	if err != nil {
		return nil, PrefixLen + len(block), err
	}
	return msg, PrefixLen + len(block), nil
}

func endOfStream(err error) error {
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %w", protocol.ErrEndOfStream, io.ErrUnexpectedEOF)
	case errors.Is(err, io.EOF):
		return protocol.ErrEndOfStream
	default:
		return err
	}
}
