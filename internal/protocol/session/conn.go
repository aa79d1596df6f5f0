package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/danmuck/sbdp/internal/observability"
	"github.com/danmuck/sbdp/internal/protocol"
	"github.com/danmuck/sbdp/internal/protocol/frame"
)

// ErrMalformed marks a frame that arrived whole but did not decode. The
// stream is still aligned on a frame boundary after it.
var ErrMalformed = errors.New("session: malformed message")

// Conn sends and receives framed messages. Send and Recv may be used from
// different goroutines; concurrent Sends are serialized.
type Conn struct {
	nc     net.Conn
	r      *bufio.Reader
	cfg    Config
	log    zerolog.Logger
	wmu    sync.Mutex
	rmu    sync.Mutex
	closed sync.Once
}

func NewConn(nc net.Conn, cfg Config) *Conn {
	return &Conn{
		nc:  nc,
		r:   bufio.NewReader(nc),
		cfg: cfg,
		log: observability.Component(cfg.Node, "session").With().
			Str("remote", nc.RemoteAddr().String()).Logger(),
	}
}

// Send encodes msg and writes it as one frame. Encoding errors are returned
// before anything reaches the wire.
func (c *Conn) Send(ctx context.Context, msg *protocol.Message) error {
	block, err := protocol.Encode(msg)
	if err != nil {
		observability.RecordCodecError(c.cfg.Node, "encode", err)
		return err
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	stop, err := c.deadline(ctx, c.nc.SetWriteDeadline, c.cfg.WriteTimeout)
	if err != nil {
		return err
	}
	defer stop()

	if err := frame.WriteFrame(c.nc, block, c.cfg.Limits); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return pkgerrors.Wrap(err, "session: write frame")
	}
	size := frame.PrefixLen + len(block)
	observability.RecordFrame(c.cfg.Node, observability.DirectionOut, size)
	c.log.Debug().Int("bytes", size).Int("fields", msg.Len()).Msg("session.Send")
	return nil
}

// Recv reads and decodes the next frame. A peer that closes between frames
// yields protocol.ErrEndOfStream.
func (c *Conn) Recv(ctx context.Context) (*protocol.Message, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()
	stop, err := c.deadline(ctx, c.nc.SetReadDeadline, c.cfg.ReadTimeout)
	if err != nil {
		return nil, err
	}
	defer stop()

	block, err := frame.ReadFrame(c.r, c.cfg.Limits)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, protocol.ErrEndOfStream) {
			observability.RecordCodecError(c.cfg.Node, "frame", err)
		}
		return nil, err
	}
	size := frame.PrefixLen + len(block)
	observability.RecordFrame(c.cfg.Node, observability.DirectionIn, size)

	msg, err := protocol.DecodeWithLimits(block, c.cfg.Limits.Codec)
	if err != nil {
		observability.RecordCodecError(c.cfg.Node, "decode", err)
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	c.log.Debug().Int("bytes", size).Int("fields", msg.Len()).Msg("session.Recv")
	return msg, nil
}

// Request sends msg and waits for the next message from the peer.
func (c *Conn) Request(ctx context.Context, msg *protocol.Message) (*protocol.Message, error) {
	if err := c.Send(ctx, msg); err != nil {
		return nil, err
	}
	return c.Recv(ctx)
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.nc.RemoteAddr()
}

func (c *Conn) Close() error {
	var err error
	c.closed.Do(func() {
		err = c.nc.Close()
	})
	return err
}

// deadline applies the earlier of ctx's deadline and now+timeout, and
// forces an immediate deadline if ctx is cancelled mid-operation. A conn
// that is already closed is left for the read or write to report.
func (c *Conn) deadline(ctx context.Context, set func(time.Time) error, timeout time.Duration) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var d time.Time
	if timeout > 0 {
		d = time.Now().Add(timeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (d.IsZero() || ctxDeadline.Before(d)) {
		d = ctxDeadline
	}
	if err := set(d); err != nil {
		if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
			return func() {}, nil
		}
		return nil, err
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		_ = set(time.Now())
	})
	return func() {
		if !stop() {
			<-fired
		}
	}, nil
}
