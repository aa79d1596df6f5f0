package session

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/danmuck/sbdp/internal/observability"
	"github.com/danmuck/sbdp/internal/protocol"
)

// Handler answers one decoded message. A nil reply sends nothing; an error
// closes the connection.
type Handler interface {
	HandleMessage(ctx context.Context, msg *protocol.Message) (*protocol.Message, error)
}

type HandlerFunc func(ctx context.Context, msg *protocol.Message) (*protocol.Message, error)

func (f HandlerFunc) HandleMessage(ctx context.Context, msg *protocol.Message) (*protocol.Message, error) {
	return f(ctx, msg)
}

type Server struct {
	cfg     Config
	handler Handler
	log     zerolog.Logger

	connsMu sync.Mutex
	conns   map[*Conn]struct{}
}

func NewServer(cfg Config, handler Handler) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
		log:     observability.Component(cfg.Node, "server"),
		conns:   make(map[*Conn]struct{}),
	}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or ln is closed,
// then closes every open connection and waits for their handlers to return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Msg("server.Serve listening")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		_ = ln.Close()
		s.closeAllConns()
		return nil
	})
	g.Go(func() error {
		defer cancel()
		for {
			nc, err := ln.Accept()
			if err != nil {
				if gctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return nil
				}
				return err
			}
			conn := NewConn(nc, s.cfg)
			s.trackConn(conn)
			g.Go(func() error {
				s.handleConn(gctx, conn)
				return nil
			})
		}
	})
	err := g.Wait()
	s.log.Info().Msg("server.Serve stopped")
	return err
}

func (s *Server) handleConn(ctx context.Context, conn *Conn) {
	defer s.untrackConn(conn)
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	observability.SessionOpened(s.cfg.Node)
	defer observability.SessionClosed(s.cfg.Node)
	s.log.Info().Str("remote", remote).Msg("server.session connected")
	defer s.log.Info().Str("remote", remote).Msg("server.session disconnected")

	for {
		msg, err := conn.Recv(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrMalformed):
			s.log.Warn().Str("remote", remote).Err(err).Msg("server.session dropped malformed message")
			continue
		case errors.Is(err, protocol.ErrEndOfStream), ctx.Err() != nil:
			return
		default:
			s.log.Warn().Str("remote", remote).Err(err).Msg("server.session recv failed")
			return
		}

		reply, err := s.handler.HandleMessage(ctx, msg)
		if err != nil {
			s.log.Error().Str("remote", remote).Err(err).Msg("server.session handler failed")
			return
		}
		if reply == nil {
			continue
		}
		if err := conn.Send(ctx, reply); err != nil {
			s.log.Warn().Str("remote", remote).Err(err).Msg("server.session send failed")
			return
		}
	}
}

func (s *Server) trackConn(conn *Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrackConn(conn *Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) closeAllConns() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
}
