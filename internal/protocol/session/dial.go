package session

import (
	"context"
	"math/rand"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Dial connects to addr, retrying with cfg.Backoff until the attempt budget
// or ctx runs out. MaxConnectAttempts <= 0 retries until ctx is done.
func Dial(ctx context.Context, addr string, cfg Config) (*Conn, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	for attempt := 1; ; attempt++ {
		nc, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			log.Debug().Str("addr", addr).Int("attempt", attempt).Msg("session.Dial connected")
			return NewConn(nc, cfg), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if cfg.MaxConnectAttempts > 0 && attempt >= cfg.MaxConnectAttempts {
			return nil, errors.Wrapf(err, "session: dial %s after %d attempts", addr, attempt)
		}
		log.Warn().Str("addr", addr).Int("attempt", attempt).Err(err).Msg("session.Dial retry")
		if err := cfg.Backoff.sleep(ctx, attempt, rng); err != nil {
			return nil, err
		}
	}
}
