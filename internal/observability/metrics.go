package observability

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danmuck/sbdp/internal/protocol"
)

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

var (
	registerOnce sync.Once

	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sbdp",
			Subsystem: "session",
			Name:      "frames_total",
			Help:      "Frames moved over sessions.",
		},
		[]string{"node", "direction"},
	)
	frameBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sbdp",
			Subsystem: "session",
			Name:      "frame_bytes_total",
			Help:      "Bytes moved over sessions, including length prefixes.",
		},
		[]string{"node", "direction"},
	)
	codecErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sbdp",
			Subsystem: "codec",
			Name:      "errors_total",
			Help:      "Encode/decode failures by kind.",
		},
		[]string{"node", "op", "kind"},
	)
	activeSessions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sbdp",
			Subsystem: "session",
			Name:      "active",
			Help:      "Open sessions.",
		},
		[]string{"node"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(framesTotal, frameBytes, codecErrors, activeSessions)
	})
}

func RecordFrame(node, direction string, size int) {
	RegisterMetrics()
	framesTotal.WithLabelValues(node, direction).Inc()
	frameBytes.WithLabelValues(node, direction).Add(float64(size))
}

func RecordCodecError(node, op string, err error) {
	RegisterMetrics()
	codecErrors.WithLabelValues(node, op, ErrorKind(err)).Inc()
}

func SessionOpened(node string) {
	RegisterMetrics()
	activeSessions.WithLabelValues(node).Inc()
}

func SessionClosed(node string) {
	RegisterMetrics()
	activeSessions.WithLabelValues(node).Dec()
}

// ErrorKind maps an error chain to a low-cardinality metric label.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, protocol.ErrEndOfStream):
		return "end_of_stream"
	case errors.Is(err, protocol.ErrTruncated):
		return "truncated"
	case errors.Is(err, protocol.ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, protocol.ErrEncoding):
		return "encoding"
	case errors.Is(err, protocol.ErrRange):
		return "range"
	case errors.Is(err, protocol.ErrTypeMismatch):
		return "type_mismatch"
	default:
		return "other"
	}
}
