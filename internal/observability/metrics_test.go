package observability

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danmuck/sbdp/internal/protocol"
	"github.com/danmuck/sbdp/internal/protocol/frame"
	"github.com/danmuck/sbdp/internal/testutil/testlog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordFrame("node-a", DirectionIn, 12)
	RecordFrame("node-a", DirectionIn, 8)
	if got := testutil.ToFloat64(frameBytes.WithLabelValues("node-a", DirectionIn)); got != 20 {
		t.Fatalf("unexpected byte count: %v", got)
	}
	if got := testutil.ToFloat64(framesTotal.WithLabelValues("node-a", DirectionIn)); got != 2 {
		t.Fatalf("unexpected frame count: %v", got)
	}

	SessionOpened("node-a")
	SessionClosed("node-a")
	if got := testutil.ToFloat64(activeSessions.WithLabelValues("node-a")); got != 0 {
		t.Fatalf("unexpected active sessions: %v", got)
	}
}

func TestErrorKind(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{protocol.ErrEndOfStream, "end_of_stream"},
		{frame.ErrFrameTooLarge, "range"},
		{&protocol.FieldError{Err: protocol.ErrTruncated}, "truncated"},
		{fmt.Errorf("x: %w", protocol.ErrUnknownType), "unknown_type"},
		{fmt.Errorf("boom"), "other"},
	}
	for _, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Fatalf("ErrorKind(%v) = %q want %q", tc.err, got, tc.want)
		}
	}
	RecordCodecError("node-a", "decode", protocol.ErrEncoding)
	if got := testutil.ToFloat64(codecErrors.WithLabelValues("node-a", "decode", "encoding")); got != 1 {
		t.Fatalf("unexpected codec error count: %v", got)
	}
}
