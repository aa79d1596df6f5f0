// Package session carries framed sbdp messages over net.Conn.
//
// Ownership boundary:
// - framed send/recv with per-operation deadlines
// - client dial with retry/backoff
// - server accept loop and per-connection request/reply handling
//
// The codec in package protocol never does I/O; everything that can block
// lives here.
package session
