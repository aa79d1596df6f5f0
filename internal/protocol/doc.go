// Package protocol owns the sbdp wire contract: typed scalar encoding and
// ordered, named field messages.
//
// Ownership boundary:
// - scalar encode/decode for the five closed types
// - message encode/decode (no message-level length; see frame)
// - field constructors and typed accessors
//
// Per-field wire layout, in message order:
//
//	[4-byte BE name length][UTF-8 name][1-byte type tag][payload]
//
// Payloads: int64 and uint64 are 8 bytes big-endian, float is 4 bytes
// IEEE-754 big-endian, string and binary are a 4-byte BE length followed by
// the bytes. A binary payload may hold another encoded message; decoding it
// is always the caller's choice (see Message.Nested).
package protocol
