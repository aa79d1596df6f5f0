package main

import (
	"github.com/danmuck/sbdp/internal/protocol"
	"github.com/danmuck/sbdp/internal/protocol/schema"
)

const (
	statusOK    = "OK"
	statusError = "ERROR"
)

// Built-in contracts for the demo exchange: a client wraps a note in an
// envelope's payload field and the server answers with a status.
var (
	noteSchema = schema.Schema{
		Name: "note",
		Fields: []schema.FieldSpec{
			{Name: "uid", Type: protocol.TypeUint64, Required: true},
			{Name: "note", Type: protocol.TypeString},
		},
	}
	envelopeSchema = schema.Schema{
		Name: "envelope",
		Fields: []schema.FieldSpec{
			{Name: "payload", Type: protocol.TypeBinary, Required: true, Nested: &noteSchema},
		},
	}
	statusSchema = schema.Schema{
		Name: "status",
		Fields: []schema.FieldSpec{
			{Name: "status", Type: protocol.TypeString, Required: true},
			{Name: "error", Type: protocol.TypeString},
		},
	}
)

func init() {
	schema.MustRegister(noteSchema)
	schema.MustRegister(envelopeSchema)
	schema.MustRegister(statusSchema)
}
