// Package schema checks decoded messages against a named field contract and
// decides which binary fields hold nested messages.
package schema

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/sbdp/internal/protocol"
)

// FieldSpec declares one known field. Nested is only meaningful for binary
// fields and marks the payload as an encoded message with its own schema.
type FieldSpec struct {
	Name     string
	Type     protocol.Type
	Required bool
	Nested   *Schema
}

// Schema is the set of known fields for one kind of message.
type Schema struct {
	Name   string
	Fields []FieldSpec
}

type ValidationError struct {
	Schema string
	Field  string
	Reason string
	Err    error
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: %s: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("schema: %s field=%q: %s", e.Schema, e.Field, e.Reason)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// Result is a validated message with its nested messages decoded.
type Result struct {
	Message *protocol.Message
	Nested  map[string]*Result
	Unknown []string
}

// Validate enforces required fields and field types, then decodes and
// validates every present nested field. Unknown fields are reported, not
// rejected.
func Validate(s Schema, msg *protocol.Message) (*Result, error) {
	return ValidateWithLimits(s, msg, protocol.DefaultLimits())
}

func ValidateWithLimits(s Schema, msg *protocol.Message, limits protocol.Limits) (*Result, error) {
	log.Debug().Str("schema", s.Name).Int("fields", msg.Len()).Msg("schema.Validate")
	if msg == nil {
		return nil, ValidationError{Schema: s.Name, Reason: "nil message", Err: protocol.ErrNilMessage}
	}

	known := make(map[string]struct{}, len(s.Fields))
	res := &Result{Message: msg}
	for _, spec := range s.Fields {
		known[spec.Name] = struct{}{}
		f, ok := msg.Get(spec.Name)
		if !ok {
			if spec.Required {
				log.Error().Str("schema", s.Name).Str("field", spec.Name).Msg("schema.Validate missing field")
				return nil, ValidationError{
					Schema: s.Name, Field: spec.Name, Reason: "missing required field", Err: protocol.ErrFieldNotFound,
				}
			}
			continue
		}
		if f.Type != spec.Type {
			log.Error().
				Str("schema", s.Name).
				Str("field", spec.Name).
				Stringer("got", f.Type).
				Stringer("want", spec.Type).
				Msg("schema.Validate type mismatch")
			return nil, ValidationError{
				Schema: s.Name, Field: spec.Name, Reason: "type mismatch", Err: protocol.ErrTypeMismatch,
			}
		}
		if spec.Nested == nil || spec.Type != protocol.TypeBinary {
			continue
		}
		child, err := msg.NestedWithLimits(spec.Name, limits)
		if err != nil {
			return nil, ValidationError{Schema: s.Name, Field: spec.Name, Reason: "invalid nested message", Err: err}
		}
		nested, err := ValidateWithLimits(*spec.Nested, child, limits)
		if err != nil {
			return nil, ValidationError{Schema: s.Name, Field: spec.Name, Reason: "nested: " + err.Error(), Err: err}
		}
		if res.Nested == nil {
			res.Nested = make(map[string]*Result)
		}
		res.Nested[spec.Name] = nested
	}

	for _, name := range msg.Names() {
		if _, ok := known[name]; !ok {
			res.Unknown = append(res.Unknown, name)
		}
	}
	log.Debug().Str("schema", s.Name).Int("unknown", len(res.Unknown)).Msg("schema.Validate ok")
	return res, nil
}
