package schema

import (
	"errors"
	"testing"

	"github.com/danmuck/sbdp/internal/protocol"
	"github.com/danmuck/sbdp/internal/testutil/testlog"
)

var note = Schema{
	Name: "note",
	Fields: []FieldSpec{
		{Name: "uid", Type: protocol.TypeUint64, Required: true},
		{Name: "note", Type: protocol.TypeString},
	},
}

var envelope = Schema{
	Name: "envelope",
	Fields: []FieldSpec{
		{Name: "payload", Type: protocol.TypeBinary, Required: true, Nested: &note},
	},
}

func TestValidateNestedSchema(t *testing.T) {
	testlog.Start(t)
	inner, _ := protocol.NewMessage(protocol.Uint64("uid", 9876543210), protocol.String("note", "nested payload"))
	outer := &protocol.Message{}
	if err := outer.SetNested("payload", inner); err != nil {
		t.Fatalf("set nested: %v", err)
	}
	outer.Set(protocol.Int64("extra", 1))

	res, err := Validate(envelope, outer)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	child, ok := res.Nested["payload"]
	if !ok {
		t.Fatalf("expected nested result")
	}
	if uid, _ := child.Message.Uint64("uid"); uid != 9876543210 {
		t.Fatalf("uid mismatch: %d", uid)
	}
	if len(res.Unknown) != 1 || res.Unknown[0] != "extra" {
		t.Fatalf("unexpected unknown fields: %v", res.Unknown)
	}
}

func TestValidateMissingRequiredDeterministic(t *testing.T) {
	testlog.Start(t)
	msg, _ := protocol.NewMessage(protocol.String("note", "no uid"))
	_, err := Validate(note, msg)
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if ve.Field != "uid" || ve.Reason != "missing required field" {
		t.Fatalf("unexpected validation error: %+v", ve)
	}
	if !errors.Is(err, protocol.ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound in chain")
	}
}

func TestValidateTypeMismatch(t *testing.T) {
	testlog.Start(t)
	msg, _ := protocol.NewMessage(protocol.Int64("uid", 1))
	if _, err := Validate(note, msg); !errors.Is(err, protocol.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestValidateCorruptNestedPayload(t *testing.T) {
	testlog.Start(t)
	msg, _ := protocol.NewMessage(protocol.Binary("payload", []byte{0, 0, 0, 9}))
	_, err := Validate(envelope, msg)
	if !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestValidateOptionalNestedAbsent(t *testing.T) {
	testlog.Start(t)
	optional := Schema{
		Name:   "optional",
		Fields: []FieldSpec{{Name: "payload", Type: protocol.TypeBinary, Nested: &note}},
	}
	res, err := Validate(optional, &protocol.Message{})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(res.Nested) != 0 {
		t.Fatalf("expected no nested results")
	}
}

func TestRegistry(t *testing.T) {
	testlog.Start(t)
	s := Schema{Name: "registry.test", Fields: []FieldSpec{{Name: "x", Type: protocol.TypeInt64}}}
	if err := Register(s); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := Register(s); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	got, ok := Get("registry.test")
	if !ok || len(got.Fields) != 1 {
		t.Fatalf("unexpected lookup: %+v ok=%v", got, ok)
	}
	found := false
	for _, name := range Names() {
		if name == "registry.test" {
			found = true
		}
	}
	if !found {
		t.Fatalf("registered schema missing from Names")
	}
}
