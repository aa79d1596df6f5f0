package protocol

import (
	"errors"
	"testing"

	"github.com/danmuck/sbdp/internal/testutil/testlog"
)

func TestMessageRejectsDuplicateAdd(t *testing.T) {
	testlog.Start(t)
	if _, err := NewMessage(Int64("a", 1), Int64("a", 2)); !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
}

func TestMessageSetReplacesInPlace(t *testing.T) {
	testlog.Start(t)
	msg, _ := NewMessage(Int64("a", 1), String("b", "x"))
	msg.Set(String("a", "now a string"))
	msg.Set(Uint64("c", 3))

	names := msg.Names()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("unexpected names: %v", names)
	}
	if v, err := msg.String("a"); err != nil || v != "now a string" {
		t.Fatalf("unexpected a: %q err=%v", v, err)
	}
}

func TestMessageDelete(t *testing.T) {
	testlog.Start(t)
	msg, _ := NewMessage(Int64("a", 1), Int64("b", 2), Int64("c", 3))
	if !msg.Delete("b") {
		t.Fatalf("expected delete to succeed")
	}
	if msg.Delete("b") {
		t.Fatalf("second delete should report missing")
	}
	if v, err := msg.Int64("c"); err != nil || v != 3 {
		t.Fatalf("index not rebuilt: v=%d err=%v", v, err)
	}
	if err := msg.Add(Int64("b", 4)); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if names := msg.Names(); names[2] != "b" {
		t.Fatalf("re-added field should be last: %v", names)
	}
}

func TestMessageAccessorErrors(t *testing.T) {
	testlog.Start(t)
	msg, _ := NewMessage(Int64("n", 1))
	if _, err := msg.Uint64("n"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	if _, err := msg.String("missing"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestBinaryFieldsDoNotAlias(t *testing.T) {
	testlog.Start(t)
	src := []byte{1, 2, 3}
	msg, _ := NewMessage(Binary("b", src))
	src[0] = 9
	got, _ := msg.Binary("b")
	if got[0] != 1 {
		t.Fatalf("constructor aliased caller bytes")
	}
	got[1] = 9
	again, _ := msg.Binary("b")
	if again[1] != 2 {
		t.Fatalf("accessor aliased message bytes")
	}
}

func TestNilMessageReads(t *testing.T) {
	testlog.Start(t)
	var msg *Message
	if msg.Len() != 0 || msg.Fields() != nil || msg.Names() != nil {
		t.Fatalf("nil message should read as empty")
	}
	if _, ok := msg.Get("x"); ok {
		t.Fatalf("nil message should have no fields")
	}
}
