package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/sbdp/internal/protocol"
)

// parseFieldArg parses name:type=value. Binary values are hex.
func parseFieldArg(arg string) (protocol.Field, error) {
	head, value, ok := strings.Cut(arg, "=")
	if !ok {
		return protocol.Field{}, fmt.Errorf("field %q: expected name:type=value", arg)
	}
	name, typeName, ok := strings.Cut(head, ":")
	if !ok || name == "" {
		return protocol.Field{}, fmt.Errorf("field %q: expected name:type=value", arg)
	}
	t, err := protocol.ParseType(typeName)
	if err != nil {
		return protocol.Field{}, fmt.Errorf("field %q: %w", name, err)
	}

	switch t {
	case protocol.TypeInt64:
		n, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			return protocol.Field{}, numberError(name, err)
		}
		return protocol.Int64(name, n), nil
	case protocol.TypeUint64:
		if strings.HasPrefix(strings.TrimSpace(value), "-") {
			return protocol.Field{}, fmt.Errorf("field %q: %w: negative uint64 %s", name, protocol.ErrRange, value)
		}
		n, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return protocol.Field{}, numberError(name, err)
		}
		return protocol.Uint64(name, n), nil
	case protocol.TypeFloat:
		f, err := strconv.ParseFloat(value, 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return protocol.Field{}, numberError(name, err)
		}
		return protocol.Float(name, float32(f)), nil
	case protocol.TypeString:
		return protocol.String(name, value), nil
	default:
		b, err := hex.DecodeString(value)
		if err != nil {
			return protocol.Field{}, fmt.Errorf("field %q: binary value must be hex: %w", name, err)
		}
		return protocol.Binary(name, b), nil
	}
}

func parseFieldArgs(args []string) (*protocol.Message, error) {
	msg := &protocol.Message{}
	for _, arg := range args {
		f, err := parseFieldArg(arg)
		if err != nil {
			return nil, err
		}
		if err := msg.Add(f); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func numberError(name string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("field %q: %w: %v", name, protocol.ErrRange, err)
	}
	return fmt.Errorf("field %q: %w", name, err)
}
