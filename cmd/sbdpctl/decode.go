package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danmuck/sbdp/internal/protocol"
	"github.com/danmuck/sbdp/internal/protocol/frame"
)

const (
	flagHex    = "hex"
	flagFramed = "framed"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode an encoded message block and print its fields",
	Long: `Decode a message block from a file or stdin. With --framed the input is a
sequence of length-prefixed frames; otherwise it is one unprefixed block.

Example:
  printf '0000000178010000000000000005' | sbdpctl decode --hex`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		nested, _ := cmd.Flags().GetStringSlice(flagNested)
		framed, _ := cmd.Flags().GetBool(flagFramed)
		return decodeBlocks(cmd.OutOrStdout(), in, framed, nested)
	},
}

func init() {
	decodeCmd.Flags().Bool(flagHex, false, "input is hex text")
	decodeCmd.Flags().Bool(flagFramed, false, "input is length-prefixed frames")
	decodeCmd.Flags().StringSlice(flagNested, nil, "binary fields to decode as nested messages")
	rootCmd.AddCommand(decodeCmd)
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	var raw []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return nil, err
	}
	if isHex, _ := cmd.Flags().GetBool(flagHex); isHex {
		return hex.DecodeString(string(bytes.Join(bytes.Fields(raw), nil)))
	}
	return raw, nil
}

func decodeBlocks(w io.Writer, in []byte, framed bool, nested []string) error {
	if !framed {
		msg, err := protocol.Decode(in)
		if err != nil {
			return err
		}
		return renderWithNested(w, "message", msg, nested)
	}

	r := bytes.NewReader(in)
	for i := 0; ; i++ {
		msg, _, err := frame.ReadMessage(r, frame.DefaultLimits())
		if errors.Is(err, protocol.ErrEndOfStream) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := renderWithNested(w, fmt.Sprintf("frame %d", i), msg, nested); err != nil {
			return err
		}
	}
}

func renderWithNested(w io.Writer, title string, msg *protocol.Message, nested []string) error {
	renderMessage(w, title, msg)
	for _, name := range nested {
		child, err := msg.Nested(name)
		if errors.Is(err, protocol.ErrFieldNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		renderMessage(w, title+" / "+name, child)
	}
	return nil
}
