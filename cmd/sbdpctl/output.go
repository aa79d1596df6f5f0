package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/danmuck/sbdp/internal/protocol"
)

const maxHexPreview = 32

func renderMessage(w io.Writer, title string, msg *protocol.Message) {
	fmt.Fprintf(w, "%s (%d fields)\n", title, msg.Len())
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Type", "Value"})
	for _, f := range msg.Fields() {
		table.Append([]string{f.Name, f.Type.String(), formatValue(f)})
	}
	table.Render()
}

func formatValue(f protocol.Field) string {
	switch v := f.Value.(type) {
	case string:
		return strconv.Quote(v)
	case []byte:
		if len(v) > maxHexPreview {
			return fmt.Sprintf("%s… (%d bytes)", hex.EncodeToString(v[:maxHexPreview]), len(v))
		}
		return hex.EncodeToString(v)
	default:
		return fmt.Sprint(v)
	}
}
