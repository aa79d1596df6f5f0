package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/sbdp/internal/protocol"
	"github.com/danmuck/sbdp/internal/protocol/schema"
	"github.com/danmuck/sbdp/internal/protocol/session"
)

const flagWrap = "wrap"

var sendCmd = &cobra.Command{
	Use:   "send name:type=value...",
	Short: "Send one message and print the reply",
	Long: `Build a message from name:type=value arguments, send it, and print the
reply. Types are int64, uint64, float, string and binary (hex). With --wrap
the message is nested as a binary field of an otherwise empty message.

Example:
  sbdpctl send uid:uint64=9876543210 "note:string=nested payload" --wrap payload`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		msg, err := parseFieldArgs(args)
		if err != nil {
			return err
		}
		if wrap, _ := cmd.Flags().GetString(flagWrap); wrap != "" {
			outer := &protocol.Message{}
			if err := outer.SetNested(wrap, msg); err != nil {
				return err
			}
			msg = outer
		}

		conn, err := session.Dial(cmd.Context(), cfg.Addr, cfg.Session)
		if err != nil {
			return err
		}
		defer conn.Close()

		reply, err := conn.Request(cmd.Context(), msg)
		if err != nil {
			return err
		}
		renderMessage(cmd.OutOrStdout(), "reply", reply)
		return checkStatus(reply)
	},
}

func init() {
	sendCmd.Flags().String(flagWrap, "", "nest the message under this binary field name")
	rootCmd.AddCommand(sendCmd)
}

// checkStatus turns an ERROR status reply into a command error.
func checkStatus(reply *protocol.Message) error {
	if _, err := schema.Validate(statusSchema, reply); err != nil {
		return err
	}
	status, _ := reply.String("status")
	if status == statusOK {
		return nil
	}
	reason, _ := reply.String("error")
	return fmt.Errorf("server replied %s: %s", status, reason)
}
