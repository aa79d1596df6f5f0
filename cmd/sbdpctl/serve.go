package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/danmuck/sbdp/internal/observability"
	"github.com/danmuck/sbdp/internal/protocol"
	"github.com/danmuck/sbdp/internal/protocol/schema"
	"github.com/danmuck/sbdp/internal/protocol/session"
)

const (
	flagNested = "nested"
	flagSchema      = "schema"
	flagMetricsAddr = "metrics-addr"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept sessions, log each message and reply with status OK",
	Long: `Accept sessions and log every message received. Binary fields named with
--nested are decoded as nested messages. Each message is answered with
{"status": "OK"}. With --schema, messages that fail validation against the
named schema are answered with {"status": "ERROR", "error": ...}. With
--metrics-addr, Prometheus metrics are served at /metrics on that address.

Example:
  sbdpctl serve --addr 127.0.0.1:50007 --nested payload --schema envelope`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		nested, _ := cmd.Flags().GetStringSlice(flagNested)
		var contract *schema.Schema
		if name, _ := cmd.Flags().GetString(flagSchema); name != "" {
			s, ok := schema.Get(name)
			if !ok {
				return fmt.Errorf("unknown schema %q (known: %v)", name, schema.Names())
			}
			contract = &s
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := session.NewServer(cfg.Session, statusHandler(nested, contract))
		g, gctx := errgroup.WithContext(ctx)
		if metricsAddr, _ := cmd.Flags().GetString(flagMetricsAddr); metricsAddr != "" {
			ln, err := net.Listen("tcp", metricsAddr)
			if err != nil {
				return err
			}
			g.Go(func() error {
				return observability.ServeMetrics(gctx, ln, cfg.Session.Node)
			})
		}
		g.Go(func() error {
			return srv.ListenAndServe(gctx, cfg.Addr)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringSlice(flagNested, []string{"payload"}, "binary fields to decode as nested messages")
	serveCmd.Flags().String(flagSchema, "", "validate incoming messages against this registered schema")
	serveCmd.Flags().String(flagMetricsAddr, "", "serve Prometheus metrics on this address (disabled when empty)")
	rootCmd.AddCommand(serveCmd)
}

func statusHandler(nested []string, contract *schema.Schema) session.Handler {
	return session.HandlerFunc(func(ctx context.Context, msg *protocol.Message) (*protocol.Message, error) {
		logMessage("serve: received", msg)
		if contract != nil {
			if _, err := schema.Validate(*contract, msg); err != nil {
				log.Warn().Str("schema", contract.Name).Err(err).Msg("serve: rejected message")
				return protocol.NewMessage(protocol.String("status", statusError), protocol.String("error", err.Error()))
			}
		}
		for _, name := range nested {
			child, err := msg.Nested(name)
			switch {
			case err == nil:
				logMessage("serve: nested "+name, child)
			case errors.Is(err, protocol.ErrFieldNotFound):
			default:
				log.Warn().Str("field", name).Err(err).Msg("serve: nested decode failed")
			}
		}
		return protocol.NewMessage(protocol.String("status", statusOK))
	})
}

func logMessage(what string, msg *protocol.Message) {
	event := log.Info().Int("fields", msg.Len())
	for _, f := range msg.Fields() {
		event = event.Str(f.Name, f.Type.String()+":"+formatValue(f))
	}
	event.Msg(what)
}
