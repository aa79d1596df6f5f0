package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/danmuck/sbdp/internal/protocol/session"
)

const DefaultPath = "~/.sbdp/config.toml"

// Config is the resolved sbdpctl runtime configuration.
type Config struct {
	Addr     string
	LogLevel string
	Session  session.Config
}

// config.toml key mapping; durations are Go duration strings.
type fileConfig struct {
	Addr               string      `toml:"addr"`
	Node               string      `toml:"node"`
	LogLevel           string      `toml:"log_level"`
	ConnectTimeout     string      `toml:"connect_timeout"`
	ReadTimeout        string      `toml:"read_timeout"`
	WriteTimeout       string      `toml:"write_timeout"`
	MaxConnectAttempts int         `toml:"max_connect_attempts"`
	MaxFrameBytes      uint32      `toml:"max_frame_bytes"`
	MaxValueBytes      uint32      `toml:"max_value_bytes"`
	MaxFields          int         `toml:"max_fields"`
	Backoff            backoffFile `toml:"backoff"`
}

type backoffFile struct {
	InitialDelay string  `toml:"initial_delay"`
	Multiplier   float64 `toml:"multiplier"`
	MaxDelay     string  `toml:"max_delay"`
	Jitter       bool    `toml:"jitter"`
}

func Default() Config {
	return Config{
		Addr:     "127.0.0.1:50007",
		LogLevel: "info",
		Session:  session.DefaultConfig(),
	}
}

// Load overlays the keys defined in the TOML file at path on Default().
func Load(path string) (Config, error) {
	cfg := Default()
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: expand %s", path)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(expanded, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", expanded, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", expanded, undecoded[0].String())
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("node") {
		cfg.Session.Node = strings.TrimSpace(raw.Node)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"connect_timeout", raw.ConnectTimeout, &cfg.Session.ConnectTimeout},
		{"read_timeout", raw.ReadTimeout, &cfg.Session.ReadTimeout},
		{"write_timeout", raw.WriteTimeout, &cfg.Session.WriteTimeout},
		{"backoff.initial_delay", raw.Backoff.InitialDelay, &cfg.Session.Backoff.InitialDelay},
		{"backoff.max_delay", raw.Backoff.MaxDelay, &cfg.Session.Backoff.MaxDelay},
	}
	for _, d := range durations {
		if !meta.IsDefined(strings.Split(d.key, ".")...) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return Config{}, errors.Wrapf(err, "config: %s", d.key)
		}
		*d.dst = v
	}
	if meta.IsDefined("max_connect_attempts") {
		cfg.Session.MaxConnectAttempts = raw.MaxConnectAttempts
	}
	if meta.IsDefined("max_frame_bytes") {
		cfg.Session.Limits.MaxFrameBytes = raw.MaxFrameBytes
	}
	if meta.IsDefined("max_value_bytes") {
		cfg.Session.Limits.Codec.MaxValueBytes = raw.MaxValueBytes
	}
	if meta.IsDefined("max_fields") {
		cfg.Session.Limits.Codec.MaxFields = raw.MaxFields
	}
	if meta.IsDefined("backoff", "multiplier") {
		cfg.Session.Backoff.Multiplier = raw.Backoff.Multiplier
	}
	if meta.IsDefined("backoff", "jitter") {
		cfg.Session.Backoff.Jitter = raw.Backoff.Jitter
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("config missing addr")
	}
	if strings.TrimSpace(cfg.Session.Node) == "" {
		return fmt.Errorf("config missing node")
	}
	if cfg.Session.ReadTimeout < 0 || cfg.Session.WriteTimeout < 0 || cfg.Session.ConnectTimeout < 0 {
		return fmt.Errorf("config timeouts must not be negative")
	}
	if cfg.Session.Backoff.Multiplier < 1.0 {
		return fmt.Errorf("config backoff.multiplier must be >= 1")
	}
	codec := cfg.Session.Limits.Codec
	if cfg.Session.Limits.MaxFrameBytes > 0 && codec.MaxValueBytes > cfg.Session.Limits.MaxFrameBytes {
		return fmt.Errorf("config max_value_bytes %d exceeds max_frame_bytes %d",
			codec.MaxValueBytes, cfg.Session.Limits.MaxFrameBytes)
	}
	return nil
}

// Encode writes cfg as config.toml. Load(Encode(cfg)) yields cfg.
func Encode(w io.Writer, cfg Config) error {
	s := cfg.Session
	raw := fileConfig{
		Addr:               cfg.Addr,
		Node:               s.Node,
		LogLevel:           cfg.LogLevel,
		ConnectTimeout:     s.ConnectTimeout.String(),
		ReadTimeout:        s.ReadTimeout.String(),
		WriteTimeout:       s.WriteTimeout.String(),
		MaxConnectAttempts: s.MaxConnectAttempts,
		MaxFrameBytes:      s.Limits.MaxFrameBytes,
		MaxValueBytes:      s.Limits.Codec.MaxValueBytes,
		MaxFields:          s.Limits.Codec.MaxFields,
		Backoff: backoffFile{
			InitialDelay: s.Backoff.InitialDelay.String(),
			Multiplier:   s.Backoff.Multiplier,
			MaxDelay:     s.Backoff.MaxDelay.String(),
			Jitter:       s.Backoff.Jitter,
		},
	}
	return toml.NewEncoder(w).Encode(raw)
}
