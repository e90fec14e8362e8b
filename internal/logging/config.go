package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "OWNCHECK_LOG_LEVEL"
	EnvLogTimestamp = "OWNCHECK_LOG_TIMESTAMP"
	EnvLogNoColor   = "OWNCHECK_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config collects the logger settings resolved from profile defaults,
// environment overrides, and the --debug flag.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Out       io.Writer
}

var (
	configureOnce sync.Once
	configured    zerolog.Logger
)

// ConfigureRuntime builds the process logger for a probe run. Without
// --debug, log output goes to stderr so stdout carries only the
// verdict line the scheduler parses; with --debug, trace lines join
// the verdict on stdout, which is part of the CLI contract.
func ConfigureRuntime(debug bool) zerolog.Logger {
	return Configure(ProfileRuntime, debug)
}

// ConfigureTests builds a verbose logger for test runs.
func ConfigureTests() zerolog.Logger {
	return Configure(ProfileTest, false)
}

func Configure(profile Profile, debug bool) zerolog.Logger {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		if debug {
			cfg.Level = zerolog.DebugLevel
			cfg.Out = os.Stdout
		}
		applyEnvOverrides(&cfg)

		out := zerolog.ConsoleWriter{
			Out:        cfg.Out,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.NoColor,
		}
		ctx := zerolog.New(out).Level(cfg.Level).With().Str("app", "owncheck")
		if cfg.Timestamp {
			ctx = ctx.Timestamp()
		}
		configured = ctx.Logger()
		log.Logger = configured
	})
	return configured
}

func defaultConfig(profile Profile) Config {
	cfg := Config{Out: os.Stderr}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
		cfg.NoColor = true
	default:
		cfg.Level = zerolog.WarnLevel
		cfg.Timestamp = true
	}
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
