package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/owncheck/owncheck/internal/session"
)

const (
	defaultOKStates       = "SYNC,OK"
	defaultWarningStates  = "NEW"
	defaultErrorStates    = "NONE,IGNORE,ERROR,+SWM,NOP"
	defaultMinimumVersion = "1.8"
	defaultTimeoutSeconds = 10
)

var (
	errNoUsers    = errors.New("config: at least one username is required")
	errBadTimeout = errors.New("config: timeout must be a positive number of seconds")
)

// Options is the fully resolved probe configuration: built-in
// defaults, overlaid by the optional TOML defaults file, overlaid by
// explicitly set CLI flags.
type Options struct {
	Users          []string
	OKStates       string
	WarningStates  string
	ErrorStates    string
	MinimumVersion string
	Timeout        time.Duration
	SocketTemplate string
	Debug          bool
	ShowVersion    bool
}

// fileConfig maps the optional --config defaults file.
type fileConfig struct {
	OKStates       []string `toml:"ok_states"`
	WarningStates  []string `toml:"warning_states"`
	ErrorStates    []string `toml:"error_states"`
	MinimumVersion string   `toml:"minimum_version"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	SocketTemplate string   `toml:"socket_template"`
	Debug          bool     `toml:"debug"`
}

func parseArgs(args []string, stderr io.Writer) (Options, error) {
	opts := Options{}
	fs := flag.NewFlagSet("owncheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath string
		timeoutSec int
	)
	fs.StringVar(&opts.OKStates, "ok", defaultOKStates, "comma-separated status names treated as OK")
	fs.StringVar(&opts.WarningStates, "warning", defaultWarningStates, "comma-separated status names treated as WARNING")
	fs.StringVar(&opts.ErrorStates, "error", defaultErrorStates, "comma-separated status names treated as ERROR")
	fs.StringVar(&opts.MinimumVersion, "minimum-version", defaultMinimumVersion, "oldest client version accepted without warning")
	fs.IntVar(&timeoutSec, "timeout", defaultTimeoutSeconds, "per-operation socket timeout in seconds")
	fs.StringVar(&opts.SocketTemplate, "socket", session.DefaultSocketTemplate, "client socket path template; %s takes the username")
	fs.StringVar(&configPath, "config", "", "optional TOML file with default overrides")
	fs.BoolVar(&opts.Debug, "debug", false, "trace connection, send/receive, and dispatch events")
	fs.BoolVar(&opts.ShowVersion, "version", false, "print the probe version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: owncheck [flags] <username> [username...]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	if configPath != "" {
		explicit := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		if err := applyFileConfig(configPath, explicit, &opts, &timeoutSec); err != nil {
			return Options{}, err
		}
	}
	if timeoutSec <= 0 {
		return Options{}, fmt.Errorf("%w: got %d", errBadTimeout, timeoutSec)
	}
	opts.Timeout = time.Duration(timeoutSec) * time.Second
	opts.Users = fs.Args()
	if opts.ShowVersion {
		return opts, nil
	}
	if len(opts.Users) == 0 {
		return Options{}, errNoUsers
	}
	return opts, nil
}

// applyFileConfig overlays file values over the defaults, but only for
// keys the file actually defines and flags the user did not set.
func applyFileConfig(path string, explicit map[string]bool, opts *Options, timeoutSec *int) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	if meta.IsDefined("ok_states") && !explicit["ok"] {
		opts.OKStates = strings.Join(raw.OKStates, ",")
	}
	if meta.IsDefined("warning_states") && !explicit["warning"] {
		opts.WarningStates = strings.Join(raw.WarningStates, ",")
	}
	if meta.IsDefined("error_states") && !explicit["error"] {
		opts.ErrorStates = strings.Join(raw.ErrorStates, ",")
	}
	if meta.IsDefined("minimum_version") && !explicit["minimum-version"] {
		opts.MinimumVersion = strings.TrimSpace(raw.MinimumVersion)
	}
	if meta.IsDefined("timeout_seconds") && !explicit["timeout"] {
		*timeoutSec = raw.TimeoutSeconds
	}
	if meta.IsDefined("socket_template") && !explicit["socket"] {
		opts.SocketTemplate = strings.TrimSpace(raw.SocketTemplate)
	}
	if meta.IsDefined("debug") && !explicit["debug"] {
		opts.Debug = raw.Debug
	}
	return nil
}
