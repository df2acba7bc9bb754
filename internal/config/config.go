// Package config layers the YAML config file, a .env file, EXAMLOG_*
// environment variables and command-line flags into one Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "EXAMLOG_"

// Config is the resolved runtime configuration.
type Config struct {
	Storage  Storage  `koanf:"storage"`
	Server   Server   `koanf:"server"`
	Log      Log      `koanf:"log"`
	Snapshot Snapshot `koanf:"snapshot"`
}

type Storage struct {
	Path string `koanf:"path" validate:"required"`
}

type Server struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// Snapshot configures the git-backed CSV history. A zero Every disables
// the schedule; snapshots can still be taken by hand.
type Snapshot struct {
	Dir    string        `koanf:"dir" validate:"required"`
	Every  time.Duration `koanf:"every"`
	Author string        `koanf:"author" validate:"required"`
	Email  string        `koanf:"email" validate:"required"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"db":              "storage.path",
	"addr":            "server.addr",
	"log-level":       "log.level",
	"snapshot-dir":    "snapshot.dir",
	"snapshot-every":  "snapshot.every",
	"snapshot-author": "snapshot.author",
	"snapshot-email":  "snapshot.email",
}

// Flags registers the flags Load understands.
func Flags(flags *pflag.FlagSet) {
	flags.String("config", "examlog.yaml", "Path to the YAML config file")
	flags.String("db", "question_data.db", "Path to the SQLite database file")
	flags.String("addr", "127.0.0.1:8080", "Address the web UI listens on")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("snapshot-dir", "snapshots", "Git repository directory for CSV snapshots")
	flags.String("snapshot-every", "0", "Interval between automatic snapshots while serving, e.g. 24h; 0 disables")
	flags.String("snapshot-author", "examlog", "Commit author name for snapshots")
	flags.String("snapshot-email", "examlog@localhost", "Commit author email for snapshots")
}

// Load resolves the configuration for a parsed flag set. Later sources win:
// config file, .env, environment, then flags that were set explicitly.
// Flag defaults fill whatever is still missing.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path, _ := flags.GetString("config")
	if _, err := os.Stat(path); err == nil || flags.Changed("config") {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	err = k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, f.Value.String()
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Logger builds the text logger for the configured level.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
