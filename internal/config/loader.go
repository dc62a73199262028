// Package config resolves the run configuration from flags, STRESS_*
// environment variables and an optional config file, in that order of
// precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/msaeedsaeedi/stress/internal/domain"
)

const envPrefix = "STRESS"

const (
	keyRepetitions = "repetitions"
	keyExitOnError = "exit-on-error"
	keyFormat      = "format"
	keyEncoding    = "encoding"
	keyLogLevel    = "log-level"
	keyConfig      = "config"
)

// RegisterFlags declares the harness flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.IntP(keyRepetitions, "r", 0, "Number of executions (runs forever if not specified)")
	fs.BoolP(keyExitOnError, "e", false, "Exit on first error")
	fs.String(keyFormat, string(domain.FormatPlain), "Output format (plain|tui|json|yaml)")
	fs.String(keyEncoding, domain.DefaultEncoding, "Encoding of the command's output (IANA name, e.g. windows-1252)")
	fs.String(keyLogLevel, string(domain.LogLevelError), "Diagnostic log level on stderr (debug|info|warn|error)")
	fs.String(keyConfig, "", "Optional config file (yaml, json, toml)")
}

type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// Load builds a RunConfig for command from the parsed flag set. Problems with
// the supplied values are returned as *domain.UsageError.
func (Loader) Load(fs *pflag.FlagSet, command []string) (*domain.RunConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &domain.UsageError{Err: fmt.Errorf("read config %s: %w", path, err)}
		}
	}

	exitOnError, err := cast.ToBoolE(v.Get(keyExitOnError))
	if err != nil {
		return nil, &domain.UsageError{Err: fmt.Errorf("invalid %s: %w", keyExitOnError, err)}
	}

	cfg := &domain.RunConfig{
		Command:     command,
		ExitOnError: exitOnError,
		Format:      domain.OutputFormat(strings.ToLower(v.GetString(keyFormat))),
		Encoding:    v.GetString(keyEncoding),
		LogLevel:    domain.LogLevel(strings.ToLower(v.GetString(keyLogLevel))),
	}

	// Unset means unbounded; a flag default does not count as set.
	if v.IsSet(keyRepetitions) {
		n, err := cast.ToIntE(v.Get(keyRepetitions))
		if err != nil {
			return nil, &domain.UsageError{Err: fmt.Errorf("invalid %s: %w", keyRepetitions, err)}
		}
		cfg.Repetitions = &n
	}

	return cfg, nil
}
