package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msaeedsaeedi/stress/internal/config"
	"github.com/msaeedsaeedi/stress/internal/domain"
)

func parse(t *testing.T, args ...string) (*pflag.FlagSet, []string) {
	t.Helper()
	fs := pflag.NewFlagSet("stress", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs, fs.Args()
}

func TestLoadDefaults(t *testing.T) {
	fs, command := parse(t, "./flaky", "--seed", "1")

	cfg, err := config.NewLoader().Load(fs, command)
	require.NoError(t, err)

	assert.Equal(t, []string{"./flaky", "--seed", "1"}, cfg.Command)
	assert.Nil(t, cfg.Repetitions, "repetitions default to unbounded")
	assert.False(t, cfg.ExitOnError)
	assert.Equal(t, domain.FormatPlain, cfg.Format)
	assert.Equal(t, domain.DefaultEncoding, cfg.Encoding)
	assert.Equal(t, domain.LogLevelError, cfg.LogLevel)
}

func TestLoadFlags(t *testing.T) {
	fs, command := parse(t, "-r", "5", "-e", "--format", "JSON", "--", "make", "test")

	cfg, err := config.NewLoader().Load(fs, command)
	require.NoError(t, err)

	require.NotNil(t, cfg.Repetitions)
	assert.Equal(t, 5, *cfg.Repetitions)
	assert.True(t, cfg.ExitOnError)
	assert.Equal(t, domain.FormatJSON, cfg.Format)
	assert.Equal(t, []string{"make", "test"}, cfg.Command)
}

func TestLoadExplicitZeroRepetitions(t *testing.T) {
	fs, command := parse(t, "--repetitions=0", "true")

	cfg, err := config.NewLoader().Load(fs, command)
	require.NoError(t, err)

	require.NotNil(t, cfg.Repetitions)
	assert.Equal(t, 0, *cfg.Repetitions)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("STRESS_REPETITIONS", "7")
	t.Setenv("STRESS_EXIT_ON_ERROR", "true")
	t.Setenv("STRESS_LOG_LEVEL", "debug")

	fs, command := parse(t, "true")
	cfg, err := config.NewLoader().Load(fs, command)
	require.NoError(t, err)

	require.NotNil(t, cfg.Repetitions)
	assert.Equal(t, 7, *cfg.Repetitions)
	assert.True(t, cfg.ExitOnError)
	assert.Equal(t, domain.LogLevelDebug, cfg.LogLevel)
}

func TestLoadFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("STRESS_REPETITIONS", "7")

	fs, command := parse(t, "-r", "2", "true")
	cfg, err := config.NewLoader().Load(fs, command)
	require.NoError(t, err)

	assert.Equal(t, 2, *cfg.Repetitions)
}

func TestLoadInvalidEnvironmentValue(t *testing.T) {
	t.Setenv("STRESS_REPETITIONS", "many")

	fs, command := parse(t, "true")
	_, err := config.NewLoader().Load(fs, command)

	require.Error(t, err)
	assert.True(t, domain.IsUsageError(err))
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repetitions: 3\nexit-on-error: true\nencoding: windows-1252\n"), 0o600))

	fs, command := parse(t, "--config", path, "true")
	cfg, err := config.NewLoader().Load(fs, command)
	require.NoError(t, err)

	require.NotNil(t, cfg.Repetitions)
	assert.Equal(t, 3, *cfg.Repetitions)
	assert.True(t, cfg.ExitOnError)
	assert.Equal(t, "windows-1252", cfg.Encoding)
}

func TestLoadMissingConfigFile(t *testing.T) {
	fs, command := parse(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "true")

	_, err := config.NewLoader().Load(fs, command)
	require.Error(t, err)
	assert.True(t, domain.IsUsageError(err))
}
