package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int           `envconfig:"PORT" default:"3000"`
	TimeZone string        `split_words:"true" default:"Asia/Tokyo"`
	Timeout  time.Duration `split_words:"true" default:"5s"`
	Secret   string        `split_words:"true" required:"true"`
}

// Not parallel: these tests mutate process environment and package state.

func TestNewReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_SECRET=from-file\nCFGTEST_TIME_ZONE=UTC\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("CFGTEST_SECRET")
		os.Unsetenv("CFGTEST_TIME_ZONE")
		SetEnvFile("")
	})

	SetEnvFile(path)
	conf, err := New[testConfig]("CFGTEST")
	require.NoError(t, err)

	assert.Equal(t, "from-file", conf.Secret)
	assert.Equal(t, "UTC", conf.TimeZone)
	assert.Equal(t, 3000, conf.Port)
	assert.Equal(t, 5*time.Second, conf.Timeout)
}

func TestNewPrefersProcessEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGPROC_SECRET=from-file\n"), 0o600))
	t.Setenv("CFGPROC_SECRET", "from-env")
	t.Setenv("PORT", "8080")
	t.Cleanup(func() { SetEnvFile("") })

	SetEnvFile(path)
	conf, err := New[testConfig]("CFGPROC")
	require.NoError(t, err)

	assert.Equal(t, "from-env", conf.Secret)
	assert.Equal(t, 8080, conf.Port)
}

func TestNewMissingRequired(t *testing.T) {
	t.Cleanup(func() { SetEnvFile("") })
	SetEnvFile("")

	_, err := New[testConfig]("CFGMISSING")
	assert.Error(t, err)
}

func TestNewExplicitFileMustExist(t *testing.T) {
	t.Cleanup(func() { SetEnvFile("") })
	SetEnvFile(filepath.Join(t.TempDir(), "absent.env"))

	_, err := New[testConfig]("CFGABSENT")
	assert.ErrorContains(t, err, "failed to load env file")
}
