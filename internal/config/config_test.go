package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "https://frosty-wood-6558.getsandbox.com:443/dishes", cfg.Submit.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Submit.Timeout)
	assert.Equal(t, time.Second, cfg.Submit.ResetDelay)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Log.Calls)
	assert.Equal(t, "127.0.0.1:8080", cfg.Sandbox.Addr)
	assert.Zero(t, cfg.Sandbox.FailStatus)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DISHFORM_SUBMIT_ENDPOINT", "http://localhost:9000/dishes")
	t.Setenv("DISHFORM_SUBMIT_RESET_DELAY", "250ms")
	t.Setenv("DISHFORM_LOG_LEVEL", "debug")
	t.Setenv("DISHFORM_SANDBOX_FAIL_STATUS", "503")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/dishes", cfg.Submit.Endpoint)
	assert.Equal(t, 250*time.Millisecond, cfg.Submit.ResetDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 503, cfg.Sandbox.FailStatus)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("DISHFORM_SUBMIT_ENDPOINT", "http://env.example/dishes")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("endpoint", "", "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--endpoint", "http://flag.example/dishes"}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example/dishes", cfg.Submit.Endpoint)
	assert.Equal(t, "info", cfg.Log.Level, "unset flag keeps the configured value")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"endpoint not a url", "DISHFORM_SUBMIT_ENDPOINT", "not a url"},
		{"unknown log level", "DISHFORM_LOG_LEVEL", "loud"},
		{"fail status out of range", "DISHFORM_SANDBOX_FAIL_STATUS", "200"},
		{"zero reset delay", "DISHFORM_SUBMIT_RESET_DELAY", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(nil)
			assert.Error(t, err)
		})
	}
}
