// Package config loads dishform settings from the embedded defaults,
// DISHFORM_* environment variables and command-line flags.
package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	_ "embed"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

//go:embed base.yaml
var baseConfig []byte

// EnvPrefix prefixes every environment override, e.g.
// DISHFORM_SUBMIT_ENDPOINT or DISHFORM_LOG_LEVEL.
const EnvPrefix = "DISHFORM"

type SubmitSettings struct {
	Endpoint   string        `mapstructure:"endpoint" validate:"required,url"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	ResetDelay time.Duration `mapstructure:"reset_delay" validate:"gt=0"`
}

type LogSettings struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
	File   string `mapstructure:"file"`
	// Calls logs one line per submission request.
	Calls bool `mapstructure:"calls"`
}

type SandboxSettings struct {
	Addr       string `mapstructure:"addr" validate:"required,hostname_port"`
	DB         string `mapstructure:"db"`
	FailStatus int    `mapstructure:"fail_status" validate:"omitempty,min=400,max=599"`
	Plain      bool   `mapstructure:"plain"`
}

type Settings struct {
	Submit  SubmitSettings  `mapstructure:"submit" validate:"required"`
	Log     LogSettings     `mapstructure:"log" validate:"required"`
	Sandbox SandboxSettings `mapstructure:"sandbox" validate:"required"`
}

// flagKeys maps command-line flag names onto settings keys.
var flagKeys = map[string]string{
	"endpoint":    "submit.endpoint",
	"timeout":     "submit.timeout",
	"reset-delay": "submit.reset_delay",
	"log-level":   "log.level",
	"log-format":  "log.format",
	"log-file":    "log.file",
	"log-calls":   "log.calls",
	"addr":        "sandbox.addr",
	"db":          "sandbox.db",
	"fail-status": "sandbox.fail_status",
	"plain":       "sandbox.plain",
}

// Load reads the settings. Flags present in flags and explicitly set on
// the command line take precedence over the environment, which takes
// precedence over the embedded defaults. flags may be nil.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(baseConfig)); err != nil {
		return nil, fmt.Errorf("reading base config: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
