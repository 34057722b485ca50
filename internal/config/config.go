// Package config loads service settings from defaults, an optional config
// file, PADBRIDGE_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soar/padbridge/internal/character"
	"github.com/soar/padbridge/internal/gamepad"
	"github.com/soar/padbridge/internal/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "PADBRIDGE"

type Server struct {
	Addr string `mapstructure:"addr"`
}

type Input struct {
	Deadzone     float64       `mapstructure:"deadzone"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	TouchRadius  float64       `mapstructure:"touch_radius"`
	// StartupWait bounds how long to wait for joystick enumeration before
	// falling back to default bindings.
	StartupWait time.Duration `mapstructure:"startup_wait"`
}

type Character struct {
	BaseTurnRate    float64 `mapstructure:"base_turn_rate"`
	BaseLookUpRate  float64 `mapstructure:"base_look_up_rate"`
	CameraMoveScale float64 `mapstructure:"camera_move_scale"`
	WalkSpeed       float64 `mapstructure:"walk_speed"`
	FrameRate       int     `mapstructure:"frame_rate"`
}

type Haptics struct {
	Enabled bool `mapstructure:"enabled"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	Development bool   `mapstructure:"development"`
}

type Tray struct {
	Disabled bool `mapstructure:"disabled"`
}

type Config struct {
	Server    Server    `mapstructure:"server"`
	Input     Input     `mapstructure:"input"`
	Character Character `mapstructure:"character"`
	Haptics   Haptics   `mapstructure:"haptics"`
	Log       Log       `mapstructure:"log"`
	Tray      Tray      `mapstructure:"tray"`
}

// Logger returns the logger settings.
func (c *Config) Logger() logger.Config {
	return logger.Config{Level: c.Log.Level, Format: c.Log.Format, Development: c.Log.Development}
}

// FrameInterval returns the duration of one host frame.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Character.FrameRate)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("input.deadzone", 0.05)
	v.SetDefault("input.poll_interval", 16*time.Millisecond)
	v.SetDefault("input.touch_radius", gamepad.DefaultTouchRadius)
	v.SetDefault("input.startup_wait", 2*time.Second)
	v.SetDefault("character.base_turn_rate", character.DefaultBaseTurnRate)
	v.SetDefault("character.base_look_up_rate", character.DefaultBaseLookUpRate)
	v.SetDefault("character.camera_move_scale", character.DefaultCameraMoveScale)
	v.SetDefault("character.walk_speed", 600.0)
	v.SetDefault("character.frame_rate", 60)
	v.SetDefault("haptics.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("tray.disabled", false)
}

// Load parses args (without the program name) and returns the merged
// configuration.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("padbridge", pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (yaml, toml or json)")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.Bool("haptics", false, "enable controller rumble")
	fs.Bool("no-tray", false, "do not show the system tray icon")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	for key, flag := range map[string]string{
		"server.addr":     "addr",
		"log.level":       "log-level",
		"haptics.enabled": "haptics",
		"tray.disabled":   "no-tray",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Input.Deadzone < 0 || c.Input.Deadzone >= 1 {
		errs = append(errs, fmt.Errorf("input.deadzone %v out of range [0,1)", c.Input.Deadzone))
	}
	if c.Input.TouchRadius <= 0 {
		errs = append(errs, fmt.Errorf("input.touch_radius %v must be positive", c.Input.TouchRadius))
	}
	if c.Character.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("character.frame_rate %d must be positive", c.Character.FrameRate))
	}
	return errors.Join(errs...)
}
