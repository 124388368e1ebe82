package internal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/novabind/internal/bind"
	"github.com/tuannm99/novabind/internal/bufferpool"
)

type NovaBindConfig struct {
	AppName string `mapstructure:"app_name"`

	Bind struct {
		MaxWorkers   int `mapstructure:"max_workers"`
		VarSlotHint  int `mapstructure:"var_slot_hint"`
		VarSlotMax   int `mapstructure:"var_slot_max"`
		PoolCapacity int `mapstructure:"pool_capacity"`
	} `mapstructure:"bind"`

	Spool struct {
		Compression string `mapstructure:"compression"`
	} `mapstructure:"spool"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// NewViper returns a viper instance carrying the defaults and reading
// NOVABIND_* environment variables, e.g. NOVABIND_BIND_MAX_WORKERS.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("app_name", "novabind")
	v.SetDefault("bind.max_workers", 0)
	v.SetDefault("bind.var_slot_hint", bind.DefaultVarSlotHint)
	v.SetDefault("bind.var_slot_max", bind.DefaultVarSlotMax)
	v.SetDefault("bind.pool_capacity", bufferpool.DefaultCapacity)
	v.SetDefault("spool.compression", "zstd")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("NOVABIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads path into v. An empty path uses defaults and environment
// only.
func LoadConfig(v *viper.Viper, path string) (*NovaBindConfig, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg NovaBindConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// BindOptions turns the bind section into options for every column.
func (c *NovaBindConfig) BindOptions(alloc bind.Allocator) []bind.Option {
	return []bind.Option{
		bind.WithAllocator(alloc),
		bind.WithVarSlotHint(c.Bind.VarSlotHint),
		bind.WithVarSlotMax(c.Bind.VarSlotMax),
	}
}

// LogLevel parses log.level, falling back to info.
func (c *NovaBindConfig) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
