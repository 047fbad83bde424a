package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// ErrConfigTypeRequired is returned by NewViperFromBytes for an empty type.
var ErrConfigTypeRequired = errors.New("config: type is required")

// Viper implements Config on top of spf13/viper. Lookup order is
// environment, then file, then Defaults.
type Viper struct {
	v *viper.Viper
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, alias := range EnvBindings {
		//nolint:errcheck // only fails on an empty key
		v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), alias)
	}
	return v
}

// NewViper reads the file at path, typed by its extension, and reloads it
// when it changes on disk. A missing file leaves defaults and environment
// in effect.
func NewViper(path string) (*Viper, error) {
	v := newViper()
	v.SetConfigFile(path)

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist), errors.As(err, &notFound):
		slog.Warn("config file not found, using defaults and environment", "path", path)
		return &Viper{v: v}, nil
	default:
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			slog.Error("config reload failed", "path", e.Name, "error", err)
			return
		}
		slog.Info("config reloaded", "path", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes reads configuration of configType ("yaml", "json", ...) from data.
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigTypeRequired
	}

	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return &Viper{v: v}, nil
}

func (c *Viper) GetBool(key string) bool       { return c.v.GetBool(key) }
func (c *Viper) GetString(key string) string   { return c.v.GetString(key) }
func (c *Viper) GetInt(key string) int         { return c.v.GetInt(key) }
func (c *Viper) GetUint(key string) uint       { return c.v.GetUint(key) }
func (c *Viper) GetFloat64(key string) float64 { return c.v.GetFloat64(key) }

func (c *Viper) GetSecond(key string) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * time.Second
}

func (c *Viper) GetMillisecond(key string) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * time.Millisecond
}

// GetArray accepts a YAML list or a comma separated string. Items are
// trimmed and blanks dropped.
func (c *Viper) GetArray(key string) []string {
	var items []string
	switch raw := c.v.Get(key).(type) {
	case []any:
		items = lo.FilterMap(raw, func(item any, _ int) (string, bool) {
			s, ok := item.(string)
			return s, ok
		})
	case []string:
		items = raw
	default:
		items = strings.Split(c.v.GetString(key), ",")
	}

	return lo.Compact(lo.Map(items, func(s string, _ int) string { return strings.TrimSpace(s) }))
}

// Close is a no-op. The file watcher lives as long as the process.
func (*Viper) Close() error { return nil }
