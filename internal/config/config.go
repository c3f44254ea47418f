package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rogerwwx/mem-cleaner/internal/monitor"
	"github.com/rogerwwx/mem-cleaner/internal/power"
	"github.com/rogerwwx/mem-cleaner/internal/safety"
)

// Config is the top-level application configuration.
type Config struct {
	Monitoring    MonitoringConfig   `mapstructure:"monitoring"`
	Safety        SafetyConfig       `mapstructure:"safety"`
	Power         PowerConfig        `mapstructure:"power"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`

	v    *viper.Viper
	file string
}

type MonitoringConfig struct {
	UpdateInterval    time.Duration `mapstructure:"update_interval"`
	SuppressInterval  time.Duration `mapstructure:"suppress_interval"`
	PressureThreshold int           `mapstructure:"pressure_threshold"`
	OwnerFloor        uint32        `mapstructure:"owner_floor"`
	Delimiter         string        `mapstructure:"delimiter"`
	AmbiguousCutoff   int           `mapstructure:"ambiguous_cutoff"`
	ProcRoot          string        `mapstructure:"proc_root"`
}

type SafetyConfig struct {
	Mode             string   `mapstructure:"mode"`
	BuiltinWhitelist bool     `mapstructure:"builtin_whitelist"`
	Whitelist        []string `mapstructure:"-"`
}

type PowerConfig struct {
	IdleCheck    bool          `mapstructure:"idle_check"`
	IdleCommand  []string      `mapstructure:"idle_command"`
	IdleValue    string        `mapstructure:"idle_value"`
	IdleCacheTTL time.Duration `mapstructure:"idle_cache_ttl"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type NotificationConfig struct {
	LogFile      string `mapstructure:"log_file"`
	AuditFile    string `mapstructure:"audit_file"`
	CleanupLog   string `mapstructure:"cleanup_log"`
	Verbose      bool   `mapstructure:"verbose"`
	ColorEnabled bool   `mapstructure:"color_enabled"`
}

type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("monitoring.update_interval", "500ms")
	v.SetDefault("monitoring.suppress_interval", "60s")
	v.SetDefault("monitoring.pressure_threshold", 800)
	v.SetDefault("monitoring.owner_floor", 10000)
	v.SetDefault("monitoring.delimiter", monitor.DefaultDelimiter)
	v.SetDefault("monitoring.ambiguous_cutoff", 0)
	v.SetDefault("monitoring.proc_root", monitor.DefaultProcRoot)

	v.SetDefault("safety.mode", "enforce")
	v.SetDefault("safety.builtin_whitelist", true)

	v.SetDefault("power.idle_check", true)
	v.SetDefault("power.idle_command", power.DefaultIdleCommand)
	v.SetDefault("power.idle_value", power.DefaultIdleValue)
	v.SetDefault("power.idle_cache_ttl", "30s")
	v.SetDefault("power.idle_timeout", "5s")

	v.SetDefault("notifications.log_file", "")
	v.SetDefault("notifications.audit_file", "")
	v.SetDefault("notifications.cleanup_log", "")
	v.SetDefault("notifications.verbose", false)
	v.SetDefault("notifications.color_enabled", true)

	v.SetDefault("metrics.listen_addr", "")
}

// Load reads configuration from file, environment, and defaults. Files
// ending in .conf or .txt use the legacy "key: value" format.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("MEMCLEANER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case configPath != "" && isLegacy(configPath):
		v.SetConfigFile(configPath)
		if err := loadLegacy(v, configPath); err != nil {
			return nil, err
		}
	case configPath != "":
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	default:
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".mem-cleaner"))
		}
		v.AddConfigPath("/data/adb/mem-cleaner")
		v.AddConfigPath("/etc/mem-cleaner")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
			// Config file not found is OK; we use defaults
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Older configs carry a top-level interval in seconds.
	if v.IsSet("interval") {
		cfg.Monitoring.SuppressInterval = time.Duration(v.GetInt("interval")) * time.Second
	}
	cfg.Safety.Whitelist = append(stringList(v.Get("safety.whitelist")), stringList(v.Get("whitelist"))...)

	cfg.v = v
	cfg.file = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	m := c.Monitoring
	if m.UpdateInterval <= 0 {
		return fmt.Errorf("monitoring.update_interval must be positive, got %s", m.UpdateInterval)
	}
	if m.SuppressInterval <= 0 {
		return fmt.Errorf("monitoring.suppress_interval must be positive, got %s", m.SuppressInterval)
	}
	if m.PressureThreshold < -1000 || m.PressureThreshold > 1000 {
		return fmt.Errorf("monitoring.pressure_threshold must be within [-1000, 1000], got %d", m.PressureThreshold)
	}
	if m.Delimiter == "" {
		return errors.New("monitoring.delimiter must not be empty")
	}
	if m.AmbiguousCutoff < 0 {
		return fmt.Errorf("monitoring.ambiguous_cutoff must not be negative, got %d", m.AmbiguousCutoff)
	}
	if _, err := safety.ParseMode(c.Safety.Mode); err != nil {
		return fmt.Errorf("safety.mode: %w", err)
	}
	if c.Power.IdleCheck && len(c.Power.IdleCommand) == 0 {
		return errors.New("power.idle_command must not be empty when power.idle_check is set")
	}
	return nil
}

// File returns the configuration file in use, or "" when running on
// defaults.
func (c *Config) File() string {
	return c.file
}

// Mode returns the enforcement mode. Validate has already rejected unknown
// values.
func (c *Config) Mode() safety.Mode {
	mode, _ := safety.ParseMode(c.Safety.Mode)
	return mode
}

// Whitelist builds the whitelist snapshot for this configuration.
func (c *Config) Whitelist() *safety.Whitelist {
	var entries []string
	if c.Safety.BuiltinWhitelist {
		entries = append(entries, safety.BuiltinWhitelist...)
	}
	entries = append(entries, c.Safety.Whitelist...)
	return safety.NewWhitelist(safety.ParseRules(entries...))
}

// Policy returns the classification policy.
func (c *Config) Policy() monitor.Policy {
	return monitor.Policy{
		OwnerFloor:      c.Monitoring.OwnerFloor,
		Delimiter:       c.Monitoring.Delimiter,
		AmbiguousCutoff: c.Monitoring.AmbiguousCutoff,
	}
}

func stringList(val interface{}) []string {
	switch t := val.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}

// Global holds the current loaded configuration.
var Global *Config
