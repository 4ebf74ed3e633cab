package config

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EngineConfig holds quote engine tunables. Reloadable at runtime via the
// holder so carrier fan-out and timeouts can be adjusted without a restart.
type EngineConfig struct {
	// MaxConcurrentCarriers bounds the per-request carrier fan-out.
	MaxConcurrentCarriers int `mapstructure:"maxConcurrentCarriers"`
	// QuoteTimeout is the whole-orchestration budget per quote request.
	QuoteTimeout time.Duration `mapstructure:"quoteTimeout"`
	// DefaultTitlePricingMode applies to title rate cards ingested without an
	// explicit pricing_mode: "graduated" or "flat".
	DefaultTitlePricingMode string `mapstructure:"defaultTitlePricingMode"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxConcurrentCarriers:   8,
		QuoteTimeout:            5 * time.Second,
		DefaultTitlePricingMode: "graduated",
	}
}

// EngineConfigHolder exposes the current EngineConfig and hot-reloads it when
// the backing file changes.
type EngineConfigHolder struct {
	current atomic.Value // holds EngineConfig
}

func NewEngineConfigHolder(log *zap.Logger) (*EngineConfigHolder, error) {
	log = log.Named("engine.config")
	v := viper.New()

	v.SetConfigName("engine")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/hermes/config")
	v.AddConfigPath("/etc/hermes")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HERMES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultEngineConfig()
	v.SetDefault("engine.maxConcurrentCarriers", defaults.MaxConcurrentCarriers)
	v.SetDefault("engine.quoteTimeout", defaults.QuoteTimeout)
	v.SetDefault("engine.defaultTitlePricingMode", defaults.DefaultTitlePricingMode)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg EngineConfig
	if err := v.UnmarshalKey("engine", &cfg); err != nil {
		return nil, err
	}
	if err := validateEngineConfig(cfg); err != nil {
		return nil, err
	}

	holder := &EngineConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated EngineConfig
		if err := v.UnmarshalKey("engine", &updated); err != nil {
			log.Warn("engine config reload failed", zap.Error(err))
			return
		}
		if err := validateEngineConfig(updated); err != nil {
			log.Warn("engine config invalid, keeping previous", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("engine config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticEngineConfigHolder wraps a fixed config with no file watching.
func NewStaticEngineConfigHolder(cfg EngineConfig) *EngineConfigHolder {
	holder := &EngineConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *EngineConfigHolder) Get() EngineConfig {
	return h.current.Load().(EngineConfig)
}

func validateEngineConfig(cfg EngineConfig) error {
	if cfg.MaxConcurrentCarriers <= 0 {
		return errors.New("engine.maxConcurrentCarriers must be positive")
	}
	if cfg.QuoteTimeout <= 0 {
		return errors.New("engine.quoteTimeout must be positive")
	}
	switch cfg.DefaultTitlePricingMode {
	case "graduated", "flat":
	default:
		return errors.New("engine.defaultTitlePricingMode must be graduated or flat")
	}
	return nil
}
