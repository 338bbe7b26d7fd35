package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	API     APIConfig
	Payment PaymentConfig
	Chat    ChatConfig
	Session SessionConfig
	Log     LogConfig
}

// APIConfig holds settings for the platform REST API
type APIConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RateLimitRPS   float64 // client-side pacing, 0 disables
	RateLimitBurst int
}

// PaymentConfig holds settings for the payment widget hand-off
type PaymentConfig struct {
	ListenAddr  string // loopback address for gateway return redirects
	OpenBrowser bool   // open the payment URL in the system browser
	Timeout     time.Duration
}

// ChatConfig holds settings for the chat websocket
type ChatConfig struct {
	URL                  string
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
	ReconnectDelayMax    time.Duration
}

// SessionConfig holds settings for local session persistence
type SessionConfig struct {
	TokenFile string // path to the persisted session token
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHOP_ prefix (e.g., SHOP_API_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/storefront")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		API: APIConfig{
			BaseURL:        v.GetString("api.base_url"),
			Timeout:        v.GetDuration("api.timeout"),
			RateLimitRPS:   v.GetFloat64("api.rate_limit_rps"),
			RateLimitBurst: v.GetInt("api.rate_limit_burst"),
		},
		Payment: PaymentConfig{
			ListenAddr:  v.GetString("payment.listen_addr"),
			OpenBrowser: v.GetBool("payment.open_browser"),
			Timeout:     v.GetDuration("payment.timeout"),
		},
		Chat: ChatConfig{
			URL:                  v.GetString("chat.url"),
			MaxReconnectAttempts: v.GetInt("chat.max_reconnect_attempts"),
			ReconnectDelay:       v.GetDuration("chat.reconnect_delay"),
			ReconnectDelayMax:    v.GetDuration("chat.reconnect_delay_max"),
		},
		Session: SessionConfig{
			TokenFile: v.GetString("session.token_file"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:50001/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.rate_limit_rps", 0)
	v.SetDefault("api.rate_limit_burst", 1)

	v.SetDefault("payment.listen_addr", "127.0.0.1:0")
	v.SetDefault("payment.open_browser", true)
	v.SetDefault("payment.timeout", 15*time.Minute)

	v.SetDefault("chat.url", "ws://localhost:50001/chat")
	v.SetDefault("chat.max_reconnect_attempts", 5)
	v.SetDefault("chat.reconnect_delay", time.Second)
	v.SetDefault("chat.reconnect_delay_max", 5*time.Second)

	v.SetDefault("session.token_file", "$HOME/.config/storefront/session.json")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
}

// Validate checks the configuration for obvious mistakes
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if _, err := url.Parse(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Chat.MaxReconnectAttempts < 0 {
		return fmt.Errorf("chat.max_reconnect_attempts cannot be negative")
	}
	return nil
}
