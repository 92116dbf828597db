package config

import "fmt"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Logging  LoggingConfig   `mapstructure:"logging"`
	Products []ProductConfig `mapstructure:"products"`
	Search   SearchConfig    `mapstructure:"search"`
	Timing   TimingConfig    `mapstructure:"timing"`
	Security SecurityConfig  `mapstructure:"security"`
	Storage  StorageConfig   `mapstructure:"storage"`
}

// ServerConfig holds HTTP server settings for the demo surface
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ProductConfig describes one catalog entry. The catalog is reference data:
// loaded once, never mutated at runtime.
type ProductConfig struct {
	ID            int     `mapstructure:"id"`
	Name          string  `mapstructure:"name"`
	Price         int     `mapstructure:"price"`
	OriginalPrice int     `mapstructure:"original_price"`
	Description   string  `mapstructure:"description"`
	Category      string  `mapstructure:"category"`
	Stock         int     `mapstructure:"stock"`
	Rating        float64 `mapstructure:"rating"`
	ReviewCount   int     `mapstructure:"review_count"`
}

// SearchConfig holds the search box settings
type SearchConfig struct {
	Suggestions []string `mapstructure:"suggestions"`
}

// TimingConfig holds the delays driving scheduled callbacks. The search and
// auth delays stand in for backend latency; in tests they are driven by a
// fake clock.
type TimingConfig struct {
	SearchDelayMs           int `mapstructure:"search_delay_ms"`
	AuthDelayMs             int `mapstructure:"auth_delay_ms"`
	RedirectFocusDelayMs    int `mapstructure:"redirect_focus_delay_ms"`
	ValidationFocusDelayMs  int `mapstructure:"validation_focus_delay_ms"`
	GreetingDelayMs         int `mapstructure:"greeting_delay_ms"`
	NotificationDurationMs  int `mapstructure:"notification_duration_ms"`
	SearchInputFocusDelayMs int `mapstructure:"search_input_focus_delay_ms"`
}

// SecurityConfig holds security-related settings for the demo server.
// Credentials come from environment variables, not the config file.
type SecurityConfig struct {
	BasicAuth   BasicAuthConfig   `mapstructure:"basic_auth"`
	IPAllowlist IPAllowlistConfig `mapstructure:"ip_allowlist"`
}

// BasicAuthConfig controls HTTP Basic Authentication. The password is read
// from BASIC_AUTH_PASSWORD, or BASIC_AUTH_PASSWORD_HASH for a bcrypt hash.
type BasicAuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// IPAllowlistConfig controls IP-based access restrictions
type IPAllowlistConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	CIDRs   []string `mapstructure:"cidrs"`
}

// StorageConfig selects where preferences persist. An empty path means
// in-memory only.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultConfig returns the default configuration, including the demo
// catalog.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 3000,
			Host: "0.0.0.0",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Products: []ProductConfig{
			{
				ID:            1,
				Name:          "iPhone 15 Pro 256GB",
				Price:         1350000,
				OriginalPrice: 1550000,
				Description:   "6.1인치 Super Retina XDR 디스플레이, A17 Pro 칩, Pro 카메라 시스템",
				Category:      "smartphone",
				Stock:         15,
				Rating:        4.6,
				ReviewCount:   342,
			},
			{
				ID:            2,
				Name:          "MacBook Pro M3 14인치",
				Price:         2800000,
				OriginalPrice: 3200000,
				Description:   "14인치 Liquid Retina XDR 디스플레이, M3 Pro 칩, 18GB 통합 메모리",
				Category:      "laptop",
				Stock:         0,
				Rating:        4.8,
				ReviewCount:   156,
			},
			{
				ID:          3,
				Name:        "iPad Pro 12.9 M2",
				Price:       1199000,
				Description: "12.9인치 Liquid Retina XDR 디스플레이, M2 칩, 256GB 저장공간",
				Category:    "tablet",
				Stock:       7,
				Rating:      4.7,
				ReviewCount: 298,
			},
		},
		Search: SearchConfig{
			Suggestions: []string{
				"iPhone 15 Pro",
				"MacBook Pro M3",
				"iPad Pro",
				"AirPods Pro",
				"Apple Watch",
				"무선 충전기",
				"케이스",
				"보호필름",
			},
		},
		Timing: TimingConfig{
			SearchDelayMs:           1000,
			AuthDelayMs:             1000,
			RedirectFocusDelayMs:    1000,
			ValidationFocusDelayMs:  500,
			GreetingDelayMs:         1500,
			NotificationDurationMs:  5000,
			SearchInputFocusDelayMs: 100,
		},
		Security: SecurityConfig{
			BasicAuth: BasicAuthConfig{
				Enabled: false,
			},
			IPAllowlist: IPAllowlistConfig{
				Enabled: false,
				CIDRs: []string{
					// IPv4 private ranges
					"127.0.0.0/8",
					"10.0.0.0/8",
					"172.16.0.0/12",
					"192.168.0.0/16",
					// IPv6 private ranges
					"::1/128",
					"fc00::/7",
					"fe80::/10",
				},
			},
		},
	}
}

// Validate checks that the configuration is internally consistent
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if len(c.Products) == 0 {
		return fmt.Errorf("at least one product is required")
	}
	seen := make(map[int]bool)
	for _, p := range c.Products {
		if p.ID <= 0 {
			return fmt.Errorf("product %q: id must be positive", p.Name)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate product id %d", p.ID)
		}
		seen[p.ID] = true
		if p.Name == "" {
			return fmt.Errorf("product %d: name is required", p.ID)
		}
		if p.Stock < 0 {
			return fmt.Errorf("product %d: stock must not be negative", p.ID)
		}
	}
	if c.Timing.SearchDelayMs < 0 || c.Timing.AuthDelayMs < 0 || c.Timing.NotificationDurationMs < 0 {
		return fmt.Errorf("timing delays must not be negative")
	}
	return nil
}
