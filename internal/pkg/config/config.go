package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Log       LogConfig       `mapstructure:"log"`
	Editor    EditorConfig    `mapstructure:"editor"`
	Map       MapConfig       `mapstructure:"map"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EditorConfig controls editing sessions. Durations are in seconds except
// InvalidateDelayMS.
type EditorConfig struct {
	SessionTTL        int `mapstructure:"session_ttl"`
	CacheTTL          int `mapstructure:"cache_ttl"`
	InvalidateDelayMS int `mapstructure:"invalidate_delay_ms"`
	LocalCacheItems   int `mapstructure:"local_cache_items"`
}

type MapConfig struct {
	CenterLat           float64 `mapstructure:"center_lat"`
	CenterLon           float64 `mapstructure:"center_lon"`
	Zoom                int     `mapstructure:"zoom"`
	TileURL             string  `mapstructure:"tile_url"`
	HighContrastTileURL string  `mapstructure:"high_contrast_tile_url"`
	MarkerIconURL       string  `mapstructure:"marker_icon_url"`
	MarkerShadowURL     string  `mapstructure:"marker_shadow_url"`
	MarkerRetinaURL     string  `mapstructure:"marker_retina_url"`
	ViewportPadMeters   float64 `mapstructure:"viewport_pad_meters"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "hearinggeo")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "hearinggeo")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "geometry-normalization")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("editor.session_ttl", 3600)
	v.SetDefault("editor.cache_ttl", 300)
	v.SetDefault("editor.invalidate_delay_ms", 250)
	v.SetDefault("editor.local_cache_items", 10000)
	v.SetDefault("map.center_lat", 60.192059)
	v.SetDefault("map.center_lon", 24.945831)
	v.SetDefault("map.zoom", 11)
	v.SetDefault("map.tile_url", "https://tiles.hel.ninja/styles/hel-osm-bright/{z}/{x}/{y}.png")
	v.SetDefault("map.high_contrast_tile_url", "https://tiles.hel.ninja/styles/hel-osm-high-contrast/{z}/{x}/{y}.png")
	v.SetDefault("map.marker_icon_url", "/assets/images/marker-icon.png")
	v.SetDefault("map.marker_shadow_url", "/assets/images/marker-shadow.png")
	v.SetDefault("map.marker_retina_url", "/assets/images/marker-icon-2x.png")
	v.SetDefault("map.viewport_pad_meters", 500)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: HEARINGGEO_DATABASE_HOST → database.host
	v.SetEnvPrefix("HEARINGGEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	if c.Editor.SessionTTL <= 0 {
		errs = append(errs, "editor.session_ttl must be positive")
	}
	if c.Editor.CacheTTL < 0 {
		errs = append(errs, "editor.cache_ttl must not be negative")
	}
	if c.Map.TileURL == "" {
		errs = append(errs, "map.tile_url is required")
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 20 {
		errs = append(errs, fmt.Sprintf("map.zoom must be 0-20, got %d", c.Map.Zoom))
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 || c.Map.CenterLon < -180 || c.Map.CenterLon > 180 {
		errs = append(errs, "map center is out of range")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
