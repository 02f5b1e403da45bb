package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Google struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		RedirectURL  string `yaml:"redirect_url"`
	} `yaml:"google"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Limits struct {
		RateLimitRPS            float64 `yaml:"rate_limit_rps"`
		RateLimitBurst          int     `yaml:"rate_limit_burst"`
		FreebusyCacheTTLSeconds int     `yaml:"freebusy_cache_ttl_seconds"`
	} `yaml:"limits"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/slotwire.db"
	}
	if cfg.Limits.RateLimitRPS <= 0 {
		cfg.Limits.RateLimitRPS = 10
	}
	if cfg.Limits.RateLimitBurst <= 0 {
		cfg.Limits.RateLimitBurst = 20
	}

	return &cfg, nil
}

// FreebusyCacheTTL returns the freebusy cache lifetime; zero disables the
// cache.
func (c *Config) FreebusyCacheTTL() time.Duration {
	if c.Limits.FreebusyCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Limits.FreebusyCacheTTLSeconds) * time.Second
}
