package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the status-page service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Clients  ClientsConfig  `yaml:"clients"`
	Routing  RoutingConfig  `yaml:"routing"`
	Identity IdentityConfig `yaml:"identity"`
	Logging  LoggingConfig  `yaml:"logging"`
	Cache    CacheConfig    `yaml:"cache"`
}

// ServerConfig controls HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// ClientsConfig groups integrations with external collaborators.
type ClientsConfig struct {
	Backend BackendClientConfig `yaml:"backend"`
}

// BackendClientConfig configures access to the monitoring backend's
// status-page APIs.
type BackendClientConfig struct {
	BaseURL          string        `yaml:"baseURL"`
	AuthCheckPath    string        `yaml:"authCheckPath"`
	PagePath         string        `yaml:"pagePath"`
	DomainLookupPath string        `yaml:"domainLookupPath"`
	Timeout          time.Duration `yaml:"timeout"`
}

// RoutingConfig controls custom-domain handling and the page directory.
type RoutingConfig struct {
	CanonicalHosts []string `yaml:"canonicalHosts"`
	DirectoryURL   string   `yaml:"directoryURL"`
}

// IdentityConfig points at the hosted identity provider.
type IdentityConfig struct {
	SignInURL     string `yaml:"signInURL"`
	SignUpURL     string `yaml:"signUpURL"`
	SessionCookie string `yaml:"sessionCookie"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// CacheConfig controls caching of the lightweight backend probes.
// Provider is "none", "memory", or "redis".
type CacheConfig struct {
	Provider        string        `yaml:"provider"`
	Addr            string        `yaml:"addr"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	DB              int           `yaml:"db"`
	DialTimeout     time.Duration `yaml:"dialTimeout"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	MaxRetries      int           `yaml:"maxRetries"`
	TLS             bool          `yaml:"tls"`
	AuthCheckTTL    time.Duration `yaml:"authCheckTTL"`
	DomainLookupTTL time.Duration `yaml:"domainLookupTTL"`
}

// Load initialises Config from a YAML file and optional environment
// overrides. A .env file in the working directory is folded into the
// environment first, for local development.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("STATUSPAGE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Clients: ClientsConfig{
			Backend: BackendClientConfig{
				BaseURL:          "http://localhost:8000",
				AuthCheckPath:    "/api/status-pages/auth-check",
				PagePath:         "/api/status-pages/public",
				DomainLookupPath: "/api/status-pages/domain-lookup",
				Timeout:          5 * time.Second,
			},
		},
		Routing: RoutingConfig{
			CanonicalHosts: []string{"status.warrn.io"},
			DirectoryURL:   "https://warrn.io/status-pages",
		},
		Identity: IdentityConfig{
			SignInURL:     "https://accounts.warrn.io/sign-in",
			SignUpURL:     "https://accounts.warrn.io/sign-up",
			SessionCookie: "__session",
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Cache: CacheConfig{
			Provider:        "none",
			DialTimeout:     2 * time.Second,
			ReadTimeout:     500 * time.Millisecond,
			WriteTimeout:    500 * time.Millisecond,
			MaxRetries:      2,
			AuthCheckTTL:    time.Minute,
			DomainLookupTTL: 5 * time.Minute,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STATUSPAGE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("STATUSPAGE_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("STATUSPAGE_BACKEND_BASE_URL"); v != "" {
		cfg.Clients.Backend.BaseURL = v
	}
	if v := os.Getenv("STATUSPAGE_BACKEND_AUTH_CHECK_PATH"); v != "" {
		cfg.Clients.Backend.AuthCheckPath = v
	}
	if v := os.Getenv("STATUSPAGE_BACKEND_PAGE_PATH"); v != "" {
		cfg.Clients.Backend.PagePath = v
	}
	if v := os.Getenv("STATUSPAGE_BACKEND_DOMAIN_LOOKUP_PATH"); v != "" {
		cfg.Clients.Backend.DomainLookupPath = v
	}
	if v := os.Getenv("STATUSPAGE_BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Clients.Backend.Timeout = d
		}
	}
	if v := os.Getenv("STATUSPAGE_CANONICAL_HOSTS"); v != "" {
		hosts := strings.Split(v, ",")
		cfg.Routing.CanonicalHosts = cfg.Routing.CanonicalHosts[:0]
		for _, host := range hosts {
			if host = strings.TrimSpace(host); host != "" {
				cfg.Routing.CanonicalHosts = append(cfg.Routing.CanonicalHosts, host)
			}
		}
	}
	if v := os.Getenv("STATUSPAGE_DIRECTORY_URL"); v != "" {
		cfg.Routing.DirectoryURL = v
	}
	if v := os.Getenv("STATUSPAGE_SIGN_IN_URL"); v != "" {
		cfg.Identity.SignInURL = v
	}
	if v := os.Getenv("STATUSPAGE_SIGN_UP_URL"); v != "" {
		cfg.Identity.SignUpURL = v
	}
	if v := os.Getenv("STATUSPAGE_SESSION_COOKIE"); v != "" {
		cfg.Identity.SessionCookie = v
	}
	if v := os.Getenv("STATUSPAGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("STATUSPAGE_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("STATUSPAGE_CACHE_PROVIDER"); v != "" {
		cfg.Cache.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("STATUSPAGE_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("STATUSPAGE_CACHE_USERNAME"); v != "" {
		cfg.Cache.Username = v
	}
	if v := os.Getenv("STATUSPAGE_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("STATUSPAGE_CACHE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
	if v := os.Getenv("STATUSPAGE_CACHE_TLS"); strings.EqualFold(v, "true") || v == "1" {
		cfg.Cache.TLS = true
	}
	if v := os.Getenv("STATUSPAGE_CACHE_AUTH_CHECK_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.AuthCheckTTL = d
		}
	}
	if v := os.Getenv("STATUSPAGE_CACHE_DOMAIN_LOOKUP_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.DomainLookupTTL = d
		}
	}
}
