package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/aman-churiwal/property-marketplace/internal/circuitbreaker"
	"github.com/aman-churiwal/property-marketplace/internal/ratelimit"
	"github.com/spf13/viper"
)

const EnvPrefix = "MARKETPLACE"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Health    HealthConfig    `mapstructure:"health"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Environment  string        `mapstructure:"environment"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a redis server is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) GetRedisAddr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

type RateLimitConfig struct {
	Backend            string        `mapstructure:"backend"`
	SweepInterval      time.Duration `mapstructure:"sweep_interval"`
	BreakerMaxFailures int           `mapstructure:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `mapstructure:"breaker_open_timeout"`
	Routes             []RouteConfig `mapstructure:"routes"`
}

func (r RateLimitConfig) StoreConfig() ratelimit.StoreConfig {
	return ratelimit.StoreConfig{
		Backend:       r.Backend,
		SweepInterval: r.SweepInterval,
		Breaker: circuitbreaker.Config{
			MaxFailures: r.BreakerMaxFailures,
			OpenTimeout: r.BreakerOpenTimeout,
		},
	}
}

type RouteConfig struct {
	Prefix      string        `mapstructure:"prefix"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// Policies returns the configured route quotas, or the built-in table when none are set.
func (r RateLimitConfig) Policies() []ratelimit.Policy {
	if len(r.Routes) == 0 {
		return ratelimit.DefaultPolicies()
	}

	policies := make([]ratelimit.Policy, 0, len(r.Routes))
	for _, route := range r.Routes {
		policies = append(policies, ratelimit.Policy{
			Prefix:      route.Prefix,
			MaxRequests: route.MaxRequests,
			Window:      route.Window,
		})
	}
	return policies
}

// AuthConfig describes how session tokens from the hosted identity provider are verified.
type AuthConfig struct {
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// HealthConfig controls the background dependency probes behind /health.
type HealthConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxFailures int           `mapstructure:"max_failures"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.backend", ratelimit.BackendMemory)
	v.SetDefault("rate_limit.sweep_interval", ratelimit.DefaultSweepInterval)
	v.SetDefault("rate_limit.breaker_max_failures", 5)
	v.SetDefault("rate_limit.breaker_open_timeout", 30*time.Second)

	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.sweep_interval", time.Minute)

	v.SetDefault("health.interval", 30*time.Second)
	v.SetDefault("health.timeout", 2*time.Second)
	v.SetDefault("health.max_failures", 1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads the optional config file at path and applies MARKETPLACE_* environment
// overrides, e.g. MARKETPLACE_DATABASE_DSN.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.RateLimit.Backend {
	case ratelimit.BackendMemory:
	case ratelimit.BackendRedis:
		if !c.Redis.Enabled() {
			return errors.New("rate_limit.backend redis requires redis.host")
		}
	default:
		return fmt.Errorf("unknown rate_limit.backend %q", c.RateLimit.Backend)
	}

	for _, route := range c.RateLimit.Routes {
		if !strings.HasPrefix(route.Prefix, "/api/") {
			return fmt.Errorf("rate limit prefix %q must be under /api/", route.Prefix)
		}
	}
	if _, err := ratelimit.NewPolicyTable(c.RateLimit.Policies()...); err != nil {
		return err
	}

	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required in production")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
