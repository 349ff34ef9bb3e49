package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"MBGate/pkg/util"
)

const (
	SnapshotBackendNone       = "none"
	SnapshotBackendKafka      = "kafka"
	SnapshotBackendClickHouse = "clickhouse"

	CacheNone    = "none"
	CacheMemory  = "memory"
	CacheRedis   = "redis"
	CacheLayered = "layered"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Log struct {
		Level     string `yaml:"level" default:"info"`
		Format    string `yaml:"format" default:"json"`
		Output    string `yaml:"output" default:"stdout"`
		Collector struct {
			Enabled        bool          `yaml:"enabled"`
			Topic          string        `yaml:"topic" default:"mbgate.logs"`
			Interval       time.Duration `yaml:"interval" default:"30s"`
			CountThreshold int           `yaml:"count_threshold" default:"100"`
		} `yaml:"collector"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool `yaml:"enabled" default:"true"`
	} `yaml:"metrics"`
	MercadoBitcoin struct {
		BaseURL      string        `yaml:"base_url" default:"https://api.mercadobitcoin.net"`
		TapiID       string        `yaml:"tapi_id"`
		TapiSecret   string        `yaml:"tapi_secret"`
		Timeout      time.Duration `yaml:"timeout" default:"30s"`
		MaxBodyBytes int64         `yaml:"max_body_bytes" default:"10485760"`
	} `yaml:"mercadobitcoin"`
	Cache struct {
		Type          string        `yaml:"type" default:"none"`
		TTL           time.Duration `yaml:"ttl" default:"30s"`
		MemoryMaxSize int           `yaml:"memory_max_size" default:"1000"`
		Redis         struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			PoolSize int    `yaml:"pool_size" default:"10"`
			Prefix   string `yaml:"prefix" default:"mbgate"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Snapshots struct {
		Backend string        `yaml:"backend" default:"none"`
		Timeout time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"snapshots"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"mbgate.positions"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"10ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"mbgate"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
}

// Default returns a Config populated only from default tags.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads, parses and validates a YAML configuration file. Missing keys
// take their default tag values.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables
// before validating. A missing file is not an error: defaults plus
// environment are used.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path)
	if errors.Is(err, os.ErrNotExist) {
		c = Default()
	} else if err != nil {
		return nil, err
	}

	if err := c.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return decode(b)
}

func decode(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("TAPI_ID"); v != "" {
		c.MercadoBitcoin.TapiID = v
	}
	if v := getenv("TAPI_SECRET"); v != "" {
		c.MercadoBitcoin.TapiSecret = v
	}
	if v := getenv("MB_BASE_URL"); v != "" {
		c.MercadoBitcoin.BaseURL = v
	}
	if v := getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SERVER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("SNAPSHOT_BACKEND"); v != "" {
		c.Snapshots.Backend = v
	}
	if v := getenv("CACHE_TYPE"); v != "" {
		c.Cache.Type = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = util.SplitCSV(v)
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	return nil
}

// Validate checks if the configuration is valid. Credentials are not
// checked here; the authenticator rejects them at construction.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	u, err := url.Parse(c.MercadoBitcoin.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("mercadobitcoin.base_url must be an absolute http(s) URL, got '%s'", c.MercadoBitcoin.BaseURL)
	}
	switch c.Snapshots.Backend {
	case SnapshotBackendNone, SnapshotBackendKafka, SnapshotBackendClickHouse:
	default:
		return fmt.Errorf("snapshots.backend must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Snapshots.Backend)
	}
	switch c.Cache.Type {
	case CacheNone, CacheMemory, CacheRedis, CacheLayered:
	default:
		return fmt.Errorf("cache.type must be 'none', 'memory', 'redis' or 'layered', got '%s'", c.Cache.Type)
	}
	if c.KafkaRequired() && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is used")
	}
	return nil
}

// KafkaRequired reports whether any component publishes to Kafka.
func (c *Config) KafkaRequired() bool {
	return c.Snapshots.Backend == SnapshotBackendKafka || c.Log.Collector.Enabled
}
