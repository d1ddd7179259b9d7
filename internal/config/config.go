package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissing = errors.New("missing required env")

type Config struct {
	APIURL      string
	HTTPTimeout time.Duration

	SessionDriver string
	SessionPath   string
	SessionDSN    string
	RedisAddr     string

	OrderSink    string
	KafkaBrokers []string
	OrderTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	LogLevel string
	PageSize int

	// EnvFileErr is why .env was not loaded, nil when it was.
	EnvFileErr error
}

// Load reads .env (if present) and the process environment. A missing .env
// is not an error; it is reported through EnvFileErr for the caller to log.
func Load() Config {
	envErr := godotenv.Load(".env")

	return Config{
		APIURL:      strings.TrimRight(os.Getenv("STOREFRONT_API_URL"), "/"),
		HTTPTimeout: time.Duration(EnvIntDefault("HTTP_TIMEOUT_SECONDS", 5)) * time.Second,

		SessionDriver: strings.ToLower(EnvDefault("SESSION_DRIVER", "file")),
		SessionPath:   EnvDefault("SESSION_PATH", defaultSessionPath()),
		SessionDSN:    os.Getenv("SESSION_DSN"),
		RedisAddr:     EnvDefault("REDIS_ADDR", "localhost:6379"),

		OrderSink:    strings.ToLower(EnvDefault("ORDER_SINK", "http")),
		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		OrderTopic:   EnvDefault("ORDER_TOPIC", "order_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "product"),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
		PageSize: EnvIntDefault("PAGE_SIZE", 20),

		EnvFileErr: envErr,
	}
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	if err := Require(c.APIURL, "STOREFRONT_API_URL"); err != nil {
		return err
	}
	switch c.SessionDriver {
	case "file", "sqlite":
	case "postgres":
		if err := Require(c.SessionDSN, "SESSION_DSN"); err != nil {
			return err
		}
	case "redis":
		if err := Require(c.RedisAddr, "REDIS_ADDR"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown SESSION_DRIVER %q", c.SessionDriver)
	}
	switch c.OrderSink {
	case "http":
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("%w KAFKA_BROKERS", ErrMissing)
		}
	default:
		return fmt.Errorf("unknown ORDER_SINK %q", c.OrderSink)
	}
	return nil
}

func Require(value, envName string) error {
	if value == "" {
		return fmt.Errorf("%w %s", ErrMissing, envName)
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".storefront", "session.json")
	}
	return filepath.Join(home, ".storefront", "session.json")
}
