package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"
)

type Config struct {
	AppEnv string
	Port   string

	StoreDriver  string
	StoreTimeout time.Duration

	MongoURI      string
	MongoDatabase string

	MySQLUser     string
	MySQLPassword string
	MySQLHost     string
	MySQLPort     string
	MySQLDatabase string

	ProductServiceURL    string
	ProductClientTimeout time.Duration

	RedisAddr        string
	ProductCacheTTL  time.Duration
	ProductWarmupIDs []string

	RabbitMQURL      string
	RabbitMQExchange string

	KafkaBrokers []string
	KafkaTopic   string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "storefront"),
		MySQLUser:         os.Getenv("MYSQL_USER"),
		MySQLPassword:     os.Getenv("MYSQL_PASSWORD"),
		MySQLHost:         getEnv("MYSQL_HOST", "localhost"),
		MySQLPort:         getEnv("MYSQL_PORT", "3306"),
		MySQLDatabase:     getEnv("MYSQL_DATABASE", "storefront"),
		ProductServiceURL: strings.TrimRight(os.Getenv("PRODUCT_SERVICE_URL"), "/"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		ProductWarmupIDs:  splitList(os.Getenv("PRODUCT_WARMUP_IDS")),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange:  getEnv("RABBITMQ_EXCHANGE", "order.exchange"),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "order.events"),
	}

	var err error
	if cfg.StoreTimeout, err = durationEnv("STORE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProductClientTimeout, err = durationEnv("PRODUCT_CLIENT_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProductCacheTTL, err = durationEnv("PRODUCT_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = floatEnv("RATE_LIMIT_RPS", 50); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = intEnv("RATE_LIMIT_BURST", 100); err != nil {
		return nil, err
	}

	if cfg.StoreDriver != DriverMongo && cfg.StoreDriver != DriverMySQL {
		return nil, fmt.Errorf("config: unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == DriverMySQL && cfg.MySQLUser == "" {
		return nil, fmt.Errorf("config: MYSQL_USER is required for the mysql store")
	}
	if cfg.StoreTimeout <= 0 {
		return nil, fmt.Errorf("config: STORE_TIMEOUT must be positive")
	}

	return cfg, nil
}

// MySQLDSN builds the go-sql-driver DSN for the configured database.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDatabase)
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func intEnv(key string, def int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
