package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"

	CacheNone  = "none"
	CacheLocal = "local"
	CacheRedis = "redis"
)

type (
	APP struct {
		Name        string
		Host        string
		Port        string
		Env         string
		StoreDriver string
		CacheDriver string
		RateLimit   RateLimit
	}
	RateLimit struct {
		// Requests per Window per client ip; 0 disables the limiter.
		Requests int
		Window   time.Duration
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
	}
	Mongo struct {
		URI        string
		Database   string
		Collection string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App   APP
		DB    DB
		Mongo Mongo
		Redis Redis
		MQ    MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func Load() (Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	rlRequests, err := getEnvInt("RATE_LIMIT_REQUESTS", 120)
	collect(err)
	rlWindow, err := getEnvDuration("RATE_LIMIT_WINDOW", time.Minute)
	collect(err)
	redisDB, err := getEnvInt("REDIS_DB", 0)
	collect(err)
	redisTTL, err := getEnvDuration("REDIS_TTL", 5*time.Minute)
	collect(err)

	app := APP{
		Name:        getEnv("SERVICE_NAME", "agriregistryapi"),
		Host:        getEnv("SERVICE_HOST", ""),
		Port:        getEnv("SERVICE_PORT", "8080"),
		Env:         getEnv("SERVICE_ENV", ""),
		StoreDriver: getEnv("STORE_DRIVER", StorePostgres),
		CacheDriver: getEnv("CACHE_DRIVER", CacheNone),
		RateLimit: RateLimit{
			Requests: rlRequests,
			Window:   rlWindow,
		},
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", "5432"),
	}
	mongo := Mongo{
		URI:        getEnv("MONGODB_URL", ""),
		Database:   getEnv("MONGODB_DATABASE", "agriregistry"),
		Collection: getEnv("MONGODB_COLLECTION", "farmers"),
	}
	redis := Redis{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		TTL:      redisTTL,
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "farmers"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "farmer-events"),
	}

	cfg := Config{
		App:   app,
		DB:    db,
		Mongo: mongo,
		Redis: redis,
		MQ:    mq,
	}
	collect(cfg.validate())

	return cfg, errors.Join(errs...)
}

func (c Config) validate() error {
	switch c.App.StoreDriver {
	case StorePostgres, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.App.StoreDriver)
	}
	switch c.App.CacheDriver {
	case CacheNone, CacheLocal, CacheRedis:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.App.CacheDriver)
	}
	if c.App.RateLimit.Requests < 0 {
		return errors.New("RATE_LIMIT_REQUESTS must not be negative")
	}
	if c.App.RateLimit.Requests > 0 && c.App.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}

	return nil
}

// MQEnabled reports whether farmer events are published.
func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
