// Package config предоставляет структуры и функции для парсинга и загрузки конфига.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек всех бинарников сервиса.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	GRPCAddress             string `yaml:"grpc_address" env:"GRPC_ADDRESS" env-default:":50051"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Catalog                 `yaml:"catalog"`
	Access                  `yaml:"access"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Scheduler               `yaml:"scheduler"`
}

// HTTPServer структура для настройки HTTP-сервера.
type HTTPServer struct {
	AddressHTTP    string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP    time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps" env-default:"20"`
	RateLimitBurst int           `yaml:"rate_limit_burst" env-default:"40"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Catalog настройки клиента внешнего каталога драм.
type Catalog struct {
	CatalogBaseURL   string        `yaml:"base_url" env:"CATALOG_BASE_URL" env-default:"https://dramabox.sansekai.my.id/api"`
	CatalogTimeout   time.Duration `yaml:"timeout" env-default:"30s"`
	CatalogCacheTTL  time.Duration `yaml:"cache_ttl" env-default:"5m"`
	CatalogUserAgent string        `yaml:"user_agent" env-default:"DramaBox-Proxy/1.0"`
}

// Access настройки билетной модели.
type Access struct {
	DailyBonusTickets int `yaml:"daily_bonus_tickets" env-default:"3"`
}

// RabbitMQ настройки брокера. Пустой URL отключает публикацию событий в API.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"3s"`
	RabbitMQExchange   string        `yaml:"exchange" env-default:"dramabox"`
}

// SMTP настройки почтового сервера для уведомлений. Без require_tls письма
// уходят и через локальные релеи без STARTTLS.
type SMTP struct {
	SMTPHost       string        `yaml:"host" env:"SMTP_HOST"`
	SMTPPort       string        `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser       string        `yaml:"user" env:"SMTP_USER"`
	SMTPPassword   string        `yaml:"password" env:"SMTP_PASSWORD"`
	SMTPFrom       string        `yaml:"from" env:"SMTP_FROM"`
	SMTPRequireTLS bool          `yaml:"require_tls" env:"SMTP_REQUIRE_TLS" env-default:"true"`
	SMTPTimeout    time.Duration `yaml:"timeout" env-default:"10s"`
}

// Scheduler настройки планировщика уведомлений.
type Scheduler struct {
	ScheduleSpec string `yaml:"spec" env:"SCHEDULE_SPEC" env-default:"@daily"`
}

// Load читает конфиг из файла path, дополняя его переменными окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"GRPCAddress: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Catalog:\n"+
			"  BaseURL: %s\n"+
			"  CacheTTL: %s\n"+
			"RabbitMQ:\n"+
			"  Exchange: %s\n"+
			"Scheduler:\n"+
			"  Spec: %s\n",
		c.Env,
		c.GRPCAddress,
		mask(c.StorageConnectionString),
		c.AddressRedis,
		c.User,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.CatalogBaseURL,
		c.CatalogCacheTTL,
		c.RabbitMQExchange,
		c.ScheduleSpec,
	)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
