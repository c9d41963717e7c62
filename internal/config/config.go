// Package config описывает настройки сервисов платформы и загружает их из YAML-файла
// по пути CONFIG_PATH с переопределением через переменные окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Драйверы хранилища.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageDriver           string `yaml:"storage_driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                `yaml:"rabbitmq"`
	Uploads                 `yaml:"uploads"`
	Reconciler              `yaml:"reconciler"`
	RateLimit               `yaml:"rate_limit"`
	BcryptCost              int `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP  string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
	CORSOrigins  []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"http://localhost:3000"`
}

// RedisConnection структура для настройки подключения к redis. Пустой адрес отключает кеш.
type RedisConnection struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeout" env-default:"3s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

// JWTToken настройки access- и refresh-токенов. Секреты обязательны и должны различаться.
type JWTToken struct {
	AccessSecret  string        `yaml:"access_secret" env:"JWT_ACCESS_SECRET" env-required:"true"`
	RefreshSecret string        `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET" env-required:"true"`
	AccessTTL     time.Duration `yaml:"access_ttl" env-default:"360h"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

// RabbitMQ настройки брокера. Пустой URL включает синхронный счётчик просмотров.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	MaxRetries int           `yaml:"max_retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Uploads настройки локального хранения изображений.
type Uploads struct {
	Dir         string `yaml:"dir" env:"UPLOADS_DIR" env-default:"./uploads"`
	MaxFileSize int64  `yaml:"max_file_size" env-default:"5242880"`
}

// Reconciler настройки очистки комментариев удалённых постов.
type Reconciler struct {
	Interval time.Duration `yaml:"interval" env-default:"10m"`
}

// RateLimit ограничение частоты запросов к /auth на один IP.
// TrustedProxies перечисляет адреса и подсети прокси, чьим заголовкам
// X-Forwarded-For и X-Real-IP можно верить. Пустой список означает RemoteAddr.
type RateLimit struct {
	RPS            float64  `yaml:"rps" env-default:"5"`
	Burst          int      `yaml:"burst" env-default:"10"`
	TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES"`
}

// IsSecureCookie сообщает, нужно ли ставить cookie с флагом Secure.
func (c *Config) IsSecureCookie() bool {
	return c.Env != "local" && c.Env != "development"
}

// Validate проверяет согласованность настроек, которые cleanenv не проверяет сам.
func (c *Config) Validate() error {
	const op = "config.Validate"
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.StorageConnectionString == "" {
			return fmt.Errorf("%s: storage_connection_string is required for postgres driver", op)
		}
	default:
		return fmt.Errorf("%s: unknown storage driver %q", op, c.StorageDriver)
	}
	if c.AccessSecret == c.RefreshSecret {
		return fmt.Errorf("%s: access and refresh secrets must differ", op)
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("%s: token ttl must be positive", op)
	}
	return nil
}

// Load читает конфиг по пути path. Перед чтением подгружается .env, если он есть.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: .env: %w", op, err)
	}
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		return nil, fmt.Errorf("%s: CONFIG_PATH is not set", op)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: file %s: %w", op, path, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load("")
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageDriver: %s\n"+
			"Redis: %s (db %d)\n"+
			"HTTPServer: %s read=%s write=%s idle=%s\n"+
			"JWT: access_ttl=%s refresh_ttl=%s\n"+
			"RabbitMQ: enabled=%t\n"+
			"Uploads: %s\n",
		c.Env,
		c.StorageDriver,
		c.AddressRedis, c.DB,
		c.AddressHTTP, c.ReadTimeout, c.WriteTimeout, c.IdleTimeout,
		c.AccessTTL, c.RefreshTTL,
		c.URL != "",
		c.Uploads.Dir,
	)
}
