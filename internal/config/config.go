// config реализует конфигурацию iso-board: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы хранилищ.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
	Storage  StorageConfig  `yaml:"storage"`
	DB       DBConfig       `yaml:"db"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
	S3       S3Config       `yaml:"s3"`
	Images   ImagesConfig   `yaml:"images"`
	Auth     AuthConfig     `yaml:"auth"`
	AI       AIConfig       `yaml:"ai"`
	Listings ListingsConfig `yaml:"listings"`
}

// HTTPConfig — сетевые настройки HTTP-сервера (API + health/metrics).
type HTTPConfig struct {
	Host     string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	BasePath string `yaml:"base_path" env:"HTTP_BASE_PATH" env-default:""`
	// Предел тела запроса: изображения приходят base64 внутри JSON.
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"HTTP_MAX_BODY_BYTES" env-default:"8388608"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// TimeoutConfig — общий дедлайн обработки запроса и время на остановку.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service" env:"SERVICE" env-default:"5s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig — выбор бэкендов.
// Listings обслуживает объявления и пользователей (memory|postgres),
// Threads — переписку (memory|mongo).
type StorageConfig struct {
	Listings string `yaml:"listings" env:"STORAGE_LISTINGS" env-default:"memory"`
	Threads  string `yaml:"threads" env:"STORAGE_THREADS" env-default:"memory"`
}

// DBConfig — подключение к PostgreSQL.
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

// MongoConfig — подключение к MongoDB (хранилище переписки).
type MongoConfig struct {
	URL string `yaml:"url" env:"MONGO_URL"`
}

// RedisConfig — опциональный Redis: кэш рыночных сводок и отозванные сессии.
// Пустой URL -> используются in-memory реализации.
type RedisConfig struct {
	URL    string `yaml:"url" env:"REDIS_URL"`
	Prefix string `yaml:"prefix" env:"REDIS_PREFIX" env-default:"iso:"`
}

// S3Config — параметры MinIO/S3 для изображений объявлений.
// Пустой Endpoint -> изображения хранятся в памяти как data URL.
type S3Config struct {
	Endpoint      string `yaml:"endpoint" env:"S3_ENDPOINT"`
	RootUser      string `yaml:"root_user" env:"S3_ROOT_USER"`
	RootPassword  string `yaml:"root_password" env:"S3_ROOT_PASSWORD"`
	Bucket        string `yaml:"bucket" env:"S3_BUCKET" env-default:"listings"`
	PublicBaseURL string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// ImagesConfig — ограничения на загружаемые изображения.
type ImagesConfig struct {
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"IMAGE_MAX_SIZE_BYTES" env-default:"5242880"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"IMAGE_ALLOWED_CONTENT_TYPES" env-default:"image/jpeg,image/png,image/webp"`
	Placeholder         string   `yaml:"placeholder" env:"IMAGE_PLACEHOLDER" env-default:"https://placehold.co/600x400?text=No+Image"`
}

// AuthConfig — параметры выпуска и валидации access-токенов.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"24h"`
	Issuer         string        `yaml:"issuer" env:"ISSUER" env-default:"iso-board"`
	Audience       []string      `yaml:"audience" env:"AUDIENCE" env-default:"iso-board"`
}

// AIConfig — генеративная модель.
// Пустой APIKey -> AI-функции отвечают пометкой «недоступно», остальной сервис работает.
type AIConfig struct {
	APIKey          string        `yaml:"api_key" env:"AI_API_KEY"`
	Model           string        `yaml:"model" env:"AI_MODEL" env-default:"gemini-2.5-flash"`
	Timeout         time.Duration `yaml:"timeout" env:"AI_TIMEOUT" env-default:"20s"`
	RatePerMinute   int           `yaml:"rate_per_minute" env:"AI_RATE_PER_MINUTE" env-default:"20"`
	Burst           int           `yaml:"burst" env:"AI_BURST" env-default:"5"`
	InsightsTTL     time.Duration `yaml:"insights_ttl" env:"AI_INSIGHTS_TTL" env-default:"1h"`
	DefaultCategory string        `yaml:"default_category" env:"AI_DEFAULT_CATEGORY" env-default:"Collectibles"`
	// Лимит AI-эндпоинтов на одного пользователя (или IP для анонимов).
	UserRatePerMinute int `yaml:"user_rate_per_minute" env:"AI_USER_RATE_PER_MINUTE" env-default:"6"`
	UserBurst         int `yaml:"user_burst" env:"AI_USER_BURST" env-default:"3"`
}

// ListingsConfig — правила витрины и объявлений.
type ListingsConfig struct {
	// Срок жизни объявления по умолчанию, в днях.
	DefaultDuration int `yaml:"default_duration" env:"LISTING_DEFAULT_DURATION" env-default:"30"`
	// Владельцы с trust_score строго выше порога закрепляются в начале ленты.
	PinTrustAbove int `yaml:"pin_trust_above" env:"LISTING_PIN_TRUST_ABOVE" env-default:"85"`
	// Порог «verified» в карточке собеседника.
	VerifiedTrustAbove int `yaml:"verified_trust_above" env:"VERIFIED_TRUST_ABOVE" env-default:"80"`
	// trust_score собеседника, если он неизвестен.
	DefaultTrust int `yaml:"default_trust" env:"DEFAULT_TRUST" env-default:"50"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", p, err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		return readFile(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return readFile(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		return readFile("local.yaml")
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0")
	}

	switch c.Storage.Listings {
	case DriverMemory:
	case DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("db.url is required for postgres listings storage")
		}
	default:
		return fmt.Errorf("storage.listings: unknown driver %q", c.Storage.Listings)
	}

	switch c.Storage.Threads {
	case DriverMemory:
	case DriverMongo:
		if c.Mongo.URL == "" {
			return fmt.Errorf("mongo.url is required for mongo threads storage")
		}
	default:
		return fmt.Errorf("storage.threads: unknown driver %q", c.Storage.Threads)
	}

	if c.S3.Endpoint != "" && c.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when s3.endpoint is set")
	}

	if c.Images.MaxSizeBytes <= 0 {
		return fmt.Errorf("images.max_size_bytes must be > 0")
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be > 0")
	}

	if c.AI.RatePerMinute <= 0 || c.AI.Burst <= 0 {
		return fmt.Errorf("ai.rate_per_minute and ai.burst must be > 0")
	}

	if c.AI.UserRatePerMinute <= 0 || c.AI.UserBurst <= 0 {
		return fmt.Errorf("ai.user_rate_per_minute and ai.user_burst must be > 0")
	}

	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("http.max_body_bytes must be > 0")
	}

	if c.Listings.DefaultDuration <= 0 {
		return fmt.Errorf("listings.default_duration must be > 0")
	}

	if c.Listings.PinTrustAbove < 0 || c.Listings.PinTrustAbove > 100 {
		return fmt.Errorf("listings.pin_trust_above must be within [0, 100]")
	}

	return nil
}
