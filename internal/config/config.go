// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	IdentityProvider        `yaml:"identity_provider"`
	LLMProvider             `yaml:"llm_provider"`
	SheetsExport            `yaml:"sheets_export"`
	Billing                 `yaml:"billing"`
	Rabbit                  `yaml:"rabbit"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// IdentityProvider структура с настройками внешнего провайдера идентификации.
// BaseURL и APIKey обязательны: без них приложение не стартует.
type IdentityProvider struct {
	BaseURL        string        `yaml:"base_url" env:"IDENTITY_BASE_URL"`
	APIKey         string        `yaml:"api_key" env:"IDENTITY_API_KEY"`
	JWTSecret      string        `yaml:"jwt_secret" env:"IDENTITY_JWT_SECRET"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AccessCookie   string        `yaml:"access_cookie"`
	RefreshCookie  string        `yaml:"refresh_cookie"`
}

// LLMProvider структура с настройками провайдера суммаризации и транскрибации
type LLMProvider struct {
	LLMBaseURL string `yaml:"base_url"`
	LLMAPIKey  string `yaml:"api_key"`
	Model      string `yaml:"model"`
}

// SheetsExport структура с настройками экспорта в таблицы
type SheetsExport struct {
	SheetsBaseURL string `yaml:"base_url"`
	SheetsToken   string `yaml:"token"`
	SpreadsheetID string `yaml:"spreadsheet_id"`
}

// Billing структура с настройками платежного провайдера
type Billing struct {
	BillingBaseURL string `yaml:"base_url"`
	SecretKey      string `yaml:"secret_key"`
	WebhookSecret  string `yaml:"webhook_secret"`
}

// Rabbit структура с настройками подключения к RabbitMQ
type Rabbit struct {
	RabbitURL         string `yaml:"url"`
	NotificationQueue string `yaml:"notification_queue"`
}

// SMTP структура с настройками почтового транспорта
type SMTP struct {
	SMTPHost string `yaml:"host"`
	SMTPPort string `yaml:"port"`
	SMTPUser string `yaml:"user"`
	SMTPPass string `yaml:"pass"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг, сгенерированный из файла CONFIG_PATH.
// Отсутствие обязательных настроек провайдера идентификации — фатальная ошибка старта,
// а не ошибка времени запроса.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if cfg.IdentityProvider.BaseURL == "" {
		log.Fatal("identity provider base_url is required")
	}
	if cfg.IdentityProvider.APIKey == "" {
		log.Fatal("identity provider api_key is required")
	}
	if cfg.IdentityProvider.RequestTimeout == 0 {
		cfg.IdentityProvider.RequestTimeout = 10 * time.Second
	}
	if cfg.IdentityProvider.AccessCookie == "" {
		cfg.IdentityProvider.AccessCookie = "t2a_access_token"
	}
	if cfg.IdentityProvider.RefreshCookie == "" {
		cfg.IdentityProvider.RefreshCookie = "t2a_refresh_token"
	}
	if cfg.Rabbit.NotificationQueue == "" {
		cfg.Rabbit.NotificationQueue = "entitlement.changed"
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"IdentityProvider:\n"+
			"  BaseURL: %s\n"+
			"  RequestTimeout: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.AddressRedis,
		c.User,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.BaseURL,
		c.RequestTimeout,
	)
}
