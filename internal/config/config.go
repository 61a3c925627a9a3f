// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
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
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	Timezone                string `yaml:"timezone" env:"TIMEZONE" env-default:"America/Toronto"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Twilio                  `yaml:"twilio"`
	SMTP                    `yaml:"smtp"`
	Notify                  `yaml:"notify"`
	Scheduler               `yaml:"scheduler"`
	Rent                    `yaml:"rent"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RateLimit   float64       `yaml:"rate_limit" env-default:"1"`
	RateBurst   int           `yaml:"rate_burst" env-default:"3"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	Addr        string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user" env:"REDIS_USER"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	Timeout     time.Duration `yaml:"timeoutredis"`
	LockTTL     time.Duration `yaml:"lock_ttl" env-default:"10m"`
	LastRunTTL  time.Duration `yaml:"last_run_ttl" env-default:"72h"`
}

// RabbitMQ структура для подключения к брокеру сообщений.
// Пустой RabbitMQURL отключает публикацию событий.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Twilio настройки SMS-шлюза.
type Twilio struct {
	TwilioAccountSID    string  `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken     string  `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber   string  `yaml:"phone_number" env:"TWILIO_PHONE_NUMBER"`
	TwilioBaseURL       string  `yaml:"base_url" env-default:"https://api.twilio.com"`
	TwilioRatePerSecond float64 `yaml:"rate_per_second" env-default:"1"`
}

// SMTP настройки почтового транспорта.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"password" env:"SMTP_PASSWORD"`
	SMTPFrom string `yaml:"from" env:"SMTP_FROM"`
}

// Notify общие параметры уведомлений.
type Notify struct {
	NotifyTimeout time.Duration `yaml:"timeout" env-default:"10s"`
	TenantEmail   bool          `yaml:"tenant_email"`
	Brand         string        `yaml:"brand" env-default:"RentFlow"`
	Currency      string        `yaml:"currency" env-default:"CAD"`
}

// Scheduler интервалы фоновых задач.
type Scheduler struct {
	RentInterval      time.Duration `yaml:"rent_interval" env-default:"24h"`
	RemindersInterval time.Duration `yaml:"reminders_interval" env-default:"24h"`
}

// Rent параметры расчёта просрочки.
type Rent struct {
	GraceDays int `yaml:"grace_days" env-default:"5"`
}

// MustLoad функция для загрузки конфига, путь к файлу берётся из CONFIG_PATH
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

// Load читает конфиг из файла и переменных окружения.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file: %s - does not exist", path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if cfg.GraceDays < 1 || cfg.GraceDays > 27 {
		return nil, fmt.Errorf("rent.grace_days must be within 1..27, got %d", cfg.GraceDays)
	}
	if cfg.RentInterval <= 0 {
		return nil, fmt.Errorf("scheduler.rent_interval must be positive, got %s", cfg.RentInterval)
	}
	if cfg.RemindersInterval <= 0 {
		return nil, fmt.Errorf("scheduler.reminders_interval must be positive, got %s", cfg.RemindersInterval)
	}
	return &cfg, nil
}

// Location возвращает часовой пояс, в котором считаются дни месяца.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Timezone: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  LockTTL: %s\n"+
			"RabbitMQ:\n"+
			"  URL set: %t\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"Twilio:\n"+
			"  AccountSID: %s\n"+
			"  From: %s\n"+
			"SMTP:\n"+
			"  Host: %s:%s\n"+
			"Notify:\n"+
			"  Timeout: %s\n"+
			"  TenantEmail: %t\n"+
			"Rent:\n"+
			"  GraceDays: %d\n",
		c.Env,
		c.Timezone,
		mask(c.StorageConnectionString),
		c.Addr,
		c.DB,
		c.LockTTL,
		c.RabbitMQURL != "",
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.TwilioAccountSID,
		c.TwilioPhoneNumber,
		c.SMTPHost, c.SMTPPort,
		c.NotifyTimeout,
		c.TenantEmail,
		c.GraceDays,
	)
}

func mask(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:8] + "****"
}
