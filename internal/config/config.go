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
	StorageConnectionString string `yaml:"storage_connection_string" env:"DATABASE_URL_VPN" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Credentials             Credentials `yaml:"credentials"`
	Telegram                `yaml:"telegram"`
	Broadcast               `yaml:"broadcast"`
	RabbitMQ                `yaml:"rabbitmq"`
	LoginRateLimit          `yaml:"login_rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// CookieSecure включает флаг Secure у сессионной cookie.
	CookieSecure bool `yaml:"cookie_secure" env:"COOKIE_SECURE"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
	UsersTTL     time.Duration `yaml:"users_ttl" env-default:"1m"`
}

// JWTToken структура для работы с jwt-токеном сессии оператора
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"12h"`
}

// Account: учётные данные одной роли. PasswordHash хранит bcrypt-хэш.
type Account struct {
	Login        string `yaml:"login" env:"USER_NAME"`
	PasswordHash string `yaml:"password_hash" env:"PASS_HASH"`
}

// Credentials: фиксированная таблица ролей, загружается один раз при старте.
type Credentials struct {
	VPN   Account `yaml:"vpn" env-prefix:"VPN_"`
	Codex Account `yaml:"codex" env-prefix:"CODEX_"`
}

// Roles возвращает таблицу учётных данных по имени роли.
func (c Credentials) Roles() map[string]Account {
	return map[string]Account{
		"vpn":   c.VPN,
		"codex": c.Codex,
	}
}

// Telegram структура для настройки клиента Bot API
type Telegram struct {
	BotToken string        `yaml:"bot_token" env:"TOKEN_BOT"`
	APIURL   string        `yaml:"api_url" env-default:"https://api.telegram.org"`
	Timeout  time.Duration `yaml:"timeout" env-default:"15s"`
}

// Broadcast структура для настройки массовой рассылки
type Broadcast struct {
	Workers   int     `yaml:"workers" env-default:"4"`
	RateLimit float64 `yaml:"rate_limit" env-default:"25"`
}

// RabbitMQ структура для подключения к брокеру. Пустой URL отключает события.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// LoginRateLimit ограничивает частоту попыток входа.
type LoginRateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"5"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг, сгенерированный из config/config.go
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла и переменных окружения.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// String печатает конфиг без секретов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  UsersTTL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Telegram:\n"+
			"  APIURL: %s\n"+
			"  Timeout: %s\n"+
			"  TokenSet: %t\n"+
			"Broadcast:\n"+
			"  Workers: %d\n"+
			"  RateLimit: %.1f\n"+
			"RabbitMQEnabled: %t\n",
		c.Env,
		c.MigrationsPath,
		c.AddressRedis,
		c.DB,
		c.UsersTTL,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.APIURL,
		c.Timeout,
		c.BotToken != "",
		c.Workers,
		c.RateLimit,
		c.RabbitMQURL != "",
	)
}
