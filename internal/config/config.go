// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек всех сервисов.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	AppName                 string `yaml:"app_name" env-default:"Campus News"`
	DefaultLanguage         string `yaml:"default_language" env-default:"en"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Scheduler               `yaml:"scheduler"`
	Push                    `yaml:"push"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8443"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitMQ структура для настройки подключения к брокеру уведомлений.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"10"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"3s"`
}

// SMTP структура для настройки исходящей почты.
type SMTP struct {
	SMTPHost string `yaml:"host"`
	SMTPPort string `yaml:"port" env-default:"587"`
	SMTPUser string `yaml:"user"`
	SMTPPass string `yaml:"pass" env:"SMTP_PASS"`
}

// Scheduler структура для настройки цикла обработки напоминаний.
type Scheduler struct {
	TickInterval time.Duration `yaml:"tick_interval" env-default:"30s"`
}

// Push структура для настройки шлюза push-уведомлений. Пустой URL переводит
// доставку в режим журналирования.
type Push struct {
	PushGatewayURL string        `yaml:"gateway_url" env:"PUSH_GATEWAY_URL"`
	PushAccessKey  string        `yaml:"access_key" env:"PUSH_ACCESS_KEY"`
	PushTimeout    time.Duration `yaml:"timeout" env-default:"10s"`
}

// MustLoad загружает конфиг из файла, указанного в CONFIG_PATH, и завершает
// процесс при любой ошибке.
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
	return &cfg
}
