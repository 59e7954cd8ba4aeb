// Package config предоставляет структуры и функцию для парсинга и
// загрузки конфигурации бота из yaml-файла и переменных окружения.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/models"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                 string `yaml:"env" env:"ENV" env-default:"local"`
	Telegram            `yaml:"telegram"`
	Storage             `yaml:"storage"`
	RedisConnection     `yaml:"redis_connection"`
	OpsServer           `yaml:"ops_server"`
	TimezoneOffsetHours int          `yaml:"timezone_offset_hours" env:"TZ_OFFSET_HOURS" env-default:"5"`
	DefaultPlans        []PlanConfig `yaml:"default_plans"`
}

// Telegram структура для настройки подключения к Telegram Bot API.
type Telegram struct {
	Token       string        `yaml:"token" env:"BOT_TOKEN"`
	AdminID     int64         `yaml:"admin_id" env:"ADMIN_ID"`
	PollTimeout time.Duration `yaml:"poll_timeout" env-default:"10s"`
}

// Storage структура для выбора и настройки источника снимка хранилища.
// Kind принимает "file" или "postgres".
type Storage struct {
	Kind           string `yaml:"kind" env:"STORAGE_KIND" env-default:"file"`
	DataFile       string `yaml:"data_file" env:"DATA_FILE" env-default:"./users.json"`
	PostgresDSN    string `yaml:"postgres_dsn" env:"POSTGRES_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"./migrations"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес означает, что состояние диалогов держится в памяти.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDR"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// OpsServer структура для настройки служебного HTTP-сервера
// с /health и /metrics.
type OpsServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":9090"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// PlanConfig описывает тариф по умолчанию в конфигурационном файле.
type PlanConfig struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Price        int    `yaml:"price"`
	DurationDays int    `yaml:"duration"`
	Features     string `yaml:"features"`
	DeviceLimit  int    `yaml:"devices"`
	Active       bool   `yaml:"active"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, завершает процесс
// при отсутствии файла или ошибке разбора.
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

// PlanList возвращает тарифы по умолчанию для первого запуска.
// Если в конфиге они не заданы, используется встроенный набор из трёх
// тарифов.
func (c *Config) PlanList() []models.Plan {
	if len(c.DefaultPlans) == 0 {
		return builtinPlans()
	}
	plans := make([]models.Plan, 0, len(c.DefaultPlans))
	for _, p := range c.DefaultPlans {
		plans = append(plans, models.Plan{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price,
			DurationDays: p.DurationDays,
			Features:     p.Features,
			DeviceLimit:  p.DeviceLimit,
			Active:       p.Active,
		})
	}
	return plans
}

func builtinPlans() []models.Plan {
	return []models.Plan{
		{
			ID:           "plan_350",
			Name:         "Basic Plan",
			Price:        350,
			DurationDays: 15,
			Features:     "1 WhatsApp link device",
			DeviceLimit:  1,
			Active:       true,
		},
		{
			ID:           "plan_500",
			Name:         "Standard Plan",
			Price:        500,
			DurationDays: 30,
			Features:     "1 WhatsApp link device",
			DeviceLimit:  1,
			Active:       true,
		},
		{
			ID:           "plan_1000",
			Name:         "Premium Plan",
			Price:        1000,
			DurationDays: 90,
			Features:     "2 WhatsApp link devices",
			DeviceLimit:  2,
			Active:       true,
		},
	}
}
