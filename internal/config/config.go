package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config конфигурация бота, читается из окружения.
type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string

	// NotifyChatID чат, куда уходит ежедневный дайджест
	NotifyChatID int64

	CampusUser        string
	CampusHash        string
	CampusBaseURL     string
	CampusInsecureTLS bool

	// Timezone единственная таймзона бота (IANA), все локальные
	// вычисления идут в ней
	Timezone     string
	NotifyHour   int
	NotifyMinute int

	HolidaysPath   string
	MigrationsPath string

	// SortEntries сортировать занятия внутри дня по времени начала.
	// По умолчанию выключено: сохраняем порядок, который отдаёт API.
	SortEntries bool
}

// Load загружает конфигурацию из .env файла и переменных окружения.
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:             os.Getenv("DB_DSN"),
		Environment:       os.Getenv("ENV"),
		CampusUser:        os.Getenv("CAMPUS_USER"),
		CampusHash:        os.Getenv("CAMPUS_HASH"),
		CampusBaseURL:     os.Getenv("CAMPUS_BASE_URL"),
		Timezone:          os.Getenv("TIMEZONE"),
		HolidaysPath:      os.Getenv("HOLIDAYS_PATH"),
		MigrationsPath:    os.Getenv("MIGRATIONS_PATH"),
		CampusInsecureTLS: boolEnv("CAMPUS_INSECURE_TLS", false),
		SortEntries:       boolEnv("SORT_ENTRIES", false),
	}

	// Дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.CampusBaseURL == "" {
		cfg.CampusBaseURL = "https://selfservice.campus-dual.de"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Berlin"
	}
	if cfg.HolidaysPath == "" {
		cfg.HolidaysPath = "holidays.yaml"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	var err error
	cfg.NotifyHour, err = intEnv("NOTIFY_HOUR", 6)
	if err != nil {
		return nil, err
	}
	cfg.NotifyMinute, err = intEnv("NOTIFY_MINUTE", 0)
	if err != nil {
		return nil, err
	}
	if cfg.NotifyHour < 0 || cfg.NotifyHour > 23 || cfg.NotifyMinute < 0 || cfg.NotifyMinute > 59 {
		return nil, fmt.Errorf("invalid notify time %02d:%02d", cfg.NotifyHour, cfg.NotifyMinute)
	}

	// Обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.CampusUser == "" || cfg.CampusHash == "" {
		return nil, fmt.Errorf("CAMPUS_USER and CAMPUS_HASH are required but not set")
	}

	rawChatID := os.Getenv("NOTIFY_CHAT_ID")
	if rawChatID == "" {
		return nil, fmt.Errorf("NOTIFY_CHAT_ID is required but not set")
	}
	cfg.NotifyChatID, err = strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("NOTIFY_CHAT_ID must be a number: %w", err)
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

func boolEnv(name string, def bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return value
}

func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, err)
	}
	return value, nil
}
