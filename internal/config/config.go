package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Поддерживаемые бэкенды таблицы вопросов
const (
	SheetBackendGoogle = "gsheets"
	SheetBackendXLSX   = "xlsx"
)

// Config хранит все настройки приложения
type Config struct {
	Server ServerConfig
	Sheet  SheetConfig
	Redis  RedisConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// SheetConfig содержит настройки внешней таблицы вопросов
type SheetConfig struct {
	// Backend: "gsheets" (Google Sheets) или "xlsx" (локальная книга Excel)
	Backend string `mapstructure:"backend"`

	// SpreadsheetID: идентификатор книги Google Sheets (только для gsheets)
	SpreadsheetID string `mapstructure:"spreadsheet_id"`

	// Worksheet: имя листа с вопросами. По умолчанию "Sheet1".
	Worksheet string `mapstructure:"worksheet"`

	// CredentialsFile: путь к JSON сервисного аккаунта Google.
	// Если пусто, используются Application Default Credentials.
	CredentialsFile string `mapstructure:"credentials_file"`

	// Path: путь к файлу .xlsx (только для xlsx)
	Path string `mapstructure:"path"`

	// HeaderRows: количество строк заголовка перед данными. По умолчанию 1.
	HeaderRows int `mapstructure:"header_rows"`

	// CacheTTL: время жизни кешированного снимка таблицы. По умолчанию 10m.
	// Старт и перезапуск сессии всегда принудительно перечитывают таблицу.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis.
// Кеш необязателен: при пустых Addr и Addrs приложение работает без него.
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: Максимальное количество попыток переподключения (-1 - бесконечно). По умолчанию 0.
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff: Минимальный интервал между попытками (в миллисекундах). По умолчанию 8ms.
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`

	// MaxRetryBackoff: Максимальный интервал между попытками (в миллисекундах). По умолчанию 512ms.
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// Enabled сообщает, сконфигурирован ли Redis вообще
func (r *RedisConfig) Enabled() bool {
	return len(r.Addrs) > 0 || r.Addr != ""
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 10)
	vip.SetDefault("server.writetimeout", 10)
	vip.SetDefault("sheet.worksheet", "Sheet1")
	vip.SetDefault("sheet.header_rows", 1)
	vip.SetDefault("sheet.cache_ttl", 10*time.Minute)

	// 2. Привязываем переменные окружения ЯВНО
	// Привязка для секции Sheet
	vip.BindEnv("sheet.backend", "SHEET_BACKEND")
	vip.BindEnv("sheet.spreadsheet_id", "SHEET_SPREADSHEET_ID")
	vip.BindEnv("sheet.worksheet", "SHEET_WORKSHEET")
	vip.BindEnv("sheet.credentials_file", "SHEET_CREDENTIALS_FILE")
	vip.BindEnv("sheet.path", "SHEET_PATH")
	vip.BindEnv("sheet.header_rows", "SHEET_HEADER_ROWS")
	vip.BindEnv("sheet.cache_ttl", "SHEET_CACHE_TTL")

	// Привязка для секции Redis
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Привязка для Server
	vip.BindEnv("server.port", "SERVER_PORT")

	// 3. Пытаемся прочитать файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 4. Анмаршалим конфигурацию (Viper объединит значения из файла и привязанных env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Sheet Backend: %s", cfg.Sheet.Backend)
		log.Printf("Sheet Spreadsheet ID: %s", cfg.Sheet.SpreadsheetID)
		log.Printf("Sheet Worksheet: %s", cfg.Sheet.Worksheet)
		log.Printf("Sheet Path: %s", cfg.Sheet.Path)
		log.Printf("Sheet Credentials File Set: %t", cfg.Sheet.CredentialsFile != "")
		log.Printf("Sheet Cache TTL: %s", cfg.Sheet.CacheTTL)
		log.Printf("Redis Enabled: %t", cfg.Redis.Enabled())
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	// 6. Проверка обязательных параметров
	switch cfg.Sheet.Backend {
	case SheetBackendGoogle:
		if cfg.Sheet.SpreadsheetID == "" {
			return nil, fmt.Errorf("spreadsheet id is required for the gsheets backend (check SHEET_SPREADSHEET_ID env var)")
		}
	case SheetBackendXLSX:
		if cfg.Sheet.Path == "" {
			return nil, fmt.Errorf("workbook path is required for the xlsx backend (check SHEET_PATH env var)")
		}
	case "":
		return nil, fmt.Errorf("sheet backend is required: use %q or %q (check SHEET_BACKEND env var)", SheetBackendGoogle, SheetBackendXLSX)
	default:
		return nil, fmt.Errorf("unsupported sheet backend %q: use %q or %q", cfg.Sheet.Backend, SheetBackendGoogle, SheetBackendXLSX)
	}
	if cfg.Sheet.HeaderRows < 1 {
		return nil, fmt.Errorf("sheet.header_rows must be at least 1, got %d", cfg.Sheet.HeaderRows)
	}

	return &cfg, nil
}
