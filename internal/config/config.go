package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
)

// Переменные окружения, которые перекрывают значения из файла
const (
	EnvBackendURL       = "BACKEND_URL"
	EnvRedisPassword    = "REDIS_PASSWORD"
	EnvDatabasePassword = "DATABASE_PASSWORD"
)

type Config struct {
	App      AppConfig      `toml:"app"`
	Server   ServerConfig   `toml:"server"`
	Backend  BackendConfig  `toml:"backend"`
	Forms    FormsConfig    `toml:"forms"`
	Session  SessionConfig  `toml:"session"`
	Redis    RedisConfig    `toml:"redis"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type AppConfig struct {
	Timezone string `toml:"timezone"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// BackendConfig REST backend записи
type BackendConfig struct {
	URL           string  `toml:"url"`
	Timeout       int     `toml:"timeout"` // секунды
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
}

type FormsConfig struct {
	FetchTimeout  int  `toml:"fetch_timeout"`  // секунды, таймаут запроса слотов
	WaitTimeout   int  `toml:"wait_timeout"`   // секунды, ожидание слотов в GET ?wait=true
	IdleTTL       int  `toml:"idle_ttl"`       // секунды без обращений до закрытия формы
	SweepInterval int  `toml:"sweep_interval"` // секунды
	Strict        bool `toml:"strict"`         // ошибка вместо отбрасывания чужих услуг
}

type SessionConfig struct {
	TTL           int    `toml:"ttl"` // секунды, верхняя граница жизни сессии
	KeyPrefix     string `toml:"key_prefix"`
	SweepInterval int    `toml:"sweep_interval"` // секунды, очистка истекших сессий в памяти
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// DatabaseConfig журнал отправок. Если enabled = false, журнал не пишется
type DatabaseConfig struct {
	Enabled         bool   `toml:"enabled"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Load читает TOML файл, подгружает .env (если есть), применяет переменные окружения,
// значения по умолчанию и проверяет результат
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrReadConfig, err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv(EnvDatabasePassword); v != "" {
		c.Database.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.App.Timezone == "" {
		c.App.Timezone = domain.DefaultTimezone
	}

	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 10
	}
	if c.Backend.Burst == 0 {
		c.Backend.Burst = 10
	}

	if c.Forms.FetchTimeout == 0 {
		c.Forms.FetchTimeout = domain.DefaultFetchTimeoutSeconds
	}
	if c.Forms.WaitTimeout == 0 {
		c.Forms.WaitTimeout = 5
	}
	if c.Forms.IdleTTL == 0 {
		c.Forms.IdleTTL = domain.DefaultFormIdleTTLSeconds
	}
	if c.Forms.SweepInterval == 0 {
		c.Forms.SweepInterval = 60
	}

	if c.Session.TTL == 0 {
		c.Session.TTL = 8 * 60 * 60
	}
	if c.Session.SweepInterval == 0 {
		c.Session.SweepInterval = 60
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "booking-form"
	}
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("%w: backend.url is required", ErrInvalidConfig)
	}
	if u, err := url.Parse(c.Backend.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend.url must be an absolute URL: %q", ErrInvalidConfig, c.Backend.URL)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("%w: app.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Backend.RatePerSecond < 0 {
		return fmt.Errorf("%w: backend.rate_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Enabled && (c.Database.Host == "" || c.Database.DBName == "") {
		return fmt.Errorf("%w: database.host and database.dbname are required when the journal is enabled", ErrInvalidConfig)
	}
	return nil
}

// Location часовой пояс, в котором считается "сегодня"
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DSN строка подключения для lib/pq в формате key='value'
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quoteDSN(d.Host), d.Port, quoteDSN(d.User), quoteDSN(d.Password), quoteDSN(d.DBName), quoteDSN(d.SSLMode))
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSN(value string) string {
	return "'" + dsnEscaper.Replace(value) + "'"
}
