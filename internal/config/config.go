package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// ConfigPathEnvVar задаёт путь к YAML-файлу конфигурации.
	ConfigPathEnvVar = "CONFIG_PATH"

	envPrefix        = "FOODGRAM_"
	defaultJWTSecret = "change-me-jwt-secret"
)

type Config struct {
	AppEnv   string         `koanf:"app_env"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Internal InternalConfig `koanf:"internal"`
	API      APIConfig      `koanf:"api"`
	Media    MediaConfig    `koanf:"media"`
	PDF      PDFConfig      `koanf:"pdf"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// CORSOrigins: список через запятую, например https://app.com,https://admin.app.com
	CORSOrigins    string  `koanf:"cors_origins"`
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	LogLevel     string `koanf:"log_level"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

// InternalConfig: доступ провайдера идентификации к /internal.
// Пустой sync_token выключает эндпоинты.
type InternalConfig struct {
	SyncToken  string `koanf:"sync_token"`
	AllowedIPs string `koanf:"allowed_ips"`
}

// APIConfig управляет пагинацией списков.
type APIConfig struct {
	PageSize    int `koanf:"page_size"`
	MaxPageSize int `koanf:"max_page_size"`
}

// MediaConfig описывает хранилище картинок рецептов: local или s3.
type MediaConfig struct {
	Backend     string `koanf:"backend"`
	LocalDir    string `koanf:"local_dir"`
	BaseURL     string `koanf:"base_url"`
	S3Bucket    string `koanf:"s3_bucket"`
	S3Region    string `koanf:"s3_region"`
	S3AccessKey string `koanf:"s3_access_key"`
	S3SecretKey string `koanf:"s3_secret_key"`
	S3Endpoint  string `koanf:"s3_endpoint"`
}

type PDFConfig struct {
	// FontPath: свой TTF вместо встроенного DejaVu Sans. Должен покрывать кириллицу.
	FontPath string `koanf:"font_path"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() Config {
	return Config{
		AppEnv: "dev",
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     "http://localhost:3000",
			RateLimitRPS:    20,
			RateLimitBurst:  40,
		},
		Database: DatabaseConfig{
			DSN:          "foodgram.db",
			LogLevel:     "warn",
			MaxOpenConns: 20,
			MaxIdleConns: 5,
		},
		Auth: AuthConfig{
			JWTSecret: defaultJWTSecret,
		},
		API: APIConfig{
			PageSize:    6,
			MaxPageSize: 100,
		},
		Media: MediaConfig{
			Backend:  "local",
			LocalDir: "./media",
			BaseURL:  "/media",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Default: конфигурация по умолчанию без чтения файла и окружения.
func Default() *Config {
	cfg := defaultConfig()
	return &cfg
}

// Load собирает конфигурацию слоями: значения по умолчанию, затем YAML-файл
// (если задан CONFIG_PATH), затем переменные окружения FOODGRAM_*.
// Вложенность в env задаётся двойным подчёркиванием: FOODGRAM_SERVER__ADDR.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Совместимость с привычными именами переменных
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		cfg.AppEnv = v
	}
	cfg.AppEnv = strings.ToLower(cfg.AppEnv)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database.dsn must not be empty")
	}
	if cfg.API.PageSize <= 0 {
		return fmt.Errorf("api.page_size must be > 0")
	}
	if cfg.API.MaxPageSize < cfg.API.PageSize {
		return fmt.Errorf("api.max_page_size must be >= api.page_size")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}

	switch strings.ToLower(cfg.Media.Backend) {
	case "local":
		if strings.TrimSpace(cfg.Media.LocalDir) == "" {
			return fmt.Errorf("media.local_dir must not be empty for local backend")
		}
	case "s3":
		if cfg.Media.S3Bucket == "" || cfg.Media.S3Region == "" {
			return fmt.Errorf("media.s3_bucket and media.s3_region are required for s3 backend")
		}
	default:
		return fmt.Errorf("media.backend must be one of: local, s3")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.Auth.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	return nil
}

// CORSOriginList разбивает server.cors_origins на отдельные origin'ы.
func (c ServerConfig) CORSOriginList() []string {
	return splitList(c.CORSOrigins)
}

func (c InternalConfig) AllowedIPList() []string {
	return splitList(c.AllowedIPs)
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
