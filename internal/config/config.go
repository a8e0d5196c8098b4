package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string
	Storage   string // postgres|memory

	JWTSecret string

	Log      string
	LogLevel string
	Env      string // dev|prod

	PublicURL string
	UploadDir string

	MuxTokenID       string
	MuxTokenSecret   string
	MuxBaseURL       string
	MuxWebhookSecret string
	AssetSyncCron    string

	RedisAddr    string
	RedisChannel string

	// Клиент авторинга (cmd/studio)
	StudioAPIURL string
	StudioToken  string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует, чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),
		Storage:   strings.ToLower(def(os.Getenv("STORAGE"), "postgres")),

		JWTSecret: os.Getenv("JWT_SECRET"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		PublicURL: strings.TrimRight(def(os.Getenv("PUBLIC_URL"), "http://localhost:8080"), "/"),
		UploadDir: def(os.Getenv("UPLOAD_DIR"), "uploaded"),

		MuxTokenID:       os.Getenv("MUX_TOKEN_ID"),
		MuxTokenSecret:   os.Getenv("MUX_TOKEN_SECRET"),
		MuxBaseURL:       def(os.Getenv("MUX_BASE_URL"), "https://api.mux.com"),
		MuxWebhookSecret: os.Getenv("MUX_WEBHOOK_SECRET"),
		AssetSyncCron:    def(os.Getenv("ASSET_SYNC_CRON"), "@every 10m"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisChannel: def(os.Getenv("REDIS_CHANNEL"), "authoring"),

		StudioAPIURL: def(os.Getenv("STUDIO_API_URL"), "http://localhost:8080/api"),
		StudioToken:  os.Getenv("STUDIO_TOKEN"),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	switch c.Storage {
	case "memory":
		warnings = append(warnings, "STORAGE=memory: данные не сохраняются между перезапусками")
	case "postgres":
		if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
			return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE %q (postgres|memory)", c.Storage)
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return warnings, fmt.Errorf("JWT_SECRET is empty")
	}

	if !c.MuxEnabled() {
		warnings = append(warnings, "Mux credentials are not set, video assets are disabled")
	}
	if c.RedisAddr == "" {
		warnings = append(warnings, "REDIS_ADDR is not set, authoring events are only logged")
	}

	return warnings, nil
}

func (c *Config) MuxEnabled() bool {
	return c.MuxTokenID != "" && c.MuxTokenSecret != ""
}

// GetDSN: полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe: DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
