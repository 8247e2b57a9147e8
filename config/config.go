package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Env          string   `env:"APP_ENV" env-default:"development"`
		Port         int      `env:"PORT" env-default:"8080"`
		LogLevel     string   `env:"LOG_LEVEL" env-default:"info"`
		AllowOrigins []string `env:"ALLOW_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
		SentryDSN    string   `env:"SENTRY_DSN"`
	}
	Postgres struct {
		Host         string `env:"DB_HOST" env-default:"localhost"`
		Port         int    `env:"DB_PORT" env-default:"5432"`
		User         string `env:"DB_USER" env-default:"postgres"`
		Pass         string `env:"DB_PASSWORD"`
		Name         string `env:"DB_NAME" env-default:"kids_stories"`
		SslMode      string `env:"DB_SSL_MODE" env-default:"disable"`
		MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" env-default:"100"`
		MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	}
	Storage struct {
		// supabase | minio
		Driver string `env:"STORAGE_DRIVER" env-default:"supabase"`
		Bucket string `env:"STORAGE_BUCKET" env-default:"media"`
		// PublicBase overrides the computed public prefix of the bucket
		PublicBase string `env:"STORAGE_PUBLIC_BASE"`

		SupabaseURL string `env:"SUPABASE_URL"`
		SupabaseKey string `env:"SUPABASE_KEY"`

		MinioEndpoint  string `env:"MINIO_ENDPOINT"`
		MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
		MinioSecretKey string `env:"MINIO_SECRET_KEY"`
		MinioUseSSL    bool   `env:"MINIO_USE_SSL" env-default:"true"`
	}
	Auth struct {
		JWTSecret      string        `env:"JWT_SECRET" env-required:"true"`
		SessionTTL     time.Duration `env:"SESSION_TTL" env-default:"168h"`
		GoogleClientID string        `env:"GOOGLE_CLIENT_ID"`
		// Google accounts that become admins on their first sign-in
		AdminEmails []string `env:"ADMIN_EMAILS" env-separator:","`
		// password account created on startup when both are set
		AdminEmail    string `env:"ADMIN_EMAIL"`
		AdminPassword string `env:"ADMIN_PASSWORD"`
		// login attempts allowed per minute per client IP
		LoginPerMinute int `env:"LOGIN_RATE_PER_MINUTE" env-default:"10"`
		LoginBurst     int `env:"LOGIN_RATE_BURST" env-default:"5"`
	}
}

var (
	once sync.Once
	cfg  *Config
	err  error
)

func New() (*Config, error) {
	once.Do(func() {
		if loadErr := godotenv.Load(); loadErr != nil {
			log.Println("No .env file found, reading process environment")
		}

		cfg = &Config{}
		if err = cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			err = fmt.Errorf("read configuration: %w\n%s", err, help)
		}
	})
	return cfg, err
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Postgres.Host, c.Postgres.User, c.Postgres.Pass, c.Postgres.Name, c.Postgres.Port, c.Postgres.SslMode,
	)
}

// MediaBase is the public URL prefix of the media bucket, without trailing slash
func (c *Config) MediaBase() string {
	if c.Storage.PublicBase != "" {
		return c.Storage.PublicBase
	}
	switch c.Storage.Driver {
	case "minio":
		scheme := "https"
		if !c.Storage.MinioUseSSL {
			scheme = "http"
		}
		return fmt.Sprintf("%s://%s/%s", scheme, c.Storage.MinioEndpoint, c.Storage.Bucket)
	default:
		return fmt.Sprintf("%s/storage/v1/object/public/%s", c.Storage.SupabaseURL, c.Storage.Bucket)
	}
}
