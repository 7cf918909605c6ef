package config

import (
	"context"
	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
	"net/http"
	"os"
	"time"
)

const (
	DefaultExpiresInHours = 168
	DefaultMaxFiles       = 10
	DefaultMaxTotalBytes  = 100 << 20
	DefaultMaxFileBytes   = 25 << 20
	DefaultSignedURLTTL   = 10 * time.Minute
)

var (
	DefaultAllowedDocTypes  = []string{"invoice", "quote", "compliance", "other"}
	DefaultAllowedMimeTypes = []string{
		"application/pdf",
		"image/jpeg",
		"image/png",
		"image/tiff",
		"text/csv",
		"text/plain",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}
)

type AppConfig struct {
	DatabaseConfig DatabaseConfig     `yaml:"databaseConfig"`
	RedisConfig    RedisConfig        `yaml:"redisConfig"`
	ServerAddr     string             `yaml:"serverAddr"`
	TrustedProxies []string           `yaml:"trustedProxies"`
	S3Config       S3Config           `yaml:"s3Config"`
	JWT            JWTConfig          `yaml:"jwt"`
	Notifier       NotifierConfig     `yaml:"notifier"`
	Portal         PortalConfig       `yaml:"portal"`
	UploadPolicy   UploadPolicyConfig `yaml:"upload_policy"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
}

func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults : заполняет незаданные в yaml поля значениями по умолчанию
func (c *AppConfig) applyDefaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}

	d := &c.Portal.Defaults
	if d.ExpiresInHours <= 0 {
		d.ExpiresInHours = DefaultExpiresInHours
	}
	if d.MaxFiles <= 0 {
		d.MaxFiles = DefaultMaxFiles
	}
	if d.MaxTotalBytes <= 0 {
		d.MaxTotalBytes = DefaultMaxTotalBytes
	}
	if len(d.AllowedDocTypes) == 0 {
		d.AllowedDocTypes = append([]string(nil), DefaultAllowedDocTypes...)
	}

	l := &c.Portal.Limits
	if l.MaxExpiresInHours <= 0 {
		l.MaxExpiresInHours = 720
	}
	if l.MaxFiles <= 0 {
		l.MaxFiles = 100
	}
	if l.MaxTotalBytes <= 0 {
		l.MaxTotalBytes = 2 << 30
	}

	p := &c.UploadPolicy
	if p.MaxFileBytes <= 0 {
		p.MaxFileBytes = DefaultMaxFileBytes
	}
	if len(p.AllowedMimeTypes) == 0 {
		p.AllowedMimeTypes = append([]string(nil), DefaultAllowedMimeTypes...)
	}
	if p.SignedURLTTL <= 0 {
		p.SignedURLTTL = DefaultSignedURLTTL
	}
	if p.VerifyOnFinalize == nil {
		verify := true
		p.VerifyOnFinalize = &verify
	}

	if c.Notifier.Timeout <= 0 {
		c.Notifier.Timeout = 5 * time.Second
	}

	if c.RateLimit.MaxFailures <= 0 {
		c.RateLimit.MaxFailures = 20
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = 15 * time.Minute
	}
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:              serverAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, router
}

func SetupDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	db, err := NewDatabaseConnection("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
