package config

import "time"

type DatabaseConfig struct {
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Local     bool   `yaml:"local"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type JWTConfig struct {
	SecretKey string `yaml:"secret_key"`
}

// NotifierConfig : адрес сервиса рассылки писем (webhook)
type NotifierConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PortalDefaults : значения, которые подставляются, если сотрудник их не указал
type PortalDefaults struct {
	ExpiresInHours  int      `yaml:"expires_in_hours"`
	MaxFiles        int      `yaml:"max_files"`
	MaxTotalBytes   int64    `yaml:"max_total_bytes"`
	AllowedDocTypes []string `yaml:"allowed_doc_types"`
}

// PortalLimits : верхние границы для значений, заданных сотрудником
type PortalLimits struct {
	MaxExpiresInHours int   `yaml:"max_expires_in_hours"`
	MaxFiles          int   `yaml:"max_files"`
	MaxTotalBytes     int64 `yaml:"max_total_bytes"`
}

type PortalConfig struct {
	BaseURL            string         `yaml:"base_url"`
	TokenPepper        string         `yaml:"token_pepper"`
	AllowEmptyComplete bool           `yaml:"allow_empty_complete"`
	Defaults           PortalDefaults `yaml:"defaults"`
	Limits             PortalLimits   `yaml:"limits"`
}

// UploadPolicyConfig : глобальная политика файлов, общая для всех запросов
type UploadPolicyConfig struct {
	MaxFileBytes     int64         `yaml:"max_file_bytes"`
	AllowedMimeTypes []string      `yaml:"allowed_mime_types"`
	SignedURLTTL     time.Duration `yaml:"signed_url_ttl"`
	VerifyOnFinalize *bool         `yaml:"verify_on_finalize"`
}

type RateLimitConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures int64         `yaml:"max_failures"`
	Window      time.Duration `yaml:"window"`
}
