package config

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`
}

type AuthEnv struct {
	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	TokenLifetime time.Duration `envconfig:"TOKEN_LIFETIME" default:"60m"`
}

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".sprintsync/data"`
	// S3 settings (used when Type == "s3")
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"sprintsync/"`
	S3Region string `envconfig:"S3_REGION" default:"ap-northeast-1"`
}

type DatabaseEnv struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"sprintsync"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"sprintsync"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

type AIEnv struct {
	ForceStub    bool   `envconfig:"AI_FORCE_STUB"`
	APIKey       string `envconfig:"AI_API_KEY"`
	BaseURL      string `envconfig:"AI_BASE_URL" default:"https://api.openai.com/v1"`
	Model        string `envconfig:"AI_MODEL" default:"gpt-3.5-turbo"`
	SettingsFile string `envconfig:"AI_SETTINGS_FILE"`
}

type Env struct {
	BaseEnv
	AuthEnv
	StorageEnv
	DatabaseEnv
	AIEnv
}

const namespace = "SPRINTSYNC"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}

func (e *BaseEnv) HTTPAddr() string {
	return net.JoinHostPort(e.HTTPHost, e.HTTPPort)
}

// DSN builds a lib/pq connection string.
func (e *DatabaseEnv) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		e.Host, e.Port, e.User, e.Password, e.Name, e.SSLMode,
	)
}
