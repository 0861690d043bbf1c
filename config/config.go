package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Mongo    MongoConfig
	Auth     AuthConfig
	Report   ReportConfig
	Gemini   GeminiConfig
	Notify   NotifyConfig
	GCS      GCSConfig
	Log      LogConfig
	CacheDir string `env:"CACHE_DIR" env-default:".cache"`
}

type ServerConfig struct {
	Port               string        `env:"SERVER_PORT"          env-default:"8080"`
	GinMode            string        `env:"GIN_MODE"             env-default:"release"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173" env-separator:","`
	SessionCacheSize   int           `env:"SESSION_CACHE_SIZE"   env-default:"1024"`
	SessionIdleTTL     time.Duration `env:"SESSION_IDLE_TTL"     env-default:"12h"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"      env-default:"10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI"      env-required:"true"`
	Database string `env:"MONGODB_DATABASE" env-default:"canal_denuncies"`
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"        env-required:"true"`
	SessionTTL      time.Duration `env:"SESSION_TTL"       env-default:"8h"`
	DefaultAdminPIN string        `env:"DEFAULT_ADMIN_PIN" env-default:"handbolmolins1944"`
}

type ReportConfig struct {
	Entity             string        `env:"CLUB_ENTITY"          env-default:"CH Molins"`
	AttachmentMaxBytes int64         `env:"ATTACHMENT_MAX_BYTES" env-default:"204800"`
	ResyncInterval     time.Duration `env:"RESYNC_INTERVAL"      env-default:"2m"`
	Timezone           string        `env:"REPORT_TIMEZONE"      env-default:"Europe/Madrid"`
}

type GeminiConfig struct {
	APIKey string `env:"GEMINI_API_KEY"`
	Model  string `env:"GEMINI_MODEL" env-default:"gemini-3-flash-preview"`
}

type NotifyConfig struct {
	SendGridAPIKey     string `env:"SENDGRID_API_KEY"`
	SendGridTemplateID string `env:"SENDGRID_TEMPLATE_ID"`
	FromEmail          string `env:"NOTIFY_FROM_EMAIL"`
	FromName           string `env:"NOTIFY_FROM_NAME" env-default:"CANAL DE DENÚNCIES - CH MOLINS"`
	ToEmail            string `env:"NOTIFY_TO_EMAIL"`
	SMTPHost           string `env:"SMTP_HOST"  env-default:"smtp.gmail.com"`
	SMTPPort           string `env:"SMTP_PORT"  env-default:"587"`
	SMTPUser           string `env:"EMAIL_FROM"`
	SMTPPass           string `env:"EMAIL_PASS"`
}

type GCSConfig struct {
	Bucket          string `env:"GCS_BUCKET"`
	Folder          string `env:"GCS_FOLDER" env-default:"canal_denuncies"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 bytes"))
	}
	if len(c.Auth.DefaultAdminPIN) < 4 {
		errs = append(errs, errors.New("DEFAULT_ADMIN_PIN must be at least 4 characters"))
	}
	if c.Report.AttachmentMaxBytes <= 0 {
		errs = append(errs, errors.New("ATTACHMENT_MAX_BYTES must be positive"))
	}
	if c.Report.ResyncInterval < time.Second {
		errs = append(errs, errors.New("RESYNC_INTERVAL must be at least 1s"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("REPORT_TIMEZONE: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q: want text or json", c.Log.Format))
	}
	if c.Notify.SendGridAPIKey != "" && c.Notify.ToEmail == "" {
		errs = append(errs, errors.New("NOTIFY_TO_EMAIL is required when SENDGRID_API_KEY is set"))
	}
	return errors.Join(errs...)
}

// Location returns the timezone used to format report timestamps in notifications.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
