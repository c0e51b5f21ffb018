package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Session      SessionConfig
	Storage      StorageConfig
	SMTP         SMTPConfig
	Notification NotificationConfig
	Search       SearchConfig
	CORS         CORSConfig
	RateLimit    RateLimitConfig
	Bootstrap    BootstrapConfig
	Attendance   AttendanceConfig
}

type AppConfig struct {
	Env            string
	Port           string
	Timezone       string
	RequestTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

type DatabaseConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Broker            string
	NotificationGroup string
	PollInterval      time.Duration
}

type SessionConfig struct {
	TTL time.Duration
}

type StorageConfig struct {
	Driver        string // minio | cloudinary
	MaxUploadSize int64
	Minio         MinioConfig
	CloudinaryURL string
	Folder        string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
	TLS      bool
}

type NotificationConfig struct {
	Mode   string // direct | outbox | disabled
	AppURL string
}

type SearchConfig struct {
	MeiliHost string
	MeiliKey  string
	Index     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

// AttendanceConfig bounds self-service marking. HR corrections ignore
// the window.
type AttendanceConfig struct {
	BackdateDays int
}

type BootstrapConfig struct {
	HRName       string
	HREmail      string
	HRPassword   string
	HREmployeeID string
}

const (
	NotificationDirect   = "direct"
	NotificationOutbox   = "outbox"
	NotificationDisabled = "disabled"

	StorageMinio      = "minio"
	StorageCloudinary = "cloudinary"
)

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		App: AppConfig{
			Env:            getEnv("APP_ENV", "development"),
			Port:           getEnv("PORT", "3000"),
			Timezone:       getEnv("APP_TIMEZONE", "Asia/Kolkata"),
			RequestTimeout: getDuration("REQUEST_TIMEOUT", 15*time.Second),
			ReadTimeout:    getDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", "onboarding"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			MaxRetries: getInt("DB_MAX_RETRIES", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Broker:            getEnv("KAFKA_BROKER", ""),
			NotificationGroup: getEnv("KAFKA_NOTIFICATION_GROUP", "onboarding-notification-mailer"),
			PollInterval:      getDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		},
		Session: SessionConfig{
			TTL: getDuration("SESSION_TTL", 24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", StorageMinio),
			MaxUploadSize: int64(getInt("MAX_UPLOAD_SIZE_BYTES", 5<<20)),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "onboarding-documents"),
				UseSSL:    getBool("MINIO_USE_SSL", false),
			},
			CloudinaryURL: getEnv("CLOUDINARY_URL", ""),
			Folder:        getEnv("STORAGE_FOLDER", "onboarding"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@example.com"),
			Timeout:  getDuration("SMTP_TIMEOUT", 10*time.Second),
			TLS:      getBool("SMTP_TLS", true),
		},
		Notification: NotificationConfig{
			Mode:   strings.ToLower(getEnv("NOTIFICATION_MODE", NotificationDirect)),
			AppURL: getEnv("APP_URL", "http://localhost:5173"),
		},
		Search: SearchConfig{
			MeiliHost: getEnv("MEILI_HOST", ""),
			MeiliKey:  getEnv("MEILI_MASTER_KEY", ""),
			Index:     getEnv("MEILI_ROSTER_INDEX", "master_employees"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		RateLimit: RateLimitConfig{
			PerSecond: getFloat("RATE_LIMIT_RPS", 10),
			Burst:     getInt("RATE_LIMIT_BURST", 20),
		},
		Bootstrap: BootstrapConfig{
			HRName:       getEnv("DEFAULT_HR_NAME", "HR Admin"),
			HREmail:      getEnv("DEFAULT_HR_EMAIL", "hr@example.com"),
			HRPassword:   getEnv("DEFAULT_HR_PASSWORD", ""),
			HREmployeeID: getEnv("DEFAULT_HR_EMPLOYEE_ID", "100000"),
		},
		Attendance: AttendanceConfig{
			BackdateDays: getInt("ATTENDANCE_BACKDATE_DAYS", 7),
		},
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Notification.Mode {
	case NotificationDirect, NotificationOutbox, NotificationDisabled:
	default:
		return fmt.Errorf("NOTIFICATION_MODE must be one of direct, outbox, disabled (got %q)", c.Notification.Mode)
	}
	switch c.Storage.Driver {
	case StorageMinio, StorageCloudinary:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be minio or cloudinary (got %q)", c.Storage.Driver)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	if c.Attendance.BackdateDays < 0 {
		return fmt.Errorf("ATTENDANCE_BACKDATE_DAYS must not be negative")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Notification.Mode == NotificationOutbox && c.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required when NOTIFICATION_MODE=outbox")
	}
	return nil
}

// Location returns the timezone used to decide what "today" is.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
