package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures process-wide configuration. Everything is read once at
// startup and injected explicitly; no package keeps ambient globals.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string

	KafkaBrokers []string
	AuditTopic   string

	JWTSigningKey    string
	PublicLinkSecret string
	FileTokenTTL     time.Duration

	StaticDir        string
	CardTemplatePath string

	SMTPAddr string
	SMTPFrom string

	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	GateCacheTTL    time.Duration
	ShutdownTimeout time.Duration
}

// Load builds a Config from environment variables so main stays lean. A .env
// file in the working directory is honored when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:             getEnv("GATEPASS_ADDR", ":8000"),
		DatabaseURL:      os.Getenv("GATEPASS_DATABASE_URL"),
		RedisURL:         os.Getenv("GATEPASS_REDIS_URL"),
		KafkaBrokers:     splitList(os.Getenv("GATEPASS_KAFKA_BROKERS")),
		AuditTopic:       getEnv("GATEPASS_AUDIT_TOPIC", "gatepass.audit"),
		JWTSigningKey:    getEnv("GATEPASS_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		PublicLinkSecret: getEnv("GATEPASS_PUBLIC_LINK_SECRET", "default_secret"),
		FileTokenTTL:     getDuration("GATEPASS_FILE_TOKEN_TTL", 30*24*time.Hour),
		StaticDir:        getEnv("GATEPASS_STATIC_DIR", "static"),
		CardTemplatePath: os.Getenv("GATEPASS_CARD_TEMPLATE"),
		SMTPAddr:         os.Getenv("GATEPASS_SMTP_ADDR"),
		SMTPFrom:         getEnv("GATEPASS_SMTP_FROM", "noreply@gatepass.local"),

		BootstrapAdminEmail:    os.Getenv("GATEPASS_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("GATEPASS_ADMIN_PASSWORD"),
		GateCacheTTL:           getDuration("GATEPASS_GATE_CACHE_TTL", 30*time.Second),
		ShutdownTimeout:        getDuration("GATEPASS_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
