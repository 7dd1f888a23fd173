package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	DBDriver string // mysql | sqlite
	DBDSN    string

	RedisAddr  string
	RedisDB    int
	RedisPass  string
	SessionTTL time.Duration
	CacheTTL   time.Duration

	PDFStrategy  string // gotenberg | vector
	GotenbergURL string
	RenderRPS    int

	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	SMTPFrom    string
	AgencyEmail string

	Timezone       *time.Location
	RequestTimeout time.Duration
	NotifyWorkers  int
}

// AppEnv is APP_ENV, defaulting to prod. Mains read it before Load so the
// logger is set up before Load warns.
func AppEnv() string { return env("APP_ENV", "prod") }

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      AppEnv(),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),

		DBDriver: env("DB_DRIVER", "mysql"),
		DBDSN:    env("DATABASE_DSN", "root:root@tcp(localhost:3306)/inquiries?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),

		RedisAddr:  env("REDIS_ADDR", "localhost:6379"),
		RedisPass:  env("REDIS_PASSWORD", ""),
		RedisDB:    atoi("REDIS_DB", 0),
		SessionTTL: time.Duration(atoi("SESSION_TTL_SECONDS", 86400)) * time.Second,
		CacheTTL:   time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		PDFStrategy:  env("PDF_STRATEGY", "gotenberg"),
		GotenbergURL: env("GOTENBERG_URL", "http://localhost:3000"),
		RenderRPS:    atoi("RENDER_RPS", 5),

		SMTPHost:    env("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:    atoi("SMTP_PORT", 587),
		SMTPUser:    env("SMTP_USER", ""),
		SMTPPass:    env("SMTP_PASS", ""),
		SMTPFrom:    env("SMTP_FROM", ""),
		AgencyEmail: env("AGENCY_EMAIL", ""),

		Timezone:       location(env("TIMEZONE", "UTC")),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		NotifyWorkers:  atoi("NOTIFY_WORKERS", 4),
	}
	if c.SMTPUser == "" || c.SMTPPass == "" {
		log.Warn().Msg("SMTP_USER or SMTP_PASS is empty")
	}
	if c.AgencyEmail == "" {
		c.AgencyEmail = c.SMTPUser
		log.Warn().Str("fallback", c.AgencyEmail).Msg("AGENCY_EMAIL is empty, using SMTP_USER")
	}
	if c.NotifyWorkers < 1 {
		c.NotifyWorkers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func location(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("unknown TIMEZONE, using UTC")
		return time.UTC
	}
	return loc
}
