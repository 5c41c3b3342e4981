// Package config
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address        string
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string

	MongoURI string
	MongoDB  string

	TokenSecret string
	JWTExpiry   time.Duration

	RedisAddr     string
	LoginRateMax  int
	LoginRateSpan time.Duration

	SMTPHost     string
	SMTPPort     int
	MailUsername string
	MailPassword string
	MailFrom     string
	AppURL       string
}

func Load() *Config {
	_ = godotenv.Load()

	// Logs
	logLevel := getEnv("LOG_LEVEL", "info")
	logFormat := getEnv("LOG_FORMAT", "text")

	// Server HTTP Address
	addr := getEnv("HTTP_ADDR", ":7000")

	// Server Allowed Origins
	var origins []string
	rawOrigins := os.Getenv("ALLOWED_ORIGINS")
	if rawOrigins != "" {
		parts := strings.SplitSeq(rawOrigins, ",")
		for o := range parts {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	// Document Store
	mongoURI := getEnv("MONGODB_URI", "mongodb://localhost:27017")
	mongoDB := getEnv("MONGODB_DB", "mailauth")

	// Token Secret and Expiry
	tokenSecret := getEnv("TOKEN_SECRET", "")
	jwtExpiry := 24 * time.Hour
	if raw := os.Getenv("JWT_EXPIRY"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil && duration > 0 {
			jwtExpiry = duration
		}
	}

	// Login/Reset Rate Limiting (disabled when REDIS_ADDR is empty)
	redisAddr := os.Getenv("REDIS_ADDR")
	loginRateMax := getEnvInt("LOGIN_RATE_MAX", 10)
	loginRateSpan := time.Minute
	if raw := os.Getenv("LOGIN_RATE_SPAN"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil && duration > 0 {
			loginRateSpan = duration
		}
	}

	// Mail Relay Credentials
	smtpHost := getEnv("SMTP_HOST", "smtp.gmail.com")
	smtpPort := getEnvInt("SMTP_PORT", 587)
	mailUsername := getEnv("AUTH_EMAIL", "")
	mailPassword := getEnv("AUTH_PASS", "")
	mailFrom := getEnv("MAIL_FROM", mailUsername)

	// Frontend base URL used in reset links when the client omits one
	appURL := getEnv("APP_URL", "http://localhost:3000")

	return &Config{
		LogLevel:  logLevel,
		LogFormat: logFormat,

		Address:        addr,
		AllowedOrigins: origins,

		MongoURI: mongoURI,
		MongoDB:  mongoDB,

		TokenSecret: tokenSecret,
		JWTExpiry:   jwtExpiry,

		RedisAddr:     redisAddr,
		LoginRateMax:  loginRateMax,
		LoginRateSpan: loginRateSpan,

		SMTPHost:     smtpHost,
		SMTPPort:     smtpPort,
		MailUsername: mailUsername,
		MailPassword: mailPassword,
		MailFrom:     mailFrom,
		AppURL:       appURL,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
