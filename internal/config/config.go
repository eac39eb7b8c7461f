package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	AccessTokenTTL         time.Duration
	VerificationTokenTTL   time.Duration
	AdminSignupCode        string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	AudioNamespace         string
	AudioMaxSizeMB         int
	PassageCacheTTL        time.Duration
	SendGridAPIKey         string
	MailFromAddress        string
	PublicBaseURL          string
	LoginURL               string
	AuthRateLimit          int
	CORSAllowOrigins       string
	RedisTimeout           time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// VerificationURL returns the absolute URL of the email verification endpoint.
func (c Config) VerificationURL() string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/api/v1/auth/verify"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LITERACY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Literacy API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("jwt.access_ttl", "12h")
	v.SetDefault("verification.ttl", "24h")
	v.SetDefault("cloudinary.folder", "literacy")
	v.SetDefault("audio.namespace", "fluency-reading")
	v.SetDefault("audio.max_size_mb", 25)
	v.SetDefault("passages.cache_ttl", "5m")
	v.SetDefault("mail.from", "no-reply@literacy.local")
	v.SetDefault("public.base_url", "http://localhost:8080")
	v.SetDefault("public.login_url", "http://localhost:3000/login")
	v.SetDefault("auth.rate_limit", 20)
	v.SetDefault("redis.timeout", "3s")

	accessTTL, err := parseDuration(v, "jwt.access_ttl")
	if err != nil {
		return Config{}, err
	}

	verificationTTL, err := parseDuration(v, "verification.ttl")
	if err != nil {
		return Config{}, err
	}

	cacheTTL, err := parseDuration(v, "passages.cache_ttl")
	if err != nil {
		return Config{}, err
	}

	redisTimeout, err := parseDuration(v, "redis.timeout")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		AccessTokenTTL:         accessTTL,
		VerificationTokenTTL:   verificationTTL,
		AdminSignupCode:        v.GetString("admin.signup_code"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		AudioNamespace:         strings.Trim(v.GetString("audio.namespace"), "/"),
		AudioMaxSizeMB:         v.GetInt("audio.max_size_mb"),
		PassageCacheTTL:        cacheTTL,
		SendGridAPIKey:         v.GetString("sendgrid.api_key"),
		MailFromAddress:        v.GetString("mail.from"),
		PublicBaseURL:          v.GetString("public.base_url"),
		LoginURL:               v.GetString("public.login_url"),
		AuthRateLimit:          v.GetInt("auth.rate_limit"),
		CORSAllowOrigins:       v.GetString("cors.allow_origins"),
		RedisTimeout:           redisTimeout,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.AudioNamespace == "" {
		cfg.AudioNamespace = "fluency-reading"
	}

	if cfg.AudioMaxSizeMB <= 0 {
		cfg.AudioMaxSizeMB = 25
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return parsed, nil
}
