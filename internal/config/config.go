package config

import (
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var Version = "dev"

const ServiceName = "PDF to Word Converter"

const (
	MaxContentLength = 50 * 1024 * 1024
	FileRetention    = 1 * time.Hour
	RateLimitWindow  = 60 * time.Second
	TargetExt        = "docx"
	TargetMIME       = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	DefaultSecretKey = "dev-secret-key-change-in-production"
)

var AllowedExtensions = []string{"pdf"}

// Config is built once at startup and handed to every component by value.
type Config struct {
	Host  string
	Port  string
	Debug bool

	SecretKey string

	UploadDir    string
	ConvertedDir string

	ConverterBin   string
	ConvertTimeout time.Duration

	Retention      time.Duration
	SweepInterval  time.Duration
	DiskSpaceMinGB float64

	MaxUploadBytes int64
	AllowedExts    []string

	RateLimitMax int

	DiscordWebhookURL string
	DiscordPingUserID string
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c Config) DiscordAlerts() bool {
	return c.DiscordWebhookURL != ""
}

// SetDefaults registers every key Load reads so AutomaticEnv can find them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "5000")
	v.SetDefault("app_env", "production")
	v.SetDefault("debug", false)
	v.SetDefault("secret_key", DefaultSecretKey)
	v.SetDefault("upload_folder", "uploads")
	v.SetDefault("converted_folder", "converted")
	v.SetDefault("converter_bin", "pdf2docx")
	v.SetDefault("convert_timeout", "0s")
	v.SetDefault("sweep_interval", "0s")
	v.SetDefault("disk_space_min_gb", 1)
	v.SetDefault("rate_limit_max", 30)
	v.SetDefault("discord_webhook_url", "")
	v.SetDefault("discord_ping_user_id", "")
}

// Load reads the configuration from v. Callers are expected to have
// populated the process environment (godotenv) and bound any flags.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Host:              v.GetString("host"),
		Port:              v.GetString("port"),
		Debug:             v.GetBool("debug") || strings.EqualFold(v.GetString("app_env"), "development"),
		SecretKey:         v.GetString("secret_key"),
		UploadDir:         v.GetString("upload_folder"),
		ConvertedDir:      v.GetString("converted_folder"),
		ConverterBin:      v.GetString("converter_bin"),
		ConvertTimeout:    v.GetDuration("convert_timeout"),
		Retention:         FileRetention,
		SweepInterval:     v.GetDuration("sweep_interval"),
		DiskSpaceMinGB:    v.GetFloat64("disk_space_min_gb"),
		MaxUploadBytes:    MaxContentLength,
		AllowedExts:       append([]string(nil), AllowedExtensions...),
		RateLimitMax:      v.GetInt("rate_limit_max"),
		DiscordWebhookURL: v.GetString("discord_webhook_url"),
		DiscordPingUserID: v.GetString("discord_ping_user_id"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	if cfg.SecretKey == DefaultSecretKey {
		log.Println("[WARN] SECRET_KEY not set, using the development default")
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.UploadDir == "" || c.ConvertedDir == "" {
		return fmt.Errorf("upload and converted folders are required")
	}
	if c.ConverterBin == "" {
		return fmt.Errorf("converter binary is required")
	}
	if c.ConvertTimeout < 0 || c.SweepInterval < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.RateLimitMax < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}

func Contains(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}
