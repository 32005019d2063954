package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	ModelPath        string        `mapstructure:"MODEL_PATH"`
	LabelEncoderPath string        `mapstructure:"LABEL_ENCODER_PATH"`
	ModelServerURL   string        `mapstructure:"MODEL_SERVER_URL"`
	ModelTimeout     time.Duration `mapstructure:"MODEL_TIMEOUT"`
	ReportsDir       string        `mapstructure:"REPORTS_DIR"`
	DatasetPath      string        `mapstructure:"DATASET_PATH"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	MigrationsDir    string        `mapstructure:"MIGRATIONS_DIR"`
	SnapshotBaseName string        `mapstructure:"SNAPSHOT_BASE_NAME"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
	TelegramToken    string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	DoctorChatID     string        `mapstructure:"DOCTOR_CHAT_ID"`
	ReportFontPath   string        `mapstructure:"REPORT_FONT_PATH"`
}

var keys = []string{
	"PORT",
	"ENV",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"MODEL_PATH",
	"LABEL_ENCODER_PATH",
	"MODEL_SERVER_URL",
	"MODEL_TIMEOUT",
	"REPORTS_DIR",
	"DATASET_PATH",
	"DATABASE_URL",
	"MIGRATIONS_DIR",
	"SNAPSHOT_BASE_NAME",
	"CORS_ORIGINS",
	"TELEGRAM_BOT_TOKEN",
	"DOCTOR_CHAT_ID",
	"REPORT_FONT_PATH",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MODEL_PATH", "models/random_forest_pipeline.json")
	v.SetDefault("LABEL_ENCODER_PATH", "models/label_encoder.json")
	v.SetDefault("MODEL_TIMEOUT", "10s")
	v.SetDefault("REPORTS_DIR", "reports/figures")
	v.SetDefault("DATASET_PATH", "data/processed/obesity_gold.csv")
	v.SetDefault("MIGRATIONS_DIR", "file://migrations")
	v.SetDefault("SNAPSHOT_BASE_NAME", "obesity_silver")
	v.SetDefault("CORS_ORIGINS", "*")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = nil
	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// LogOutput is LOG_FORMAT when set, otherwise console in development and
// JSON everywhere else.
func (c *Config) LogOutput() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	if c.IsDev() {
		return "console"
	}
	return "json"
}

// SnapshotsEnabled reports whether a database is configured.
func (c *Config) SnapshotsEnabled() bool {
	return c.DatabaseURL != ""
}

// DeliveryEnabled reports whether reports can be sent to the doctor.
func (c *Config) DeliveryEnabled() bool {
	return c.TelegramToken != "" && c.DoctorChatID != ""
}

// Validate checks that the configuration is usable before anything starts.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	switch c.LogFormat {
	case "", "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be \"json\" or \"console\", got %q", c.LogFormat)
	}
	if c.ModelServerURL == "" && c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required when MODEL_SERVER_URL is not set")
	}
	if c.LabelEncoderPath == "" {
		return fmt.Errorf("LABEL_ENCODER_PATH is required")
	}
	if c.ModelTimeout <= 0 {
		return fmt.Errorf("MODEL_TIMEOUT must be positive, got %s", c.ModelTimeout)
	}
	if c.SnapshotBaseName == "" {
		return fmt.Errorf("SNAPSHOT_BASE_NAME must not be empty")
	}
	if (c.TelegramToken == "") != (c.DoctorChatID == "") {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and DOCTOR_CHAT_ID must be set together")
	}
	return nil
}
