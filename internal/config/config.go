package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"field-survey-bot/pkg/survey"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Telegram TelegramConfig
	Survey   SurveyConfig
	Report   ReportConfig
}

type AppConfig struct {
	Port              string `validate:"required,numeric"`
	BaseURL           string
	Environment       string `validate:"oneof=development production test"`
	LogFilePath       string `validate:"required"`
	ReportLogFilePath string `validate:"required"`
	StaticDir         string
	NatsURL           string
	RedisURL          string
	JWTSecret         string
	OtelEnabled       bool
	OtelEndpoint      string  `validate:"required_if=OtelEnabled true"`
	OtelSampleRatio   float64 `validate:"min=0,max=1"`
}

type DatabaseConfig struct {
	// Empty disables the report archive.
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int `validate:"min=1,max=65535"`
	Email      string
	Password   string
	SenderName string
}

type TelegramConfig struct {
	BotToken       string `validate:"required"`
	APIURL         string `validate:"required,url"`
	WebhookSecret  string
	RequestTimeout time.Duration `validate:"min=0"`
}

type SurveyConfig struct {
	ResetCommand string `validate:"required"`
	// Zero keeps sessions until they complete or are reset.
	SessionIdleTTL time.Duration `validate:"min=0"`
	Companies      []string      `validate:"min=1,dive,required"`
	UpdateDedupTTL time.Duration `validate:"gt=0"`
}

type ReportConfig struct {
	Topic      string   `validate:"required"`
	Recipients []string `validate:"dive,email"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:              getEnv("APP_PORT", "3000"),
			BaseURL:           getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:       getEnv("GO_ENV", "development"),
			LogFilePath:       getEnv("LOG_FILE_PATH", "logs/app.log"),
			ReportLogFilePath: getEnv("REPORT_LOG_FILE_PATH", "logs/report.log"),
			StaticDir:         getEnv("STATIC_DIR", "./static"),
			NatsURL:           getEnv("NATS_URL", ""),
			RedisURL:          getEnv("REDIS_URL", ""),
			JWTSecret:         getEnv("JWT_SECRET", ""),
			OtelEnabled:       getEnv("OTEL_ENABLED", "false") == "true",
			OtelEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			OtelSampleRatio:   getEnvAsFloat("OTEL_TRACES_SAMPLER_ARG", 1),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Field Survey Bot"),
		},
		Telegram: TelegramConfig{
			BotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIURL:         getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			WebhookSecret:  getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
			RequestTimeout: getEnvAsDuration("TELEGRAM_REQUEST_TIMEOUT", 15*time.Second),
		},
		Survey: SurveyConfig{
			ResetCommand:   strings.TrimSpace(getEnv("SURVEY_RESET_COMMAND", survey.DefaultResetCommand)),
			SessionIdleTTL: getEnvAsDuration("SURVEY_SESSION_IDLE_TTL", 0),
			Companies:      getEnvAsList("SURVEY_COMPANIES", []string{"COMINO", "BF IMPIANTI"}),
			UpdateDedupTTL: getEnvAsDuration("SURVEY_UPDATE_DEDUP_TTL", 24*time.Hour),
		},
		Report: ReportConfig{
			Topic:      getEnv("REPORT_TOPIC", "SURVEY_REPORTS"),
			Recipients: getEnvAsList("REPORT_RECIPIENTS", nil),
		},
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	return validate.Struct(c)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// CompanyList turns the configured display names into selectable
// companies. The callback slug is the lowercased name with spaces replaced
// by underscores ("BF IMPIANTI" becomes "bf_impianti").
func (c SurveyConfig) CompanyList() []survey.Company {
	companies := make([]survey.Company, 0, len(c.Companies))
	for _, name := range c.Companies {
		slug := strings.ToLower(strings.Join(strings.Fields(name), "_"))
		companies = append(companies, survey.Company{ID: slug, Name: name})
	}
	return companies
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("30m") or plain seconds ("1800").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
