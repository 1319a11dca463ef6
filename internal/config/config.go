package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
)

var ErrMissingAccessToken = eris.New("EXCEL_GITHUB_PAT is not set")

// Config holds all configuration for the job, the worker and the snapshot API.
type Config struct {
	GitHubToken   string
	GitHubAPIURL  string
	RegistryRepo  string
	ReviewerFile  string
	ContactFile   string
	RegistrySheet string

	PayrollURL       string
	PayrollAppCode   string
	PayrollUserID    string
	PayrollPowerType int
	PayrollIsLock    string
	PayrollSheet     string

	HTTPTimeout time.Duration

	SMTPUser         string
	SMTPPass         string
	SMTPHost         string
	SMTPPort         int
	SMTPFallbackPort int
	SMTPTimeout      time.Duration
	MailFromName     string
	MailReplyTo      string

	WindowHours         float64
	Checkpoints         []string
	CheckpointTolerance time.Duration
	Location            *time.Location

	ExcludedProjectGroups []string
	ExcludedBases         []string

	OutputPath   string
	DatabaseURL  string
	RedisURL     string
	ScheduleCron []string
	RefreshCron  []string
	APIAddr      string

	LogLevel  string
	LogFormat string
}

// LoadConfig reads configuration from environment variables (.env file)
func LoadConfig() (*Config, error) {
	// Don't fail if .env is not present, variables are usually set directly.
	_ = godotenv.Load()

	cfg := &Config{
		GitHubToken:   getEnv("EXCEL_GITHUB_PAT", ""),
		GitHubAPIURL:  strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
		RegistryRepo:  getEnv("REGISTRY_REPO", "BYTX-YGJ/excel"),
		ReviewerFile:  getEnv("REVIEWER_FILE", "工资核算人统计.xlsx"),
		ContactFile:   getEnv("CONTACT_FILE", "邮箱维护.xlsx"),
		RegistrySheet: getEnv("REGISTRY_SHEET", "Sheet1"),

		PayrollURL:     getEnv("PAYROLL_URL", "http://121.28.192.238:8562/salary-bytx/saUploadPayroll/getExcel"),
		PayrollAppCode: getEnv("PAYROLL_APP_CODE", "app_01"),
		PayrollUserID:  getEnv("PAYROLL_USER_ID", "0301592"),
		PayrollIsLock:  getEnv("PAYROLL_IS_LOCK", "0,2"),
		PayrollSheet:   getEnv("PAYROLL_SHEET", "Sheet0"),

		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPass:     getEnv("SMTP_PASS", ""),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.qiye.aliyun.com"),
		MailFromName: getEnv("MAIL_FROM_NAME", "工资核对提醒"),
		MailReplyTo:  getEnv("MAIL_REPLY_TO", ""),

		Checkpoints: splitList(getEnv("SCHEDULE_CHECKPOINTS", "09:00,13:30"), ","),

		ExcludedProjectGroups: splitList(getEnv("EXCLUDED_PROJECT_GROUPS", "共享中心,劳务派遣,招聘中台平台"), ","),
		ExcludedBases:         splitList(getEnv("EXCLUDED_BASES", "总部职能"), ","),

		OutputPath:   getEnv("OUTPUT_PATH", "output.json"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RedisURL:     getEnv("REDIS_URL", ""),
		ScheduleCron: splitList(getEnv("SCHEDULE_CRON", "0 * * * *;30 13 * * *"), ";"),
		RefreshCron:  splitList(getEnv("REFRESH_CRON", "*/30 * * * *"), ";"),
		APIAddr:      getEnv("API_ADDR", ":8080"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.PayrollPowerType, err = getEnvInt("PAYROLL_POWER_TYPE", 875); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = getEnvInt("SMTP_PORT", 465); err != nil {
		return nil, err
	}
	if cfg.SMTPFallbackPort, err = getEnvInt("SMTP_FALLBACK_PORT", 25); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getEnvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SMTPTimeout, err = getEnvDuration("SMTP_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.CheckpointTolerance, err = getEnvDuration("SCHEDULE_TOLERANCE", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.WindowHours, err = getEnvFloat("WINDOW_HOURS", 1.1); err != nil {
		return nil, err
	}

	tz := getEnv("TIMEZONE", "Asia/Shanghai")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, eris.Wrapf(err, "invalid TIMEZONE %q", tz)
	}

	return cfg, nil
}

// Validate checks the settings a reconciliation run cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GitHubToken) == "" {
		return ErrMissingAccessToken
	}
	if c.WindowHours <= 0 {
		return eris.Errorf("WINDOW_HOURS must be positive, got %v", c.WindowHours)
	}
	return nil
}

// Window is the recent window W as a duration.
func (c *Config) Window() time.Duration {
	return HoursToDuration(c.WindowHours)
}

func HoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// Helper function to get env var or return default
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s", key)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s", key)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s", key)
	}
	return v, nil
}

func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
