package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Settings holds runtime configuration read from the environment.
type Settings struct {
	Port        string
	Env         string
	LogLevel    string
	DBPath      string
	ScenarioDir string
	// ProfilesFile is a JSON list of company profiles.
	ProfilesFile string
	// StaticDir holds a built web UI; it is served when present.
	StaticDir   string
	CORSOrigins []string

	NewsAPIKey      string
	GeminiAPIKey    string
	AnthropicAPIKey string
	LLMProvider     string // "gemini" or "anthropic"
	LLMModel        string

	// MonitorSchedule is a cron spec; empty disables the in-process monitor.
	MonitorSchedule string
	BrowserFallback bool

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	AlertFrom    string
	AlertTo      []string
}

// LoadSettings reads .env files (if any) and then the process environment.
// Variables already set in the environment win over .env values.
func LoadSettings(envFiles ...string) *Settings {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	return &Settings{
		Port:         getEnv("API_PORT", "8080"),
		Env:          getEnv("API_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBPath:       getEnv("DB_PATH", "companies_data.db"),
		ScenarioDir:  getEnv("SCENARIO_DIR", "examples/scenarios"),
		ProfilesFile: getEnv("PROFILES_FILE", "data/profiles.json"),
		StaticDir:    getEnv("STATIC_DIR", "./web/dist"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "")),

		NewsAPIKey:      getEnv("NEWS_API_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		LLMModel:        getEnv("LLM_MODEL", ""),

		MonitorSchedule: getEnv("MONITOR_SCHEDULE", ""),
		BrowserFallback: getEnvBool("BROWSER_FALLBACK", false),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		AlertFrom:    getEnv("ALERT_FROM", ""),
		AlertTo:      splitList(getEnv("ALERT_TO", "")),
	}
}

// NewLogger builds the JSON logrus logger used by every binary.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return defaultVal
	}
	return b
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
