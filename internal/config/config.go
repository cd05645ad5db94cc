package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"expensetracker/internal/analysis"

	"github.com/shopspring/decimal"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// Memory backend seed files
	DataDirectory string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Digest worker
	DigestInterval    time.Duration
	DigestConcurrency int

	LogLevel      string
	CurrencyLabel string

	// Insight thresholds
	BudgetWarnRatio        decimal.Decimal
	BudgetDangerRatio      decimal.Decimal
	AnomalyZScore          decimal.Decimal
	AnomalyMinDays         int
	TrendIncreaseRatio     decimal.Decimal
	SuggestionRoundingUnit decimal.Decimal
}

func Load() *Config {
	defaults := analysis.DefaultThresholds()
	return &Config{
		Port:          getEnv("PORT", "8081"),
		DataBackend:   getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/expensetracker.db"),
		DataDirectory: getEnv("DATA_DIRECTORY", "data"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expensetracker"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "insight_digests"),

		DigestInterval:    getEnvDuration("DIGEST_INTERVAL", time.Hour),
		DigestConcurrency: getEnvInt("DIGEST_CONCURRENCY", 4),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CurrencyLabel: getEnv("CURRENCY_LABEL", analysis.DefaultCurrencyLabel),

		BudgetWarnRatio:        getEnvDecimal("BUDGET_WARN_RATIO", defaults.WarnRatio),
		BudgetDangerRatio:      getEnvDecimal("BUDGET_DANGER_RATIO", defaults.DangerRatio),
		AnomalyZScore:          getEnvDecimal("ANOMALY_Z_SCORE", defaults.AnomalyZScore),
		AnomalyMinDays:         getEnvInt("ANOMALY_MIN_DAYS", defaults.AnomalyMinDays),
		TrendIncreaseRatio:     getEnvDecimal("TREND_INCREASE_RATIO", defaults.TrendIncrease),
		SuggestionRoundingUnit: getEnvDecimal("SUGGESTION_ROUNDING_UNIT", defaults.SuggestionRoundingUnit),
	}
}

// Thresholds returns the engine thresholds; lookback windows keep their defaults.
func (c *Config) Thresholds() analysis.Thresholds {
	t := analysis.DefaultThresholds()
	t.WarnRatio = c.BudgetWarnRatio
	t.DangerRatio = c.BudgetDangerRatio
	t.AnomalyZScore = c.AnomalyZScore
	t.AnomalyMinDays = c.AnomalyMinDays
	t.TrendIncrease = c.TrendIncreaseRatio
	t.SuggestionRoundingUnit = c.SuggestionRoundingUnit
	return t
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DigestInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid digest interval %v: must be at least 1 minute", c.DigestInterval))
	} else if c.DigestInterval > 7*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid digest interval %v: must be at most 7 days", c.DigestInterval))
	}
	if c.DigestConcurrency < 1 || c.DigestConcurrency > 64 {
		errors = append(errors, fmt.Sprintf("invalid digest concurrency %d: must be between 1 and 64", c.DigestConcurrency))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if !c.BudgetWarnRatio.IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid budget warn ratio %s: must be positive", c.BudgetWarnRatio))
	}
	if c.BudgetDangerRatio.LessThan(c.BudgetWarnRatio) {
		errors = append(errors, fmt.Sprintf("invalid budget danger ratio %s: must not be below warn ratio %s", c.BudgetDangerRatio, c.BudgetWarnRatio))
	}
	if !c.AnomalyZScore.IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid anomaly z-score %s: must be positive", c.AnomalyZScore))
	}
	if c.AnomalyMinDays < 2 {
		errors = append(errors, fmt.Sprintf("invalid anomaly min days %d: must be at least 2", c.AnomalyMinDays))
	}
	if c.TrendIncreaseRatio.IsNegative() {
		errors = append(errors, fmt.Sprintf("invalid trend increase ratio %s: must not be negative", c.TrendIncreaseRatio))
	}
	if !c.SuggestionRoundingUnit.IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid suggestion rounding unit %s: must be positive", c.SuggestionRoundingUnit))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}
