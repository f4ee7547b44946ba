package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port     string
	DataPath string
	Env      string
	LogLevel string

	// Document numbering scheme. The separator also delimits the trailing
	// sequence segment, so "KP" + "/" reproduces the KP/2025/03/054 format.
	InvoicePrefix   string
	QuotationPrefix string
	NumberSeparator string
	NumberSplitDate bool
	NumberSeqWidth  int

	// Company defaults stamped onto fresh documents.
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by user) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DataPath = getEnv("DATA_PATH", "lakbill.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.InvoicePrefix = getEnv("NUMBER_PREFIX_INVOICE", "INV")
	cfg.QuotationPrefix = getEnv("NUMBER_PREFIX_QUOTATION", "QTN")
	cfg.NumberSeparator = getEnv("NUMBER_SEPARATOR", "-")
	cfg.NumberSplitDate = ParseBool("NUMBER_SPLIT_DATE", false)
	cfg.NumberSeqWidth = parseInt("NUMBER_SEQ_WIDTH", 3)
	cfg.CompanyName = getEnv("COMPANY_NAME", "Your Company (PVT) LTD")
	cfg.CompanyAddress = getEnv("COMPANY_ADDRESS", "123, Main Street, Colombo 07, Sri Lanka")
	cfg.CompanyPhone = getEnv("COMPANY_PHONE", "+94 11 222 3333")
	cfg.CompanyEmail = getEnv("COMPANY_EMAIL", "info@yourcompany.lk")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
