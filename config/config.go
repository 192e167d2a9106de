// Package config загружает настройки: значения по умолчанию, затем YAML-файл,
// затем переменные окружения (в том числе из .env).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Vaflel/planning/infrastructure"
	"github.com/Vaflel/planning/pdfdoc"
)

// Config настройки приложения
type Config struct {
	HTTPAddr         string                       `yaml:"http_addr"`
	APIBaseURL       string                       `yaml:"api_base_url"`
	APITimeout       time.Duration                `yaml:"api_timeout"`
	TemplatesDir     string                       `yaml:"templates_dir"`
	Templates        infrastructure.TemplateFiles `yaml:"templates"`
	TokenDBPath      string                       `yaml:"token_db_path"`
	CacheTTL         time.Duration                `yaml:"cache_ttl"`
	ISOCode          string                       `yaml:"iso_code"`
	FallbackLocation string                       `yaml:"fallback_location"`
	ImportCharset    string                       `yaml:"import_charset"`
	OpenBrowser      bool                         `yaml:"open_browser"`
}

// Default настройки без файла и окружения
func Default() Config {
	return Config{
		HTTPAddr:         ":8060",
		APIBaseURL:       "http://localhost:5000",
		APITimeout:       30 * time.Second,
		TemplatesDir:     "templates",
		Templates:        infrastructure.DefaultTemplateFiles,
		TokenDBPath:      "data/auth.db",
		CacheTTL:         infrastructure.DefaultCacheTTL,
		ISOCode:          pdfdoc.DefaultISOCode,
		FallbackLocation: "GAFSA",
		ImportCharset:    "windows-1252",
		OpenBrowser:      true,
	}
}

// Load читает файл (отсутствующий файл не ошибка) и применяет переменные окружения
func Load(filename string) (Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("не удалось прочитать файл: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("не удалось распарсить YAML: %w", err)
			}
		}
	}

	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.APIBaseURL = getenv("API_BASE_URL", cfg.APIBaseURL)
	cfg.APITimeout = getenvDuration("API_TIMEOUT", cfg.APITimeout)
	cfg.TemplatesDir = getenv("TEMPLATES_DIR", cfg.TemplatesDir)
	cfg.TokenDBPath = getenv("TOKEN_DB_PATH", cfg.TokenDBPath)
	cfg.CacheTTL = getenvDuration("CACHE_TTL", cfg.CacheTTL)
	cfg.ISOCode = getenv("ISO_CODE", cfg.ISOCode)
	cfg.FallbackLocation = getenv("FALLBACK_LOCATION", cfg.FallbackLocation)
	cfg.ImportCharset = getenv("IMPORT_CHARSET", cfg.ImportCharset)
	cfg.OpenBrowser = getenvBool("OPEN_BROWSER", cfg.OpenBrowser)

	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
