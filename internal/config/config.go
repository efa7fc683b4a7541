package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Lllllllleong/passscan/internal/gcp"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of the scan service.
type Config struct {
	CredentialsFile string        `yaml:"credentials_file"`
	ProjectID       string        `yaml:"project_id"`
	Server          ServerConfig  `yaml:"server"`
	Gemini          GeminiConfig  `yaml:"gemini"`
	Staging         StagingConfig `yaml:"staging"`
	Scan            ScanConfig    `yaml:"scan"`
	Audit           AuditConfig   `yaml:"audit"`
	Log             LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type GeminiConfig struct {
	Region string `yaml:"region"`
	Model  string `yaml:"model"`

	// Timeout bounds the remote leg of one file. Zero means none.
	Timeout time.Duration `yaml:"timeout"`
}

type StagingConfig struct {
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`
	TempDir string `yaml:"temp_dir"`
}

type ScanConfig struct {
	Concurrency  int  `yaml:"concurrency"`
	PDFPreflight bool `yaml:"pdf_preflight"`
	MaxPDFPages  int  `yaml:"max_pdf_pages"`
}

type AuditConfig struct {
	// Collection is the Firestore collection for batch audit entries. Empty disables auditing.
	Collection string `yaml:"collection"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Port: 8000},
		Gemini: GeminiConfig{
			Region: "us-central1",
			Model:  gcp.DefaultGeminiModel,
		},
		Staging: StagingConfig{
			Prefix:  "scan-staging",
			TempDir: "tmp",
		},
		Scan: ScanConfig{
			Concurrency:  1,
			PDFPreflight: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the optional YAML file named by CONFIG_FILE and then applies
// environment overrides. The result is not validated.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := gcp.GetEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.CredentialsFile = envString("GOOGLE_APPLICATION_CREDENTIALS", c.CredentialsFile)
	c.ProjectID = envString("PROJECT_ID", c.ProjectID)
	c.Gemini.Region = envString("VERTEX_AI_REGION", c.Gemini.Region)
	c.Gemini.Model = envString("GEMINI_MODEL", c.Gemini.Model)
	c.Staging.Bucket = envString("STAGING_BUCKET", c.Staging.Bucket)
	c.Staging.Prefix = envString("STAGING_PREFIX", c.Staging.Prefix)
	c.Staging.TempDir = envString("TEMP_DIR", c.Staging.TempDir)
	c.Audit.Collection = envString("FIRESTORE_COLLECTION", c.Audit.Collection)
	c.Log.Level = envString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = envString("LOG_FORMAT", c.Log.Format)

	var err error
	if c.Server.Port, err = envInt("PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Scan.Concurrency, err = envInt("SCAN_CONCURRENCY", c.Scan.Concurrency); err != nil {
		return err
	}
	if c.Scan.MaxPDFPages, err = envInt("MAX_PDF_PAGES", c.Scan.MaxPDFPages); err != nil {
		return err
	}
	if c.Scan.PDFPreflight, err = envBool("PDF_PREFLIGHT", c.Scan.PDFPreflight); err != nil {
		return err
	}
	if raw := gcp.GetEnv("EXTRACTION_TIMEOUT", ""); raw != "" {
		d, err := parseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid EXTRACTION_TIMEOUT %q: %w", raw, err)
		}
		c.Gemini.Timeout = d
	}
	return nil
}

// Validate fails fast on settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.CredentialsFile == "" {
		errs = append(errs, errors.New("GOOGLE_APPLICATION_CREDENTIALS environment variable must be set"))
	}
	if c.ProjectID == "" {
		errs = append(errs, errors.New("PROJECT_ID environment variable must be set"))
	}
	if c.Staging.Bucket == "" {
		errs = append(errs, errors.New("STAGING_BUCKET environment variable must be set"))
	}
	if c.Staging.TempDir == "" {
		errs = append(errs, errors.New("TEMP_DIR must not be empty"))
	}
	if c.Scan.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("SCAN_CONCURRENCY must be at least 1, got %d", c.Scan.Concurrency))
	}
	if c.Scan.MaxPDFPages < 0 {
		errs = append(errs, fmt.Errorf("MAX_PDF_PAGES must not be negative, got %d", c.Scan.MaxPDFPages))
	}
	if c.Gemini.Timeout < 0 {
		errs = append(errs, fmt.Errorf("EXTRACTION_TIMEOUT must not be negative, got %s", c.Gemini.Timeout))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	return errors.Join(errs...)
}

// envString treats an empty variable like an unset one.
func envString(key, fallback string) string {
	if v := strings.TrimSpace(gcp.GetEnv(key, "")); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(gcp.GetEnv(key, ""))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func envBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(gcp.GetEnv(key, ""))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// parseDuration accepts Go durations ("90s") and bare seconds ("90").
func parseDuration(raw string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(raw)
}
