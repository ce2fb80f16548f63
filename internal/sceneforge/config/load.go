package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		if strings.TrimSpace(u) == "" {
			d.Duration = 0
			return nil
		}
		dd, err := time.ParseDuration(u)
		if err != nil {
			return err
		}
		d.Duration = dd
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Env:     "development",
		Version: "dev",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxUploadBytes:    50 << 20,
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
			},
		},
		Pipeline: PipelineConfig{
			AnalysisCharLimit: 15000,
			MaxMatches:        5,
			AudioConcurrency:  1,
		},
		Storage: StorageConfig{
			Mode:      "local",
			LocalRoot: "data",
		},
		History: HistoryConfig{
			Driver: "sqlite",
			DSN:    "data/sceneforge.db",
		},
	}
}

// Load builds the effective config: defaults, then the optional JSON
// file at SF_CONFIG_PATH (or ./config/config.json), then env overrides.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("SF_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.json")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}

	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		var loaded Config
		if err := json.Unmarshal(b, &loaded); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
		}
		*cfg = loaded
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LOG_MODE")); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("SF_HTTP_ADDR")); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("SF_MAX_UPLOAD_BYTES")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.HTTP.MaxUploadBytes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SF_ALLOWED_ORIGINS")); v != "" {
		origins := []string{}
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.HTTP.AllowedOrigins = origins
		}
	}
	if v := strings.TrimSpace(os.Getenv("SF_ANALYSIS_CHAR_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Pipeline.AnalysisCharLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SF_MAX_MATCHES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Pipeline.MaxMatches = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SF_AUDIO_CONCURRENCY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Pipeline.AudioConcurrency = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SF_STORAGE_MODE")); v != "" {
		cfg.Storage.Mode = v
	}
	if v := strings.TrimSpace(os.Getenv("SF_STORAGE_LOCAL_ROOT")); v != "" {
		cfg.Storage.LocalRoot = v
	}
	if v := strings.TrimSpace(os.Getenv("SF_PUBLIC_BASE_URL")); v != "" {
		cfg.Storage.PublicBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SF_STORAGE_BUCKET")); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := strings.TrimSpace(os.Getenv("SF_STORAGE_CDN_DOMAIN")); v != "" {
		cfg.Storage.CDNDomain = v
	}
	if v := strings.TrimSpace(os.Getenv("SF_HISTORY_DRIVER")); v != "" {
		cfg.History.Driver = v
	}
	if v := strings.TrimSpace(os.Getenv("SF_HISTORY_DSN")); v != "" {
		cfg.History.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("SF_VERSION")); v != "" {
		cfg.Version = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxUploadBytes <= 0 {
		cfg.HTTP.MaxUploadBytes = 50 << 20
	}
	if cfg.Pipeline.AnalysisCharLimit <= 0 {
		cfg.Pipeline.AnalysisCharLimit = 15000
	}
	if cfg.Pipeline.MaxMatches <= 0 {
		cfg.Pipeline.MaxMatches = 5
	}
	if cfg.Pipeline.AudioConcurrency <= 0 {
		cfg.Pipeline.AudioConcurrency = 1
	}
	if strings.TrimSpace(cfg.Storage.Mode) == "" {
		cfg.Storage.Mode = "local"
	}
	cfg.Storage.Mode = strings.ToLower(strings.TrimSpace(cfg.Storage.Mode))
	if cfg.Storage.Mode == "local" && strings.TrimSpace(cfg.Storage.LocalRoot) == "" {
		cfg.Storage.LocalRoot = "data"
	}
	cfg.Storage.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.Storage.PublicBaseURL), "/")
	if strings.TrimSpace(cfg.History.Driver) == "" {
		cfg.History.Driver = "none"
	}
	cfg.History.Driver = strings.ToLower(strings.TrimSpace(cfg.History.Driver))
	if cfg.History.Driver == "sqlite" && strings.TrimSpace(cfg.History.DSN) == "" {
		cfg.History.DSN = "data/sceneforge.db"
	}
}

func validate(cfg *Config) error {
	switch cfg.Storage.Mode {
	case "local":
	case "gcs":
		if strings.TrimSpace(cfg.Storage.Bucket) == "" {
			return fmt.Errorf("storage.mode=gcs requires storage.bucket")
		}
	default:
		return fmt.Errorf("invalid storage.mode=%q (allowed: local, gcs)", cfg.Storage.Mode)
	}

	switch cfg.History.Driver {
	case "sqlite", "none":
	case "postgres":
		if strings.TrimSpace(cfg.History.DSN) == "" {
			return fmt.Errorf("history.driver=postgres requires history.dsn")
		}
	default:
		return fmt.Errorf("invalid history.driver=%q (allowed: sqlite, postgres, none)", cfg.History.Driver)
	}

	for _, o := range cfg.HTTP.AllowedOrigins {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("http.allowed_origins contains an empty entry")
		}
	}
	return nil
}
