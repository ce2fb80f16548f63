package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout"`
	IdleTimeout       Duration `json:"idle_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout"`
	MaxUploadBytes    int64    `json:"max_upload_bytes"`
	AllowedOrigins    []string `json:"allowed_origins"`
}

type PipelineConfig struct {
	// AnalysisCharLimit caps how much document text reaches the model.
	AnalysisCharLimit int `json:"analysis_char_limit"`

	// MaxMatches bounds how many catalog assets a scene may use.
	MaxMatches int `json:"max_matches"`

	// AudioConcurrency bounds concurrent text-to-speech calls.
	AudioConcurrency int `json:"audio_concurrency"`
}

type StorageConfig struct {
	// Mode selects where generated audio and previews live: "local" or "gcs".
	Mode string `json:"mode"`

	// LocalRoot is the directory for local mode; also served at /static.
	LocalRoot string `json:"local_root"`

	// PublicBaseURL prefixes /static URLs handed to browsers in local mode.
	PublicBaseURL string `json:"public_base_url"`

	// Bucket and CDNDomain apply to gcs mode.
	Bucket    string `json:"bucket"`
	CDNDomain string `json:"cdn_domain"`
}

type HistoryConfig struct {
	// Driver is "sqlite", "postgres" or "none".
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

type Config struct {
	Env      string         `json:"env"`
	Version  string         `json:"version"`
	HTTP     HTTPConfig     `json:"http"`
	Pipeline PipelineConfig `json:"pipeline"`
	Storage  StorageConfig  `json:"storage"`
	History  HistoryConfig  `json:"history"`
}
