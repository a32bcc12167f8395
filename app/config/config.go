package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override config.json. They are read from the
// process environment first, then from a .env file in the data directory.
const (
	EnvUploadAPIURL = "CHARTDASH_UPLOAD_API_URL"
	EnvDBDriver     = "CHARTDASH_DB_DRIVER"
	EnvDBDSN        = "CHARTDASH_DB_DSN"
	EnvSchoolsPath  = "CHARTDASH_SCHOOLS_PATH"
)

type ChartStoreConfig struct {
	// One of sqlite, postgres, mysql, mongo or remote.
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
	// Database is the mongo database name.
	Database string `json:"database"`
}

type SchoolSourceConfig struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	// Cron expression, eg: "0 3 * * *". Empty disables scheduled reloads.
	RefreshSchedule string `json:"refresh_schedule"`
	Watch           bool   `json:"watch"`
}

type AppConfig struct {
	InstanceName   string   `json:"instance_name"`
	DataDir        string   `json:"-"`
	Hostnames      []string `json:"hostnames"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	LogLatency     bool     `json:"log_latency"`

	UploadAPIURL         string `json:"upload_api_url"`
	UploadTimeoutSeconds int    `json:"upload_timeout_seconds"`
	// Upload sessions expire after this many idle minutes.
	SessionTTLMinutes int `json:"session_ttl_minutes"`
	// Largest accepted upload request, in MiB.
	MaxUploadMB int `json:"max_upload_mb"`

	ChartStore ChartStoreConfig   `json:"chart_store"`
	Schools    SchoolSourceConfig `json:"schools"`

	// Markdown shown at the top of each page, keyed by page name.
	PageDescriptions map[string]string `json:"page_descriptions"`
}

// ServerRuntimeConfig holds the options given on the command line.
type ServerRuntimeConfig struct {
	Addr               string
	Port               int
	CertDir            string
	AcmeEnabled        bool
	RateLimit          int
	GzipLevel          int
	BehindLoadBalancer bool
}

func (c *AppConfig) UploadTimeout() time.Duration {
	return time.Duration(c.UploadTimeoutSeconds) * time.Second
}

func (c *AppConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c *AppConfig) applyDefaults() {
	if c.InstanceName == "" {
		c.InstanceName = "chartdash"
	}
	if len(c.Hostnames) == 0 {
		c.Hostnames = []string{"localhost"}
	}
	if c.UploadAPIURL == "" {
		c.UploadAPIURL = "http://localhost:8080"
	}
	if c.UploadTimeoutSeconds == 0 {
		c.UploadTimeoutSeconds = 60
	}
	if c.SessionTTLMinutes == 0 {
		c.SessionTTLMinutes = 30
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = 32
	}
	if c.ChartStore.Driver == "" {
		c.ChartStore.Driver = "sqlite"
	}
	if c.ChartStore.Driver == "sqlite" && c.ChartStore.DSN == "" {
		c.ChartStore.DSN = filepath.Join(c.DataDir, "chartdash.db")
	}
	if c.ChartStore.Driver == "mongo" && c.ChartStore.Database == "" {
		c.ChartStore.Database = "chartdash"
	}
	if c.Schools.Path != "" && !filepath.IsAbs(c.Schools.Path) {
		c.Schools.Path = filepath.Join(c.DataDir, c.Schools.Path)
	}
	if c.PageDescriptions == nil {
		c.PageDescriptions = map[string]string{}
	}
}

func (c *AppConfig) applyEnv(env map[string]string) {
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(env[key])
	}
	if v := lookup(EnvUploadAPIURL); v != "" {
		c.UploadAPIURL = v
	}
	if v := lookup(EnvDBDriver); v != "" {
		c.ChartStore.Driver = v
	}
	if v := lookup(EnvDBDSN); v != "" {
		c.ChartStore.DSN = v
	}
	if v := lookup(EnvSchoolsPath); v != "" {
		c.Schools.Path = v
		c.Schools.URL = ""
	}
}

// Load reads config.json and .env from dataDir. A missing config.json
// yields the defaults.
func Load(dataDir string) (*AppConfig, error) {
	conf := &AppConfig{}
	confPath := filepath.Join(dataDir, "config.json")
	confFile, err := os.Open(confPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("no config.json in data dir, using defaults", "dataDir", dataDir)
	case err != nil:
		return nil, fmt.Errorf("opening config.json: %w", err)
	default:
		defer confFile.Close()
		if err := json.NewDecoder(confFile).Decode(conf); err != nil {
			return nil, fmt.Errorf("reading config.json: %w", err)
		}
	}
	conf.DataDir = dataDir

	env, err := godotenv.Read(filepath.Join(dataDir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	conf.applyEnv(env)
	conf.applyDefaults()
	return conf, nil
}
