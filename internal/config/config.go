// Package config loads server and CLI settings from an optional YAML file with
// MISSIONCORE_* environment overrides on top of built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"missioncore/internal/domain/lifesupport"
)

type Config struct {
	Server      ServerConfig      `json:"server" yaml:"server"`
	Database    DatabaseConfig    `json:"database" yaml:"database"`
	Logging     LoggingConfig     `json:"logging" yaml:"logging"`
	Scheduler   SchedulerConfig   `json:"scheduler" yaml:"scheduler"`
	LifeSupport LifeSupportConfig `json:"life_support" yaml:"life_support"`
	Anomaly     AnomalyConfig     `json:"anomaly" yaml:"anomaly"`
	Archive     ArchiveConfig     `json:"archive" yaml:"archive"`
	CatalogPath string            `json:"catalog_path,omitempty" yaml:"catalog_path,omitempty"`
}

type ServerConfig struct {
	Addr         string   `json:"addr" yaml:"addr"`
	AllowOrigins []string `json:"allow_origins,omitempty" yaml:"allow_origins,omitempty"`
}

// DatabaseConfig selects postgres when DSN is set and the in-memory store otherwise.
type DatabaseConfig struct {
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

type LineageConfig struct {
	ID   string `json:"id" yaml:"id"`
	Seed string `json:"seed" yaml:"seed"`
}

type SchedulerConfig struct {
	Enabled  bool            `json:"enabled" yaml:"enabled"`
	Interval time.Duration   `json:"interval" yaml:"interval"`
	Lineages []LineageConfig `json:"lineages" yaml:"lineages"`
	Habitats []string        `json:"habitats" yaml:"habitats"`
	DtHours  float64         `json:"dt_hours" yaml:"dt_hours"`
}

type LifeSupportConfig struct {
	lifesupport.Config `yaml:",inline"`
	Modules            []lifesupport.Module `json:"modules" yaml:"modules"`
}

type AnomalyConfig struct {
	Window int `json:"window" yaml:"window"`
}

const (
	ArchiveNone   = "none"
	ArchiveS3     = "s3"
	ArchiveSQLite = "sqlite"
)

type ArchiveConfig struct {
	Driver     string   `json:"driver" yaml:"driver"`
	S3         S3Config `json:"s3" yaml:"s3"`
	SQLitePath string   `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
}

type S3Config struct {
	Bucket          string `json:"bucket" yaml:"bucket"`
	Region          string `json:"region" yaml:"region"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Prefix          string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	AccessKeyID     string `json:"-" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `json:"-" yaml:"secret_access_key,omitempty"`
	PathStyle       bool   `json:"path_style" yaml:"path_style"`
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Interval: 5 * time.Second,
			DtHours:  1,
		},
		LifeSupport: LifeSupportConfig{
			Config: lifesupport.DefaultConfig(),
			Modules: []lifesupport.Module{
				{ID: "oga-1", Name: "Oxygen generation assembly", Type: "oxygen", OxygenGenRate: 4.5},
				{ID: "wrs-1", Name: "Water recovery system", Type: "water", WaterRecycleRate: 8.5},
				{ID: "cdra-1", Name: "CO2 removal assembly", Type: "scrubber", CO2ScrubRate: 2.5},
				{ID: "solar-1", Name: "Solar array wing", Type: "power", EnergyOutput: 6},
				{ID: "veggie-1", Name: "Plant growth chamber", Type: "biomass", BiomassOutputRate: 0.4, CO2ScrubRate: 0.3},
			},
		},
		Anomaly: AnomalyConfig{Window: 20},
		Archive: ArchiveConfig{
			Driver: ArchiveNone,
			S3:     S3Config{Region: "us-east-1", Prefix: "ledgers/"},
		},
	}
}

// Load returns defaults, overlaid by the YAML file at path when path is non-empty, then
// by environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	applyEnvOverrides(cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.Database.DSN = os.ExpandEnv(cfg.Database.DSN)
	cfg.Archive.S3.SecretAccessKey = os.ExpandEnv(cfg.Archive.S3.SecretAccessKey)
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %v", c.Scheduler.Interval)
	}
	if c.Scheduler.DtHours < 0 {
		return fmt.Errorf("scheduler dt_hours must be non-negative, got %v", c.Scheduler.DtHours)
	}
	seen := map[string]bool{}
	for _, l := range c.Scheduler.Lineages {
		if strings.TrimSpace(l.ID) == "" {
			return fmt.Errorf("scheduler lineage id is required")
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate scheduler lineage %q", l.ID)
		}
		seen[l.ID] = true
	}
	if c.LifeSupport.CrewCount < 0 {
		return fmt.Errorf("crew_count must be non-negative, got %d", c.LifeSupport.CrewCount)
	}
	for _, m := range c.LifeSupport.Modules {
		if strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("life support module id is required")
		}
		if m.Efficiency != nil && (*m.Efficiency < 0 || *m.Efficiency > 1) {
			return fmt.Errorf("module %s efficiency must be between 0 and 1, got %v", m.ID, *m.Efficiency)
		}
	}
	if c.Anomaly.Window < 0 {
		return fmt.Errorf("anomaly window must be non-negative, got %d", c.Anomaly.Window)
	}
	switch c.Archive.Driver {
	case "", ArchiveNone:
	case ArchiveS3:
		if c.Archive.S3.Bucket == "" {
			return fmt.Errorf("archive s3 bucket is required for the s3 driver")
		}
	case ArchiveSQLite:
		if c.Archive.SQLitePath == "" {
			return fmt.Errorf("archive sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid archive driver: %s (valid: none, s3, sqlite)", c.Archive.Driver)
	}
	validLevels := map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}
	return nil
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	if v := getenv("MISSIONCORE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("MISSIONCORE_ALLOW_ORIGINS"); v != "" {
		cfg.Server.AllowOrigins = splitList(v)
	}
	if v := getenv("MISSIONCORE_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := getenv("MISSIONCORE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := getenv("MISSIONCORE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := getenv("MISSIONCORE_SCHEDULER_ENABLED"); v != "" {
		cfg.Scheduler.Enabled = v == "true" || v == "1"
	}
	if v := getenv("MISSIONCORE_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Scheduler.Interval = d
		}
	}
	if v := getenv("MISSIONCORE_LINEAGES"); v != "" {
		cfg.Scheduler.Lineages = parseLineages(v)
	}
	if v := getenv("MISSIONCORE_HABITATS"); v != "" {
		cfg.Scheduler.Habitats = splitList(v)
	}
	if v := getenv("MISSIONCORE_CREW_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LifeSupport.CrewCount = n
		}
	}
	if v := getenv("MISSIONCORE_ANOMALY_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Anomaly.Window = n
		}
	}
	if v := getenv("MISSIONCORE_CATALOG"); v != "" {
		cfg.CatalogPath = v
	}
	if v := getenv("MISSIONCORE_ARCHIVE_DRIVER"); v != "" {
		cfg.Archive.Driver = strings.ToLower(v)
	}
	if v := getenv("MISSIONCORE_ARCHIVE_SQLITE_PATH"); v != "" {
		cfg.Archive.SQLitePath = v
	}
	if v := getenv("MISSIONCORE_ARCHIVE_S3_BUCKET"); v != "" {
		cfg.Archive.S3.Bucket = v
	}
	if v := getenv("MISSIONCORE_ARCHIVE_S3_REGION"); v != "" {
		cfg.Archive.S3.Region = v
	}
	if v := getenv("MISSIONCORE_ARCHIVE_S3_ENDPOINT"); v != "" {
		cfg.Archive.S3.Endpoint = v
	}
	if v := getenv("MISSIONCORE_ARCHIVE_S3_PREFIX"); v != "" {
		cfg.Archive.S3.Prefix = v
	}
	if v := getenv("MISSIONCORE_ARCHIVE_S3_PATH_STYLE"); v != "" {
		cfg.Archive.S3.PathStyle = strings.EqualFold(v, "true") || v == "1"
	}
}

// parseLineages reads "id[:seed],id[:seed]". A missing seed defaults to the id.
func parseLineages(v string) []LineageConfig {
	out := []LineageConfig{}
	for _, item := range splitList(v) {
		id, seed, ok := strings.Cut(item, ":")
		if !ok || seed == "" {
			seed = id
		}
		out = append(out, LineageConfig{ID: id, Seed: seed})
	}
	return out
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
