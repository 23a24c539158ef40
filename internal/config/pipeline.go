package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"drug-pipeline/internal/domain/entity"
)

// Pipeline is the full pipeline configuration loaded from YAML. Everything
// the run needs flows through this struct; there is no package-level state.
type Pipeline struct {
	// Sources lists the raw files to ingest, in run order.
	Sources []SourceConfig `yaml:"sources"`

	// Buckets names the three staging areas.
	Buckets BucketConfig `yaml:"buckets"`

	// GoldObject is the object name of the reconciliation document inside
	// the gold bucket. Default: "drug_reconciliated.json"
	GoldObject string `yaml:"gold_object"`

	Reconcile ReconcileConfig `yaml:"reconcile"`
	Decode    DecodeConfig    `yaml:"decode"`
	Storage   StorageConfig   `yaml:"storage"`
	Ledger    LedgerConfig    `yaml:"ledger"`
}

// SourceConfig describes one raw source file. Name keys the persisted
// silver objects and must be unique across sources.
type SourceConfig struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`   // drugs, pubmed, clinical_trials
	Format string `yaml:"format"` // json, csv
	Path   string `yaml:"path"`
}

// Origin derives the provenance label for mentions from this source. Drug
// sources carry no origin; the two PubMed feeds are told apart by format.
func (s SourceConfig) Origin() entity.Origin {
	switch entity.SchemaKind(s.Kind) {
	case entity.SchemaPubMed:
		if entity.SourceFormat(s.Format) == entity.FormatCSV {
			return entity.OriginPubMedCSV
		}
		return entity.OriginPubMedJSON
	case entity.SchemaClinicalTrials:
		return entity.OriginClinicalTrials
	}
	return ""
}

// BucketConfig names the bronze/silver/gold staging areas.
type BucketConfig struct {
	Bronze string `yaml:"bronze"`
	Silver string `yaml:"silver"`
	Gold   string `yaml:"gold"`
}

// ReconcileConfig holds gold-stage settings.
type ReconcileConfig struct {
	// Parallelism is the number of drugs matched concurrently. Default: 1
	Parallelism int `yaml:"parallelism"`
}

// DecodeConfig holds raw-file decoding settings.
type DecodeConfig struct {
	// LenientJSON tolerates trailing commas in JSON sources. Default: true
	LenientJSON *bool `yaml:"lenient_json"`
}

// StorageConfig selects and tunes the object storage backend.
type StorageConfig struct {
	// Backend is "local" or "gcs". Default: "local"
	Backend string `yaml:"backend"`

	// LocalRoot is the directory holding buckets when Backend is "local".
	// Default: "./storage"
	LocalRoot string `yaml:"local_root"`

	// CredentialsFile is the service account key path when Backend is
	// "gcs". Empty means application default credentials.
	CredentialsFile string `yaml:"credentials_file"`

	// OpsPerSecond and Burst bound outbound storage calls. Defaults: 10, 5
	OpsPerSecond float64 `yaml:"ops_per_second"`
	Burst        int     `yaml:"burst"`
}

// LedgerConfig controls the run ledger. The ledger is enabled only when the
// named environment variable holds a DSN at startup.
type LedgerConfig struct {
	// DSNEnv is the environment variable holding the Postgres DSN.
	// Default: "DATABASE_URL"
	DSNEnv string `yaml:"dsn_env"`
}

// LoadPipeline loads pipeline configuration from a YAML file.
// The path parameter is expected to come from a trusted source (command-line argument or hardcoded default).
func LoadPipeline(path string) (*Pipeline, error) {
	// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Pipeline
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults fills zero values with the documented defaults.
func (c *Pipeline) applyDefaults() {
	if c.Buckets.Bronze == "" {
		c.Buckets.Bronze = "bronze"
	}
	if c.Buckets.Silver == "" {
		c.Buckets.Silver = "silver"
	}
	if c.Buckets.Gold == "" {
		c.Buckets.Gold = "gold"
	}
	if c.GoldObject == "" {
		c.GoldObject = "drug_reconciliated.json"
	}
	if c.Reconcile.Parallelism == 0 {
		c.Reconcile.Parallelism = 1
	}
	if c.Decode.LenientJSON == nil {
		lenient := true
		c.Decode.LenientJSON = &lenient
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "local"
	}
	if c.Storage.LocalRoot == "" {
		c.Storage.LocalRoot = "./storage"
	}
	if c.Storage.OpsPerSecond == 0 {
		c.Storage.OpsPerSecond = 10
	}
	if c.Storage.Burst == 0 {
		c.Storage.Burst = 5
	}
	if c.Ledger.DSNEnv == "" {
		c.Ledger.DSNEnv = "DATABASE_URL"
	}
}

// Validate checks configuration correctness.
func (c *Pipeline) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("source[%d]: name is required", i)
		}
		if seen[src.Name] {
			return fmt.Errorf("source %q: duplicate name", src.Name)
		}
		seen[src.Name] = true

		if !entity.SchemaKind(src.Kind).Valid() {
			return fmt.Errorf("source %q: unknown kind %q", src.Name, src.Kind)
		}
		if !entity.SourceFormat(src.Format).Valid() {
			return fmt.Errorf("source %q: unknown format %q", src.Name, src.Format)
		}
		if src.Path == "" {
			return fmt.Errorf("source %q: path is required", src.Name)
		}
	}

	if c.Reconcile.Parallelism < 1 {
		return fmt.Errorf("reconcile parallelism must be at least 1")
	}

	switch c.Storage.Backend {
	case "local", "gcs":
	default:
		return fmt.Errorf("storage backend must be \"local\" or \"gcs\", got %q", c.Storage.Backend)
	}
	if c.Storage.OpsPerSecond < 0 {
		return fmt.Errorf("storage ops_per_second must not be negative")
	}
	if c.Storage.Burst < 0 {
		return fmt.Errorf("storage burst must not be negative")
	}

	return nil
}

// LenientJSON returns the decode leniency toggle.
func (c *Pipeline) LenientJSON() bool {
	return c.Decode.LenientJSON == nil || *c.Decode.LenientJSON
}

// LedgerDSN returns the Postgres DSN from the configured environment
// variable, or "" when the run ledger is disabled.
func (c *Pipeline) LedgerDSN() string {
	return os.Getenv(c.Ledger.DSNEnv)
}
