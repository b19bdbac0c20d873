package contract

import (
	"fmt"
	"maps"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/huangsam/chartmap/schema"
)

// Default values for configuration.
const (
	DefaultProgressStep = 5 // percent of rows between progress reports
	DefaultCoarseFactor = 2 // linear upsampling from coarse land cover to the fine grid
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// RulesRawInput holds refinement rule overrides from the YAML config file.
// Pointer fields distinguish "not provided" from zero.
type RulesRawInput struct {
	MostlyUnclassified *int        `mapstructure:"mostly_unclassified"`
	ShortGap           *int        `mapstructure:"short_gap"`
	UrbanBarren        *int        `mapstructure:"urban_barren"`
	UrbanGrassland     *int        `mapstructure:"urban_grassland"`
	UrbanMajority      *int        `mapstructure:"urban_majority"`
	Substitutes        map[int]int `mapstructure:"substitutes"`
}

// Config holds the runtime configuration for a blend or refine run.
// This struct remains the "final, validated" config.
type Config struct {
	SegmentsDir    string
	OutputPath     string
	ReferencePath  string
	ClassifiedPath string
	LandCoverPath  string

	Recursive    bool
	Overwrite    bool
	Workers      int
	ProgressStep int
	CoarseFactor int
	Debug        bool

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	BlendWrite  schema.WriteOptions
	RefineWrite schema.WriteOptions

	// Rules is the default rule set with any config file overrides applied
	Rules schema.RuleSet

	UseColors bool
	Width     int // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	SegmentsDirStr    string
	OutputPathStr     string
	ReferencePathStr  string
	ClassifiedPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Workers           int    `mapstructure:"workers"`
	Overwrite         bool   `mapstructure:"overwrite"`
	ProgressStep      int    `mapstructure:"progress-step"`
	Debug             bool   `mapstructure:"debug"`
	RunBackend        string `mapstructure:"run-backend"`
	RunDBConnect      string `mapstructure:"run-db-connect"`
	Color             string `mapstructure:"color"`
	Width             int    `mapstructure:"width"`
	BlendCompression  string `mapstructure:"blend-compression"`
	RefineCompression string `mapstructure:"refine-compression"`
	RefineDataType    string `mapstructure:"refine-datatype"`

	// --- Fields from blendCmd.Flags() ---
	LandCover string `mapstructure:"land-cover"`
	Recursive bool   `mapstructure:"recursive"`

	// --- Rule overrides from config file ---
	Rules RulesRawInput `mapstructure:"rules"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.BlendWrite.Labels = append([]string(nil), c.BlendWrite.Labels...)
	clone.RefineWrite.Labels = append([]string(nil), c.RefineWrite.Labels...)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWriteOptions(cfg, input); err != nil {
		return err
	}
	rules, err := ProcessRulesRawInput(input.Rules)
	if err != nil {
		return err
	}
	cfg.Rules = rules
	resolvePaths(cfg, input)
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("run-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("run-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Overwrite = input.Overwrite
	cfg.Recursive = input.Recursive
	cfg.Debug = input.Debug
	cfg.Width = input.Width
	cfg.CoarseFactor = DefaultCoarseFactor

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Progress Validation ---
	if input.ProgressStep < 1 || input.ProgressStep > 100 {
		return fmt.Errorf("progress-step must be between 1 and 100 (received %d)", input.ProgressStep)
	}
	cfg.ProgressStep = input.ProgressStep

	// --- 3. Backend Validation ---
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.RunBackend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
	}
	cfg.RunDBConnect = input.RunDBConnect
	return ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect)
}

// processWriteOptions starts from the default encodings and applies overrides.
func processWriteOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.BlendWrite = schema.DefaultBlendWriteOptions()
	cfg.RefineWrite = schema.DefaultRefineWriteOptions()

	if input.BlendCompression != "" {
		c, err := parseCompression(input.BlendCompression)
		if err != nil {
			return fmt.Errorf("invalid blend-compression: %w", err)
		}
		cfg.BlendWrite.Compression = c
	}
	if input.RefineCompression != "" {
		c, err := parseCompression(input.RefineCompression)
		if err != nil {
			return fmt.Errorf("invalid refine-compression: %w", err)
		}
		cfg.RefineWrite.Compression = c
	}
	if input.RefineDataType != "" {
		dt := schema.DataType(input.RefineDataType)
		if _, ok := schema.ValidDataTypes[dt]; !ok {
			return fmt.Errorf("invalid refine-datatype '%s'. must be Byte or Int16", input.RefineDataType)
		}
		cfg.RefineWrite.DataType = dt
	}

	cfg.BlendWrite.Overwrite = cfg.Overwrite
	cfg.RefineWrite.Overwrite = cfg.Overwrite
	return nil
}

func parseCompression(s string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := schema.ValidCompressions[c]; !ok {
		return "", fmt.Errorf("unsupported compression '%s'. must be NONE, PACKBITS, LZW, DEFLATE", s)
	}
	return c, nil
}

// ProcessRulesRawInput applies config file overrides on top of the default rule set.
func ProcessRulesRawInput(raw RulesRawInput) (schema.RuleSet, error) {
	rs := schema.DefaultRuleSet()

	thresholds := map[string]struct {
		value *int
		dst   *int
	}{
		"mostly_unclassified": {raw.MostlyUnclassified, &rs.MostlyUnclassified},
		"short_gap":           {raw.ShortGap, &rs.ShortGap},
		"urban_barren":        {raw.UrbanBarren, &rs.UrbanBarren},
		"urban_grassland":     {raw.UrbanGrassland, &rs.UrbanGrassland},
		"urban_majority":      {raw.UrbanMajority, &rs.UrbanMajority},
	}
	for name, th := range thresholds {
		if th.value == nil {
			continue
		}
		if *th.value < 0 || *th.value > schema.NumYears {
			return rs, fmt.Errorf("rule threshold %s must be between 0 and %d (received %d)", name, schema.NumYears, *th.value)
		}
		*th.dst = *th.value
	}

	// Sort keys so the first invalid entry is reported deterministically
	for _, coarse := range slices.Sorted(maps.Keys(raw.Substitutes)) {
		fine := raw.Substitutes[coarse]
		if coarse < 0 || coarse > 255 || fine < 0 || fine > 255 {
			return rs, fmt.Errorf("substitute %d -> %d is outside the class code range 0-255", coarse, fine)
		}
		rs.Substitutes[coarse] = uint8(fine)
	}

	return rs, nil
}

// resolvePaths cleans the positional paths; existence is checked by the run itself.
func resolvePaths(cfg *Config, input *ConfigRawInput) {
	clean := func(p string) string {
		if p == "" {
			return ""
		}
		return filepath.Clean(p)
	}
	cfg.SegmentsDir = clean(input.SegmentsDirStr)
	cfg.OutputPath = clean(input.OutputPathStr)
	cfg.ReferencePath = clean(input.ReferencePathStr)
	cfg.ClassifiedPath = clean(input.ClassifiedPathStr)
	cfg.LandCoverPath = clean(input.LandCover)
}
