package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/mwalczyk/oasc/internal/merge"
	"github.com/mwalczyk/oasc/internal/project"
	"github.com/mwalczyk/oasc/internal/split"
	"github.com/mwalczyk/oasc/internal/validate"
)

// Config is the resolved tool configuration: oasc.yaml layered under CLI
// flags. It doubles as the marker file format scaffolding writes next to a
// generation target so repeated runs need no flags.
type Config struct {
	Spec       string          `koanf:"spec"`
	Strictness string          `koanf:"strictness"`
	Output     string          `koanf:"output"`
	Multipart  MultipartConfig `koanf:"multipart"`
	Split      SplitConfig     `koanf:"split"`
	Types      TypesConfig     `koanf:"types"`
}

type MultipartConfig struct {
	Enabled    bool             `koanf:"enabled"`
	Discovery  string           `koanf:"discovery"`
	Parts      []string         `koanf:"parts"`
	Strategies StrategiesConfig `koanf:"strategies"`
}

type StrategiesConfig struct {
	Paths      string `koanf:"paths"`
	Schemas    string `koanf:"schemas"`
	Parameters string `koanf:"parameters"`
	Tags       string `koanf:"tags"`
}

type SplitConfig struct {
	Strategy  string `koanf:"strategy"`
	OutputDir string `koanf:"output-dir"`
}

type TypesConfig struct {
	NativeDates bool `koanf:"native-dates"`
	NullUnions  bool `koanf:"null-unions"`
}

// BindCommonFlags binds the flags shared by every command.
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: oasc.yaml)")
	flags.StringP("spec", "s", "", "Specification file path")
	flags.StringP("output", "o", "", "Output file or directory")
	flags.String("strictness", "", "Validation strictness (none, standard, strict)")
}

// Load layers the config file under any flags set on the command.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat("oasc.yaml"); err == nil {
			configFile = "oasc.yaml"
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	getStringSlice := func(name string) []string {
		if v, err := cmd.Flags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		return nil
	}

	flagChanged := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	getBool := func(name string) bool {
		v, err := cmd.Flags().GetBool(name)
		return err == nil && v
	}

	if v := getString("spec"); v != "" {
		m["spec"] = v
	}
	if v := getString("output"); v != "" {
		m["output"] = v
	}
	if v := getString("strictness"); v != "" {
		m["strictness"] = v
	}
	if flagChanged("multipart") {
		m["multipart.enabled"] = getBool("multipart")
	}
	if v := getStringSlice("parts"); len(v) > 0 {
		m["multipart.enabled"] = true
		m["multipart.discovery"] = "explicit"
		m["multipart.parts"] = v
	}
	if v := getString("paths-strategy"); v != "" {
		m["multipart.strategies.paths"] = v
	}
	if v := getString("schemas-strategy"); v != "" {
		m["multipart.strategies.schemas"] = v
	}
	if v := getString("parameters-strategy"); v != "" {
		m["multipart.strategies.parameters"] = v
	}
	if v := getString("tags-strategy"); v != "" {
		m["multipart.strategies.tags"] = v
	}
	if v := getString("strategy"); v != "" {
		m["split.strategy"] = v
	}
	if flagChanged("native-dates") {
		m["types.native-dates"] = getBool("native-dates")
	}
	if flagChanged("null-unions") {
		m["types.null-unions"] = getBool("null-unions")
	}

	return m
}

func (c *Config) Validate() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}

	if _, err := validate.ParseTier(c.Strictness); err != nil {
		return err
	}

	for _, s := range []string{
		c.Multipart.Strategies.Paths,
		c.Multipart.Strategies.Schemas,
		c.Multipart.Strategies.Parameters,
		c.Multipart.Strategies.Tags,
	} {
		if s != "" && !merge.IsValidStrategy(s) {
			return fmt.Errorf("invalid merge strategy: %s (valid: %v)", s, merge.ValidStrategies())
		}
	}

	validDiscovery := map[string]bool{"": true, "auto": true, "explicit": true}
	if !validDiscovery[c.Multipart.Discovery] {
		return fmt.Errorf("invalid discovery mode: %s (valid: auto, explicit)", c.Multipart.Discovery)
	}

	if c.Split.Strategy != "" && !split.IsValidStrategy(c.Split.Strategy) {
		return fmt.Errorf("invalid split strategy: %s (valid: by-tag, by-path-segment, by-domain)", c.Split.Strategy)
	}

	return nil
}

// Tier returns the configured validation tier.
func (c *Config) Tier() validate.Tier {
	t, err := validate.ParseTier(c.Strictness)
	if err != nil {
		return validate.TierStandard
	}
	return t
}

// MergeConfig converts the multipart section to the merge engine's
// configuration, filling section defaults for unset strategies.
func (c *Config) MergeConfig() merge.MultipartConfig {
	cfg := merge.DefaultConfig()
	cfg.Enabled = c.Multipart.Enabled
	if c.Multipart.Discovery == "explicit" {
		cfg.Discovery = merge.DiscoveryExplicit
	}
	cfg.Parts = c.Multipart.Parts
	if s := c.Multipart.Strategies.Paths; s != "" {
		cfg.Strategies.Paths = merge.Strategy(s)
	}
	if s := c.Multipart.Strategies.Schemas; s != "" {
		cfg.Strategies.Schemas = merge.Strategy(s)
	}
	if s := c.Multipart.Strategies.Parameters; s != "" {
		cfg.Strategies.Parameters = merge.Strategy(s)
	}
	if s := c.Multipart.Strategies.Tags; s != "" {
		cfg.Strategies.Tags = merge.Strategy(s)
	}
	return cfg
}

// ProjectOptions converts the types section to projector options.
func (c *Config) ProjectOptions() project.Options {
	return project.Options{
		NativeDates: c.Types.NativeDates,
		NullUnions:  c.Types.NullUnions,
	}
}
