package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalczyk/oasc/internal/merge"
	"github.com/mwalczyk/oasc/internal/project"
	"github.com/mwalczyk/oasc/internal/validate"
)

func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(cmd *cobra.Command, args []string) error { return nil }}
	BindCommonFlags(cmd)

	flags := cmd.Flags()
	flags.Bool("multipart", false, "")
	flags.StringSlice("parts", nil, "")
	flags.String("paths-strategy", "", "")
	flags.String("schemas-strategy", "", "")
	flags.String("parameters-strategy", "", "")
	flags.String("tags-strategy", "", "")
	flags.String("strategy", "", "")
	flags.Bool("native-dates", false, "")
	flags.Bool("null-unions", false, "")

	return cmd
}

func parse(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := testCommand()
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadFromFlags(t *testing.T) {
	cmd := parse(t, "--spec", "api.yaml", "--strictness", "strict", "--output", "out.yaml")

	cfg, err := Load(cmd)
	require.NoError(t, err)

	assert.Equal(t, "api.yaml", cfg.Spec)
	assert.Equal(t, "out.yaml", cfg.Output)
	assert.Equal(t, validate.TierStrict, cfg.Tier())
	assert.False(t, cfg.Multipart.Enabled)
}

func TestLoadLayersFileUnderFlags(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "oasc.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`spec: api.yaml
strictness: standard
multipart:
  enabled: true
  strategies:
    schemas: last-wins
types:
  null-unions: true
`), 0644))

	cmd := parse(t, "--config", configFile, "--strictness", "strict")

	cfg, err := Load(cmd)
	require.NoError(t, err)

	// Flag beats file; untouched file values survive.
	assert.Equal(t, validate.TierStrict, cfg.Tier())
	assert.Equal(t, "api.yaml", cfg.Spec)
	assert.True(t, cfg.Multipart.Enabled)
	assert.Equal(t, "last-wins", cfg.Multipart.Strategies.Schemas)
	assert.True(t, cfg.Types.NullUnions)
}

func TestLoadExplicitParts(t *testing.T) {
	cmd := parse(t, "--spec", "api.yaml", "--parts", "api_pets.yaml,api_orders.yaml")

	cfg, err := Load(cmd)
	require.NoError(t, err)

	assert.True(t, cfg.Multipart.Enabled)
	assert.Equal(t, "explicit", cfg.Multipart.Discovery)
	assert.Equal(t, []string{"api_pets.yaml", "api_orders.yaml"}, cfg.Multipart.Parts)

	mcfg := cfg.MergeConfig()
	assert.Equal(t, merge.DiscoveryExplicit, mcfg.Discovery)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		errContains string
	}{
		{
			name:   "valid minimal",
			config: Config{Spec: "api.yaml"},
		},
		{
			name: "valid full",
			config: Config{
				Spec:       "api.yaml",
				Strictness: "strict",
				Multipart: MultipartConfig{
					Discovery:  "explicit",
					Strategies: StrategiesConfig{Paths: "last-wins", Tags: "append-unique"},
				},
				Split: SplitConfig{Strategy: "by-domain"},
			},
		},
		{
			name:        "missing spec",
			config:      Config{},
			errContains: "spec file is required",
		},
		{
			name:        "invalid strictness",
			config:      Config{Spec: "api.yaml", Strictness: "pedantic"},
			errContains: "invalid strictness tier",
		},
		{
			name: "invalid merge strategy",
			config: Config{
				Spec:      "api.yaml",
				Multipart: MultipartConfig{Strategies: StrategiesConfig{Schemas: "newest-wins"}},
			},
			errContains: "invalid merge strategy",
		},
		{
			name:        "invalid discovery mode",
			config:      Config{Spec: "api.yaml", Multipart: MultipartConfig{Discovery: "guess"}},
			errContains: "invalid discovery mode",
		},
		{
			name:        "invalid split strategy",
			config:      Config{Spec: "api.yaml", Split: SplitConfig{Strategy: "by-vibe"}},
			errContains: "invalid split strategy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestMergeConfigDefaults(t *testing.T) {
	cfg := Config{Spec: "api.yaml"}
	mcfg := cfg.MergeConfig()

	assert.Equal(t, merge.DiscoveryAuto, mcfg.Discovery)
	assert.Equal(t, merge.StrategyErrorOnDuplicate, mcfg.Strategies.Paths)
	assert.Equal(t, merge.StrategyErrorOnDuplicate, mcfg.Strategies.Schemas)
	assert.Equal(t, merge.StrategyMergeIfIdentical, mcfg.Strategies.Parameters)
	assert.Equal(t, merge.StrategyAppendUnique, mcfg.Strategies.Tags)

	cfg.Multipart.Strategies.Paths = "last-wins"
	assert.Equal(t, merge.StrategyLastWins, cfg.MergeConfig().Strategies.Paths)
}

func TestProjectOptions(t *testing.T) {
	cfg := Config{Types: TypesConfig{NativeDates: true}}
	assert.Equal(t, project.Options{NativeDates: true}, cfg.ProjectOptions())
}
