package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"

	"github.com/mwalczyk/oasc/internal/config"
	"github.com/mwalczyk/oasc/internal/extensions"
)

// resolvedOperation is the report entry for one operation, with the four
// extension families in their effective form. Unconfigured families are
// omitted rather than shown with defaults.
type resolvedOperation struct {
	OperationID string                    `yaml:"operationId,omitempty"`
	Method      string                    `yaml:"method"`
	Path        string                    `yaml:"path"`
	Cache       *resolvedCache            `yaml:"cache,omitempty"`
	RateLimit   *resolvedRateLimit        `yaml:"rateLimit,omitempty"`
	Retry       *resolvedRetry            `yaml:"retry,omitempty"`
	Security    *resolvedSecurityOverride `yaml:"security,omitempty"`
}

type resolvedCache struct {
	Enabled     bool     `yaml:"enabled"`
	TTLSeconds  int      `yaml:"ttlSeconds,omitempty"`
	Scope       string   `yaml:"scope,omitempty"`
	VaryHeaders []string `yaml:"varyHeaders,omitempty"`
	KeyTemplate string   `yaml:"keyTemplate,omitempty"`
}

type resolvedRateLimit struct {
	Enabled       bool   `yaml:"enabled"`
	Policy        string `yaml:"policy,omitempty"`
	Limit         int    `yaml:"limit,omitempty"`
	WindowSeconds int    `yaml:"windowSeconds,omitempty"`
	Algorithm     string `yaml:"algorithm,omitempty"`
	Burst         int    `yaml:"burst,omitempty"`
	PerClient     bool   `yaml:"perClient"`
}

type resolvedRetry struct {
	Enabled        bool     `yaml:"enabled"`
	MaxAttempts    int      `yaml:"maxAttempts,omitempty"`
	Backoff        string   `yaml:"backoff,omitempty"`
	InitialDelayMS int      `yaml:"initialDelayMs,omitempty"`
	MaxDelayMS     int      `yaml:"maxDelayMs,omitempty"`
	RetryOn        []string `yaml:"retryOn,omitempty"`
}

type resolvedSecurityOverride struct {
	Enabled        bool     `yaml:"enabled"`
	Scheme         string   `yaml:"scheme,omitempty"`
	Roles          []string `yaml:"roles,omitempty"`
	Scopes         []string `yaml:"scopes,omitempty"`
	AllowAnonymous bool     `yaml:"allowAnonymous"`
}

func ResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve effective extension configuration per operation",
		RunE:  runResolve,
	}

	flags := cmd.Flags()
	flags.Bool("multipart", false, "Merge sibling part files before resolving")
	flags.StringSlice("parts", nil, "Explicit part file list")
	flags.String("operation", "", "Limit the report to one operationId")

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	spec, _, diags := loadDocument(cfg)
	printDiagnostics(cmd, diags)
	if spec == nil {
		return fmt.Errorf("resolve failed: no document loaded")
	}

	only, _ := cmd.Flags().GetString("operation")

	var report []resolvedOperation
	for i := range spec.Operations {
		op := &spec.Operations[i]
		if only != "" && op.ID != only {
			continue
		}

		r := extensions.ResolveAll(spec, op)
		entry := resolvedOperation{
			OperationID: op.ID,
			Method:      string(op.Method),
			Path:        op.Path,
		}
		if r.Cache != nil {
			entry.Cache = &resolvedCache{
				Enabled:     r.Cache.Enabled,
				TTLSeconds:  r.Cache.TTLSeconds,
				Scope:       r.Cache.Scope,
				VaryHeaders: r.Cache.VaryHeaders,
				KeyTemplate: r.Cache.KeyTemplate,
			}
		}
		if r.RateLimit != nil {
			entry.RateLimit = &resolvedRateLimit{
				Enabled:       r.RateLimit.Enabled,
				Policy:        r.RateLimit.Policy,
				Limit:         r.RateLimit.Limit,
				WindowSeconds: r.RateLimit.WindowSeconds,
				Algorithm:     r.RateLimit.Algorithm,
				Burst:         r.RateLimit.Burst,
				PerClient:     r.RateLimit.PerClient,
			}
		}
		if r.Retry != nil {
			entry.Retry = &resolvedRetry{
				Enabled:        r.Retry.Enabled,
				MaxAttempts:    r.Retry.MaxAttempts,
				Backoff:        r.Retry.Backoff,
				InitialDelayMS: r.Retry.InitialDelayMS,
				MaxDelayMS:     r.Retry.MaxDelayMS,
				RetryOn:        r.Retry.RetryOn,
			}
		}
		if r.Security != nil {
			entry.Security = &resolvedSecurityOverride{
				Enabled:        r.Security.Enabled,
				Scheme:         r.Security.Scheme,
				Roles:          r.Security.Roles,
				Scopes:         r.Security.Scopes,
				AllowAnonymous: r.Security.AllowAnonymous,
			}
		}

		report = append(report, entry)
	}

	if only != "" && len(report) == 0 {
		return fmt.Errorf("operation not found: %s", only)
	}

	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if cfg.Output == "" {
		cmd.Print(sb.String())
		return nil
	}
	if err := os.WriteFile(cfg.Output, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output, err)
	}
	cmd.PrintErrf("Written: %s\n", cfg.Output)
	return nil
}
