package configloader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gophpfix/pkg/config"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(cfg *config.Config)
		errors   []string
		warnings []string
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{
			name:   "bad format",
			mutate: func(cfg *config.Config) { cfg.Format = "table" },
			errors: []string{"format"},
		},
		{
			name:   "bad rule format",
			mutate: func(cfg *config.Config) { cfg.RuleFormat = "short" },
			errors: []string{"rule_format"},
		},
		{
			name:   "negative jobs",
			mutate: func(cfg *config.Config) { cfg.Jobs = -1 },
			errors: []string{"jobs"},
		},
		{
			name:     "extensions",
			mutate:   func(cfg *config.Config) { cfg.Extensions = []string{".php", "inc", ".php", ".*"} },
			errors:   []string{"extensions[1]", "extensions[3]"},
			warnings: []string{"extensions[2]"},
		},
		{
			name:     "no extensions",
			mutate:   func(cfg *config.Config) { cfg.Extensions = []string{} },
			warnings: []string{"extensions"},
		},
		{
			name: "rules",
			mutate: func(cfg *config.Config) {
				cfg.Rules["PHPUNIT001"] = config.RuleConfig{Severity: strPtr("critical")}
				cfg.Rules["php_unit_assertion_count"] = config.RuleConfig{}
				cfg.Rules["nope"] = config.RuleConfig{}
			},
			errors:   []string{"rules.PHPUNIT001.severity"},
			warnings: []string{"rules.nope"},
		},
		{
			name:   "ignore in nested segment",
			mutate: func(cfg *config.Config) { cfg.Ignore = []string{"src/**", "var/[cache"} },
			errors: []string{"ignore[1]"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			testCase.mutate(cfg)

			result := validateWith(cfg, newRegistry())

			assert.Equal(t, testCase.errors, fields(result.Errors))
			assert.Equal(t, testCase.warnings, fields(result.Warnings))
			assert.Equal(t, len(testCase.errors) == 0, result.Valid())
			assert.Len(t, result.AllMessages(), len(testCase.errors)+len(testCase.warnings))
		})
	}
}

func TestValidateWithFile(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SeverityDefault = "loud"

	result := ValidateWithFile(cfg, ".gophpfix.yml")
	if assert.Len(t, result.Errors, 1) {
		assert.Equal(t, `.gophpfix.yml: severity_default: invalid severity "loud"; must be one of: error, warning, info`,
			result.Errors[0].Error())
	}
}

func fields(findings []ValidationError) []string {
	var result []string
	for _, f := range findings {
		result = append(result, f.Field)
	}
	return result
}
