package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gophpfix/pkg/config"
)

func TestFormatRuleID(t *testing.T) {
	t.Parallel()

	const (
		fixerID   = "PHPUNIT001"
		fixerName = "php-unit-assertion-count"
	)

	tests := []struct {
		name     string
		format   config.RuleFormat
		ruleName string
		want     string
	}{
		{"name format", config.RuleFormatName, fixerName, fixerName},
		{"id format", config.RuleFormatID, fixerName, fixerID},
		{"combined format", config.RuleFormatCombined, fixerName, fixerID + "/" + fixerName},
		{"empty name falls back to id", config.RuleFormatName, "", fixerID},
		{"unknown format uses name", config.RuleFormat(""), fixerName, fixerName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, config.FormatRuleID(tt.format, fixerID, tt.ruleName))
		})
	}
}

func TestSeverity_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, config.SeverityError.IsValid())
	assert.True(t, config.SeverityWarning.IsValid())
	assert.True(t, config.SeverityInfo.IsValid())
	assert.False(t, config.Severity("fatal").IsValid())
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.RuleFormatName, cfg.RuleFormat)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Equal(t, config.DefaultExtensions, cfg.Extensions)
	assert.False(t, cfg.AllowRisky)
	assert.False(t, cfg.Markdown)
	assert.True(t, cfg.Backups.Enabled)

	cfg.Extensions[0] = ".changed"
	assert.Equal(t, ".php", config.DefaultExtensions[0])
}
