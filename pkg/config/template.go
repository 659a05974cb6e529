package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every registered fixer with its documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string

	// IncludeRules limits the full template to these fixer IDs.
	IncludeRules []string
}

// RuleInfo contains fixer metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string
	Risky       bool
}

// RuleInfoProvider returns metadata for every registered fixer.
// It decouples this package from the fixer registry.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the fixer package during init.
//
//nolint:gochecknoglobals // Intentional extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(opts)
	}
	if opts.Full {
		return generateFullTemplate(opts), nil
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Default severity for all fixers: error, warning, or info
# severity_default: warning

# Allow fixers that may change behaviour to rewrite files
# allow_risky: false

# Also fix PHP fenced code blocks inside Markdown files
# markdown: false

# File extensions treated as PHP
# extensions: [".php", ".phpt", ".inc"]

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"

# Fixer-specific configuration
# rules:
#   PHPUNIT001:
#     enabled: true
#     severity: warning
`)

	return buf.Bytes()
}

func generateFullTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`
#
# Every registered fixer is listed with its default settings.

severity_default: warning
allow_risky: false
markdown: false
extensions: [".php", ".phpt", ".inc"]

# Sidecar backups (file.php.gophpfix.bak) are written before fixing
backups:
  enabled: true
  mode: sidecar

ignore:
  - "vendor/**"
  - ".git/**"

rules:
`)

	for _, rule := range filteredRuleInfos(opts.IncludeRules) {
		fmt.Fprintf(&buf, "\n  # %s: %s\n", rule.ID, rule.Name)
		fmt.Fprintf(&buf, "  # %s\n", wrapComment(rule.Description, commentWrapWidth))
		if len(rule.Tags) > 0 {
			fmt.Fprintf(&buf, "  # Tags: %s\n", strings.Join(rule.Tags, ", "))
		}
		if rule.Risky {
			buf.WriteString("  # Risky: requires allow_risky to rewrite files\n")
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n", rule.Severity)
	}

	return buf.Bytes()
}

func filteredRuleInfos(include []string) []RuleInfo {
	var rules []RuleInfo
	if DefaultRuleInfoProvider != nil {
		rules = DefaultRuleInfoProvider()
	}

	if len(include) > 0 {
		includeSet := make(map[string]bool, len(include))
		for _, id := range include {
			includeSet[id] = true
		}
		filtered := make([]RuleInfo, 0, len(rules))
		for _, r := range rules {
			if includeSet[r.ID] {
				filtered = append(filtered, r)
			}
		}
		rules = filtered
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID < rules[j].ID
	})
	return rules
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

func templateToJSON(opts TemplateOptions) ([]byte, error) {
	rules := make(map[string]any)
	for _, r := range filteredRuleInfos(opts.IncludeRules) {
		rules[r.ID] = map[string]any{
			"enabled":  r.Enabled,
			"severity": string(r.Severity),
		}
	}

	cfg := map[string]any{
		"severity_default": string(SeverityWarning),
		"allow_risky":      false,
		"markdown":         false,
		"extensions":       DefaultExtensions,
		"backups": map[string]any{
			"enabled": true,
			"mode":    "sidecar",
		},
		"ignore": []string{"vendor/**", ".git/**"},
		"rules":  rules,
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return data, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gophpfix configuration
# See: https://github.com/yaklabco/gophpfix`
}
