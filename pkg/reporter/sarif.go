package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fixer"
	"github.com/yaklabco/gophpfix/pkg/runner"
	"github.com/yaklabco/gophpfix/pkg/source"
)

const (
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	sarifToolName  = "gophpfix"
	sarifToolURI   = "https://github.com/yaklabco/gophpfix"
)

// SARIFOutput is the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun is a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver holds tool metadata and the rules that fired.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a fixer.
type SARIFRule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name,omitempty"`
	ShortDescription SARIFMessage     `json:"shortDescription"`
	DefaultConfig    *SARIFRuleConfig `json:"defaultConfiguration,omitempty"`
}

// SARIFRuleConfig holds a rule's default level.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult is a single diagnostic.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
	Fixes     []SARIFFix      `json:"fixes,omitempty"`
}

// SARIFMessage is plain text.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation is a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation is a file and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation is a file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion is a line and column range, or a byte range for fix
// replacements.
type SARIFRegion struct {
	StartLine   int  `json:"startLine,omitempty"`
	StartColumn int  `json:"startColumn,omitempty"`
	EndLine     int  `json:"endLine,omitempty"`
	EndColumn   int  `json:"endColumn,omitempty"`
	ByteOffset  *int `json:"byteOffset,omitempty"`
	ByteLength  *int `json:"byteLength,omitempty"`
}

// SARIFFix is a proposed fix.
type SARIFFix struct {
	Description     SARIFMessage          `json:"description"`
	ArtifactChanges []SARIFArtifactChange `json:"artifactChanges"`
}

// SARIFArtifactChange groups the replacements in one file.
type SARIFArtifactChange struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Replacements     []SARIFReplacement    `json:"replacements"`
}

// SARIFReplacement replaces a region with new text.
type SARIFReplacement struct {
	DeletedRegion   SARIFRegion   `json:"deletedRegion"`
	InsertedContent *SARIFMessage `json:"insertedContent,omitempty"`
}

// SARIFReporter writes results as SARIF 2.1.0.
type SARIFReporter struct {
	opts Options
}

// NewSARIFReporter creates a SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{opts: opts}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	return buffered(r.opts, func(bw *bufio.Writer) (int, error) {
		encoder := json.NewEncoder(bw)
		if !r.opts.Compact {
			encoder.SetIndent("", "  ")
		}
		if err := encoder.Encode(output); err != nil {
			return 0, fmt.Errorf("encode SARIF: %w", err)
		}
		return len(output.Runs[0].Results), nil
	})
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	version := r.opts.ToolVersion
	if version == "" {
		version = "dev"
	}

	run := SARIFRun{
		Tool: SARIFTool{Driver: SARIFDriver{
			Name:           sarifToolName,
			Version:        version,
			InformationURI: sarifToolURI,
			Rules:          []SARIFRule{},
		}},
		Results: []SARIFResult{},
	}

	if result != nil {
		ruleIndex := make(map[string]int)
		for _, outcome := range result.Files {
			pr := outcome.Result
			if pr == nil || pr.FileResult == nil {
				continue
			}
			uri := filepath.ToSlash(r.opts.displayPath(outcome.Path))
			for _, diag := range pr.Diagnostics {
				idx, ok := ruleIndex[diag.RuleID]
				if !ok {
					idx = len(run.Tool.Driver.Rules)
					ruleIndex[diag.RuleID] = idx
					run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule(diag))
				}
				run.Results = append(run.Results, sarifResult(diag, idx, uri, pr.File))
			}
		}
	}

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}
}

func sarifRule(diag fixer.Diagnostic) SARIFRule {
	rule := SARIFRule{
		ID:               diag.RuleID,
		Name:             diag.RuleName,
		ShortDescription: SARIFMessage{Text: diag.Message},
		DefaultConfig:    &SARIFRuleConfig{Level: sarifLevel(diag.Severity)},
	}
	if f, ok := fixer.DefaultRegistry.GetByID(diag.RuleID); ok {
		rule.ShortDescription.Text = f.Description()
	}
	return rule
}

func sarifResult(diag fixer.Diagnostic, ruleIndex int, uri string, file *source.File) SARIFResult {
	res := SARIFResult{
		RuleID:    diag.RuleID,
		RuleIndex: ruleIndex,
		Level:     sarifLevel(diag.Severity),
		Message:   SARIFMessage{Text: diag.Message},
		Locations: []SARIFLocation{{PhysicalLocation: SARIFPhysicalLocation{
			ArtifactLocation: SARIFArtifactLocation{URI: uri},
			Region: SARIFRegion{
				StartLine:   diag.StartLine,
				StartColumn: diag.StartColumn,
				EndLine:     diag.EndLine,
				EndColumn:   diag.EndColumn,
			},
		}}},
	}

	if !diag.HasFix() {
		return res
	}

	change := SARIFArtifactChange{ArtifactLocation: SARIFArtifactLocation{URI: uri}}
	for _, edit := range diag.FixEdits {
		change.Replacements = append(change.Replacements, SARIFReplacement{
			DeletedRegion:   editRegion(edit.StartOffset, edit.EndOffset, file),
			InsertedContent: &SARIFMessage{Text: edit.NewText},
		})
	}
	description := diag.Suggestion
	if description == "" {
		description = diag.Message
	}
	res.Fixes = []SARIFFix{{
		Description:     SARIFMessage{Text: description},
		ArtifactChanges: []SARIFArtifactChange{change},
	}}
	return res
}

// editRegion describes a byte range by line and column when the file is
// known, and by byte offset otherwise.
func editRegion(start, end int, file *source.File) SARIFRegion {
	if file != nil {
		startLine, startCol := file.LineAt(start)
		endLine, endCol := file.LineAt(end)
		if startLine > 0 && endLine > 0 {
			return SARIFRegion{StartLine: startLine, StartColumn: startCol, EndLine: endLine, EndColumn: endCol}
		}
	}
	length := end - start
	return SARIFRegion{ByteOffset: &start, ByteLength: &length}
}

func sarifLevel(severity config.Severity) string {
	switch severity {
	case config.SeverityError:
		return "error"
	case config.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
