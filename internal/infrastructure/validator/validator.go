package validator

import (
	"log/slog"
	"strings"

	"devopsgen/internal/domain/entity"
	"devopsgen/internal/domain/repository"
	"devopsgen/internal/infrastructure/metrics"
)

// Linter runs the validator matching a file extension over generated text.
// Findings are advisory and never fail a generation.
type Linter struct {
	validators []repository.ArtifactValidator
	logger     *slog.Logger
}

func NewLinter(logger *slog.Logger, validators ...repository.ArtifactValidator) *Linter {
	if len(validators) == 0 {
		validators = []repository.ArtifactValidator{NewTerraformAnalyzer(), NewYAMLAnalyzer()}
	}
	return &Linter{validators: validators, logger: logger}
}

func (l *Linter) Lint(filename, extension, text string) []*entity.Diagnostic {
	var out []*entity.Diagnostic
	for _, v := range l.validators {
		if !v.Supports(extension) {
			continue
		}
		for _, block := range ExtractCodeBlocks(text) {
			if !v.AcceptsFence(block.Lang) {
				continue
			}
			diags, err := v.Validate(filename, block.Body)
			if err != nil {
				metrics.IncValidationRun(v.Name(), "error")
				l.logger.Warn("artifact validation error", "validator", v.Name(), "err", err)
				continue
			}
			if hasErrors(diags) {
				metrics.IncValidationRun(v.Name(), "fail")
			} else {
				metrics.IncValidationRun(v.Name(), "pass")
			}
			out = append(out, diags...)
		}
	}
	return out
}

func hasErrors(diags []*entity.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == entity.SeverityError {
			return true
		}
	}
	return false
}

// CodeBlock is one fenced block of a model reply. Lang is the lowercased
// info string tag after the opening fence, empty when untagged.
type CodeBlock struct {
	Lang string
	Body string
}

// ExtractCodeBlocks returns the fenced ``` blocks in content, or the whole
// content as one untagged block when it has no fences.
func ExtractCodeBlocks(content string) []CodeBlock {
	var blocks []CodeBlock
	var current []string
	lang := ""
	inCodeBlock := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inCodeBlock {
				blocks = append(blocks, CodeBlock{Lang: lang, Body: strings.Join(current, "\n")})
				current = nil
			} else {
				lang = fenceLang(strings.TrimPrefix(trimmed, "```"))
			}
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			current = append(current, line)
		}
	}
	if inCodeBlock && len(current) > 0 {
		blocks = append(blocks, CodeBlock{Lang: lang, Body: strings.Join(current, "\n")})
	}

	if len(blocks) == 0 {
		return []CodeBlock{{Body: content}}
	}
	return blocks
}

// fenceLang takes the first word of an info string, so "yaml title=ci.yml"
// and "{yaml}" both yield "yaml".
func fenceLang(info string) string {
	fields := strings.Fields(strings.Trim(strings.TrimSpace(info), "{}"))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(fields[0], "."))
}
