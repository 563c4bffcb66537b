package validator

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"devopsgen/internal/domain/entity"
	"devopsgen/internal/domain/repository"
)

// YAMLAnalyzer checks that every document in a generated manifest parses.
type YAMLAnalyzer struct{}

var _ repository.ArtifactValidator = (*YAMLAnalyzer)(nil)

func NewYAMLAnalyzer() *YAMLAnalyzer {
	return &YAMLAnalyzer{}
}

func (a *YAMLAnalyzer) Name() string { return "yaml" }

func (a *YAMLAnalyzer) Supports(extension string) bool {
	return extension == ".yml" || extension == ".yaml"
}

func (a *YAMLAnalyzer) AcceptsFence(lang string) bool {
	switch lang {
	case "", "yaml", "yml":
		return true
	}
	return strings.HasSuffix(lang, ".yml") || strings.HasSuffix(lang, ".yaml")
}

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

func (a *YAMLAnalyzer) Validate(filename, content string) ([]*entity.Diagnostic, error) {
	var diags []*entity.Diagnostic

	dec := yaml.NewDecoder(strings.NewReader(content))
	for doc := 1; ; doc++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			d := &entity.Diagnostic{
				File:     filename,
				Severity: entity.SeverityError,
				Message:  err.Error(),
			}
			if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
				d.Line, _ = strconv.Atoi(m[1])
			}
			diags = append(diags, d)
			// The decoder cannot resync after a syntax error.
			break
		}
		if node.Kind == yaml.DocumentNode && len(node.Content) == 1 && node.Content[0].Kind == yaml.ScalarNode {
			diags = append(diags, &entity.Diagnostic{
				File:     filename,
				Severity: entity.SeverityWarning,
				Message:  "document " + strconv.Itoa(doc) + " is a bare scalar, expected a mapping or sequence",
				Line:     node.Content[0].Line,
				Column:   node.Content[0].Column,
			})
		}
	}
	return diags, nil
}
