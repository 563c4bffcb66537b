package validator

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"devopsgen/internal/domain/entity"
	"devopsgen/internal/domain/repository"
)

var SensitiveKeywords = []string{"password", "secret", "key", "token", "access_key", "secret_key"}

// TerraformAnalyzer parses generated HCL and flags common omissions.
type TerraformAnalyzer struct{}

var _ repository.ArtifactValidator = (*TerraformAnalyzer)(nil)

func NewTerraformAnalyzer() *TerraformAnalyzer {
	return &TerraformAnalyzer{}
}

func (a *TerraformAnalyzer) Name() string { return "terraform" }

func (a *TerraformAnalyzer) Supports(extension string) bool {
	return extension == ".tf"
}

func (a *TerraformAnalyzer) AcceptsFence(lang string) bool {
	switch lang {
	case "", "hcl", "terraform", "tf":
		return true
	}
	return strings.HasSuffix(lang, ".tf")
}

func (a *TerraformAnalyzer) Validate(filename, content string) ([]*entity.Diagnostic, error) {
	parser := hclparse.NewParser()

	hclFile, fileDiags := parser.ParseHCL([]byte(content), filename)
	if fileDiags.HasErrors() {
		return toDiagnostics(filename, fileDiags), nil
	}

	return toDiagnostics(filename, a.analyzeFile(hclFile.Body, filename)), nil
}

func toDiagnostics(fileName string, diags hcl.Diagnostics) []*entity.Diagnostic {
	out := make([]*entity.Diagnostic, 0, len(diags))
	for _, diag := range diags {
		d := &entity.Diagnostic{
			File:     fileName,
			Severity: entity.SeverityWarning,
			Message:  diag.Summary,
		}
		if diag.Detail != "" {
			d.Message = fmt.Sprintf("%s: %s", diag.Summary, diag.Detail)
		}
		if diag.Severity == hcl.DiagError {
			d.Severity = entity.SeverityError
		}
		if diag.Subject != nil {
			d.Line = diag.Subject.Start.Line
			d.Column = diag.Subject.Start.Column
		}
		out = append(out, d)
	}
	return out
}

func (a *TerraformAnalyzer) analyzeFile(body hcl.Body, fileName string) hcl.Diagnostics {
	var diags hcl.Diagnostics

	schema := &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "terraform"},
			{Type: "provider", LabelNames: []string{"name"}},
			{Type: "resource", LabelNames: []string{"type", "name"}},
			{Type: "data", LabelNames: []string{"type", "name"}},
			{Type: "variable", LabelNames: []string{"name"}},
			{Type: "output", LabelNames: []string{"name"}},
			{Type: "module", LabelNames: []string{"name"}},
			{Type: "locals"},
		},
	}

	content, _, contentDiags := body.PartialContent(schema)
	diags = append(diags, contentDiags...)

	diags = append(diags, a.analyzeTerraformBlocks(content, fileName)...)
	diags = append(diags, a.analyzeResourceBlocks(content, fileName)...)

	return diags
}

func (a *TerraformAnalyzer) analyzeTerraformBlocks(content *hcl.BodyContent, fileName string) hcl.Diagnostics {
	var diags hcl.Diagnostics

	for _, block := range content.Blocks.OfType("terraform") {
		tfSchema := &hcl.BodySchema{
			Blocks: []hcl.BlockHeaderSchema{
				{Type: "required_providers"},
			},
		}
		tfContent, _, tfDiags := block.Body.PartialContent(tfSchema)
		diags = append(diags, tfDiags...)

		for _, rpBlock := range tfContent.Blocks.OfType("required_providers") {
			attrs, attrsDiags := rpBlock.Body.JustAttributes()
			diags = append(diags, attrsDiags...)

			for providerName, attr := range attrs {
				val, valDiags := attr.Expr.Value(nil)
				if valDiags.HasErrors() {
					continue
				}
				if val.Type().IsObjectType() {
					obj := val.AsValueMap()
					if _, hasVersion := obj["version"]; !hasVersion {
						diags = append(diags, &hcl.Diagnostic{
							Severity: hcl.DiagWarning,
							Summary:  fmt.Sprintf("Provider %s missing version constraint in %s", providerName, fileName),
							Subject:  attr.Range.Ptr(),
						})
					}
				} else {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagWarning,
						Summary:  fmt.Sprintf("Provider %s has non-object requirement in %s", providerName, fileName),
						Subject:  attr.Range.Ptr(),
					})
				}
			}
		}
	}
	return diags
}

func (a *TerraformAnalyzer) analyzeResourceBlocks(content *hcl.BodyContent, fileName string) hcl.Diagnostics {
	var diags hcl.Diagnostics

	for _, block := range content.Blocks.OfType("resource") {
		resType, resName := block.Labels[0], block.Labels[1]

		resSchema := &hcl.BodySchema{
			Attributes: []hcl.AttributeSchema{
				{Name: "tags"},
			},
		}
		resContent, remain, resDiags := block.Body.PartialContent(resSchema)
		diags = append(diags, resDiags...)

		if _, hasTags := resContent.Attributes["tags"]; !hasTags {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagWarning,
				Summary:  fmt.Sprintf("Resource %s.%s missing tags attribute in %s", resType, resName, fileName),
				Subject:  block.DefRange.Ptr(),
			})
		}

		// Nested blocks make JustAttributes fail; only top-level attributes are inspected.
		allAttrs, _ := remain.JustAttributes()
		for attrName, attr := range allAttrs {
			if !isSensitive(attrName) {
				continue
			}
			// A value that evaluates without variables is a literal.
			if _, valDiags := attr.Expr.Value(nil); !valDiags.HasErrors() {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagWarning,
					Summary:  fmt.Sprintf("Potential hardcoded sensitive value in attribute %s of resource %s.%s in %s", attrName, resType, resName, fileName),
					Subject:  attr.Range.Ptr(),
				})
			}
		}
	}
	return diags
}

func isSensitive(attrName string) bool {
	name := strings.ToLower(attrName)
	for _, kw := range SensitiveKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
