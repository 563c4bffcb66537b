package validator

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devopsgen/internal/domain/entity"
)

func TestExtractCodeBlocks(t *testing.T) {
	content := "Here is your file:\n```yaml\nname: ci\non: push\n```\nAnd another:\n```\n  indented: true\n```\n"
	blocks := ExtractCodeBlocks(content)
	require.Len(t, blocks, 2)
	assert.Equal(t, CodeBlock{Lang: "yaml", Body: "name: ci\non: push"}, blocks[0])
	assert.Equal(t, CodeBlock{Body: "  indented: true"}, blocks[1])
}

func TestExtractCodeBlocks_FenceLang(t *testing.T) {
	content := "```Bash\necho hi\n```\n```yaml title=ci.yml\nname: ci\n```\n```hcl:main.tf\nlocals {}\n```"
	blocks := ExtractCodeBlocks(content)
	require.Len(t, blocks, 3)
	assert.Equal(t, "bash", blocks[0].Lang)
	assert.Equal(t, "yaml", blocks[1].Lang)
	assert.Equal(t, "hcl:main.tf", blocks[2].Lang)
}

func TestExtractCodeBlocks_NoFences(t *testing.T) {
	content := "FROM alpine\nRUN echo hi"
	assert.Equal(t, []CodeBlock{{Body: content}}, ExtractCodeBlocks(content))
}

func TestExtractCodeBlocks_Unterminated(t *testing.T) {
	blocks := ExtractCodeBlocks("```hcl\nlocals {}\n")
	assert.Equal(t, []CodeBlock{{Lang: "hcl", Body: "locals {}\n"}}, blocks)
}

func TestTerraformAnalyzer(t *testing.T) {
	a := NewTerraformAnalyzer()
	assert.True(t, a.Supports(".tf"))
	assert.False(t, a.Supports(".yml"))
	assert.True(t, a.AcceptsFence(""))
	assert.True(t, a.AcceptsFence("terraform"))
	assert.True(t, a.AcceptsFence("hcl:main.tf"))
	assert.False(t, a.AcceptsFence("bash"))
	assert.False(t, a.AcceptsFence("json"))

	src := `
terraform {
  required_providers {
    aws = {
      source = "hashicorp/aws"
    }
  }
}

resource "aws_db_instance" "main" {
  engine   = "postgres"
  password = "hunter2"
}

resource "aws_s3_bucket" "tagged" {
  bucket = "logs"
  tags = {
    Environment = "prod"
  }
}
`
	diags, err := a.Validate("main.tf", src)
	require.NoError(t, err)

	var msgs []string
	for _, d := range diags {
		assert.Equal(t, entity.SeverityWarning, d.Severity)
		assert.Equal(t, "main.tf", d.File)
		msgs = append(msgs, d.Message)
	}
	joined := strings.Join(msgs, "\n")
	assert.Contains(t, joined, "Provider aws missing version constraint")
	assert.Contains(t, joined, "Resource aws_db_instance.main missing tags")
	assert.Contains(t, joined, "hardcoded sensitive value in attribute password")
	assert.NotContains(t, joined, "aws_s3_bucket.tagged missing tags")
}

func TestTerraformAnalyzer_SyntaxError(t *testing.T) {
	diags, err := NewTerraformAnalyzer().Validate("main.tf", "resource \"aws_vpc\" {\n")
	require.NoError(t, err)
	require.NotEmpty(t, diags)
	assert.Equal(t, entity.SeverityError, diags[0].Severity)
	assert.Positive(t, diags[0].Line)
}

func TestYAMLAnalyzer(t *testing.T) {
	a := NewYAMLAnalyzer()
	assert.True(t, a.Supports(".yml"))
	assert.True(t, a.Supports(".yaml"))
	assert.True(t, a.AcceptsFence("yml"))
	assert.False(t, a.AcceptsFence("sh"))

	diags, err := a.Validate("ci.yml", "name: ci\non:\n  push:\n    branches: [main]\n---\nkind: Service\n")
	require.NoError(t, err)
	assert.Empty(t, diags)

	diags, err = a.Validate("ci.yml", "name: ci\njobs:\n  build: [unclosed\n")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, entity.SeverityError, diags[0].Severity)

	diags, err = a.Validate("ci.yml", "just a sentence\n")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, entity.SeverityWarning, diags[0].Severity)
	assert.Equal(t, 1, diags[0].Line)
}

func TestLinter_SelectsByExtension(t *testing.T) {
	l := NewLinter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Empty(t, l.Lint("dockerfile.dockerfile", ".dockerfile", "not: [yaml"))

	diags := l.Lint("docker_compose.yml", ".yml", "```yaml\nservices: [web\n```")
	require.Len(t, diags, 1)
	assert.Equal(t, "docker_compose.yml", diags[0].File)
	assert.Equal(t, entity.SeverityError, diags[0].Severity)
}

func TestLinter_SkipsForeignFences(t *testing.T) {
	l := NewLinter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	reply := "```yaml\nservices:\n  web:\n    image: nginx\n```\nStart it with:\n```bash\ndocker compose up -d\n```\n"
	assert.Empty(t, l.Lint("docker_compose.yml", ".yml", reply))

	reply = "```hcl\nlocals {}\n```\nThen run:\n```sh\nterraform init && terraform apply\n```\n"
	assert.Empty(t, l.Lint("main.tf", ".tf", reply))
}
