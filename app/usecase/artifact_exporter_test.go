package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilename(t *testing.T) {
	e := NewArtifactExporter(nil)

	tests := map[string]string{
		"GitHub Actions Workflow":  "github_actions_workflow.yml",
		"Dockerfile":               "dockerfile.dockerfile",
		"Terraform Infrastructure": "terraform_infrastructure.tf",
		"Kubernetes Deployment":    "kubernetes_deployment.yaml",
		"Custom   Thing":           "custom_thing.txt",
	}
	for useCase, want := range tests {
		assert.Equal(t, want, e.BuildFilename(useCase), useCase)
	}
}

func TestExport_IndependentFiles(t *testing.T) {
	e := NewArtifactExporter(nil)
	content := "FROM golang:1.24\nRUN go build ./...\n"

	a := e.ExportFor(content, "Dockerfile")
	b := e.ExportFor(content, "Dockerfile")

	assert.NotSame(t, a, b)
	assert.Equal(t, content, a.Content())
	assert.Equal(t, content, b.Content())
	assert.Equal(t, "text/plain", a.MIMEType)
}
