package usecase

import (
	"regexp"
	"strings"

	"devopsgen/internal/domain/entity"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ArtifactExporter turns generated text into a named downloadable file.
type ArtifactExporter struct {
	registry *entity.Registry
}

func NewArtifactExporter(registry *entity.Registry) *ArtifactExporter {
	if registry == nil {
		registry = entity.DefaultRegistry()
	}
	return &ArtifactExporter{registry: registry}
}

func (e *ArtifactExporter) Extension(useCase string) string {
	return e.registry.Extension(useCase)
}

// BuildFilename lowercases the use case, collapses whitespace runs to a single
// underscore and appends the registry extension (".txt" when unknown).
func (e *ArtifactExporter) BuildFilename(useCase string) string {
	base := whitespaceRun.ReplaceAllString(strings.ToLower(useCase), "_")
	return base + e.registry.Extension(useCase)
}

// Export returns a new file value on every call; content is copied by value
// and never modified.
func (e *ArtifactExporter) Export(content, filename string) *entity.ExportedFile {
	return entity.NewExportedFile(filename, content)
}

func (e *ArtifactExporter) ExportFor(content, useCase string) *entity.ExportedFile {
	return e.Export(content, e.BuildFilename(useCase))
}
