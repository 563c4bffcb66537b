package repository

import "devopsgen/internal/domain/entity"

// ArtifactValidator lints generated text for a given file extension.
type ArtifactValidator interface {
	Name() string
	Supports(extension string) bool
	// AcceptsFence reports whether a fenced block tagged lang holds this
	// validator's language. An empty lang is an untagged fence.
	AcceptsFence(lang string) bool
	Validate(filename, content string) ([]*entity.Diagnostic, error)
}
