package entity

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultExtension   = ".txt"
	DefaultDescription = "Custom DevOps configuration"
)

var ErrUseCaseNotFound = errors.New("use case not found")

type UseCaseDefinition struct {
	Key           string `json:"key" yaml:"key"`
	Description   string `json:"description" yaml:"description"`
	FileExtension string `json:"fileExtension" yaml:"extension"`
}

// Registry is an immutable set of use cases keyed by their display name.
type Registry struct {
	order []UseCaseDefinition
	byKey map[string]UseCaseDefinition
}

//go:embed usecases.yaml
var builtinUseCases []byte

var defaultRegistry = MustLoadRegistry(builtinUseCases)

// DefaultRegistry returns the registry compiled into the binary.
func DefaultRegistry() *Registry { return defaultRegistry }

func LoadRegistry(doc []byte) (*Registry, error) {
	var defs []UseCaseDefinition
	if err := yaml.Unmarshal(doc, &defs); err != nil {
		return nil, fmt.Errorf("decode use cases: %w", err)
	}
	return NewRegistry(defs...)
}

func MustLoadRegistry(doc []byte) *Registry {
	r, err := LoadRegistry(doc)
	if err != nil {
		panic(err)
	}
	return r
}

func NewRegistry(defs ...UseCaseDefinition) (*Registry, error) {
	r := &Registry{
		order: make([]UseCaseDefinition, 0, len(defs)),
		byKey: make(map[string]UseCaseDefinition, len(defs)),
	}
	for _, d := range defs {
		d.Key = strings.TrimSpace(d.Key)
		if d.Key == "" {
			return nil, errors.New("use case key is empty")
		}
		if _, dup := r.byKey[d.Key]; dup {
			return nil, fmt.Errorf("duplicate use case %q", d.Key)
		}
		if d.FileExtension == "" {
			d.FileExtension = DefaultExtension
		}
		r.order = append(r.order, d)
		r.byKey[d.Key] = d
	}
	return r, nil
}

func (r *Registry) Lookup(key string) (UseCaseDefinition, error) {
	d, ok := r.byKey[key]
	if !ok {
		return UseCaseDefinition{}, fmt.Errorf("%w: %q", ErrUseCaseNotFound, key)
	}
	return d, nil
}

// Extension falls back to DefaultExtension so a registry gap never blocks a download.
func (r *Registry) Extension(key string) string {
	if d, ok := r.byKey[key]; ok {
		return d.FileExtension
	}
	return DefaultExtension
}

func (r *Registry) Description(key string) string {
	if d, ok := r.byKey[key]; ok {
		return d.Description
	}
	return DefaultDescription
}

func (r *Registry) List() []UseCaseDefinition {
	out := make([]UseCaseDefinition, len(r.order))
	copy(out, r.order)
	return out
}
