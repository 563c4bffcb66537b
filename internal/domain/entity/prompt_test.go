package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := GenerationRequest{
		UseCase:         "Dockerfile",
		TechStack:       "Go 1.24, PostgreSQL",
		Environment:     EnvProduction,
		IncludeSecurity: true,
		AddMonitoring:   true,
	}
	first, err := BuildPrompt(req)
	require.NoError(t, err)
	second, err := BuildPrompt(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	want := strings.Join([]string{
		"Write a complete Dockerfile for this technology stack: Go 1.24, PostgreSQL.",
		"",
		"Target environment: Production",
		"Include security best practices and comments.",
		"Include monitoring and logging setup.",
		"",
		"Requirements:",
		"- Add helpful comments explaining each section",
		"- Follow industry best practices",
		"- Make it production-ready",
		"- Include error handling where applicable",
	}, "\n")
	assert.Equal(t, want, first)
}

func TestBuildPrompt_OptionalLines(t *testing.T) {
	base := GenerationRequest{UseCase: "Shell Script", TechStack: "bash", Environment: EnvStaging}

	plain, err := BuildPrompt(base)
	require.NoError(t, err)
	assert.NotContains(t, plain, "security")
	assert.NotContains(t, plain, "monitoring")

	withMonitoring := base
	withMonitoring.AddMonitoring = true
	p, err := BuildPrompt(withMonitoring)
	require.NoError(t, err)
	assert.Contains(t, p, "Target environment: Staging\nInclude monitoring and logging setup.\n\nRequirements:")
	assert.NotContains(t, p, "security")
}

func TestBuildPrompt_TrimsStackAndDefaultsEnvironment(t *testing.T) {
	p, err := BuildPrompt(GenerationRequest{UseCase: "Dockerfile", TechStack: "  Node.js \n"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "Write a complete Dockerfile for this technology stack: Node.js.\n"))
	assert.Contains(t, p, "Target environment: Development")
}

func TestBuildPrompt_EmptyStack(t *testing.T) {
	for _, stack := range []string{"", "   ", "\t\n"} {
		_, err := BuildPrompt(GenerationRequest{UseCase: "Dockerfile", TechStack: stack})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.Equal(t, KindInvalidInput, KindOf(err))
	}
}

func TestParseEnvironment(t *testing.T) {
	env, err := ParseEnvironment("")
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, env)

	env, err = ParseEnvironment("production")
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, env)

	_, err = ParseEnvironment("qa")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
