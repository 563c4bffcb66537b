package entity

import (
	"fmt"
	"strings"
)

const SystemInstruction = "You are an expert DevOps engineer. Generate clean, well-commented, production-ready configurations and scripts following industry best practices."

type Environment string

const (
	EnvDevelopment Environment = "Development"
	EnvStaging     Environment = "Staging"
	EnvProduction  Environment = "Production"
)

var Environments = []Environment{EnvDevelopment, EnvStaging, EnvProduction}

// ParseEnvironment accepts any casing; an empty value means Development.
func ParseEnvironment(s string) (Environment, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EnvDevelopment, nil
	}
	for _, e := range Environments {
		if strings.EqualFold(s, string(e)) {
			return e, nil
		}
	}
	return "", Errorf(KindInvalidInput, "parse environment", "unknown environment %q", s)
}

type GenerationRequest struct {
	UseCase         string      `json:"useCase"`
	TechStack       string      `json:"techStack"`
	Environment     Environment `json:"environment"`
	IncludeSecurity bool        `json:"includeSecurity"`
	AddMonitoring   bool        `json:"addMonitoring"`
}

var requirementsBlock = []string{
	"Requirements:",
	"- Add helpful comments explaining each section",
	"- Follow industry best practices",
	"- Make it production-ready",
	"- Include error handling where applicable",
}

// BuildPrompt renders the request as the user turn sent to the provider.
// Output depends only on req.
func BuildPrompt(req GenerationRequest) (string, error) {
	useCase := strings.TrimSpace(req.UseCase)
	if useCase == "" {
		return "", Errorf(KindInvalidInput, "build prompt", "use case is required")
	}
	stack := strings.TrimSpace(req.TechStack)
	if stack == "" {
		return "", Errorf(KindInvalidInput, "build prompt", "technology stack description is empty")
	}
	env := req.Environment
	if env == "" {
		env = EnvDevelopment
	}

	lines := []string{
		fmt.Sprintf("Write a complete %s for this technology stack: %s.", useCase, stack),
		"",
		fmt.Sprintf("Target environment: %s", env),
	}
	if req.IncludeSecurity {
		lines = append(lines, "Include security best practices and comments.")
	}
	if req.AddMonitoring {
		lines = append(lines, "Include monitoring and logging setup.")
	}
	lines = append(lines, "")
	lines = append(lines, requirementsBlock...)

	return strings.Join(lines, "\n"), nil
}
