package entity

import (
	"fmt"
	"unicode/utf8"
)

const (
	UsageSourceEstimate = "estimate"
	UsageSourceProvider = "provider"
)

// UsageStats is advisory. Token counts are either provider-reported or a
// character heuristic; neither is billing truth.
type UsageStats struct {
	InputTokens      int    `json:"inputTokens"`
	OutputTokens     int    `json:"outputTokens"`
	TotalTokens      int    `json:"totalTokens"`
	EstimatedCostUSD string `json:"estimatedCostUsd"`
	Source           string `json:"source"`
}

// EstimateTokens approximates a token count as ceil(characters/4).
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}

func EstimateUsage(prompt, response string, inputRatePerMillion, outputRatePerMillion float64) UsageStats {
	return newUsage(EstimateTokens(prompt), EstimateTokens(response), inputRatePerMillion, outputRatePerMillion, UsageSourceEstimate)
}

// UsageFromCompletion prefers the counts the provider reported and falls back
// to the heuristic for whichever side is missing.
func UsageFromCompletion(prompt string, c Completion, inputRatePerMillion, outputRatePerMillion float64) UsageStats {
	if c.InputTokens <= 0 || c.OutputTokens <= 0 {
		return EstimateUsage(prompt, c.Text, inputRatePerMillion, outputRatePerMillion)
	}
	return newUsage(c.InputTokens, c.OutputTokens, inputRatePerMillion, outputRatePerMillion, UsageSourceProvider)
}

func newUsage(in, out int, inRate, outRate float64, source string) UsageStats {
	cost := (float64(in)*inRate + float64(out)*outRate) / 1_000_000
	return UsageStats{
		InputTokens:      in,
		OutputTokens:     out,
		TotalTokens:      in + out,
		EstimatedCostUSD: fmt.Sprintf("%.6f", cost),
		Source:           source,
	}
}
