// Package match assigns each discovered job a fit score in [0, 100] against
// one parsed resume. Two strategies share the Scorer contract: the normative
// retrieval-augmented scorer and an LLM-only fallback.
package match

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/Fastpacer/jobcraft/internal/schema"
)

// Strategy names accepted in configuration.
const (
	StrategyRetrieval = "retrieval"
	StrategyLLM       = "llm"
)

const scoringSystemPrompt = `You are an expert recruiter.

Analyze the resume and job description.
Return ONLY an integer fit score from 0 to 100.
No explanations, no text - just the number.
Consider skills, experience, and relevance.
Be strict but fair.`

// Scorer evaluates all jobs against one resume within a pipeline run.
type Scorer interface {
	Score(ctx context.Context, resume *schema.Resume, jobs []schema.Job) ([]schema.ScoredJob, error)
}

var integerPattern = regexp.MustCompile(`\d+`)

// extractScore pulls the first integer out of a model response, clamped to
// [0, 100]. The fallback is returned when no integer is present; a terse or
// malformed response is a designed fallback case, not a failure.
func extractScore(response string, fallback int) int {
	digits := integerPattern.FindString(strings.TrimSpace(response))
	if digits == "" {
		return fallback
	}

	score, err := strconv.Atoi(digits)
	if err != nil {
		return fallback
	}

	return schema.ClampScore(score)
}
