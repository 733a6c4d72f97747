package match

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Fastpacer/jobcraft/internal/ai"
	"github.com/Fastpacer/jobcraft/internal/schema"

	"go.uber.org/zap"
)

// LLMScorer is the heuristic-only strategy: one generation call per job over
// the serialized resume, no embeddings. A response without an integer scores
// the job 0.
type LLMScorer struct {
	generator ai.TextGenerator
	logger    *zap.Logger
}

func NewLLMScorer(generator ai.TextGenerator, log *zap.Logger) *LLMScorer {
	return &LLMScorer{generator: generator, logger: log}
}

func (s *LLMScorer) Score(ctx context.Context, resume *schema.Resume, jobs []schema.Job) ([]schema.ScoredJob, error) {
	resumeJSON, err := json.Marshal(resume)
	if err != nil {
		return nil, fmt.Errorf("marshal resume: %w", err)
	}

	scored := make([]schema.ScoredJob, 0, len(jobs))
	for _, job := range jobs {
		prompt := fmt.Sprintf(
			"Resume:\n%s\n\nJob Title: %s\nCompany: %s\nDescription: %s\n\nFit Score (0-100, integer only):",
			resumeJSON, job.Title, job.Company, job.Description,
		)

		response, err := s.generator.Generate(ctx, prompt, scoringSystemPrompt)
		if err != nil {
			return nil, fmt.Errorf("score %q: %w", job.Title, err)
		}

		score := extractScore(response, 0)

		s.logger.Info("job scored",
			zap.String("job_title", job.Title),
			zap.String("company", job.Company),
			zap.Int("final_score", score),
		)

		scored = append(scored, schema.ScoredJob{Job: job, FitScore: score})
	}

	return scored, nil
}
