package match

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Fastpacer/jobcraft/internal/ai"
	"github.com/Fastpacer/jobcraft/internal/logger"
	"github.com/Fastpacer/jobcraft/internal/schema"

	"go.uber.org/zap"
)

const maxLogPreview = 200

// RetrievalScorer combines embedding similarity with a language-model
// judgment. The embedding similarity sets a floor: the model can raise a
// job's score but never lower it below what similarity established.
type RetrievalScorer struct {
	generator ai.TextGenerator
	embedder  ai.Embedder
	logger    *zap.Logger
}

func NewRetrievalScorer(generator ai.TextGenerator, embedder ai.Embedder, log *zap.Logger) *RetrievalScorer {
	return &RetrievalScorer{
		generator: generator,
		embedder:  embedder,
		logger:    log,
	}
}

// Score evaluates every job against the resume. A resume with no usable text
// scores all jobs 0 without touching the model capabilities.
func (s *RetrievalScorer) Score(ctx context.Context, resume *schema.Resume, jobs []schema.Job) ([]schema.ScoredJob, error) {
	scored := make([]schema.ScoredJob, 0, len(jobs))

	chunks := Chunks(resume)
	if len(chunks) == 0 {
		s.logger.Info("resume has no usable fields, scoring all jobs zero",
			zap.Int("jobs", len(jobs)),
		)
		for _, job := range jobs {
			scored = append(scored, schema.ScoredJob{Job: job, FitScore: 0})
		}
		return scored, nil
	}

	chunkVectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed resume chunks: %w", err)
	}
	resumeVector := mean(chunkVectors)

	for _, job := range jobs {
		jobVectors, err := s.embedder.Embed(ctx, []string{job.Description})
		if err != nil {
			return nil, fmt.Errorf("embed job description: %w", err)
		}
		jobVector := jobVectors[0]

		base := scaleSimilarity(cosine(resumeVector, jobVector))

		snippets := make([]string, 0, snippetCount)
		for _, idx := range topChunks(chunkVectors, jobVector, snippetCount) {
			snippets = append(snippets, chunks[idx])
		}

		llmScore, err := s.refine(ctx, resume, snippets, job, base)
		if err != nil {
			return nil, err
		}

		final := base
		if llmScore > final {
			final = llmScore
		}
		final = schema.ClampScore(final)

		s.logger.Info("job scored",
			zap.String("job_title", job.Title),
			zap.String("company", job.Company),
			zap.Int("base_score", base),
			zap.Int("llm_score", llmScore),
			zap.Int("final_score", final),
		)

		scored = append(scored, schema.ScoredJob{Job: job, FitScore: final})
	}

	return scored, nil
}

// refine asks the model for an integer judgment grounded on the retrieved
// snippets. A response without an integer falls back to the base score.
func (s *RetrievalScorer) refine(ctx context.Context, resume *schema.Resume, snippets []string, job schema.Job, base int) (int, error) {
	prompt := buildRefinementPrompt(resume, snippets, job)

	s.logger.Debug("refinement request",
		zap.String("job_title", job.Title),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, maxLogPreview)),
	)

	response, err := s.generator.Generate(ctx, prompt, scoringSystemPrompt)
	if err != nil {
		return 0, fmt.Errorf("refine score for %q: %w", job.Title, err)
	}

	return extractScore(response, base), nil
}

func buildRefinementPrompt(resume *schema.Resume, snippets []string, job schema.Job) string {
	var b strings.Builder

	b.WriteString("Resume:\n")
	fmt.Fprintf(&b, "- Summary: %s\n", strings.TrimSpace(resume.Summary))
	fmt.Fprintf(&b, "- Skills: %s\n", joinList(resume.Skills))
	fmt.Fprintf(&b, "- Roles: %s\n", joinList(resume.Roles))
	fmt.Fprintf(&b, "- Tools: %s\n", joinList(resume.Tools))

	b.WriteString("\nMost relevant resume details for this job:\n")
	for _, snippet := range snippets {
		fmt.Fprintf(&b, "- %s\n", snippet)
	}

	fmt.Fprintf(&b, "\nJob Title: %s\n", job.Title)
	fmt.Fprintf(&b, "Company: %s\n", job.Company)
	fmt.Fprintf(&b, "Description: %s\n", job.Description)
	b.WriteString("\nFit Score (0-100, integer only):")

	return b.String()
}
