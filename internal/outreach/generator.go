// Package outreach generates one personalized message per scored job that
// clears the pipeline's score gate.
package outreach

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Fastpacer/jobcraft/internal/ai"
	"github.com/Fastpacer/jobcraft/internal/logger"
	"github.com/Fastpacer/jobcraft/internal/match"
	"github.com/Fastpacer/jobcraft/internal/schema"

	"go.uber.org/zap"
)

const systemPrompt = `You are an expert career consultant specializing in personalized job outreach.

Rules (must follow all):
- Write ONE concise outreach message (under 100 words).
- Reference 2-3 specific resume details (e.g., skills, projects, experiences) that match the job.
- Highlight how the candidate's background aligns with the job's requirements.
- Use a professional, enthusiastic tone.
- Do NOT repeat phrases, include explanations, or mention fit scores.
- Output ONLY the message text (no subject, no markdown).
- Make it unique: Avoid generic phrases like "I am excited to apply."`

// Tone markers selected by fit score. The threshold here is fixed and
// independent of the pipeline's configurable score gate.
const (
	toneConfident   = "confident and direct"
	toneExploratory = "approachable and exploratory"
	toneThreshold   = 70

	snippetCount  = 3
	maxLogPreview = 200
)

// Generator produces outreach messages grounded on the resume snippets most
// relevant to each job.
type Generator struct {
	generator ai.TextGenerator
	embedder  ai.Embedder
	keywords  KeywordExtractor
	logger    *zap.Logger
}

func NewGenerator(generator ai.TextGenerator, embedder ai.Embedder, keywords KeywordExtractor, log *zap.Logger) *Generator {
	if keywords == nil {
		keywords = NaiveExtractor{}
	}
	return &Generator{
		generator: generator,
		embedder:  embedder,
		keywords:  keywords,
		logger:    log,
	}
}

// Message generates one outreach message for a job. The snippet retrieval
// runs its own embedding calls; whatever text the model returns is used
// as-is after line deduplication.
func (g *Generator) Message(ctx context.Context, resume *schema.Resume, job schema.Job, fitScore int) (string, error) {
	snippets, err := match.RelevantChunks(ctx, g.embedder, match.Chunks(resume), job.Description, snippetCount)
	if err != nil {
		return "", fmt.Errorf("retrieve resume snippets: %w", err)
	}

	prompt := g.buildPrompt(resume, job, fitScore, snippets)

	g.logger.Debug("outreach request",
		zap.String("job_title", job.Title),
		zap.Int("fit_score", fitScore),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, maxLogPreview)),
	)

	message, err := g.generator.Generate(ctx, prompt, systemPrompt)
	if err != nil {
		return "", fmt.Errorf("generate outreach for %q: %w", job.Title, err)
	}

	return DedupeLines(message), nil
}

// Tone returns the tone marker for a fit score. Scores strictly above the
// threshold get the confident tone; the threshold itself stays exploratory.
func Tone(fitScore int) string {
	if fitScore > toneThreshold {
		return toneConfident
	}
	return toneExploratory
}

func (g *Generator) buildPrompt(resume *schema.Resume, job schema.Job, fitScore int, snippets []string) string {
	name := strings.TrimSpace(resume.Name)
	if name == "" {
		name = "Candidate"
	}
	summary := strings.TrimSpace(resume.Summary)
	if summary == "" {
		summary = "Experienced professional"
	}

	var b strings.Builder
	b.WriteString("Generate a personalized outreach message for a job application.\n\n")

	b.WriteString("Candidate Resume Details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	fmt.Fprintf(&b, "- Summary: %s\n", summary)
	fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(resume.Skills, ", "))
	fmt.Fprintf(&b, "- Roles: %s\n", strings.Join(resume.Roles, ", "))
	fmt.Fprintf(&b, "- Tools: %s\n", strings.Join(resume.Tools, ", "))
	fmt.Fprintf(&b, "- Experience: %g years\n", resume.TotalExperienceYears)

	if len(snippets) > 0 {
		b.WriteString("\nMost relevant resume details for this job:\n")
		for _, snippet := range snippets {
			fmt.Fprintf(&b, "- %s\n", snippet)
		}
	}

	b.WriteString("\nJob Details:\n")
	fmt.Fprintf(&b, "- Title: %s\n", job.Title)
	fmt.Fprintf(&b, "- Company: %s\n", job.Company)
	fmt.Fprintf(&b, "- Description: %s\n", job.Description)
	fmt.Fprintf(&b, "- Key Requirements: %s\n", strings.Join(g.keywords.Extract(job.Description), ", "))

	fmt.Fprintf(&b, "\nTone: %s\n", Tone(fitScore))
	b.WriteString("\nFocus on matching skills/experiences to job needs, and express genuine interest in the role/company.")

	return b.String()
}
