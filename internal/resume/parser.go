// Package resume converts raw resume text into the structured schema.Resume
// via a single text-generation call with a strict JSON-only output contract.
package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Fastpacer/jobcraft/internal/ai"
	"github.com/Fastpacer/jobcraft/internal/logger"
	"github.com/Fastpacer/jobcraft/internal/schema"

	"go.uber.org/zap"
)

const systemPrompt = `You are an expert resume analyst.

Your task:
- Extract structured information from a resume.
- Return ONLY valid JSON.
- Do NOT include explanations or markdown.

The JSON must match this schema exactly:

{
  "name": string | null,
  "total_experience_years": number | null,
  "roles": string[],
  "skills": string[],
  "tools": string[],
  "summary": string | null
}`

const maxLogPreview = 200

// MalformedOutputError reports a model response that is not valid JSON.
// Raw carries the full response for diagnosis. No retry is attempted.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("model did not return valid JSON: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// SchemaError reports valid JSON that does not match the resume shape.
type SchemaError struct {
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("resume field %q has wrong type: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("resume does not match expected shape: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Parser extracts a structured resume from unstructured text.
type Parser struct {
	generator ai.TextGenerator
	logger    *zap.Logger
}

func NewParser(generator ai.TextGenerator, log *zap.Logger) *Parser {
	return &Parser{generator: generator, logger: log}
}

// Parse issues one generation call and decodes the response. A syntactically
// invalid response is a terminal failure for the run.
func (p *Parser) Parse(ctx context.Context, resumeText string) (*schema.Resume, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, errors.New("resume text must not be empty")
	}

	prompt := fmt.Sprintf("Resume text:\n%s", resumeText)

	p.logger.Debug("resume parse request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := p.generator.Generate(ctx, prompt, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}

	p.logger.Debug("resume parse response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, maxLogPreview)),
	)

	return Decode(raw)
}

// Decode parses model output into a Resume. Code fences around the JSON are
// tolerated; unknown fields are ignored; type mismatches fail with a
// SchemaError.
func Decode(raw string) (*schema.Resume, error) {
	cleaned := stripFences(raw)

	var parsed schema.Resume
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaError{Field: typeErr.Field, Err: err}
		}
		return nil, &MalformedOutputError{Raw: raw, Err: err}
	}

	return &parsed, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
