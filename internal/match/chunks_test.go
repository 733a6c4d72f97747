package match

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/Fastpacer/jobcraft/internal/schema"
)

func TestChunks(t *testing.T) {
	resume := &schema.Resume{
		Summary: "Backend engineer with platform experience.",
		Skills:  []string{"Go", "Kubernetes"},
		Roles:   []string{"SRE"},
		Tools:   []string{"Terraform", ""},
	}

	got := Chunks(resume)
	want := []string{
		"Backend engineer with platform experience.",
		"Skills: Go, Kubernetes",
		"Roles: SRE",
		"Tools: Terraform",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected chunks:\ngot  %q\nwant %q", got, want)
	}
}

func TestChunksSkipsEmptyFields(t *testing.T) {
	resume := &schema.Resume{
		Skills: []string{"Python"},
	}

	got := Chunks(resume)
	want := []string{"Skills: Python"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected chunks: got %q, want %q", got, want)
	}
}

func TestChunksEmptyResume(t *testing.T) {
	if got := Chunks(&schema.Resume{}); len(got) != 0 {
		t.Fatalf("expected no chunks for empty resume, got %q", got)
	}
	if got := Chunks(nil); got != nil {
		t.Fatalf("expected nil chunks for nil resume, got %q", got)
	}
}

func TestTopChunksOrdering(t *testing.T) {
	vectors := [][]float32{
		{1, 0},    // similarity 0 against job
		{0, 1},    // similarity 1
		{0.5, 0.5}, // in between
	}
	job := []float32{0, 1}

	got := topChunks(vectors, job, 2)
	want := []int{1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected selection: got %v, want %v", got, want)
	}
}

func TestTopChunksTiesKeepOriginalOrder(t *testing.T) {
	vectors := [][]float32{
		{0, 1},
		{0, 2},
		{0, 3},
	}
	job := []float32{0, 1}

	// All three are perfectly aligned with the job vector.
	got := topChunks(vectors, job, 3)
	want := []int{0, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tied chunks reordered: got %v, want %v", got, want)
	}
}

func TestTopChunksClampsK(t *testing.T) {
	vectors := [][]float32{{1, 0}, {0, 1}}

	if got := topChunks(vectors, []float32{1, 0}, 5); len(got) != 2 {
		t.Fatalf("expected selection clamped to %d chunks, got %d", 2, len(got))
	}
}

func TestRelevantChunks(t *testing.T) {
	embed := &stubEmbedder{vectors: map[string][]float32{
		"go services":  {0, 1},
		"timesheets":   {1, 0},
		"job about go": {0, 1},
	}}

	got, err := RelevantChunks(context.Background(), embed, []string{"timesheets", "go services"}, "job about go", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "go services" {
		t.Fatalf("unexpected snippets: %q", got)
	}
	if embed.calls != 2 {
		t.Fatalf("expected 2 embed calls, got %d", embed.calls)
	}
}

func TestRelevantChunksEmptyInput(t *testing.T) {
	embed := &stubEmbedder{}

	got, err := RelevantChunks(context.Background(), embed, nil, "anything", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no snippets, got %q", got)
	}
	if embed.calls != 0 {
		t.Fatalf("expected no embed calls for empty chunks, got %d", embed.calls)
	}
}

// stubEmbedder maps exact texts to fixed vectors. Unknown texts get a vector
// orthogonal to everything in the fixture.
type stubEmbedder struct {
	vectors map[string][]float32
	calls   int
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, ok := s.vectors[text]
		if !ok {
			vec = []float32{0, 0}
		}
		out = append(out, vec)
	}
	return out, nil
}

// stubGenerator records prompts and replays canned responses in order. The
// last response repeats once the list is exhausted.
type stubGenerator struct {
	responses     []string
	prompts       []string
	systemPrompts []string
	calls         int
	err           error
}

func (s *stubGenerator) Generate(_ context.Context, prompt, systemPrompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.systemPrompts = append(s.systemPrompts, systemPrompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", nil
	}
	idx := s.calls - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

func (s *stubGenerator) lastPrompt() string {
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

func promptContains(t *testing.T, prompt, needle string) {
	t.Helper()
	if !strings.Contains(prompt, needle) {
		t.Fatalf("prompt missing %q:\n%s", needle, prompt)
	}
}
