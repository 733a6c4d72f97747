package match

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Fastpacer/jobcraft/internal/ai"
	"github.com/Fastpacer/jobcraft/internal/schema"
)

// snippetCount is how many resume chunks are surfaced to generation prompts.
const snippetCount = 3

// Chunks decomposes a resume into its embeddable fragments: summary, skills,
// roles and tools, in that order, skipping empty fields. Lists are joined
// into one chunk each. An empty result means the resume has no usable text.
func Chunks(resume *schema.Resume) []string {
	if resume == nil {
		return nil
	}

	chunks := make([]string, 0, 4)

	if s := strings.TrimSpace(resume.Summary); s != "" {
		chunks = append(chunks, s)
	}
	if s := joinList(resume.Skills); s != "" {
		chunks = append(chunks, fmt.Sprintf("Skills: %s", s))
	}
	if s := joinList(resume.Roles); s != "" {
		chunks = append(chunks, fmt.Sprintf("Roles: %s", s))
	}
	if s := joinList(resume.Tools); s != "" {
		chunks = append(chunks, fmt.Sprintf("Tools: %s", s))
	}

	return chunks
}

func joinList(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, ", ")
}

// topChunks selects up to k chunk indices by descending similarity to the
// job vector. Ties keep the original chunk order.
func topChunks(chunkVectors [][]float32, jobVector []float32, k int) []int {
	indices := make([]int, len(chunkVectors))
	similarities := make([]float64, len(chunkVectors))
	for i, vec := range chunkVectors {
		indices[i] = i
		similarities[i] = cosine(vec, jobVector)
	}

	sort.SliceStable(indices, func(a, b int) bool {
		return similarities[indices[a]] > similarities[indices[b]]
	})

	if k > len(indices) {
		k = len(indices)
	}
	return indices[:k]
}

// RelevantChunks embeds the resume chunks and the job description and returns
// the top chunks by similarity, most similar first. Callers that need fresh
// snippets (the outreach generator) invoke this with their own embedder calls
// rather than reusing matcher state.
func RelevantChunks(ctx context.Context, embedder ai.Embedder, chunks []string, jobDescription string, k int) ([]string, error) {
	if len(chunks) == 0 || k <= 0 {
		return nil, nil
	}

	chunkVectors, err := embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed resume chunks: %w", err)
	}

	jobVectors, err := embedder.Embed(ctx, []string{jobDescription})
	if err != nil {
		return nil, fmt.Errorf("embed job description: %w", err)
	}

	selected := topChunks(chunkVectors, jobVectors[0], k)

	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, chunks[idx])
	}
	return out, nil
}
