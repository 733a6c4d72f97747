package outreach

import "strings"

// DedupeLines strips each line, drops empty lines, and drops any line exactly
// equal to one already seen, preserving first-occurrence order. It stabilizes
// generated messages against verbatim repetition artifacts and is idempotent.
func DedupeLines(text string) string {
	seen := make(map[string]struct{})
	kept := make([]string, 0)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}
