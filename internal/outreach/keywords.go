package outreach

import "strings"

// KeywordExtractor pulls key requirement terms out of a job description for
// grounding the generation prompt.
type KeywordExtractor interface {
	Extract(description string) []string
}

const maxKeywords = 10

var stopwords = map[string]struct{}{
	"with": {},
	"and":  {},
	"the":  {},
	"for":  {},
	"are":  {},
	"you":  {},
}

// NaiveExtractor is the default extractor: lowercase whitespace split with a
// small stopword list and a minimum length, keeping up to maxKeywords unique
// terms in first-occurrence order.
type NaiveExtractor struct{}

func (NaiveExtractor) Extract(description string) []string {
	seen := make(map[string]struct{})
	keywords := make([]string, 0, maxKeywords)

	for _, word := range strings.Fields(strings.ToLower(description)) {
		if len(word) <= 3 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}

	return keywords
}
