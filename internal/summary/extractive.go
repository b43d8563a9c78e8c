package summary

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxSentences is the sentence budget used for session summaries.
const DefaultMaxSentences = 5

// minScoreDivisor is the floor applied to a sentence's token count when
// normalizing its score, so very short sentences don't get an unfair boost.
const minScoreDivisor = 5

var wordPattern = regexp.MustCompile(`[a-z0-9']+`)

// stopwords are excluded from the frequency table so high-frequency,
// low-information words never influence sentence ranking.
var stopwords = map[string]struct{}{
	"the": {}, "is": {}, "in": {}, "at": {}, "of": {}, "a": {}, "an": {},
	"and": {}, "or": {}, "to": {}, "for": {}, "on": {}, "with": {}, "as": {},
	"by": {}, "it": {}, "this": {}, "that": {}, "from": {}, "are": {},
	"be": {}, "was": {}, "were": {}, "will": {}, "can": {}, "could": {},
}

// Extract produces a deterministic extractive summary: sentences are scored by
// the global frequency of their content words, the top maxSentences are
// selected, and the selection is re-ordered to original document order.
// It never fails and makes no external calls.
func Extract(text string, maxSentences int) string {
	if text == "" || maxSentences <= 0 {
		return ""
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}

	freq := make(map[string]int)
	for _, tok := range tokenize(text) {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		freq[tok]++
	}

	type scoredSentence struct {
		index int
		score float64
	}

	ranked := make([]scoredSentence, len(sentences))
	for i, s := range sentences {
		toks := tokenize(s)
		sum := 0
		for _, t := range toks {
			// Stopwords have no frequency entry and contribute 0.
			sum += freq[t]
		}
		divisor := len(toks)
		if divisor < minScoreDivisor {
			divisor = minScoreDivisor
		}
		ranked[i] = scoredSentence{index: i, score: float64(sum) / float64(divisor)}
	}

	// Stable sort: equal scores keep document order, so the earlier sentence
	// wins ties for inclusion.
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	n := maxSentences
	if n > len(sentences) {
		n = len(sentences)
	}
	selected := ranked[:n]

	sort.Slice(selected, func(a, b int) bool {
		return selected[a].index < selected[b].index
	})

	parts := make([]string, len(selected))
	for i, s := range selected {
		parts[i] = strings.TrimSpace(sentences[s.index])
	}
	return strings.Join(parts, " ")
}

// splitSentences collapses whitespace runs to single spaces and splits on
// sentence terminators (., !, ?), keeping the terminator with its sentence.
// Text with no terminator is a single sentence.
func splitSentences(text string) []string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if collapsed == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i, r := range collapsed {
		if r == '.' || r == '!' || r == '?' {
			sentences = append(sentences, collapsed[start:i+1])
			start = i + 1
		}
	}
	if strings.TrimSpace(collapsed[start:]) != "" {
		sentences = append(sentences, collapsed[start:])
	}
	return sentences
}

// tokenize extracts lowercase word tokens (alphanumeric plus apostrophe).
func tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}
