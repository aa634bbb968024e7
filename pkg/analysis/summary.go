package analysis

import "strings"

// Summarize produces an extractive summary: the leading sentences, capped at
// maxSentences, always strictly shorter than the source text. Empty input
// yields an empty summary.
func Summarize(text string, maxSentences int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if maxSentences <= 0 {
		maxSentences = 1
	}

	sentences := splitSentences(trimmed)
	if len(sentences) > 1 {
		var parts []string
		total := 0
		for i, sentence := range sentences {
			if i >= maxSentences {
				break
			}
			if total+len(sentence) >= len(trimmed) {
				break
			}
			parts = append(parts, sentence)
			total += len(sentence) + 1
		}
		if len(parts) > 0 {
			summary := strings.Join(parts, " ")
			if len(summary) < len(trimmed) {
				return summary
			}
		}
	}

	// Single sentence (or pathological splits): fall back to the first half
	// of the words so the summary stays strictly shorter.
	words := strings.Fields(trimmed)
	if len(words) <= 1 {
		return ""
	}
	return strings.Join(words[:(len(words)+1)/2], " ")
}

// splitSentences breaks text on sentence-terminating punctuation, keeping the
// terminator attached to its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
