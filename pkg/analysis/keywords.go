package analysis

import (
	"sort"
	"strings"
	"unicode"
)

// stopwords are excluded from keyword and topic scoring.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "have": {}, "been": {},
	"this": {}, "that": {}, "with": {}, "they": {}, "them": {}, "from": {},
	"will": {}, "would": {}, "there": {}, "their": {}, "what": {}, "about": {},
	"which": {}, "when": {}, "your": {}, "were": {}, "more": {}, "some": {},
	"into": {}, "than": {}, "then": {}, "its": {}, "also": {}, "these": {},
	"other": {}, "such": {}, "only": {}, "over": {}, "most": {}, "after": {},
	"very": {}, "just": {}, "where": {}, "here": {}, "each": {}, "between": {},
	"being": {}, "both": {}, "under": {}, "while": {}, "should": {}, "could": {},
	"may": {}, "might": {}, "must": {}, "shall": {}, "does": {}, "did": {},
	"how": {}, "why": {}, "who": {}, "whom": {}, "any": {}, "because": {},
}

// tokenize lowercases text and splits it into word tokens, dropping
// punctuation and digits-only tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if f == "" {
			continue
		}
		hasLetter := false
		for _, r := range f {
			if unicode.IsLetter(r) {
				hasLetter = true
				break
			}
		}
		if hasLetter {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ExtractKeywords scores tokens by normalized frequency and returns the top
// limit terms sorted by weight descending. Ties are broken by first
// occurrence order, so the result is deterministic for a given text.
func ExtractKeywords(text string, limit int) []Keyword {
	tokens := tokenize(text)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, tok := range tokens {
		if len(tok) < 3 {
			continue
		}
		if _, skip := stopwords[tok]; skip {
			continue
		}
		if _, seen := counts[tok]; !seen {
			firstSeen[tok] = i
		}
		counts[tok]++
	}

	if len(counts) == 0 {
		return []Keyword{}
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		ci, cj := counts[terms[i]], counts[terms[j]]
		if ci != cj {
			return ci > cj
		}
		return firstSeen[terms[i]] < firstSeen[terms[j]]
	})

	if len(terms) > limit {
		terms = terms[:limit]
	}

	keywords := make([]Keyword, 0, len(terms))
	for _, term := range terms {
		keywords = append(keywords, Keyword{
			Term:   term,
			Weight: float64(counts[term]) / float64(maxCount),
		})
	}
	return keywords
}

// maxTopics caps the topic list.
const maxTopics = 5

// ExtractTopics labels the salient themes of the text. Topics come from
// repeated keywords and heading terms; any text with at least one sentence
// yields a non-empty list.
func ExtractTopics(text string, headings []string) []string {
	topics := []string{}
	seen := make(map[string]struct{})

	add := func(topic string) {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic == "" || len(topics) >= maxTopics {
			return
		}
		if _, dup := seen[topic]; dup {
			return
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}

	// Heading terms are the strongest theme signal the structure offers.
	for _, heading := range headings {
		for _, tok := range tokenize(heading) {
			if len(tok) < 3 {
				continue
			}
			if _, skip := stopwords[tok]; skip {
				continue
			}
			add(tok)
			break // one topic per heading
		}
	}

	for _, kw := range ExtractKeywords(text, maxTopics) {
		add(kw.Term)
	}

	if len(topics) == 0 && countSentences(text) >= 1 && len(tokenize(text)) > 0 {
		add("general")
	}
	return topics
}

// maxEntities caps the entity list.
const maxEntities = 10

// ExtractEntities finds candidate named entities: runs of capitalized words
// that do not begin a sentence. Purely heuristic, deduplicated in order of
// appearance.
func ExtractEntities(text string) []string {
	entities := []string{}
	seen := make(map[string]struct{})

	words := strings.Fields(text)
	sentenceStart := true
	var run []string

	flush := func() {
		if len(run) == 0 {
			return
		}
		entity := strings.Join(run, " ")
		run = nil
		if len(entity) < 3 || len(entities) >= maxEntities {
			return
		}
		if _, dup := seen[entity]; dup {
			return
		}
		seen[entity] = struct{}{}
		entities = append(entities, entity)
	}

	for _, word := range words {
		trimmed := strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		isCapitalized := trimmed != "" && unicode.IsUpper([]rune(trimmed)[0])

		if isCapitalized && !sentenceStart {
			run = append(run, trimmed)
		} else {
			flush()
		}

		sentenceStart = strings.ContainsAny(word, ".!?")
	}
	flush()

	return entities
}
