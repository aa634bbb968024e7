package analysis

import "strings"

// Level thresholds for the Flesch reading-ease score: at or above
// levelElementaryMin reads as elementary, at or above levelIntermediateMin as
// intermediate, anything below as advanced.
const (
	levelElementaryMin   = 70.0
	levelIntermediateMin = 50.0
)

// ScoreReadability computes the Flesch reading-ease score
//
//	206.835 - 1.015*(words/sentences) - 84.6*(syllables/words)
//
// clamped to [0, 100], and maps it to a coarse level. Empty text scores 100
// (nothing to read) and is elementary.
func ScoreReadability(text string) Readability {
	words := tokenize(text)
	if len(words) == 0 {
		return Readability{Score: 100, Level: LevelElementary}
	}

	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, word := range words {
		syllables += countSyllables(word)
	}

	score := 206.835 -
		1.015*(float64(len(words))/float64(sentences)) -
		84.6*(float64(syllables)/float64(len(words)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	level := LevelAdvanced
	switch {
	case score >= levelElementaryMin:
		level = LevelElementary
	case score >= levelIntermediateMin:
		level = LevelIntermediate
	}

	return Readability{Score: score, Level: level}
}

// countSentences counts sentence-terminating punctuation runs. Text with
// words but no terminator counts as one sentence.
func countSentences(text string) int {
	count := 0
	inTerminator := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inTerminator {
				count++
			}
			inTerminator = true
		default:
			inTerminator = false
		}
	}
	if count == 0 && strings.TrimSpace(text) != "" {
		return 1
	}
	return count
}

// countSyllables approximates English syllables as vowel groups, with the
// usual silent-e adjustment. Every word has at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
