package analysis

// Small polarity lexicons for heuristic sentiment. Matching is done on
// lowercased tokens, so entries are lowercase.
var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "amazing": {}, "wonderful": {},
	"best": {}, "love": {}, "loved": {}, "happy": {}, "fantastic": {},
	"awesome": {}, "perfect": {}, "beautiful": {}, "enjoy": {}, "enjoyed": {},
	"helpful": {}, "impressive": {}, "positive": {}, "success": {},
	"successful": {}, "win": {}, "easy": {}, "reliable": {}, "recommend": {},
	"recommended": {}, "favorite": {}, "delightful": {}, "outstanding": {},
	"superb": {}, "brilliant": {}, "pleased": {}, "satisfied": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "horrible": {}, "worst": {},
	"hate": {}, "hated": {}, "poor": {}, "disappointing": {},
	"disappointed": {}, "negative": {}, "fail": {}, "failed": {},
	"failure": {}, "broken": {}, "problem": {}, "problems": {}, "issue": {},
	"issues": {}, "difficult": {}, "ugly": {}, "slow": {}, "unreliable": {},
	"useless": {}, "annoying": {}, "frustrating": {}, "angry": {}, "sad": {},
	"wrong": {}, "error": {}, "errors": {}, "crash": {}, "crashed": {},
}

// ScoreSentiment computes a bounded sentiment score in [-1, 1] from polarity
// word counts and maps it to a label using the supplied thresholds:
// score >= positiveThreshold is positive, score <= negativeThreshold is
// negative, anything between is neutral. Empty or polarity-free text scores
// zero and is neutral.
func ScoreSentiment(text string, positiveThreshold, negativeThreshold float64) Sentiment {
	tokens := tokenize(text)

	var pos, neg int
	for _, tok := range tokens {
		if _, ok := positiveWords[tok]; ok {
			pos++
		} else if _, ok := negativeWords[tok]; ok {
			neg++
		}
	}

	score := 0.0
	if pos+neg > 0 {
		score = float64(pos-neg) / float64(pos+neg)
	}

	label := SentimentNeutral
	switch {
	case score >= positiveThreshold && pos+neg > 0:
		label = SentimentPositive
	case score <= negativeThreshold && pos+neg > 0:
		label = SentimentNegative
	}

	return Sentiment{Score: score, Label: label}
}
