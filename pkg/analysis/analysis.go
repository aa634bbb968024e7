// Package analysis derives semantic insights from extracted page content.
// Every facet is a pure function of the snapshot's text, URL, and structure,
// so identical input always yields identical insights; that property is what
// lets callers memoize insight bundles by content hash.
package analysis

import (
	"context"
	"fmt"

	"github.com/entrhq/browsecore/pkg/browser"
	"github.com/entrhq/browsecore/pkg/llm"
	"github.com/entrhq/browsecore/pkg/logging"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Readability levels.
const (
	LevelElementary   = "elementary"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Page types.
const (
	PageTypeGeneric      = "generic"
	PageTypeArticle      = "article"
	PageTypeProduct      = "product"
	PageTypeAbout        = "about"
	PageTypeContact      = "contact"
	PageTypeSearch       = "search"
	PageTypeLogin        = "login"
	PageTypeRegistration = "registration"
	PageTypeCheckout     = "checkout"
)

// Keyword is a scored term.
type Keyword struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Sentiment is a bounded score mapped to one of three labels.
type Sentiment struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// Readability is a standard readability score mapped to a coarse level.
type Readability struct {
	Score float64 `json:"score"`
	Level string  `json:"level"`
}

// Insights is the full semantic analysis of one content snapshot.
type Insights struct {
	Keywords    []Keyword   `json:"keywords"`
	Topics      []string    `json:"topics"`
	Entities    []string    `json:"entities"`
	Sentiment   Sentiment   `json:"sentiment"`
	Readability Readability `json:"readability"`
	Summary     string      `json:"summary"`
	PageType    string      `json:"page_type"`
}

// Config holds the analyzer's tunables. Threshold values are configuration,
// not literals baked into facet logic.
type Config struct {
	// SentimentPositive and SentimentNegative map the bounded sentiment
	// score to labels: score >= positive is positive, score <= negative is
	// negative, anything between is neutral.
	SentimentPositive float64
	SentimentNegative float64

	// KeywordLimit caps the keywords returned per page
	KeywordLimit int

	// SummarySentences caps the extractive summary
	SummarySentences int
}

// DefaultConfig returns the analyzer defaults.
func DefaultConfig() Config {
	return Config{
		SentimentPositive: 0.05,
		SentimentNegative: -0.05,
		KeywordLimit:      10,
		SummarySentences:  3,
	}
}

// Analyzer computes insight bundles. An optional llm.Provider enriches
// summary and topics; when it is absent or failing the analyzer silently
// stays heuristic-only.
type Analyzer struct {
	cfg      Config
	provider llm.Provider
	log      *logging.Logger
}

// New creates an analyzer. provider may be nil for heuristic-only operation.
func New(cfg Config, provider llm.Provider) *Analyzer {
	if cfg.KeywordLimit <= 0 {
		cfg.KeywordLimit = DefaultConfig().KeywordLimit
	}
	if cfg.SummarySentences <= 0 {
		cfg.SummarySentences = DefaultConfig().SummarySentences
	}
	return &Analyzer{
		cfg:      cfg,
		provider: provider,
		log:      logging.New("analysis"),
	}
}

// Analyze derives the insight bundle for a snapshot. Facets are isolated: a
// failing facet logs an AnalysisError and keeps its default value instead of
// blocking the rest of the bundle, so Analyze itself never fails.
func (a *Analyzer) Analyze(ctx context.Context, snap *browser.ContentSnapshot) *Insights {
	ins := &Insights{
		Keywords:  []Keyword{},
		Topics:    []string{},
		Entities:  []string{},
		Sentiment: Sentiment{Label: SentimentNeutral},
		Readability: Readability{
			Level: LevelElementary,
		},
		PageType: PageTypeGeneric,
	}

	text := snap.TextContent

	a.facet("keywords", func() {
		ins.Keywords = ExtractKeywords(text, a.cfg.KeywordLimit)
	})
	a.facet("topics", func() {
		ins.Topics = ExtractTopics(text, snap.Headings)
	})
	a.facet("entities", func() {
		ins.Entities = ExtractEntities(text)
	})
	a.facet("sentiment", func() {
		ins.Sentiment = ScoreSentiment(text, a.cfg.SentimentPositive, a.cfg.SentimentNegative)
	})
	a.facet("readability", func() {
		ins.Readability = ScoreReadability(text)
	})
	a.facet("summary", func() {
		ins.Summary = Summarize(text, a.cfg.SummarySentences)
	})
	a.facet("pagetype", func() {
		ins.PageType = ClassifyPageType(snap.URL, snap)
	})

	if err := a.enrich(ctx, snap, ins); err != nil {
		// Enrichment is best-effort: log the degradation and keep the
		// heuristic values.
		a.log.Warnf("heuristic-only insights for %s: %v", snap.URL, err)
	}

	return ins
}

// facet runs one analysis facet, converting a panic into a logged
// AnalysisError so a single bad analyzer never blocks the bundle.
func (a *Analyzer) facet(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := &browser.AnalysisError{Facet: name, Cause: fmt.Errorf("%v", r)}
			a.log.Warnf("%v; keeping default value", err)
		}
	}()
	fn()
}
