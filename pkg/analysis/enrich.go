package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/entrhq/browsecore/pkg/browser"
	"github.com/entrhq/browsecore/pkg/llm"
	"github.com/pkoukk/tiktoken-go"
)

// enrichTokenBudget caps how much page text goes into an enrichment prompt.
const enrichTokenBudget = 2000

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func tokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return // truncateTokens falls back to a character cut
		}
		tk = enc
	})
	return tk
}

// truncateTokens cuts text to at most budget tokens. When the tokenizer is
// unavailable it approximates with four characters per token.
func truncateTokens(text string, budget int) string {
	enc := tokenizer()
	if enc == nil {
		runes := []rune(text)
		if len(runes) > budget*4 {
			return string(runes[:budget*4])
		}
		return text
	}

	ids := enc.Encode(text, nil, nil)
	if len(ids) <= budget {
		return text
	}
	return enc.Decode(ids[:budget])
}

// enrich asks the configured provider for a better summary and extra topics,
// folding the response into the insight bundle. Heuristic values survive any
// provider failure.
func (a *Analyzer) enrich(ctx context.Context, snap *browser.ContentSnapshot, ins *Insights) error {
	if a.provider == nil {
		return nil
	}

	prompt := buildEnrichmentPrompt(snap.URL, snap.Title, truncateTokens(snap.TextContent, enrichTokenBudget))

	out, err := a.provider.Execute(ctx, prompt, llm.Options{MaxTokens: 400})
	if err != nil {
		return &browser.DependencyUnavailableError{Dependency: "llm", Cause: err}
	}

	applyEnrichment(snap, ins, out)
	return nil
}

// buildEnrichmentPrompt creates the analysis prompt for the LLM.
func buildEnrichmentPrompt(url, title, text string) string {
	var prompt strings.Builder

	prompt.WriteString("Analyze the following web page content.\n\n")
	prompt.WriteString(fmt.Sprintf("URL: %s\n", url))
	prompt.WriteString(fmt.Sprintf("Title: %s\n\n", title))
	prompt.WriteString("Page text:\n")
	prompt.WriteString(text)
	prompt.WriteString("\n\nRespond with exactly two lines:\n")
	prompt.WriteString("SUMMARY: <two sentences summarizing the page>\n")
	prompt.WriteString("TOPICS: <comma-separated list of up to five topics>\n")

	return prompt.String()
}

// applyEnrichment parses the provider response and merges it into the
// insights. Malformed lines are ignored; the summary-shorter-than-source
// invariant is enforced before the heuristic summary is replaced.
func applyEnrichment(snap *browser.ContentSnapshot, ins *Insights, response string) {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SUMMARY:"):
			summary := strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
			if summary != "" && len(summary) < len(snap.TextContent) {
				ins.Summary = summary
			}
		case strings.HasPrefix(line, "TOPICS:"):
			raw := strings.TrimPrefix(line, "TOPICS:")
			seen := make(map[string]struct{}, len(ins.Topics))
			for _, t := range ins.Topics {
				seen[t] = struct{}{}
			}
			for _, topic := range strings.Split(raw, ",") {
				topic = strings.ToLower(strings.TrimSpace(topic))
				if topic == "" {
					continue
				}
				if _, dup := seen[topic]; dup {
					continue
				}
				seen[topic] = struct{}{}
				ins.Topics = append(ins.Topics, topic)
			}
		}
	}
}
