package analysis

import (
	"net/url"
	"strings"

	"github.com/entrhq/browsecore/pkg/browser"
	"github.com/gobwas/glob"
)

// urlRule maps a URL pattern to a page type. Rules are checked in order, so
// more specific intents (login, checkout) sit above generic content hints.
type urlRule struct {
	pattern  glob.Glob
	pageType string
}

var urlRules = compileURLRules([]struct {
	pattern  string
	pageType string
}{
	{"*login*", PageTypeLogin},
	{"*signin*", PageTypeLogin},
	{"*sign-in*", PageTypeLogin},
	{"*register*", PageTypeRegistration},
	{"*signup*", PageTypeRegistration},
	{"*sign-up*", PageTypeRegistration},
	{"*checkout*", PageTypeCheckout},
	{"*cart*", PageTypeCheckout},
	{"*basket*", PageTypeCheckout},
	{"*search*", PageTypeSearch},
	{"*contact*", PageTypeContact},
	{"*about*", PageTypeAbout},
	{"*product*", PageTypeProduct},
	{"*/item/*", PageTypeProduct},
	{"*/shop/*", PageTypeProduct},
	{"*blog*", PageTypeArticle},
	{"*article*", PageTypeArticle},
	{"*news*", PageTypeArticle},
	{"*/post/*", PageTypeArticle},
	{"*/posts/*", PageTypeArticle},
})

func compileURLRules(rules []struct {
	pattern  string
	pageType string
}) []urlRule {
	compiled := make([]urlRule, 0, len(rules))
	for _, r := range rules {
		compiled = append(compiled, urlRule{
			pattern:  glob.MustCompile(r.pattern),
			pageType: r.pageType,
		})
	}
	return compiled
}

// articleMinTextLen is the content-length hint for article classification
// when the URL alone is inconclusive.
const articleMinTextLen = 1200

// ClassifyPageType maps URL and content heuristics to one of the closed page
// type set. Unmatched content defaults to generic.
func ClassifyPageType(rawURL string, snap *browser.ContentSnapshot) string {
	subject := strings.ToLower(rawURL)
	if parsed, err := url.Parse(rawURL); err == nil {
		subject = strings.ToLower(parsed.Path + "?" + parsed.RawQuery)
	}

	for _, rule := range urlRules {
		if rule.pattern.Match(subject) {
			return rule.pageType
		}
	}

	if snap != nil {
		lowerText := strings.ToLower(snap.TextContent)
		if strings.Contains(lowerText, "password") &&
			(strings.Contains(lowerText, "sign in") || strings.Contains(lowerText, "log in")) {
			return PageTypeLogin
		}
		if len(snap.TextContent) >= articleMinTextLen && len(snap.Headings) > 0 {
			return PageTypeArticle
		}
	}

	return PageTypeGeneric
}
