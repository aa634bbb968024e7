package browser

import (
	"strings"

	"golang.org/x/net/html"
)

// parsedDocument holds the structural pieces pulled out of one DOM traversal.
// Slice fields are always non-nil so snapshots never carry missing arrays.
type parsedDocument struct {
	Title       string
	Text        string
	MainContent string
	Links       []Link
	Images      []Image
	Headings    []string
}

// parseDocument extracts text, links, images, headings, and the main-content
// region from raw HTML. Script, style, and similar noise elements are skipped
// entirely. Parse errors yield an empty document rather than failing: the
// tokenizer is lenient and real pages are routinely malformed.
func parseDocument(raw string) *parsedDocument {
	doc := &parsedDocument{
		Links:    []Link{},
		Images:   []Image{},
		Headings: []string{},
	}

	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return doc
	}

	var text strings.Builder
	var mainText strings.Builder
	walk(root, &walkState{doc: doc, text: &text, mainText: &mainText})

	doc.Text = collapseWhitespace(text.String())
	doc.MainContent = collapseWhitespace(mainText.String())
	if doc.MainContent == "" {
		doc.MainContent = doc.Text
	}
	return doc
}

type walkState struct {
	doc      *parsedDocument
	text     *strings.Builder
	mainText *strings.Builder
	inMain   bool
}

func walk(n *html.Node, st *walkState) {
	if n.Type == html.CommentNode {
		return
	}

	if n.Type == html.TextNode {
		trimmed := strings.TrimSpace(n.Data)
		if trimmed != "" {
			st.text.WriteString(trimmed)
			st.text.WriteByte(' ')
			if st.inMain {
				st.mainText.WriteString(trimmed)
				st.mainText.WriteByte(' ')
			}
		}
		return
	}

	if n.Type == html.ElementNode {
		tag := strings.ToLower(n.Data)
		if isNoiseElement(tag) {
			return
		}

		switch tag {
		case "title":
			if st.doc.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				st.doc.Title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		case "a":
			if href := attr(n, "href"); href != "" {
				st.doc.Links = append(st.doc.Links, Link{
					Text: collapseWhitespace(nodeText(n)),
					Href: href,
				})
			}
		case "img":
			if src := attr(n, "src"); src != "" {
				st.doc.Images = append(st.doc.Images, Image{Src: src, Alt: attr(n, "alt")})
			}
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if heading := collapseWhitespace(nodeText(n)); heading != "" {
				st.doc.Headings = append(st.doc.Headings, heading)
			}
		}

		entered := false
		if !st.inMain && isMainElement(n, tag) {
			st.inMain = true
			entered = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, st)
		}
		if entered {
			st.inMain = false
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, st)
	}
}

// isNoiseElement reports tags whose contents never belong in extracted text.
func isNoiseElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "iframe", "embed", "object", "svg", "template":
		return true
	}
	return false
}

// isMainElement reports whether a node anchors the page's main-content region.
func isMainElement(n *html.Node, tag string) bool {
	if tag == "main" || tag == "article" {
		return true
	}
	if attr(n, "role") == "main" {
		return true
	}
	id := strings.ToLower(attr(n, "id"))
	return id == "main" || id == "content" || id == "main-content"
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates all text beneath a node, skipping noise elements.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode && isNoiseElement(strings.ToLower(n.Data)) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
