package browser

import (
	"strings"
	"testing"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantTitle    string
		wantText     []string // substrings that should be present in Text
		wantNotText  []string // substrings that should NOT be present in Text
		wantLinks    int
		wantImages   int
		wantHeadings []string
		wantMain     []string // substrings expected in MainContent
	}{
		{
			name: "basic page with script and style removal",
			input: `<html>
				<head>
					<title>Test Page</title>
					<script>alert('evil');</script>
					<style>body { color: red; }</style>
				</head>
				<body>
					<h1>Hello World</h1>
					<p>This is a test.</p>
				</body>
			</html>`,
			wantTitle:    "Test Page",
			wantText:     []string{"Hello World", "This is a test."},
			wantNotText:  []string{"alert", "color: red"},
			wantHeadings: []string{"Hello World"},
		},
		{
			name: "links and images collected",
			input: `<html><body>
				<a href="/home">Home</a>
				<a href="https://example.com/docs">Docs</a>
				<a name="anchor-without-href">skip me</a>
				<img src="/logo.png" alt="Logo">
				<img alt="no source">
			</body></html>`,
			wantText:   []string{"Home", "Docs"},
			wantLinks:  2,
			wantImages: 1,
		},
		{
			name: "main content region preferred",
			input: `<html><body>
				<nav><a href="/a">Navigation chrome</a></nav>
				<main>
					<h2>Article Heading</h2>
					<p>Body of the article.</p>
				</main>
				<footer>Footer boilerplate</footer>
			</body></html>`,
			wantText:     []string{"Navigation chrome", "Body of the article.", "Footer boilerplate"},
			wantLinks:    1,
			wantHeadings: []string{"Article Heading"},
			wantMain:     []string{"Article Heading", "Body of the article."},
		},
		{
			name: "content id fallback for main region",
			input: `<html><body>
				<div id="content"><p>Primary copy</p></div>
				<div>Sidebar noise</div>
			</body></html>`,
			wantText: []string{"Primary copy", "Sidebar noise"},
			wantMain: []string{"Primary copy"},
		},
		{
			name:      "empty document yields empty fields",
			input:     "",
			wantTitle: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseDocument(tt.input)

			if doc.Links == nil || doc.Images == nil || doc.Headings == nil {
				t.Fatal("slice fields must never be nil")
			}
			if doc.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", doc.Title, tt.wantTitle)
			}
			for _, want := range tt.wantText {
				if !strings.Contains(doc.Text, want) {
					t.Errorf("Text missing %q:\n%s", want, doc.Text)
				}
			}
			for _, not := range tt.wantNotText {
				if strings.Contains(doc.Text, not) {
					t.Errorf("Text should not contain %q:\n%s", not, doc.Text)
				}
			}
			if tt.wantLinks != 0 && len(doc.Links) != tt.wantLinks {
				t.Errorf("got %d links, want %d: %#v", len(doc.Links), tt.wantLinks, doc.Links)
			}
			if tt.wantImages != 0 && len(doc.Images) != tt.wantImages {
				t.Errorf("got %d images, want %d: %#v", len(doc.Images), tt.wantImages, doc.Images)
			}
			if len(tt.wantHeadings) > 0 {
				if len(doc.Headings) != len(tt.wantHeadings) {
					t.Fatalf("got headings %#v, want %#v", doc.Headings, tt.wantHeadings)
				}
				for i, want := range tt.wantHeadings {
					if doc.Headings[i] != want {
						t.Errorf("heading[%d] = %q, want %q", i, doc.Headings[i], want)
					}
				}
			}
			for _, want := range tt.wantMain {
				if !strings.Contains(doc.MainContent, want) {
					t.Errorf("MainContent missing %q:\n%s", want, doc.MainContent)
				}
			}
			if len(tt.wantMain) > 0 {
				// When a main region exists the chrome must be excluded
				if strings.Contains(doc.MainContent, "Navigation chrome") ||
					strings.Contains(doc.MainContent, "Sidebar noise") {
					t.Errorf("MainContent includes page chrome:\n%s", doc.MainContent)
				}
			}
		})
	}
}

func TestParseDocumentMainFallsBackToFullText(t *testing.T) {
	doc := parseDocument(`<html><body><p>just a paragraph</p></body></html>`)
	if doc.MainContent != doc.Text {
		t.Errorf("without a main region MainContent should equal Text, got %q vs %q", doc.MainContent, doc.Text)
	}
}

func TestNodeTextSkipsNoise(t *testing.T) {
	doc := parseDocument(`<html><body><a href="/x">label<script>bad()</script></a></body></html>`)
	if len(doc.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(doc.Links))
	}
	if doc.Links[0].Text != "label" {
		t.Errorf("link text = %q, want %q", doc.Links[0].Text, "label")
	}
}
