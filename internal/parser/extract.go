// internal/parser/extract.go
package parser

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const maxTitleLen = 120

// PageSummary is the per-page digest attached to result events and debug
// logs: what the page calls itself and roughly how much it says.
type PageSummary struct {
	Title string
	Words int
}

// Summarize digests an HTML body. The title is trimmed and capped at
// maxTitleLen runes; Words counts runs of letters/digits in the body's
// visible text. Unparseable input yields the zero summary.
func Summarize(htmlBody []byte) PageSummary {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBody))
	if err != nil {
		return PageSummary{}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen])
	}

	body := doc.Find("body")
	body.Find("script, style, noscript, template").Remove()

	// count per text node so adjacent elements ("<p>a</p><li>b</li>") do not
	// glue their edge words together
	words := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			words += countWords(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range body.Nodes {
		walk(n)
	}

	return PageSummary{Title: title, Words: words}
}

// countWords streams over the text counting maximal letter/digit runs, so a
// multi-megabyte body never allocates a word slice.
func countWords(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !inWord {
				n++
				inWord = true
			}
		} else {
			inWord = false
		}
	}
	return n
}
