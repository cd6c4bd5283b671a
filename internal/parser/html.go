package parser

import (
	"bytes"
	"mime"
	"strings"

	"golang.org/x/net/html"
)

// IsHTML reports whether a Content-Type header names an HTML family type.
func IsHTML(ctype string) bool {
	mt, _, err := mime.ParseMediaType(ctype)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(strings.Split(ctype, ";")[0]))
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// ExtractLinks walks the anchors of an HTML body and returns their raw href
// values. Resolution and normalization are the caller's job. Non-HTML
// content types yield nil; an empty content type is parsed as HTML.
// Malformed markup is tokenized best-effort and yields whatever hrefs the
// tokenizer still finds.
func ExtractLinks(body []byte, ctype string) []string {
	if ctype != "" && !IsHTML(ctype) {
		return nil
	}

	z := html.NewTokenizer(bytes.NewReader(body))
	links := make([]string, 0, 16)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return links
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		t := z.Token()
		if t.Data != "a" {
			continue
		}
		for _, a := range t.Attr {
			if a.Key == "href" {
				if href := strings.TrimSpace(a.Val); href != "" {
					links = append(links, href)
				}
				break
			}
		}
	}
}
