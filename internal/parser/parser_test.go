package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHTML(t *testing.T) {
	assert.True(t, IsHTML("text/html"))
	assert.True(t, IsHTML("text/html; charset=utf-8"))
	assert.True(t, IsHTML("application/xhtml+xml"))
	assert.False(t, IsHTML("application/json"))
	assert.False(t, IsHTML("image/png"))
	assert.False(t, IsHTML("text/plain"))
}

func TestExtractLinks(t *testing.T) {
	body := []byte(`<html><body>
		<a href="/relative">one</a>
		<a href="https://other.test/abs">two</a>
		<a href="  /spaced  ">three</a>
		<a>no href</a>
		<a href="">empty</a>
		<p>not a link</p>
	</body></html>`)

	links := ExtractLinks(body, "text/html")
	assert.Equal(t, []string{"/relative", "https://other.test/abs", "/spaced"}, links)
}

func TestExtractLinksNonHTML(t *testing.T) {
	assert.Empty(t, ExtractLinks([]byte(`{"a": "b"}`), "application/json"))
}

func TestExtractLinksMalformed(t *testing.T) {
	body := []byte(`<html><a href="/ok"><div><<<><a href="/also-ok">text`)
	links := ExtractLinks(body, "text/html")
	assert.Contains(t, links, "/ok")
	assert.Contains(t, links, "/also-ok")
}

func TestExtractLinksEmptyContentType(t *testing.T) {
	// servers that omit Content-Type still get a best-effort parse
	links := ExtractLinks([]byte(`<a href="/x">x</a>`), "")
	assert.Equal(t, []string{"/x"}, links)
}

func TestSummarize(t *testing.T) {
	body := []byte(`<html><head><title> The Title </title></head>
		<body><script>var x = "ignored words here";</script>
		<p>one two three</p><li>four</li></body></html>`)

	sum := Summarize(body)
	assert.Equal(t, "The Title", sum.Title)
	assert.Equal(t, 4, sum.Words)
}

func TestSummarizeTitleCapped(t *testing.T) {
	long := strings.Repeat("t", 500)
	sum := Summarize([]byte("<html><head><title>" + long + "</title></head><body></body></html>"))
	assert.Len(t, sum.Title, 120)
}

func TestSummarizeGarbage(t *testing.T) {
	sum := Summarize([]byte("\x00\x01\x02 ---"))
	assert.Equal(t, "", sum.Title)
	assert.Equal(t, 0, sum.Words)
}
