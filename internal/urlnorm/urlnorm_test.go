package urlnorm

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestNormalize(t *testing.T) {
	base := mustParse(t, "https://Example.COM/dir/page.html")

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"relative path", "other.html", "https://example.com/dir/other.html", true},
		{"root relative", "/a/b", "https://example.com/a/b", true},
		{"absolute", "http://Other.Org/X", "http://other.org/X", true},
		{"fragment stripped", "/page#section", "https://example.com/page", true},
		{"fragment only", "#top", "", false},
		{"empty", "", "", false},
		{"whitespace", "   ", "", false},
		{"query kept", "/search?q=Go&x=1", "https://example.com/search?q=Go&x=1", true},
		{"default https port dropped", "https://example.com:443/p", "https://example.com/p", true},
		{"default http port dropped", "http://example.com:80/p", "http://example.com/p", true},
		{"explicit port kept", "http://example.com:8080/p", "http://example.com:8080/p", true},
		{"duplicate slashes collapsed", "/a//b///c", "https://example.com/a/b/c", true},
		{"empty path becomes slash", "https://example.com", "https://example.com/", true},
		{"mailto rejected", "mailto:x@example.com", "", false},
		{"javascript rejected", "javascript:void(0)", "", false},
		{"tel rejected", "tel:+123", "", false},
		{"ftp rejected", "ftp://example.com/f", "", false},
		{"ipv4 literal rejected", "http://192.168.1.1/p", "", false},
		{"ipv6 literal rejected", "http://[::1]/p", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(base, tt.raw, 0)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizeLengthCap(t *testing.T) {
	base := mustParse(t, "https://example.com/")
	long := "/" + strings.Repeat("x", 100)
	_, ok := Normalize(base, long, 50)
	assert.False(t, ok)
	_, ok = Normalize(base, long, 200)
	assert.True(t, ok)
}

func TestNormalizeIdempotent(t *testing.T) {
	base := mustParse(t, "https://Example.com/a/")
	raws := []string{
		"b.html", "/X//Y", "http://OTHER.net:80/p?q=1#f", "https://example.com",
	}
	for _, raw := range raws {
		first, ok := Normalize(base, raw, 0)
		require.True(t, ok, raw)
		second, ok := Normalize(base, first, 0)
		require.True(t, ok, first)
		assert.Equal(t, first, second)
	}
}

func TestNormalizeNilBase(t *testing.T) {
	got, ok := Normalize(nil, "https://Seed.Example.org", 0)
	require.True(t, ok)
	assert.Equal(t, "https://seed.example.org/", got)

	_, ok = Normalize(nil, "relative/only", 0)
	assert.False(t, ok)
}

func TestHost(t *testing.T) {
	assert.Equal(t, "example.com", Host("https://example.com/p"))
	assert.Equal(t, "example.com:8080", Host("http://example.com:8080/"))
	assert.Equal(t, "", Host("://bad"))
}
