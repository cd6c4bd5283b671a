// internal/urlnorm/urlnorm.go
package urlnorm

import (
	"net"
	"net/url"
	"strings"
)

// MaxLength is the default reject threshold for normalized URLs.
const MaxLength = 2048

// schemes we refuse to crawl
var badScheme = map[string]struct{}{
	"mailto":     {},
	"javascript": {},
	"tel":        {},
	"data":       {},
	"ftp":        {},
}

// Normalize resolves a raw <a href="…"> against base and canonicalizes it:
// lowercase scheme+host, fragment stripped, default port dropped, duplicate
// slashes in the path collapsed, empty path set to "/". Returns ("", false)
// for anything that should not be crawled.
func Normalize(base *url.URL, raw string, maxLen int) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return "", false
	}
	if maxLen <= 0 {
		maxLen = MaxLength
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if ref.Scheme != "" {
		if _, bad := badScheme[strings.ToLower(ref.Scheme)]; bad {
			return "", false
		}
	}

	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}

	abs.Scheme = strings.ToLower(abs.Scheme)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}

	host := strings.ToLower(abs.Hostname())
	if host == "" {
		return "", false
	}
	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return "", false
	}

	port := abs.Port()
	if port == "80" && abs.Scheme == "http" {
		port = ""
	}
	if port == "443" && abs.Scheme == "https" {
		port = ""
	}
	if port != "" {
		abs.Host = host + ":" + port
	} else {
		abs.Host = host
	}

	abs.Fragment = ""
	abs.Path = collapseSlashes(abs.Path)
	if abs.Path == "" {
		abs.Path = "/"
	}

	s := abs.String()
	if len(s) > maxLen {
		return "", false
	}
	return s, true
}

// Host returns the politeness unit for a normalized URL: the lowercased
// host, port included if present.
func Host(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

func collapseSlashes(p string) string {
	if !strings.Contains(p, "//") {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	prev := byte(0)
	for i := 0; i < len(p); i++ {
		if p[i] == '/' && prev == '/' {
			continue
		}
		b.WriteByte(p[i])
		prev = p[i]
	}
	return b.String()
}
