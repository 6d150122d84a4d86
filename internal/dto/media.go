// Package dto converts entities into API response bodies, filling in
// computed fields and resolving stored file paths to URLs.
package dto

import (
	"net/http"
	"strings"
)

const dateLayout = "2006-01-02"

// Media resolves stored file paths to URLs. Absolute URLs pass through.
type Media struct {
	BaseURL string
	Prefix  string
}

func NewMedia(baseURL, prefix string) Media {
	if prefix == "" {
		prefix = "/media/"
	}
	return Media{BaseURL: strings.TrimRight(baseURL, "/"), Prefix: prefix}
}

// ForRequest fills BaseURL from the request's scheme and host when no
// base URL is configured.
func (m Media) ForRequest(r *http.Request) Media {
	if m.BaseURL != "" || r == nil {
		return m
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	m.BaseURL = scheme + "://" + r.Host
	return m
}

func (m Media) URL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	prefix := "/" + strings.Trim(m.Prefix, "/") + "/"
	if prefix == "//" {
		prefix = "/"
	}
	return m.BaseURL + prefix + strings.TrimPrefix(path, "/")
}

func (m Media) URLs(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if u := m.URL(p); u != "" {
			out = append(out, u)
		}
	}
	return out
}
