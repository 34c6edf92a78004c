package domain

import (
	"net/url"
	"strings"
)

// NormalizeURL strips the fragment, which is the deduplication key for
// bookmarks. Everything else (scheme, host case, query) is kept as-is so two
// pages that differ only by query string remain distinct.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// SameURL reports whether a and b normalize to the same key.
func SameURL(a, b string) bool {
	return NormalizeURL(a) == NormalizeURL(b)
}

// videoWatchPatterns are host suffix + path prefix pairs of long-form video
// watch pages.
var videoWatchPatterns = []struct {
	host string
	path string
}{
	{host: "youtube.com", path: "/watch"},
	{host: "youtu.be", path: "/"},
	{host: "vimeo.com", path: "/"},
	{host: "dailymotion.com", path: "/video/"},
}

// IsVideoPlatform reports whether raw points at a known video watch page.
func IsVideoPlatform(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, p := range videoWatchPatterns {
		if host != p.host && !strings.HasSuffix(host, "."+p.host) {
			continue
		}
		if p.path == "/" {
			// Short-link and numeric-id hosts: any non-root path is a video.
			if len(u.Path) > 1 {
				return true
			}
			continue
		}
		if strings.HasPrefix(u.Path, p.path) {
			return true
		}
	}
	return false
}

// IsYouTubeWatch is the narrower check used by the content extractor, which
// only knows the structure of YouTube watch pages.
func IsYouTubeWatch(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return (host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")) && u.Path == "/watch"
}
