package document

import (
	"net/url"
	"path"
	"strings"
)

// IDFromURL returns the last path segment of a document URL without its
// extension, or "" when the URL has no usable segment.
func IDFromURL(raw string) string {
	seg := lastSegment(raw)
	if seg == "" {
		return ""
	}
	return strings.TrimSuffix(seg, path.Ext(seg))
}

// NameFromURL turns a document URL into a readable name:
// "gs://bucket/Motion_to-Dismiss.pdf" becomes "Motion to Dismiss".
func NameFromURL(raw string) string {
	id := IDFromURL(raw)
	if id == "" {
		return ""
	}
	if decoded, err := url.PathUnescape(id); err == nil {
		id = decoded
	}
	id = strings.NewReplacer("_", " ", "-", " ").Replace(id)
	return strings.TrimSpace(id)
}

func lastSegment(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.EscapedPath()
	} else if i := strings.IndexAny(raw, "?#"); i >= 0 {
		p = raw[:i]
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}
