// Package document describes document links as handed to the UI for viewing.
package document

import (
	"fmt"
	"strings"
	"time"
)

// DefaultStorageScheme marks links that point into the storage bucket and
// must be exchanged for a signed URL before they can be opened.
const DefaultStorageScheme = "gs://"

// Link is a URL the UI can open.
type Link struct {
	url       string
	signed    bool
	expiresIn time.Duration
}

// NewUnsigned creates a link that is opened as is.
func NewUnsigned(url string) Link { return Link{url: url} }

// NewSigned validates and creates a signed link.
func NewSigned(url string, expiresIn time.Duration) (Link, error) {
	if strings.TrimSpace(url) == "" {
		return Link{}, fmt.Errorf("signed url is empty")
	}
	if expiresIn < 0 {
		return Link{}, fmt.Errorf("negative expiry %s", expiresIn)
	}
	return Link{url: url, signed: true, expiresIn: expiresIn}, nil
}

// URL returns the link target.
func (l Link) URL() string { return l.url }

// Signed reports whether the link came from the signing endpoint.
func (l Link) Signed() bool { return l.signed }

// ExpiresIn returns the signed link lifetime, zero for unsigned links.
func (l Link) ExpiresIn() time.Duration { return l.expiresIn }

// IsStorageURL reports whether url uses the storage bucket scheme.
// An empty scheme falls back to DefaultStorageScheme.
func IsStorageURL(url, scheme string) bool {
	if scheme == "" {
		scheme = DefaultStorageScheme
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(url)), strings.ToLower(scheme))
}
