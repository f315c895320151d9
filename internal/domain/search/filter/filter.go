package filter

import (
	"fmt"
	"sort"
	"strings"
)

// MaxTags is the maximum number of active document-type tags.
const MaxTags = 32

// DocTypes is the set of active document-type filter tags.
// Tags are stored lowercased and trimmed; the zero value is an empty set.
type DocTypes struct {
	tags map[string]struct{}
}

// NewDocTypes creates a set from tags, validating each one.
func NewDocTypes(tags ...string) (DocTypes, error) {
	var d DocTypes
	for _, t := range tags {
		key, err := normalizeTag(t)
		if err != nil {
			return DocTypes{}, err
		}
		if _, ok := d.tags[key]; ok {
			continue
		}
		if err := d.add(key); err != nil {
			return DocTypes{}, err
		}
	}
	return d, nil
}

// Toggle flips membership of tag and reports whether it is now active.
func (d *DocTypes) Toggle(tag string) (bool, error) {
	key, err := normalizeTag(tag)
	if err != nil {
		return false, err
	}
	if _, ok := d.tags[key]; ok {
		delete(d.tags, key)
		return false, nil
	}
	if err := d.add(key); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes every tag.
func (d *DocTypes) Clear() { d.tags = nil }

// IsEmpty reports whether no tag is active.
func (d DocTypes) IsEmpty() bool { return len(d.tags) == 0 }

// Len returns the number of active tags.
func (d DocTypes) Len() int { return len(d.tags) }

// Has reports whether tag is active.
func (d DocTypes) Has(tag string) bool {
	_, ok := d.tags[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// Tags returns the active tags in sorted order.
func (d DocTypes) Tags() []string {
	out := make([]string, 0, len(d.tags))
	for t := range d.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (d DocTypes) Clone() DocTypes {
	if d.tags == nil {
		return DocTypes{}
	}
	c := DocTypes{tags: make(map[string]struct{}, len(d.tags))}
	for t := range d.tags {
		c.tags[t] = struct{}{}
	}
	return c
}

// Matches reports whether a result with the given document type passes the
// filter: always when no tag is active, otherwise when the document type
// contains any active tag, ignoring case.
func (d DocTypes) Matches(documentType string) bool {
	if len(d.tags) == 0 {
		return true
	}
	if documentType == "" {
		return false
	}
	lower := strings.ToLower(documentType)
	for t := range d.tags {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func (d *DocTypes) add(key string) error {
	if len(d.tags) >= MaxTags {
		return fmt.Errorf("too many document type filters (max %d)", MaxTags)
	}
	if d.tags == nil {
		d.tags = make(map[string]struct{})
	}
	d.tags[key] = struct{}{}
	return nil
}

func normalizeTag(tag string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(tag))
	if key == "" {
		return "", fmt.Errorf("filter tag is required")
	}
	return key, nil
}
