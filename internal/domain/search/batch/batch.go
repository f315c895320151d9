// Package batch holds the single cached batch of normalized results for the
// current query and serves filtering and pagination over it without I/O.
package batch

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/caselens/internal/domain/search/filter"
	"github.com/kailas-cloud/caselens/internal/domain/search/page"
	"github.com/kailas-cloud/caselens/internal/domain/search/result"
)

// Batch is the set of results fetched once for a query.
type Batch struct {
	query   string
	results []result.Result
	total   int
	session string
}

// New creates a batch. The results slice is copied.
func New(query string, results []result.Result, total int, session string) Batch {
	rs := make([]result.Result, len(results))
	copy(rs, results)
	if total < len(rs) {
		total = len(rs)
	}
	return Batch{query: query, results: rs, total: total, session: session}
}

// Query returns the query the batch was fetched for.
func (b Batch) Query() string { return b.query }

// Results returns the cached results in backend order.
func (b Batch) Results() []result.Result { return b.results }

// Len returns the number of cached results.
func (b Batch) Len() int { return len(b.results) }

// Total returns the total count reported by the backend.
func (b Batch) Total() int { return b.total }

// Session returns the backend conversation link returned with the batch, or "".
func (b Batch) Session() string { return b.session }

// Head returns up to n results from the start of the batch.
func (b Batch) Head(n int) []result.Result {
	if n > len(b.results) {
		n = len(b.results)
	}
	if n < 0 {
		n = 0
	}
	return b.results[:n]
}

// Facet is a document type present in the batch with its result count.
type Facet struct {
	Value string
	Count int
}

// Cache holds at most one batch. Set is the only write path and always
// replaces the previous batch.
type Cache struct {
	current *Batch
}

// Set replaces the cached batch.
func (c *Cache) Set(b Batch) { c.current = &b }

// Current returns the cached batch and whether one exists.
func (c *Cache) Current() (Batch, bool) {
	if c.current == nil {
		return Batch{}, false
	}
	return *c.current, true
}

// Query returns the query of the cached batch, or "".
func (c *Cache) Query() string {
	if c.current == nil {
		return ""
	}
	return c.current.query
}

// Filter returns the cached results that pass d, in batch order.
func (c *Cache) Filter(d filter.DocTypes) []result.Result {
	if c.current == nil {
		return []result.Result{}
	}
	if d.IsEmpty() {
		out := make([]result.Result, len(c.current.results))
		copy(out, c.current.results)
		return out
	}
	out := make([]result.Result, 0, len(c.current.results))
	for _, r := range c.current.results {
		if d.Matches(r.DocumentType()) {
			out = append(out, r)
		}
	}
	return out
}

// Paginate returns one page of a filtered result list.
func Paginate(filtered []result.Result, p, size int) []result.Result {
	return page.Slice(filtered, p, size)
}

// Facets lists the distinct document types of the cached batch with counts,
// most frequent first. Types differing only in case are merged under the
// first spelling seen.
func (c *Cache) Facets() []Facet {
	if c.current == nil {
		return nil
	}
	index := make(map[string]int)
	var facets []Facet
	for _, r := range c.current.results {
		dt := r.DocumentType()
		if dt == "" {
			continue
		}
		key := strings.ToLower(dt)
		if i, ok := index[key]; ok {
			facets[i].Count++
			continue
		}
		index[key] = len(facets)
		facets = append(facets, Facet{Value: dt, Count: 1})
	}
	sort.SliceStable(facets, func(i, j int) bool { return facets[i].Count > facets[j].Count })
	return facets
}
