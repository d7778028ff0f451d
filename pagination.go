package mendeley

import (
	"context"
	"sync"

	"github.com/mendeley/client-go/internal/api"
)

// Pagination link relations.
const (
	RelNext     = "next"
	RelPrevious = "previous"
	RelLast     = "last"
)

var paginationRels = []string{RelNext, RelPrevious, RelLast}

// Pagination is the paging state of one collection, updated from the
// Mendeley-Count and Link headers of every list call. A header that is
// absent from a response leaves the matching state untouched.
type Pagination struct {
	mu    sync.RWMutex
	count int
	links map[string]string
}

// Count returns the total number of items last reported by the API.
func (p *Pagination) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.count
}

// Link returns the stored URL for rel.
func (p *Pagination) Link(rel string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.links[rel]
	return u, ok
}

// Links returns a copy of the stored next, previous and last links.
func (p *Pagination) Links() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.links))
	for rel, u := range p.links {
		out[rel] = u
	}
	return out
}

// Reset forgets the count and every link.
func (p *Pagination) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count = 0
	p.links = nil
}

// update applies response headers. A Link header replaces all three
// relations: the ones it lacks are cleared.
func (p *Pagination) update(h api.ExtractedHeaders) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h.Count != nil {
		p.count = *h.Count
	}
	if h.Links == nil {
		return
	}
	if p.links == nil {
		p.links = map[string]string{}
	}
	for _, rel := range paginationRels {
		if u, ok := h.Links[rel]; ok {
			p.links[rel] = u
		} else {
			delete(p.links, rel)
		}
	}
}

// collection gives a service its pagination state and page navigation.
type collection struct {
	client *Client
	pages  *Pagination
}

func newCollection(c *Client) collection {
	return collection{client: c, pages: &Pagination{}}
}

// Pagination returns the paging state of the collection.
func (c collection) Pagination() *Pagination {
	return c.pages
}

// Count returns the total reported by the last list call.
func (c collection) Count() int {
	return c.pages.Count()
}

// ResetPagination forgets the count and all page links.
func (c collection) ResetPagination() {
	c.pages.Reset()
}

// NextPage fetches the next page. It returns ErrNoPage without sending
// anything when there is no next link. Links are kept from earlier pages
// when a response has none, so callers walking to the end should stop on
// a response whose own headers carry no next link.
func (c collection) NextPage(ctx context.Context) (*Response, error) {
	return c.client.requestPage(ctx, c.pages, RelNext)
}

// PreviousPage fetches the previous page.
func (c collection) PreviousPage(ctx context.Context) (*Response, error) {
	return c.client.requestPage(ctx, c.pages, RelPrevious)
}

// LastPage fetches the last page.
func (c collection) LastPage(ctx context.Context) (*Response, error) {
	return c.client.requestPage(ctx, c.pages, RelLast)
}
