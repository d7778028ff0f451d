package mendeley

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mendeley/client-go/internal/api"
)

func count(n int) *int { return &n }

func TestPagination_Update(t *testing.T) {
	p := &Pagination{}

	p.update(api.ExtractedHeaders{
		Count: count(56),
		Links: map[string]string{"next": "n1", "last": "l1"},
	})
	assert.Equal(t, 56, p.Count())
	assert.Equal(t, map[string]string{"next": "n1", "last": "l1"}, p.Links())

	// No headers at all: nothing changes.
	p.update(api.ExtractedHeaders{})
	assert.Equal(t, 56, p.Count())
	assert.Equal(t, map[string]string{"next": "n1", "last": "l1"}, p.Links())

	// A Link header without next clears next.
	p.update(api.ExtractedHeaders{Links: map[string]string{"previous": "p2", "last": "l2"}})
	assert.Equal(t, 56, p.Count())
	assert.Equal(t, map[string]string{"previous": "p2", "last": "l2"}, p.Links())

	// Count alone leaves the links.
	p.update(api.ExtractedHeaders{Count: count(0)})
	assert.Equal(t, 0, p.Count())
	assert.Equal(t, map[string]string{"previous": "p2", "last": "l2"}, p.Links())

	// Unknown relations are not kept.
	p.update(api.ExtractedHeaders{Links: map[string]string{"first": "f"}})
	assert.Empty(t, p.Links())
}

func TestPagination_Reset(t *testing.T) {
	p := &Pagination{}
	p.update(api.ExtractedHeaders{Count: count(3), Links: map[string]string{"next": "n"}})
	p.Reset()

	assert.Equal(t, 0, p.Count())
	assert.Empty(t, p.Links())
	_, ok := p.Link(RelNext)
	assert.False(t, ok)
}

func TestPagination_LinksIsACopy(t *testing.T) {
	p := &Pagination{}
	p.update(api.ExtractedHeaders{Links: map[string]string{"next": "n"}})

	links := p.Links()
	links["next"] = "changed"
	got, _ := p.Link(RelNext)
	assert.Equal(t, "n", got)
}

func TestCollection_NoPageSendsNothing(t *testing.T) {
	fake := newFakeAPI(t, respond(http.StatusOK, `[]`))
	c := newTestClient(t, fake)
	ctx := context.Background()

	_, err := c.Documents.NextPage(ctx)
	assert.ErrorIs(t, err, ErrNoPage)
	_, err = c.Folders.PreviousPage(ctx)
	assert.ErrorIs(t, err, ErrNoPage)
	_, err = c.Trash.LastPage(ctx)
	assert.ErrorIs(t, err, ErrNoPage)
	assert.Empty(t, fake.Calls())
}

func TestCollection_WalksPages(t *testing.T) {
	var fake *fakeAPI
	fake = newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("marker") {
		case "":
			w.Header().Add("Link", "<"+fake.URL+`/documents/?marker=2>; rel="next"`)
			w.Header().Add("Link", "<"+fake.URL+`/documents/?marker=3>; rel="last"`)
			w.Header().Set("Mendeley-Count", "3")
		case "2":
			w.Header().Add("Link", "<"+fake.URL+`/documents/?marker=1>; rel="previous"`)
			w.Header().Add("Link", "<"+fake.URL+`/documents/?marker=3>; rel="next"`)
			w.Header().Add("Link", "<"+fake.URL+`/documents/?marker=3>; rel="last"`)
		case "3":
			w.Header().Add("Link", "<"+fake.URL+`/documents/?marker=2>; rel="previous"`)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"id":"x"}]`))
	})
	c := newTestClient(t, fake)
	ctx := context.Background()

	_, err := c.Documents.List(ctx, &DocumentListOptions{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Documents.Count())

	_, err = c.Documents.NextPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "marker=2", fake.Last().Query)
	assert.Equal(t, 3, c.Documents.Count(), "count survives a page without Mendeley-Count")

	_, err = c.Documents.NextPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "marker=3", fake.Last().Query)

	_, err = c.Documents.NextPage(ctx)
	assert.ErrorIs(t, err, ErrNoPage)

	_, err = c.Documents.PreviousPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "marker=2", fake.Last().Query)
	assert.Equal(t, "Bearer auth", fake.Last().Header.Get("Authorization"))

	// Collections keep separate state.
	assert.Empty(t, c.Folders.Pagination().Links())

	c.Documents.ResetPagination()
	assert.Equal(t, 0, c.Documents.Count())
	_, err = c.Documents.LastPage(ctx)
	assert.ErrorIs(t, err, ErrNoPage)
}

func TestCollection_PageRetriesGatewayTimeout(t *testing.T) {
	var attempts atomic.Int32
	var fake *fakeAPI
	fake = newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("marker") == "" {
			w.Header().Set("Link", "<"+fake.URL+`/folders/?marker=2>; rel="next"`)
			w.WriteHeader(http.StatusOK)
			return
		}
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusGatewayTimeout)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	c := newTestClient(t, fake)

	_, err := c.Folders.List(context.Background(), nil)
	require.NoError(t, err)
	_, err = c.Folders.NextPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), attempts.Load())
}
