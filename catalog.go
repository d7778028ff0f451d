package mendeley

import (
	"context"
	"net/http"
	"net/url"
)

// CatalogService searches the Mendeley catalog.
type CatalogService struct {
	client *Client
}

// Search looks documents up by identifier, for instance
// url.Values{"doi": {"10.1103/PhysRevA.20.1521"}}.
func (s *CatalogService) Search(ctx context.Context, params url.Values) (*Response, error) {
	return s.client.request(ctx, nil, http.MethodGet, "/catalog", nil, params, nil)
}
