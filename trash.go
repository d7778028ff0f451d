package mendeley

import (
	"context"
	"net/http"
	"net/url"
)

// TrashService manages trashed documents.
type TrashService struct {
	collection
}

// Retrieve fetches a trashed document.
func (s *TrashService) Retrieve(ctx context.Context, id string) (*Response, error) {
	return s.client.request(ctx, s.pages, http.MethodGet, "/trash/{id}", vars{"id": id}, nil, nil)
}

// List fetches the first page of trashed documents.
func (s *TrashService) List(ctx context.Context, params url.Values) (*Response, error) {
	return s.client.request(ctx, s.pages, http.MethodGet, "/trash/", nil, params, nil)
}

// Restore moves a document back into the library.
func (s *TrashService) Restore(ctx context.Context, id string) (*Response, error) {
	return s.client.request(ctx, s.pages, http.MethodPost, "/trash/{id}/restore", vars{"id": id}, nil, nil)
}

// Destroy deletes a trashed document for good.
func (s *TrashService) Destroy(ctx context.Context, id string) (*Response, error) {
	return s.client.request(ctx, s.pages, http.MethodDelete, "/trash/{id}", vars{"id": id}, nil, nil)
}
