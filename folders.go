package mendeley

import (
	"context"
	"net/http"
	"net/url"
)

// FoldersService manages folders.
type FoldersService struct {
	collection
}

// Create creates a folder and resolves with the created folder.
func (s *FoldersService) Create(ctx context.Context, data any) (*Response, error) {
	return s.client.requestWithData(ctx, http.MethodPost, "/folders", nil, data, mediaTypeFolder, true)
}

// Retrieve fetches a folder.
func (s *FoldersService) Retrieve(ctx context.Context, id string) (*Response, error) {
	return s.client.request(ctx, s.pages, http.MethodGet, "/folders/{id}", vars{"id": id}, nil, nil)
}

// Update patches a folder and resolves with the updated folder.
func (s *FoldersService) Update(ctx context.Context, id string, data any) (*Response, error) {
	return s.client.requestWithData(ctx, http.MethodPatch, "/folders/{id}", vars{"id": id}, data, mediaTypeFolder, true)
}

// Delete deletes a folder. The documents in it stay in the library.
func (s *FoldersService) Delete(ctx context.Context, id string) (*Response, error) {
	return s.client.request(ctx, s.pages, http.MethodDelete, "/folders/{id}", vars{"id": id}, nil, nil)
}

// RemoveDocument takes a document out of a folder.
func (s *FoldersService) RemoveDocument(ctx context.Context, id, documentID string) (*Response, error) {
	return s.client.request(ctx, s.pages, http.MethodDelete, "/folders/{id}/documents/{docId}",
		vars{"id": id, "docId": documentID}, nil, map[string]string{"Content-Type": mediaTypeFolder})
}

// AddDocument puts a document into a folder. data identifies the document,
// for instance map[string]string{"id": documentID}.
func (s *FoldersService) AddDocument(ctx context.Context, id string, data any) (*Response, error) {
	return s.client.requestWithData(ctx, http.MethodPost, "/folders/{id}/documents", vars{"id": id}, data, mediaTypeDocument, false)
}

// List fetches the first page of folders.
func (s *FoldersService) List(ctx context.Context, params url.Values) (*Response, error) {
	return s.client.request(ctx, s.pages, http.MethodGet, "/folders/", nil, params, nil)
}
