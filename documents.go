package mendeley

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// DocumentsService manages documents in the user's library.
type DocumentsService struct {
	collection
}

// DocumentListOptions filters Documents.List.
type DocumentListOptions struct {
	// FolderID lists the documents of one folder. Only Limit applies then.
	FolderID string

	// Limit is the page size. Zero leaves it to the API.
	Limit int

	// Params holds any other query parameters, such as sort, order or view.
	Params url.Values
}

// Create creates a document from data and resolves with the created
// document.
func (s *DocumentsService) Create(ctx context.Context, data any) (*Response, error) {
	return s.client.requestWithData(ctx, http.MethodPost, "/documents", nil, data, mediaTypeDocument, true)
}

// CreateFromFile creates a document by uploading file. The API extracts the
// metadata from the file itself.
func (s *DocumentsService) CreateFromFile(ctx context.Context, file *File) (*Response, error) {
	return s.client.requestWithFile(ctx, http.MethodPost, "/documents", file, "")
}

// Retrieve fetches a document.
func (s *DocumentsService) Retrieve(ctx context.Context, id string) (*Response, error) {
	return s.client.request(ctx, s.pages, http.MethodGet, "/documents/{id}", vars{"id": id}, nil, nil)
}

// Update patches a document with data and resolves with the updated
// document.
func (s *DocumentsService) Update(ctx context.Context, id string, data any) (*Response, error) {
	return s.client.requestWithData(ctx, http.MethodPatch, "/documents/{id}", vars{"id": id}, data, mediaTypeDocument, true)
}

// List fetches the first page of documents.
func (s *DocumentsService) List(ctx context.Context, opts *DocumentListOptions) (*Response, error) {
	if opts == nil {
		opts = &DocumentListOptions{}
	}
	if opts.FolderID != "" {
		params := url.Values{}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		return s.client.request(ctx, s.pages, http.MethodGet, "/folders/{id}/documents", vars{"id": opts.FolderID}, params, nil)
	}

	params := url.Values{}
	for k, v := range opts.Params {
		params[k] = append([]string(nil), v...)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	return s.client.request(ctx, s.pages, http.MethodGet, "/documents/", nil, params, nil)
}

// Trash moves a document to the trash.
func (s *DocumentsService) Trash(ctx context.Context, id string) (*Response, error) {
	return s.client.request(ctx, s.pages, http.MethodPost, "/documents/{id}/trash", vars{"id": id}, nil,
		map[string]string{"Content-Type": mediaTypeDocument})
}
