package mendeley

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/spf13/afero"
)

// File is an upload source. Open is called once per attempt, so a retried
// upload starts from the beginning.
type File struct {
	Name        string
	ContentType string

	// Size is the length of the content, or -1 when unknown. Progress
	// percentages are only reported when the size is known.
	Size int64

	Open func() (io.ReadCloser, error)

	// OnProgress, when set, receives upload progress notifications.
	OnProgress func(Progress)
}

// NewFile wraps in-memory content.
func NewFile(name, contentType string, data []byte) *File {
	return &File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// OpenFile describes the file at path on fs. A nil fs means the operating
// system filesystem. The content type is guessed from the extension.
func OpenFile(fs afero.Fs, path string) (*File, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        info.Size(),
		Open: func() (io.ReadCloser, error) {
			return fs.Open(path)
		},
	}, nil
}

// FilesService manages files attached to documents.
type FilesService struct {
	client *Client
}

// Create uploads file and attaches it to the document documentID.
func (s *FilesService) Create(ctx context.Context, file *File, documentID string) (*Response, error) {
	return s.client.requestWithFile(ctx, http.MethodPost, "/files", file, documentID)
}

// List fetches the files attached to a document.
func (s *FilesService) List(ctx context.Context, documentID string) (*Response, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: endpoint requires id", ErrMissingParameter)
	}
	return s.client.request(ctx, nil, http.MethodGet, "/files", nil, url.Values{"document_id": {documentID}}, nil)
}

// Remove deletes a file.
func (s *FilesService) Remove(ctx context.Context, id string) (*Response, error) {
	return s.client.request(ctx, nil, http.MethodDelete, "/files/{id}", vars{"id": id}, nil, nil)
}
