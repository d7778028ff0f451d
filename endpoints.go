package mendeley

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/mendeley/client-go/internal/api"
)

// Media types of the resources the API accepts.
const (
	mediaTypeDocument = "application/vnd.mendeley-document.1+json"
	mediaTypeFolder   = "application/vnd.mendeley-folder.1+json"
)

var templateVar = regexp.MustCompile(`\{([A-Za-z]+)\}`)

// vars maps URL template variables to values.
type vars map[string]string

// endpointURL expands tmpl against vars and resolves it against the base
// URL. Variables are path-escaped. An empty value counts as missing.
func (c *Client) endpointURL(tmpl string, v vars) (string, error) {
	var missing string
	expanded := templateVar.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		value := v[name]
		if value == "" {
			if missing == "" {
				missing = name
			}
			return match
		}
		return url.PathEscape(value)
	})
	if missing != "" {
		return "", fmt.Errorf("%w: endpoint requires %s", ErrMissingParameter, missing)
	}
	return c.BaseURL() + expanded, nil
}

// request sends a call without a body. Parameters go into the query string.
// GET calls get the configured retry budget, and pages, when not nil, is
// updated from the response headers.
func (c *Client) request(ctx context.Context, pages *Pagination, method, tmpl string, v vars, params url.Values, header map[string]string) (*Response, error) {
	target, err := c.endpointURL(tmpl, v)
	if err != nil {
		return nil, err
	}
	req := api.NewRequest(method, target)
	req.Query = params
	for k, val := range header {
		req.Header.Set(k, val)
	}

	opts := dispatchOptions{}
	if method == http.MethodGet {
		opts.maxRetries = c.cfg.getRetries
	}

	res, err := c.send(ctx, req, opts)
	if err != nil {
		return nil, err
	}
	if pages != nil {
		pages.update(res.Headers)
	}
	return res, nil
}

// requestWithData sends data as a JSON document of the given media type.
func (c *Client) requestWithData(ctx context.Context, method, tmpl string, v vars, data any, mediaType string, follow bool) (*Response, error) {
	target, err := c.endpointURL(tmpl, v)
	if err != nil {
		return nil, err
	}
	req, err := api.NewJSONRequest(method, target, data)
	if err != nil {
		return nil, err
	}
	if mediaType != "" {
		req.Header.Set("Content-Type", mediaType)
	}
	return c.send(ctx, req, dispatchOptions{followLocation: follow})
}

// requestWithFile uploads file. When documentID is set the file is attached
// to that document.
func (c *Client) requestWithFile(ctx context.Context, method, tmpl string, file *File, documentID string) (*Response, error) {
	if file == nil || file.Open == nil {
		return nil, fmt.Errorf("%w: a file is required", ErrMissingParameter)
	}
	target, err := c.endpointURL(tmpl, nil)
	if err != nil {
		return nil, err
	}

	req := api.NewRequest(method, target)
	for k, val := range c.uploadHeaders(file, documentID) {
		req.Header.Set(k, val)
	}
	req.Open = file.Open
	req.ContentLength = file.Size
	req.ResponseKind = api.ResponseText

	d, err := c.dispatcher(dispatchOptions{fileUpload: true})
	if err != nil {
		return nil, err
	}
	call := d.Go(ctx, req)
	for p := range call.Progress() {
		if file.OnProgress != nil {
			file.OnProgress(p)
		}
	}
	return call.Wait()
}

// requestPage fetches the page behind rel. Without a stored link no request
// is sent.
func (c *Client) requestPage(ctx context.Context, pages *Pagination, rel string) (*Response, error) {
	target, ok := pages.Link(rel)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoPage, rel)
	}
	res, err := c.send(ctx, api.NewRequest(http.MethodGet, target), dispatchOptions{maxRetries: c.cfg.getRetries})
	if err != nil {
		return nil, err
	}
	pages.update(res.Headers)
	return res, nil
}

// uploadHeaders describes file to the API.
func (c *Client) uploadHeaders(file *File, documentID string) map[string]string {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := map[string]string{
		"Content-Type":        contentType,
		"Content-Disposition": "attachment; filename*=UTF-8''" + encodeRFC5987(file.Name),
	}
	if documentID != "" {
		h[api.HeaderLink] = api.FormatLink(c.BaseURL()+"/documents/"+documentID, "document")
	}
	return h
}

// encodeRFC5987 percent-encodes s for an RFC 5987 ext-value. Only letters,
// digits and -_.!~ are left as they are.
func encodeRFC5987(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
			b.WriteByte(ch)
		case strings.IndexByte("-_.!~", ch) >= 0:
			b.WriteByte(ch)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[ch>>4])
			b.WriteByte(hex[ch&0x0F])
		}
	}
	return b.String()
}
