package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONRequest(t *testing.T) {
	req, err := NewJSONRequest(http.MethodPost, "https://api.mendeley.com/folders", map[string]string{"name": "Reading"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Reading"}`, string(req.Body))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	empty, err := NewJSONRequest(http.MethodDelete, "https://api.mendeley.com/folders/1", nil)
	require.NoError(t, err)
	assert.Nil(t, empty.Body)
	assert.Empty(t, empty.Header.Get("Content-Type"))
}

func TestNewJSONRequest_MarshalError(t *testing.T) {
	_, err := NewJSONRequest(http.MethodPost, "https://a.test", map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestRequest_CloneIsDeep(t *testing.T) {
	req := NewRequest("get", "https://a.test/x")
	req.Header.Set("X-A", "1")
	req.Query = url.Values{"limit": {"20"}}
	req.Body = []byte("abc")

	c := req.Clone()
	c.Header.Set("Authorization", "Bearer t")
	c.Query.Add("limit", "50")
	c.Body[0] = 'z'

	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, []string{"20"}, req.Query["limit"])
	assert.Equal(t, "abc", string(req.Body))
	assert.Equal(t, "GET", req.RequestMethod())
}

func TestRequest_CloneNilHeader(t *testing.T) {
	req := &Request{Method: http.MethodGet, URL: "https://a.test"}
	assert.NotNil(t, req.Clone().Header)
}

func TestRequest_FullURL(t *testing.T) {
	req := NewRequest(http.MethodGet, "https://api.mendeley.com/documents?view=bib")
	req.Query = url.Values{"limit": {"20"}}

	got, err := req.fullURL()
	require.NoError(t, err)
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "bib", u.Query().Get("view"))
	assert.Equal(t, "20", u.Query().Get("limit"))

	_, err = NewRequest(http.MethodGet, "/documents").fullURL()
	assert.Error(t, err)
}

func TestRequest_NewHTTPRequest(t *testing.T) {
	req := NewRequest("", "https://api.mendeley.com/files")
	req.Body = []byte("abc")
	body, length, err := req.openBody()
	require.NoError(t, err)

	httpReq, err := req.newHTTPRequest(context.Background(), body, length)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, httpReq.Method)
	assert.Equal(t, int64(3), httpReq.ContentLength)
	assert.Contains(t, httpReq.Header.Get("Accept"), "application/json")

	data, err := io.ReadAll(httpReq.Body)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestResponse_Decode(t *testing.T) {
	res := &Response{Body: []byte(`{"id":"42"}`)}
	var doc struct {
		ID string `json:"id"`
	}
	require.NoError(t, res.Decode(&doc))
	assert.Equal(t, "42", doc.ID)

	untouched := struct{ ID string }{ID: "keep"}
	require.NoError(t, (&Response{}).Decode(&untouched))
	assert.Equal(t, "keep", untouched.ID)

	assert.Error(t, (&Response{Body: []byte("nope")}).Decode(&doc))
}
