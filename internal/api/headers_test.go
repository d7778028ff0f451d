package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinks(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected map[string]string
	}{
		{
			name:     "no values",
			values:   nil,
			expected: nil,
		},
		{
			name:     "empty value",
			values:   []string{""},
			expected: nil,
		},
		{
			name:     "single entry",
			values:   []string{`<https://api.mendeley.com/documents?marker=1>; rel="next"`},
			expected: map[string]string{"next": "https://api.mendeley.com/documents?marker=1"},
		},
		{
			name: "comma separated entries",
			values: []string{
				`<https://a.test/?p=2>; rel="next", <https://a.test/?p=9>; rel="last"`,
			},
			expected: map[string]string{"next": "https://a.test/?p=2", "last": "https://a.test/?p=9"},
		},
		{
			name: "multiple header lines",
			values: []string{
				`<https://a.test/?p=1>; rel="previous"`,
				`<https://a.test/?p=3>; rel="next"`,
			},
			expected: map[string]string{"previous": "https://a.test/?p=1", "next": "https://a.test/?p=3"},
		},
		{
			name:     "comma inside url",
			values:   []string{`<https://a.test/?ids=1,2,3>; rel="next"`},
			expected: map[string]string{"next": "https://a.test/?ids=1,2,3"},
		},
		{
			name:     "semicolon inside url",
			values:   []string{`<https://api.mendeley.com/documents;v=1?marker=a>; rel="next"`},
			expected: map[string]string{"next": "https://api.mendeley.com/documents;v=1?marker=a"},
		},
		{
			name:     "unterminated url",
			values:   []string{`<https://a.test/x; rel="next"`},
			expected: nil,
		},
		{
			name:     "unquoted rel and extra params",
			values:   []string{`<https://a.test/x>; title="a, b"; rel=next`},
			expected: map[string]string{"next": "https://a.test/x"},
		},
		{
			name:     "several rel names",
			values:   []string{`<https://a.test/x>; rel="next last"`},
			expected: map[string]string{"next": "https://a.test/x", "last": "https://a.test/x"},
		},
		{
			name:     "entries without rel are dropped",
			values:   []string{`<https://a.test/x>; title="x", <https://a.test/y>; rel="next"`},
			expected: map[string]string{"next": "https://a.test/y"},
		},
		{
			name:     "nothing parseable",
			values:   []string{`https://a.test/x; rel="next"`},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLinks(tt.values...))
		})
	}
}

func TestFormatLinks_RoundTrip(t *testing.T) {
	links := map[string]string{
		"next":     "https://api.mendeley.com/documents?marker=b&limit=20",
		"previous": "https://api.mendeley.com/documents?marker=a&limit=20",
		"last":     "https://api.mendeley.com/documents?reverse=true&limit=20",
		"first":    "https://api.mendeley.com/documents?ids=1,2",
	}

	formatted := FormatLinks(links)
	assert.Equal(t, links, ParseLinks(formatted))

	// Split into one header line per relation, the way the API sends them.
	h := http.Header{}
	for rel, target := range links {
		h.Add(HeaderLink, FormatLink(target, rel))
	}
	assert.Equal(t, links, ExtractHeaders(h, []string{HeaderLink}).Links)
}

func TestFormatLinks_Deterministic(t *testing.T) {
	links := map[string]string{"next": "n", "last": "l", "previous": "p"}
	assert.Equal(t, `<l>; rel="last", <n>; rel="next", <p>; rel="previous"`, FormatLinks(links))
}

func TestExtractHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Mendeley-Count", "42")
	h.Add("Link", `<https://a.test/?p=2>; rel="next"`)
	h.Add("Link", `<https://a.test/?p=5>; rel="last"`)
	h.Set("Content-Type", "application/json")

	got := ExtractHeaders(h, []string{"Mendeley-Count", "Link", "X-Missing"})

	require.NotNil(t, got.Count)
	assert.Equal(t, 42, *got.Count)
	assert.Equal(t, map[string]string{"next": "https://a.test/?p=2", "last": "https://a.test/?p=5"}, got.Links)
	assert.Equal(t, map[string]string{"Mendeley-Count": "42"}, got.Values)

	next, ok := got.Link("next")
	assert.True(t, ok)
	assert.Equal(t, "https://a.test/?p=2", next)
	_, ok = got.Link("previous")
	assert.False(t, ok)
}

func TestExtractHeaders_Absent(t *testing.T) {
	got := ExtractHeaders(http.Header{}, DefaultExtractHeaders)
	assert.Nil(t, got.Count)
	assert.Nil(t, got.Links)
	assert.Nil(t, got.Values)

	_, ok := got.Link("next")
	assert.False(t, ok)
}

func TestExtractHeaders_BadCount(t *testing.T) {
	h := http.Header{}
	h.Set("Mendeley-Count", "many")

	got := ExtractHeaders(h, DefaultExtractHeaders)
	assert.Nil(t, got.Count)
	assert.Equal(t, "many", got.Values["Mendeley-Count"])
}

func TestExtractHeaders_NameCase(t *testing.T) {
	h := http.Header{}
	h.Set("X-Trace", "abc")

	got := ExtractHeaders(h, []string{"x-trace"})
	assert.Equal(t, "abc", got.Values["x-trace"])
}
