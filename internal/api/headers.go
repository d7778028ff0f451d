package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// Response headers the dispatcher understands.
const (
	HeaderLink          = "Link"
	HeaderCount         = "Mendeley-Count"
	HeaderLocation      = "Location"
	HeaderAuthorization = "Authorization"
)

// DefaultExtractHeaders is the extraction list used when Settings leaves it empty.
var DefaultExtractHeaders = []string{HeaderCount, HeaderLink}

// ExtractedHeaders is the header metadata attached to a successful response.
type ExtractedHeaders struct {
	// Count is the parsed Mendeley-Count header, nil when absent.
	Count *int

	// Links maps relation names to URLs. It is nil when the response
	// carried no usable Link header, which is different from a Link header
	// that lists no pagination relations.
	Links map[string]string

	// Values holds every other extracted single-value header, keyed by the
	// name given in the extraction list. Absent headers are omitted.
	Values map[string]string
}

// Link returns the URL for rel and whether it was present.
func (h ExtractedHeaders) Link(rel string) (string, bool) {
	if h.Links == nil {
		return "", false
	}
	u, ok := h.Links[rel]
	return u, ok
}

// ExtractHeaders reads the headers named in names from h.
func ExtractHeaders(h http.Header, names []string) ExtractedHeaders {
	var out ExtractedHeaders
	for _, name := range names {
		canonical := http.CanonicalHeaderKey(strings.TrimSpace(name))
		if canonical == "" {
			continue
		}
		if canonical == HeaderLink {
			// Values returns every Link line, not just the first.
			out.Links = ParseLinks(h.Values(HeaderLink)...)
			continue
		}

		value := h.Get(canonical)
		if value == "" {
			continue
		}
		if out.Values == nil {
			out.Values = map[string]string{}
		}
		out.Values[name] = value

		if canonical == HeaderCount {
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				out.Count = &n
			}
		}
	}
	return out
}

// ParseLinks parses one or more Link header values into a rel -> URL map.
// Entries without a rel parameter are dropped. It returns nil when no entry
// could be parsed.
func ParseLinks(values ...string) map[string]string {
	var links map[string]string
	for _, value := range values {
		for _, entry := range splitLinkEntries(value) {
			target, rels := parseLinkEntry(entry)
			if target == "" || len(rels) == 0 {
				continue
			}
			if links == nil {
				links = map[string]string{}
			}
			for _, rel := range rels {
				links[rel] = target
			}
		}
	}
	return links
}

// FormatLinks renders links as a single Link header value, ordered by rel.
func FormatLinks(links map[string]string) string {
	rels := make([]string, 0, len(links))
	for rel := range links {
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	parts := make([]string, 0, len(rels))
	for _, rel := range rels {
		parts = append(parts, FormatLink(links[rel], rel))
	}
	return strings.Join(parts, ", ")
}

// FormatLink renders a single `<url>; rel="rel"` entry.
func FormatLink(target, rel string) string {
	return "<" + target + `>; rel="` + rel + `"`
}

// splitLinkEntries splits a header value on commas that are not inside
// the <...> URL part.
func splitLinkEntries(value string) []string {
	var (
		entries []string
		inURL   bool
		inQuote bool
		start   int
	)
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '<':
			if !inQuote {
				inURL = true
			}
		case '>':
			if !inQuote {
				inURL = false
			}
		case '"':
			if !inURL {
				inQuote = !inQuote
			}
		case ',':
			if !inURL && !inQuote {
				entries = append(entries, value[start:i])
				start = i + 1
			}
		}
	}
	entries = append(entries, value[start:])
	return entries
}

// parseLinkEntry reads one `<url>; param=value...` entry. The URL is cut at
// the first '>' so semicolons inside it are kept.
func parseLinkEntry(entry string) (string, []string) {
	entry = strings.TrimSpace(entry)
	if !strings.HasPrefix(entry, "<") {
		return "", nil
	}
	target, params, ok := strings.Cut(entry[1:], ">")
	if !ok {
		return "", nil
	}
	target = strings.TrimSpace(target)

	var rels []string
	for _, param := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		rels = append(rels, strings.Fields(value)...)
	}
	return target, rels
}
