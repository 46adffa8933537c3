// ABOUTME: Filter is the flat parameter set merged into every search request
// ABOUTME: Supports shallow merge with empty-value removal and query encoding

package review

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Well-known filter keys understood by the search API.
const (
	KeyAPIKey   = "api-key"
	KeyReviewer = "reviewer"
	KeyQuery    = "query"
	KeyOrder    = "order"
	KeyOffset   = "offset"
)

// Filter maps a query parameter name to its value. An absent key means no
// constraint.
type Filter map[string]string

// Clone returns an independent copy of f. A nil filter clones to an empty one.
func (f Filter) Clone() Filter {
	out := make(Filter, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Merge returns a new filter with overrides applied on top of f. Keys present
// in overrides replace those in f; an override with an empty value removes
// the key. f itself is not modified.
func (f Filter) Merge(overrides Filter) Filter {
	out := f.Clone()
	for k, v := range overrides {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// Values encodes the filter, plus offset when non-nil, as URL query values.
func (f Filter) Values(offset *int) url.Values {
	v := make(url.Values, len(f)+1)
	for k, val := range f {
		v.Set(k, val)
	}
	if offset != nil {
		v.Set(KeyOffset, strconv.Itoa(*offset))
	}
	return v
}

// Identity encodes the filter, plus offset when non-nil, with escaped values
// and sorted keys, omitting the credential. Distinct filters never share an
// identity.
func (f Filter) Identity(offset *int) string {
	v := f.Values(offset)
	v.Del(KeyAPIKey)
	return v.Encode()
}

// String renders the filter with sorted keys, omitting the credential. Values
// are not escaped, so use it for logs only; see Identity.
func (f Filter) String() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		if k == KeyAPIKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+f[k])
	}
	return strings.Join(parts, "&")
}
