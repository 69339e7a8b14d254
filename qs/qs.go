// Package qs decodes application/x-www-form-urlencoded payloads and query strings.
package qs

import (
	"net/url"
	"strings"
)

// Values is an ordered multi-value mapping. Keys keep the order of their first
// occurrence; values of a repeated key are kept in arrival order.
type Values struct {
	keys []string
	vals map[string][]string
}

// Parse decodes raw into Values. It never fails: a pair without '=' gets an
// empty value and broken escapes are kept literally. Empty segments, as in
// "a=1&&b=2" or a trailing '&', are dropped instead of becoming an empty key;
// only an explicit "=" yields the key "".
func Parse(raw string) Values {
	var v Values
	if raw == "" {
		return v
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		v.Add(UnquotePlus(key), UnquotePlus(value))
	}
	return v
}

// Add appends value to key.
func (v *Values) Add(key, value string) {
	if v.vals == nil {
		v.vals = make(map[string][]string)
	}
	if _, ok := v.vals[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.vals[key] = append(v.vals[key], value)
}

// Set replaces all values of key with value.
func (v *Values) Set(key, value string) {
	if v.vals == nil {
		v.vals = make(map[string][]string)
	}
	if _, ok := v.vals[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.vals[key] = []string{value}
}

// Get returns the first value of key, or "" when absent.
func (v Values) Get(key string) string {
	if vs := v.vals[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// All returns every value of key.
func (v Values) All(key string) []string {
	return v.vals[key]
}

// Has reports whether key was present, even with an empty value.
func (v Values) Has(key string) bool {
	_, ok := v.vals[key]
	return ok
}

// IsMulti reports whether key repeated.
func (v Values) IsMulti(key string) bool {
	return len(v.vals[key]) > 1
}

// Keys returns the keys in first-seen order.
func (v Values) Keys() []string {
	return v.keys
}

func (v Values) Len() int {
	return len(v.keys)
}

// Map flattens v into a plain map. Single values map to string, repeated keys
// to []string.
func (v Values) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(v.keys))
	for _, k := range v.keys {
		vs := v.vals[k]
		if len(vs) == 1 {
			m[k] = vs[0]
		} else {
			m[k] = append([]string(nil), vs...)
		}
	}
	return m
}

// Encode renders v in key order, escaping keys and values.
func (v Values) Encode() string {
	var sb strings.Builder
	for _, k := range v.keys {
		for _, val := range v.vals[k] {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(k))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(val))
		}
	}
	return sb.String()
}

// UnquotePlus decodes '+' as space and %XX escapes. Malformed escapes are
// copied through unchanged.
func UnquotePlus(s string) string {
	if !strings.ContainsAny(s, "+%") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '+':
			sb.WriteByte(' ')
		case '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				sb.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
				i += 2
			} else {
				sb.WriteByte(c)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
