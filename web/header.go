package web

import (
	"io"
	"net/textproto"
	"sort"
	"strings"
)

// Header holds extra response headers, keyed by canonical MIME header name.
type Header map[string][]string

func (h Header) Add(key, value string) {
	textproto.MIMEHeader(h).Add(key, value)
}

func (h Header) Set(key, value string) {
	textproto.MIMEHeader(h).Set(key, value)
}

func (h Header) Get(key string) string {
	return textproto.MIMEHeader(h).Get(key)
}

func (h Header) Del(key string) {
	textproto.MIMEHeader(h).Del(key)
}

var headerNewlineToSpace = strings.NewReplacer("\n", " ", "\r", " ")

// WriteSubset writes h in wire format, sorted by key, skipping keys in exclude.
func (h Header) WriteSubset(w io.StringWriter, exclude map[string]bool) error {
	keys := make([]string, 0, len(h))
	for k := range h {
		if !exclude[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range h[k] {
			v = headerNewlineToSpace.Replace(v)
			v = textproto.TrimString(v)
			for _, s := range []string{k, ": ", v, "\r\n"} {
				if _, err := w.WriteString(s); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
