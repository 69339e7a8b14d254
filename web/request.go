package web

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/smarthome/camserve/qs"
)

// ErrBodyTooLarge is returned when a declared body exceeds the request's limit.
var ErrBodyTooLarge = errors.New("web: request body too large")

// DefaultMaxBodyBytes caps ReadBody, ReadForm and ReadJSON.
const DefaultMaxBodyBytes = 64 << 10

// Request is one in-flight HTTP transaction. It is created per connection and
// dropped when the connection ends.
type Request struct {
	Method   string
	Path     string // decoded, query string stripped
	RawQuery string
	Proto    string

	// Headers is filled only when the route's header mode is parse, or after
	// the handler calls ReadHeaders.
	Headers map[string]string

	// Match holds the capture pattern submatches: the whole match followed by
	// the groups. It is nil for literal routes.
	Match []string

	ConnID     uint64
	RemoteAddr string

	// MaxBodyBytes caps the body readers; 0 means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	br *bufio.Reader
	tp *textproto.Reader
}

// NewRequest binds a request to the unread bytes of a connection.
func NewRequest(br *bufio.Reader) *Request {
	return &Request{
		Headers: make(map[string]string),
		br:      br,
		tp:      textproto.NewReader(br),
	}
}

// TextReader exposes the line reader over the connection.
func (r *Request) TextReader() *textproto.Reader {
	return r.tp
}

// SetTarget splits a request target into Path and RawQuery. The path is
// percent-decoded; an undecodable path is kept as received.
func (r *Request) SetTarget(target string) {
	path, query, _ := strings.Cut(target, "?")
	if p, err := url.PathUnescape(path); err == nil {
		path = p
	}
	r.Path = path
	r.RawQuery = query
}

// Header looks name up exactly first and then case-insensitively.
func (r *Request) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Capture returns the first capture group of the matched pattern.
func (r *Request) Capture() string {
	if len(r.Match) < 2 {
		return ""
	}
	return r.Match[1]
}

// Query decodes the raw query string.
func (r *Request) Query() qs.Values {
	return qs.Parse(r.RawQuery)
}

// ReadHeaders consumes the header block. Handlers routed with header mode
// leave call it when they want the standard parsing after all.
func (r *Request) ReadHeaders() error {
	return ReadHeaders(r.tp, r.Headers, nil)
}

// ContentLength returns the declared body length.
func (r *Request) ContentLength() (int64, bool) {
	v := r.Header("Content-Length")
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Body returns the unread bytes of the connection, bounded by Content-Length
// when one was sent.
func (r *Request) Body() io.Reader {
	if n, ok := r.ContentLength(); ok {
		return io.LimitReader(r.br, n)
	}
	return r.br
}

// ReadBody reads exactly Content-Length bytes. A request without a declared
// length has an empty body.
func (r *Request) ReadBody() ([]byte, error) {
	n, ok := r.ContentLength()
	if !ok || n == 0 {
		return nil, nil
	}
	max := r.MaxBodyBytes
	if max <= 0 {
		max = DefaultMaxBodyBytes
	}
	if n > max {
		return nil, ErrBodyTooLarge
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.br, buf); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return buf, nil
}

// ReadForm reads a form-encoded body.
func (r *Request) ReadForm() (qs.Values, error) {
	b, err := r.ReadBody()
	if err != nil {
		return qs.Values{}, err
	}
	return qs.Parse(string(b)), nil
}

// ReadJSON decodes a JSON body into v. An empty body leaves v untouched.
func (r *Request) ReadJSON(v interface{}) error {
	b, err := r.ReadBody()
	if err != nil || len(b) == 0 {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode json body: %w", err)
	}
	return nil
}

func (r *Request) String() string {
	return fmt.Sprintf("%s %s", r.Method, r.Path)
}
