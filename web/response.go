package web

import (
	"errors"
	"io"
	"strings"
)

var (
	// ErrHeadersSent is returned when a status line is written twice.
	ErrHeadersSent = errors.New("web: status and headers already sent")
	// ErrHeadersNotSent is returned when body bytes precede the status line.
	ErrHeadersNotSent = errors.New("web: body written before status and headers")
)

const DefaultContentType = "text/html; charset=utf-8"

// Response is the append-only writer bound to one connection. It has two
// states: before headers, where only WriteHeader is allowed, and body, where
// only body bytes are allowed. Every call writes straight through to the
// connection. The first write error sticks and is returned by every later call.
type Response struct {
	w           io.Writer
	wroteHeader bool
	status      int
	written     int64
	err         error
}

func NewResponse(w io.Writer) *Response {
	return &Response{w: w}
}

// WriteHeader sends the status line, Content-Type and extra headers, then the
// blank line that ends the header block.
func (r *Response) WriteHeader(status int, contentType string, extra Header) error {
	if r.wroteHeader {
		return ErrHeadersSent
	}
	r.wroteHeader = true
	r.status = status
	if r.err != nil {
		return r.err
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	var sb strings.Builder
	sb.WriteString(statusLine(status))
	sb.WriteString("Content-Type: ")
	sb.WriteString(headerNewlineToSpace.Replace(contentType))
	sb.WriteString("\r\n")
	extra.WriteSubset(&sb, map[string]bool{"Content-Type": true})
	sb.WriteString("\r\n")

	_, r.err = io.WriteString(r.w, sb.String())
	return r.err
}

func (r *Response) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		return 0, ErrHeadersNotSent
	}
	if r.err != nil {
		return 0, r.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	n, err := r.w.Write(p)
	r.written += int64(n)
	if err != nil {
		r.err = err
	}
	return n, err
}

func (r *Response) WriteString(s string) (int, error) {
	return r.Write([]byte(s))
}

// HeadersSent reports whether the response is in the body state.
func (r *Response) HeadersSent() bool {
	return r.wroteHeader
}

// Status is the code passed to WriteHeader, or 0.
func (r *Response) Status() int {
	return r.status
}

// Written is the number of body bytes accepted by the connection.
func (r *Response) Written() int64 {
	return r.written
}

// Err returns the sticky write error, if any.
func (r *Response) Err() error {
	return r.err
}

// Close closes the underlying connection. Only handlers that asked the
// dispatcher to keep the connection open need it.
func (r *Response) Close() error {
	if c, ok := r.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
