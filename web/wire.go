package web

import (
	"fmt"
	"net/textproto"
	"strings"
)

// ProtocolError describes a request or header line that does not follow
// HTTP/1.0 syntax.
type ProtocolError struct {
	Line   string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed %s %q", e.Reason, e.Line)
}

// ParseRequestLine splits "GET /foo?x=1 HTTP/1.0" into its three parts. The
// protocol version is returned but not checked.
func ParseRequestLine(line string) (method, target, proto string, err error) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return "", "", "", &ProtocolError{Line: line, Reason: "request line"}
	}
	return parts[0], parts[1], parts[2], nil
}

// ReadHeaders reads header lines up to the blank line and stores them in dst.
// Names keep the case they arrived with and a repeated name keeps its last
// value. Lines without ':' are reported to onBad, if set, and skipped.
func ReadHeaders(tp *textproto.Reader, dst map[string]string, onBad func(*ProtocolError)) error {
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			if onBad != nil {
				onBad(&ProtocolError{Line: line, Reason: "header line"})
			}
			continue
		}
		dst[k] = strings.TrimSpace(v)
	}
}

// SkipHeaders drains header lines up to the blank line without storing them.
func SkipHeaders(tp *textproto.Reader) error {
	for {
		line, err := tp.ReadLineBytes()
		if err != nil {
			return err
		}
		if len(line) == 0 {
			return nil
		}
	}
}
