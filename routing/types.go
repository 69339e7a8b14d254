package routing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/smarthome/camserve/web"
)

// Pattern matches a request path. Match returns the submatches for capture
// patterns and nil for literal ones.
type Pattern interface {
	Match(path string) ([]string, bool)
	String() string
}

// Literal matches one exact path.
type Literal string

func (l Literal) Match(path string) ([]string, bool) {
	return nil, path == string(l)
}

func (l Literal) String() string {
	return string(l)
}

// Capture is a compiled pattern anchored at the start of the path.
type Capture struct {
	re *regexp.Regexp
}

// Regexp compiles expr into a Capture. Like a prefix match, the expression is
// anchored at the start but not at the end unless it says so.
func Regexp(expr string) (*Capture, error) {
	src := expr
	if !strings.HasPrefix(src, "^") {
		src = "^(?:" + src + ")"
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile route pattern %q: %w", expr, err)
	}
	return &Capture{re: re}, nil
}

func MustRegexp(expr string) *Capture {
	c, err := Regexp(expr)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Capture) Match(path string) ([]string, bool) {
	m := c.re.FindStringSubmatch(path)
	return m, m != nil
}

func (c *Capture) String() string {
	return c.re.String()
}

// HeaderMode selects how the dispatcher consumes the header block.
type HeaderMode int

const (
	// HeadersDefault defers to the owning app's mode.
	HeadersDefault HeaderMode = iota
	// HeadersParse reads every header line into Request.Headers.
	HeadersParse
	// HeadersSkip reads header lines and drops them.
	HeadersSkip
	// HeadersLeave does not touch the socket after the request line.
	HeadersLeave
)

func (m HeaderMode) String() string {
	switch m {
	case HeadersParse:
		return "parse"
	case HeadersSkip:
		return "skip"
	case HeadersLeave:
		return "leave"
	default:
		return "default"
	}
}

// ParseHeaderMode maps "parse", "skip" and "leave" to their modes.
func ParseHeaderMode(s string) (HeaderMode, error) {
	switch s {
	case "parse":
		return HeadersParse, nil
	case "skip":
		return HeadersSkip, nil
	case "leave":
		return HeadersLeave, nil
	}
	return HeadersDefault, fmt.Errorf("unknown header mode %q", s)
}

// Options are the per-route settings.
type Options struct {
	Headers HeaderMode
}

type Option func(*Options)

// WithHeaders sets the route's header mode.
func WithHeaders(mode HeaderMode) Option {
	return func(o *Options) {
		o.Headers = mode
	}
}

// Route is one (pattern, handler, options) entry.
type Route struct {
	Pattern Pattern
	Handler web.Handler
	Options Options
}

func NewRoute(p Pattern, h web.Handler, opts ...Option) *Route {
	r := &Route{Pattern: p, Handler: h}
	for _, o := range opts {
		o(&r.Options)
	}
	return r
}

type ResolutionType int

const (
	NOTFOUND ResolutionType = iota
	EXACT
	CAPTURED
)

func (t ResolutionType) String() string {
	switch t {
	case EXACT:
		return "exact"
	case CAPTURED:
		return "captured"
	default:
		return "not found"
	}
}
