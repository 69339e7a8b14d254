package web

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest(raw string) *Request {
	return NewRequest(bufio.NewReader(strings.NewReader(raw)))
}

func TestParseRequestLine(t *testing.T) {
	method, target, proto, err := ParseRequestLine("GET /index.html?a=1 HTTP/1.0")
	require.NoError(t, err)
	assert.Equal(t, "GET", method)
	assert.Equal(t, "/index.html?a=1", target)
	assert.Equal(t, "HTTP/1.0", proto)

	for _, line := range []string{"", "GET", "GET /", "GET / HTTP/1.0 extra"} {
		_, _, _, err := ParseRequestLine(line)
		var perr *ProtocolError
		assert.ErrorAs(t, err, &perr, line)
	}
}

func TestSetTarget(t *testing.T) {
	r := newTestRequest("")
	r.SetTarget("/static/a%20b.css?v=2&x")
	assert.Equal(t, "/static/a b.css", r.Path)
	assert.Equal(t, "v=2&x", r.RawQuery)
	assert.Equal(t, "2", r.Query().Get("v"))

	r.SetTarget("/bad%zz")
	assert.Equal(t, "/bad%zz", r.Path)
	assert.Equal(t, "", r.RawQuery)
}

func TestReadHeadersLastWins(t *testing.T) {
	r := newTestRequest("Host: cam\r\nX-Mode: a\r\nbogus line\r\nX-Mode: b\r\n\r\nrest")
	var bad []*ProtocolError
	require.NoError(t, ReadHeaders(r.TextReader(), r.Headers, func(e *ProtocolError) { bad = append(bad, e) }))

	assert.Equal(t, map[string]string{"Host": "cam", "X-Mode": "b"}, r.Headers)
	require.Len(t, bad, 1)
	assert.Equal(t, "bogus line", bad[0].Line)
	assert.Equal(t, "b", r.Header("x-mode"))

	rest, err := r.br.ReadString(0)
	assert.Equal(t, "rest", rest)
	assert.Error(t, err)
}

func TestSkipHeaders(t *testing.T) {
	r := newTestRequest("A: 1\r\nB: 2\r\n\r\nbody")
	require.NoError(t, SkipHeaders(r.TextReader()))
	assert.Empty(t, r.Headers)

	rest, _ := r.br.ReadString(0)
	assert.Equal(t, "body", rest)
}

func TestReadForm(t *testing.T) {
	body := "quality=10&flip=1&flip=0"
	r := newTestRequest("Content-Length: 24\r\n\r\n" + body + "trailing")
	require.NoError(t, r.ReadHeaders())

	form, err := r.ReadForm()
	require.NoError(t, err)
	assert.Equal(t, "10", form.Get("quality"))
	assert.Equal(t, []string{"1", "0"}, form.All("flip"))
}

func TestReadJSON(t *testing.T) {
	r := newTestRequest("content-length: 15\r\n\r\n{\"action\":\"on\"}")
	require.NoError(t, r.ReadHeaders())

	var v struct {
		Action string `json:"action"`
	}
	require.NoError(t, r.ReadJSON(&v))
	assert.Equal(t, "on", v.Action)
}

func TestReadBodyWithoutLength(t *testing.T) {
	r := newTestRequest("\r\nignored")
	require.NoError(t, r.ReadHeaders())
	b, err := r.ReadBody()
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestReadBodyTooLarge(t *testing.T) {
	r := newTestRequest("Content-Length: 100\r\n\r\n")
	r.MaxBodyBytes = 10
	require.NoError(t, r.ReadHeaders())
	_, err := r.ReadBody()
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestReadBodyShort(t *testing.T) {
	r := newTestRequest("Content-Length: 10\r\n\r\nabc")
	require.NoError(t, r.ReadHeaders())
	_, err := r.ReadBody()
	assert.Error(t, err)
}

func TestCapture(t *testing.T) {
	r := newTestRequest("")
	assert.Equal(t, "", r.Capture())
	r.Match = []string{"/static/a.css", "static/a.css"}
	assert.Equal(t, "static/a.css", r.Capture())
}
