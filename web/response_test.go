package web

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("broken pipe")
	}
	w.after--
	return len(p), nil
}

func TestResponseWritesStatusAndHeaders(t *testing.T) {
	var buf bytes.Buffer
	w := NewResponse(&buf)

	require.NoError(t, w.WriteHeader(StatusOK, "text/css", Header{"X-Frame": {"1"}, "Cache-Control": {"no-cache"}}))
	_, err := w.WriteString("body")
	require.NoError(t, err)

	assert.Equal(t, "HTTP/1.0 200 OK\r\nContent-Type: text/css\r\nCache-Control: no-cache\r\nX-Frame: 1\r\n\r\nbody", buf.String())
	assert.True(t, w.HeadersSent())
	assert.Equal(t, StatusOK, w.Status())
	assert.Equal(t, int64(4), w.Written())
}

func TestResponseDefaultsContentType(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, StartResponse(NewResponse(&buf), "", 0, nil))
	assert.Equal(t, "HTTP/1.0 200 OK\r\nContent-Type: text/html; charset=utf-8\r\n\r\n", buf.String())
}

func TestResponseRejectsBodyBeforeHeaders(t *testing.T) {
	var buf bytes.Buffer
	w := NewResponse(&buf)

	_, err := w.WriteString("too early")
	assert.ErrorIs(t, err, ErrHeadersNotSent)
	assert.Zero(t, buf.Len())
}

func TestResponseCannotRewriteHeaders(t *testing.T) {
	var buf bytes.Buffer
	w := NewResponse(&buf)

	require.NoError(t, w.WriteHeader(StatusOK, "text/plain", nil))
	_, err := w.WriteString("a")
	require.NoError(t, err)
	before := buf.String()

	assert.ErrorIs(t, w.WriteHeader(StatusNotFound, "text/plain", nil), ErrHeadersSent)
	assert.Equal(t, before, buf.String())
	assert.Equal(t, StatusOK, w.Status())
}

func TestResponseWriteErrorSticks(t *testing.T) {
	w := NewResponse(&failingWriter{after: 1})

	require.NoError(t, w.WriteHeader(StatusOK, "", nil))
	_, err := w.WriteString("frame")
	require.Error(t, err)

	_, err2 := w.WriteString("again")
	assert.Equal(t, err, err2)
	assert.Equal(t, err, w.Err())
}

func TestUnknownStatusLine(t *testing.T) {
	assert.Equal(t, "HTTP/1.0 299 status code 299\r\n", statusLine(299))
	assert.Equal(t, "HTTP/1.0 404 Not Found\r\n", statusLine(StatusNotFound))
}

func TestHeaderValuesCannotInjectLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewResponse(&buf)
	require.NoError(t, w.WriteHeader(StatusOK, "text/plain", Header{"Location": {"/a\r\nSet-Cookie: x"}}))
	assert.Equal(t, 4, strings.Count(buf.String(), "\r\n"))
}

func TestHTTPError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTTPError(NewResponse(&buf), StatusForbidden))
	assert.Equal(t, "HTTP/1.0 403 Forbidden\r\nContent-Type: text/html; charset=utf-8\r\n\r\n403\r\n", buf.String())
}

func TestRedirect(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Redirect(NewResponse(&buf), "/settings?saved=1"))
	assert.Contains(t, buf.String(), "HTTP/1.0 302 Found\r\n")
	assert.Contains(t, buf.String(), "Location: /settings?saved=1\r\n")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(NewResponse(&buf), StatusOK, map[string]string{"status": "success"}))
	assert.True(t, strings.HasSuffix(buf.String(), "\r\n\r\n{\"status\":\"success\"}"))
	assert.Contains(t, buf.String(), "Content-Type: application/json\r\n")
}

func TestSendStreamChunks(t *testing.T) {
	cw := &countingWriter{}
	w := NewResponse(cw)
	require.NoError(t, w.WriteHeader(StatusOK, "text/plain", nil))
	cw.Reset()
	cw.writes = 0

	payload := strings.Repeat("x", SendBufSize*3+1)
	require.NoError(t, SendStream(w, strings.NewReader(payload)))

	assert.Equal(t, payload, cw.String())
	assert.Equal(t, 4, cw.writes)
}
