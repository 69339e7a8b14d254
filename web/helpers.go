package web

import (
	"encoding/json"
	"io"
	"strconv"
)

// SendBufSize is the chunk size used by SendStream.
const SendBufSize = 128

// StartResponse writes the status line and headers. An empty contentType means
// DefaultContentType and a zero status means 200.
func StartResponse(w *Response, contentType string, status int, headers Header) error {
	if status == 0 {
		status = StatusOK
	}
	return w.WriteHeader(status, contentType, headers)
}

// HTTPError answers with status and the bare status code as body.
func HTTPError(w *Response, status int) error {
	if err := StartResponse(w, "", status, nil); err != nil {
		return err
	}
	_, err := w.WriteString(strconv.Itoa(status) + "\r\n")
	return err
}

// Redirect answers 302 with a Location header and no body.
func Redirect(w *Response, location string) error {
	return StartResponse(w, "", StatusFound, Header{"Location": {location}})
}

// JSON encodes v and sends it as application/json.
func JSON(w *Response, status int, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := StartResponse(w, "application/json", status, nil); err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// SendStream copies src to w in SendBufSize chunks so peak memory stays
// bounded regardless of the source size.
func SendStream(w *Response, src io.Reader) error {
	buf := make([]byte, SendBufSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
