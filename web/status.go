package web

import (
	"fmt"
	"sync"
)

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusNoContent           = 204
	StatusFound               = 302
	StatusBadRequest          = 400
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusRequestTooLarge     = 413
	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

var statusText = map[int]string{
	StatusOK:                  "OK",
	StatusCreated:             "Created",
	StatusNoContent:           "No Content",
	StatusFound:               "Found",
	StatusBadRequest:          "Bad Request",
	StatusForbidden:           "Forbidden",
	StatusNotFound:            "Not Found",
	StatusMethodNotAllowed:    "Method Not Allowed",
	StatusRequestTooLarge:     "Request Entity Too Large",
	StatusInternalServerError: "Internal Server Error",
	StatusServiceUnavailable:  "Service Unavailable",
}

// StatusText returns the reason phrase for code, or "" if unknown.
func StatusText(code int) string {
	return statusText[code]
}

var (
	statusMu    sync.RWMutex
	statusLines = make(map[int]string)
)

// statusLine renders "HTTP/1.0 <code> <reason>\r\n". Lines for known codes are
// cached.
func statusLine(code int) string {
	statusMu.RLock()
	line, ok := statusLines[code]
	statusMu.RUnlock()
	if ok {
		return line
	}

	codestring := fmt.Sprintf("%03d", code)
	text, ok := statusText[code]
	if !ok {
		text = "status code " + codestring
	}
	line = "HTTP/1.0 " + codestring + " " + text + "\r\n"
	if ok {
		statusMu.Lock()
		statusLines[code] = line
		statusMu.Unlock()
	}
	return line
}
