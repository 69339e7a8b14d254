// Package static sends packaged assets.
package static

import (
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/smarthome/camserve/web"
)

var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// ContentType maps a file name to the content type sent for it. Unknown
// extensions are text/plain.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "text/plain"
}

// Sender serves files from an fs.FS.
type Sender struct {
	FS fs.FS
}

// Send answers with the file at name. Names containing ".." get 403 before
// the file system is touched; missing files and directories get 404.
func (s *Sender) Send(w *web.Response, name string) error {
	return s.SendWithHeaders(w, name, "", nil)
}

// SendWithHeaders is Send with an explicit content type and extra headers.
// An empty contentType is derived from the file name.
func (s *Sender) SendWithHeaders(w *web.Response, name, contentType string, h web.Header) error {
	if strings.Contains(name, "..") {
		return web.HTTPError(w, web.StatusForbidden)
	}
	if contentType == "" {
		contentType = ContentType(name)
	}

	f, err := s.FS.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || !fs.ValidPath(name) {
			return web.HTTPError(w, web.StatusNotFound)
		}
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return web.HTTPError(w, web.StatusNotFound)
	}

	if err := web.StartResponse(w, contentType, web.StatusOK, h); err != nil {
		return err
	}
	return web.SendStream(w, f)
}

// Handler serves the file named by the first capture group of the route.
func Handler(fsys fs.FS) web.Handler {
	s := &Sender{FS: fsys}
	return web.HandlerFunc(func(req *web.Request, w *web.Response) error {
		return s.Send(w, req.Capture())
	})
}
