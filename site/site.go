// Package site registers the camera pages and the JSON API on a router.App.
package site

import (
	"embed"
	"io/fs"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarthome/camserve/camera"
	"github.com/smarthome/camserve/qs"
	"github.com/smarthome/camserve/router"
	"github.com/smarthome/camserve/routing"
	"github.com/smarthome/camserve/server"
	"github.com/smarthome/camserve/stream"
	"github.com/smarthome/camserve/web"
)

//go:embed assets
var assets embed.FS

// Assets returns the packaged files, rooted so that "static/app.css" exists.
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// StatsFunc reports the server counters shown on the status pages.
type StatsFunc func() server.Stats

type Config struct {
	// FrameInterval is the pause between video frames.
	FrameInterval time.Duration
	// Assets overrides the packaged static files.
	Assets fs.FS
	Logger logrus.FieldLogger
}

type site struct {
	cam    *camera.Camera
	stats  StatsFunc
	config Config
	log    logrus.FieldLogger
}

// New builds the root app: pages, /video, /static/ and the /api mount.
func New(cam *camera.Camera, stats StatsFunc, config Config) *router.App {
	if config.FrameInterval <= 0 {
		config.FrameInterval = stream.DefaultInterval
	}
	if config.Assets == nil {
		config.Assets = Assets()
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	s := &site{cam: cam, stats: stats, config: config, log: config.Logger}

	app := router.New("site", router.WithLogger(s.log), router.WithStatic(config.Assets))
	app.HandleFunc("/", s.index)
	app.HandleFunc("/stream", s.streamPage)
	app.Handle("/video", &stream.MJPEG{
		Source:   cam,
		Interval: config.FrameInterval,
		Logger:   s.log,
	}, routing.WithHeaders(routing.HeadersSkip))
	app.HandleFunc("/capture", s.capture, routing.WithHeaders(routing.HeadersSkip))
	app.HandleFunc("/settings", s.settings)
	app.HandleFunc("/status", s.status)

	app.Mount("/api", s.api())
	return app
}

func (s *site) index(req *web.Request, w *web.Response) error {
	st := s.stats()
	page := strings.NewReplacer(
		"{{uptime}}", strconv.Itoa(int(st.Uptime/time.Minute)),
		"{{requests}}", strconv.FormatUint(st.Requests, 10),
	).Replace(indexPage)
	return html(w, web.StatusOK, page)
}

func (s *site) streamPage(req *web.Request, w *web.Response) error {
	return html(w, web.StatusOK, streamPage)
}

func (s *site) capture(req *web.Request, w *web.Response) error {
	frame, err := s.cam.CapturePhoto()
	if err != nil {
		s.log.WithError(err).Warn("capture failed")
		if err := web.StartResponse(w, "text/plain", web.StatusInternalServerError, nil); err != nil {
			return err
		}
		_, err = w.WriteString("Capture failed")
		return err
	}
	h := web.Header{}
	h.Set("Content-Disposition", "attachment; filename=photo.jpg")
	if err := web.StartResponse(w, "image/jpeg", web.StatusOK, h); err != nil {
		return err
	}
	_, err = w.Write(frame)
	return err
}

func (s *site) settings(req *web.Request, w *web.Response) error {
	var formErr error
	if req.Method == "POST" {
		form, err := req.ReadForm()
		if err == nil {
			err = s.applyForm(form)
		}
		if err == nil {
			return web.Redirect(w, "/settings?saved=1")
		}
		s.log.WithError(err).Warn("settings rejected")
		formErr = err
	}

	cur := s.cam.Settings()
	selected := func(v, want int) string {
		if v == want {
			return " selected"
		}
		return ""
	}
	saved := ""
	if req.Query().Get("saved") == "1" {
		saved = "Settings saved"
	}
	errText := ""
	status := web.StatusOK
	if formErr != nil {
		errText = formErr.Error()
		status = web.StatusBadRequest
	}

	page := strings.NewReplacer(
		"{{saved}}", saved,
		"{{error}}", escape(errText),
		"{{quality}}", strconv.Itoa(cur.Quality),
		"{{brightness}}", strconv.Itoa(cur.Brightness),
		"{{contrast}}", strconv.Itoa(cur.Contrast),
		"{{saturation}}", strconv.Itoa(cur.Saturation),
		"{{flip0}}", selected(cur.Flip, 0),
		"{{flip1}}", selected(cur.Flip, 1),
		"{{mirror0}}", selected(cur.Mirror, 0),
		"{{mirror1}}", selected(cur.Mirror, 1),
	).Replace(settingsPage)
	return html(w, status, page)
}

// applyForm updates the camera from the fields present in form.
func (s *site) applyForm(form qs.Values) error {
	next := s.cam.Settings()
	fields := []struct {
		name string
		dst  *int
	}{
		{"quality", &next.Quality},
		{"brightness", &next.Brightness},
		{"contrast", &next.Contrast},
		{"saturation", &next.Saturation},
		{"flip", &next.Flip},
		{"mirror", &next.Mirror},
	}
	for _, f := range fields {
		if !form.Has(f.name) {
			continue
		}
		v, err := strconv.Atoi(form.Get(f.name))
		if err != nil {
			return &fieldError{name: f.name, value: form.Get(f.name)}
		}
		*f.dst = v
	}
	return s.cam.Apply(next)
}

type fieldError struct {
	name, value string
}

func (e *fieldError) Error() string {
	return "invalid " + e.name + ": " + strconv.Quote(e.value)
}

func (s *site) status(req *web.Request, w *web.Response) error {
	st := s.stats()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	page := strings.NewReplacer(
		"{{uptime}}", strconv.Itoa(int(st.Uptime/time.Minute)),
		"{{heap}}", strconv.FormatUint(ms.HeapInuse, 10),
		"{{requests}}", strconv.FormatUint(st.Requests, 10),
		"{{errors}}", strconv.FormatUint(st.Errors, 10),
		"{{active}}", strconv.Itoa(st.Active),
	).Replace(statusPage)
	return html(w, web.StatusOK, page)
}

func html(w *web.Response, status int, page string) error {
	if err := web.StartResponse(w, "", status, nil); err != nil {
		return err
	}
	_, err := w.WriteString(page)
	return err
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;", "'", "&#39;")

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
