// Package stream serves multipart MJPEG feeds.
package stream

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarthome/camserve/web"
)

const (
	Boundary    = "frame"
	ContentType = "multipart/x-mixed-replace; boundary=" + Boundary

	// DefaultInterval caps a feed at about 20 frames per second.
	DefaultInterval = 50 * time.Millisecond
)

var segmentHeader = []byte("--" + Boundary + "\r\nContent-Type: image/jpeg\r\n\r\n")

// FrameSource captures one encoded frame per call. An empty frame ends the
// feed like an error does.
type FrameSource interface {
	Capture() ([]byte, error)
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func() ([]byte, error)

func (f FrameSourceFunc) Capture() ([]byte, error) {
	return f()
}

// MJPEG streams frames from Source until a capture or a write fails. It
// sleeps Interval after every frame.
type MJPEG struct {
	Source   FrameSource
	Interval time.Duration
	Logger   logrus.FieldLogger
}

func (m *MJPEG) ServeWeb(req *web.Request, w *web.Response) (bool, error) {
	if err := web.StartResponse(w, ContentType, web.StatusOK, nil); err != nil {
		return true, err
	}

	interval := m.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	log := m.logger().WithField("conn", req.ConnID)

	frames := 0
	for {
		frame, err := m.Source.Capture()
		if err != nil {
			log.WithError(err).Debug("capture failed")
			break
		}
		if len(frame) == 0 {
			break
		}
		if err := WriteFrame(w, frame); err != nil {
			log.WithError(err).Debug("stream write failed")
			break
		}
		frames++
		time.Sleep(interval)
	}

	log.WithField("frames", frames).Info("stream ended")
	return true, nil
}

func (m *MJPEG) logger() logrus.FieldLogger {
	if m.Logger == nil {
		return logrus.StandardLogger()
	}
	return m.Logger
}

// WriteFrame writes one boundary segment in a single write so a failed write
// never leaves half a segment behind a complete one.
func WriteFrame(w *web.Response, frame []byte) error {
	seg := make([]byte, 0, len(segmentHeader)+len(frame)+2)
	seg = append(seg, segmentHeader...)
	seg = append(seg, frame...)
	seg = append(seg, '\r', '\n')
	_, err := w.Write(seg)
	return err
}
