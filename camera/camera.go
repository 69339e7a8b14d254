// Package camera holds the frame sources and the settings of the device
// camera.
package camera

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoFrame is returned when a source has nothing to capture.
var ErrNoFrame = errors.New("camera: no frame")

// PhotoQuality is the JPEG quality used for single captures.
const PhotoQuality = 10

// Source captures one JPEG frame per call, encoded at quality (10 best, 63
// worst).
type Source interface {
	Capture(quality int) ([]byte, error)
}

// Settings mirror the sensor registers exposed on the settings page.
type Settings struct {
	Resolution int `json:"resolution"`
	Quality    int `json:"quality"`
	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
	Saturation int `json:"saturation"`
	Flip       int `json:"flip"`
	Mirror     int `json:"mirror"`
}

// DefaultSettings is QVGA at quality 15, flipped and mirrored.
var DefaultSettings = Settings{
	Resolution: 7,
	Quality:    15,
	Flip:       1,
	Mirror:     1,
}

// Validate checks the ranges accepted by the sensor.
func (s Settings) Validate() error {
	checks := []struct {
		name     string
		val      int
		min, max int
	}{
		{"quality", s.Quality, 10, 63},
		{"brightness", s.Brightness, -2, 2},
		{"contrast", s.Contrast, -2, 2},
		{"saturation", s.Saturation, -2, 2},
		{"flip", s.Flip, 0, 1},
		{"mirror", s.Mirror, 0, 1},
	}
	for _, c := range checks {
		if c.val < c.min || c.val > c.max {
			return fmt.Errorf("camera: %s %d out of range [%d, %d]", c.name, c.val, c.min, c.max)
		}
	}
	return nil
}

// Camera serializes access to a single Source and tracks its settings.
type Camera struct {
	mu       sync.Mutex
	src      Source
	settings Settings
}

func New(src Source) *Camera {
	return &Camera{src: src, settings: DefaultSettings}
}

// Capture grabs one frame at the configured quality.
func (c *Camera) Capture() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture(c.settings.Quality)
}

// CapturePhoto grabs one frame at PhotoQuality. The configured quality is
// left untouched for the next Capture.
func (c *Camera) CapturePhoto() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture(PhotoQuality)
}

func (c *Camera) capture(quality int) ([]byte, error) {
	b, err := c.src.Capture(quality)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, ErrNoFrame
	}
	return b, nil
}

func (c *Camera) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Apply validates s and makes it current.
func (c *Camera) Apply(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
	return nil
}
