package camera

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DirSource plays back the .jpg files of a directory in name order, wrapping
// around at the end. The listing is read once, on first capture. The files
// are already encoded, so the requested quality is ignored.
type DirSource struct {
	Dir string

	once  sync.Once
	err   error
	mu    sync.Mutex
	files []string
	next  int
}

func (d *DirSource) Capture(int) ([]byte, error) {
	d.once.Do(d.load)
	if d.err != nil {
		return nil, d.err
	}

	d.mu.Lock()
	name := d.files[d.next]
	d.next = (d.next + 1) % len(d.files)
	d.mu.Unlock()

	return os.ReadFile(name)
}

func (d *DirSource) load() {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		d.err = fmt.Errorf("camera: read frames dir: %w", err)
		return
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.Type().IsRegular() && (ext == ".jpg" || ext == ".jpeg") {
			d.files = append(d.files, filepath.Join(d.Dir, e.Name()))
		}
	}
	if len(d.files) == 0 {
		d.err = fmt.Errorf("camera: no frames in %s: %w", d.Dir, ErrNoFrame)
		return
	}
	sort.Strings(d.files)
}

// StaticSource returns the same frame on every capture.
type StaticSource []byte

func (s StaticSource) Capture(int) ([]byte, error) {
	return s, nil
}
