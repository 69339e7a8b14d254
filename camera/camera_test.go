package camera

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSource struct {
	qualities []int
}

func (r *recordingSource) Capture(quality int) ([]byte, error) {
	r.qualities = append(r.qualities, quality)
	return []byte{0xff, 0xd8}, nil
}

func TestCaptureQuality(t *testing.T) {
	src := &recordingSource{}
	cam := New(src)

	_, err := cam.CapturePhoto()
	require.NoError(t, err)
	_, err = cam.Capture()
	require.NoError(t, err)

	s := cam.Settings()
	s.Quality = 30
	require.NoError(t, cam.Apply(s))
	_, err = cam.Capture()
	require.NoError(t, err)

	assert.Equal(t, []int{PhotoQuality, DefaultSettings.Quality, 30}, src.qualities)
}

func TestCaptureEmptyFrame(t *testing.T) {
	cam := New(StaticSource(nil))
	_, err := cam.Capture()
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestApplyValidates(t *testing.T) {
	cam := New(StaticSource("x"))

	s := cam.Settings()
	s.Quality = 20
	s.Brightness = -2
	require.NoError(t, cam.Apply(s))
	assert.Equal(t, s, cam.Settings())

	bad := s
	bad.Flip = 2
	assert.Error(t, cam.Apply(bad))
	assert.Equal(t, s, cam.Settings())

	bad = s
	bad.Quality = 5
	assert.Error(t, cam.Apply(bad))
}

func TestDirSourceCycles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.jpg"), []byte("B"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "c.jpg"), 0o755))

	src := &DirSource{Dir: dir}
	var got []string
	for i := 0; i < 5; i++ {
		b, err := src.Capture(DefaultSettings.Quality)
		require.NoError(t, err)
		got = append(got, string(b))
	}
	assert.Equal(t, []string{"A", "B", "A", "B", "A"}, got)
}

func TestDirSourceEmpty(t *testing.T) {
	src := &DirSource{Dir: t.TempDir()}
	_, err := src.Capture(DefaultSettings.Quality)
	assert.True(t, errors.Is(err, ErrNoFrame))

	src = &DirSource{Dir: filepath.Join(t.TempDir(), "missing")}
	_, err = src.Capture(DefaultSettings.Quality)
	assert.Error(t, err)
}
