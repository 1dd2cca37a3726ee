package asset

import (
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func TestSaveOpenDelete(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	p, err := s.SavePNG(testImage())
	require.NoError(t, err)
	assert.Equal(t, 8, p.Width)
	assert.Equal(t, 4, p.Height)
	assert.Equal(t, "/photos/"+p.ID+".png", p.URL)

	f, err := s.Open(p.ID)
	require.NoError(t, err)
	img, err := png.Decode(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, color.RGBAModel.Convert(img.At(1, 1)))

	require.NoError(t, s.Delete(p.ID))
	assert.ErrorIs(t, s.Delete(p.ID), ErrNotFound)
	_, err = s.Open(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Open("../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServe(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	p, err := s.SavePNG(testImage())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Serve().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p.URL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
}
