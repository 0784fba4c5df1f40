package display

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})
	return img
}

func TestEncodeRGB565(t *testing.T) {
	dst := make([]byte, 2*6) // stride 6 leaves 2 bytes of padding per row
	encodeRGB565(dst, testImage(), 6)

	assert.Equal(t, []byte{
		0x00, 0xf8, 0xe0, 0x07, 0, 0,
		0x1f, 0x00, 0xff, 0xff, 0, 0,
	}, dst)
}

func TestEncodeXRGB8888(t *testing.T) {
	dst := make([]byte, 2*8)
	encodeXRGB8888(dst, testImage(), 8)

	assert.Equal(t, []byte{
		0, 0, 255, 255, 0, 255, 0, 255,
		255, 0, 0, 255, 255, 255, 255, 255,
	}, dst)
}

func TestEncode_ShortBufferDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		encodeRGB565(make([]byte, 3), testImage(), 4)
		encodeXRGB8888(make([]byte, 5), testImage(), 8)
	})
}

func TestFramebuffer_WritesFrame(t *testing.T) {
	dir := t.TempDir()
	orig := sysfsRoot
	defer func() { sysfsRoot = orig }()
	sysfsRoot = filepath.Join(dir, "sys")

	require.NoError(t, os.MkdirAll(filepath.Join(sysfsRoot, "fb0"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sysfsRoot, "fb0", "bits_per_pixel"), []byte("16\n"), 0644))

	device := filepath.Join(dir, "fb0")
	require.NoError(t, os.WriteFile(device, nil, 0644))

	fb, err := OpenFramebuffer(device, 2, 2)
	require.NoError(t, err)
	require.NoError(t, fb.Show(testImage()))
	require.NoError(t, fb.Close())

	data, err := os.ReadFile(device)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xf8, 0xe0, 0x07, 0x1f, 0x00, 0xff, 0xff}, data)
}

func TestFramebuffer_UnsupportedDepth(t *testing.T) {
	dir := t.TempDir()
	orig := sysfsRoot
	defer func() { sysfsRoot = orig }()
	sysfsRoot = dir

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fb1"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fb1", "bits_per_pixel"), []byte("8"), 0644))

	_, err := OpenFramebuffer("/dev/fb1", 320, 240)
	assert.Error(t, err)
}

func TestFramebuffer_MissingDevice(t *testing.T) {
	orig := sysfsRoot
	defer func() { sysfsRoot = orig }()
	sysfsRoot = t.TempDir()

	_, err := OpenFramebuffer(filepath.Join(t.TempDir(), "fb9"), 320, 240)
	assert.Error(t, err)
}

func TestHeadless(t *testing.T) {
	var s Sink = Headless{}
	assert.NoError(t, s.Show(testImage()))
	assert.NoError(t, s.Close())
}
