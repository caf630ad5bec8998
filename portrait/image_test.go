package portrait

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
	"golang.org/x/image/tiff"
)

func writeImage(t *testing.T, dir, name string, encode func(*bytes.Buffer, image.Image) error, img image.Image) {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := encode(buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func colorful(w, h int, alpha uint8) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 10, A: alpha})
		}
	}
	return img
}

func TestPrepare(t *testing.T) {
	dir := t.TempDir()
	encPNG := func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) }
	encTIFF := func(b *bytes.Buffer, img image.Image) error { return tiff.Encode(b, img, nil) }
	encJPEG := func(b *bytes.Buffer, img image.Image) error { return jpeg.Encode(b, img, nil) }

	writeImage(t, dir, "opaque.png", encPNG, colorful(40, 80, 255))
	writeImage(t, dir, "transparent.png", encPNG, colorful(40, 80, 100))
	writeImage(t, dir, "scan.tif", encTIFF, colorful(20, 20, 255))
	writeImage(t, dir, "wrong_ext.png", encJPEG, colorful(10, 10, 255))
	writeImage(t, dir, "gray.png", encPNG, image.NewGray(image.Rect(0, 0, 10, 10)))
	if err := os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not an image at all"), 0644); err != nil {
		t.Fatal(err)
	}

	src := DirSource{Dir: dir}
	log := zaptest.NewLogger(t)

	tests := []struct {
		name       string
		opts       PrepareOptions
		wantName   string
		wantMime   string
		wantHeight int
		intact     bool
	}{
		{name: "opaque.png", wantName: "opaque.png", wantMime: "image/png", wantHeight: 80, intact: true},
		{name: "opaque.png", opts: PrepareOptions{Optimize: true, MaxHeight: 40, JPEGQuality: 80}, wantName: "opaque.jpg", wantMime: "image/jpeg", wantHeight: 40},
		{name: "opaque.png", opts: PrepareOptions{Optimize: true, MaxHeight: 200}, wantName: "opaque.jpg", wantMime: "image/jpeg", wantHeight: 80},
		{name: "transparent.png", opts: PrepareOptions{Optimize: true}, wantName: "transparent.png", wantMime: "image/png", wantHeight: 80},
		{name: "scan.tif", wantName: "scan.jpg", wantMime: "image/jpeg", wantHeight: 20},
		{name: "wrong_ext.png", wantName: "wrong_ext.jpg", wantMime: "image/jpeg", wantHeight: 10, intact: true},
		{name: "gray.png", opts: PrepareOptions{Optimize: true}, wantName: "gray.jpg", wantMime: "image/jpeg", wantHeight: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.wantName, func(t *testing.T) {
			img, err := Prepare(src, tt.name, tt.opts, log)
			if err != nil {
				t.Fatalf("Prepare() error = %v", err)
			}
			if img.Name != tt.wantName || img.MimeType != tt.wantMime || img.Height != tt.wantHeight {
				t.Errorf("Prepare() = %s %s %dx%d, want %s %s height %d", img.Name, img.MimeType, img.Width, img.Height, tt.wantName, tt.wantMime, tt.wantHeight)
			}
			orig, _ := os.ReadFile(filepath.Join(dir, tt.name))
			if intact := bytes.Equal(orig, img.Data); intact != tt.intact {
				t.Errorf("data intact = %v, want %v", intact, tt.intact)
			}
			if _, _, err := image.Decode(bytes.NewReader(img.Data)); err != nil {
				t.Errorf("prepared image is not decodable: %v", err)
			}
		})
	}

	if _, err := Prepare(src, "broken.jpg", PrepareOptions{}, log); err == nil {
		t.Error("expected error for broken image")
	}
	if _, err := Prepare(src, "missing.jpg", PrepareOptions{}, log); err == nil {
		t.Error("expected error for missing image")
	}
}
