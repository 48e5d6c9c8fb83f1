package inkpress

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return &buf
}

func TestNormalizeUploadDownscalesWideImages(t *testing.T) {
	img, data, err := normalizeUpload(encodeTestPNG(t, 1600, 1200), "Holiday Photo.png")
	if err != nil {
		t.Fatalf("normalizeUpload: %v", err)
	}
	if img.Width != 800 || img.Height != 600 {
		t.Fatalf("expected 800x600, got %dx%d", img.Width, img.Height)
	}
	if img.Filename != "holiday-photo.jpg" {
		t.Fatalf("unexpected filename %q", img.Filename)
	}
	if len(data) == 0 || img.Size != len(data) {
		t.Fatalf("size mismatch: %d recorded vs %d encoded bytes", img.Size, len(data))
	}
}

func TestNormalizeUploadKeepsSmallImages(t *testing.T) {
	img, _, err := normalizeUpload(encodeTestPNG(t, 400, 300), "icon.png")
	if err != nil {
		t.Fatalf("normalizeUpload: %v", err)
	}
	if img.Width != 400 || img.Height != 300 {
		t.Fatalf("expected original dimensions, got %dx%d", img.Width, img.Height)
	}
}

func TestImageMarkdownSnippet(t *testing.T) {
	img := Image{Filename: "holiday-photo.jpg", Width: 800, Height: 600}
	want := "![holiday-photo](/public/uploads/holiday-photo.jpg){800x600}"
	if got := img.Markdown(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
