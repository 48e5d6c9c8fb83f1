package inkpress

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// Markdown returns the post-syntax reference for an uploaded image, sized as
// stored, so editors can paste it straight into a post body.
func (img Image) Markdown() string {
	alt := strings.TrimSuffix(img.Filename, filepath.Ext(img.Filename))
	return fmt.Sprintf("![%s](/public/uploads/%s){%dx%d}", alt, img.Filename, img.Width, img.Height)
}

// normalizeUpload decodes an uploaded image, downscales anything wider than
// maxImageWidth with Catmull-Rom resampling, and re-encodes it as JPEG.
// Every upload ends up in one predictable format regardless of input.
func normalizeUpload(src io.Reader, originalName string) (Image, []byte, error) {
	decoded, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := decoded.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		scaledH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, scaledH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), decoded, bounds, draw.Over, nil)
		decoded = dst
		w, h = maxImageWidth, scaledH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, decoded, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return Image{
		Filename:     slugifyFilename(originalName) + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	return Slugify(strings.TrimSuffix(name, filepath.Ext(name)))
}

func (a *App) uploadsDir() string {
	return filepath.Join(a.staticDir, uploadsSubdir)
}

// uniqueFilename appends a counter until the name collides with neither the
// database nor a file already on disk.
func (a *App) uniqueFilename(img *Image) error {
	existing, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, ex := range existing {
		taken[ex.Filename] = struct{}{}
	}

	base := strings.TrimSuffix(img.Filename, ".jpg")
	candidate := img.Filename
	for n := 2; ; n++ {
		_, inDB := taken[candidate]
		_, statErr := os.Stat(filepath.Join(a.uploadsDir(), candidate))
		if !inDB && statErr != nil {
			break
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, n)
	}
	img.Filename = candidate
	return nil
}

func (a *App) handleImageUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := normalizeUpload(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	if err := a.uniqueFilename(&img); err != nil {
		return err
	}

	if err := os.MkdirAll(a.uploadsDir(), 0o755); err != nil {
		return fmt.Errorf("inkpress: create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(a.uploadsDir(), img.Filename), data, 0o644); err != nil {
		return fmt.Errorf("inkpress: write image: %w", err)
	}
	if err := a.Store.SaveImage(img); err != nil {
		return err
	}

	return a.renderImageList(c)
}

func (a *App) handleImageDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	filename := c.Param("filename")
	if filename == "" {
		return c.String(http.StatusBadRequest, "Filename required")
	}

	// The file may already be gone; the database row is what matters.
	_ = os.Remove(filepath.Join(a.uploadsDir(), filename))
	if err := a.Store.DeleteImage(filename); err != nil {
		return err
	}

	return a.renderImageList(c)
}

func (a *App) handleImageList(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderImageList(c)
}

func (a *App) renderImageList(c echo.Context) error {
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminImages(images, CsrfToken(c)))
}
