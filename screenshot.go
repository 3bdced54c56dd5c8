package posepaint

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// ScreenshotQueue collects labeled screenshot requests and writes them as
// PNG files when flushed with the rendered frame.
type ScreenshotQueue struct {
	// Dir is the output directory. Defaults to "screenshots".
	Dir    string
	labels []string
}

// NewScreenshotQueue creates a queue writing into dir.
func NewScreenshotQueue(dir string) *ScreenshotQueue {
	if dir == "" {
		dir = "screenshots"
	}
	return &ScreenshotQueue{Dir: dir}
}

// Screenshot queues a labeled screenshot to be captured at the next Flush.
func (q *ScreenshotQueue) Screenshot(label string) {
	q.labels = append(q.labels, label)
}

// Pending returns the number of queued screenshots.
func (q *ScreenshotQueue) Pending() int {
	return len(q.labels)
}

// Flush captures img for every queued label and writes each as a
// timestamped PNG file. It returns the paths written.
func (q *ScreenshotQueue) Flush(img *ebiten.Image) []string {
	if len(q.labels) == 0 {
		return nil
	}
	defer func() { q.labels = q.labels[:0] }()

	if err := os.MkdirAll(q.Dir, 0o755); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[posepaint] screenshot: mkdir %s: %v\n", q.Dir, err)
		return nil
	}

	snap := readNRGBA(img)
	stamp := time.Now().Format("20060102_150405")
	var paths []string
	for _, label := range q.labels {
		path := filepath.Join(q.Dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, snap); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[posepaint] screenshot: %v\n", err)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

// ExportPNG writes the current contents of img to path.
func ExportPNG(img *ebiten.Image, path string) error {
	return writePNG(path, readNRGBA(img))
}

// ExportCanvas writes an ImageCanvas to path.
func ExportCanvas(c *ImageCanvas, path string) error {
	return ExportPNG(c.Image(), path)
}

func readNRGBA(img *ebiten.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 4*w*h)
	img.ReadPixels(pixels)
	return unpremultiply(pixels, w, h)
}

// unpremultiply converts premultiplied RGBA bytes to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(out.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		out.Pix[i] = r
		out.Pix[i+1] = g
		out.Pix[i+2] = b
		out.Pix[i+3] = a
	}
	return out
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
