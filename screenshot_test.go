package posepaint

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"hands-up", "hands-up"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	q := NewScreenshotQueue("")
	q.Screenshot("a")
	q.Screenshot("b")
	q.Screenshot("c")
	if q.Pending() != 3 {
		t.Fatalf("queue len = %d, want 3", q.Pending())
	}
	if q.labels[0] != "a" || q.labels[1] != "b" || q.labels[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", q.labels)
	}
	if q.Dir != "screenshots" {
		t.Errorf("Dir = %q, want %q", q.Dir, "screenshots")
	}
}

func TestUnpremultiply(t *testing.T) {
	// One opaque red pixel, one half-transparent premultiplied white pixel.
	px := []byte{255, 0, 0, 255, 128, 128, 128, 128}
	img := unpremultiply(px, 2, 1)
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel 0 = %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{255, 255, 255, 128}) {
		t.Errorf("pixel 1 = %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if err := writePNG(path, img); err != nil {
		t.Fatalf("writePNG: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("expected non-empty file, err=%v", err)
	}
	if err := writePNG(filepath.Join(dir, "missing", "out.png"), img); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
