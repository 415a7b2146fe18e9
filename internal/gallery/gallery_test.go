package gallery

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writePNG writes a w x h solid image and returns its path.
func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUpload(t *testing.T) {
	dataDir := t.TempDir()
	src := writePNG(t, t.TempDir(), 640, 320)
	u := NewUploader(dataDir, 4, 64)
	state := &State{}

	img, err := u.Upload(state, src)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if !strings.HasPrefix(img.RemotePath, "images/") || !strings.HasSuffix(img.RemotePath, ".png") {
		t.Errorf("RemotePath = %q", img.RemotePath)
	}
	if img.Width != 640 || img.Height != 320 {
		t.Errorf("size = %dx%d, want 640x320", img.Width, img.Height)
	}
	if state.Len() != 1 || state.RemotePaths()[0] != img.RemotePath {
		t.Errorf("state = %+v", state)
	}
	if _, err := os.Stat(img.LocalPath); err != nil {
		t.Errorf("copied image missing: %v", err)
	}

	thumb, err := os.Open(filepath.Join(dataDir, filepath.FromSlash(img.ThumbnailPath)))
	if err != nil {
		t.Fatalf("thumbnail missing: %v", err)
	}
	defer thumb.Close()
	cfg, _, err := image.DecodeConfig(thumb)
	if err != nil {
		t.Fatalf("thumbnail decode: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 32 {
		t.Errorf("thumbnail = %dx%d, want 64x32", cfg.Width, cfg.Height)
	}

	if d := img.Describe(); !strings.Contains(d, "640x320") {
		t.Errorf("Describe() = %q", d)
	}
}

func TestUpload_Rejects(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("just words"), 0600); err != nil {
		t.Fatal(err)
	}
	fakePNG := filepath.Join(dir, "fake.png")
	if err := os.WriteFile(fakePNG, []byte("\x89PNG\r\n\x1a\ngarbage"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"text file", text, ErrNotAnImage},
		{"truncated png", fakePNG, ErrNotAnImage},
		{"directory", dir, ErrNotAnImage},
		{"missing", filepath.Join(dir, "nope.png"), nil},
		{"empty path", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataDir := t.TempDir()
			state := &State{}
			_, err := NewUploader(dataDir, 4, 64).Upload(state, tt.src)
			if err == nil {
				t.Fatal("Upload() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}
			if state.Len() != 0 {
				t.Error("rejected image was added to state")
			}
			entries, _ := os.ReadDir(filepath.Join(dataDir, ImagesDir))
			for _, e := range entries {
				if !e.IsDir() {
					t.Errorf("leftover file %s", e.Name())
				}
			}
		})
	}
}

func TestUpload_Limit(t *testing.T) {
	src := writePNG(t, t.TempDir(), 8, 8)
	u := NewUploader(t.TempDir(), 2, 4)
	state := &State{}

	for i := 0; i < 2; i++ {
		if _, err := u.Upload(state, src); err != nil {
			t.Fatalf("Upload(%d) error = %v", i, err)
		}
	}
	if _, err := u.Upload(state, src); !errors.Is(err, ErrTooManyImages) {
		t.Errorf("Upload() over limit error = %v, want ErrTooManyImages", err)
	}
}

func TestLoadAndDelete(t *testing.T) {
	dataDir := t.TempDir()
	src := writePNG(t, t.TempDir(), 10, 20)
	u := NewUploader(dataDir, 0, 0)

	img, err := u.Upload(&State{}, src)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	loaded := u.Load([]string{img.RemotePath, "images/missing.png"})
	if loaded.Len() != 2 {
		t.Fatalf("Load() len = %d, want 2", loaded.Len())
	}
	if loaded.Images[0].Width != 10 || loaded.Images[0].Height != 20 {
		t.Errorf("loaded size = %dx%d", loaded.Images[0].Width, loaded.Images[0].Height)
	}
	if loaded.Images[1].Width != 0 {
		t.Error("missing image should have no dimensions")
	}

	if err := u.Delete(img.RemotePath); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(img.LocalPath); !os.IsNotExist(err) {
		t.Errorf("image still exists after Delete: %v", err)
	}
	if err := u.Delete(img.RemotePath); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}

	for _, bad := range []string{"diaries.json", "images/../diaries.json", "/etc/passwd"} {
		if err := u.Delete(bad); err == nil {
			t.Errorf("Delete(%q) error = nil, want refusal", bad)
		}
	}
}

func TestStateRemove(t *testing.T) {
	s := &State{}
	s.Add(Image{RemotePath: "images/a.png"})
	s.Add(Image{RemotePath: "images/b.png"})

	if !s.Remove("images/a.png") {
		t.Error("Remove(a) = false")
	}
	if s.Remove("images/a.png") {
		t.Error("Remove(a) twice = true")
	}
	if got := s.RemotePaths(); len(got) != 1 || got[0] != "images/b.png" {
		t.Errorf("RemotePaths() = %v", got)
	}
}
