// Package gallery stores image attachments for diary entries.
//
// Picked files are copied into <data>/images under a random name and get a
// JPEG thumbnail in <data>/images/thumbs. Entries keep only the relative
// "remote" path, so the data directory can move or sync as a whole.
package gallery

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"moodlog/internal/fsutil"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	_ "golang.org/x/image/webp"
)

const (
	ImagesDir = "images"
	thumbsDir = "thumbs"

	defaultMaxImages = 8
	defaultThumbSize = 256

	// maxFileSize rejects files that would bloat a synced data dir.
	maxFileSize = 25 << 20
)

var (
	ErrTooManyImages = errors.New("image limit reached")
	ErrNotAnImage    = errors.New("not a supported image")
)

var allowedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// Image is one attachment. LocalPath is absolute; RemotePath and
// ThumbnailPath are relative to the data dir.
type Image struct {
	LocalPath     string
	RemotePath    string
	ThumbnailPath string
	Width, Height int
	Size          int64
}

// Name returns the file name shown in the gallery strip.
func (img Image) Name() string {
	return filepath.Base(img.RemotePath)
}

// Describe returns e.g. "a1b2.png 640x480, 1.2 MB".
func (img Image) Describe() string {
	if img.Width == 0 {
		return img.Name()
	}
	return fmt.Sprintf("%s %dx%d, %s", img.Name(), img.Width, img.Height, humanize.Bytes(uint64(img.Size)))
}

// State is the ordered set of images attached to the entry being edited.
type State struct {
	Images []Image
}

// Add appends img.
func (s *State) Add(img Image) {
	s.Images = append(s.Images, img)
}

// Remove drops the image with the given remote path and reports whether it
// was present.
func (s *State) Remove(remotePath string) bool {
	for i, img := range s.Images {
		if img.RemotePath == remotePath {
			s.Images = append(s.Images[:i], s.Images[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of attached images.
func (s *State) Len() int {
	return len(s.Images)
}

// RemotePaths returns the paths stored on the diary.
func (s *State) RemotePaths() []string {
	if len(s.Images) == 0 {
		return nil
	}
	out := make([]string, len(s.Images))
	for i, img := range s.Images {
		out[i] = img.RemotePath
	}
	return out
}

// Uploader copies picked images into the data directory.
type Uploader struct {
	dataDir   string
	maxImages int
	thumbSize int
}

// NewUploader returns an Uploader rooted at dataDir. Non-positive limits
// fall back to defaults.
func NewUploader(dataDir string, maxImages, thumbSize int) *Uploader {
	if maxImages <= 0 {
		maxImages = defaultMaxImages
	}
	if thumbSize <= 0 {
		thumbSize = defaultThumbSize
	}
	return &Uploader{dataDir: dataDir, maxImages: maxImages, thumbSize: thumbSize}
}

// MaxImages returns the per-entry limit.
func (u *Uploader) MaxImages() int {
	return u.maxImages
}

// Upload validates src, copies it into the images dir and writes a thumbnail.
// The returned Image is also appended to state.
func (u *Uploader) Upload(state *State, src string) (Image, error) {
	if state.Len() >= u.maxImages {
		return Image{}, fmt.Errorf("%w (max %d)", ErrTooManyImages, u.maxImages)
	}

	src, err := expandPath(src)
	if err != nil {
		return Image{}, err
	}
	info, err := os.Stat(src)
	if err != nil {
		return Image{}, fmt.Errorf("open image: %w", err)
	}
	if info.IsDir() {
		return Image{}, fmt.Errorf("%w: %s is a directory", ErrNotAnImage, src)
	}
	if info.Size() > maxFileSize {
		return Image{}, fmt.Errorf("image too large: %s (max %s)", humanize.Bytes(uint64(info.Size())), humanize.Bytes(maxFileSize))
	}

	mtype, err := mimetype.DetectFile(src)
	if err != nil {
		return Image{}, fmt.Errorf("detect type: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		return Image{}, fmt.Errorf("%w: %s", ErrNotAnImage, mtype.String())
	}

	decoded, err := imaging.Open(src)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	id := uuid.NewString()
	remote := filepath.ToSlash(filepath.Join(ImagesDir, id+mtype.Extension()))
	thumb := filepath.ToSlash(filepath.Join(ImagesDir, thumbsDir, id+".jpg"))

	if err := os.MkdirAll(filepath.Join(u.dataDir, ImagesDir, thumbsDir), 0700); err != nil {
		return Image{}, fmt.Errorf("create images dir: %w", err)
	}
	if err := fsutil.CopyFileAtomic(src, u.abs(remote), 0600); err != nil {
		return Image{}, fmt.Errorf("copy image: %w", err)
	}
	if err := u.writeThumbnail(decoded, thumb); err != nil {
		_ = os.Remove(u.abs(remote))
		return Image{}, err
	}

	b := decoded.Bounds()
	img := Image{
		LocalPath:     u.abs(remote),
		RemotePath:    remote,
		ThumbnailPath: thumb,
		Width:         b.Dx(),
		Height:        b.Dy(),
		Size:          info.Size(),
	}
	state.Add(img)
	return img, nil
}

func (u *Uploader) writeThumbnail(img image.Image, rel string) error {
	resized := imaging.Fit(img, u.thumbSize, u.thumbSize, imaging.Lanczos)
	if err := imaging.Save(resized, u.abs(rel), imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}
	return os.Chmod(u.abs(rel), 0600)
}

// Load rebuilds gallery state for a stored entry. Missing files are kept so
// the entry round-trips, but carry no dimensions.
func (u *Uploader) Load(remotePaths []string) *State {
	state := &State{}
	for _, remote := range remotePaths {
		img := Image{
			LocalPath:     u.abs(remote),
			RemotePath:    remote,
			ThumbnailPath: thumbnailFor(remote),
		}
		if info, err := os.Stat(img.LocalPath); err == nil {
			img.Size = info.Size()
			if cfg, err := decodeConfig(img.LocalPath); err == nil {
				img.Width, img.Height = cfg.Width, cfg.Height
			}
		}
		state.Add(img)
	}
	return state
}

// Delete removes the stored copy and thumbnail of an image.
func (u *Uploader) Delete(remotePath string) error {
	if !u.owns(remotePath) {
		return fmt.Errorf("refusing to delete %q outside %s/", remotePath, ImagesDir)
	}
	var errs []error
	for _, rel := range []string{remotePath, thumbnailFor(remotePath)} {
		if err := os.Remove(u.abs(rel)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (u *Uploader) abs(rel string) string {
	return filepath.Join(u.dataDir, filepath.FromSlash(rel))
}

func (u *Uploader) owns(remotePath string) bool {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(remotePath)))
	return strings.HasPrefix(clean, ImagesDir+"/") && !strings.Contains(clean, "..")
}

func thumbnailFor(remotePath string) string {
	base := filepath.Base(remotePath)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	return ImagesDir + "/" + thumbsDir + "/" + id + ".jpg"
}

func decodeConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	return cfg, err
}

func expandPath(p string) (string, error) {
	p = strings.Trim(strings.TrimSpace(p), `"'`)
	if p == "" {
		return "", fmt.Errorf("image path is empty")
	}
	p, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(p)
}
