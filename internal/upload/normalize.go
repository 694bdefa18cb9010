package upload

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/dpsmushkipur/bine/internal/filex"
)

const (
	DefaultMaxEdge     = 1200
	DefaultJPEGQuality = 70
	DefaultStagingDir  = "preupload"
)

// Normalizer prepares an image for upload.
type Normalizer interface {
	Normalize(ctx context.Context, f SelectedFile) (SelectedFile, error)
}

// ImageNormalizer downscales so the longer edge is at most MaxEdge pixels
// and re-encodes as JPEG into StagingDir. The original file is untouched.
type ImageNormalizer struct {
	MaxEdge    int
	Quality    int
	StagingDir string
}

// NewImageNormalizer returns an ImageNormalizer with the default edge and quality.
func NewImageNormalizer(stagingDir string) ImageNormalizer {
	if stagingDir == "" {
		stagingDir = DefaultStagingDir
	}
	return ImageNormalizer{MaxEdge: DefaultMaxEdge, Quality: DefaultJPEGQuality, StagingDir: stagingDir}
}

func (n ImageNormalizer) Normalize(ctx context.Context, f SelectedFile) (SelectedFile, error) {
	if err := ctx.Err(); err != nil {
		return SelectedFile{}, err
	}

	src, err := os.Open(LocalPath(f.URI))
	if err != nil {
		return SelectedFile{}, fmt.Errorf("open image: %w", err)
	}
	img, _, err := image.Decode(src)
	src.Close()
	if err != nil {
		return SelectedFile{}, fmt.Errorf("decode image: %w", err)
	}

	img = flatten(Fit(img, n.maxEdge()))

	name := strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) + ".jpg"
	dst, err := filex.CreateStaged(n.StagingDir, name)
	if err != nil {
		return SelectedFile{}, err
	}
	if err := jpeg.Encode(dst, img, &jpeg.Options{Quality: n.quality()}); err != nil {
		dst.Close()
		return SelectedFile{}, fmt.Errorf("encode jpeg: %w", err)
	}
	if err := dst.Close(); err != nil {
		return SelectedFile{}, fmt.Errorf("close staged image: %w", err)
	}

	st, err := os.Stat(dst.Name())
	if err != nil {
		return SelectedFile{}, fmt.Errorf("stat staged image: %w", err)
	}

	b := img.Bounds()
	return SelectedFile{
		URI:       dst.Name(),
		Name:      name,
		MimeType:  "image/jpeg",
		SizeBytes: st.Size(),
		IsImage:   true,
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}

func (n ImageNormalizer) maxEdge() int {
	if n.MaxEdge <= 0 {
		return DefaultMaxEdge
	}
	return n.MaxEdge
}

func (n ImageNormalizer) quality() int {
	if n.Quality <= 0 || n.Quality > 100 {
		return DefaultJPEGQuality
	}
	return n.Quality
}

// Fit scales img down, preserving aspect ratio, so that its longer edge is at
// most maxEdge. Smaller images are returned as is.
func Fit(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	long := max(w, h)
	if long <= maxEdge {
		return img
	}

	nw := max(1, w*maxEdge/long)
	nh := max(1, h*maxEdge/long)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// flatten composites img over white; JPEG has no alpha channel.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
