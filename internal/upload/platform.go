package upload

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Asset is what a platform picker or the camera hands back. Fields the
// platform could not fill are left zero and completed by a FileProber.
type Asset struct {
	URI       string
	Name      string
	MimeType  string
	SizeBytes int64
	Width     int
	Height    int
}

// ImageOptions configures the gallery picker and the camera.
type ImageOptions struct {
	// Aspect is the fixed crop ratio, width:height.
	Aspect [2]int
	// Quality is the compression quality in (0,1].
	Quality float64
}

// DocumentPicker opens the platform document picker restricted to mimeTypes.
// It returns ErrPickerCancelled when the user dismisses it.
type DocumentPicker interface {
	PickDocument(ctx context.Context, mimeTypes []string) (Asset, error)
}

// ImagePicker opens the media library.
type ImagePicker interface {
	PickImage(ctx context.Context, opts ImageOptions) (Asset, error)
}

// Camera takes a photo.
type Camera interface {
	Capture(ctx context.Context, opts ImageOptions) (Asset, error)
}

// Permissions gates the media library and the camera.
type Permissions interface {
	RequestMediaLibrary(ctx context.Context) (bool, error)
	RequestCamera(ctx context.Context) (bool, error)
}

// FileInfo is the metadata a FileProber can recover for a local file.
type FileInfo struct {
	SizeBytes int64
	MimeType  string
	Width     int
	Height    int
}

// FileProber reads size and type metadata for a picked file.
type FileProber interface {
	Probe(ctx context.Context, uri string) (FileInfo, error)
}

// StaticPermissions answers permission prompts with fixed grants.
type StaticPermissions struct {
	MediaLibrary bool
	Camera       bool
}

func (p StaticPermissions) RequestMediaLibrary(context.Context) (bool, error) {
	return p.MediaLibrary, nil
}

func (p StaticPermissions) RequestCamera(context.Context) (bool, error) {
	return p.Camera, nil
}

// LocalProber probes files on the local filesystem: size from stat, type by
// content sniffing, dimensions from the image header.
type LocalProber struct{}

func (LocalProber) Probe(ctx context.Context, uri string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}
	path := LocalPath(uri)

	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		return FileInfo{}, fmt.Errorf("%s is a directory", path)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("detect type of %s: %w", path, err)
	}

	info := FileInfo{SizeBytes: st.Size(), MimeType: baseMIME(mt.String())}
	if strings.HasPrefix(info.MimeType, "image/") {
		if w, h, ok := imageSize(path); ok {
			info.Width, info.Height = w, h
		}
	}
	return info, nil
}

func imageSize(path string) (int, int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func baseMIME(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.ToLower(strings.TrimSpace(m))
}
