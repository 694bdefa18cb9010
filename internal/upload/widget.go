package upload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dpsmushkipur/bine/internal/filex"
	"github.com/dpsmushkipur/bine/internal/logging"
	"github.com/dpsmushkipur/bine/internal/netx"
)

// DocumentMimeTypes scopes the document picker to images and PDF.
var DocumentMimeTypes = []string{"image/*", "application/pdf"}

// DefaultImageOptions is used for the gallery picker and the camera.
var DefaultImageOptions = ImageOptions{Aspect: [2]int{4, 3}, Quality: 0.8}

// Level is the tone of a transient notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// Notice is a transient message shown next to the widget.
type Notice struct {
	Level Level
	Text  string
}

// Notifier shows transient notices. Implementations must not block.
type Notifier interface {
	Notify(n Notice)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}

// Theme holds the widget colours as hex strings.
type Theme struct {
	Primary string
	Success string
	Error   string
	Info    string
}

// DefaultTheme is applied to every empty Theme field.
func DefaultTheme() Theme {
	return Theme{Primary: "#4A90E2", Success: "#2E7D32", Error: "#C62828", Info: "#1565C0"}
}

func (t Theme) withDefaults() Theme {
	d := DefaultTheme()
	if t.Primary == "" {
		t.Primary = d.Primary
	}
	if t.Success == "" {
		t.Success = d.Success
	}
	if t.Error == "" {
		t.Error = d.Error
	}
	if t.Info == "" {
		t.Info = d.Info
	}
	return t
}

// Config is supplied by the embedding screen. Theme and the optional
// callbacks may be left zero.
type Config struct {
	EndpointURL       string       `validate:"required,url"`
	MaxSizeBytes      int64        `validate:"gt=0"`
	AllowedExtensions []string     `validate:"min=1,dive,required"`
	OnSuccess         func(Result) `validate:"required"`
	OnError           func(string) `validate:"required"`

	// OnCancel, when set, receives user cancellations instead of OnError.
	OnCancel func()
	// OnProgress receives the upload fraction in [0,1].
	OnProgress func(float64)

	Theme Theme
}

// Deps are the collaborators a Widget talks to. Nil Transport, Normalizer,
// Prober, Permissions, Notifier and Logger fall back to defaults; nil pickers
// make the matching selection fail.
type Deps struct {
	Documents   DocumentPicker
	Gallery     ImagePicker
	Camera      Camera
	Permissions Permissions
	Prober      FileProber
	Normalizer  Normalizer
	Transport   Transport
	Notifier    Notifier
	Logger      logging.Logger
	Now         func() time.Time
}

var validate = validator.New()

// Widget is one upload widget instance.
type Widget struct {
	cfg    Config
	deps   Deps
	policy Policy

	mu        sync.Mutex
	state     State
	file      *SelectedFile
	busy      bool
	progress  float64
	attempt   uint64
	cancel    context.CancelFunc
	cancelled bool
}

// NewWidget validates cfg and returns an idle Widget.
func NewWidget(cfg Config, deps Deps) (*Widget, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid upload config: %w", err)
	}
	cfg.Theme = cfg.Theme.withDefaults()

	if deps.Transport == nil {
		deps.Transport = &HTTPTransport{URL: cfg.EndpointURL}
	}
	if deps.Normalizer == nil {
		deps.Normalizer = NewImageNormalizer(DefaultStagingDir)
	}
	if deps.Prober == nil {
		deps.Prober = LocalProber{}
	}
	if deps.Permissions == nil {
		deps.Permissions = StaticPermissions{MediaLibrary: true, Camera: true}
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Widget{
		cfg:    cfg,
		deps:   deps,
		policy: Policy{MaxSizeBytes: cfg.MaxSizeBytes, AllowedExtensions: cfg.AllowedExtensions},
	}, nil
}

// Theme returns the effective theme.
func (w *Widget) Theme() Theme { return w.cfg.Theme }

// Policy returns the size/type policy the widget enforces.
func (w *Widget) Policy() Policy { return w.policy }

// State returns the current lifecycle state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Progress returns the upload fraction in [0,1].
func (w *Widget) Progress() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.progress
}

// Selected returns the file being previewed or uploaded.
func (w *Widget) Selected() (SelectedFile, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return SelectedFile{}, false
	}
	return *w.file, true
}

// SelectDocument opens the document picker. A dismissed picker leaves the
// widget as it was and returns nil.
func (w *Widget) SelectDocument(ctx context.Context) error {
	return w.selectWith(ctx, selection{
		source: "document",
		pick: func(ctx context.Context) (Asset, error) {
			if w.deps.Documents == nil {
				return Asset{}, errors.New("no document picker available")
			}
			return w.deps.Documents.PickDocument(ctx, DocumentMimeTypes)
		},
	})
}

// SelectFromGallery asks for media library access, then opens the image picker.
func (w *Widget) SelectFromGallery(ctx context.Context) error {
	return w.selectWith(ctx, selection{
		source:     "gallery",
		permission: w.deps.Permissions.RequestMediaLibrary,
		deniedMsg:  "Permission to access the media library is required",
		pick: func(ctx context.Context) (Asset, error) {
			if w.deps.Gallery == nil {
				return Asset{}, errors.New("no image picker available")
			}
			return w.deps.Gallery.PickImage(ctx, DefaultImageOptions)
		},
	})
}

// CaptureFromCamera asks for camera access and takes a photo named after the
// capture time.
func (w *Widget) CaptureFromCamera(ctx context.Context) error {
	return w.selectWith(ctx, selection{
		source:     "camera",
		permission: w.deps.Permissions.RequestCamera,
		deniedMsg:  "Camera permission is required",
		pick: func(ctx context.Context) (Asset, error) {
			if w.deps.Camera == nil {
				return Asset{}, errors.New("no camera available")
			}
			a, err := w.deps.Camera.Capture(ctx, DefaultImageOptions)
			if err != nil {
				return Asset{}, err
			}
			a.Name = CameraFileName(w.deps.Now())
			return a, nil
		},
	})
}

// CameraFileName names a photo taken at t.
func CameraFileName(t time.Time) string {
	return fmt.Sprintf("photo_%d.jpg", t.UnixMilli())
}

type selection struct {
	source     string
	permission func(context.Context) (bool, error)
	deniedMsg  string
	pick       func(context.Context) (Asset, error)
}

func (w *Widget) selectWith(ctx context.Context, s selection) error {
	w.mu.Lock()
	if w.busy || w.state == StateSelecting || w.state == StateUploading {
		w.mu.Unlock()
		return ErrBusy
	}
	prevState, prevFile := w.state, w.file
	w.state = StateSelecting
	w.mu.Unlock()

	log := w.deps.Logger.With("source", s.source)

	if s.permission != nil {
		granted, err := s.permission(ctx)
		if err != nil {
			return w.failSelection(ctx, newError(KindPermissionDenied, s.deniedMsg, err))
		}
		if !granted {
			return w.failSelection(ctx, newError(KindPermissionDenied, s.deniedMsg, nil))
		}
	}

	asset, err := s.pick(ctx)
	if errors.Is(err, ErrPickerCancelled) {
		w.mu.Lock()
		w.state, w.file = prevState, prevFile
		w.mu.Unlock()
		log.Debug(ctx, "picker dismissed")
		return nil
	}
	if err != nil {
		return w.failSelection(ctx, newError(KindPickerFailed, "Failed to pick file", err))
	}

	f, err := w.complete(ctx, asset)
	if err != nil {
		return w.failSelection(ctx, newError(KindPickerFailed, "Could not read the selected file", err))
	}

	w.mu.Lock()
	w.state = StatePreviewing
	w.file = &f
	w.mu.Unlock()

	log.Info(ctx, "file selected", "name", f.Name, "type", f.MimeType, "bytes", f.SizeBytes)
	return nil
}

// complete turns an Asset into a SelectedFile, probing whatever the
// platform left out.
func (w *Widget) complete(ctx context.Context, a Asset) (SelectedFile, error) {
	f := SelectedFile{
		URI:       a.URI,
		Name:      a.Name,
		MimeType:  baseMIME(a.MimeType),
		SizeBytes: a.SizeBytes,
		Width:     a.Width,
		Height:    a.Height,
	}
	if f.Name == "" {
		f.Name = filepath.Base(LocalPath(a.URI))
	}

	needsProbe := f.SizeBytes <= 0 || f.MimeType == "" ||
		(strings.HasPrefix(f.MimeType, "image/") && (f.Width == 0 || f.Height == 0))
	if needsProbe {
		info, err := w.deps.Prober.Probe(ctx, a.URI)
		if err != nil {
			return SelectedFile{}, err
		}
		if f.SizeBytes <= 0 {
			f.SizeBytes = info.SizeBytes
		}
		if f.MimeType == "" {
			f.MimeType = info.MimeType
		}
		if f.Width == 0 || f.Height == 0 {
			f.Width, f.Height = info.Width, info.Height
		}
	}

	f.IsImage = strings.HasPrefix(f.MimeType, "image/")
	return f, nil
}

func (w *Widget) failSelection(ctx context.Context, e *Error) error {
	w.mu.Lock()
	w.state = StateIdle
	w.file = nil
	w.mu.Unlock()

	w.deps.Logger.Warn(ctx, "selection failed", "kind", e.Kind.String(), "error", e.Error())
	w.deps.Notifier.Notify(Notice{Level: LevelError, Text: e.Message})
	return e
}

// Discard drops the previewed file and returns to Idle.
func (w *Widget) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StatePreviewing || w.busy {
		return
	}
	w.state = StateIdle
	w.file = nil
}

// ConfirmUpload normalizes the previewed file if it is an image, checks it
// against the policy and uploads it. Failures are reported through the
// notifier and Config.OnError and returned as *Error.
func (w *Widget) ConfirmUpload(ctx context.Context) (Result, error) {
	w.mu.Lock()
	if w.busy || w.state == StateSelecting || w.state == StateUploading {
		w.mu.Unlock()
		return Result{}, ErrBusy
	}
	if w.state != StatePreviewing || w.file == nil {
		w.mu.Unlock()
		return Result{}, ErrNoFile
	}
	f := *w.file
	w.busy = true
	w.mu.Unlock()

	prepared, err := w.prepare(ctx, f)
	if prepared.URI != f.URI {
		defer w.dropStaged(ctx, prepared.URI)
	}
	if err != nil {
		return Result{}, w.fail(ctx, err)
	}
	return w.send(ctx, prepared)
}

// dropStaged removes a normalized copy once it has been sent or rejected.
func (w *Widget) dropStaged(ctx context.Context, uri string) {
	if err := filex.RemoveStaged(LocalPath(uri)); err != nil {
		w.deps.Logger.Warn(ctx, "removing staged file", "path", uri, "error", err)
	}
}

// UploadFile checks f against the policy and uploads it as is.
func (w *Widget) UploadFile(ctx context.Context, f SelectedFile) (Result, error) {
	w.mu.Lock()
	if w.busy || w.state == StateSelecting || w.state == StateUploading {
		w.mu.Unlock()
		return Result{}, ErrBusy
	}
	w.busy = true
	w.file = &f
	w.mu.Unlock()

	if err := w.policy.Check(f); err != nil {
		return Result{}, w.fail(ctx, err)
	}
	return w.send(ctx, f)
}

// prepare runs the policy on the picked file, normalizes images and runs the
// policy again on what will actually be sent. Normalizing renames images to
// .jpg, so the type of the original is checked first; an oversized original
// is never decoded.
func (w *Widget) prepare(ctx context.Context, f SelectedFile) (SelectedFile, error) {
	if err := w.policy.Check(f); err != nil || !f.IsImage {
		return f, err
	}

	n, err := w.deps.Normalizer.Normalize(ctx, f)
	if err != nil {
		return f, newError(KindProcessingFailed, "Failed to process image", err)
	}
	w.deps.Logger.Debug(ctx, "image normalized",
		"from", f.Name, "to", n.Name, "bytes", n.SizeBytes, "width", n.Width, "height", n.Height)

	w.mu.Lock()
	w.file = &n
	w.mu.Unlock()

	return n, w.policy.Check(n)
}

func (w *Widget) send(ctx context.Context, f SelectedFile) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w.mu.Lock()
	w.state = StateUploading
	w.cancel = cancel
	w.cancelled = false
	w.attempt++
	attempt := w.attempt
	w.progress = 0
	w.mu.Unlock()
	w.emitProgress(0)

	w.deps.Logger.Info(ctx, "upload started", "name", f.Name, "bytes", f.SizeBytes)

	res, err := w.deps.Transport.Upload(ctx, f, func(done, total int64) {
		w.setProgress(attempt, netx.Fraction(done, total))
	})

	w.mu.Lock()
	cancelled := w.cancelled
	w.mu.Unlock()

	if cancelled {
		err = cancelledError(context.Canceled)
	}
	if err != nil {
		return Result{}, w.fail(ctx, err)
	}

	w.mu.Lock()
	w.reset()
	w.progress = 1
	w.mu.Unlock()
	w.emitProgress(1)

	w.deps.Logger.Info(ctx, "upload finished", "name", res.FileName, "path", res.FilePath)
	w.deps.Notifier.Notify(Notice{Level: LevelSuccess, Text: "File uploaded successfully"})
	w.cfg.OnSuccess(res)
	return res, nil
}

func (w *Widget) setProgress(attempt uint64, p float64) {
	w.mu.Lock()
	if w.attempt != attempt || w.cancelled || w.state != StateUploading {
		w.mu.Unlock()
		return
	}
	w.progress = p
	w.mu.Unlock()
	w.emitProgress(p)
}

func (w *Widget) emitProgress(p float64) {
	if w.cfg.OnProgress != nil {
		w.cfg.OnProgress(p)
	}
}

// CancelUpload aborts the upload in flight. It reports whether there was one;
// with nothing uploading it does nothing.
func (w *Widget) CancelUpload() bool {
	w.mu.Lock()
	if w.state != StateUploading || w.cancel == nil || w.cancelled {
		w.mu.Unlock()
		return false
	}
	w.cancelled = true
	w.progress = 0
	cancel := w.cancel
	w.mu.Unlock()

	cancel()
	w.emitProgress(0)
	return true
}

// fail ends the attempt: back to Idle, notice, then the host callback.
func (w *Widget) fail(ctx context.Context, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		e = newError(KindUnknown, "Upload failed", err)
	}

	w.mu.Lock()
	w.reset()
	w.mu.Unlock()
	w.emitProgress(0)

	w.deps.Logger.Warn(ctx, "upload failed", "kind", e.Kind.String(), "error", e.Error())
	w.deps.Notifier.Notify(Notice{Level: LevelError, Text: e.Message})

	if e.Kind == KindCancelled && w.cfg.OnCancel != nil {
		w.cfg.OnCancel()
	} else {
		w.cfg.OnError(e.Message)
	}
	return e
}

// reset must be called with mu held.
func (w *Widget) reset() {
	w.state = StateIdle
	w.file = nil
	w.busy = false
	w.progress = 0
	w.cancel = nil
	w.cancelled = false
}
