package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dpsmushkipur/bine/internal/client/repositories/uploads"
	"github.com/dpsmushkipur/bine/internal/client/ui"
	"github.com/dpsmushkipur/bine/internal/upload"
)

// promptPicker stands in for the platform pickers: it asks for the path of
// a local file. An empty answer dismisses the picker.
type promptPicker struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p promptPicker) pick(prompt string) (upload.Asset, error) {
	path, err := getSimpleText(p.reader, prompt, p.out)
	if err != nil {
		return upload.Asset{}, err
	}
	path = strings.Trim(path, `"'`)
	if path == "" {
		return upload.Asset{}, upload.ErrPickerCancelled
	}
	return upload.Asset{URI: path, Name: filepath.Base(path)}, nil
}

func (p promptPicker) PickDocument(_ context.Context, mimeTypes []string) (upload.Asset, error) {
	return p.pick(fmt.Sprintf("Path to document (%s), empty to cancel", strings.Join(mimeTypes, ", ")))
}

func (p promptPicker) PickImage(_ context.Context, opts upload.ImageOptions) (upload.Asset, error) {
	return p.pick(fmt.Sprintf("Path to image (cropped %d:%d), empty to cancel", opts.Aspect[0], opts.Aspect[1]))
}

func (p promptPicker) Capture(_ context.Context, _ upload.ImageOptions) (upload.Asset, error) {
	return p.pick("Path to the captured photo, empty to cancel")
}

// newS3Transport is a test seam.
var newS3Transport = func(ctx context.Context, opts upload.S3Options) (upload.Transport, error) {
	t, err := upload.NewS3Transport(ctx, opts)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// uploadTransport returns the S3 transport when a bucket is configured and
// the upload.php transport otherwise. It is rebuilt after each login.
func (a *App) uploadTransport(ctx context.Context) (upload.Transport, error) {
	a.mu.Lock()
	t := a.transport
	s := a.session
	a.mu.Unlock()
	if t != nil {
		return t, nil
	}

	if a.config.UsesS3() {
		st, err := newS3Transport(ctx, upload.S3Options{
			Bucket:    a.config.S3.Bucket,
			Region:    a.config.S3.Region,
			Endpoint:  a.config.S3.Endpoint,
			Prefix:    a.config.S3.Prefix,
			AccessKey: a.config.S3.AccessKey,
			SecretKey: a.config.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		t = st
	} else {
		h := http.Header{}
		h.Set("X-User-ID", s.UserID)
		if s.Token != "" {
			h.Set("Authorization", "Bearer "+s.Token)
		}
		t = &upload.HTTPTransport{URL: a.config.UploadURL, Client: &http.Client{}, Header: h}
	}

	a.mu.Lock()
	a.transport = t
	a.mu.Unlock()
	return t, nil
}

// pickAndUpload runs one widget session for source (doc, gallery or
// camera). ok is false when nothing was uploaded; the reason has already
// been shown in the banner.
func (a *App) pickAndUpload(ctx context.Context, source string) (res upload.Result, ok bool, err error) {
	transport, err := a.uploadTransport(ctx)
	if err != nil {
		return upload.Result{}, false, err
	}

	var bar *ui.ProgressBar
	picker := promptPicker{reader: a.reader, out: a.out}

	var uploaded *upload.Result
	w, err := upload.NewWidget(upload.Config{
		EndpointURL:       a.endpointURL(),
		MaxSizeBytes:      a.config.MaxUploadBytes,
		AllowedExtensions: a.config.AllowedExtensions,
		OnSuccess:         func(r upload.Result) { uploaded = &r },
		OnError:           func(msg string) { a.log.Warn(ctx, "upload failed", "message", msg) },
		OnProgress:        func(f float64) { bar.Set(f) },
	}, upload.Deps{
		Documents:   picker,
		Gallery:     picker,
		Camera:      picker,
		Permissions: upload.StaticPermissions{MediaLibrary: true, Camera: true},
		Normalizer:  upload.NewImageNormalizer(a.config.StagingDir),
		Transport:   transport,
		Notifier:    a.banner,
		Logger:      a.log,
	})
	if err != nil {
		return upload.Result{}, false, err
	}
	bar = ui.NewProgressBar(a.out, "Uploading", w.Theme().Primary, 40)

	p := w.Policy()
	fmt.Fprintf(a.out, "Allowed: %s, up to %s\n", strings.Join(p.AllowedExtensions, ", "), upload.FormatLimit(p.MaxSizeBytes))

	switch source {
	case "doc", "document":
		err = w.SelectDocument(ctx)
	case "gallery", "image":
		err = w.SelectFromGallery(ctx)
	case "camera", "photo":
		err = w.CaptureFromCamera(ctx)
	default:
		return upload.Result{}, false, usage("upload doc|gallery|camera")
	}
	if err != nil {
		a.log.Debug(ctx, "selection failed", "error", err)
		return upload.Result{}, false, nil
	}

	f, selected := w.Selected()
	if !selected {
		return upload.Result{}, false, nil
	}
	fmt.Fprintln(a.out, preview(f))

	yes, err := a.confirm("Upload this file?")
	if err != nil {
		return upload.Result{}, false, err
	}
	if !yes {
		w.Discard()
		return upload.Result{}, false, nil
	}

	stop := cancelOnInterrupt(w)
	_, err = w.ConfirmUpload(ctx)
	stop()
	bar.Done()

	if err != nil || uploaded == nil {
		a.log.Debug(ctx, "upload not completed",
			"kind", upload.KindOf(err).String(), "state", w.State().String(), "progress", w.Progress(), "error", err)
		return upload.Result{}, false, nil
	}

	rec := &uploads.Record{
		UserID:    a.currentSession().UserID,
		Source:    source,
		FileName:  uploaded.FileName,
		FilePath:  uploaded.FilePath,
		FileType:  uploaded.FileType,
		SizeLabel: uploaded.FileSizeLabel,
	}
	if err := a.store.Uploads.Add(ctx, rec); err != nil {
		a.log.Warn(ctx, "recording upload", "error", err)
	}
	return *uploaded, true, nil
}

// Uploads lists the files this user uploaded from this device.
func (a *App) Uploads(ctx context.Context, _ []string) error {
	recs, err := a.store.Uploads.ListByUser(ctx, a.currentSession().UserID, 20)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No uploads")
		return nil
	}
	a.table("WHEN\tFILE\tSIZE\tSTORED AS", func(w io.Writer) {
		for _, r := range recs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.UploadedAt.Local().Format("02 Jan 15:04"), r.FileName, r.SizeLabel, r.FilePath)
		}
	})
	return nil
}

func (a *App) endpointURL() string {
	if a.config.UsesS3() {
		if a.config.S3.Endpoint != "" {
			return a.config.S3.Endpoint
		}
		return "https://" + a.config.S3.Bucket + ".s3." + a.config.S3.Region + ".amazonaws.com"
	}
	return a.config.UploadURL
}

func preview(f upload.SelectedFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s", f.Name, upload.HumanSize(f.SizeBytes), f.MimeType)
	if f.IsImage && f.Width > 0 {
		fmt.Fprintf(&b, "  %dx%d", f.Width, f.Height)
	}
	return b.String()
}

// cancelOnInterrupt makes Ctrl+C cancel the running upload instead of
// killing the program. The returned func restores default handling.
func cancelOnInterrupt(w *upload.Widget) func() {
	sig := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sig, os.Interrupt)

	go func() {
		select {
		case <-sig:
			w.CancelUpload()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sig)
		close(done)
	}
}

// Upload is the standalone upload command.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("upload doc|gallery|camera")
	}
	res, ok, err := a.pickAndUpload(ctx, strings.ToLower(args[0]))
	if err != nil || !ok {
		return err
	}
	fmt.Fprintf(a.out, "Stored as %s (%s, %s)\n", res.FilePath, res.FileType, res.FileSizeLabel)
	return nil
}

// attach offers to upload a file and returns its stored path, or "" when
// the user attaches nothing.
func (a *App) attach(ctx context.Context) (string, error) {
	src, err := getSimpleText(a.reader, "Attach a file? doc, gallery, camera or empty for none", a.out)
	if err != nil {
		return "", err
	}
	if src == "" {
		return "", nil
	}
	res, ok, err := a.pickAndUpload(ctx, strings.ToLower(src))
	if err != nil || !ok {
		return "", err
	}
	return res.FilePath, nil
}
