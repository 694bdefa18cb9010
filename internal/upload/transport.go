package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/dpsmushkipur/bine/internal/netx"
)

// FieldName is the multipart part that carries the file.
const FieldName = "file"

// Transport sends a file and turns the endpoint's answer into a Result.
// Failures are *Error values; a cancelled ctx yields KindCancelled.
type Transport interface {
	Upload(ctx context.Context, f SelectedFile, progress netx.ProgressFunc) (Result, error)
}

// serverResponse is the upload endpoint's JSON body. success must be present.
type serverResponse struct {
	Success  *bool  `json:"success"`
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
	FileSize string `json:"file_size"`
	Error    string `json:"error"`
	Message  string `json:"message"`
}

// HTTPTransport POSTs the file as multipart/form-data to URL.
type HTTPTransport struct {
	URL    string
	Client *http.Client
	// Header is added to every request (e.g. session identification).
	Header http.Header
}

func (t *HTTPTransport) client() *http.Client {
	if t.Client != nil {
		return t.Client
	}
	return http.DefaultClient
}

func (t *HTTPTransport) Upload(ctx context.Context, f SelectedFile, progress netx.ProgressFunc) (Result, error) {
	body, contentType, err := multipartBody(f)
	if err != nil {
		return Result{}, newError(KindPickerFailed, "Could not read the selected file", err)
	}

	pr := netx.NewProgressReader(bytes.NewReader(body), int64(len(body)), progress)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, pr)
	if err != nil {
		return Result{}, newError(KindNetwork, "Network error: invalid upload URL", err)
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	for k, vs := range t.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := t.client().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, cancelledError(ctx.Err())
		}
		return Result{}, newError(KindNetwork, "Network error: "+rootCause(err).Error(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, cancelledError(ctx.Err())
		}
		return Result{}, newError(KindNetwork, "Network error: "+err.Error(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, newError(KindBadStatus,
			fmt.Sprintf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			fmt.Errorf("status %s", resp.Status))
	}

	return parseServerResponse(raw, f)
}

func multipartBody(f SelectedFile) ([]byte, string, error) {
	src, err := os.Open(LocalPath(f.URI))
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldName, escapeQuotes(f.Name)))
	h.Set("Content-Type", mimeType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

func parseServerResponse(raw []byte, f SelectedFile) (Result, error) {
	var sr serverResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return Result{}, newError(KindBadJSON, "Invalid response from server", err)
	}
	if sr.Success == nil {
		return Result{}, newError(KindBadJSON, "Invalid response from server",
			errors.New("response has no success field"))
	}
	if !*sr.Success {
		msg := firstNonEmpty(sr.Error, sr.Message, "Upload failed")
		return Result{}, newError(KindRejected, msg, nil)
	}

	return Result{
		Success:       true,
		FileName:      firstNonEmpty(sr.FileName, f.Name),
		FilePath:      sr.FilePath,
		FileType:      firstNonEmpty(sr.FileType, f.MimeType),
		FileSizeLabel: firstNonEmpty(sr.FileSize, HumanSize(f.SizeBytes)),
	}, nil
}

func cancelledError(cause error) *Error {
	return newError(KindCancelled, "Upload cancelled", cause)
}

// rootCause strips *url.Error and friends down to the innermost error.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
