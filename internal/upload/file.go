package upload

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SelectedFile is the file the user picked. It is owned by the widget until
// the upload completes, fails or is discarded.
type SelectedFile struct {
	URI       string
	Name      string
	MimeType  string
	SizeBytes int64
	IsImage   bool
	Width     int
	Height    int
}

// Extension returns the lower-case extension of the file name without the dot.
func (f SelectedFile) Extension() string {
	return normalizeExt(filepath.Ext(f.Name))
}

// Result is handed by value to Config.OnSuccess once per successful upload.
type Result struct {
	Success       bool   `json:"success"`
	FileName      string `json:"file_name,omitempty"`
	FilePath      string `json:"file_path,omitempty"`
	FileType      string `json:"file_type,omitempty"`
	FileSizeLabel string `json:"file_size,omitempty"`
	Error         string `json:"error,omitempty"`
}

// State is the widget lifecycle state.
type State int

const (
	StateIdle State = iota
	StateSelecting
	StatePreviewing
	StateUploading
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelecting:
		return "selecting"
	case StatePreviewing:
		return "previewing"
	case StateUploading:
		return "uploading"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// LocalPath turns a file:// URI into a filesystem path; plain paths pass through.
func LocalPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// HumanSize renders a byte count the way the upload endpoint labels sizes.
func HumanSize(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case n < kb:
		return fmt.Sprintf("%d B", n)
	case n < mb:
		return fmt.Sprintf("%.2f KB", float64(n)/kb)
	case n < gb:
		return fmt.Sprintf("%.2f MB", float64(n)/mb)
	}
	return fmt.Sprintf("%.2f GB", float64(n)/gb)
}
