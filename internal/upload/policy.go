package upload

import (
	"fmt"
	"strings"
)

// Policy is the size/type gate a file must pass before it is sent.
type Policy struct {
	MaxSizeBytes      int64
	AllowedExtensions []string
}

// FormatLimit renders a byte limit in megabytes with two decimals.
func FormatLimit(n int64) string {
	return fmt.Sprintf("%.2f MB", float64(n)/(1<<20))
}

// Check returns a KindSizeExceeded or KindTypeNotAllowed error, or nil.
func (p Policy) Check(f SelectedFile) error {
	if f.SizeBytes > p.MaxSizeBytes {
		return newError(KindSizeExceeded,
			"File too large. Maximum size is "+FormatLimit(p.MaxSizeBytes), nil)
	}
	if !p.Allows(f.Extension()) {
		return newError(KindTypeNotAllowed,
			"Invalid file type. Allowed types: "+strings.Join(p.allowedList(), ", "), nil)
	}
	return nil
}

// Allows reports whether ext (with or without the dot) is permitted.
func (p Policy) Allows(ext string) bool {
	ext = normalizeExt(ext)
	if ext == "" {
		return false
	}
	for _, a := range p.AllowedExtensions {
		if normalizeExt(a) == ext {
			return true
		}
	}
	return false
}

func (p Policy) allowedList() []string {
	out := make([]string, 0, len(p.AllowedExtensions))
	for _, a := range p.AllowedExtensions {
		out = append(out, normalizeExt(a))
	}
	return out
}
