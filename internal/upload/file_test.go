package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{2 * 1024 * 1024, "2.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanSize(tt.in))
	}
}

func TestSelectedFile_Extension(t *testing.T) {
	assert.Equal(t, "pdf", SelectedFile{Name: "Fee Receipt.PDF"}.Extension())
	assert.Equal(t, "jpg", SelectedFile{Name: "photo_1.jpg"}.Extension())
	assert.Equal(t, "", SelectedFile{Name: "noext"}.Extension())
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/tmp/a.pdf", LocalPath("file:///tmp/a.pdf"))
	assert.Equal(t, "rel/a.pdf", LocalPath("rel/a.pdf"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "uploading", StateUploading.String())
	assert.Equal(t, "state(9)", State(9).String())
}
