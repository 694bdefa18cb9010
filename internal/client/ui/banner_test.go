package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpsmushkipur/bine/internal/upload"
)

func TestBanner_NotifyWritesAndExpires(t *testing.T) {
	var buf bytes.Buffer
	b := NewBanner(&buf, 20*time.Millisecond, upload.Theme{})

	b.Success("File uploaded successfully")
	assert.Contains(t, buf.String(), "File uploaded successfully")

	cur, ok := b.showing()
	require.True(t, ok)
	assert.Equal(t, upload.LevelSuccess, cur.Level)

	require.Eventually(t, func() bool {
		_, ok := b.showing()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestBanner_NewMessageReplacesOld(t *testing.T) {
	var buf bytes.Buffer
	b := NewBanner(&buf, time.Hour, upload.Theme{})

	b.Info("one")
	b.Error("two")

	cur, ok := b.showing()
	require.True(t, ok)
	assert.Equal(t, "two", cur.Text)

	b.Dismiss()
	_, ok = b.showing()
	assert.False(t, ok)
}

func TestBanner_StaleTimerDoesNotHideNewer(t *testing.T) {
	b := NewBanner(nil, time.Hour, upload.Theme{})
	b.Info("first")
	seq := b.seq
	b.Info("second")

	b.expire(seq)
	cur, ok := b.showing()
	require.True(t, ok)
	assert.Equal(t, "second", cur.Text)
}

func TestBanner_ImplementsNotifier(t *testing.T) {
	var n upload.Notifier = NewBanner(nil, 0, upload.Theme{Error: "#FF0000"})
	n.Notify(upload.Notice{Level: upload.LevelError, Text: "x"})
}

func TestBanner_Render(t *testing.T) {
	b := NewBanner(nil, 0, upload.Theme{})
	assert.Contains(t, b.Render(upload.Notice{Level: upload.LevelError, Text: "Upload cancelled"}), "✗ Upload cancelled")
}
