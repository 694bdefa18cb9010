package netx

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReader_ReportsCumulativeBytes(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 10)
	var seen []int64

	r := NewProgressReader(bytes.NewReader(payload), int64(len(payload)), func(done, total int64) {
		assert.Equal(t, int64(10), total)
		seen = append(seen, done)
	})

	buf := make([]byte, 4)
	for {
		_, err := r.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	assert.Equal(t, []int64{4, 8, 10}, seen)
	assert.Equal(t, int64(10), r.Done())
}

func TestProgressReader_NilCallback(t *testing.T) {
	r := NewProgressReader(bytes.NewReader([]byte("abc")), -1, nil)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))
}

func TestFraction(t *testing.T) {
	tests := []struct {
		done, total int64
		want        float64
	}{
		{0, 100, 0},
		{50, 100, 0.5},
		{100, 100, 1},
		{150, 100, 1},
		{10, 0, 0},
		{10, -1, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Fraction(tt.done, tt.total), 1e-9)
	}
}

func TestProgressReadSeeker_SeekResetsCounter(t *testing.T) {
	var last int64
	r := NewProgressReadSeeker(bytes.NewReader([]byte("0123456789")), 10, func(done, _ int64) { last = done })

	_, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, int64(10), r.Done())

	pos, err := r.Seek(0, io.SeekStart)
	require.NoError(t, err)
	assert.Zero(t, pos)
	assert.Zero(t, r.Done())

	buf := make([]byte, 3)
	_, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(3), last)
}
