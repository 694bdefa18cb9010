// Package netx contains small transport helpers shared by upload targets.
package netx

import (
	"io"
	"sync/atomic"
)

// ProgressFunc receives the number of bytes consumed so far and the total
// expected size (-1 when unknown).
type ProgressFunc func(done, total int64)

// ProgressReader counts bytes as they are read from the wrapped reader and
// reports them through OnProgress. It is safe for the callback to read Done
// concurrently.
type ProgressReader struct {
	r          io.Reader
	total      int64
	done       atomic.Int64
	onProgress ProgressFunc
}

// NewProgressReader wraps r. total is the expected size or -1.
func NewProgressReader(r io.Reader, total int64, fn ProgressFunc) *ProgressReader {
	return &ProgressReader{r: r, total: total, onProgress: fn}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		done := p.done.Add(int64(n))
		if p.onProgress != nil {
			p.onProgress(done, p.total)
		}
	}
	return n, err
}

// Done returns the number of bytes read so far.
func (p *ProgressReader) Done() int64 { return p.done.Load() }

// ProgressReadSeeker is a ProgressReader over an io.ReadSeeker. Seeking
// moves the counter to the new offset, so a body that is rewound and re-sent
// (e.g. for request signing) never reports more than its size.
type ProgressReadSeeker struct {
	*ProgressReader
	rs io.ReadSeeker
}

// NewProgressReadSeeker wraps rs. total is the expected size or -1.
func NewProgressReadSeeker(rs io.ReadSeeker, total int64, fn ProgressFunc) *ProgressReadSeeker {
	return &ProgressReadSeeker{ProgressReader: NewProgressReader(rs, total, fn), rs: rs}
}

func (p *ProgressReadSeeker) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.rs.Seek(offset, whence)
	if err == nil {
		p.done.Store(pos)
	}
	return pos, err
}

// Fraction converts done/total to a value clamped to [0,1].
func Fraction(done, total int64) float64 {
	if total <= 0 {
		return 0
	}
	f := float64(done) / float64(total)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
